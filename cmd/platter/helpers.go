package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"platter/internal/album"
)

// documentPath accepts an album document path or a directory holding
// album.yml.
func documentPath(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", errors.New("album document path is required")
	}
	if info, err := os.Stat(arg); err == nil && info.IsDir() {
		arg = filepath.Join(arg, album.DefaultFileName)
	}
	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", arg, err)
	}
	return abs, nil
}

// loadOrNew loads the document at path, or starts an empty album when the
// file does not exist yet.
func loadOrNew(path string) (*album.Album, bool, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return album.New(path), false, nil
	}
	a, err := album.Load(path)
	if err != nil {
		return nil, true, err
	}
	return a, true, nil
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
