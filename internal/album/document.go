package album

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"platter/internal/fileutil"
)

// DefaultFileName is the document name used when a directory is given.
const DefaultFileName = "album.yml"

// Load reads and validates the album document at path.
func Load(path string) (*Album, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Reason: "resolve path", Err: err}
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, &ConfigError{Path: abs, Reason: "read document", Err: err}
	}
	a, err := Decode(data)
	if err != nil {
		return nil, withPath(err, abs)
	}
	a.Dir = filepath.Dir(abs)
	if err := Validate(a); err != nil {
		return nil, withPath(err, abs)
	}
	return a, nil
}

// Decode parses a document without validating it. Unknown keys are rejected.
func Decode(data []byte) (*Album, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var a Album
	if err := dec.Decode(&a); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ConfigError{Reason: "empty document"}
		}
		return nil, &ConfigError{Reason: "malformed document", Err: err}
	}
	return &a, nil
}

// Encode renders a in canonical form: struct field order, sorted map keys,
// two-space indentation and clock-form offsets.
func Encode(a *Album) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(a); err != nil {
		return nil, fmt.Errorf("encode album: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode album: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes a to path through a temporary file in the same directory so an
// interrupted write never leaves a truncated document.
func Save(a *Album, path string) error {
	if a == nil {
		return errors.New("save album: nil album")
	}
	data, err := Encode(a)
	if err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("save album: %w", err)
	}
	return nil
}

// New returns an empty album rooted at the directory of documentPath.
func New(documentPath string) *Album {
	a := &Album{}
	if abs, err := filepath.Abs(documentPath); err == nil {
		a.Dir = filepath.Dir(abs)
	}
	return a
}
