package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"platter/internal/audio"
	"platter/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Create, check and print platter settings",
	}
	configCmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand(ctx))
	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the sample settings file and print the settings it yields",
		Long: "Write the commented sample config.toml (default ~/.config/platter/config.toml), then load it\n" +
			"back and print the effective [paths], [audio] and [musicbrainz] values.",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := initTarget(targetPath)
			if err != nil {
				return err
			}
			if _, err := os.Stat(target); err == nil && !overwrite {
				return fmt.Errorf("%s already exists; pass --overwrite to replace it", target)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("inspect %s: %w", target, err)
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("create settings directory: %w", err)
			}
			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("write sample settings: %w", err)
			}

			cfg, _, _, err := config.Load(target)
			if err != nil {
				return fmt.Errorf("sample settings do not load: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n\n", target)
			printEffectiveConfig(out, cfg)
			fmt.Fprintln(out, "\nSet musicbrainz.user_agent (or export PLATTER_MUSICBRAINZ_USER_AGENT) before running merge.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Where to write config.toml")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

func initTarget(flag string) (string, error) {
	if flag = strings.TrimSpace(flag); flag != "" {
		target, err := config.ExpandPath(flag)
		if err != nil {
			return "", fmt.Errorf("resolve %s: %w", flag, err)
		}
		return target, nil
	}
	target, err := config.DefaultConfigPath()
	if err != nil {
		return "", fmt.Errorf("locate default settings path: %w", err)
	}
	return target, nil
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the settings, create their directories and print the effective values",
		// Loads on its own so a broken file is reported here rather than by
		// the root pre-run hook.
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if ctx.configFlag != nil {
				path = strings.TrimSpace(*ctx.configFlag)
			}
			cfg, resolved, exists, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("create configured directories: %w", err)
			}

			out := cmd.OutOrStdout()
			source := resolved
			if !exists {
				source += " (not found, built-in defaults)"
			}
			fmt.Fprintf(out, "Settings: %s\n\n", source)
			printEffectiveConfig(out, cfg)
			if cfg.Audio.SliceCommand != "" {
				fmt.Fprintln(out, "\naudio.slice_command replaces the built-in ffmpeg profile for slicing")
			}
			fmt.Fprintln(out, "\nConfiguration valid")
			return nil
		},
	}
}

// printEffectiveConfig lists the resolved settings that decide where files
// go and how tracks are encoded.
func printEffectiveConfig(w io.Writer, cfg *config.Config) {
	encoding := cfg.Audio.Format
	if profile, ok := audio.LookupProfile(cfg.Audio.Format); ok {
		if profile.Lossless {
			encoding += " (lossless, " + profile.Extension + ")"
		} else {
			encoding += fmt.Sprintf(" (%d kbps, %s)", cfg.Audio.BitrateKbps, profile.Extension)
		}
	}
	cache := "disabled"
	if path := cfg.ReleaseCachePath(); path != "" {
		cache = path
	}

	rows := [][]string{
		{"paths.library_dir", cfg.Paths.LibraryDir},
		{"paths.work_dir", cfg.Paths.WorkDir},
		{"paths.log_dir", cfg.Paths.LogDir},
		{"audio.format", encoding},
		{"audio.workers", strconv.Itoa(cfg.Audio.Workers)},
		{"audio.ffmpeg_binary", cfg.Audio.FFmpegBinary},
		{"audio.ffprobe_binary", cfg.Audio.FFprobeBinary},
		{"artwork", fmt.Sprintf("max %dpx, embed %s", cfg.Artwork.MaxSize, yesNo(cfg.Artwork.Embed))},
		{"musicbrainz.base_url", cfg.MusicBrainz.BaseURL},
		{"musicbrainz.user_agent", cfg.MusicBrainz.UserAgent},
		{"release cache", cache},
	}
	tags := cfg.AlbumTags()
	keys := make([]string, 0, len(tags))
	for key := range tags {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		rows = append(rows, []string{"tags." + key, tags[key]})
	}

	fmt.Fprintln(w, renderTable(w, []string{"Setting", "Value"}, rows, nil))
}
