package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"platter/internal/audio"
	"platter/internal/config"
	"platter/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var online bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check ffmpeg, the library directories and the release cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg, preflight.Options{Online: online})

			var report statusReport
			tools := report.section("Encoding")
			tools.addResults(results, preflight.GroupTools)
			tools.add("Profile", levelNote, profileSummary(cfg))

			library := report.section("Library")
			library.addResults(results, preflight.GroupDirectories)
			library.add("Layout", levelNote, filepath.Join(cfg.Paths.LibraryDir, "{Album}", "{NN} - {Title}"+outputExtension(cfg)))
			library.add("Artwork", levelNote, fmt.Sprintf("max %dpx, embed %s", cfg.Artwork.MaxSize, yesNo(cfg.Artwork.Embed)))

			metadata := report.section("MusicBrainz")
			metadata.add("Service", levelNote, cfg.MusicBrainz.BaseURL)
			metadata.addResults(results, preflight.GroupNetwork)
			ctx.addCacheStatus(cmd, metadata)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, report.render(shouldColorize(out)))

			if failed := preflight.Failed(results); len(failed) > 0 {
				names := make([]string, 0, len(failed))
				for _, f := range failed {
					names = append(names, f.Name)
				}
				return errors.New("failed checks: " + strings.Join(names, ", "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&online, "online", false, "Also check that MusicBrainz answers")
	return cmd
}

func (c *commandContext) addCacheStatus(cmd *cobra.Command, s *reportSection) {
	store, err := c.releaseCache()
	switch {
	case err != nil:
		s.add("Release cache", levelFail, err.Error())
	case store == nil:
		s.add("Release cache", levelWarn, "disabled (musicbrainz.cache_enabled = false)")
	default:
		entries, err := store.List(cmd.Context())
		if err != nil {
			s.add("Release cache", levelFail, err.Error())
			return
		}
		s.add("Release cache", levelOK, fmt.Sprintf("%s in %s", pluralize(len(entries), "release", "releases"), store.Path()))
	}
}

func profileSummary(cfg *config.Config) string {
	profile, ok := audio.LookupProfile(cfg.Audio.Format)
	if !ok {
		return cfg.Audio.Format + " (unknown format)"
	}
	summary := profile.Format
	if profile.Lossless {
		summary += ", lossless"
	} else {
		summary += fmt.Sprintf(", %d kbps", cfg.Audio.BitrateKbps)
	}
	summary += fmt.Sprintf(", %d workers per side", cfg.Audio.Workers)
	if cfg.Audio.SliceCommand != "" {
		summary += ", custom slice_command"
	}
	return summary
}

func outputExtension(cfg *config.Config) string {
	if profile, ok := audio.LookupProfile(cfg.Audio.Format); ok {
		return profile.Extension
	}
	return "." + cfg.Audio.Format
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
