package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"platter/internal/album"
	"platter/internal/builder"
	"platter/internal/config"
	"platter/internal/deps"
	"platter/internal/logging"
	"platter/internal/preflight"
	"platter/internal/services"
	"platter/internal/tagging"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var outputDir string
	var keepGoing bool
	var workers int

	cmd := &cobra.Command{
		Use:   "build <album.yml>",
		Short: "Slice, tag and write the album into the library",
		Long: "Write {output}/{Album}/{NN} - {Title}.{ext} for every track. Probed side durations are saved\n" +
			"back into the album document. Already written tracks are never removed on failure.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.loggerFor(cmd)

			docPath, err := documentPath(args[0])
			if err != nil {
				return err
			}
			a, err := album.Load(docPath)
			if err != nil {
				return err
			}

			if missing := deps.Missing(preflight.CheckSystemDeps(cmd.Context(), cfg)); len(missing) > 0 {
				names := make([]string, 0, len(missing))
				for _, m := range missing {
					names = append(names, fmt.Sprintf("%s (%s)", m.Name, m.Detail))
				}
				return services.Wrap(services.ErrExternalTool, "build", "preflight",
					"missing "+strings.Join(names, ", "), nil)
			}

			output := strings.TrimSpace(outputDir)
			if output == "" {
				output = cfg.Paths.LibraryDir
			} else if output, err = config.ExpandPath(output); err != nil {
				return fmt.Errorf("resolve output directory: %w", err)
			}
			if output == "" {
				return services.Wrap(services.ErrConfiguration, "build", "output", "no output directory: set paths.library_dir or pass --output", nil)
			}

			ff, err := ctx.newFFmpeg(logger)
			if err != nil {
				return err
			}
			if workers <= 0 {
				workers = cfg.Audio.Workers
			}
			b, err := builder.New(ff, ff, tagging.New(logger), builder.Options{
				Extension:    ff.Extension(),
				Workers:      workers,
				KeepGoing:    keepGoing,
				EmbedCover:   cfg.Artwork.Embed,
				CoverMaxSize: cfg.Artwork.MaxSize,
				DefaultTags:  cfg.AlbumTags(),
				Logger:       ctx.runLogger(cmd),
			})
			if err != nil {
				return err
			}

			before := sideDurations(a)
			manifest, buildErr := b.Build(cmd.Context(), a, output)

			if changed(before, sideDurations(a)) {
				if err := album.Save(a, docPath); err != nil {
					logging.ErrorWithContext(logger, "failed to save probed durations", "album_save_failed",
						logging.Error(err),
						logging.String(logging.FieldErrorHint, "check permissions on the album document"),
					)
					if buildErr == nil {
						return err
					}
				}
			}

			out := cmd.OutOrStdout()
			if len(manifest.Entries) > 0 {
				fmt.Fprintln(out, renderManifest(out, manifest))
				fmt.Fprintln(out, summarizeManifest(manifest))
			}
			return buildErr
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Library root (defaults to paths.library_dir)")
	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "Continue with later sides after a side fails")
	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "Tracks processed concurrently per side (defaults to audio.workers)")
	return cmd
}

func sideDurations(a *album.Album) []album.Offset {
	out := make([]album.Offset, len(a.Sides))
	for i, side := range a.Sides {
		out[i] = side.Duration
	}
	return out
}

func changed(before, after []album.Offset) bool {
	if len(before) != len(after) {
		return true
	}
	for i := range before {
		if before[i] != after[i] {
			return true
		}
	}
	return false
}

func renderManifest(w io.Writer, m builder.Manifest) string {
	rows := make([][]string, 0, len(m.Entries))
	for _, e := range m.Entries {
		rng := ""
		if e.EndMs > e.StartMs {
			rng = album.Offset(e.StartMs).String() + " - " + album.Offset(e.EndMs).String()
		}
		size := ""
		if e.Status == builder.StatusWritten {
			size = humanize.Bytes(uint64(e.Size))
		}
		note := filepath.Base(e.Path)
		if e.Err != nil {
			note = errorSummary(e.Err)
		}
		rows = append(rows, []string{
			strconv.Itoa(e.Side),
			strconv.Itoa(e.Number),
			e.Title,
			rng,
			string(e.Status),
			size,
			note,
		})
	}
	return renderTable(w, []string{"Side", "#", "Title", "Range", "Status", "Size", "File"}, rows,
		[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft})
}

func summarizeManifest(m builder.Manifest) string {
	written := m.Count(builder.StatusWritten)
	summary := fmt.Sprintf("Wrote %s (%s) to %s", pluralize(written, "track", "tracks"),
		humanize.Bytes(uint64(m.TotalBytes())), m.AlbumDir)
	if failed := m.Count(builder.StatusFailed); failed > 0 {
		summary += fmt.Sprintf("; %d failed", failed)
	}
	if skipped := m.Count(builder.StatusSkipped); skipped > 0 {
		summary += fmt.Sprintf("; %d skipped", skipped)
	}
	if m.CoverPath != "" {
		summary += "; cover " + filepath.Base(m.CoverPath)
	}
	return summary
}

// errorSummary trims an error to its last, most specific segment.
func errorSummary(err error) string {
	var buildErr *builder.BuildError
	if errors.As(err, &buildErr) && buildErr.Err != nil {
		err = buildErr.Err
	}
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 && i+2 < len(msg) {
		msg = msg[i+2:]
	}
	return msg
}
