package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"platter/internal/album"
	"platter/internal/logging"
	"platter/internal/merge"
	"platter/internal/musicbrainz"
	"platter/internal/services"
	"platter/internal/textutil"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var normalize bool

	cmd := &cobra.Command{
		Use:   "add <album.yml> <source>",
		Short: "Register a side capture as a placeholder side",
		Long: "Append a side for the capture to the album document, creating the document if needed.\n" +
			"The side starts with one placeholder track; add track starts by hand and run merge to fill titles.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cmd.SetContext(services.WithStage(cmd.Context(), "add"))
			logger := ctx.loggerFor(cmd)

			docPath, err := documentPath(args[0])
			if err != nil {
				return err
			}
			a, _, err := loadOrNew(docPath)
			if err != nil {
				return err
			}

			source, err := filepath.Abs(strings.TrimSpace(args[1]))
			if err != nil {
				return fmt.Errorf("resolve source: %w", err)
			}
			if _, err := os.Stat(source); err != nil {
				return fmt.Errorf("source capture: %w", err)
			}

			if normalize {
				ff, err := ctx.newFFmpeg(logger)
				if err != nil {
					return err
				}
				base := textutil.SanitizeFileName(strings.TrimSuffix(filepath.Base(source), filepath.Ext(source)))
				normalized := filepath.Join(cfg.Paths.WorkDir, base+".flac")
				logger.Info("normalizing capture",
					logging.String(logging.FieldEventType, "normalize_start"),
					logging.String("source", source),
					logging.String("output", normalized),
				)
				if err := ff.Transcode(cmd.Context(), source, normalized, 0); err != nil {
					return err
				}
				source = normalized
			}

			updated, err := album.AddDefaultEntry(a, documentRelative(a.Dir, source))
			if err != nil {
				return err
			}
			if err := album.Save(updated, docPath); err != nil {
				return err
			}

			side := updated.Sides[len(updated.Sides)-1]
			logger.Info("side registered",
				logging.String(logging.FieldEventType, "side_added"),
				logging.Int(logging.FieldSide, side.Index),
				logging.String("source", side.Source),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Added side %d (track %d, placeholder) from %s\n",
				side.Index, side.Tracks[0].Number, side.Source)
			fmt.Fprintf(cmd.OutOrStdout(), "Album document: %s\n", docPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&normalize, "normalize", false, "Transcode the capture to FLAC in work_dir before registering it")
	return cmd
}

// documentRelative stores sources under the document directory as relative
// paths so album folders can be moved as a whole.
func documentRelative(dir, path string) string {
	if dir == "" {
		return path
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

func newMergeCommand(ctx *commandContext) *cobra.Command {
	var refresh bool
	var noCache bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "merge <album.yml> [release-id]",
		Short: "Fill placeholder tracks from a MusicBrainz release",
		Long: "Fetch the release (from the local cache when possible) and pair its tracks with the album tracks in order.\n" +
			"Placeholder tracks take the release data, manual tracks are never changed and merged tracks are\n" +
			"only updated with --refresh. The release id may be a MusicBrainz release URL.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(services.WithStage(cmd.Context(), "merge"))
			logger := ctx.loggerFor(cmd)

			docPath, err := documentPath(args[0])
			if err != nil {
				return err
			}
			a, err := album.Load(docPath)
			if err != nil {
				return err
			}

			releaseArg := a.ReleaseID
			if len(args) == 2 {
				releaseArg = args[1]
			}
			if strings.TrimSpace(releaseArg) == "" {
				return fmt.Errorf("no release id: pass one or set release_id in %s", docPath)
			}
			releaseID, err := musicbrainz.NormalizeReleaseID(releaseArg)
			if err != nil {
				return err
			}

			fetcher, err := ctx.newFetcher(cmd, noCache)
			if err != nil {
				return err
			}
			release, err := fetcher.Fetch(cmd.Context(), releaseID)
			if err != nil {
				return err
			}

			merged, report, err := merge.Merge(a, release, merge.Options{Refresh: refresh})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderMergeReport(out, report))
			for _, t := range report.Tracks {
				if t.Suspect {
					logging.WarnWithContext(logger, "kept title differs from release", "merge_suspect_pairing",
						logging.Int(logging.FieldTrack, t.Number),
						logging.String("title", t.Title),
						logging.String("release_title", t.ReleaseTitle),
						logging.String(logging.FieldImpact, "tracks may be paired with the wrong release entries"),
						logging.String(logging.FieldErrorHint, "check the track order in the album document"),
					)
				}
			}
			if len(report.AlbumFields) > 0 {
				fmt.Fprintf(out, "Album fields filled: %s\n", strings.Join(report.AlbumFields, ", "))
			}

			if !report.Changed() {
				fmt.Fprintln(out, "Nothing to merge; album document unchanged")
				return nil
			}
			if dryRun {
				fmt.Fprintln(out, "Dry run; album document not written")
				return nil
			}
			if err := album.Save(merged, docPath); err != nil {
				return err
			}
			logger.Info("release merged",
				logging.String(logging.FieldEventType, "merge_complete"),
				logging.String("release_id", release.ID),
				logging.Int("filled", report.Count(merge.OutcomeFilled)),
				logging.Int("refreshed", report.Count(merge.OutcomeRefreshed)),
			)
			fmt.Fprintf(out, "Merged %s into %s\n", pluralize(report.Count(merge.OutcomeFilled)+report.Count(merge.OutcomeRefreshed), "track", "tracks"), docPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Re-apply release data to tracks already merged")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Fetch the release from MusicBrainz even if it is cached, and update the cache")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the merge report without writing the document")
	return cmd
}

func renderMergeReport(w io.Writer, report merge.Report) string {
	rows := make([][]string, 0, len(report.Tracks))
	for _, t := range report.Tracks {
		outcome := string(t.Outcome)
		if t.Suspect {
			outcome += " (!)"
		}
		rows = append(rows, []string{
			strconv.Itoa(t.Side),
			strconv.Itoa(t.Number),
			t.Title,
			t.ReleaseTitle,
			outcome,
		})
	}
	return renderTable(w, []string{"Side", "#", "Title", "Release title", "Outcome"}, rows,
		[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignLeft})
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "show <album.yml>",
		Short:       "Show the sides and tracks of an album document",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			docPath, err := documentPath(args[0])
			if err != nil {
				return err
			}
			a, err := album.Load(docPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Album:   %s\n", valueOr(a.Title, "(untitled)"))
			fmt.Fprintf(out, "Artist:  %s\n", valueOr(a.Artist, "(unknown)"))
			if a.ReleaseID != "" {
				fmt.Fprintf(out, "Release: %s\n", a.ReleaseID)
			}
			if a.Date != "" {
				fmt.Fprintf(out, "Date:    %s\n", a.Date)
			}
			if a.Cover != "" {
				fmt.Fprintf(out, "Cover:   %s\n", a.Cover)
			}
			fmt.Fprintf(out, "Sides:   %d, %s\n\n", len(a.Sides), pluralize(a.TrackCount(), "track", "tracks"))

			var rows [][]string
			for _, side := range a.Sides {
				for i, t := range side.Tracks {
					end, length := "", ""
					var endOffset album.Offset
					switch {
					case t.End != nil:
						endOffset = *t.End
					case i+1 < len(side.Tracks):
						endOffset = side.Tracks[i+1].Start
					case side.Duration > 0:
						endOffset = side.Duration
					}
					if endOffset > 0 {
						end = endOffset.String()
						length = (endOffset - t.Start).String()
					}
					rows = append(rows, []string{
						strconv.Itoa(side.Index),
						strconv.Itoa(t.Number),
						t.Start.String(),
						end,
						length,
						t.Title,
						a.TrackArtist(t),
						string(t.EffectiveState()),
					})
				}
			}
			fmt.Fprintln(out, renderTable(out, []string{"Side", "#", "Start", "End", "Length", "Title", "Artist", "State"}, rows,
				[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft, alignLeft, alignLeft}))
			return nil
		},
	}
}
