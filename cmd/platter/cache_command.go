package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"platter/internal/musicbrainz"
	"platter/internal/releasecache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the local MusicBrainz release cache",
	}
	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

func openCacheOrExplain(ctx *commandContext, cmd *cobra.Command) (*releasecache.Store, error) {
	store, err := ctx.releaseCache()
	if err != nil {
		return nil, err
	}
	if store == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Release cache is disabled (musicbrainz.cache_enabled = false)")
	}
	return store, nil
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached releases",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openCacheOrExplain(ctx, cmd)
			if err != nil || store == nil {
				return err
			}
			entries, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "Release cache is empty")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				fetched := ""
				if !e.FetchedAt.IsZero() {
					fetched = humanize.Time(e.FetchedAt)
				}
				rows = append(rows, []string{e.ReleaseID, e.Artist, e.Title, strconv.Itoa(e.TrackCount), fetched})
			}
			fmt.Fprintln(out, renderTable(out, []string{"Release", "Artist", "Title", "Tracks", "Fetched"}, rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft}))
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear [release-id]",
		Short: "Remove one cached release, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openCacheOrExplain(ctx, cmd)
			if err != nil || store == nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				id, err := musicbrainz.NormalizeReleaseID(args[0])
				if err != nil {
					return err
				}
				removed, err := store.Remove(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !removed {
					fmt.Fprintf(out, "Release %s was not cached\n", id)
					return nil
				}
				fmt.Fprintf(out, "Removed release %s from the cache\n", id)
				return nil
			}
			n, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Removed %s from the cache\n", pluralize(int(n), "release", "releases"))
			return nil
		},
	}
}
