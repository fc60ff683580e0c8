package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"platter/internal/fileutil"
	"platter/internal/logging"
)

func newTranscodeCommand(ctx *commandContext) *cobra.Command {
	var bitrate int

	cmd := &cobra.Command{
		Use:   "transcode <in> <out>",
		Short: "Convert a capture; the output format follows the output extension",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := ctx.loggerFor(cmd)
			ff, err := ctx.newFFmpeg(logger)
			if err != nil {
				return err
			}
			in, out := args[0], args[1]
			if _, err := os.Stat(in); err != nil {
				return fmt.Errorf("input: %w", err)
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			if err := ff.Transcode(cmd.Context(), in, out, bitrate); err != nil {
				return err
			}
			size, err := fileutil.NonEmpty(out)
			if err != nil {
				return fmt.Errorf("transcode produced no output: %w", err)
			}
			logger.Info("transcode complete",
				logging.String(logging.FieldEventType, "transcode_complete"),
				logging.String("input", in),
				logging.String("output", out),
				logging.Int64("bytes", size),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s)\n", out, humanize.Bytes(uint64(size)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&bitrate, "bitrate", "b", 0, "Bitrate in kbps for lossy formats (defaults to audio.bitrate_kbps)")
	return cmd
}
