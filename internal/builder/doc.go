// Package builder materializes an album document into per-track library
// files.
//
// Build validates the album, creates outputRoot/{AlbumTitle}, writes the
// cover, and then walks the sides in order. For each side it probes the
// capture, segments it at the track starts, and slices and tags the tracks
// through a bounded worker pool. Every track is written to a hidden partial
// file and renamed onto its final name only after tagging succeeds, so a
// final path never holds a half-written file.
//
// On failure, the first failing track of
// a side stops tracks that have not started yet, tracks already running are
// allowed to finish, and nothing that was already written is removed. By
// default no further sides are attempted; Options.KeepGoing continues with
// the remaining sides and joins the errors.
package builder
