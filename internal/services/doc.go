// Package services defines shared utilities consumed by the album pipeline and
// its external collaborators.
//
// Key responsibilities:
//   - Context helpers that stamp side indexes, track numbers, stage names, and
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper so collaborator failures
//     (ffmpeg, taggers, the metadata service) carry consistent context and can
//     be classified with errors.Is.
//
// Use these helpers when wiring new collaborators so error handling and
// observability stay uniform across commands.
package services
