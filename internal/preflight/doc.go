// Package preflight provides readiness checks for the external binaries,
// directories and metadata service platter depends on.
//
// The CLI "platter status" command renders every result. "platter build"
// runs the binary checks first so a missing ffmpeg fails before any side
// is probed.
package preflight
