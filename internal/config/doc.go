// Package config loads, normalizes, and validates platter configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// PLATTER_MUSICBRAINZ_USER_AGENT. The Config type centralizes every knob the
// CLI needs: the library output root, ffmpeg/ffprobe binaries, MusicBrainz
// access and the default vinyl tags stamped on every track.
//
// This is the tool configuration. Per-album documents live in package album.
package config
