// Command platter turns side-long vinyl captures into a per-track album
// library.
//
// A typical session registers each side capture, pulls track titles from
// MusicBrainz, adjusts the track start offsets by hand and builds:
//
//	platter add kind-of-blue/album.yml captures/side-a.wav
//	platter add kind-of-blue/album.yml captures/side-b.wav
//	platter merge kind-of-blue/album.yml 8e6e8c8a-...
//	$EDITOR kind-of-blue/album.yml
//	platter build kind-of-blue/album.yml
//
// Configuration is read from --config, ~/.config/platter/config.toml or
// ./platter.toml. "platter config init" writes a commented sample.
package main
