// Package tagging writes per-track metadata into finished audio files.
//
// The format is picked from the file extension: MP3 files get ID3v2.4 frames,
// FLAC files get a rewritten Vorbis comment block plus an optional front-cover
// picture block, and Ogg Vorbis, Opus and M4A files go through TagLib.
package tagging
