// Package textutil provides text helpers for library output: filename
// sanitization, placeholder titles derived from capture file names, and a
// token similarity score for comparing track titles.
package textutil
