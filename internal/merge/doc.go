// Package merge folds fetched release metadata into an album document
// without overriding manual edits.
//
// Merging is deterministic and idempotent: merging the same release twice
// yields the same album. A release whose track count differs from the album
// fails with *MismatchError and leaves the album unchanged.
package merge
