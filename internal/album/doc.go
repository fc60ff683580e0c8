// Package album models one vinyl album document: the album metadata and its
// ordered sides, each holding ordered tracks with start offsets.
//
// Documents are YAML. Load validates the structure and reports problems as
// *ConfigError naming the side and track at fault. Save writes a canonical
// rendering so that save, load and save again yields identical bytes.
//
// Track state drives metadata merging: placeholder tracks are filled from a
// fetched release, merged tracks are only rewritten on request, and manual
// tracks (including tracks with no state) are never touched.
package album
