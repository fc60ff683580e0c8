// Package releasecache persists fetched release metadata in SQLite, keyed by
// release id, so merges can be re-run offline.
package releasecache
