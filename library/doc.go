// Package library builds the in-memory catalog of video files served by
// the filmFS mount.
//
// The catalog is built exactly once at startup by scanning a single flat
// library directory. Only regular files whose extension matches a fixed
// set of video formats are included; the match is case-insensitive.
// After the scan the catalog is immutable, so filesystem callbacks can
// consult it concurrently without locking. There is no live refresh: a
// file added to the library directory appears after the next mount.
package library
