// Package filmfs implements a FUSE-based read-only filesystem over a
// flat directory of video files.
//
// The mount root lists every video cataloged at startup; there are no
// subdirectories and no write support. Four operations are served:
// attribute lookup, directory listing, open, and read. File sizes are
// stated from the backing file on every attribute query, so a file that
// grew after the scan reports its current size.
//
// Every read additionally passes through the watch detector, which
// records a viewing in the watch-history database the first time a
// recognized media-player process reads a file. Repeated reads from the
// same process are suppressed.
//
// The main entry point is NewFS() which creates a filesystem instance
// that can be mounted using the bazil.org/fuse library.
package filmfs
