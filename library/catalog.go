package library

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// initialCapacity is the number of entry slots allocated up front.
// Go's append handles further growth without losing stored entries.
const initialCapacity = 64

// videoExtensions is the set of recognized video file extensions,
// compared lower-cased and without the leading dot.
var videoExtensions = map[string]struct{}{
	"3gp":  {},
	"avi":  {},
	"flv":  {},
	"ogv":  {},
	"m4v":  {},
	"mov":  {},
	"mkv":  {},
	"mp4":  {},
	"mpg":  {},
	"mpeg": {},
	"webm": {},
}

// Entry is one video file in the catalog: the bare filename as shown in
// the mount, and the absolute path to the backing file.
type Entry struct {
	Name string
	Path string
}

// Catalog holds the ordered list of video files found in the library
// directory. It is built once at startup and read-only afterwards, so
// concurrent lookups need no locking.
type Catalog struct {
	entries []Entry
}

// Scan enumerates the library directory and catalogs every regular file
// with a recognized video extension. Directories, symlinks, and other
// special files are skipped. Entries keep enumeration order.
func Scan(dir string) (*Catalog, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning library %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scanning library %s: %w", dir, ErrNotDirectory)
	}

	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning library %s: %w", dir, err)
	}

	entries := make([]Entry, 0, initialCapacity)
	for _, de := range dirents {
		if !de.Type().IsRegular() {
			continue
		}
		if !HasVideoExtension(de.Name()) {
			continue
		}
		entries = append(entries, Entry{
			Name: de.Name(),
			Path: filepath.Join(dir, de.Name()),
		})
	}

	return &Catalog{entries: entries}, nil
}

// Lookup finds a catalog entry by its display name.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	for _, e := range c.entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Entries returns the cataloged files in enumeration order. The caller
// must not modify the returned slice.
func (c *Catalog) Entries() []Entry {
	return c.entries
}

// Len returns the number of cataloged files.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// HasVideoExtension reports whether filename carries a recognized video
// extension. A file without any extension is not a video.
func HasVideoExtension(filename string) bool {
	dot := strings.LastIndexByte(filename, '.')
	if dot < 0 {
		return false
	}
	_, ok := videoExtensions[strings.ToLower(filename[dot+1:])]
	return ok
}

// Title returns the display name with its extension removed. It is the
// key used for watch-history records.
func Title(name string) string {
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 {
		return name
	}
	return name[:dot]
}
