package filmfs

import (
	"context"
	"errors"
	"io"
	"os"
	"syscall"
	"time"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"

	"github.com/nniemeir/filmFS/internal/watch"
	"github.com/nniemeir/filmFS/library"
)

const (
	dirMode  = os.ModeDir | 0o755 // RWX for owner, RX otherwise
	fileMode = os.FileMode(0o644) // RW for owner, R otherwise
)

var (
	_ fusefs.FS             = (*FS)(nil)
	_ fusefs.Node           = (*Dir)(nil)
	_ fusefs.Node           = (*File)(nil)
	_ fusefs.HandleReader   = (*FileHandle)(nil)
	_ fusefs.HandleReleaser = (*FileHandle)(nil)
)

// FS implements the filmFS FUSE filesystem: a flat, read-only view of
// the video library with watch detection on reads.
type FS struct {
	catalog  *library.Catalog
	detector *watch.Detector
	uid      uint32
	gid      uint32
}

// NewFS creates a new filmFS filesystem instance serving the given
// catalog. Files are reported as owned by the running process.
func NewFS(catalog *library.Catalog, detector *watch.Detector) *FS {
	return &FS{
		catalog:  catalog,
		detector: detector,
		uid:      uint32(os.Getuid()),
		gid:      uint32(os.Getgid()),
	}
}

// Root returns the root directory node.
func (f *FS) Root() (fusefs.Node, error) {
	return &Dir{fs: f}, nil
}

// Dir is the mount root. The library is flat, so it is the only
// directory in the filesystem.
type Dir struct {
	fs *FS
}

// Attr returns directory attributes.
func (d *Dir) Attr(ctx context.Context, a *fuse.Attr) error {
	now := time.Now()
	a.Mode = dirMode
	a.Nlink = 2
	a.Atime = now
	a.Mtime = now
	a.Ctime = now
	a.Uid = d.fs.uid
	a.Gid = d.fs.gid
	return nil
}

// Lookup resolves a name in the mount root against the catalog.
func (d *Dir) Lookup(ctx context.Context, name string) (fusefs.Node, error) {
	entry, ok := d.fs.catalog.Lookup(name)
	if !ok {
		return nil, syscall.ENOENT
	}
	return &File{fs: d.fs, entry: entry}, nil
}

// ReadDirAll lists every cataloged video, in catalog order.
func (d *Dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	dirents := make([]fuse.Dirent, 0, d.fs.catalog.Len()+2)
	dirents = append(dirents,
		fuse.Dirent{Name: ".", Type: fuse.DT_Dir},
		fuse.Dirent{Name: "..", Type: fuse.DT_Dir},
	)
	for _, entry := range d.fs.catalog.Entries() {
		dirents = append(dirents, fuse.Dirent{
			Name: entry.Name,
			Type: fuse.DT_File,
		})
	}
	return dirents, nil
}

// File is one cataloged video.
type File struct {
	fs    *FS
	entry library.Entry
}

// Attr returns file attributes. The size is taken from the backing file
// on every call rather than cached at scan time.
func (f *File) Attr(ctx context.Context, a *fuse.Attr) error {
	info, err := os.Stat(f.entry.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return syscall.ENOENT
		}
		return err
	}

	now := time.Now()
	a.Mode = fileMode
	a.Nlink = 1
	a.Size = uint64(info.Size())
	a.Atime = now
	a.Mtime = now
	a.Ctime = now
	a.Uid = f.fs.uid
	a.Gid = f.fs.gid
	return nil
}

// Open opens the backing file read-only and returns the owning handle.
func (f *File) Open(ctx context.Context, req *fuse.OpenRequest, resp *fuse.OpenResponse) (fusefs.Handle, error) {
	if req.Flags&fuse.OpenWriteOnly != 0 || req.Flags&fuse.OpenReadWrite != 0 {
		return nil, syscall.EPERM
	}

	file, err := os.Open(f.entry.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, syscall.ENOENT
		}
		return nil, err
	}

	return &FileHandle{fs: f.fs, entry: f.entry, file: file}, nil
}

// FileHandle owns the descriptor for one open file session. Reads use
// positioned I/O, so handles share no file-position state.
type FileHandle struct {
	fs    *FS
	entry library.Entry
	file  *os.File
}

// Read serves one read request. The watch check runs first: if the
// reporting process's identity cannot be established the read fails,
// and if recording the watch fails the read faults. Reads at or past
// end-of-file return zero bytes as success.
func (fh *FileHandle) Read(ctx context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	title := library.Title(fh.entry.Name)
	if err := fh.fs.detector.Observe(ctx, req.Pid, title); err != nil {
		if errors.Is(err, watch.ErrIdentity) {
			return syscall.EIO
		}
		return syscall.EFAULT
	}

	buf := make([]byte, req.Size)
	read := 0
	for read < len(buf) {
		n, err := fh.file.ReadAt(buf[read:], req.Offset+int64(read))
		read += n
		if err == io.EOF {
			break
		}
		if err != nil {
			return syscall.EIO
		}
	}

	resp.Data = buf[:read]
	return nil
}

// Release closes the backing descriptor.
func (fh *FileHandle) Release(ctx context.Context, req *fuse.ReleaseRequest) error {
	return fh.file.Close()
}
