package filmfs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"bazil.org/fuse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nniemeir/filmFS/internal/watch"
	"github.com/nniemeir/filmFS/library"
)

type stubIdentifier struct {
	names map[uint32]string
	err   error
}

func (s *stubIdentifier) CommandName(pid uint32) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.names[pid], nil
}

type captureRecorder struct {
	titles []string
	err    error
}

func (c *captureRecorder) RecordWatch(_ context.Context, title string) error {
	if c.err != nil {
		return c.err
	}
	c.titles = append(c.titles, title)
	return nil
}

// newTestFS builds a filesystem over a scratch library containing the
// given files, with process identities controlled by names.
func newTestFS(t *testing.T, files map[string][]byte, names map[uint32]string) (*FS, *captureRecorder, string) {
	t.Helper()
	dir := t.TempDir()
	for name, data := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}

	catalog, err := library.Scan(dir)
	require.NoError(t, err)

	rec := &captureRecorder{}
	detector := watch.NewDetector(
		[]string{"demux", "vlc:disk$0"},
		&stubIdentifier{names: names},
		rec,
	)
	return NewFS(catalog, detector), rec, dir
}

func openHandle(t *testing.T, fs *FS, name string, pid uint32) *FileHandle {
	t.Helper()
	root, err := fs.Root()
	require.NoError(t, err)

	node, err := root.(*Dir).Lookup(context.Background(), name)
	require.NoError(t, err)

	req := &fuse.OpenRequest{Header: fuse.Header{Pid: pid}, Flags: fuse.OpenReadOnly}
	handle, err := node.(*File).Open(context.Background(), req, &fuse.OpenResponse{})
	require.NoError(t, err)

	fh := handle.(*FileHandle)
	t.Cleanup(func() { fh.Release(context.Background(), &fuse.ReleaseRequest{}) })
	return fh
}

func readAt(t *testing.T, fh *FileHandle, pid uint32, size int, offset int64) ([]byte, error) {
	t.Helper()
	req := &fuse.ReadRequest{Header: fuse.Header{Pid: pid}, Size: size, Offset: offset}
	resp := &fuse.ReadResponse{}
	if err := fh.Read(context.Background(), req, resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func TestDirAttr(t *testing.T) {
	fs, _, _ := newTestFS(t, nil, nil)

	var attr fuse.Attr
	require.NoError(t, (&Dir{fs: fs}).Attr(context.Background(), &attr))

	assert.True(t, attr.Mode.IsDir())
	assert.Equal(t, os.FileMode(0o755), attr.Mode.Perm())
	assert.Equal(t, uint32(2), attr.Nlink)
	assert.Equal(t, uint32(os.Getuid()), attr.Uid)
	assert.Equal(t, uint32(os.Getgid()), attr.Gid)
}

func TestFileAttr_SizeFromBackingFile(t *testing.T) {
	data := []byte("0123456789")
	fs, _, _ := newTestFS(t, map[string][]byte{"clip.mp4": data}, nil)

	node, err := (&Dir{fs: fs}).Lookup(context.Background(), "clip.mp4")
	require.NoError(t, err)

	var attr fuse.Attr
	require.NoError(t, node.Attr(context.Background(), &attr))

	assert.True(t, attr.Mode.IsRegular())
	assert.Equal(t, os.FileMode(0o644), attr.Mode.Perm())
	assert.Equal(t, uint32(1), attr.Nlink)
	assert.Equal(t, uint64(len(data)), attr.Size)
}

func TestFileAttr_VanishedBackingFile(t *testing.T) {
	fs, _, dir := newTestFS(t, map[string][]byte{"clip.mp4": []byte("x")}, nil)

	node, err := (&Dir{fs: fs}).Lookup(context.Background(), "clip.mp4")
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(dir, "clip.mp4")))

	var attr fuse.Attr
	assert.Equal(t, syscall.ENOENT, node.Attr(context.Background(), &attr))
}

func TestLookup_UnknownName(t *testing.T) {
	fs, _, _ := newTestFS(t, map[string][]byte{"clip.mp4": []byte("x")}, nil)

	_, err := (&Dir{fs: fs}).Lookup(context.Background(), "missing.mp4")
	assert.Equal(t, syscall.ENOENT, err)
}

func TestReadDirAll_ListsCatalogInOrder(t *testing.T) {
	fs, _, _ := newTestFS(t, map[string][]byte{
		"alpha.mp4": []byte("a"),
		"beta.mkv":  []byte("b"),
	}, nil)

	dirents, err := (&Dir{fs: fs}).ReadDirAll(context.Background())
	require.NoError(t, err)

	names := make([]string, len(dirents))
	for i, de := range dirents {
		names[i] = de.Name
	}
	assert.Equal(t, []string{".", "..", "alpha.mp4", "beta.mkv"}, names)
}

func TestOpen_RejectsWriteAccess(t *testing.T) {
	fs, _, _ := newTestFS(t, map[string][]byte{"clip.mp4": []byte("x")}, nil)

	node, err := (&Dir{fs: fs}).Lookup(context.Background(), "clip.mp4")
	require.NoError(t, err)

	req := &fuse.OpenRequest{Flags: fuse.OpenReadWrite}
	_, err = node.(*File).Open(context.Background(), req, &fuse.OpenResponse{})
	assert.Equal(t, syscall.EPERM, err)
}

func TestRead_FullAndSpanningEOF(t *testing.T) {
	data := []byte("0123456789")
	fs, _, _ := newTestFS(t, map[string][]byte{"clip.mp4": data}, map[uint32]string{1: "cat"})
	fh := openHandle(t, fs, "clip.mp4", 1)

	got, err := readAt(t, fh, 1, 4, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte("0123"), got)

	// Spanning end-of-file yields the available bytes, not a full buffer.
	got, err = readAt(t, fh, 1, 8, 6)
	require.NoError(t, err)
	assert.Equal(t, []byte("6789"), got)
}

func TestRead_AtAndPastEOF(t *testing.T) {
	data := []byte("0123456789")
	fs, _, _ := newTestFS(t, map[string][]byte{"clip.mp4": data}, map[uint32]string{1: "cat"})
	fh := openHandle(t, fs, "clip.mp4", 1)

	got, err := readAt(t, fh, 1, 4, int64(len(data)))
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = readAt(t, fh, 1, 4, int64(len(data))+100)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRead_WatchSequence(t *testing.T) {
	fs, rec, _ := newTestFS(t,
		map[string][]byte{"x.mp4": []byte("0123456789")},
		map[uint32]string{
			101: "demux",
			102: "demux",
			201: "cp",
		})
	fh := openHandle(t, fs, "x.mp4", 101)

	// P1, P1 (suppressed), P2, P1: three watch records.
	for _, pid := range []uint32{101, 101, 102, 101} {
		_, err := readAt(t, fh, pid, 4, 0)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"x", "x", "x"}, rec.titles)

	// Unrecognized readers never record, whatever their pid.
	_, err := readAt(t, fh, 201, 4, 0)
	require.NoError(t, err)
	assert.Len(t, rec.titles, 3)
}

func TestRead_IdentityFailureFailsRead(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.mp4"), []byte("data"), 0o644))
	catalog, err := library.Scan(dir)
	require.NoError(t, err)

	rec := &captureRecorder{}
	detector := watch.NewDetector([]string{"demux"},
		&stubIdentifier{err: errors.New("proc unreadable")}, rec)
	fs := NewFS(catalog, detector)
	fh := openHandle(t, fs, "x.mp4", 1)

	_, err = readAt(t, fh, 1, 4, 0)
	assert.Equal(t, syscall.EIO, err)
	assert.Empty(t, rec.titles)
}

func TestRead_RecorderFailureFaultsRead(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.mp4"), []byte("data"), 0o644))
	catalog, err := library.Scan(dir)
	require.NoError(t, err)

	rec := &captureRecorder{err: errors.New("insert failed")}
	detector := watch.NewDetector([]string{"demux"},
		&stubIdentifier{names: map[uint32]string{101: "demux"}}, rec)
	fs := NewFS(catalog, detector)
	fh := openHandle(t, fs, "x.mp4", 101)

	_, err = readAt(t, fh, 101, 4, 0)
	assert.Equal(t, syscall.EFAULT, err)
}
