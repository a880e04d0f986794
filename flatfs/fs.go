package flatfs

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
	"github.com/dendrascience/toolshack/bucket"
)

var (
	_ fs.FS                 = (*FS)(nil)
	_ fs.NodeStringLookuper = (*Dir)(nil)
	_ fs.HandleReadDirAller = (*Dir)(nil)
	_ fs.HandleReader       = (*File)(nil)
)

// FS implements the flat read-only view of a bucketed root
type FS struct {
	mapper *bucket.Mapper
	inodes *inodeTable
}

// NewFS creates a filesystem serving the files under mapper's root
func NewFS(mapper *bucket.Mapper) *FS {
	return &FS{
		mapper: mapper,
		inodes: newInodeTable(),
	}
}

// Root returns the root directory node
func (f *FS) Root() (fs.Node, error) {
	return &Dir{fs: f}, nil
}

// Dir is the single flat directory
type Dir struct {
	fs *FS
}

// Attr returns directory attributes
func (d *Dir) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Inode = rootInode
	a.Mode = os.ModeDir | 0o555
	if info, err := os.Stat(d.fs.mapper.Root()); err == nil {
		a.Mtime = info.ModTime()
		a.Ctime = info.ModTime()
	}
	a.Atime = time.Now()
	return nil
}

// Lookup resolves a name through its bucket
func (d *Dir) Lookup(ctx context.Context, name string) (fs.Node, error) {
	path, err := d.fs.mapper.Locate(name)
	if err != nil {
		return nil, fuse.ENOENT
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, fuse.ENOENT
	}
	return &File{fs: d.fs, name: name, path: path}, nil
}

// ReadDirAll lists every correctly placed file across all buckets
func (d *Dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	var dirents []fuse.Dirent
	for i := range d.fs.mapper.Count() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dir := d.fs.mapper.BucketDir(i)
		entries, err := os.ReadDir(dir)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.Type().IsRegular() {
				continue
			}
			// misplaced files would not resolve through Lookup, so hide them
			if want, err := d.fs.mapper.Locate(e.Name()); err != nil || filepath.Dir(want) != dir {
				continue
			}
			dirents = append(dirents, fuse.Dirent{
				Inode: d.fs.inodes.get(e.Name()),
				Name:  e.Name(),
				Type:  fuse.DT_File,
			})
		}
	}
	slices.SortFunc(dirents, func(a, b fuse.Dirent) int {
		return strings.Compare(a.Name, b.Name)
	})
	return dirents, nil
}

// File is a placed file, read straight from its bucket
type File struct {
	fs   *FS
	name string
	path string
}

// Attr returns file attributes
func (f *File) Attr(ctx context.Context, a *fuse.Attr) error {
	info, err := os.Stat(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return fuse.ENOENT
	}
	if err != nil {
		return err
	}
	a.Inode = f.fs.inodes.get(f.name)
	a.Mode = 0o444
	a.Size = uint64(info.Size())
	a.Mtime = info.ModTime()
	a.Ctime = info.ModTime()
	a.Atime = time.Now()
	return nil
}

// Read serves a byte range of the file
func (f *File) Read(ctx context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	file, err := os.Open(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return fuse.ENOENT
	}
	if err != nil {
		return err
	}
	defer file.Close()

	buf := make([]byte, req.Size)
	n, err := file.ReadAt(buf, req.Offset)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	resp.Data = buf[:n]
	return nil
}
