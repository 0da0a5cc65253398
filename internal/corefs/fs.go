// Package corefs exposes a core's config file tree as a read-only
// billy.Filesystem, so it can be served over NFS or copied with billy
// helpers.
package corefs

import (
	"errors"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/helper/chroot"

	"github.com/agentic-research/solradmin/solr"
)

var errReadOnly = errors.New("read-only filesystem")

// FS adapts a solr.FileTree to billy.Filesystem. File content is fetched on
// first open or stat and kept until Refresh.
type FS struct {
	mu        sync.Mutex
	files     *solr.FileTree
	content   map[string][]byte
	mountTime time.Time
}

// New returns a filesystem over files.
func New(files *solr.FileTree) *FS {
	return &FS{
		files:     files,
		content:   make(map[string][]byte),
		mountTime: time.Now(),
	}
}

// Refresh drops the cached path index and file content.
func (fs *FS) Refresh() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files.Refresh()
	fs.content = make(map[string][]byte)
}

func (fs *FS) Create(filename string) (billy.File, error) {
	return nil, &os.PathError{Op: "create", Path: filename, Err: errReadOnly}
}

func (fs *FS) Open(filename string) (billy.File, error) {
	return fs.OpenFile(filename, os.O_RDONLY, 0)
}

func (fs *FS) OpenFile(filename string, flag int, _ os.FileMode) (billy.File, error) {
	filename = solr.CleanPath(filename)
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE|os.O_TRUNC|os.O_APPEND) != 0 {
		return nil, &os.PathError{Op: "open", Path: filename, Err: errReadOnly}
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.isDir(filename) {
		return nil, &os.PathError{Op: "open", Path: filename, Err: errors.New("is a directory")}
	}
	data, ok := fs.read(filename)
	if !ok {
		return nil, &os.PathError{Op: "open", Path: filename, Err: os.ErrNotExist}
	}
	return newBytesFile(filename, data), nil
}

func (fs *FS) Stat(filename string) (os.FileInfo, error) {
	return fs.Lstat(filename)
}

func (fs *FS) Rename(oldpath, _ string) error {
	return &os.PathError{Op: "rename", Path: oldpath, Err: errReadOnly}
}

func (fs *FS) Remove(filename string) error {
	return &os.PathError{Op: "remove", Path: filename, Err: errReadOnly}
}

func (fs *FS) Join(elem ...string) string {
	return filepath.Join(elem...)
}

func (fs *FS) TempFile(_, _ string) (billy.File, error) {
	return nil, billy.ErrNotSupported
}

// ReadDir lists the direct children of dir, sorted by name.
func (fs *FS) ReadDir(dir string) ([]os.FileInfo, error) {
	dir = solr.CleanPath(dir)

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if !fs.isDir(dir) {
		if fs.isFile(dir) {
			return nil, &os.PathError{Op: "readdir", Path: dir, Err: errors.New("not a directory")}
		}
		return nil, &os.PathError{Op: "readdir", Path: dir, Err: os.ErrNotExist}
	}

	prefix := strings.TrimSuffix(dir, "/") + "/"
	seen := make(map[string]bool)
	for _, p := range fs.files.Paths() {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		name, _, nested := strings.Cut(strings.TrimPrefix(p, prefix), "/")
		seen[name] = seen[name] || nested
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	infos := make([]os.FileInfo, 0, len(names))
	for _, name := range names {
		if seen[name] {
			infos = append(infos, fs.dirInfo(name))
			continue
		}
		info, ok := fs.fileInfo(prefix + name)
		if !ok {
			continue
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (fs *FS) MkdirAll(filename string, _ os.FileMode) error {
	return &os.PathError{Op: "mkdir", Path: filename, Err: errReadOnly}
}

func (fs *FS) Lstat(filename string) (os.FileInfo, error) {
	filename = solr.CleanPath(filename)

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.isDir(filename) {
		return fs.dirInfo(path.Base(filename)), nil
	}
	if info, ok := fs.fileInfo(filename); ok {
		return info, nil
	}
	return nil, &os.PathError{Op: "lstat", Path: filename, Err: os.ErrNotExist}
}

func (fs *FS) Symlink(_, _ string) error {
	return billy.ErrNotSupported
}

func (fs *FS) Readlink(_ string) (string, error) {
	return "", billy.ErrNotSupported
}

func (fs *FS) Chroot(p string) (billy.Filesystem, error) {
	return chroot.New(fs, p), nil
}

func (fs *FS) Root() string {
	return "/"
}

func (fs *FS) Capabilities() billy.Capability {
	return billy.ReadCapability | billy.SeekCapability
}

// isDir and the helpers below expect fs.mu to be held.
func (fs *FS) isDir(p string) bool {
	for _, d := range fs.files.Dirs() {
		if d == p {
			return true
		}
	}
	return false
}

func (fs *FS) isFile(p string) bool {
	return fs.files.FileExists(p)
}

func (fs *FS) read(p string) ([]byte, bool) {
	if data, ok := fs.content[p]; ok {
		return data, true
	}
	if !fs.isFile(p) {
		return nil, false
	}
	data := fs.files.FileContent(p)
	if data == nil {
		return nil, false
	}
	fs.content[p] = data
	return data, true
}

func (fs *FS) fileInfo(p string) (os.FileInfo, bool) {
	data, ok := fs.read(p)
	if !ok {
		return nil, false
	}
	return &staticFileInfo{
		name:    path.Base(p),
		size:    int64(len(data)),
		mode:    0o444,
		modTime: fs.mountTime,
	}, true
}

func (fs *FS) dirInfo(name string) os.FileInfo {
	return &staticFileInfo{
		name:    name,
		mode:    os.ModeDir | 0o555,
		modTime: fs.mountTime,
	}
}

type staticFileInfo struct {
	name    string
	size    int64
	mode    os.FileMode
	modTime time.Time
}

func (fi *staticFileInfo) Name() string       { return fi.name }
func (fi *staticFileInfo) Size() int64        { return fi.size }
func (fi *staticFileInfo) Mode() os.FileMode  { return fi.mode }
func (fi *staticFileInfo) ModTime() time.Time { return fi.modTime }
func (fi *staticFileInfo) IsDir() bool        { return fi.mode.IsDir() }
func (fi *staticFileInfo) Sys() any           { return nil }

var (
	_ billy.Filesystem = (*FS)(nil)
	_ billy.Capable    = (*FS)(nil)
)
