package solr

import (
	"net/http"
	"net/url"
	"path"
	"sort"

	"github.com/agentic-research/solradmin/internal/lazy"
	"github.com/agentic-research/solradmin/internal/transport"
)

// FileTree lists a core's config files through the admin file API and
// fetches their content. The path index is built once by a recursive walk;
// files are assumed immutable for the lifetime of the handle.
type FileTree struct {
	core   *Core
	paths  lazy.Value[[]string]
	config lazy.Value[[]byte]
	schema lazy.Value[[]byte]
}

// NewFileTree returns the file tree of core.
func NewFileTree(core *Core) *FileTree {
	return &FileTree{core: core}
}

// Core returns the owning core.
func (f *FileTree) Core() *Core {
	return f.core
}

// Paths returns every file path under the config root, "/"-rooted, in walk
// order with entries sorted per directory. It returns nil when the core does
// not exist.
func (f *FileTree) Paths() []string {
	return f.paths.Get(func() []string {
		if !f.core.Exists() {
			return nil
		}
		return f.walk("/")
	})
}

// Dirs returns every directory containing at least one file, including "/".
func (f *FileTree) Dirs() []string {
	seen := map[string]struct{}{"/": {}}
	for _, p := range f.Paths() {
		for d := path.Dir(p); d != "/"; d = path.Dir(d) {
			seen[d] = struct{}{}
		}
	}
	dirs := make([]string, 0, len(seen))
	for d := range seen {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}

// Refresh drops the path index and cached config/schema content.
func (f *FileTree) Refresh() {
	f.paths.Invalidate()
	f.config.Invalidate()
	f.schema.Invalidate()
}

// FileExists reports whether p is in the path index. "a.txt" and "/a.txt"
// name the same file.
func (f *FileTree) FileExists(p string) bool {
	p = CleanPath(p)
	for _, have := range f.Paths() {
		if have == p {
			return true
		}
	}
	return false
}

// FileContent returns the raw content of p, or nil when p is not indexed, the
// server answers 404 or the call fails.
func (f *FileTree) FileContent(p string) []byte {
	if !f.FileExists(p) {
		return nil
	}
	q := url.Values{}
	q.Set("file", transport.BuildPath(p))
	resp, err := f.core.conn().Do(&transport.Request{Path: f.endpoint(), Query: q})
	if err != nil || resp.StatusCode == http.StatusNotFound {
		return nil
	}
	return resp.Body
}

// ConfigContent returns the cached content of the core's config file.
func (f *FileTree) ConfigContent() []byte {
	return f.config.Get(func() []byte {
		return f.fileOrNil(f.core.ConfigName())
	})
}

// SchemaContent returns the cached content of the core's schema file.
func (f *FileTree) SchemaContent() []byte {
	return f.schema.Get(func() []byte {
		return f.fileOrNil(f.core.SchemaName())
	})
}

func (f *FileTree) fileOrNil(name string) []byte {
	if name == "" {
		return nil
	}
	return f.FileContent(name)
}

func (f *FileTree) walk(dir string) []string {
	q := url.Values{}
	q.Set("file", transport.BuildPath(dir))
	payload := transport.AsMap(transport.JSON(f.core.conn(), &transport.Request{Path: f.endpoint(), Query: q}))
	entries, ok := payload["files"].(map[string]any)
	if !ok {
		return nil
	}

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	var paths []string
	for _, name := range names {
		full := CleanPath(path.Join(dir, name))
		if _, isDir := transport.AsMap(entries[name])["directory"]; isDir {
			paths = append(paths, f.walk(full)...)
			continue
		}
		paths = append(paths, full)
	}
	return paths
}

func (f *FileTree) endpoint() string {
	return f.core.Path("admin/file")
}

// CleanPath normalizes p to a clean "/"-rooted path.
func CleanPath(p string) string {
	return path.Clean("/" + p)
}
