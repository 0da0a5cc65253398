package corefs

import (
	"io"
	"os"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/solradmin/internal/solrtest"
	"github.com/agentic-research/solradmin/solr"
)

func newTestFS(t *testing.T) (*solrtest.Server, *FS) {
	t.Helper()
	srv := solrtest.NewServer()
	srv.AddCore("demo", "", "")
	srv.SetFiles("demo", map[string]string{
		"solrconfig.xml":      "<config/>",
		"managed-schema":      "<schema/>",
		"lang/stopwords.txt":  "a\nthe\n",
		"lang/de/stop_de.txt": "der\n",
		"velocity/browse.vm":  "#parse",
	})
	return srv, New(solr.NewCluster(srv).Core("demo").Files())
}

func TestLstat(t *testing.T) {
	_, fs := newTestFS(t)

	root, err := fs.Lstat("/")
	require.NoError(t, err)
	assert.True(t, root.IsDir())

	info, err := fs.Stat("lang/stopwords.txt")
	require.NoError(t, err)
	assert.False(t, info.IsDir())
	assert.Equal(t, "stopwords.txt", info.Name())
	assert.Equal(t, int64(6), info.Size())
	assert.Equal(t, os.FileMode(0o444), info.Mode())

	dir, err := fs.Stat("/lang/de")
	require.NoError(t, err)
	assert.True(t, dir.IsDir())
	assert.Equal(t, "de", dir.Name())

	_, err = fs.Stat("/missing.txt")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadDir(t *testing.T) {
	_, fs := newTestFS(t)

	infos, err := fs.ReadDir("/")
	require.NoError(t, err)
	var names []string
	for _, fi := range infos {
		names = append(names, fi.Name())
	}
	assert.Equal(t, []string{"lang", "managed-schema", "solrconfig.xml", "velocity"}, names)
	assert.True(t, infos[0].IsDir())

	infos, err = fs.ReadDir("/lang")
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "de", infos[0].Name())
	assert.True(t, infos[0].IsDir())
	assert.Equal(t, "stopwords.txt", infos[1].Name())

	_, err = fs.ReadDir("/solrconfig.xml")
	assert.Error(t, err)
	_, err = fs.ReadDir("/nope")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenAndRead(t *testing.T) {
	srv, fs := newTestFS(t)

	f, err := fs.Open("/lang/de/stop_de.txt")
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "der\n", string(data))

	buf := make([]byte, 2)
	n, err := f.ReadAt(buf, 1)
	require.NoError(t, err)
	assert.Equal(t, "er", string(buf[:n]))

	pos, err := f.Seek(-1, io.SeekEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(3), pos)
	require.NoError(t, f.Close())

	// content is memoized per path
	before := srv.Count("GET", "demo/admin/file")
	_, err = fs.Open("/lang/de/stop_de.txt")
	require.NoError(t, err)
	assert.Equal(t, before, srv.Count("GET", "demo/admin/file"))

	_, err = fs.Open("/lang")
	assert.Error(t, err)
	_, err = fs.Open("/missing")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenHandleKeepsContent(t *testing.T) {
	srv, fs := newTestFS(t)

	f, err := fs.Open("/solrconfig.xml")
	require.NoError(t, err)

	srv.SetFiles("demo", map[string]string{"solrconfig.xml": "<config version=\"2\"/>"})
	fs.Refresh()

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "<config/>", string(data))

	g, err := fs.Open("/solrconfig.xml")
	require.NoError(t, err)
	data, err = io.ReadAll(g)
	require.NoError(t, err)
	assert.Equal(t, "<config version=\"2\"/>", string(data))

	_, err = f.Seek(-1, io.SeekStart)
	assert.ErrorIs(t, err, os.ErrInvalid)

	require.NoError(t, f.Close())
	_, err = f.Read(make([]byte, 1))
	assert.ErrorIs(t, err, os.ErrClosed)
	_, err = f.ReadAt(make([]byte, 1), 0)
	assert.ErrorIs(t, err, os.ErrClosed)
	assert.ErrorIs(t, f.Close(), os.ErrClosed)
}

func TestReadOnly(t *testing.T) {
	_, fs := newTestFS(t)

	_, err := fs.Create("/new.txt")
	assert.ErrorIs(t, err, errReadOnly)
	_, err = fs.OpenFile("/solrconfig.xml", os.O_RDWR, 0)
	assert.ErrorIs(t, err, errReadOnly)
	assert.ErrorIs(t, fs.Remove("/solrconfig.xml"), errReadOnly)
	assert.ErrorIs(t, fs.Rename("/solrconfig.xml", "/x"), errReadOnly)
	assert.ErrorIs(t, fs.MkdirAll("/x", 0o755), errReadOnly)

	f, err := fs.Open("/solrconfig.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte("x"))
	assert.ErrorIs(t, err, errReadOnly)
}

func TestChroot(t *testing.T) {
	_, fs := newTestFS(t)

	sub, err := fs.Chroot("/lang")
	require.NoError(t, err)
	data, err := util.ReadFile(sub, "/de/stop_de.txt")
	require.NoError(t, err)
	assert.Equal(t, "der\n", string(data))
}

func TestRefresh(t *testing.T) {
	srv, fs := newTestFS(t)
	_, err := fs.Stat("/solrconfig.xml")
	require.NoError(t, err)

	srv.SetFiles("demo", map[string]string{"solrconfig.xml": "<config version=\"2\"/>"})
	info, err := fs.Stat("/solrconfig.xml")
	require.NoError(t, err)
	assert.Equal(t, int64(9), info.Size())

	fs.Refresh()
	info, err = fs.Stat("/solrconfig.xml")
	require.NoError(t, err)
	assert.Equal(t, int64(21), info.Size())
	_, err = fs.Stat("/lang")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExport(t *testing.T) {
	_, fs := newTestFS(t)
	dst := memfs.New()

	n, err := Export(fs, dst)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	data, err := util.ReadFile(dst, "/lang/de/stop_de.txt")
	require.NoError(t, err)
	assert.Equal(t, "der\n", string(data))
	data, err = util.ReadFile(dst, "/velocity/browse.vm")
	require.NoError(t, err)
	assert.Equal(t, "#parse", string(data))
}
