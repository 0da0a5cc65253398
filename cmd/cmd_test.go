package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/solradmin/internal/config"
	"github.com/agentic-research/solradmin/internal/snapshot"
	"github.com/agentic-research/solradmin/internal/solrtest"
	"github.com/agentic-research/solradmin/internal/transport"
)

func newTestServer() *solrtest.Server {
	srv := solrtest.NewServer()
	srv.AddCore("demo", "", "")
	return srv
}

// run executes the CLI against srv with flags reset between runs.
func run(t *testing.T, srv *solrtest.Server, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SOLRADMIN_URL", "")
	t.Setenv("SOLRADMIN_CORE", "")
	t.Setenv("SOLRADMIN_TIMEOUT", "")

	orig := newTransport
	newTransport = func(*config.Config) transport.Transport { return srv }
	t.Cleanup(func() { newTransport = orig })

	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml")}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func TestInfoAndStatus(t *testing.T) {
	srv := newTestServer()

	out, err := run(t, srv, "info")
	require.NoError(t, err)
	assert.Contains(t, out, "/var/solr/data")

	out, err = run(t, srv, "status")
	require.NoError(t, err)
	assert.Equal(t, "demo\t/var/solr/data/demo\tsolrconfig.xml\tmanaged-schema\n", out)

	out, err = run(t, srv, "status", "demo")
	require.NoError(t, err)
	assert.Contains(t, out, `"instanceDir"`)

	_, err = run(t, srv, "status", "ghost")
	assert.ErrorContains(t, err, "does not exist")
}

func TestCoreLifecycle(t *testing.T) {
	srv := newTestServer()

	out, err := run(t, srv, "create", "books", "--schema-file", "schema.xml")
	require.NoError(t, err)
	assert.Equal(t, "books: applied\n", out)

	out, err = run(t, srv, "create", "books")
	require.NoError(t, err)
	assert.Equal(t, "books: unchanged\n", out)

	out, err = run(t, srv, "status", "books")
	require.NoError(t, err)
	assert.Contains(t, out, "schema.xml")

	_, err = run(t, srv, "reload", "books")
	require.NoError(t, err)
	_, err = run(t, srv, "reload", "ghost")
	assert.ErrorContains(t, err, "not-found")

	_, err = run(t, srv, "unload", "books")
	require.NoError(t, err)
	_, err = run(t, srv, "unload", "books")
	assert.Error(t, err)
}

func TestSchemaCommands(t *testing.T) {
	srv := newTestServer()

	_, err := run(t, srv, "schema", "show")
	assert.ErrorContains(t, err, "no core selected")

	out, err := run(t, srv, "--core", "demo", "schema", "search", "uniqueKey")
	require.NoError(t, err)
	assert.Equal(t, "\"id\"\n", out)

	out, err = run(t, srv, "-c", "demo", "schema", "upsert", "field", `{"name":"title","type":"string"}`)
	require.NoError(t, err)
	assert.Contains(t, out, `"title"`)

	out, err = run(t, srv, "-c", "demo", "schema", "get", "field", "title")
	require.NoError(t, err)
	assert.Contains(t, out, `"string"`)

	_, err = run(t, srv, "-c", "demo", "schema", "upsert", "widget", `{"name":"x"}`)
	assert.ErrorContains(t, err, "unknown-type")
	_, err = run(t, srv, "-c", "demo", "schema", "upsert", "field", `[1]`)
	assert.ErrorContains(t, err, "JSON object")

	out, err = run(t, srv, "-c", "demo", "schema", "delete", "field", "title")
	require.NoError(t, err)
	assert.Equal(t, "field title: deleted\n", out)
	_, err = run(t, srv, "-c", "demo", "schema", "get", "field", "title")
	assert.Error(t, err)

	out, err = run(t, srv, "-c", "demo", "schema", "xml")
	require.NoError(t, err)
	assert.Equal(t, `<schema name="demo"/>`, out)
}

func TestUpsertFromFile(t *testing.T) {
	srv := newTestServer()
	path := filepath.Join(t.TempDir(), "field.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"price","type":"pfloat"}`), 0o644))

	_, err := run(t, srv, "-c", "demo", "schema", "upsert", "field", "@"+path)
	require.NoError(t, err)
	assert.Equal(t, 1, srv.Count("POST", "demo/schema"))
}

func TestResourceAndSynonymCommands(t *testing.T) {
	srv := newTestServer()

	out, err := run(t, srv, "-c", "demo", "resources", "create", "stopwords", "english")
	require.NoError(t, err)
	assert.Equal(t, "/schema/analysis/stopwords/english: applied\n", out)

	_, err = run(t, srv, "-c", "demo", "synonyms", "show", "english")
	assert.ErrorContains(t, err, "no synonym resource")

	out, err = run(t, srv, "-c", "demo", "synonyms", "append", "english", "tv=television,telly", "--group", "couch, sofa")
	require.NoError(t, err)
	assert.Equal(t, "english: applied\n", out)

	out, err = run(t, srv, "-c", "demo", "synonyms", "append", "english", "tv=telly")
	require.NoError(t, err)
	assert.Equal(t, "english: unchanged\n", out)

	out, err = run(t, srv, "-c", "demo", "synonyms", "show", "english")
	require.NoError(t, err)
	assert.Equal(t, "couch => couch, sofa\nsofa => couch, sofa\ntv => television, telly\n", out)

	out, err = run(t, srv, "-c", "demo", "resources", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "/schema/analysis/synonyms/english")

	_, err = run(t, srv, "-c", "demo", "synonyms", "delete", "english", "tv")
	require.NoError(t, err)
	assert.NotContains(t, srv.Synonyms("demo", "english"), "tv")

	out, err = run(t, srv, "-c", "demo", "synonyms", "init-args", "english", `{"ignoreCase":true}`)
	require.NoError(t, err)
	assert.Equal(t, "english: applied\n", out)
	out, err = run(t, srv, "-c", "demo", "synonyms", "init-args", "english", `{"ignoreCase":true}`)
	require.NoError(t, err)
	assert.Equal(t, "english: unchanged\n", out)

	_, err = run(t, srv, "-c", "demo", "synonyms", "append", "english", "broken")
	assert.ErrorContains(t, err, "invalid mapping")

	_, err = run(t, srv, "-c", "demo", "resources", "delete", "stopwords", "english")
	require.NoError(t, err)
	_, err = run(t, srv, "-c", "demo", "resources", "delete", "stopwords", "english")
	assert.ErrorContains(t, err, "not-found")
}

func TestFilesCommands(t *testing.T) {
	srv := newTestServer()

	out, err := run(t, srv, "-c", "demo", "files", "ls")
	require.NoError(t, err)
	assert.Equal(t, "/lang/stopwords.txt\n/managed-schema\n/solrconfig.xml\n", out)

	out, err = run(t, srv, "-c", "demo", "files", "cat", "lang/stopwords.txt")
	require.NoError(t, err)
	assert.Equal(t, "a\nthe\n", out)

	_, err = run(t, srv, "-c", "demo", "files", "cat", "nope.txt")
	assert.Error(t, err)

	dir := t.TempDir()
	out, err = run(t, srv, "-c", "demo", "files", "export", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "exported 3 files")
	data, err := os.ReadFile(filepath.Join(dir, "lang", "stopwords.txt"))
	require.NoError(t, err)
	assert.Equal(t, "a\nthe\n", string(data))
}

func TestSnapshotCommand(t *testing.T) {
	srv := newTestServer()
	srv.AddCore("other", "", "")
	db := filepath.Join(t.TempDir(), "snap.db")

	_, err := run(t, srv, "snapshot", db)
	assert.ErrorContains(t, err, "no core selected")

	out, err := run(t, srv, "snapshot", "--all", db)
	require.NoError(t, err)
	assert.Contains(t, out, "demo: 3 files")
	assert.Contains(t, out, "other: 3 files")

	names, err := snapshot.Cores(db)
	require.NoError(t, err)
	assert.Equal(t, []string{"demo", "other"}, names)
}

func TestApplyCommand(t *testing.T) {
	srv := newTestServer()
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
cores:
  - name: demo
    fields:
      - name: title
        type: string
`), 0o644))

	out, err := run(t, srv, "apply", path)
	require.NoError(t, err)
	assert.Contains(t, out, "demo field title: applied")
	assert.Contains(t, out, "1 changes applied")

	out, err = run(t, srv, "apply", path)
	require.NoError(t, err)
	assert.Equal(t, "0 changes applied\n", out)
}

func TestConfigFlags(t *testing.T) {
	srv := newTestServer()
	_, err := run(t, srv, "--url", "ftp://example.com", "info")
	assert.ErrorContains(t, err, "http(s)")
	_, err = run(t, srv, "--timeout=-1s", "info")
	assert.ErrorContains(t, err, "timeout")
}
