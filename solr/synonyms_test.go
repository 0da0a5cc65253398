package solr

import (
	"testing"

	"github.com/agentic-research/solradmin/internal/solrtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSynonyms(t *testing.T) (*solrtest.Server, *SynonymMap) {
	t.Helper()
	srv, c := newTestCluster(t)
	srv.AddCore("demo", "", "")
	return srv, c.Core("demo").Synonyms("english")
}

func TestSynonymResourceProvisionedOnFirstAccess(t *testing.T) {
	srv, s := newSynonyms(t)

	assert.Equal(t, "demo/schema/analysis/synonyms/english", s.Path())
	assert.Len(t, srv.Find("PUT", "demo/schema/analysis/synonyms/english"), 1)

	// cached: no further provisioning
	s.Resource()
	assert.Len(t, srv.Find("PUT", "demo/schema/analysis/synonyms/english"), 1)
	assert.Equal(t, map[string][]string{}, s.Map())
	assert.Equal(t, false, s.InitArgs()["ignoreCase"])
}

func TestAppendSynonymsIdempotent(t *testing.T) {
	srv, s := newSynonyms(t)
	path := "demo/schema/analysis/synonyms/english"

	assert.Equal(t, Applied, s.AppendSynonyms(map[string][]string{"a": {"b", "c"}}))
	once := s.Map()

	assert.Equal(t, Unchanged, s.AppendSynonyms(map[string][]string{"a": {"b", "c"}}))
	assert.Equal(t, once, s.Map())
	assert.Equal(t, map[string][]string{"a": {"b", "c"}}, once)

	// one PUT to provision, one to append
	assert.Len(t, srv.Find("PUT", path), 2)
}

func TestAppendSynonymsSubset(t *testing.T) {
	srv, s := newSynonyms(t)
	path := "demo/schema/analysis/synonyms/english"

	require.Equal(t, Applied, s.AppendSynonyms(map[string][]string{"a": {"b", "c"}}))
	assert.Equal(t, Unchanged, s.AppendSynonyms(map[string][]string{"a": {"c"}}))
	assert.Equal(t, Applied, s.AppendSynonyms(map[string][]string{"a": {"d"}}))
	assert.Equal(t, []string{"b", "c", "d"}, s.Map()["a"])

	// a new key is always written, even with known synonyms
	assert.Equal(t, Applied, s.AppendSynonyms(map[string][]string{"x": {"b"}, "a": {"b"}}))
	assert.Len(t, srv.Find("PUT", path), 4)

	assert.Equal(t, Unchanged, s.AppendSynonyms(nil))
}

func TestAppendGroup(t *testing.T) {
	_, s := newSynonyms(t)

	assert.Equal(t, Applied, s.AppendGroup([]string{"tv", "television"}))
	assert.Equal(t, map[string][]string{
		"tv":         {"tv", "television"},
		"television": {"tv", "television"},
	}, s.Map())
	assert.Equal(t, Unchanged, s.AppendGroup([]string{"television", "tv"}))
}

func TestDeleteSynonym(t *testing.T) {
	srv, s := newSynonyms(t)

	assert.Equal(t, NotFound, s.DeleteSynonym("a"))
	assert.Empty(t, srv.Find("DELETE", "demo/schema/analysis/synonyms/english/a"))

	s.AppendSynonyms(map[string][]string{"a": {"b"}, "c": {"d"}})
	assert.Equal(t, Applied, s.DeleteSynonym("a"))
	assert.Len(t, srv.Find("DELETE", "demo/schema/analysis/synonyms/english/a"), 1)
	assert.Equal(t, map[string][]string{"c": {"d"}}, s.Map())
}

func TestSetInitArgs(t *testing.T) {
	srv, s := newSynonyms(t)

	assert.False(t, s.InitArgsEqual(map[string]any{"ignoreCase": true}))
	assert.Equal(t, Applied, s.SetInitArgs(map[string]any{"ignoreCase": true, "format": "solr"}))
	assert.Equal(t, true, s.InitArgs()["ignoreCase"])
	assert.True(t, s.InitArgsEqual(map[string]any{"ignoreCase": true, "format": "solr"}))

	posts := srv.Find("POST", "demo/schema/analysis/synonyms/english")
	require.Len(t, posts, 1)
	assert.Equal(t, map[string]any{"initArgs": map[string]any{"ignoreCase": true, "format": "solr"}}, posts[0].Body)
}

func TestInitArgsEqualNested(t *testing.T) {
	_, s := newSynonyms(t)

	args := map[string]any{
		"ignoreCase": true,
		"tokenizer":  map[string]any{"maxTokenLength": 255, "class": "solr.StandardTokenizerFactory"},
		"limits":     []any{1, 2.0, 3},
		"formats":    []string{"solr", "wordnet"},
	}
	require.Equal(t, Applied, s.SetInitArgs(args))

	assert.True(t, s.InitArgsEqual(args))
	assert.True(t, s.InitArgsEqual(map[string]any{
		"ignoreCase": true,
		"tokenizer":  map[string]any{"maxTokenLength": int64(255), "class": "solr.StandardTokenizerFactory"},
		"limits":     []any{int64(1), int64(2), int64(3)},
		"formats":    []any{"solr", "wordnet"},
	}))
	assert.False(t, s.InitArgsEqual(map[string]any{
		"ignoreCase": true,
		"tokenizer":  map[string]any{"maxTokenLength": 256, "class": "solr.StandardTokenizerFactory"},
		"limits":     []any{1, 2, 3},
		"formats":    []string{"solr", "wordnet"},
	}))
}

func TestSynonymsMissingCore(t *testing.T) {
	srv, c := newTestCluster(t)
	s := c.Core("ghost").Synonyms("english")

	assert.Nil(t, s.Resource())
	assert.Equal(t, "", s.Path())
	assert.Empty(t, s.Map())
	assert.Equal(t, NotFound, s.AppendGroup([]string{"a", "b"}))
	assert.Equal(t, NotFound, s.SetInitArgs(map[string]any{}))
	assert.Empty(t, srv.Find("PUT", "ghost/schema/analysis/synonyms/english"))

	// once the core exists the resource is provisioned on next access
	srv.AddCore("ghost", "", "")
	c.InvalidateCoreStatus()
	assert.Equal(t, "ghost/schema/analysis/synonyms/english", s.Path())
}

func TestNormalizeGroup(t *testing.T) {
	assert.Equal(t, map[string][]string{"a": {"a", "b"}, "b": {"a", "b"}}, NormalizeGroup([]string{"a", "b"}))
	assert.Empty(t, NormalizeGroup(nil))
}
