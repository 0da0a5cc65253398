package query

import (
	"testing"

	"github.com/ohler55/ojg/oj"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const schemaDoc = `
{
  "name": "demo",
  "version": 1.6,
  "uniqueKey": "id",
  "fields": [
    {"name": "id", "type": "string"},
    {"name": "title", "type": "text_general"},
    {"name": "title", "type": "duplicate"}
  ],
  "copyFields": [{"source": "title", "dest": "_text_"}]
}
`

func parse(t *testing.T, s string) any {
	t.Helper()
	v, err := oj.ParseString(s)
	require.NoError(t, err)
	return v
}

func TestSearch(t *testing.T) {
	doc := parse(t, schemaDoc)

	t.Run("rooted and unrooted are equivalent", func(t *testing.T) {
		assert.Equal(t, "id", Search(doc, "uniqueKey"))
		assert.Equal(t, "id", Search(doc, "$.uniqueKey"))
		assert.Equal(t, "demo", String(doc, "name"))
	})

	t.Run("filter by name takes first match", func(t *testing.T) {
		got := Search(doc, "fields[?(@.name == 'title')]")
		require.NotNil(t, got)
		assert.Equal(t, "text_general", got.(map[string]any)["type"])
	})

	t.Run("no match", func(t *testing.T) {
		assert.Nil(t, Search(doc, "fields[?(@.name == 'missing')]"))
		assert.Nil(t, Search(doc, "dynamicFields[?(@.name == 'x')]"))
	})

	t.Run("invalid expression", func(t *testing.T) {
		assert.Nil(t, Search(doc, "fields[?(@.name =="))
		assert.Nil(t, Search(doc, ""))
		assert.Nil(t, All(doc, "$[[["))
	})

	t.Run("all", func(t *testing.T) {
		assert.Len(t, All(doc, "fields[*].name"), 3)
	})
}

func TestChild(t *testing.T) {
	status := map[string]any{
		"my-core": map[string]any{"config": "solrconfig.xml"},
		"a.b":     map[string]any{"schema": "managed-schema"},
	}
	assert.Equal(t, "solrconfig.xml", Child(status, "my-core", "config"))
	assert.Equal(t, "managed-schema", Child(status, "a.b", "schema"))
	assert.Nil(t, Child(status, "missing", "config"))
	assert.Equal(t, status, Child(status))
}

func TestExprCacheEvicts(t *testing.T) {
	c := newExprCache(2)
	c.put("a", nil)
	c.put("b", nil)
	c.put("c", nil)

	_, ok := c.get("a")
	assert.False(t, ok)
	_, ok = c.get("c")
	assert.True(t, ok)
}
