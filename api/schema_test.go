package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameRef(t *testing.T) {
	r := ByName("title")
	assert.Equal(t, "title", r.Name())
	assert.Equal(t, map[string]any{"name": "title"}, r.Body())

	el := Element{"name": "title", "type": "string"}
	v := ByValue(el)
	assert.Equal(t, "title", v.Name())
	assert.Equal(t, map[string]any{"name": "title", "type": "string"}, v.Body())

	assert.Equal(t, "", ByValue(Element{"source": "a", "dest": "b"}).Name())
}

func TestResource(t *testing.T) {
	r := Resource{"resourceId": "/schema/analysis/synonyms/en", "class": "x.Y"}
	assert.Equal(t, "/schema/analysis/synonyms/en", r.ID())
	assert.Equal(t, "x.Y", r.Class())
	assert.Equal(t, "", Resource{}.ID())
}
