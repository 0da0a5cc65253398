package solr

import (
	"net/http"
	"net/url"
	"sort"

	"github.com/agentic-research/solradmin/api"
	"github.com/agentic-research/solradmin/internal/lazy"
	"github.com/agentic-research/solradmin/internal/query"
	"github.com/agentic-research/solradmin/internal/transport"
)

// elementCollections maps an element type to its collection in the schema
// document.
var elementCollections = map[string]string{
	"field":         "fields",
	"field-type":    "fieldTypes",
	"copy-field":    "copyFields",
	"dynamic-field": "dynamicFields",
}

// ElementTypes returns the supported element types, sorted.
func ElementTypes() []string {
	types := make([]string, 0, len(elementCollections))
	for t := range elementCollections {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Schema caches a core's schema document and manages its elements.
type Schema struct {
	core *Core
	doc  lazy.Value[map[string]any]
}

// NewSchema returns the schema registry of core.
func NewSchema(core *Core) *Schema {
	return &Schema{core: core}
}

// Document returns the cached schema document, empty if the core does not
// exist.
func (s *Schema) Document() map[string]any {
	return s.doc.Get(func() map[string]any {
		if !s.core.Exists() {
			return map[string]any{}
		}
		payload := transport.AsMap(transport.JSON(s.core.conn(), &transport.Request{Path: s.path()}))
		if doc, ok := payload["schema"].(map[string]any); ok {
			return doc
		}
		return map[string]any{}
	})
}

// Invalidate drops the cached document.
func (s *Schema) Invalidate() {
	s.doc.Invalidate()
}

// UniqueKey returns the schema's unique key field name.
func (s *Schema) UniqueKey() string {
	return query.String(s.Document(), "uniqueKey")
}

// Name returns the schema name.
func (s *Schema) Name() string {
	return query.String(s.Document(), "name")
}

// Version returns the schema version, 0 when absent.
func (s *Schema) Version() float64 {
	switch v := s.Search("version").(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

// Search evaluates a path-query over the schema document.
func (s *Schema) Search(expr string) any {
	return query.Search(s.Document(), expr)
}

// Elements returns every element of elementType.
func (s *Schema) Elements(elementType string) []api.Element {
	collection, ok := elementCollections[elementType]
	if !ok {
		return nil
	}
	items := transport.AsSlice(s.Document()[collection])
	out := make([]api.Element, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			out = append(out, api.Element(m))
		}
	}
	return out
}

// GetElement returns the first element of elementType named by ref, or nil
// for an unknown type, an empty name or no match.
func (s *Schema) GetElement(elementType string, ref api.NameRef) api.Element {
	name := ref.Name()
	if name == "" {
		return nil
	}
	for _, el := range s.Elements(elementType) {
		if el.Name() == name {
			return el
		}
	}
	return nil
}

// ModifyElement adds el, or replaces it when an element of the same type and
// name already exists. The add/replace decision is taken from the cached
// state before the write. It returns the re-fetched element.
func (s *Schema) ModifyElement(elementType string, el api.Element) (api.Element, Outcome) {
	if _, ok := elementCollections[elementType]; !ok {
		return nil, UnknownType
	}
	if el == nil || el.Name() == "" {
		return nil, Invalid
	}

	action := "add"
	if s.GetElement(elementType, api.ByValue(el)) != nil {
		action = "replace"
	}

	s.post(map[string]any{action + "-" + elementType: map[string]any(el)})
	return s.GetElement(elementType, api.ByValue(el)), Applied
}

// DeleteElement removes the element named by ref.
func (s *Schema) DeleteElement(elementType string, ref api.NameRef) Outcome {
	if _, ok := elementCollections[elementType]; !ok {
		return UnknownType
	}
	if s.GetElement(elementType, ref) == nil {
		return NotFound
	}

	s.post(map[string]any{"delete-" + elementType: ref.Body()})
	return Applied
}

// XML returns the schema serialized as schema.xml, nil if unavailable.
func (s *Schema) XML() []byte {
	if !s.core.Exists() {
		return nil
	}
	q := url.Values{}
	q.Set("wt", "schema.xml")
	resp, err := s.core.conn().Do(&transport.Request{Path: s.path(), Query: q})
	if err != nil || resp.StatusCode != http.StatusOK {
		return nil
	}
	return resp.Body
}

func (s *Schema) post(body map[string]any) {
	transport.JSON(s.core.conn(), &transport.Request{Method: http.MethodPost, Path: s.path(), Body: body})
	s.Invalidate()
}

func (s *Schema) path() string {
	return s.core.Path("schema")
}
