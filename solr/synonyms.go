package solr

import (
	"net/http"
	"net/url"
	"reflect"

	"github.com/agentic-research/solradmin/api"
	"github.com/agentic-research/solradmin/internal/lazy"
	"github.com/agentic-research/solradmin/internal/transport"
	"github.com/ohler55/ojg/oj"
)

// SynonymMap is a managed synonym resource: a mapping from a term to its
// synonyms plus free-form init arguments. The remote resource is created on
// first access if it does not exist yet.
type SynonymMap struct {
	registry *ManagedResources
	name     string
	resource lazy.Value[api.Resource]
	doc      lazy.Value[map[string]any]
}

// NewSynonymMap returns a view of the synonym map name in registry.
func NewSynonymMap(registry *ManagedResources, name string) *SynonymMap {
	return &SynonymMap{registry: registry, name: name}
}

// Name returns the synonym map name.
func (s *SynonymMap) Name() string { return s.name }

// Resource returns the resource descriptor, provisioning the resource on the
// server when it is missing. It returns nil while the core does not exist;
// that result is not cached.
func (s *SynonymMap) Resource() api.Resource {
	r := s.resource.Get(func() api.Resource {
		r, _ := s.registry.CreateResource("synonyms", s.name)
		return r
	})
	if r == nil {
		s.resource.Invalidate()
	}
	return r
}

// Path returns "<core>/<resourceId>", or "" when the resource could not be
// provisioned.
func (s *SynonymMap) Path() string {
	r := s.Resource()
	if r == nil || r.ID() == "" {
		return ""
	}
	return s.registry.core.Path(r.ID())
}

// Document returns the cached synonymMappings section. Nothing is cached
// while the resource is unprovisioned.
func (s *SynonymMap) Document() map[string]any {
	path := s.Path()
	if path == "" {
		return map[string]any{}
	}
	return s.doc.Get(func() map[string]any {
		payload := transport.AsMap(transport.JSON(s.conn(), &transport.Request{Path: path}))
		if m, ok := payload["synonymMappings"].(map[string]any); ok {
			return m
		}
		return map[string]any{}
	})
}

// Invalidate drops the cached document.
func (s *SynonymMap) Invalidate() {
	s.doc.Invalidate()
}

// Map returns the managed synonym mapping.
func (s *SynonymMap) Map() map[string][]string {
	raw := transport.AsMap(s.Document()["managedMap"])
	out := make(map[string][]string, len(raw))
	for k, v := range raw {
		out[k] = toStrings(v)
	}
	return out
}

// InitArgs returns the resource's init arguments.
func (s *SynonymMap) InitArgs() map[string]any {
	return transport.AsMap(s.Document()["initArgs"])
}

// SetInitArgs replaces the init arguments.
func (s *SynonymMap) SetInitArgs(args map[string]any) Outcome {
	path := s.Path()
	if path == "" {
		return NotFound
	}
	transport.JSON(s.conn(), &transport.Request{
		Method: http.MethodPost,
		Path:   path,
		Body:   map[string]any{"initArgs": args},
	})
	s.Invalidate()
	return Applied
}

// InitArgsEqual reports whether args matches the current init arguments.
func (s *SynonymMap) InitArgsEqual(args map[string]any) bool {
	cur := s.InitArgs()
	if len(cur) != len(args) {
		return false
	}
	if len(args) == 0 {
		return true
	}
	a, aerr := canonicalJSON(cur)
	b, berr := canonicalJSON(args)
	return aerr == nil && berr == nil && reflect.DeepEqual(a, b)
}

// DeleteSynonym removes key from the mapping.
func (s *SynonymMap) DeleteSynonym(key string) Outcome {
	if _, ok := s.Map()[key]; !ok {
		return NotFound
	}
	transport.JSON(s.conn(), &transport.Request{
		Method: http.MethodDelete,
		Path:   transport.BuildPath(s.Path(), url.PathEscape(key)),
	})
	s.Invalidate()
	return Applied
}

// AppendSynonyms merges m into the mapping. Nothing is sent when every key
// already exists and lists at least the given synonyms.
func (s *SynonymMap) AppendSynonyms(m map[string][]string) Outcome {
	if len(m) == 0 {
		return Unchanged
	}
	path := s.Path()
	if path == "" {
		return NotFound
	}
	if s.contains(m) {
		return Unchanged
	}

	body := make(map[string]any, len(m))
	for k, words := range m {
		list := make([]any, len(words))
		for i, w := range words {
			list[i] = w
		}
		body[k] = list
	}
	transport.JSON(s.conn(), &transport.Request{Method: http.MethodPut, Path: path, Body: body})
	s.Invalidate()
	return Applied
}

// AppendGroup merges a group of mutually equivalent terms.
func (s *SynonymMap) AppendGroup(words []string) Outcome {
	return s.AppendSynonyms(NormalizeGroup(words))
}

// NormalizeGroup maps every word of a flat group to the whole group.
func NormalizeGroup(words []string) map[string][]string {
	out := make(map[string][]string, len(words))
	for _, w := range words {
		out[w] = append([]string(nil), words...)
	}
	return out
}

func (s *SynonymMap) contains(m map[string][]string) bool {
	current := s.Map()
	for key, words := range m {
		have, ok := current[key]
		if !ok {
			return false
		}
		set := make(map[string]struct{}, len(have))
		for _, w := range have {
			set[w] = struct{}{}
		}
		for _, w := range words {
			if _, ok := set[w]; !ok {
				return false
			}
		}
	}
	return true
}

func (s *SynonymMap) conn() transport.Transport {
	return s.registry.core.conn()
}

func toStrings(v any) []string {
	items := transport.AsSlice(v)
	out := make([]string, 0, len(items))
	for _, it := range items {
		if str, ok := it.(string); ok {
			out = append(out, str)
		}
	}
	return out
}

// canonicalJSON re-decodes v through JSON, folding Go integer and slice types
// into their decoded forms.
func canonicalJSON(v any) (any, error) {
	data, err := oj.Marshal(v)
	if err != nil {
		return nil, err
	}
	return oj.Parse(data)
}
