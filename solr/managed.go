package solr

import (
	"net/http"
	"sort"

	"github.com/agentic-research/solradmin/api"
	"github.com/agentic-research/solradmin/internal/lazy"
	"github.com/agentic-research/solradmin/internal/transport"
)

// resourceClasses maps a managed resource type to its server-side
// implementation.
var resourceClasses = map[string]string{
	"stopwords": "org.apache.solr.rest.schema.analysis.ManagedWordSetResource",
	"synonyms":  "org.apache.solr.rest.schema.analysis.ManagedSynonymFilterFactory$SynonymManager",
}

// ResourceTypes returns the supported managed resource types, sorted.
func ResourceTypes() []string {
	types := make([]string, 0, len(resourceClasses))
	for t := range resourceClasses {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// ResourceID returns the deterministic resourceId of a managed resource.
func ResourceID(resourceType, name string) string {
	return "/schema/analysis/" + resourceType + "/" + name
}

// ManagedResources caches the list of a core's managed REST resources.
type ManagedResources struct {
	core *Core
	list lazy.Value[[]api.Resource]
}

// NewManagedResources returns the managed resource registry of core.
func NewManagedResources(core *Core) *ManagedResources {
	return &ManagedResources{core: core}
}

// Core returns the owning core.
func (m *ManagedResources) Core() *Core {
	return m.core
}

// Resources returns the cached resource list; nil when the core does not
// exist.
func (m *ManagedResources) Resources() []api.Resource {
	return m.list.Get(func() []api.Resource {
		if !m.core.Exists() {
			return nil
		}
		payload := transport.AsMap(transport.JSON(m.core.conn(), &transport.Request{Path: m.core.Path("/schema/managed")}))
		items := transport.AsSlice(payload["managedResources"])
		out := make([]api.Resource, 0, len(items))
		for _, it := range items {
			if r, ok := it.(map[string]any); ok {
				out = append(out, api.Resource(r))
			}
		}
		return out
	})
}

// Invalidate drops the cached resource list.
func (m *ManagedResources) Invalidate() {
	m.list.Invalidate()
}

// GetResource returns the descriptor of the resource, or nil.
func (m *ManagedResources) GetResource(resourceType, name string) api.Resource {
	id := ResourceID(resourceType, name)
	for _, r := range m.Resources() {
		if r.ID() == id {
			return r
		}
	}
	return nil
}

// ResourceExists reports whether the resource is listed.
func (m *ManagedResources) ResourceExists(resourceType, name string) bool {
	return m.GetResource(resourceType, name) != nil
}

// CreateResource registers the resource on the server unless it already
// exists, and returns its descriptor.
func (m *ManagedResources) CreateResource(resourceType, name string) (api.Resource, Outcome) {
	class, ok := resourceClasses[resourceType]
	if !ok {
		return nil, UnknownType
	}
	if !m.core.Exists() {
		return nil, NotFound
	}
	if r := m.GetResource(resourceType, name); r != nil {
		return r, Unchanged
	}

	transport.JSON(m.core.conn(), &transport.Request{
		Method: http.MethodPut,
		Path:   m.core.Path(ResourceID(resourceType, name)),
		Body:   map[string]any{"class": class},
	})
	m.Invalidate()

	return m.GetResource(resourceType, name), Applied
}

// DeleteResource removes the resource and returns its last known descriptor.
func (m *ManagedResources) DeleteResource(resourceType, name string) (api.Resource, Outcome) {
	r := m.GetResource(resourceType, name)
	if r == nil {
		return nil, NotFound
	}

	transport.JSON(m.core.conn(), &transport.Request{Method: http.MethodDelete, Path: m.core.Path(r.ID())})
	m.Invalidate()
	return r, Applied
}
