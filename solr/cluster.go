package solr

import (
	"net/url"
	"sort"

	"github.com/agentic-research/solradmin/api"
	"github.com/agentic-research/solradmin/internal/lazy"
	"github.com/agentic-research/solradmin/internal/query"
	"github.com/agentic-research/solradmin/internal/transport"
)

const (
	systemInfoPath = "admin/info/system"
	coreAdminPath  = "admin/cores"
)

// Cluster caches cluster-wide system information and the per-core status
// table. The status table is invalidated after core create and unload, and
// nowhere else.
type Cluster struct {
	t     transport.Transport
	info  lazy.Value[map[string]any]
	cores lazy.Value[map[string]any]
}

// NewCluster returns a Cluster issuing its calls through t.
func NewCluster(t transport.Transport) *Cluster {
	return &Cluster{t: t}
}

// Transport returns the transport shared by every handle of this cluster.
func (c *Cluster) Transport() transport.Transport {
	return c.t
}

// SystemInfo returns the cached response of admin/info/system.
func (c *Cluster) SystemInfo() map[string]any {
	return c.info.Get(func() map[string]any {
		return transport.AsMap(transport.JSON(c.t, &transport.Request{Path: systemInfoPath}))
	})
}

// Home returns the server's solr_home.
func (c *Cluster) Home() string {
	s, _ := c.SystemInfo()["solr_home"].(string)
	return s
}

// Mode returns "std" or "solrcloud".
func (c *Cluster) Mode() string {
	s, _ := c.SystemInfo()["mode"].(string)
	return s
}

// OS returns the "system" section of the system info.
func (c *Cluster) OS() map[string]any {
	return transport.AsMap(c.SystemInfo()["system"])
}

// Lucene returns the "lucene" section of the system info.
func (c *Cluster) Lucene() map[string]any {
	return transport.AsMap(c.SystemInfo()["lucene"])
}

// JVM returns the "jvm" section of the system info.
func (c *Cluster) JVM() map[string]any {
	return transport.AsMap(c.SystemInfo()["jvm"])
}

// CoreStatus returns the cached status table keyed by core name.
func (c *Cluster) CoreStatus() map[string]any {
	return c.cores.Get(func() map[string]any {
		q := url.Values{}
		q.Set("action", "STATUS")
		q.Set("indexInfo", "false")
		payload := transport.AsMap(transport.JSON(c.t, &transport.Request{Path: coreAdminPath, Query: q}))
		if status, ok := payload["status"].(map[string]any); ok {
			return status
		}
		return map[string]any{}
	})
}

// InvalidateCoreStatus drops the cached status table.
func (c *Cluster) InvalidateCoreStatus() {
	c.cores.Invalidate()
}

// CreateCore issues a CREATE for name. Empty config and schema are omitted.
// No existence check is made here; see Core.Create.
func (c *Cluster) CreateCore(name, config, schema string) {
	q := url.Values{}
	q.Set("action", "CREATE")
	q.Set("name", name)
	if config != "" {
		q.Set("config", config)
	}
	if schema != "" {
		q.Set("schema", schema)
	}
	transport.JSON(c.t, &transport.Request{Path: coreAdminPath, Query: q})
	c.InvalidateCoreStatus()
}

// ReloadCore issues a RELOAD and returns the raw response. Reloading does not
// change the status table, so nothing is invalidated.
func (c *Cluster) ReloadCore(name string) map[string]any {
	q := url.Values{}
	q.Set("action", "RELOAD")
	q.Set("core", name)
	return transport.AsMap(transport.JSON(c.t, &transport.Request{Path: coreAdminPath, Query: q}))
}

// UnloadCore unloads name and deletes its instance directory.
func (c *Cluster) UnloadCore(name string) {
	q := url.Values{}
	q.Set("action", "UNLOAD")
	q.Set("deleteInstanceDir", "true")
	q.Set("core", name)
	transport.JSON(c.t, &transport.Request{Path: coreAdminPath, Query: q})
	c.InvalidateCoreStatus()
}

// CoreExists reports whether name is present in the status table.
func (c *Cluster) CoreExists(name string) bool {
	_, ok := c.CoreStatus()[name]
	return ok
}

// SearchCoreStatus evaluates a path-query over the status table.
func (c *Cluster) SearchCoreStatus(expr string) any {
	return query.Search(c.CoreStatus(), expr)
}

// Status returns the typed status record of name.
func (c *Cluster) Status(name string) (api.CoreStatus, bool) {
	rec, ok := c.CoreStatus()[name].(map[string]any)
	if !ok {
		return api.CoreStatus{}, false
	}
	st := api.CoreStatus{Name: name}
	st.InstanceDir, _ = rec["instanceDir"].(string)
	st.Config, _ = rec["config"].(string)
	st.Schema, _ = rec["schema"].(string)
	return st, true
}

// CoreNames returns the names of all cores, sorted.
func (c *Cluster) CoreNames() []string {
	status := c.CoreStatus()
	names := make([]string, 0, len(status))
	for name := range status {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Core returns a new handle for name sharing this cluster's caches.
func (c *Cluster) Core(name string) *Core {
	return NewCore(c, name)
}
