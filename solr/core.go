package solr

import (
	"github.com/agentic-research/solradmin/internal/query"
	"github.com/agentic-research/solradmin/internal/transport"
)

// Core is a handle on one named core. Before the core exists it holds locally
// staged config and schema names; once the server reports the core, the
// staged values are ignored and every read comes from the status table.
//
// A Core owns its Schema, ManagedResources and FileTree; each is created on
// first use and lives as long as the handle.
type Core struct {
	name    string
	cluster *Cluster

	pendingConfig string
	pendingSchema string

	schema    *Schema
	resources *ManagedResources
	files     *FileTree
}

// NewCore returns a handle for name on cluster.
func NewCore(cluster *Cluster, name string) *Core {
	return &Core{name: name, cluster: cluster}
}

// Name returns the core name.
func (c *Core) Name() string { return c.name }

func (c *Core) String() string { return c.name }

// Cluster returns the shared cluster status.
func (c *Core) Cluster() *Cluster { return c.cluster }

// Exists reports whether the server currently lists the core.
func (c *Core) Exists() bool {
	return c.cluster.CoreExists(c.name)
}

// InstanceDir returns the server-reported instance directory, "" if the core
// does not exist.
func (c *Core) InstanceDir() string {
	return c.statusField("instanceDir")
}

// ConfigName returns the core's config file name: the server value once the
// core exists, the staged value before.
func (c *Core) ConfigName() string {
	if !c.Exists() {
		return c.pendingConfig
	}
	return c.statusField("config")
}

// SetConfigName stages the config file name used by Create. It is a no-op
// (Unchanged) once the core exists.
func (c *Core) SetConfigName(v string) Outcome {
	if c.Exists() {
		return Unchanged
	}
	c.pendingConfig = v
	return Applied
}

// SchemaName returns the core's schema file name: the server value once the
// core exists, the staged value before.
func (c *Core) SchemaName() string {
	if !c.Exists() {
		return c.pendingSchema
	}
	return c.statusField("schema")
}

// SetSchemaName stages the schema file name used by Create. It is a no-op
// (Unchanged) once the core exists.
func (c *Core) SetSchemaName(v string) Outcome {
	if c.Exists() {
		return Unchanged
	}
	c.pendingSchema = v
	return Applied
}

// Create creates the core with the currently staged config and schema.
// It is a no-op when the core already exists. Schema, resource and file
// caches filled while the core was absent are dropped.
func (c *Core) Create() Outcome {
	if c.Exists() {
		return Unchanged
	}
	c.cluster.CreateCore(c.name, c.ConfigName(), c.SchemaName())

	if c.schema != nil {
		c.schema.Invalidate()
	}
	if c.resources != nil {
		c.resources.Invalidate()
	}
	if c.files != nil {
		c.files.Refresh()
	}
	return Applied
}

// Reload reloads an existing core and returns the server response.
func (c *Core) Reload() (map[string]any, Outcome) {
	if !c.Exists() {
		return nil, NotFound
	}
	return c.cluster.ReloadCore(c.name), Applied
}

// Path composes "<name>/<suffix>" for sub-resource URIs.
func (c *Core) Path(suffix string) string {
	return transport.BuildPath(c.name, suffix)
}

// Schema returns the core's schema registry.
func (c *Core) Schema() *Schema {
	if c.schema == nil {
		c.schema = NewSchema(c)
	}
	return c.schema
}

// Resources returns the core's managed resource registry.
func (c *Core) Resources() *ManagedResources {
	if c.resources == nil {
		c.resources = NewManagedResources(c)
	}
	return c.resources
}

// Files returns the core's config file tree.
func (c *Core) Files() *FileTree {
	if c.files == nil {
		c.files = NewFileTree(c)
	}
	return c.files
}

// Synonyms returns a new view of the managed synonym map name. The view
// caches its own state, so callers should keep it rather than calling
// Synonyms repeatedly.
func (c *Core) Synonyms(name string) *SynonymMap {
	return NewSynonymMap(c.Resources(), name)
}

func (c *Core) conn() transport.Transport {
	return c.cluster.t
}

func (c *Core) statusField(field string) string {
	s, _ := query.Child(c.cluster.CoreStatus(), c.name, field).(string)
	return s
}
