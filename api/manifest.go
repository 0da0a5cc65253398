package api

// Manifest is the root of a declarative desired-state file. Applying it
// creates missing cores and upserts the listed schema elements and managed
// resources.
type Manifest struct {
	// Version of the manifest format.
	Version string `yaml:"version"`
	// Cores to reconcile, in order.
	Cores []CoreSpec `yaml:"cores"`
}

// CoreSpec describes the desired state of one core.
type CoreSpec struct {
	Name string `yaml:"name"`
	// Config and Schema are only used when the core has to be created.
	Config string `yaml:"config,omitempty"`
	Schema string `yaml:"schema,omitempty"`

	// Elements are upserted by name, field types first.
	FieldTypes    []Element `yaml:"field_types,omitempty"`
	Fields        []Element `yaml:"fields,omitempty"`
	DynamicFields []Element `yaml:"dynamic_fields,omitempty"`

	// Remove lists elements that must not exist.
	Remove []ElementRef `yaml:"remove,omitempty"`

	Resources []ResourceRef `yaml:"resources,omitempty"`
	Synonyms  []SynonymSpec `yaml:"synonyms,omitempty"`

	// Reload the core after changes were applied.
	Reload bool `yaml:"reload,omitempty"`
}

// ElementRef names a schema element of a given type ("field", "field-type",
// "dynamic-field").
type ElementRef struct {
	Type string `yaml:"type"`
	Name string `yaml:"name"`
}

// ResourceRef names a managed resource ("stopwords" or "synonyms").
type ResourceRef struct {
	Type string `yaml:"type"`
	Name string `yaml:"name"`
}

// SynonymSpec is the desired content of a managed synonym map. Entries are
// merged into the server state, never removed.
type SynonymSpec struct {
	Name     string              `yaml:"name"`
	InitArgs map[string]any      `yaml:"init_args,omitempty"`
	Map      map[string][]string `yaml:"map,omitempty"`
	// Groups are lists of mutually equivalent terms.
	Groups [][]string `yaml:"groups,omitempty"`
}
