package api

// Element is one schema element (field, field type, copy field or dynamic
// field) as the Schema API represents it.
type Element map[string]any

// Name returns the element's "name" attribute, or "".
func (e Element) Name() string {
	s, _ := e["name"].(string)
	return s
}

// NameRef identifies a schema element either by a full element value or by
// name alone. Construct it with ByName or ByValue.
type NameRef struct {
	name  string
	value Element
}

// ByName refers to an element by its name.
func ByName(name string) NameRef {
	return NameRef{name: name}
}

// ByValue refers to an element by its value; its name is the value's "name".
func ByValue(e Element) NameRef {
	return NameRef{name: e.Name(), value: e}
}

// Name returns the referenced name, "" when the reference carries none.
func (r NameRef) Name() string {
	return r.name
}

// Body returns the payload used to address the element in a delete command:
// the element itself for ByValue, {"name": name} for ByName.
func (r NameRef) Body() map[string]any {
	if r.value != nil {
		return map[string]any(r.value)
	}
	return map[string]any{"name": r.name}
}

// Resource is a managed REST resource descriptor as listed by
// /schema/managed.
type Resource map[string]any

// ID returns the resource's "resourceId".
func (r Resource) ID() string {
	s, _ := r["resourceId"].(string)
	return s
}

// Class returns the resource's backing implementation class.
func (r Resource) Class() string {
	s, _ := r["class"].(string)
	return s
}

// CoreStatus is the typed view of one core's status record.
type CoreStatus struct {
	Name        string `json:"name" yaml:"name"`
	InstanceDir string `json:"instanceDir" yaml:"instance_dir"`
	Config      string `json:"config" yaml:"config"`
	Schema      string `json:"schema" yaml:"schema"`
}
