package manifest

import (
	"fmt"
	"log"
	"reflect"

	"github.com/ohler55/ojg/oj"

	"github.com/agentic-research/solradmin/api"
	"github.com/agentic-research/solradmin/solr"
)

// Change is one reconciliation step.
type Change struct {
	Core    string
	Kind    string // core, field-type, field, dynamic-field, remove, resource, init-args, synonyms, reload
	Name    string
	Outcome solr.Outcome
}

func (c Change) String() string {
	return fmt.Sprintf("%s %s %s: %s", c.Core, c.Kind, c.Name, c.Outcome)
}

// Report lists the changes of one Apply run in order.
type Report struct {
	Changes []Change
}

// Applied returns the changes that sent a mutation.
func (r *Report) Applied() []Change {
	var out []Change
	for _, c := range r.Changes {
		if c.Outcome == solr.Applied {
			out = append(out, c)
		}
	}
	return out
}

// Changed reports whether anything was applied.
func (r *Report) Changed() bool {
	return len(r.Applied()) > 0
}

func (r *Report) add(core, kind, name string, o solr.Outcome) {
	r.Changes = append(r.Changes, Change{Core: core, Kind: kind, Name: name, Outcome: o})
}

// Apply reconciles every core of m in order. It stops at the first core that
// fails and returns the report so far.
func Apply(cluster *solr.Cluster, m *api.Manifest) (*Report, error) {
	report := &Report{}
	for _, spec := range m.Cores {
		if err := applyCore(cluster, spec, report); err != nil {
			return report, fmt.Errorf("apply %s: %w", spec.Name, err)
		}
	}
	return report, nil
}

func applyCore(cluster *solr.Cluster, spec api.CoreSpec, report *Report) error {
	core := cluster.Core(spec.Name)
	start := len(report.Changes)

	if !core.Exists() {
		if spec.Config != "" {
			core.SetConfigName(spec.Config)
		}
		if spec.Schema != "" {
			core.SetSchemaName(spec.Schema)
		}
		report.add(spec.Name, "core", spec.Name, core.Create())
		if !core.Exists() {
			return fmt.Errorf("core was not created")
		}
		log.Printf("manifest: created core %s", spec.Name)
	} else {
		report.add(spec.Name, "core", spec.Name, solr.Unchanged)
	}

	schema := core.Schema()
	for _, group := range []struct {
		elementType string
		elements    []api.Element
	}{
		{"field-type", spec.FieldTypes},
		{"field", spec.Fields},
		{"dynamic-field", spec.DynamicFields},
	} {
		for _, el := range group.elements {
			current := schema.GetElement(group.elementType, api.ByValue(el))
			if current != nil && sameElement(current, el) {
				report.add(spec.Name, group.elementType, el.Name(), solr.Unchanged)
				continue
			}
			_, outcome := schema.ModifyElement(group.elementType, el)
			report.add(spec.Name, group.elementType, el.Name(), outcome)
			if outcome != solr.Applied {
				return fmt.Errorf("%s %q: %s", group.elementType, el.Name(), outcome)
			}
		}
	}

	for _, ref := range spec.Remove {
		outcome := schema.DeleteElement(ref.Type, api.ByName(ref.Name))
		report.add(spec.Name, "remove", ref.Type+"/"+ref.Name, outcome)
		if outcome == solr.UnknownType {
			return fmt.Errorf("remove %s %q: %s", ref.Type, ref.Name, outcome)
		}
	}

	resources := core.Resources()
	for _, ref := range spec.Resources {
		_, outcome := resources.CreateResource(ref.Type, ref.Name)
		report.add(spec.Name, "resource", ref.Type+"/"+ref.Name, outcome)
		if outcome != solr.Applied && outcome != solr.Unchanged {
			return fmt.Errorf("resource %s/%s: %s", ref.Type, ref.Name, outcome)
		}
	}

	for _, syn := range spec.Synonyms {
		if !resources.ResourceExists("synonyms", syn.Name) {
			_, outcome := resources.CreateResource("synonyms", syn.Name)
			report.add(spec.Name, "resource", "synonyms/"+syn.Name, outcome)
		}
		sm := core.Synonyms(syn.Name)
		if syn.InitArgs != nil {
			outcome := solr.Unchanged
			if !sm.InitArgsEqual(syn.InitArgs) {
				outcome = sm.SetInitArgs(syn.InitArgs)
			}
			report.add(spec.Name, "init-args", syn.Name, outcome)
		}
		if len(syn.Map) > 0 {
			report.add(spec.Name, "synonyms", syn.Name, sm.AppendSynonyms(syn.Map))
		}
		for _, g := range syn.Groups {
			report.add(spec.Name, "synonyms", syn.Name, sm.AppendGroup(g))
		}
	}

	if spec.Reload && changedSince(report, start) {
		_, outcome := core.Reload()
		report.add(spec.Name, "reload", spec.Name, outcome)
	}
	return nil
}

func changedSince(r *Report, start int) bool {
	for _, c := range r.Changes[start:] {
		if c.Outcome == solr.Applied {
			return true
		}
	}
	return false
}

// sameElement compares elements after a JSON round trip so YAML and JSON
// number types line up.
func sameElement(a, b api.Element) bool {
	return reflect.DeepEqual(normalize(a), normalize(b))
}

func normalize(el api.Element) any {
	data, err := oj.Marshal(map[string]any(el))
	if err != nil {
		return nil
	}
	v, err := oj.Parse(data)
	if err != nil {
		return nil
	}
	return v
}
