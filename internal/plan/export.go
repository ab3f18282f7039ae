package plan

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Export formats supported by Batch.Export.
const (
	FormatText = "text"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// ExportedBatch is the serializable form of a Batch.
type ExportedBatch struct {
	Types  []ExportedType `yaml:"types" json:"types"`
	Errors []string       `yaml:"errors,omitempty" json:"errors,omitempty"`
}

// ExportedType is the serializable form of one TypeResult.
type ExportedType struct {
	Name         string         `yaml:"name" json:"name"`
	Target       string         `yaml:"target,omitempty" json:"target,omitempty"`
	Form         string         `yaml:"form" json:"form"`
	ToExternal   []ExportedPlan `yaml:"to_external,omitempty" json:"to_external,omitempty"`
	FromExternal []ExportedPlan `yaml:"from_external,omitempty" json:"from_external,omitempty"`
	Fallback     bool           `yaml:"fallback,omitempty" json:"fallback,omitempty"`
	Error        string         `yaml:"error,omitempty" json:"error,omitempty"`
}

// ExportedPlan is the serializable form of one TransformPlan.
type ExportedPlan struct {
	Name        string   `yaml:"name" json:"name"`
	Shape       string   `yaml:"shape" json:"shape"`
	Source      string   `yaml:"source" json:"source"`
	Destination string   `yaml:"destination" json:"destination"`
	Steps       []string `yaml:"steps,flow" json:"steps"`
}

// ExportBatch converts a batch into its serializable form.
func ExportBatch(b *Batch) *ExportedBatch {
	out := &ExportedBatch{Types: make([]ExportedType, 0, len(b.Results))}

	for i := range b.Results {
		r := &b.Results[i]

		et := ExportedType{Name: r.Type.Name, Form: r.Type.Form.String()}
		if r.Type.Target != nil {
			et.Target = r.Type.Target.String()
		}

		if r.Err != nil {
			et.Error = r.Err.Error()
		}

		if r.ToExternal != nil {
			et.ToExternal = exportPlans(r.ToExternal)
			et.Fallback = r.ToExternal.Fallback
		}

		if r.FromExternal != nil {
			et.FromExternal = exportPlans(r.FromExternal)
			et.Fallback = et.Fallback || r.FromExternal.Fallback
		}

		out.Types = append(out.Types, et)
	}

	for _, d := range b.Diagnostics.Errors {
		out.Errors = append(out.Errors, d.String())
	}

	return out
}

func exportPlans(tp *TypePlan) []ExportedPlan {
	plans := tp.Fields
	if tp.Type.IsSum() {
		plans = tp.Arms
	}

	out := make([]ExportedPlan, 0, len(plans))
	for i := range plans {
		out = append(out, exportPlan(&plans[i]))
	}

	return out
}

func exportPlan(p *TransformPlan) ExportedPlan {
	ep := ExportedPlan{
		Name:        p.Name,
		Source:      p.Source,
		Destination: p.Destination,
		Steps:       make([]string, len(p.Steps)),
	}

	if p.Subject == SubjectVariant {
		ep.Shape = p.VariantShape.String()
	} else {
		ep.Shape = p.Shape.String()
	}

	for i, s := range p.Steps {
		ep.Steps[i] = s.String()
	}

	return ep
}

// Export renders the batch in the given format.
func (b *Batch) Export(format string) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(ExportBatch(b))
	case FormatJSON:
		return json.MarshalIndent(ExportBatch(b), "", "  ")
	case FormatText, "":
		return []byte(b.Text()), nil
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

// Text renders every plan and diagnostic in a human-readable form.
func (b *Batch) Text() string {
	var sb strings.Builder

	for i := range b.Results {
		r := &b.Results[i]
		if r.Err != nil {
			fmt.Fprintf(&sb, "%s: error: %v\n", r.Type.Name, r.Err)
			continue
		}

		for _, tp := range r.Plans() {
			sb.WriteString(tp.String())
		}
	}

	for _, d := range b.Diagnostics.Warnings {
		sb.WriteString("warning: " + d.String() + "\n")
	}

	for _, d := range b.Diagnostics.Infos {
		sb.WriteString("info: " + d.String() + "\n")
	}

	return sb.String()
}
