package exporter

import "fmt"

// Kind identifies the scene entity a diagnostic refers to.
type Kind string

const (
	KindCamera     Kind = "camera"
	KindBackground Kind = "background"
	KindMaterial   Kind = "material"
	KindLight      Kind = "light"
	KindMesh       Kind = "mesh"
)

// Status describes what happened to an exported entity.
type Status string

const (
	StatusExported Status = "exported"
	StatusSkipped  Status = "skipped"
	StatusDegraded Status = "degraded"
)

// A Diagnostic records the outcome of exporting a single scene entity.
type Diagnostic struct {
	Kind   Kind
	Name   string
	Status Status

	// Empty for exported entities.
	Reason string
}

func (d Diagnostic) String() string {
	if d.Reason == "" {
		return fmt.Sprintf("%s %q: %s", d.Kind, d.Name, d.Status)
	}
	return fmt.Sprintf("%s %q: %s (%s)", d.Kind, d.Name, d.Status, d.Reason)
}

// Counts summarizes a report by status.
type Counts struct {
	Exported int
	Skipped  int
	Degraded int
}

// A Report collects diagnostics in scene traversal order.
type Report struct {
	Diagnostics []Diagnostic
}

func (r *Report) exported(kind Kind, name string) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{Kind: kind, Name: name, Status: StatusExported})
}

func (r *Report) skipped(kind Kind, name, reason string) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{Kind: kind, Name: name, Status: StatusSkipped, Reason: reason})
}

func (r *Report) degraded(kind Kind, name, reason string) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{Kind: kind, Name: name, Status: StatusDegraded, Reason: reason})
}

// Counts tallies the collected diagnostics by status.
func (r *Report) Counts() Counts {
	var c Counts
	for _, d := range r.Diagnostics {
		switch d.Status {
		case StatusExported:
			c.Exported++
		case StatusSkipped:
			c.Skipped++
		case StatusDegraded:
			c.Degraded++
		}
	}
	return c
}

// Lookup diagnostics for the given kind and name.
func (r *Report) Find(kind Kind, name string) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Kind == kind && d.Name == name {
			out = append(out, d)
		}
	}
	return out
}
