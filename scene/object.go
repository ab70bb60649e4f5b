package scene

import (
	"strings"

	"github.com/achilleasa/cycles-xml/types"
)

// Object is implemented by the closed set of exportable scene object kinds:
// *LightObject and *MeshObject.
type Object interface {
	ObjectName() string

	// World-space transformation.
	Transform() types.Mat4

	// The object's own visibility flag.
	IsVisible() bool

	object()
}

// LightKind enumerates the supported light sources.
type LightKind int

const (
	LightPoint LightKind = iota
	LightSun
	LightSpot
	LightArea
	LightHemi
)

// Lookup light kind by name; unknown names map to LightPoint.
func LightKindFromName(name string) LightKind {
	switch strings.ToLower(name) {
	case "sun":
		return LightSun
	case "spot":
		return LightSpot
	case "area":
		return LightArea
	case "hemi":
		return LightHemi
	}

	return LightPoint
}

func (k LightKind) String() string {
	switch k {
	case LightSun:
		return "sun"
	case LightSpot:
		return "spot"
	case LightArea:
		return "area"
	case LightHemi:
		return "hemi"
	}

	return "point"
}

// Light parameters.
type Light struct {
	Kind       LightKind
	CastShadow bool
	Radius     float32
}

type LightObject struct {
	Name    string
	Matrix  types.Mat4
	Visible bool
	Light   Light
}

// A MeshObject references geometry through a MeshSource that is realized
// at export time.
type MeshObject struct {
	Name    string
	Matrix  types.Mat4
	Visible bool

	// Material slot names in slot order.
	MaterialSlots []string

	Source MeshSource
}

func (o *LightObject) ObjectName() string    { return o.Name }
func (o *LightObject) Transform() types.Mat4 { return o.Matrix }
func (o *LightObject) IsVisible() bool       { return o.Visible }
func (*LightObject) object()                 {}

func (o *MeshObject) ObjectName() string    { return o.Name }
func (o *MeshObject) Transform() types.Mat4 { return o.Matrix }
func (o *MeshObject) IsVisible() bool       { return o.Visible }
func (*MeshObject) object()                 {}

// Get the name of the first material slot or an empty string if the object
// has no material slots.
func (o *MeshObject) FirstMaterial() string {
	if len(o.MaterialSlots) == 0 {
		return ""
	}
	return o.MaterialSlots[0]
}
