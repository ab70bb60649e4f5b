// Package scene contains the read-only scene model consumed by the exporter.
// Readers populate it; the exporter never mutates it.
package scene

import (
	"fmt"
)

// Render settings.
type Render struct {
	ResolutionX          int
	ResolutionY          int
	ResolutionPercentage int
}

// Width returns the effective frame width after applying the resolution
// percentage. The result is truncated.
func (r Render) Width() int {
	return r.ResolutionX * r.ResolutionPercentage / 100
}

// Height returns the effective frame height after applying the resolution
// percentage. The result is truncated.
func (r Render) Height() int {
	return r.ResolutionY * r.ResolutionPercentage / 100
}

// The Scene contains all elements that can be exported.
type Scene struct {
	Name string

	Render Render

	// The active camera. May be nil.
	Camera *Camera

	World *World

	// Materials and objects in enumeration order.
	Materials []*Material
	Objects   []Object
}

// Create a new empty scene with default render settings.
func NewScene(name string) *Scene {
	return &Scene{
		Name: name,
		Render: Render{
			ResolutionX:          1920,
			ResolutionY:          1080,
			ResolutionPercentage: 100,
		},
		World:     NewWorld(),
		Materials: make([]*Material, 0),
		Objects:   make([]Object, 0),
	}
}

// Lookup a material by name.
func (sc *Scene) Material(name string) *Material {
	for _, mat := range sc.Materials {
		if mat.Name == name {
			return mat
		}
	}
	return nil
}

// Stats summarizes the scene contents.
type Stats struct {
	Materials      int
	NodeMaterials  int
	Lights         int
	Meshes         int
	HiddenObjects  int
	StaticVertices int
	StaticFaces    int
}

// Collect scene statistics. Only statically defined meshes contribute to
// the vertex and face counts; file-backed meshes are not realized.
func (sc *Scene) Stats() Stats {
	var st Stats
	st.Materials = len(sc.Materials)
	for _, mat := range sc.Materials {
		if mat.Graph != nil {
			st.NodeMaterials++
		}
	}

	for _, obj := range sc.Objects {
		if !obj.IsVisible() {
			st.HiddenObjects++
		}

		switch o := obj.(type) {
		case *LightObject:
			st.Lights++
		case *MeshObject:
			st.Meshes++
			if sm, isStatic := o.Source.(*StaticMesh); isStatic && sm.Mesh != nil {
				st.StaticVertices += len(sm.Mesh.Vertices)
				st.StaticFaces += len(sm.Mesh.Faces)
			}
		}
	}

	return st
}

func (st Stats) String() string {
	return fmt.Sprintf(
		"materials: %d (%d node graphs), lights: %d, meshes: %d, hidden: %d, vertices: %d, faces: %d",
		st.Materials, st.NodeMaterials, st.Lights, st.Meshes, st.HiddenObjects, st.StaticVertices, st.StaticFaces,
	)
}
