package scene

import (
	"errors"
	"fmt"

	"github.com/achilleasa/cycles-xml/types"
)

// ErrNoGeometry is returned by mesh sources that realize to nothing.
var ErrNoGeometry = errors.New("mesh source produced no geometry")

// A tessellated polygon mesh. Faces hold vertex indices in winding order and
// may have any number of corners.
type Mesh struct {
	Vertices []types.Vec3
	Faces    [][]int

	// Per face-corner UV coordinates, parallel to Faces. Nil when the mesh has
	// no active UV layer.
	UVs [][]types.Vec2
}

// Returns true if the mesh carries an active UV layer.
func (m *Mesh) HasUVs() bool {
	return m.UVs != nil
}

// Validate face indices and UV layout.
func (m *Mesh) Validate() error {
	if m.UVs != nil && len(m.UVs) != len(m.Faces) {
		return fmt.Errorf("mesh: UV layer covers %d faces; expected %d", len(m.UVs), len(m.Faces))
	}

	for faceIndex, face := range m.Faces {
		if len(face) < 3 {
			return fmt.Errorf("mesh: face %d has %d vertices; expected at least 3", faceIndex, len(face))
		}
		for _, vIndex := range face {
			if vIndex < 0 || vIndex >= len(m.Vertices) {
				return fmt.Errorf("mesh: face %d references out of bounds vertex %d", faceIndex, vIndex)
			}
		}
		if m.UVs != nil && len(m.UVs[faceIndex]) != len(face) {
			return fmt.Errorf("mesh: face %d has %d corners but %d UV coordinates", faceIndex, len(face), len(m.UVs[faceIndex]))
		}
	}

	return nil
}

// MeshSource realizes the tessellated geometry for a mesh object. Realization
// may fail or yield no mesh.
type MeshSource interface {
	Realize() (*Mesh, error)
}

// StaticMesh is a mesh source backed by in-memory geometry.
type StaticMesh struct {
	Mesh *Mesh
}

func (s *StaticMesh) Realize() (*Mesh, error) {
	if s.Mesh == nil || len(s.Mesh.Faces) == 0 {
		return nil, ErrNoGeometry
	}
	if err := s.Mesh.Validate(); err != nil {
		return nil, err
	}
	return s.Mesh, nil
}

// FileMesh lazily loads geometry from an external file the first time it is
// realized. Load errors surface from Realize.
type FileMesh struct {
	Path string

	// Loader reads the geometry at Path.
	Loader func(path string) (*Mesh, error)

	mesh *Mesh
}

func (s *FileMesh) Realize() (*Mesh, error) {
	if s.mesh != nil {
		return s.mesh, nil
	}
	if s.Loader == nil {
		return nil, fmt.Errorf("mesh: no loader for %q", s.Path)
	}

	mesh, err := s.Loader(s.Path)
	if err != nil {
		return nil, fmt.Errorf("mesh: could not load %q: %w", s.Path, err)
	}
	if mesh == nil || len(mesh.Faces) == 0 {
		return nil, ErrNoGeometry
	}
	if err = mesh.Validate(); err != nil {
		return nil, err
	}

	s.mesh = mesh
	return mesh, nil
}
