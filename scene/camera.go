package scene

import "github.com/achilleasa/cycles-xml/types"

// Camera settings.
type Camera struct {
	Name string

	// Camera-to-world transformation.
	Matrix types.Mat4

	// Vertical field of view in radians.
	FOV float32
}

// Create a camera at the origin looking down -Z.
func NewCamera(name string, fov float32) *Camera {
	return &Camera{
		Name:   name,
		Matrix: types.Ident4(),
		FOV:    fov,
	}
}

// The world defines the scene background.
type World struct {
	Color types.Vec3

	// Set when the world uses a procedural node graph instead of a flat color.
	UseNodes bool
}

// Create a world with the default flat grey background.
func NewWorld() *World {
	return &World{
		Color: types.Vec3{0.05, 0.05, 0.05},
	}
}
