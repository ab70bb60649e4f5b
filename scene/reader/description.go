package reader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/achilleasa/cycles-xml/asset"
	"github.com/achilleasa/cycles-xml/log"
	"github.com/achilleasa/cycles-xml/scene"
	"github.com/achilleasa/cycles-xml/types"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

type descriptionFormat int

const (
	formatYAML descriptionFormat = iota
	formatTOML
)

func (f descriptionFormat) String() string {
	if f == formatTOML {
		return "toml"
	}
	return "yaml"
}

// Default values applied to omitted description fields.
const (
	defaultFOVDegrees     float32 = 45.0
	defaultLightRadius    float32 = 0.1
	defaultGlossRoughness float32 = 0.5
)

type sceneDescription struct {
	Name      string                `yaml:"name" toml:"name"`
	Render    *renderDescription    `yaml:"render" toml:"render"`
	Camera    *cameraDescription    `yaml:"camera" toml:"camera"`
	World     *worldDescription     `yaml:"world" toml:"world"`
	Materials []materialDescription `yaml:"materials" toml:"materials"`
	Objects   []objectDescription   `yaml:"objects" toml:"objects"`
}

type renderDescription struct {
	ResolutionX          int `yaml:"resolution_x" toml:"resolution_x"`
	ResolutionY          int `yaml:"resolution_y" toml:"resolution_y"`
	ResolutionPercentage int `yaml:"resolution_percentage" toml:"resolution_percentage"`
}

type cameraDescription struct {
	Name       string    `yaml:"name" toml:"name"`
	Matrix     []float32 `yaml:"matrix" toml:"matrix"`
	Location   []float32 `yaml:"location" toml:"location"`
	Rotation   []float32 `yaml:"rotation" toml:"rotation"`
	LookAt     []float32 `yaml:"look_at" toml:"look_at"`
	Up         []float32 `yaml:"up" toml:"up"`
	FOV        *float32  `yaml:"fov" toml:"fov"`
	FOVRadians *float32  `yaml:"fov_radians" toml:"fov_radians"`
}

type worldDescription struct {
	Color    []float32 `yaml:"color" toml:"color"`
	UseNodes bool      `yaml:"use_nodes" toml:"use_nodes"`
}

type materialDescription struct {
	Name         string            `yaml:"name" toml:"name"`
	DiffuseColor []float32         `yaml:"diffuse_color" toml:"diffuse_color"`
	UseNodes     bool              `yaml:"use_nodes" toml:"use_nodes"`
	Nodes        []nodeDescription `yaml:"nodes" toml:"nodes"`
	Links        []linkDescription `yaml:"links" toml:"links"`
}

type nodeDescription struct {
	Name         string    `yaml:"name" toml:"name"`
	Type         string    `yaml:"type" toml:"type"`
	Color        []float32 `yaml:"color" toml:"color"`
	Roughness    *float32  `yaml:"roughness" toml:"roughness"`
	Distribution string    `yaml:"distribution" toml:"distribution"`
	Hue          *float32  `yaml:"hue" toml:"hue"`
	Saturation   *float32  `yaml:"saturation" toml:"saturation"`
	Value        *float32  `yaml:"value" toml:"value"`
	Fac          *float32  `yaml:"fac" toml:"fac"`
}

type linkDescription struct {
	FromNode   string `yaml:"from_node" toml:"from_node"`
	FromSocket string `yaml:"from_socket" toml:"from_socket"`
	ToNode     string `yaml:"to_node" toml:"to_node"`
	ToSocket   string `yaml:"to_socket" toml:"to_socket"`
}

type objectDescription struct {
	Name      string            `yaml:"name" toml:"name"`
	Type      string            `yaml:"type" toml:"type"`
	Visible   *bool             `yaml:"visible" toml:"visible"`
	Matrix    []float32         `yaml:"matrix" toml:"matrix"`
	Location  []float32         `yaml:"location" toml:"location"`
	Rotation  []float32         `yaml:"rotation" toml:"rotation"`
	Scale     []float32         `yaml:"scale" toml:"scale"`
	Materials []string          `yaml:"materials" toml:"materials"`
	Light     *lightDescription `yaml:"light" toml:"light"`
	Mesh      *meshDescription  `yaml:"mesh" toml:"mesh"`
	OBJ       string            `yaml:"obj" toml:"obj"`
}

type lightDescription struct {
	Kind       string   `yaml:"kind" toml:"kind"`
	CastShadow *bool    `yaml:"cast_shadow" toml:"cast_shadow"`
	Radius     *float32 `yaml:"radius" toml:"radius"`
}

type meshDescription struct {
	Vertices [][]float32   `yaml:"vertices" toml:"vertices"`
	Faces    [][]int       `yaml:"faces" toml:"faces"`
	UVs      [][][]float32 `yaml:"uvs" toml:"uvs"`
}

// The description reader parses yaml or toml scene descriptions.
type descriptionReader struct {
	logger log.Logger
	format descriptionFormat
}

func newDescriptionReader(format descriptionFormat) *descriptionReader {
	return &descriptionReader{
		logger: log.New("description reader"),
		format: format,
	}
}

// Read scene definition.
func (r *descriptionReader) Read(res *asset.Resource) (*scene.Scene, error) {
	r.logger.Noticef(`parsing %s scene description from "%s"`, r.format, res.Path())
	if res.IsRemote() {
		r.logger.Infof("obj mesh paths resolve relative to %s", res.Path())
	}
	start := time.Now()

	data, err := io.ReadAll(res)
	if err != nil {
		return nil, fmt.Errorf("description: could not read %s: %w", res.Path(), err)
	}

	var desc sceneDescription
	switch r.format {
	case formatTOML:
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&desc)
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&desc)
		if errors.Is(err, io.EOF) {
			err = errors.New("empty scene description")
		}
	}
	if err != nil {
		return nil, fmt.Errorf("description: could not decode %s: %w", res.Path(), err)
	}

	sc, err := r.buildScene(&desc, res)
	if err != nil {
		return nil, fmt.Errorf("description: %s: %w", res.Path(), err)
	}

	r.logger.Noticef("parsed scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return sc, nil
}

func (r *descriptionReader) buildScene(desc *sceneDescription, res *asset.Resource) (*scene.Scene, error) {
	name := desc.Name
	if name == "" {
		name = res.Name()
	}
	sc := scene.NewScene(name)

	if desc.Render != nil {
		if desc.Render.ResolutionX != 0 {
			sc.Render.ResolutionX = desc.Render.ResolutionX
		}
		if desc.Render.ResolutionY != 0 {
			sc.Render.ResolutionY = desc.Render.ResolutionY
		}
		if desc.Render.ResolutionPercentage != 0 {
			sc.Render.ResolutionPercentage = desc.Render.ResolutionPercentage
		}
	}

	if desc.Camera != nil {
		cam, err := buildCamera(desc.Camera)
		if err != nil {
			return nil, fmt.Errorf("camera: %w", err)
		}
		sc.Camera = cam
	}

	if desc.World != nil {
		if len(desc.World.Color) != 0 {
			color, err := toVec3(desc.World.Color)
			if err != nil {
				return nil, fmt.Errorf("world color: %w", err)
			}
			sc.World.Color = color
		}
		sc.World.UseNodes = desc.World.UseNodes
	}

	for index := range desc.Materials {
		mat, err := buildMaterial(&desc.Materials[index])
		if err != nil {
			return nil, fmt.Errorf("material %d (%q): %w", index, desc.Materials[index].Name, err)
		}
		sc.Materials = append(sc.Materials, mat)
	}

	for index := range desc.Objects {
		obj, err := r.buildObject(&desc.Objects[index], res)
		if err != nil {
			return nil, fmt.Errorf("object %d (%q): %w", index, desc.Objects[index].Name, err)
		}
		sc.Objects = append(sc.Objects, obj)
	}

	return sc, nil
}

func buildCamera(desc *cameraDescription) (*scene.Camera, error) {
	name := desc.Name
	if name == "" {
		name = "camera"
	}

	fov := types.Radians(defaultFOVDegrees)
	switch {
	case desc.FOVRadians != nil:
		fov = *desc.FOVRadians
	case desc.FOV != nil:
		fov = types.Radians(*desc.FOV)
	}

	cam := scene.NewCamera(name, fov)
	if len(desc.LookAt) != 0 {
		eye, err := optionalVec3(desc.Location, types.Vec3{})
		if err != nil {
			return nil, fmt.Errorf("location: %w", err)
		}
		target, err := toVec3(desc.LookAt)
		if err != nil {
			return nil, fmt.Errorf("look_at: %w", err)
		}
		up, err := optionalVec3(desc.Up, types.Vec3{0, 1, 0})
		if err != nil {
			return nil, fmt.Errorf("up: %w", err)
		}
		cam.Matrix = types.LookAt(eye, target, up)
		return cam, nil
	}

	m, err := buildTransform(desc.Matrix, desc.Location, desc.Rotation, nil)
	if err != nil {
		return nil, err
	}
	cam.Matrix = m
	return cam, nil
}

func buildMaterial(desc *materialDescription) (*scene.Material, error) {
	if desc.Name == "" {
		return nil, errors.New("missing material name")
	}

	mat := scene.NewMaterial(desc.Name)
	if len(desc.DiffuseColor) != 0 {
		color, err := toVec3(desc.DiffuseColor)
		if err != nil {
			return nil, fmt.Errorf("diffuse_color: %w", err)
		}
		mat.DiffuseColor = color
	}

	if !desc.UseNodes && len(desc.Nodes) == 0 {
		return mat, nil
	}

	graph := &scene.NodeGraph{}
	for index := range desc.Nodes {
		node, err := buildNode(&desc.Nodes[index])
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", index, err)
		}
		graph.Nodes = append(graph.Nodes, node)
	}

	for index, link := range desc.Links {
		if link.FromNode == "" || link.FromSocket == "" || link.ToNode == "" || link.ToSocket == "" {
			return nil, fmt.Errorf("link %d: from_node, from_socket, to_node and to_socket are required", index)
		}
		graph.Links = append(graph.Links, scene.Link{
			FromNode:   link.FromNode,
			FromSocket: link.FromSocket,
			ToNode:     link.ToNode,
			ToSocket:   link.ToSocket,
		})
	}

	mat.Graph = graph
	return mat, nil
}

func buildNode(desc *nodeDescription) (scene.Node, error) {
	if desc.Name == "" {
		return nil, errors.New("missing node name")
	}

	color, err := optionalColor(desc.Color)
	if err != nil {
		return nil, fmt.Errorf("color: %w", err)
	}

	switch scene.NodeTypeFromName(desc.Type) {
	case scene.NodeDiffuse:
		return &scene.DiffuseNode{
			Name:      desc.Name,
			Color:     color,
			Roughness: floatOr(desc.Roughness, 0),
		}, nil
	case scene.NodeGlossy:
		return &scene.GlossyNode{
			Name:         desc.Name,
			Color:        color,
			Roughness:    floatOr(desc.Roughness, defaultGlossRoughness),
			Distribution: strings.ToUpper(desc.Distribution),
		}, nil
	case scene.NodeHueSat:
		return &scene.HueSatNode{
			Name:       desc.Name,
			Hue:        floatOr(desc.Hue, 0.5),
			Saturation: floatOr(desc.Saturation, 1),
			Value:      floatOr(desc.Value, 1),
			Fac:        floatOr(desc.Fac, 1),
			Color:      color,
		}, nil
	case scene.NodeMix:
		return &scene.MixNode{
			Name: desc.Name,
			Fac:  floatOr(desc.Fac, 0.5),
		}, nil
	case scene.NodeOutput:
		return &scene.OutputNode{Name: desc.Name}, nil
	}

	return &scene.UnsupportedNode{Name: desc.Name, TypeName: desc.Type}, nil
}

func (r *descriptionReader) buildObject(desc *objectDescription, res *asset.Resource) (scene.Object, error) {
	if desc.Name == "" {
		return nil, errors.New("missing object name")
	}

	matrix, err := buildTransform(desc.Matrix, desc.Location, desc.Rotation, desc.Scale)
	if err != nil {
		return nil, err
	}

	visible := true
	if desc.Visible != nil {
		visible = *desc.Visible
	}

	objType := strings.ToLower(desc.Type)
	if objType == "" {
		objType = "mesh"
		if desc.Light != nil {
			objType = "light"
		}
	}

	switch objType {
	case "light", "lamp":
		light := scene.Light{
			Kind:       scene.LightPoint,
			CastShadow: true,
			Radius:     defaultLightRadius,
		}
		if desc.Light != nil {
			light.Kind = scene.LightKindFromName(desc.Light.Kind)
			if desc.Light.CastShadow != nil {
				light.CastShadow = *desc.Light.CastShadow
			}
			light.Radius = floatOr(desc.Light.Radius, defaultLightRadius)
		}
		return &scene.LightObject{
			Name:    desc.Name,
			Matrix:  matrix,
			Visible: visible,
			Light:   light,
		}, nil
	case "mesh":
		obj := &scene.MeshObject{
			Name:          desc.Name,
			Matrix:        matrix,
			Visible:       visible,
			MaterialSlots: desc.Materials,
		}

		switch {
		case desc.Mesh != nil && desc.OBJ != "":
			return nil, errors.New(`"mesh" and "obj" are mutually exclusive`)
		case desc.Mesh != nil:
			mesh, err := buildMesh(desc.Mesh)
			if err != nil {
				return nil, err
			}
			obj.Source = &scene.StaticMesh{Mesh: mesh}
		case desc.OBJ != "":
			obj.Source = &scene.FileMesh{
				Path:   desc.OBJ,
				Loader: wavefrontLoader(res),
			}
		default:
			obj.Source = &scene.StaticMesh{}
		}
		return obj, nil
	}

	return nil, fmt.Errorf("unsupported object type %q", desc.Type)
}

// Create a mesh loader that resolves wavefront paths relative to res.
func wavefrontLoader(res *asset.Resource) func(string) (*scene.Mesh, error) {
	return func(path string) (*scene.Mesh, error) {
		meshRes, err := res.Open(path)
		if err != nil {
			return nil, err
		}
		defer meshRes.Close()

		return newWavefrontReader().ReadMesh(meshRes)
	}
}

func buildMesh(desc *meshDescription) (*scene.Mesh, error) {
	mesh := &scene.Mesh{
		Vertices: make([]types.Vec3, 0, len(desc.Vertices)),
		Faces:    desc.Faces,
	}

	for index, v := range desc.Vertices {
		vec, err := toVec3(v)
		if err != nil {
			return nil, fmt.Errorf("vertex %d: %w", index, err)
		}
		mesh.Vertices = append(mesh.Vertices, vec)
	}

	if desc.UVs != nil {
		mesh.UVs = make([][]types.Vec2, 0, len(desc.UVs))
		for faceIndex, faceUVs := range desc.UVs {
			corners := make([]types.Vec2, 0, len(faceUVs))
			for _, uv := range faceUVs {
				if len(uv) != 2 {
					return nil, fmt.Errorf("face %d: expected UV pairs; got %d components", faceIndex, len(uv))
				}
				corners = append(corners, types.Vec2{uv[0], uv[1]})
			}
			mesh.UVs = append(mesh.UVs, corners)
		}
	}

	return mesh, nil
}

// Build a world matrix either from 16 row-major values or from location,
// XYZ euler rotation in degrees and scale.
func buildTransform(matrix, location, rotation, scale []float32) (types.Mat4, error) {
	if len(matrix) != 0 {
		if len(location) != 0 || len(rotation) != 0 || len(scale) != 0 {
			return types.Mat4{}, errors.New(`"matrix" cannot be combined with location, rotation or scale`)
		}
		if len(matrix) != 16 {
			return types.Mat4{}, fmt.Errorf("matrix: expected 16 values; got %d", len(matrix))
		}
		var rows [16]float32
		copy(rows[:], matrix)
		return types.Mat4FromRows(rows), nil
	}

	t, err := optionalVec3(location, types.Vec3{})
	if err != nil {
		return types.Mat4{}, fmt.Errorf("location: %w", err)
	}
	rot, err := optionalVec3(rotation, types.Vec3{})
	if err != nil {
		return types.Mat4{}, fmt.Errorf("rotation: %w", err)
	}
	s, err := optionalVec3(scale, types.Vec3{1, 1, 1})
	if err != nil {
		return types.Mat4{}, fmt.Errorf("scale: %w", err)
	}

	rot = types.Vec3{types.Radians(rot[0]), types.Radians(rot[1]), types.Radians(rot[2])}
	return types.Compose(t, rot, s), nil
}

func toVec3(v []float32) (types.Vec3, error) {
	if len(v) != 3 {
		return types.Vec3{}, fmt.Errorf("expected 3 components; got %d", len(v))
	}
	return types.Vec3{v[0], v[1], v[2]}, nil
}

func optionalVec3(v []float32, def types.Vec3) (types.Vec3, error) {
	if len(v) == 0 {
		return def, nil
	}
	return toVec3(v)
}

// Parse an RGB or RGBA color. Alpha defaults to 1 and an omitted color to light grey.
func optionalColor(v []float32) (types.Vec4, error) {
	switch len(v) {
	case 0:
		return types.Vec4{0.8, 0.8, 0.8, 1}, nil
	case 3:
		return types.Vec4{v[0], v[1], v[2], 1}, nil
	case 4:
		return types.Vec4{v[0], v[1], v[2], v[3]}, nil
	}
	return types.Vec4{}, fmt.Errorf("expected 3 or 4 components; got %d", len(v))
}

func floatOr(v *float32, def float32) float32 {
	if v == nil {
		return def
	}
	return *v
}
