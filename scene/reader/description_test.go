package reader

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/achilleasa/cycles-xml/asset"
	"github.com/achilleasa/cycles-xml/scene"
	"github.com/achilleasa/cycles-xml/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const studioYAML = `
name: studio
render:
  resolution_x: 960
  resolution_y: 540
  resolution_percentage: 50
camera:
  location: [0, 0, 10]
  look_at: [0, 0, 0]
  fov: 60
world:
  color: [0.1, 0.2, 0.3]
materials:
  - name: plain
    diffuse_color: [1, 0, 0]
  - name: Shiny Red
    nodes:
      - {name: Diffuse BSDF, type: BSDF_DIFFUSE, color: [1, 0, 0]}
      - {name: Glossy BSDF, type: BSDF_GLOSSY, distribution: ggx}
      - {name: Mix Shader, type: MIX_SHADER}
      - {name: Material Output, type: OUTPUT_MATERIAL}
      - {name: Noise, type: TEX_NOISE}
    links:
      - {from_node: Diffuse BSDF, from_socket: BSDF, to_node: Mix Shader, to_socket: Shader}
objects:
  - name: lamp
    location: [4, 5, 6]
    light: {kind: sun, cast_shadow: false}
  - name: tri
    materials: [plain]
    rotation: [0, 0, 90]
    mesh:
      vertices: [[0, 0, 0], [1, 0, 0], [0, 1, 0]]
      faces: [[0, 1, 2]]
      uvs: [[[0, 0], [1, 0], [0, 1]]]
  - name: imported
    visible: false
    obj: tri.obj
`

func TestReadYAMLDescription(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"studio.yaml": studioYAML,
		"tri.obj":     "v 0 0 0\nv 1 0 0\nv 0 1 0\nv 1 1 0\nf 1 2 3 4\n",
	})

	sc, err := ReadScene(filepath.Join(dir, "studio.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "studio", sc.Name)
	assert.Equal(t, 480, sc.Render.Width())
	assert.Equal(t, 270, sc.Render.Height())
	assert.Equal(t, types.Vec3{0.1, 0.2, 0.3}, sc.World.Color)

	require.NotNil(t, sc.Camera)
	assert.Equal(t, "camera", sc.Camera.Name)
	assert.InDelta(t, 60.0, types.Degrees(sc.Camera.FOV), 1e-4)
	assert.Equal(t, float32(10), sc.Camera.Matrix.At(2, 3))

	// Materials
	require.Len(t, sc.Materials, 2)
	plain := sc.Material("plain")
	require.NotNil(t, plain)
	assert.Nil(t, plain.Graph)
	assert.Equal(t, types.Vec3{1, 0, 0}, plain.DiffuseColor)

	shiny := sc.Material("Shiny Red")
	require.NotNil(t, shiny)
	require.NotNil(t, shiny.Graph)
	require.Len(t, shiny.Graph.Nodes, 5)

	diffuse, ok := shiny.Graph.Node("Diffuse BSDF").(*scene.DiffuseNode)
	require.True(t, ok)
	assert.Equal(t, types.Vec4{1, 0, 0, 1}, diffuse.Color)

	glossy, ok := shiny.Graph.Node("Glossy BSDF").(*scene.GlossyNode)
	require.True(t, ok)
	assert.Equal(t, "GGX", glossy.Distribution)
	assert.Equal(t, defaultGlossRoughness, glossy.Roughness)
	assert.Equal(t, types.Vec4{0.8, 0.8, 0.8, 1}, glossy.Color)

	mix, ok := shiny.Graph.Node("Mix Shader").(*scene.MixNode)
	require.True(t, ok)
	assert.Equal(t, float32(0.5), mix.Fac)

	unsupported, ok := shiny.Graph.Node("Noise").(*scene.UnsupportedNode)
	require.True(t, ok)
	assert.Equal(t, "TEX_NOISE", unsupported.TypeName)

	assert.Equal(t, []scene.Link{{FromNode: "Diffuse BSDF", FromSocket: "BSDF", ToNode: "Mix Shader", ToSocket: "Shader"}}, shiny.Graph.Links)

	// Objects
	require.Len(t, sc.Objects, 3)

	lamp, ok := sc.Objects[0].(*scene.LightObject)
	require.True(t, ok)
	assert.Equal(t, scene.LightSun, lamp.Light.Kind)
	assert.False(t, lamp.Light.CastShadow)
	assert.Equal(t, defaultLightRadius, lamp.Light.Radius)
	assert.Equal(t, float32(4), lamp.Matrix.At(0, 3))
	assert.Equal(t, float32(6), lamp.Matrix.At(2, 3))

	tri, ok := sc.Objects[1].(*scene.MeshObject)
	require.True(t, ok)
	assert.True(t, tri.IsVisible())
	assert.Equal(t, "plain", tri.FirstMaterial())
	// 90 degree rotation around Z maps +X to +Y
	rotated := tri.Matrix.Mul4x1(types.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 0.0, rotated[0], 1e-5)
	assert.InDelta(t, 1.0, rotated[1], 1e-5)

	triMesh, err := tri.Source.Realize()
	require.NoError(t, err)
	assert.Len(t, triMesh.Vertices, 3)
	assert.True(t, triMesh.HasUVs())

	imported, ok := sc.Objects[2].(*scene.MeshObject)
	require.True(t, ok)
	assert.False(t, imported.IsVisible())
	require.IsType(t, &scene.FileMesh{}, imported.Source)

	importedMesh, err := imported.Source.Realize()
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 1, 2, 3}}, importedMesh.Faces)

	stats := sc.Stats()
	assert.Equal(t, 1, stats.Lights)
	assert.Equal(t, 2, stats.Meshes)
	assert.Equal(t, 1, stats.HiddenObjects)
	assert.Equal(t, 1, stats.NodeMaterials)
	assert.Equal(t, 3, stats.StaticVertices)
}

const boxTOML = `
name = "toml scene"

[camera]
matrix = [1.0, 0.0, 0.0, 1.0, 0.0, 1.0, 0.0, 2.0, 0.0, 0.0, 1.0, 3.0, 0.0, 0.0, 0.0, 1.0]
fov_radians = 0.5

[[materials]]
name = "m"
use_nodes = true

[[materials.nodes]]
name = "hsv"
type = "HUE_SAT"
hue = 0.25

[[objects]]
name = "box"
type = "mesh"
materials = ["m"]

[objects.mesh]
vertices = [[0.0, 0.0, 0.0], [1.0, 0.0, 0.0], [1.0, 1.0, 0.0], [0.0, 1.0, 0.0]]
faces = [[0, 1, 2, 3]]
`

func TestReadTOMLDescription(t *testing.T) {
	res := asset.NewResourceFromStream("box.toml", strings.NewReader(boxTOML))
	sc, err := newDescriptionReader(formatTOML).Read(res)
	require.NoError(t, err)

	assert.Equal(t, "toml scene", sc.Name)
	assert.Equal(t, 1920, sc.Render.Width())

	require.NotNil(t, sc.Camera)
	assert.Equal(t, float32(0.5), sc.Camera.FOV)
	assert.Equal(t, float32(1), sc.Camera.Matrix.At(0, 3))
	assert.Equal(t, float32(2), sc.Camera.Matrix.At(1, 3))
	assert.Equal(t, float32(3), sc.Camera.Matrix.At(2, 3))

	require.Len(t, sc.Materials, 1)
	require.NotNil(t, sc.Materials[0].Graph)
	hsv, ok := sc.Materials[0].Graph.Node("hsv").(*scene.HueSatNode)
	require.True(t, ok)
	assert.Equal(t, float32(0.25), hsv.Hue)
	assert.Equal(t, float32(1), hsv.Saturation)
	assert.Equal(t, float32(1), hsv.Value)
	assert.Equal(t, float32(1), hsv.Fac)

	require.Len(t, sc.Objects, 1)
	box := sc.Objects[0].(*scene.MeshObject)
	assert.Equal(t, types.Ident4(), box.Matrix)
	mesh, err := box.Source.Realize()
	require.NoError(t, err)
	assert.Len(t, mesh.Vertices, 4)
	assert.False(t, mesh.HasUVs())
}

func TestDescriptionDefaults(t *testing.T) {
	res := asset.NewResourceFromStream("bare.yaml", strings.NewReader("objects:\n  - {name: lamp, type: lamp}\n  - {name: empty}\n"))
	sc, err := newDescriptionReader(formatYAML).Read(res)
	require.NoError(t, err)

	assert.Equal(t, "bare.yaml", sc.Name)
	assert.Nil(t, sc.Camera)
	assert.Equal(t, types.Vec3{0.05, 0.05, 0.05}, sc.World.Color)

	require.Len(t, sc.Objects, 2)
	lamp := sc.Objects[0].(*scene.LightObject)
	assert.Equal(t, scene.LightPoint, lamp.Light.Kind)
	assert.True(t, lamp.Light.CastShadow)
	assert.Equal(t, defaultLightRadius, lamp.Light.Radius)

	empty := sc.Objects[1].(*scene.MeshObject)
	_, err = empty.Source.Realize()
	assert.ErrorIs(t, err, scene.ErrNoGeometry)
}

func TestDescriptionUnknownFields(t *testing.T) {
	res := asset.NewResourceFromStream("bad.yaml", strings.NewReader("camera:\n  lens: 50\n"))
	_, err := newDescriptionReader(formatYAML).Read(res)
	assert.Error(t, err)

	res = asset.NewResourceFromStream("bad.toml", strings.NewReader("[camera]\nlens = 50.0\n"))
	_, err = newDescriptionReader(formatTOML).Read(res)
	assert.Error(t, err)

	res = asset.NewResourceFromStream("empty.yaml", strings.NewReader(""))
	_, err = newDescriptionReader(formatYAML).Read(res)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty scene description")
}

func TestDescriptionErrors(t *testing.T) {
	specs := []struct {
		payload string
		expErr  string
	}{
		{"objects: [{name: a, matrix: [1, 2, 3]}]", "expected 16 values"},
		{"objects: [{name: a, matrix: [1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1], location: [1, 2, 3]}]", "cannot be combined"},
		{"objects: [{name: a, mesh: {faces: []}, obj: x.obj}]", "mutually exclusive"},
		{"objects: [{name: a, type: curve}]", `unsupported object type "curve"`},
		{"objects: [{type: mesh}]", "missing object name"},
		{"objects: [{name: a, scale: [1, 1]}]", "scale: expected 3 components"},
		{"objects: [{name: a, mesh: {vertices: [[0, 0, 0]], faces: [[0, 0, 0]], uvs: [[[0]]]}}]", "expected UV pairs"},
		{"materials: [{diffuse_color: [1, 1, 1]}]", "missing material name"},
		{"materials: [{name: m, nodes: [{type: diffuse}]}]", "missing node name"},
		{"materials: [{name: m, nodes: [{name: d, type: diffuse, color: [1, 1]}]}]", "color: expected 3 or 4 components"},
		{"materials: [{name: m, nodes: [{name: d, type: diffuse}], links: [{from_node: d}]}]", "link 0"},
		{"camera: {look_at: [0, 0]}", "look_at: expected 3 components"},
		{"world: {color: [1]}", "world color"},
	}

	for index, spec := range specs {
		res := asset.NewResourceFromStream("spec.yaml", strings.NewReader(spec.payload))
		_, err := newDescriptionReader(formatYAML).Read(res)
		if err == nil || !strings.Contains(err.Error(), spec.expErr) {
			t.Errorf("[spec %d] expected error containing %q; got %v", index, spec.expErr, err)
		}
	}
}
