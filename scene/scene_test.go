package scene

import (
	"errors"
	"testing"

	"github.com/achilleasa/cycles-xml/types"
)

func TestRenderResolution(t *testing.T) {
	specs := []struct {
		render Render
		width  int
		height int
	}{
		{Render{1920, 1080, 50}, 960, 540},
		{Render{1920, 1080, 100}, 1920, 1080},
		{Render{1001, 999, 33}, 330, 329},
		{Render{640, 480, 0}, 0, 0},
	}

	for index, spec := range specs {
		if w := spec.render.Width(); w != spec.width {
			t.Errorf("[spec %d] expected width %d; got %d", index, spec.width, w)
		}
		if h := spec.render.Height(); h != spec.height {
			t.Errorf("[spec %d] expected height %d; got %d", index, spec.height, h)
		}
	}
}

func TestNodeTypeLookup(t *testing.T) {
	specs := map[string]NodeType{
		"BSDF_DIFFUSE":    NodeDiffuse,
		"glossy":          NodeGlossy,
		"HUE_SAT":         NodeHueSat,
		"MIX_SHADER":      NodeMix,
		"OUTPUT_MATERIAL": NodeOutput,
		"TEX_CHECKER":     NodeUnsupported,
		"":                NodeUnsupported,
	}

	for name, exp := range specs {
		if got := NodeTypeFromName(name); got != exp {
			t.Errorf("[%s] expected %s; got %s", name, exp, got)
		}
	}
}

func TestLightKindLookup(t *testing.T) {
	for _, kind := range []LightKind{LightPoint, LightSun, LightSpot, LightArea, LightHemi} {
		if got := LightKindFromName(kind.String()); got != kind {
			t.Errorf("expected %s to round-trip; got %s", kind, got)
		}
	}

	if LightKindFromName("laser") != LightPoint {
		t.Error("expected unknown light kinds to map to point")
	}
}

func TestMeshValidation(t *testing.T) {
	mesh := &Mesh{
		Vertices: []types.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		Faces:    [][]int{{0, 1, 2, 3}},
	}
	if err := mesh.Validate(); err != nil {
		t.Fatal(err)
	}

	mesh.UVs = [][]types.Vec2{{{0, 0}, {1, 0}, {1, 1}}}
	if err := mesh.Validate(); err == nil {
		t.Fatal("expected an error for a UV/corner count mismatch")
	}

	mesh.UVs = nil
	mesh.Faces = append(mesh.Faces, []int{0, 1, 7})
	if err := mesh.Validate(); err == nil {
		t.Fatal("expected an error for an out of bounds vertex index")
	}
}

func TestStaticMeshRealize(t *testing.T) {
	_, err := (&StaticMesh{}).Realize()
	if !errors.Is(err, ErrNoGeometry) {
		t.Fatalf("expected ErrNoGeometry; got %v", err)
	}

	src := &StaticMesh{Mesh: &Mesh{
		Vertices: []types.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}},
		Faces:    [][]int{{0, 1, 2}},
	}}
	mesh, err := src.Realize()
	if err != nil {
		t.Fatal(err)
	}
	if len(mesh.Faces) != 1 {
		t.Fatalf("expected 1 face; got %d", len(mesh.Faces))
	}
}

func TestFileMeshRealize(t *testing.T) {
	calls := 0
	src := &FileMesh{
		Path: "cube.obj",
		Loader: func(path string) (*Mesh, error) {
			calls++
			return &Mesh{
				Vertices: []types.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}},
				Faces:    [][]int{{0, 1, 2}},
			}, nil
		},
	}

	for i := 0; i < 2; i++ {
		if _, err := src.Realize(); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected loader to be invoked once; got %d", calls)
	}

	failing := &FileMesh{
		Path: "missing.obj",
		Loader: func(path string) (*Mesh, error) {
			return nil, errors.New("file not found")
		},
	}
	if _, err := failing.Realize(); err == nil {
		t.Fatal("expected realization error")
	}
}

func TestSceneStats(t *testing.T) {
	sc := NewScene("stats")
	sc.Materials = append(sc.Materials, NewMaterial("flat"), &Material{Name: "nodes", Graph: &NodeGraph{}})
	sc.Objects = append(sc.Objects,
		&LightObject{Name: "lamp", Visible: true},
		&MeshObject{Name: "tri", Visible: false, Source: &StaticMesh{Mesh: &Mesh{
			Vertices: []types.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}},
			Faces:    [][]int{{0, 1, 2}},
		}}},
	)

	st := sc.Stats()
	exp := Stats{Materials: 2, NodeMaterials: 1, Lights: 1, Meshes: 1, HiddenObjects: 1, StaticVertices: 3, StaticFaces: 1}
	if st != exp {
		t.Fatalf("expected %+v; got %+v", exp, st)
	}

	if sc.Material("nodes") == nil || sc.Material("missing") != nil {
		t.Fatal("unexpected material lookup result")
	}
}
