package exporter

import (
	"strings"
	"testing"

	"github.com/achilleasa/cycles-xml/scene"
	"github.com/achilleasa/cycles-xml/types"
)

func TestSanitizeName(t *testing.T) {
	specs := map[string]string{
		"Material Output":  "output",
		"Diffuse BSDF":     "Diffuse_BSDF",
		"a  b":             "a__b",
		"plain":            "plain",
		"":                 "",
		"material output":  "material_output",
		" Material Output": "_Material_Output",
	}

	for in, exp := range specs {
		if got := SanitizeName(in); got != exp {
			t.Errorf("expected SanitizeName(%q) to be %q; got %q", in, exp, got)
		}
	}
}

func TestMapDistribution(t *testing.T) {
	specs := map[string]string{
		"BECKMANN":          "Beckmann",
		"SHARP":             "Sharp",
		"ASHIKHMIN_SHIRLEY": "Ashikhmin-Shirley",
		"GGX":               "GGX",
		"MULTI_GGX":         "GGX",
		"":                  "GGX",
		"beckmann":          "GGX",
	}

	valid := map[string]bool{"Beckmann": true, "Sharp": true, "Ashikhmin-Shirley": true, "GGX": true}
	for in, exp := range specs {
		got := MapDistribution(in)
		if got != exp {
			t.Errorf("expected MapDistribution(%q) to be %q; got %q", in, exp, got)
		}
		if !valid[got] {
			t.Errorf("unexpected distribution %q", got)
		}
	}
}

func TestLightType(t *testing.T) {
	specs := []struct {
		kind scene.LightKind
		exp  int
	}{
		{scene.LightPoint, 0},
		{scene.LightSun, 1},
		{scene.LightSpot, 1},
		{scene.LightArea, 1},
		{scene.LightHemi, 1},
	}

	for _, spec := range specs {
		if got := LightType(spec.kind); got != spec.exp {
			t.Errorf("expected light type for %s to be %d; got %d", spec.kind, spec.exp, got)
		}
	}
}

func TestNameAllocators(t *testing.T) {
	seq := &SequentialNames{}
	if got := seq.Allocate("diffuse"); got != "diffuse_1" {
		t.Fatalf("expected diffuse_1; got %s", got)
	}
	if got := seq.Allocate(""); got != "2" {
		t.Fatalf("expected 2; got %s", got)
	}

	// fresh allocators repeat the same sequence
	if got := (&SequentialNames{}).Allocate("diffuse"); got != "diffuse_1" {
		t.Fatalf("expected a new allocator to restart at diffuse_1; got %s", got)
	}

	var alloc UUIDNames
	a, b := alloc.Allocate("diffuse"), alloc.Allocate("diffuse")
	if a == b {
		t.Fatalf("expected distinct names; got %s twice", a)
	}
	if !strings.HasPrefix(a, "diffuse_") || strings.Contains(a, "-") || len(a) != len("diffuse_")+32 {
		t.Fatalf("unexpected uuid name %s", a)
	}
}

func TestFormatPositions(t *testing.T) {
	specs := []struct {
		in  []types.Vec3
		exp string
	}{
		{nil, ""},
		{[]types.Vec3{{0, 0, 0}}, "0.000000 0.000000 0.000000"},
		{[]types.Vec3{{0, 1.5, -2}, {1, 2, 3}}, "0.000000 1.500000 -2.000000 1.000000 2.000000 3.000000"},
	}

	for index, spec := range specs {
		if got := formatPositions(spec.in); got != spec.exp {
			t.Errorf("[spec %d] expected %q; got %q", index, spec.exp, got)
		}
	}
}
