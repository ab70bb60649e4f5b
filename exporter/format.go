package exporter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/achilleasa/cycles-xml/scene"
	"github.com/achilleasa/cycles-xml/types"
)

// The implicit output node name used by the renderer.
const outputNodeName = "output"

// Mirrors the Z axis to convert between the host and renderer conventions.
var mirrorZ = types.Scale4(types.Vec3{1, 1, -1})

// SanitizeName maps a node name to a renderer node name. "Material Output"
// becomes the implicit output node; other names get spaces replaced with
// underscores.
func SanitizeName(name string) string {
	if name == "Material Output" {
		return outputNodeName
	}
	return strings.ReplaceAll(name, " ", "_")
}

// MapDistribution maps a glossy distribution identifier to its renderer
// name. Unknown or empty values map to GGX.
func MapDistribution(distribution string) string {
	switch distribution {
	case "BECKMANN":
		return "Beckmann"
	case "SHARP":
		return "Sharp"
	case "ASHIKHMIN_SHIRLEY":
		return "Ashikhmin-Shirley"
	}
	return "GGX"
}

// LightType returns the renderer light type code: 0 for point lights and 1
// for every other kind.
func LightType(kind scene.LightKind) int {
	if kind == scene.LightPoint {
		return 0
	}
	return 1
}

// ExportMatrix converts a world transform to the renderer convention by
// mirroring the Z axis and transposing the result.
func ExportMatrix(world types.Mat4) types.Mat4 {
	return mirrorZ.Mul4(world).Transpose()
}

// MatrixString converts a world transform with ExportMatrix and lists the
// result row by row as 16 space-separated numbers.
func MatrixString(world types.Mat4) string {
	rows := ExportMatrix(world).Rows()
	return joinFloats(rows[:])
}

// Format a float using the shortest representation that round-trips.
func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

func joinFloats(values []float32) string {
	var sb strings.Builder
	for index, v := range values {
		if index != 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(formatFloat(v))
	}
	return sb.String()
}

func formatColor(c types.Vec3) string {
	return joinFloats(c[:])
}

// Vertex positions use fixed 6-decimal formatting.
func formatPositions(vertices []types.Vec3) string {
	var sb strings.Builder
	for index, v := range vertices {
		if index != 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%f %f %f", v[0], v[1], v[2])
	}
	return sb.String()
}
