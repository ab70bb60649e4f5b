package exporter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/cycles-xml/cycles"
	"github.com/achilleasa/cycles-xml/log"
	"github.com/achilleasa/cycles-xml/scene"
	"github.com/achilleasa/cycles-xml/types"
)

// ErrNoCamera is returned when exporting a scene without an active camera.
var ErrNoCamera = errors.New("exporter: scene has no active camera")

const (
	defaultShaderName = "diff"
	outputSurface     = "output surface"
	defaultLightSize  = 0.1
)

// Options configure a Serializer. Zero values select the defaults.
type Options struct {
	// Generates names for the diffuse node of materials without a node
	// graph. Defaults to UUIDNames.
	Names NameAllocator

	// Selects the objects to export. Defaults to the object's own
	// visibility flag.
	Visible func(scene.Object) bool

	Logger log.Logger
}

// The Serializer converts scenes into cycles documents.
type Serializer struct {
	names   NameAllocator
	visible func(scene.Object) bool
	logger  log.Logger
}

// Create a new serializer.
func New(opts Options) *Serializer {
	s := &Serializer{
		names:   opts.Names,
		visible: opts.Visible,
		logger:  opts.Logger,
	}

	if s.names == nil {
		s.names = UUIDNames{}
	}
	if s.visible == nil {
		s.visible = scene.Object.IsVisible
	}
	if s.logger == nil {
		s.logger = log.New("exporter")
	}

	return s
}

// Serialize builds a cycles document for the given scene. Failures that are
// scoped to a single material or object do not abort the export; they are
// recorded in the returned report instead.
func (s *Serializer) Serialize(sc *scene.Scene) (*cycles.Document, *Report, error) {
	if sc.Camera == nil {
		return nil, nil, ErrNoCamera
	}

	start := time.Now()
	doc := cycles.NewDocument("cycles")
	report := &Report{}

	s.emitCamera(doc.Root, sc, report)
	s.emitBackground(doc.Root, sc.World, report)
	emitDefaultShader(doc.Root)

	for _, mat := range sc.Materials {
		s.emitMaterial(doc.Root, mat, report)
	}

	for _, obj := range sc.Objects {
		if !s.visible(obj) {
			report.skipped(objectKind(obj), obj.ObjectName(), "not visible")
			continue
		}

		switch o := obj.(type) {
		case *scene.LightObject:
			s.emitLight(doc.Root, o, report)
		case *scene.MeshObject:
			s.emitMesh(doc.Root, sc, o, report)
		}
	}

	counts := report.Counts()
	s.logger.Noticef(
		"serialized scene %q in %d ms (%d shaders, %d meshes, %d lights; exported: %d, skipped: %d, degraded: %d)",
		sc.Name, time.Since(start).Nanoseconds()/1e6,
		doc.Root.Count("shader"), doc.Root.Count("mesh"), doc.Root.Count("light"),
		counts.Exported, counts.Skipped, counts.Degraded,
	)

	return doc, report, nil
}

func objectKind(obj scene.Object) Kind {
	if _, isLight := obj.(*scene.LightObject); isLight {
		return KindLight
	}
	return KindMesh
}

func (s *Serializer) emitCamera(root *cycles.Element, sc *scene.Scene, report *Report) {
	cam := sc.Camera
	root.SubElement("camera",
		cycles.A("width", strconv.Itoa(sc.Render.Width())),
		cycles.A("height", strconv.Itoa(sc.Render.Height())),
	)

	trans := root.SubElement("transform", cycles.A("matrix", MatrixString(cam.Matrix)))
	trans.SubElement("camera",
		cycles.A("type", "perspective"),
		cycles.A("fov", formatFloat(types.Degrees(cam.FOV))),
	)

	report.exported(KindCamera, cam.Name)
}

func (s *Serializer) emitBackground(root *cycles.Element, world *scene.World, report *Report) {
	if world == nil {
		world = scene.NewWorld()
	}

	if world.UseNodes {
		s.logger.Info("world node graphs are not supported; exporting flat background color")
		report.degraded(KindBackground, "world", "node graph not supported; using flat color")
	} else {
		report.exported(KindBackground, "world")
	}

	bg := root.SubElement("background")
	bg.SubElement("background",
		cycles.A("name", "bg"),
		cycles.A("strength", "1.0"),
		cycles.A("color", formatColor(world.Color)),
	)
	bg.SubElement("connect", cycles.A("from", "bg background"), cycles.A("to", outputSurface))
}

// The fallback shader for geometry without a resolvable material.
func emitDefaultShader(root *cycles.Element) {
	shader := root.SubElement("shader", cycles.A("name", defaultShaderName))
	shader.SubElement("diffuse_bsdf",
		cycles.A("name", "cube_closure"),
		cycles.A("roughness", "0.2"),
	)
	shader.SubElement("connect", cycles.A("from", "cube_closure bsdf"), cycles.A("to", outputSurface))
}

func (s *Serializer) emitMaterial(root *cycles.Element, mat *scene.Material, report *Report) {
	shader := root.SubElement("shader", cycles.A("name", mat.Name))

	if mat.Graph == nil {
		nodeName := s.names.Allocate("diffuse")
		shader.SubElement("diffuse_bsdf",
			cycles.A("name", nodeName),
			cycles.A("color", formatColor(mat.DiffuseColor)),
			cycles.A("roughness", "0.0"),
		)
		shader.SubElement("connect", cycles.A("from", nodeName+" bsdf"), cycles.A("to", outputSurface))
		report.exported(KindMaterial, mat.Name)
		return
	}

	var unsupported []string
	for _, node := range mat.Graph.Nodes {
		name := SanitizeName(node.NodeName())

		switch n := node.(type) {
		case *scene.DiffuseNode:
			shader.SubElement("diffuse_bsdf",
				cycles.A("name", name),
				cycles.A("color", formatColor(n.Color.Vec3())),
				cycles.A("roughness", formatFloat(n.Roughness)),
			)
		case *scene.GlossyNode:
			shader.SubElement("glossy_bsdf",
				cycles.A("name", name),
				cycles.A("color", formatColor(n.Color.Vec3())),
				cycles.A("roughness", formatFloat(n.Roughness)),
				cycles.A("distribution", MapDistribution(n.Distribution)),
			)
		case *scene.HueSatNode:
			shader.SubElement("hsv",
				cycles.A("name", name),
				cycles.A("hue", formatFloat(n.Hue)),
				cycles.A("saturation", formatFloat(n.Saturation)),
				cycles.A("value", formatFloat(n.Value)),
				cycles.A("fac", formatFloat(n.Fac)),
				cycles.A("color", formatColor(n.Color.Vec3())),
			)
		case *scene.MixNode:
			shader.SubElement("mix_closure",
				cycles.A("name", name),
				cycles.A("fac", formatFloat(n.Fac)),
			)
		case *scene.OutputNode:
			// the renderer provides an implicit output node
			s.logger.Debugf("material %q: %s node %q maps to %q", mat.Name, n.Type(), n.Name, outputNodeName)
		case *scene.UnsupportedNode:
			s.logger.Infof("material %q: skipping node %q with unsupported type %q", mat.Name, n.Name, n.TypeName)
			unsupported = append(unsupported, n.TypeName)
		}
	}

	for _, link := range mat.Graph.Links {
		shader.SubElement("connect",
			cycles.A("from", SanitizeName(link.FromNode)+" "+link.FromSocket),
			cycles.A("to", SanitizeName(link.ToNode)+" "+link.ToSocket),
		)
	}

	if len(unsupported) != 0 {
		report.degraded(KindMaterial, mat.Name, "unsupported nodes: "+strings.Join(unsupported, ", "))
		return
	}
	report.exported(KindMaterial, mat.Name)
}

func (s *Serializer) emitLight(root *cycles.Element, obj *scene.LightObject, report *Report) {
	s.logger.Noticef("exporting %s", obj.Name)

	shaderName := obj.Light.Kind.String() + "_shader"
	shader := root.SubElement("shader", cycles.A("name", shaderName))
	shader.SubElement("emission",
		cycles.A("name", "emission"),
		cycles.A("color", "1.0 1.0 1.0"),
		cycles.A("strength", "100.0"),
	)
	shader.SubElement("connect", cycles.A("from", "emission emission"), cycles.A("to", outputSurface))

	// The light's own radius overrides the fixed 0.1 default when set.
	size := obj.Light.Radius
	if size <= 0 {
		size = defaultLightSize
	}

	trans := root.SubElement("transform", cycles.A("matrix", MatrixString(obj.Transform())))
	state := trans.SubElement("state", cycles.A("shader", shaderName))
	state.SubElement("light",
		cycles.A("type", strconv.Itoa(LightType(obj.Light.Kind))),
		cycles.A("cast_shadow", strconv.FormatBool(obj.Light.CastShadow)),
		cycles.A("size", formatFloat(size)),
	)

	report.exported(KindLight, obj.Name)
}

func (s *Serializer) emitMesh(root *cycles.Element, sc *scene.Scene, obj *scene.MeshObject, report *Report) {
	if obj.Source == nil {
		s.logger.Warningf("skipping %q: no mesh source", obj.Name)
		report.skipped(KindMesh, obj.Name, "no mesh source")
		return
	}

	mesh, err := obj.Source.Realize()
	if err == nil && mesh == nil {
		err = scene.ErrNoGeometry
	}
	if err != nil {
		s.logger.Warningf("skipping %q: %v", obj.Name, err)
		report.skipped(KindMesh, obj.Name, err.Error())
		return
	}

	s.logger.Noticef("exporting %s", obj.Name)

	shaderName := defaultShaderName
	var degradedReason string
	if slot := obj.FirstMaterial(); slot != "" {
		if sc.Material(slot) != nil {
			shaderName = slot
		} else {
			degradedReason = fmt.Sprintf("unknown material %q; using %q", slot, defaultShaderName)
			s.logger.Infof("mesh %q: %s", obj.Name, degradedReason)
		}
	}

	var nverts, verts, uvs strings.Builder
	for faceIndex, face := range mesh.Faces {
		appendToken(&nverts, strconv.Itoa(len(face)))
		for _, vIndex := range face {
			appendToken(&verts, strconv.Itoa(vIndex))
		}

		if mesh.HasUVs() {
			for _, uv := range mesh.UVs[faceIndex] {
				appendToken(&uvs, formatFloat(uv[0]))
				appendToken(&uvs, formatFloat(uv[1]))
			}
		}
	}

	trans := root.SubElement("transform", cycles.A("matrix", MatrixString(obj.Transform())))
	state := trans.SubElement("state", cycles.A("shader", shaderName))
	meshEl := state.SubElement("mesh",
		cycles.A("name", obj.Name),
		cycles.A("nverts", nverts.String()),
		cycles.A("verts", verts.String()),
		cycles.A("P", formatPositions(mesh.Vertices)),
	)
	if mesh.HasUVs() {
		meshEl.Set("UV", uvs.String())
	}

	if degradedReason != "" {
		report.degraded(KindMesh, obj.Name, degradedReason)
		return
	}
	report.exported(KindMesh, obj.Name)
}

func appendToken(sb *strings.Builder, token string) {
	if sb.Len() != 0 {
		sb.WriteByte(' ')
	}
	sb.WriteString(token)
}
