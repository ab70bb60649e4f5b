package scene

import (
	"strings"

	"github.com/achilleasa/cycles-xml/types"
)

// NodeType identifies the kind of a material graph node.
type NodeType int

const (
	NodeUnsupported NodeType = iota
	NodeDiffuse
	NodeGlossy
	NodeHueSat
	NodeMix
	NodeOutput
)

// Lookup node type by its name. Both the host identifiers (BSDF_DIFFUSE,
// MIX_SHADER, ...) and short lowercase aliases are accepted.
func NodeTypeFromName(name string) NodeType {
	switch strings.ToLower(name) {
	case "bsdf_diffuse", "diffuse":
		return NodeDiffuse
	case "bsdf_glossy", "glossy":
		return NodeGlossy
	case "hue_sat", "hsv":
		return NodeHueSat
	case "mix_shader", "mix":
		return NodeMix
	case "output_material", "output":
		return NodeOutput
	}

	return NodeUnsupported
}

func (t NodeType) String() string {
	switch t {
	case NodeDiffuse:
		return "BSDF_DIFFUSE"
	case NodeGlossy:
		return "BSDF_GLOSSY"
	case NodeHueSat:
		return "HUE_SAT"
	case NodeMix:
		return "MIX_SHADER"
	case NodeOutput:
		return "OUTPUT_MATERIAL"
	}

	return "UNSUPPORTED"
}

// Node is implemented by the closed set of material graph node kinds.
type Node interface {
	NodeName() string
	Type() NodeType

	node()
}

type DiffuseNode struct {
	Name      string
	Color     types.Vec4
	Roughness float32
}

type GlossyNode struct {
	Name      string
	Color     types.Vec4
	Roughness float32

	// Host distribution identifier (BECKMANN, SHARP, ASHIKHMIN_SHIRLEY, GGX).
	// May be empty.
	Distribution string
}

type HueSatNode struct {
	Name       string
	Hue        float32
	Saturation float32
	Value      float32
	Fac        float32
	Color      types.Vec4
}

type MixNode struct {
	Name string
	Fac  float32
}

// OutputNode is the graph's designated material output.
type OutputNode struct {
	Name string
}

// UnsupportedNode captures any host node kind the exporter does not know.
type UnsupportedNode struct {
	Name     string
	TypeName string
}

func (n *DiffuseNode) NodeName() string     { return n.Name }
func (n *GlossyNode) NodeName() string      { return n.Name }
func (n *HueSatNode) NodeName() string      { return n.Name }
func (n *MixNode) NodeName() string         { return n.Name }
func (n *OutputNode) NodeName() string      { return n.Name }
func (n *UnsupportedNode) NodeName() string { return n.Name }

func (n *DiffuseNode) Type() NodeType     { return NodeDiffuse }
func (n *GlossyNode) Type() NodeType      { return NodeGlossy }
func (n *HueSatNode) Type() NodeType      { return NodeHueSat }
func (n *MixNode) Type() NodeType         { return NodeMix }
func (n *OutputNode) Type() NodeType      { return NodeOutput }
func (n *UnsupportedNode) Type() NodeType { return NodeUnsupported }

func (*DiffuseNode) node()     {}
func (*GlossyNode) node()      {}
func (*HueSatNode) node()      {}
func (*MixNode) node()         {}
func (*OutputNode) node()      {}
func (*UnsupportedNode) node() {}

// A Link connects an output socket of one node to an input socket of another.
type Link struct {
	FromNode   string
	FromSocket string
	ToNode     string
	ToSocket   string
}

// A NodeGraph is the ordered set of nodes and links that define a material.
type NodeGraph struct {
	Nodes []Node
	Links []Link
}

// Lookup a node by name.
func (g *NodeGraph) Node(name string) Node {
	for _, n := range g.Nodes {
		if n.NodeName() == name {
			return n
		}
	}
	return nil
}

// A Material either carries a node graph or falls back to a flat diffuse color.
type Material struct {
	Name string

	// Flat diffuse color used when no node graph is attached.
	DiffuseColor types.Vec3

	// The material node graph; nil if the material does not use nodes.
	Graph *NodeGraph
}

// Create a flat diffuse material with the default grey color.
func NewMaterial(name string) *Material {
	return &Material{
		Name:         name,
		DiffuseColor: types.Vec3{0.8, 0.8, 0.8},
	}
}
