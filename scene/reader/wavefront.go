package reader

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/cycles-xml/asset"
	"github.com/achilleasa/cycles-xml/log"
	"github.com/achilleasa/cycles-xml/scene"
	"github.com/achilleasa/cycles-xml/types"
)

type wavefrontMaterial struct {
	Name string

	// Diffuse/Albedo color.
	Kd types.Vec3

	// True if this material is used by at least one face.
	Used bool
}

// A mesh object under construction. Wavefront files index into global
// coordinate lists so each object keeps a global to local vertex index map.
type wavefrontObject struct {
	name          string
	mesh          *scene.Mesh
	globalToLocal map[int]int
	hasUVs        bool
	materials     []string
}

func newWavefrontObject(name string) *wavefrontObject {
	return &wavefrontObject{
		name:          name,
		mesh:          &scene.Mesh{},
		globalToLocal: make(map[int]int),
	}
}

// Map a global vertex index to an index into the object's vertex list.
func (o *wavefrontObject) localVertex(globalIndex int, v types.Vec3) int {
	if localIndex, exists := o.globalToLocal[globalIndex]; exists {
		return localIndex
	}
	o.mesh.Vertices = append(o.mesh.Vertices, v)
	localIndex := len(o.mesh.Vertices) - 1
	o.globalToLocal[globalIndex] = localIndex
	return localIndex
}

// Register a material slot; slots keep first-use order.
func (o *wavefrontObject) useMaterial(name string) {
	for _, slot := range o.materials {
		if slot == name {
			return
		}
	}
	o.materials = append(o.materials, name)
}

type wavefrontSceneReader struct {
	logger log.Logger

	// A map of material names to parsed wavefront materials
	matNameToIndex map[string]int

	// Currently selected material.
	curMaterial *wavefrontMaterial

	// Parsed wavefront materials.
	materials []*wavefrontMaterial

	// Parsed objects and the one currently receiving faces.
	objects   []*wavefrontObject
	curObject *wavefrontObject

	// List of vertices and uv coords. Normals are only counted so that
	// face references can be validated.
	vertexList  []types.Vec3
	uvList      []types.Vec2
	normalCount int

	// Camera directives.
	camEye  types.Vec3
	camLook types.Vec3
	camUp   types.Vec3
	camFOV  float32

	// An error stack that provides additional error information when
	// scene files include other files (models, mat libs e.t.c)
	errStack []string
}

// Create a new wavefront scene reader.
func newWavefrontReader() *wavefrontSceneReader {
	return &wavefrontSceneReader{
		logger:         log.New("wavefront scene reader"),
		matNameToIndex: make(map[string]int, 0),
		vertexList:     make([]types.Vec3, 0),
		uvList:         make([]types.Vec2, 0),
		errStack:       make([]string, 0),
		camEye:         types.Vec3{0, 0, 0},
		camLook:        types.Vec3{0, 0, -1},
		camUp:          types.Vec3{0, 1, 0},
		camFOV:         45.0,
	}
}

// Read scene definition.
func (r *wavefrontSceneReader) Read(sceneRes *asset.Resource) (*scene.Scene, error) {
	r.logger.Noticef(`parsing scene from "%s"`, sceneRes.Path())
	start := time.Now()

	err := r.parse(sceneRes)
	if err != nil {
		return nil, err
	}

	sc := scene.NewScene(sceneRes.Name())
	sc.Camera = &scene.Camera{
		Name:   "camera",
		Matrix: types.LookAt(r.camEye, r.camLook, r.camUp),
		FOV:    types.Radians(r.camFOV),
	}
	sc.Materials = r.processMaterials()

	for _, obj := range r.objects {
		if !r.hasGeometry(obj) {
			continue
		}
		if obj.hasUVs {
			r.padUVs(obj)
		}
		sc.Objects = append(sc.Objects, &scene.MeshObject{
			Name:          obj.name,
			Matrix:        types.Ident4(),
			Visible:       true,
			MaterialSlots: obj.materials,
			Source:        &scene.StaticMesh{Mesh: obj.mesh},
		})
	}

	r.logger.Noticef("parsed scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return sc, nil
}

// Read a wavefront file and merge all of its objects into a single mesh.
func (r *wavefrontSceneReader) ReadMesh(res *asset.Resource) (*scene.Mesh, error) {
	err := r.parse(res)
	if err != nil {
		return nil, err
	}

	merged := &scene.Mesh{}
	anyUVs := false
	for _, obj := range r.objects {
		anyUVs = anyUVs || obj.hasUVs
	}

	for _, obj := range r.objects {
		if !r.hasGeometry(obj) {
			continue
		}
		if anyUVs {
			r.padUVs(obj)
			merged.UVs = append(merged.UVs, obj.mesh.UVs...)
		}

		offset := len(merged.Vertices)
		merged.Vertices = append(merged.Vertices, obj.mesh.Vertices...)
		for _, face := range obj.mesh.Faces {
			shifted := make([]int, len(face))
			for i, vIndex := range face {
				shifted[i] = vIndex + offset
			}
			merged.Faces = append(merged.Faces, shifted)
		}
	}

	return merged, nil
}

// Report objects that contain no polygons.
func (r *wavefrontSceneReader) hasGeometry(obj *wavefrontObject) bool {
	if len(obj.mesh.Faces) == 0 {
		r.logger.Warningf(`dropping mesh "%s" as it contains no polygons`, obj.name)
		return false
	}
	return true
}

// Make sure every face has a UV entry once any face of the object has one.
func (r *wavefrontSceneReader) padUVs(obj *wavefrontObject) {
	for len(obj.mesh.UVs) < len(obj.mesh.Faces) {
		obj.mesh.UVs = append(obj.mesh.UVs, nil)
	}
	for faceIndex, face := range obj.mesh.Faces {
		if obj.mesh.UVs[faceIndex] == nil {
			obj.mesh.UVs[faceIndex] = make([]types.Vec2, len(face))
		}
	}
}

// Generate scene materials for the parsed entries that are in use.
func (r *wavefrontSceneReader) processMaterials() []*scene.Material {
	out := make([]*scene.Material, 0)
	pruned := 0
	for _, wfMat := range r.materials {
		if !wfMat.Used {
			r.logger.Infof("skipping unused material %q", wfMat.Name)
			pruned++
			continue
		}

		mat := scene.NewMaterial(wfMat.Name)
		mat.DiffuseColor = wfMat.Kd
		out = append(out, mat)
	}

	if pruned > 0 {
		r.logger.Noticef("pruned %d unused materials", pruned)
	}
	return out
}

// Generate an error message that also includes any data in the error stack.
func (r *wavefrontSceneReader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	msg := fmt.Sprintf(msgFormat, args...)

	var errMsg string
	if file != "" {
		errMsg = strings.Trim(
			fmt.Sprintf("[%s: %d] error: %s\n%s", file, line, msg, strings.Join(r.errStack, "\n")),
			"\n",
		)
	} else {
		errMsg = strings.Trim(
			fmt.Sprintf("error: %s\n%s", msg, strings.Join(r.errStack, "\n")),
			"\n",
		)
	}

	return fmt.Errorf("%s", errMsg)
}

// Push a frame to the error stack.
func (r *wavefrontSceneReader) pushFrame(msg string) {
	r.errStack = append([]string{msg}, r.errStack...)
}

// Pop a frame from the error stack.
func (r *wavefrontSceneReader) popFrame() {
	r.errStack = r.errStack[1:]
}

// Parse wavefront object scene format.
func (r *wavefrontSceneReader) parse(res *asset.Resource) error {
	var lineNum int = 0
	var err error

	// The main obj file may include (call) several other object files. Each
	// object file contains 1-based indices (when they are positive). By
	// tracking the current vertex/uv/normal offsets we can apply them
	// while parsing faces to select the correct coordinates.
	relVertexOffset := len(r.vertexList)
	relUvOffset := len(r.uvList)
	relNormalOffset := r.normalCount

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "call", "mtllib":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
			}

			r.pushFrame(fmt.Sprintf("referenced from %s:%d [%s]", res.Path(), lineNum, lineTokens[0]))

			incRes, err := res.Open(lineTokens[1])
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}

			switch lineTokens[0] {
			case "call":
				err = r.parse(incRes)
			case "mtllib":
				err = r.parseMaterials(incRes)
			}
			incRes.Close()

			if err != nil {
				return err
			}
			r.popFrame()
		case "usemtl":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for 'usemtl'; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			matName := lineTokens[1]
			matIndex, exists := r.matNameToIndex[matName]
			if !exists {
				return r.emitError(res.Path(), lineNum, `undefined material with name "%s"`, matName)
			}

			r.curMaterial = r.materials[matIndex]
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.vertexList = append(r.vertexList, v)
		case "vn":
			_, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.normalCount++
		case "vt":
			v, err := parseVec2(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.uvList = append(r.uvList, v)
		case "g", "o":
			if len(lineTokens) < 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument for object name; got %d`, lineTokens[0], len(lineTokens)-1)
			}

			r.curObject = newWavefrontObject(lineTokens[1])
			r.objects = append(r.objects, r.curObject)
		case "f":
			// If no object has been defined create a default one
			if r.curObject == nil {
				r.curObject = newWavefrontObject("default")
				r.objects = append(r.objects, r.curObject)
			}

			err = r.parseFace(lineTokens, relVertexOffset, relUvOffset, relNormalOffset)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		case "camera_fov":
			r.camFOV, err = parseFloat32(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		case "camera_eye":
			r.camEye, err = parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		case "camera_look":
			r.camLook, err = parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		case "camera_up":
			r.camUp, err = parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		default:
			r.logger.Debugf("[%s: %d] ignoring unsupported directive %q", res.Path(), lineNum, lineTokens[0])
		}
	}

	if err = scanner.Err(); err != nil {
		return r.emitError(res.Path(), lineNum, "%s", err.Error())
	}
	return nil
}

// Parse face definition. Each face definition consists of 3 or more
// arguments, one for each vertex. Each one of the vertex arguments is
// comprised of 1, 2 or 3 args separated by a slash character. The following
// formats are supported:
// - vertexIndex
// - vertexIndex/uvIndex
// - vertexIndex//normalIndex
// - vertexIndex/uvIndex/normalIndex
//
// Indices start from 1 and may be negative to indicate
// an offset off the end of the vertex/uv list. Faces are kept as polygons.
func (r *wavefrontSceneReader) parseFace(lineTokens []string, relVertexOffset, relUvOffset, relNormalOffset int) error {
	if len(lineTokens) < 4 {
		return fmt.Errorf(`unsupported syntax for "f"; expected at least 3 arguments; got %d`, len(lineTokens)-1)
	}

	obj := r.curObject
	numCorners := len(lineTokens) - 1
	face := make([]int, numCorners)
	uvs := make([]types.Vec2, numCorners)
	hasUVs := false
	expIndices := 0
	for arg := 0; arg < numCorners; arg++ {
		vTokens := strings.Split(lineTokens[arg+1], "/")

		// The first arg defines the format for the following args
		if arg == 0 {
			expIndices = len(vTokens)
		} else if len(vTokens) != expIndices {
			return fmt.Errorf("expected each face argument to contain %d indices; arg %d contains %d indices", expIndices, arg, len(vTokens))
		}

		// Faces must at least define a vertex coord
		if vTokens[0] == "" {
			return fmt.Errorf("face argument %d does not include a vertex index", arg)
		}

		vOffset, err := selectFaceCoordIndex(vTokens[0], len(r.vertexList), relVertexOffset)
		if err != nil {
			return fmt.Errorf("could not parse vertex coord for face argument %d: %s", arg, err.Error())
		}
		face[arg] = obj.localVertex(vOffset, r.vertexList[vOffset])

		if expIndices > 1 && vTokens[1] != "" {
			vOffset, err = selectFaceCoordIndex(vTokens[1], len(r.uvList), relUvOffset)
			if err != nil {
				return fmt.Errorf("could not parse tex coord for face argument %d: %s", arg, err.Error())
			}
			uvs[arg] = r.uvList[vOffset]
			hasUVs = true
		}

		if expIndices > 2 && vTokens[2] != "" {
			_, err = selectFaceCoordIndex(vTokens[2], r.normalCount, relNormalOffset)
			if err != nil {
				return fmt.Errorf("could not parse normal coord for face argument %d: %s", arg, err.Error())
			}
		}
	}

	// Flag the current material as being in use so we don't prune it later.
	if r.curMaterial != nil {
		r.curMaterial.Used = true
		obj.useMaterial(r.curMaterial.Name)
	}

	obj.mesh.Faces = append(obj.mesh.Faces, face)
	if hasUVs {
		if !obj.hasUVs {
			obj.hasUVs = true
			r.padUVs(obj)
			obj.mesh.UVs = obj.mesh.UVs[:len(obj.mesh.Faces)-1]
		}
		obj.mesh.UVs = append(obj.mesh.UVs, uvs)
	} else if obj.hasUVs {
		obj.mesh.UVs = append(obj.mesh.UVs, uvs)
	}

	return nil
}

// Parse a wavefront material library.
func (r *wavefrontSceneReader) parseMaterials(res *asset.Resource) error {
	var lineNum int = 0
	var err error

	r.logger.Infof(`parsing material library "%s"`, res.Path())

	scanner := bufio.NewScanner(res)

	var curMaterial *wavefrontMaterial = nil
	var matName string = ""

	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "newmtl":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "newmtl"; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			matName = lineTokens[1]
			if _, exists := r.matNameToIndex[matName]; exists {
				return r.emitError(res.Path(), lineNum, `material "%s" already defined`, matName)
			}

			curMaterial = &wavefrontMaterial{
				Name: matName,
				Kd:   types.Vec3{0.8, 0.8, 0.8},
			}
			r.materials = append(r.materials, curMaterial)
			r.matNameToIndex[matName] = len(r.materials) - 1
		default:
			if curMaterial == nil {
				return r.emitError(res.Path(), lineNum, `got "%s" without a "newmtl"`, lineTokens[0])
			}

			switch lineTokens[0] {
			case "include":
				if len(lineTokens) < 2 {
					return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
				}

				baseMaterialIndex, exists := r.matNameToIndex[lineTokens[1]]
				if !exists {
					return r.emitError(res.Path(), lineNum, `could not include unknown material "%s"`, lineTokens[1])
				}

				// Overwrite material but keep the original name
				*curMaterial = *r.materials[baseMaterialIndex]
				curMaterial.Name = matName
				curMaterial.Used = false
			case "Kd":
				curMaterial.Kd, err = parseVec3(lineTokens)
			default:
				r.logger.Debugf("[%s: %d] ignoring unsupported material property %q", res.Path(), lineNum, lineTokens[0])
			}

			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		}
	}

	return nil
}

// Given an index for a face coord type (vertex, normal, tex) calculate the
// proper offset into the coord list. Wavefront format can also use negative
// indices to reference elements from the end of the coord list.
func selectFaceCoordIndex(indexToken string, coordListLen int, relOffset int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}

	var vOffset int = 0
	if index < 0 {
		vOffset = coordListLen + int(index)
	} else {
		vOffset = relOffset + int(index-1)
	}
	if vOffset < 0 || vOffset >= coordListLen {
		return -1, fmt.Errorf("index out of bounds")
	}
	return vOffset, nil
}

// Parse a float scalar value.
func parseFloat32(lineTokens []string) (float32, error) {
	if len(lineTokens) < 2 {
		return 0, fmt.Errorf(`unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	val, err := strconv.ParseFloat(lineTokens[1], 32)
	if err != nil {
		return 0, err
	}

	return float32(val), nil
}

// Parse a Vec3 row.
func parseVec3(lineTokens []string) (types.Vec3, error) {
	if len(lineTokens) < 4 {
		return types.Vec3{}, fmt.Errorf(`unsupported syntax for "%s"; expected 3 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec3{}
	for tokIdx := 1; tokIdx <= 3; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = float32(coord)
	}
	return v, nil
}

// Parse a Vec2 row.
func parseVec2(lineTokens []string) (types.Vec2, error) {
	if len(lineTokens) < 3 {
		return types.Vec2{}, fmt.Errorf(`unsupported syntax for "%s"; expected 2 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec2{}
	for tokIdx := 1; tokIdx <= 2; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = float32(coord)
	}
	return v, nil
}
