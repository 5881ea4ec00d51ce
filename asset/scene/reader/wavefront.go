package reader

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/octrace/asset"
	"github.com/achilleasa/octrace/asset/accel"
	"github.com/achilleasa/octrace/asset/compiler"
	"github.com/achilleasa/octrace/asset/compiler/input"
	"github.com/achilleasa/octrace/asset/scene"
	"github.com/achilleasa/octrace/log"
	"github.com/achilleasa/octrace/types"
)

const defaultMaterialName = "default"

type wavefrontSceneReader struct {
	logger log.Logger
	cfg    accel.Config

	// The parsed scene.
	rawScene *input.Scene

	// A map of material names to their index in the parsed scene.
	matNameToIndex map[string]int

	// Currently selected material or -1 if none is selected.
	curMaterial int

	// The active object and the number of primitives parsed for it.
	curObject      string
	curObjectPrims int

	// List of vertices.
	vertexList []types.Vec3

	// An error stack that provides additional error information when
	// scene files include other files.
	errStack []string

	// Paths of the files currently being parsed.
	openFiles map[string]bool
}

// Create a new wavefront scene reader.
func newWavefrontReader(cfg accel.Config) *wavefrontSceneReader {
	return &wavefrontSceneReader{
		logger:         log.New("wavefront scene reader"),
		cfg:            cfg,
		rawScene:       input.NewScene(),
		matNameToIndex: make(map[string]int),
		curMaterial:    -1,
		vertexList:     make([]types.Vec3, 0),
		errStack:       make([]string, 0),
		openFiles:      make(map[string]bool),
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
	r.verifyLastParsedObject()

	r.logger.Noticef(
		"parsed %d spheres and %d triangles in %d ms",
		len(r.rawScene.Spheres), len(r.rawScene.Triangles), time.Since(start).Nanoseconds()/1e6,
	)

	return compiler.Compile(r.rawScene, r.cfg)
}

// Generate an error message that also includes any data in the error stack.
func (r *wavefrontSceneReader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	msg := fmt.Sprintf(msgFormat, args...)

	var errMsg string
	if file != "" {
		errMsg = fmt.Sprintf("[%s: %d] error: %s\n%s", file, line, msg, strings.Join(r.errStack, "\n"))
	} else {
		errMsg = fmt.Sprintf("error: %s\n%s", msg, strings.Join(r.errStack, "\n"))
	}

	return errors.New(strings.Trim(errMsg, "\n"))
}

// Push a frame to the error stack.
func (r *wavefrontSceneReader) pushFrame(msg string) {
	r.errStack = append([]string{msg}, r.errStack...)
}

// Pop a frame from the error stack.
func (r *wavefrontSceneReader) popFrame() {
	r.errStack = r.errStack[1:]
}

// Lookup a material by name, registering it if this is its first appearance.
func (r *wavefrontSceneReader) materialIndex(name string) int {
	matIndex, exists := r.matNameToIndex[name]
	if !exists {
		r.rawScene.Materials = append(r.rawScene.Materials, &input.Material{Name: name})
		matIndex = len(r.rawScene.Materials) - 1
		r.matNameToIndex[name] = matIndex
	}
	return matIndex
}

// Get the index of the active material and flag it as used. Primitives
// defined before any usemtl statement receive a default material.
func (r *wavefrontSceneReader) useMaterial() int {
	if r.curMaterial == -1 {
		r.curMaterial = r.materialIndex(defaultMaterialName)
	}
	r.rawScene.Materials[r.curMaterial].Used = true
	return r.curMaterial
}

// Parse wavefront object scene format.
func (r *wavefrontSceneReader) parse(res *asset.Resource) error {
	var lineNum int = 0

	// The main obj file may include (call) several other object files. Each
	// object file contains 1-based indices (when they are positive). By
	// tracking the current vertex offset we can apply it while parsing
	// faces to select the correct coordinates.
	relVertexOffset := len(r.vertexList)

	r.openFiles[res.Path()] = true
	defer delete(r.openFiles, res.Path())

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "call":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "call"; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			r.pushFrame(fmt.Sprintf("referenced from %s:%d [call]", res.Path(), lineNum))

			incRes, err := asset.Open(lineTokens[1], res)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			if r.openFiles[incRes.Path()] {
				incRes.Close()
				return r.emitError(res.Path(), lineNum, `recursive include of "%s"`, incRes.Path())
			}

			err = r.parse(incRes)
			incRes.Close()
			if err != nil {
				return err
			}
			r.popFrame()
		case "usemtl":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "usemtl"; expected 1 argument; got %d`, len(lineTokens)-1)
			}
			r.curMaterial = r.materialIndex(lineTokens[1])
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.vertexList = append(r.vertexList, v)
		case "g", "o":
			if len(lineTokens) < 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument for object name; got %d`, lineTokens[0], len(lineTokens)-1)
			}

			r.verifyLastParsedObject()
			r.curObject = lineTokens[1]
			r.curObjectPrims = 0
		case "f":
			triList, err := r.parseFace(lineTokens, relVertexOffset)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.rawScene.Triangles = append(r.rawScene.Triangles, triList...)
			r.curObjectPrims += len(triList)
		case "sphere":
			sphere, err := r.parseSphere(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.rawScene.Spheres = append(r.rawScene.Spheres, sphere)
			r.curObjectPrims++
		default:
			r.logger.Debugf(`[%s: %d] ignoring unsupported statement "%s"`, res.Path(), lineNum, lineTokens[0])
		}
	}

	if err := scanner.Err(); err != nil {
		return r.emitError(res.Path(), lineNum, "%s", err.Error())
	}

	return nil
}

// Warn if the last named object did not define any geometry.
func (r *wavefrontSceneReader) verifyLastParsedObject() {
	if r.curObject != "" && r.curObjectPrims == 0 {
		r.logger.Warningf(`object "%s" contains no primitives`, r.curObject)
	}
}

// Parse a sphere definition. Definitions use the following format:
// sphere cX cY cZ radius
func (r *wavefrontSceneReader) parseSphere(lineTokens []string) (*input.Sphere, error) {
	if len(lineTokens) != 5 {
		return nil, fmt.Errorf(`unsupported syntax for "sphere"; expected 4 arguments: cX cY cZ radius; got %d`, len(lineTokens)-1)
	}

	centre, err := parseVec3(lineTokens[:4])
	if err != nil {
		return nil, err
	}

	radius, err := strconv.ParseFloat(lineTokens[4], 32)
	if err != nil {
		return nil, err
	}
	if radius <= 0 {
		return nil, fmt.Errorf("sphere radius must be positive; got %v", radius)
	}

	return &input.Sphere{
		Centre:        centre,
		Radius:        float32(radius),
		MaterialIndex: r.useMaterial(),
	}, nil
}

// Parse face definition. Each face definitions consists of 3 or 4 arguments,
// one for each vertex. Each one of the vertex arguments is comprised of
// 1, 2 or 3 indices separated by a slash character. Only the vertex index
// is used; texture and normal indices are ignored.
//
// Indices start from 1 and may be negative to indicate
// an offset off the end of the vertex list.
//
// Quad faces are split into two triangles sharing the 0-2 diagonal.
func (r *wavefrontSceneReader) parseFace(lineTokens []string, relVertexOffset int) ([]*input.Triangle, error) {
	if len(lineTokens) < 4 || len(lineTokens) > 5 {
		return nil, fmt.Errorf(`unsupported syntax for "f"; expected 3 arguments for triangular face or 4 arguments for a quad face; got %d. Select the triangulation option in your exporter`, len(lineTokens)-1)
	}

	var vertices [4]types.Vec3
	for arg := 0; arg < len(lineTokens)-1; arg++ {
		vTokens := strings.Split(lineTokens[arg+1], "/")

		// Faces must at least define a vertex coord
		if vTokens[0] == "" {
			return nil, fmt.Errorf("face argument %d does not include a vertex index", arg)
		}

		vOffset, err := selectFaceCoordIndex(vTokens[0], len(r.vertexList), relVertexOffset)
		if err != nil {
			return nil, fmt.Errorf("could not parse vertex coord for face argument %d: %s", arg, err.Error())
		}
		vertices[arg] = r.vertexList[vOffset]
	}

	indiceList := [][3]int{{0, 1, 2}}
	if len(lineTokens) == 5 {
		indiceList = append(indiceList, [3]int{0, 2, 3})
	}

	matIndex := r.useMaterial()
	triangles := make([]*input.Triangle, 0, len(indiceList))
	for _, indices := range indiceList {
		tri := &input.Triangle{MaterialIndex: matIndex}
		for triIndex, selectIndex := range indices {
			tri.Vertices[triIndex] = vertices[selectIndex]
		}
		triangles = append(triangles, tri)
	}

	return triangles, nil
}

// Given a face vertex index calculate the proper offset into the vertex
// list. Wavefront format can also use negative indices to reference
// elements from the end of the list.
func selectFaceCoordIndex(indexToken string, coordListLen int, relOffset int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}

	var vOffset int = 0
	switch {
	case index < 0:
		vOffset = coordListLen + int(index)
	case index == 0:
		return -1, fmt.Errorf("index 0 is not valid")
	default:
		vOffset = relOffset + int(index-1)
	}
	if vOffset < 0 || vOffset >= coordListLen {
		return -1, fmt.Errorf("index out of bounds")
	}
	return vOffset, nil
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
