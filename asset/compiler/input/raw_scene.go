package input

import (
	"github.com/achilleasa/octrace/types"
	"github.com/chewxy/math32"
)

// A named material. Primitives reference materials by their index in
// Scene.Materials.
type Material struct {
	Name string

	// True if material is referenced by scene geometry.
	Used bool
}

// A sphere primitive.
type Sphere struct {
	Centre        types.Vec3
	Radius        float32
	MaterialIndex int
}

// A triangle primitive.
type Triangle struct {
	Vertices      [3]types.Vec3
	MaterialIndex int

	// Optional face normal. If not specified it is calculated from the
	// vertex winding order.
	Normal types.Vec3
}

// Get the triangle face normal.
func (t *Triangle) FaceNormal() types.Vec3 {
	if t.Normal != (types.Vec3{}) {
		return t.Normal.Normalize()
	}
	e01 := t.Vertices[1].Sub(t.Vertices[0])
	e02 := t.Vertices[2].Sub(t.Vertices[0])
	return e01.Cross(e02).Normalize()
}

// The scene representation consumed by the scene compiler.
type Scene struct {
	Materials []*Material
	Spheres   []*Sphere
	Triangles []*Triangle
}

// Create a new empty scene.
func NewScene() *Scene {
	return &Scene{
		Materials: make([]*Material, 0),
		Spheres:   make([]*Sphere, 0),
		Triangles: make([]*Triangle, 0),
	}
}

// Get the number of primitives in the scene.
func (sc *Scene) PrimitiveCount() int {
	return len(sc.Spheres) + len(sc.Triangles)
}

// Calculate the axis-aligned bounds of all scene primitives.
func (sc *Scene) BBox() [2]types.Vec3 {
	bbox := [2]types.Vec3{
		{math32.MaxFloat32, math32.MaxFloat32, math32.MaxFloat32},
		{-math32.MaxFloat32, -math32.MaxFloat32, -math32.MaxFloat32},
	}
	for _, s := range sc.Spheres {
		r := types.Vec3{s.Radius, s.Radius, s.Radius}
		bbox[0] = types.MinVec3(bbox[0], s.Centre.Sub(r))
		bbox[1] = types.MaxVec3(bbox[1], s.Centre.Add(r))
	}
	for _, t := range sc.Triangles {
		for _, v := range t.Vertices {
			bbox[0] = types.MinVec3(bbox[0], v)
			bbox[1] = types.MaxVec3(bbox[1], v)
		}
	}
	return bbox
}
