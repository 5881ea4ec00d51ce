package scene

import (
	"github.com/achilleasa/octrace/asset/record"
	"github.com/achilleasa/octrace/types"
)

// Sphere record layout:
//
//	[0..2] centre
//	[3]    radius
//	[4]    material index
const (
	sphereCentreField   = 0
	sphereRadiusField   = 3
	sphereMaterialField = 4

	// The number of fields in a sphere record.
	SphereFields = 5
)

// Triangle record layout:
//
//	[0..2]  vertex a
//	[3..5]  vertex b
//	[6..8]  vertex c
//	[9..11] face normal
//	[12]    material index
const (
	triangleVertexOffset  = 0
	triangleNormalField   = 9
	triangleMaterialField = 12

	// The number of fields in a triangle record.
	TriangleFields = 13
)

// Sphere is a view over a sphere record.
type Sphere struct {
	view record.View
}

// Allocate a new sphere record.
func NewSphere(arena *record.Arena, centre types.Vec3, radius float32, material int32) Sphere {
	s := Sphere{view: record.NewView(arena)}
	s.view.SetVec3(sphereCentreField, centre)
	s.view.SetFloat(sphereRadiusField, float64(radius))
	s.view.SetInt(sphereMaterialField, material)
	return s
}

// Wrap an existing sphere record.
func SphereAt(arena *record.Arena, index record.Index) Sphere {
	return Sphere{view: record.ViewAt(arena, index)}
}

func (s Sphere) Index() record.Index { return s.view.Index() }
func (s Sphere) Centre() types.Vec3  { return s.view.Vec3(sphereCentreField) }
func (s Sphere) Radius() float32     { return float32(s.view.Float(sphereRadiusField)) }
func (s Sphere) Material() int32     { return s.view.Int(sphereMaterialField) }

// Triangle is a view over a triangle record.
type Triangle struct {
	view record.View
}

// Allocate a new triangle record.
func NewTriangle(arena *record.Arena, vertices [3]types.Vec3, normal types.Vec3, material int32) Triangle {
	t := Triangle{view: record.NewView(arena)}
	for i, v := range vertices {
		t.view.SetVec3(triangleVertexOffset+3*i, v)
	}
	t.view.SetVec3(triangleNormalField, normal)
	t.view.SetInt(triangleMaterialField, material)
	return t
}

// Wrap an existing triangle record.
func TriangleAt(arena *record.Arena, index record.Index) Triangle {
	return Triangle{view: record.ViewAt(arena, index)}
}

// Index returns the record index.
func (t Triangle) Index() record.Index {
	return t.view.Index()
}

// Vertex returns vertex 0 (a), 1 (b) or 2 (c).
func (t Triangle) Vertex(i int) types.Vec3 {
	if i < 0 || i > 2 {
		panic(&record.RangeError{Field: triangleVertexOffset + 3*i, Fields: TriangleFields})
	}
	return t.view.Vec3(triangleVertexOffset + 3*i)
}

// Vertices returns all three vertices.
func (t Triangle) Vertices() [3]types.Vec3 {
	return [3]types.Vec3{t.Vertex(0), t.Vertex(1), t.Vertex(2)}
}

// Normal returns the face normal.
func (t Triangle) Normal() types.Vec3 {
	return t.view.Vec3(triangleNormalField)
}

// Material returns the material index.
func (t Triangle) Material() int32 {
	return t.view.Int(triangleMaterialField)
}
