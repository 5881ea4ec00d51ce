package accel

import (
	"fmt"

	"github.com/achilleasa/octrace/asset/codec"
	"github.com/achilleasa/octrace/asset/record"
	"github.com/achilleasa/octrace/types"
)

// The number of plane-set normals used to bound primitives.
const NumPlaneSetNormals = 7

const sqrt3Over3 = 0.5773502691896257

// PlaneSetNormals are the separating axes used by Extents: the 3 coordinate
// axes followed by 4 cube diagonals. Consumers must use this exact order.
var PlaneSetNormals = [NumPlaneSetNormals]types.Vec3{
	{1, 0, 0},
	{0, 1, 0},
	{0, 0, 1},
	{sqrt3Over3, sqrt3Over3, sqrt3Over3},
	{-sqrt3Over3, sqrt3Over3, sqrt3Over3},
	{-sqrt3Over3, -sqrt3Over3, sqrt3Over3},
	{sqrt3Over3, -sqrt3Over3, sqrt3Over3},
}

// PrimitiveType identifies the primitive bounded by an Extents record.
type PrimitiveType int32

const (
	SpherePrimitive PrimitiveType = iota
	TrianglePrimitive
)

func (p PrimitiveType) String() string {
	switch p {
	case SpherePrimitive:
		return "sphere"
	case TrianglePrimitive:
		return "triangle"
	}
	return fmt.Sprintf("PrimitiveType(%d)", int32(p))
}

// Selectors for the two bounds of a plane.
const (
	Min = 0
	Max = 1
)

// Extents record layout:
//
//	[0] mesh index (-1 for aggregates)
//	[1] primitive type
//	[2 + plane*2 + Min] plane min distance
//	[2 + plane*2 + Max] plane max distance
const (
	extentsMeshField   = 0
	extentsTypeField   = 1
	extentsPlaneOffset = 2

	// The number of fields in an Extents record.
	ExtentsFields = extentsPlaneOffset + 2*NumPlaneSetNormals
)

// Extents is a view over a seven-plane bounding volume record.
type Extents struct {
	view record.View
}

// Create an arena for Extents records.
func NewExtentsArena() *record.Arena {
	return record.NewArena(ExtentsFields)
}

// Allocate a new Extents record. Fresh records have no mesh and empty
// (inverted) bounds so that any ExtendBy call tightens them.
func NewExtents(arena *record.Arena) Extents {
	e := Extents{view: record.NewView(arena)}
	e.view.SetInt(extentsMeshField, int32(record.Nil))
	e.view.SetInt(extentsTypeField, int32(SpherePrimitive))
	for plane := 0; plane < NumPlaneSetNormals; plane++ {
		e.setRaw(plane, Min, codec.MaxInt)
		e.setRaw(plane, Max, codec.MinInt)
	}
	return e
}

// Wrap an existing Extents record.
func ExtentsAt(arena *record.Arena, index record.Index) Extents {
	return Extents{view: record.ViewAt(arena, index)}
}

// Index returns the record index.
func (e Extents) Index() record.Index {
	return e.view.Index()
}

// Mesh returns the index of the bounded primitive or record.Nil.
func (e Extents) Mesh() int32 {
	return e.view.Int(extentsMeshField)
}

// SetMesh sets the index of the bounded primitive.
func (e Extents) SetMesh(mesh int32) {
	e.view.SetInt(extentsMeshField, mesh)
}

// Type returns the type of the bounded primitive.
func (e Extents) Type() PrimitiveType {
	return PrimitiveType(e.view.Int(extentsTypeField))
}

// SetType sets the type of the bounded primitive. Anything other than a
// triangle is stored as a sphere.
func (e Extents) SetType(t PrimitiveType) {
	if t != TrianglePrimitive {
		t = SpherePrimitive
	}
	e.view.SetInt(extentsTypeField, int32(t))
}

// PlaneExtent returns the Min or Max distance along a plane-set normal.
func (e Extents) PlaneExtent(plane, which int) float64 {
	return e.view.Float(planeField(plane, which))
}

// SetPlaneExtent sets the Min or Max distance along a plane-set normal.
func (e Extents) SetPlaneExtent(value float64, plane, which int) {
	e.view.SetFloat(planeField(plane, which), value)
}

// ExtendBy grows e so that it also bounds other. The merge operates on the
// stored fixed-point values and is exact; extending by e itself is a no-op.
func (e Extents) ExtendBy(other Extents) {
	for plane := 0; plane < NumPlaneSetNormals; plane++ {
		if otherMin := other.raw(plane, Min); otherMin < e.raw(plane, Min) {
			e.setRaw(plane, Min, otherMin)
		}
		if otherMax := other.raw(plane, Max); otherMax > e.raw(plane, Max) {
			e.setRaw(plane, Max, otherMax)
		}
	}
}

// ExtendByPoint grows e so that it contains point p.
func (e Extents) ExtendByPoint(p types.Vec3) {
	for plane, normal := range PlaneSetNormals {
		d := codec.ToFixed(float64(p.Dot(normal)))
		if d < e.raw(plane, Min) {
			e.setRaw(plane, Min, d)
		}
		if d > e.raw(plane, Max) {
			e.setRaw(plane, Max, d)
		}
	}
}

// ExtendBySphere grows e so that it contains a sphere. Plane-set normals are
// unit length so the sphere projects to centre·n ± radius on every plane.
func (e Extents) ExtendBySphere(centre types.Vec3, radius float32) {
	for plane, normal := range PlaneSetNormals {
		d := centre.Dot(normal)
		lo := codec.ToFixed(float64(d - radius))
		hi := codec.ToFixed(float64(d + radius))
		if lo < e.raw(plane, Min) {
			e.setRaw(plane, Min, lo)
		}
		if hi > e.raw(plane, Max) {
			e.setRaw(plane, Max, hi)
		}
	}
}

// Centroid returns the centre of the axis-aligned planes (0-2); the diagonal
// planes are ignored. The vector is taken from pool and must be released by
// the caller.
func (e Extents) Centroid(pool *types.Vec3Pool) *types.Vec3 {
	c := pool.Acquire()
	for axis := 0; axis < 3; axis++ {
		c[axis] = float32((e.PlaneExtent(axis, Min) + e.PlaneExtent(axis, Max)) * 0.5)
	}
	return c
}

// Allocate Extents bounding a triangle.
func TriangleExtents(arena *record.Arena, vertices [3]types.Vec3, mesh int32) Extents {
	e := NewExtents(arena)
	e.SetMesh(mesh)
	e.SetType(TrianglePrimitive)
	for _, v := range vertices {
		e.ExtendByPoint(v)
	}
	return e
}

// Allocate Extents bounding a sphere.
func SphereExtents(arena *record.Arena, centre types.Vec3, radius float32, mesh int32) Extents {
	e := NewExtents(arena)
	e.SetMesh(mesh)
	e.SetType(SpherePrimitive)
	e.ExtendBySphere(centre, radius)
	return e
}

func planeField(plane, which int) int {
	field := extentsPlaneOffset + plane*2 + which
	if plane < 0 || plane >= NumPlaneSetNormals || (which != Min && which != Max) {
		panic(&record.RangeError{Field: field, Fields: ExtentsFields})
	}
	return field
}

func (e Extents) raw(plane, which int) int64 {
	return int64(e.view.Int(planeField(plane, which)))
}

func (e Extents) setRaw(plane, which int, value int64) {
	e.view.SetInt(planeField(plane, which), int32(value))
}
