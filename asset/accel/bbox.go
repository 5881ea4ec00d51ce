package accel

import (
	"github.com/achilleasa/octrace/types"
)

// BBox is an axis-aligned box used while walking the octree to decide which
// octant a primitive belongs to. Boxes are derived during traversal and are
// never stored in the node arena.
type BBox [2]types.Vec3

// Octant selector bits.
const (
	octantX = 4
	octantY = 2
	octantZ = 1
)

// Calculate the root box for a scene: a cube with the largest axis span of
// the scene extents centred on the scene centre.
func cubeBBox(scene Extents) BBox {
	var span float64
	var minPlusMax [3]float64
	for axis := 0; axis < 3; axis++ {
		min, max := scene.PlaneExtent(axis, Min), scene.PlaneExtent(axis, Max)
		if diff := max - min; diff > span {
			span = diff
		}
		minPlusMax[axis] = min + max
	}

	var b BBox
	for axis := 0; axis < 3; axis++ {
		b[0][axis] = float32((minPlusMax[axis] - span) * 0.5)
		b[1][axis] = float32((minPlusMax[axis] + span) * 0.5)
	}
	return b
}

// CentroidInto stores the box centre into dst.
func (b BBox) CentroidInto(dst *types.Vec3) {
	for axis := 0; axis < 3; axis++ {
		dst[axis] = (b[0][axis] + b[1][axis]) * 0.5
	}
}

// Octant returns the index of the octant of a box with the given centre that
// contains p. A coordinate equal to the centre selects the low half.
func Octant(p, centroid types.Vec3) int {
	octant := 0
	if p[0] > centroid[0] {
		octant |= octantX
	}
	if p[1] > centroid[1] {
		octant |= octantY
	}
	if p[2] > centroid[2] {
		octant |= octantZ
	}
	return octant
}

// Child returns the box of the given octant.
func (b BBox) Child(octant int, centroid types.Vec3) BBox {
	child := b
	for axis, bit := range [3]int{octantX, octantY, octantZ} {
		if octant&bit != 0 {
			child[0][axis] = centroid[axis]
		} else {
			child[1][axis] = centroid[axis]
		}
	}
	return child
}
