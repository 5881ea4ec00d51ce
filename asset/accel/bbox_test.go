package accel

import (
	"testing"

	"github.com/achilleasa/octrace/types"
)

func TestCubeBBox(t *testing.T) {
	arena := NewExtentsArena()
	scene := NewExtents(arena)
	scene.ExtendByPoint(types.Vec3{-1, 0, -10})
	scene.ExtendByPoint(types.Vec3{1, 1, 0})

	exp := BBox{{-5, -4.5, -10}, {5, 5.5, 0}}
	if got := cubeBBox(scene); got != exp {
		t.Fatalf("expected root cube %v; got %v", exp, got)
	}
}

func TestOctant(t *testing.T) {
	centroid := types.Vec3{0, 0, 0}
	specs := []struct {
		p   types.Vec3
		exp int
	}{
		{types.Vec3{-1, -1, -1}, 0},
		{types.Vec3{-1, -1, 1}, 1},
		{types.Vec3{-1, 1, -1}, 2},
		{types.Vec3{1, -1, -1}, 4},
		{types.Vec3{1, 1, 1}, 7},
		// Points on the split plane select the low half
		{types.Vec3{0, 0, 0}, 0},
	}

	for specIndex, spec := range specs {
		if got := Octant(spec.p, centroid); got != spec.exp {
			t.Errorf("[spec %d] expected octant %d; got %d", specIndex, spec.exp, got)
		}
	}
}

func TestBBoxChild(t *testing.T) {
	b := BBox{{-2, -2, -2}, {2, 2, 2}}
	var centroid types.Vec3
	b.CentroidInto(&centroid)

	specs := []struct {
		octant int
		exp    BBox
	}{
		{0, BBox{{-2, -2, -2}, {0, 0, 0}}},
		{5, BBox{{0, -2, 0}, {2, 0, 2}}},
		{7, BBox{{0, 0, 0}, {2, 2, 2}}},
	}

	for _, spec := range specs {
		if got := b.Child(spec.octant, centroid); got != spec.exp {
			t.Errorf("[octant %d] expected box %v; got %v", spec.octant, spec.exp, got)
		}
	}
}
