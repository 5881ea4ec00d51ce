package input

import (
	"testing"

	"github.com/achilleasa/octrace/types"
)

func TestSceneBBox(t *testing.T) {
	sc := NewScene()
	sc.Spheres = append(sc.Spheres, &Sphere{Centre: types.Vec3{0, 0, -10}, Radius: 2})
	sc.Triangles = append(sc.Triangles, &Triangle{Vertices: [3]types.Vec3{{-5, 1, 0}, {1, 4, 0}, {0, 0, 3}}})

	exp := [2]types.Vec3{{-5, -2, -12}, {2, 4, 3}}
	if got := sc.BBox(); got != exp {
		t.Fatalf("expected bbox %v; got %v", exp, got)
	}
	if sc.PrimitiveCount() != 2 {
		t.Fatalf("expected 2 primitives; got %d", sc.PrimitiveCount())
	}
}

func TestFaceNormal(t *testing.T) {
	tri := &Triangle{Vertices: [3]types.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}}
	if exp := (types.Vec3{0, 0, 1}); tri.FaceNormal() != exp {
		t.Fatalf("expected normal %v; got %v", exp, tri.FaceNormal())
	}

	tri.Normal = types.Vec3{0, 0, -3}
	if exp := (types.Vec3{0, 0, -1}); tri.FaceNormal() != exp {
		t.Fatalf("expected explicit normal %v; got %v", exp, tri.FaceNormal())
	}

	// Coincident vertices
	point := &Triangle{Vertices: [3]types.Vec3{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}}}
	if got := point.FaceNormal(); got != (types.Vec3{}) {
		t.Fatalf("expected zero normal for a degenerate triangle; got %v", got)
	}
}
