package tracer

import (
	"github.com/achilleasa/octrace/asset/accel"
	"github.com/achilleasa/octrace/asset/codec"
	"github.com/achilleasa/octrace/asset/record"
	"github.com/achilleasa/octrace/types"
	"github.com/chewxy/math32"
)

const (
	// Hits closer than this distance are ignored to avoid self intersections.
	hitEpsilon float32 = 1e-5

	// Determinant threshold for rays parallel to a triangle or plane.
	parallelEpsilon float32 = 1e-8

	// Plane extents and primitive tables are both rounded to the fixed-point
	// grid; widen the extents by a few steps so that rounding never clips a
	// primitive.
	boundsPadding float32 = 4.0 / codec.FixedScale
)

// A Ray with an origin and a direction.
type Ray struct {
	Origin types.Vec3
	Dir    types.Vec3
}

// Ray projections onto the plane-set normals. They are computed once per ray
// and shared by every slab test.
type rayPlanes struct {
	num [accel.NumPlaneSetNormals]float32
	den [accel.NumPlaneSetNormals]float32
}

func newRayPlanes(ray Ray) rayPlanes {
	var rp rayPlanes
	for plane, normal := range accel.PlaneSetNormals {
		rp.num[plane] = normal.Dot(ray.Origin)
		rp.den[plane] = normal.Dot(ray.Dir)
	}
	return rp
}

// Intersect a ray with the seven slabs of an extents record. On success it
// returns the entry and exit distances; tNear is negative if the ray origin
// lies inside the extents.
func slabIntersection(arena *record.Arena, extentsIndex record.Index, rp *rayPlanes) (tNear, tFar float32, ok bool) {
	e := accel.ExtentsAt(arena, extentsIndex)
	tNear, tFar = math32.Inf(-1), math32.Inf(1)
	for plane := 0; plane < accel.NumPlaneSetNormals; plane++ {
		dMin := float32(e.PlaneExtent(plane, accel.Min)) - boundsPadding
		dMax := float32(e.PlaneExtent(plane, accel.Max)) + boundsPadding

		// Empty extents (e.g. the aggregate of an empty leaf)
		if dMin > dMax {
			return 0, 0, false
		}

		if math32.Abs(rp.den[plane]) < parallelEpsilon {
			if rp.num[plane] < dMin || rp.num[plane] > dMax {
				return 0, 0, false
			}
			continue
		}

		t0 := (dMin - rp.num[plane]) / rp.den[plane]
		t1 := (dMax - rp.num[plane]) / rp.den[plane]
		if rp.den[plane] < 0 {
			t0, t1 = t1, t0
		}
		if t0 > tNear {
			tNear = t0
		}
		if t1 < tFar {
			tFar = t1
		}
		if tNear > tFar {
			return 0, 0, false
		}
	}

	if tFar < 0 {
		return 0, 0, false
	}
	return tNear, tFar, true
}

// Intersect a ray with a sphere. The ray direction must be normalized.
// Zero-radius spheres are never hit.
func sphereIntersection(centre types.Vec3, radius float32, ray Ray) (float32, bool) {
	if radius <= 0 {
		return 0, false
	}

	eyeToCentre := centre.Sub(ray.Origin)
	v := eyeToCentre.Dot(ray.Dir)
	discriminant := radius*radius - eyeToCentre.Dot(eyeToCentre) + v*v
	if discriminant < 0 {
		return 0, false
	}

	sq := math32.Sqrt(discriminant)
	if t := v - sq; t > hitEpsilon {
		return t, true
	}
	// Origin inside the sphere
	if t := v + sq; t > hitEpsilon {
		return t, true
	}
	return 0, false
}

// Intersect a ray with a triangle using the Möller-Trumbore algorithm.
func triangleIntersection(vertices [3]types.Vec3, ray Ray) (float32, bool) {
	v0v1 := vertices[1].Sub(vertices[0])
	v0v2 := vertices[2].Sub(vertices[0])
	pvec := ray.Dir.Cross(v0v2)
	det := v0v1.Dot(pvec)
	if math32.Abs(det) < parallelEpsilon {
		return 0, false
	}
	invDet := 1.0 / det

	tvec := ray.Origin.Sub(vertices[0])
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}

	qvec := tvec.Cross(v0v1)
	v := ray.Dir.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := v0v2.Dot(qvec) * invDet
	if t <= hitEpsilon {
		return 0, false
	}
	return t, true
}
