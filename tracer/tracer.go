// Package tracer walks a compiled scene the same way a GPU traversal does: a
// best-first search over the encoded octree driven by a fixed-capacity
// priority queue. It only reads the packed lookup tables so it doubles as a
// reference for the consuming shader.
package tracer

import (
	"fmt"

	"github.com/achilleasa/octrace/asset/accel"
	"github.com/achilleasa/octrace/asset/record"
	"github.com/achilleasa/octrace/asset/scene"
	"github.com/achilleasa/octrace/log"
	"github.com/achilleasa/octrace/types"
	"github.com/chewxy/math32"
)

// The octree root is always the first node record.
const rootNode record.Index = 0

// Tracer options. Zero values select defaults derived from the scene.
type Options struct {
	// The priority queue capacity. Defaults to the number of octree nodes
	// which is enough to hold every node of the tree at once.
	QueueCapacity int

	// The maximum number of nodes popped per ray. Defaults to the number
	// of octree nodes.
	MaxIterations int
}

// A ray-primitive intersection.
type Hit struct {
	// Distance along the (normalized) ray direction.
	Distance float32

	Point  types.Vec3
	Normal types.Vec3

	// The type of the intersected primitive and its index into the
	// sphere or triangle table.
	Type      accel.PrimitiveType
	Primitive int32
	Material  int32

	// The number of octree nodes examined.
	Visited int
}

// Tracer intersects rays with a compiled scene.
//
// Tracer is not safe for concurrent use; create one tracer per goroutine.
type Tracer struct {
	logger log.Logger

	nodes     *record.Arena
	extents   *record.Arena
	spheres   *record.Arena
	triangles *record.Arena

	opts  Options
	queue *PriorityQueue

	// Set when the queue rejects a push; reported once.
	queueExhausted bool
}

// Create a tracer for a compiled scene.
func New(sc *scene.Scene, opts Options) (*Tracer, error) {
	if sc == nil {
		return nil, fmt.Errorf("tracer: nil scene")
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	tr := &Tracer{
		logger: log.New("tracer"),
	}

	var err error
	for _, tbl := range []struct {
		dst   **record.Arena
		arena func() (*record.Arena, error)
	}{
		{&tr.nodes, sc.Octree.Arena},
		{&tr.extents, sc.Extents.Arena},
		{&tr.spheres, sc.Spheres.Arena},
		{&tr.triangles, sc.Triangles.Arena},
	} {
		if *tbl.dst, err = tbl.arena(); err != nil {
			return nil, err
		}
	}

	if opts.QueueCapacity <= 0 {
		opts.QueueCapacity = tr.nodes.Len()
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = tr.nodes.Len()
	}
	tr.opts = opts
	tr.queue = NewPriorityQueue(opts.QueueCapacity)

	return tr, nil
}

// Options returns the tracer options after defaults have been applied.
func (tr *Tracer) Options() Options {
	return tr.opts
}

// Intersect finds the nearest primitive hit by the ray. The ray direction
// does not need to be normalized; hit distances are always reported along
// the normalized direction.
func (tr *Tracer) Intersect(ray Ray) (Hit, bool) {
	if ray.Dir.Len() == 0 {
		return Hit{}, false
	}
	ray.Dir = ray.Dir.Normalize()
	rp := newRayPlanes(ray)

	root := accel.NodeRecordAt(tr.nodes, rootNode)
	tNear, _, ok := slabIntersection(tr.extents, root.ExtentsIndex(), &rp)
	if !ok {
		return Hit{}, false
	}

	tr.queue.Reset()
	tr.queue.Push(rootNode, entryDistance(tNear))

	best := Hit{Distance: math32.Inf(1)}
	found := false
	visited := 0
	for iter := 0; iter < tr.opts.MaxIterations; iter++ {
		nodeIndex, distance, ok := tr.queue.Pop()
		if !ok {
			break
		}

		// Remaining nodes cannot contain a closer hit
		if found && distance > best.Distance {
			break
		}
		visited++

		node := accel.NodeRecordAt(tr.nodes, nodeIndex)
		if node.IsLeaf() {
			for slot := 0; slot < node.Slots(); slot++ {
				extentsIndex := node.Slot(slot)
				if extentsIndex == record.Nil {
					break
				}
				if hit, ok := tr.intersectPrimitive(extentsIndex, ray); ok && hit.Distance < best.Distance {
					best, found = hit, true
				}
			}
			continue
		}

		for octant := 0; octant < accel.NumOctants; octant++ {
			childIndex := node.Child(octant)
			if childIndex == record.Nil {
				continue
			}
			child := accel.NodeRecordAt(tr.nodes, childIndex)
			tNear, _, ok := slabIntersection(tr.extents, child.ExtentsIndex(), &rp)
			if !ok {
				continue
			}
			entry := entryDistance(tNear)
			if found && entry > best.Distance {
				continue
			}
			if !tr.queue.Push(childIndex, entry) && !tr.queueExhausted {
				tr.queueExhausted = true
				tr.logger.Warningf("priority queue capacity (%d) exhausted; results may be incomplete", tr.queue.Cap())
			}
		}
	}

	if !found {
		return Hit{}, false
	}
	best.Visited = visited
	return best, true
}

// Intersect the primitive bounded by an extents record.
func (tr *Tracer) intersectPrimitive(extentsIndex record.Index, ray Ray) (Hit, bool) {
	e := accel.ExtentsAt(tr.extents, extentsIndex)
	mesh := record.Index(e.Mesh())

	switch e.Type() {
	case accel.TrianglePrimitive:
		tri := scene.TriangleAt(tr.triangles, mesh)
		dist, ok := triangleIntersection(tri.Vertices(), ray)
		if !ok {
			return Hit{}, false
		}
		return Hit{
			Distance:  dist,
			Point:     ray.Origin.Add(ray.Dir.Mul(dist)),
			Normal:    tri.Normal(),
			Type:      accel.TrianglePrimitive,
			Primitive: int32(mesh),
			Material:  tri.Material(),
		}, true
	default:
		sphere := scene.SphereAt(tr.spheres, mesh)
		centre := sphere.Centre()
		dist, ok := sphereIntersection(centre, sphere.Radius(), ray)
		if !ok {
			return Hit{}, false
		}
		point := ray.Origin.Add(ray.Dir.Mul(dist))
		return Hit{
			Distance:  dist,
			Point:     point,
			Normal:    point.Sub(centre).Normalize(),
			Type:      accel.SpherePrimitive,
			Primitive: int32(mesh),
			Material:  sphere.Material(),
		}, true
	}
}

// The queue priority of a node: the distance at which the ray enters its
// extents, or zero if the origin is inside.
func entryDistance(tNear float32) float32 {
	if tNear < 0 {
		return 0
	}
	return tNear
}
