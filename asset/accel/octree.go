// Package accel implements a seven-plane bounding volume octree whose nodes and
// bounds live in flat record arenas so that they can be uploaded as lookup
// tables and walked without pointers.
package accel

import (
	"fmt"
	"time"

	"github.com/achilleasa/octrace/asset/record"
	"github.com/achilleasa/octrace/log"
	"github.com/achilleasa/octrace/types"
)

// Stats describes the shape of an octree.
type Stats struct {
	Nodes    int
	Leaves   int
	MaxDepth int

	// The number of extents held by leaves.
	Contents int

	// The number of extents that did not fit in the record of a leaf at
	// the maximum depth.
	Overflow int
}

// Octree partitions extents into a tree with up to 8 children per node.
//
// Octree is not safe for concurrent use.
type Octree struct {
	logger log.Logger

	cfg     Config
	extents *record.Arena
	nodes   *record.Arena

	// The root bounding cube. Child boxes are derived from it while
	// walking the tree.
	bbox BBox
	root record.Index

	// Contents of max depth leaves that exceed MaxContents keyed by node.
	overflow map[record.Index][]record.Index

	pool  *types.Vec3Pool
	stats Stats
}

// Create a new empty octree bounding the scene extents. New node and extents
// records are allocated from the supplied arenas. If nodeArena is nil a new
// arena is created.
func New(sceneExtents Extents, extentsArena, nodeArena *record.Arena, cfg Config) (*Octree, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if extentsArena == nil {
		return nil, fmt.Errorf("octree: nil extents arena")
	}
	if extentsArena.Fields() != ExtentsFields {
		return nil, fmt.Errorf("octree: extents arena records have %d fields; expected %d", extentsArena.Fields(), ExtentsFields)
	}
	if nodeArena == nil {
		nodeArena = record.NewArena(cfg.NodeFields())
	} else if nodeArena.Fields() != cfg.NodeFields() {
		return nil, fmt.Errorf("octree: node arena records have %d fields; expected %d", nodeArena.Fields(), cfg.NodeFields())
	}

	tree := &Octree{
		logger:   log.New("octree"),
		cfg:      cfg,
		extents:  extentsArena,
		nodes:    nodeArena,
		bbox:     cubeBBox(sceneExtents),
		overflow: make(map[record.Index][]record.Index),
		pool:     types.NewVec3Pool(),
	}
	tree.root = newNode(tree).Index()
	return tree, nil
}

// Config returns the octree configuration.
func (t *Octree) Config() Config {
	return t.cfg
}

// BBox returns the root bounding cube.
func (t *Octree) BBox() BBox {
	return t.bbox
}

// Root returns the root node.
func (t *Octree) Root() Node {
	return t.nodeAt(t.root)
}

// Nodes returns the node arena.
func (t *Octree) Nodes() *record.Arena {
	return t.nodes
}

// Extents returns the extents arena.
func (t *Octree) Extents() *record.Arena {
	return t.extents
}

// Stats returns the current octree shape statistics.
func (t *Octree) Stats() Stats {
	return t.stats
}

func (t *Octree) nodeAt(index record.Index) Node {
	return Node{NodeRecord: NodeRecordAt(t.nodes, index), tree: t}
}

// Insert an extents record into the tree.
func (t *Octree) Insert(e Extents) {
	t.insert(t.Root(), e, t.bbox, 0)
}

func (t *Octree) insert(node Node, e Extents, bbox BBox, depth int) {
	for {
		if node.IsLeaf() {
			if node.slotsUsed() < t.cfg.MaxContents || depth >= t.cfg.MaxDepth {
				node.push(e)
				return
			}

			// Split: the flag must flip before the drained extents are
			// re-inserted so that they are routed to the children.
			node.setLeaf(false)
			t.stats.Leaves--
			for _, held := range node.drain() {
				t.insert(node, held, bbox, depth)
			}
			continue
		}

		nodeCentroid := t.pool.Acquire()
		bbox.CentroidInto(nodeCentroid)
		extentsCentroid := e.Centroid(t.pool)
		octant := Octant(*extentsCentroid, *nodeCentroid)
		bbox = bbox.Child(octant, *nodeCentroid)
		t.pool.Release(extentsCentroid)
		t.pool.Release(nodeCentroid)

		childIndex := node.Child(octant)
		if childIndex == record.Nil {
			child := newNode(t)
			node.setChild(octant, child.Index())
			childIndex = child.Index()
		}

		node = t.nodeAt(childIndex)
		depth++
		if depth > t.stats.MaxDepth {
			t.stats.MaxDepth = depth
		}
	}
}

// Build calculates the aggregate extents of every node. It must be called
// once all extents have been inserted; inserting after Build leaves the
// aggregates of the affected ancestors stale until Build runs again.
func (t *Octree) Build() {
	start := time.Now()
	t.build(t.Root(), t.bbox)
	t.logger.Debugf(
		"octree build time: %d ms, maxDepth: %d, nodes: %d, leaves: %d, contents: %d",
		time.Since(start).Nanoseconds()/1e6,
		t.stats.MaxDepth, t.stats.Nodes, t.stats.Leaves, t.stats.Contents,
	)
}

func (t *Octree) build(node Node, bbox BBox) {
	aggregate := node.Extents()
	if node.IsLeaf() {
		node.EachContent(func(e Extents) {
			aggregate.ExtendBy(e)
		})
		return
	}

	centroid := t.pool.Acquire()
	bbox.CentroidInto(centroid)
	for octant := 0; octant < NumOctants; octant++ {
		childIndex := node.Child(octant)
		if childIndex == record.Nil {
			continue
		}
		child := t.nodeAt(childIndex)
		t.build(child, bbox.Child(octant, *centroid))
		aggregate.ExtendBy(child.Extents())
	}
	t.pool.Release(centroid)
}

// OnEach visits every node in pre-order. Children are visited in ascending
// octant order.
func (t *Octree) OnEach(fn func(Node)) {
	var walk func(Node)
	walk = func(n Node) {
		fn(n)
		n.EachChild(func(_ int, child Node) {
			walk(child)
		})
	}
	walk(t.Root())
}
