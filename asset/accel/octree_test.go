package accel

import (
	"bytes"
	"testing"

	"github.com/achilleasa/octrace/asset/record"
	"github.com/achilleasa/octrace/types"
)

var twoTriangles = [][3]types.Vec3{
	{{1, 1, 0}, {-1, 0, 0}, {1, 0, 0}},
	{{1, 1, -10}, {-1, 0, -10}, {1, 0, -10}},
}

// One triangle per octant of the [-10, 10] cube.
var octantTriangles = [][3]types.Vec3{
	{{10, 10, 10}, {0, 9, 10}, {10, 9, 10}},
	{{10, 10, -10}, {0, 9, -10}, {10, 9, -10}},
	{{10, -10, 10}, {0, -9, 10}, {10, -9, 10}},
	{{10, -10, -10}, {0, -9, -10}, {10, -9, -10}},
	{{-10, 10, 10}, {0, 9, 10}, {-10, 9, 10}},
	{{-10, 10, -10}, {0, 9, -10}, {-10, 9, -10}},
	{{-10, -10, 10}, {0, -9, 10}, {-10, -9, 10}},
	{{-10, -10, -10}, {0, -9, -10}, {-10, -9, -10}},
}

type treeFixture struct {
	arena    *record.Arena
	scene    Extents
	extents  []Extents
	octree   *Octree
	visited  int
	contents int
}

func buildTree(t *testing.T, triangles [][3]types.Vec3, cfg Config) *treeFixture {
	t.Helper()

	f := &treeFixture{arena: NewExtentsArena()}
	f.scene = NewExtents(f.arena)
	for mesh, verts := range triangles {
		e := TriangleExtents(f.arena, verts, int32(mesh))
		f.scene.ExtendBy(e)
		f.extents = append(f.extents, e)
	}

	var err error
	f.octree, err = New(f.scene, f.arena, nil, cfg)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range f.extents {
		f.octree.Insert(e)
	}
	f.octree.Build()

	f.octree.OnEach(func(n Node) {
		f.visited++
		f.contents += n.ContentsLen()
	})
	return f
}

func TestOctreeWithoutExtents(t *testing.T) {
	f := buildTree(t, nil, DefaultConfig())

	if f.visited != 1 {
		t.Fatalf("expected 1 visited node; got %d", f.visited)
	}
	root := f.octree.Root()
	if !root.IsLeaf() || root.ContentsLen() != 0 {
		t.Fatalf("expected root to be an empty leaf; got leaf: %t, contents: %d", root.IsLeaf(), root.ContentsLen())
	}
}

func TestOctreeTwoTrianglesDefaultConfig(t *testing.T) {
	f := buildTree(t, twoTriangles, DefaultConfig())

	if f.visited != 1 {
		t.Fatalf("expected 1 visited node; got %d", f.visited)
	}
	if f.contents != 2 {
		t.Fatalf("expected root to hold 2 extents; got %d", f.contents)
	}
}

func TestOctreeTwoTrianglesSplit(t *testing.T) {
	f := buildTree(t, twoTriangles, Config{MaxContents: 1, MaxDepth: DefaultMaxDepth})

	if f.visited != 3 {
		t.Fatalf("expected 3 visited nodes; got %d", f.visited)
	}

	root := f.octree.Root()
	if root.IsLeaf() {
		t.Fatal("expected root to be split")
	}
	// The root cube is centred at (0, 0.5, -5); the triangle at z=0 lands
	// in the z-high octant.
	expMesh := map[int]int32{0: 1, 1: 0}
	root.EachChild(func(octant int, child Node) {
		mesh, ok := expMesh[octant]
		if !ok {
			t.Fatalf("unexpected child at octant %d", octant)
		}
		if !child.IsLeaf() || child.ContentsLen() != 1 || child.Content(0).Mesh() != mesh {
			t.Fatalf("[octant %d] expected a leaf holding mesh %d", octant, mesh)
		}
	})

	stats := f.octree.Stats()
	exp := Stats{Nodes: 3, Leaves: 2, MaxDepth: 1, Contents: 2}
	if stats != exp {
		t.Fatalf("expected stats %+v; got %+v", exp, stats)
	}
}

func TestOctreeOneTrianglePerOctant(t *testing.T) {
	f := buildTree(t, octantTriangles, Config{MaxContents: 1, MaxDepth: DefaultMaxDepth})

	if f.visited != 9 {
		t.Fatalf("expected 9 visited nodes; got %d", f.visited)
	}
	if f.contents != 8 {
		t.Fatalf("expected 8 contents; got %d", f.contents)
	}

	// Every octant holds exactly the triangle placed in it
	seen := make(map[int32]bool)
	f.octree.Root().EachChild(func(octant int, child Node) {
		if child.ContentsLen() != 1 {
			t.Fatalf("[octant %d] expected 1 extents; got %d", octant, child.ContentsLen())
		}
		seen[child.Content(0).Mesh()] = true
	})
	if len(seen) != 8 {
		t.Fatalf("expected all 8 meshes to be present; got %d", len(seen))
	}
}

func TestOctreeSharedOctantAddsIntermediateNode(t *testing.T) {
	triangles := append([][3]types.Vec3(nil), octantTriangles[:7]...)
	// Shares the (-x, -y, +z) octant with triangle 6 but lands in a different
	// child of it.
	triangles = append(triangles, [3]types.Vec3{{-10, -1, 1}, {-9, -1, 1}, {-10, -2, 1}})

	f := buildTree(t, triangles, Config{MaxContents: 1, MaxDepth: DefaultMaxDepth})

	if f.visited != 10 {
		t.Fatalf("expected 10 visited nodes; got %d", f.visited)
	}
	if f.contents != 8 {
		t.Fatalf("expected 8 contents; got %d", f.contents)
	}
	stats := f.octree.Stats()
	if stats.Leaves != 8 || stats.MaxDepth != 2 {
		t.Fatalf("expected 8 leaves at max depth 2; got %d leaves at max depth %d", stats.Leaves, stats.MaxDepth)
	}

	intermediate := f.octree.nodeAt(f.octree.Root().Child(1))
	if intermediate.IsLeaf() {
		t.Fatal("expected octant 1 to hold an internal node")
	}
}

func TestOctreeAggregatesBoundContents(t *testing.T) {
	f := buildTree(t, octantTriangles, Config{MaxContents: 1, MaxDepth: DefaultMaxDepth})

	// The root aggregate must match the scene extents exactly
	root := f.octree.Root().Extents()
	for plane := 0; plane < NumPlaneSetNormals; plane++ {
		for _, which := range []int{Min, Max} {
			if root.raw(plane, which) != f.scene.raw(plane, which) {
				t.Fatalf("[plane %d/%d] expected root aggregate %d; got %d", plane, which, f.scene.raw(plane, which), root.raw(plane, which))
			}
		}
	}

	f.octree.OnEach(func(n Node) {
		agg := n.Extents()
		n.EachContent(func(e Extents) {
			for plane := 0; plane < NumPlaneSetNormals; plane++ {
				if e.raw(plane, Min) < agg.raw(plane, Min) || e.raw(plane, Max) > agg.raw(plane, Max) {
					t.Fatalf("[node %d] aggregate does not bound mesh %d on plane %d", n.Index(), e.Mesh(), plane)
				}
			}
		})
	})
}

func TestOctreeBuildIsIdempotent(t *testing.T) {
	f := buildTree(t, octantTriangles, Config{MaxContents: 2, MaxDepth: DefaultMaxDepth})

	before := append([]byte(nil), f.arena.Bytes()...)
	f.octree.Build()
	if !bytes.Equal(before, f.arena.Bytes()) {
		t.Fatal("expected a second build to produce identical aggregates")
	}
}

func TestOctreeMaxDepthOverflow(t *testing.T) {
	f := buildTree(t, octantTriangles[:3], Config{MaxContents: 1, MaxDepth: 0})

	root := f.octree.Root()
	if !root.IsLeaf() {
		t.Fatal("expected root to stay a leaf at max depth 0")
	}
	if root.ContentsLen() != 3 {
		t.Fatalf("expected root to hold 3 extents; got %d", root.ContentsLen())
	}

	stats := f.octree.Stats()
	if stats.Overflow != 2 || stats.Contents != 3 {
		t.Fatalf("expected 3 contents with 2 overflowing; got %+v", stats)
	}

	// Overflow entries still contribute to the aggregate
	agg := root.Extents()
	for plane := 0; plane < NumPlaneSetNormals; plane++ {
		if agg.raw(plane, Min) != f.scene.raw(plane, Min) || agg.raw(plane, Max) != f.scene.raw(plane, Max) {
			t.Fatalf("[plane %d] expected aggregate to match the scene extents", plane)
		}
	}

	// Only the first entry fits in the encoded record
	enc := f.octree.Encode()
	nodes, err := enc.Octree.Arena()
	if err != nil {
		t.Fatal(err)
	}
	view := record.ViewAt(nodes, root.Index())
	if got := record.Index(view.Int(nodeContentsOffset)); got != f.extents[0].Index() {
		t.Fatalf("expected encoded slot 0 to reference extents %d; got %d", f.extents[0].Index(), got)
	}
}

func TestOctreeSplitReinsertsInPopOrder(t *testing.T) {
	// The coincident triangles share an octant so the max depth leaf holds
	// the drained ones in pop order followed by the new extents.
	tri := [3]types.Vec3{{1, 1, 1}, {2, 1, 1}, {1, 2, 1}}
	triangles := [][3]types.Vec3{tri, tri, tri, {{-5, -5, -5}, {-5, -5, -5}, {-5, -5, -5}}}

	f := buildTree(t, triangles, Config{MaxContents: 2, MaxDepth: 1})

	var leaf Node
	var found bool
	f.octree.OnEach(func(n Node) {
		if n.IsLeaf() && n.ContentsLen() == 3 {
			leaf, found = n, true
		}
	})
	if !found {
		t.Fatal("expected a leaf holding the 3 coincident triangles")
	}

	// Slots hold mesh 1 and 0 (popped in reverse) followed by the new mesh 2
	expMeshes := []int32{1, 0, 2}
	for i, exp := range expMeshes {
		if got := leaf.Content(i).Mesh(); got != exp {
			t.Fatalf("expected content %d to be mesh %d; got %d", i, exp, got)
		}
	}
}

func TestOctreePoolIsBalanced(t *testing.T) {
	f := buildTree(t, octantTriangles, Config{MaxContents: 1, MaxDepth: DefaultMaxDepth})

	if f.octree.pool.Allocated() != f.octree.pool.Free() {
		t.Fatalf("expected all %d pooled vectors to be released; %d are free", f.octree.pool.Allocated(), f.octree.pool.Free())
	}
}

func TestOctreeOnEachPreOrder(t *testing.T) {
	f := buildTree(t, octantTriangles, Config{MaxContents: 1, MaxDepth: DefaultMaxDepth})

	var order []record.Index
	f.octree.OnEach(func(n Node) {
		order = append(order, n.Index())
	})

	if order[0] != f.octree.Root().Index() {
		t.Fatalf("expected root to be visited first; got node %d", order[0])
	}
	var children []record.Index
	f.octree.Root().EachChild(func(_ int, child Node) {
		children = append(children, child.Index())
	})
	for i, index := range children {
		if order[i+1] != index {
			t.Fatalf("expected visit %d to be node %d; got %d", i+1, index, order[i+1])
		}
	}
}

func TestNewOctreeErrors(t *testing.T) {
	arena := NewExtentsArena()
	scene := NewExtents(arena)

	specs := []struct {
		extents *record.Arena
		nodes   *record.Arena
		cfg     Config
		expErr  string
	}{
		{arena, nil, Config{MaxContents: 0, MaxDepth: 1}, "octree: MaxContents must be at least 1; got 0"},
		{arena, nil, Config{MaxContents: 1, MaxDepth: -1}, "octree: MaxDepth must not be negative; got -1"},
		{nil, nil, DefaultConfig(), "octree: nil extents arena"},
		{record.NewArena(3), nil, DefaultConfig(), "octree: extents arena records have 3 fields; expected 16"},
		{arena, record.NewArena(11), DefaultConfig(), "octree: node arena records have 11 fields; expected 26"},
	}

	for specIndex, spec := range specs {
		_, err := New(scene, spec.extents, spec.nodes, spec.cfg)
		if err == nil || err.Error() != spec.expErr {
			t.Errorf("[spec %d] expected error %q; got %v", specIndex, spec.expErr, err)
		}
	}
}

func TestOctreeEncode(t *testing.T) {
	f := buildTree(t, twoTriangles, Config{MaxContents: 1, MaxDepth: DefaultMaxDepth})
	enc := f.octree.Encode()

	if enc.Octree.Sampler != OctreeSampler || enc.Octree.Struct != OctreeStruct {
		t.Fatalf("unexpected octree binding %q/%q", enc.Octree.Sampler, enc.Octree.Struct)
	}
	if enc.Extents.Sampler != ExtentsSampler || enc.Extents.Struct != ExtentsStruct {
		t.Fatalf("unexpected extents binding %q/%q", enc.Extents.Sampler, enc.Extents.Struct)
	}
	if enc.Octree.Length != 3 || enc.Octree.Size != 11 {
		t.Fatalf("expected octree table with 3 records of 11 fields; got %d records of %d fields", enc.Octree.Length, enc.Octree.Size)
	}
	// scene + 2 triangles + 3 node aggregates
	if enc.Extents.Length != 6 || enc.Extents.Size != ExtentsFields {
		t.Fatalf("expected extents table with 6 records of %d fields; got %d records of %d fields", ExtentsFields, enc.Extents.Length, enc.Extents.Size)
	}
	if !bytes.Equal(enc.Octree.Data, f.octree.Nodes().Bytes()) || !bytes.Equal(enc.Extents.Data, f.arena.Bytes()) {
		t.Fatal("expected encoded payloads to match the arenas")
	}

	// Decode the root record from the texture
	nodes, err := enc.Octree.Arena()
	if err != nil {
		t.Fatal(err)
	}
	root := record.ViewAt(nodes, 0)
	if root.Int(nodeLeafField) != 0 {
		t.Fatal("expected encoded root to be an internal node")
	}
	if got := root.Int(nodeChildOffset + 1); got != 1 {
		t.Fatalf("expected root octant 1 to reference node 1; got %d", got)
	}
	if got := root.Int(nodeChildOffset + 0); got != 2 {
		t.Fatalf("expected root octant 0 to reference node 2; got %d", got)
	}
	if got := root.Int(nodeExtentsField); got != int32(f.octree.Root().Extents().Index()) {
		t.Fatalf("expected root extents index %d; got %d", f.octree.Root().Extents().Index(), got)
	}
}

func TestNodeRecordMatchesTree(t *testing.T) {
	f := buildTree(t, octantTriangles, Config{MaxContents: 2, MaxDepth: DefaultMaxDepth})
	enc := f.octree.Encode()
	nodes, err := enc.Octree.Arena()
	if err != nil {
		t.Fatal(err)
	}

	f.octree.OnEach(func(n Node) {
		rec := NodeRecordAt(nodes, n.Index())
		if rec.IsLeaf() != n.IsLeaf() || rec.ExtentsIndex() != n.Extents().Index() {
			t.Fatalf("[node %d] decoded record does not match the tree", n.Index())
		}
		if rec.Slots() != 2 {
			t.Fatalf("[node %d] expected 2 content slots; got %d", n.Index(), rec.Slots())
		}
		for octant := 0; octant < NumOctants; octant++ {
			if rec.Child(octant) != n.Child(octant) {
				t.Fatalf("[node %d] octant %d child mismatch", n.Index(), octant)
			}
		}
		for i := 0; i < n.ContentsLen(); i++ {
			if rec.Slot(i) != n.Content(i).Index() {
				t.Fatalf("[node %d] content %d mismatch", n.Index(), i)
			}
		}
	})
}
