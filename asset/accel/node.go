package accel

import (
	"github.com/achilleasa/octrace/asset/record"
)

// Octree node record layout:
//
//	[0]     1 if the node is a leaf, 0 otherwise
//	[1..8]  child node indices per octant (record.Nil if absent)
//	[9]     index of the node's aggregate Extents record
//	[10..]  indices of the Extents held by a leaf, record.Nil terminated
const (
	nodeLeafField      = 0
	nodeChildOffset    = 1
	nodeExtentsField   = 9
	nodeContentsOffset = 10

	// The number of children of an internal node.
	NumOctants = 8
)

// NodeRecord provides read access to an encoded octree node. It only depends
// on the node arena so consumers of an Encoding can walk the tree using the
// same layout the octree was built with.
type NodeRecord struct {
	view record.View
}

// Wrap a node record. The number of content slots is derived from the arena
// record width.
func NodeRecordAt(arena *record.Arena, index record.Index) NodeRecord {
	return NodeRecord{view: record.ViewAt(arena, index)}
}

// Index returns the node record index.
func (n NodeRecord) Index() record.Index {
	return n.view.Index()
}

// IsLeaf returns true if the node is a leaf.
func (n NodeRecord) IsLeaf() bool {
	return n.view.Int(nodeLeafField) == 1
}

// Child returns the node index for an octant or record.Nil.
func (n NodeRecord) Child(octant int) record.Index {
	if octant < 0 || octant >= NumOctants {
		panic(&record.RangeError{Field: nodeChildOffset + octant, Fields: nodeChildOffset + NumOctants})
	}
	return record.Index(n.view.Int(nodeChildOffset + octant))
}

// ExtentsIndex returns the index of the node aggregate extents.
func (n NodeRecord) ExtentsIndex() record.Index {
	return record.Index(n.view.Int(nodeExtentsField))
}

// Slots returns the number of content slots in the record.
func (n NodeRecord) Slots() int {
	return n.view.Fields() - nodeContentsOffset
}

// Slot returns the extents index stored in a content slot. Used slots are
// followed by record.Nil.
func (n NodeRecord) Slot(i int) record.Index {
	if i < 0 || i >= n.Slots() {
		panic(&record.RangeError{Field: nodeContentsOffset + i, Fields: n.view.Fields()})
	}
	return record.Index(n.view.Int(nodeContentsOffset + i))
}

// Node is an octree node together with the host-side state of its tree.
type Node struct {
	NodeRecord
	tree *Octree
}

// Allocate a new empty leaf together with its aggregate Extents record.
func newNode(tree *Octree) Node {
	n := Node{NodeRecord: NodeRecord{view: record.NewView(tree.nodes)}, tree: tree}
	n.view.SetInt(nodeLeafField, 1)
	for octant := 0; octant < NumOctants; octant++ {
		n.view.SetInt(nodeChildOffset+octant, int32(record.Nil))
	}
	n.view.SetInt(nodeExtentsField, int32(NewExtents(tree.extents).Index()))
	for slot := 0; slot < tree.cfg.MaxContents; slot++ {
		n.view.SetInt(nodeContentsOffset+slot, int32(record.Nil))
	}

	tree.stats.Nodes++
	tree.stats.Leaves++
	return n
}

func (n Node) setLeaf(isLeaf bool) {
	var flag int32
	if isLeaf {
		flag = 1
	}
	n.view.SetInt(nodeLeafField, flag)
}

func (n Node) setChild(octant int, child record.Index) {
	if octant < 0 || octant >= NumOctants {
		panic(&record.RangeError{Field: nodeChildOffset + octant, Fields: nodeChildOffset + NumOctants})
	}
	n.view.SetInt(nodeChildOffset+octant, int32(child))
}

// Extents returns the aggregate bounds of the node. They are only final after
// Octree.Build has been called.
func (n Node) Extents() Extents {
	return ExtentsAt(n.tree.extents, n.ExtentsIndex())
}

// ContentsLen returns the number of Extents held by the node including any
// overflow entries of a leaf at the maximum depth.
func (n Node) ContentsLen() int {
	return n.slotsUsed() + len(n.tree.overflow[n.Index()])
}

// Content returns the i-th Extents held by the node.
func (n Node) Content(i int) Extents {
	if used := n.slotsUsed(); i >= used {
		return ExtentsAt(n.tree.extents, n.tree.overflow[n.Index()][i-used])
	}
	return ExtentsAt(n.tree.extents, n.Slot(i))
}

// EachContent invokes fn for every Extents held by the node.
func (n Node) EachContent(fn func(Extents)) {
	for i, count := 0, n.ContentsLen(); i < count; i++ {
		fn(n.Content(i))
	}
}

// EachChild invokes fn for every present child in ascending octant order.
func (n Node) EachChild(fn func(octant int, child Node)) {
	for octant := 0; octant < NumOctants; octant++ {
		if index := n.Child(octant); index != record.Nil {
			fn(octant, n.tree.nodeAt(index))
		}
	}
}

// The list stored in the record is record.Nil terminated.
func (n Node) slotsUsed() int {
	for i := 0; i < n.tree.cfg.MaxContents; i++ {
		if n.Slot(i) == record.Nil {
			return i
		}
	}
	return n.tree.cfg.MaxContents
}

// Append an Extents to the node contents. Once the record slots are full the
// entry is kept in the octree overflow list.
func (n Node) push(e Extents) {
	if used := n.slotsUsed(); used < n.tree.cfg.MaxContents {
		n.view.SetInt(nodeContentsOffset+used, int32(e.Index()))
	} else {
		n.tree.overflow[n.Index()] = append(n.tree.overflow[n.Index()], e.Index())
		n.tree.stats.Overflow++
	}
	n.tree.stats.Contents++
}

// Remove and return all node contents in last-in first-out order.
func (n Node) drain() []Extents {
	drained := make([]Extents, 0, n.ContentsLen())

	overflow := n.tree.overflow[n.Index()]
	for i := len(overflow) - 1; i >= 0; i-- {
		drained = append(drained, ExtentsAt(n.tree.extents, overflow[i]))
	}
	if len(overflow) > 0 {
		n.tree.stats.Overflow -= len(overflow)
		delete(n.tree.overflow, n.Index())
	}

	for i := n.slotsUsed() - 1; i >= 0; i-- {
		drained = append(drained, ExtentsAt(n.tree.extents, n.Slot(i)))
		n.view.SetInt(nodeContentsOffset+i, int32(record.Nil))
	}

	n.tree.stats.Contents -= len(drained)
	return drained
}
