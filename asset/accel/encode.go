package accel

import (
	"github.com/achilleasa/octrace/asset/wire"
)

// Sampler and struct names of the octree lookup tables.
const (
	OctreeSampler  = "octreeData"
	OctreeStruct   = "octree"
	ExtentsSampler = "extentsData"
	ExtentsStruct  = "extents"
)

// Encoding holds the packed octree tables.
type Encoding struct {
	Octree  wire.Texture
	Extents wire.Texture
}

// Encode packs the node and extents arenas into lookup tables. Extents kept
// in the overflow lists of max depth leaves cannot be represented by the
// fixed-width node records and are not visible to consumers of the encoding.
func (t *Octree) Encode() Encoding {
	if t.stats.Overflow > 0 {
		t.logger.Warningf(
			"%d extents exceed the %d slots of their max depth (%d) leaves and will not be visible to the traversal; consider raising MaxContents or MaxDepth",
			t.stats.Overflow, t.cfg.MaxContents, t.cfg.MaxDepth,
		)
	}

	return Encoding{
		Octree:  wire.FromArena(t.nodes, OctreeSampler, OctreeStruct),
		Extents: wire.FromArena(t.extents, ExtentsSampler, ExtentsStruct),
	}
}
