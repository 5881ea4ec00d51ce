// Package scene defines the compiled, GPU-friendly scene representation: a
// set of packed lookup tables plus the constants that a traversal must agree
// on with the host that built them.
package scene

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/achilleasa/octrace/asset/accel"
	"github.com/achilleasa/octrace/asset/wire"
	"github.com/achilleasa/octrace/types"
	"github.com/olekukonko/tablewriter"
)

// Sampler and struct names of the primitive lookup tables.
const (
	SpheresSampler   = "spheresData"
	SpheresStruct    = "spheres"
	TrianglesSampler = "trianglesData"
	TrianglesStruct  = "triangles"
)

type Scene struct {
	// Octree nodes and the extents they reference.
	Octree  wire.Texture
	Extents wire.Texture

	// Primitive tables indexed by the extents mesh field.
	Spheres   wire.Texture
	Triangles wire.Texture

	// Octree tunables used to build the node table. The node record
	// width depends on MaxContents.
	MaxContents int
	MaxDepth    int

	// The separating axes used by the extents table.
	PlaneSetNormals [accel.NumPlaneSetNormals]types.Vec3

	// Octree shape at the time of compilation.
	OctreeStats accel.Stats
}

// Validate checks that all tables agree with the layouts expected by the
// traversal.
func (sc *Scene) Validate() error {
	expFields := []struct {
		tex    *wire.Texture
		fields int
	}{
		{&sc.Octree, accel.Config{MaxContents: sc.MaxContents}.NodeFields()},
		{&sc.Extents, accel.ExtentsFields},
		{&sc.Spheres, SphereFields},
		{&sc.Triangles, TriangleFields},
	}

	for _, exp := range expFields {
		if err := exp.tex.Validate(); err != nil {
			return err
		}
		if exp.tex.Size != exp.fields {
			return fmt.Errorf("scene: table %q has %d fields per record; expected %d", exp.tex.Sampler, exp.tex.Size, exp.fields)
		}
	}

	if sc.Octree.Length == 0 {
		return fmt.Errorf("scene: octree table is empty")
	}
	if sc.PlaneSetNormals != accel.PlaneSetNormals {
		return fmt.Errorf("scene: plane-set normals do not match the ones used by this build")
	}
	return nil
}

// Build a tabular representation of scene statistics.
func (sc *Scene) Stats() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Table", "Sampler", "Records", "Fields", "Size"})
	for _, tex := range []*wire.Texture{&sc.Octree, &sc.Extents, &sc.Spheres, &sc.Triangles} {
		table.Append([]string{
			tex.Struct,
			tex.Sampler,
			fmt.Sprint(tex.Length),
			fmt.Sprint(tex.Size),
			fmtSize(tex.Data),
		})
	}
	table.Append([]string{" ", " ", " ", " ", " "})
	table.Append([]string{"Octree", "---", fmt.Sprintf("max contents: %d", sc.MaxContents), fmt.Sprintf("max depth: %d", sc.MaxDepth), ""})
	table.Append([]string{"", "Nodes", fmt.Sprint(sc.OctreeStats.Nodes), "", ""})
	table.Append([]string{"", "Leaves", fmt.Sprint(sc.OctreeStats.Leaves), "", ""})
	table.Append([]string{"", "Depth", fmt.Sprint(sc.OctreeStats.MaxDepth), "", ""})
	table.Append([]string{"", "Contents", fmt.Sprint(sc.OctreeStats.Contents), "", ""})
	table.Append([]string{"", "Overflow", fmt.Sprint(sc.OctreeStats.Overflow), "", ""})
	table.SetFooter([]string{"Total", " ", " ", " ", strings.TrimLeft(fmtSize(sc.Octree.Data, sc.Extents.Data, sc.Spheres.Data, sc.Triangles.Data), " ")})

	table.Render()
	return buf.String()
}

// Sum the total space used by a set of byte slices and return back a
// formatted value with the appropriate byte/kb/mb unit.
func fmtSize(items ...[]byte) string {
	var totalBytes float32
	for _, item := range items {
		totalBytes += float32(len(item))
	}

	if totalBytes < 1e3 {
		return fmt.Sprintf("%3d bytes", int(totalBytes))
	} else if totalBytes < 1e6 {
		return fmt.Sprintf("%3.1f kb", totalBytes/1e3)
	}
	return fmt.Sprintf("%5.1f mb", totalBytes/1e6)
}
