package compiler

import (
	"fmt"
	"time"

	"github.com/achilleasa/octrace/asset/accel"
	"github.com/achilleasa/octrace/asset/compiler/input"
	"github.com/achilleasa/octrace/asset/record"
	"github.com/achilleasa/octrace/asset/scene"
	"github.com/achilleasa/octrace/asset/wire"
	"github.com/achilleasa/octrace/log"
)

type sceneCompiler struct {
	parsedScene    *input.Scene
	optimizedScene *scene.Scene
	logger         log.Logger
	cfg            accel.Config

	// Record arenas for the compiled tables.
	extents   *record.Arena
	spheres   *record.Arena
	triangles *record.Arena

	// The extents bounding the entire scene. It is always the first
	// record of the extents arena.
	sceneExtents accel.Extents

	// One extents record per primitive; spheres first, then triangles.
	primExtents []accel.Extents
}

// Compile a scene representation into a set of GPU-friendly lookup tables
// partitioned by a seven-plane octree.
func Compile(parsedScene *input.Scene, cfg accel.Config) (optimizedScene *scene.Scene, err error) {
	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	compiler := &sceneCompiler{
		parsedScene: parsedScene,
		optimizedScene: &scene.Scene{
			MaxContents:     cfg.MaxContents,
			MaxDepth:        cfg.MaxDepth,
			PlaneSetNormals: accel.PlaneSetNormals,
		},
		logger:    log.New("scene compiler"),
		cfg:       cfg,
		extents:   accel.NewExtentsArena(),
		spheres:   record.NewArena(scene.SphereFields),
		triangles: record.NewArena(scene.TriangleFields),
	}

	// Record layout mismatches panic; report them as compilation errors.
	defer func() {
		if r := recover(); r != nil {
			rangeErr, ok := r.(*record.RangeError)
			if !ok {
				panic(r)
			}
			optimizedScene = nil
			err = fmt.Errorf("compiler: %s", rangeErr.Error())
		}
	}()

	start := time.Now()
	compiler.logger.Noticef("compiling scene")

	if err = compiler.validateInput(); err != nil {
		return nil, err
	}

	compiler.boundPrimitives()

	if err = compiler.partitionGeometry(); err != nil {
		return nil, err
	}

	compiler.logger.Noticef("compiled scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return compiler.optimizedScene, nil
}

// Check primitive parameters and material references.
func (sc *sceneCompiler) validateInput() error {
	if sc.parsedScene == nil {
		return fmt.Errorf("compiler: nil input scene")
	}

	checkMaterial := func(kind string, index, matIndex int) error {
		if matIndex < 0 || (len(sc.parsedScene.Materials) != 0 && matIndex >= len(sc.parsedScene.Materials)) {
			return fmt.Errorf("compiler: %s %d references unknown material %d", kind, index, matIndex)
		}
		return nil
	}

	for index, s := range sc.parsedScene.Spheres {
		if s == nil {
			return fmt.Errorf("compiler: sphere %d is nil", index)
		}
		if s.Radius < 0 {
			return fmt.Errorf("compiler: sphere %d has negative radius %v", index, s.Radius)
		}
		if err := checkMaterial("sphere", index, s.MaterialIndex); err != nil {
			return err
		}
	}
	for index, t := range sc.parsedScene.Triangles {
		if t == nil {
			return fmt.Errorf("compiler: triangle %d is nil", index)
		}
		if err := checkMaterial("triangle", index, t.MaterialIndex); err != nil {
			return err
		}
	}

	if sc.parsedScene.PrimitiveCount() == 0 {
		sc.logger.Warning("the scene contains no primitives; every ray will miss")
		return nil
	}

	bbox := sc.parsedScene.BBox()
	sc.logger.Infof("scene bounds: %v - %v", bbox[0], bbox[1])
	return nil
}

// Allocate the primitive records and their bounding extents and grow the
// scene extents to enclose them.
func (sc *sceneCompiler) boundPrimitives() {
	start := time.Now()
	sc.logger.Infof("bounding %d spheres and %d triangles", len(sc.parsedScene.Spheres), len(sc.parsedScene.Triangles))

	sc.sceneExtents = accel.NewExtents(sc.extents)
	sc.primExtents = make([]accel.Extents, 0, sc.parsedScene.PrimitiveCount())

	degenerate := 0
	for _, s := range sc.parsedScene.Spheres {
		if s.Radius == 0 {
			degenerate++
		}
		rec := scene.NewSphere(sc.spheres, s.Centre, s.Radius, int32(s.MaterialIndex))
		e := accel.SphereExtents(sc.extents, s.Centre, s.Radius, int32(rec.Index()))
		sc.sceneExtents.ExtendBy(e)
		sc.primExtents = append(sc.primExtents, e)
	}
	if degenerate > 0 {
		sc.logger.Warningf("%d spheres have zero radius", degenerate)
	}

	degenerate = 0
	for _, t := range sc.parsedScene.Triangles {
		normal := t.FaceNormal()
		if normal.Len() == 0 {
			degenerate++
		}
		rec := scene.NewTriangle(sc.triangles, t.Vertices, normal, int32(t.MaterialIndex))
		e := accel.TriangleExtents(sc.extents, t.Vertices, int32(rec.Index()))
		sc.sceneExtents.ExtendBy(e)
		sc.primExtents = append(sc.primExtents, e)
	}
	if degenerate > 0 {
		sc.logger.Warningf("%d triangles have zero area", degenerate)
	}

	sc.logger.Infof("bounded primitives in %d ms", time.Since(start).Nanoseconds()/1e6)
}

// Insert all primitive extents into an octree, build the node aggregates
// and pack the lookup tables.
func (sc *sceneCompiler) partitionGeometry() error {
	start := time.Now()
	sc.logger.Noticef("partitioning geometry (max contents: %d, max depth: %d)", sc.cfg.MaxContents, sc.cfg.MaxDepth)

	octree, err := accel.New(sc.sceneExtents, sc.extents, nil, sc.cfg)
	if err != nil {
		return err
	}
	for _, e := range sc.primExtents {
		octree.Insert(e)
	}
	octree.Build()

	enc := octree.Encode()
	sc.optimizedScene.Octree = enc.Octree
	sc.optimizedScene.Extents = enc.Extents
	sc.optimizedScene.Spheres = wire.FromArena(sc.spheres, scene.SpheresSampler, scene.SpheresStruct)
	sc.optimizedScene.Triangles = wire.FromArena(sc.triangles, scene.TrianglesSampler, scene.TrianglesStruct)
	sc.optimizedScene.OctreeStats = octree.Stats()

	stats := octree.Stats()
	sc.logger.Noticef(
		"partitioned geometry in %d ms (nodes: %d, leaves: %d, depth: %d)",
		time.Since(start).Nanoseconds()/1e6, stats.Nodes, stats.Leaves, stats.MaxDepth,
	)
	return nil
}
