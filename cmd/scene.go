package cmd

import (
	"errors"
	"strings"

	"github.com/achilleasa/octrace/asset/accel"
	"github.com/achilleasa/octrace/asset/scene/reader"
	"github.com/achilleasa/octrace/asset/scene/writer"
	"github.com/urfave/cli"
)

// Build the octree configuration from the command flags.
func octreeConfig(ctx *cli.Context) accel.Config {
	return accel.Config{
		MaxContents: ctx.Int("max-contents"),
		MaxDepth:    ctx.Int("max-depth"),
	}
}

// Octree flags shared by commands that compile wavefront scenes.
var OctreeFlags = []cli.Flag{
	cli.IntFlag{
		Name:  "max-contents",
		Value: accel.DefaultMaxContents,
		Usage: "number of primitives a leaf holds before it is split",
	},
	cli.IntFlag{
		Name:  "max-depth",
		Value: accel.DefaultMaxDepth,
		Usage: "maximum octree depth",
	},
}

// Compile scene to binary format.
func CompileScene(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg := octreeConfig(ctx)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if ctx.NArg() == 0 {
		return errors.New("missing scene file argument")
	}

	for idx := 0; idx < ctx.NArg(); idx++ {
		sceneFile := ctx.Args().Get(idx)
		if !strings.HasSuffix(sceneFile, ".obj") {
			logger.Warningf("skipping unsupported file %s", sceneFile)
			continue
		}

		if _, err := compileFile(sceneFile, cfg); err != nil {
			return err
		}
	}

	return nil
}

// Compile a single wavefront scene and write it next to the source file.
// Returns the path of the written bundle.
func compileFile(sceneFile string, cfg accel.Config) (string, error) {
	logger.Noticef("parsing and compiling scene: %s", sceneFile)
	sc, err := reader.ReadScene(sceneFile, cfg)
	if err != nil {
		return "", err
	}

	// Display compiled scene info
	logger.Noticef("scene information:\n%s", sc.Stats())

	zipFile := strings.TrimSuffix(sceneFile, ".obj") + ".zip"
	if err = writer.WriteScene(sc, zipFile); err != nil {
		return "", err
	}
	return zipFile, nil
}

// Display compiled scene info.
func ShowSceneInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing compiled scene zip file")
	}

	sceneFile := ctx.Args().First()
	if !strings.HasSuffix(sceneFile, ".zip") {
		return errors.New("only compiled scene files with a .zip extension are supported")
	}

	sc, err := reader.ReadScene(sceneFile, accel.DefaultConfig())
	if err != nil {
		return err
	}

	// Display compiled scene info
	logger.Noticef("scene information:\n%s", sc.Stats())

	return nil
}
