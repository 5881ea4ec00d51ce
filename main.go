package main

import (
	"os"

	"github.com/achilleasa/octrace/cmd"
	"github.com/achilleasa/octrace/log"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "octrace"
	app.Usage = "partition scenes with a seven-plane octree and pack them into GPU lookup tables"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "compile",
			Usage: "compile text scene representation into a binary compressed format",
			Description: `
Parse a scene definition from a wavefront obj file, partition its primitives
using a seven-plane octree and pack the octree, its extents and the primitive
tables into fixed-point RGBA8 lookup textures.

The compiled scene data is written to a zstd-compressed zip archive next to
each input file.`,
			ArgsUsage: "scene_file1.obj scene_file2.obj ...",
			Flags:     cmd.OctreeFlags,
			Action:    cmd.CompileScene,
		},
		{
			Name:      "info",
			Usage:     "display compiled scene table sizes and octree statistics",
			ArgsUsage: "scene_file.zip",
			Action:    cmd.ShowSceneInfo,
		},
		{
			Name:  "trace",
			Usage: "cast rays into a scene and report the nearest hits",
			Description: `
Load a wavefront (.obj) or compiled (.zip) scene and intersect it with one or
more rays sharing a common origin. Octree flags only apply to .obj scenes.`,
			ArgsUsage: "scene_file",
			Flags:     cmd.TraceFlags,
			Action:    cmd.TraceRays,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.New("octrace").Error(err)
		os.Exit(1)
	}
}
