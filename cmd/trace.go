package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/achilleasa/octrace/asset/scene/reader"
	"github.com/achilleasa/octrace/tracer"
	"github.com/achilleasa/octrace/types"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Flags for the trace command.
var TraceFlags = append([]cli.Flag{
	cli.StringFlag{
		Name:  "origin",
		Value: "0,0,0",
		Usage: "ray origin as x,y,z",
	},
	cli.StringSliceFlag{
		Name:  "dir, d",
		Value: &cli.StringSlice{},
		Usage: "ray direction as x,y,z; may be specified multiple times",
	},
	cli.IntFlag{
		Name:  "queue-capacity",
		Usage: "traversal priority queue capacity (0 selects the octree node count)",
	},
	cli.IntFlag{
		Name:  "max-iterations",
		Usage: "maximum number of nodes visited per ray (0 selects the octree node count)",
	},
}, OctreeFlags...)

// Cast one or more rays from a common origin and display the nearest hits.
func TraceRays(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	origin, err := parseVec3(ctx.String("origin"))
	if err != nil {
		return fmt.Errorf("invalid origin: %s", err.Error())
	}

	dirArgs := ctx.StringSlice("dir")
	if len(dirArgs) == 0 {
		return errors.New("at least one ray direction must be specified")
	}
	rays := make([]tracer.Ray, len(dirArgs))
	for index, dirArg := range dirArgs {
		dir, err := parseVec3(dirArg)
		if err != nil {
			return fmt.Errorf("invalid direction %q: %s", dirArg, err.Error())
		}
		rays[index] = tracer.Ray{Origin: origin, Dir: dir}
	}

	cfg := octreeConfig(ctx)
	if err = cfg.Validate(); err != nil {
		return err
	}

	sc, err := reader.ReadScene(ctx.Args().First(), cfg)
	if err != nil {
		return err
	}

	opts := tracer.Options{
		QueueCapacity: ctx.Int("queue-capacity"),
		MaxIterations: ctx.Int("max-iterations"),
	}
	results, err := tracer.TraceBatch(sc, opts, rays, runtime.NumCPU())
	if err != nil {
		return err
	}

	logger.Noticef("trace results\n%s", formatResults(rays, results))
	return nil
}

// Render trace results as a table.
func formatResults(rays []tracer.Ray, results []tracer.Result) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Direction", "Hit", "Primitive", "Material", "Distance", "Point", "Normal", "Visited"})
	hits := 0
	for index, res := range results {
		if !res.Ok {
			table.Append([]string{fmtVec3(rays[index].Dir), "miss", "", "", "", "", "", ""})
			continue
		}
		hits++
		table.Append([]string{
			fmtVec3(rays[index].Dir),
			"yes",
			fmt.Sprintf("%s %d", res.Hit.Type, res.Hit.Primitive),
			fmt.Sprint(res.Hit.Material),
			fmt.Sprintf("%.4f", res.Hit.Distance),
			fmtVec3(res.Hit.Point),
			fmtVec3(res.Hit.Normal),
			fmt.Sprint(res.Hit.Visited),
		})
	}
	table.SetFooter([]string{"", "", "", "", "", "", "HITS", fmt.Sprintf("%d/%d", hits, len(results))})

	table.Render()
	return buf.String()
}

func fmtVec3(v types.Vec3) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v[0], v[1], v[2])
}

// Parse a comma-separated x,y,z triplet.
func parseVec3(arg string) (types.Vec3, error) {
	tokens := strings.Split(arg, ",")
	if len(tokens) != 3 {
		return types.Vec3{}, fmt.Errorf("expected 3 comma-separated components; got %d", len(tokens))
	}

	var v types.Vec3
	for index, token := range tokens {
		coord, err := strconv.ParseFloat(strings.TrimSpace(token), 32)
		if err != nil {
			return types.Vec3{}, err
		}
		v[index] = float32(coord)
	}
	return v, nil
}
