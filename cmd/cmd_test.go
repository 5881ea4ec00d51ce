package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/achilleasa/octrace/asset/accel"
	"github.com/achilleasa/octrace/asset/scene/reader"
	"github.com/achilleasa/octrace/tracer"
	"github.com/achilleasa/octrace/types"
)

func TestParseVec3(t *testing.T) {
	specs := []struct {
		arg    string
		exp    types.Vec3
		expErr bool
	}{
		{"0,0,-1", types.Vec3{0, 0, -1}, false},
		{" 1.5, -2 ,3e1", types.Vec3{1.5, -2, 30}, false},
		{"1,2", types.Vec3{}, true},
		{"1,2,3,4", types.Vec3{}, true},
		{"1,y,3", types.Vec3{}, true},
	}

	for index, spec := range specs {
		v, err := parseVec3(spec.arg)
		if spec.expErr {
			if err == nil {
				t.Errorf("[spec %d] expected an error", index)
			}
			continue
		}
		if err != nil {
			t.Errorf("[spec %d] unexpected error: %v", index, err)
			continue
		}
		if v != spec.exp {
			t.Errorf("[spec %d] expected %v; got %v", index, spec.exp, v)
		}
	}
}

func TestCompileFile(t *testing.T) {
	dir := t.TempDir()
	sceneFile := filepath.Join(dir, "scene.obj")
	payload := "v -1 -1 -5\nv 1 -1 -5\nv 0 1 -5\nf 1 2 3\nsphere 0 0 -10 1\n"
	if err := os.WriteFile(sceneFile, []byte(payload), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := accel.Config{MaxContents: 1, MaxDepth: 4}
	zipFile, err := compileFile(sceneFile, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if exp := filepath.Join(dir, "scene.zip"); zipFile != exp {
		t.Fatalf("expected bundle path %q; got %q", exp, zipFile)
	}

	sc, err := reader.ReadScene(zipFile, accel.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if sc.MaxContents != cfg.MaxContents || sc.MaxDepth != cfg.MaxDepth {
		t.Fatalf("expected compiled config %+v; got %d/%d", cfg, sc.MaxContents, sc.MaxDepth)
	}

	rays := []tracer.Ray{
		{Origin: types.Vec3{0, -0.5, 0}, Dir: types.Vec3{0, 0, -1}},
		{Origin: types.Vec3{0, -0.5, 0}, Dir: types.Vec3{0, 0, 1}},
	}
	results, err := tracer.TraceBatch(sc, tracer.Options{}, rays, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !results[0].Ok || results[0].Hit.Type != accel.TrianglePrimitive {
		t.Fatalf("expected first ray to hit the triangle; got %+v", results[0])
	}
	if results[1].Ok {
		t.Fatalf("expected second ray to miss; got %+v", results[1])
	}

	table := formatResults(rays, results)
	for _, exp := range []string{"triangle 0", "miss", "1/2"} {
		if !strings.Contains(table, exp) {
			t.Errorf("expected results table to contain %q\n%s", exp, table)
		}
	}
}
