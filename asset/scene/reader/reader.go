package reader

import (
	"fmt"
	"strings"

	"github.com/achilleasa/octrace/asset"
	"github.com/achilleasa/octrace/asset/accel"
	"github.com/achilleasa/octrace/asset/scene"
)

// The Reader interface is implemented by all scene readers.
type Reader interface {
	// Read scene definition from a resource.
	Read(*asset.Resource) (*scene.Scene, error)
}

// Read scene from file. Wavefront (.obj) scenes are compiled using the
// supplied octree configuration; compiled (.zip) scenes carry their own.
func ReadScene(filename string, cfg accel.Config) (*scene.Scene, error) {
	var reader Reader
	switch {
	case strings.HasSuffix(filename, ".obj"):
		reader = newWavefrontReader(cfg)
	case strings.HasSuffix(filename, ".zip"):
		reader = newZipSceneReader()
	default:
		return nil, fmt.Errorf("readScene: unsupported file format for %q", filename)
	}

	res, err := asset.Open(filename, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return reader.Read(res)
}
