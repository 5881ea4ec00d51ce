package writer

import (
	"archive/zip"
	"encoding/gob"
	"os"
	"time"

	"github.com/achilleasa/octrace/asset/scene"
	"github.com/achilleasa/octrace/log"
	"github.com/klauspost/compress/zstd"
)

const (
	dataFile = "scene.bin"
)

type zipSceneWriter struct {
	logger    log.Logger
	sceneFile string
}

// Create a new zip scene writer
func newZipSceneWriter(sceneFile string) *zipSceneWriter {
	return &zipSceneWriter{
		logger:    log.New("zip writer"),
		sceneFile: sceneFile,
	}
}

// Write scene definition to zip file.
func (w *zipSceneWriter) Write(sc *scene.Scene) error {
	w.logger.Noticef("writing compressed scene to %s", w.sceneFile)
	start := time.Now()

	if err := sc.Validate(); err != nil {
		return err
	}

	zipFile, err := os.Create(w.sceneFile)
	if err != nil {
		return err
	}
	defer zipFile.Close()

	zw := zip.NewWriter(zipFile)
	zw.RegisterCompressor(zstd.ZipMethodWinZip, zstd.ZipCompressor())

	cw, err := zw.CreateHeader(&zip.FileHeader{
		Name:   dataFile,
		Method: zstd.ZipMethodWinZip,
	})
	if err != nil {
		zw.Close()
		return err
	}

	encoder := gob.NewEncoder(cw)
	if err = encoder.Encode(sc); err != nil {
		zw.Close()
		return err
	}

	if err = zw.Close(); err != nil {
		return err
	}

	w.logger.Noticef("compressed scene in %d ms", time.Since(start).Nanoseconds()/1000000)
	return nil
}
