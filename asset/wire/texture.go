// Package wire packs record arenas into byte buffers that are uploaded as
// RGBA8 data textures. Every 4-byte record field maps to exactly one texel,
// so a consumer locates field f of record i at texel i*Size + f.
package wire

import (
	"fmt"

	"github.com/achilleasa/octrace/asset/record"
)

// Texture is a packed record table together with the metadata a consumer
// needs to address it.
type Texture struct {
	// Packed record data.
	Data []byte

	// Number of records.
	Length int

	// Number of 4-byte fields (texels) per record.
	Size int

	// Texture dimensions in texels.
	Width  int
	Height int

	// The sampler and struct uniform names on the consuming side.
	Sampler string
	Struct  string
}

// Pack the contents of an arena into a texture. The arena data is copied so
// the texture remains valid if the arena keeps growing.
func FromArena(arena *record.Arena, sampler, structName string) Texture {
	data := make([]byte, len(arena.Bytes()))
	copy(data, arena.Bytes())

	return Texture{
		Data:    data,
		Length:  arena.Len(),
		Size:    arena.Fields(),
		Width:   arena.Len() * arena.Fields(),
		Height:  1,
		Sampler: sampler,
		Struct:  structName,
	}
}

// Validate checks that the texture metadata agrees with its payload.
func (t *Texture) Validate() error {
	if t.Size <= 0 {
		return fmt.Errorf("wire: texture %q has invalid record size %d", t.Sampler, t.Size)
	}
	if t.Length < 0 {
		return fmt.Errorf("wire: texture %q has invalid record count %d", t.Sampler, t.Length)
	}
	if exp := t.Length * t.Size * record.CellSize; len(t.Data) != exp {
		return fmt.Errorf("wire: texture %q payload is %d bytes; expected %d", t.Sampler, len(t.Data), exp)
	}
	if t.Width*t.Height != t.Length*t.Size {
		return fmt.Errorf("wire: texture %q dimensions %dx%d do not fit %d texels", t.Sampler, t.Width, t.Height, t.Length*t.Size)
	}
	return nil
}

// Arena reconstructs a record arena over the texture payload so it can be
// read back through record views. The arena aliases the texture data.
func (t *Texture) Arena() (*record.Arena, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return record.FromBytes(t.Size, t.Data)
}

// Texel returns the 4 bytes stored at a texel offset.
func (t *Texture) Texel(offset int) [record.CellSize]byte {
	var out [record.CellSize]byte
	copy(out[:], t.Data[offset*record.CellSize:])
	return out
}
