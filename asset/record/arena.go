// Package record implements a flat, append-only store for fixed-width records
// made of 4-byte cells. Records are addressed by their ordinal Index instead
// of pointers so that the exact same layout can be uploaded to and walked by
// a GPU shader.
package record

import (
	"fmt"

	"github.com/achilleasa/octrace/asset/codec"
)

// Index identifies a record by its position inside an arena.
type Index int32

// Nil marks an absent record reference.
const Nil Index = -1

// CellSize is the number of bytes used by a single record field.
const CellSize = codec.Size

// Arena is an append-only byte buffer holding records of a single width.
// Records never move once allocated and cannot be deleted.
//
// Arena is not safe for concurrent use.
type Arena struct {
	fields int
	data   []byte
}

// Create a new empty arena for records with the given number of fields.
func NewArena(fields int) *Arena {
	if fields <= 0 {
		panic(fmt.Sprintf("record: invalid record width %d", fields))
	}
	return &Arena{fields: fields}
}

// Wrap an existing byte buffer (e.g. a decoded GPU table) into an arena. The
// buffer length must be a multiple of the record size.
func FromBytes(fields int, data []byte) (*Arena, error) {
	if fields <= 0 {
		return nil, fmt.Errorf("record: invalid record width %d", fields)
	}
	recordSize := fields * CellSize
	if len(data)%recordSize != 0 {
		return nil, fmt.Errorf("record: buffer length %d is not a multiple of the record size %d", len(data), recordSize)
	}
	return &Arena{fields: fields, data: data}, nil
}

// Alloc appends a zero-filled record and returns its index.
func (a *Arena) Alloc() Index {
	index := Index(a.Len())
	a.data = append(a.data, make([]byte, a.fields*CellSize)...)
	return index
}

// Fields returns the number of fields per record.
func (a *Arena) Fields() int {
	return a.fields
}

// Len returns the number of allocated records.
func (a *Arena) Len() int {
	return len(a.data) / (a.fields * CellSize)
}

// Bytes exposes the underlying buffer. The slice aliases the arena storage
// and is invalidated by the next Alloc.
func (a *Arena) Bytes() []byte {
	return a.data
}

// Offset returns the byte offset of a record field.
func (a *Arena) Offset(index Index, field int) int {
	return (int(index)*a.fields + field) * CellSize
}
