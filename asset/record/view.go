package record

import (
	"fmt"

	"github.com/achilleasa/octrace/asset/codec"
	"github.com/achilleasa/octrace/types"
)

// RangeError is raised (via panic) when a view field accessor is called with
// a field index outside the record layout. It always signals a mismatch
// between a record layout and the code accessing it.
type RangeError struct {
	Field  int
	Fields int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("record: field %d out of range [0, %d)", e.Field, e.Fields)
}

// View provides typed access to the fields of a single record. Views are
// plain handles: any number of them may point at the same record and writes
// through one are visible to all.
type View struct {
	arena *Arena
	index Index
}

// Allocate a new record and return a view for it.
func NewView(a *Arena) View {
	return View{arena: a, index: a.Alloc()}
}

// Wrap an existing record. The caller must make sure that index refers to an
// allocated record.
func ViewAt(a *Arena, index Index) View {
	return View{arena: a, index: index}
}

// Index returns the record index.
func (v View) Index() Index {
	return v.index
}

// Arena returns the arena backing this view.
func (v View) Arena() *Arena {
	return v.arena
}

// Fields returns the number of fields in the record.
func (v View) Fields() int {
	return v.arena.fields
}

func (v View) cell(field int) []byte {
	if field < 0 || field >= v.arena.fields {
		panic(&RangeError{Field: field, Fields: v.arena.fields})
	}
	offset := v.arena.Offset(v.index, field)
	return v.arena.data[offset : offset+CellSize]
}

// Int reads a signed integer field.
func (v View) Int(field int) int32 {
	return int32(codec.Get(v.cell(field), false))
}

// SetInt writes a signed integer field.
func (v View) SetInt(field int, value int32) {
	codec.Put(v.cell(field), int64(value), false)
}

// Uint reads an unsigned integer field.
func (v View) Uint(field int) uint32 {
	return uint32(codec.Get(v.cell(field), true))
}

// SetUint writes an unsigned integer field.
func (v View) SetUint(field int, value uint32) {
	codec.Put(v.cell(field), int64(value), true)
}

// Float reads a fixed-point field.
func (v View) Float(field int) float64 {
	return codec.FromFixed(codec.Get(v.cell(field), false))
}

// SetFloat writes a fixed-point field. Values outside the representable
// range saturate.
func (v View) SetFloat(field int, value float64) {
	codec.Put(v.cell(field), codec.ToFixed(value), false)
}

// Vec3 reads 3 consecutive fixed-point fields starting at field.
func (v View) Vec3(field int) types.Vec3 {
	return types.Vec3{
		float32(v.Float(field)),
		float32(v.Float(field + 1)),
		float32(v.Float(field + 2)),
	}
}

// SetVec3 writes 3 consecutive fixed-point fields starting at field.
func (v View) SetVec3(field int, value types.Vec3) {
	v.SetFloat(field, float64(value[0]))
	v.SetFloat(field+1, float64(value[1]))
	v.SetFloat(field+2, float64(value[2]))
}
