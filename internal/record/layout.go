package record

import "quarrydb/internal/storage/file"

// intBytes is the on-disk width of every integer field and the slot's
// empty/in-use flag: a fixed 4 bytes, not runtime-dependent. The teacher
// sized this with unsafe.Sizeof(int(0)), which is 8 on every modern
// platform Go targets but would silently change the file format on a
// 32-bit build; a database's on-disk layout can't depend on the size of
// the host's native int.
const intBytes = 4

// Layout describes the physical placement of a schema's fields within a
// fixed-size record slot: the byte offset of each field, and the total
// slot size.
type Layout struct {
	schema   *Schema
	offsets  map[string]int
	slotSize int
}

// NewLayout computes a fresh layout for schema, used when a table is
// first created.
func NewLayout(schema *Schema) *Layout {
	offsets := make(map[string]int)
	pos := intBytes // leave room for the empty/in-use flag

	for _, fieldName := range schema.Fields() {
		offsets[fieldName] = pos
		pos += lengthInBytes(schema, fieldName)
	}

	return &Layout{schema: schema, offsets: offsets, slotSize: pos}
}

// NewLayoutWithOffsets rebuilds a layout from metadata already computed
// and stored in the catalog, avoiding recomputation on every table open.
func NewLayoutWithOffsets(schema *Schema, offsets map[string]int, slotSize int) *Layout {
	return &Layout{schema: schema, offsets: offsets, slotSize: slotSize}
}

func (l *Layout) Schema() *Schema {
	return l.schema
}

// Offset returns the byte offset of fieldName within a slot, or -1 if the
// field isn't part of this layout.
func (l *Layout) Offset(fieldName string) int {
	if off, ok := l.offsets[fieldName]; ok {
		return off
	}
	return -1
}

func (l *Layout) SlotSize() int {
	return l.slotSize
}

func lengthInBytes(schema *Schema, fieldName string) int {
	if schema.FieldType(fieldName) == Integer {
		return intBytes
	}
	tmp := file.NewPage(0)
	return tmp.MaxLength(schema.Length(fieldName))
}
