// Package file implements the lowest layer of the engine: fixed-size pages
// backed by a byte slice, block identifiers, and the FileManager that moves
// whole blocks between those pages and disk.
package file

import (
	"encoding/binary"
	"unicode/utf8"
)

// Page is a block-sized byte buffer with typed accessors. Every other
// on-disk structure (log pages, record pages, B-tree pages) is built on top
// of a Page; Page itself knows nothing about what it holds.
//
// Integers are always written as 4-byte big-endian values, independent of
// the host's native int width — the on-disk format must not depend on
// whether the engine runs on a 32- or 64-bit machine.
type Page struct {
	contents []byte
}

// NewPage allocates a zeroed page of the given block size.
func NewPage(blockSize int) *Page {
	return &Page{contents: make([]byte, blockSize)}
}

// newPageFromBytes wraps an existing byte slice as a page, without copying.
// Used by the log manager, which keeps its own in-memory page around for
// appends between flushes.
func newPageFromBytes(b []byte) *Page {
	return &Page{contents: b}
}

// NewPageFromBytes is the exported form, used by packages (log, record,
// buffer) that hand the file manager their own backing array.
func NewPageFromBytes(b []byte) *Page {
	return newPageFromBytes(b)
}

// GetInt reads a 4-byte big-endian signed integer at offset.
func (p *Page) GetInt(offset int) int32 {
	return int32(binary.BigEndian.Uint32(p.contents[offset : offset+4]))
}

// GetBytes reads a length-prefixed byte slice at offset: a 4-byte length
// followed by that many bytes.
func (p *Page) GetBytes(offset int) []byte {
	length := int(binary.BigEndian.Uint32(p.contents[offset : offset+4]))
	b := make([]byte, length)
	copy(b, p.contents[offset+4:offset+4+length])
	return b
}

// GetString reads a length-prefixed UTF-8 string at offset.
func (p *Page) GetString(offset int) string {
	return string(p.GetBytes(offset))
}

// SetInt writes n as a 4-byte big-endian signed integer at offset.
func (p *Page) SetInt(offset int, n int32) {
	binary.BigEndian.PutUint32(p.contents[offset:offset+4], uint32(n))
}

// SetBytes writes b as a length-prefixed byte slice at offset.
func (p *Page) SetBytes(offset int, b []byte) {
	binary.BigEndian.PutUint32(p.contents[offset:offset+4], uint32(len(b)))
	copy(p.contents[offset+4:offset+4+len(b)], b)
}

// SetString writes s as a length-prefixed UTF-8 string at offset.
func (p *Page) SetString(offset int, s string) {
	p.SetBytes(offset, []byte(s))
}

// MaxLength returns the worst-case number of bytes a string of strlen
// characters could occupy once encoded: 4 bytes for the length prefix plus
// up to utf8.UTFMax bytes per character. Schemas use this, not the actual
// encoded length, to size fixed-width record fields so that any string up
// to the declared character count fits regardless of which characters it
// contains.
func (p *Page) MaxLength(strlen int) int {
	return 4 + strlen*utf8.UTFMax
}

// Contents returns the page's backing byte slice.
func (p *Page) Contents() []byte {
	return p.contents
}
