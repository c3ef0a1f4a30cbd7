package file

import "fmt"

// BlockID names one fixed-size block within a named file. It is the unit
// the buffer pool pins, the log manager appends to, and the lock table
// locks — every other identifier (RID, index page number) is relative to a
// BlockID.
type BlockID struct {
	filename    string
	blockNumber int
}

// NewBlockID builds the identifier for block number blockNumber of filename.
func NewBlockID(filename string, blockNumber int) BlockID {
	return BlockID{filename: filename, blockNumber: blockNumber}
}

func (b BlockID) FileName() string {
	return b.filename
}

func (b BlockID) Number() int {
	return b.blockNumber
}

func (b BlockID) Equals(other BlockID) bool {
	return b.filename == other.filename && b.blockNumber == other.blockNumber
}

func (b BlockID) String() string {
	return fmt.Sprintf("[file %s, block %d]", b.filename, b.blockNumber)
}

// HashCode returns a stable hash usable as a map key component, mirroring
// Java's String.hashCode-style polynomial rolling hash so the distribution
// across buffers and lock entries stays uniform for typical filenames.
func (b BlockID) HashCode() int {
	h := 0
	for _, c := range b.filename {
		h = 31*h + int(c)
	}
	return h*31 + b.blockNumber
}
