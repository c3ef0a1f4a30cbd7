package wal

import (
	"fmt"

	"quarrydb/internal/storage/file"
)

// LogIterator walks log records from the most recently appended back to the
// oldest surviving record, crossing block boundaries as needed. Recovery
// relies on this order: undo-only recovery must see a transaction's most
// recent update first.
type LogIterator struct {
	fm           *file.FileManager
	currentBlock file.BlockID
	page         *file.Page
	currentPos   int
	boundary     int
}

// NewLogIterator positions an iterator at the end of blk, ready to read
// backwards from its most recent record.
func NewLogIterator(fm *file.FileManager, blk file.BlockID) (*LogIterator, error) {
	li := &LogIterator{
		fm:           fm,
		currentBlock: blk,
		page:         file.NewPage(fm.BlockSize()),
	}
	if err := li.moveToBlock(blk); err != nil {
		return nil, err
	}
	return li, nil
}

// HasNext reports whether another record remains: either the current block
// has more to give, or an earlier block exists.
func (li *LogIterator) HasNext() bool {
	return li.currentPos < li.fm.BlockSize() || li.currentBlock.Number() > 0
}

// Next returns the next record in reverse-chronological order, rolling to
// the previous block first if the current one is exhausted.
func (li *LogIterator) Next() ([]byte, error) {
	if li.currentPos == li.fm.BlockSize() {
		prev := file.NewBlockID(li.currentBlock.FileName(), li.currentBlock.Number()-1)
		if err := li.moveToBlock(prev); err != nil {
			return nil, err
		}
	}

	rec := li.page.GetBytes(li.currentPos)
	li.currentPos += 4 + len(rec)
	return rec, nil
}

func (li *LogIterator) moveToBlock(block file.BlockID) error {
	if err := li.fm.Read(block, li.page); err != nil {
		return fmt.Errorf("error reading block %v: %w", block, err)
	}
	li.currentBlock = block
	li.boundary = int(li.page.GetInt(0))
	li.currentPos = li.boundary
	return nil
}
