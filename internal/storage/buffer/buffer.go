// Package buffer implements the buffer pool: a fixed number of in-memory
// page frames, each pinnable to a disk block, flushed write-ahead through
// the log manager before the page itself is written back.
package buffer

import (
	"quarrydb/internal/storage/file"
	"quarrydb/internal/storage/wal"
)

// Buffer is one frame of the pool: a page plus the bookkeeping needed to
// know which block it holds, how many callers currently have it pinned,
// and — if dirty — which transaction and LSN are responsible for the most
// recent modification.
type Buffer struct {
	fm       *file.FileManager
	lm       *wal.LogManager
	contents *file.Page
	block    *file.BlockID // nil: no block assigned yet
	pins     int
	txnum    int // -1: not modified since last flush
	lsn      int // -1: no corresponding log record
}

// NewBuffer allocates an empty frame of one block's worth of page.
func NewBuffer(fm *file.FileManager, lm *wal.LogManager) *Buffer {
	return &Buffer{
		fm:       fm,
		lm:       lm,
		contents: file.NewPage(fm.BlockSize()),
		txnum:    -1,
		lsn:      -1,
	}
}

func (b *Buffer) Contents() *file.Page {
	return b.contents
}

func (b *Buffer) Block() *file.BlockID {
	return b.block
}

// SetModified records that txnum changed this buffer's contents. lsn is the
// log sequence number of the record describing that change; a negative lsn
// means the change needs no undo log record (e.g. a page format), so the
// buffer's lsn is left untouched — but txnum is always stamped, so a
// buffer written by more than one operation in the same transaction still
// flushes the log up through its true high-water mark.
func (b *Buffer) SetModified(txnum, lsn int) {
	b.txnum = txnum
	if lsn >= 0 {
		b.lsn = lsn
	}
}

func (b *Buffer) IsPinned() bool {
	return b.pins > 0
}

func (b *Buffer) ModifyingTx() int {
	return b.txnum
}

// AssignToBlock flushes any dirty contents, then reads block into the
// frame and resets the pin count. Called only while the frame is known to
// be unpinned.
func (b *Buffer) AssignToBlock(block file.BlockID) error {
	if err := b.Flush(); err != nil {
		return err
	}
	b.block = &block
	if err := b.fm.Read(block, b.contents); err != nil {
		return err
	}
	b.pins = 0
	return nil
}

// Flush writes this frame back to disk if it is dirty, first flushing the
// log up through the buffer's LSN so the WAL protocol holds: the record
// describing this change is durable before the change itself is.
func (b *Buffer) Flush() error {
	if b.txnum < 0 {
		return nil
	}
	if err := b.lm.Flush(b.lsn); err != nil {
		return err
	}
	if err := b.fm.Write(*b.block, b.contents); err != nil {
		return err
	}
	b.txnum = -1
	return nil
}

func (b *Buffer) Pin() {
	b.pins++
}

func (b *Buffer) Unpin() {
	b.pins--
}
