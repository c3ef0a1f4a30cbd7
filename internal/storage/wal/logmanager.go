// Package wal implements the write-ahead log: a single append-only file of
// variable-length records, buffered in one in-memory page and packed from
// the end of each block backwards so an iterator can replay it newest-first
// without needing a separate index.
package wal

import (
	"fmt"
	"sync"

	"quarrydb/internal/storage/file"
)

// LogManager buffers log records in memory and flushes them to the log
// file on request (explicitly, or implicitly whenever the in-memory block
// fills up). Every other subsystem treats the returned LSN as an opaque,
// monotonically increasing handle: a buffer.Buffer uses it to know how far
// a flush needs to reach before that buffer can be written back.
type LogManager struct {
	fm           *file.FileManager
	logfile      string
	logpage      *file.Page
	currentBlock file.BlockID
	latestLSN    int
	lastSavedLSN int
	mu           sync.Mutex
}

// NewLogManager opens (or creates) logfile and positions the in-memory page
// at its last block.
func NewLogManager(fm *file.FileManager, logfile string) (*LogManager, error) {
	lm := &LogManager{
		fm:      fm,
		logfile: logfile,
		logpage: file.NewPage(fm.BlockSize()),
	}

	logSize, err := fm.Length(logfile)
	if err != nil {
		return nil, fmt.Errorf("error checking log size: %w", err)
	}

	if logSize == 0 {
		blk, err := lm.appendNewBlock()
		if err != nil {
			return nil, fmt.Errorf("error appending new block: %w", err)
		}
		lm.currentBlock = blk
	} else {
		lm.currentBlock = file.NewBlockID(logfile, logSize-1)
		if err := fm.Read(lm.currentBlock, lm.logpage); err != nil {
			return nil, fmt.Errorf("error reading last block: %w", err)
		}
	}

	return lm, nil
}

// Append writes logrec to the in-memory page, flushing and rolling to a new
// block first if it doesn't fit, and returns the LSN assigned to it.
// Records are packed from the high end of the page downward; offset 0
// always holds the position of the earliest (lowest-address) record
// currently in the page.
func (lm *LogManager) Append(logrec []byte) (int, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	boundary := int(lm.logpage.GetInt(0))
	bytesneeded := len(logrec) + 4

	if boundary-bytesneeded < 4 {
		if err := lm.flush(); err != nil {
			return 0, fmt.Errorf("error flushing log: %w", err)
		}
		blk, err := lm.appendNewBlock()
		if err != nil {
			return 0, fmt.Errorf("error appending new block: %w", err)
		}
		lm.currentBlock = blk
		boundary = int(lm.logpage.GetInt(0))
	}

	recpos := boundary - bytesneeded
	lm.logpage.SetBytes(recpos, logrec)
	lm.logpage.SetInt(0, int32(recpos))

	lm.latestLSN++
	return lm.latestLSN, nil
}

func (lm *LogManager) appendNewBlock() (file.BlockID, error) {
	blk, err := lm.fm.Append(lm.logfile)
	if err != nil {
		return file.BlockID{}, fmt.Errorf("error appending block: %w", err)
	}

	lm.logpage.SetInt(0, int32(lm.fm.BlockSize()))
	if err := lm.fm.Write(blk, lm.logpage); err != nil {
		return file.BlockID{}, fmt.Errorf("error writing new block: %w", err)
	}
	return blk, nil
}

// Flush guarantees that every record up to and including lsn is on disk.
func (lm *LogManager) Flush(lsn int) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	if lsn >= lm.lastSavedLSN {
		return lm.flush()
	}
	return nil
}

// Iterator flushes the in-memory page and returns an iterator that replays
// the log from the most recent record back to the oldest.
func (lm *LogManager) Iterator() (*LogIterator, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	if err := lm.flush(); err != nil {
		return nil, fmt.Errorf("error flushing log: %w", err)
	}
	return NewLogIterator(lm.fm, lm.currentBlock)
}

func (lm *LogManager) flush() error {
	if err := lm.fm.Write(lm.currentBlock, lm.logpage); err != nil {
		return fmt.Errorf("error writing log page: %w", err)
	}
	lm.lastSavedLSN = lm.latestLSN
	return nil
}
