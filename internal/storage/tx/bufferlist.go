package tx

import (
	"fmt"
	"sync"

	"quarrydb/internal/storage/buffer"
	"quarrydb/internal/storage/file"
)

// BufferList tracks which blocks a transaction currently has pinned and the
// frame each one occupies, so GetInt/SetInt and friends can look a buffer
// up without re-pinning it, and UnpinAll can release everything at once at
// commit/rollback time.
type BufferList struct {
	buffers map[file.BlockID]*buffer.Buffer
	pins    []file.BlockID
	bm      *buffer.BufferManager
	mu      sync.Mutex
}

func NewBufferList(bm *buffer.BufferManager) *BufferList {
	return &BufferList{
		buffers: make(map[file.BlockID]*buffer.Buffer),
		bm:      bm,
	}
}

// GetBuffer returns the frame already pinned for block. Callers must Pin
// the block first.
func (bl *BufferList) GetBuffer(block file.BlockID) (*buffer.Buffer, error) {
	bl.mu.Lock()
	defer bl.mu.Unlock()

	if buff, exists := bl.buffers[block]; exists {
		return buff, nil
	}
	return nil, fmt.Errorf("buffer not found for block: %v", block)
}

// Pin pins block through the buffer manager and records it as held by
// this transaction.
func (bl *BufferList) Pin(block file.BlockID) error {
	buff, err := bl.bm.Pin(block)
	if err != nil {
		return fmt.Errorf("failed to pin buffer: %w", err)
	}

	bl.mu.Lock()
	defer bl.mu.Unlock()
	bl.buffers[block] = buff
	bl.pins = append(bl.pins, block)
	return nil
}

// Unpin releases one pin this transaction held on block.
func (bl *BufferList) Unpin(block file.BlockID) error {
	bl.mu.Lock()
	defer bl.mu.Unlock()

	buff, exists := bl.buffers[block]
	if !exists {
		return fmt.Errorf("no buffer found for block: %v", block)
	}
	bl.bm.Unpin(buff)

	for i, pinned := range bl.pins {
		if pinned == block {
			bl.pins[i] = bl.pins[len(bl.pins)-1]
			bl.pins = bl.pins[:len(bl.pins)-1]
			break
		}
	}

	stillPinned := false
	for _, pinned := range bl.pins {
		if pinned == block {
			stillPinned = true
			break
		}
	}
	if !stillPinned {
		delete(bl.buffers, block)
	}
	return nil
}

// UnpinAll releases every pin this transaction holds. Called once, at
// commit or rollback.
func (bl *BufferList) UnpinAll() {
	bl.mu.Lock()
	defer bl.mu.Unlock()

	for _, block := range bl.pins {
		if buff, exists := bl.buffers[block]; exists {
			bl.bm.Unpin(buff)
		}
	}
	bl.buffers = make(map[file.BlockID]*buffer.Buffer)
	bl.pins = bl.pins[:0]
}
