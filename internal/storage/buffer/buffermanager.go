package buffer

import (
	"sync"
	"sync/atomic"
	"time"

	"quarrydb/internal/storage/file"
	"quarrydb/internal/storage/wal"
)

// ErrBufferTimeout is returned by Pin when no frame becomes available
// within the configured wait time.
type ErrBufferTimeout struct {
	message string
}

func (e ErrBufferTimeout) Error() string {
	return e.message
}

func newBufferTimeoutError(message string) ErrBufferTimeout {
	return ErrBufferTimeout{message: message}
}

// BufferManager hands out pins on a fixed-size pool of Buffer frames.
// Callers that find the pool fully pinned wait on a condition variable
// until a frame is released or the configured timeout elapses — there is
// no separate polling loop, a frame's release broadcasts directly to any
// blocked pinner.
type BufferManager struct {
	bufferPool   []*Buffer
	numAvailable int
	maxWaitTime  time.Duration
	mu           sync.Mutex
	cond         *sync.Cond

	timeouts atomic.Int64 // count of Pin calls that gave up waiting
}

// NewBufferManager allocates numBuffs frames, each backed by fm/lm, and
// waits up to maxWait for a frame to free up before Pin gives up.
func NewBufferManager(fm *file.FileManager, lm *wal.LogManager, numBuffs int, maxWait time.Duration) *BufferManager {
	bm := &BufferManager{
		bufferPool:   make([]*Buffer, numBuffs),
		numAvailable: numBuffs,
		maxWaitTime:  maxWait,
	}
	bm.cond = sync.NewCond(&bm.mu)

	for i := 0; i < numBuffs; i++ {
		bm.bufferPool[i] = NewBuffer(fm, lm)
	}

	return bm
}

// Available returns the number of currently unpinned frames.
func (bm *BufferManager) Available() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	return bm.numAvailable
}

// TimeoutCount returns how many Pin calls have given up waiting for a
// frame since startup.
func (bm *BufferManager) TimeoutCount() int64 {
	return bm.timeouts.Load()
}

// FlushAll flushes every frame last modified by txNum.
func (bm *BufferManager) FlushAll(txNum int) error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	for _, buff := range bm.bufferPool {
		if buff.ModifyingTx() == txNum {
			if err := buff.Flush(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Unpin releases one pin on buff. If that was its last pin, the frame
// becomes available and every goroutine waiting in Pin is woken to
// re-check whether it can now proceed.
func (bm *BufferManager) Unpin(buff *Buffer) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	buff.Unpin()
	if !buff.IsPinned() {
		bm.numAvailable++
		bm.cond.Broadcast()
	}
}

// Pin returns a frame holding block, pinning it first. If the block is
// already resident it is reused; otherwise an unpinned frame is
// repurposed. If every frame is pinned, Pin waits on the pool's condition
// variable until one frees up or maxWaitTime elapses, at which point it
// returns ErrBufferTimeout.
func (bm *BufferManager) Pin(block file.BlockID) (*Buffer, error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	deadline := time.Now().Add(bm.maxWaitTime)

	buff, err := bm.tryToPin(block)
	if err != nil {
		return nil, err
	}

	for buff == nil {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			bm.timeouts.Add(1)
			return nil, newBufferTimeoutError("timed out waiting for buffer")
		}

		timer := time.AfterFunc(remaining, func() {
			bm.mu.Lock()
			bm.cond.Broadcast()
			bm.mu.Unlock()
		})
		bm.cond.Wait()
		timer.Stop()

		if time.Now().After(deadline) {
			bm.timeouts.Add(1)
			return nil, newBufferTimeoutError("timed out waiting for buffer")
		}

		buff, err = bm.tryToPin(block)
		if err != nil {
			return nil, err
		}
	}

	return buff, nil
}

func (bm *BufferManager) tryToPin(block file.BlockID) (*Buffer, error) {
	buff := bm.findExistingBuffer(block)

	if buff == nil {
		buff = bm.chooseUnpinnedBuffer()
		if buff == nil {
			return nil, nil
		}
		if err := buff.AssignToBlock(block); err != nil {
			return nil, err
		}
	}

	if !buff.IsPinned() {
		bm.numAvailable--
	}
	buff.Pin()
	return buff, nil
}

func (bm *BufferManager) findExistingBuffer(block file.BlockID) *Buffer {
	for _, buff := range bm.bufferPool {
		if b := buff.Block(); b != nil && b.Equals(block) {
			return buff
		}
	}
	return nil
}

// chooseUnpinnedBuffer picks an unpinned frame to repurpose. Like the
// textbook design this follows, selection is a naive linear scan rather
// than LRU/clock — fine at the scale this engine targets.
func (bm *BufferManager) chooseUnpinnedBuffer() *Buffer {
	for _, buff := range bm.bufferPool {
		if !buff.IsPinned() {
			return buff
		}
	}
	return nil
}
