package tx

import (
	"sync"

	"quarrydb/internal/storage/file"
)

const (
	shared    = "S"
	exclusive = "X"
)

// ConcurrencyManager is a transaction's private view onto the shared
// LockTable: it tracks which locks this transaction already holds so it
// never asks the lock table twice for the same block, and implements
// strict two-phase locking by only ever releasing everything at once, via
// Release, at commit or rollback.
type ConcurrencyManager struct {
	locks     map[file.BlockID]string
	lockTable *LockTable
	mu        sync.Mutex
}

func NewConcurrencyManager(lt *LockTable) *ConcurrencyManager {
	return &ConcurrencyManager{
		locks:     make(map[file.BlockID]string),
		lockTable: lt,
	}
}

// SLock acquires a shared lock on block if this transaction doesn't
// already hold one (of either kind).
func (cm *ConcurrencyManager) SLock(block file.BlockID) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if _, exists := cm.locks[block]; !exists {
		if err := cm.lockTable.SLock(block); err != nil {
			return err
		}
		cm.locks[block] = shared
	}
	return nil
}

// XLock acquires an exclusive lock on block, first taking a shared lock if
// the transaction holds none yet — going through a shared lock on the way
// to exclusive keeps the lock-table API to two primitives instead of
// needing a separate upgrade call.
func (cm *ConcurrencyManager) XLock(block file.BlockID) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.hasXLock(block) {
		return nil
	}

	if _, exists := cm.locks[block]; !exists {
		if err := cm.lockTable.SLock(block); err != nil {
			return err
		}
		cm.locks[block] = shared
	}

	if err := cm.lockTable.XLock(block); err != nil {
		return err
	}
	cm.locks[block] = exclusive
	return nil
}

// Release drops every lock this transaction holds. Called exactly once,
// at commit or rollback: strict 2PL requires that no lock is released
// before the transaction's last one is acquired.
func (cm *ConcurrencyManager) Release() {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	for block := range cm.locks {
		cm.lockTable.Unlock(block)
	}
	clear(cm.locks)
}

func (cm *ConcurrencyManager) hasXLock(block file.BlockID) bool {
	return cm.locks[block] == exclusive
}
