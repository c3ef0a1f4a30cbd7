package tx

import (
	"fmt"
	"sync/atomic"

	"quarrydb/internal/logging"
	"quarrydb/internal/metrics"
	"quarrydb/internal/storage/buffer"
	"quarrydb/internal/storage/file"
	"quarrydb/internal/storage/wal"
)

// EndOfFile is the block number used as a sentinel "end of file" block so
// Size and Append can take a lock on a block that represents the whole
// file, preventing phantom appends from two transactions racing.
const EndOfFile = -1

var nextTxNum atomic.Int64

func nextTxNumber() int64 {
	return nextTxNum.Add(1)
}

// Transaction is the unit of recovery and concurrency control: every
// access to the database goes through one, which pins/unpins buffers,
// acquires locks before touching a block, and writes undo log records for
// every change so it can be rolled back or recovered.
type Transaction struct {
	rm        *RecoveryManager
	cm        *ConcurrencyManager
	bm        *buffer.BufferManager
	fm        *file.FileManager
	lm        *wal.LogManager
	txnum     int
	myBuffers *BufferList
}

// NewTransaction starts a new transaction, writing its START record.
func NewTransaction(fm *file.FileManager, lm *wal.LogManager, bm *buffer.BufferManager, lt *LockTable) (*Transaction, error) {
	txnum := int(nextTxNumber())
	tx := &Transaction{
		cm:        NewConcurrencyManager(lt),
		bm:        bm,
		fm:        fm,
		lm:        lm,
		txnum:     txnum,
		myBuffers: NewBufferList(bm),
	}

	rm, err := NewRecoveryManager(tx, txnum, lm, bm)
	if err != nil {
		return nil, fmt.Errorf("starting transaction %d: %w", txnum, err)
	}
	tx.rm = rm

	logging.Component("tx").Debug().Int("txnum", txnum).Msg("new transaction")
	return tx, nil
}

// Commit flushes this transaction's modified buffers, writes and flushes
// its COMMIT record, releases every lock it holds, and unpins every
// buffer it pinned.
func (tx *Transaction) Commit() error {
	if err := tx.rm.Commit(); err != nil {
		return fmt.Errorf("committing transaction %d: %w", tx.txnum, err)
	}
	tx.cm.Release()
	tx.myBuffers.UnpinAll()
	metrics.TransactionsActive.Dec()
	logging.Component("tx").Info().Int("txnum", tx.txnum).Msg("transaction committed")
	return nil
}

// Rollback undoes every change this transaction made, releases its locks,
// and unpins its buffers.
func (tx *Transaction) Rollback() error {
	if err := tx.rm.Rollback(); err != nil {
		return fmt.Errorf("rolling back transaction %d: %w", tx.txnum, err)
	}
	tx.cm.Release()
	tx.myBuffers.UnpinAll()
	metrics.TransactionsActive.Dec()
	logging.Component("tx").Info().Int("txnum", tx.txnum).Msg("transaction rolled back")
	return nil
}

// Recover rolls every uncommitted transaction back to bring the database
// to a consistent state after a crash. It must only be called before any
// other transaction starts modifying the database.
func (tx *Transaction) Recover() error {
	if err := tx.bm.FlushAll(tx.txnum); err != nil {
		return err
	}
	if err := tx.rm.Recover(); err != nil {
		return fmt.Errorf("recovering: %w", err)
	}
	return nil
}

// Pin pins block on this transaction's behalf; callers must Unpin it when
// they're done.
func (tx *Transaction) Pin(block file.BlockID) error {
	return tx.myBuffers.Pin(block)
}

// Unpin releases one pin this transaction held on block.
func (tx *Transaction) Unpin(block file.BlockID) {
	_ = tx.myBuffers.Unpin(block)
}

// GetInt returns the integer at offset in block. The caller must already
// hold a pin on block.
func (tx *Transaction) GetInt(block file.BlockID, offset int) (int, error) {
	if err := tx.cm.SLock(block); err != nil {
		return 0, err
	}
	buff, err := tx.myBuffers.GetBuffer(block)
	if err != nil {
		return 0, err
	}
	return int(buff.Contents().GetInt(offset)), nil
}

// GetString returns the string at offset in block. The caller must
// already hold a pin on block.
func (tx *Transaction) GetString(block file.BlockID, offset int) (string, error) {
	if err := tx.cm.SLock(block); err != nil {
		return "", err
	}
	buff, err := tx.myBuffers.GetBuffer(block)
	if err != nil {
		return "", err
	}
	return buff.Contents().GetString(offset), nil
}

// SetInt writes val at offset in block. When okToLog is true, the value
// previously there is written to the log first so the change can be
// undone; recovery's own undo passes set it false to avoid logging an
// undo of an undo.
func (tx *Transaction) SetInt(block file.BlockID, offset int, val int, okToLog bool) error {
	if err := tx.cm.XLock(block); err != nil {
		return err
	}
	buff, err := tx.myBuffers.GetBuffer(block)
	if err != nil {
		return err
	}

	lsn := -1
	if okToLog {
		lsn, err = tx.rm.SetInt(buff, offset, val)
		if err != nil {
			return err
		}
	}

	buff.Contents().SetInt(offset, int32(val))
	buff.SetModified(tx.txnum, lsn)
	return nil
}

// SetString writes val at offset in block, with the same undo-logging
// semantics as SetInt.
func (tx *Transaction) SetString(block file.BlockID, offset int, val string, okToLog bool) error {
	if err := tx.cm.XLock(block); err != nil {
		return err
	}
	buff, err := tx.myBuffers.GetBuffer(block)
	if err != nil {
		return err
	}

	lsn := -1
	if okToLog {
		lsn, err = tx.rm.SetString(buff, offset, val)
		if err != nil {
			return err
		}
	}

	buff.Contents().SetString(offset, val)
	buff.SetModified(tx.txnum, lsn)
	return nil
}

// Size returns the number of blocks in filename, taking a shared lock on
// the end-of-file sentinel block so a concurrent Append can't race it.
func (tx *Transaction) Size(filename string) (int, error) {
	dummy := file.NewBlockID(filename, EndOfFile)
	if err := tx.cm.SLock(dummy); err != nil {
		return 0, err
	}
	return tx.fm.Length(filename)
}

// Append adds a new block to the end of filename, taking an exclusive
// lock on the end-of-file sentinel block to prevent two transactions from
// appending concurrently and racing each other for the same block number.
func (tx *Transaction) Append(filename string) (file.BlockID, error) {
	dummy := file.NewBlockID(filename, EndOfFile)
	if err := tx.cm.XLock(dummy); err != nil {
		return file.BlockID{}, err
	}
	return tx.fm.Append(filename)
}

// BlockSize returns the database's fixed block size.
func (tx *Transaction) BlockSize() int {
	return tx.fm.BlockSize()
}

// AvailableBuffers returns the number of buffer-pool frames not currently
// pinned by any transaction.
func (tx *Transaction) AvailableBuffers() int {
	return tx.bm.Available()
}

// TxNumber returns this transaction's identifier.
func (tx *Transaction) TxNumber() int {
	return tx.txnum
}
