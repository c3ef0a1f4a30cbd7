package tx

import (
	"fmt"

	"quarrydb/internal/logging"
	"quarrydb/internal/storage/buffer"
	"quarrydb/internal/storage/wal"
)

// RecoveryManager writes the log records that make commit, rollback and
// crash recovery possible, and runs the undo-only algorithms that read
// them back. Each transaction owns exactly one RecoveryManager.
type RecoveryManager struct {
	lm    *wal.LogManager
	bm    *buffer.BufferManager
	tx    *Transaction
	txnum int
}

// NewRecoveryManager writes this transaction's START record and returns a
// manager ready to log its subsequent changes.
func NewRecoveryManager(tx *Transaction, txnum int, lm *wal.LogManager, bm *buffer.BufferManager) (*RecoveryManager, error) {
	if _, err := WriteStartRecordToLog(lm, txnum); err != nil {
		return nil, fmt.Errorf("error writing start record: %w", err)
	}
	return &RecoveryManager{lm: lm, bm: bm, tx: tx, txnum: txnum}, nil
}

// Commit flushes every buffer this transaction modified, writes and
// flushes a COMMIT record. The buffers must reach disk before the commit
// record is durable, or a crash could make a transaction look committed
// while its data never made it out of the pool.
func (rm *RecoveryManager) Commit() error {
	if err := rm.bm.FlushAll(rm.txnum); err != nil {
		return err
	}
	lsn, err := WriteCommitRecordToLog(rm.lm, rm.txnum)
	if err != nil {
		return err
	}
	return rm.lm.Flush(lsn)
}

// Rollback undoes this transaction's changes, flushes its buffers, and
// writes a ROLLBACK record.
func (rm *RecoveryManager) Rollback() error {
	if err := rm.doRollback(); err != nil {
		return err
	}
	if err := rm.bm.FlushAll(rm.txnum); err != nil {
		return err
	}
	lsn, err := WriteRollbackRecordToLog(rm.lm, rm.txnum)
	if err != nil {
		return err
	}
	return rm.lm.Flush(lsn)
}

// Recover undoes every transaction that was active when the system went
// down, flushes the result, and writes a fresh CHECKPOINT so a later crash
// doesn't have to replay past this point again.
func (rm *RecoveryManager) Recover() error {
	if err := rm.doRecover(); err != nil {
		return err
	}
	if err := rm.bm.FlushAll(rm.txnum); err != nil {
		return err
	}
	lsn, err := WriteCheckpointRecordToLog(rm.lm)
	if err != nil {
		return err
	}
	return rm.lm.Flush(lsn)
}

// SetInt logs the value an integer field held before a write, returning
// the LSN the buffer should be stamped with.
func (rm *RecoveryManager) SetInt(buff *buffer.Buffer, offset int, _ int) (int, error) {
	oldVal := buff.Contents().GetInt(offset)
	block := *buff.Block()
	return WriteSetIntRecordToLog(rm.lm, rm.txnum, block, offset, int(oldVal))
}

// SetString logs the value a string field held before a write.
func (rm *RecoveryManager) SetString(buff *buffer.Buffer, offset int, _ string) (int, error) {
	oldVal := buff.Contents().GetString(offset)
	block := *buff.Block()
	return WriteSetStringRecordToLog(rm.lm, rm.txnum, block, offset, oldVal)
}

// doRollback scans the log backwards, undoing every record belonging to
// this transaction, stopping as soon as it reaches that transaction's own
// START record.
func (rm *RecoveryManager) doRollback() error {
	iter, err := rm.lm.Iterator()
	if err != nil {
		return err
	}

	for iter.HasNext() {
		bytes, err := iter.Next()
		if err != nil {
			return err
		}
		rec := CreateLogRecord(bytes)
		if rec == nil {
			continue
		}
		if rec.TxNumber() != rm.txnum {
			continue
		}
		if rec.Op() == START {
			return nil
		}
		if err := rec.Undo(rm.tx); err != nil {
			return err
		}
	}
	return nil
}

// doRecover scans the log backwards from the end, undoing every record
// whose transaction hadn't committed or rolled back by the time the system
// went down, and stops once it reaches a CHECKPOINT — everything before
// that point is guaranteed to belong to a finished transaction.
func (rm *RecoveryManager) doRecover() error {
	log := logging.Component("recovery")
	finished := make(map[int]struct{})

	iter, err := rm.lm.Iterator()
	if err != nil {
		return err
	}

	for iter.HasNext() {
		bytes, err := iter.Next()
		if err != nil {
			return err
		}
		rec := CreateLogRecord(bytes)
		if rec == nil {
			continue
		}

		if rec.Op() == CHECKPOINT {
			log.Info().Msg("recovery reached checkpoint, stopping scan")
			return nil
		}

		if rec.Op() == COMMIT || rec.Op() == ROLLBACK {
			finished[rec.TxNumber()] = struct{}{}
			continue
		}

		if _, done := finished[rec.TxNumber()]; !done {
			if err := rec.Undo(rm.tx); err != nil {
				return err
			}
		}
	}
	return nil
}
