// Package tx implements transactions: strict two-phase locking, undo-only
// logging, and the per-transaction buffer list that ties a transaction's
// reads and writes to pinned buffer-pool frames.
//
// Log records live in this package rather than a separate one: a record's
// Undo method needs to call back into Transaction (Pin/SetInt/SetString),
// and Transaction needs to create records through RecoveryManager — putting
// both in one package is what keeps that mutual reference from becoming an
// import cycle.
package tx

import (
	"quarrydb/internal/storage/file"
)

// LogRecordType tags the kind of a log record; it is the first 4 bytes of
// every record's on-disk encoding.
type LogRecordType int32

const (
	CHECKPOINT LogRecordType = iota
	START
	COMMIT
	ROLLBACK
	SETINT
	SETSTRING
)

// LogRecord is any record that can appear in the write-ahead log. Every
// record but CHECKPOINT belongs to a transaction (CHECKPOINT's TxNumber
// returns -1, since it describes no transaction's changes) and knows how to
// undo itself against a live Transaction during rollback/recovery.
type LogRecord interface {
	Op() LogRecordType
	TxNumber() int
	Undo(tx *Transaction) error
	String() string
}

// CreateLogRecord decodes the record type tag at the front of bytes and
// builds the corresponding LogRecord. Returns nil for an unrecognized tag,
// which should never happen against a log this engine wrote itself.
func CreateLogRecord(bytes []byte) LogRecord {
	p := file.NewPageFromBytes(bytes)
	switch LogRecordType(p.GetInt(0)) {
	case CHECKPOINT:
		return NewCheckpointRecord()
	case START:
		return NewStartRecord(p)
	case COMMIT:
		return NewCommitRecord(p)
	case ROLLBACK:
		return NewRollbackRecord(p)
	case SETINT:
		return NewSetIntRecord(p)
	case SETSTRING:
		return NewSetStringRecord(p)
	default:
		return nil
	}
}
