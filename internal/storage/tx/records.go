package tx

import (
	"fmt"

	"quarrydb/internal/storage/file"
	"quarrydb/internal/storage/wal"
)

// Every record below except CHECKPOINT shares the layout convention: 4
// bytes of op tag, then a 4-byte transaction number, then any type-specific
// payload. CHECKPOINT is the op tag alone. START, COMMIT and ROLLBACK carry
// no further payload; SETINT/SETSTRING also carry
// the modified block's filename and number, the byte offset within the
// block, and the value that was there *before* the change — undo-only
// recovery only ever needs the old value, never the new one.

// StartRecord marks the beginning of a transaction.
type StartRecord struct {
	txNum int
}

func NewStartRecord(p *file.Page) *StartRecord {
	return &StartRecord{txNum: int(p.GetInt(4))}
}

func (r *StartRecord) Op() LogRecordType { return START }
func (r *StartRecord) TxNumber() int     { return r.txNum }
func (r *StartRecord) Undo(tx *Transaction) error {
	return nil // nothing to undo: a start record carries no prior value
}
func (r *StartRecord) String() string {
	return fmt.Sprintf("<START %d>", r.txNum)
}

// WriteStartRecordToLog appends a START record for txNum.
func WriteStartRecordToLog(lm *wal.LogManager, txNum int) (int, error) {
	rec := make([]byte, 8)
	p := file.NewPageFromBytes(rec)
	p.SetInt(0, int32(START))
	p.SetInt(4, int32(txNum))
	return lm.Append(rec)
}

// CommitRecord marks a transaction as durably committed.
type CommitRecord struct {
	txNum int
}

func NewCommitRecord(p *file.Page) *CommitRecord {
	return &CommitRecord{txNum: int(p.GetInt(4))}
}

func (r *CommitRecord) Op() LogRecordType { return COMMIT }
func (r *CommitRecord) TxNumber() int     { return r.txNum }
func (r *CommitRecord) Undo(tx *Transaction) error {
	return nil
}
func (r *CommitRecord) String() string {
	return fmt.Sprintf("<COMMIT %d>", r.txNum)
}

// WriteCommitRecordToLog appends a COMMIT record for txNum.
func WriteCommitRecordToLog(lm *wal.LogManager, txNum int) (int, error) {
	rec := make([]byte, 8)
	p := file.NewPageFromBytes(rec)
	p.SetInt(0, int32(COMMIT))
	p.SetInt(4, int32(txNum))
	return lm.Append(rec)
}

// RollbackRecord marks a transaction as rolled back.
type RollbackRecord struct {
	txNum int
}

func NewRollbackRecord(p *file.Page) *RollbackRecord {
	return &RollbackRecord{txNum: int(p.GetInt(4))}
}

func (r *RollbackRecord) Op() LogRecordType { return ROLLBACK }
func (r *RollbackRecord) TxNumber() int     { return r.txNum }
func (r *RollbackRecord) Undo(tx *Transaction) error {
	return nil
}
func (r *RollbackRecord) String() string {
	return fmt.Sprintf("<ROLLBACK %d>", r.txNum)
}

// WriteRollbackRecordToLog appends a ROLLBACK record for txNum.
func WriteRollbackRecordToLog(lm *wal.LogManager, txNum int) (int, error) {
	rec := make([]byte, 8)
	p := file.NewPageFromBytes(rec)
	p.SetInt(0, int32(ROLLBACK))
	p.SetInt(4, int32(txNum))
	return lm.Append(rec)
}

// CheckpointRecord marks a point in the log before which every
// transaction is known to have finished (committed or rolled back), so
// recovery never needs to look further back than the most recent one.
type CheckpointRecord struct{}

func NewCheckpointRecord() *CheckpointRecord {
	return &CheckpointRecord{}
}

func (r *CheckpointRecord) Op() LogRecordType { return CHECKPOINT }
func (r *CheckpointRecord) TxNumber() int     { return -1 }
func (r *CheckpointRecord) Undo(tx *Transaction) error {
	return nil
}
func (r *CheckpointRecord) String() string {
	return "<CHECKPOINT>"
}

// WriteCheckpointRecordToLog appends a CHECKPOINT record.
func WriteCheckpointRecordToLog(lm *wal.LogManager) (int, error) {
	rec := make([]byte, 4)
	p := file.NewPageFromBytes(rec)
	p.SetInt(0, int32(CHECKPOINT))
	return lm.Append(rec)
}

// SetIntRecord records the value an integer field held immediately before
// a SetInt call overwrote it.
type SetIntRecord struct {
	txNum  int
	offset int
	val    int32
	block  file.BlockID
}

func NewSetIntRecord(p *file.Page) *SetIntRecord {
	tPos := 4
	txNum := p.GetInt(tPos)

	fPos := tPos + 4
	filename := p.GetString(fPos)

	bPos := fPos + p.MaxLength(len(filename))
	blockNum := p.GetInt(bPos)

	oPos := bPos + 4
	offset := p.GetInt(oPos)

	vPos := oPos + 4
	val := p.GetInt(vPos)

	return &SetIntRecord{
		txNum:  int(txNum),
		offset: int(offset),
		val:    val,
		block:  file.NewBlockID(filename, int(blockNum)),
	}
}

func (r *SetIntRecord) Op() LogRecordType { return SETINT }
func (r *SetIntRecord) TxNumber() int     { return r.txNum }
func (r *SetIntRecord) String() string {
	return fmt.Sprintf("<SETINT %d %v %d %d>", r.txNum, r.block, r.offset, r.val)
}

// Undo restores the previous integer value, pinning and unpinning the
// block around the write and passing okToLog=false so the undo itself
// generates no further log record.
func (r *SetIntRecord) Undo(tx *Transaction) error {
	if err := tx.Pin(r.block); err != nil {
		return err
	}
	defer tx.Unpin(r.block)
	return tx.SetInt(r.block, r.offset, int(r.val), false)
}

// WriteSetIntRecordToLog appends a SETINT record capturing the value at
// block/offset before it is overwritten.
func WriteSetIntRecordToLog(lm *wal.LogManager, txNum int, block file.BlockID, offset int, oldVal int) (int, error) {
	tPos := 4
	fPos := tPos + 4
	tmp := file.NewPage(0)
	bPos := fPos + tmp.MaxLength(len(block.FileName()))
	oPos := bPos + 4
	vPos := oPos + 4

	rec := make([]byte, vPos+4)
	p := file.NewPageFromBytes(rec)
	p.SetInt(0, int32(SETINT))
	p.SetInt(tPos, int32(txNum))
	p.SetString(fPos, block.FileName())
	p.SetInt(bPos, int32(block.Number()))
	p.SetInt(oPos, int32(offset))
	p.SetInt(vPos, int32(oldVal))

	return lm.Append(rec)
}

// SetStringRecord records the value a string field held immediately before
// a SetString call overwrote it.
type SetStringRecord struct {
	txNum  int
	offset int
	val    string
	block  file.BlockID
}

func NewSetStringRecord(p *file.Page) *SetStringRecord {
	tPos := 4
	txNum := p.GetInt(tPos)

	fPos := tPos + 4
	filename := p.GetString(fPos)

	bPos := fPos + p.MaxLength(len(filename))
	blockNum := p.GetInt(bPos)

	oPos := bPos + 4
	offset := p.GetInt(oPos)

	vPos := oPos + 4
	val := p.GetString(vPos)

	return &SetStringRecord{
		txNum:  int(txNum),
		offset: int(offset),
		val:    val,
		block:  file.NewBlockID(filename, int(blockNum)),
	}
}

func (r *SetStringRecord) Op() LogRecordType { return SETSTRING }
func (r *SetStringRecord) TxNumber() int     { return r.txNum }
func (r *SetStringRecord) String() string {
	return fmt.Sprintf("<SETSTRING %d %v %d %s>", r.txNum, r.block, r.offset, r.val)
}

func (r *SetStringRecord) Undo(tx *Transaction) error {
	if err := tx.Pin(r.block); err != nil {
		return err
	}
	defer tx.Unpin(r.block)
	return tx.SetString(r.block, r.offset, r.val, false)
}

// WriteSetStringRecordToLog appends a SETSTRING record capturing the value
// at block/offset before it is overwritten.
func WriteSetStringRecordToLog(lm *wal.LogManager, txNum int, block file.BlockID, offset int, oldVal string) (int, error) {
	tPos := 4
	fPos := tPos + 4
	tmp := file.NewPage(0)
	bPos := fPos + tmp.MaxLength(len(block.FileName()))
	oPos := bPos + 4
	vPos := oPos + 4
	recLen := vPos + tmp.MaxLength(len(oldVal))

	rec := make([]byte, recLen)
	p := file.NewPageFromBytes(rec)
	p.SetInt(0, int32(SETSTRING))
	p.SetInt(tPos, int32(txNum))
	p.SetString(fPos, block.FileName())
	p.SetInt(bPos, int32(block.Number()))
	p.SetInt(oPos, int32(offset))
	p.SetString(vPos, oldVal)

	return lm.Append(rec)
}
