package record

import (
	"fmt"

	"quarrydb/internal/storage/file"
	"quarrydb/internal/storage/tx"
	"quarrydb/internal/types"
)

// TableScan provides record-at-a-time access to a table's heap file,
// implementing the engine's Scan/UpdateScan contract directly against
// RecordPage: the lowest-level scan in the system, with every
// higher-level operator (select, project, product) built on top of one.
type TableScan struct {
	tx          *tx.Transaction
	layout      *Layout
	rp          *RecordPage
	filename    string
	currentSlot int
}

// NewTableScan opens tableName, creating its first block if the file is
// empty.
func NewTableScan(t *tx.Transaction, tableName string, layout *Layout) (*TableScan, error) {
	ts := &TableScan{
		tx:          t,
		layout:      layout,
		filename:    tableName + ".tbl",
		currentSlot: -1,
	}

	size, err := t.Size(ts.filename)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		if err := ts.moveToNewBlock(); err != nil {
			return nil, err
		}
	} else if err := ts.moveToBlock(0); err != nil {
		return nil, err
	}
	return ts, nil
}

func (ts *TableScan) BeforeFirst() error {
	return ts.moveToBlock(0)
}

// Next advances to the next used slot, moving across blocks and appending
// none: reading never extends the file.
func (ts *TableScan) Next() bool {
	for {
		slot, err := ts.rp.NextAfter(ts.currentSlot)
		if err != nil {
			return false
		}
		ts.currentSlot = slot
		if ts.currentSlot >= 0 {
			return true
		}
		if ts.atLastBlock() {
			return false
		}
		if err := ts.moveToBlock(ts.rp.Block().Number() + 1); err != nil {
			return false
		}
	}
}

func (ts *TableScan) GetInt(fieldName string) (int, error) {
	return ts.rp.GetInt(ts.currentSlot, fieldName)
}

func (ts *TableScan) GetString(fieldName string) (string, error) {
	return ts.rp.GetString(ts.currentSlot, fieldName)
}

// GetVal returns the field's value as a type-independent Constant,
// consulting the schema to decide whether to read it as an int or string.
func (ts *TableScan) GetVal(fieldName string) (types.Constant, error) {
	if ts.layout.Schema().FieldType(fieldName) == Integer {
		v, err := ts.GetInt(fieldName)
		if err != nil {
			return types.Constant{}, err
		}
		return types.NewConstantInt(v), nil
	}
	v, err := ts.GetString(fieldName)
	if err != nil {
		return types.Constant{}, err
	}
	return types.NewConstantString(v), nil
}

func (ts *TableScan) HasField(fieldName string) bool {
	return ts.layout.Schema().HasField(fieldName)
}

func (ts *TableScan) Close() {
	if ts.rp != nil {
		ts.tx.Unpin(ts.rp.Block())
	}
}

func (ts *TableScan) SetInt(fieldName string, val int) error {
	return ts.rp.SetInt(ts.currentSlot, fieldName, val)
}

func (ts *TableScan) SetString(fieldName string, val string) error {
	return ts.rp.SetString(ts.currentSlot, fieldName, val)
}

// SetVal writes val through whichever typed setter matches its kind.
func (ts *TableScan) SetVal(fieldName string, val types.Constant) error {
	if val.IsInt() {
		return ts.SetInt(fieldName, val.AsInt())
	}
	return ts.SetString(fieldName, val.AsString())
}

// Insert finds the next empty slot, appending new blocks as needed, and
// positions the scan there.
func (ts *TableScan) Insert() error {
	slot, err := ts.rp.InsertAfter(ts.currentSlot)
	if err != nil {
		return err
	}
	ts.currentSlot = slot

	for ts.currentSlot < 0 {
		if ts.atLastBlock() {
			if err := ts.moveToNewBlock(); err != nil {
				return err
			}
		} else if err := ts.moveToBlock(ts.rp.Block().Number() + 1); err != nil {
			return err
		}
		slot, err = ts.rp.InsertAfter(ts.currentSlot)
		if err != nil {
			return err
		}
		ts.currentSlot = slot
	}
	return nil
}

func (ts *TableScan) Delete() error {
	return ts.rp.Delete(ts.currentSlot)
}

func (ts *TableScan) GetRID() (types.RID, error) {
	return types.NewRID(ts.rp.Block().Number(), ts.currentSlot), nil
}

// MoveToRID positions the scan directly at rid, unpinning the current
// block and pinning rid's block.
func (ts *TableScan) MoveToRID(rid types.RID) error {
	ts.Close()
	block := file.NewBlockID(ts.filename, rid.BlockNumber())
	rp, err := NewRecordPage(ts.tx, block, ts.layout)
	if err != nil {
		return err
	}
	ts.rp = rp
	ts.currentSlot = rid.Slot()
	return nil
}

func (ts *TableScan) moveToBlock(blockNum int) error {
	ts.Close()
	block := file.NewBlockID(ts.filename, blockNum)
	rp, err := NewRecordPage(ts.tx, block, ts.layout)
	if err != nil {
		return err
	}
	ts.rp = rp
	ts.currentSlot = -1
	return nil
}

func (ts *TableScan) moveToNewBlock() error {
	ts.Close()
	block, err := ts.tx.Append(ts.filename)
	if err != nil {
		return err
	}
	rp, err := NewRecordPage(ts.tx, block, ts.layout)
	if err != nil {
		return err
	}
	ts.rp = rp
	if err := ts.rp.Format(); err != nil {
		return err
	}
	ts.currentSlot = -1
	return nil
}

func (ts *TableScan) atLastBlock() bool {
	size, err := ts.tx.Size(ts.filename)
	if err != nil {
		return true
	}
	return ts.rp.Block().Number() == size-1
}

func (ts *TableScan) String() string {
	return fmt.Sprintf("TableScan(%s)", ts.filename)
}
