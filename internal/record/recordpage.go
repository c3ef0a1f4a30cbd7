package record

import (
	"quarrydb/internal/storage/file"
	"quarrydb/internal/storage/tx"
)

// Slot flags: every slot's first intBytes bytes are a flag marking it
// empty (deleted or never used) or in use.
const (
	Empty = 0
	Used  = 1
)

// RecordPage manages the slotted layout of records within a single block:
// computing each slot's byte offset, reading and writing its fields
// through the owning transaction, and walking slots by flag value.
type RecordPage struct {
	tx     *tx.Transaction
	block  file.BlockID
	layout *Layout
}

// NewRecordPage pins block and returns a page positioned on it.
func NewRecordPage(t *tx.Transaction, block file.BlockID, layout *Layout) (*RecordPage, error) {
	if err := t.Pin(block); err != nil {
		return nil, err
	}
	return &RecordPage{tx: t, block: block, layout: layout}, nil
}

func (rp *RecordPage) Block() file.BlockID {
	return rp.block
}

func (rp *RecordPage) GetInt(slot int, fieldName string) (int, error) {
	return rp.tx.GetInt(rp.block, rp.offset(slot)+rp.layout.Offset(fieldName))
}

func (rp *RecordPage) GetString(slot int, fieldName string) (string, error) {
	return rp.tx.GetString(rp.block, rp.offset(slot)+rp.layout.Offset(fieldName))
}

func (rp *RecordPage) SetInt(slot int, fieldName string, val int) error {
	return rp.tx.SetInt(rp.block, rp.offset(slot)+rp.layout.Offset(fieldName), val, true)
}

func (rp *RecordPage) SetString(slot int, fieldName string, val string) error {
	return rp.tx.SetString(rp.block, rp.offset(slot)+rp.layout.Offset(fieldName), val, true)
}

// Format initializes every slot in the block to Empty with zero-valued
// fields. Called once, when a block is first appended to a table file.
// The writes are not logged: the block didn't exist before this
// transaction, so there's nothing a rollback would need to restore it to.
func (rp *RecordPage) Format() error {
	slot := 0
	for rp.isValidSlot(slot) {
		if err := rp.tx.SetInt(rp.block, rp.offset(slot), Empty, false); err != nil {
			return err
		}
		schema := rp.layout.Schema()
		for _, fieldName := range schema.Fields() {
			fieldPos := rp.offset(slot) + rp.layout.Offset(fieldName)
			var err error
			if schema.FieldType(fieldName) == Integer {
				err = rp.tx.SetInt(rp.block, fieldPos, 0, false)
			} else {
				err = rp.tx.SetString(rp.block, fieldPos, "", false)
			}
			if err != nil {
				return err
			}
		}
		slot++
	}
	return nil
}

func (rp *RecordPage) Delete(slot int) error {
	return rp.setFlag(slot, Empty)
}

// NextAfter returns the next Used slot strictly after slot, or -1 if none.
func (rp *RecordPage) NextAfter(slot int) (int, error) {
	return rp.searchAfter(slot, Used)
}

// InsertAfter finds the next Empty slot strictly after slot, marks it Used,
// and returns it, or -1 if the block is full.
func (rp *RecordPage) InsertAfter(slot int) (int, error) {
	newSlot, err := rp.searchAfter(slot, Empty)
	if err != nil {
		return -1, err
	}
	if newSlot >= 0 {
		if err := rp.setFlag(newSlot, Used); err != nil {
			return -1, err
		}
	}
	return newSlot, nil
}

func (rp *RecordPage) offset(slot int) int {
	return slot * rp.layout.SlotSize()
}

func (rp *RecordPage) isValidSlot(slot int) bool {
	return rp.offset(slot+1) <= rp.tx.BlockSize()
}

func (rp *RecordPage) setFlag(slot int, flag int) error {
	return rp.tx.SetInt(rp.block, rp.offset(slot), flag, true)
}

func (rp *RecordPage) searchAfter(slot int, flag int) (int, error) {
	slot++
	for rp.isValidSlot(slot) {
		val, err := rp.tx.GetInt(rp.block, rp.offset(slot))
		if err != nil {
			return -1, err
		}
		if val == flag {
			return slot, nil
		}
		slot++
	}
	return -1, nil
}
