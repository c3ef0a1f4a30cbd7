// Package btree implements a B+-tree index with leaf overflow chains for
// duplicate keys: a directory file of internal pages rooted at block 0 and
// a leaf file holding the indexed (key, RID) pairs in sorted order.
package btree

import (
	"quarrydb/internal/record"
	"quarrydb/internal/storage/file"
	"quarrydb/internal/storage/tx"
	"quarrydb/internal/types"
)

// Page is the record-page layout shared by directory and leaf blocks: a
// 4-byte flag and a 4-byte record count at the head of the block, followed
// by slots laid out exactly as record.RecordPage would lay them out for
// the page's (block, dataval[, id]) schema.
type Page struct {
	tx     *tx.Transaction
	block  file.BlockID
	layout *record.Layout
}

// NewPage pins block and wraps it as a B-tree page using layout.
func NewPage(t *tx.Transaction, block file.BlockID, layout *record.Layout) (*Page, error) {
	if err := t.Pin(block); err != nil {
		return nil, err
	}
	return &Page{tx: t, block: block, layout: layout}, nil
}

// FindSlotBefore returns the largest slot index whose dataval is strictly
// less than searchKey, or -1 if every record is >= searchKey.
func (p *Page) FindSlotBefore(searchKey types.Constant) (int, error) {
	slot := 0
	n, err := p.NumRecs()
	if err != nil {
		return 0, err
	}
	for slot < n {
		val, err := p.DataVal(slot)
		if err != nil {
			return 0, err
		}
		if val.CompareTo(searchKey) >= 0 {
			break
		}
		slot++
	}
	return slot - 1, nil
}

// Close unpins the page's block.
func (p *Page) Close() {
	if p.block != (file.BlockID{}) {
		p.tx.Unpin(p.block)
	}
}

// IsFull reports whether one more record would overflow the block.
func (p *Page) IsFull() (bool, error) {
	n, err := p.NumRecs()
	if err != nil {
		return false, err
	}
	return p.slotPos(n+1) >= p.tx.BlockSize(), nil
}

// Split appends a new block formatted with flag, moves every record at or
// after splitPos into it, and returns its block id.
func (p *Page) Split(splitPos int, flag int) (file.BlockID, error) {
	newBlock, err := p.AppendNew(flag)
	if err != nil {
		return file.BlockID{}, err
	}
	newPage, err := NewPage(p.tx, newBlock, p.layout)
	if err != nil {
		return file.BlockID{}, err
	}
	if err := p.transferRecs(splitPos, newPage); err != nil {
		return file.BlockID{}, err
	}
	if err := newPage.SetFlag(flag); err != nil {
		return file.BlockID{}, err
	}
	newPage.Close()
	return newBlock, nil
}

func (p *Page) DataVal(slot int) (types.Constant, error) {
	return p.getVal(slot, "dataval")
}

func (p *Page) Flag() (int, error) {
	return p.tx.GetInt(p.block, 0)
}

func (p *Page) SetFlag(val int) error {
	return p.tx.SetInt(p.block, 0, val, true)
}

// AppendNew appends a new, formatted block to this page's file.
func (p *Page) AppendNew(flag int) (file.BlockID, error) {
	block, err := p.tx.Append(p.block.FileName())
	if err != nil {
		return file.BlockID{}, err
	}
	if err := p.tx.Pin(block); err != nil {
		return file.BlockID{}, err
	}
	if err := p.Format(block, flag); err != nil {
		return file.BlockID{}, err
	}
	return block, nil
}

// Format writes flag and a zero record count at the head of block, then
// zero-initializes every potential record slot.
func (p *Page) Format(block file.BlockID, flag int) error {
	if err := p.tx.SetInt(block, 0, flag, false); err != nil {
		return err
	}
	if err := p.tx.SetInt(block, 4, 0, false); err != nil {
		return err
	}
	recSize := p.layout.SlotSize()
	for pos := 2 * 4; pos+recSize <= p.tx.BlockSize(); pos += recSize {
		if err := p.makeDefaultRecord(block, pos); err != nil {
			return err
		}
	}
	return nil
}

func (p *Page) makeDefaultRecord(block file.BlockID, pos int) error {
	for _, fieldName := range p.layout.Schema().Fields() {
		offset := p.layout.Offset(fieldName)
		var err error
		if p.layout.Schema().FieldType(fieldName) == record.Integer {
			err = p.tx.SetInt(block, pos+offset, 0, false)
		} else {
			err = p.tx.SetString(block, pos+offset, "", false)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ChildNum returns the block-number field of a directory record.
func (p *Page) ChildNum(slot int) (int, error) {
	return p.getInt(slot, "block")
}

// InsertDir inserts a directory entry (val, blockNum) at slot.
func (p *Page) InsertDir(slot int, val types.Constant, blockNum int) error {
	if err := p.insert(slot); err != nil {
		return err
	}
	if err := p.setVal(slot, "dataval", val); err != nil {
		return err
	}
	return p.setInt(slot, "block", blockNum)
}

// DataRID returns the RID stored in a leaf record.
func (p *Page) DataRID(slot int) (types.RID, error) {
	block, err := p.getInt(slot, "block")
	if err != nil {
		return types.RID{}, err
	}
	id, err := p.getInt(slot, "id")
	if err != nil {
		return types.RID{}, err
	}
	return types.NewRID(block, id), nil
}

// InsertLeaf inserts a leaf entry (val, rid) at slot.
func (p *Page) InsertLeaf(slot int, val types.Constant, rid types.RID) error {
	if err := p.insert(slot); err != nil {
		return err
	}
	if err := p.setVal(slot, "dataval", val); err != nil {
		return err
	}
	if err := p.setInt(slot, "block", rid.BlockNumber()); err != nil {
		return err
	}
	return p.setInt(slot, "id", rid.Slot())
}

// Delete removes the record at slot, shifting later records down.
func (p *Page) Delete(slot int) error {
	n, err := p.NumRecs()
	if err != nil {
		return err
	}
	for i := slot + 1; i < n; i++ {
		if err := p.copyRecord(i, i-1); err != nil {
			return err
		}
	}
	return p.SetNumRecs(n - 1)
}

func (p *Page) NumRecs() (int, error) {
	return p.tx.GetInt(p.block, 4)
}

func (p *Page) SetNumRecs(n int) error {
	return p.tx.SetInt(p.block, 4, n, true)
}

func (p *Page) getInt(slot int, fieldName string) (int, error) {
	return p.tx.GetInt(p.block, p.fldPos(slot, fieldName))
}

func (p *Page) getString(slot int, fieldName string) (string, error) {
	return p.tx.GetString(p.block, p.fldPos(slot, fieldName))
}

func (p *Page) getVal(slot int, fieldName string) (types.Constant, error) {
	if p.layout.Schema().FieldType(fieldName) == record.Integer {
		v, err := p.getInt(slot, fieldName)
		if err != nil {
			return types.Constant{}, err
		}
		return types.NewConstantInt(v), nil
	}
	v, err := p.getString(slot, fieldName)
	if err != nil {
		return types.Constant{}, err
	}
	return types.NewConstantString(v), nil
}

func (p *Page) setInt(slot int, fieldName string, val int) error {
	return p.tx.SetInt(p.block, p.fldPos(slot, fieldName), val, true)
}

func (p *Page) setString(slot int, fieldName string, val string) error {
	return p.tx.SetString(p.block, p.fldPos(slot, fieldName), val, true)
}

func (p *Page) setVal(slot int, fieldName string, val types.Constant) error {
	if val.IsInt() {
		return p.setInt(slot, fieldName, val.AsInt())
	}
	return p.setString(slot, fieldName, val.AsString())
}

func (p *Page) insert(slot int) error {
	n, err := p.NumRecs()
	if err != nil {
		return err
	}
	for i := n; i > slot; i-- {
		if err := p.copyRecord(i-1, i); err != nil {
			return err
		}
	}
	return p.SetNumRecs(n + 1)
}

func (p *Page) copyRecord(from, to int) error {
	for _, fieldName := range p.layout.Schema().Fields() {
		val, err := p.getVal(from, fieldName)
		if err != nil {
			return err
		}
		if err := p.setVal(to, fieldName, val); err != nil {
			return err
		}
	}
	return nil
}

func (p *Page) transferRecs(slot int, dest *Page) error {
	destSlot := 0
	for {
		n, err := p.NumRecs()
		if err != nil {
			return err
		}
		if slot >= n {
			return nil
		}
		if err := dest.insert(destSlot); err != nil {
			return err
		}
		for _, fieldName := range p.layout.Schema().Fields() {
			val, err := p.getVal(slot, fieldName)
			if err != nil {
				return err
			}
			if err := dest.setVal(destSlot, fieldName, val); err != nil {
				return err
			}
		}
		if err := p.Delete(slot); err != nil {
			return err
		}
		destSlot++
		// slot is not incremented: Delete shifted the remaining records down.
	}
}

func (p *Page) fldPos(slot int, fieldName string) int {
	return p.slotPos(slot) + p.layout.Offset(fieldName)
}

func (p *Page) slotPos(slot int) int {
	return 2*4 + slot*p.layout.SlotSize()
}
