package btree

import (
	"quarrydb/internal/record"
	"quarrydb/internal/storage/file"
	"quarrydb/internal/storage/tx"
	"quarrydb/internal/types"
)

// Dir is one node of the directory hierarchy rooted at block 0 of the
// directory file. A page's flag records its level: > 0 for an internal
// directory page, 0 for a page whose children are leaves.
type Dir struct {
	tx       *tx.Transaction
	layout   *record.Layout
	contents *Page
	fileName string
}

func NewDir(t *tx.Transaction, block file.BlockID, layout *record.Layout) (*Dir, error) {
	contents, err := NewPage(t, block, layout)
	if err != nil {
		return nil, err
	}
	return &Dir{tx: t, layout: layout, contents: contents, fileName: block.FileName()}, nil
}

func (d *Dir) Close() {
	d.contents.Close()
}

// Search walks down from this node to the leaf block that should hold
// searchKey, returning its block number.
func (d *Dir) Search(searchKey types.Constant) (int, error) {
	childBlock, err := d.findChildBlock(searchKey)
	if err != nil {
		return 0, err
	}

	for {
		flag, err := d.contents.Flag()
		if err != nil {
			return 0, err
		}
		if flag <= 0 {
			break
		}
		d.contents.Close()
		contents, err := NewPage(d.tx, childBlock, d.layout)
		if err != nil {
			return 0, err
		}
		d.contents = contents
		childBlock, err = d.findChildBlock(searchKey)
		if err != nil {
			return 0, err
		}
	}
	return childBlock.Number(), nil
}

// MakeNewRoot grows the tree by one level: the current root's contents move
// to a new block, and the root (still at block 0) becomes an entry pointing
// at that block plus the entry e from the split that triggered this call.
func (d *Dir) MakeNewRoot(e DirEntry) error {
	firstVal, err := d.contents.DataVal(0)
	if err != nil {
		return err
	}
	level, err := d.contents.Flag()
	if err != nil {
		return err
	}
	newBlock, err := d.contents.Split(0, level)
	if err != nil {
		return err
	}
	oldRoot := NewDirEntry(firstVal, newBlock.Number())
	if _, err := d.insertEntry(oldRoot); err != nil {
		return err
	}
	if _, err := d.insertEntry(e); err != nil {
		return err
	}
	return d.contents.SetFlag(level + 1)
}

// Insert adds e to the subtree rooted at this node, recursing down to the
// level just above the leaves. It returns the entry to propagate upward
// when a page at or below this node split.
func (d *Dir) Insert(e DirEntry) (DirEntry, bool, error) {
	flag, err := d.contents.Flag()
	if err != nil {
		return DirEntry{}, false, err
	}
	if flag == 0 {
		return d.insertEntry(e)
	}

	childBlock, err := d.findChildBlock(e.DataVal())
	if err != nil {
		return DirEntry{}, false, err
	}
	child, err := NewDir(d.tx, childBlock, d.layout)
	if err != nil {
		return DirEntry{}, false, err
	}
	myEntry, split, err := child.Insert(e)
	child.Close()
	if err != nil {
		return DirEntry{}, false, err
	}
	if split {
		return d.insertEntry(myEntry)
	}
	return DirEntry{}, false, nil
}

func (d *Dir) insertEntry(e DirEntry) (DirEntry, bool, error) {
	slot, err := d.contents.FindSlotBefore(e.DataVal())
	if err != nil {
		return DirEntry{}, false, err
	}
	newSlot := slot + 1
	if err := d.contents.InsertDir(newSlot, e.DataVal(), e.BlockNumber()); err != nil {
		return DirEntry{}, false, err
	}
	full, err := d.contents.IsFull()
	if err != nil {
		return DirEntry{}, false, err
	}
	if !full {
		return DirEntry{}, false, nil
	}

	level, err := d.contents.Flag()
	if err != nil {
		return DirEntry{}, false, err
	}
	n, err := d.contents.NumRecs()
	if err != nil {
		return DirEntry{}, false, err
	}
	splitPos := n / 2
	splitVal, err := d.contents.DataVal(splitPos)
	if err != nil {
		return DirEntry{}, false, err
	}
	newBlock, err := d.contents.Split(splitPos, level)
	if err != nil {
		return DirEntry{}, false, err
	}
	return NewDirEntry(splitVal, newBlock.Number()), true, nil
}

func (d *Dir) findChildBlock(searchKey types.Constant) (file.BlockID, error) {
	slot, err := d.contents.FindSlotBefore(searchKey)
	if err != nil {
		return file.BlockID{}, err
	}
	n, err := d.contents.NumRecs()
	if err != nil {
		return file.BlockID{}, err
	}
	if slot+1 < n {
		next, err := d.contents.DataVal(slot + 1)
		if err != nil {
			return file.BlockID{}, err
		}
		if next.Equals(searchKey) {
			slot++
		}
	}
	blockNum, err := d.contents.ChildNum(slot)
	if err != nil {
		return file.BlockID{}, err
	}
	return file.NewBlockID(d.fileName, blockNum), nil
}
