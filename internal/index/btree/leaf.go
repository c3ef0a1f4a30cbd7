package btree

import (
	"quarrydb/internal/record"
	"quarrydb/internal/storage/file"
	"quarrydb/internal/storage/tx"
	"quarrydb/internal/types"
)

// Leaf positions and iterates over the leaf-file entries matching a single
// search key, following the overflow chain (linked via each page's flag)
// when more entries exist than fit in one block.
type Leaf struct {
	tx          *tx.Transaction
	layout      *record.Layout
	searchKey   types.Constant
	contents    *Page
	currentSlot int
	fileName    string
}

// NewLeaf opens block and positions just before the first entry (if any)
// matching searchKey.
func NewLeaf(t *tx.Transaction, block file.BlockID, layout *record.Layout, searchKey types.Constant) (*Leaf, error) {
	contents, err := NewPage(t, block, layout)
	if err != nil {
		return nil, err
	}
	slot, err := contents.FindSlotBefore(searchKey)
	if err != nil {
		return nil, err
	}
	return &Leaf{
		tx:          t,
		layout:      layout,
		searchKey:   searchKey,
		contents:    contents,
		currentSlot: slot,
		fileName:    block.FileName(),
	}, nil
}

func (l *Leaf) Close() {
	l.contents.Close()
}

// Next advances to the next entry matching the leaf's search key, crossing
// into an overflow block if the current page is exhausted.
func (l *Leaf) Next() (bool, error) {
	l.currentSlot++
	n, err := l.contents.NumRecs()
	if err != nil {
		return false, err
	}
	if l.currentSlot >= n {
		return l.tryOverflow()
	}
	val, err := l.contents.DataVal(l.currentSlot)
	if err != nil {
		return false, err
	}
	if val.Equals(l.searchKey) {
		return true, nil
	}
	return l.tryOverflow()
}

func (l *Leaf) GetDataRID() (types.RID, error) {
	return l.contents.DataRID(l.currentSlot)
}

// Delete removes the entry whose RID equals dataRID among those matching
// the leaf's search key.
func (l *Leaf) Delete(dataRID types.RID) error {
	for {
		found, err := l.Next()
		if err != nil || !found {
			return err
		}
		rid, err := l.GetDataRID()
		if err != nil {
			return err
		}
		if rid.Equals(dataRID) {
			return l.contents.Delete(l.currentSlot)
		}
	}
}

// Insert adds an entry for dataRID under the leaf's search key, splitting
// the page (or chaining an overflow block, for a run of equal keys) if it
// no longer fits. It returns the DirEntry to propagate to the parent
// directory when this insert caused a page split, or a zero DirEntry with
// ok=false otherwise.
func (l *Leaf) Insert(dataRID types.RID) (entry DirEntry, ok bool, err error) {
	flag, err := l.contents.Flag()
	if err != nil {
		return DirEntry{}, false, err
	}

	if flag >= 0 {
		firstVal, err := l.contents.DataVal(0)
		if err != nil {
			return DirEntry{}, false, err
		}
		if firstVal.CompareTo(l.searchKey) > 0 {
			newBlock, err := l.contents.Split(0, flag)
			if err != nil {
				return DirEntry{}, false, err
			}
			l.currentSlot = 0
			if err := l.contents.SetFlag(-1); err != nil {
				return DirEntry{}, false, err
			}
			if err := l.contents.InsertLeaf(l.currentSlot, l.searchKey, dataRID); err != nil {
				return DirEntry{}, false, err
			}
			return NewDirEntry(firstVal, newBlock.Number()), true, nil
		}
	}

	l.currentSlot++
	if err := l.contents.InsertLeaf(l.currentSlot, l.searchKey, dataRID); err != nil {
		return DirEntry{}, false, err
	}
	full, err := l.contents.IsFull()
	if err != nil {
		return DirEntry{}, false, err
	}
	if !full {
		return DirEntry{}, false, nil
	}

	n, err := l.contents.NumRecs()
	if err != nil {
		return DirEntry{}, false, err
	}
	firstKey, err := l.contents.DataVal(0)
	if err != nil {
		return DirEntry{}, false, err
	}
	lastKey, err := l.contents.DataVal(n - 1)
	if err != nil {
		return DirEntry{}, false, err
	}

	if lastKey.Equals(firstKey) {
		newBlock, err := l.contents.Split(1, flag)
		if err != nil {
			return DirEntry{}, false, err
		}
		if err := l.contents.SetFlag(newBlock.Number()); err != nil {
			return DirEntry{}, false, err
		}
		return DirEntry{}, false, nil
	}

	splitPos := n / 2
	splitKey, err := l.contents.DataVal(splitPos)
	if err != nil {
		return DirEntry{}, false, err
	}
	if splitKey.Equals(firstKey) {
		for splitPos < n {
			v, err := l.contents.DataVal(splitPos)
			if err != nil {
				return DirEntry{}, false, err
			}
			if !v.Equals(splitKey) {
				break
			}
			splitPos++
		}
		splitKey, err = l.contents.DataVal(splitPos)
		if err != nil {
			return DirEntry{}, false, err
		}
	} else {
		for splitPos > 0 {
			v, err := l.contents.DataVal(splitPos - 1)
			if err != nil {
				return DirEntry{}, false, err
			}
			if !v.Equals(splitKey) {
				break
			}
			splitPos--
		}
	}

	newBlock, err := l.contents.Split(splitPos, -1)
	if err != nil {
		return DirEntry{}, false, err
	}
	return NewDirEntry(splitKey, newBlock.Number()), true, nil
}

func (l *Leaf) tryOverflow() (bool, error) {
	firstKey, err := l.contents.DataVal(0)
	if err != nil {
		return false, err
	}
	flag, err := l.contents.Flag()
	if err != nil {
		return false, err
	}
	if !l.searchKey.Equals(firstKey) || flag < 0 {
		return false, nil
	}

	l.contents.Close()
	nextBlock := file.NewBlockID(l.fileName, flag)
	contents, err := NewPage(l.tx, nextBlock, l.layout)
	if err != nil {
		return false, err
	}
	l.contents = contents
	l.currentSlot = 0
	return true, nil
}
