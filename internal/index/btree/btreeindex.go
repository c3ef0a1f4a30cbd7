package btree

import (
	"math"

	"quarrydb/internal/record"
	"quarrydb/internal/storage/file"
	"quarrydb/internal/storage/tx"
	"quarrydb/internal/types"
)

// Index implements index.Index as a B+-tree: a directory file
// ("<idxname>_dir", root at block 0, flag = level above the leaves) routes
// a search key to the leaf block ("<idxname>_leaf") holding its entries.
type Index struct {
	tx         *tx.Transaction
	dirLayout  *record.Layout
	leafLayout *record.Layout
	leafTable  string
	leaf       *Leaf
	rootBlock  file.BlockID
}

// New opens (creating if necessary) the B-tree index idxName, whose leaf
// entries follow leafLayout's (block, id, dataval) schema.
func New(t *tx.Transaction, idxName string, leafLayout *record.Layout) (*Index, error) {
	idx := &Index{
		tx:         t,
		leafLayout: leafLayout,
		leafTable:  idxName + "_leaf",
	}

	leafSize, err := t.Size(idx.leafTable)
	if err != nil {
		return nil, err
	}
	if leafSize == 0 {
		block, err := t.Append(idx.leafTable)
		if err != nil {
			return nil, err
		}
		node, err := NewPage(t, block, leafLayout)
		if err != nil {
			return nil, err
		}
		if err := node.Format(block, -1); err != nil {
			return nil, err
		}
		node.Close()
	}

	dirSchema := record.NewSchema()
	dirSchema.Add("block", leafLayout.Schema())
	dirSchema.Add("dataval", leafLayout.Schema())
	dirTable := idxName + "_dir"
	idx.dirLayout = record.NewLayout(dirSchema)
	idx.rootBlock = file.NewBlockID(dirTable, 0)

	dirSize, err := t.Size(dirTable)
	if err != nil {
		return nil, err
	}
	if dirSize == 0 {
		if _, err := t.Append(dirTable); err != nil {
			return nil, err
		}
		node, err := NewPage(t, idx.rootBlock, idx.dirLayout)
		if err != nil {
			return nil, err
		}
		if err := node.Format(idx.rootBlock, 0); err != nil {
			return nil, err
		}

		var minVal types.Constant
		if dirSchema.FieldType("dataval") == record.Integer {
			minVal = types.NewConstantInt(math.MinInt32)
		} else {
			minVal = types.NewConstantString("")
		}
		if err := node.InsertDir(0, minVal, 0); err != nil {
			return nil, err
		}
		node.Close()
	}

	return idx, nil
}

// BeforeFirst routes searchKey through the directory to its leaf block and
// positions there.
func (idx *Index) BeforeFirst(searchKey types.Constant) error {
	idx.Close()
	root, err := NewDir(idx.tx, idx.rootBlock, idx.dirLayout)
	if err != nil {
		return err
	}
	blockNum, err := root.Search(searchKey)
	root.Close()
	if err != nil {
		return err
	}
	leafBlock := file.NewBlockID(idx.leafTable, blockNum)
	leaf, err := NewLeaf(idx.tx, leafBlock, idx.leafLayout, searchKey)
	if err != nil {
		return err
	}
	idx.leaf = leaf
	return nil
}

func (idx *Index) Next() (bool, error) {
	return idx.leaf.Next()
}

func (idx *Index) GetDataRID() (types.RID, error) {
	return idx.leaf.GetDataRID()
}

// Insert adds the entry (val, rid) to its leaf, propagating any resulting
// split up through the directory and growing the tree by a level if the
// split reaches the root.
func (idx *Index) Insert(val types.Constant, rid types.RID) error {
	if err := idx.BeforeFirst(val); err != nil {
		return err
	}
	entry, split, err := idx.leaf.Insert(rid)
	idx.leaf.Close()
	if err != nil {
		return err
	}
	if !split {
		return nil
	}

	root, err := NewDir(idx.tx, idx.rootBlock, idx.dirLayout)
	if err != nil {
		return err
	}
	defer root.Close()
	e2, rootSplit, err := root.Insert(entry)
	if err != nil {
		return err
	}
	if rootSplit {
		return root.MakeNewRoot(e2)
	}
	return nil
}

func (idx *Index) Delete(val types.Constant, rid types.RID) error {
	if err := idx.BeforeFirst(val); err != nil {
		return err
	}
	defer idx.leaf.Close()
	return idx.leaf.Delete(rid)
}

func (idx *Index) Close() {
	if idx.leaf != nil {
		idx.leaf.Close()
		idx.leaf = nil
	}
}

// SearchCost estimates the block accesses to find all entries with a given
// key: one leaf access plus the directory's height.
func SearchCost(numBlocks, recordsPerBlock int) int {
	return 1 + int(math.Log(float64(numBlocks))/math.Log(float64(recordsPerBlock)))
}
