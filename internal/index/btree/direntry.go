package btree

import "quarrydb/internal/types"

// DirEntry is a navigation aid returned when a leaf or directory page
// splits: a key value and the block number of the new page holding
// everything at or after that key, to be inserted into the parent level.
type DirEntry struct {
	dataVal  types.Constant
	blockNum int
}

func NewDirEntry(dataVal types.Constant, blockNum int) DirEntry {
	return DirEntry{dataVal: dataVal, blockNum: blockNum}
}

func (e DirEntry) DataVal() types.Constant {
	return e.dataVal
}

func (e DirEntry) BlockNumber() int {
	return e.blockNum
}
