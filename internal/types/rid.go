package types

import "fmt"

// RID (record identifier) locates a record as a block number plus a slot
// index within that block's record page. It is the address the B-tree and
// hash indexes store alongside a search key, and the value TableScan hands
// back from GetRID/accepts in MoveToRID.
type RID struct {
	blockNum int
	slot     int
}

// NewRID builds a record identifier for the given block and slot.
func NewRID(blockNum, slot int) RID {
	return RID{blockNum: blockNum, slot: slot}
}

func (rid RID) BlockNumber() int {
	return rid.blockNum
}

func (rid RID) Slot() int {
	return rid.slot
}

func (rid RID) Equals(other RID) bool {
	return rid.blockNum == other.blockNum && rid.slot == other.slot
}

func (rid RID) String() string {
	return fmt.Sprintf("[%d, %d]", rid.blockNum, rid.slot)
}
