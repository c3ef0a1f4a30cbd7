// Package hash implements a static hash index: a fixed number of buckets,
// each its own heap table, selected by the search key's hash code modulo
// the bucket count.
package hash

import (
	"strconv"

	"quarrydb/internal/record"
	"quarrydb/internal/storage/tx"
	"quarrydb/internal/types"
)

// NumBuckets is the fixed bucket count. Static hashing never rehashes, so
// growing the table only lengthens each bucket's chain, not the bucket
// count.
const NumBuckets = 100

// Index implements index.Index over NumBuckets heap tables named
// "<idxname><bucket>", each holding (block, id, dataval) rows.
type Index struct {
	tx        *tx.Transaction
	idxName   string
	layout    *record.Layout
	searchKey types.Constant
	ts        *record.TableScan
}

// New returns a hash index over idxName using layout for its bucket
// tables' (block, id, dataval) schema.
func New(t *tx.Transaction, idxName string, layout *record.Layout) *Index {
	return &Index{tx: t, idxName: idxName, layout: layout}
}

// BeforeFirst opens the bucket holding searchKey and positions before its
// first row.
func (hi *Index) BeforeFirst(searchKey types.Constant) error {
	hi.Close()
	hi.searchKey = searchKey
	bucket := searchKey.HashCode() % uint64(NumBuckets)
	tableName := hi.idxName + strconv.FormatUint(bucket, 10)
	ts, err := record.NewTableScan(hi.tx, tableName, hi.layout)
	if err != nil {
		return err
	}
	hi.ts = ts
	return nil
}

// Next advances to the next row in the current bucket whose dataval
// matches the search key.
func (hi *Index) Next() (bool, error) {
	for hi.ts.Next() {
		val, err := hi.ts.GetVal("dataval")
		if err != nil {
			return false, err
		}
		if val.Equals(hi.searchKey) {
			return true, nil
		}
	}
	return false, nil
}

// GetDataRID returns the RID stored in the current bucket row.
func (hi *Index) GetDataRID() (types.RID, error) {
	blockNum, err := hi.ts.GetInt("block")
	if err != nil {
		return types.RID{}, err
	}
	id, err := hi.ts.GetInt("id")
	if err != nil {
		return types.RID{}, err
	}
	return types.NewRID(blockNum, id), nil
}

// Insert adds a row (block, id, val) to the bucket val hashes to.
func (hi *Index) Insert(val types.Constant, rid types.RID) error {
	if err := hi.BeforeFirst(val); err != nil {
		return err
	}
	if err := hi.ts.Insert(); err != nil {
		return err
	}
	if err := hi.ts.SetInt("block", rid.BlockNumber()); err != nil {
		return err
	}
	if err := hi.ts.SetInt("id", rid.Slot()); err != nil {
		return err
	}
	return hi.ts.SetVal("dataval", val)
}

// Delete removes the bucket row whose RID equals rid.
func (hi *Index) Delete(val types.Constant, rid types.RID) error {
	if err := hi.BeforeFirst(val); err != nil {
		return err
	}
	for {
		found, err := hi.Next()
		if err != nil || !found {
			return err
		}
		current, err := hi.GetDataRID()
		if err != nil {
			return err
		}
		if current.Equals(rid) {
			return hi.ts.Delete()
		}
	}
}

// Close closes the current bucket's table scan, if one is open.
func (hi *Index) Close() {
	if hi.ts != nil {
		hi.ts.Close()
		hi.ts = nil
	}
}

// SearchCost estimates the block accesses needed to find all records with
// a given search key: the bucket's share of the table's blocks.
func SearchCost(numBlocks, recordsPerBlock int) int {
	return numBlocks / NumBuckets
}
