// Package query implements the index-assisted relational operator built
// on top of internal/index: a scan that walks an index's matching entries
// instead of the whole table.
package query

import (
	"quarrydb/internal/index"
	"quarrydb/internal/record"
	"quarrydb/internal/types"
)

// IndexSelectScan evaluates "field = constant" by driving an Index cursor
// and following each matching entry's RID into the underlying table scan,
// rather than scanning every record and testing the predicate.
type IndexSelectScan struct {
	ts  *record.TableScan
	idx index.Index
	val types.Constant
}

func NewIndexSelectScan(ts *record.TableScan, idx index.Index, val types.Constant) (*IndexSelectScan, error) {
	iss := &IndexSelectScan{ts: ts, idx: idx, val: val}
	if err := iss.BeforeFirst(); err != nil {
		return nil, err
	}
	return iss, nil
}

func (iss *IndexSelectScan) BeforeFirst() error {
	return iss.idx.BeforeFirst(iss.val)
}

func (iss *IndexSelectScan) Next() bool {
	ok, err := iss.idx.Next()
	if err != nil || !ok {
		return false
	}
	rid, err := iss.idx.GetDataRID()
	if err != nil {
		return false
	}
	return iss.ts.MoveToRID(rid) == nil
}

func (iss *IndexSelectScan) GetInt(fieldName string) (int, error) {
	return iss.ts.GetInt(fieldName)
}

func (iss *IndexSelectScan) GetString(fieldName string) (string, error) {
	return iss.ts.GetString(fieldName)
}

func (iss *IndexSelectScan) GetVal(fieldName string) (types.Constant, error) {
	return iss.ts.GetVal(fieldName)
}

func (iss *IndexSelectScan) HasField(fieldName string) bool {
	return iss.ts.HasField(fieldName)
}

func (iss *IndexSelectScan) Close() {
	iss.idx.Close()
	iss.ts.Close()
}
