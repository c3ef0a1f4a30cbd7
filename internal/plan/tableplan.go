package plan

import (
	"quarrydb/internal/iface"
	"quarrydb/internal/metadata"
	"quarrydb/internal/record"
	"quarrydb/internal/storage/tx"
)

// TablePlan is the leaf access path: a direct scan over one table's heap
// file, with cost estimates drawn from the catalog's saved statistics.
type TablePlan struct {
	tx        *tx.Transaction
	tableName string
	layout    *record.Layout
	si        metadata.StatInfo
}

func NewTablePlan(t *tx.Transaction, tableName string, mdm *metadata.Manager) (*TablePlan, error) {
	layout, err := mdm.GetLayout(tableName, t)
	if err != nil {
		return nil, err
	}
	si, err := mdm.GetStatInfo(tableName, layout, t)
	if err != nil {
		return nil, err
	}
	return &TablePlan{tx: t, tableName: tableName, layout: layout, si: si}, nil
}

func (tp *TablePlan) Open() (iface.Scan, error) {
	return record.NewTableScan(tp.tx, tp.tableName, tp.layout)
}

func (tp *TablePlan) BlocksAccessed() int {
	return tp.si.BlocksAccessed()
}

func (tp *TablePlan) RecordsOutput() int {
	return tp.si.RecordsOutput()
}

func (tp *TablePlan) DistinctValues(fieldName string) int {
	return tp.si.DistinctValues(fieldName)
}

func (tp *TablePlan) Schema() *record.Schema {
	return tp.layout.Schema()
}
