package metadata

import (
	"quarrydb/internal/record"
	"quarrydb/internal/storage/tx"
)

// IndexManager creates indexes and looks up the indexes defined on a
// table, backed by the idxcat catalog table.
type IndexManager struct {
	layout *record.Layout
	tm     *TableManager
	sm     *StatManager
}

// NewIndexManager returns the index manager, creating the idxcat catalog
// table when isNew is true.
func NewIndexManager(isNew bool, tm *TableManager, sm *StatManager, t *tx.Transaction) (*IndexManager, error) {
	if isNew {
		schema := record.NewSchema()
		schema.AddStringField("indexname", MaxName)
		schema.AddStringField("tablename", MaxName)
		schema.AddStringField("fieldname", MaxName)
		schema.AddIntField("idxtype")
		if err := tm.CreateTable("idxcat", schema, t); err != nil {
			return nil, err
		}
	}
	layout, err := tm.GetLayout("idxcat", t)
	if err != nil {
		return nil, err
	}
	return &IndexManager{tm: tm, sm: sm, layout: layout}, nil
}

// CreateIndex registers a new index of the given type over tableName's
// fieldName.
func (im *IndexManager) CreateIndex(idxName string, idxType IndexType, tableName, fieldName string, t *tx.Transaction) error {
	ts, err := record.NewTableScan(t, "idxcat", im.layout)
	if err != nil {
		return err
	}
	defer ts.Close()

	if err := ts.Insert(); err != nil {
		return err
	}
	if err := ts.SetString("indexname", idxName); err != nil {
		return err
	}
	if err := ts.SetString("tablename", tableName); err != nil {
		return err
	}
	if err := ts.SetString("fieldname", fieldName); err != nil {
		return err
	}
	return ts.SetInt("idxtype", int(idxType))
}

// GetIndexInfo returns, keyed by field name, every index defined on
// tableName.
func (im *IndexManager) GetIndexInfo(tableName string, t *tx.Transaction) (map[string]*IndexInfo, error) {
	result := make(map[string]*IndexInfo)

	ts, err := record.NewTableScan(t, "idxcat", im.layout)
	if err != nil {
		return nil, err
	}
	defer ts.Close()

	for ts.Next() {
		name, err := ts.GetString("tablename")
		if err != nil {
			return nil, err
		}
		if name != tableName {
			continue
		}
		idxName, err := ts.GetString("indexname")
		if err != nil {
			return nil, err
		}
		fldName, err := ts.GetString("fieldname")
		if err != nil {
			return nil, err
		}
		idxTypeVal, err := ts.GetInt("idxtype")
		if err != nil {
			return nil, err
		}

		tableLayout, err := im.tm.GetLayout(tableName, t)
		if err != nil {
			return nil, err
		}
		tableStat, err := im.sm.GetStatInfo(tableName, tableLayout, t)
		if err != nil {
			return nil, err
		}

		result[fldName] = NewIndexInfo(idxName, IndexType(idxTypeVal), fldName, tableLayout.Schema(), t, tableStat)
	}
	return result, nil
}
