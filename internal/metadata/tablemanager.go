// Package metadata implements the system catalog: the tblcat/fldcat tables
// describing every user table's schema and physical layout, viewcat for
// stored view definitions, idxcat for the indexes built on table fields,
// and the statistics the planner consults to cost a query.
package metadata

import (
	"quarrydb/internal/record"
	"quarrydb/internal/storage/tx"
)

// MaxName is the maximum length, in characters, of a table, field, view or
// index name stored in a catalog table.
const MaxName = 16

// TableManager creates tables and looks up their layout, backed by the
// tblcat and fldcat catalog tables every other manager (views, indexes,
// statistics) builds on.
type TableManager struct {
	tcatLayout *record.Layout
	fcatLayout *record.Layout
}

// NewTableManager returns the table manager, creating the tblcat/fldcat
// catalog tables themselves when isNew is true (a fresh database).
func NewTableManager(isNew bool, t *tx.Transaction) (*TableManager, error) {
	tcatSchema := record.NewSchema()
	tcatSchema.AddStringField("tblname", MaxName)
	tcatSchema.AddIntField("slotsize")
	tcatLayout := record.NewLayout(tcatSchema)

	fcatSchema := record.NewSchema()
	fcatSchema.AddStringField("tblname", MaxName)
	fcatSchema.AddStringField("fldname", MaxName)
	fcatSchema.AddIntField("type")
	fcatSchema.AddIntField("length")
	fcatSchema.AddIntField("offset")
	fcatLayout := record.NewLayout(fcatSchema)

	tm := &TableManager{tcatLayout: tcatLayout, fcatLayout: fcatLayout}
	if isNew {
		if err := tm.CreateTable("tblcat", tcatSchema, t); err != nil {
			return nil, err
		}
		if err := tm.CreateTable("fldcat", fcatSchema, t); err != nil {
			return nil, err
		}
	}
	return tm, nil
}

// CreateTable registers tableName's schema in the catalogs and computes its
// physical layout.
func (tm *TableManager) CreateTable(tableName string, schema *record.Schema, t *tx.Transaction) error {
	layout := record.NewLayout(schema)

	tcat, err := record.NewTableScan(t, "tblcat", tm.tcatLayout)
	if err != nil {
		return err
	}
	if err := tcat.Insert(); err != nil {
		tcat.Close()
		return err
	}
	if err := tcat.SetString("tblname", tableName); err != nil {
		tcat.Close()
		return err
	}
	if err := tcat.SetInt("slotsize", layout.SlotSize()); err != nil {
		tcat.Close()
		return err
	}
	tcat.Close()

	fcat, err := record.NewTableScan(t, "fldcat", tm.fcatLayout)
	if err != nil {
		return err
	}
	defer fcat.Close()
	for _, fieldName := range schema.Fields() {
		if err := fcat.Insert(); err != nil {
			return err
		}
		if err := fcat.SetString("tblname", tableName); err != nil {
			return err
		}
		if err := fcat.SetString("fldname", fieldName); err != nil {
			return err
		}
		if err := fcat.SetInt("type", int(schema.FieldType(fieldName))); err != nil {
			return err
		}
		if err := fcat.SetInt("length", schema.Length(fieldName)); err != nil {
			return err
		}
		if err := fcat.SetInt("offset", layout.Offset(fieldName)); err != nil {
			return err
		}
	}
	return nil
}

// GetLayout rebuilds tableName's layout from the tblcat/fldcat catalogs.
func (tm *TableManager) GetLayout(tableName string, t *tx.Transaction) (*record.Layout, error) {
	size := -1

	tcat, err := record.NewTableScan(t, "tblcat", tm.tcatLayout)
	if err != nil {
		return nil, err
	}
	for tcat.Next() {
		name, err := tcat.GetString("tblname")
		if err != nil {
			tcat.Close()
			return nil, err
		}
		if name == tableName {
			size, err = tcat.GetInt("slotsize")
			if err != nil {
				tcat.Close()
				return nil, err
			}
			break
		}
	}
	tcat.Close()

	schema := record.NewSchema()
	offsets := make(map[string]int)

	fcat, err := record.NewTableScan(t, "fldcat", tm.fcatLayout)
	if err != nil {
		return nil, err
	}
	defer fcat.Close()
	for fcat.Next() {
		name, err := fcat.GetString("tblname")
		if err != nil {
			return nil, err
		}
		if name != tableName {
			continue
		}
		fieldName, err := fcat.GetString("fldname")
		if err != nil {
			return nil, err
		}
		fieldType, err := fcat.GetInt("type")
		if err != nil {
			return nil, err
		}
		fieldLen, err := fcat.GetInt("length")
		if err != nil {
			return nil, err
		}
		offset, err := fcat.GetInt("offset")
		if err != nil {
			return nil, err
		}
		offsets[fieldName] = offset
		schema.AddField(fieldName, record.FieldType(fieldType), fieldLen)
	}

	return record.NewLayoutWithOffsets(schema, offsets, size), nil
}
