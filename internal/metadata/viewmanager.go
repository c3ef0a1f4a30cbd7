package metadata

import (
	"quarrydb/internal/record"
	"quarrydb/internal/storage/tx"
)

// MaxViewDef is the maximum length of a stored view definition string.
// SimpleDB's catalog stores a view verbatim as SQL text rather than a
// parsed plan, so this bounds the CREATE VIEW statement's query text.
const MaxViewDef = 100

// ViewManager stores and looks up view definitions in the viewcat table.
type ViewManager struct {
	tm *TableManager
}

// NewViewManager returns the view manager, creating the viewcat catalog
// table when isNew is true.
func NewViewManager(isNew bool, tm *TableManager, t *tx.Transaction) (*ViewManager, error) {
	vm := &ViewManager{tm: tm}
	if isNew {
		schema := record.NewSchema()
		schema.AddStringField("viewname", MaxName)
		schema.AddStringField("viewdef", MaxViewDef)
		if err := tm.CreateTable("viewcat", schema, t); err != nil {
			return nil, err
		}
	}
	return vm, nil
}

// CreateView stores viewDef (the view's defining query, as SQL text) under
// viewName.
func (vm *ViewManager) CreateView(viewName, viewDef string, t *tx.Transaction) error {
	layout, err := vm.tm.GetLayout("viewcat", t)
	if err != nil {
		return err
	}
	ts, err := record.NewTableScan(t, "viewcat", layout)
	if err != nil {
		return err
	}
	defer ts.Close()

	if err := ts.Insert(); err != nil {
		return err
	}
	if err := ts.SetString("viewname", viewName); err != nil {
		return err
	}
	return ts.SetString("viewdef", viewDef)
}

// GetViewDef returns viewName's stored query text and whether it exists.
func (vm *ViewManager) GetViewDef(viewName string, t *tx.Transaction) (string, bool, error) {
	layout, err := vm.tm.GetLayout("viewcat", t)
	if err != nil {
		return "", false, err
	}
	ts, err := record.NewTableScan(t, "viewcat", layout)
	if err != nil {
		return "", false, err
	}
	defer ts.Close()

	for ts.Next() {
		name, err := ts.GetString("viewname")
		if err != nil {
			return "", false, err
		}
		if name == viewName {
			def, err := ts.GetString("viewdef")
			if err != nil {
				return "", false, err
			}
			return def, true, nil
		}
	}
	return "", false, nil
}
