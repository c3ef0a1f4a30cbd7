package metadata

import (
	"quarrydb/internal/record"
	"quarrydb/internal/storage/tx"
)

// Manager is the single entry point the planner and update executors use
// for catalog access, delegating to the table, view, statistics and index
// managers it owns.
type Manager struct {
	tm *TableManager
	vm *ViewManager
	sm *StatManager
	im *IndexManager
}

// NewManager wires up the full catalog, creating the system tables
// (tblcat, fldcat, viewcat, idxcat) when isNew is true.
func NewManager(isNew bool, t *tx.Transaction) (*Manager, error) {
	tm, err := NewTableManager(isNew, t)
	if err != nil {
		return nil, err
	}
	vm, err := NewViewManager(isNew, tm, t)
	if err != nil {
		return nil, err
	}
	sm, err := NewStatManager(tm, t)
	if err != nil {
		return nil, err
	}
	im, err := NewIndexManager(isNew, tm, sm, t)
	if err != nil {
		return nil, err
	}
	return &Manager{tm: tm, vm: vm, sm: sm, im: im}, nil
}

func (m *Manager) CreateTable(tableName string, schema *record.Schema, t *tx.Transaction) error {
	return m.tm.CreateTable(tableName, schema, t)
}

func (m *Manager) GetLayout(tableName string, t *tx.Transaction) (*record.Layout, error) {
	return m.tm.GetLayout(tableName, t)
}

func (m *Manager) CreateView(viewName, viewDef string, t *tx.Transaction) error {
	return m.vm.CreateView(viewName, viewDef, t)
}

func (m *Manager) GetViewDef(viewName string, t *tx.Transaction) (string, bool, error) {
	return m.vm.GetViewDef(viewName, t)
}

func (m *Manager) CreateIndex(idxName string, idxType IndexType, tableName, fieldName string, t *tx.Transaction) error {
	return m.im.CreateIndex(idxName, idxType, tableName, fieldName, t)
}

func (m *Manager) GetIndexInfo(tableName string, t *tx.Transaction) (map[string]*IndexInfo, error) {
	return m.im.GetIndexInfo(tableName, t)
}

func (m *Manager) GetStatInfo(tableName string, layout *record.Layout, t *tx.Transaction) (StatInfo, error) {
	return m.sm.GetStatInfo(tableName, layout, t)
}
