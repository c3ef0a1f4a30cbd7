package plan

import (
	"fmt"

	"quarrydb/internal/iface"
	"quarrydb/internal/metadata"
	"quarrydb/internal/parse"
	"quarrydb/internal/storage/tx"
)

// BasicUpdatePlanner executes INSERT/DELETE/UPDATE and DDL statements
// directly against a TablePlan's scan, with no index maintenance; see
// index/planner.IndexUpdatePlanner for the index-aware version.
type BasicUpdatePlanner struct {
	mdm *metadata.Manager
}

func NewBasicUpdatePlanner(mdm *metadata.Manager) *BasicUpdatePlanner {
	return &BasicUpdatePlanner{mdm: mdm}
}

func (bup *BasicUpdatePlanner) ExecuteDelete(data *parse.DeleteData, t *tx.Transaction) (int, error) {
	p, err := NewTablePlan(t, data.TableName(), bup.mdm)
	if err != nil {
		return 0, err
	}
	sp := NewSelectPlan(p, data.Pred())
	s, err := sp.Open()
	if err != nil {
		return 0, err
	}
	us, ok := s.(iface.UpdateScan)
	if !ok {
		return 0, fmt.Errorf("plan: table %q scan does not support updates", data.TableName())
	}
	defer us.Close()

	count := 0
	for us.Next() {
		if err := us.Delete(); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (bup *BasicUpdatePlanner) ExecuteModify(data *parse.ModifyData, t *tx.Transaction) (int, error) {
	p, err := NewTablePlan(t, data.TableName(), bup.mdm)
	if err != nil {
		return 0, err
	}
	sp := NewSelectPlan(p, data.Pred())
	s, err := sp.Open()
	if err != nil {
		return 0, err
	}
	us, ok := s.(iface.UpdateScan)
	if !ok {
		return 0, fmt.Errorf("plan: table %q scan does not support updates", data.TableName())
	}
	defer us.Close()

	count := 0
	for us.Next() {
		val, err := data.NewValue().Evaluate(us)
		if err != nil {
			return count, err
		}
		if err := us.SetVal(data.TargetField(), val); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (bup *BasicUpdatePlanner) ExecuteInsert(data *parse.InsertData, t *tx.Transaction) (int, error) {
	p, err := NewTablePlan(t, data.TableName(), bup.mdm)
	if err != nil {
		return 0, err
	}
	s, err := p.Open()
	if err != nil {
		return 0, err
	}
	us, ok := s.(iface.UpdateScan)
	if !ok {
		return 0, fmt.Errorf("plan: table %q scan does not support updates", data.TableName())
	}
	defer us.Close()

	if err := us.Insert(); err != nil {
		return 0, err
	}
	for i, fieldName := range data.Fields() {
		if err := us.SetVal(fieldName, data.Values()[i]); err != nil {
			return 0, err
		}
	}
	return 1, nil
}

func (bup *BasicUpdatePlanner) ExecuteCreateTable(data *parse.CreateTableData, t *tx.Transaction) (int, error) {
	if err := bup.mdm.CreateTable(data.TableName(), data.NewSchema(), t); err != nil {
		return 0, err
	}
	return 0, nil
}

func (bup *BasicUpdatePlanner) ExecuteCreateView(data *parse.CreateViewData, t *tx.Transaction) (int, error) {
	if err := bup.mdm.CreateView(data.ViewName(), data.ViewDef(), t); err != nil {
		return 0, err
	}
	return 0, nil
}

// ExecuteCreateIndex always builds a B-tree index: BasicUpdatePlanner has no
// index-maintenance layer of its own, so index/planner.IndexUpdatePlanner is
// the one that actually honors the USING clause.
func (bup *BasicUpdatePlanner) ExecuteCreateIndex(data *parse.CreateIndexData, t *tx.Transaction) (int, error) {
	if err := bup.mdm.CreateIndex(data.IndexName(), metadata.BTreeIndex, data.TableName(), data.FieldName(), t); err != nil {
		return 0, err
	}
	return 0, nil
}
