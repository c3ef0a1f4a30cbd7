package planner

import (
	"fmt"

	"quarrydb/internal/iface"
	"quarrydb/internal/metadata"
	"quarrydb/internal/parse"
	"quarrydb/internal/plan"
	"quarrydb/internal/storage/tx"
)

// IndexUpdatePlanner is plan.UpdatePlanner's index-aware counterpart: every
// INSERT/DELETE/UPDATE it executes against a table also inserts into,
// deletes from, or moves entries in that table's indexes, keeping them
// consistent with the base data. CREATE INDEX also dispatches on the
// parsed USING clause to build either a hash or a B-tree structure, where
// plan.BasicUpdatePlanner always builds a B-tree.
type IndexUpdatePlanner struct {
	mdm *metadata.Manager
}

func NewIndexUpdatePlanner(mdm *metadata.Manager) *IndexUpdatePlanner {
	return &IndexUpdatePlanner{mdm: mdm}
}

func (iup *IndexUpdatePlanner) ExecuteInsert(data *parse.InsertData, t *tx.Transaction) (int, error) {
	tableName := data.TableName()

	tp, err := plan.NewTablePlan(t, tableName, iup.mdm)
	if err != nil {
		return 0, err
	}
	scan, err := tp.Open()
	if err != nil {
		return 0, err
	}
	s, ok := scan.(iface.UpdateScan)
	if !ok {
		return 0, fmt.Errorf("planner: table %q scan does not support updates", tableName)
	}
	defer s.Close()

	if err := s.Insert(); err != nil {
		return 0, err
	}
	rid, err := s.GetRID()
	if err != nil {
		return 0, err
	}

	indexes, err := iup.mdm.GetIndexInfo(tableName, t)
	if err != nil {
		return 0, err
	}

	fields := data.Fields()
	values := data.Values()
	if len(fields) != len(values) {
		return 0, fmt.Errorf("planner: insert has %d fields but %d values", len(fields), len(values))
	}

	for i, fieldName := range fields {
		val := values[i]
		if err := s.SetVal(fieldName, val); err != nil {
			return 0, err
		}
		if ii, exists := indexes[fieldName]; exists {
			idx, err := ii.Open()
			if err != nil {
				return 0, err
			}
			err = idx.Insert(val, rid)
			idx.Close()
			if err != nil {
				return 0, err
			}
		}
	}
	return 1, nil
}

func (iup *IndexUpdatePlanner) ExecuteDelete(data *parse.DeleteData, t *tx.Transaction) (int, error) {
	tableName := data.TableName()

	tp, err := plan.NewTablePlan(t, tableName, iup.mdm)
	if err != nil {
		return 0, err
	}
	sp := plan.NewSelectPlan(tp, data.Pred())

	indexes, err := iup.mdm.GetIndexInfo(tableName, t)
	if err != nil {
		return 0, err
	}

	scan, err := sp.Open()
	if err != nil {
		return 0, err
	}
	s, ok := scan.(iface.UpdateScan)
	if !ok {
		return 0, fmt.Errorf("planner: table %q scan does not support updates", tableName)
	}
	defer s.Close()

	count := 0
	for s.Next() {
		rid, err := s.GetRID()
		if err != nil {
			return count, err
		}
		for fieldName, ii := range indexes {
			val, err := s.GetVal(fieldName)
			if err != nil {
				return count, err
			}
			idx, err := ii.Open()
			if err != nil {
				return count, err
			}
			err = idx.Delete(val, rid)
			idx.Close()
			if err != nil {
				return count, err
			}
		}
		if err := s.Delete(); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (iup *IndexUpdatePlanner) ExecuteModify(data *parse.ModifyData, t *tx.Transaction) (int, error) {
	tableName := data.TableName()
	fieldName := data.TargetField()

	tp, err := plan.NewTablePlan(t, tableName, iup.mdm)
	if err != nil {
		return 0, err
	}
	sp := plan.NewSelectPlan(tp, data.Pred())

	indexes, err := iup.mdm.GetIndexInfo(tableName, t)
	if err != nil {
		return 0, err
	}
	ii, indexed := indexes[fieldName]

	scan, err := sp.Open()
	if err != nil {
		return 0, err
	}
	s, ok := scan.(iface.UpdateScan)
	if !ok {
		return 0, fmt.Errorf("planner: table %q scan does not support updates", tableName)
	}
	defer s.Close()

	count := 0
	for s.Next() {
		newVal, err := data.NewValue().Evaluate(s)
		if err != nil {
			return count, err
		}
		oldVal, err := s.GetVal(fieldName)
		if err != nil {
			return count, err
		}
		if err := s.SetVal(fieldName, newVal); err != nil {
			return count, err
		}

		if indexed {
			rid, err := s.GetRID()
			if err != nil {
				return count, err
			}
			idx, err := ii.Open()
			if err != nil {
				return count, err
			}
			if err := idx.Delete(oldVal, rid); err != nil {
				idx.Close()
				return count, err
			}
			err = idx.Insert(newVal, rid)
			idx.Close()
			if err != nil {
				return count, err
			}
		}
		count++
	}
	return count, nil
}

func (iup *IndexUpdatePlanner) ExecuteCreateTable(data *parse.CreateTableData, t *tx.Transaction) (int, error) {
	if err := iup.mdm.CreateTable(data.TableName(), data.NewSchema(), t); err != nil {
		return 0, err
	}
	return 0, nil
}

func (iup *IndexUpdatePlanner) ExecuteCreateView(data *parse.CreateViewData, t *tx.Transaction) (int, error) {
	if err := iup.mdm.CreateView(data.ViewName(), data.ViewDef(), t); err != nil {
		return 0, err
	}
	return 0, nil
}

// ExecuteCreateIndex translates the parsed USING clause into the catalog's
// metadata.IndexType, defaulting to a B-tree when none was given.
func (iup *IndexUpdatePlanner) ExecuteCreateIndex(data *parse.CreateIndexData, t *tx.Transaction) (int, error) {
	idxType := metadata.BTreeIndex
	if data.IndexKind() == parse.IndexKindHash {
		idxType = metadata.HashIndexType
	}
	if err := iup.mdm.CreateIndex(data.IndexName(), idxType, data.TableName(), data.FieldName(), t); err != nil {
		return 0, err
	}
	return 0, nil
}
