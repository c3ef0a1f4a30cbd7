package plan

import (
	"quarrydb/internal/iface"
	"quarrydb/internal/metadata"
	"quarrydb/internal/parse"
	"quarrydb/internal/storage/tx"
)

// BasicQueryPlanner compiles a parsed SELECT into a plan tree with a fixed
// shape: the tables' product, left to right in the order they were named,
// filtered by the predicate, then projected onto the selected fields. It
// does no cost-based reordering.
type BasicQueryPlanner struct {
	mdm *metadata.Manager
}

func NewBasicQueryPlanner(mdm *metadata.Manager) *BasicQueryPlanner {
	return &BasicQueryPlanner{mdm: mdm}
}

func (bqp *BasicQueryPlanner) CreatePlan(data *parse.QueryData, t *tx.Transaction) (iface.Plan, error) {
	var plans []iface.Plan

	for _, tableName := range data.Tables() {
		viewDef, found, err := bqp.mdm.GetViewDef(tableName, t)
		if err != nil {
			return nil, err
		}
		if found {
			parser := parse.NewParser(viewDef)
			viewData, err := parser.Query()
			if err != nil {
				return nil, err
			}
			viewPlan, err := bqp.CreatePlan(viewData, t)
			if err != nil {
				return nil, err
			}
			plans = append(plans, viewPlan)
			continue
		}
		tp, err := NewTablePlan(t, tableName, bqp.mdm)
		if err != nil {
			return nil, err
		}
		plans = append(plans, tp)
	}

	if len(plans) == 0 {
		return nil, nil
	}

	p := plans[0]
	for _, next := range plans[1:] {
		p = NewProductPlan(p, next)
	}

	p = NewSelectPlan(p, data.Pred())
	return NewProjectPlan(p, data.Fields()), nil
}
