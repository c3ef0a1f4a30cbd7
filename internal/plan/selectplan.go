package plan

import (
	"quarrydb/internal/iface"
	"quarrydb/internal/query"
	"quarrydb/internal/record"
)

// SelectPlan wraps another plan with a predicate, restricting its output to
// the records the predicate is satisfied for.
type SelectPlan struct {
	p    iface.Plan
	pred *query.Predicate
}

func NewSelectPlan(p iface.Plan, pred *query.Predicate) *SelectPlan {
	return &SelectPlan{p: p, pred: pred}
}

func (sp *SelectPlan) Open() (iface.Scan, error) {
	s, err := sp.p.Open()
	if err != nil {
		return nil, err
	}
	return query.NewSelectScan(s, sp.pred), nil
}

// BlocksAccessed is the same as the underlying plan: a selection still has
// to scan every block to evaluate the predicate.
func (sp *SelectPlan) BlocksAccessed() int {
	return sp.p.BlocksAccessed()
}

func (sp *SelectPlan) RecordsOutput() int {
	return sp.p.RecordsOutput() / sp.pred.ReductionFactor(sp.p)
}

func (sp *SelectPlan) DistinctValues(fieldName string) int {
	if _, ok := sp.pred.EquatesWithConstant(fieldName); ok {
		return 1
	}
	if fieldName2, ok := sp.pred.EquatesWithField(fieldName); ok {
		return min(sp.p.DistinctValues(fieldName), sp.p.DistinctValues(fieldName2))
	}
	return sp.p.DistinctValues(fieldName)
}

func (sp *SelectPlan) Schema() *record.Schema {
	return sp.p.Schema()
}
