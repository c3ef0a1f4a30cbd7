package plan

import (
	"quarrydb/internal/iface"
	"quarrydb/internal/query"
	"quarrydb/internal/record"
)

// ProjectPlan restricts its underlying plan's output to a chosen set of
// fields.
type ProjectPlan struct {
	p      iface.Plan
	schema *record.Schema
}

func NewProjectPlan(p iface.Plan, fieldList []string) *ProjectPlan {
	schema := record.NewSchema()
	for _, fieldName := range fieldList {
		schema.Add(fieldName, p.Schema())
	}
	return &ProjectPlan{p: p, schema: schema}
}

func (pp *ProjectPlan) Open() (iface.Scan, error) {
	s, err := pp.p.Open()
	if err != nil {
		return nil, err
	}
	return query.NewProjectScan(s, pp.schema.Fields()), nil
}

func (pp *ProjectPlan) BlocksAccessed() int {
	return pp.p.BlocksAccessed()
}

func (pp *ProjectPlan) RecordsOutput() int {
	return pp.p.RecordsOutput()
}

func (pp *ProjectPlan) DistinctValues(fieldName string) int {
	return pp.p.DistinctValues(fieldName)
}

func (pp *ProjectPlan) Schema() *record.Schema {
	return pp.schema
}
