package plan

import (
	"quarrydb/internal/iface"
	"quarrydb/internal/query"
	"quarrydb/internal/record"
)

// ProductPlan combines every record of p1 with every record of p2,
// exercising the Cartesian product that SQL joins are compiled down to in
// the absence of a join-aware operator.
type ProductPlan struct {
	p1, p2 iface.Plan
	schema *record.Schema
}

func NewProductPlan(p1, p2 iface.Plan) *ProductPlan {
	schema := record.NewSchema()
	schema.AddAll(p1.Schema())
	schema.AddAll(p2.Schema())
	return &ProductPlan{p1: p1, p2: p2, schema: schema}
}

func (pp *ProductPlan) Open() (iface.Scan, error) {
	s1, err := pp.p1.Open()
	if err != nil {
		return nil, err
	}
	s2, err := pp.p2.Open()
	if err != nil {
		return nil, err
	}
	return query.NewProductScan(s1, s2)
}

// BlocksAccessed is B1 + (R1 * B2): every block of p1, plus a full scan of
// p2 for each record p1 produces.
func (pp *ProductPlan) BlocksAccessed() int {
	return pp.p1.BlocksAccessed() + pp.p1.RecordsOutput()*pp.p2.BlocksAccessed()
}

func (pp *ProductPlan) RecordsOutput() int {
	return pp.p1.RecordsOutput() * pp.p2.RecordsOutput()
}

func (pp *ProductPlan) DistinctValues(fieldName string) int {
	if pp.p1.Schema().HasField(fieldName) {
		return pp.p1.DistinctValues(fieldName)
	}
	return pp.p2.DistinctValues(fieldName)
}

func (pp *ProductPlan) Schema() *record.Schema {
	return pp.schema
}
