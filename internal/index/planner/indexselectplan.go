// Package planner implements index-aware query and update planning: an
// IndexSelectPlan that routes an equality predicate through an index
// instead of a full table scan, and an IndexUpdatePlanner that keeps every
// index on a table in sync as its records change.
package planner

import (
	"fmt"

	"quarrydb/internal/iface"
	"quarrydb/internal/index/query"
	"quarrydb/internal/metadata"
	"quarrydb/internal/record"
	"quarrydb/internal/types"
)

// IndexSelectPlan is the indexselect relational operator: it replaces a
// TablePlan with an equivalent plan that answers "field = val" through an
// index instead of a full scan. BasicQueryPlanner does not build this
// plan; it is constructed only through NewIndexSelectPlan.
type IndexSelectPlan struct {
	p   iface.Plan
	ii  *metadata.IndexInfo
	val types.Constant
}

func NewIndexSelectPlan(p iface.Plan, ii *metadata.IndexInfo, val types.Constant) *IndexSelectPlan {
	return &IndexSelectPlan{p: p, ii: ii, val: val}
}

// Open requires p to be a plain TablePlan's scan (a *record.TableScan);
// nothing else has RIDs an index entry could point at.
func (isp *IndexSelectPlan) Open() (iface.Scan, error) {
	s, err := isp.p.Open()
	if err != nil {
		return nil, err
	}
	ts, ok := s.(*record.TableScan)
	if !ok {
		return nil, fmt.Errorf("planner: index select plan requires a table scan, got %T", s)
	}
	idx, err := isp.ii.Open()
	if err != nil {
		return nil, err
	}
	return query.NewIndexSelectScan(ts, idx, isp.val)
}

// BlocksAccessed is the cost of traversing the index plus reading the
// matching data records.
func (isp *IndexSelectPlan) BlocksAccessed() int {
	return isp.ii.BlocksAccessed() + isp.RecordsOutput()
}

func (isp *IndexSelectPlan) RecordsOutput() int {
	return isp.ii.RecordsOutput()
}

func (isp *IndexSelectPlan) DistinctValues(fieldName string) int {
	return isp.ii.DistinctValues(fieldName)
}

func (isp *IndexSelectPlan) Schema() *record.Schema {
	return isp.p.Schema()
}
