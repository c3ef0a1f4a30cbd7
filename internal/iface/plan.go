package iface

import "quarrydb/internal/record"

// Plan represents one way to execute a query (or sub-query): a table
// scan, or a selection/projection/product over one or more other plans.
// Every Plan can Open a Scan over its result and report cost estimates
// the planner uses to pick between competing plans.
type Plan interface {
	// Open returns a new Scan producing this plan's records.
	Open() (Scan, error)

	// BlocksAccessed estimates the number of block reads executing this
	// plan requires.
	BlocksAccessed() int

	// RecordsOutput estimates the number of records this plan produces.
	RecordsOutput() int

	// DistinctValues estimates the number of distinct values fieldName
	// takes across this plan's output.
	DistinctValues(fieldName string) int

	// Schema describes the fields of the records this plan produces.
	Schema() *record.Schema
}
