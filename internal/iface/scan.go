// Package iface holds the small interfaces that let the query engine's
// relational operators, plans and scans compose without depending on each
// other's concrete types: every selection, projection, join and table scan
// implements Scan (and usually UpdateScan), and every access path the
// planner considers implements Plan.
package iface

import "quarrydb/internal/types"

// Scan is implemented by every relational operator: a raw table scan, or
// a selection/projection/product built on top of one or more other scans.
// It is the uniform interface the query engine walks result sets through,
// regardless of what's actually producing the records.
type Scan interface {
	// BeforeFirst positions the scan before its first record.
	BeforeFirst() error

	// Next advances to the next record, returning false when exhausted.
	Next() bool

	GetInt(fieldName string) (int, error)
	GetString(fieldName string) (string, error)

	// GetVal returns the field's value as a type-independent Constant.
	GetVal(fieldName string) (types.Constant, error)

	HasField(fieldName string) bool

	// Close releases any resources (pinned buffers, subscans) the scan
	// holds. The scan must not be used afterward.
	Close()
}
