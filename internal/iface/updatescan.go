package iface

import "quarrydb/internal/types"

// UpdateScan extends Scan with the mutating operations a table scan,
// index-assisted scan, or selection built on top of one supports. Scans
// that only read records (e.g. a bare projection with no writable
// underlying scan) need not implement it.
type UpdateScan interface {
	Scan

	SetVal(fieldName string, val types.Constant) error
	SetInt(fieldName string, val int) error
	SetString(fieldName string, val string) error

	// Insert creates a new record; its location is implementation
	// defined until GetRID is called.
	Insert() error

	// Delete removes the current record.
	Delete() error

	GetRID() (types.RID, error)
	MoveToRID(rid types.RID) error
}
