// Package index declares the common interface the static hash index and
// the B-tree index both implement, and is the access path IndexSelectScan
// and IndexUpdatePlanner consume.
package index

import "quarrydb/internal/types"

// Index is a secondary structure mapping a search key to the RIDs of the
// table records holding that key. BeforeFirst/Next/Close follow the same
// cursor protocol as iface.Scan; GetDataRID, Insert and Delete are the
// key-RID operations specific to an index.
type Index interface {
	// BeforeFirst positions the index before the first record (if any)
	// whose key matches searchKey.
	BeforeFirst(searchKey types.Constant) error

	// Next moves to the next matching record, returning false when none
	// remain.
	Next() (bool, error)

	// GetDataRID returns the RID stored in the current index record.
	GetDataRID() (types.RID, error)

	// Insert adds an entry mapping dataVal to rid.
	Insert(dataVal types.Constant, rid types.RID) error

	// Delete removes the entry mapping dataVal to rid.
	Delete(dataVal types.Constant, rid types.RID) error

	// Close releases any resources (an open bucket or leaf scan) this
	// index holds.
	Close()
}
