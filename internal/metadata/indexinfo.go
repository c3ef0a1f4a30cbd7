package metadata

import (
	"quarrydb/internal/index"
	"quarrydb/internal/index/btree"
	"quarrydb/internal/index/hash"
	"quarrydb/internal/record"
	"quarrydb/internal/storage/tx"
)

// IndexType selects the physical index structure CREATE INDEX builds.
// BTreeIndex is the default when USING is omitted. Both index structures
// answer equality lookups only: a search takes a single key.
type IndexType int

const (
	BTreeIndex IndexType = iota
	HashIndexType
)

// IndexInfo describes one catalog-registered index: the fields needed to
// open it and the cost estimates the planner uses to decide whether
// scanning through it beats a full table scan.
type IndexInfo struct {
	idxName     string
	idxType     IndexType
	fldName     string
	tx          *tx.Transaction
	tableSchema *record.Schema
	idxLayout   *record.Layout
	si          StatInfo
}

func NewIndexInfo(idxName string, idxType IndexType, fldName string, tableSchema *record.Schema, t *tx.Transaction, si StatInfo) *IndexInfo {
	ii := &IndexInfo{
		idxName:     idxName,
		idxType:     idxType,
		fldName:     fldName,
		tx:          t,
		tableSchema: tableSchema,
		si:          si,
	}
	ii.idxLayout = ii.createIdxLayout()
	return ii
}

// Open returns a new handle on the index's physical structure, hash or
// B-tree depending on how it was created.
func (ii *IndexInfo) Open() (index.Index, error) {
	switch ii.idxType {
	case HashIndexType:
		return hash.New(ii.tx, ii.idxName, ii.idxLayout), nil
	default:
		return btree.New(ii.tx, ii.idxName, ii.idxLayout)
	}
}

// BlocksAccessed estimates the block reads needed to find every record
// matching a key through this index.
func (ii *IndexInfo) BlocksAccessed() int {
	rpb := ii.tx.BlockSize() / ii.idxLayout.SlotSize()
	numBlocks := ii.si.RecordsOutput() / rpb
	if ii.idxType == HashIndexType {
		return hash.SearchCost(numBlocks, rpb)
	}
	return btree.SearchCost(numBlocks, rpb)
}

// RecordsOutput estimates how many records a lookup on the indexed field
// returns: the table's records, spread evenly across its distinct values.
func (ii *IndexInfo) RecordsOutput() int {
	return ii.si.RecordsOutput() / ii.si.DistinctValues(ii.fldName)
}

// DistinctValues reports 1 for the indexed field itself (a lookup pins
// down a single value) and defers to the table's statistics otherwise.
func (ii *IndexInfo) DistinctValues(fieldName string) int {
	if ii.fldName == fieldName {
		return 1
	}
	return ii.si.DistinctValues(fieldName)
}

func (ii *IndexInfo) createIdxLayout() *record.Layout {
	schema := record.NewSchema()
	schema.AddIntField("block")
	schema.AddIntField("id")
	if ii.tableSchema.FieldType(ii.fldName) == record.Integer {
		schema.AddIntField("dataval")
	} else {
		schema.AddStringField("dataval", ii.tableSchema.Length(ii.fldName))
	}
	return record.NewLayout(schema)
}
