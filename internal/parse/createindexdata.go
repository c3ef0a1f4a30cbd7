package parse

// IndexKind names the physical index structure requested by an optional
// USING clause on CREATE INDEX. It is a small string enum local to parse
// so this package doesn't need to import the metadata package just to
// name the two structures; callers translate it to metadata.IndexType.
type IndexKind string

const (
	IndexKindBTree IndexKind = "btree"
	IndexKindHash  IndexKind = "hash"
)

// CreateIndexData is a parsed CREATE INDEX statement: the new index's
// name, the table and field it indexes, and which physical structure to
// build it as.
type CreateIndexData struct {
	idxName   string
	tableName string
	fieldName string
	idxKind   IndexKind
}

func NewCreateIndexData(idxName, tableName, fieldName string, idxKind IndexKind) *CreateIndexData {
	return &CreateIndexData{idxName: idxName, tableName: tableName, fieldName: fieldName, idxKind: idxKind}
}

func (cid *CreateIndexData) IndexName() string {
	return cid.idxName
}

func (cid *CreateIndexData) TableName() string {
	return cid.tableName
}

func (cid *CreateIndexData) FieldName() string {
	return cid.fieldName
}

func (cid *CreateIndexData) IndexKind() IndexKind {
	return cid.idxKind
}
