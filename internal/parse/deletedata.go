package parse

import "quarrydb/internal/query"

// DeleteData is a parsed DELETE FROM statement: the target table and the
// WHERE predicate selecting which of its records to remove.
type DeleteData struct {
	tableName string
	pred      *query.Predicate
}

func NewDeleteData(tableName string, pred *query.Predicate) *DeleteData {
	return &DeleteData{tableName: tableName, pred: pred}
}

func (dd *DeleteData) TableName() string {
	return dd.tableName
}

func (dd *DeleteData) Pred() *query.Predicate {
	return dd.pred
}
