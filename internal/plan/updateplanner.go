package plan

import (
	"quarrydb/internal/parse"
	"quarrydb/internal/storage/tx"
)

// UpdatePlanner executes parsed INSERT/DELETE/UPDATE and DDL statements,
// returning the number of affected rows (0 for DDL).
type UpdatePlanner interface {
	ExecuteInsert(data *parse.InsertData, t *tx.Transaction) (int, error)
	ExecuteDelete(data *parse.DeleteData, t *tx.Transaction) (int, error)
	ExecuteModify(data *parse.ModifyData, t *tx.Transaction) (int, error)
	ExecuteCreateTable(data *parse.CreateTableData, t *tx.Transaction) (int, error)
	ExecuteCreateView(data *parse.CreateViewData, t *tx.Transaction) (int, error)
	ExecuteCreateIndex(data *parse.CreateIndexData, t *tx.Transaction) (int, error)
}
