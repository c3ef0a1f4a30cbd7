package plan

import (
	"quarrydb/internal/iface"
	"quarrydb/internal/parse"
	"quarrydb/internal/storage/tx"
)

// QueryPlanner turns a parsed SELECT statement into an execution plan.
type QueryPlanner interface {
	CreatePlan(data *parse.QueryData, t *tx.Transaction) (iface.Plan, error)
}
