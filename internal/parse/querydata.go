package parse

import (
	"strings"

	"quarrydb/internal/query"
)

// QueryData is a parsed SELECT statement: the fields to project, the
// tables to read from (joined implicitly via their Cartesian product, cut
// down by the predicate), and the WHERE clause.
type QueryData struct {
	fields []string
	tables []string
	pred   *query.Predicate
}

func NewQueryData(fields, tables []string, pred *query.Predicate) *QueryData {
	return &QueryData{fields: fields, tables: tables, pred: pred}
}

func (qd *QueryData) Fields() []string {
	return qd.fields
}

func (qd *QueryData) Tables() []string {
	return qd.tables
}

func (qd *QueryData) Pred() *query.Predicate {
	return qd.pred
}

// String reconstructs the canonical SQL text this query represents, the
// form CREATE VIEW stores as a view's definition.
func (qd *QueryData) String() string {
	var b strings.Builder
	b.WriteString("select ")
	b.WriteString(strings.Join(qd.fields, ", "))
	b.WriteString(" from ")
	b.WriteString(strings.Join(qd.tables, ", "))
	if predString := qd.pred.String(); predString != "" {
		b.WriteString(" where ")
		b.WriteString(predString)
	}
	return b.String()
}
