package parse

import "quarrydb/internal/record"

// CreateTableData is a parsed CREATE TABLE statement: the new table's name
// and field schema.
type CreateTableData struct {
	tableName string
	schema    *record.Schema
}

func NewCreateTableData(tableName string, schema *record.Schema) *CreateTableData {
	return &CreateTableData{tableName: tableName, schema: schema}
}

func (cd *CreateTableData) TableName() string {
	return cd.tableName
}

func (cd *CreateTableData) NewSchema() *record.Schema {
	return cd.schema
}
