// Package record implements the heap-file record layer: schemas describing
// a table's fields, the physical layout those fields take within a slot,
// the slotted record page that reads and writes them, and the table scan
// that walks a whole file of such pages.
package record

// FieldType identifies the conceptual type of a schema field. The values
// match the SQL type codes a JDBC-style catalog would report.
type FieldType int

const (
	Integer FieldType = 4  // matches java.sql.Types.INTEGER
	Varchar FieldType = 12 // matches java.sql.Types.VARCHAR
)

type fieldInfo struct {
	fieldType FieldType
	length    int
}

// Schema describes a table's fields: their names, types, and — for
// VARCHAR fields — their declared length.
type Schema struct {
	fields []string
	info   map[string]fieldInfo
}

// NewSchema returns an empty schema.
func NewSchema() *Schema {
	return &Schema{
		fields: make([]string, 0),
		info:   make(map[string]fieldInfo),
	}
}

// AddField adds a field of the given type and length. length is ignored
// for Integer fields.
func (s *Schema) AddField(fieldName string, fieldType FieldType, length int) {
	s.fields = append(s.fields, fieldName)
	s.info[fieldName] = fieldInfo{fieldType: fieldType, length: length}
}

// AddIntField adds an integer field.
func (s *Schema) AddIntField(fieldName string) {
	s.AddField(fieldName, Integer, 0)
}

// AddStringField adds a VARCHAR field with the given declared length —
// e.g. length 8 for a field declared VARCHAR(8).
func (s *Schema) AddStringField(fieldName string, length int) {
	s.AddField(fieldName, Varchar, length)
}

// Add adds fieldName to this schema with the same type and length it has
// in schema.
func (s *Schema) Add(fieldName string, schema *Schema) {
	s.AddField(fieldName, schema.FieldType(fieldName), schema.Length(fieldName))
}

// AddAll adds every field of schema to this schema.
func (s *Schema) AddAll(schema *Schema) {
	for _, fieldName := range schema.Fields() {
		s.Add(fieldName, schema)
	}
}

// Fields returns the schema's field names, in the order they were added.
func (s *Schema) Fields() []string {
	return s.fields
}

// HasField reports whether fieldName is part of this schema.
func (s *Schema) HasField(fieldName string) bool {
	_, ok := s.info[fieldName]
	return ok
}

// FieldType returns the type of fieldName.
func (s *Schema) FieldType(fieldName string) FieldType {
	return s.info[fieldName].fieldType
}

// Length returns the declared length of a VARCHAR field. Undefined for
// other field types.
func (s *Schema) Length(fieldName string) int {
	return s.info[fieldName].length
}
