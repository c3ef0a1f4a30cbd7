// Package query implements the relational layer: predicates built from
// terms and expressions, and the selection/projection/product scans that
// evaluate them against an underlying Scan.
package query

import (
	"quarrydb/internal/iface"
	"quarrydb/internal/record"
	"quarrydb/internal/types"
)

// Expression is either a literal constant or a field reference. Exactly
// one of its two forms is populated.
type Expression struct {
	val     types.Constant
	hasVal  bool
	fldName string
}

func NewExpressionVal(val types.Constant) *Expression {
	return &Expression{val: val, hasVal: true}
}

func NewExpressionFieldName(fieldName string) *Expression {
	return &Expression{fldName: fieldName}
}

func (e *Expression) IsFieldName() bool {
	return !e.hasVal
}

func (e *Expression) AsConstant() types.Constant {
	return e.val
}

func (e *Expression) AsFieldName() string {
	return e.fldName
}

// Evaluate returns this expression's value: the literal, or the named
// field's value read from s.
func (e *Expression) Evaluate(s iface.Scan) (types.Constant, error) {
	if e.hasVal {
		return e.val, nil
	}
	return s.GetVal(e.fldName)
}

// AppliesTo reports whether this expression can be evaluated against
// schema: always true for a literal, true for a field reference only if
// schema has that field.
func (e *Expression) AppliesTo(schema *record.Schema) bool {
	if e.hasVal {
		return true
	}
	return schema.HasField(e.fldName)
}

func (e *Expression) String() string {
	if e.hasVal {
		return e.val.String()
	}
	return e.fldName
}
