package query

import (
	"math"

	"quarrydb/internal/iface"
	"quarrydb/internal/record"
	"quarrydb/internal/types"
)

// Term is an equality comparison between two expressions, the atomic unit
// a Predicate conjoins: "fieldName = constant", "fieldName = otherField",
// or (degenerate but legal) "constant = constant".
type Term struct {
	lhs *Expression
	rhs *Expression
}

func NewTerm(lhs, rhs *Expression) *Term {
	return &Term{lhs: lhs, rhs: rhs}
}

// IsSatisfied reports whether both sides evaluate to the same value
// against s's current record.
func (t *Term) IsSatisfied(s iface.Scan) (bool, error) {
	lhsVal, err := t.lhs.Evaluate(s)
	if err != nil {
		return false, err
	}
	rhsVal, err := t.rhs.Evaluate(s)
	if err != nil {
		return false, err
	}
	return lhsVal.Equals(rhsVal), nil
}

func (t *Term) AppliesTo(schema *record.Schema) bool {
	return t.lhs.AppliesTo(schema) && t.rhs.AppliesTo(schema)
}

// ReductionFactor estimates how much this term narrows plan's output:
// the larger of the two fields' distinct-value counts when both sides are
// fields, that field's count when one side is, 1 (no reduction) for equal
// constants, and math.MaxInt (nothing passes) for unequal constants.
func (t *Term) ReductionFactor(p iface.Plan) int {
	if t.lhs.IsFieldName() && t.rhs.IsFieldName() {
		lhsName := t.lhs.AsFieldName()
		rhsName := t.rhs.AsFieldName()
		return max(p.DistinctValues(lhsName), p.DistinctValues(rhsName))
	}
	if t.lhs.IsFieldName() {
		return p.DistinctValues(t.lhs.AsFieldName())
	}
	if t.rhs.IsFieldName() {
		return p.DistinctValues(t.rhs.AsFieldName())
	}
	if t.lhs.AsConstant().Equals(t.rhs.AsConstant()) {
		return 1
	}
	return math.MaxInt
}

// EquatesWithConstant reports whether this term is "fieldName = constant"
// (in either order), returning the constant if so.
func (t *Term) EquatesWithConstant(fieldName string) (types.Constant, bool) {
	if t.lhs.IsFieldName() && t.lhs.AsFieldName() == fieldName && !t.rhs.IsFieldName() {
		return t.rhs.AsConstant(), true
	}
	if t.rhs.IsFieldName() && t.rhs.AsFieldName() == fieldName && !t.lhs.IsFieldName() {
		return t.lhs.AsConstant(), true
	}
	return types.Constant{}, false
}

// EquatesWithField reports whether this term is "fieldName = otherField"
// (in either order), returning the other field's name if so.
func (t *Term) EquatesWithField(fieldName string) (string, bool) {
	if t.lhs.IsFieldName() && t.lhs.AsFieldName() == fieldName && t.rhs.IsFieldName() {
		return t.rhs.AsFieldName(), true
	}
	if t.rhs.IsFieldName() && t.rhs.AsFieldName() == fieldName && t.lhs.IsFieldName() {
		return t.lhs.AsFieldName(), true
	}
	return "", false
}

func (t *Term) String() string {
	return t.lhs.String() + "=" + t.rhs.String()
}

// LHS and RHS expose the term's two sides, used by the planner to validate
// a parsed command before executing it.
func (t *Term) LHS() *Expression { return t.lhs }
func (t *Term) RHS() *Expression { return t.rhs }
