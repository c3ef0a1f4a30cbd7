package query

import (
	"strings"

	"quarrydb/internal/iface"
	"quarrydb/internal/record"
	"quarrydb/internal/types"
)

// Predicate is a conjunction (AND) of terms. An empty predicate is always
// satisfied, which is what a bare SELECT with no WHERE clause produces.
type Predicate struct {
	terms []*Term
}

func NewPredicate() *Predicate {
	return &Predicate{terms: make([]*Term, 0)}
}

func NewPredicateWithTerm(t *Term) *Predicate {
	return &Predicate{terms: []*Term{t}}
}

// ConjoinWith ANDs pred's terms into this predicate.
func (p *Predicate) ConjoinWith(pred *Predicate) {
	p.terms = append(p.terms, pred.terms...)
}

// IsSatisfied reports whether every term holds against s's current record.
func (p *Predicate) IsSatisfied(s iface.Scan) (bool, error) {
	for _, t := range p.terms {
		ok, err := t.IsSatisfied(s)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// ReductionFactor is the product of each term's own reduction factor.
func (p *Predicate) ReductionFactor(plan iface.Plan) int {
	factor := 1
	for _, t := range p.terms {
		factor *= t.ReductionFactor(plan)
	}
	return factor
}

// SelectSubPred returns the terms that only reference fields in schema, or
// nil if none do.
func (p *Predicate) SelectSubPred(schema *record.Schema) *Predicate {
	result := NewPredicate()
	for _, t := range p.terms {
		if t.AppliesTo(schema) {
			result.terms = append(result.terms, t)
		}
	}
	if len(result.terms) == 0 {
		return nil
	}
	return result
}

// JoinSubPred returns the terms that reference fields from both schema1 and
// schema2 but neither alone, i.e. the join conditions, or nil if none do.
func (p *Predicate) JoinSubPred(schema1, schema2 *record.Schema) *Predicate {
	result := NewPredicate()
	newSchema := record.NewSchema()
	newSchema.AddAll(schema1)
	newSchema.AddAll(schema2)

	for _, t := range p.terms {
		if !t.AppliesTo(schema1) && !t.AppliesTo(schema2) && t.AppliesTo(newSchema) {
			result.terms = append(result.terms, t)
		}
	}
	if len(result.terms) == 0 {
		return nil
	}
	return result
}

// EquatesWithConstant looks for a term of the form "fieldName = constant",
// the condition index selection relies on to pick a search key.
func (p *Predicate) EquatesWithConstant(fieldName string) (types.Constant, bool) {
	for _, t := range p.terms {
		if c, ok := t.EquatesWithConstant(fieldName); ok {
			return c, true
		}
	}
	return types.Constant{}, false
}

// EquatesWithField looks for a term of the form "fieldName = otherField",
// the condition a join relies on.
func (p *Predicate) EquatesWithField(fieldName string) (string, bool) {
	for _, t := range p.terms {
		if f, ok := t.EquatesWithField(fieldName); ok {
			return f, true
		}
	}
	return "", false
}

// Terms exposes the predicate's conjuncts, used by the planner to validate
// a parsed command before executing it.
func (p *Predicate) Terms() []*Term {
	return p.terms
}

func (p *Predicate) String() string {
	if len(p.terms) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(p.terms[0].String())
	for _, t := range p.terms[1:] {
		b.WriteString(" and ")
		b.WriteString(t.String())
	}
	return b.String()
}
