package query

import (
	"testing"

	"quarrydb/internal/record"
	"quarrydb/internal/types"
)

func schemaWith(fields ...string) *record.Schema {
	s := record.NewSchema()
	for _, f := range fields {
		s.AddIntField(f)
	}
	return s
}

func TestTermEquatesWithConstant(t *testing.T) {
	term := NewTerm(NewExpressionFieldName("id"), NewExpressionVal(types.NewConstantInt(5)))

	val, ok := term.EquatesWithConstant("id")
	if !ok {
		t.Fatal("expected EquatesWithConstant to match field id")
	}
	if !val.Equals(types.NewConstantInt(5)) {
		t.Errorf("EquatesWithConstant value = %v, want 5", val)
	}

	if _, ok := term.EquatesWithConstant("other"); ok {
		t.Error("did not expect EquatesWithConstant to match an unrelated field")
	}
}

func TestTermEquatesWithFieldIsSymmetric(t *testing.T) {
	term := NewTerm(NewExpressionFieldName("a"), NewExpressionFieldName("b"))

	if other, ok := term.EquatesWithField("a"); !ok || other != "b" {
		t.Errorf("EquatesWithField(a) = (%q, %v), want (b, true)", other, ok)
	}
	if other, ok := term.EquatesWithField("b"); !ok || other != "a" {
		t.Errorf("EquatesWithField(b) = (%q, %v), want (a, true)", other, ok)
	}
	if _, ok := term.EquatesWithField("c"); ok {
		t.Error("did not expect EquatesWithField to match an unrelated field")
	}
}

func TestTermAppliesTo(t *testing.T) {
	term := NewTerm(NewExpressionFieldName("id"), NewExpressionVal(types.NewConstantInt(1)))
	if !term.AppliesTo(schemaWith("id")) {
		t.Error("expected term to apply to a schema containing id")
	}
	if term.AppliesTo(schemaWith("other")) {
		t.Error("did not expect term to apply to a schema missing id")
	}
}

func TestPredicateTermsAndConjoin(t *testing.T) {
	t1 := NewTerm(NewExpressionFieldName("id"), NewExpressionVal(types.NewConstantInt(1)))
	t2 := NewTerm(NewExpressionFieldName("name"), NewExpressionVal(types.NewConstantString("x")))

	p := NewPredicateWithTerm(t1)
	p.ConjoinWith(NewPredicateWithTerm(t2))

	if len(p.Terms()) != 2 {
		t.Fatalf("expected 2 terms after conjoin, got %d", len(p.Terms()))
	}
}

func TestPredicateEquatesWithConstant(t *testing.T) {
	p := NewPredicateWithTerm(NewTerm(NewExpressionFieldName("id"), NewExpressionVal(types.NewConstantInt(7))))

	val, ok := p.EquatesWithConstant("id")
	if !ok || !val.Equals(types.NewConstantInt(7)) {
		t.Errorf("EquatesWithConstant(id) = (%v, %v), want (7, true)", val, ok)
	}
}

func TestPredicateSelectSubPredOnlyKeepsApplicableTerms(t *testing.T) {
	p := NewPredicateWithTerm(NewTerm(NewExpressionFieldName("id"), NewExpressionVal(types.NewConstantInt(1))))
	p.ConjoinWith(NewPredicateWithTerm(NewTerm(NewExpressionFieldName("name"), NewExpressionVal(types.NewConstantString("x")))))

	sub := p.SelectSubPred(schemaWith("id"))
	if len(sub.Terms()) != 1 {
		t.Fatalf("expected 1 applicable term, got %d", len(sub.Terms()))
	}
}
