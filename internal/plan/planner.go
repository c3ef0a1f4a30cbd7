package plan

import (
	"fmt"
	"strings"
	"unicode"

	"quarrydb/internal/iface"
	"quarrydb/internal/parse"
	"quarrydb/internal/query"
	"quarrydb/internal/storage/tx"
)

// Planner is the engine's single entry point for compiling SQL text: it
// parses the statement, validates the parsed data, and delegates plan
// construction to a QueryPlanner or execution to an UpdatePlanner.
type Planner struct {
	qPlanner QueryPlanner
	uPlanner UpdatePlanner
}

func NewPlanner(qPlanner QueryPlanner, uPlanner UpdatePlanner) *Planner {
	return &Planner{qPlanner: qPlanner, uPlanner: uPlanner}
}

// CreateQueryPlan parses and plans a SELECT statement.
func (p *Planner) CreateQueryPlan(cmd string, t *tx.Transaction) (iface.Plan, error) {
	parser := parse.NewParser(cmd)
	data, err := parser.Query()
	if err != nil {
		return nil, err
	}
	if err := p.verifyQuery(data); err != nil {
		return nil, err
	}
	return p.qPlanner.CreatePlan(data, t)
}

// ExecuteUpdate parses and executes an INSERT/DELETE/UPDATE or DDL
// statement, returning the number of affected rows.
func (p *Planner) ExecuteUpdate(cmd string, t *tx.Transaction) (int, error) {
	parser := parse.NewParser(cmd)
	obj, err := parser.UpdateCmd()
	if err != nil {
		return 0, err
	}
	if err := p.verifyUpdate(obj); err != nil {
		return 0, err
	}

	switch data := obj.(type) {
	case *parse.InsertData:
		return p.uPlanner.ExecuteInsert(data, t)
	case *parse.DeleteData:
		return p.uPlanner.ExecuteDelete(data, t)
	case *parse.ModifyData:
		return p.uPlanner.ExecuteModify(data, t)
	case *parse.CreateTableData:
		return p.uPlanner.ExecuteCreateTable(data, t)
	case *parse.CreateViewData:
		return p.uPlanner.ExecuteCreateView(data, t)
	case *parse.CreateIndexData:
		return p.uPlanner.ExecuteCreateIndex(data, t)
	default:
		return 0, fmt.Errorf("plan: unrecognized update command type %T", obj)
	}
}

func (p *Planner) verifyUpdate(data any) error {
	if data == nil {
		return fmt.Errorf("plan: update verification failed: nil data")
	}

	switch cmd := data.(type) {
	case *parse.InsertData:
		if err := verifyInsertData(cmd); err != nil {
			return fmt.Errorf("plan: insert verification failed: %w", err)
		}
	case *parse.DeleteData:
		if err := verifyDeleteData(cmd); err != nil {
			return fmt.Errorf("plan: delete verification failed: %w", err)
		}
	case *parse.ModifyData:
		if err := verifyModifyData(cmd); err != nil {
			return fmt.Errorf("plan: modify verification failed: %w", err)
		}
	case *parse.CreateTableData:
		if err := verifyTableData(cmd); err != nil {
			return fmt.Errorf("plan: table verification failed: %w", err)
		}
	case *parse.CreateViewData:
		if err := verifyViewData(cmd); err != nil {
			return fmt.Errorf("plan: view verification failed: %w", err)
		}
	case *parse.CreateIndexData:
		if err := verifyIndexData(cmd); err != nil {
			return fmt.Errorf("plan: index verification failed: %w", err)
		}
	default:
		return fmt.Errorf("plan: unknown update command type %T", data)
	}
	return nil
}

func (p *Planner) verifyQuery(data *parse.QueryData) error {
	if data == nil {
		return fmt.Errorf("plan: query verification failed: nil data")
	}
	for _, col := range data.Fields() {
		if strings.TrimSpace(col) == "" {
			return fmt.Errorf("plan: query has an empty field name")
		}
	}
	for _, tbl := range data.Tables() {
		if strings.TrimSpace(tbl) == "" {
			return fmt.Errorf("plan: query has an empty table name")
		}
	}
	if data.Pred() != nil {
		if err := validatePredicate(data.Pred()); err != nil {
			return fmt.Errorf("plan: invalid predicate: %w", err)
		}
	}
	return nil
}

func verifyInsertData(cmd *parse.InsertData) error {
	if cmd.TableName() == "" {
		return fmt.Errorf("missing table name")
	}
	if len(cmd.Values()) == 0 {
		return fmt.Errorf("no values provided")
	}
	if len(cmd.Fields()) != len(cmd.Values()) {
		return fmt.Errorf("column count (%d) does not match values count (%d)", len(cmd.Fields()), len(cmd.Values()))
	}
	return nil
}

func verifyDeleteData(cmd *parse.DeleteData) error {
	if cmd.TableName() == "" {
		return fmt.Errorf("missing table name")
	}
	if cmd.Pred() != nil {
		if err := validatePredicate(cmd.Pred()); err != nil {
			return fmt.Errorf("invalid predicate: %w", err)
		}
	}
	return nil
}

func verifyModifyData(cmd *parse.ModifyData) error {
	if cmd.TableName() == "" {
		return fmt.Errorf("missing table name")
	}
	if cmd.NewValue() == nil {
		return fmt.Errorf("no new value specified for update")
	}
	if cmd.Pred() != nil {
		if err := validatePredicate(cmd.Pred()); err != nil {
			return fmt.Errorf("invalid predicate: %w", err)
		}
	}
	return nil
}

func verifyViewData(cmd *parse.CreateViewData) error {
	if cmd.ViewName() == "" {
		return fmt.Errorf("missing view name")
	}
	if cmd.ViewDef() == "" {
		return fmt.Errorf("missing view definition")
	}
	return nil
}

func verifyTableData(cmd *parse.CreateTableData) error {
	if cmd.TableName() == "" {
		return fmt.Errorf("missing table name")
	}
	if len(cmd.NewSchema().Fields()) == 0 {
		return fmt.Errorf("no fields defined")
	}
	return nil
}

func verifyIndexData(cmd *parse.CreateIndexData) error {
	if cmd.IndexName() == "" {
		return fmt.Errorf("missing index name")
	}
	if cmd.TableName() == "" {
		return fmt.Errorf("missing table name")
	}
	if cmd.FieldName() == "" {
		return fmt.Errorf("missing field name")
	}
	return nil
}

func validatePredicate(pred *query.Predicate) error {
	if pred == nil {
		return fmt.Errorf("nil predicate")
	}
	if len(pred.Terms()) == 0 {
		return nil
	}
	for i, term := range pred.Terms() {
		if err := validateTerm(term); err != nil {
			return fmt.Errorf("invalid term at index %d: %w", i, err)
		}
	}
	return checkDuplicateTerms(pred)
}

func validateTerm(term *query.Term) error {
	if term == nil {
		return fmt.Errorf("term is nil")
	}
	if err := validateExpression(term.LHS(), "left-hand"); err != nil {
		return err
	}
	return validateExpression(term.RHS(), "right-hand")
}

func validateExpression(expr *query.Expression, side string) error {
	if expr == nil {
		return fmt.Errorf("%s expression is nil", side)
	}
	if expr.IsFieldName() {
		if err := validateFieldName(expr.AsFieldName()); err != nil {
			return fmt.Errorf("%s field name invalid: %w", side, err)
		}
	}
	return nil
}

// validateFieldName checks that name is at most 64 characters, starts with
// a letter, and holds only letters, digits and underscores. This is
// stricter than the lexer's EatId, which also takes a leading underscore
// and has no length limit.
func validateFieldName(name string) error {
	if name == "" {
		return fmt.Errorf("field name cannot be empty")
	}
	if len(name) > 64 {
		return fmt.Errorf("field name too long (max 64 characters)")
	}
	if !unicode.IsLetter(rune(name[0])) {
		return fmt.Errorf("field name must start with a letter")
	}
	for _, ch := range name {
		if !unicode.IsLetter(ch) && !unicode.IsDigit(ch) && ch != '_' {
			return fmt.Errorf("invalid character %q in field name %q", ch, name)
		}
	}
	return nil
}

// checkDuplicateTerms rejects predicates with the exact same comparison
// written twice, a sign of a malformed WHERE clause rather than a
// legitimate redundancy.
func checkDuplicateTerms(p *query.Predicate) error {
	seen := make(map[string]bool)
	for _, term := range p.Terms() {
		s := term.String()
		if seen[s] {
			return fmt.Errorf("duplicate term found: %s", s)
		}
		seen[s] = true
	}
	return nil
}
