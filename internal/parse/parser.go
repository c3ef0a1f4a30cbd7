package parse

import (
	"fmt"

	"quarrydb/internal/query"
	"quarrydb/internal/record"
	"quarrydb/internal/types"
)

// Parser is a recursive-descent parser over the lexer's token stream,
// turning SQL text into the query package's Predicate/Term/Expression
// types and this package's *Data structs.
type Parser struct {
	lexer *Lexer
}

func NewParser(s string) *Parser {
	return &Parser{lexer: NewLexer(s)}
}

// Field parses <Field> := IdTok.
func (p *Parser) Field() (string, error) {
	return p.lexer.EatId()
}

// Constant parses <Constant> := StrTok | IntTok.
func (p *Parser) Constant() (types.Constant, error) {
	if p.lexer.MatchStringConstant() {
		s, err := p.lexer.EatStringConstant()
		if err != nil {
			return types.Constant{}, err
		}
		return types.NewConstantString(s), nil
	}
	n, err := p.lexer.EatIntConstant()
	if err != nil {
		return types.Constant{}, err
	}
	return types.NewConstantInt(n), nil
}

// Expression parses <Expression> := <Field> | <Constant>.
func (p *Parser) Expression() (*query.Expression, error) {
	if p.lexer.MatchId() {
		field, err := p.Field()
		if err != nil {
			return nil, err
		}
		return query.NewExpressionFieldName(field), nil
	}
	c, err := p.Constant()
	if err != nil {
		return nil, err
	}
	return query.NewExpressionVal(c), nil
}

// Term parses <Term> := <Expression> = <Expression>.
func (p *Parser) Term() (*query.Term, error) {
	lhs, err := p.Expression()
	if err != nil {
		return nil, err
	}
	if err := p.lexer.EatDelim('='); err != nil {
		return nil, err
	}
	rhs, err := p.Expression()
	if err != nil {
		return nil, err
	}
	return query.NewTerm(lhs, rhs), nil
}

// Predicate parses <Predicate> := <Term> [ AND <Predicate> ].
func (p *Parser) Predicate() (*query.Predicate, error) {
	t, err := p.Term()
	if err != nil {
		return nil, err
	}
	pred := query.NewPredicateWithTerm(t)

	if p.lexer.MatchKeyword("and") {
		if err := p.lexer.EatKeyword("and"); err != nil {
			return nil, err
		}
		rest, err := p.Predicate()
		if err != nil {
			return nil, err
		}
		pred.ConjoinWith(rest)
	}
	return pred, nil
}

// Query parses <Query> := SELECT <SelectList> FROM <TableList> [ WHERE <Predicate> ].
func (p *Parser) Query() (*QueryData, error) {
	if err := p.lexer.EatKeyword("select"); err != nil {
		return nil, err
	}
	fields, err := p.SelectList()
	if err != nil {
		return nil, err
	}
	if err := p.lexer.EatKeyword("from"); err != nil {
		return nil, err
	}
	tables, err := p.TableList()
	if err != nil {
		return nil, err
	}

	pred := query.NewPredicate()
	if p.lexer.MatchKeyword("where") {
		if err := p.lexer.EatKeyword("where"); err != nil {
			return nil, err
		}
		pred, err = p.Predicate()
		if err != nil {
			return nil, err
		}
	}
	return NewQueryData(fields, tables, pred), nil
}

// SelectList parses <SelectList> := <Field> [ , <SelectList> ].
func (p *Parser) SelectList() ([]string, error) {
	field, err := p.Field()
	if err != nil {
		return nil, err
	}
	fields := []string{field}

	if p.lexer.MatchDelim(',') {
		if err := p.lexer.EatDelim(','); err != nil {
			return nil, err
		}
		rest, err := p.SelectList()
		if err != nil {
			return nil, err
		}
		fields = append(fields, rest...)
	}
	return fields, nil
}

// TableList parses <TableList> := IdTok [ , <TableList> ].
func (p *Parser) TableList() ([]string, error) {
	table, err := p.lexer.EatId()
	if err != nil {
		return nil, err
	}
	tables := []string{table}

	if p.lexer.MatchDelim(',') {
		if err := p.lexer.EatDelim(','); err != nil {
			return nil, err
		}
		rest, err := p.TableList()
		if err != nil {
			return nil, err
		}
		tables = append(tables, rest...)
	}
	return tables, nil
}

// UpdateCmd parses any non-SELECT statement (INSERT, DELETE, UPDATE,
// CREATE TABLE/VIEW/INDEX), returning the matching *Data struct.
func (p *Parser) UpdateCmd() (any, error) {
	switch {
	case p.lexer.MatchKeyword("insert"):
		return p.Insert()
	case p.lexer.MatchKeyword("delete"):
		return p.Delete()
	case p.lexer.MatchKeyword("update"):
		return p.Modify()
	case p.lexer.MatchKeyword("create"):
		return p.Create()
	default:
		return nil, fmt.Errorf("parse: unrecognized statement")
	}
}

// Create parses <Create> := CREATE ( TABLE <CreateTable> | VIEW <CreateView> | INDEX <CreateIndex> ).
func (p *Parser) Create() (any, error) {
	if err := p.lexer.EatKeyword("create"); err != nil {
		return nil, err
	}
	switch {
	case p.lexer.MatchKeyword("table"):
		return p.CreateTable()
	case p.lexer.MatchKeyword("view"):
		return p.CreateView()
	case p.lexer.MatchKeyword("index"):
		return p.CreateIndex()
	default:
		return nil, fmt.Errorf("parse: expected TABLE, VIEW or INDEX after CREATE")
	}
}

// Delete parses <Delete> := DELETE FROM IdTok [ WHERE <Predicate> ].
func (p *Parser) Delete() (*DeleteData, error) {
	if err := p.lexer.EatKeyword("delete"); err != nil {
		return nil, err
	}
	if err := p.lexer.EatKeyword("from"); err != nil {
		return nil, err
	}
	tableName, err := p.lexer.EatId()
	if err != nil {
		return nil, err
	}

	pred := query.NewPredicate()
	if p.lexer.MatchKeyword("where") {
		if err := p.lexer.EatKeyword("where"); err != nil {
			return nil, err
		}
		pred, err = p.Predicate()
		if err != nil {
			return nil, err
		}
	}
	return NewDeleteData(tableName, pred), nil
}

// Insert parses <Insert> := INSERT INTO IdTok ( <FieldList> ) VALUES ( <ConstList> ).
func (p *Parser) Insert() (*InsertData, error) {
	if err := p.lexer.EatKeyword("insert"); err != nil {
		return nil, err
	}
	if err := p.lexer.EatKeyword("into"); err != nil {
		return nil, err
	}
	tableName, err := p.lexer.EatId()
	if err != nil {
		return nil, err
	}

	if err := p.lexer.EatDelim('('); err != nil {
		return nil, err
	}
	fields, err := p.FieldList()
	if err != nil {
		return nil, err
	}
	if err := p.lexer.EatDelim(')'); err != nil {
		return nil, err
	}

	if err := p.lexer.EatKeyword("values"); err != nil {
		return nil, err
	}
	if err := p.lexer.EatDelim('('); err != nil {
		return nil, err
	}
	values, err := p.ConstList()
	if err != nil {
		return nil, err
	}
	if err := p.lexer.EatDelim(')'); err != nil {
		return nil, err
	}

	if len(fields) != len(values) {
		return nil, fmt.Errorf("parse: insert has %d fields but %d values", len(fields), len(values))
	}
	return NewInsertData(tableName, fields, values), nil
}

// FieldList parses <FieldList> := <Field> [ , <FieldList> ].
func (p *Parser) FieldList() ([]string, error) {
	field, err := p.Field()
	if err != nil {
		return nil, err
	}
	fields := []string{field}

	if p.lexer.MatchDelim(',') {
		if err := p.lexer.EatDelim(','); err != nil {
			return nil, err
		}
		rest, err := p.FieldList()
		if err != nil {
			return nil, err
		}
		fields = append(fields, rest...)
	}
	return fields, nil
}

// ConstList parses <ConstList> := <Constant> [ , <ConstList> ].
func (p *Parser) ConstList() ([]types.Constant, error) {
	c, err := p.Constant()
	if err != nil {
		return nil, err
	}
	consts := []types.Constant{c}

	if p.lexer.MatchDelim(',') {
		if err := p.lexer.EatDelim(','); err != nil {
			return nil, err
		}
		rest, err := p.ConstList()
		if err != nil {
			return nil, err
		}
		consts = append(consts, rest...)
	}
	return consts, nil
}

// Modify parses <Modify> := UPDATE IdTok SET <Field> = <Expression> [ WHERE <Predicate> ].
func (p *Parser) Modify() (*ModifyData, error) {
	if err := p.lexer.EatKeyword("update"); err != nil {
		return nil, err
	}
	tableName, err := p.lexer.EatId()
	if err != nil {
		return nil, err
	}
	if err := p.lexer.EatKeyword("set"); err != nil {
		return nil, err
	}
	fieldName, err := p.Field()
	if err != nil {
		return nil, err
	}
	if err := p.lexer.EatDelim('='); err != nil {
		return nil, err
	}
	newVal, err := p.Expression()
	if err != nil {
		return nil, err
	}

	pred := query.NewPredicate()
	if p.lexer.MatchKeyword("where") {
		if err := p.lexer.EatKeyword("where"); err != nil {
			return nil, err
		}
		pred, err = p.Predicate()
		if err != nil {
			return nil, err
		}
	}
	return NewModifyData(tableName, fieldName, newVal, pred), nil
}

// CreateTable parses <CreateTable> := TABLE IdTok ( <FieldDefs> ).
func (p *Parser) CreateTable() (*CreateTableData, error) {
	if err := p.lexer.EatKeyword("table"); err != nil {
		return nil, err
	}
	tableName, err := p.lexer.EatId()
	if err != nil {
		return nil, err
	}
	if err := p.lexer.EatDelim('('); err != nil {
		return nil, err
	}
	schema, err := p.FieldDefs()
	if err != nil {
		return nil, err
	}
	if err := p.lexer.EatDelim(')'); err != nil {
		return nil, err
	}
	return NewCreateTableData(tableName, schema), nil
}

// FieldDefs parses <FieldDefs> := <FieldDef> [ , <FieldDefs> ].
func (p *Parser) FieldDefs() (*record.Schema, error) {
	schema, err := p.FieldDef()
	if err != nil {
		return nil, err
	}
	if p.lexer.MatchDelim(',') {
		if err := p.lexer.EatDelim(','); err != nil {
			return nil, err
		}
		rest, err := p.FieldDefs()
		if err != nil {
			return nil, err
		}
		schema.AddAll(rest)
	}
	return schema, nil
}

// FieldDef parses one "name TYPE" pair into a single-field schema.
func (p *Parser) FieldDef() (*record.Schema, error) {
	fieldName, err := p.Field()
	if err != nil {
		return nil, err
	}
	return p.FieldType(fieldName)
}

// FieldType parses <TypeDef> := INT | VARCHAR ( IntTok ).
func (p *Parser) FieldType(fieldName string) (*record.Schema, error) {
	schema := record.NewSchema()

	if p.lexer.MatchKeyword("int") {
		if err := p.lexer.EatKeyword("int"); err != nil {
			return nil, err
		}
		schema.AddIntField(fieldName)
		return schema, nil
	}

	if err := p.lexer.EatKeyword("varchar"); err != nil {
		return nil, err
	}
	if err := p.lexer.EatDelim('('); err != nil {
		return nil, err
	}
	strLen, err := p.lexer.EatIntConstant()
	if err != nil {
		return nil, err
	}
	if err := p.lexer.EatDelim(')'); err != nil {
		return nil, err
	}
	schema.AddStringField(fieldName, strLen)
	return schema, nil
}

// CreateView parses <CreateView> := VIEW IdTok AS <Query>.
func (p *Parser) CreateView() (*CreateViewData, error) {
	if err := p.lexer.EatKeyword("view"); err != nil {
		return nil, err
	}
	viewName, err := p.lexer.EatId()
	if err != nil {
		return nil, err
	}
	if err := p.lexer.EatKeyword("as"); err != nil {
		return nil, err
	}
	qd, err := p.Query()
	if err != nil {
		return nil, err
	}
	return NewCreateViewData(viewName, qd), nil
}

// CreateIndex parses <CreateIndex> := INDEX IdTok ON IdTok ( <Field> ) [ USING ( HASH | BTREE ) ].
func (p *Parser) CreateIndex() (*CreateIndexData, error) {
	if err := p.lexer.EatKeyword("index"); err != nil {
		return nil, err
	}
	indexName, err := p.lexer.EatId()
	if err != nil {
		return nil, err
	}
	if err := p.lexer.EatKeyword("on"); err != nil {
		return nil, err
	}
	tableName, err := p.lexer.EatId()
	if err != nil {
		return nil, err
	}
	if err := p.lexer.EatDelim('('); err != nil {
		return nil, err
	}
	fieldName, err := p.Field()
	if err != nil {
		return nil, err
	}
	if err := p.lexer.EatDelim(')'); err != nil {
		return nil, err
	}

	idxKind := IndexKindBTree
	if p.lexer.MatchKeyword("using") {
		if err := p.lexer.EatKeyword("using"); err != nil {
			return nil, err
		}
		switch {
		case p.lexer.MatchKeyword("hash"):
			if err := p.lexer.EatKeyword("hash"); err != nil {
				return nil, err
			}
			idxKind = IndexKindHash
		case p.lexer.MatchKeyword("btree"):
			if err := p.lexer.EatKeyword("btree"); err != nil {
				return nil, err
			}
			idxKind = IndexKindBTree
		default:
			return nil, fmt.Errorf("parse: expected HASH or BTREE after USING")
		}
	}

	return NewCreateIndexData(indexName, tableName, fieldName, idxKind), nil
}
