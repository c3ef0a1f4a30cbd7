package parse

import (
	"reflect"
	"testing"

	"quarrydb/internal/types"
)

func TestParserQuery(t *testing.T) {
	p := NewParser("select id, name from users where id = 1")
	data, err := p.Query()
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if !reflect.DeepEqual(data.Fields(), []string{"id", "name"}) {
		t.Errorf("Fields() = %v", data.Fields())
	}
	if !reflect.DeepEqual(data.Tables(), []string{"users"}) {
		t.Errorf("Tables() = %v", data.Tables())
	}
	if len(data.Pred().Terms()) != 1 {
		t.Errorf("expected one predicate term, got %d", len(data.Pred().Terms()))
	}
}

func TestParserQueryMultiFieldSelectList(t *testing.T) {
	p := NewParser("select a, b, c from t")
	data, err := p.Query()
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(data.Fields()) != 3 {
		t.Errorf("expected 3 fields, got %d", len(data.Fields()))
	}
}

func TestParserInsert(t *testing.T) {
	p := NewParser("insert into users (id, name) values (1, 'John')")
	obj, err := p.UpdateCmd()
	if err != nil {
		t.Fatalf("UpdateCmd() error = %v", err)
	}
	data, ok := obj.(*InsertData)
	if !ok {
		t.Fatalf("expected *InsertData, got %T", obj)
	}
	if data.TableName() != "users" {
		t.Errorf("TableName() = %q", data.TableName())
	}
	wantValues := []types.Constant{types.NewConstantInt(1), types.NewConstantString("John")}
	if len(data.Values()) != len(wantValues) {
		t.Fatalf("expected %d values, got %d", len(wantValues), len(data.Values()))
	}
	for i, v := range data.Values() {
		if !v.Equals(wantValues[i]) {
			t.Errorf("value %d = %v, want %v", i, v, wantValues[i])
		}
	}
}

func TestParserInsertFieldValueCountMismatch(t *testing.T) {
	p := NewParser("insert into users (id, name) values (1)")
	if _, err := p.UpdateCmd(); err == nil {
		t.Fatal("expected error on field/value count mismatch")
	}
}

func TestParserDelete(t *testing.T) {
	p := NewParser("delete from users where id = 5")
	obj, err := p.UpdateCmd()
	if err != nil {
		t.Fatalf("UpdateCmd() error = %v", err)
	}
	data, ok := obj.(*DeleteData)
	if !ok {
		t.Fatalf("expected *DeleteData, got %T", obj)
	}
	if data.TableName() != "users" {
		t.Errorf("TableName() = %q", data.TableName())
	}
}

func TestParserModify(t *testing.T) {
	p := NewParser("update users set name = 'Jane' where id = 5")
	obj, err := p.UpdateCmd()
	if err != nil {
		t.Fatalf("UpdateCmd() error = %v", err)
	}
	data, ok := obj.(*ModifyData)
	if !ok {
		t.Fatalf("expected *ModifyData, got %T", obj)
	}
	if data.TargetField() != "name" {
		t.Errorf("TargetField() = %q", data.TargetField())
	}
}

func TestParserCreateTable(t *testing.T) {
	p := NewParser("create table users (id int, name varchar(20))")
	obj, err := p.UpdateCmd()
	if err != nil {
		t.Fatalf("UpdateCmd() error = %v", err)
	}
	data, ok := obj.(*CreateTableData)
	if !ok {
		t.Fatalf("expected *CreateTableData, got %T", obj)
	}
	if data.TableName() != "users" {
		t.Errorf("TableName() = %q", data.TableName())
	}
	fields := data.NewSchema().Fields()
	if !reflect.DeepEqual(fields, []string{"id", "name"}) {
		t.Errorf("schema fields = %v", fields)
	}
}

func TestParserCreateIndexDefaultsToBTree(t *testing.T) {
	p := NewParser("create index idx_id on users (id)")
	obj, err := p.UpdateCmd()
	if err != nil {
		t.Fatalf("UpdateCmd() error = %v", err)
	}
	data, ok := obj.(*CreateIndexData)
	if !ok {
		t.Fatalf("expected *CreateIndexData, got %T", obj)
	}
	if data.IndexKind() != IndexKindBTree {
		t.Errorf("IndexKind() = %v, want %v", data.IndexKind(), IndexKindBTree)
	}
}

func TestParserCreateIndexUsingHash(t *testing.T) {
	p := NewParser("create index idx_id on users (id) using hash")
	obj, err := p.UpdateCmd()
	if err != nil {
		t.Fatalf("UpdateCmd() error = %v", err)
	}
	data, ok := obj.(*CreateIndexData)
	if !ok {
		t.Fatalf("expected *CreateIndexData, got %T", obj)
	}
	if data.IndexKind() != IndexKindHash {
		t.Errorf("IndexKind() = %v, want %v", data.IndexKind(), IndexKindHash)
	}
	if data.TableName() != "users" || data.FieldName() != "id" {
		t.Errorf("unexpected table/field: %q/%q", data.TableName(), data.FieldName())
	}
}

func TestParserCreateView(t *testing.T) {
	p := NewParser("create view young_users as select id from users where id = 1")
	obj, err := p.UpdateCmd()
	if err != nil {
		t.Fatalf("UpdateCmd() error = %v", err)
	}
	data, ok := obj.(*CreateViewData)
	if !ok {
		t.Fatalf("expected *CreateViewData, got %T", obj)
	}
	if data.ViewName() != "young_users" {
		t.Errorf("ViewName() = %q", data.ViewName())
	}
}

func TestParserUnrecognizedStatement(t *testing.T) {
	p := NewParser("drop table users")
	if _, err := p.UpdateCmd(); err == nil {
		t.Fatal("expected error for unrecognized statement")
	}
}
