package record

import (
	"reflect"
	"testing"
)

func TestSchemaAddFields(t *testing.T) {
	s := NewSchema()
	s.AddIntField("id")
	s.AddStringField("name", 20)

	if !reflect.DeepEqual(s.Fields(), []string{"id", "name"}) {
		t.Errorf("Fields() = %v", s.Fields())
	}
	if !s.HasField("id") || !s.HasField("name") {
		t.Error("expected both fields to be present")
	}
	if s.HasField("missing") {
		t.Error("did not expect unknown field to be present")
	}
	if s.FieldType("id") != Integer {
		t.Errorf("id FieldType() = %v, want Integer", s.FieldType("id"))
	}
	if s.FieldType("name") != Varchar {
		t.Errorf("name FieldType() = %v, want Varchar", s.FieldType("name"))
	}
	if s.Length("name") != 20 {
		t.Errorf("name Length() = %d, want 20", s.Length("name"))
	}
}

func TestSchemaAddAll(t *testing.T) {
	src := NewSchema()
	src.AddIntField("id")
	src.AddStringField("name", 10)

	dst := NewSchema()
	dst.AddAll(src)

	if !reflect.DeepEqual(dst.Fields(), src.Fields()) {
		t.Errorf("Fields() = %v, want %v", dst.Fields(), src.Fields())
	}
	if dst.Length("name") != 10 {
		t.Errorf("Length(name) = %d, want 10", dst.Length("name"))
	}
}
