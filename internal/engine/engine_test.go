package engine

import (
	"os"
	"testing"

	"quarrydb/internal/config"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.DBDirectory = dir
	cfg.BufferPoolSize = 4

	e, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { e.Close() })
	return e
}

func TestEngineCreateInsertSelect(t *testing.T) {
	e := newTestEngine(t)

	t1, err := e.NewTx()
	if err != nil {
		t.Fatalf("NewTx: %v", err)
	}
	if _, err := e.Planner().ExecuteUpdate("create table students (id int, name varchar(10))", t1); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if err := t1.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	t2, err := e.NewTx()
	if err != nil {
		t.Fatalf("NewTx: %v", err)
	}
	if _, err := e.Planner().ExecuteUpdate("insert into students (id, name) values (1, 'joe')", t2); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := e.Planner().ExecuteUpdate("insert into students (id, name) values (2, 'amy')", t2); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := t2.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	t3, err := e.NewTx()
	if err != nil {
		t.Fatalf("NewTx: %v", err)
	}
	p, err := e.Planner().CreateQueryPlan("select id, name from students where id = 2", t3)
	if err != nil {
		t.Fatalf("CreateQueryPlan: %v", err)
	}
	scan, err := p.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer scan.Close()

	if err := scan.BeforeFirst(); err != nil {
		t.Fatalf("BeforeFirst: %v", err)
	}
	count := 0
	for scan.Next() {
		count++
		name, err := scan.GetString("name")
		if err != nil {
			t.Fatalf("GetString: %v", err)
		}
		if name != "amy" {
			t.Errorf("name = %q, want amy", name)
		}
	}
	if count != 1 {
		t.Errorf("expected exactly 1 matching row, got %d", count)
	}
	if err := t3.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
}

func TestEngineRecoversAfterReopen(t *testing.T) {
	dir, err := os.MkdirTemp("", "quarrydb-engine-recover-*")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	defer os.RemoveAll(dir)

	cfg := config.Default()
	cfg.DBDirectory = dir

	e1, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t1, err := e1.NewTx()
	if err != nil {
		t.Fatalf("NewTx: %v", err)
	}
	if _, err := e1.Planner().ExecuteUpdate("create table t (id int)", t1); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if err := t1.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := e1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	e2, err := Open(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer e2.Close()

	t2, err := e2.NewTx()
	if err != nil {
		t.Fatalf("NewTx: %v", err)
	}
	if _, err := e2.Planner().CreateQueryPlan("select id from t", t2); err != nil {
		t.Errorf("expected the table created before reopen to still exist: %v", err)
	}
	t2.Commit()
}
