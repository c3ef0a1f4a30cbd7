package driver

import (
	"database/sql"
	"testing"
)

func TestDriverExecAndQuery(t *testing.T) {
	dir := t.TempDir()
	db, err := sql.Open("quarrydb", dir)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec("create table students (id int, name varchar(10))"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.Exec("insert into students (id, name) values (1, 'joe')"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := db.Exec("insert into students (id, name) values (2, 'amy')"); err != nil {
		t.Fatalf("insert: %v", err)
	}

	rows, err := db.Query("select id, name from students where id = 2")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			t.Fatalf("scan: %v", err)
		}
		if name != "amy" {
			t.Errorf("name = %q, want amy", name)
		}
		count++
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows.Err: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 row, got %d", count)
	}
}

func TestDriverRejectsParameterizedStatements(t *testing.T) {
	dir := t.TempDir()
	db, err := sql.Open("quarrydb", dir)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec("create table t (id int)"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.Exec("insert into t (id) values (?)", 1); err == nil {
		t.Error("expected parameterized statement to be rejected")
	}
}

func TestDriverExplicitTransactionRollback(t *testing.T) {
	dir := t.TempDir()
	db, err := sql.Open("quarrydb", dir)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec("create table t (id int)"); err != nil {
		t.Fatalf("create table: %v", err)
	}

	txn, err := db.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := txn.Exec("insert into t (id) values (1)"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := txn.Rollback(); err != nil {
		t.Fatalf("Rollback: %v", err)
	}

	rows, err := db.Query("select id from t")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rows.Close()

	if rows.Next() {
		t.Error("expected no rows after rollback")
	}
}

func TestDriverSharesEngineAcrossConnections(t *testing.T) {
	dir := t.TempDir()
	db, err := sql.Open("quarrydb", dir)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(2)

	if _, err := db.Exec("create table t (id int)"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.Exec("insert into t (id) values (1)"); err != nil {
		t.Fatalf("insert: %v", err)
	}

	rows, err := db.Query("select id from t")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rows.Close()
	if !rows.Next() {
		t.Error("expected a row written through a second pooled connection to be visible")
	}
}
