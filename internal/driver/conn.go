package driver

import (
	"database/sql/driver"
	"fmt"

	"quarrydb/internal/engine"
	"quarrydb/internal/storage/tx"
)

// Conn is one logical connection against a shared Engine: its own
// transaction, committed and replaced after every autocommit statement,
// or held open across an explicit database/sql Tx.
type Conn struct {
	dsn        string
	eng        *engine.Engine
	t          *tx.Transaction
	autoCommit bool
}

func newConn(dsn string, eng *engine.Engine) (*Conn, error) {
	t, err := eng.NewTx()
	if err != nil {
		return nil, err
	}
	return &Conn{dsn: dsn, eng: eng, t: t, autoCommit: true}, nil
}

func (c *Conn) Prepare(query string) (driver.Stmt, error) {
	return &Stmt{conn: c, query: query}, nil
}

func (c *Conn) Close() error {
	if err := c.t.Commit(); err != nil {
		return err
	}
	return releaseEngine(c.dsn)
}

// Begin starts an explicit transaction: statements run through this Conn
// no longer autocommit until Commit or Rollback is called.
func (c *Conn) Begin() (driver.Tx, error) {
	c.autoCommit = false
	return &Tx{conn: c}, nil
}

// endStatement commits (or, for a failed autocommit statement, rolls back)
// the current transaction and opens a new one, unless an explicit Tx owns
// the current transaction's lifetime.
func (c *Conn) endStatement(statementErr error) error {
	if !c.autoCommit {
		return statementErr
	}
	var txErr error
	if statementErr != nil {
		txErr = c.t.Rollback()
	} else {
		txErr = c.t.Commit()
	}

	next, err := c.eng.NewTx()
	if err != nil {
		return fmt.Errorf("driver: open next transaction: %w", err)
	}
	c.t = next

	if statementErr != nil {
		return statementErr
	}
	return txErr
}

// Tx implements driver.Tx over a Conn's underlying transaction.
type Tx struct {
	conn *Conn
}

func (tx *Tx) Commit() error {
	err := tx.conn.t.Commit()
	tx.conn.autoCommit = true
	next, nextErr := tx.conn.eng.NewTx()
	if nextErr != nil {
		return nextErr
	}
	tx.conn.t = next
	return err
}

func (tx *Tx) Rollback() error {
	err := tx.conn.t.Rollback()
	tx.conn.autoCommit = true
	next, nextErr := tx.conn.eng.NewTx()
	if nextErr != nil {
		return nextErr
	}
	tx.conn.t = next
	return err
}
