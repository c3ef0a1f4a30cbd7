package driver

import (
	"database/sql/driver"
	"errors"
)

// ErrParamsUnsupported is returned when a caller passes bind parameters: the
// SQL grammar this engine parses has no placeholder syntax, matching
// spec.md's conjunctive-equality-only grammar.
var ErrParamsUnsupported = errors.New("driver: parameterized statements are not supported")

// Stmt is a prepared statement bound to a Conn; "preparing" is purely
// syntactic here since the query isn't compiled until Exec or Query runs it
// against the connection's current transaction.
type Stmt struct {
	conn  *Conn
	query string
}

// NumInput reports that this statement accepts no bind parameters.
func (s *Stmt) NumInput() int {
	return 0
}

func (s *Stmt) Close() error {
	return nil
}

func (s *Stmt) Exec(args []driver.Value) (driver.Result, error) {
	if len(args) != 0 {
		return nil, ErrParamsUnsupported
	}
	rowsAffected, err := s.conn.eng.Planner().ExecuteUpdate(s.query, s.conn.t)
	if endErr := s.conn.endStatement(err); endErr != nil {
		return nil, endErr
	}
	return &Result{rowsAffected: int64(rowsAffected)}, nil
}

func (s *Stmt) Query(args []driver.Value) (driver.Rows, error) {
	if len(args) != 0 {
		return nil, ErrParamsUnsupported
	}
	p, err := s.conn.eng.Planner().CreateQueryPlan(s.query, s.conn.t)
	if err != nil {
		_ = s.conn.endStatement(err)
		return nil, err
	}
	scan, err := p.Open()
	if err != nil {
		_ = s.conn.endStatement(err)
		return nil, err
	}
	return newRows(scan, p.Schema(), s.conn), nil
}

// Result reports rows affected; quarrydb assigns no server-side row IDs,
// so LastInsertId is unsupported.
type Result struct {
	rowsAffected int64
}

func (r *Result) LastInsertId() (int64, error) {
	return 0, errors.New("driver: LastInsertId is not supported")
}

func (r *Result) RowsAffected() (int64, error) {
	return r.rowsAffected, nil
}
