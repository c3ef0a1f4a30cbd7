package driver

import (
	"database/sql/driver"
	"io"

	"quarrydb/internal/iface"
	"quarrydb/internal/record"
)

// Rows adapts a Scan/Schema pair to driver.Rows. Closing it ends the
// statement that opened it, committing (or rolling back, if iteration
// failed) the connection's autocommit transaction.
type Rows struct {
	scan    iface.Scan
	columns []string
	conn    *Conn
	err     error
}

func newRows(scan iface.Scan, schema *record.Schema, conn *Conn) *Rows {
	return &Rows{scan: scan, columns: schema.Fields(), conn: conn}
}

func (r *Rows) Columns() []string {
	return r.columns
}

func (r *Rows) Next(dest []driver.Value) error {
	if !r.scan.Next() {
		return io.EOF
	}
	for i, col := range r.columns {
		val, err := r.scan.GetVal(col)
		if err != nil {
			r.err = err
			return err
		}
		if val.IsInt() {
			dest[i] = int64(val.AsInt())
		} else {
			dest[i] = val.AsString()
		}
	}
	return nil
}

func (r *Rows) Close() error {
	r.scan.Close()
	return r.conn.endStatement(r.err)
}
