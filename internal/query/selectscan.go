package query

import (
	"errors"

	"quarrydb/internal/iface"
	"quarrydb/internal/types"
)

// ErrNotUpdatable is returned by SelectScan's UpdateScan methods when the
// scan it wraps doesn't itself support updates (e.g. a selection over a
// product or projection).
var ErrNotUpdatable = errors.New("query: underlying scan does not support updates")

// SelectScan filters an underlying scan's records by a predicate. It
// implements iface.UpdateScan directly when the wrapped scan does, which is
// what lets an UPDATE/DELETE statement run its WHERE clause through the
// same scan tree a SELECT would.
type SelectScan struct {
	s    iface.Scan
	pred *Predicate
}

func NewSelectScan(s iface.Scan, pred *Predicate) *SelectScan {
	return &SelectScan{s: s, pred: pred}
}

func (ss *SelectScan) BeforeFirst() error {
	return ss.s.BeforeFirst()
}

// Next advances to the next record satisfying the predicate.
func (ss *SelectScan) Next() bool {
	for ss.s.Next() {
		ok, err := ss.pred.IsSatisfied(ss.s)
		if err != nil {
			return false
		}
		if ok {
			return true
		}
	}
	return false
}

func (ss *SelectScan) GetInt(fieldName string) (int, error) {
	return ss.s.GetInt(fieldName)
}

func (ss *SelectScan) GetString(fieldName string) (string, error) {
	return ss.s.GetString(fieldName)
}

func (ss *SelectScan) GetVal(fieldName string) (types.Constant, error) {
	return ss.s.GetVal(fieldName)
}

func (ss *SelectScan) HasField(fieldName string) bool {
	return ss.s.HasField(fieldName)
}

func (ss *SelectScan) Close() {
	ss.s.Close()
}

func (ss *SelectScan) updateScan() (iface.UpdateScan, error) {
	us, ok := ss.s.(iface.UpdateScan)
	if !ok {
		return nil, ErrNotUpdatable
	}
	return us, nil
}

func (ss *SelectScan) SetInt(fieldName string, val int) error {
	us, err := ss.updateScan()
	if err != nil {
		return err
	}
	return us.SetInt(fieldName, val)
}

func (ss *SelectScan) SetString(fieldName string, val string) error {
	us, err := ss.updateScan()
	if err != nil {
		return err
	}
	return us.SetString(fieldName, val)
}

func (ss *SelectScan) SetVal(fieldName string, val types.Constant) error {
	us, err := ss.updateScan()
	if err != nil {
		return err
	}
	return us.SetVal(fieldName, val)
}

// Delete removes the current record. It is only valid while positioned on
// a record satisfying the predicate.
func (ss *SelectScan) Delete() error {
	us, err := ss.updateScan()
	if err != nil {
		return err
	}
	return us.Delete()
}

// Insert creates a new record in the underlying scan. The caller is
// responsible for setting fields so the new record satisfies the
// predicate; the scan does not enforce that.
func (ss *SelectScan) Insert() error {
	us, err := ss.updateScan()
	if err != nil {
		return err
	}
	return us.Insert()
}

func (ss *SelectScan) GetRID() (types.RID, error) {
	us, err := ss.updateScan()
	if err != nil {
		return types.RID{}, err
	}
	return us.GetRID()
}

func (ss *SelectScan) MoveToRID(rid types.RID) error {
	us, err := ss.updateScan()
	if err != nil {
		return err
	}
	return us.MoveToRID(rid)
}
