package query

import (
	"quarrydb/internal/iface"
	"quarrydb/internal/types"
)

// ProductScan computes the Cartesian product of two scans: for every
// record of s1, every record of s2. Positioning s1 at its first record up
// front (in the constructor and in BeforeFirst) keeps Next's "advance s2,
// and roll over into s1 when s2 is exhausted" loop simple.
type ProductScan struct {
	s1 iface.Scan
	s2 iface.Scan
}

func NewProductScan(s1, s2 iface.Scan) (*ProductScan, error) {
	ps := &ProductScan{s1: s1, s2: s2}
	if err := ps.BeforeFirst(); err != nil {
		return nil, err
	}
	return ps, nil
}

func (ps *ProductScan) BeforeFirst() error {
	if err := ps.s1.BeforeFirst(); err != nil {
		return err
	}
	ps.s1.Next()
	return ps.s2.BeforeFirst()
}

// Next advances s2; once s2 is exhausted it rewinds s2 and advances s1,
// ending the product only once s1 itself is exhausted.
func (ps *ProductScan) Next() bool {
	if ps.s2.Next() {
		return true
	}
	if err := ps.s2.BeforeFirst(); err != nil {
		return false
	}
	return ps.s2.Next() && ps.s1.Next()
}

func (ps *ProductScan) GetInt(fieldName string) (int, error) {
	if ps.s1.HasField(fieldName) {
		return ps.s1.GetInt(fieldName)
	}
	return ps.s2.GetInt(fieldName)
}

func (ps *ProductScan) GetString(fieldName string) (string, error) {
	if ps.s1.HasField(fieldName) {
		return ps.s1.GetString(fieldName)
	}
	return ps.s2.GetString(fieldName)
}

func (ps *ProductScan) GetVal(fieldName string) (types.Constant, error) {
	if ps.s1.HasField(fieldName) {
		return ps.s1.GetVal(fieldName)
	}
	return ps.s2.GetVal(fieldName)
}

func (ps *ProductScan) HasField(fieldName string) bool {
	return ps.s1.HasField(fieldName) || ps.s2.HasField(fieldName)
}

func (ps *ProductScan) Close() {
	ps.s1.Close()
	ps.s2.Close()
}
