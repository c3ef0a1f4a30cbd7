package query

import (
	"fmt"

	"quarrydb/internal/iface"
	"quarrydb/internal/types"
)

// ProjectScan restricts an underlying scan to a fixed list of fields; a
// lookup for any other field is a programming error, since the planner
// only ever builds a projection's schema from fieldList.
type ProjectScan struct {
	s         iface.Scan
	fieldList []string
}

func NewProjectScan(s iface.Scan, fieldList []string) *ProjectScan {
	return &ProjectScan{s: s, fieldList: fieldList}
}

func (ps *ProjectScan) BeforeFirst() error {
	return ps.s.BeforeFirst()
}

func (ps *ProjectScan) Next() bool {
	return ps.s.Next()
}

func (ps *ProjectScan) GetInt(fieldName string) (int, error) {
	if !ps.HasField(fieldName) {
		return 0, fmt.Errorf("query: field %q not in projection", fieldName)
	}
	return ps.s.GetInt(fieldName)
}

func (ps *ProjectScan) GetString(fieldName string) (string, error) {
	if !ps.HasField(fieldName) {
		return "", fmt.Errorf("query: field %q not in projection", fieldName)
	}
	return ps.s.GetString(fieldName)
}

func (ps *ProjectScan) GetVal(fieldName string) (types.Constant, error) {
	if !ps.HasField(fieldName) {
		return types.Constant{}, fmt.Errorf("query: field %q not in projection", fieldName)
	}
	return ps.s.GetVal(fieldName)
}

func (ps *ProjectScan) HasField(fieldName string) bool {
	for _, f := range ps.fieldList {
		if f == fieldName {
			return true
		}
	}
	return false
}

func (ps *ProjectScan) Close() {
	ps.s.Close()
}
