// Package types holds the small value types shared across the storage,
// record, index and query layers: the tagged-union field value (Constant)
// and the record identifier (RID).
package types

import (
	"fmt"
	"hash/fnv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Constant is a value that is either an integer or a string. It is the
// engine's only runtime representation of a field value: schemas describe
// fields by type, but once a value leaves storage it travels as a Constant
// so that predicates, expressions and indexes can stay type-agnostic.
//
// A Constant is either an int constant or a string constant, never both and
// never neither (the zero value is not a usable Constant).
type Constant struct {
	iVal *int
	sVal *string
}

// NewConstantInt builds an integer Constant.
func NewConstantInt(iVal int) Constant {
	return Constant{iVal: &iVal}
}

// NewConstantString builds a string Constant.
func NewConstantString(sVal string) Constant {
	return Constant{sVal: &sVal}
}

// IsInt reports whether this constant holds an integer value.
func (c Constant) IsInt() bool {
	return c.iVal != nil
}

// AsInt returns the integer value. It panics if the constant is a string;
// callers must check IsInt (or know the field's declared type) first.
func (c Constant) AsInt() int {
	if c.iVal == nil {
		panic("types: AsInt called on a string constant")
	}
	return *c.iVal
}

// AsString returns the string value. It panics if the constant is an int.
func (c Constant) AsString() string {
	if c.sVal == nil {
		panic("types: AsString called on an int constant")
	}
	return *c.sVal
}

// Equals compares two constants for value equality. Constants of different
// kinds are never equal.
func (c Constant) Equals(other Constant) bool {
	if c.iVal != nil && other.iVal != nil {
		return *c.iVal == *other.iVal
	}
	if c.sVal != nil && other.sVal != nil {
		return *c.sVal == *other.sVal
	}
	return false
}

// CompareTo orders two constants of the same kind, returning a negative
// number, zero, or a positive number as c is less than, equal to, or
// greater than other. It panics when the kinds differ, matching the
// invariant that predicates only ever compare like-typed fields.
func (c Constant) CompareTo(other Constant) int {
	if c.iVal != nil && other.iVal != nil {
		switch {
		case *c.iVal < *other.iVal:
			return -1
		case *c.iVal > *other.iVal:
			return 1
		default:
			return 0
		}
	}
	if c.sVal != nil && other.sVal != nil {
		return strings.Compare(*c.sVal, *other.sVal)
	}
	panic("types: cannot compare constants of different kinds")
}

// HashCode returns an FNV-1a hash of the constant, used by the static hash
// index to pick a bucket. String values are Unicode-normalized (NFKC)
// first so that equal strings in different normalization forms still hash
// to the same bucket.
func (c Constant) HashCode() uint64 {
	h := fnv.New64a()
	if c.iVal != nil {
		fmt.Fprintf(h, "%d", *c.iVal)
	} else if c.sVal != nil {
		h.Write([]byte(norm.NFKC.String(*c.sVal)))
	}
	return h.Sum64()
}

func (c Constant) String() string {
	if c.iVal != nil {
		return fmt.Sprintf("%d", *c.iVal)
	}
	if c.sVal != nil {
		return *c.sVal
	}
	return "<nil constant>"
}
