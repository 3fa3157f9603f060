package domain

import (
	"fmt"
	"strings"
)

// ValueType is the declared type of a literal value.
type ValueType int

const (
	// TypeNone means no type was declared and the literal is inferred.
	TypeNone ValueType = iota
	TypeNumber
	TypeBoolean
	TypeString
	TypeTable
)

func (t ValueType) String() string {
	switch t {
	case TypeNumber:
		return "number"
	case TypeBoolean:
		return "boolean"
	case TypeString:
		return "string"
	case TypeTable:
		return "table"
	default:
		return ""
	}
}

// ParseValueType maps an editor type name to a ValueType.
// Empty input yields TypeNone. Compound hints such as "table|number" are
// reported as an error so callers can fall back to inference.
func ParseValueType(s string) (ValueType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return TypeNone, nil
	case "number":
		return TypeNumber, nil
	case "boolean", "bool":
		return TypeBoolean, nil
	case "string":
		return TypeString, nil
	case "table":
		return TypeTable, nil
	}
	return TypeNone, fmt.Errorf("unsupported value type %q", s)
}
