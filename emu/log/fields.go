package log

import (
	"fmt"
	"strconv"
)

type FieldType int

const (
	FieldTypeUnknown FieldType = iota
	FieldTypeBool
	FieldTypeString
	FieldTypeHex32
	FieldTypeInt
	FieldTypeUint
	FieldTypeError
	FieldTypeStringer
)

// ZField is a typed log field. Integer holds Int, Uint and Hex32 values.
type ZField struct {
	Type      FieldType
	Key       string
	String    string
	Integer   uint64
	Error     error
	Interface fmt.Stringer
	Boolean   bool
}

func (f *ZField) Value() string {
	switch f.Type {
	case FieldTypeBool:
		return strconv.FormatBool(f.Boolean)
	case FieldTypeString:
		return f.String
	case FieldTypeUint:
		return strconv.FormatUint(f.Integer, 10)
	case FieldTypeInt:
		return strconv.FormatInt(int64(f.Integer), 10)
	case FieldTypeHex32:
		return fmt.Sprintf("%08x", uint32(f.Integer))
	case FieldTypeError:
		if f.Error == nil {
			return "<nil>"
		}
		return f.Error.Error()
	case FieldTypeStringer:
		if f.Interface == nil {
			return "<nil>"
		}
		return f.Interface.String()
	}
	return ""
}
