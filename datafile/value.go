package datafile

import (
	"encoding"
	"reflect"
	"strconv"
	"time"
)

//go:generate go tool stringer -type=ValueKind -output=value_string.go

// ValueKind classifies the Go types that a single text token can be parsed
// into.
type ValueKind int

const (
	_ ValueKind = iota // skip zero value, it marks types without a text form

	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindString
	KindDuration
	KindText    // implements encoding.TextUnmarshaler through a pointer
	KindPointer // pointer to any type with a text form
)

var textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

func (k ValueKind) IsInteger() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
}

func (k ValueKind) IsSigned() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	}
}

func (k ValueKind) IsFloat() bool {
	return k == KindFloat32 || k == KindFloat64
}

// Bits returns the bit size used when parsing numbers of kind k.
func (k ValueKind) Bits() int {
	switch k {
	default:
		panic("only numeric kinds have a meaningful bit size, but requested for: " + k.String())
	case KindInt, KindUint:
		return strconv.IntSize
	case KindInt8, KindUint8:
		return 8
	case KindInt16, KindUint16:
		return 16
	case KindInt32, KindUint32, KindFloat32:
		return 32
	case KindInt64, KindUint64, KindFloat64:
		return 64
	}
}

// ValueKindOf classifies rtype. Named types are classified by their
// underlying kind unless they implement encoding.TextUnmarshaler, which
// always wins. The zero ValueKind means the type has no text form.
func ValueKindOf(rtype reflect.Type) ValueKind {
	if rtype == nil {
		return 0
	}

	if reflect.PointerTo(rtype).Implements(textUnmarshalerType) {
		return KindText
	}

	if rtype == reflect.TypeFor[time.Duration]() {
		return KindDuration
	}

	switch rtype.Kind() {
	default:
		return 0
	case reflect.Int:
		return KindInt
	case reflect.Int8:
		return KindInt8
	case reflect.Int16:
		return KindInt16
	case reflect.Int32:
		return KindInt32
	case reflect.Int64:
		return KindInt64
	case reflect.Uint:
		return KindUint
	case reflect.Uint8:
		return KindUint8
	case reflect.Uint16:
		return KindUint16
	case reflect.Uint32:
		return KindUint32
	case reflect.Uint64:
		return KindUint64
	case reflect.Float32:
		return KindFloat32
	case reflect.Float64:
		return KindFloat64
	case reflect.Bool:
		return KindBool
	case reflect.String:
		return KindString
	case reflect.Pointer:
		if ValueKindOf(rtype.Elem()) == 0 {
			return 0
		}

		return KindPointer
	}
}
