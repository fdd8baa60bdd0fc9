package datafile

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"time"
)

// Parse converts a single text token into a value of type T. The type must own
// a text parse operation: encoding.TextUnmarshaler, a basic numeric, bool or
// string kind (named or not), time.Duration, or a pointer to one of those.
//
// Booleans are exactly "true" or "false". No token has a special meaning;
// "None" parses into a string as is and fails for every other type.
func Parse[T any](text string) (T, error) {
	var v T

	err := parseInto(reflect.ValueOf(&v).Elem(), text)
	if err != nil {
		var zero T
		return zero, err
	}

	return v, nil
}

func parseInto(rv reflect.Value, text string) error {
	kind := ValueKindOf(rv.Type())

	switch {
	case kind == KindText:
		u, _ := rv.Addr().Interface().(encoding.TextUnmarshaler)
		return u.UnmarshalText([]byte(text))

	case kind == KindPointer:
		elem := reflect.New(rv.Type().Elem())
		if err := parseInto(elem.Elem(), text); err != nil {
			return err
		}

		rv.Set(elem)

		return nil

	case kind == KindDuration:
		d, err := time.ParseDuration(text)
		if err != nil {
			return err
		}

		rv.SetInt(int64(d))

		return nil

	case kind.IsSigned():
		n, err := strconv.ParseInt(text, 10, kind.Bits())
		if err != nil {
			return err
		}

		rv.SetInt(n)

		return nil

	case kind.IsInteger():
		n, err := strconv.ParseUint(text, 10, kind.Bits())
		if err != nil {
			return err
		}

		rv.SetUint(n)

		return nil

	case kind.IsFloat():
		f, err := strconv.ParseFloat(text, kind.Bits())
		if err != nil {
			return err
		}

		rv.SetFloat(f)

		return nil

	case kind == KindBool:
		b, err := parseBool(text)
		if err != nil {
			return err
		}

		rv.SetBool(b)

		return nil

	case kind == KindString:
		rv.SetString(text)
		return nil

	default:
		return fmt.Errorf("type %s has no text parse operation", rv.Type())
	}
}

// parseBool accepts only the lowercase literals, unlike strconv.ParseBool.
func parseBool(text string) (bool, error) {
	switch text {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, &strconv.NumError{Func: "ParseBool", Num: text, Err: strconv.ErrSyntax}
	}
}
