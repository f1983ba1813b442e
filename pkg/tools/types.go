package tools

import (
	"reflect"
	"regexp"
	"time"
)

var (
	timeType   = reflect.TypeOf(time.Time{})
	regexpType = reflect.TypeOf(&regexp.Regexp{})
	errorType  = reflect.TypeOf((*error)(nil)).Elem()
)

// Type names the kind of v the way loosely typed callers expect:
// null, string, number, boolean, array, object, function, date, regexp,
// error, channel or pointer.
func Type(v any) string {
	if v == nil {
		return "null"
	}

	t := reflect.TypeOf(v)
	switch {
	case t == timeType:
		return "date"
	case t == regexpType:
		return "regexp"
	case t.Implements(errorType):
		return "error"
	}

	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	case reflect.Func:
		return "function"
	case reflect.Chan:
		return "channel"
	case reflect.Ptr:
		if reflect.ValueOf(v).IsNil() {
			return "null"
		}
		return "pointer"
	default:
		return t.Kind().String()
	}
}

// IsArray reports whether v is a slice or array
func IsArray(v any) bool {
	return Type(v) == "array"
}

// IsObject reports whether v is a map or struct
func IsObject(v any) bool {
	return Type(v) == "object"
}

// IsFunction reports whether v is a func
func IsFunction(v any) bool {
	return Type(v) == "function"
}

// IsEmpty reports whether v is nil or a map, slice, array, string or
// channel without elements
func IsEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.String, reflect.Chan:
		return rv.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
