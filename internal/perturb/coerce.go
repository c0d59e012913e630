package perturb

import (
	"fmt"
	"reflect"
)

// RecursiveApply applies leaf to every scalar in v, rebuilding slices and
// arrays with the same nesting. A rebuilt container is typed by its
// children when they all share one type ([]string, [][]string, ...) and is
// []any otherwise. []byte counts as a scalar.
func RecursiveApply(v any, leaf func(any) any) any {
	if v == nil {
		return leaf(nil)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return leaf(v)
		}
	default:
		return leaf(v)
	}

	items := make([]any, rv.Len())
	var common reflect.Type
	mixed := false
	for i := range items {
		items[i] = RecursiveApply(rv.Index(i).Interface(), leaf)
		if items[i] == nil {
			mixed = true
			continue
		}
		t := reflect.TypeOf(items[i])
		if common == nil {
			common = t
		} else if common != t {
			mixed = true
		}
	}
	if mixed || common == nil {
		return items
	}

	out := reflect.MakeSlice(reflect.SliceOf(common), len(items), len(items))
	for i, it := range items {
		out.Index(i).Set(reflect.ValueOf(it))
	}
	return out.Interface()
}

// Stringify renders every leaf of v with fmt, so a Document becomes its text
// and a pair of Documents becomes a []string.
func Stringify(v any) any {
	return RecursiveApply(v, func(x any) any { return fmt.Sprint(x) })
}

// StringifyAs stringifies v and asserts the result has type V.
func StringifyAs[V any](v any) (V, error) {
	out, ok := Stringify(v).(V)
	if !ok {
		var zero V
		return zero, fmt.Errorf("%w: %T stringifies to %T, want %T", ErrShapeMismatch, v, Stringify(v), zero)
	}
	return out, nil
}
