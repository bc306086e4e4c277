// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package go2star converts values between Go and Starlark.
package go2star

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"slices"
	"strings"
	"time"

	starlarktime "go.starlark.net/lib/time"
	"go.starlark.net/starlark"
)

// To converts a Go value to a Starlark value.
//
// It supports the following Go types:
//
//   - nil: converted to [starlark.None]
//   - bool: converted to [starlark.Bool]
//   - string: converted to [starlark.String]
//   - []byte: converted to [starlark.Bytes]
//   - integers: converted to [starlark.Int]
//   - float32, float64: converted to [starlark.Int] if the value is whole,
//     and to [starlark.Float] otherwise
//   - [time.Time]: converted to [starlarktime.Time]
//   - pointers: the value pointed to is converted, nil becomes None
//   - slices and arrays: converted to [starlark.List]
//   - maps: converted to [starlark.Dict]
//   - structs: converted to [starlark.Dict] keyed by the starlark or json tag
//     of each exported field, or by its name
func To(val any) (starlark.Value, error) {
	if val == nil {
		return starlark.None, nil
	}
	if v, ok := val.(starlark.Value); ok {
		return v, nil
	}

	rv := reflect.ValueOf(val)

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return starlark.None, nil
		}
		return To(rv.Elem().Interface())
	case reflect.Bool:
		return starlark.Bool(rv.Bool()), nil
	case reflect.String:
		return starlark.String(rv.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return starlark.MakeInt64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return starlark.MakeUint64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		fl := rv.Float()
		if canBeInt(fl) {
			return starlark.MakeInt64(int64(fl)), nil
		}
		return starlark.Float(fl), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return starlark.Bytes(rv.Bytes()), nil
		}
		list := make([]starlark.Value, 0, rv.Len())
		for i := range rv.Len() {
			conv, err := To(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			list = append(list, conv)
		}
		return starlark.NewList(list), nil
	case reflect.Map:
		return mapToDict(rv)
	case reflect.Struct:
		if t, ok := val.(time.Time); ok {
			return starlarktime.Time(t), nil
		}
		return structToDict(rv)
	default:
		return nil, fmt.Errorf("unsupported Go type: %T", val)
	}
}

// structToDict converts Go struct to starlark.Value using reflection.
func structToDict(val reflect.Value) (starlark.Value, error) {
	dict := starlark.NewDict(val.NumField())
	structType := val.Type()

	for i := range val.NumField() {
		field := structType.Field(i)
		if !field.IsExported() {
			continue
		}

		fieldName := field.Name
		if tag, ok := field.Tag.Lookup("starlark"); ok {
			fieldName = tag
		} else if tag, ok := field.Tag.Lookup("json"); ok {
			name, _, _ := strings.Cut(tag, ",")
			if name == "-" {
				continue
			}
			if name != "" {
				fieldName = name
			}
		}

		fieldVal, err := To(val.Field(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("error converting field %s: %w", fieldName, err)
		}
		if err := dict.SetKey(starlark.String(fieldName), fieldVal); err != nil {
			return nil, fmt.Errorf("error setting field %s: %w", fieldName, err)
		}
	}

	return dict, nil
}

// canBeInt reports if the float can be converted to int without losing
// precision.
func canBeInt(f float64) bool {
	if f < math.MinInt64 || f > math.MaxInt64 {
		return false
	}
	return f == math.Trunc(f)
}

// mapToDict converts Go map to starlark.Value. String keys are inserted in
// sorted order.
func mapToDict(rv reflect.Value) (starlark.Value, error) {
	dict := starlark.NewDict(rv.Len())
	keys := rv.MapKeys()
	if rv.Type().Key().Kind() == reflect.String {
		slices.SortFunc(keys, func(a, b reflect.Value) int { return strings.Compare(a.String(), b.String()) })
	}
	for _, k := range keys {
		key, err := To(k.Interface())
		if err != nil {
			return nil, fmt.Errorf("error converting map key: %w", err)
		}

		val, err := To(rv.MapIndex(k).Interface())
		if err != nil {
			return nil, fmt.Errorf("error converting map value: %w", err)
		}

		if err := dict.SetKey(key, val); err != nil {
			return nil, fmt.Errorf("error setting key-value in Starlark dict: %w", err)
		}
	}

	return dict, nil
}

// From converts a Starlark value to a Go value: None to nil, bools, strings
// and bytes to their Go counterparts, ints to int64 (or *big.Int when they
// don't fit), floats to float64, lists and tuples to []any and dicts with
// string keys to map[string]any. Other values, such as values of host
// types, are returned as is.
func From(v starlark.Value) (any, error) {
	switch v := v.(type) {
	case starlark.NoneType:
		return nil, nil
	case starlark.Bool:
		return bool(v), nil
	case starlark.String:
		return string(v), nil
	case starlark.Bytes:
		return []byte(v), nil
	case starlark.Int:
		if n, ok := v.Int64(); ok {
			return n, nil
		}
		return new(big.Int).Set(v.BigInt()), nil
	case starlark.Float:
		return float64(v), nil
	case starlarktime.Time:
		return time.Time(v), nil
	case *starlark.List:
		return iterableToSlice(v, v.Len())
	case starlark.Tuple:
		return iterableToSlice(v, v.Len())
	case *starlark.Dict:
		m := make(map[string]any, v.Len())
		for _, item := range v.Items() {
			key, ok := item[0].(starlark.String)
			if !ok {
				return nil, fmt.Errorf("dict keys must be strings, got %s", item[0].Type())
			}
			val, err := From(item[1])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key.GoString(), err)
			}
			m[string(key)] = val
		}
		return m, nil
	}
	return v, nil
}

func iterableToSlice(it starlark.Iterable, n int) ([]any, error) {
	out := make([]any, 0, n)
	iter := it.Iterate()
	defer iter.Done()
	var x starlark.Value
	for iter.Next(&x) {
		val, err := From(x)
		if err != nil {
			return nil, err
		}
		out = append(out, val)
	}
	return out, nil
}
