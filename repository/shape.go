/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package repository

import (
	"fmt"
	"reflect"

	"github.com/tomoncle/stratum/types"
)

// ResultShape is the container a query method folds its rows into.
type ResultShape int

const (
	// ShapeSingle is a *E result: the first row or nil.
	ShapeSingle ResultShape = iota + 1
	// ShapeOptional is a types.Optional[E] result: the first row or absent.
	ShapeOptional
	// ShapeCollection is a []E or []*E result: every row in driver order.
	ShapeCollection
)

var resultShapeNames = map[ResultShape][2]string{
	ShapeSingle:     {"single", "first row or nil"},
	ShapeOptional:   {"optional", "first row or absent"},
	ShapeCollection: {"collection", "all rows"},
}

var _ types.BaseEnum = ShapeSingle

func (s ResultShape) IsValid() bool {
	_, ok := resultShapeNames[s]
	return ok
}

func (s ResultShape) Number() int {
	if !s.IsValid() {
		return types.IllegalValue
	}
	return int(s)
}

func (s ResultShape) String() string { return s.Name() }

func (s ResultShape) Name() string {
	if n, ok := resultShapeNames[s]; ok {
		return n[0]
	}
	return types.IllegalName
}

func (s ResultShape) Desc() string {
	if n, ok := resultShapeNames[s]; ok {
		return n[1]
	}
	return types.IllegalDesc
}

// ParseResultShape resolves a shape from its name.
func ParseResultShape(name string) (ResultShape, bool) {
	return types.EnumByName(name, ShapeSingle, ShapeOptional, ShapeCollection)
}

var optionalType = reflect.TypeFor[types.OptionalType]()

// ShapeOf classifies a declared result type and returns the element type the
// driver decodes rows into.
func ShapeOf(resultType reflect.Type) (ResultShape, reflect.Type, error) {
	if resultType == nil {
		return 0, nil, fmt.Errorf("%w: nil result type", ErrUnsupportedReturnShape)
	}

	var (
		shape ResultShape
		elem  reflect.Type
	)
	switch {
	case resultType.Kind() == reflect.Struct && resultType.Implements(optionalType):
		shape = ShapeOptional
		elem = reflect.Zero(resultType).Interface().(types.OptionalType).ElemType()
	case resultType.Kind() == reflect.Pointer:
		shape = ShapeSingle
		elem = resultType.Elem()
	case resultType.Kind() == reflect.Slice:
		shape = ShapeCollection
		elem = resultType.Elem()
	default:
		return 0, nil, fmt.Errorf("%w: %v", ErrUnsupportedReturnShape, resultType)
	}

	if !supportedElem(elem, shape != ShapeSingle) {
		return 0, nil, fmt.Errorf("%w: %v has unsupported element type %v", ErrUnsupportedReturnShape, resultType, elem)
	}
	return shape, elem, nil
}

// supportedElem accepts structs, string-keyed maps, strings, booleans and
// numbers, optionally behind one pointer.
func supportedElem(t reflect.Type, allowPointer bool) bool {
	if allowPointer && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Struct, reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	case reflect.Map:
		return t.Key().Kind() == reflect.String
	}
	return false
}

// Fold adapts rows, a slice of the element type returned by ShapeOf, to
// resultType.
func Fold(shape ResultShape, resultType reflect.Type, rows reflect.Value) (reflect.Value, error) {
	if rows.Kind() == reflect.Pointer {
		rows = rows.Elem()
	}
	if rows.Kind() != reflect.Slice {
		return reflect.Value{}, fmt.Errorf("%w: rows must be a slice, got %v", ErrUnsupportedReturnShape, rows.Type())
	}

	switch shape {
	case ShapeSingle:
		if rows.Len() == 0 {
			return reflect.Zero(resultType), nil
		}
		first := reflect.New(rows.Type().Elem())
		first.Elem().Set(rows.Index(0))
		return first.Convert(resultType), nil

	case ShapeOptional:
		opt := reflect.Zero(resultType).Interface().(types.OptionalType)
		if rows.Len() == 0 {
			return reflect.ValueOf(opt.Wrap(nil)), nil
		}
		return reflect.ValueOf(opt.Wrap(rows.Index(0).Interface())), nil

	case ShapeCollection:
		if rows.IsNil() {
			rows = reflect.MakeSlice(rows.Type(), 0, 0)
		}
		return rows.Convert(resultType), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: shape %v", ErrUnsupportedReturnShape, shape)
}
