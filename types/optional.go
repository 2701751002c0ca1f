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

package types

import (
	"fmt"
	"reflect"
)

// Optional holds either a value or nothing. The zero value is absent.
type Optional[T any] struct {
	value   T
	present bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, present: true}
}

// None returns an absent Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present
}

// IsPresent reports whether a value is held.
func (o Optional[T]) IsPresent() bool { return o.present }

// OrElse returns the held value or def when absent.
func (o Optional[T]) OrElse(def T) T {
	if o.present {
		return o.value
	}
	return def
}

func (o Optional[T]) String() string {
	if !o.present {
		return "Optional.empty"
	}
	return fmt.Sprintf("Optional[%v]", o.value)
}

// ElemType returns the reflect.Type of T.
func (Optional[T]) ElemType() reflect.Type {
	return reflect.TypeFor[T]()
}

// Wrap returns a present Optional[T] holding v, or an absent one when v is
// nil. It panics if v is not a T.
func (Optional[T]) Wrap(v any) any {
	if v == nil {
		return Optional[T]{}
	}
	return Some(v.(T))
}

// OptionalType is implemented by every Optional instantiation. It lets
// reflective callers inspect and build optionals without knowing T.
type OptionalType interface {
	ElemType() reflect.Type
	Wrap(v any) any
}

var _ OptionalType = Optional[int]{}
