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
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrMalformedRepository    = errors.New("malformed repository declaration")
	ErrUnsupportedReturnShape = errors.New("return type not supported for declarative query")
	ErrInvalidMethodSignature = errors.New("invalid repository method signature")
	ErrMethodNotImplemented   = errors.New("method not implemented by the generic repository")
	ErrNilDriver              = errors.New("repository requires a non-nil driver")
)

// DiscoveryError reports a repository declaration that was skipped.
type DiscoveryError struct {
	Type   reflect.Type
	Reason string
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrMalformedRepository, typeName(e.Type), e.Reason)
}

func (e *DiscoveryError) Unwrap() error { return ErrMalformedRepository }

// UnsupportedReturnShapeError reports a query method whose first result is
// neither a pointer, a types.Optional nor a slice of a supported element.
type UnsupportedReturnShapeError struct {
	Repository string
	Method     string
	Type       reflect.Type
}

func (e *UnsupportedReturnShapeError) Error() string {
	return fmt.Sprintf("%v: %s.%s returns %v", ErrUnsupportedReturnShape, e.Repository, e.Method, e.Type)
}

func (e *UnsupportedReturnShapeError) Unwrap() error { return ErrUnsupportedReturnShape }

// MethodSignatureError reports a query method that does not take a
// context.Context first or does not return (R, error).
type MethodSignatureError struct {
	Repository string
	Method     string
	Reason     string
}

func (e *MethodSignatureError) Error() string {
	return fmt.Sprintf("%v: %s.%s: %s", ErrInvalidMethodSignature, e.Repository, e.Method, e.Reason)
}

func (e *MethodSignatureError) Unwrap() error { return ErrInvalidMethodSignature }

// InvocationError is returned by every failed repository call. ArgIndex is the
// 0-based index of the offending query argument, not counting the context, or
// -1 when no single argument is at fault.
type InvocationError struct {
	Repository string
	Method     string
	ArgIndex   int
	Err        error
}

func (e *InvocationError) Error() string {
	if e.ArgIndex >= 0 {
		return fmt.Sprintf("%s.%s: argument %d: %v", e.Repository, e.Method, e.ArgIndex, e.Err)
	}
	return fmt.Sprintf("%s.%s: %v", e.Repository, e.Method, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}
