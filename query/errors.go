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

package query

import (
	"errors"
	"fmt"
)

var (
	// ErrPlaceholderOutOfRange indicates a placeholder index larger than the
	// number of supplied arguments (or smaller than 1).
	ErrPlaceholderOutOfRange = errors.New("argument index out of bounds")

	// ErrArgumentCountMismatch indicates that the number of placeholders in the
	// template differs from the number of supplied arguments.
	ErrArgumentCountMismatch = errors.New("number of placeholders in the query doesn't match the number of arguments")

	// ErrPlaceholderReused indicates that the same placeholder index appears
	// more than once in a template.
	ErrPlaceholderReused = errors.New("placeholder index used more than once")
)

// PlaceholderError reports a problem with a single placeholder.
type PlaceholderError struct {
	Index  int // 1-based placeholder index as written in the template
	Offset int // byte offset of the placeholder in the template
	Err    error
}

func (e *PlaceholderError) Error() string {
	return fmt.Sprintf("%v: ?%d at offset %d", e.Err, e.Index, e.Offset)
}

func (e *PlaceholderError) Unwrap() error { return e.Err }

// ArgumentIndex returns the 0-based argument index the placeholder refers to.
func (e *PlaceholderError) ArgumentIndex() int { return e.Index - 1 }

// ArgumentCountError reports a placeholder/argument count mismatch.
type ArgumentCountError struct {
	Placeholders int
	Arguments    int
}

func (e *ArgumentCountError) Error() string {
	return fmt.Sprintf("%v: %d placeholders, %d arguments", ErrArgumentCountMismatch, e.Placeholders, e.Arguments)
}

func (e *ArgumentCountError) Unwrap() error { return ErrArgumentCountMismatch }
