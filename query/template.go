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
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var placeholderPattern = regexp.MustCompile(`\?(\d+)`)

// Render substitutes every ?N placeholder of template with the literal form of
// args[N-1] and returns the resulting query. Each argument must be referenced
// by exactly one placeholder. A nil dialect means Standard. Arguments are
// rendered by Literal; see there for the values that are not quoted.
func Render(d Dialect, template string, args ...any) (string, error) {
	if d == nil {
		d = Standard
	}

	matches := placeholderPattern.FindAllStringSubmatchIndex(template, -1)
	seen := make(map[int]struct{}, len(matches))

	var sb strings.Builder
	sb.Grow(len(template))
	last := 0
	for _, m := range matches {
		index, err := strconv.Atoi(template[m[2]:m[3]])
		if err != nil || index < 1 || index > len(args) {
			return "", &PlaceholderError{Index: index, Offset: m[0], Err: ErrPlaceholderOutOfRange}
		}
		if _, dup := seen[index]; dup {
			return "", &PlaceholderError{Index: index, Offset: m[0], Err: ErrPlaceholderReused}
		}
		seen[index] = struct{}{}

		sb.WriteString(template[last:m[0]])
		sb.WriteString(Literal(d, args[index-1]))
		last = m[1]
	}
	sb.WriteString(template[last:])

	if len(matches) != len(args) {
		return "", &ArgumentCountError{Placeholders: len(matches), Arguments: len(args)}
	}
	return sb.String(), nil
}

// Placeholders returns the placeholder indexes of template in order of
// appearance. Malformed (overflowing) indexes are reported as -1.
func Placeholders(template string) []int {
	matches := placeholderPattern.FindAllStringSubmatch(template, -1)
	indexes := make([]int, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			n = -1
		}
		indexes = append(indexes, n)
	}
	return indexes
}

// Literal renders a single argument. Textual values are quoted by the dialect,
// nil values use the dialect's null literal, numbers and booleans are written
// bare. Any other value implementing fmt.Stringer or error is quoted in its
// string form.
//
// Remaining values, such as plain structs, arrays, maps and non-nil slices
// including []byte, are written unquoted with %v. Their text reaches the query
// as is, so callers must convert them to a string or a number first.
func Literal(d Dialect, arg any) string {
	switch v := arg.(type) {
	case nil:
		return d.Null()
	case string:
		return d.QuoteString(v)
	case time.Time:
		return d.QuoteString(v.Format(time.RFC3339Nano))
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}

	rv := reflect.ValueOf(arg)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return d.Null()
		}
		elem := rv.Elem().Interface()
		if _, ok := textOf(elem); !ok && rv.Elem().Kind() == reflect.Struct {
			if s, ok := textOf(arg); ok {
				return d.QuoteString(s)
			}
		}
		return Literal(d, elem)
	case reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return d.Null()
		}
	case reflect.String:
		return d.QuoteString(rv.String())
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64)
	}

	if s, ok := textOf(arg); ok {
		return d.QuoteString(s)
	}
	return fmt.Sprint(arg)
}

func textOf(arg any) (string, bool) {
	switch v := arg.(type) {
	case fmt.Stringer:
		return v.String(), true
	case error:
		return v.Error(), true
	}
	return "", false
}
