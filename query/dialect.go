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

import "strings"

// Dialect controls how literal values are written into a rendered query.
type Dialect interface {
	// QuoteString returns s as a complete quoted string literal, including
	// the surrounding quotes.
	QuoteString(s string) string

	// Null returns the literal used for nil arguments.
	Null() string
}

var (
	// Standard is the SQL dialect. Single quotes are doubled. NUL bytes have
	// no escape in standard string literals and are removed, so the quoted
	// value can differ from the argument.
	Standard Dialect = standardDialect{}

	// Backslash escapes quotes and backslashes with a backslash, as SurrealQL
	// and MySQL string literals expect.
	Backslash Dialect = backslashDialect{null: "NULL"}

	// SurrealQL is Backslash with NONE as the nil literal.
	SurrealQL Dialect = backslashDialect{null: "NONE"}
)

type standardDialect struct{}

func (standardDialect) QuoteString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\'':
			b.WriteString("''")
		case 0:
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

func (standardDialect) Null() string { return "NULL" }

type backslashDialect struct {
	null string
}

func (backslashDialect) QuoteString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\'', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case 0:
			b.WriteString(`\0`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

func (d backslashDialect) Null() string { return d.null }

// DialectFunc adapts an append-style quoting function, such as the one exposed
// by bun dialects, to a Dialect.
type DialectFunc struct {
	Append  func(b []byte, s string) []byte
	NullLit string
}

func (d DialectFunc) QuoteString(s string) string {
	return string(d.Append(make([]byte, 0, len(s)+2), s))
}

func (d DialectFunc) Null() string {
	if d.NullLit == "" {
		return "NULL"
	}
	return d.NullLit
}

// DialectByName resolves a dialect from its configuration name.
func DialectByName(name string) (Dialect, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sql", "standard", "postgres", "postgresql", "sqlite", "sqlite3":
		return Standard, true
	case "mysql", "backslash":
		return Backslash, true
	case "surreal", "surrealdb", "surrealql":
		return SurrealQL, true
	}
	return nil, false
}
