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

package database

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// DBError classifies driver errors independently of the backing database.
type DBError int

const (
	UnknownErr DBError = iota
	NoRowsErr
	NoIndexErr
	NoColumnErr
	ExistIndexErr
	ExistColumnErr
	NoTableErr
	ExistTableErr
	DuplicateKeyErr
	NotNullViolationErr
	ForeignKeyViolationErr
	CheckConstraintViolationErr
	DataTruncatedErr
	InvalidTypeCastErr
	ParseErr
)

var dbErrorNames = [...]string{
	UnknownErr:                  "unknown",
	NoRowsErr:                   "no_rows",
	NoIndexErr:                  "no_index",
	NoColumnErr:                 "no_column",
	ExistIndexErr:               "exist_index",
	ExistColumnErr:              "exist_column",
	NoTableErr:                  "no_table",
	ExistTableErr:               "exist_table",
	DuplicateKeyErr:             "duplicate_key",
	NotNullViolationErr:         "not_null_violation",
	ForeignKeyViolationErr:      "foreign_key_violation",
	CheckConstraintViolationErr: "check_constraint_violation",
	DataTruncatedErr:            "data_truncated",
	InvalidTypeCastErr:          "invalid_type_cast",
	ParseErr:                    "parse",
}

func (e DBError) String() string {
	if e < 0 || int(e) >= len(dbErrorNames) {
		return dbErrorNames[UnknownErr]
	}
	return dbErrorNames[e]
}

// ClassifyError maps err to a DBError. MySQL errors are matched by number,
// everything else by the messages PostgreSQL, SQLite and SurrealDB produce.
func ClassifyError(err error) DBError {
	if err == nil {
		return UnknownErr
	}
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, ErrNotFound) {
		return NoRowsErr
	}
	if errors.Is(err, ErrDuplicate) {
		return DuplicateKeyErr
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1091:
			return NoIndexErr
		case 1054:
			return NoColumnErr
		case 1061:
			return ExistIndexErr
		case 1060:
			return ExistColumnErr
		case 1062:
			return DuplicateKeyErr
		case 1048:
			return NotNullViolationErr
		case 1216, 1217:
			return ForeignKeyViolationErr
		case 3819:
			return CheckConstraintViolationErr
		case 1265:
			return DataTruncatedErr
		case 1146:
			return NoTableErr
		case 1050:
			return ExistTableErr
		case 1064:
			return ParseErr
		default:
			return UnknownErr
		}
	}

	s := strings.ToLower(err.Error())
	switch {
	case strings.Contains(s, "sqlstate 42703"),
		strings.Contains(s, "undefined column"),
		strings.Contains(s, "no such column"):
		return NoColumnErr
	case strings.Contains(s, "sqlstate 42704"),
		strings.Contains(s, "no such index"),
		strings.Contains(s, "does not exist") && strings.Contains(s, "index"):
		return NoIndexErr
	case strings.Contains(s, "sqlstate 42p01"),
		strings.Contains(s, "undefined table"),
		strings.Contains(s, "no such table"),
		strings.Contains(s, "table") && strings.Contains(s, "does not exist"):
		return NoTableErr
	case strings.Contains(s, "already exists") && strings.Contains(s, "index"):
		return ExistIndexErr
	case strings.Contains(s, "already contains"),
		strings.Contains(s, "duplicate key value"),
		strings.Contains(s, "unique constraint failed"),
		strings.Contains(s, "sqlstate 23505"),
		strings.Contains(s, "record") && strings.Contains(s, "already exists"):
		return DuplicateKeyErr
	case strings.Contains(s, "already exists") && (strings.Contains(s, "table") || strings.Contains(s, "relation")):
		return ExistTableErr
	case strings.Contains(s, "not-null constraint"),
		strings.Contains(s, "sqlstate 23502"),
		strings.Contains(s, "not null constraint failed"):
		return NotNullViolationErr
	case strings.Contains(s, "foreign key violation"),
		strings.Contains(s, "foreign key constraint failed"),
		strings.Contains(s, "sqlstate 23503"):
		return ForeignKeyViolationErr
	case strings.Contains(s, "check constraint"),
		strings.Contains(s, "sqlstate 23514"):
		return CheckConstraintViolationErr
	case strings.Contains(s, "string data right truncation"),
		strings.Contains(s, "sqlstate 22001"),
		strings.Contains(s, "data truncated"):
		return DataTruncatedErr
	case strings.Contains(s, "datatype mismatch"),
		strings.Contains(s, "sqlstate 42804"):
		return InvalidTypeCastErr
	case strings.Contains(s, "parse error"),
		strings.Contains(s, "syntax error"),
		strings.Contains(s, "sqlstate 42601"):
		return ParseErr
	}
	return UnknownErr
}
