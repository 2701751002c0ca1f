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
	"context"
	"errors"
	"reflect"
	"strings"
	"unicode"

	"github.com/tomoncle/stratum/query"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrQuery             = errors.New("query failed")
	ErrConnection        = errors.New("database connection failed")
	ErrDuplicate         = errors.New("duplicate record")
	ErrUnsupportedDriver = errors.New("unsupported database type")
)

//go:generate mockgen -source=driver.go -destination=mock_driver.go -package=database

// Driver executes literal queries and generic CRUD operations against one
// database. Implementations must be safe for concurrent use.
//
// dest arguments follow the conventions of the call: Query and Find fill a
// pointer to a slice (*[]E or *[]*E), Get fills a pointer to a single entity.
// Count and Delete use model only for its type.
type Driver interface {
	Name() string
	Dialect() query.Dialect

	// Query runs a fully rendered query and appends every returned row to
	// dest. Multi-statement results are flattened in statement order.
	Query(ctx context.Context, q string, dest any) error

	// Get loads the entity with the given id into dest, returning
	// ErrNotFound when no such entity exists.
	Get(ctx context.Context, id any, dest any) error
	Find(ctx context.Context, dest any, offset, limit int) error
	Count(ctx context.Context, model any) (int, error)
	Save(ctx context.Context, entity any) error
	Delete(ctx context.Context, id any, model any) error

	Ping(ctx context.Context) error
	Close() error
}

// TableCreator is implemented by drivers that can bootstrap the storage of a
// model.
type TableCreator interface {
	EnsureTable(ctx context.Context, model any) error
}

// TableNamer lets a model override its table name.
type TableNamer interface {
	TableName() string
}

// TableName resolves the table of model, which may be an entity, a pointer to
// one (nil included) or a slice of either. A TableName method wins, then a bun
// "table:" tag on an embedded bun.BaseModel, then the snake_cased type name.
func TableName(model any) string {
	t := reflect.TypeOf(model)
	for t != nil && (t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice) {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	if n, ok := reflect.New(t).Interface().(TableNamer); ok {
		return n.TableName()
	}
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			if name := bunTableTag(t.Field(i).Tag.Get("bun")); name != "" {
				return name
			}
		}
	}
	return snakeCase(t.Name())
}

func bunTableTag(tag string) string {
	for _, part := range strings.Split(tag, ",") {
		if name, ok := strings.CutPrefix(strings.TrimSpace(part), "table:"); ok {
			return name
		}
	}
	return ""
}

func snakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
