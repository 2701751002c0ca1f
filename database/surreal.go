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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/models"
	"github.com/tomoncle/stratum/query"
	"github.com/tomoncle/stratum/types"
)

// surrealExec runs one SurrealQL request and returns the flattened, normalized
// results of all of its statements.
type surrealExec func(ctx context.Context, q string, vars map[string]any) ([]any, error)

// SurrealDriver runs queries against SurrealDB.
type SurrealDriver struct {
	db       *surrealdb.DB
	exec     surrealExec
	logger   Logger
	slowTime time.Duration
}

var (
	_ Driver       = (*SurrealDriver)(nil)
	_ TableCreator = (*SurrealDriver)(nil)
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// OpenSurreal connects, signs in and selects the namespace and database
// described by cfg.
func OpenSurreal(ctx context.Context, cfg *ConnectionConfig, logger Logger) (*SurrealDriver, error) {
	if logger == nil {
		logger = GetLogger()
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("ws://%s:%d", cfg.Host, cfg.Port)
	}
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	db, err := surrealdb.FromEndpointURLString(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	if cfg.Username != "" {
		if _, err = db.SignIn(ctx, &surrealdb.Auth{
			Username: cfg.Username,
			Password: cfg.Password,
		}); err != nil {
			_ = db.Close(ctx)
			return nil, fmt.Errorf("%w: signin failed: %v", ErrConnection, err)
		}
	}
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = cfg.DBName
	}
	if err := db.Use(ctx, namespace, cfg.DBName); err != nil {
		_ = db.Close(ctx)
		return nil, fmt.Errorf("%w: use failed: %v", ErrConnection, err)
	}

	d := &SurrealDriver{db: db, logger: logger, slowTime: cfg.SlowQueryTime}
	d.exec = d.execute
	logger.Info("Database connected successfully", "type", "surrealdb", "endpoint", endpoint, "namespace", namespace, "database", cfg.DBName)
	return d, nil
}

func (d *SurrealDriver) execute(ctx context.Context, q string, vars map[string]any) ([]any, error) {
	if d.db == nil {
		return nil, ErrConnection
	}
	results, err := surrealdb.Query[any](ctx, d.db, q, vars)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	if results == nil {
		return nil, nil
	}

	var rows []any
	for _, r := range *results {
		if r.Status != "OK" {
			if r.Error != nil {
				return nil, fmt.Errorf("%w: %s", ErrQuery, r.Error.Message)
			}
			return nil, fmt.Errorf("%w: statement status %s", ErrQuery, r.Status)
		}
		rows = flattenResult(rows, r.Result)
	}
	return rows, nil
}

func (d *SurrealDriver) run(ctx context.Context, q string, vars map[string]any) ([]any, error) {
	d.logger.Debug("Executing query", "driver", "surrealdb", "query", q)
	start := time.Now()
	rows, err := d.exec(ctx, q, vars)
	if err == nil {
		logSlowQuery(d.logger, d.slowTime, time.Since(start), q)
	}
	return rows, err
}

func (d *SurrealDriver) Name() string { return "surrealdb" }

func (d *SurrealDriver) Dialect() query.Dialect { return query.SurrealQL }

func (d *SurrealDriver) Query(ctx context.Context, q string, dest any) error {
	rows, err := d.run(ctx, q, nil)
	if err != nil {
		return err
	}
	return decodeRows(rows, dest)
}

func (d *SurrealDriver) Get(ctx context.Context, id any, dest any) error {
	table := TableName(dest)
	rows, err := d.run(ctx, "SELECT * FROM type::thing($tb, $id)", map[string]any{
		"tb": table,
		"id": recordKey(table, id),
	})
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	return decodeRows(rows[0], dest)
}

func (d *SurrealDriver) Find(ctx context.Context, dest any, offset, limit int) error {
	q := "SELECT * FROM type::table($tb)"
	vars := map[string]any{"tb": TableName(dest)}
	if limit > 0 {
		q += " LIMIT $limit START $start"
		vars["limit"] = limit
		vars["start"] = offset
	}
	rows, err := d.run(ctx, q, vars)
	if err != nil {
		return err
	}
	return decodeRows(rows, dest)
}

func (d *SurrealDriver) Count(ctx context.Context, model any) (int, error) {
	rows, err := d.run(ctx, "SELECT count() FROM type::table($tb) GROUP ALL", map[string]any{
		"tb": TableName(model),
	})
	if err != nil {
		return 0, err
	}
	var counts []struct {
		Count int `json:"count"`
	}
	if err := decodeRows(rows, &counts); err != nil {
		return 0, err
	}
	if len(counts) == 0 {
		return 0, nil
	}
	return counts[0].Count, nil
}

// Save upserts entity under its "id" field, generating a UUID when the id is
// empty. The stored record is decoded back into entity.
func (d *SurrealDriver) Save(ctx context.Context, entity any) error {
	var data types.JsonObject
	raw, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("%w: encode entity: %v", ErrQuery, err)
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("%w: encode entity: %v", ErrQuery, err)
	}

	// numeric ids keep their integer text, as Get and Delete render them
	var ident struct {
		ID any `json:"id"`
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&ident); err != nil {
		return fmt.Errorf("%w: encode entity: %v", ErrQuery, err)
	}

	table := TableName(entity)
	key := ""
	if ident.ID != nil {
		key = recordKey(table, ident.ID)
	}
	if key == "" || key == "0" {
		key = uuid.NewString()
	}
	delete(data, "id")

	rows, err := d.run(ctx, "UPSERT type::thing($tb, $id) CONTENT $data", map[string]any{
		"tb":   table,
		"id":   key,
		"data": map[string]any(data),
	})
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return decodeRows(rows[0], entity)
}

func (d *SurrealDriver) Delete(ctx context.Context, id any, model any) error {
	table := TableName(model)
	_, err := d.run(ctx, "DELETE type::thing($tb, $id)", map[string]any{
		"tb": table,
		"id": recordKey(table, id),
	})
	return err
}

func (d *SurrealDriver) EnsureTable(ctx context.Context, model any) error {
	table := TableName(model)
	if !identPattern.MatchString(table) {
		return fmt.Errorf("%w: invalid table name %q", ErrQuery, table)
	}
	_, err := d.run(ctx, "DEFINE TABLE IF NOT EXISTS "+table+" SCHEMALESS", nil)
	return err
}

func (d *SurrealDriver) Ping(ctx context.Context) error {
	if d.db == nil {
		if _, err := d.exec(ctx, "RETURN true", nil); err != nil {
			return fmt.Errorf("%w: %v", ErrConnection, err)
		}
		return nil
	}
	if _, err := d.db.Version(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return nil
}

func (d *SurrealDriver) Close() error {
	if d.db == nil {
		return nil
	}
	err := d.db.Close(context.Background())
	if err != nil {
		d.logger.Error("Failed to close database connection", "error", err)
	} else {
		d.logger.Info("Database connection closed")
	}
	return err
}

// flattenResult appends one statement result to rows. Array results
// contribute each element, scalars contribute themselves.
func flattenResult(rows []any, result any) []any {
	switch v := result.(type) {
	case nil:
		return rows
	case []any:
		for _, item := range v {
			rows = append(rows, normalize(item, true))
		}
		return rows
	}
	return append(rows, normalize(result, true))
}

// normalize converts SurrealDB wire values into plain JSON friendly values.
// The id of a top level record is reduced to its key so it decodes into the
// entity's id field.
func normalize(v any, record bool) any {
	switch t := v.(type) {
	case models.RecordID:
		return t.Table + ":" + fmt.Sprint(t.ID)
	case *models.RecordID:
		if t == nil {
			return nil
		}
		return t.Table + ":" + fmt.Sprint(t.ID)
	case models.CustomDateTime:
		return t.Time
	case *models.CustomDateTime:
		if t == nil {
			return nil
		}
		return t.Time
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeField(k, val, record)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			key := fmt.Sprint(k)
			out[key] = normalizeField(key, val, record)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalize(item, false)
		}
		return out
	}
	return v
}

func normalizeField(key string, v any, record bool) any {
	if record && key == "id" {
		switch t := v.(type) {
		case models.RecordID:
			return t.ID
		case *models.RecordID:
			if t != nil {
				return t.ID
			}
		}
	}
	return normalize(v, false)
}

// recordKey returns the key part of a record id, without the table prefix or
// the angle brackets SurrealDB puts around complex keys.
func recordKey(table string, id any) string {
	var s string
	switch v := id.(type) {
	case models.RecordID:
		return fmt.Sprint(v.ID)
	case *models.RecordID:
		if v == nil {
			return ""
		}
		return fmt.Sprint(v.ID)
	case string:
		s = v
	default:
		s = fmt.Sprint(v)
	}
	s = strings.TrimPrefix(s, table+":")
	s = strings.TrimPrefix(s, "⟨")
	return strings.TrimSuffix(s, "⟩")
}

// decodeRows converts normalized values into dest through their JSON form.
func decodeRows(rows any, dest any) error {
	raw, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("%w: decode rows: %v", ErrQuery, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("%w: decode rows into %T: %v", ErrQuery, dest, err)
	}
	return nil
}
