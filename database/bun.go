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
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/tomoncle/stratum/query"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/feature"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

// BunDriver runs queries on a SQL database through bun.
type BunDriver struct {
	db      *bun.DB
	dialect query.Dialect
	logger  Logger
}

var (
	_ Driver       = (*BunDriver)(nil)
	_ TableCreator = (*BunDriver)(nil)
)

// NewBunDriver wraps an open bun database.
func NewBunDriver(db *bun.DB, logger Logger) *BunDriver {
	if logger == nil {
		logger = GetLogger()
	}
	return &BunDriver{
		db:      db,
		dialect: query.DialectFunc{Append: db.Dialect().AppendString},
		logger:  logger,
	}
}

// OpenBun opens a MySQL, PostgreSQL or SQLite database described by cfg and
// verifies the connection.
func OpenBun(ctx context.Context, cfg *ConnectionConfig, logger Logger) (*BunDriver, error) {
	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 30 * time.Second
	}

	var (
		sqlDB *sql.DB
		db    *bun.DB
		err   error
	)
	switch strings.ToLower(cfg.Type) {
	case "mysql":
		sqlDB, err = sql.Open("mysql", mysqlDSN(cfg, connectTimeout))
		if err == nil {
			db = bun.NewDB(sqlDB, mysqldialect.New())
		}
	case "postgres", "postgresql":
		sqlDB, err = sql.Open("postgres", postgresDSN(cfg, connectTimeout))
		if err == nil {
			db = bun.NewDB(sqlDB, pgdialect.New())
		}
	case "sqlite", "sqlite3":
		sqlDB, err = sql.Open(sqliteshim.ShimName, sqliteDSN(cfg))
		if err == nil {
			db = bun.NewDB(sqlDB, sqlitedialect.New())
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, cfg.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}

	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if logger == nil {
		logger = GetLogger()
	}
	if cfg.EnableQueryLog {
		db.AddQueryHook(bundebug.NewQueryHook(
			bundebug.WithVerbose(true),
			bundebug.FromEnv("BUNDEBUG"),
		))
	} else {
		db.AddQueryHook(NewQueryHook(nil, false))
	}
	if cfg.SlowQueryTime > 0 {
		db.AddQueryHook(&slowQueryHook{slowTime: cfg.SlowQueryTime, logger: logger})
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}

	logger.Info("Database connected successfully", "type", cfg.Type, "host", cfg.Host, "dbname", cfg.DBName)
	return NewBunDriver(db, logger), nil
}

func mysqlDSN(cfg *ConnectionConfig, timeout time.Duration) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%s&readTimeout=%s&writeTimeout=%s",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.DBName,
		timeout, cfg.ReadTimeout, cfg.WriteTimeout,
	)
}

func postgresDSN(cfg *ConnectionConfig, timeout time.Duration) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s&connect_timeout=%d",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.DBName,
		sslMode, int(timeout.Seconds()),
	)
}

func sqliteDSN(cfg *ConnectionConfig) string {
	switch {
	case cfg.DBName == "" || cfg.DBName == ":memory:":
		return "file::memory:?cache=shared"
	case strings.HasPrefix(cfg.DBName, "file:"):
		return cfg.DBName
	}
	return fmt.Sprintf("%s.db", cfg.DBName)
}

// DB exposes the underlying bun database for callers that need query builders.
func (d *BunDriver) DB() *bun.DB { return d.db }

func (d *BunDriver) Name() string { return d.db.Dialect().Name().String() }

func (d *BunDriver) Dialect() query.Dialect { return d.dialect }

// Query scans the rows of a rendered query into dest. The query is passed to
// bun without arguments so it is sent verbatim.
func (d *BunDriver) Query(ctx context.Context, q string, dest any) error {
	d.logger.Debug("Executing query", "driver", d.Name(), "query", q)
	return wrapErr(d.db.NewRaw(q).Scan(ctx, dest))
}

func (d *BunDriver) Get(ctx context.Context, id any, dest any) error {
	err := d.db.NewSelect().Model(dest).Where("?PKs = ?", id).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return wrapErr(err)
}

func (d *BunDriver) Find(ctx context.Context, dest any, offset, limit int) error {
	q := d.db.NewSelect().Model(dest)
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	return wrapErr(q.Scan(ctx))
}

func (d *BunDriver) Count(ctx context.Context, model any) (int, error) {
	n, err := d.db.NewSelect().Model(model).Count(ctx)
	return n, wrapErr(err)
}

// Save inserts entity or updates the existing row with the same primary key.
func (d *BunDriver) Save(ctx context.Context, entity any) error {
	t := reflect.TypeOf(entity)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	table := d.db.Table(t)

	var pks, fields []string
	for _, f := range table.PKs {
		pks = append(pks, f.Name)
	}
	for _, f := range table.DataFields {
		fields = append(fields, f.Name)
	}

	switch {
	case len(pks) > 0 && d.db.HasFeature(feature.InsertOnConflict):
		return wrapErr(d.upsertOnConflict(ctx, entity, pks, fields))
	case d.db.HasFeature(feature.InsertOnDuplicateKey) && len(fields) > 0:
		return wrapErr(d.upsertOnDuplicateKey(ctx, entity, fields))
	default:
		return d.upsertFallback(ctx, entity)
	}
}

func (d *BunDriver) upsertOnConflict(ctx context.Context, entity any, pks, fields []string) error {
	q := d.db.NewInsert().Model(entity)
	if len(fields) == 0 {
		_, err := q.On("CONFLICT (" + strings.Join(pks, ", ") + ") DO NOTHING").Exec(ctx)
		return err
	}
	q = q.On("CONFLICT (" + strings.Join(pks, ", ") + ") DO UPDATE")
	for _, f := range fields {
		q = q.Set("? = EXCLUDED.?", bun.Ident(f), bun.Ident(f))
	}
	_, err := q.Exec(ctx)
	return err
}

func (d *BunDriver) upsertOnDuplicateKey(ctx context.Context, entity any, fields []string) error {
	q := d.db.NewInsert().Model(entity).On("DUPLICATE KEY UPDATE")
	for _, f := range fields {
		q = q.Set("? = VALUES(?)", bun.Ident(f), bun.Ident(f))
	}
	_, err := q.Exec(ctx)
	return err
}

func (d *BunDriver) upsertFallback(ctx context.Context, entity any) error {
	_, err := d.db.NewInsert().Model(entity).Exec(ctx)
	if err == nil {
		return nil
	}
	if _, updateErr := d.db.NewUpdate().Model(entity).WherePK().Exec(ctx); updateErr != nil {
		return fmt.Errorf("%w: upsert failed: insert error: %v, update error: %w", ErrQuery, err, updateErr)
	}
	return nil
}

func (d *BunDriver) Delete(ctx context.Context, id any, model any) error {
	_, err := d.db.NewDelete().Model(model).Where("?PKs = ?", id).Exec(ctx)
	return wrapErr(err)
}

func (d *BunDriver) EnsureTable(ctx context.Context, model any) error {
	_, err := d.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create table %T: %w", model, wrapErr(err))
	}
	return nil
}

func (d *BunDriver) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}
	return nil
}

// Stats reports connection pool statistics for health checks.
func (d *BunDriver) Stats() sql.DBStats { return d.db.Stats() }

func (d *BunDriver) Close() error {
	err := d.db.Close()
	if err != nil {
		d.logger.Error("Failed to close database connection", "error", err)
	} else {
		d.logger.Info("Database connection closed")
	}
	return err
}

func wrapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrConnection), errors.Is(err, ErrQuery), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case ClassifyError(err) == DuplicateKeyErr:
		return fmt.Errorf("%w: %w: %w", ErrQuery, ErrDuplicate, err)
	}
	return fmt.Errorf("%w: %w", ErrQuery, err)
}
