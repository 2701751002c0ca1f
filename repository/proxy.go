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
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tomoncle/stratum/database"
	"github.com/tomoncle/stratum/query"
	"github.com/tomoncle/stratum/utils"
)

const (
	// QueryTag is the struct tag holding a function field's query template.
	QueryTag = "query"

	tracerName = "github.com/tomoncle/stratum/repository"

	routeQuery = "query"
	routeCrud  = "crud"
)

var (
	contextType = reflect.TypeFor[context.Context]()
	errorType   = reflect.TypeFor[error]()
)

type buildOptions struct {
	logger  database.Logger
	tracer  trace.Tracer
	metrics *Metrics
}

// Option configures Build and New.
type Option func(*buildOptions)

// WithLogger sets the logger used for build and call logging. The default is
// database.GetLogger().
func WithLogger(logger database.Logger) Option {
	return func(o *buildOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTracer sets the tracer used for query spans. The default comes from the
// global otel tracer provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *buildOptions) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

// WithMetrics records every call in m.
func WithMetrics(m *Metrics) Option {
	return func(o *buildOptions) { o.metrics = m }
}

type handler func(args []reflect.Value) []reflect.Value

type builder struct {
	buildOptions
	repo string
	drv  database.Driver
	crud reflect.Value
}

// Build allocates the repository described by desc and binds every exported
// function field. Fields tagged with query run their template through drv;
// untagged fields are forwarded to the generic CRUD method of the same name.
// The returned value is a pointer to the declaration struct.
func Build(desc Descriptor, drv database.Driver, opts ...Option) (any, error) {
	if desc.repositoryType == nil {
		return nil, &DiscoveryError{Reason: "empty descriptor"}
	}
	if drv == nil {
		return nil, fmt.Errorf("build %s: %w", desc.Name(), ErrNilDriver)
	}

	b := &builder{
		buildOptions: buildOptions{
			logger: database.GetLogger(),
			tracer: otel.Tracer(tracerName),
		},
		repo: desc.Name(),
		drv:  drv,
		crud: desc.decl.newCrud(drv),
	}
	for _, opt := range opts {
		opt(&b.buildOptions)
	}

	repo := reflect.New(desc.repositoryType)
	repo.Elem().FieldByIndex(desc.embedPath).Field(0).Set(b.crud)

	queries, forwards := 0, 0
	for _, field := range reflect.VisibleFields(desc.repositoryType) {
		if field.Anonymous || !field.IsExported() || field.Type.Kind() != reflect.Func ||
			!byValue(desc.repositoryType, field.Index) {
			continue
		}

		var h handler
		if tmpl, ok := field.Tag.Lookup(QueryTag); ok {
			var err error
			if h, err = b.queryHandler(field, tmpl); err != nil {
				return nil, err
			}
			queries++
		} else {
			h = b.crudHandler(field)
			forwards++
		}
		repo.Elem().FieldByIndex(field.Index).Set(reflect.MakeFunc(field.Type, h))
	}

	b.logger.Debug("Built repository", "repository", b.repo, "driver", drv.Name(),
		"queries", queries, "crud", forwards)
	return repo.Interface(), nil
}

// byValue reports whether the field at index is reached without passing
// through an embedded pointer, which would still be nil on a fresh value.
func byValue(t reflect.Type, index []int) bool {
	for _, i := range index[:len(index)-1] {
		t = t.Field(i).Type
		if t.Kind() != reflect.Struct {
			return false
		}
	}
	return true
}

// New builds the declaration R directly, without going through a registry.
func New[R any](drv database.Driver, opts ...Option) (*R, error) {
	desc, err := Describe(reflect.TypeFor[R]())
	if err != nil {
		return nil, err
	}
	repo, err := Build(desc, drv, opts...)
	if err != nil {
		return nil, err
	}
	return repo.(*R), nil
}

func (b *builder) queryHandler(field reflect.StructField, tmpl string) (handler, error) {
	ft, method := field.Type, field.Name
	sigErr := func(reason string) error {
		return &MethodSignatureError{Repository: b.repo, Method: method, Reason: reason}
	}
	if strings.TrimSpace(tmpl) == "" {
		return nil, sigErr("empty query template")
	}
	if ft.NumIn() == 0 || ft.In(0) != contextType {
		return nil, sigErr("first parameter must be context.Context")
	}
	if ft.NumOut() != 2 || ft.Out(1) != errorType {
		return nil, sigErr("results must be (R, error)")
	}

	resultType := ft.Out(0)
	shape, elem, err := ShapeOf(resultType)
	if err != nil {
		return nil, &UnsupportedReturnShapeError{Repository: b.repo, Method: method, Type: resultType}
	}
	if n := len(query.Placeholders(tmpl)); !ft.IsVariadic() && n != ft.NumIn()-1 {
		b.logger.Warn("Query placeholders do not match parameters, every call will fail",
			"repository", b.repo, "method", method, "placeholders", n, "parameters", ft.NumIn()-1)
	}

	spanName := b.repo + "." + method
	return func(in []reflect.Value) []reflect.Value {
		ctx := contextArg(in[0])
		start := time.Now()

		ctx, span := b.tracer.Start(ctx, spanName,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				attribute.String("db.system", b.drv.Name()),
				attribute.String("db.query.template", tmpl),
				attribute.String("stratum.result_shape", shape.String()),
			))
		defer span.End()

		out, err := b.runQuery(ctx, method, tmpl, shape, resultType, elem, queryArgs(ft, in[1:]))
		b.metrics.observe(b.repo, method, routeQuery, start, err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			b.logger.Debug("Repository query failed", "repository", b.repo, "method", method,
				"took", utils.Since(start), "error", err)
			return []reflect.Value{reflect.Zero(resultType), errorValue(err)}
		}
		b.logger.Debug("Repository query", "repository", b.repo, "method", method, "took", utils.Since(start))
		return []reflect.Value{out, errorValue(nil)}
	}, nil
}

func (b *builder) runQuery(ctx context.Context, method, tmpl string, shape ResultShape,
	resultType, elem reflect.Type, args []any) (reflect.Value, error) {
	literal, err := query.Render(b.drv.Dialect(), tmpl, args...)
	if err != nil {
		argIndex := -1
		var phErr *query.PlaceholderError
		if errors.As(err, &phErr) {
			argIndex = phErr.ArgumentIndex()
		}
		return reflect.Value{}, &InvocationError{Repository: b.repo, Method: method, ArgIndex: argIndex, Err: err}
	}

	rows := reflect.New(reflect.SliceOf(elem))
	if err := b.drv.Query(ctx, literal, rows.Interface()); err != nil {
		return reflect.Value{}, &InvocationError{Repository: b.repo, Method: method, ArgIndex: -1, Err: err}
	}

	out, err := Fold(shape, resultType, rows.Elem())
	if err != nil {
		return reflect.Value{}, &InvocationError{Repository: b.repo, Method: method, ArgIndex: -1, Err: err}
	}
	return out, nil
}

// crudHandler forwards to the generic CRUD method named like the field. The
// method is resolved per call; a missing or mismatched method is reported
// through the trailing error result, or by panicking when there is none.
func (b *builder) crudHandler(field reflect.StructField) handler {
	ft, method := field.Type, field.Name
	errIndex := -1
	if n := ft.NumOut(); n > 0 && ft.Out(n-1) == errorType {
		errIndex = n - 1
	}

	return func(in []reflect.Value) []reflect.Value {
		start := time.Now()
		target := b.crud.MethodByName(method)
		if !target.IsValid() || !target.Type().ConvertibleTo(ft) {
			err := &InvocationError{Repository: b.repo, Method: method, ArgIndex: -1, Err: ErrMethodNotImplemented}
			b.metrics.observe(b.repo, method, routeCrud, start, err)
			if errIndex < 0 {
				panic(err)
			}
			out := make([]reflect.Value, ft.NumOut())
			for i := range out {
				out[i] = reflect.Zero(ft.Out(i))
			}
			out[errIndex] = errorValue(err)
			return out
		}

		target = target.Convert(ft)
		var out []reflect.Value
		if ft.IsVariadic() {
			out = target.CallSlice(in)
		} else {
			out = target.Call(in)
		}

		var err error
		if errIndex >= 0 && !out[errIndex].IsNil() {
			err = out[errIndex].Interface().(error)
		}
		b.metrics.observe(b.repo, method, routeCrud, start, err)
		return out
	}
}

func contextArg(v reflect.Value) context.Context {
	if ctx, ok := v.Interface().(context.Context); ok && ctx != nil {
		return ctx
	}
	return context.Background()
}

// queryArgs flattens the call arguments, expanding a variadic final parameter.
func queryArgs(ft reflect.Type, in []reflect.Value) []any {
	args := make([]any, 0, len(in))
	for i, v := range in {
		if ft.IsVariadic() && i == len(in)-1 {
			for j := 0; j < v.Len(); j++ {
				args = append(args, v.Index(j).Interface())
			}
			continue
		}
		args = append(args, v.Interface())
	}
	return args
}

func errorValue(err error) reflect.Value {
	if err == nil {
		return reflect.Zero(errorType)
	}
	return reflect.ValueOf(&err).Elem()
}
