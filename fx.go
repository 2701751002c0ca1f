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

package stratum

import (
	"context"
	"fmt"
	"reflect"

	"go.uber.org/fx"

	"github.com/tomoncle/stratum/database"
	"github.com/tomoncle/stratum/repository"
)

var (
	containerType = reflect.TypeFor[*Container]()
	errorType     = reflect.TypeFor[error]()
)

// ContainerParams are the dependencies of the fx-provided Container.
type ContainerParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Driver    database.Driver
}

// FXModule provides a *Container built from the declarations under scope and
// every repository as *R, both unnamed and named after its declaration type.
// The application must provide a database.Driver.
//
//	app := fx.New(
//	    fx.Provide(newDriver),
//	    stratum.FXModule("example.com/app/store"),
//	    fx.Invoke(func(users *store.Users) { ... }),
//	)
//
// Declarations must be registered before FXModule is called, which init
// functions guarantee.
func FXModule(scope string, opts ...Option) fx.Option {
	opts = append([]Option{WithScope(scope)}, opts...)
	o := newOptions(opts)

	provides := []any{
		func(p ContainerParams) (*Container, error) {
			return newFXContainer(p, opts)
		},
	}

	descs, _ := o.registry.Discover(o.scope)
	for _, desc := range descs {
		ctor := repositoryConstructor(desc)
		provides = append(provides,
			ctor,
			fx.Annotate(ctor, fx.ResultTags(fmt.Sprintf("name:%q", desc.Name()))),
		)
	}

	return fx.Module("stratum",
		fx.Provide(provides...),
		fx.Invoke(func(*Container) {}),
	)
}

func newFXContainer(p ContainerParams, opts []Option) (*Container, error) {
	c, err := Initialize(context.Background(), p.Driver, opts...)
	if err != nil {
		return nil, err
	}
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			status := database.HealthCheck(ctx, c.Driver())
			if !status.Healthy {
				return fmt.Errorf("%w: %s", database.ErrConnection, status.LastError)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			database.GetLogger().Info("Releasing repositories", "count", len(c.Names()))
			return nil
		},
	})
	return c, nil
}

// repositoryConstructor returns a func(*Container) (*R, error) serving the
// repository of desc from the container.
func repositoryConstructor(desc repository.Descriptor) any {
	ptr := reflect.PointerTo(desc.RepositoryType())
	fnType := reflect.FuncOf([]reflect.Type{containerType}, []reflect.Type{ptr, errorType}, false)
	name := desc.Name()

	return reflect.MakeFunc(fnType, func(in []reflect.Value) []reflect.Value {
		c := in[0].Interface().(*Container)
		repo, ok := c.Get(name)
		if !ok || reflect.TypeOf(repo) != ptr {
			err := fmt.Errorf("%w: %s", ErrRepositoryNotFound, name)
			return []reflect.Value{reflect.Zero(ptr), reflect.ValueOf(&err).Elem()}
		}
		return []reflect.Value{reflect.ValueOf(repo), reflect.Zero(errorType)}
	}).Interface()
}
