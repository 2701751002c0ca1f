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
	"sync"
	"time"

	"github.com/tomoncle/stratum/database"
	"github.com/tomoncle/stratum/repository"
	"github.com/tomoncle/stratum/utils"
)

type options struct {
	scope        string
	registry     *repository.Registry
	repoOpts     []repository.Option
	ensureTables bool
	strict       bool
}

// Option configures Initialize and FXModule.
type Option func(*options)

// WithScope limits discovery to declarations whose package path is scope or
// nested under it.
func WithScope(scope string) Option {
	return func(o *options) { o.scope = scope }
}

// WithRegistry discovers from reg instead of the default registry.
func WithRegistry(reg *repository.Registry) Option {
	return func(o *options) {
		if reg != nil {
			o.registry = reg
		}
	}
}

// WithRepositoryOptions passes opts to every repository.Build call.
func WithRepositoryOptions(opts ...repository.Option) Option {
	return func(o *options) { o.repoOpts = append(o.repoOpts, opts...) }
}

// WithEnsureTables creates the table of every discovered entity type, when the
// driver supports it, before the repositories are built.
func WithEnsureTables() Option {
	return func(o *options) { o.ensureTables = true }
}

// WithStrictDiscovery makes Initialize fail when any declaration is malformed
// instead of skipping it.
func WithStrictDiscovery() Option {
	return func(o *options) { o.strict = true }
}

func newOptions(opts []Option) *options {
	o := &options{registry: repository.DefaultRegistry()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Initialize discovers the registered declarations and builds each one over
// drv. Malformed declarations are skipped and reported by
// Container.DiscoveryErrors unless WithStrictDiscovery is set; any build
// failure aborts initialization.
func Initialize(ctx context.Context, drv database.Driver, opts ...Option) (*Container, error) {
	if drv == nil {
		return nil, repository.ErrNilDriver
	}
	o := newOptions(opts)
	start := time.Now()
	logger := database.GetLogger()

	descs, discErr := o.registry.Discover(o.scope)
	if discErr != nil && o.strict {
		return nil, discErr
	}

	if o.ensureTables && len(descs) > 0 {
		models := make([]any, 0, len(descs))
		for _, desc := range descs {
			models = append(models, reflect.New(desc.EntityType()).Interface())
		}
		if err := database.EnsureTables(ctx, drv, models...); err != nil {
			return nil, err
		}
	}

	c := newContainer(drv)
	c.discoveryErr = discErr
	for _, desc := range descs {
		repo, err := repository.Build(desc, drv, o.repoOpts...)
		if err != nil {
			return nil, fmt.Errorf("initialize %s: %w", desc.Name(), err)
		}
		if err := c.add(desc, repo); err != nil {
			return nil, err
		}
	}

	logger.Info("Repositories initialized", "count", len(descs), "scope", o.scope,
		"driver", drv.Name(), "took", utils.Since(start))
	return c, nil
}

var (
	defaultOnce      sync.Once
	defaultContainer *Container
	defaultErr       error
)

// Default initializes, on first use, a container with every registered
// repository over the global driver from database.InitDriver.
func Default(ctx context.Context) (*Container, error) {
	defaultOnce.Do(func() {
		drv := database.GetDriver()
		if drv == nil {
			defaultErr = fmt.Errorf("%w: database.InitDriver has not been called", database.ErrConnection)
			return
		}
		defaultContainer, defaultErr = Initialize(ctx, drv)
	})
	return defaultContainer, defaultErr
}
