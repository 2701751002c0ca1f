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
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/tomoncle/stratum/database"
	"github.com/tomoncle/stratum/repository"
)

var (
	ErrDuplicateRepository = errors.New("repository name already registered")
	ErrRepositoryNotFound  = errors.New("repository not found")
)

// Container holds the repositories built by Initialize.
type Container struct {
	mu           sync.RWMutex
	driver       database.Driver
	byName       map[string]any
	byType       map[reflect.Type]any
	descriptors  []repository.Descriptor
	discoveryErr error
}

func newContainer(drv database.Driver) *Container {
	return &Container{
		driver: drv,
		byName: make(map[string]any),
		byType: make(map[reflect.Type]any),
	}
}

func (c *Container) add(desc repository.Descriptor, repo any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.byName[desc.Name()]; ok {
		return fmt.Errorf("%w: %s (%T and %T)", ErrDuplicateRepository, desc.Name(), existing, repo)
	}
	c.byName[desc.Name()] = repo
	c.byType[desc.RepositoryType()] = repo
	c.descriptors = append(c.descriptors, desc)
	return nil
}

// Get returns the repository registered under name, a pointer to its
// declaration struct.
func (c *Container) Get(name string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	repo, ok := c.byName[name]
	return repo, ok
}

// MustGet is like Get but panics when name is unknown.
func (c *Container) MustGet(name string) any {
	repo, ok := c.Get(name)
	if !ok {
		panic(fmt.Errorf("%w: %s", ErrRepositoryNotFound, name))
	}
	return repo
}

// Names returns the registered repository names in sorted order.
func (c *Container) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.byName))
	for name := range c.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Descriptors returns the descriptors of the built repositories in discovery
// order.
func (c *Container) Descriptors() []repository.Descriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]repository.Descriptor(nil), c.descriptors...)
}

// DiscoveryErrors returns the joined errors of the declarations skipped
// during discovery, or nil.
func (c *Container) DiscoveryErrors() error {
	return c.discoveryErr
}

// Driver returns the driver the repositories were built with.
func (c *Container) Driver() database.Driver {
	return c.driver
}

// Lookup returns the repository built for declaration R.
func Lookup[R any](c *Container) (*R, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	repo, ok := c.byType[reflect.TypeFor[R]()]
	if !ok {
		return nil, false
	}
	return repo.(*R), true
}
