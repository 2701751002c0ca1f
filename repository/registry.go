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
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/tomoncle/stratum/database"
)

var defaultRegistry = NewRegistry()

// Descriptor identifies one repository declaration and the types it is
// parameterized over.
type Descriptor struct {
	repositoryType reflect.Type
	entityType     reflect.Type
	idType         reflect.Type
	embedPath      []int
	decl           declaration
}

// RepositoryType returns the declaration struct type.
func (d Descriptor) RepositoryType() reflect.Type { return d.repositoryType }

// EntityType returns the entity type T of the embedded Repository[T, ID].
func (d Descriptor) EntityType() reflect.Type { return d.entityType }

// IDType returns the identifier type ID. It is informational only.
func (d Descriptor) IDType() reflect.Type { return d.idType }

// Name returns the declaration's type name, used to register the built
// repository.
func (d Descriptor) Name() string { return d.repositoryType.Name() }

func (d Descriptor) String() string {
	return fmt.Sprintf("%s[%v, %v]", typeName(d.repositoryType), d.entityType, d.idType)
}

// Registry stores repository declarations.
type Registry struct {
	mu    sync.RWMutex
	types map[reflect.Type]struct{}
}

func NewRegistry() *Registry {
	return &Registry{types: make(map[reflect.Type]struct{})}
}

// Register records a declaration type. Registering the same type twice has no
// effect.
func (r *Registry) Register(t reflect.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[t] = struct{}{}
}

// Discover describes every registered declaration whose package path is scope
// or nested under it; an empty scope matches everything. Malformed
// declarations are skipped and reported together in the returned error,
// alongside the descriptors of the well-formed ones. Descriptors are sorted by
// package path, then name.
func (r *Registry) Discover(scope string) ([]Descriptor, error) {
	r.mu.RLock()
	candidates := make([]reflect.Type, 0, len(r.types))
	for t := range r.types {
		if inScope(t, scope) {
			candidates = append(candidates, t)
		}
	}
	r.mu.RUnlock()

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].PkgPath() != candidates[j].PkgPath() {
			return candidates[i].PkgPath() < candidates[j].PkgPath()
		}
		return candidates[i].String() < candidates[j].String()
	})

	logger := database.GetLogger()
	descriptors := make([]Descriptor, 0, len(candidates))
	var errs []error
	for _, t := range candidates {
		desc, err := Describe(t)
		if err != nil {
			logger.Warn("Skipping repository declaration", "type", typeName(t), "error", err)
			errs = append(errs, err)
			continue
		}
		logger.Debug("Discovered repository", "repository", desc.String())
		descriptors = append(descriptors, desc)
	}
	return descriptors, errors.Join(errs...)
}

func inScope(t reflect.Type, scope string) bool {
	if scope == "" {
		return true
	}
	pkg := t.PkgPath()
	if pkg == "" && t.Kind() == reflect.Pointer {
		pkg = t.Elem().PkgPath()
	}
	return pkg == scope || strings.HasPrefix(pkg, scope+"/")
}

// Describe validates a single declaration type. The Repository may be
// embedded directly or through other embedded structs, always by value.
func Describe(t reflect.Type) (Descriptor, error) {
	malformed := func(format string, args ...any) (Descriptor, error) {
		return Descriptor{}, &DiscoveryError{Type: t, Reason: fmt.Sprintf(format, args...)}
	}
	if t == nil {
		return malformed("nil type")
	}
	if t.Kind() != reflect.Struct {
		return malformed("declaration must be a struct, got %s", t.Kind())
	}
	if t.Name() == "" {
		return malformed("declaration must be a named type")
	}

	path, decl, reason := embeddedRepository(t)
	if reason != "" {
		return malformed("%s", reason)
	}
	if decl == nil {
		return malformed("does not embed repository.Repository[T, ID]")
	}
	entity, id := decl.entityType(), decl.idType()
	if entity.Kind() != reflect.Struct {
		return malformed("entity type %v is not a concrete struct type", entity)
	}
	if id.Kind() == reflect.Interface {
		return malformed("identifier type %v is not a concrete type", id)
	}
	return Descriptor{
		repositoryType: t,
		entityType:     entity,
		idType:         id,
		embedPath:      path,
		decl:           decl,
	}, nil
}

// embeddedRepository finds the Repository instantiation reachable from t
// through value embeds, directly or through intermediate structs, and returns
// its field index path. A non-empty reason reports a malformed embed.
func embeddedRepository(t reflect.Type) ([]int, declaration, string) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		if f.Type.Kind() == reflect.Pointer && f.Type.Elem().Implements(declarationType) {
			return nil, nil, fmt.Sprintf("%s must be embedded by value", f.Type.Elem())
		}
		if f.Type.Kind() != reflect.Struct || !f.Type.Implements(declarationType) {
			continue
		}

		path, inner, reason := embeddedRepository(f.Type)
		if reason != "" || inner != nil {
			return append([]int{i}, path...), inner, reason
		}
		// nothing embedded below, so f is the instantiation itself
		decl := reflect.Zero(f.Type).Interface().(declaration)
		if f.Type == decl.baseType() {
			return []int{i}, decl, ""
		}
	}
	return nil, nil, ""
}

// Register records R in the default registry. It is meant to be called from
// init functions:
//
//	func init() { repository.Register[Users]() }
func Register[R any]() {
	defaultRegistry.Register(reflect.TypeFor[R]())
}

// Discover runs discovery on the default registry.
func Discover(scope string) ([]Descriptor, error) {
	return defaultRegistry.Discover(scope)
}

// DefaultRegistry returns the registry used by Register and Discover.
func DefaultRegistry() *Registry {
	return defaultRegistry
}
