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
	"sort"
	"sync"
)

var defaultRegistry = newModelRegistry()

// Model is an entity whose table is bootstrapped by EnsureTables. Instance
// returns a pointer to the entity struct; lower Priority values are created
// first.
type Model interface {
	Instance() any
	Priority() int
}

// ModelRegistry keeps one model per table name.
type ModelRegistry interface {
	Register(model Model)
	Models() []Model
}

type modelRegistry struct {
	mu      sync.RWMutex
	byTable map[string]int
	models  []Model
}

func newModelRegistry() ModelRegistry {
	return &modelRegistry{byTable: make(map[string]int)}
}

// Register adds model, replacing an earlier model mapped to the same table.
func (r *modelRegistry) Register(model Model) {
	table := TableName(model.Instance())
	r.mu.Lock()
	defer r.mu.Unlock()
	if i, ok := r.byTable[table]; ok {
		r.models[i] = model
		return
	}
	r.byTable[table] = len(r.models)
	r.models = append(r.models, model)
}

// Models returns the models by ascending priority, registration order
// breaking ties.
func (r *modelRegistry) Models() []Model {
	r.mu.RLock()
	result := append([]Model(nil), r.models...)
	r.mu.RUnlock()

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Priority() < result[j].Priority()
	})
	return result
}

type model struct {
	instance any
	priority int
}

func (m model) Instance() any { return m.instance }

func (m model) Priority() int { return m.priority }

// NewModel wraps an entity pointer and priority into a Model.
func NewModel(instance any, priority int) Model {
	return model{instance: instance, priority: priority}
}

// RegisterModel adds a model to the default registry.
func RegisterModel(m Model) {
	defaultRegistry.Register(m)
}

// RegisterEntity registers T in the default registry, typically from an init
// function next to the entity declaration.
func RegisterEntity[T any](priority int) {
	RegisterModel(NewModel((*T)(nil), priority))
}

// RegisteredModelInstances returns the entity pointers of the default registry
// sorted by ascending priority.
func RegisteredModelInstances() []any {
	models := defaultRegistry.Models()
	instances := make([]any, len(models))
	for i, m := range models {
		instances[i] = m.Instance()
	}
	return instances
}
