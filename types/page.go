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

package types

const (
	DefaultPageSize = 10
	MaxPageSize     = 1000
)

// PageRequest selects a 1-based page of a given size. The zero value asks for
// the first page of DefaultPageSize items.
type PageRequest struct {
	page     int
	pageSize int
}

// NewPageRequest normalizes its arguments: a page below 1 becomes 1, a size
// below 1 becomes DefaultPageSize and sizes above MaxPageSize are clamped.
func NewPageRequest(page int, pageSize int) *PageRequest {
	return &PageRequest{page: max(page, 1), pageSize: clampPageSize(pageSize)}
}

func clampPageSize(size int) int {
	if size < 1 {
		return DefaultPageSize
	}
	return min(size, MaxPageSize)
}

func (p *PageRequest) GetPage() int { return max(p.page, 1) }

func (p *PageRequest) GetPageSize() int { return clampPageSize(p.pageSize) }

// GetOffset returns the number of rows preceding the page.
func (p *PageRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

// Pagination is one page of a CRUD listing.
type Pagination[T any] struct {
	Page     int  `json:"page" yaml:"page"`
	PageSize int  `json:"page_size" yaml:"page_size"`
	Total    int  `json:"total" yaml:"total"`
	Items    []*T `json:"items" yaml:"items"`
}

// NewDefaultPagination returns an empty page.
func NewDefaultPagination[T any](page int, pageSize int) *Pagination[T] {
	return &Pagination[T]{Page: page, PageSize: pageSize, Items: []*T{}}
}

// Pages returns the number of pages needed for Total items.
func (p *Pagination[T]) Pages() int {
	if p.PageSize < 1 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

// HasNext reports whether a page follows this one.
func (p *Pagination[T]) HasNext() bool {
	return p.Page < p.Pages()
}
