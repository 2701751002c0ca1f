// Package types holds small value types shared by the repository layer:
// Optional results, enum contracts, paging and JSON columns.
package types
