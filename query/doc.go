// Package query renders declarative query templates with positional
// placeholders (?1, ?2, ...) into literal query strings. String arguments are
// quoted and escaped by a Dialect; every argument must be consumed by exactly
// one placeholder.
package query
