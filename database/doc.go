// Package database provides the drivers repositories execute through: a
// SurrealDB driver and a bun driver for MySQL, PostgreSQL and SQLite, along
// with configuration, connection management, logging, query hooks, error
// classification, table bootstrap and health checks.
package database
