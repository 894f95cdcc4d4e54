// Package database provides the GORM database connection.
//
// It supports MySQL for production deployments and SQLite (including
// ":memory:") for tests, selected via Config.Driver. Connection, read and
// write timeouts are applied through the DSN, and the pool is bounded with
// conservative defaults.
package database
