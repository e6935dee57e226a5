// Package testinfra opens throwaway databases for tests: in-memory SQLite
// and DuckDB for unit tests, and a MySQL container (build tag integration).
package testinfra
