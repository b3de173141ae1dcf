// Package database owns the live database client: Bun delegates for each
// model, the connection manager and its health checks, query hooks, error
// classification and table migrations.
package database
