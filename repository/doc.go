// Package repository generates uniform CRUD repositories over the database
// client's per-model delegates, and degrades to safe stand-ins when the
// process runs without a database.
package repository
