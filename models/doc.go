// Package models defines the persisted entities and the descriptors that
// register them with the database client.
package models
