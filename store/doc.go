// Package store persists wheel state (active entries, theme, mode and saved
// lists) as JSON values in a namespaced key-value store backed by SQLite or
// memory.
package store
