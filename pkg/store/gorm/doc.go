// Package gorm provides PostgreSQL-backed implementations of the store
// interfaces using GORM. Multi-row cascades (group subtree deletion,
// organization deletion) run inside a single transaction and commit or roll
// back as a unit.
package gorm
