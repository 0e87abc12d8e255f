// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Structure:
//   - base.go: JSON column helpers
//   - catalog.go: menu tree and catalog product models
//   - order.go: delivery order models
//   - integration.go: platform callback log models
//
// JSON columns are jsonb on PostgreSQL and plain text elsewhere; models carry them as strings.
package models
