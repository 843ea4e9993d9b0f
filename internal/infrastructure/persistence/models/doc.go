// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities that carry heavy invariants stay free of GORM tags
// 2. Persistence models contain all GORM annotations and table mappings
// 3. Mappers convert between domain entities and persistence models
// 4. Repositories use persistence models for database operations
//
// Structure:
// - base.go: Base persistence models (BaseModel, AggregateModel)
// - ledger.go: Billing context models (Invoice, InvoiceItem, Payment)
// - notification.go: In-app notification model
//
// Simple reference entities (students, classes, academic years, fee
// categories, users) are persisted directly from their domain structs.
package models
