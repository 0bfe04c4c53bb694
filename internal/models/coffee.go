package models

import "gorm.io/datatypes"

// Coffee represents a catalog entry
type Coffee struct {
	ID              uint     `gorm:"primaryKey" json:"id"`
	Title           string   `gorm:"not null" json:"title"`
	Brand           string   `gorm:"not null" json:"brand"`
	Recommendations int      `gorm:"not null;default:0" json:"recommendations"`
	Flavors         []Flavor `gorm:"many2many:coffee_flavors;" json:"flavors"`
}

// TableName implements the GORM tabler interface.
func (Coffee) TableName() string { return "coffees" }

// Flavor is shared between coffees and looked up by name
type Flavor struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null;index" json:"name"`
}

// TableName implements the GORM tabler interface.
func (Flavor) TableName() string { return "flavors" }

// Event is an immutable audit record. It refers to other records only
// through its payload.
type Event struct {
	ID      uint              `gorm:"primaryKey" json:"id"`
	Name    string            `gorm:"not null;index:idx_events_name_type,priority:1" json:"name"`
	Type    string            `gorm:"not null;index:idx_events_name_type,priority:2" json:"type"`
	Payload datatypes.JSONMap `json:"payload"`
}

// TableName implements the GORM tabler interface.
func (Event) TableName() string { return "events" }

// Event names and types written by the catalog
const (
	EventRecommendCoffee = "recommend_coffee"
	EventTypeCoffee      = "coffee"
)

// PaginationQuery selects a page of a listing. Nil fields fall back to
// the store defaults (no offset, no limit).
type PaginationQuery struct {
	Offset *int `form:"offset" json:"offset,omitempty" binding:"omitempty,min=0"`
	Limit  *int `form:"limit" json:"limit,omitempty" binding:"omitempty,min=1"`
}

// CreateCoffeeInput carries the fields of a new coffee
type CreateCoffeeInput struct {
	Title   string   `json:"title" yaml:"title" binding:"required,notblank"`
	Brand   string   `json:"brand" yaml:"brand" binding:"required,notblank"`
	Flavors []string `json:"flavors" yaml:"flavors" binding:"required,dive,notblank"`
}

// UpdateCoffeeInput carries a partial update. Nil fields are left unchanged.
type UpdateCoffeeInput struct {
	Title   *string  `json:"title,omitempty" binding:"omitempty,notblank"`
	Brand   *string  `json:"brand,omitempty" binding:"omitempty,notblank"`
	Flavors []string `json:"flavors,omitempty" binding:"omitempty,dive,notblank"`
}
