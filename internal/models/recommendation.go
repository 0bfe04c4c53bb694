package models

// Recommendation represents a coffee suggested from the catalog graph
// with its score and explanation
type Recommendation struct {
	Coffee       Coffee   `json:"coffee"`
	Score        float64  `json:"score"`
	SharedFlavor []string `json:"shared_flavors"`
	Explanation  string   `json:"explanation"`
	Strategy     string   `json:"strategy"`
}

// SchemaMigration records an applied schema migration
type SchemaMigration struct {
	Version   int    `gorm:"primaryKey;autoIncrement:false"`
	Name      string `gorm:"not null"`
	AppliedAt int64  `gorm:"autoCreateTime"`
}

// TableName implements the GORM tabler interface.
func (SchemaMigration) TableName() string { return "schema_migrations" }
