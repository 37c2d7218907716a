package models

// Project categories. Anything else is rejected at the API boundary.
const (
	CategoryPublic  = "public"
	CategoryPrivate = "private"
)

// IsValidCategory reports whether c is one of the known category values.
func IsValidCategory(c string) bool {
	return c == CategoryPublic || c == CategoryPrivate
}

// Project represents a portfolio project in the database using GORM.
// It corresponds to the 'projects' table.
type Project struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Title        string `gorm:"not null;default:''" json:"title"`
	Category     string `gorm:"not null;default:'public'" json:"category"`
	Description  string `gorm:"not null;default:''" json:"description"`
	DisplayOrder int    `gorm:"not null;default:0;index" json:"display_order"`
	CreatedAt    int64  `gorm:"not null" json:"created_at"` // Unix timestamp
	UpdatedAt    int64  `gorm:"not null" json:"updated_at"` // Unix timestamp

	Photos []Photo `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName explicitly sets the table name for GORM.
func (Project) TableName() string {
	return "projects"
}
