package models

// Photo represents a stored image in the database using GORM.
// It corresponds to the 'photos' table. ProjectID is nullable because the
// legacy single-photo API predates projects; those rows carry their own
// title/category instead.
type Photo struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID    *uint  `gorm:"index" json:"project_id,omitempty"`
	Title        string `gorm:"not null;default:''" json:"title"`
	Category     string `gorm:"not null;default:'public'" json:"category"`
	Filename     string `gorm:"not null" json:"filename"`
	URL          string `gorm:"not null" json:"url"`
	DisplayOrder int    `gorm:"not null;default:0;index" json:"display_order"`
	CreatedAt    int64  `gorm:"not null" json:"created_at"` // Unix timestamp
	UpdatedAt    int64  `gorm:"not null" json:"updated_at"` // Unix timestamp

	// EXIF metadata captured at ingest time, all optional
	Width       *int    `gorm:"" json:"width,omitempty"`
	Height      *int    `gorm:"" json:"height,omitempty"`
	CameraMake  *string `gorm:"" json:"camera_make,omitempty"`
	CameraModel *string `gorm:"" json:"camera_model,omitempty"`
	TakenAt     *int64  `gorm:"" json:"taken_at,omitempty"` // Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (Photo) TableName() string {
	return "photos"
}
