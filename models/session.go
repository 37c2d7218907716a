package models

// Session is a server-side admin session backing the HTTP-only cookie.
// Tokens are opaque; the row is the source of truth for validity.
type Session struct {
	Token     string `gorm:"primaryKey" json:"-"`
	Username  string `gorm:"not null" json:"username"`
	CreatedAt int64  `gorm:"not null" json:"created_at"` // Unix timestamp
	ExpiresAt int64  `gorm:"not null;index" json:"expires_at"`
}

// TableName explicitly sets the table name for GORM.
func (Session) TableName() string {
	return "sessions"
}

// IsValid reports whether the session has not expired at the given time.
func (s *Session) IsValid(now int64) bool {
	return s.ExpiresAt > now
}
