package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/rizopoulos/portfoliobackend/models"
)

// SessionRepository handles database operations for admin sessions
type SessionRepository struct {
	DB *gorm.DB
}

// NewSessionRepository creates a new instance of SessionRepository
func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

// Create persists a new session row
func (r *SessionRepository) Create(session *models.Session) error {
	if session.CreatedAt == 0 {
		session.CreatedAt = time.Now().Unix()
	}
	if err := r.DB.Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetValid retrieves a session by token if it has not expired
func (r *SessionRepository) GetValid(token string, now int64) (*models.Session, error) {
	var session models.Session
	err := r.DB.Where("token = ? AND expires_at > ?", token, now).First(&session).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// Delete removes a session by token. Deleting an unknown token is not an
// error; logout must be idempotent.
func (r *SessionRepository) Delete(token string) error {
	if err := r.DB.Delete(&models.Session{}, "token = ?", token).Error; err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired purges sessions past their expiry, returning how many went
func (r *SessionRepository) DeleteExpired(now int64) (int64, error) {
	result := r.DB.Delete(&models.Session{}, "expires_at <= ?", now)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}
