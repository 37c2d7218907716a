package repository

import (
	"github.com/rizopoulos/portfoliobackend/models"
)

// ProjectRepositoryInterface defines the methods for project data operations
type ProjectRepositoryInterface interface {
	Create(project *models.Project) error
	List(category string) ([]models.Project, error)
	GetByID(id uint) (*models.Project, error)
	Update(projectID uint, title, category, description string) error
	CountByIDs(ids []uint) (int64, error)
	Reorder(ids []uint) error
	Delete(id uint) error
}

// PhotoRepositoryInterface defines the methods for photo data operations
type PhotoRepositoryInterface interface {
	Create(photo *models.Photo) error
	ListByProject(projectID uint) ([]models.Photo, error)
	ListAll(category string) ([]models.Photo, error)
	GetByID(id uint) (*models.Photo, error)
	UpdateMeta(photoID uint, title, category string) error
	CountInProject(projectID uint, ids []uint) (int64, error)
	ReorderInProject(projectID uint, ids []uint) error
	ReorderGlobal(ids []uint) error
	Delete(id uint) error
	NextDisplayOrderForProject(projectID uint) (int, error)
	NextDisplayOrderForCategory(category string) (int, error)
	FilenamesByProject(projectID uint) ([]string, error)
	AllFilenames() ([]string, error)
}

// SessionRepositoryInterface defines the methods for session data operations
type SessionRepositoryInterface interface {
	Create(session *models.Session) error
	GetValid(token string, now int64) (*models.Session, error)
	Delete(token string) error
	DeleteExpired(now int64) (int64, error)
}
