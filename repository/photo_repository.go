package repository

import (
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	"github.com/rizopoulos/portfoliobackend/database"
	"github.com/rizopoulos/portfoliobackend/models"
)

// PhotoRepository handles database operations for Photo entities
type PhotoRepository struct {
	DB *gorm.DB
}

// NewPhotoRepository creates a new instance of PhotoRepository
func NewPhotoRepository(db *gorm.DB) *PhotoRepository {
	return &PhotoRepository{DB: db}
}

// Create inserts a new photo row. The caller assigns DisplayOrder (the ingest
// pipeline pre-computes a run of consecutive values for a batch).
func (r *PhotoRepository) Create(photo *models.Photo) error {
	now := time.Now().Unix()
	if photo.CreatedAt == 0 {
		photo.CreatedAt = now
	}
	if photo.UpdatedAt == 0 {
		photo.UpdatedAt = now
	}
	if photo.Category == "" {
		photo.Category = models.CategoryPublic
	}
	if err := r.DB.Create(photo).Error; err != nil {
		return fmt.Errorf("failed to create photo %s: %w", photo.Filename, err)
	}
	return nil
}

// ListByProject retrieves a project's photos in display order. created_at and
// id break ties so rows that raced to the same display_order still list in a
// stable sequence.
func (r *PhotoRepository) ListByProject(projectID uint) ([]models.Photo, error) {
	var photos []models.Photo
	err := r.DB.Where("project_id = ?", projectID).
		Order("display_order ASC, created_at ASC, id ASC").
		Find(&photos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list photos for project %d: %w", projectID, err)
	}
	return photos, nil
}

// ListAll retrieves every photo for the legacy flat API. An empty category or
// "all" returns everything.
func (r *PhotoRepository) ListAll(category string) ([]models.Photo, error) {
	var photos []models.Photo
	query := r.DB.Order("display_order ASC, created_at DESC")
	if category != "" && category != "all" {
		query = query.Where("category = ?", category)
	}
	if err := query.Find(&photos).Error; err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	return photos, nil
}

// GetByID retrieves a photo by its ID
func (r *PhotoRepository) GetByID(id uint) (*models.Photo, error) {
	var photo models.Photo
	err := r.DB.First(&photo, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get photo by ID %d: %w", id, err)
	}
	return &photo, nil
}

// UpdateMeta overwrites a photo's legacy title and category fields
func (r *PhotoRepository) UpdateMeta(photoID uint, title, category string) error {
	now := time.Now().Unix()
	if category == "" {
		category = models.CategoryPublic
	}
	result := r.DB.Model(&models.Photo{}).Where("id = ?", photoID).Updates(map[string]interface{}{
		"title":      title,
		"category":   category,
		"updated_at": now,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update photo ID %d: %w", photoID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountInProject returns how many of the given photo ids belong to the project
func (r *PhotoRepository) CountInProject(projectID uint, ids []uint) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Photo{}).
		Where("project_id = ? AND id IN ?", projectID, ids).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count photos in project %d: %w", projectID, err)
	}
	return count, nil
}

// ReorderInProject assigns display_order = position for each photo id within
// the project, in one transaction. Each update is additionally pinned to the
// project so an id from another project can never be moved by this call.
func (r *PhotoRepository) ReorderInProject(projectID uint, ids []uint) error {
	now := time.Now().Unix()
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			sqlStr, args, err := database.SetDisplayOrderUpdate(models.Photo{}.TableName(), id, i, now, sq.Eq{"project_id": projectID})
			if err != nil {
				return err
			}
			if err := tx.Exec(sqlStr, args...).Error; err != nil {
				return fmt.Errorf("failed to update order for photo ID %d: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to reorder photos in project %d: %w", projectID, err)
	}
	return nil
}

// ReorderGlobal assigns display_order = position for each photo id across the
// whole table. Legacy path; the original trusted the caller's list outright
// and so does this, beyond requiring a non-empty batch at the API boundary.
func (r *PhotoRepository) ReorderGlobal(ids []uint) error {
	now := time.Now().Unix()
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			sqlStr, args, err := database.SetDisplayOrderUpdate(models.Photo{}.TableName(), id, i, now, nil)
			if err != nil {
				return err
			}
			if err := tx.Exec(sqlStr, args...).Error; err != nil {
				return fmt.Errorf("failed to update order for photo ID %d: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to reorder photos: %w", err)
	}
	return nil
}

// Delete removes a photo row by its ID. Blob cleanup is the caller's job.
func (r *PhotoRepository) Delete(id uint) error {
	result := r.DB.Delete(&models.Photo{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete photo ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// NextDisplayOrderForProject returns the order the next appended photo in the
// project should take (current max + 1, or 0 for an empty project).
func (r *PhotoRepository) NextDisplayOrderForProject(projectID uint) (int, error) {
	return nextDisplayOrder(r.DB, models.Photo{}.TableName(), sq.Eq{"project_id": projectID})
}

// NextDisplayOrderForCategory is the legacy append scope: photos created
// outside any project are ordered within their category.
func (r *PhotoRepository) NextDisplayOrderForCategory(category string) (int, error) {
	if category == "" {
		category = models.CategoryPublic
	}
	return nextDisplayOrder(r.DB, models.Photo{}.TableName(), sq.Eq{"category": category})
}

// FilenamesByProject returns the backing filenames of a project's photos, for
// blob cleanup ahead of a cascading delete.
func (r *PhotoRepository) FilenamesByProject(projectID uint) ([]string, error) {
	var filenames []string
	err := r.DB.Model(&models.Photo{}).
		Where("project_id = ?", projectID).
		Pluck("filename", &filenames).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list filenames for project %d: %w", projectID, err)
	}
	return filenames, nil
}

// AllFilenames returns every backing filename known to the database, for the
// startup orphan sweep.
func (r *PhotoRepository) AllFilenames() ([]string, error) {
	var filenames []string
	if err := r.DB.Model(&models.Photo{}).Pluck("filename", &filenames).Error; err != nil {
		return nil, fmt.Errorf("failed to list photo filenames: %w", err)
	}
	return filenames, nil
}
