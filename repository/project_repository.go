package repository

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/rizopoulos/portfoliobackend/database"
	"github.com/rizopoulos/portfoliobackend/models"
)

// ProjectRepository handles database operations for Project entities
type ProjectRepository struct {
	DB *gorm.DB
}

// NewProjectRepository creates a new instance of ProjectRepository
func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{DB: db}
}

// Create inserts a new project, assigning it the next display_order after the
// current maximum across all projects.
func (r *ProjectRepository) Create(project *models.Project) error {
	now := time.Now().Unix()
	if project.CreatedAt == 0 {
		project.CreatedAt = now
	}
	if project.UpdatedAt == 0 {
		project.UpdatedAt = now
	}
	project.Title = strings.TrimSpace(project.Title)
	if project.Category == "" {
		project.Category = models.CategoryPublic
	}

	next, err := nextDisplayOrder(r.DB, models.Project{}.TableName(), nil)
	if err != nil {
		return err
	}
	project.DisplayOrder = next

	if err := r.DB.Create(project).Error; err != nil {
		return fmt.Errorf("failed to create project %q: %w", project.Title, err)
	}
	return nil
}

// List retrieves projects ordered for display. An empty category or "all"
// returns every project.
func (r *ProjectRepository) List(category string) ([]models.Project, error) {
	var projects []models.Project
	query := r.DB.Order("display_order ASC, created_at DESC")
	if category != "" && category != "all" {
		query = query.Where("category = ?", category)
	}
	if err := query.Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetByID retrieves a project by its ID
func (r *ProjectRepository) GetByID(id uint) (*models.Project, error) {
	var project models.Project
	err := r.DB.First(&project, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get project by ID %d: %w", id, err)
	}
	return &project, nil
}

// Update overwrites a project's title, category and description, matching the
// write-through semantics the admin UI relies on. display_order is only
// touched by Reorder.
func (r *ProjectRepository) Update(projectID uint, title, category, description string) error {
	now := time.Now().Unix()
	if category == "" {
		category = models.CategoryPublic
	}
	result := r.DB.Model(&models.Project{}).Where("id = ?", projectID).Updates(map[string]interface{}{
		"title":       strings.TrimSpace(title),
		"category":    category,
		"description": description,
		"updated_at":  now,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update project ID %d: %w", projectID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountByIDs returns how many of the given ids resolve to existing projects
func (r *ProjectRepository) CountByIDs(ids []uint) (int64, error) {
	var count int64
	if err := r.DB.Model(&models.Project{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count projects by ids: %w", err)
	}
	return count, nil
}

// Reorder assigns display_order = position for each id, in one transaction.
// Callers validate that ids is a non-empty set of existing projects first; a
// failure on any row rolls the whole batch back so the list is never left in
// a mixed order.
func (r *ProjectRepository) Reorder(ids []uint) error {
	now := time.Now().Unix()
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			sqlStr, args, err := database.SetDisplayOrderUpdate(models.Project{}.TableName(), id, i, now, nil)
			if err != nil {
				return err
			}
			if err := tx.Exec(sqlStr, args...).Error; err != nil {
				return fmt.Errorf("failed to update order for project ID %d: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to reorder projects: %w", err)
	}
	return nil
}

// Delete removes a project by its ID. The photo rows go with it via the
// foreign key cascade; blob cleanup is the caller's job.
func (r *ProjectRepository) Delete(id uint) error {
	result := r.DB.Delete(&models.Project{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete project ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
