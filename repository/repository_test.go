package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rizopoulos/portfoliobackend/database"
	"github.com/rizopoulos/portfoliobackend/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.InitGormDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrateModels(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createTestProject(t *testing.T, repo *ProjectRepository, title string) *models.Project {
	t.Helper()
	project := &models.Project{Title: title}
	require.NoError(t, repo.Create(project))
	return project
}

func createTestPhoto(t *testing.T, repo *PhotoRepository, projectID uint, filename string, order int) *models.Photo {
	t.Helper()
	photo := &models.Photo{
		ProjectID:    &projectID,
		Filename:     filename,
		URL:          "/uploads/" + filename,
		DisplayOrder: order,
	}
	require.NoError(t, repo.Create(photo))
	return photo
}
