package handlers

import (
	"log"
	"strings"

	"github.com/rizopoulos/portfoliobackend/models"
)

// PhotoView is the photo shape embedded in project responses
type PhotoView struct {
	ID           uint    `json:"id"`
	URL          string  `json:"url"`
	DisplayOrder int     `json:"display_order"`
	Date         int64   `json:"date"`
	Width        *int    `json:"width,omitempty"`
	Height       *int    `json:"height,omitempty"`
	CameraMake   *string `json:"camera_make,omitempty"`
	CameraModel  *string `json:"camera_model,omitempty"`
	TakenAt      *int64  `json:"taken_at,omitempty"`
}

// ProjectView is a project plus its ordered photos
type ProjectView struct {
	models.Project
	Photos []PhotoView `json:"photos"`
}

// resolvePhotoURL returns the externally addressable URL for a photo. Inline
// data URLs are opaque and pass through verbatim; everything else is served
// from the uploads dir by filename.
func resolvePhotoURL(photo *models.Photo) string {
	if strings.HasPrefix(photo.URL, "data:") {
		return photo.URL
	}
	return "/uploads/" + photo.Filename
}

// projectPhotoViews converts a project's photo rows (already sorted by the
// repository) into the response shape. Two rows with the same id should be
// impossible under the schema; if the store ever yields them anyway, keep the
// first and log the anomaly rather than failing the read.
func projectPhotoViews(projectID uint, photos []models.Photo) []PhotoView {
	seen := make(map[uint]struct{}, len(photos))
	views := make([]PhotoView, 0, len(photos))
	for i := range photos {
		photo := &photos[i]
		if _, dup := seen[photo.ID]; dup {
			log.Printf("Warning: duplicate photo ID %d in project %d", photo.ID, projectID)
			continue
		}
		seen[photo.ID] = struct{}{}
		views = append(views, PhotoView{
			ID:           photo.ID,
			URL:          resolvePhotoURL(photo),
			DisplayOrder: photo.DisplayOrder,
			Date:         photo.CreatedAt,
			Width:        photo.Width,
			Height:       photo.Height,
			CameraMake:   photo.CameraMake,
			CameraModel:  photo.CameraModel,
			TakenAt:      photo.TakenAt,
		})
	}
	return views
}

// newProjectView assembles the canonical read shape returned after every
// project mutation
func newProjectView(project *models.Project, photos []models.Photo) ProjectView {
	return ProjectView{
		Project: *project,
		Photos:  projectPhotoViews(project.ID, photos),
	}
}
