package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/rizopoulos/portfoliobackend/config"
	"github.com/rizopoulos/portfoliobackend/media"
	"github.com/rizopoulos/portfoliobackend/models"
	"github.com/rizopoulos/portfoliobackend/repository"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Error encoding JSON response: %v", err)
		}
	}
}

func parseIDParam(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(id), nil
}

// validateOrderIDs rejects the malformed-batch cases shared by every reorder
// endpoint: a missing/empty list, or non-positive ids.
func validateOrderIDs(ids []int64) ([]uint, string) {
	if ids == nil {
		return nil, "Invalid ids format"
	}
	if len(ids) == 0 {
		return nil, "Ids array is empty"
	}
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return nil, "Invalid id format"
		}
		out = append(out, uint(id))
	}
	return out, ""
}

type ProjectHandler struct {
	Projects repository.ProjectRepositoryInterface
	Photos   repository.PhotoRepositoryInterface
	Pipeline *media.Pipeline
	Store    media.Store
	Cfg      config.Config
}

type projectPayload struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

func (h *ProjectHandler) projectView(project *models.Project) (ProjectView, error) {
	photos, err := h.Photos.ListByProject(project.ID)
	if err != nil {
		return ProjectView{}, err
	}
	return newProjectView(project, photos), nil
}

// ListProjects returns every project with its ordered photos; ?category=
// narrows to one category ("all" and empty mean no filter).
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Projects.List(r.URL.Query().Get("category"))
	if err != nil {
		log.Printf("Error listing projects: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve projects"})
		return
	}

	views := make([]ProjectView, 0, len(projects))
	for i := range projects {
		view, err := h.projectView(&projects[i])
		if err != nil {
			log.Printf("Error fetching photos for project %d: %v", projects[i].ID, err)
			view = newProjectView(&projects[i], nil)
		}
		views = append(views, view)
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "project_id")
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Project not found"})
		return
	}

	project, err := h.Projects.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Project not found"})
		} else {
			log.Printf("Error getting project %d: %v", id, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve project"})
		}
		return
	}

	view, err := h.projectView(project)
	if err != nil {
		log.Printf("Error fetching photos for project %d: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve photos"})
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req projectPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}

	if req.Category != "" && !models.IsValidCategory(req.Category) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Category must be 'public' or 'private'"})
		return
	}

	project := &models.Project{
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
	}
	if err := h.Projects.Create(project); err != nil {
		log.Printf("Error creating project %q: %v", req.Title, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to create project"})
		return
	}

	writeJSON(w, http.StatusCreated, newProjectView(project, nil))
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "project_id")
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Project not found"})
		return
	}

	var req projectPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}

	if req.Category != "" && !models.IsValidCategory(req.Category) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Category must be 'public' or 'private'"})
		return
	}

	if err := h.Projects.Update(id, req.Title, req.Category, req.Description); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Project not found"})
		} else {
			log.Printf("Error updating project %d: %v", id, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update project"})
		}
		return
	}

	project, err := h.Projects.GetByID(id)
	if err != nil {
		log.Printf("Error fetching updated project %d: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve updated project"})
		return
	}

	view, err := h.projectView(project)
	if err != nil {
		log.Printf("Error fetching photos for project %d: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve photos"})
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// UpdateProjectOrder replaces the display order of the whole project list
// from a client-supplied permutation of project ids. Validation is all-or-
// nothing: one unknown id rejects the batch before any row changes.
func (h *ProjectHandler) UpdateProjectOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProjectIDs []int64 `json:"projectIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid projectIds format"})
		return
	}

	ids, msg := validateOrderIDs(req.ProjectIDs)
	if msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	count, err := h.Projects.CountByIDs(ids)
	if err != nil {
		log.Printf("Error verifying projects for reorder: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to verify projects"})
		return
	}
	if count != int64(len(ids)) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Some projects not found"})
		return
	}

	if err := h.Projects.Reorder(ids); err != nil {
		log.Printf("Error updating project order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update order"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Order updated successfully"})
}

// DeleteProject removes a project, its photo rows (via the cascade) and their
// backing files.
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "project_id")
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Project not found"})
		return
	}

	filenames, err := h.Photos.FilenamesByProject(id)
	if err != nil {
		log.Printf("Error fetching photo filenames for project %d: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete project"})
		return
	}

	if err := h.Projects.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Project not found"})
		} else {
			log.Printf("Error deleting project %d: %v", id, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete project"})
		}
		return
	}

	// rows are gone; blob cleanup is best-effort per file
	for _, filename := range filenames {
		if filename == "" {
			continue
		}
		if err := h.Store.Delete(filename); err != nil {
			log.Printf("Error deleting blob %s for project %d: %v", filename, id, err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Project deleted successfully", "id": id})
}

// UploadPhotos ingests up to MaxBatchFiles images into one project. Files are
// processed independently: a file that fails validation, storage or insert is
// excluded (and its blob discarded) without aborting its siblings, so a
// partial-success batch is a normal outcome.
func (h *ProjectHandler) UploadPhotos(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "project_id")
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Project not found"})
		return
	}

	if _, err := h.Projects.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Project not found"})
		} else {
			log.Printf("Error getting project %d for upload: %v", id, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve project"})
		}
		return
	}

	maxBody := h.Cfg.MaxUploadBytes*int64(h.Cfg.MaxBatchFiles) + (1 << 20)
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid multipart request"})
		return
	}

	files := r.MultipartForm.File["photos"]
	if len(files) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No files selected"})
		return
	}
	if len(files) > h.Cfg.MaxBatchFiles {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("Too many files (max %d)", h.Cfg.MaxBatchFiles)})
		return
	}

	anyImage := false
	for _, fh := range files {
		if media.IsAllowedImage(fh.Filename, fh.Header.Get("Content-Type")) {
			anyImage = true
			break
		}
	}
	if !anyImage {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Only image files are allowed"})
		return
	}

	displayOrder, err := h.Photos.NextDisplayOrderForProject(id)
	if err != nil {
		log.Printf("Error getting next display order for project %d: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to store photos"})
		return
	}

	created := make([]PhotoView, 0, len(files))
	for _, fileHeader := range files {
		if fileHeader.Size > h.Cfg.MaxUploadBytes {
			log.Printf("Skipping oversized upload %s (%d bytes)", fileHeader.Filename, fileHeader.Size)
			continue
		}

		stored, err := h.Pipeline.Stash(fileHeader)
		if err != nil {
			log.Printf("Skipping upload %s: %v", fileHeader.Filename, err)
			continue
		}

		projectID := id
		photo := &models.Photo{
			ProjectID:    &projectID,
			Filename:     stored.Filename,
			URL:          stored.URL,
			DisplayOrder: displayOrder,
		}
		if stored.Meta != nil {
			photo.Width = stored.Meta.Width
			photo.Height = stored.Meta.Height
			photo.CameraMake = stored.Meta.CameraMake
			photo.CameraModel = stored.Meta.CameraModel
			photo.TakenAt = stored.Meta.TakenAt
		}
		displayOrder++

		if err := h.Photos.Create(photo); err != nil {
			log.Printf("Error inserting photo %s: %v", stored.Filename, err)
			h.Pipeline.Discard(stored.Filename)
			continue
		}

		created = append(created, PhotoView{
			ID:           photo.ID,
			URL:          photo.URL,
			DisplayOrder: photo.DisplayOrder,
			Date:         photo.CreatedAt,
			Width:        photo.Width,
			Height:       photo.Height,
			CameraMake:   photo.CameraMake,
			CameraModel:  photo.CameraModel,
			TakenAt:      photo.TakenAt,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"photos":  created,
		"message": fmt.Sprintf("Added %d photos", len(created)),
	})
}

// UpdatePhotoOrder replaces the display order of one project's photo set. An
// id that does not belong to the project rejects the whole batch; nothing in
// the project changes.
func (h *ProjectHandler) UpdatePhotoOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "project_id")
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Project not found"})
		return
	}

	var req struct {
		PhotoIDs []int64 `json:"photoIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid photoIds format"})
		return
	}

	ids, msg := validateOrderIDs(req.PhotoIDs)
	if msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	count, err := h.Photos.CountInProject(id, ids)
	if err != nil {
		log.Printf("Error verifying photos for reorder in project %d: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to verify photos"})
		return
	}
	if count != int64(len(ids)) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Some photos do not belong to this project"})
		return
	}

	if err := h.Photos.ReorderInProject(id, ids); err != nil {
		log.Printf("Error updating photo order in project %d: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update order"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Order updated successfully"})
}
