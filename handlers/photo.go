package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"gorm.io/gorm"

	"github.com/rizopoulos/portfoliobackend/config"
	"github.com/rizopoulos/portfoliobackend/media"
	"github.com/rizopoulos/portfoliobackend/models"
	"github.com/rizopoulos/portfoliobackend/repository"
)

// PhotoHandler implements the legacy flat photo API that predates projects.
// Kept for backward-compatible single-photo records and direct photo deletion.
type PhotoHandler struct {
	Photos   repository.PhotoRepositoryInterface
	Pipeline *media.Pipeline
	Store    media.Store
	Cfg      config.Config
}

// legacyPhotoView is the flat-API photo shape with its own title/category
type legacyPhotoView struct {
	ID           uint   `json:"id"`
	Title        string `json:"title"`
	Category     string `json:"category"`
	URL          string `json:"url"`
	DisplayOrder int    `json:"display_order"`
	Date         int64  `json:"date"`
}

func newLegacyPhotoView(photo *models.Photo, date int64) legacyPhotoView {
	return legacyPhotoView{
		ID:           photo.ID,
		Title:        photo.Title,
		Category:     photo.Category,
		URL:          resolvePhotoURL(photo),
		DisplayOrder: photo.DisplayOrder,
		Date:         date,
	}
}

func (h *PhotoHandler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	photos, err := h.Photos.ListAll(r.URL.Query().Get("category"))
	if err != nil {
		log.Printf("Error listing photos: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve photos"})
		return
	}

	views := make([]legacyPhotoView, 0, len(photos))
	for i := range photos {
		views = append(views, newLegacyPhotoView(&photos[i], photos[i].CreatedAt))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *PhotoHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "photo_id")
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Photo not found"})
		return
	}

	photo, err := h.Photos.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Photo not found"})
		} else {
			log.Printf("Error getting photo %d: %v", id, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve photo"})
		}
		return
	}
	writeJSON(w, http.StatusOK, newLegacyPhotoView(photo, photo.CreatedAt))
}

// CreatePhoto ingests a single photo outside any project. Legacy rows are
// ordered within their category scope.
func (h *PhotoHandler) CreatePhoto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid multipart request"})
		return
	}

	files := r.MultipartForm.File["photo"]
	if len(files) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No file selected"})
		return
	}
	fileHeader := files[0]

	if fileHeader.Size > h.Cfg.MaxUploadBytes {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "File is too large"})
		return
	}

	title := r.FormValue("title")
	category := r.FormValue("category")
	if category != "" && !models.IsValidCategory(category) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Category must be 'public' or 'private'"})
		return
	}
	if category == "" {
		category = models.CategoryPublic
	}

	stored, err := h.Pipeline.Stash(fileHeader)
	if err != nil {
		if errors.Is(err, media.ErrNotAnImage) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Only image files are allowed"})
		} else {
			log.Printf("Error storing photo %s: %v", fileHeader.Filename, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to store photo"})
		}
		return
	}

	displayOrder, err := h.Photos.NextDisplayOrderForCategory(category)
	if err != nil {
		log.Printf("Error getting next display order for category %s: %v", category, err)
		h.Pipeline.Discard(stored.Filename)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to store photo"})
		return
	}

	photo := &models.Photo{
		Title:        title,
		Category:     category,
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

	if err := h.Photos.Create(photo); err != nil {
		log.Printf("Error inserting photo %s: %v", stored.Filename, err)
		h.Pipeline.Discard(stored.Filename)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to save photo"})
		return
	}

	writeJSON(w, http.StatusCreated, newLegacyPhotoView(photo, photo.CreatedAt))
}

func (h *PhotoHandler) UpdatePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "photo_id")
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Photo not found"})
		return
	}

	var req struct {
		Title    string `json:"title"`
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body: " + err.Error()})
		return
	}

	if req.Category != "" && !models.IsValidCategory(req.Category) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Category must be 'public' or 'private'"})
		return
	}

	if err := h.Photos.UpdateMeta(id, req.Title, req.Category); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Photo not found"})
		} else {
			log.Printf("Error updating photo %d: %v", id, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update photo"})
		}
		return
	}

	photo, err := h.Photos.GetByID(id)
	if err != nil {
		log.Printf("Error fetching updated photo %d: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve updated photo"})
		return
	}
	writeJSON(w, http.StatusOK, newLegacyPhotoView(photo, photo.UpdatedAt))
}

// UpdatePhotoOrder is the legacy whole-table reorder. The original trusted
// the caller's id list outright; only batch-shape validation applies here.
func (h *PhotoHandler) UpdatePhotoOrder(w http.ResponseWriter, r *http.Request) {
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

	if err := h.Photos.ReorderGlobal(ids); err != nil {
		log.Printf("Error updating photo order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to update order"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Order updated successfully"})
}

func (h *PhotoHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "photo_id")
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Photo not found"})
		return
	}

	photo, err := h.Photos.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Photo not found"})
		} else {
			log.Printf("Error fetching photo %d for deletion: %v", id, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve photo"})
		}
		return
	}

	if err := h.Photos.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Photo not found"})
		} else {
			log.Printf("Error deleting photo %d: %v", id, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to delete photo"})
		}
		return
	}

	if photo.Filename != "" {
		if err := h.Store.Delete(photo.Filename); err != nil {
			log.Printf("Error deleting blob %s for photo %d: %v", photo.Filename, id, err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Photo deleted successfully", "id": id})
}
