package media

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotAnImage marks an upload rejected by the allow-list before storage
var ErrNotAnImage = errors.New("only image files are allowed")

// StoredUpload is the pipeline's per-file result: a durably stored (and
// best-effort optimized) original plus whatever metadata was recoverable.
type StoredUpload struct {
	Filename string
	URL      string
	Meta     *Metadata
}

// Pipeline runs the file-level half of photo ingestion: validate, store under
// a generated name, optimize in place, extract metadata. Database inserts are
// the caller's job so a failed insert can Discard the blob.
type Pipeline struct {
	store   Store
	maxSize int
	quality int
}

func NewPipeline(store Store, maxSize, quality int) *Pipeline {
	return &Pipeline{store: store, maxSize: maxSize, quality: quality}
}

// generateFilename builds a unique blob name from a time component and a
// random component, keeping the original extension
func generateFilename(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), suffix, ext)
}

// Stash validates and durably stores one uploaded file. Optimization and
// metadata extraction are strictly best-effort: their failures are logged and
// the unmodified original is kept.
func (p *Pipeline) Stash(fileHeader *multipart.FileHeader) (*StoredUpload, error) {
	if !IsAllowedImage(fileHeader.Filename, fileHeader.Header.Get("Content-Type")) {
		return nil, fmt.Errorf("%w: %s", ErrNotAnImage, fileHeader.Filename)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file %s: %w", fileHeader.Filename, err)
	}
	defer file.Close()

	filename := generateFilename(fileHeader.Filename)
	if _, err := p.store.Save(filename, file); err != nil {
		return nil, fmt.Errorf("failed to store uploaded file %s: %w", fileHeader.Filename, err)
	}

	if err := p.optimize(filename); err != nil {
		log.Printf("media.pipeline: optimization failed for %s, keeping original: %v", filename, err)
	}

	var meta *Metadata
	if fullPath, err := p.store.FullPath(filename); err == nil {
		if m, err := GetImageMetadata(fullPath); err == nil {
			meta = m
		} else {
			log.Printf("media.pipeline: metadata extraction failed for %s: %v", filename, err)
		}
	}

	return &StoredUpload{
		Filename: filename,
		URL:      "/uploads/" + filename,
		Meta:     meta,
	}, nil
}

// Discard removes a stashed blob after a failed database insert so no
// orphaned file is left behind
func (p *Pipeline) Discard(filename string) {
	if err := p.store.Delete(filename); err != nil {
		log.Printf("media.pipeline: failed to discard blob %s: %v", filename, err)
	}
}
