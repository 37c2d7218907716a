package media

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/facette/natsort"
)

// Store defines the interface for saving, retrieving, and deleting uploaded
// originals
type Store interface {
	// Save stores data under the given filename and returns the filename used
	Save(filename string, data io.Reader) (string, error)
	// Delete removes an upload; deleting a missing file is not an error
	Delete(filename string) error
	// FullPath returns the absolute filesystem path for an upload
	FullPath(filename string) (string, error)
	// List returns every stored filename in natural sort order
	List() ([]string, error)
}

// LocalStorage implements the Store interface using the local filesystem
type LocalStorage struct {
	basePath string // absolute path to the uploads directory
}

// NewLocalStorage creates a new local filesystem store rooted at basePath
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	absBasePath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("invalid base storage path '%s': %w", basePath, err)
	}

	if err := os.MkdirAll(absBasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory '%s': %w", absBasePath, err)
	}

	log.Printf("media.store: Initialized LocalStorage at %s", absBasePath)
	return &LocalStorage{basePath: absBasePath}, nil
}

// Save writes data to basePath/filename
func (ls *LocalStorage) Save(filename string, data io.Reader) (string, error) {
	fullSavePath, err := ls.FullPath(filename)
	if err != nil {
		return "", err
	}

	outFile, err := os.Create(fullSavePath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file '%s': %w", fullSavePath, err)
	}

	if _, err := io.Copy(outFile, data); err != nil {
		outFile.Close()
		os.Remove(fullSavePath)
		return "", fmt.Errorf("failed to write data to '%s': %w", fullSavePath, err)
	}
	if err := outFile.Close(); err != nil {
		os.Remove(fullSavePath)
		return "", fmt.Errorf("failed to finalize '%s': %w", fullSavePath, err)
	}

	log.Printf("media.store: Saved upload to %s", fullSavePath)
	return filename, nil
}

// Delete removes an upload file
func (ls *LocalStorage) Delete(filename string) error {
	fullPath, err := ls.FullPath(filename)
	if err != nil {
		return err
	}

	err = os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete upload '%s': %w", filename, err)
	}
	if err == nil {
		log.Printf("media.store: Deleted upload %s", fullPath)
	}
	return nil
}

// List returns the stored filenames, naturally sorted so sweeps and logs are
// deterministic regardless of directory iteration order
func (ls *LocalStorage) List() ([]string, error) {
	entries, err := os.ReadDir(ls.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploads directory '%s': %w", ls.basePath, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	natsort.Sort(names)
	return names, nil
}

// FullPath calculates the absolute path and performs security check
func (ls *LocalStorage) FullPath(filename string) (string, error) {
	cleanName := filepath.Clean(filename)

	fullPath := filepath.Join(ls.basePath, cleanName)

	absFullPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for '%s': %w", filename, err)
	}

	if filepath.Dir(absFullPath) != ls.basePath || !strings.HasPrefix(absFullPath, ls.basePath) {
		return "", fmt.Errorf("invalid path: access denied for '%s'", filename)
	}

	return absFullPath, nil
}
