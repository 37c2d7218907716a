package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// AssetServer creates a handler to serve uploaded originals from the uploads
// directory. Mount it with a wildcard route whose prefix matches routePrefix,
// e.g.
//
//	r.Get("/uploads/*", handlers.AssetServer(cfg.UploadsPath, "/uploads/"))
func AssetServer(uploadsPath, routePrefix string) http.HandlerFunc {
	baseDir := filepath.Clean(uploadsPath)
	log.Printf("Serving uploads for '%s*' from directory: %s", routePrefix, baseDir)

	return func(w http.ResponseWriter, r *http.Request) {
		relativePath := strings.TrimPrefix(r.URL.Path, routePrefix)

		if relativePath == "" || strings.Contains(relativePath, "..") {
			http.Error(w, "Invalid asset path", http.StatusBadRequest)
			return
		}

		requestedPath := filepath.Join(baseDir, relativePath)
		cleanedPath := filepath.Clean(requestedPath)

		if !strings.HasPrefix(cleanedPath, baseDir) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			log.Printf("SECURITY: Attempted asset access outside uploads directory: Request='%s', Resolved='%s', Allowed Base='%s'",
				r.URL.Path, cleanedPath, baseDir)
			return
		}

		if _, err := os.Stat(cleanedPath); os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		} else if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			log.Printf("Error stating asset file %s: %v", cleanedPath, err)
			return
		}

		cacheDuration := 24 * time.Hour
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(cacheDuration.Seconds())))
		w.Header().Set("Expires", time.Now().Add(cacheDuration).Format(http.TimeFormat))

		http.ServeFile(w, r, cleanedPath)
	}
}
