package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/rizopoulos/portfoliobackend/config"
	"github.com/rizopoulos/portfoliobackend/database"
	"github.com/rizopoulos/portfoliobackend/media"
	"github.com/rizopoulos/portfoliobackend/repository"
)

type testEnv struct {
	router   http.Handler
	projects *repository.ProjectRepository
	photos   *repository.PhotoRepository
	sessions *repository.SessionRepository
	store    *media.LocalStorage
	cfg      config.Config
}

// newTestEnv wires the handlers exactly as main does, minus CORS and request
// logging
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := config.Config{
		AdminUsername:   "admin",
		AdminPassword:   "secret",
		SessionTTLHours: 1,
		UploadsPath:     t.TempDir(),
		OptimizeMaxSize: 300,
		JpegQuality:     85,
		MaxUploadBytes:  10 << 20,
		MaxBatchFiles:   20,
	}

	db, err := database.InitGormDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrateModels(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	store, err := media.NewLocalStorage(cfg.UploadsPath)
	require.NoError(t, err)
	pipeline := media.NewPipeline(store, cfg.OptimizeMaxSize, cfg.JpegQuality)

	projectRepo := repository.NewProjectRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	authHandler, err := NewAuthHandler(sessionRepo, cfg)
	require.NoError(t, err)
	projectHandler := &ProjectHandler{Projects: projectRepo, Photos: photoRepo, Pipeline: pipeline, Store: store, Cfg: cfg}
	photoHandler := &PhotoHandler{Photos: photoRepo, Pipeline: pipeline, Store: store, Cfg: cfg}

	requireAuth := RequireAuth(sessionRepo)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projectHandler.ListProjects)
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", projectHandler.CreateProject)
				r.Put("/order", projectHandler.UpdateProjectOrder)
			})
			r.Route("/{project_id}", func(r chi.Router) {
				r.Get("/", projectHandler.GetProject)
				r.Group(func(r chi.Router) {
					r.Use(requireAuth)
					r.Put("/", projectHandler.UpdateProject)
					r.Delete("/", projectHandler.DeleteProject)
					r.Post("/photos", projectHandler.UploadPhotos)
					r.Put("/photos/order", projectHandler.UpdatePhotoOrder)
				})
			})
		})
		r.Route("/photos", func(r chi.Router) {
			r.Get("/", photoHandler.ListPhotos)
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", photoHandler.CreatePhoto)
				r.Put("/order", photoHandler.UpdatePhotoOrder)
			})
			r.Route("/{photo_id}", func(r chi.Router) {
				r.Get("/", photoHandler.GetPhoto)
				r.Group(func(r chi.Router) {
					r.Use(requireAuth)
					r.Put("/", photoHandler.UpdatePhoto)
					r.Delete("/", photoHandler.DeletePhoto)
				})
			})
		})
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Get("/status", authHandler.Status)
		})
	})
	r.Get("/uploads/*", AssetServer(cfg.UploadsPath, "/uploads/"))

	return &testEnv{
		router:   r,
		projects: projectRepo,
		photos:   photoRepo,
		sessions: sessionRepo,
		store:    store,
		cfg:      cfg,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body io.Reader, contentType string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) doJSON(t *testing.T, method, path string, payload interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}
	return e.do(t, method, path, body, "application/json", cookie)
}

func (e *testEnv) login(t *testing.T) *http.Cookie {
	t.Helper()
	rec := e.doJSON(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username": e.cfg.AdminUsername,
		"password": "secret",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == SessionCookieName {
			return cookie
		}
	}
	t.Fatal("login response did not set a session cookie")
	return nil
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func makeJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 64, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

type uploadFile struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

func makeMultipartBody(t *testing.T, files []uploadFile, fields map[string]string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, f.field, f.filename))
		header.Set("Content-Type", f.contentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func (e *testEnv) createProjectViaAPI(t *testing.T, cookie *http.Cookie, title string) ProjectView {
	t.Helper()
	rec := e.doJSON(t, http.MethodPost, "/api/projects", map[string]string{"title": title}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	var view ProjectView
	decodeBody(t, rec, &view)
	return view
}

func (e *testEnv) uploadPhotos(t *testing.T, cookie *http.Cookie, projectID uint, files []uploadFile) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := makeMultipartBody(t, files, nil)
	return e.do(t, http.MethodPost, fmt.Sprintf("/api/projects/%d/photos", projectID), body, contentType, cookie)
}
