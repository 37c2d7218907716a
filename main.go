package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/rizopoulos/portfoliobackend/config"
	"github.com/rizopoulos/portfoliobackend/database"
	"github.com/rizopoulos/portfoliobackend/handlers"
	"github.com/rizopoulos/portfoliobackend/media"
	"github.com/rizopoulos/portfoliobackend/repository"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	storagePaths := []string{cfg.UploadsPath, filepath.Dir(cfg.DatabasePath)}
	for _, p := range storagePaths {
		log.Printf("Ensuring storage directory exists: %s", p)
		if err := os.MkdirAll(p, 0755); err != nil {
			log.Fatalf("FATAL: Failed to create storage directory %s: %v", p, err)
		}
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database: %v", err)
	}

	uploadStore, err := media.NewLocalStorage(cfg.UploadsPath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize upload store: %v", err)
	}
	pipeline := media.NewPipeline(uploadStore, cfg.OptimizeMaxSize, cfg.JpegQuality)

	projectRepo := repository.NewProjectRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	if purged, err := sessionRepo.DeleteExpired(time.Now().Unix()); err != nil {
		log.Printf("Warning: failed to purge expired sessions: %v", err)
	} else if purged > 0 {
		log.Printf("Purged %d expired sessions", purged)
	}

	if known, err := photoRepo.AllFilenames(); err != nil {
		log.Printf("Warning: orphan sweep skipped: %v", err)
	} else if removed, err := media.SweepOrphans(uploadStore, known); err != nil {
		log.Printf("Warning: orphan sweep failed: %v", err)
	} else if removed > 0 {
		log.Printf("Orphan sweep removed %d unreferenced uploads", removed)
	}

	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Storing uploads in: %s", cfg.UploadsPath)
	log.Printf("Optimizing images to max %dpx (JPEG quality %d)", cfg.OptimizeMaxSize, cfg.JpegQuality)

	authHandler, err := handlers.NewAuthHandler(sessionRepo, cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize auth handler: %v", err)
	}
	projectHandler := &handlers.ProjectHandler{
		Projects: projectRepo,
		Photos:   photoRepo,
		Pipeline: pipeline,
		Store:    uploadStore,
		Cfg:      cfg,
	}
	photoHandler := &handlers.PhotoHandler{
		Photos:   photoRepo,
		Pipeline: pipeline,
		Store:    uploadStore,
		Cfg:      cfg,
	}

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	requireAuth := handlers.RequireAuth(sessionRepo)

	r.Route("/api", func(r chi.Router) {
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projectHandler.ListProjects)
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", projectHandler.CreateProject)
				// static path must register before /{project_id}
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

	r.Get("/uploads/*", handlers.AssetServer(cfg.UploadsPath, "/uploads/"))

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Server listening on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("FATAL: Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		} else {
			log.Println("Database connection closed")
		}
	}
}
