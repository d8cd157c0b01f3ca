package handlers

import (
	"RepoHost/internal/config"
	"RepoHost/internal/middleware"
	"RepoHost/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	repoService *service.RepositoryService,
	branchService *service.BranchService,
	fileService *service.FileService,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)

	// Handlers
	userHandler := NewUserHandler(userService, logger)
	repoHandler := NewRepositoryHandler(repoService, logger)
	branchHandler := NewBranchHandler(branchService, logger)
	fileHandler := NewFileHandler(fileService, logger, config.FileMaxBytes())
	errs := errorWriter{logger: logger}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// User routes
	r.Post("/api/signup", userHandler.Signup)
	r.Post("/api/login", userHandler.Login)

	r.Route("/api/users/{"+middleware.UserParam+"}/repos", func(r chi.Router) {
		r.Use(middleware.WithAuth(userService, errs.respond))

		r.Get("/", repoHandler.List)
		r.Post("/", repoHandler.Create)

		r.Route("/{repo}", func(r chi.Router) {
			r.Get("/", repoHandler.Get)
			r.Delete("/", repoHandler.Delete)
			r.Put("/name", repoHandler.Rename)
			r.Put("/archive", repoHandler.Archive)
			r.Put("/restore", repoHandler.Restore)

			r.Get("/branches", branchHandler.List)
			r.Route("/branches/{branch}", func(r chi.Router) {
				r.Post("/", branchHandler.Create)
				r.Delete("/", branchHandler.Delete)

				r.Get("/files", fileHandler.List)
				r.Post("/files/{file}", fileHandler.Add)
				r.Put("/files/{file}", fileHandler.Update)
				r.Delete("/files/{file}", fileHandler.Remove)
				r.Get("/files/{file}", fileHandler.View)
			})
		})
	})

	return &Handler{Router: r}
}
