package handlers

import (
	"RepoHost/internal/middleware"
	"RepoHost/internal/service"
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RepositoryHandler обрабатывает операции над репозиториями пользователя.
type RepositoryHandler struct {
	RepositoryService *service.RepositoryService
	Logger            *zap.SugaredLogger
	errs              errorWriter
}

// NewRepositoryHandler создаёт хендлер репозиториев
func NewRepositoryHandler(repoService *service.RepositoryService, logger *zap.SugaredLogger) *RepositoryHandler {
	return &RepositoryHandler{RepositoryService: repoService, Logger: logger, errs: errorWriter{logger: logger}}
}

// CreateRepositoryRequest — тело создания репозитория.
type CreateRepositoryRequest struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// RenameRepositoryRequest — новое имя репозитория.
type RenameRepositoryRequest struct {
	Name string `json:"name"`
}

// RepositoryDTO — репозиторий в ответе.
type RepositoryDTO struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Archived  bool   `json:"archived"`
	CreatedAt string `json:"created_at"`
}

func toRepositoryDTO(s service.RepositorySummary) RepositoryDTO {
	return RepositoryDTO{
		Name:      s.Name,
		Kind:      s.Kind,
		Archived:  s.Archived,
		CreatedAt: s.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// pathParam возвращает раскодированный сегмент пути.
// Невалидная кодировка отдаётся как есть и отсекается проверкой имени.
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func identity(r *http.Request) service.Identity {
	// без WithAuth тут будет нулевая Identity, и сервис ответит ErrUnauthorized
	id, _ := middleware.IdentityFromContext(r.Context())
	return id
}

// List список репозиториев пользователя
func (h *RepositoryHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.RepositoryService.List(r.Context(), identity(r))
	if err != nil {
		h.errs.respond(w, r, err)
		return
	}

	out := make([]RepositoryDTO, 0, len(list))
	for _, s := range list {
		out = append(out, toRepositoryDTO(s))
	}
	respondJSON(w, http.StatusOK, out)
}

// Create создание репозитория
func (h *RepositoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRepositoryRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errs.respond(w, r, err)
		return
	}

	s, err := h.RepositoryService.Create(r.Context(), identity(r), req.Name, req.Kind)
	if err != nil {
		h.errs.respond(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toRepositoryDTO(*s))
}

// Get описание одного репозитория
func (h *RepositoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.RepositoryService.Get(r.Context(), identity(r), pathParam(r, "repo"))
	if err != nil {
		h.errs.respond(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toRepositoryDTO(*s))
}

// Delete удаление репозитория вместе с ветками и файлами
func (h *RepositoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.RepositoryService.Delete(r.Context(), identity(r), pathParam(r, "repo")); err != nil {
		h.errs.respond(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Rename переименование репозитория
func (h *RepositoryHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req RenameRepositoryRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errs.respond(w, r, err)
		return
	}

	id := identity(r)
	if err := h.RepositoryService.Rename(r.Context(), id, pathParam(r, "repo"), req.Name); err != nil {
		h.errs.respond(w, r, err)
		return
	}

	s, err := h.RepositoryService.Get(r.Context(), id, req.Name)
	if err != nil {
		h.errs.respond(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toRepositoryDTO(*s))
}

// Archive перевод репозитория в режим только для чтения
func (h *RepositoryHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, h.RepositoryService.Archive)
}

// Restore снятие архивного режима
func (h *RepositoryHandler) Restore(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, h.RepositoryService.Restore)
}

func (h *RepositoryHandler) setArchived(w http.ResponseWriter, r *http.Request,
	apply func(ctx context.Context, id service.Identity, name string) error) {
	id := identity(r)
	name := pathParam(r, "repo")
	if err := apply(r.Context(), id, name); err != nil {
		h.errs.respond(w, r, err)
		return
	}

	s, err := h.RepositoryService.Get(r.Context(), id, name)
	if err != nil {
		h.errs.respond(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toRepositoryDTO(*s))
}
