package handlers

import (
	"RepoHost/internal/service"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// BranchHandler обрабатывает ветки репозитория.
type BranchHandler struct {
	BranchService *service.BranchService
	Logger        *zap.SugaredLogger
	errs          errorWriter
}

// NewBranchHandler создаёт хендлер веток
func NewBranchHandler(branchService *service.BranchService, logger *zap.SugaredLogger) *BranchHandler {
	return &BranchHandler{BranchService: branchService, Logger: logger, errs: errorWriter{logger: logger}}
}

// BranchDTO — ветка в ответе.
type BranchDTO struct {
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

func toBranchDTO(s service.BranchSummary) BranchDTO {
	return BranchDTO{Name: s.Name, CreatedAt: s.CreatedAt.UTC().Format(time.RFC3339)}
}

// List ветки репозитория
func (h *BranchHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.BranchService.List(r.Context(), identity(r), pathParam(r, "repo"))
	if err != nil {
		h.errs.respond(w, r, err)
		return
	}

	out := make([]BranchDTO, 0, len(list))
	for _, s := range list {
		out = append(out, toBranchDTO(s))
	}
	respondJSON(w, http.StatusOK, out)
}

// Create новая ветка с файлом по умолчанию
func (h *BranchHandler) Create(w http.ResponseWriter, r *http.Request) {
	s, err := h.BranchService.Create(r.Context(), identity(r), pathParam(r, "repo"), pathParam(r, "branch"))
	if err != nil {
		h.errs.respond(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toBranchDTO(*s))
}

// Delete удаление ветки со всеми файлами
func (h *BranchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.BranchService.Delete(r.Context(), identity(r), pathParam(r, "repo"), pathParam(r, "branch")); err != nil {
		h.errs.respond(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
