package handlers

import (
	"RepoHost/internal/service"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// FileHandler обрабатывает файлы ветки. Содержимое передаётся сырым телом.
type FileHandler struct {
	FileService *service.FileService
	Logger      *zap.SugaredLogger
	MaxBytes    int64
	errs        errorWriter
}

// NewFileHandler создаёт хендлер файлов
func NewFileHandler(fileService *service.FileService, logger *zap.SugaredLogger, maxBytes int64) *FileHandler {
	return &FileHandler{FileService: fileService, Logger: logger, MaxBytes: maxBytes, errs: errorWriter{logger: logger}}
}

// FileDTO — файл в ответе.
type FileDTO struct {
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	UpdatedAt string `json:"updated_at"`
}

func fileRef(r *http.Request) service.FileRef {
	return service.FileRef{
		Repository: pathParam(r, "repo"),
		Branch:     pathParam(r, "branch"),
		Name:       pathParam(r, "file"),
	}
}

// readContents читает тело с лимитом размера.
func (h *FileHandler) readContents(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if h.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: limit is %d bytes", errPayloadTooLarge, tooLarge.Limit)
		}
		return nil, errors.Join(service.ErrInvalidInput, err)
	}
	return data, nil
}

// List файлы ветки
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.FileService.List(r.Context(), identity(r), pathParam(r, "repo"), pathParam(r, "branch"))
	if err != nil {
		h.errs.respond(w, r, err)
		return
	}

	out := make([]FileDTO, 0, len(list))
	for _, s := range list {
		out = append(out, FileDTO{Name: s.Name, Size: s.Size, UpdatedAt: s.UpdatedAt.UTC().Format(time.RFC3339)})
	}
	respondJSON(w, http.StatusOK, out)
}

// Add новый файл
func (h *FileHandler) Add(w http.ResponseWriter, r *http.Request) {
	contents, err := h.readContents(w, r)
	if err != nil {
		h.errs.respond(w, r, err)
		return
	}
	ref := fileRef(r)
	if err := h.FileService.Add(r.Context(), identity(r), ref, contents); err != nil {
		h.errs.respond(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, FileDTO{Name: ref.Name, Size: int64(len(contents)), UpdatedAt: time.Now().UTC().Format(time.RFC3339)})
}

// Update замена содержимого существующего файла
func (h *FileHandler) Update(w http.ResponseWriter, r *http.Request) {
	contents, err := h.readContents(w, r)
	if err != nil {
		h.errs.respond(w, r, err)
		return
	}
	ref := fileRef(r)
	if err := h.FileService.Update(r.Context(), identity(r), ref, contents); err != nil {
		h.errs.respond(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, FileDTO{Name: ref.Name, Size: int64(len(contents)), UpdatedAt: time.Now().UTC().Format(time.RFC3339)})
}

// Remove удаление файла
func (h *FileHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.FileService.Remove(r.Context(), identity(r), fileRef(r)); err != nil {
		h.errs.respond(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// View содержимое файла как есть
func (h *FileHandler) View(w http.ResponseWriter, r *http.Request) {
	data, err := h.FileService.View(r.Context(), identity(r), fileRef(r))
	if err != nil {
		h.errs.respond(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
