package handlers

import (
	"RepoHost/internal/service"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// ErrorResponse — тело ответа об ошибке.
type ErrorResponse struct {
	Code        int    `json:"code"`
	Error       string `json:"error"`
	Description string `json:"description"`
}

var errPayloadTooLarge = errors.New("payload too large")

// statusOf маппит ошибку сервиса в HTTP-статус.
func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrInvalidName), errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, errPayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, service.ErrTimeout):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage скрывает детали, которые клиенту знать не нужно.
// Отказ в авторизации всегда выглядит одинаково.
func publicMessage(code int, err error) string {
	switch code {
	case http.StatusUnauthorized:
		return service.ErrUnauthorized.Error()
	case http.StatusInternalServerError:
		return service.ErrIO.Error()
	case http.StatusServiceUnavailable:
		return service.ErrTimeout.Error()
	default:
		return err.Error()
	}
}

type errorWriter struct {
	logger *zap.SugaredLogger
}

func (e errorWriter) respond(w http.ResponseWriter, r *http.Request, err error) {
	code := statusOf(err)
	if code >= http.StatusInternalServerError {
		e.logger.Errorw("request failed", "method", r.Method, "path", r.URL.Path, "status", code, "error", err)
	} else {
		e.logger.Debugw("request rejected", "method", r.Method, "path", r.URL.Path, "status", code, "error", err)
	}
	respondJSON(w, code, ErrorResponse{
		Code:        code,
		Error:       publicMessage(code, err),
		Description: http.StatusText(code),
	})
}

func respondJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

// decodeJSON читает JSON-тело запроса.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Join(service.ErrInvalidInput, err)
	}
	return nil
}
