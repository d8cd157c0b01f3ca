package handlers

import (
	"RepoHost/internal/service"
	"net/http"

	"go.uber.org/zap"
)

// UserHandler обрабатывает регистрацию и вход.
type UserHandler struct {
	UserService *service.UserService
	Logger      *zap.SugaredLogger
	errs        errorWriter
}

// NewUserHandler создаёт хендлер пользователей
func NewUserHandler(userService *service.UserService, logger *zap.SugaredLogger) *UserHandler {
	return &UserHandler{UserService: userService, Logger: logger, errs: errorWriter{logger: logger}}
}

// CredentialsRequest — тело signup и login.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionResponse — логин и выданный токен.
type SessionResponse struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

// Signup регистрация пользователя
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errs.respond(w, r, err)
		return
	}

	sess, err := h.UserService.Signup(r.Context(), req.Username, req.Password)
	if err != nil {
		h.errs.respond(w, r, err)
		return
	}

	h.Logger.Infow("user signed up", "login", sess.Login)
	respondJSON(w, http.StatusCreated, SessionResponse{Username: sess.Login, Token: sess.Token})
}

// Login вход по логину и паролю; возвращает тот же постоянный токен
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errs.respond(w, r, err)
		return
	}

	sess, err := h.UserService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.errs.respond(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, SessionResponse{Username: sess.Login, Token: sess.Token})
}
