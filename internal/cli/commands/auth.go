package commands

import (
	"RepoHost/internal/cli/api"
	"RepoHost/internal/config"
	"context"
	"errors"
	"fmt"
	"net/http"
)

// CredentialsRequest — тело signup и login.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

// authenticate отправляет учётные данные и сохраняет выданную сессию.
func authenticate(ctx context.Context, cfg *config.Config, path, login, password string) error {
	var sess sessionResponse
	c := api.NewClient(cfg.ServerURL, "")
	if err := c.JSON(ctx, http.MethodPost, path, CredentialsRequest{Username: login, Password: password}, &sess); err != nil {
		return err
	}
	if sess.Token == "" {
		return errors.New("server returned no token")
	}
	if err := authStore(cfg).SaveSession(sess.Username, sess.Token); err != nil {
		return fmt.Errorf("saving auth: %w", err)
	}
	return nil
}

type signupCmd struct{}

func (signupCmd) Name() string        { return "signup" }
func (signupCmd) Description() string { return "Create an account and store its token" }
func (signupCmd) Usage() string       { return "signup <login> <password>" }

func (signupCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	err := authenticate(ctx, cfg, "/api/signup", args[0], args[1])
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
		return errors.New("login already in use")
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, "Signed up successfully")
	return nil
}

type loginCmd struct{}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Description() string { return "Login and store auth token" }
func (loginCmd) Usage() string       { return "login <login> <password>" }

func (loginCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	err := authenticate(ctx, cfg, "/api/login", args[0], args[1])
	var apiErr *api.Error
	if errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusNotFound) {
		return errors.New("invalid login or password")
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, "Logged in successfully")
	return nil
}

func init() {
	RegisterCmd(signupCmd{})
	RegisterCmd(loginCmd{})
}
