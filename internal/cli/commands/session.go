package commands

import (
	"RepoHost/internal/cli/api"
	fsrepo "RepoHost/internal/cli/repo/fs"
	"RepoHost/internal/config"
	"context"
	"errors"
	"fmt"
)

// ErrNotLoggedIn — в хранилище нет сохранённой сессии.
var ErrNotLoggedIn = errors.New("not logged in: run signup or login first")

func authStore(cfg *config.Config) fsrepo.AuthFSStore {
	return fsrepo.NewAuthFSStore(cfg.TokenFile)
}

// loadSession поднимает клиента с сохранённым токеном и логином.
func loadSession(cfg *config.Config) (*api.Client, string, error) {
	store := authStore(cfg)
	token, err := store.Load()
	if err != nil {
		return nil, "", fmt.Errorf("%w (%v)", ErrNotLoggedIn, err)
	}
	login, err := store.LoadLogin()
	if err != nil {
		return nil, "", fmt.Errorf("%w (%v)", ErrNotLoggedIn, err)
	}
	return api.NewClient(cfg.ServerURL, token), login, nil
}

// authedCmd — команда, которой нужна сохранённая сессия.
type authedCmd struct {
	name, usage, desc string
	minArgs, maxArgs  int
	run               func(ctx context.Context, c *api.Client, login string, args []string) error
}

func (a authedCmd) Name() string        { return a.name }
func (a authedCmd) Description() string { return a.desc }
func (a authedCmd) Usage() string       { return a.usage }

func (a authedCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < a.minArgs || len(args) > a.maxArgs {
		return ErrUsage
	}
	c, login, err := loadSession(cfg)
	if err != nil {
		return err
	}
	return a.run(ctx, c, login, args)
}
