package commands

import (
	"RepoHost/internal/config"
	"context"
	"fmt"
	"strings"
	"testing"
)

// fakeCmd позволяет управлять возвратом ошибок из Run
type fakeCmd struct {
	name, usage, desc string
	run               func(ctx context.Context, cfg *config.Config, args []string) error
}

func (f fakeCmd) Name() string        { return f.name }
func (f fakeCmd) Description() string { return f.desc }
func (f fakeCmd) Usage() string       { return f.usage }
func (f fakeCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	return f.run(ctx, cfg, args)
}

func TestDispatcher_HelpAndUnknown(t *testing.T) {
	out := withStdoutCapture(t, func() { _ = Dispatch(context.Background(), &config.Config{}, []string{}) })
	if !strings.Contains(out, "RepoHost CLI") {
		t.Fatalf("global help expected")
	}
	for _, name := range []string{"signup", "login", "repos", "repo-create", "branch-create", "file-add", "file-view"} {
		if !strings.Contains(out, name) {
			t.Fatalf("command %s missing from help", name)
		}
	}

	out = withStdoutCapture(t, func() { _ = Dispatch(context.Background(), &config.Config{}, []string{"help"}) })
	if !strings.Contains(out, "Usage:") {
		t.Fatalf("usage expected")
	}

	var code int
	out = withStdoutCapture(t, func() { code = Dispatch(context.Background(), &config.Config{}, []string{"help", "file-add"}) })
	if code != 0 || !strings.Contains(out, "file-add <repo> <branch> <name> [contents|@path|-]") {
		t.Fatalf("expected usage of file-add, got %d %q", code, out)
	}

	out = withStdoutCapture(t, func() { _ = Dispatch(context.Background(), &config.Config{}, []string{"help", "nope"}) })
	if !strings.Contains(out, "Unknown command") {
		t.Fatalf("unknown command message expected")
	}

	withStdoutCapture(t, func() { code = Dispatch(context.Background(), &config.Config{}, []string{"no-such"}) })
	if code != 2 {
		t.Fatalf("expected 2 for unknown command, got %d", code)
	}
}

func TestDispatcher_RunPaths(t *testing.T) {
	// зарегистрируем временную команду
	cmdOK := fakeCmd{name: "x", usage: "x", desc: "", run: func(_ context.Context, _ *config.Config, _ []string) error { return nil }}
	RegisterCmd(cmdOK)
	if code := Dispatch(context.Background(), &config.Config{}, []string{"x"}); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}

	cmdUsage := fakeCmd{name: "u", usage: "u <arg>", desc: "", run: func(_ context.Context, _ *config.Config, _ []string) error { return ErrUsage }}
	RegisterCmd(cmdUsage)
	out := withStdoutCapture(t, func() { _ = Dispatch(context.Background(), &config.Config{}, []string{"u"}) })
	if !strings.Contains(out, "Usage: u <arg>") {
		t.Fatalf("usage text expected")
	}

	cmdErr := fakeCmd{name: "e", usage: "e", desc: "", run: func(_ context.Context, _ *config.Config, _ []string) error { return fmt.Errorf("boom") }}
	RegisterCmd(cmdErr)
	out = withStdoutCapture(t, func() { _ = Dispatch(context.Background(), &config.Config{}, []string{"e"}) })
	if !strings.Contains(out, "e error: boom") {
		t.Fatalf("error line expected, got: %s", out)
	}
}

func TestAuthedCmd_RequiresSession(t *testing.T) {
	cfg := withTempConfig(t, "http://127.0.0.1:1")
	c, _ := Get("repos")
	err := c.Run(context.Background(), cfg, nil)
	if err == nil || !strings.Contains(err.Error(), "not logged in") {
		t.Fatalf("expected not-logged-in error, got %v", err)
	}
	if err := c.Run(context.Background(), cfg, []string{"extra"}); err != ErrUsage {
		t.Fatalf("expected ErrUsage, got %v", err)
	}

	var code int
	withStdoutCapture(t, func() { code = Dispatch(context.Background(), cfg, []string{"repos"}) })
	if code != 3 {
		t.Fatalf("expected exit 3 without session, got %d", code)
	}
}

func TestFormatGlobalUsage_Sections(t *testing.T) {
	out := FormatGlobalUsage()
	account := strings.Index(out, "Account:")
	repos := strings.Index(out, "Repositories:")
	files := strings.Index(out, "Files:")
	if account < 0 || repos < account || files < repos {
		t.Fatalf("sections missing or out of order:\n%s", out)
	}
}
