package commands

import (
	"RepoHost/internal/cli/api"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

type fileDTO struct {
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	UpdatedAt string `json:"updated_at"`
}

func filePath(login string, args []string) string {
	return api.UserPath(login, args[0], "branches", args[1], "files", args[2])
}

// readSource разбирает аргумент содержимого: "-" или пусто — In, "@path" — локальный файл, иначе сам текст.
func readSource(args []string) ([]byte, error) {
	if len(args) < 4 || args[3] == "-" {
		return io.ReadAll(In)
	}
	if path, ok := strings.CutPrefix(args[3], "@"); ok {
		return os.ReadFile(path)
	}
	return []byte(args[3]), nil
}

func listFiles(ctx context.Context, c *api.Client, login string, args []string) error {
	var list []fileDTO
	if err := c.JSON(ctx, http.MethodGet, api.UserPath(login, args[0], "branches", args[1], "files"), nil, &list); err != nil {
		return err
	}
	for _, f := range list {
		fmt.Fprintf(Out, "%-40s %10d %s\n", f.Name, f.Size, f.UpdatedAt)
	}
	return nil
}

func putFile(method, verb string) func(context.Context, *api.Client, string, []string) error {
	return func(ctx context.Context, c *api.Client, login string, args []string) error {
		data, err := readSource(args)
		if err != nil {
			return fmt.Errorf("read contents: %w", err)
		}
		if _, err := c.Do(ctx, method, filePath(login, args), bytes.NewReader(data), "application/octet-stream"); err != nil {
			return err
		}
		fmt.Fprintf(Out, "File %s %s (%d bytes)\n", args[2], verb, len(data))
		return nil
	}
}

func removeFile(ctx context.Context, c *api.Client, login string, args []string) error {
	if _, err := c.Do(ctx, http.MethodDelete, filePath(login, args), nil, ""); err != nil {
		return err
	}
	fmt.Fprintf(Out, "File %s removed\n", args[2])
	return nil
}

func viewFile(ctx context.Context, c *api.Client, login string, args []string) error {
	data, err := c.Do(ctx, http.MethodGet, filePath(login, args), nil, "")
	if err != nil {
		return err
	}
	_, err = Out.Write(data)
	return err
}

func init() {
	RegisterCmd(authedCmd{name: "files", usage: "files <repo> <branch>", desc: "List files of a branch", minArgs: 2, maxArgs: 2, run: listFiles})
	RegisterCmd(authedCmd{name: "file-add", usage: "file-add <repo> <branch> <name> [contents|@path|-]", desc: "Add a new file", minArgs: 3, maxArgs: 4, run: putFile(http.MethodPost, "added")})
	RegisterCmd(authedCmd{name: "file-update", usage: "file-update <repo> <branch> <name> [contents|@path|-]", desc: "Replace the contents of a file", minArgs: 3, maxArgs: 4, run: putFile(http.MethodPut, "updated")})
	RegisterCmd(authedCmd{name: "file-remove", usage: "file-remove <repo> <branch> <name>", desc: "Remove a file", minArgs: 3, maxArgs: 3, run: removeFile})
	RegisterCmd(authedCmd{name: "file-view", usage: "file-view <repo> <branch> <name>", desc: "Print the contents of a file", minArgs: 3, maxArgs: 3, run: viewFile})
}
