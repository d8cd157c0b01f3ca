package commands

import (
	"RepoHost/internal/cli/api"
	"context"
	"fmt"
	"net/http"
)

type repositoryDTO struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Archived  bool   `json:"archived"`
	CreatedAt string `json:"created_at"`
}

func printRepository(r repositoryDTO) {
	state := "active"
	if r.Archived {
		state = "archived"
	}
	fmt.Fprintf(Out, "%-30s %-16s %-8s %s\n", r.Name, r.Kind, state, r.CreatedAt)
}

func listRepos(ctx context.Context, c *api.Client, login string, _ []string) error {
	var list []repositoryDTO
	if err := c.JSON(ctx, http.MethodGet, api.UserPath(login), nil, &list); err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(Out, "No repositories")
		return nil
	}
	for _, r := range list {
		printRepository(r)
	}
	return nil
}

func createRepo(ctx context.Context, c *api.Client, login string, args []string) error {
	var r repositoryDTO
	kind := ""
	if len(args) > 1 {
		kind = args[1]
	}
	payload := map[string]string{"name": args[0], "kind": kind}
	if err := c.JSON(ctx, http.MethodPost, api.UserPath(login), payload, &r); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Repository %s created\n", r.Name)
	return nil
}

func deleteRepo(ctx context.Context, c *api.Client, login string, args []string) error {
	if err := c.JSON(ctx, http.MethodDelete, api.UserPath(login, args[0]), nil, nil); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Repository %s deleted\n", args[0])
	return nil
}

func renameRepo(ctx context.Context, c *api.Client, login string, args []string) error {
	var r repositoryDTO
	if err := c.JSON(ctx, http.MethodPut, api.UserPath(login, args[0], "name"), map[string]string{"name": args[1]}, &r); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Repository %s renamed to %s\n", args[0], r.Name)
	return nil
}

func archiveAction(action string) func(context.Context, *api.Client, string, []string) error {
	return func(ctx context.Context, c *api.Client, login string, args []string) error {
		var r repositoryDTO
		if err := c.JSON(ctx, http.MethodPut, api.UserPath(login, args[0], action), nil, &r); err != nil {
			return err
		}
		printRepository(r)
		return nil
	}
}

func init() {
	RegisterCmd(authedCmd{name: "repos", usage: "repos", desc: "List your repositories", run: listRepos})
	RegisterCmd(authedCmd{name: "repo-create", usage: "repo-create <name> [kind]", desc: "Create a repository with a main branch", minArgs: 1, maxArgs: 2, run: createRepo})
	RegisterCmd(authedCmd{name: "repo-delete", usage: "repo-delete <name>", desc: "Delete a repository and everything in it", minArgs: 1, maxArgs: 1, run: deleteRepo})
	RegisterCmd(authedCmd{name: "repo-rename", usage: "repo-rename <name> <new-name>", desc: "Rename a repository", minArgs: 2, maxArgs: 2, run: renameRepo})
	RegisterCmd(authedCmd{name: "repo-archive", usage: "repo-archive <name>", desc: "Make a repository read-only", minArgs: 1, maxArgs: 1, run: archiveAction("archive")})
	RegisterCmd(authedCmd{name: "repo-restore", usage: "repo-restore <name>", desc: "Make an archived repository writable again", minArgs: 1, maxArgs: 1, run: archiveAction("restore")})
}
