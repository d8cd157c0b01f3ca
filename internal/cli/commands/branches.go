package commands

import (
	"RepoHost/internal/cli/api"
	"context"
	"fmt"
	"net/http"
)

type branchDTO struct {
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

func listBranches(ctx context.Context, c *api.Client, login string, args []string) error {
	var list []branchDTO
	if err := c.JSON(ctx, http.MethodGet, api.UserPath(login, args[0], "branches"), nil, &list); err != nil {
		return err
	}
	for _, b := range list {
		fmt.Fprintf(Out, "%-30s %s\n", b.Name, b.CreatedAt)
	}
	return nil
}

func createBranch(ctx context.Context, c *api.Client, login string, args []string) error {
	if err := c.JSON(ctx, http.MethodPost, api.UserPath(login, args[0], "branches", args[1]), nil, nil); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Branch %s created in %s\n", args[1], args[0])
	return nil
}

func deleteBranch(ctx context.Context, c *api.Client, login string, args []string) error {
	if err := c.JSON(ctx, http.MethodDelete, api.UserPath(login, args[0], "branches", args[1]), nil, nil); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Branch %s deleted from %s\n", args[1], args[0])
	return nil
}

func init() {
	RegisterCmd(authedCmd{name: "branches", usage: "branches <repo>", desc: "List branches of a repository", minArgs: 1, maxArgs: 1, run: listBranches})
	RegisterCmd(authedCmd{name: "branch-create", usage: "branch-create <repo> <branch>", desc: "Create a branch with the default file", minArgs: 2, maxArgs: 2, run: createBranch})
	RegisterCmd(authedCmd{name: "branch-delete", usage: "branch-delete <repo> <branch>", desc: "Delete a branch and its files", minArgs: 2, maxArgs: 2, run: deleteBranch})
}
