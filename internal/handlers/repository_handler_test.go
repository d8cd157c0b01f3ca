package handlers_test

import (
	"RepoHost/internal/handlers"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositories_AuthGate(t *testing.T) {
	srv, _ := newTestServer(t)
	aliceToken := signup(t, srv, "alice")
	bobToken := signup(t, srv, "bob")

	cases := []struct {
		name  string
		token string
	}{
		{"no token", ""},
		{"garbage token", "deadbeef"},
		{"someone else's token", bobToken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := call(t, srv, http.MethodGet, "/api/users/alice/repos", tc.token, nil)
			assert.Equal(t, http.StatusUnauthorized, resp.Status)
			var e handlers.ErrorResponse
			resp.decode(t, &e)
			assert.Equal(t, "unauthorized", e.Error)
		})
	}

	t.Run("unknown user looks the same", func(t *testing.T) {
		resp := call(t, srv, http.MethodGet, "/api/users/nobody/repos", aliceToken, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.Status)
	})

	t.Run("owner passes", func(t *testing.T) {
		resp := call(t, srv, http.MethodGet, "/api/users/alice/repos", aliceToken, nil)
		assert.Equal(t, http.StatusOK, resp.Status)
		assert.JSONEq(t, "[]", string(resp.Body))
	})
}

func TestRepositories_Lifecycle(t *testing.T) {
	srv, blobDir := newTestServer(t)
	token := signup(t, srv, "alice")
	base := "/api/users/alice/repos"

	createRepo(t, srv, "alice", token, "site")

	resp := callJSON(t, srv, http.MethodPost, base, token, handlers.CreateRepositoryRequest{Name: "site", Kind: "notes"})
	assert.Equal(t, http.StatusConflict, resp.Status)

	resp = callJSON(t, srv, http.MethodPost, base, token, handlers.CreateRepositoryRequest{Name: "..", Kind: "notes"})
	assert.Equal(t, http.StatusBadRequest, resp.Status)

	resp = call(t, srv, http.MethodGet, base+"/site", token, nil)
	require.Equal(t, http.StatusOK, resp.Status)
	var dto handlers.RepositoryDTO
	resp.decode(t, &dto)
	assert.Equal(t, "site", dto.Name)
	assert.Equal(t, "notes", dto.Kind)
	assert.False(t, dto.Archived)

	// свежий репозиторий содержит main/index.md
	resp = call(t, srv, http.MethodGet, base+"/site/branches/main/files/index.md", token, nil)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "<h1>Hello, World!</h1>", string(resp.Body))

	resp = callJSON(t, srv, http.MethodPut, base+"/site/name", token, handlers.RenameRepositoryRequest{Name: "blog"})
	require.Equal(t, http.StatusOK, resp.Status)
	resp.decode(t, &dto)
	assert.Equal(t, "blog", dto.Name)

	resp = call(t, srv, http.MethodGet, base+"/site", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.Status)

	var list []handlers.RepositoryDTO
	resp = call(t, srv, http.MethodGet, base, token, nil)
	resp.decode(t, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "blog", list[0].Name)

	resp = call(t, srv, http.MethodDelete, base+"/blog", token, nil)
	assert.Equal(t, http.StatusNoContent, resp.Status)
	resp = call(t, srv, http.MethodDelete, base+"/blog", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.Status)

	entries, err := os.ReadDir(blobDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRepositories_ArchiveGating(t *testing.T) {
	srv, _ := newTestServer(t)
	token := signup(t, srv, "alice")
	base := "/api/users/alice/repos/site"
	createRepo(t, srv, "alice", token, "site")

	resp := call(t, srv, http.MethodPut, base+"/archive", token, nil)
	require.Equal(t, http.StatusOK, resp.Status)
	var dto handlers.RepositoryDTO
	resp.decode(t, &dto)
	assert.True(t, dto.Archived)

	// повторная архивация не ошибка
	resp = call(t, srv, http.MethodPut, base+"/archive", token, nil)
	assert.Equal(t, http.StatusOK, resp.Status)

	resp = call(t, srv, http.MethodPost, base+"/branches/dev", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.Status)
	resp = call(t, srv, http.MethodPut, base+"/branches/main/files/index.md", token, bytesBody("new"))
	assert.Equal(t, http.StatusForbidden, resp.Status)

	// чтение разрешено
	resp = call(t, srv, http.MethodGet, base+"/branches/main/files/index.md", token, nil)
	assert.Equal(t, http.StatusOK, resp.Status)

	resp = call(t, srv, http.MethodPut, base+"/restore", token, nil)
	require.Equal(t, http.StatusOK, resp.Status)
	resp = call(t, srv, http.MethodPost, base+"/branches/dev", token, nil)
	assert.Equal(t, http.StatusCreated, resp.Status)
}
