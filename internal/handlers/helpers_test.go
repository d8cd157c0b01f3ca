package handlers_test

import (
	"RepoHost/internal/config"
	"RepoHost/internal/handlers"
	"RepoHost/internal/repo"
	"RepoHost/internal/service"
	"RepoHost/internal/storage"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestServer поднимает роутер поверх SQLite и blob-каталога во временной директории.
func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	dir := t.TempDir()

	db, err := repo.InitDB(filepath.Join(dir, "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	blobDir := filepath.Join(dir, "blobs")
	blobs, err := storage.NewDiskStore(blobDir)
	require.NoError(t, err)

	logger := zap.NewNop().Sugar()
	core := service.NewCore(logger, 5*time.Second)
	repositories := repo.NewRepositoryRepository(db)
	branches := repo.NewBranchRepository(db)

	h := handlers.NewHandler(
		service.NewUserService(repo.NewUserRepository(db), core),
		service.NewRepositoryService(repositories, blobs, core),
		service.NewBranchService(repositories, branches, blobs, core),
		service.NewFileService(repositories, branches, repo.NewFileRepository(db), blobs, core),
		logger,
		&config.Config{FileMaxSizeMB: 1},
	)
	srv := httptest.NewServer(h.Router)
	t.Cleanup(srv.Close)
	return srv, blobDir
}

type apiResponse struct {
	Status int
	Body   []byte
}

func (r apiResponse) decode(t *testing.T, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Body, dst), string(r.Body))
}

func call(t *testing.T, srv *httptest.Server, method, path, token string, body io.Reader) apiResponse {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, body)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return apiResponse{Status: resp.StatusCode, Body: data}
}

func callJSON(t *testing.T, srv *httptest.Server, method, path, token string, payload any) apiResponse {
	t.Helper()
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	return call(t, srv, method, path, token, bytes.NewReader(b))
}

// signup регистрирует пользователя и возвращает токен.
func signup(t *testing.T, srv *httptest.Server, login string) string {
	t.Helper()
	resp := callJSON(t, srv, http.MethodPost, "/api/signup", "", handlers.CredentialsRequest{Username: login, Password: "pw-" + login})
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))
	var sess handlers.SessionResponse
	resp.decode(t, &sess)
	return sess.Token
}

func createRepo(t *testing.T, srv *httptest.Server, login, token, name string) {
	t.Helper()
	resp := callJSON(t, srv, http.MethodPost, "/api/users/"+login+"/repos", token, handlers.CreateRepositoryRequest{Name: name, Kind: "notes"})
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Body))
}
