package service

import (
	"RepoHost/internal/repo"
	"RepoHost/internal/storage"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testEnv — полный набор сервисов поверх SQLite и blob-хранилища во временном каталоге.
type testEnv struct {
	core     *Core
	users    *UserService
	repos    *RepositoryService
	branches *BranchService
	files    *FileService
	blobDir  string
}

func newTestEnv(t *testing.T) *testEnv {
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

	core := NewCore(zap.NewNop().Sugar(), 5*time.Second)
	repositories := repo.NewRepositoryRepository(db)
	branches := repo.NewBranchRepository(db)
	return &testEnv{
		core:     core,
		users:    NewUserService(repo.NewUserRepository(db), core),
		repos:    NewRepositoryService(repositories, blobs, core),
		branches: NewBranchService(repositories, branches, blobs, core),
		files:    NewFileService(repositories, branches, repo.NewFileRepository(db), blobs, core),
		blobDir:  blobDir,
	}
}

// identity регистрирует пользователя и проходит через Authorize.
func (e *testEnv) identity(t *testing.T, login string) Identity {
	t.Helper()
	ctx := context.Background()
	sess, err := e.users.Signup(ctx, login, "pw-"+login)
	require.NoError(t, err)
	id, err := e.users.Authorize(ctx, login, sess.Token)
	require.NoError(t, err)
	return id
}
