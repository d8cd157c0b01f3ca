package service

import (
	"RepoHost/internal/lock"
	"RepoHost/internal/model"
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryService_CreateThenList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.identity(t, "alice")

	created, err := env.repos.Create(ctx, alice, "site", "web")
	require.NoError(t, err)
	assert.False(t, created.Archived)

	list, err := env.repos.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "site", list[0].Name)
	assert.Equal(t, "web", list[0].Kind)
	assert.False(t, list[0].Archived)

	// main засеян файлом по умолчанию
	data, err := env.files.View(ctx, alice, FileRef{Repository: "site", Branch: model.DefaultBranch, Name: model.DefaultFileName})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultFileContents, string(data))
}

func TestRepositoryService_DuplicateCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.identity(t, "alice")

	_, err := env.repos.Create(ctx, alice, "site", "web")
	require.NoError(t, err)
	require.NoError(t, env.files.Add(ctx, alice, FileRef{"site", "main", "a.txt"}, []byte("keep")))

	_, err = env.repos.Create(ctx, alice, "site", "other")
	assert.ErrorIs(t, err, ErrConflict)

	// состояние первого репозитория не изменилось
	got, err := env.repos.Get(ctx, alice, "site")
	require.NoError(t, err)
	assert.Equal(t, "web", got.Kind)
	data, err := env.files.View(ctx, alice, FileRef{"site", "main", "a.txt"})
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))

	// у другого пользователя своё пространство имён
	bob := env.identity(t, "bob")
	_, err = env.repos.Create(ctx, bob, "site", "web")
	assert.NoError(t, err)
	list, err := env.repos.List(ctx, bob)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRepositoryService_DeleteCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.identity(t, "alice")

	_, err := env.repos.Create(ctx, alice, "site", "web")
	require.NoError(t, err)
	_, err = env.branches.Create(ctx, alice, "site", "dev")
	require.NoError(t, err)

	require.NoError(t, env.repos.Delete(ctx, alice, "site"))

	_, err = env.branches.List(ctx, alice, "site")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.files.List(ctx, alice, "site", "main")
	assert.ErrorIs(t, err, ErrNotFound)

	// повторное удаление — NotFound, а не успех
	assert.ErrorIs(t, env.repos.Delete(ctx, alice, "site"), ErrNotFound)

	// blob-ы убраны с диска
	entries, err := os.ReadDir(env.blobDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRepositoryService_Rename(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.identity(t, "alice")

	_, err := env.repos.Create(ctx, alice, "one", "")
	require.NoError(t, err)
	_, err = env.repos.Create(ctx, alice, "two", "")
	require.NoError(t, err)

	assert.ErrorIs(t, env.repos.Rename(ctx, alice, "missing", "x"), ErrNotFound)
	assert.ErrorIs(t, env.repos.Rename(ctx, alice, "one", "two"), ErrConflict)
	assert.ErrorIs(t, env.repos.Rename(ctx, alice, "one", "../x"), ErrInvalidName)

	require.NoError(t, env.repos.Rename(ctx, alice, "one", "three"))
	_, err = env.repos.Get(ctx, alice, "one")
	assert.ErrorIs(t, err, ErrNotFound)

	// ветки и файлы переехали вместе с репозиторием
	data, err := env.files.View(ctx, alice, FileRef{"three", "main", model.DefaultFileName})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultFileContents, string(data))
}

func TestRepositoryService_ArchiveRestore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.identity(t, "alice")

	_, err := env.repos.Create(ctx, alice, "site", "web")
	require.NoError(t, err)
	ref := FileRef{"site", "main", "f"}
	require.NoError(t, env.files.Add(ctx, alice, ref, []byte("before")))

	require.NoError(t, env.repos.Archive(ctx, alice, "site"))
	require.NoError(t, env.repos.Archive(ctx, alice, "site")) // идемпотентно

	got, err := env.repos.Get(ctx, alice, "site")
	require.NoError(t, err)
	assert.True(t, got.Archived)

	// все мутации запрещены
	assert.ErrorIs(t, env.files.Add(ctx, alice, FileRef{"site", "main", "g"}, []byte("x")), ErrForbidden)
	assert.ErrorIs(t, env.files.Update(ctx, alice, ref, []byte("x")), ErrForbidden)
	assert.ErrorIs(t, env.files.Remove(ctx, alice, ref), ErrForbidden)
	_, err = env.branches.Create(ctx, alice, "site", "dev")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, env.branches.Delete(ctx, alice, "site", "main"), ErrForbidden)

	// чтение работает и возвращает прежнее содержимое
	data, err := env.files.View(ctx, alice, ref)
	require.NoError(t, err)
	assert.Equal(t, "before", string(data))
	files, err := env.files.List(ctx, alice, "site", "main")
	require.NoError(t, err)
	assert.Len(t, files, 2)
	branches, err := env.branches.List(ctx, alice, "site")
	require.NoError(t, err)
	assert.Len(t, branches, 1)

	// rename и delete не блокируются архивом
	require.NoError(t, env.repos.Rename(ctx, alice, "site", "old-site"))

	require.NoError(t, env.repos.Restore(ctx, alice, "old-site"))
	require.NoError(t, env.repos.Restore(ctx, alice, "old-site"))
	assert.NoError(t, env.files.Add(ctx, alice, FileRef{"old-site", "main", "g"}, []byte("x")))

	assert.ErrorIs(t, env.repos.Archive(ctx, alice, "missing"), ErrNotFound)
	assert.ErrorIs(t, env.repos.Restore(ctx, alice, "missing"), ErrNotFound)
}

func TestRepositoryService_RequiresIdentity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.repos.Create(ctx, Identity{}, "site", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = env.repos.List(ctx, Identity{})
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.ErrorIs(t, env.files.Add(ctx, Identity{}, FileRef{"a", "b", "c"}, nil), ErrUnauthorized)
}

func TestRepositoryService_LockTimeout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.identity(t, "alice")
	env.core.timeout = 50 * time.Millisecond

	// кто-то держит репозиторий дольше таймаута операции
	hold, err := env.core.locks.Lock(ctx, lock.RepositoryKey("alice", "site"))
	require.NoError(t, err)
	defer hold()

	_, err = env.repos.Create(ctx, alice, "site", "")
	assert.ErrorIs(t, err, ErrTimeout)
}
