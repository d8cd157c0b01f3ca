package repo

import (
	"RepoHost/internal/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mkUser создаёт владельца для тестов каталога
func mkUser(t *testing.T, r UserRepository, login string) *model.User {
	t.Helper()
	u, err := r.CreateUser(context.Background(), &model.User{Login: login, Password: "h", Token: "tok-" + login})
	require.NoError(t, err)
	return u
}

func mkRepository(t *testing.T, r RepositoryRepository, userID int64, name, blobID string) *model.Repository {
	t.Helper()
	rep := &model.Repository{UserID: userID, Name: name, Kind: "code"}
	err := r.Create(context.Background(), rep,
		&model.Branch{Name: model.DefaultBranch},
		&model.File{Name: model.DefaultFileName, BlobID: blobID, Size: 3})
	require.NoError(t, err)
	return rep
}

func TestRepositoryRepository_CreateSeedsMainBranch(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	repos := NewRepositoryRepository(db)
	branches := NewBranchRepository(db)
	files := NewFileRepository(db)
	ctx := context.Background()

	u := mkUser(t, users, "alice")
	rep := mkRepository(t, repos, u.ID, "site", "b-1")

	b, err := branches.Get(ctx, rep.ID, model.DefaultBranch)
	require.NoError(t, err)
	f, err := files.Get(ctx, b.ID, model.DefaultFileName)
	require.NoError(t, err)
	assert.Equal(t, "b-1", f.BlobID)

	// дубликат имени в пределах владельца
	err = repos.Create(ctx, &model.Repository{UserID: u.ID, Name: "site"},
		&model.Branch{Name: model.DefaultBranch}, &model.File{Name: model.DefaultFileName, BlobID: "b-2"})
	assert.ErrorIs(t, err, ErrDuplicate)

	// откат: лишней ветки или файла не появилось
	var n int64
	require.NoError(t, db.Model(&model.Branch{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
	require.NoError(t, db.Model(&model.File{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	// у другого владельца то же имя допустимо
	bob := mkUser(t, users, "bob")
	mkRepository(t, repos, bob.ID, "site", "b-3")
}

func TestRepositoryRepository_ListRenameArchive(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	repos := NewRepositoryRepository(db)
	ctx := context.Background()

	u := mkUser(t, users, "alice")
	mkRepository(t, repos, u.ID, "zeta", "b-1")
	mkRepository(t, repos, u.ID, "alpha", "b-2")

	list, err := repos.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	if assert.Len(t, list, 2) {
		assert.Equal(t, "alpha", list[0].Name)
		assert.Equal(t, "zeta", list[1].Name)
	}

	assert.ErrorIs(t, repos.Rename(ctx, u.ID, "alpha", "zeta"), ErrDuplicate)
	assert.ErrorIs(t, repos.Rename(ctx, u.ID, "nope", "x"), ErrNotFound)
	require.NoError(t, repos.Rename(ctx, u.ID, "alpha", "beta"))
	_, err = repos.GetByName(ctx, u.ID, "alpha")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repos.SetArchived(ctx, u.ID, "beta", true))
	got, err := repos.GetByName(ctx, u.ID, "beta")
	require.NoError(t, err)
	assert.True(t, got.Archived)
	assert.ErrorIs(t, repos.SetArchived(ctx, u.ID, "nope", true), ErrNotFound)
}

func TestRepositoryRepository_DeleteCascades(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	repos := NewRepositoryRepository(db)
	branches := NewBranchRepository(db)
	ctx := context.Background()

	u := mkUser(t, users, "alice")
	rep := mkRepository(t, repos, u.ID, "site", "b-1")
	require.NoError(t, branches.Create(ctx, &model.Branch{RepositoryID: rep.ID, Name: "dev"},
		&model.File{Name: model.DefaultFileName, BlobID: "b-2"}))

	blobs, err := repos.Delete(ctx, u.ID, "site")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"b-1", "b-2"}, blobs)

	var n int64
	require.NoError(t, db.Model(&model.Branch{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Model(&model.File{}).Count(&n).Error)
	assert.Zero(t, n)

	_, err = repos.Delete(ctx, u.ID, "site")
	assert.ErrorIs(t, err, ErrNotFound)
}
