package service

import (
	"RepoHost/internal/lock"
	"RepoHost/internal/model"
	"RepoHost/internal/repo"
	"RepoHost/internal/storage"
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout ограничивает время одной операции, если в конфиге ничего не задано.
const DefaultTimeout = 5 * time.Second

// Core — общие зависимости сервисов. Все сервисы должны делить один Core,
// иначе их блокировки не видят друг друга.
type Core struct {
	locks   *lock.Manager
	logger  *zap.SugaredLogger
	timeout time.Duration
}

// NewCore создаёт Core. Нулевой timeout заменяется на DefaultTimeout.
func NewCore(logger *zap.SugaredLogger, timeout time.Duration) *Core {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Core{locks: lock.NewManager(), logger: logger, timeout: timeout}
}

// begin ограничивает операцию по времени.
func (c *Core) begin(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

func (c *Core) lock(ctx context.Context, key string) (lock.Release, error) {
	rel, err := c.locks.Lock(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return rel, nil
}

func (c *Core) rlock(ctx context.Context, key string) (lock.Release, error) {
	rel, err := c.locks.RLock(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return rel, nil
}

// lockAll захватывает ключи эксклюзивно в фиксированном порядке.
func (c *Core) lockAll(ctx context.Context, keys ...string) (lock.Release, error) {
	rel, err := c.locks.LockAll(ctx, keys...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return rel, nil
}

// putContents кладёт содержимое в blob-хранилище.
func (c *Core) putContents(ctx context.Context, blobs storage.BlobStore, contents []byte) (string, int64, error) {
	id, n, err := blobs.Put(ctx, bytes.NewReader(contents))
	if err != nil {
		return "", 0, storageErr("put blob", err)
	}
	return id, n, nil
}

// dropBlobs удаляет blob-ы, на которые каталог больше не ссылается.
// Ошибки только логируются: каталог уже зафиксирован, а лишний blob никому не виден.
func (c *Core) dropBlobs(blobs storage.BlobStore, ids ...string) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	for _, id := range ids {
		if id == "" {
			continue
		}
		if err := blobs.Delete(ctx, id); err != nil {
			c.logger.Warnw("failed to remove blob", "blob_id", id, "error", err)
		}
	}
}

// requireIdentity отсекает вызовы в обход Authorize.
func requireIdentity(id Identity) error {
	if !id.valid() {
		return ErrUnauthorized
	}
	return nil
}

// lookupRepository находит репозиторий владельца.
func lookupRepository(ctx context.Context, repos repo.RepositoryRepository, id Identity, name string) (*model.Repository, error) {
	rep, err := repos.GetByName(ctx, id.userID, name)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("repository %q: %w", name, ErrNotFound)
		}
		return nil, storageErr("get repository", err)
	}
	return rep, nil
}

// archiveCheck — общий для всех мутаций шлюз: репозиторий существует и не в архиве.
// Решение принимается по колонке archived самой записи репозитория.
func archiveCheck(ctx context.Context, repos repo.RepositoryRepository, id Identity, name string) (*model.Repository, error) {
	rep, err := lookupRepository(ctx, repos, id, name)
	if err != nil {
		return nil, err
	}
	if rep.Archived {
		return nil, fmt.Errorf("repository %q: %w", name, ErrForbidden)
	}
	return rep, nil
}

// lookupBranch находит ветку репозитория.
func lookupBranch(ctx context.Context, branches repo.BranchRepository, rep *model.Repository, name string) (*model.Branch, error) {
	b, err := branches.Get(ctx, rep.ID, name)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("branch %q: %w", name, ErrNotFound)
		}
		return nil, storageErr("get branch", err)
	}
	return b, nil
}
