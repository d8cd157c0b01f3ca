package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ErrBlobNotFound — blob с таким идентификатором отсутствует.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore хранит неизменяемые бинарные блоки. Новое содержимое всегда получает новый идентификатор,
// поэтому читатель видит либо старые байты, либо новые, но не смесь.
type BlobStore interface {
	Put(ctx context.Context, r io.Reader) (id string, size int64, err error)
	Get(ctx context.Context, id string) ([]byte, error)
	Delete(ctx context.Context, id string) error
}

// DiskStore — BlobStore на локальном диске: <root>/<uuid>.
type DiskStore struct {
	root string
}

var _ BlobStore = (*DiskStore)(nil)

// NewDiskStore создаёт каталог хранилища при необходимости.
func NewDiskStore(root string) (*DiskStore, error) {
	if root == "" {
		return nil, errors.New("empty blob root")
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}
	return &DiskStore{root: root}, nil
}

// Put пишет данные во временный файл, синхронизирует его и переименовывает в итоговое имя.
func (s *DiskStore) Put(ctx context.Context, r io.Reader) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}
	id := uuid.NewString()

	tmp, err := os.CreateTemp(s.root, "pending-")
	if err != nil {
		return "", 0, fmt.Errorf("create temp blob: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	n, err := io.Copy(tmp, &ctxReader{ctx: ctx, r: r})
	if err != nil {
		cleanup()
		return "", 0, fmt.Errorf("write blob: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return "", 0, fmt.Errorf("sync blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", 0, fmt.Errorf("close blob: %w", err)
	}
	if err := os.Rename(tmpName, s.path(id)); err != nil {
		_ = os.Remove(tmpName)
		return "", 0, fmt.Errorf("rename blob: %w", err)
	}
	return id, n, nil
}

// Get читает blob целиком.
func (s *DiskStore) Get(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkID(id); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("read blob: %w", err)
	}
	return b, nil
}

// Delete удаляет blob. Отсутствующий blob ошибкой не считается.
func (s *DiskStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkID(id); err != nil {
		return err
	}
	if err := os.Remove(s.path(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove blob: %w", err)
	}
	return nil
}

func (s *DiskStore) path(id string) string {
	return filepath.Join(s.root, id)
}

// checkID не даёт выйти за пределы root через идентификатор.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: bad id %q", ErrBlobNotFound, id)
	}
	return nil
}

// ctxReader прерывает копирование, когда контекст отменён.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
