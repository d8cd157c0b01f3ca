package service

import (
	"RepoHost/internal/lock"
	"RepoHost/internal/model"
	"RepoHost/internal/repo"
	"RepoHost/internal/storage"
	"context"
	"errors"
	"fmt"
)

// RepositoryService — реестр репозиториев пользователя.
type RepositoryService struct {
	repos repo.RepositoryRepository
	blobs storage.BlobStore
	core  *Core
}

// NewRepositoryService создаёт реестр репозиториев.
func NewRepositoryService(repos repo.RepositoryRepository, blobs storage.BlobStore, core *Core) *RepositoryService {
	return &RepositoryService{repos: repos, blobs: blobs, core: core}
}

// Create создаёт репозиторий с веткой main и файлом по умолчанию.
// Запись, ветка и файл фиксируются одной транзакцией; при сбое blob убирается.
func (s *RepositoryService) Create(ctx context.Context, id Identity, name, kind string) (*RepositorySummary, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if err := model.ValidateName(name); err != nil {
		return nil, err
	}
	if err := model.ValidateKind(kind); err != nil {
		return nil, err
	}

	ctx, cancel := s.core.begin(ctx)
	defer cancel()

	release, err := s.core.lock(ctx, lock.RepositoryKey(id.login, name))
	if err != nil {
		return nil, err
	}
	defer release()

	if _, err := lookupRepository(ctx, s.repos, id, name); err == nil {
		return nil, fmt.Errorf("repository %q: %w", name, ErrConflict)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	blobID, size, err := s.core.putContents(ctx, s.blobs, []byte(model.DefaultFileContents))
	if err != nil {
		return nil, err
	}

	rep := &model.Repository{UserID: id.userID, Name: name, Kind: kind}
	err = s.repos.Create(ctx, rep,
		&model.Branch{Name: model.DefaultBranch},
		&model.File{Name: model.DefaultFileName, BlobID: blobID, Size: size})
	if err != nil {
		s.core.dropBlobs(s.blobs, blobID)
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("repository %q: %w", name, ErrConflict)
		}
		return nil, storageErr("create repository", err)
	}

	s.core.logger.Infow("repository created", "owner", id.login, "repository", name, "kind", kind)
	return summarizeRepository(rep), nil
}

// Delete безвозвратно удаляет репозиторий со всеми ветками и файлами.
func (s *RepositoryService) Delete(ctx context.Context, id Identity, name string) error {
	if err := requireIdentity(id); err != nil {
		return err
	}
	if err := model.ValidateName(name); err != nil {
		return err
	}

	ctx, cancel := s.core.begin(ctx)
	defer cancel()

	release, err := s.core.lock(ctx, lock.RepositoryKey(id.login, name))
	if err != nil {
		return err
	}
	defer release()

	blobIDs, err := s.repos.Delete(ctx, id.userID, name)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("repository %q: %w", name, ErrNotFound)
		}
		return storageErr("delete repository", err)
	}
	s.core.dropBlobs(s.blobs, blobIDs...)

	s.core.logger.Infow("repository deleted", "owner", id.login, "repository", name, "files", len(blobIDs))
	return nil
}

// List возвращает все репозитории пользователя, отсортированные по имени.
func (s *RepositoryService) List(ctx context.Context, id Identity) ([]RepositorySummary, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}

	ctx, cancel := s.core.begin(ctx)
	defer cancel()

	list, err := s.repos.ListByUser(ctx, id.userID)
	if err != nil {
		return nil, storageErr("list repositories", err)
	}
	out := make([]RepositorySummary, 0, len(list))
	for i := range list {
		out = append(out, *summarizeRepository(&list[i]))
	}
	return out, nil
}

// Get возвращает описание одного репозитория.
func (s *RepositoryService) Get(ctx context.Context, id Identity, name string) (*RepositorySummary, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if err := model.ValidateName(name); err != nil {
		return nil, err
	}

	ctx, cancel := s.core.begin(ctx)
	defer cancel()

	rep, err := lookupRepository(ctx, s.repos, id, name)
	if err != nil {
		return nil, err
	}
	return summarizeRepository(rep), nil
}

// Rename переименовывает репозиторий. Оба имени захватываются сразу,
// так что промежуточного состояния никто не увидит.
func (s *RepositoryService) Rename(ctx context.Context, id Identity, oldName, newName string) error {
	if err := requireIdentity(id); err != nil {
		return err
	}
	if err := model.ValidateNames(oldName, newName); err != nil {
		return err
	}

	ctx, cancel := s.core.begin(ctx)
	defer cancel()

	release, err := s.core.lockAll(ctx,
		lock.RepositoryKey(id.login, oldName),
		lock.RepositoryKey(id.login, newName))
	if err != nil {
		return err
	}
	defer release()

	if _, err := lookupRepository(ctx, s.repos, id, oldName); err != nil {
		return err
	}
	if _, err := lookupRepository(ctx, s.repos, id, newName); err == nil {
		return fmt.Errorf("repository %q: %w", newName, ErrConflict)
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	if err := s.repos.Rename(ctx, id.userID, oldName, newName); err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return fmt.Errorf("repository %q: %w", oldName, ErrNotFound)
		case errors.Is(err, repo.ErrDuplicate):
			return fmt.Errorf("repository %q: %w", newName, ErrConflict)
		default:
			return storageErr("rename repository", err)
		}
	}

	s.core.logger.Infow("repository renamed", "owner", id.login, "from", oldName, "to", newName)
	return nil
}

// Archive запрещает мутации репозитория. Повторный вызов ничего не меняет.
func (s *RepositoryService) Archive(ctx context.Context, id Identity, name string) error {
	return s.setArchived(ctx, id, name, true)
}

// Restore снова разрешает мутации. Повторный вызов ничего не меняет.
func (s *RepositoryService) Restore(ctx context.Context, id Identity, name string) error {
	return s.setArchived(ctx, id, name, false)
}

func (s *RepositoryService) setArchived(ctx context.Context, id Identity, name string, archived bool) error {
	if err := requireIdentity(id); err != nil {
		return err
	}
	if err := model.ValidateName(name); err != nil {
		return err
	}

	ctx, cancel := s.core.begin(ctx)
	defer cancel()

	release, err := s.core.lock(ctx, lock.RepositoryKey(id.login, name))
	if err != nil {
		return err
	}
	defer release()

	rep, err := lookupRepository(ctx, s.repos, id, name)
	if err != nil {
		return err
	}
	if rep.Archived == archived {
		return nil
	}
	if err := s.repos.SetArchived(ctx, id.userID, name, archived); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("repository %q: %w", name, ErrNotFound)
		}
		return storageErr("update repository", err)
	}

	s.core.logger.Infow("repository archive state changed", "owner", id.login, "repository", name, "archived", archived)
	return nil
}

func summarizeRepository(r *model.Repository) *RepositorySummary {
	return &RepositorySummary{Name: r.Name, Kind: r.Kind, Archived: r.Archived, CreatedAt: r.CreatedAt}
}
