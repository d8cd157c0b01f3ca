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

// BranchService — реестр веток репозитория.
type BranchService struct {
	repos    repo.RepositoryRepository
	branches repo.BranchRepository
	blobs    storage.BlobStore
	core     *Core
}

// NewBranchService создаёт реестр веток.
func NewBranchService(repos repo.RepositoryRepository, branches repo.BranchRepository, blobs storage.BlobStore, core *Core) *BranchService {
	return &BranchService{repos: repos, branches: branches, blobs: blobs, core: core}
}

// Create создаёт ветку и кладёт в неё файл по умолчанию.
func (s *BranchService) Create(ctx context.Context, id Identity, repoName, branchName string) (*BranchSummary, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if err := model.ValidateNames(repoName, branchName); err != nil {
		return nil, err
	}

	ctx, cancel := s.core.begin(ctx)
	defer cancel()

	release, err := s.core.lock(ctx, lock.RepositoryKey(id.login, repoName))
	if err != nil {
		return nil, err
	}
	defer release()

	rep, err := archiveCheck(ctx, s.repos, id, repoName)
	if err != nil {
		return nil, err
	}
	if _, err := lookupBranch(ctx, s.branches, rep, branchName); err == nil {
		return nil, fmt.Errorf("branch %q: %w", branchName, ErrConflict)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	blobID, size, err := s.core.putContents(ctx, s.blobs, []byte(model.DefaultFileContents))
	if err != nil {
		return nil, err
	}
	b := &model.Branch{RepositoryID: rep.ID, Name: branchName}
	err = s.branches.Create(ctx, b, &model.File{Name: model.DefaultFileName, BlobID: blobID, Size: size})
	if err != nil {
		s.core.dropBlobs(s.blobs, blobID)
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("branch %q: %w", branchName, ErrConflict)
		}
		return nil, storageErr("create branch", err)
	}

	s.core.logger.Infow("branch created", "owner", id.login, "repository", repoName, "branch", branchName)
	return &BranchSummary{Name: b.Name, CreatedAt: b.CreatedAt}, nil
}

// Delete удаляет ветку вместе с файлами.
func (s *BranchService) Delete(ctx context.Context, id Identity, repoName, branchName string) error {
	if err := requireIdentity(id); err != nil {
		return err
	}
	if err := model.ValidateNames(repoName, branchName); err != nil {
		return err
	}

	ctx, cancel := s.core.begin(ctx)
	defer cancel()

	// эксклюзивная блокировка репозитория отсекает все файловые операции в его ветках
	release, err := s.core.lock(ctx, lock.RepositoryKey(id.login, repoName))
	if err != nil {
		return err
	}
	defer release()

	rep, err := archiveCheck(ctx, s.repos, id, repoName)
	if err != nil {
		return err
	}
	blobIDs, err := s.branches.Delete(ctx, rep.ID, branchName)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("branch %q: %w", branchName, ErrNotFound)
		}
		return storageErr("delete branch", err)
	}
	s.core.dropBlobs(s.blobs, blobIDs...)

	s.core.logger.Infow("branch deleted", "owner", id.login, "repository", repoName, "branch", branchName)
	return nil
}

// List перечисляет ветки. Работает и для архивных репозиториев.
func (s *BranchService) List(ctx context.Context, id Identity, repoName string) ([]BranchSummary, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if err := model.ValidateName(repoName); err != nil {
		return nil, err
	}

	ctx, cancel := s.core.begin(ctx)
	defer cancel()

	release, err := s.core.rlock(ctx, lock.RepositoryKey(id.login, repoName))
	if err != nil {
		return nil, err
	}
	defer release()

	rep, err := lookupRepository(ctx, s.repos, id, repoName)
	if err != nil {
		return nil, err
	}
	list, err := s.branches.List(ctx, rep.ID)
	if err != nil {
		return nil, storageErr("list branches", err)
	}
	out := make([]BranchSummary, 0, len(list))
	for _, b := range list {
		out = append(out, BranchSummary{Name: b.Name, CreatedAt: b.CreatedAt})
	}
	return out, nil
}
