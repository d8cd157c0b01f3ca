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

// FileService — файлы внутри ветки.
//
// Блокировки: репозиторий на чтение, затем ветка. Мутации держат ветку эксклюзивно,
// чтение и листинг — на чтение. Содержимое пишется в новый blob и только потом
// каталог переключается на него.
type FileService struct {
	repos    repo.RepositoryRepository
	branches repo.BranchRepository
	files    repo.FileRepository
	blobs    storage.BlobStore
	core     *Core
}

// NewFileService создаёт файловое хранилище.
func NewFileService(repos repo.RepositoryRepository, branches repo.BranchRepository, files repo.FileRepository, blobs storage.BlobStore, core *Core) *FileService {
	return &FileService{repos: repos, branches: branches, files: files, blobs: blobs, core: core}
}

// FileRef адресует файл: репозиторий, ветка, имя.
type FileRef struct {
	Repository string
	Branch     string
	Name       string
}

func (r FileRef) validate() error {
	return model.ValidateNames(r.Repository, r.Branch, r.Name)
}

// scope захватывает блокировки репозитория и ветки и находит ветку.
// mutate=true требует незаархивированный репозиторий и эксклюзивную блокировку ветки.
func (s *FileService) scope(ctx context.Context, id Identity, repoName, branchName string, mutate bool) (*model.Branch, func(), error) {
	repoRelease, err := s.core.rlock(ctx, lock.RepositoryKey(id.login, repoName))
	if err != nil {
		return nil, nil, err
	}

	branchKey := lock.BranchKey(id.login, repoName, branchName)
	var branchRelease lock.Release
	if mutate {
		branchRelease, err = s.core.lock(ctx, branchKey)
	} else {
		branchRelease, err = s.core.rlock(ctx, branchKey)
	}
	if err != nil {
		repoRelease()
		return nil, nil, err
	}
	release := func() {
		branchRelease()
		repoRelease()
	}

	var rep *model.Repository
	if mutate {
		rep, err = archiveCheck(ctx, s.repos, id, repoName)
	} else {
		rep, err = lookupRepository(ctx, s.repos, id, repoName)
	}
	if err != nil {
		release()
		return nil, nil, err
	}
	b, err := lookupBranch(ctx, s.branches, rep, branchName)
	if err != nil {
		release()
		return nil, nil, err
	}
	return b, release, nil
}

// Add создаёт новый файл. Существующий файл с тем же именем даёт ErrConflict.
func (s *FileService) Add(ctx context.Context, id Identity, ref FileRef, contents []byte) error {
	if err := requireIdentity(id); err != nil {
		return err
	}
	if err := ref.validate(); err != nil {
		return err
	}

	ctx, cancel := s.core.begin(ctx)
	defer cancel()

	b, release, err := s.scope(ctx, id, ref.Repository, ref.Branch, true)
	if err != nil {
		return err
	}
	defer release()

	if _, err := s.files.Get(ctx, b.ID, ref.Name); err == nil {
		return fmt.Errorf("file %q: %w", ref.Name, ErrConflict)
	} else if !errors.Is(err, repo.ErrNotFound) {
		return storageErr("get file", err)
	}

	blobID, size, err := s.core.putContents(ctx, s.blobs, contents)
	if err != nil {
		return err
	}
	if err := s.files.Create(ctx, &model.File{BranchID: b.ID, Name: ref.Name, BlobID: blobID, Size: size}); err != nil {
		s.core.dropBlobs(s.blobs, blobID)
		if errors.Is(err, repo.ErrDuplicate) {
			return fmt.Errorf("file %q: %w", ref.Name, ErrConflict)
		}
		return storageErr("create file", err)
	}

	s.core.logger.Debugw("file added", "owner", id.login, "repository", ref.Repository, "branch", ref.Branch, "file", ref.Name, "size", size)
	return nil
}

// Update перезаписывает содержимое существующего файла. Отсутствующий файл не создаётся.
func (s *FileService) Update(ctx context.Context, id Identity, ref FileRef, contents []byte) error {
	if err := requireIdentity(id); err != nil {
		return err
	}
	if err := ref.validate(); err != nil {
		return err
	}

	ctx, cancel := s.core.begin(ctx)
	defer cancel()

	b, release, err := s.scope(ctx, id, ref.Repository, ref.Branch, true)
	if err != nil {
		return err
	}
	defer release()

	if _, err := s.files.Get(ctx, b.ID, ref.Name); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("file %q: %w", ref.Name, ErrNotFound)
		}
		return storageErr("get file", err)
	}

	blobID, size, err := s.core.putContents(ctx, s.blobs, contents)
	if err != nil {
		return err
	}
	old, err := s.files.UpdateBlob(ctx, b.ID, ref.Name, blobID, size)
	if err != nil {
		s.core.dropBlobs(s.blobs, blobID)
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("file %q: %w", ref.Name, ErrNotFound)
		}
		return storageErr("update file", err)
	}
	s.core.dropBlobs(s.blobs, old)

	s.core.logger.Debugw("file updated", "owner", id.login, "repository", ref.Repository, "branch", ref.Branch, "file", ref.Name, "size", size)
	return nil
}

// Remove удаляет файл.
func (s *FileService) Remove(ctx context.Context, id Identity, ref FileRef) error {
	if err := requireIdentity(id); err != nil {
		return err
	}
	if err := ref.validate(); err != nil {
		return err
	}

	ctx, cancel := s.core.begin(ctx)
	defer cancel()

	b, release, err := s.scope(ctx, id, ref.Repository, ref.Branch, true)
	if err != nil {
		return err
	}
	defer release()

	blobID, err := s.files.Delete(ctx, b.ID, ref.Name)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("file %q: %w", ref.Name, ErrNotFound)
		}
		return storageErr("delete file", err)
	}
	s.core.dropBlobs(s.blobs, blobID)

	s.core.logger.Debugw("file removed", "owner", id.login, "repository", ref.Repository, "branch", ref.Branch, "file", ref.Name)
	return nil
}

// View возвращает содержимое файла. Работает и для архивных репозиториев.
func (s *FileService) View(ctx context.Context, id Identity, ref FileRef) ([]byte, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if err := ref.validate(); err != nil {
		return nil, err
	}

	ctx, cancel := s.core.begin(ctx)
	defer cancel()

	b, release, err := s.scope(ctx, id, ref.Repository, ref.Branch, false)
	if err != nil {
		return nil, err
	}
	defer release()

	f, err := s.files.Get(ctx, b.ID, ref.Name)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("file %q: %w", ref.Name, ErrNotFound)
		}
		return nil, storageErr("get file", err)
	}
	data, err := s.blobs.Get(ctx, f.BlobID)
	if err != nil {
		// запись в каталоге есть, а blob пропал — это сбой хранилища, а не NotFound
		return nil, storageErr("read blob", err)
	}
	return data, nil
}

// List перечисляет файлы ветки. Работает и для архивных репозиториев.
func (s *FileService) List(ctx context.Context, id Identity, repoName, branchName string) ([]FileSummary, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if err := model.ValidateNames(repoName, branchName); err != nil {
		return nil, err
	}

	ctx, cancel := s.core.begin(ctx)
	defer cancel()

	b, release, err := s.scope(ctx, id, repoName, branchName, false)
	if err != nil {
		return nil, err
	}
	defer release()

	list, err := s.files.List(ctx, b.ID)
	if err != nil {
		return nil, storageErr("list files", err)
	}
	out := make([]FileSummary, 0, len(list))
	for _, f := range list {
		out = append(out, FileSummary{Name: f.Name, Size: f.Size, UpdatedAt: f.UpdatedAt})
	}
	return out, nil
}
