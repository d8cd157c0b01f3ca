package repo

import (
	"RepoHost/internal/model"
	"context"

	"gorm.io/gorm"
)

// RepositoryRepository — каталог репозиториев пользователя.
type RepositoryRepository interface {
	// Create создаёт репозиторий вместе с веткой по умолчанию и её файлом в одной транзакции.
	Create(ctx context.Context, repository *model.Repository, branch *model.Branch, file *model.File) error
	// GetByName ищет репозиторий владельца по имени.
	GetByName(ctx context.Context, userID int64, name string) (*model.Repository, error)
	// ListByUser возвращает репозитории владельца, отсортированные по имени.
	ListByUser(ctx context.Context, userID int64) ([]model.Repository, error)
	// Rename меняет имя одним UPDATE.
	Rename(ctx context.Context, userID int64, oldName, newName string) error
	// SetArchived выставляет флаг archived.
	SetArchived(ctx context.Context, userID int64, name string, archived bool) error
	// Delete удаляет репозиторий, его ветки и файлы.
	// Возвращает идентификаторы blob-ов, которые больше ни на что не ссылаются.
	Delete(ctx context.Context, userID int64, name string) ([]string, error)
}

type repositoryRepo struct {
	db *gorm.DB
}

// NewRepositoryRepository создаёт реализацию RepositoryRepository поверх gorm.
func NewRepositoryRepository(db *gorm.DB) RepositoryRepository {
	return &repositoryRepo{db: db}
}

func (r *repositoryRepo) Create(ctx context.Context, repository *model.Repository, branch *model.Branch, file *model.File) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(repository).Error; err != nil {
			return err
		}
		branch.RepositoryID = repository.ID
		if err := tx.Create(branch).Error; err != nil {
			return err
		}
		file.BranchID = branch.ID
		return tx.Create(file).Error
	})
	return translate(err)
}

func (r *repositoryRepo) GetByName(ctx context.Context, userID int64, name string) (*model.Repository, error) {
	var rep model.Repository
	err := r.db.WithContext(ctx).Where("user_id = ? AND name = ?", userID, name).First(&rep).Error
	if err != nil {
		return nil, translate(err)
	}
	return &rep, nil
}

func (r *repositoryRepo) ListByUser(ctx context.Context, userID int64) ([]model.Repository, error) {
	var list []model.Repository
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("name").Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repositoryRepo) Rename(ctx context.Context, userID int64, oldName, newName string) error {
	tx := r.db.WithContext(ctx).Model(&model.Repository{}).
		Where("user_id = ? AND name = ?", userID, oldName).
		Update("name", newName)
	if tx.Error != nil {
		return translate(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repositoryRepo) SetArchived(ctx context.Context, userID int64, name string, archived bool) error {
	tx := r.db.WithContext(ctx).Model(&model.Repository{}).
		Where("user_id = ? AND name = ?", userID, name).
		Update("archived", archived)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repositoryRepo) Delete(ctx context.Context, userID int64, name string) ([]string, error) {
	var blobIDs []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rep model.Repository
		if err := tx.Where("user_id = ? AND name = ?", userID, name).First(&rep).Error; err != nil {
			return err
		}
		var branchIDs []int64
		if err := tx.Model(&model.Branch{}).Where("repository_id = ?", rep.ID).Pluck("id", &branchIDs).Error; err != nil {
			return err
		}
		if len(branchIDs) > 0 {
			if err := tx.Model(&model.File{}).Where("branch_id IN ?", branchIDs).Pluck("blob_id", &blobIDs).Error; err != nil {
				return err
			}
			if err := tx.Where("branch_id IN ?", branchIDs).Delete(&model.File{}).Error; err != nil {
				return err
			}
			if err := tx.Where("repository_id = ?", rep.ID).Delete(&model.Branch{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&rep).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return blobIDs, nil
}
