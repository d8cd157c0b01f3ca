package repo

import (
	"RepoHost/internal/model"
	"context"

	"gorm.io/gorm"
)

// BranchRepository — каталог веток репозитория.
type BranchRepository interface {
	// Create создаёт ветку и её начальный файл в одной транзакции.
	Create(ctx context.Context, branch *model.Branch, file *model.File) error
	Get(ctx context.Context, repositoryID int64, name string) (*model.Branch, error)
	List(ctx context.Context, repositoryID int64) ([]model.Branch, error)
	// Delete удаляет ветку с файлами и возвращает освободившиеся blob-ы.
	Delete(ctx context.Context, repositoryID int64, name string) ([]string, error)
}

type branchRepo struct {
	db *gorm.DB
}

// NewBranchRepository создаёт реализацию BranchRepository поверх gorm.
func NewBranchRepository(db *gorm.DB) BranchRepository {
	return &branchRepo{db: db}
}

func (r *branchRepo) Create(ctx context.Context, branch *model.Branch, file *model.File) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(branch).Error; err != nil {
			return err
		}
		file.BranchID = branch.ID
		return tx.Create(file).Error
	})
	return translate(err)
}

func (r *branchRepo) Get(ctx context.Context, repositoryID int64, name string) (*model.Branch, error) {
	var b model.Branch
	err := r.db.WithContext(ctx).Where("repository_id = ? AND name = ?", repositoryID, name).First(&b).Error
	if err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (r *branchRepo) List(ctx context.Context, repositoryID int64) ([]model.Branch, error) {
	var list []model.Branch
	err := r.db.WithContext(ctx).Where("repository_id = ?", repositoryID).Order("name").Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *branchRepo) Delete(ctx context.Context, repositoryID int64, name string) ([]string, error) {
	var blobIDs []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b model.Branch
		if err := tx.Where("repository_id = ? AND name = ?", repositoryID, name).First(&b).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.File{}).Where("branch_id = ?", b.ID).Pluck("blob_id", &blobIDs).Error; err != nil {
			return err
		}
		if err := tx.Where("branch_id = ?", b.ID).Delete(&model.File{}).Error; err != nil {
			return err
		}
		return tx.Delete(&b).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return blobIDs, nil
}
