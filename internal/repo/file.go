package repo

import (
	"RepoHost/internal/model"
	"context"

	"gorm.io/gorm"
)

// FileRepository — каталог файлов ветки. Содержимое хранится отдельно, здесь только ссылка на blob.
type FileRepository interface {
	Create(ctx context.Context, file *model.File) error
	Get(ctx context.Context, branchID int64, name string) (*model.File, error)
	List(ctx context.Context, branchID int64) ([]model.File, error)
	// UpdateBlob переключает файл на новый blob и возвращает прежний.
	UpdateBlob(ctx context.Context, branchID int64, name, blobID string, size int64) (string, error)
	// Delete удаляет файл и возвращает его blob.
	Delete(ctx context.Context, branchID int64, name string) (string, error)
}

type fileRepo struct {
	db *gorm.DB
}

// NewFileRepository создаёт реализацию FileRepository поверх gorm.
func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepo{db: db}
}

func (r *fileRepo) Create(ctx context.Context, file *model.File) error {
	return translate(r.db.WithContext(ctx).Create(file).Error)
}

func (r *fileRepo) Get(ctx context.Context, branchID int64, name string) (*model.File, error) {
	var f model.File
	err := r.db.WithContext(ctx).Where("branch_id = ? AND name = ?", branchID, name).First(&f).Error
	if err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

func (r *fileRepo) List(ctx context.Context, branchID int64) ([]model.File, error) {
	var list []model.File
	err := r.db.WithContext(ctx).Where("branch_id = ?", branchID).Order("name").Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *fileRepo) UpdateBlob(ctx context.Context, branchID int64, name, blobID string, size int64) (string, error) {
	var old string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var f model.File
		if err := tx.Where("branch_id = ? AND name = ?", branchID, name).First(&f).Error; err != nil {
			return err
		}
		old = f.BlobID
		return tx.Model(&f).Updates(map[string]any{"blob_id": blobID, "size": size}).Error
	})
	if err != nil {
		return "", translate(err)
	}
	return old, nil
}

func (r *fileRepo) Delete(ctx context.Context, branchID int64, name string) (string, error) {
	var blobID string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var f model.File
		if err := tx.Where("branch_id = ? AND name = ?", branchID, name).First(&f).Error; err != nil {
			return err
		}
		blobID = f.BlobID
		return tx.Delete(&f).Error
	})
	if err != nil {
		return "", translate(err)
	}
	return blobID, nil
}
