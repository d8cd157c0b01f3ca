package model

import "time"

// Файл, которым засевается каждая новая ветка.
const (
	DefaultFileName     = "index.md"
	DefaultFileContents = "<h1>Hello, World!</h1>"
)

// File — метаданные файла ветки. Содержимое лежит в blob-хранилище под BlobID.
type File struct {
	ID       int64 `gorm:"primaryKey;autoIncrement"`
	BranchID int64 `gorm:"not null;uniqueIndex:idx_files_branch_name"`

	Branch *Branch `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	Name   string `gorm:"not null;size:100;uniqueIndex:idx_files_branch_name"`
	BlobID string `gorm:"not null;type:uuid"`
	Size   int64  `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
