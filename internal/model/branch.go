package model

import "time"

// DefaultBranch создаётся вместе с репозиторием.
const DefaultBranch = "main"

// Branch — ветка репозитория.
type Branch struct {
	ID           int64 `gorm:"primaryKey;autoIncrement"`
	RepositoryID int64 `gorm:"not null;uniqueIndex:idx_branches_repo_name"`

	Repository *Repository `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	Name string `gorm:"not null;size:100;uniqueIndex:idx_branches_repo_name"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}
