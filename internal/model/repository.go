package model

import "time"

// Repository — репозиторий пользователя. Имя уникально в пределах владельца.
type Repository struct {
	ID     int64 `gorm:"primaryKey;autoIncrement"`
	UserID int64 `gorm:"not null;uniqueIndex:idx_repositories_owner_name"`

	User *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	Name     string `gorm:"not null;size:100;uniqueIndex:idx_repositories_owner_name"`
	Kind     string `gorm:"not null;size:64"`
	Archived bool   `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
