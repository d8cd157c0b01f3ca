package model

import "time"

// User — учётная запись владельца репозиториев.
type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Login    string `gorm:"not null;uniqueIndex;size:100"`
	Password string `gorm:"not null"`                      // bcrypt-хеш
	Token    string `gorm:"not null;uniqueIndex;size:128"` // статический токен сессии

	CreatedAt time.Time `gorm:"autoCreateTime"`
}
