package repo

import (
	"RepoHost/internal/model"
	"context"

	"gorm.io/gorm"
)

// UserRepository — доступ к учётным записям.
type UserRepository interface {
	// CreateUser создаёт пользователя. Занятый логин или токен дают ErrDuplicate.
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	// GetUserByLogin ищет пользователя по логину, ErrNotFound если нет.
	GetUserByLogin(ctx context.Context, login string) (*model.User, error)
	// TokenExists сообщает, выдан ли уже такой токен.
	TokenExists(ctx context.Context, token string) (bool, error)
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepository создаёт реализацию UserRepository поверх gorm.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, translate(err)
	}
	return user, nil
}

func (r *userRepo) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("login = ?", login).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *userRepo) TokenExists(ctx context.Context, token string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("token = ?", token).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
