package service

import (
	"RepoHost/internal/lock"
	"RepoHost/internal/model"
	"RepoHost/internal/repo"
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// tokenBytes — энтропия токена; в hex это 64 символа.
	tokenBytes = 32
	// tokenAttempts — сколько раз пробуем выдать токен при коллизии.
	tokenAttempts = 3
)

// ErrInvalidCredentials — неверная пара логин/пароль.
var ErrInvalidCredentials = fmt.Errorf("invalid login or password: %w", ErrUnauthorized)

// UserService — хранилище учётных данных и шлюз аутентификации.
type UserService struct {
	repo repo.UserRepository
	core *Core
}

// NewUserService создаёт сервис пользователей.
func NewUserService(r repo.UserRepository, core *Core) *UserService {
	return &UserService{repo: r, core: core}
}

// Signup регистрирует пользователя и выдаёт ему постоянный токен.
func (s *UserService) Signup(ctx context.Context, login, password string) (*Session, error) {
	if err := model.ValidateName(login); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	ctx, cancel := s.core.begin(ctx)
	defer cancel()

	release, err := s.core.lock(ctx, lock.UserKey(login))
	if err != nil {
		return nil, err
	}
	defer release()

	existing, err := s.repo.GetUserByLogin(ctx, login)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, storageErr("get user", err)
	}
	if err == nil && existing != nil {
		return nil, ErrLoginTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	for attempt := 0; attempt < tokenAttempts; attempt++ {
		token, err := generateToken()
		if err != nil {
			return nil, fmt.Errorf("generate token: %w", err)
		}
		taken, err := s.repo.TokenExists(ctx, token)
		if err != nil {
			return nil, storageErr("check token", err)
		}
		if taken {
			s.core.logger.Warnw("token collision on signup", "login", login, "attempt", attempt)
			continue
		}

		user, err := s.repo.CreateUser(ctx, &model.User{Login: login, Password: string(hash), Token: token})
		if errors.Is(err, repo.ErrDuplicate) {
			// логин защищён блокировкой, значит совпал токен
			continue
		}
		if err != nil {
			return nil, storageErr("create user", err)
		}
		s.core.logger.Infow("user signed up", "login", user.Login)
		return &Session{Login: user.Login, Token: user.Token}, nil
	}
	return nil, fmt.Errorf("could not issue a unique token: %w", ErrConflict)
}

// Login проверяет пароль и возвращает имя пользователя и его токен.
func (s *UserService) Login(ctx context.Context, login, password string) (*Session, error) {
	if err := model.ValidateName(login); err != nil {
		return nil, err
	}

	ctx, cancel := s.core.begin(ctx)
	defer cancel()

	user, err := s.repo.GetUserByLogin(ctx, login)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, storageErr("get user", err)
	}
	if err != nil || user == nil {
		return nil, fmt.Errorf("user %q: %w", login, ErrNotFound)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &Session{Login: user.Login, Token: user.Token}, nil
}

// Authorize — единственная точка входа для всех операций над репозиториями:
// пара (логин, токен) превращается в Identity или ErrUnauthorized.
func (s *UserService) Authorize(ctx context.Context, login, token string) (Identity, error) {
	if token == "" || model.ValidateName(login) != nil {
		return Identity{}, ErrUnauthorized
	}

	ctx, cancel := s.core.begin(ctx)
	defer cancel()

	user, err := s.repo.GetUserByLogin(ctx, login)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return Identity{}, storageErr("get user", err)
	}
	if err != nil || user == nil {
		return Identity{}, ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(user.Token), []byte(token)) != 1 {
		return Identity{}, ErrUnauthorized
	}
	return Identity{userID: user.ID, login: user.Login}, nil
}

// generateToken возвращает случайную hex-строку из crypto/rand.
func generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
