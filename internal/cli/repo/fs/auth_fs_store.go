package fs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// AuthFSStore — файловое хранилище токена и логина для CLI.
// Токен лежит в Path, логин рядом, в Path + ".login".
type AuthFSStore struct {
	Path string
}

// NewAuthFSStore создаёт хранилище с токеном по пути path.
func NewAuthFSStore(path string) AuthFSStore {
	return AuthFSStore{Path: path}
}

func (s AuthFSStore) loginPath() string { return s.Path + ".login" }

// Save сохраняет auth‑токен в файл.
func (s AuthFSStore) Save(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("empty token")
	}
	return writeAtomic(s.Path, token)
}

// Load читает auth‑токен из файла.
func (s AuthFSStore) Load() (string, error) {
	return readTrimmed(s.Path, "empty token file")
}

// SaveLogin сохраняет логин пользователя в файл.
func (s AuthFSStore) SaveLogin(login string) error {
	login = strings.TrimSpace(login)
	if login == "" {
		return errors.New("empty login")
	}
	return writeAtomic(s.loginPath(), login)
}

// LoadLogin читает логин пользователя из файла.
func (s AuthFSStore) LoadLogin() (string, error) {
	return readTrimmed(s.loginPath(), "no stored login")
}

// SaveSession сохраняет логин и токен одной операцией с точки зрения вызывающего.
func (s AuthFSStore) SaveSession(login, token string) error {
	if err := s.Save(token); err != nil {
		return err
	}
	return s.SaveLogin(login)
}

// writeAtomic пишет во временный файл рядом и переименовывает его поверх.
func writeAtomic(path, value string) error {
	if path == "" {
		return errors.New("empty store path")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.WriteString(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		_ = os.Remove(name)
		return err
	}
	return nil
}

func readTrimmed(path, emptyMsg string) (string, error) {
	if path == "" {
		return "", errors.New("empty store path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	// обрезаем завершающие переводы строки/пробелы
	v := strings.TrimSpace(string(b))
	if v == "" {
		return "", errors.New(emptyMsg)
	}
	return v, nil
}
