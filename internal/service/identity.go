package service

import "time"

// Identity — аутентифицированный пользователь. Создаётся только UserService.Authorize,
// поэтому любой вызов реестров прошёл через проверку токена.
type Identity struct {
	userID int64
	login  string
}

// UserID возвращает идентификатор пользователя в каталоге.
func (i Identity) UserID() int64 { return i.userID }

// Login возвращает имя пользователя.
func (i Identity) Login() string { return i.login }

func (i Identity) valid() bool { return i.userID != 0 && i.login != "" }

// Session — результат signup/login. Пароль сюда не попадает.
type Session struct {
	Login string
	Token string
}

// RepositorySummary — публичное описание репозитория.
type RepositorySummary struct {
	Name      string
	Kind      string
	Archived  bool
	CreatedAt time.Time
}

// BranchSummary — публичное описание ветки.
type BranchSummary struct {
	Name      string
	CreatedAt time.Time
}

// FileSummary — публичное описание файла.
type FileSummary struct {
	Name      string
	Size      int64
	UpdatedAt time.Time
}
