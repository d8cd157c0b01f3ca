package repo

import (
	"RepoHost/internal/model"
	"errors"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate — нарушение уникального индекса.
	ErrDuplicate = errors.New("duplicate record")
)

// InitDB открывает каталог и применяет миграции.
// DSN вида postgres://... или со словом host= уходит в PostgreSQL, всё остальное считается путём к SQLite.
func InitDB(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, errors.New("empty database DSN")
	}
	cfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	}

	var (
		db  *gorm.DB
		err error
	)
	if isPostgresDSN(dsn) {
		db, err = gorm.Open(postgres.Open(dsn), cfg)
	} else {
		db, err = openSQLite(dsn, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate создаёт таблицы каталога.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.User{}, &model.Repository{}, &model.Branch{}, &model.File{}); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}

// openSQLite открывает SQLite через драйвер modernc.org/sqlite.
// Одно соединение: SQLite всё равно сериализует запись, а так не бывает SQLITE_BUSY.
func openSQLite(path string, cfg *gorm.Config) (*gorm.DB, error) {
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: path}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, err
	}
	return db, nil
}

// translate приводит ошибки gorm к ошибкам пакета.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return ErrDuplicate
	default:
		return err
	}
}

// sqliteUniqueCodes — расширенные коды SQLite для UNIQUE и PRIMARY KEY.
// Транслятор gorm понимает только ошибки mattn/go-sqlite3, ошибки modernc разбираем сами.
var sqliteUniqueCodes = map[int]bool{2067: true, 1555: true}

func isUniqueViolation(err error) bool {
	var coded interface{ Code() int }
	if errors.As(err, &coded) && sqliteUniqueCodes[coded.Code()] {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
