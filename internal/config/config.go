package config

import (
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server-side settings
	DatabaseDSN      string        `env:"DATABASE_URI"`
	BlobDir          string        `env:"BLOB_DIR"`
	FileMaxSizeMB    int           `env:"FILE_MAX_MB"`
	OperationTimeout time.Duration `env:"OPERATION_TIMEOUT"`

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	// Client-side settings
	ServerURL string `env:"-"`
	TokenFile string `env:"TOKEN_FILE"`
	Version   bool   `env:"-"` // show client version and exit (flag only)
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// флаги работают как запасной вариант, если переменные окружения не заданы
	// Server flags
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД (путь к SQLite или postgres://...)")
	flag.StringVar(&cfg.BlobDir, "blob-dir", cfg.BlobDir, "каталог для содержимого файлов")
	flag.IntVar(&cfg.FileMaxSizeMB, "file-max-mb", cfg.FileMaxSizeMB, "максимальный размер файла, МБ")
	flag.DurationVar(&cfg.OperationTimeout, "op-timeout", cfg.OperationTimeout, "предельное время одной операции")
	// Shared/client flags
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "address of the RepoHost server (host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS (client: prefer https scheme for BaseURL)")
	// Client flags
	flag.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "path to auth token file (client)")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	applyDefaults(cfg)
	return cfg
}

// applyDefaults заполняет пустые поля значениями по умолчанию.
func applyDefaults(cfg *Config) {
	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = "repohost.db"
	}
	if cfg.BlobDir == "" {
		cfg.BlobDir = filepath.Join("data", "blobs")
	}
	if cfg.FileMaxSizeMB <= 0 {
		cfg.FileMaxSizeMB = 10
	}
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = 5 * time.Second
	}

	// BaseURL должен быть вида "address:port" (без схемы и пути), иначе берём значение по умолчанию.
	hostPortRe := regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8081"
	}

	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}

	if cfg.TokenFile == "" {
		home, _ := os.UserHomeDir()
		cfg.TokenFile = filepath.Join(home, ".repohost_token")
	}
}

// FileMaxBytes — предельный размер содержимого файла в байтах.
func (c *Config) FileMaxBytes() int64 {
	return int64(c.FileMaxSizeMB) << 20
}
