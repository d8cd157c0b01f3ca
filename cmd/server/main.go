package main

import (
	"RepoHost/internal/config"
	"RepoHost/internal/handlers"
	"RepoHost/internal/middleware"
	"RepoHost/internal/repo"
	"RepoHost/internal/service"
	"RepoHost/internal/storage"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		_ = logger.Sync()
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		defer sqlDB.Close()
	}

	blobs, err := storage.NewDiskStore(cfg.BlobDir)
	if err != nil {
		sugar.Fatalw("failed to initialize blob store", "dir", cfg.BlobDir, "error", err)
	}

	core := service.NewCore(sugar, cfg.OperationTimeout)
	repositories := repo.NewRepositoryRepository(gormDB)
	branches := repo.NewBranchRepository(gormDB)

	userService := service.NewUserService(repo.NewUserRepository(gormDB), core)
	repoService := service.NewRepositoryService(repositories, blobs, core)
	branchService := service.NewBranchService(repositories, branches, blobs, core)
	fileService := service.NewFileService(repositories, branches, repo.NewFileRepository(gormDB), blobs, core)

	h := handlers.NewHandler(userService, repoService, branchService, fileService, sugar, cfg)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"BlobDir", cfg.BlobDir,
		"FileMaxSizeMB", cfg.FileMaxSizeMB,
		"OperationTimeout", cfg.OperationTimeout,
	)

	srv := &http.Server{
		Addr:              cfg.BaseURL,
		Handler:           h.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sugar.Errorw("Shutdown failed", "error", err)
		}
	}()

	sugar.Infow("Starting server", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugar.Fatalw("Server failed", "error", err)
	}
	sugar.Infow("Server stopped")
}
