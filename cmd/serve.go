package cmd

import (
	"fmt"
	"net"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/depot-sh/depot/internal/adapter/handler"
	"github.com/depot-sh/depot/internal/auth"
	infra "github.com/depot-sh/depot/internal/infrastructure/repository"
	"github.com/depot-sh/depot/internal/usecase"
	"github.com/depot-sh/depot/pkg/config"
	"github.com/depot-sh/depot/pkg/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the repository server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Logging.Level)

	fs := afero.NewOsFs()
	storage, err := infra.NewDiskStorage(fs, cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("init storage at %s: %w", cfg.Storage.Path, err)
	}

	ingest := usecase.NewIngestUseCase(
		storage,
		cfg.Storage.AllowedExtensions,
		cfg.Thumbnails.MaxWidth,
		cfg.Thumbnails.MaxHeight,
		logger,
	)
	catalog := usecase.NewCatalogUseCase(storage)

	credStore := auth.NewStore(fs, cfg.Auth.CredentialsFile)
	sessions := auth.NewSessions(cfg.Auth.SessionTTL)

	// Limits and page size follow the watcher's snapshot; storage path
	// and extension set stay fixed until restart.
	watcher, err := config.NewWatcher(configPath, cfg, func(next *config.Config) {
		logger.Info("configuration reloaded")
	})
	if err != nil {
		logger.Warn("config watcher unavailable, limits fixed until restart", "error", err)
	} else {
		defer watcher.Close()
	}
	current := func() *config.Config {
		if watcher != nil {
			return watcher.Current()
		}
		return cfg
	}

	router := handler.NewRouter(ingest, catalog, credStore, sessions, current, logger)

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	logger.Info("starting server", "addr", addr, "storage", cfg.Storage.Path)
	return router.Run(addr)
}
