package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/rcliao/harbour/internal/backend"
	"github.com/rcliao/harbour/internal/config"
	"github.com/rcliao/harbour/internal/log"
	"github.com/rcliao/harbour/internal/rpc"
	"github.com/rcliao/harbour/internal/service"
	"github.com/rcliao/harbour/internal/storage"
)

// app is everything a command needs, built from config and global flags.
type app struct {
	cfg     *config.Config
	logger  log.Logger
	storage *storage.FileStorage
	svc     *service.TaskService
	server  *rpc.Server
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	if storageDir != "" {
		cfg.Storage.Dir = storageDir
	}
	if strategyName != "" {
		cfg.Strategy = strategyName
	}
	if backendURL != "" {
		cfg.Backend.URL = strings.TrimRight(backendURL, "/")
	}

	if err := cfg.Validate(); err != nil {
		return nil, MapError(fmt.Errorf("invalid configuration: %w", err))
	}
	return cfg, nil
}

// loadApp wires storage, the scoring client and the task service, then loads
// the stored task list.
func loadApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	fileStorage, err := storage.NewFileStorage(cfg.Storage.Dir, cfg.Storage.Key)
	if err != nil {
		return nil, err
	}

	client, err := backend.New(backend.Config{
		BaseURL:       cfg.Backend.URL,
		Timeout:       cfg.Backend.Timeout,
		RatePerMinute: cfg.Backend.RatePerMinute,
		Burst:         cfg.Backend.Burst,
	})
	if err != nil {
		return nil, err
	}

	svc := service.NewTaskService(fileStorage, client, logger)
	if _, err := svc.SetStrategy(cfg.Strategy); err != nil {
		return nil, MapError(err)
	}
	if err := svc.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load tasks from %s: %w", fileStorage.Path(), err)
	}

	logger.Debugf(ctx, "using %s, backend %s, strategy %s", fileStorage.Path(), cfg.Backend.URL, cfg.Strategy)

	return &app{
		cfg:     cfg,
		logger:  logger,
		storage: fileStorage,
		svc:     svc,
		server:  rpc.NewServer(svc, logger),
	}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}
