package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/retrocade/retrocade/internal/config"
	"github.com/retrocade/retrocade/internal/db"
	"github.com/retrocade/retrocade/internal/metrics"
	"github.com/retrocade/retrocade/internal/middleware"
	"github.com/retrocade/retrocade/internal/repository"
	"github.com/retrocade/retrocade/internal/service"
	"github.com/retrocade/retrocade/internal/storage"
)

type App struct {
	Cfg             *config.Config
	DB              *sqlx.DB
	Metrics         *metrics.Metrics
	LoginLimiter    *middleware.RateLimiter
	AuthService     *service.AuthService
	GameService     *service.GameService
	FileService     *service.FileService
	SaveService     *service.SaveService
	CapybaraService *service.CapybaraService
	RomProxy        *service.RomProxy

	tokenRepository repository.TokenRepository
	cancel          context.CancelFunc
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	a, err := NewWithDB(cfg, database)
	if err != nil {
		_ = database.Close()
		return nil, err
	}
	return a, nil
}

// NewWithDB wires everything on top of an open, migrated database
func NewWithDB(cfg *config.Config, database *sqlx.DB) (*App, error) {
	// Repositories
	gameRepository := repository.NewGameRepository(database)
	fileRepository := repository.NewFileRepository(database)
	saveRepository := repository.NewSaveRepository(database)
	capybaraRepository := repository.NewCapybaraRepository(database)

	var tokenRepository repository.TokenRepository
	if cfg.RedisURL != "" {
		redisRepository, err := repository.NewRedisTokenRepository(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect token store: %v", err)
		}
		tokenRepository = redisRepository
		slog.Info("token store", "driver", "redis")
	} else {
		tokenRepository = repository.NewMemoryTokenRepository(cfg.AuthTokenCapacity, cfg.AuthTokenTTL)
		slog.Info("token store", "driver", "memory", "capacity", cfg.AuthTokenCapacity)
	}

	// Storage
	fileStorage, err := storage.New(cfg, database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Services
	romProxy := service.NewRomProxy(service.RomProxyConfig{
		AllowedHosts: cfg.RomProxyAllowedHosts,
		UserAgent:    cfg.RomProxyUserAgent,
		MaxRedirects: cfg.RomProxyMaxRedirects,
		Timeout:      cfg.RomProxyTimeout,
	})
	authService, err := service.NewAuthService(tokenRepository, service.AuthConfig{
		Username:     cfg.AdminUsername,
		Password:     cfg.AdminPassword,
		PasswordHash: cfg.AdminPasswordHash,
		Secret:       cfg.AuthTokenSecret,
		TokenExpiry:  cfg.AuthTokenTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize auth: %v", err)
	}
	fileService := service.NewFileService(fileRepository, fileStorage, cfg.StrictUploads)
	gameService := service.NewGameService(gameRepository, fileRepository, romProxy, cfg.EmulatorDataPath)
	saveService := service.NewSaveService(saveRepository)
	capybaraService := service.NewCapybaraService(capybaraRepository)

	ctx, cancel := context.WithCancel(context.Background())

	return &App{
		Cfg:             cfg,
		DB:              database,
		Metrics:         metrics.New(),
		LoginLimiter:    middleware.NewRateLimiter(ctx, cfg.LoginRateLimit, cfg.LoginRateWindow),
		AuthService:     authService,
		GameService:     gameService,
		FileService:     fileService,
		SaveService:     saveService,
		CapybaraService: capybaraService,
		RomProxy:        romProxy,
		tokenRepository: tokenRepository,
		cancel:          cancel,
	}, nil
}

func (a *App) Close() error {
	if a.cancel != nil {
		a.cancel()
	}

	var errs []error
	if c, ok := a.tokenRepository.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}
