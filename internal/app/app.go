package app

import (
	"cloudnest/internal/cache/redis"
	"cloudnest/internal/config"
	"cloudnest/internal/dbs/postgres"
	cachedocsrepo "cloudnest/internal/repositories/cache/docs"
	cachesessionrepo "cloudnest/internal/repositories/cache/session"
	documentrepo "cloudnest/internal/repositories/db/document"
	grantrepo "cloudnest/internal/repositories/db/grant"
	userrepo "cloudnest/internal/repositories/db/user"
	versionrepo "cloudnest/internal/repositories/db/version"
	accessservice "cloudnest/internal/services/access"
	authservice "cloudnest/internal/services/auth"
	documentservice "cloudnest/internal/services/document"
	userservice "cloudnest/internal/services/user"
	"cloudnest/internal/storage"
	"context"
	"fmt"
	"log/slog"
)

type App struct {
	AuthService     *authservice.AuthService
	UserService     *userservice.UserService
	DocumentService *documentservice.DocumentService
}

func NewApp(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	db, err := postgres.New(ctx, postgres.Config{
		Addr:     cfg.DB.Addr,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DB:       cfg.DB.DB})
	if err != nil {
		log.Error("failed connect to db", "err", err)
		return nil, fmt.Errorf("failed connect to db: %w", err)
	}

	cache, err := redis.New(ctx, redis.Config{Addr: cfg.Cache.Addr, Password: cfg.Cache.Password, DB: cfg.Cache.DB})
	if err != nil {
		log.Error("failed connect to cache", "err", err)
		return nil, fmt.Errorf("failed connect to cache: %w", err)
	}

	blobStore, err := storage.NewMinIO(cfg.Blob)
	if err != nil {
		log.Error("failed connect to blob storage", "err", err)
		return nil, fmt.Errorf("failed connect to blob storage: %w", err)
	}

	userRepo := userrepo.NewRepository(db)

	sessionCacheRepo := cachesessionrepo.New(cache, cfg.Cache.SessionTTL)

	documentCacheRepo := cachedocsrepo.New(cache, cfg.Cache.DocumentTTL)

	userService := userservice.New(log, userRepo, userRepo)

	authService := authservice.New(log, userService, userService, sessionCacheRepo)

	docRepo := documentrepo.NewRepository(db)

	versionRepo := versionrepo.NewRepository(db)

	grantRepo := grantrepo.NewRepository(db)

	accessService := accessservice.New(log, grantRepo, docRepo, cfg.Share.GrantTTL)

	documentService := documentservice.New(log, docRepo, versionRepo, accessService, documentCacheRepo, blobStore, cfg.Share.PresignTTL)

	if err := authService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Error("failed to ensure admin account", "err", err)
		return nil, fmt.Errorf("failed to ensure admin account: %w", err)
	}

	return &App{
		AuthService:     authService,
		UserService:     userService,
		DocumentService: documentService,
	}, nil
}
