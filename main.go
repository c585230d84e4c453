package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for migrations
	"go.uber.org/zap"

	"github.com/zipatlas/zipatlas-api/pkg/auth"
	"github.com/zipatlas/zipatlas-api/pkg/config"
	"github.com/zipatlas/zipatlas-api/pkg/database"
	"github.com/zipatlas/zipatlas-api/pkg/handlers"
	"github.com/zipatlas/zipatlas-api/pkg/middleware"
	"github.com/zipatlas/zipatlas-api/pkg/repositories"
	"github.com/zipatlas/zipatlas-api/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Migrations run over database/sql (required by golang-migrate).
	sqlDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to open migration connection: %v", err)
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	_ = sqlDB.Close()

	// Repositories
	countyRepo := repositories.NewCountyRepository(db)
	placeRepo := repositories.NewPlaceNameRepository(db)
	zipRepo := repositories.NewZipCodeRepository(db)
	userRepo := repositories.NewUserRepository(db)
	tokenRepo := repositories.NewTokenRepository(db)

	// Services
	countyService := services.NewCountyService(countyRepo, placeRepo, logger)
	zipService := services.NewZipCodeService(db, zipRepo, placeRepo, countyRepo, logger)
	authService := services.NewAuthService(userRepo, tokenRepo, logger)

	authMiddleware := auth.NewMiddleware(authService, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg).RegisterRoutes(mux)
	handlers.NewAuthHandler(authService, logger).RegisterRoutes(mux)
	handlers.NewCountyHandler(countyService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewZipCodeHandler(zipService, logger).RegisterRoutes(mux, authMiddleware)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting zipatlas-api",
		zap.String("addr", addr),
		zap.String("env", cfg.Env),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// newLogger builds a production logger, at debug level outside production.
func newLogger(env string) (*zap.Logger, error) {
	logConfig := zap.NewProductionConfig()
	if env == "local" || env == "dev" {
		logConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return logConfig.Build()
}
