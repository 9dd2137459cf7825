// Package bootstrap assembles the application's dependency graph.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/eren/driveshare/internal/app/controllers"
	appMigrations "github.com/eren/driveshare/internal/app/migrations"
	appRepos "github.com/eren/driveshare/internal/app/repositories"
	appRoutes "github.com/eren/driveshare/internal/app/routes"
	appServices "github.com/eren/driveshare/internal/app/services"
	"github.com/eren/driveshare/internal/config"
	"github.com/eren/driveshare/internal/db"
	appMiddleware "github.com/eren/driveshare/internal/middleware"
	pkgAuth "github.com/eren/driveshare/internal/pkg/auth"
	"github.com/eren/driveshare/internal/pkg/email"
	"github.com/eren/driveshare/internal/pkg/filestorage"
	"github.com/eren/driveshare/internal/pkg/helpers"
	"github.com/eren/driveshare/internal/pkg/logger"
	appWebsocket "github.com/eren/driveshare/internal/pkg/websocket"
	"github.com/eren/driveshare/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	FileStorage    *filestorage.LocalStorage
	EmailService   email.EmailService
	AuthService    *appServices.AuthService
	ChatService    *appServices.ChatService
	Hub            *appWebsocket.Hub
	WSHandler      *appWebsocket.Handler
	AuthMiddleware *appMiddleware.AuthMiddleware
	Controllers    appRoutes.Controllers
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes repositories, services, controllers and the
// websocket hub.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	storageBaseURL := cfg.Storage.BaseURL
	if storageBaseURL == "" {
		storageBaseURL = "http://localhost:" + cfg.Server.Port + "/uploads"
	}

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Storage.UploadDir, storageBaseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		AccessSecret:       cfg.JWT.AccessSecret,
		RefreshSecret:      cfg.JWT.RefreshSecret,
		VerificationSecret: cfg.JWT.VerificationSecret,
		AccessTokenExp:     helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 15*time.Minute),
		RefreshTokenExp:    helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 168*time.Hour),
		VerificationExp:    helpers.ParseDuration(cfg.JWT.VerificationExpiration, 2*time.Hour),
		TokenIssuer:        cfg.JWT.Issuer,
	})

	deps.EmailService = email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
		ClientURL: cfg.Server.ClientURL,
	}, lgr)

	resetTokenTTL := helpers.ParseDuration(cfg.PasswordReset.TokenExpiration, 10*time.Minute)

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
		deps.EmailService,
		resetTokenTTL,
		lgr,
	)
	userService := appServices.NewUserService(deps.Repos.UserRepository, deps.FileStorage, lgr)
	categoryService := appServices.NewCategoryService(deps.Repos.CategoryRepository, lgr)
	carService := appServices.NewCarService(
		deps.Repos.CarRepository,
		deps.Repos.CategoryRepository,
		deps.Repos.CarImageRepository,
		deps.FileStorage,
		lgr,
	)
	carImageService := appServices.NewCarImageService(
		deps.Repos.CarRepository,
		deps.Repos.CarImageRepository,
		deps.FileStorage,
		lgr,
	)
	reviewService := appServices.NewReviewService(deps.Repos.ReviewRepository, deps.Repos.CarRepository, lgr)
	addressService := appServices.NewAddressService(deps.Repos.AddressRepository, lgr)
	adminService := appServices.NewAdminService(deps.Repos.UserRepository, deps.Repos.TokenRepository, lgr)
	deps.ChatService = appServices.NewChatService(
		deps.Repos.ChatRepository,
		deps.Repos.MessageRepository,
		deps.Repos.CarRepository,
		lgr,
	)

	deps.Hub = appWebsocket.NewHub(lgr)
	dispatcher := appWebsocket.NewEventHandler(deps.Hub, deps.ChatService, deps.JWTService, lgr)
	deps.WSHandler = appWebsocket.NewHandler(deps.Hub, dispatcher, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Repos.UserRepository)

	cookieSecure := strings.ToLower(cfg.Server.Mode) == "release"
	deps.Controllers = appRoutes.Controllers{
		Auth:     appControllers.NewAuthController(deps.AuthService, cookieSecure, lgr),
		User:     appControllers.NewUserController(userService, lgr),
		Car:      appControllers.NewCarController(carService, lgr),
		CarImage: appControllers.NewCarImageController(carImageService, lgr),
		Category: appControllers.NewCategoryController(categoryService, lgr),
		Review:   appControllers.NewReviewController(reviewService, lgr),
		Address:  appControllers.NewAddressController(addressService, lgr),
		Chat:     appControllers.NewChatController(deps.ChatService, lgr),
		Admin:    appControllers.NewAdminController(adminService, lgr),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "release" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins()
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	router.Use(appMiddleware.RateLimiter(cfg.Server.RateLimit))

	appRoutes.SetupRouter(
		router,
		deps.Controllers,
		deps.AuthMiddleware,
		deps.WSHandler,
		appMiddleware.RateLimiter(cfg.Server.AuthLimit),
		cfg.Storage.UploadDir,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
