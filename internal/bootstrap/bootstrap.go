package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/SealGummies/online-learning-platform/internal/app/controllers"
	appMigrations "github.com/SealGummies/online-learning-platform/internal/app/migrations"
	appRepos "github.com/SealGummies/online-learning-platform/internal/app/repositories"
	appRoutes "github.com/SealGummies/online-learning-platform/internal/app/routes"
	appServices "github.com/SealGummies/online-learning-platform/internal/app/services"
	"github.com/SealGummies/online-learning-platform/internal/config"
	"github.com/SealGummies/online-learning-platform/internal/db"
	appMiddleware "github.com/SealGummies/online-learning-platform/internal/middleware"
	pkgAuth "github.com/SealGummies/online-learning-platform/internal/pkg/auth"
	"github.com/SealGummies/online-learning-platform/internal/pkg/logger"
	"github.com/SealGummies/online-learning-platform/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService          appServices.AuthService
	CourseService        appServices.CourseService
	EnrollmentService    appServices.EnrollmentService
	ExamService          appServices.ExamService
	AuthController       *appControllers.AuthController
	CourseController     *appControllers.CourseController
	EnrollmentController *appControllers.EnrollmentController
	ExamController       *appControllers.ExamController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	Repos                *appRepos.Repositories
	JWTService           *pkgAuth.JWTService
	Logger               zerolog.Logger
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

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}
	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if cfg.Server.Mode == "development" {
		if err := seed.CreateDefaultData(dbPool, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	txManager := db.NewTxManager(dbPool)
	retryPolicy := db.NewRetryPolicy(txManager)

	deps.EnrollmentService = appServices.NewEnrollmentService(
		retryPolicy,
		deps.Repos.EnrollmentRepository,
		deps.Repos.CourseRepository,
	)
	deps.ExamService = appServices.NewExamService(
		retryPolicy,
		deps.Repos.ExamRepository,
		deps.Repos.EnrollmentRepository,
		deps.Repos.AttemptRepository,
	)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.GetAccessTokenExpiration(),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.JWTService)
	deps.CourseService = appServices.NewCourseService(deps.Repos.CourseRepository)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.CourseController = appControllers.NewCourseController(deps.CourseService)
	deps.EnrollmentController = appControllers.NewEnrollmentController(deps.EnrollmentService)
	deps.ExamController = appControllers.NewExamController(deps.ExamService)
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	return deps, nil
}

// SetupRouter builds the gin engine with all routes and middleware.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	appRoutes.SetupRouter(router, deps.AuthController, deps.CourseController, deps.EnrollmentController, deps.ExamController, deps.AuthMiddleware)

	lgr.Info().Msg("Router configured")
	return router
}
