package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskforge-api/internal/auth"
	"github.com/yukikurage/taskforge-api/internal/authz"
	"github.com/yukikurage/taskforge-api/internal/config"
	"github.com/yukikurage/taskforge-api/internal/database"
	"github.com/yukikurage/taskforge-api/internal/handlers"
	"github.com/yukikurage/taskforge-api/internal/logging"
	"github.com/yukikurage/taskforge-api/internal/repository"
	"github.com/yukikurage/taskforge-api/internal/services"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.Log.Level, cfg.IsRelease())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Connect to database
	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(db, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db, cfg.Database.MaxRetries)
	taskRepo := repository.NewTaskRepository(db)

	hasher, err := auth.NewPasswordHasher(cfg.Security.PasswordHasher, cfg.Security.BcryptCost)
	if err != nil {
		log.Fatal("failed to build password hasher", zap.Error(err))
	}
	tokens, err := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.Algorithm, cfg.JWT.AccessTokenTTL, auth.SystemClock{})
	if err != nil {
		log.Fatal("failed to build token service", zap.Error(err))
	}
	resolver := auth.NewIdentityResolver(userRepo, tokens, hasher, log.Named("identity"))
	guard := authz.NewGuard(projectRepo)

	authService := services.NewAuthService(userRepo, resolver, hasher, log)
	userService := services.NewUserService(userRepo, hasher, log)
	projectService := services.NewProjectService(projectRepo, userRepo, log)
	taskService := services.NewTaskService(taskRepo, projectRepo, log)

	if cfg.Bootstrap.AdminEmail != "" {
		if err := authService.BootstrapAdmin(context.Background(), cfg.Bootstrap.AdminEmail); err != nil {
			log.Fatal("failed to bootstrap admin", zap.Error(err))
		}
	}

	// Session cookie only carries the access token for browser clients
	store := cookie.NewStore([]byte(cfg.Session.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.JWT.AccessTokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsRelease(),
		SameSite: http.SameSiteLaxMode,
	})

	r := handlers.NewRouter(handlers.RouterDeps{
		DB:             db,
		Log:            log,
		SessionStore:   store,
		CookieName:     cfg.Session.CookieName,
		Resolver:       resolver,
		Guard:          guard,
		AuthService:    authService,
		UserService:    userService,
		ProjectService: projectService,
		TaskService:    taskService,
	})

	// Start server
	log.Info("server starting", zap.String("address", cfg.Server.Address))
	if err := r.Run(cfg.Server.Address); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
