package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/devconnect/backend/internal/config"
	"github.com/devconnect/backend/internal/handlers"
	appMiddleware "github.com/devconnect/backend/internal/middleware"
	"github.com/devconnect/backend/internal/services"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Persistent stores
	userService, err := services.NewMongoUserService(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		logger.Fatal("failed to connect user store", zap.Error(err))
	}
	connectionStore, err := services.NewMongoConnectionStore(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		logger.Fatal("failed to connect connection store", zap.Error(err))
	}
	logger.Info("MongoDB connected", zap.String("db", cfg.DBName))

	// Redis backs the login rate limiter; optional.
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, login rate limiting disabled", zap.Error(err))
			redisClient = nil
		}
	}

	// Core services
	tokenIssuer := services.NewJWTTokenIssuer(cfg.AccessTokenSecret, cfg.AccessTokenExpiry, cfg.RefreshTokenSecret, cfg.RefreshTokenExpiry)
	authService := services.NewAuthService(userService, services.NewBcryptHasher(), tokenIssuer)
	oauthService := services.NewOAuthService(userService, authService,
		cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GitHubClientID, cfg.GitHubClientSecret)
	profileService := services.NewProfileService(userService)
	imageService := services.NewImageService(cfg.UploadDir)
	connectionService := services.NewConnectionService(userService, connectionStore)
	feedService := services.NewFeedService(userService, connectionStore)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, cfg.RefreshTokenExpiry, logger)
	oauthHandler := handlers.NewOAuthHandler(oauthService, cfg.RefreshTokenExpiry, logger)
	profileHandler := handlers.NewProfileHandler(profileService, imageService, cfg.MaxUploadSizeMB, logger)
	connectionHandler := handlers.NewConnectionHandler(connectionService, logger)
	feedHandler := handlers.NewFeedHandler(feedService, logger)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Register)
			r.With(appMiddleware.LoginRateLimit(redisClient, cfg.LoginRateLimit, cfg.LoginRateWindow)).
				Post("/signin", authHandler.Login)
			r.Post("/google", oauthHandler.Google)
			r.Post("/github", oauthHandler.GitHub)
			r.Get("/refresh-token", authHandler.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.JWTAuth(cfg.AccessTokenSecret))
				r.Post("/logout", authHandler.Logout)
				r.Get("/me", authHandler.Me)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.JWTAuth(cfg.AccessTokenSecret))

			r.Post("/profile/complete", profileHandler.Complete)

			r.Route("/requests", func(r chi.Router) {
				r.Post("/send", connectionHandler.Send)
				r.Patch("/review/{requestId}", connectionHandler.Review)
				r.Get("/received", connectionHandler.Received)
				r.Get("/", connectionHandler.Connections)
			})

			r.Get("/users/feed", feedHandler.GetFeed)
		})
	})

	// Serve uploaded profile photos
	workDir, _ := os.Getwd()
	filesDir := http.Dir(workDir + "/" + cfg.UploadDir)
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(filesDir)))

	logger.Info("DevConnect API server starting", zap.String("addr", cfg.ServerAddress))
	if err := http.ListenAndServe(cfg.ServerAddress, r); err != nil {
		logger.Fatal("server failed to start", zap.Error(err))
	}
}
