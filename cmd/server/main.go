package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/aadil-nv/RealTime-collaborative-note-app/internal/api"
	"github.com/aadil-nv/RealTime-collaborative-note-app/internal/config"
	"github.com/aadil-nv/RealTime-collaborative-note-app/internal/metrics"
	"github.com/aadil-nv/RealTime-collaborative-note-app/internal/repositories"
	mongorepo "github.com/aadil-nv/RealTime-collaborative-note-app/internal/repositories/mongo"
	"github.com/aadil-nv/RealTime-collaborative-note-app/internal/routers"
	"github.com/aadil-nv/RealTime-collaborative-note-app/internal/session"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.Load()

	rooms, users, cleanup := buildStores(cfg, logger)
	defer cleanup()

	hub := session.NewHub(rooms, users, logger)

	var relay *session.Relay
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		relay = session.NewRelay(rdb, logger)
		hub.SetRelay(relay)
		relay.Start(hub)
		defer relay.Stop()
		logger.Info("presence relay enabled", zap.String("addr", cfg.RedisAddr), zap.String("instance", relay.InstanceID()))
	}

	handlers := api.NewHandlers(logger, hub, rooms, users)

	router := chi.NewRouter()
	router.Use(
		chimiddleware.RequestID,
		chimiddleware.RealIP,
		chimiddleware.Logger,
		chimiddleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		}),
		metrics.Middleware(cfg.ServiceName),
	)
	router.Mount("/", routers.New(handlers))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("note room service starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("note room service shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("note room service exited")
}

// buildStores connects to Mongo when MONGO_URI is set and falls back to the
// in-memory stores otherwise, so the service can run without a database in
// local development.
func buildStores(cfg *config.Config, logger *zap.Logger) (repositories.RoomStore, repositories.UserStore, func()) {
	if cfg.MongoURI == "" {
		logger.Warn("MONGO_URI not set, using in-memory stores")
		return repositories.NewMemoryRoomStore(), repositories.NewMemoryUserStore(), func() {}
	}

	ctx := context.Background()
	client, err := mongorepo.NewClient(ctx, cfg.MongoURI)
	if err != nil {
		logger.Fatal("mongo connection failed", zap.Error(err))
	}
	rooms, err := mongorepo.NewRoomRepo(client, cfg.DBName, cfg.RoomsCollection)
	if err != nil {
		logger.Fatal("room repository init failed", zap.Error(err))
	}
	users, err := mongorepo.NewUserRepo(client, cfg.DBName, cfg.UsersCollection)
	if err != nil {
		logger.Fatal("user repository init failed", zap.Error(err))
	}
	logger.Info("database connected", zap.String("db", cfg.DBName))

	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(shutdownCtx)
	}
	return rooms, users, cleanup
}
