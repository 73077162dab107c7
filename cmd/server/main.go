package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/AnshRaj112/myflix-backend/internal/config"
	"github.com/AnshRaj112/myflix-backend/internal/database"
	"github.com/AnshRaj112/myflix-backend/internal/handlers"
	"github.com/AnshRaj112/myflix-backend/internal/logging"
	"github.com/AnshRaj112/myflix-backend/internal/middleware"
	"github.com/AnshRaj112/myflix-backend/internal/routes"
	"github.com/AnshRaj112/myflix-backend/internal/services"
	"github.com/AnshRaj112/myflix-backend/internal/store"
	"github.com/AnshRaj112/myflix-backend/internal/store/memstore"
	"github.com/AnshRaj112/myflix-backend/internal/store/mongostore"
	"github.com/AnshRaj112/myflix-backend/internal/store/pgstore"
)

func main() {
	os.Exit(run())
}

func run() int {
	envErr := godotenv.Load()

	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.IsProduction())
	if envErr != nil {
		log.Info("No .env file found")
	}

	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		log.WithError(err).WithField("driver", cfg.StoreDriver).Fatal("Failed to open store")
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			log.WithError(err).Warn("Failed to close store")
		}
	}()

	throttle, closeThrottle := openThrottle(ctx, cfg, log)
	defer closeThrottle()

	tokens := services.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	auth := services.NewAuthenticator(st, tokens, log)
	h := handlers.New(
		auth,
		services.NewUserService(st, log),
		services.NewCatalogService(st, log),
		services.NewFavoritesManager(st, st, log),
		log,
	)

	r := newRouter(cfg, h, auth, throttle, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"port": cfg.Port, "store": cfg.StoreDriver}).Info("myFlix backend running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		log.WithError(err).Error("Failed to start server")
		return 1
	case <-ctx.Done():
	}
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
		return 1
	}
	return 0
}

func openStore(ctx context.Context, cfg *config.Config, log *logrus.Logger) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := database.ConnectPostgres(ctx, cfg.PostgresURI, log)
		if err != nil {
			return nil, err
		}
		s := pgstore.New(db)
		if err := s.InitTables(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info("PostgreSQL tables initialized")
		return s, nil

	case config.StoreMemory:
		log.Warn("Using in-memory store; data is lost on restart")
		return memstore.New(), nil

	default:
		client, err := database.ConnectMongo(ctx, cfg.MongoURI, log)
		if err != nil {
			log.Info("Check that your IP is allowed on the cluster and the connection string is correct")
			return nil, err
		}
		s := mongostore.New(client, client.Database(database.MongoDatabaseName(cfg.MongoURI, cfg.MongoDatabase)))
		if err := s.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		log.Info("MongoDB indexes ensured")
		return s, nil
	}
}

// newRouter wires the middleware stack and every route. RequestLogger wraps
// Recoverer so a recovered panic is still logged with its 500.
func newRouter(cfg *config.Config, h *handlers.Handler, auth middleware.IdentityResolver, throttle services.Throttle, log *logrus.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	if cfg.IsProduction() {
		r.Use(middleware.SecurityHeaders)
		log.Info("Production security headers enabled")
	}

	routes.SetupRoutes(r, h,
		middleware.RequireAuth(auth, log),
		middleware.LoginRateLimit(throttle, log),
	)
	return r
}

// openThrottle prefers a shared Redis counter and falls back to an
// in-process limiter when Redis is not configured or unreachable.
func openThrottle(ctx context.Context, cfg *config.Config, log *logrus.Logger) (services.Throttle, func()) {
	if cfg.RedisURI != "" {
		client, err := database.ConnectRedis(ctx, cfg.RedisURI, log)
		if err == nil {
			return services.NewRedisThrottle(client, cfg.LoginRateLimit, cfg.LoginRateWindow), func() { _ = client.Close() }
		}
		log.WithError(err).Warn("Redis unavailable, login throttling is per process")
	}

	th := services.NewMemoryThrottle(cfg.LoginRateLimit, cfg.LoginRateWindow)
	go th.Run(ctx)
	return th, func() {}
}
