package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/thejerf/suture/v4"

	"github.com/iliyamo/movie-review-backend/internal/catalog"
	"github.com/iliyamo/movie-review-backend/internal/config"
	"github.com/iliyamo/movie-review-backend/internal/database"
	"github.com/iliyamo/movie-review-backend/internal/docs"
	"github.com/iliyamo/movie-review-backend/internal/jsonx"
	"github.com/iliyamo/movie-review-backend/internal/logging"
	"github.com/iliyamo/movie-review-backend/internal/mailer"
	"github.com/iliyamo/movie-review-backend/internal/middleware"
	"github.com/iliyamo/movie-review-backend/internal/queue"
	"github.com/iliyamo/movie-review-backend/internal/repository"
	"github.com/iliyamo/movie-review-backend/internal/repository/mongostore"
	"github.com/iliyamo/movie-review-backend/internal/router"
	"github.com/iliyamo/movie-review-backend/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.Warn().Err(err).Msg("read .env failed")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("load config")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("open store")
	}
	defer closeStore()

	// NewRedisClient returns nil on failure; the middleware then passes through.
	rdb, err := config.NewRedisClient(config.LoadRedisConfig())
	if err != nil {
		logging.Warn().Err(err).Msg("redis unavailable; rate limiting and response cache disabled")
	} else {
		defer rdb.Close()
	}

	mail := mailer.New(cfg.SMTP)
	bg := &service.Background{}
	tree := suture.New("movie-review", suture.Spec{
		EventHook: func(ev suture.Event) {
			logging.Warn().Str("event", ev.String()).Msg("supervisor")
		},
	})

	var notifier service.Notifier
	if cfg.MailTransport == config.MailQueue {
		notifier = service.NewQueueNotifier(cfg.AMQPURL, bg)
		tree.Add(queue.NewMailConsumer(cfg.AMQPURL, mail))
	} else {
		notifier = service.NewDirectNotifier(mail, bg)
	}

	docs.SetPublicHost(cfg.PublicHost, cfg.Port)
	e := newEcho()
	router.Register(e, router.Deps{
		Config:    cfg,
		RateLimit: config.LoadRateLimitConfig(),
		Cache:     config.LoadCacheConfig(),
		Store:     store,
		Catalog:   catalog.New(cfg.TMDB),
		Mail:      notifier,
		Redis:     rdb,
	})
	tree.Add(newHTTPService(e, ":"+cfg.Port, 10*time.Second))

	logging.Info().Str("addr", ":"+cfg.Port).Str("env", cfg.Env).Str("driver", cfg.DBDriver).
		Str("mail", cfg.MailTransport).Msg("listening")

	if err := tree.Serve(ctx); err != nil && ctx.Err() == nil {
		logging.Error().Err(err).Msg("supervisor stopped")
	}

	bg.Wait()
	logging.Info().Msg("stopped")
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonx.Serializer{}

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestContext())
	e.Use(middleware.RequestLogger())
	e.Use(echomw.CORS())
	e.Use(echomw.BodyLimit("1M"))
	return e
}

// openStore connects the configured backend and prepares its schema.
func openStore(ctx context.Context, cfg config.Config) (repository.Store, func(), error) {
	switch cfg.DBDriver {
	case config.DriverMongo:
		client, err := database.OpenMongo(ctx, cfg.DBURL)
		if err != nil {
			return repository.Store{}, nil, err
		}
		closeFn := func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(shutdownCtx)
		}
		db := client.Database(cfg.DBName)
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			closeFn()
			return repository.Store{}, nil, err
		}
		return mongostore.New(db), closeFn, nil
	default:
		db, err := database.Open(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return repository.Store{}, nil, err
		}
		if err := database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return repository.Store{}, nil, err
		}
		return repository.NewMySQLStore(db), func() { _ = db.Close() }, nil
	}
}
