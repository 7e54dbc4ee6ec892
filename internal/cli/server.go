package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"study-quiz-service/internal/app"
	"study-quiz-service/internal/config"
	"study-quiz-service/internal/fixtures"
	"study-quiz-service/internal/infra/memory"
	pgloader "study-quiz-service/internal/infra/postgres"
	infraredis "study-quiz-service/internal/infra/redis"
	"study-quiz-service/internal/refresh"
	transport "study-quiz-service/internal/transport/http"
)

// catalogSource is what the stores lazily load quizzes from and the refresher copies in.
type catalogSource interface {
	refresh.Source
	memory.QuizLoader
}

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	slog.SetDefault(newLogger(cfg))

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := cfg.Port(portFlag)

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
	}

	var source catalogSource = fixtures.New()
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()
		source = pgloader.NewCatalogLoader(pool)
	}

	var (
		quizCatalog app.QuizCatalog
		results     app.ResultRepository
		sessions    app.SessionRepository
		prefs       app.PreferenceStore
	)
	if redisClient != nil {
		quizCatalog = infraredis.NewQuizCatalog(redisClient, source, cfg.CatalogTTL())
		results = infraredis.NewResultStore(redisClient)
		sessions = infraredis.NewSessionStore(redisClient, cfg.SessionMarkerTTL())
		prefs = infraredis.NewPreferenceStore(redisClient)
	} else {
		quizCatalog = memory.NewQuizCatalog(source)
		results = memory.NewResultStore()
		sessions = memory.NewSessionStore()
		prefs = memory.NewPreferenceStore()
	}

	quizzes := app.NewQuizService(sessions, quizCatalog, results, app.WithTickInterval(cfg.TickInterval()))
	catalog := app.NewCatalogService(quizCatalog, results)
	progress := app.NewProgressService(memory.NewProgressStore(), results)

	refresher := refresh.NewRefresher(source, catalog, progress, cfg.RefreshInterval())
	if err := refresher.Refresh(ctx); err != nil {
		return err
	}

	reminders := app.NewReminders(memory.NewReminderStore())
	defaults, err := fixtures.New().LoadReminders(ctx)
	if err != nil {
		return err
	}
	reminders.SetReminders(defaults)

	api := transport.NewServer(quizzes, catalog, progress, app.NewPreferences(prefs), reminders)
	server := &http.Server{
		Addr:              ":" + finalPort,
		Handler:           api.Router(),
		ReadHeaderTimeout: 15 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("starting quiz service", "port", finalPort, "redis", redisClient != nil, "postgres", cfg.Postgres.URL != "")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return refresher.Watch(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		quizzes.Shutdown()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}
	if cfg.JSONLogs() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
