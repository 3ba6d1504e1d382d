package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quiz-admin-service/internal/app"
	"quiz-admin-service/internal/auth"
	"quiz-admin-service/internal/config"
	"quiz-admin-service/internal/infra/memory"
	"quiz-admin-service/internal/infra/postgres"
	"quiz-admin-service/internal/infra/rabbit"
	rediscache "quiz-admin-service/internal/infra/redis"
	transport "quiz-admin-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz admin server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

// backends holds the wired repositories and the names reported on /status.
type backends struct {
	quizzes   app.QuizRepository
	attempts  app.AttemptRepository
	users     app.UserRepository
	publisher app.EventPublisher
	status    transport.Status
	closers   []func()
}

func (b *backends) close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	b, err := buildBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.close()

	tokens := auth.NewTokenManager(cfg.Auth.Secret, cfg.Auth.Issuer, config.TTLDuration(cfg.Auth.TokenTTL, auth.DefaultTokenTTL))
	authService := app.NewAuthService(b.users, tokens)
	if cfg.Admin.Email != "" {
		if _, err := authService.SeedAdmin(ctx, app.NewUser{
			ID:       cfg.Admin.UID,
			Email:    cfg.Admin.Email,
			Name:     cfg.Admin.Name,
			Password: cfg.Admin.Password,
		}); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	}

	quizService := app.NewQuizService(b.quizzes)
	attemptService := app.NewAttemptService(b.quizzes, b.attempts, b.publisher, app.AttemptPolicy{
		MaxEvents:    cfg.MaxEvents(app.DefaultMaxEvents),
		SingleSubmit: cfg.Attempts.SingleSubmit,
	})

	handler := transport.NewHandler(quizService, attemptService, authService, b.status)
	router := transport.NewRouter(handler, transport.NewMonitorHandler(attemptService), authService, transport.RouterConfig{
		CORSOrigins:    cfg.Server.CORSOrigins,
		RequestTimeout: config.TTLDuration(cfg.Server.RequestTimeout, 30*time.Second),
	})

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz admin service on :%s (db=%s cache=%s events=%s)",
			finalPort, b.status.Database, b.status.Cache, b.status.Events)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildBackends picks Postgres or memory stores, Redis or memory quiz caching,
// and RabbitMQ or no-op event publishing from the config.
func buildBackends(ctx context.Context, cfg config.Config) (*backends, error) {
	b := &backends{publisher: app.NopPublisher{}}
	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)

	var quizStore app.QuizRepository
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		b.closers = append(b.closers, pool.Close)
		quizStore = postgres.NewQuizStore(pool)
		b.attempts = postgres.NewAttemptStore(pool)
		b.users = postgres.NewUserStore(pool)
		b.status.Database = "postgres"
	} else {
		quizStore = memory.NewQuizStore()
		b.attempts = memory.NewAttemptStore()
		b.users = memory.NewUserStore()
		b.status.Database = "memory"
	}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		b.closers = append(b.closers, func() { _ = client.Close() })
		b.quizzes = rediscache.NewQuizCache(client, quizStore, quizTTL)
		b.status.Cache = "redis"
	} else {
		b.quizzes = memory.NewQuizCache(quizStore, quizTTL)
		b.status.Cache = "memory"
	}

	b.status.Events = "none"
	if cfg.RabbitMQ.URL != "" {
		pub, err := rabbit.Dial(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			b.close()
			return nil, err
		}
		b.closers = append(b.closers, func() { _ = pub.Close() })
		b.publisher = pub
		b.status.Events = "rabbitmq"
	}
	return b, nil
}
