package cli

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quiz-roulette/internal/app"
	"quiz-roulette/internal/config"
	"quiz-roulette/internal/domain"
	"quiz-roulette/internal/infra/memory"
	pgbank "quiz-roulette/internal/infra/postgres"
	redisstore "quiz-roulette/internal/infra/redis"
	transport "quiz-roulette/internal/transport/http"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewServeCmd builds the CLI subcommand to start the game server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz game server",
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

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	// Seed questions come from the Postgres bank when configured,
	// otherwise from the built-in trivia set.
	bankTTL := config.TTLDuration(cfg.Bank.TTL, 10*time.Minute)
	var seedDoc func() domain.RoundState
	if pool != nil {
		bank := memory.NewBankRepository(pgbank.NewBankLoader(pool), bankTTL)
		seedDoc = func() domain.RoundState {
			return bank.SeedState(ctx)
		}
	}

	var store app.DocumentStore
	if redisClient != nil {
		store = redisstore.NewDocStore(redisClient, seedDoc)
	} else {
		store = memory.NewDocStore(seedDoc)
	}

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	session, err := app.NewSession(ctx, store, rnd)
	if err != nil {
		return err
	}

	bus := app.NewSettingsBus()
	admin := app.NewAdmin(store, bus)

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()
	go app.RunCountdown(runCtx, session)
	go app.RunSettingsWatcher(runCtx, session, bus)

	gameHandler := transport.NewGameHandler(session)
	adminHandler := transport.NewAdminHandler(admin)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", gameHandler.ServeWS)
	adminHandler.Register(mux)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz roulette on :%s", finalPort)
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
