package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"game-arena/internal/app"
	"game-arena/internal/config"
	"game-arena/internal/infra/api"
	"game-arena/internal/infra/memory"
	pgsource "game-arena/internal/infra/postgres"
	redisstore "game-arena/internal/infra/redis"
	"game-arena/internal/logger"
	transport "game-arena/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the game arena server",
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
	log, err := logger.New(cfg.Log.Env)
	if err != nil {
		return err
	}
	defer log.Sync()

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
		defer redisClient.Close()
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 30*time.Minute)

	client := api.New(api.Config{
		BaseURL: cfg.API.BaseURL,
		Token:   cfg.API.Token,
		Timeout: config.TTLDuration(cfg.API.Timeout, 10*time.Second),
	})

	var source app.QuestionSource = client
	if cfg.Questions.Source == "postgres" {
		if err := runMigrations(ctx, cfg, log); err != nil {
			return err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		source = pgsource.NewQuestionSource(pool)
	}

	questionTTL := config.TTLDuration(cfg.Questions.TTL, 5*time.Minute)
	var sessions app.SessionRepository
	var profiles app.ProfileStore
	if redisClient != nil {
		source = redisstore.NewQuestionCache(redisClient, source, questionTTL)
		sessions = redisstore.NewSessionStore(redisClient, redisTTL)
		profiles = redisstore.NewProfileStore(redisClient)
	} else {
		source = memory.NewQuestionCache(source, questionTTL)
		sessions = memory.NewSessionStore()
		profiles = memory.NewProfileStore()
	}

	service := app.NewGameService(
		app.NewQuestionLoader(source, log),
		sessions,
		app.NewResultReporter(client, profiles, log),
		app.Options{
			Limits: app.Limits{
				QuizTimeLimit:  orDefault(cfg.Games.QuizTimeLimit, app.DefaultLimits.QuizTimeLimit),
				BonusTimeLimit: orDefault(cfg.Games.BonusTimeLimit, app.DefaultLimits.BonusTimeLimit),
				RPSRounds:      orDefault(cfg.Games.RPSRounds, app.DefaultLimits.RPSRounds),
				MatchingPairs:  orDefault(cfg.Games.MatchingPairs, app.DefaultLimits.MatchingPairs),
			},
			TickInterval: config.TTLDuration(cfg.Games.TickInterval, time.Second),
			Seed:         cfg.Games.Seed,
			Logger:       log,
		},
	)
	wsHandler := transport.NewWSHandler(service, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	transport.NewProfileHandler(profiles, log).Register(mux)

	server := &http.Server{
		Addr:              ":" + finalPort,
		Handler:           mux,
		ReadHeaderTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("starting game arena", zap.String("port", finalPort), zap.String("question_source", cfg.Questions.Source))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func orDefault(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
