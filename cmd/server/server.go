package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/spf13/cobra"

	"github.com/Alily223/red-knight/internal/clients/generation"
	"github.com/Alily223/red-knight/internal/engine"
	gamehandler "github.com/Alily223/red-knight/internal/handlers/game"
	"github.com/Alily223/red-knight/internal/orchestrators/session"
	"github.com/Alily223/red-knight/internal/pkg/clock"
	"github.com/Alily223/red-knight/internal/pkg/idgen"
	"github.com/Alily223/red-knight/internal/redis"
	"github.com/Alily223/red-knight/internal/repositories/gamestate"
	"github.com/Alily223/red-knight/internal/repositories/recipes"
	"github.com/Alily223/red-knight/internal/repositories/users"
	"github.com/Alily223/red-knight/internal/repositories/userstats"
)

var (
	httpPort   int
	redisAddr  string
	genBackend string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP server",
	Long:  `Start the Red Knight HTTP server with all configured services.`,
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().IntVar(&httpPort, "port", 8080, "HTTP server port")
	serverCmd.Flags().StringVar(&redisAddr, "redis-addr", envOr("REDKNIGHT_REDIS_ADDR", "localhost:6379"), "Redis address")
	serverCmd.Flags().StringVar(&genBackend, "generation-backend", envOr("REDKNIGHT_GENERATION_BACKEND", "off"),
		"Text-generation backend: gemini, inference, or off")
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// newTextClient builds the configured generation backend. "off" is a
// valid deployment; the game runs entirely on local fallbacks then.
func newTextClient(ctx context.Context) (generation.TextClient, error) {
	switch genBackend {
	case "gemini":
		return generation.NewGemini(ctx, &generation.GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
		})
	case "inference":
		return generation.NewInference(&generation.InferenceConfig{
			Endpoint: os.Getenv("HF_ENDPOINT"),
			Token:    os.Getenv("HF_TOKEN"),
		})
	case "off":
		return generation.Disabled(), nil
	default:
		return nil, fmt.Errorf("unknown generation backend %q", genBackend)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("received shutdown signal, gracefully stopping")
		cancel()
	}()

	redisClient, err := redis.NewClient(redisAddr, nil)
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}

	textClient, err := newTextClient(ctx)
	if err != nil {
		return err
	}

	roller := dice.DefaultRoller
	appClock := clock.New()

	generator, err := generation.New(&generation.Config{
		Text:   textClient,
		Roller: roller,
	})
	if err != nil {
		return fmt.Errorf("failed to create generation client: %w", err)
	}

	gameStateRepo, err := gamestate.NewRedis(&gamestate.RedisConfig{Client: redisClient, Clock: appClock})
	if err != nil {
		return fmt.Errorf("failed to create game-state repository: %w", err)
	}
	recipeRepo, err := recipes.NewRedis(&recipes.RedisConfig{Client: redisClient})
	if err != nil {
		return fmt.Errorf("failed to create recipe repository: %w", err)
	}
	userRepo, err := users.NewRedis(&users.RedisConfig{Client: redisClient, Clock: appClock})
	if err != nil {
		return fmt.Errorf("failed to create user repository: %w", err)
	}
	userStatsRepo, err := userstats.NewRedis(&userstats.RedisConfig{Client: redisClient})
	if err != nil {
		return fmt.Errorf("failed to create user-stats repository: %w", err)
	}

	rulesEngine, err := engine.New(&engine.Config{})
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	sessionService, err := session.NewOrchestrator(&session.Config{
		GameStateRepo: gameStateRepo,
		RecipeRepo:    recipeRepo,
		Generator:     generator,
		Engine:        rulesEngine,
		Roller:        roller,
		EventBus:      events.NewBus(),
		Clock:         appClock,
	})
	if err != nil {
		return fmt.Errorf("failed to create session orchestrator: %w", err)
	}

	handler, err := gamehandler.NewHandler(&gamehandler.Config{
		SessionService: sessionService,
		UserRepo:       userRepo,
		UserStatsRepo:  userStatsRepo,
		GameStateRepo:  gameStateRepo,
		RecipeRepo:     recipeRepo,
		Generator:      generator,
		Roller:         roller,
		IDGenerator:    idgen.NewUUID("save"),
	})
	if err != nil {
		return fmt.Errorf("failed to create game handler: %w", err)
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", httpPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("http server starting", "port", httpPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("failed to serve: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down http server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("graceful shutdown failed, forcing close", "error", err)
			_ = srv.Close()
		}
		return nil
	case err := <-errChan:
		return err
	}
}
