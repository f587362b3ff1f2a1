package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"github.com/adrian-25/talk-glide/auth"
	"github.com/adrian-25/talk-glide/internal"
	"github.com/adrian-25/talk-glide/realtime"
	"github.com/adrian-25/talk-glide/repositories"
	"github.com/adrian-25/talk-glide/search"
	"github.com/adrian-25/talk-glide/services"
	"github.com/adrian-25/talk-glide/session"
	"github.com/adrian-25/talk-glide/shell"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, drives the interactive shell, and
// centralizes error reporting so deferred cleanup always executes.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Backend connection
	pool, err := repositories.Connect(ctx, config.DatabaseURL)
	if err != nil {
		return fmt.Errorf("backend connection failed: %w", err)
	}
	defer pool.Close()

	// 4. Local vault (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.VaultFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("vault opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing vault...")
		_ = db.Close()
	}()

	// 5. Notification channel
	hub := realtime.NewHub(log, config.SubscriberBuffer)
	listener := realtime.NewListener(log, hub, config.DatabaseURL, config.NotifyChannel)
	listenerDone := make(chan struct{})
	go func() {
		defer close(listenerDone)
		_ = listener.Run(ctx)
	}()

	// 6. Local search index
	index, err := search.Open(config.SearchFilepath, log)
	if err != nil {
		return fmt.Errorf("search index failed: %w", err)
	}
	defer func() {
		log.Info("Closing search index...")
		_ = index.Close()
	}()

	// 7. Services
	store := session.NewStore()
	vault := session.NewVault(db)
	tokens := auth.NewTokenManager(config.JWTSecret, config.AuthTokenDuration)

	authService := services.NewAuthService(
		repositories.NewCredentialRepository(pool), tokens, vault, store, log)
	directoryService := services.NewDirectoryService(repositories.NewProfileRepository(pool))
	conversationService := services.NewConversationService(repositories.NewConversationRepository(pool), log)
	feedService := services.NewFeedService(
		repositories.NewConversationRepository(pool),
		repositories.NewMessageRepository(pool),
		hub,
	)

	// 8. Optional debug inspector
	if config.DebugPort != nil {
		internal.StartDebugServer(db, *config.DebugPort, "/inspect", internal.ProcessStats)
		log.Info("Debug inspector available", "url",
			fmt.Sprintf("http://localhost:%d/inspect", *config.DebugPort))
	}

	// 9. Interactive shell
	controller := shell.NewController(log, store, conversationService, feedService, index, hub)
	repl := shell.NewRepl(log, controller, authService, directoryService, conversationService,
		store, os.Stdin, os.Stdout)

	errChan := make(chan error, 1)
	go func() {
		errChan <- repl.Run(ctx)
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		if err != nil {
			return err
		}
	}

	stop()
	<-listenerDone
	log.Info("Program stopped cleanly")
	return nil
}
