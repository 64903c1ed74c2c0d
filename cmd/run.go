package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/LevBernstein/BeardlessBot-sub000/blackjack"
	"github.com/LevBernstein/BeardlessBot-sub000/bot"
	"github.com/LevBernstein/BeardlessBot-sub000/config"
	"github.com/LevBernstein/BeardlessBot-sub000/database"
	"github.com/LevBernstein/BeardlessBot-sub000/events"
	"github.com/LevBernstein/BeardlessBot-sub000/infrastructure"
	"github.com/LevBernstein/BeardlessBot-sub000/repository"
	"github.com/LevBernstein/BeardlessBot-sub000/repository/memory"
	"github.com/LevBernstein/BeardlessBot-sub000/service"

	log "github.com/sirupsen/logrus"
)

const (
	sweepInterval   = time.Hour
	sessionMaxAge   = time.Hour
	shutdownTimeout = 10 * time.Second
)

// ConfigureLogging applies the configured level and formatter
func ConfigureLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	ConfigureLogging(cfg)

	log.WithFields(log.Fields{
		"environment": cfg.Environment,
		"backend":     cfg.LedgerBackend,
	}).Info("Starting BeardlessBot...")

	eventBus := events.NewBus()

	// Ledger storage
	var uowFactory service.UnitOfWorkFactory
	if cfg.UsesMemoryLedger() {
		log.Warn("Using the in-memory ledger, balances are lost on restart")
		uowFactory = memory.NewUnitOfWorkFactory(memory.NewStore(), eventBus)
	} else {
		databaseURL := cfg.GetDatabaseURL()
		if err := database.RunMigrationsWithURL(databaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		db, err := database.NewConnection(ctx, databaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		log.Info("Database connection established successfully")

		uowFactory = repository.NewUnitOfWorkFactory(db, eventBus)
	}

	// Event forwarding
	if cfg.NATSServers != "" {
		natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
		if err := natsClient.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer natsClient.Close()

		if err := natsClient.EnsureLedgerEventStream(); err != nil {
			log.WithError(err).Warn("Failed to ensure ledger event stream")
		}
		infrastructure.NewNATSEventForwarder(natsClient).Attach(eventBus)
		log.Info("Forwarding ledger events to NATS")
	}

	// Services
	ledger := service.NewLedgerService(uowFactory)
	registry := blackjack.NewRegistry()
	settlement := service.NewSettlement(ledger, registry, eventBus)
	blackjackService := service.NewBlackjackService(ledger, registry, settlement, blackjack.NewRandomSource())
	coinFlipService := service.NewCoinFlipService(ledger, settlement, service.NewRandomFlipper())
	diceService := service.NewDiceService(service.NewRandomRoller())

	handler := bot.NewHandler(cfg.CommandPrefix, cfg.LeaderboardSize, ledger, blackjackService, coinFlipService, diceService)

	discordBot, err := bot.New(bot.Config{
		Token:         cfg.DiscordToken,
		CommandPrefix: cfg.CommandPrefix,
	}, handler)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Info("Discord bot initialized successfully")

	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()
	go bot.RunSessionSweeper(workerCtx, registry, sweepInterval, sessionMaxAge)

	log.Infof("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	log.Info("Shutting down bot...")
	stopWorkers()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		if err := discordBot.Close(); err != nil {
			log.WithError(err).Error("Error closing Discord bot")
		}
	}()

	select {
	case <-closed:
		log.Info("Shutdown completed")
	case <-time.After(shutdownTimeout):
		log.Warn("Shutdown timeout exceeded")
	}

	return nil
}
