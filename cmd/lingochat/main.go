package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/smith3v/lingochat/pkg/api"
	"github.com/smith3v/lingochat/pkg/auth"
	"github.com/smith3v/lingochat/pkg/bot/handlers"
	"github.com/smith3v/lingochat/pkg/cache"
	"github.com/smith3v/lingochat/pkg/chat"
	"github.com/smith3v/lingochat/pkg/config"
	"github.com/smith3v/lingochat/pkg/db"
	"github.com/smith3v/lingochat/pkg/logger"
	"github.com/smith3v/lingochat/pkg/translation"
	"github.com/smith3v/lingochat/pkg/tutor"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "config.json", "path to the JSON config file")
	flag.Parse()

	if err := config.LoadConfig(*configPath); err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.AppConfig
	if err := logger.Configure(logger.Options{
		Level: cfg.Logging.Level,
		File:  cfg.Logging.File,
	}); err != nil {
		logger.Error("failed to configure logger", "error", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	repo, err := db.InitDB(cfg.Database, cfg.Logging)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}

	chatClient, err := chat.NewClient(ctx, cfg.Chat)
	if err != nil {
		logger.Error("failed to create chat client", "provider", cfg.Chat.Provider, "error", err)
		os.Exit(1)
	}

	tutorOpts := tutor.Options{
		Timeout:            cfg.Chat.Timeout(),
		MaxUtteranceTokens: cfg.Chat.MaxUtteranceTokens,
	}
	if meter, err := tutor.NewMeter(""); err != nil {
		logger.Warn("token meter unavailable, utterance length is not capped", "error", err)
	} else {
		tutorOpts.Counter = meter
	}
	tutorSvc := tutor.NewService(repo, chatClient, tutorOpts)

	translationCache, err := cache.New(cfg.Cache)
	if err != nil {
		logger.Error("failed to open translation cache", "backend", cfg.Cache.Backend, "error", err)
		os.Exit(1)
	}
	defer translationCache.Close()
	if sweeper, ok := translationCache.(*cache.Bolt); ok {
		go sweeper.StartSweeper(ctx, cfg.Cache.SweepInterval())
	}
	translationSvc := translation.NewService(translation.NewDeepLClient(cfg.Translation), translationCache, repo)

	server := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: api.NewServer(api.Services{
			Auth:          auth.NewService(repo, cfg.Auth),
			Conversations: repo,
			Tutor:         tutorSvc,
			Translation:   translationSvc,
		}),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSeconds) * time.Second,
	}

	if cfg.Telegram.Enabled {
		h := handlers.New(repo, tutorSvc, translationSvc)
		b, err := bot.New(cfg.Telegram.Token, bot.WithDefaultHandler(h.HandleText))
		if err != nil {
			logger.Error("failed to create bot", "error", err)
			os.Exit(1)
		}
		h.Register(b)
		logger.Info("Starting bot...")
		go b.Start(ctx)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
		defer stop()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shut down http server", "error", err)
		}
	}()

	logger.Info("http server listening", "addr", cfg.HTTP.Addr, "chat_provider", cfg.Chat.Provider, "cache", cfg.Cache.Backend)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}
