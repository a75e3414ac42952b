package main

import (
	"context"
	"log"
	"strings"

	"github.com/kaiwacoach/kaiwa-backend/internal/ai"
	"github.com/kaiwacoach/kaiwa-backend/internal/aisession"
	"github.com/kaiwacoach/kaiwa-backend/internal/analytics"
	"github.com/kaiwacoach/kaiwa-backend/internal/chat"
	"github.com/kaiwacoach/kaiwa-backend/internal/config"
	"github.com/kaiwacoach/kaiwa-backend/internal/db"
	"github.com/kaiwacoach/kaiwa-backend/internal/httpapi"
	"github.com/kaiwacoach/kaiwa-backend/internal/httpapi/handlers"
	"github.com/kaiwacoach/kaiwa-backend/internal/logger"
	"github.com/kaiwacoach/kaiwa-backend/internal/msglog"
	"github.com/kaiwacoach/kaiwa-backend/internal/notify"
	"github.com/kaiwacoach/kaiwa-backend/internal/profile"
	"github.com/kaiwacoach/kaiwa-backend/internal/realtime"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()

	gdb := db.Connect(cfg.DBDSN)
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb, err := realtime.Dial(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis dial: %v", err)
	}
	defer rdb.Close()
	channel := realtime.NewRedisChannel(zlog, rdb)

	notifier, err := notify.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
	if err != nil {
		log.Fatalf("rabbit dial: %v", err)
	}
	defer notifier.Close()

	// provider registry (route by name + model)
	reg := ai.NewRegistry(cfg.AIProvider)
	reg.Register("ollama", func(ctx context.Context, model string) (ai.Provider, error) {
		_ = ctx
		m := strings.TrimSpace(model)
		if m == "" {
			m = cfg.OllamaModel
		}
		return ai.NewOllamaProvider(cfg.OllamaBaseURL, m), nil
	})
	reg.Register("openrouter", func(ctx context.Context, model string) (ai.Provider, error) {
		_ = ctx
		m := strings.TrimSpace(model)
		if m == "" {
			m = cfg.OpenRouterModel
		}
		return ai.NewOpenRouterProvider(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, m, cfg.OpenRouterSiteURL, cfg.OpenRouterAppName), nil
	})

	profiles := profile.NewRepo(gdb)

	chatSvc := chat.NewService(zlog, chat.NewRepo(gdb), msglog.NewChatLog(gdb), channel, profiles)

	analyticsSvc := analytics.NewService(zlog, analytics.NewRepo(gdb), notifier, cfg.DefaultDailyTarget)

	sessionSvc := aisession.NewService(
		zlog,
		aisession.NewRepo(gdb),
		msglog.NewAILog(gdb),
		reg,
		cfg.AIProvider, "",
		profiles,
		analyticsSvc,
		channel,
		cfg.ChatContextWindowSize,
	)

	h := handlers.NewHandler(zlog, chatSvc, sessionSvc, analyticsSvc, channel)
	r := httpapi.NewRouter(zlog, cfg, h)

	zlog.Info("api listening", "addr", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("http server: %v", err)
	}
}
