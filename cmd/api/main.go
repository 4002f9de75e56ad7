package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GoSim-25-26J-441/go-failure-analyzer/config"
	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/bootstrap"
	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/failure_analysis/chat"
	cronjob "github.com/GoSim-25-26J-441/go-failure-analyzer/internal/failure_analysis/cron"
	fahttp "github.com/GoSim-25-26J-441/go-failure-analyzer/internal/failure_analysis/http"
	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/failure_analysis/service"
	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/logging"
)

const serviceName = "go-failure-analyzer"

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Init(cfg.App.LogLevel, cfg.App.LogFormat, nil)
	bootstrap.SetGinMode(cfg.App.Environment)
	log := logging.New("api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := service.OptionsFromConfig(cfg)

	var rdb *redis.Client
	var sessions chat.SessionStore = chat.NewMemorySessionStore()
	if cfg.Redis.Addr != "" {
		rdb, err = bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn("redis unavailable, chat sessions kept in memory", "error", err)
		} else {
			defer rdb.Close()
			sessions = chat.NewRedisSessionStore(rdb)
			log.Info("chat sessions stored in redis", "addr", cfg.Redis.Addr)
		}
	}

	var completer chat.Completer
	if cfg.LLM.APIKey != "" {
		completer = chat.NewClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.RequestsPerMinute)
		log.Info("llm client configured", "base_url", cfg.LLM.BaseURL, "model", cfg.LLM.Model)
	} else {
		log.Warn("LLM_API_KEY not set, chat endpoint disabled")
	}
	chatSvc := chat.NewService(completer, sessions, chat.NewToolbox(opts.Store()))

	if cfg.Schedule.Cron != "" {
		sched := cronjob.NewScheduler(cfg.Schedule.Cron, opts)
		if err := sched.Start(ctx); err != nil {
			log.Error("scheduler disabled", "error", err)
		} else {
			defer sched.Stop()
		}
	}

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		Redis:       rdb,
		Reports:     opts.Store(),
		Analysis:    fahttp.New(opts, chatSvc),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("listening", "addr", srv.Addr, "results_dir", opts.ResultsDir, "history_dir", opts.HistoryDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "error", err)
	}
}
