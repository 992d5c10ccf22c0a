package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"site-builder/internal/analytics"
	"site-builder/internal/builder"
	"site-builder/internal/config"
	httpapi "site-builder/internal/http"
	"site-builder/internal/http/handlers"
	"site-builder/internal/llm"
	"site-builder/internal/logging"
	"site-builder/internal/publish"
	"site-builder/internal/scheduler"
	"site-builder/internal/storage"
	"site-builder/internal/telegram"
)

const shutdownTimeout = 15 * time.Second

func main() {
	envErr := godotenv.Load(".env")

	cfg := config.New()
	logging.Setup(cfg.LogLevel, cfg.LogPretty)
	if envErr != nil {
		log.Warn().Err(envErr).Msg(".env file not found, using the process environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewFileStore(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init user store")
	}
	var rec storage.Recorder
	if cfg.ActivityLogPath != "" {
		fr, err := storage.NewFileRecorder(cfg.ActivityLogPath)
		if err != nil {
			log.Error().Err(err).Msg("failed to init activity log, continuing without it")
		} else {
			rec = fr
		}
	}

	factory := llm.NewFactory(cfg)
	chat, err := factory.Chat()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create chat client")
	}
	vision, err := factory.Vision()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create vision client")
	}

	var publisher builder.Publisher
	if cfg.PublishEnabled() {
		p, err := publish.NewGitHub(ctx, cfg.GitHubToken, publish.Config{
			Org:        cfg.GitHubOrg,
			RepoPrefix: cfg.GitHubRepoPrefix,
			Branch:     cfg.GitHubBranch,
			WorkDir:    cfg.PublishDir,
		}, publish.Author{Name: cfg.GitAuthorName, Email: cfg.GitAuthorEmail})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to init publisher")
		}
		publisher = p
	} else {
		log.Warn().Msg("GITHUB_TOKEN not set, publishing disabled")
	}

	svc := builder.New(store, chat, vision, publisher, rec, builder.Options{
		ModelTimeout:    cfg.ModelTimeout,
		PublishTimeout:  cfg.PublishTimeout,
		MaxUploadImages: cfg.MaxUploadImages,
		OrphanMaxAge:    cfg.OrphanMaxAge,
		LegacySiteDir:   cfg.LegacySiteDir,
	})

	sched := scheduler.New()
	if err := sched.AddJob(cfg.OrphanSweepSpec, "orphan-sweep", func(ctx context.Context) error {
		n, err := svc.SweepOrphans(ctx)
		if n > 0 {
			log.Info().Int("removed", n).Msg("orphan images removed")
		}
		return err
	}); err != nil {
		log.Fatal().Err(err).Str("spec", cfg.OrphanSweepSpec).Msg("invalid ORPHAN_SWEEP_SPEC")
	}
	if rec != nil {
		if err := sched.AddJob(cfg.DailyReportSpec, "daily-report", dailyReport(rec)); err != nil {
			log.Fatal().Err(err).Str("spec", cfg.DailyReportSpec).Msg("invalid DAILY_REPORT_SPEC")
		}
	}
	sched.Start()

	gin.SetMode(cfg.GinMode)
	var activity handlers.ActivityLog
	if rec != nil {
		activity = rec
	}
	h := handlers.New(svc, activity, handlers.Options{
		MaxUploadImages: cfg.MaxUploadImages,
		MaxUploadBytes:  cfg.MaxUploadBytes,
	})
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpapi.NewEngine(h, httpapi.Config{AllowedOrigins: cfg.CORSAllowedOrigins}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server failed")
			stop()
		}
	}()

	if cfg.TelegramBotToken != "" {
		bot, err := telegram.New(cfg.TelegramBotToken, svc)
		if err != nil {
			log.Error().Err(err).Msg("failed to start telegram bot")
		} else {
			wg.Add(1)
			go func() {
				defer wg.Done()
				bot.Start(ctx)
			}()
		}
	} else {
		log.Info().Msg("TELEGRAM_BOT_TOKEN not set, telegram bot not started")
	}

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
	sched.Stop()
	wg.Wait()
	log.Info().Msg("bye")
}

func dailyReport(rec storage.Recorder) scheduler.Job {
	return func(context.Context) error {
		events, err := rec.LoadInteractions()
		if err != nil {
			return err
		}
		stats := analytics.AnalyzeDailyLogs(events, time.Now().UTC())
		log.Info().
			Str("date", stats.Date).
			Int("total_events", stats.TotalEvents).
			Int("unique_users", stats.UniqueUsers).
			Interface("events_by_kind", stats.EventsByKind).
			Msg("daily activity report")
		log.Debug().Msg(stats.GenerateReportSummary())
		return nil
	}
}
