package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pathakanu/remindmail/internal/config"
	"github.com/pathakanu/remindmail/internal/database"
	"github.com/pathakanu/remindmail/internal/lease"
	"github.com/pathakanu/remindmail/internal/mailer"
	"github.com/pathakanu/remindmail/internal/model"
	"github.com/pathakanu/remindmail/internal/notify"
	"github.com/pathakanu/remindmail/internal/processor"
	"github.com/pathakanu/remindmail/internal/schedule"
	"github.com/pathakanu/remindmail/internal/scheduler"
	"github.com/pathakanu/remindmail/internal/server"
	"github.com/pathakanu/remindmail/internal/twilio"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	logger := newLogger(cfg)

	db, err := database.New(cfg.DatabaseURL, cfg.SQLitePath, logger)
	if err != nil {
		logger.Fatalf("database init failed: %v", err)
	}

	transport, err := newTransport(cfg)
	if err != nil {
		logger.Fatalf("transport init failed: %v", err)
	}
	logger.WithField("channel", transport.Channel()).Info("delivery transport ready")

	clock := schedule.SystemClock{Location: cfg.LocalTimezone}

	var opts []processor.Option
	if cfg.Redis.Addr != "" {
		locker, err := lease.NewRedis(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatalf("redis init failed: %v", err)
		}
		defer locker.Close()
		opts = append(opts, processor.WithLocker(locker, cfg.Redis.LeaseTTL))
		logger.WithField("addr", cfg.Redis.Addr).Info("reminder leases enabled")
	}

	proc := processor.New(
		database.NewStore(db),
		notify.NewDispatcher(transport, logger),
		clock,
		logger,
		opts...,
	)

	var sched *scheduler.Scheduler
	if cfg.CronEnabled() {
		sched = scheduler.New(proc, cfg.LocalTimezone, logger)
		if err := sched.Start(cfg.CronSchedule); err != nil {
			logger.Fatalf("scheduler start: %v", err)
		}
	}

	gin.SetMode(gin.ReleaseMode)
	router := server.NewRouter(proc, server.Secrets{APIKey: cfg.APIKey, CronSecret: cfg.CronSecret}, clock, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server error: %v", err)
		}
	}()

	waitForShutdown(srv, sched, cfg.ShutdownTimeout, logger)
}

func newTransport(cfg *config.Config) (notify.Transport, error) {
	channel, err := model.ParseChannel(cfg.DeliveryChannel)
	if err != nil {
		return nil, err
	}
	if channel == model.ChannelWhatsApp {
		return twilio.New(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.WhatsAppNumber), nil
	}
	smtp, err := mailer.New(cfg.SMTP)
	if err != nil {
		return nil, err
	}
	return smtp, nil
}

func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if cfg.LogFormat == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warnf("invalid LOG_LEVEL %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

func waitForShutdown(srv *http.Server, sched *scheduler.Scheduler, timeout time.Duration, logger *logrus.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("server shutdown error: %v", err)
	}
	if sched != nil {
		sched.Stop()
	}
}
