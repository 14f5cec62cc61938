package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/upmonhq/upmon/internal/config"
	"github.com/upmonhq/upmon/internal/httpapi"
	"github.com/upmonhq/upmon/internal/logging"
	"github.com/upmonhq/upmon/internal/logsink"
	"github.com/upmonhq/upmon/internal/monitor"
	"github.com/upmonhq/upmon/internal/notify"
	"github.com/upmonhq/upmon/internal/probe"
	"github.com/upmonhq/upmon/internal/schedule"
)

func main() {
	var (
		configPath = flag.String("config", "upmon.yaml", "path to the YAML config file")
		validate   = flag.Bool("validate", false, "validate the config and exit")
		debug      = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	// Config problems are the only fatal errors: nothing may start on a
	// bad target set.
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *validate {
		fmt.Printf("config ok: %d targets\n", len(cfg.Targets))
		return
	}

	logger, err := logging.NewLogger(cfg.LogDir, *debug)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	sink, err := logsink.NewFileSink(cfg.AuditDir)
	if err != nil {
		logger.Fatal("audit_sink_error", zap.Error(err))
	}
	defer sink.Close()

	var notifier notify.Notifier = notify.Multi{}
	if cfg.SMTP.Addr != "" {
		notifier = notify.NewSMTP(cfg.SMTP.Addr, cfg.SMTP.From, cfg.SMTP.Username, cfg.SMTP.Password)
	} else {
		logger.Warn("smtp_not_configured")
	}
	notifier = notify.NewThrottled(notifier,
		rate.Every(time.Duration(cfg.NotifyEveryMs)*time.Millisecond), cfg.NotifyBurst, logger)

	probeTimeout := time.Duration(cfg.ProbeTimeoutMs) * time.Millisecond
	sup := monitor.NewSupervisor(
		logger,
		probe.NewHTTPChecker(probeTimeout),
		notifier,
		sink,
		schedule.New(logger),
		monitor.WithTimeout(probeTimeout),
		monitor.WithWarmup(time.Duration(cfg.WarmupMs)*time.Millisecond),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sup.Start(cfg.DomainTargets()); err != nil {
		logger.Fatal("monitor_start_error", zap.Error(err))
	}

	api := httpapi.NewServer(logger, sup)
	httpSrv := &http.Server{Addr: cfg.APIAddr, Handler: api.Router()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("api_listen", zap.String("addr", cfg.APIAddr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
		sup.Stop()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("daemon_error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("daemon_exit")
}
