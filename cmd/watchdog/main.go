package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	app "github.com/Flume-formerly-Laika/NL2Flow"
	"github.com/Flume-formerly-Laika/NL2Flow/internal/config"
	"github.com/Flume-formerly-Laika/NL2Flow/internal/extract"
	"github.com/Flume-formerly-Laika/NL2Flow/internal/flow"
	"github.com/Flume-formerly-Laika/NL2Flow/internal/scan"
	"github.com/Flume-formerly-Laika/NL2Flow/internal/server"
	"github.com/Flume-formerly-Laika/NL2Flow/internal/snapshot"
	"github.com/Flume-formerly-Laika/NL2Flow/pkg/log"
)

type watchdog struct {
	cfg        *config.Config
	store      *snapshot.RedisStore
	notifier   *scan.TopicNotifier
	scanner    *scan.Scanner
	intents    *flow.IntentClient
	apiServer  *server.Server
	httpServer *http.Server
	scanDone   chan struct{}
	quit       chan os.Signal
}

var ErrOpenTopic = errors.New("failed to open notification topic")

func main() {
	cfg := config.NewDefaultConfig()
	if err := cfg.LoadFromEnv(); err != nil {
		slog.Error("Invalid configuration", log.Error(err))
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", log.Error(err))
		os.Exit(1)
	}

	w := &watchdog{
		cfg:      cfg,
		scanDone: make(chan struct{}),
		quit:     make(chan os.Signal, 1),
	}
	w.setupLogging()

	if err := w.run(); err != nil {
		slog.Error("Failed to start application", log.Error(err))
		os.Exit(1)
	}
}

func (w *watchdog) run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := w.initializeComponents(ctx); err != nil {
		return err
	}
	w.startServer()
	w.startScanLoop(ctx)

	signal.Notify(w.quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(w.quit)
	<-w.quit

	cancel()
	w.shutdown()
	return nil
}

func (w *watchdog) setupLogging() {
	level := log.ParseLevel(w.cfg.LogLevel)

	env := os.Getenv("ENV")
	logger := log.NewWithLevel(app.Name, env, app.Version, level)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level)

	slog.Info("NL2Flow watchdog starting",
		slog.String("log_level", w.cfg.LogLevel))

	slog.Info("Configuration loaded",
		slog.String("redis_addr", w.cfg.Store.Addr),
		slog.Int("redis_db", w.cfg.Store.DB),
		slog.String("api_host", w.cfg.APIHost),
		slog.Int("api_port", w.cfg.APIPort),
		slog.Int("scan_sources", len(w.cfg.Sources)),
		slog.Duration("scan_interval", w.cfg.ScanInterval))
}

func (w *watchdog) initializeComponents(ctx context.Context) error {
	w.store = snapshot.NewRedisStore(w.cfg.Store)

	var notifier scan.Notifier
	if w.cfg.TopicURL != "" {
		n, err := scan.NewTopicNotifier(ctx, w.cfg.TopicURL)
		if err != nil {
			_ = w.store.Close()
			return fmt.Errorf("%w: %w", ErrOpenTopic, err)
		}
		w.notifier = n
		notifier = n
	}

	extractor := extract.NewExtractor(
		extract.NewFetcher(w.cfg.FetchTimeout),
	)
	w.scanner = scan.New(extractor, w.store, notifier)

	w.intents = flow.NewIntentClient(
		w.cfg.IntentEndpoint, w.cfg.IntentAPIKey,
		w.cfg.IntentModel, w.cfg.IntentTimeout,
	)
	return nil
}

func (w *watchdog) startServer() {
	w.apiServer = server.NewServer(
		w.store, w.scanner, w.intents, w.cfg.FieldRules,
	)
	router := w.apiServer.SetupRoutes()

	w.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", w.cfg.APIHost, w.cfg.APIPort),
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server starting",
			slog.String("addr", w.httpServer.Addr))
		err := w.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", log.Error(err))
		}
	}()
}

// startScanLoop runs an initial scan cycle and then rescans every
// ScanInterval. A zero interval or an empty source list disables the
// loop.
func (w *watchdog) startScanLoop(ctx context.Context) {
	if w.cfg.ScanInterval <= 0 || len(w.cfg.Sources) == 0 {
		slog.Info("Scheduled scanning disabled")
		close(w.scanDone)
		return
	}

	go func() {
		defer close(w.scanDone)

		w.scanner.ScanAll(ctx, w.cfg.Sources)

		ticker := time.NewTicker(w.cfg.ScanInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.scanner.ScanAll(ctx, w.cfg.Sources)
			}
		}
	}()
}

func (w *watchdog) shutdown() {
	slog.Info("Shutting down")

	ctx, cancel := context.WithTimeout(
		context.Background(), w.cfg.ShutdownTimeout,
	)
	defer cancel()

	if err := w.httpServer.Shutdown(ctx); err != nil {
		slog.Error("Shutdown failed", log.Error(err))
	}

	select {
	case <-w.scanDone:
	case <-ctx.Done():
		slog.Warn("Scan loop did not stop before timeout")
	}

	if w.notifier != nil {
		if err := w.notifier.Close(ctx); err != nil {
			slog.Error("Notifier shutdown failed", log.Error(err))
		}
	}
	_ = w.store.Close()

	slog.Info("Server exited")
}
