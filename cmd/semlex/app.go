package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/c360studio/semstreams/natsclient"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/c360studio/semlex/api"
	"github.com/c360studio/semlex/config"
	"github.com/c360studio/semlex/entitytypes"
	"github.com/c360studio/semlex/graph"
	"github.com/c360studio/semlex/storage"
)

// App wires storage, NATS, the entity type services and the API handler.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	// NATS
	embeddedServer *server.Server
	nats           *natsclient.Client

	store     storage.Store
	services  *entitytypes.Services
	publisher *graph.Publisher
	registry  *prometheus.Registry
	handler   *api.Handler
}

// NewApp creates a new application instance.
func NewApp(cfg *config.Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{cfg: cfg, logger: logger}
}

// needsNATS reports whether the configuration uses NATS at all.
func (a *App) needsNATS() bool {
	return a.cfg.Storage.Backend == config.BackendNATS || a.cfg.NATS.Publish
}

// Start initializes all components. On error, whatever was started is shut
// down again.
func (a *App) Start(ctx context.Context) error {
	if err := a.start(ctx); err != nil {
		a.Shutdown(ctx)
		return err
	}
	return nil
}

func (a *App) start(ctx context.Context) error {
	if a.needsNATS() {
		if err := a.startNATS(ctx); err != nil {
			return fmt.Errorf("start NATS: %w", err)
		}
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	a.store = store

	services, err := entitytypes.NewServices(a.cfg, store, a.logger)
	if err != nil {
		return fmt.Errorf("initialize entity types: %w", err)
	}
	a.services = services

	if a.cfg.NATS.Publish {
		if err := a.ensureGraphStream(ctx); err != nil {
			return err
		}
		a.publisher = graph.NewPublisher(a.nats, services.RDF, a.logger)
	}

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	handler, err := api.NewHandler(services, a.publisher, a.registry, a.logger)
	if err != nil {
		return fmt.Errorf("create API handler: %w", err)
	}
	a.handler = handler

	a.logger.Debug("Components initialized",
		"backend", a.cfg.Storage.Backend,
		"publish", a.cfg.NATS.Publish)
	return nil
}

func (a *App) startNATS(ctx context.Context) error {
	url := a.cfg.NATS.URL
	embedded := a.cfg.NATS.Embedded || url == ""
	if envURL := os.Getenv("NATS_URL"); envURL != "" {
		url, embedded = envURL, false
	}

	if embedded {
		a.logger.Debug("Starting embedded NATS server")
		opts := &server.Options{
			Port:      -1,
			JetStream: true,
			StoreDir:  a.cfg.NATS.StoreDir,
			NoLog:     true,
			NoSigs:    true,
		}

		ns, err := server.NewServer(opts)
		if err != nil {
			return fmt.Errorf("create embedded NATS server: %w", err)
		}

		go ns.Start()

		if !ns.ReadyForConnections(5 * time.Second) {
			ns.Shutdown()
			return fmt.Errorf("embedded NATS server failed to start")
		}

		a.embeddedServer = ns
		url = ns.ClientURL()
	}

	client, err := connectToNATS(ctx, url, a.logger)
	if err != nil {
		return err
	}
	a.nats = client
	return nil
}

func (a *App) openStore(ctx context.Context) (storage.Store, error) {
	switch a.cfg.Storage.Backend {
	case config.BackendSQLite:
		return storage.OpenSQLite(a.cfg.Storage.SQLitePath)
	case config.BackendNATS:
		js, err := a.nats.JetStream()
		if err != nil {
			return nil, fmt.Errorf("get JetStream context: %w", err)
		}
		return storage.NewKVStore(ctx, js)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", a.cfg.Storage.Backend)
	}
}

// ensureGraphStream creates the stream that captures graph ingestion subjects.
func (a *App) ensureGraphStream(ctx context.Context) error {
	_, err := a.nats.CreateStream(ctx, jetstream.StreamConfig{
		Name:     graph.StreamName,
		Subjects: []string{"graph.ingest.>"},
		MaxAge:   24 * time.Hour,
		Storage:  jetstream.FileStorage,
	})
	if err != nil && !errors.Is(err, jetstream.ErrStreamNameAlreadyInUse) {
		return fmt.Errorf("ensure %s stream: %w", graph.StreamName, err)
	}
	a.logger.Debug("JetStream stream ready", "stream", graph.StreamName)
	return nil
}

// Shutdown stops all components.
func (a *App) Shutdown(ctx context.Context) {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("Failed to close store", "error", err)
		}
	}

	if a.nats != nil {
		if err := a.nats.Close(ctx); err != nil {
			a.logger.Warn("Failed to close NATS client", "error", err)
		}
	}

	if a.embeddedServer != nil {
		a.embeddedServer.Shutdown()
		a.embeddedServer.WaitForShutdown()
	}
}

func connectToNATS(ctx context.Context, url string, logger *slog.Logger) (*natsclient.Client, error) {
	logger.Info("Connecting to NATS", "url", url)

	client, err := natsclient.NewClient(url,
		natsclient.WithName(appName),
		natsclient.WithMaxReconnects(-1),
		natsclient.WithReconnectWait(time.Second),
		natsclient.WithCircuitBreakerThreshold(20),
		natsclient.WithHealthInterval(30*time.Second),
		natsclient.WithLogger(natsLogger{logger: logger}),
	)
	if err != nil {
		return nil, fmt.Errorf("create NATS client: %w", err)
	}

	if err := client.Connect(ctx); err != nil {
		return nil, wrapNATSError(err, url)
	}

	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.WaitForConnection(connCtx); err != nil {
		return nil, wrapNATSError(err, url)
	}

	logger.Info("Connected to NATS", "url", url)
	return client, nil
}

// wrapNATSError provides helpful guidance when NATS connection fails.
func wrapNATSError(err error, url string) error {
	errStr := err.Error()

	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no servers available") ||
		strings.Contains(errStr, "timeout") {
		return fmt.Errorf(`NATS connection failed: %w

NATS is not running at %s.

Set nats.embedded: true to run an in-process server, or set the
NATS_URL environment variable to point to your NATS server.`, err, url)
	}

	return fmt.Errorf("NATS connection failed: %w", err)
}

// natsLogger routes natsclient logging through slog.
type natsLogger struct {
	logger *slog.Logger
}

func (l natsLogger) Printf(format string, v ...any) { l.logger.Info(fmt.Sprintf(format, v...)) }
func (l natsLogger) Errorf(format string, v ...any) { l.logger.Error(fmt.Sprintf(format, v...)) }
func (l natsLogger) Debugf(format string, v ...any) { l.logger.Debug(fmt.Sprintf(format, v...)) }
