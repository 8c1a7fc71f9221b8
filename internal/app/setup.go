package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/firebase/genkit/go/core/tracing"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/bharatvarsh/bhoomi/db"
	"github.com/bharatvarsh/bhoomi/internal/archive"
	"github.com/bharatvarsh/bhoomi/internal/config"
	"github.com/bharatvarsh/bhoomi/internal/log"
	"github.com/bharatvarsh/bhoomi/internal/lore"
	"github.com/bharatvarsh/bhoomi/internal/moderation"
	"github.com/bharatvarsh/bhoomi/internal/rag"
)

// Setup creates and initializes the application.
// Returns an App with embedded cleanup; call Close() to release.
func Setup(ctx context.Context, cfg *config.Config, logger log.Logger) (_ *App, retErr error) {
	if logger == nil {
		logger = log.NewNop()
	}
	a := &App{Config: cfg, Logger: logger}

	// On error, clean up everything already initialized.
	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	a.otelCleanup = provideOtelShutdown(ctx, cfg, logger)

	pool, err := provideDBPool(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.DBPool = pool

	g, err := provideGenkit(ctx, logger)
	if err != nil {
		return nil, err
	}
	a.Genkit = g

	embedder := googlegenai.GoogleAIEmbedder(g, cfg.EmbedderModel)
	if embedder == nil {
		return nil, fmt.Errorf("embedder %q not found", cfg.EmbedderModel)
	}
	a.Embedder = embedder

	if err := wireDomain(a); err != nil {
		return nil, err
	}

	return a, nil
}

// wireDomain builds the archive, moderation, and RAG components on top of
// the core services.
func wireDomain(a *App) error {
	archiveEmbedder, err := archive.NewEmbedder(a.Embedder, archive.DefaultVectorDimension)
	if err != nil {
		return fmt.Errorf("creating archive embedder: %w", err)
	}

	store, err := archive.NewStore(a.DBPool, archiveEmbedder, a.Logger)
	if err != nil {
		return fmt.Errorf("creating archive store: %w", err)
	}
	a.Archive = store

	posts, err := moderation.NewPostStore(a.DBPool, a.Logger)
	if err != nil {
		return fmt.Errorf("creating post store: %w", err)
	}
	a.Posts = posts

	gate, err := moderation.NewGate(posts, posts, a.Logger)
	if err != nil {
		return fmt.Errorf("creating moderation gate: %w", err)
	}
	a.Gate = gate

	generator, err := rag.NewGenkitGenerator(a.Genkit, a.Config.FullModelName(), a.Logger)
	if err != nil {
		return fmt.Errorf("creating generator: %w", err)
	}

	persona := a.Config.Persona
	if persona == "" {
		persona = lore.DefaultPersona
	}

	pipeline, err := rag.NewPipeline(rag.Config{
		Embedder:        archiveEmbedder,
		Retriever:       store,
		Generator:       generator,
		Persona:         persona,
		TopK:            a.Config.TopK,
		MaxContextChars: a.Config.MaxContextChars,
		Logger:          a.Logger,
	})
	if err != nil {
		return fmt.Errorf("creating pipeline: %w", err)
	}
	a.Pipeline = pipeline

	seeder, err := lore.NewSeeder(store, a.Logger)
	if err != nil {
		return fmt.Errorf("creating seeder: %w", err)
	}
	a.Seeder = seeder

	return nil
}

// provideOtelShutdown sets up OTLP trace export before Genkit
// initialization, so the TracerProvider is ready when flows register.
// Tracing stays off when no endpoint is configured.
func provideOtelShutdown(ctx context.Context, cfg *config.Config, logger log.Logger) func() {
	tc := cfg.Tracing
	if tc.Endpoint == "" {
		return func() {}
	}

	// Set OTEL env vars for Genkit's TracerProvider to pick up. Called
	// exactly once during startup, before goroutines are spawned.
	if tc.ServiceName != "" {
		_ = os.Setenv("OTEL_SERVICE_NAME", tc.ServiceName)
	}
	if tc.Environment != "" {
		_ = os.Setenv("OTEL_RESOURCE_ATTRIBUTES", "deployment.environment="+tc.Environment)
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(tc.Endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		logger.Warn("creating OTLP exporter, tracing disabled", "error", err)
		return func() {}
	}

	processor := sdktrace.NewBatchSpanProcessor(exporter)
	tracing.TracerProvider().RegisterSpanProcessor(processor)

	logger.Debug("tracing enabled",
		"endpoint", tc.Endpoint,
		"service", tc.ServiceName,
		"environment", tc.Environment)

	shutdown := tracing.TracerProvider().Shutdown

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Warn("shutting down tracer provider", "error", err)
		}
	}
}

// provideGenkit initializes Genkit with the Google AI plugin.
func provideGenkit(ctx context.Context, logger log.Logger) (*genkit.Genkit, error) {
	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
	if g == nil {
		return nil, errors.New("initializing genkit")
	}
	logger.Info("initialized Genkit with Google AI plugin")
	return g, nil
}

// provideDBPool runs migrations and creates a PostgreSQL connection pool.
func provideDBPool(ctx context.Context, cfg *config.Config, logger log.Logger) (*pgxpool.Pool, error) {
	if err := db.Migrate(cfg.PostgresURL(), logger); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.PostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parsing connection config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, nil
}
