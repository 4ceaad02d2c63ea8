package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/reposcribe/internal/config"
	"git.home.luguber.info/inful/reposcribe/internal/docgen"
	serrors "git.home.luguber.info/inful/reposcribe/internal/errors"
	"git.home.luguber.info/inful/reposcribe/internal/events"
	"git.home.luguber.info/inful/reposcribe/internal/gitfetch"
	"git.home.luguber.info/inful/reposcribe/internal/janitor"
	"git.home.luguber.info/inful/reposcribe/internal/llm"
	"git.home.luguber.info/inful/reposcribe/internal/metrics"
	"git.home.luguber.info/inful/reposcribe/internal/server/httpserver"
	"git.home.luguber.info/inful/reposcribe/internal/source"
	"git.home.luguber.info/inful/reposcribe/internal/store"
	"git.home.luguber.info/inful/reposcribe/internal/version"
	"git.home.luguber.info/inful/reposcribe/internal/workspace"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Serve struct{} `cmd:"" help:"Start the documentation generation API server"`

	Generate struct {
		RepoURL string `arg:"" help:"Repository URL to document"`
		Type    string `short:"t" help:"Document type: readme or architecture" default:"readme" enum:"readme,architecture"`
	} `cmd:"" help:"Generate a single document for a repository and print it"`

	Version struct{} `cmd:"" help:"Print version information"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	config.LoadEnvFiles()
	adapter := serrors.NewCLIErrorAdapter(CLI.Verbose, logger)

	switch ctx.Command() {
	case "serve":
		adapter.HandleError(runServe(CLI.Config))
	case "generate <repo-url>":
		adapter.HandleError(runGenerate(CLI.Config, CLI.Generate.RepoURL, CLI.Generate.Type))
	case "version":
		fmt.Printf("reposcribe %s (commit %s, built %s)\n",
			version.Version, version.GitCommit, version.BuildTime)
	}
}

func runServe(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return serrors.WrapError(err, serrors.CategoryConfig, "failed to load configuration")
	}

	registry := prometheus.NewRegistry()
	svc, cleanup, err := buildService(cfg, registry)
	if err != nil {
		return err
	}
	defer cleanup()

	var jan *janitor.Janitor
	if cfg.Janitor.Enabled {
		ws := workspace.NewManager(cfg.Clone.BaseDir)
		jan, err = janitor.New(ws,
			time.Duration(cfg.Janitor.IntervalMinutes)*time.Minute,
			time.Duration(cfg.Janitor.MaxAgeMinutes)*time.Minute)
		if err != nil {
			return serrors.WrapError(err, serrors.CategoryRuntime, "failed to create workspace janitor")
		}
		if err := jan.Start(); err != nil {
			return serrors.WrapError(err, serrors.CategoryRuntime, "failed to start workspace janitor")
		}
	}

	srv := httpserver.New(cfg, svc, httpserver.Options{
		Store:    svc.StoreHandle(),
		Registry: registry,
	})
	if err := srv.Start(context.Background()); err != nil {
		return serrors.WrapError(err, serrors.CategoryRuntime, "failed to start HTTP servers")
	}

	slog.Info("reposcribe started", slog.String("version", version.Version))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("Shutting down", slog.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown failed", "error", err)
	}
	if jan != nil {
		if err := jan.Stop(); err != nil {
			slog.Error("Janitor shutdown failed", "error", err)
		}
	}
	return nil
}

func runGenerate(configPath, repoURL, docType string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return serrors.WrapError(err, serrors.CategoryConfig, "failed to load configuration")
	}

	svc, cleanup, err := buildService(cfg, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var content string
	switch docType {
	case "architecture":
		content, err = svc.GenerateArchitecture(ctx, repoURL)
	default:
		content, err = svc.GenerateReadme(ctx, repoURL)
	}
	if err != nil {
		return serrors.WrapError(err, serrors.CategoryGeneration, "documentation generation failed")
	}

	fmt.Println(content)
	return nil
}

// serviceHandle exposes the wired service plus the store for the read API.
type serviceHandle struct {
	*docgen.Service
	st store.Store
}

func (h *serviceHandle) StoreHandle() store.Store { return h.st }

// buildService wires the documentation pipeline from configuration. The
// returned cleanup closes the store and drains the event publisher.
func buildService(cfg *config.Config, registry *prometheus.Registry) (*serviceHandle, func(), error) {
	apiKey := cfg.APIKey()
	if apiKey == "" {
		return nil, nil, serrors.New(serrors.CategoryConfig, serrors.SeverityFatal,
			fmt.Sprintf("%s environment variable is required", config.APIKeyEnv))
	}

	client, err := llm.NewGoogleAI(context.Background(), apiKey, cfg.Generation.Model, cfg.Generation.MaxTokens)
	if err != nil {
		return nil, nil, serrors.WrapError(err, serrors.CategoryGeneration, "failed to create generation client")
	}

	var st store.Store
	if cfg.Store.Enabled {
		st, err = store.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			return nil, nil, serrors.WrapError(err, serrors.CategoryFileSystem, "failed to open documentation store")
		}
	}

	var pub *events.Publisher
	if cfg.NATS.Enabled {
		pub, err = events.NewPublisher(cfg.NATS.URL, cfg.NATS.Subject)
		if err != nil {
			// Event publishing is best-effort; the pipeline runs without it.
			slog.Warn("Failed to connect event publisher, continuing without events", "error", err)
			pub = nil
		}
	}

	var rec *metrics.Recorder
	if registry != nil {
		rec = metrics.NewRecorder(registry)
	}

	callTimeout := time.Duration(cfg.Generation.TimeoutSeconds) * time.Second
	svc := docgen.NewService(docgen.Deps{
		Workspaces: workspace.NewManager(cfg.Clone.BaseDir),
		Fetcher:    gitfetch.New(time.Duration(cfg.Clone.TimeoutSeconds) * time.Second),
		Walker:     source.NewWalker(cfg.Walker.Ignore, cfg.Walker.MaxFileBytes),
		Client:     client,
		Processor:  docgen.NewProcessor(client, cfg.Generation.BatchSize, callTimeout),
		Store:      st,
		Events:     pub,
		Metrics:    rec,
	}, callTimeout)

	cleanup := func() {
		if pub != nil {
			pub.Close()
		}
		if st != nil {
			if err := st.Close(); err != nil {
				slog.Warn("Failed to close documentation store", "error", err)
			}
		}
	}
	return &serviceHandle{Service: svc, st: st}, cleanup, nil
}
