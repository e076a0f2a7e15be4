// Package main contains the entrypoint for the nutriplan command.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/edgard/nutriplan/internal/config"
	"github.com/edgard/nutriplan/internal/database"
	"github.com/edgard/nutriplan/internal/guide"
	"github.com/edgard/nutriplan/internal/logger"
	"github.com/edgard/nutriplan/internal/openai"
	"github.com/edgard/nutriplan/internal/persistence"
	"github.com/edgard/nutriplan/internal/scheduler"
	"github.com/edgard/nutriplan/internal/state"
)

const healthInterval = time.Minute

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(exitCode)
}

// run wires every component, performs the requested actions and returns the
// process exit code.
func run(ctx context.Context, args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("nutriplan", flag.ContinueOnError)
	configPath := fs.String("config", "./config.yaml", "Path to configuration file")
	genGuide := fs.Bool("guide", false, "Generate a new weekly meal guide")
	watch := fs.Bool("watch", false, "Run scheduled tasks until interrupted")
	pflags := registerProfileFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.JSON)
	log.Debug("Logger initialized", "level", cfg.Log.Level, "json", cfg.Log.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	st := state.New()
	gw := persistence.New(store, st, log, persistence.WithRegisterer(prometheus.DefaultRegisterer))
	gw.Load(ctx)

	b := pflags.builder(st.Snapshot(), st, gw)
	if len(pflags.setFlags()) > 0 {
		if _, err := b.Save(ctx); err != nil {
			fmt.Fprintln(stdout, err)
			return 1
		}
	}
	if err := printJSON(stdout, b.GetData()); err != nil {
		log.Error("Failed to print profile", "error", err)
		return 1
	}

	guides := guide.NewService(store, st, guideConfig(cfg, log), log)

	if *genGuide {
		plan, err := guides.Generate(ctx)
		if err != nil {
			log.Error("Failed to generate meal guide", "error", err)
			return 1
		}
		printPlan(stdout, plan)
	}

	if *watch {
		tasks := scheduler.RegisterAllTasks(scheduler.TaskDeps{Logger: log, Store: store, Loader: gw, Guide: guides})
		sched, err := scheduler.New(log, &cfg.Scheduler, tasks)
		if err != nil {
			log.Error("Failed to create scheduler", "error", err)
			return 1
		}
		if err := watchLoop(ctx, log, store, sched, cfg.Metrics.Addr); err != nil {
			log.Error("Watch mode stopped due to error", "error", err)
			return 1
		}
	}

	return 0
}

func guideConfig(cfg *config.Config, log *slog.Logger) guide.Config {
	temp, topP := cfg.OpenAI.Temperature, cfg.OpenAI.TopP
	return guide.Config{
		APIKey:      cfg.OpenAI.APIKey,
		Days:        cfg.Guide.Days,
		MealTokens:  cfg.Guide.MealTokens,
		ListTokens:  cfg.Guide.ListTokens,
		Concurrency: cfg.Guide.Concurrency,
		Timeout:     cfg.OpenAI.Timeout,
		RequestOptions: []openai.Option{
			openai.WithEndpoint(cfg.OpenAI.Endpoint),
			openai.WithHTTPClient(&http.Client{Timeout: cfg.OpenAI.Timeout}),
			openai.WithLogger(log),
			openai.WithDefaults(openai.Defaults{
				Model:       cfg.OpenAI.Model,
				Temperature: &temp,
				TopP:        &topP,
				MaxTokens:   cfg.OpenAI.MaxTokens,
			}),
		},
	}
}

// watchLoop runs the scheduler next to a periodic database health check and,
// when metricsAddr is set, the metrics server. It returns when ctx is
// cancelled or one of them fails.
func watchLoop(ctx context.Context, log *slog.Logger, store database.Store, sched *scheduler.Scheduler, metricsAddr string) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return sched.Run(gCtx)
	})

	if metricsAddr != "" {
		g.Go(func() error {
			return serveMetrics(gCtx, log, metricsAddr, newMetricsHandler(store))
		})
	}

	g.Go(func() error {
		ticker := time.NewTicker(healthInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gCtx.Done():
				return nil
			case <-ticker.C:
				if err := store.Ping(gCtx); err != nil && gCtx.Err() == nil {
					return fmt.Errorf("database health check failed: %w", err)
				}
			}
		}
	})

	log.Info("Watching scheduled tasks. Waiting for shutdown signal...")
	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("Watch mode stopped gracefully.")
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printPlan(w io.Writer, plan *guide.Plan) {
	for i, meal := range plan.Meals {
		fmt.Fprintf(w, "Dia %d:\n%s\n\n", i+1, meal)
	}
	fmt.Fprintf(w, "Lista de compras:\n%s\n", plan.ShoppingList)
}
