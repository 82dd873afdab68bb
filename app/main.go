package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/prop-comb/app/api"
	"github.com/lysyi3m/prop-comb/app/cache"
	"github.com/lysyi3m/prop-comb/app/cfg"
	"github.com/lysyi3m/prop-comb/app/database"
	"github.com/lysyi3m/prop-comb/app/fetch"
	"github.com/lysyi3m/prop-comb/app/parse"
	"github.com/lysyi3m/prop-comb/app/pipeline"
	"github.com/lysyi3m/prop-comb/app/registry"
	"github.com/lysyi3m/prop-comb/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Prop Comb server", "version", appCfg.Version)

	db, err := database.NewDB(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "migration_version", version, "dirty", dirty)

	reg, err := registry.New(appCfg.SourcesDir)
	if err != nil {
		slog.Error("Failed to build source registry", "error", err)
		os.Exit(1)
	}
	slog.Info("Source registry loaded", "standards", reg.Count())

	quota := fetch.NewQuota()
	client := fetch.NewClient(nil, quota, fetch.Options{
		UserAgent: appCfg.UserAgent,
		Token:     appCfg.GithubToken,
		Timeout:   time.Duration(appCfg.HTTPTimeout) * time.Second,
		Pause:     time.Duration(appCfg.FetchPause) * time.Millisecond,
	})

	fetchers := map[registry.Strategy]fetch.Fetcher{
		registry.StrategyFileListing:  fetch.NewFileListingFetcher(client, appCfg.WorkerCount),
		registry.StrategyIssueListing: fetch.NewIssueListingFetcher(client),
		registry.StrategyDirectPage:   fetch.NewDirectPageFetcher(client),
		registry.StrategyCommitFeed:   fetch.NewCommitFeedFetcher(client),
	}

	titles := parse.NewPageTitles(client)
	parsers := map[registry.ParserTag]parse.Parser{
		registry.ParserFrontmatter: parse.NewFrontmatterParser(),
		registry.ParserWiki:        parse.NewWikiMetadataParser(),
		registry.ParserTableRow:    parse.NewTableRowParser(),
		registry.ParserHTML:        parse.NewHeuristicHTMLParser(titles),
		registry.ParserIssue:       parse.NewIssueParser(),
		registry.ParserCommitFeed:  parse.NewCommitFeedParser(),
	}

	orchestrator := pipeline.NewOrchestrator(reg, fetchers, parsers, quota)
	resultCache := cache.NewCache(time.Duration(appCfg.CacheTTL) * time.Second)
	service := pipeline.NewService(orchestrator, reg, resultCache, appCfg.ProposalLimit)

	snapshotRepo := database.NewSnapshotRepository(db)

	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "interval", appCfg.SchedulerInterval)
	scheduler := tasks.NewScheduler(service, reg, snapshotRepo)
	scheduler.Start()
	defer scheduler.Stop()

	apiHandler := api.NewHandler(service, reg, resultCache, snapshotRepo, scheduler, appCfg.DataDir)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	slog.Info("Prop Comb server started successfully")

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	slog.Info("Prop Comb server shutdown complete")
}
