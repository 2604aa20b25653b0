package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/speccrawl/internal/adapter/browserfetch"
	"github.com/user/speccrawl/internal/adapter/console"
	"github.com/user/speccrawl/internal/adapter/csvsource"
	"github.com/user/speccrawl/internal/adapter/htmldoc"
	"github.com/user/speccrawl/internal/adapter/httpfetch"
	"github.com/user/speccrawl/internal/adapter/postgres"
	redisadapter "github.com/user/speccrawl/internal/adapter/redis"
	"github.com/user/speccrawl/internal/adapter/tsvsink"
	"github.com/user/speccrawl/internal/delivery/http/handler"
	"github.com/user/speccrawl/internal/delivery/http/router"
	"github.com/user/speccrawl/internal/delivery/http/server"
	"github.com/user/speccrawl/internal/entity"
	"github.com/user/speccrawl/internal/repository"
	"github.com/user/speccrawl/internal/usecase"
	"github.com/user/speccrawl/pkg/config"
	"github.com/user/speccrawl/pkg/logger"
	"github.com/user/speccrawl/pkg/metrics"
)

var runCmd = &cobra.Command{
	Use:   "run [--input phone_links.csv] [--output result.csv]",
	Short: "Crawls every page of the source list and appends one row per page to the output file.",
	RunE:  runCrawl,
}

func init() {
	f := runCmd.Flags()
	f.StringP("input", "i", "", "Source list: one `label,url` record per line.")
	f.StringP("output", "o", "", "Tab-separated output file, opened in append mode.")
	f.Int("pace", usecase.DefaultPaceSeconds, "Seconds to wait after every item.")
	f.String("fetch-mode", "", "Page fetcher: http or browser.")
	f.String("parser", "", "HTML backend: goquery or xpath.")
	f.String("status-addr", "", "Serve /metrics and /api/status on this address.")
	f.String("log-level", "", "debug, info, warn or error.")
	f.BoolP("quiet", "q", false, "Log progress instead of drawing it.")
	rootCmd.AddCommand(runCmd)
}

func runCrawl(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(".env", cmd.Flags())
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}

	log, logCloser := logger.New(os.Stderr, logger.ParseLevel(cfg.LogLevel), cfg.LogFile)
	defer logCloser.Close()
	defer log.Sync()

	metrics.Init()
	ctx := cmd.Context()

	var reporter usecase.ProgressReporter
	if cfg.Quiet {
		reporter = console.NewLogReporter(log)
	} else {
		reporter = console.NewReporter(os.Stdout, isTerminal(os.Stdout))
	}

	// The crawl list must be complete before anything touches the network.
	reporter.LoadingSources(cfg.InputFile)
	var sources repository.SourceRepository = csvsource.NewSourceRepo()
	items, err := sources.Load(ctx, cfg.InputFile)
	if err != nil {
		log.Error("could not load source list", zap.String("path", cfg.InputFile), zap.Error(err))
		return err
	}

	spec := entity.DefaultFieldSpec()
	if err := spec.Validate(); err != nil {
		return err
	}

	parser, err := htmldoc.NewParser(cfg.Parser)
	if err != nil {
		return err
	}

	startedAt := time.Now()
	runID := usecase.NewRunID(cfg.InputFile, startedAt)
	log = log.With(zap.String("run_id", runID))

	fetcher, closeFetcher, err := newFetcher(cfg, log)
	if err != nil {
		return err
	}
	defer closeFetcher()

	backends := map[string]handler.Pinger{}
	var (
		mirror      repository.ResultSink
		failedItems repository.FailedItemRepository
		statusStore repository.RunStatusRepository
	)

	if cfg.PostgresURL != "" {
		dbpool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return fmt.Errorf("unable to connect to database: %w", err)
		}
		defer dbpool.Close()
		if err := dbpool.Ping(ctx); err != nil {
			return fmt.Errorf("unable to reach database: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, dbpool); err != nil {
			return fmt.Errorf("unable to create schema: %w", err)
		}
		mirror = postgres.NewRowMirror(dbpool, runID)
		failedItems = postgres.NewFailedItemRepo(dbpool)
		backends["postgres"] = dbpool
		log.Info("PostgreSQL mirror enabled")
	}

	if cfg.RedisAddr != "" {
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("unable to connect to redis: %w", err)
		}
		statusStore = redisadapter.NewRunStatusRepo(rdb)
		backends["redis"] = redisPinger{rdb}
		log.Info("Redis run status enabled")
	}

	tracker := usecase.NewRunTracker(statusStore, log)

	if cfg.StatusAddr != "" {
		h := handler.NewHandler(tracker, backends, log)
		srv := server.New(cfg.StatusAddr, router.New(h, log), log)
		srv.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error("status server forced to shutdown", zap.Error(err))
			}
		}()
	}

	var mirrors []repository.ResultSink
	if mirror != nil {
		mirrors = append(mirrors, mirror)
	}
	output := tsvsink.NewSink(cfg.OutputFile)
	sink := usecase.NewMirroredSink(output, log, mirrors...)

	crawler := usecase.NewCrawlerUseCase(runID, spec, cfg.PaceSeconds, usecase.CrawlerDeps{
		Fetcher:     fetcher,
		Parser:      parser,
		Sink:        sink,
		FailedItems: failedItems,
		Tracker:     tracker,
		Pacer:       usecase.NewPacer(reporter),
		Reporter:    reporter,
		Logger:      log,
	})

	log.Info("crawl started",
		zap.Int("items", len(items)),
		zap.String("output", output.Path()),
		zap.Int("pace_seconds", cfg.PaceSeconds),
		zap.String("fetch_mode", cfg.FetchMode),
		zap.String("parser", cfg.Parser),
	)

	summary, err := crawler.Run(ctx, items)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn("crawl interrupted", zap.Int("succeeded", summary.Succeeded), zap.Int("failed", summary.Failed))
			return nil
		}
		return err
	}

	if failedItems != nil && summary.Failed > 0 {
		skipped, err := failedItems.ListByRun(ctx, runID)
		if err != nil {
			log.Error("could not list skipped items", zap.Error(err))
			return nil
		}
		for _, fi := range skipped {
			log.Info("skipped item recorded",
				zap.String("label", fi.Label),
				zap.String("stage", string(fi.Stage)),
				zap.String("reason", fi.Reason),
			)
		}
	}
	return nil
}

func newFetcher(cfg *config.Config, log *zap.Logger) (repository.Fetcher, func(), error) {
	rotator := httpfetch.NewRotator(cfg.Proxies, cfg.UserAgentList())
	switch cfg.FetchMode {
	case "", "http":
		return httpfetch.NewFetcher(cfg.FetchTimeout, rotator, log), func() {}, nil
	case "browser":
		f := browserfetch.NewFetcher(cfg.FetchTimeout, rotator.UserAgent(), log)
		return f, f.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown fetch mode %q", cfg.FetchMode)
	}
}

type redisPinger struct {
	client *goredis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
