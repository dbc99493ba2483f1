// Command traintrips runs the train-trip curation pipeline: fetch raw
// announcement data, curate per-day trip snapshots, transform forecast
// payloads, and maintain the merged master table.
//
// By default every step runs in order. Single steps run with -only, and
// individual steps are dropped with the -skip flags. The process exits zero
// when at least one unit of work succeeded.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nordrail/traintrips/config"
	"github.com/nordrail/traintrips/internal/logging"
	"github.com/nordrail/traintrips/metrics"
	"github.com/nordrail/traintrips/pipeline"
	"github.com/nordrail/traintrips/publish"
	"github.com/nordrail/traintrips/store"
	"github.com/nordrail/traintrips/trafikverket"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  = flag.String("config", "config.yml", "path to the configuration file")
		only        = flag.String("only", "", "run a single step: fetch|fetch-planned|process|transform-planned|combine")
		skipFetch   = flag.Bool("skip-fetch", false, "skip the raw data fetch")
		skipPlanned = flag.Bool("skip-planned", false, "skip the forecast fetch and transform")
		skipProcess = flag.Bool("skip-process", false, "skip per-day curation")
		skipCombine = flag.Bool("skip-combine", false, "skip the master table merge")
		dates       = flag.String("dates", "", "comma-separated days to process (YYYY-MM-DD); default yesterday and today")
		all         = flag.Bool("all", false, "process every day present in raw storage")
		fetchDays   = flag.Int("fetch-days", 0, "days of raw data to fetch, ending today (0 = configured default)")
		verbose     = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := logging.New(os.Stderr, level)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.LogError(logger, "configuration failed", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		logging.LogError(logger, "store setup failed", err)
		return 1
	}
	defer cleanup()

	m := metrics.NewCollector()
	if cfg.MetricsAddr != "" {
		m.Serve(cfg.MetricsAddr, logger)
	}

	pub, err := publish.Connect(cfg.NATS, m, logger)
	if err != nil {
		// Publishing is best effort; run without it.
		logging.LogError(logger, "nats unavailable, publishing disabled", err)
		pub = nil
	}
	defer pub.Close()

	client := trafikverket.NewClient(cfg.API, logger)
	runner := pipeline.NewRunner(cfg, st, client, m, pub, logger)

	days, err := parseDates(*dates, cfg.Location())
	if err != nil {
		logging.LogError(logger, "invalid -dates", err)
		return 1
	}

	steps := selectSteps(*only, *skipFetch, *skipPlanned, *skipProcess, *skipCombine)
	if len(steps) == 0 {
		logging.LogError(logger, "no steps selected", fmt.Errorf("unknown step %q", *only))
		return 1
	}

	var summaries []pipeline.StepSummary
	for _, step := range steps {
		var sum pipeline.StepSummary
		switch step {
		case "fetch":
			sum = runner.FetchActual(ctx, *fetchDays)
		case "fetch-planned":
			sum = runner.FetchPlanned(ctx)
		case "process":
			switch {
			case *all:
				sum = runner.ProcessAll(ctx)
			case len(days) > 0:
				sum = runner.ProcessDates(ctx, days)
			default:
				sum = runner.ProcessDates(ctx, runner.DefaultProcessDays())
			}
		case "transform-planned":
			sum = runner.TransformPlanned(ctx)
		case "combine":
			sum = runner.CombineAll(ctx)
		}
		summaries = append(summaries, sum)

		// Later steps depend on fetch and process output; combine failures
		// only cost the master table refresh.
		if !sum.AnySuccess() && (step == "fetch" || step == "process") {
			logger.Error("step failed completely, aborting remaining steps", "step", step)
			break
		}
	}

	return report(logger, summaries)
}

func openStore(ctx context.Context, cfg *config.Config) (store.ObjectStore, func(), error) {
	switch cfg.Store.Backend {
	case "postgres":
		pg, err := store.OpenPostgres(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return pg, func() { _ = pg.Close() }, nil
	default:
		return store.NewFS(cfg.Store.Root), func() {}, nil
	}
}

var stepOrder = []string{"fetch", "fetch-planned", "process", "transform-planned", "combine"}

func selectSteps(only string, skipFetch, skipPlanned, skipProcess, skipCombine bool) []string {
	if only != "" {
		for _, s := range stepOrder {
			if s == only {
				return []string{s}
			}
		}
		return nil
	}
	var steps []string
	for _, s := range stepOrder {
		switch {
		case skipFetch && s == "fetch":
		case skipPlanned && (s == "fetch-planned" || s == "transform-planned"):
		case skipProcess && s == "process":
		case skipCombine && s == "combine":
		default:
			steps = append(steps, s)
		}
	}
	return steps
}

func parseDates(s string, loc *time.Location) ([]time.Time, error) {
	if s == "" {
		return nil, nil
	}
	var days []time.Time
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		day, err := time.ParseInLocation("2006-01-02", part, loc)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", part, err)
		}
		days = append(days, day)
	}
	return days, nil
}

// report logs the run summary and derives the exit code: zero when at least
// one unit anywhere succeeded.
func report(logger *slog.Logger, summaries []pipeline.StepSummary) int {
	succeeded, failed := 0, 0
	for _, sum := range summaries {
		succeeded += sum.Succeeded()
		failed += sum.Failed()
		for _, u := range sum.Units {
			if u.Err != nil {
				logger.Warn("unit failed", "step", sum.Step, "unit", u.Unit, "error", u.Err.Error())
			}
		}
		logger.Info("step summary", "step", sum.Step,
			"succeeded", sum.Succeeded(), "failed", sum.Failed())
	}
	logger.Info("run finished", "units_succeeded", succeeded, "units_failed", failed)
	if succeeded == 0 {
		return 1
	}
	return 0
}
