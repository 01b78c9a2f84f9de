package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"marketsim/config"
	"marketsim/engine"
	"marketsim/feed"
	"marketsim/metrics"
	"marketsim/report"
	"marketsim/sim"
)

type flags struct {
	configPath  string
	opts        report.Options
	input       string
	metricsFile string
	logLevel    string
	logFormat   string
}

func parseFlags() (flags, map[string]bool) {
	var f flags
	flag.StringVar(&f.configPath, "config", "", "YAML configuration file")
	flag.BoolVar(&f.opts.Verbose, "v", false, "print every trade")
	flag.BoolVar(&f.opts.Verbose, "verbose", false, "print every trade")
	flag.BoolVar(&f.opts.Median, "m", false, "print running medians at each timestamp change")
	flag.BoolVar(&f.opts.Median, "median", false, "print running medians at each timestamp change")
	flag.BoolVar(&f.opts.TraderInfo, "i", false, "print per-trader totals at end of day")
	flag.BoolVar(&f.opts.TraderInfo, "trader_info", false, "print per-trader totals at end of day")
	flag.BoolVar(&f.opts.TimeTravelers, "t", false, "print the best retrospective trade per stock")
	flag.BoolVar(&f.opts.TimeTravelers, "time_travelers", false, "print the best retrospective trade per stock")
	flag.StringVar(&f.input, "in", "", "feed file, - or empty for stdin")
	flag.StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics to this file at exit")
	flag.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	flag.StringVar(&f.logFormat, "log-format", "", "text or json")
	flag.Parse()

	set := map[string]bool{}
	flag.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	return f, set
}

// applyFlags overrides the loaded configuration with explicitly set flags.
func applyFlags(cfg *config.Config, f flags, set map[string]bool) {
	if set["v"] || set["verbose"] {
		cfg.Output.Verbose = f.opts.Verbose
	}
	if set["m"] || set["median"] {
		cfg.Output.Median = f.opts.Median
	}
	if set["i"] || set["trader_info"] {
		cfg.Output.TraderInfo = f.opts.TraderInfo
	}
	if set["t"] || set["time_travelers"] {
		cfg.Output.TimeTravelers = f.opts.TimeTravelers
	}
	if set["in"] {
		cfg.Input = f.input
	}
	if set["metrics-file"] {
		cfg.MetricsFile = f.metricsFile
	}
	if set["log-level"] {
		cfg.Log.Level = f.logLevel
	}
	if set["log-format"] {
		cfg.Log.Format = f.logFormat
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	logLevel := slog.LevelInfo
	switch cfg.Log.Level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func main() {
	f, set := parseFlags()

	cfg, err := config.Load(f.configPath)
	if err != nil {
		slog.Error("config_load_failed", "error", err)
		os.Exit(1)
	}
	applyFlags(cfg, f, set)
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg).With("run_id", uuid.NewString())
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("session_failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	var in io.Reader = os.Stdin
	if cfg.Input != "" && cfg.Input != "-" {
		file, err := os.Open(cfg.Input)
		if err != nil {
			return fmt.Errorf("open feed: %w", err)
		}
		defer file.Close()
		in = file
	}

	rep := report.New(os.Stdout, cfg.ReportOptions())

	r, err := feed.NewReader(in)
	if err != nil {
		rep.Begin()
		_ = rep.Flush()
		return err
	}
	h := r.Header()
	logger.Info("feed_opened", "mode", h.Mode, "traders", h.Traders, "stocks", h.Instruments)

	m := metrics.New()
	market, err := engine.NewMarket(engine.MarketConfig{
		Traders:          h.Traders,
		Instruments:      h.Instruments,
		StrictTimestamps: h.Mode == feed.ModeTradeList,
		Recorder:         m,
	})
	if err != nil {
		return err
	}

	src, err := r.Source(market)
	if err != nil {
		return err
	}

	session := &sim.Session{Market: market, Reporter: rep, Metrics: m, Logger: logger}
	_, runErr := session.Run(ctx, src)

	if cfg.MetricsFile != "" {
		if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Error("metrics_write_failed", "path", cfg.MetricsFile, "error", err)
		}
	}
	return runErr
}
