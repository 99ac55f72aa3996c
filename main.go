// waverefresh is a terminal demo of the wave pull-to-refresh header: drag
// the header down with the mouse to reload a system snapshot.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"waverefresh/internal/collector"
	"waverefresh/internal/config"
	"waverefresh/internal/journal"
	"waverefresh/ui/console"
	"waverefresh/ui/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath  string
		logFile     string
		logLevel    string
		journalPath string
		withJournal bool
		noJournal   bool
		minRefresh  int
		restoreMS   int
		delayMS     int
		incremental bool
		once        bool
		noColor     bool
	)

	flagSet := pflag.NewFlagSet("waverefresh", pflag.ContinueOnError)
	flagSet.StringVarP(&configPath, "config", "c", "", "path to a TOML settings file")
	flagSet.StringVar(&logFile, "log-file", "", "write log records to this file (default: no logging)")
	flagSet.StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	flagSet.BoolVar(&withJournal, "journal", false, "record refresh sessions in DuckDB")
	flagSet.StringVar(&journalPath, "journal-path", "", "DuckDB file for the journal (default: in memory)")
	flagSet.BoolVar(&noJournal, "no-journal", false, "disable the journal even if the settings file enables it")
	flagSet.IntVar(&minRefresh, "min-refresh", 0, "drag distance in px that arms a refresh")
	flagSet.IntVar(&restoreMS, "restore-ms", 0, "settle animation length in ms")
	flagSet.IntVar(&delayMS, "delay-ms", 0, "wait before sampling in ms")
	flagSet.BoolVar(&incremental, "incremental-peak", false, "grow the wave peak from raw drag deltas")
	flagSet.BoolVar(&once, "once", false, "print one snapshot to stdout and exit")
	flagSet.BoolVar(&noColor, "no-color", false, "plain output for --once")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// Flags win over the settings file.
	if flagSet.Changed("log-file") {
		cfg.LogFile = logFile
	}
	if flagSet.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flagSet.Changed("journal") {
		cfg.Journal.Enabled = withJournal
	}
	if flagSet.Changed("journal-path") {
		cfg.Journal.Path = journalPath
		cfg.Journal.Enabled = true
	}
	if noJournal {
		cfg.Journal.Enabled = false
	}
	if flagSet.Changed("min-refresh") {
		cfg.Refresh.MinRefreshHeight = minRefresh
	}
	if flagSet.Changed("restore-ms") {
		cfg.Refresh.RestoreMS = restoreMS
	}
	if flagSet.Changed("delay-ms") {
		cfg.Collector.DelayMS = delayMS
	}
	if incremental {
		cfg.Refresh.PeakGrowth = "incremental"
	}
	config.Clamp(&cfg)

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	refreshCfg, err := cfg.RefreshConfig()
	if err != nil {
		return err
	}
	collectorCfg, err := cfg.CollectorConfig()
	if err != nil {
		return err
	}
	provider, err := collector.NewSystemCollector(collectorCfg, logger.With("component", "collector"))
	if err != nil {
		return err
	}

	if once {
		ctx, cancel := context.WithTimeout(context.Background(), collectorCfg.Timeout+time.Second)
		defer cancel()
		snap, err := provider.Snapshot(ctx)
		if err != nil {
			return err
		}
		console.Print(os.Stdout, snap, !noColor)
		return nil
	}

	opts := tui.Options{
		Refresh:    refreshCfg,
		CellWidth:  cfg.Terminal.CellWidth,
		CellHeight: cfg.Terminal.CellHeight,
		FetchDelay: provider.Delay(),
		Logger:     logger,
		Recent:     cfg.Journal.Recent,
	}

	if cfg.Journal.Enabled {
		client, err := journal.Open(cfg.Journal.Path,
			journal.WithThreads(cfg.Journal.Threads),
			journal.WithMemoryLimit(cfg.Journal.MemoryLimitMB),
			journal.WithTimeout(5*time.Second))
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer client.Close()

		repo := journal.NewRepo(client.DB())
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = repo.Migrate(ctx)
		cancel()
		if err != nil {
			return fmt.Errorf("migrate journal: %w", err)
		}
		opts.Journal = repo
		logger.Info("journal open", "path", cfg.Journal.Path)
	}

	return tui.Start(provider, opts)
}

// newLogger writes text records to the configured file. The terminal is
// owned by the UI, so without a file nothing is logged.
func newLogger(cfg config.Config) (*slog.Logger, func(), error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, nil, err
	}
	if cfg.LogFile == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file %s: %w", cfg.LogFile, err)
	}
	logger := slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: level}))
	return logger, func() { file.Close() }, nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `waverefresh: wave pull-to-refresh header in the terminal.

Drag the header down with the left mouse button and release past the
threshold to reload the system snapshot below it.

Keys:
  e   toggle refreshing
  g   toggle linear/incremental peak growth
  j   journal page (b to go back)
  q   quit

Usage:
  waverefresh [flags]

Flags:
`)
	flagSet.PrintDefaults()
}
