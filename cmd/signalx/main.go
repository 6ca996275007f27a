package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/cryptoriginal/signalx"
	"github.com/cryptoriginal/signalx/pkg/config"
	"github.com/cryptoriginal/signalx/pkg/core"
	"github.com/cryptoriginal/signalx/pkg/scanner"
)

// Command line flags
var (
	configPath string

	// Scan command flags
	timeframe      string
	minVolume      float64
	maxSuggestions int
)

func main() {
	godotenv.Load()

	// Create root command
	rootCmd := &cobra.Command{
		Use:     "signalx",
		Short:   "Scalp trade idea bot for crypto futures",
		Version: "1.0.0",
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the YAML config file")

	// Add commands
	rootCmd.AddCommand(buildRunCmd())
	rootCmd.AddCommand(buildScanCmd())
	rootCmd.AddCommand(buildPairsCmd())

	// Execute
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the Telegram bot and the watch scheduler",
		RunE:  runBot,
	}
}

func buildScanCmd() *cobra.Command {
	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Run a single market scan and print the results",
		RunE:  runScan,
	}

	// Add flags
	scanCmd.Flags().StringVarP(&timeframe, "timeframe", "t", "", "Candle timeframe (e.g. 1h)")
	scanCmd.Flags().Float64VarP(&minVolume, "min-volume", "v", 0, "24h quote volume floor in USDT")
	scanCmd.Flags().IntVarP(&maxSuggestions, "max", "m", 0, "Maximum number of suggestions")

	return scanCmd
}

func buildPairsCmd() *cobra.Command {
	pairsCmd := &cobra.Command{
		Use:   "pairs",
		Short: "List the futures pairs eligible for scanning",
		RunE:  runPairs,
	}

	pairsCmd.Flags().Float64VarP(&minVolume, "min-volume", "v", 0, "24h quote volume floor in USDT")

	return pairsCmd
}

func runBot(cmd *cobra.Command, args []string) error {
	settings, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Setup signal handling for graceful shutdown
	setupSignalHandling(cancel)

	feeder, err := signalx.NewFeeder(ctx, settings, signalx.DefaultLog)
	if err != nil {
		return err
	}

	bot, err := signalx.NewBot(settings, feeder)
	if err != nil {
		return err
	}

	return bot.Run(ctx)
}

func runScan(cmd *cobra.Command, args []string) error {
	settings, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// One shot scans print to stdout and keep nothing around
	settings.Telegram.Enabled = false
	settings.Storage.Path = ":memory:"

	applyScanFlags(settings)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	setupSignalHandling(cancel)

	feeder, err := signalx.NewFeeder(ctx, settings, signalx.DefaultLog)
	if err != nil {
		return err
	}

	progress, finish := newProgress()
	bot, err := signalx.NewBot(settings, feeder, signalx.WithProgress(progress))
	if err != nil {
		return err
	}

	_, err = bot.Suggest(ctx)
	finish()
	if err != nil {
		return err
	}

	bot.Summary()
	return nil
}

func runPairs(cmd *cobra.Command, args []string) error {
	settings, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if minVolume > 0 {
		settings.Scan.MinQuoteVolume = minVolume
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	setupSignalHandling(cancel)

	feeder, err := signalx.NewFeeder(ctx, settings, signalx.DefaultLog)
	if err != nil {
		return err
	}

	pairs, err := feeder.HighVolumePairs(ctx, settings.Scan.MinQuoteVolume)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"#", "Pair", "24h Volume", "Last Price"})
	for i, pair := range pairs {
		table.Append([]string{
			strconv.Itoa(i + 1),
			pair.Pair,
			core.FormatQuoteVolume(pair.QuoteVolume),
			core.FormatPrice(pair.LastPrice),
		})
	}
	table.SetFooter([]string{"", "", "PAIRS", strconv.Itoa(len(pairs))})
	table.Render()

	return nil
}

func applyScanFlags(settings *core.Settings) {
	if timeframe != "" {
		settings.Scan.Timeframe = timeframe
	}
	if minVolume > 0 {
		settings.Scan.MinQuoteVolume = minVolume
	}
	if maxSuggestions > 0 {
		settings.Scan.MaxSuggestions = maxSuggestions
	}
}

// newProgress builds a per pair progress callback backed by a terminal
// bar. The total is only known once the pair list arrives, so the bar
// is created on the first call.
func newProgress() (scanner.ProgressFunc, func()) {
	var (
		once sync.Once
		bar  *progressbar.ProgressBar
	)

	callback := func(done, total int) {
		once.Do(func() {
			bar = progressbar.Default(int64(total))
		})
		if err := bar.Add(1); err != nil {
			signalx.DefaultLog.Warnf("update progressbar fail: %v", err)
		}
	}

	finish := func() {
		if bar == nil {
			return
		}
		if err := bar.Close(); err != nil {
			signalx.DefaultLog.Warnf("Failed to close progress bar: %s", err.Error())
		}
	}

	return callback, finish
}

func setupSignalHandling(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Println("\nReceived shutdown signal")
		cancel()
	}()
}
