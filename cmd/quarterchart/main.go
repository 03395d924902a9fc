package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"QuarterChart/internal/app"
	"QuarterChart/internal/collector"
	"QuarterChart/internal/config"
	"QuarterChart/internal/metrics"
	"QuarterChart/internal/model"
	"QuarterChart/internal/notifier"
	"QuarterChart/internal/recorder"
	"QuarterChart/internal/scheduler"
	"QuarterChart/internal/web"
)

var (
	configFile string
	ticker     string
	year       int
	quarter    int
	svgOut     string
	save       bool
	recordID   string
	archiveNow bool
	noTelegram bool
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	rootCmd := &cobra.Command{
		Use:   "quarterchart",
		Short: "Quarterly candlestick charts with annotations",
		Long:  `Fetches one calendar quarter of daily prices, renders it as a candlestick chart with a 10-day SMA, and stores annotated snapshots.`,
	}
	defaultConfig := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultConfig = v
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", defaultConfig, "Path to config file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web form, JSON API, archive job and Telegram bot",
		RunE:  runServe,
	}
	serveCmd.Flags().BoolVar(&archiveNow, "archive-now", false, "Archive the previous quarter for the watchlist on start")
	serveCmd.Flags().BoolVar(&noTelegram, "no-telegram", false, "Disable Telegram even when configured")

	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch one quarter and print a summary",
		RunE:  runFetch,
	}
	fetchCmd.Flags().StringVar(&ticker, "ticker", "", "Ticker symbol")
	fetchCmd.Flags().IntVar(&year, "year", 0, "Calendar year")
	fetchCmd.Flags().IntVar(&quarter, "quarter", 0, "Quarter (1-4)")
	fetchCmd.Flags().StringVar(&svgOut, "svg", "", "Write the chart to this SVG file")
	fetchCmd.Flags().BoolVar(&save, "save", false, "Store the fetched quarter without annotations")
	_ = fetchCmd.MarkFlagRequired("ticker")
	_ = fetchCmd.MarkFlagRequired("year")
	_ = fetchCmd.MarkFlagRequired("quarter")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print a stored submission",
		RunE:  runShow,
	}
	showCmd.Flags().StringVar(&recordID, "id", "", "Submission id")
	_ = showCmd.MarkFlagRequired("id")

	rootCmd.AddCommand(serveCmd, fetchCmd, showCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	if cfg.DataSource.BaseURL != "" {
		return collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	}
	return collector.NewYahooFetcher(cfg.Proxy)
}

func openRecorder(ctx context.Context, cfg *config.Config) (recorder.Recorder, error) {
	switch cfg.Database.Store {
	case config.StoreMongo:
		return recorder.NewMongoRecorder(ctx, cfg.Database.MongoURI, cfg.Database.MongoDatabase, cfg.Database.MongoCollection)
	case config.StoreSQLite:
		if dir := filepath.Dir(cfg.Database.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
		}
		return recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	default:
		return recorder.NewNoopRecorder(), nil
	}
}

// newService builds the shared service. The caller closes the recorder.
func newService(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (*app.Service, error) {
	fetcher := newFetcher(cfg)
	log.Printf("[INFO] data source: %s", fetcher.Name())

	rec, err := openRecorder(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Database.Store, err)
	}

	svc := app.NewService(collector.NewCollector(fetcher, cfg.DataSource.MaxRetries, m), rec, nil, m)
	svc.Width, svc.Height = cfg.Chart.Width, cfg.Chart.Height
	svc.ChartOpts = cfg.Chart.Options
	return svc, nil
}

func closeRecorder(rec recorder.Recorder) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := rec.Close(ctx); err != nil {
		log.Printf("[WARN] close %s store: %v", rec.Name(), err)
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	log.Println("[INFO] QuarterChart starting...")
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	svc, err := newService(ctx, cfg, m)
	if err != nil {
		return err
	}
	defer closeRecorder(svc.Recorder)

	if cfg.TelegramEnabled() && !noTelegram {
		svc.Notifier = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	}

	watchlist := make([]string, 0, len(cfg.Schedule.Watchlist))
	for _, w := range cfg.Schedule.Watchlist {
		watchlist = append(watchlist, w.Ticker)
	}
	sched := scheduler.NewScheduler(ctx, svc, watchlist)
	if err := sched.Register(cfg.Schedule.ArchiveCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if svc.Notifier != nil {
		go svc.Notifier.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}
	if archiveNow {
		log.Println("[INFO] archive-now enabled, archiving previous quarter")
		go sched.RunArchiveNow()
	}

	srv := web.NewServer(cfg.Server.ListenAddr, svc)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	log.Println("[INFO] QuarterChart is running. Press Ctrl+C to stop.")
	select {
	case <-ctx.Done():
		log.Println("[INFO] shutdown signal received, stopping...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Printf("[WARN] http shutdown: %v", err)
	}
	log.Println("[INFO] QuarterChart stopped")
	return nil
}

func runFetch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	svc, err := newService(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer closeRecorder(svc.Recorder)

	bars, err := svc.Fetch(ctx, ticker, year, quarter)
	if err != nil {
		return fmt.Errorf("%s: %w", app.StatusFetchError, err)
	}
	sym, _ := collector.NormalizeTicker(ticker)
	fmt.Println(notifier.FormatSeriesSummary(sym, year, quarter, bars))

	if svgOut != "" {
		if err := os.WriteFile(svgOut, []byte(svc.RenderChart(bars)), 0o644); err != nil {
			return fmt.Errorf("write svg: %w", err)
		}
		fmt.Printf("chart written to %s\n", svgOut)
	}
	if save {
		id, err := svc.Submit(ctx, model.NewSubmission(sym, year, quarter, [3]model.Annotation{}, bars))
		if err != nil {
			return fmt.Errorf("%s: %w", app.StatusSaveError, err)
		}
		fmt.Printf("%s (id %s)\n", app.StatusSaved, id)
	}
	return nil
}

func runShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	rec, err := openRecorder(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRecorder(rec)

	sub, err := rec.Load(ctx, recordID)
	if err != nil {
		return fmt.Errorf("load %s: %w", recordID, err)
	}
	out, err := json.MarshalIndent(sub, "", "  ")
	if err != nil {
		return fmt.Errorf("encode submission: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
