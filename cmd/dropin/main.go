package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"github.com/ottawa-dropin/dropin"
	"github.com/ottawa-dropin/dropin/crawl"
	"github.com/ottawa-dropin/dropin/fs"
	"github.com/ottawa-dropin/dropin/goquery"
	dropinhttp "github.com/ottawa-dropin/dropin/http"
	"github.com/ottawa-dropin/dropin/rod"
	dslog "github.com/ottawa-dropin/dropin/slog"
	"github.com/ottawa-dropin/dropin/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Fetcher replaces the browser or HTTP fetcher when set. The caller
	// owns it and Run does not close it.
	Fetcher dropin.Fetcher

	// SQLite database, opened when --db is set.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("dropin"),
		kong.Description("Scrape drop-in activity schedules and upload them"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Configuration(YAMLConfig),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'dropin --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger = newLogger(stderr, cli.Verbose).With("run", uuid.NewString())
	defer m.Close()

	switch kongCtx.Command() {
	case "scrape":
		closeFetcher, err := m.wireScrape(ctx, &cli.Scrape, deps)
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", dropin.ErrorMessage(err))
			return err
		}
		defer closeFetcher()
	case "upload":
		if err := m.wireUpload(&cli.Upload, deps); err != nil {
			fmt.Fprintf(stderr, "error: %s\n", dropin.ErrorMessage(err))
			return err
		}
	}

	return kongCtx.Run(deps)
}

// wireScrape builds the scraper for c. The returned func releases the fetcher.
func (m *Main) wireScrape(ctx context.Context, c *ScrapeCmd, deps *Dependencies) (func(), error) {
	logger := deps.Logger

	provider, err := c.Provider()
	if err != nil {
		return nil, err
	}
	requester, err := newRequester(ctx, provider, c)
	if err != nil {
		return nil, err
	}
	logger.Info("using LLM provider", "provider", provider.Name)

	closeFetcher := func() {}
	fetcher := m.Fetcher
	if fetcher == nil {
		if c.Static {
			fetcher = dropinhttp.NewFetcher(dropinhttp.WithTimeout(c.FetchTimeout))
		} else {
			browser, err := rod.NewFetcher(rod.WithFetchTimeout(c.FetchTimeout))
			if err != nil {
				fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed, or use --static")
				return nil, fmt.Errorf("failed to start browser: %w", err)
			}
			fetcher = browser
		}
		closeFetcher = func() {
			if err := fetcher.Close(); err != nil {
				logger.Error("failed to close fetcher", "error", err)
			}
		}
	}

	cacheStore, scheduleStore, err := m.stores(c.DB, c.CacheFile, c.SchedulesFile, c.InvalidFile)
	if err != nil {
		closeFetcher()
		return nil, err
	}

	cache := crawl.NewTableCache()
	var retryDelays []time.Duration
	if c.Retry {
		retryDelays = crawl.DefaultRetryDelays()
	}

	deps.Scraper = &crawl.Scraper{
		Fetcher: dslog.NewLoggingFetcher(fetcher, logger),
		Parser:  goquery.NewParser(),
		Extractor: &crawl.TableExtractor{
			Requester:      dslog.NewLoggingRequester(requester, provider.Name, logger),
			Cache:          cache,
			Logger:         logger,
			MaxTableLength: c.MaxTableLength,
			RequestTimeout: c.LLMTimeout,
		},
		Cache:       cache,
		CacheStore:  dslog.NewLoggingCacheStore(cacheStore, logger),
		Schedules:   scheduleStore,
		RateLimiter: crawl.NewDomainLimiter(c.Rate),
		Logger:      logger,
		ListURL:     c.ListURL,
		BaseURL:     c.BaseURL,
		RetryDelays: retryDelays,
	}
	return closeFetcher, nil
}

// wireUpload builds the uploader and the schedule source for c.
func (m *Main) wireUpload(c *UploadCmd, deps *Dependencies) error {
	if c.URL == "" {
		return dropin.Errorf(dropin.ECONFIG, "upload URL not set. Use --upload-url or UPLOAD_API_URL")
	}
	if c.APIKey == "" {
		return dropin.Errorf(dropin.ECONFIG, "upload API key not set. Use --upload-api-key or UPLOAD_API_KEY")
	}

	_, scheduleStore, err := m.stores(c.DB, "", c.SchedulesFile, "")
	if err != nil {
		return err
	}
	deps.Schedules = scheduleStore
	deps.Uploader = dslog.NewLoggingUploader(dropinhttp.NewUploader(c.URL, c.APIKey, deps.Logger), deps.Logger)
	return nil
}

// stores returns the SQLite stores when dbPath is set and the JSON file
// stores otherwise.
func (m *Main) stores(dbPath, cacheFile, schedulesFile, invalidFile string) (dropin.CacheStore, dropin.ScheduleStore, error) {
	if dbPath == "" {
		return fs.NewCacheStore(cacheFile), fs.NewScheduleStore(schedulesFile, invalidFile), nil
	}

	m.DB = sqlite.NewDB(dbPath)
	if err := m.DB.Open(); err != nil {
		m.DB = nil
		return nil, nil, dropin.Errorf(dropin.ECONFIG, "failed to open database at %q: %v", dbPath, err)
	}
	return sqlite.NewCacheStore(m.DB), sqlite.NewScheduleStore(m.DB), nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
