package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AndreyKolygin/jobgrab"
	"github.com/AndreyKolygin/jobgrab/bloom"
	"github.com/AndreyKolygin/jobgrab/extract"
	"github.com/AndreyKolygin/jobgrab/fs"
	"github.com/AndreyKolygin/jobgrab/goquery"
	"github.com/AndreyKolygin/jobgrab/htmltomarkdown"
	jghttp "github.com/AndreyKolygin/jobgrab/http"
	"github.com/AndreyKolygin/jobgrab/readability"
	"github.com/AndreyKolygin/jobgrab/rod"
	jgslog "github.com/AndreyKolygin/jobgrab/slog"
	"github.com/AndreyKolygin/jobgrab/sqlite"
	"github.com/AndreyKolygin/jobgrab/trafilatura"
	"github.com/alecthomas/kong"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	SiteRuleService jobgrab.SiteRuleService
	ResultService   jobgrab.ResultService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
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
		kong.Name("jobgrab"),
		kong.Description("Extract job postings from web pages with CSS rules."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'jobgrab --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set JOBGRAB_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	if m.SiteRuleService == nil {
		m.SiteRuleService = sqlite.NewSiteRuleService(m.DB)
	}
	if m.ResultService == nil {
		m.ResultService = sqlite.NewResultService(m.DB)
	}
	deps.SiteRules = jgslog.NewLoggingSiteRuleService(m.SiteRuleService, logger)
	deps.Results = m.ResultService
	deps.Boards = goquery.NewDefaultRegistry()

	snapshotDir := cli.Snapshots
	if snapshotDir == "" {
		snapshotDir = defaultSnapshotDir()
	}
	deps.Snapshots = fs.NewSnapshotStore(snapshotDir)

	var articles jobgrab.ArticleExtractor = trafilatura.NewExtractor()
	if cli.Extractor == "readability" {
		articles = readability.NewExtractor()
	}
	evaluator := goquery.NewEvaluator(articles, htmltomarkdown.NewConverter())

	switch cmd {
	case "extract", "auto":
		manager, err := rod.NewBrowserManager(rod.WithHeadless(!cli.Headful))
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		defer manager.Close()
		tabs := rod.NewTabService(manager)
		defer tabs.Close()

		deps.Tabs = jgslog.NewLoggingTabService(tabs, logger)
		deps.Frames = tabs
		injector := jgslog.NewLoggingInjector(extract.NewInjector(tabs, evaluator), logger)
		deps.Orchestrator = extract.NewOrchestrator(injector, deps.Results)
		deps.Orchestrator.Tabs = tabs
		deps.Orchestrator.Logger = logger

		if cmd == "auto" {
			deps.Limiter = extract.NewDomainLimiter(cli.Auto.RPS)
			deps.Seen = bloom.NewFilter(uint(max(len(cli.Auto.URLs), 100)), 0.001)
		}

	case "eval":
		// Snapshot names stand in for tab IDs; replays are not persisted.
		deps.Frames = deps.Snapshots
		injector := jgslog.NewLoggingInjector(extract.NewInjector(deps.Snapshots, evaluator), logger)
		deps.Orchestrator = extract.NewOrchestrator(injector, nil)
		deps.Orchestrator.Logger = logger

	case "snapshot", "links":
		useHTTP := cli.Links.HTTP
		if cmd == "snapshot" {
			if cli.Snapshot.List {
				break
			}
			useHTTP = cli.Snapshot.HTTP
		}
		if useHTTP {
			fetcher := jghttp.NewFetcher(jghttp.WithFrames(true))
			defer fetcher.Close()
			deps.Fetcher = jgslog.NewLoggingFetcher(fetcher, logger)
			break
		}
		manager, err := rod.NewBrowserManager(rod.WithHeadless(!cli.Headful))
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed, or pass --http")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		defer manager.Close()
		fetcher, err := rod.NewFetcher(rod.WithManager(manager), rod.WithSettle(fetchSettle))
		if err != nil {
			return fmt.Errorf("failed to start browser: %w", err)
		}
		defer fetcher.Close()
		deps.Fetcher = jgslog.NewLoggingFetcher(fetcher, logger)
	}

	return kongCtx.Run(deps)
}

// fetchSettle gives client-rendered boards time to hydrate before capture.
const fetchSettle = 1500 * time.Millisecond

func defaultDBPath() string {
	if path := os.Getenv("JOBGRAB_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "jobgrab.db"
	}
	dir := filepath.Join(home, ".jobgrab")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "jobgrab.db")
}

func defaultSnapshotDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "snapshots"
	}
	return filepath.Join(home, ".jobgrab", "snapshots")
}
