package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/villages"
	"github.com/fwojciec/villages/cache"
	"github.com/fwojciec/villages/fs"
	"github.com/fwojciec/villages/goquery"
	villageshttp "github.com/fwojciec/villages/http"
	"github.com/fwojciec/villages/merge"
	"github.com/fwojciec/villages/mongo"
	villagesslog "github.com/fwojciec/villages/slog"
	"github.com/fwojciec/villages/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path used when --db is not given. Set before calling Run().
	DBPath string

	// Input for commands that read a page from stdin.
	Stdin io.Reader

	// Opened backends. At most one is set after Run() opens the store.
	SQLite *sqlite.DB
	File   *fs.FileStore
	Mongo  *mongo.DB

	// Services for end-to-end testing.
	RecordService villages.RecordService
	Merger        villages.Merger
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
		Stdin:  os.Stdin,
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var errs []error
	if m.SQLite != nil {
		errs = append(errs, m.SQLite.Close())
	}
	if m.File != nil {
		errs = append(errs, m.File.Close())
	}
	if m.Mongo != nil {
		errs = append(errs, m.Mongo.Close())
	}
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("villages"),
		kong.Description("Extract village dropdowns from pasted land-records pages and keep a deduplicated list"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'villages --help' to see available commands")
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

	logger := villagesslog.NewLogger(stderr, cli.LogFormat, cli.Verbose)
	deps.Logger = logger
	deps.Extractor = villagesslog.NewLoggingExtractor(goquery.NewExtractor(), logger)

	if cmd == "fetch" {
		deps.Fetcher = villagesslog.NewLoggingFetcher(villageshttp.NewFetcher(villageshttp.WithTimeout(cli.Fetch.Timeout)), logger)
		defer deps.Fetcher.Close()
	}

	// extract never touches the store.
	if cmd == "extract" {
		return kongCtx.Run(deps)
	}

	policy, err := villages.ParseMergePolicy(cli.Policy)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: --policy must be rebuild or append")
		return err
	}

	if err := m.openStore(ctx, cli, stderr); err != nil {
		return err
	}
	defer m.Close()

	var records villages.RecordService = villagesslog.NewLoggingRecordService(m.RecordService, logger)
	mergeRecords := records
	if cmd == "serve" && cli.Serve.CacheTTL > 0 {
		// The cache only serves HTTP reads; merges read the store directly.
		cached := cache.NewRecordService(records, cli.Serve.CacheTTL)
		records, mergeRecords = cached, cached.Uncached()
	}

	merger := merge.NewMerger(mergeRecords, policy)
	m.Merger = merger

	deps.Records = records
	deps.Pinger = m.pinger()
	deps.Merger = merger
	deps.Submitter = villagesslog.NewLoggingSubmitter(merge.NewSubmitter(deps.Extractor, merger), logger)

	return kongCtx.Run(deps)
}

// openStore opens the backend selected by --store.
func (m *Main) openStore(ctx context.Context, cli *CLI, stderr io.Writer) error {
	switch cli.Store {
	case "file":
		m.File = fs.NewFileStore(cli.File)
		if err := m.File.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set VILLAGES_FILE to use a different record file\n")
			return fmt.Errorf("failed to open record file %q: %w", cli.File, err)
		}
		m.RecordService = m.File

	case "mongo":
		if cli.MongoURI == "" {
			fmt.Fprintln(stderr, "Hint: Set MONGO_URI, e.g. mongodb://localhost:27017")
			return villages.Errorf(villages.EINVALID, "MONGO_URI is required when --store=mongo")
		}
		m.Mongo = mongo.NewDB(cli.MongoURI, cli.MongoDB)
		if err := m.Mongo.Open(ctx); err != nil {
			return fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		m.RecordService = mongo.NewRecordService(m.Mongo)

	default:
		path := cli.DB
		if path == "" {
			path = m.DBPath
		}
		m.SQLite = sqlite.NewDB(path)
		if err := m.SQLite.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set VILLAGES_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", path, err)
		}
		m.RecordService = sqlite.NewRecordService(m.SQLite)
	}
	return nil
}

// pinger returns the opened backend for health checks.
func (m *Main) pinger() villageshttp.Pinger {
	switch {
	case m.SQLite != nil:
		return m.SQLite
	case m.Mongo != nil:
		return m.Mongo
	case m.File != nil:
		return m.File
	}
	return nil
}

func defaultDBPath() string {
	if path := os.Getenv("VILLAGES_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "villages.db"
	}
	dir := filepath.Join(home, ".villages")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "villages.db")
}

// newDiscardLogger is used when a command runs without a configured logger.
func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
