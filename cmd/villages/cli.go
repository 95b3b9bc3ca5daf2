package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/villages"
	villageshttp "github.com/fwojciec/villages/http"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Records   villages.RecordService
	Pinger    villageshttp.Pinger
	Extractor villages.Extractor
	Merger    villages.Merger
	Submitter villages.Submitter
	Fetcher   villages.Fetcher
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Store     string `enum:"sqlite,file,mongo" default:"sqlite" env:"VILLAGES_STORE" help:"Record store (sqlite, file, mongo)"`
	DB        string `name:"db" env:"VILLAGES_DB" help:"SQLite database path (default ~/.villages/villages.db)"`
	File      string `default:"extracted_villages.json" env:"VILLAGES_FILE" help:"JSON record file for --store=file"`
	MongoURI  string `name:"mongo-uri" env:"MONGO_URI" help:"MongoDB connection URI for --store=mongo"`
	MongoDB   string `name:"mongo-db" default:"villages" env:"MONGO_DB_NAME" help:"MongoDB database name"`
	Policy    string `default:"rebuild" env:"VILLAGES_POLICY" help:"Merge policy (rebuild, append)"`
	Verbose   bool   `short:"v" help:"Enable debug logging"`
	LogFormat string `enum:"text,json" default:"text" env:"VILLAGES_LOG_FORMAT" help:"Log format (text, json)"`

	Serve   ServeCmd   `cmd:"" help:"Serve the paste form and the record endpoints"`
	Extract ExtractCmd `cmd:"" help:"Print the records in a saved page without storing them"`
	Submit  SubmitCmd  `cmd:"" help:"Extract saved pages and merge them into the store"`
	Fetch   FetchCmd   `cmd:"" help:"Download a saved page and merge its records"`
	List    ListCmd    `cmd:"" help:"List stored records"`
	Reset   ResetCmd   `cmd:"" help:"Delete all stored records"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Host     string        `default:"" env:"HOST" help:"Interface to listen on"`
	Port     int           `default:"3000" env:"PORT" help:"Port to listen on"`
	CacheTTL time.Duration `name:"cache-ttl" default:"30s" help:"How long record listings are cached (0 disables)"`
	Rate     float64       `default:"2" help:"Submissions per second per client (0 disables)"`
	Burst    int           `default:"5" help:"Submission burst per client"`
	Origins  []string      `name:"origin" env:"VILLAGES_CORS_ORIGINS" help:"Allowed CORS origins (repeatable, default any)"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	Path string `arg:"" optional:"" help:"Saved page (default stdin)"`
}

// SubmitCmd is the "submit" subcommand.
type SubmitCmd struct {
	Paths       []string `arg:"" optional:"" help:"Saved pages (default stdin)"`
	Concurrency int      `short:"c" default:"4" help:"Pages parsed concurrently"`
}

// FetchCmd is the "fetch" subcommand.
type FetchCmd struct {
	URL     string        `arg:"" help:"URL of a saved village selection page"`
	Timeout time.Duration `default:"30s" help:"Request timeout"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	JSON bool `help:"Print records as a JSON array"`
}

// ResetCmd is the "reset" subcommand.
type ResetCmd struct {
	Force bool `help:"Confirm deletion"`
}
