package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	segsocial "github.com/wachinalpha/Bot-seguridad-social"
	"github.com/wachinalpha/Bot-seguridad-social/ingest"
	"github.com/wachinalpha/Bot-seguridad-social/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	DB       *sqlite.DB
	Registry segsocial.DocumentRegistry
	Index    segsocial.DocumentIndex
	Sessions segsocial.CacheSessionStore
	Ingester *ingest.Ingester
	Remover  *ingest.Remover
	Queries  segsocial.QueryService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Model    string        `help:"Generation model" default:"gemini-2.5-flash"`
	CacheTTL time.Duration `name:"cache-ttl" help:"Prepared context lifetime" default:"60m"`
	TopK     int           `name:"top-k" help:"Retrieval candidate count" default:"3"`
	Anchor   string        `help:"Document promoted on ties" default:"ley_24714"`

	Ingest     IngestCmd     `cmd:"" help:"Load the legal corpus from a config file"`
	Ask        AskCmd        `cmd:"" help:"Ask a question about the corpus"`
	Docs       DocsCmd       `cmd:"" help:"List ingested documents"`
	Remove     RemoveCmd     `cmd:"" help:"Remove a document from every store"`
	Invalidate InvalidateCmd `cmd:"" help:"Drop persisted cache sessions for a document"`
	Stats      StatsCmd      `cmd:"" help:"Show corpus and storage statistics"`
}

// IngestCmd is the "ingest" subcommand.
type IngestCmd struct {
	Config      string `arg:"" help:"Corpus config JSON file"`
	Source      string `short:"s" default:"corpus" help:"Directory with converted law texts"`
	Concurrency int    `short:"c" default:"4" help:"Concurrent law limit"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question string `arg:"" help:"Question about Argentine social security law"`
	Doc      string `help:"Ground the answer in a specific document, bypassing retrieval"`
}

// DocsCmd is the "docs" subcommand.
type DocsCmd struct {
	Category string `help:"Filter by category"`
	Full     bool   `help:"Show summaries"`
}

// RemoveCmd is the "remove" subcommand.
type RemoveCmd struct {
	ID    string `arg:"" help:"Document ID, e.g. ley_24241"`
	Force bool   `help:"Confirm removal"`
}

// InvalidateCmd is the "invalidate" subcommand.
type InvalidateCmd struct {
	ID string `arg:"" help:"Document ID, e.g. ley_24241"`
}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct{}
