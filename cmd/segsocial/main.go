package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"google.golang.org/genai"

	segsocial "github.com/wachinalpha/Bot-seguridad-social"
	"github.com/wachinalpha/Bot-seguridad-social/chromem"
	"github.com/wachinalpha/Bot-seguridad-social/fs"
	"github.com/wachinalpha/Bot-seguridad-social/gemini"
	"github.com/wachinalpha/Bot-seguridad-social/ingest"
	"github.com/wachinalpha/Bot-seguridad-social/retrieval"
	segslog "github.com/wachinalpha/Bot-seguridad-social/slog"
	"github.com/wachinalpha/Bot-seguridad-social/sqlite"
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
	// Data directory. Set before calling Run().
	DataDir string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	Registry segsocial.DocumentRegistry
	Sessions segsocial.CacheSessionStore
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DataDir: defaultDataDir(),
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
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel()}))

	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("segsocial"),
		kong.Description("Answers questions about Argentine social security law, grounded in the full text of the relevant law."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'segsocial --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Kong reports the selected command with its positionals, e.g.
	// "ask <question>". Global flags may precede the command in args,
	// so the parse result is the only reliable source.
	cmd, _, _ := strings.Cut(kongCtx.Command(), " ")

	// Open database
	if err := os.MkdirAll(m.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory %q: %w", m.DataDir, err)
	}
	m.DB = sqlite.NewDB(filepath.Join(m.DataDir, "segsocial.db"))
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set SEGSOCIAL_DATA to use a different data directory\n")
		return fmt.Errorf("failed to open database in %q: %w", m.DataDir, err)
	}
	defer m.Close()

	// Wire core services into dependencies
	m.Registry = sqlite.NewDocumentRegistry(m.DB)
	m.Sessions = sqlite.NewCacheSessionStore(m.DB)
	contents := fs.NewContentStore(filepath.Join(m.DataDir, "contents"))
	index, err := chromem.NewDocumentIndex(filepath.Join(m.DataDir, "index"))
	if err != nil {
		return fmt.Errorf("failed to open vector index: %w", err)
	}
	deps.DB = m.DB
	deps.Registry = m.Registry
	deps.Sessions = m.Sessions
	deps.Index = index

	// Wire command-specific dependencies based on command
	if cmd == "ingest" {
		client, err := newGeminiClient(ctx, stderr)
		if err != nil {
			return err
		}

		tokens, err := gemini.NewTokenCounter(tokenizerModel)
		if err != nil {
			return fmt.Errorf("failed to create token counter: %w", err)
		}

		deps.Ingester = &ingest.Ingester{
			Registry:    m.Registry,
			Contents:    contents,
			Index:       index,
			Embedder:    gemini.NewEmbedder(client, gemini.DefaultEmbeddingModel),
			Tokens:      tokens,
			SourceDir:   cli.Ingest.Source,
			Concurrency: cli.Ingest.Concurrency,
			Logger:      logger,
		}
	}

	if cmd == "ask" {
		client, err := newGeminiClient(ctx, stderr)
		if err != nil {
			return err
		}

		generator := gemini.NewGenerator(client, cli.Model)
		generator.URLs = documentURLs(ctx, m.Registry)

		ledger := retrieval.NewLedger(generator)
		ledger.TTL = cli.CacheTTL
		ledger.Store = m.Sessions
		ledger.Logger = logger
		if err := ledger.Restore(ctx); err != nil {
			logger.Warn("cache session restore failed", "error", err)
		}

		coordinator := &retrieval.Coordinator{
			Embedder:         gemini.NewEmbedder(client, gemini.DefaultEmbeddingModel),
			Index:            index,
			Contents:         contents,
			Generator:        generator,
			Ledger:           ledger,
			TopK:             cli.TopK,
			AnchorDocumentID: cli.Anchor,
			Logger:           logger,
		}

		deps.Queries = segslog.NewQueryService(coordinator, logger)
	}

	if cmd == "remove" {
		deps.Remover = &ingest.Remover{
			Registry: m.Registry,
			Contents: contents,
			Index:    index,
			Logger:   logger,
		}
	}

	return kongCtx.Run(deps)
}

// tokenizerModel is used for token counting during ingestion.
const tokenizerModel = "gemini-2.5-flash"

// newGeminiClient builds a Gemini API client from the environment.
func newGeminiClient(ctx context.Context, stderr io.Writer) (*genai.Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
		return nil, fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}

	return client, nil
}

// documentURLs collects official law URLs from registry metadata so
// answers can link their citations. Best effort.
func documentURLs(ctx context.Context, registry segsocial.DocumentRegistry) map[string]string {
	docs, err := registry.FindDocuments(ctx, segsocial.DocumentFilter{})
	if err != nil {
		return nil
	}
	urls := make(map[string]string, len(docs))
	for _, doc := range docs {
		if url := doc.Metadata["url"]; url != "" {
			urls[doc.ID] = url
		}
	}
	return urls
}

func defaultDataDir() string {
	if path := os.Getenv("SEGSOCIAL_DATA"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".segsocial"
	}
	return filepath.Join(home, ".segsocial")
}

func logLevel() slog.Level {
	if os.Getenv("SEGSOCIAL_DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}
