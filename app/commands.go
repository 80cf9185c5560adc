package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/halfteen/horizons/app/api"
	"github.com/halfteen/horizons/app/cfg"
	"github.com/halfteen/horizons/app/collector"
	"github.com/halfteen/horizons/app/config"
	"github.com/halfteen/horizons/app/database"
	"github.com/halfteen/horizons/app/mailer"
	"github.com/halfteen/horizons/app/summarizer"
)

// itemSummarizer is satisfied by summarizer.Client.
type itemSummarizer interface {
	Summarize(ctx context.Context, title, url, content string) (string, error)
}

// application carries the shared state built once per command: resolved
// configuration, credentials, registry and the open database with its
// repositories. No global state.
type application struct {
	opts *cfg.Opts
	cfg  *cfg.Cfg

	secrets  *config.Secrets
	registry *config.Registry

	db      *sql.DB
	sources *database.SourceRepository
	items   *database.ItemRepository
	runs    *database.RunRepository

	// summarizer is lazily constructed from the configured credentials
	// when left nil; tests install a client pointed at a local server.
	summarizer itemSummarizer
}

// bootstrap resolves configuration, loads credentials and the followee
// registry, migrates the schema and opens the database. A missing secret
// aborts before any component runs.
func (a *application) bootstrap() error {
	a.cfg = a.opts.Build()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if a.cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	secrets, err := config.LoadSecrets(a.cfg.EnvFile)
	if err != nil {
		return err
	}
	a.secrets = secrets

	registry, err := config.LoadRegistry(a.cfg.FolloweesFile)
	if err != nil {
		return err
	}
	a.registry = registry

	if err := database.Migrate(a.cfg.DBPath); err != nil {
		return err
	}
	db, err := database.Open(a.cfg.DBPath)
	if err != nil {
		return err
	}
	a.db = db
	a.sources = database.NewSourceRepository(db)
	a.items = database.NewItemRepository(db)
	a.runs = database.NewRunRepository(db)

	return nil
}

func (a *application) shutdown() {
	if a.db != nil {
		a.db.Close()
	}
}

type initDBCommand struct {
	app *application
}

func (c *initDBCommand) Execute(args []string) error {
	if err := c.app.bootstrap(); err != nil {
		return err
	}
	defer c.app.shutdown()

	fmt.Println("Database initialized")
	return nil
}

type ingestFeedsCommand struct {
	app *application
}

func (c *ingestFeedsCommand) Execute(args []string) error {
	if err := c.app.bootstrap(); err != nil {
		return err
	}
	defer c.app.shutdown()

	feeds := collector.NewFeedCollector(c.app.registry, c.app.sources, c.app.items, c.app.cfg.UserAgent)
	inserted, err := feeds.Ingest(context.Background())
	if err != nil {
		c.app.recordRun(database.RunStatusFailed, fmt.Sprintf("feed ingest failed: %v", err))
		return err
	}

	c.app.recordRun(database.RunStatusOK, fmt.Sprintf("feed ingest inserted %d items", inserted))
	fmt.Printf("Inserted %d new items from feeds\n", inserted)
	return nil
}

type ingestPageCommand struct {
	app *application

	Followee   string `long:"followee" default:"minimax" description:"Followee identifier"`
	SourceName string `long:"source-name" default:"Manual" description:"Friendly source name"`
	SourceURL  string `long:"source-url" default:"manual" description:"Source identifier URL"`

	Args struct {
		URL string `positional-arg-name:"URL" required:"yes" description:"The URL of the interview/article to ingest"`
	} `positional-args:"yes"`
}

func (c *ingestPageCommand) Execute(args []string) error {
	if err := c.app.bootstrap(); err != nil {
		return err
	}
	defer c.app.shutdown()

	pages := collector.NewPageCollector(c.app.registry, c.app.sources, c.app.items, c.app.cfg.UserAgent)
	if err := pages.SyncFollowees(); err != nil {
		return err
	}

	// The manual source is not part of the registry, so register it here
	// before the record is stored.
	err := c.app.sources.UpsertSources(c.Followee, []database.SourceSpec{
		{Name: c.SourceName, URL: c.SourceURL, Kind: config.KindPage},
	})
	if err != nil {
		return err
	}

	record := pages.FetchOne(context.Background(), c.Followee, c.SourceURL, c.Args.URL)
	if record == nil {
		c.app.recordRun(database.RunStatusFailed, fmt.Sprintf("page ingest failed for %s", c.Args.URL))
		return fmt.Errorf("failed to fetch content from %s", c.Args.URL)
	}

	stored, err := pages.StoreRecord(record)
	if err != nil {
		return err
	}
	if stored {
		c.app.recordRun(database.RunStatusOK, fmt.Sprintf("page ingest stored %q", record.Title))
		fmt.Printf("Stored item: %s\n", record.Title)
	} else {
		fmt.Println("Item already exists or failed to store")
	}
	return nil
}

type emailLatestCommand struct {
	app *application

	To         []string `long:"to" description:"Recipient address (repeatable, defaults to the configured mail account)"`
	Paragraphs int      `long:"paragraphs" default:"3" description:"Number of leading paragraphs to include"`
}

func (c *emailLatestCommand) Execute(args []string) error {
	if err := c.app.bootstrap(); err != nil {
		return err
	}
	defer c.app.shutdown()

	item, err := c.app.items.GetLatestItem()
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("no items found in database")
	}

	excerpt := firstParagraphs(item.Content, c.Paragraphs)
	if excerpt == "" {
		return fmt.Errorf("item %d has no content to send", item.ID)
	}

	recipients := c.To
	if len(recipients) == 0 {
		recipients = []string{c.app.secrets.MailAddress}
	}

	m := mailer.New(c.app.secrets.MailAddress, c.app.secrets.MailAppPassword)
	subject := "[Horizons] 访谈片段预览 - " + item.Title
	if err := m.SendMarkdown(subject, snippetBody(item.Title, item.URL, excerpt), recipients); err != nil {
		return err
	}

	fmt.Printf("Email sent to %s\n", strings.Join(recipients, ", "))
	return nil
}

type summarizeCommand struct {
	app *application

	Args struct {
		ItemID int64 `positional-arg-name:"ITEM_ID" required:"yes" description:"Id of the stored item to summarize"`
	} `positional-args:"yes"`
}

func (c *summarizeCommand) Execute(args []string) error {
	if err := c.app.bootstrap(); err != nil {
		return err
	}
	defer c.app.shutdown()

	item, err := c.app.items.GetItem(c.Args.ItemID)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("item %d not found", c.Args.ItemID)
	}

	content := strings.TrimSpace(item.Content)
	if content == "" {
		return fmt.Errorf("item %d has no content to summarize", item.ID)
	}

	client := c.app.summarizer
	if client == nil {
		client = summarizer.NewClient(c.app.secrets.LLMAPIKey)
	}
	summary, err := client.Summarize(context.Background(), item.Title, item.URL, content)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(c.app.cfg.SummariesDir, 0o755); err != nil {
		return fmt.Errorf("failed to create summaries directory: %w", err)
	}
	path := filepath.Join(c.app.cfg.SummariesDir, fmt.Sprintf("item-%d.md", item.ID))
	if err := os.WriteFile(path, []byte(summary+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	status := database.StatusSummarized
	if err := c.app.items.UpdateItem(item.ID, database.ItemPatch{Status: &status, SummaryPath: &path}); err != nil {
		return err
	}

	fmt.Printf("Summary written to %s\n", path)
	return nil
}

type serveCommand struct {
	app *application
}

func (c *serveCommand) Execute(args []string) error {
	if err := c.app.bootstrap(); err != nil {
		return err
	}
	defer c.app.shutdown()

	handler := api.NewHandler(c.app.sources, c.app.items, c.app.cfg.Version)
	server := api.NewServer(handler)

	httpServer := &http.Server{
		Addr:         ":" + c.app.cfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Infof("Starting HTTP server on port %s", c.app.cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown error: %v", err)
	}
	return nil
}

// recordRun appends an audit row; failures are logged, never fatal.
func (a *application) recordRun(status, message string) {
	if err := a.runs.RecordRun(status, message); err != nil {
		log.Errorf("Failed to record run: %v", err)
	}
}

// snippetBody builds the preview mail body: a fixed heading, the item
// metadata as a list, then the excerpt below a rule.
func snippetBody(title, url, excerpt string) string {
	return fmt.Sprintf("# 访谈片段预览\n\n- 标题：%s\n- 原文链接：%s\n\n---\n\n%s\n", title, url, excerpt)
}

// firstParagraphs returns up to n non-empty paragraphs of text, joined by
// blank lines.
func firstParagraphs(text string, n int) string {
	if n <= 0 {
		return ""
	}
	var paragraphs []string
	for _, paragraph := range strings.Split(text, "\n\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}
		paragraphs = append(paragraphs, paragraph)
		if len(paragraphs) == n {
			break
		}
	}
	return strings.Join(paragraphs, "\n\n")
}
