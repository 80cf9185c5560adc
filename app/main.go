package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/halfteen/horizons/app/cfg"
)

func main() {
	opts := &cfg.Opts{}
	parser := flags.NewParser(opts, flags.Default)
	parser.LongDescription = "Horizons ingests interviews and articles from feeds and web pages, " +
		"stores them with deduplication, and offers summarization and email dispatch."

	app := &application{opts: opts}

	commands := []struct {
		name  string
		short string
		long  string
		cmd   interface{}
	}{
		{"init-db", "Initialize the database",
			"Create the SQLite database and apply schema migrations.", &initDBCommand{app: app}},
		{"ingest-feeds", "Fetch feed sources for all followees",
			"Fetch syndication feeds for every followee and store new items.", &ingestFeedsCommand{app: app}},
		{"ingest-page", "Ingest a single web page",
			"Fetch one interview or article page, extract its content and store it.", &ingestPageCommand{app: app}},
		{"email-latest", "Email the most recent item",
			"Send the first paragraphs of the most recently ingested item by email.", &emailLatestCommand{app: app}},
		{"summarize", "Summarize a stored item",
			"Summarize a stored item via the language model and write a markdown file.", &summarizeCommand{app: app}},
		{"serve", "Run the read-only HTTP API",
			"Serve item statistics and pending items over HTTP.", &serveCommand{app: app}},
	}
	for _, command := range commands {
		if _, err := parser.AddCommand(command.name, command.short, command.long, command.cmd); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
	}

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) {
			if flagsErr.Type == flags.ErrHelp {
				return
			}
			// go-flags already printed the parse error
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
