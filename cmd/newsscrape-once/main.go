// Command newsscrape-once runs a single news scrape in-process and writes the
// article to a file.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/use-agent/newsscrape/config"
	"github.com/use-agent/newsscrape/models"
	"github.com/use-agent/newsscrape/pipeline"
)

const (
	defaultQuery  = "latest technology trends"
	defaultOutput = "scraped_output.json"
)

func main() {
	app := &cli.App{
		Name:  "newsscrape-once",
		Usage: "scrape the top news article for a query and save it",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "query",
				Aliases: []string{"q"},
				Value:   defaultQuery,
				Usage:   "news search query",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   defaultOutput,
				Usage:   "file to write the article to",
			},
			&cli.StringFlag{
				Name:  "format",
				Value: "json",
				Usage: "output format: json or yaml",
			},
			&cli.BoolFlag{
				Name:  "content",
				Usage: "include the main article body as Markdown",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log pipeline progress to stderr",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	format := c.String("format")
	if format != "json" && format != "yaml" {
		return cli.Exit(fmt.Sprintf("unknown format %q (want json or yaml)", format), 2)
	}

	level := slog.LevelWarn
	if c.Bool("verbose") {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	article, err := pipeline.FromConfig(cfg).Run(ctx, c.String("query"), pipeline.RunOptions{
		IncludeContent: c.Bool("content"),
	})
	if err != nil {
		return report(c.App.Writer, err)
	}

	out := c.String("output")
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	if err := writeArticle(f, article, format); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Scraped data saved to %s\n", out)
	return nil
}

// report prints the expected outcomes to w and turns the rest into an exit error.
func report(w io.Writer, err error) error {
	var se *models.ScrapeError
	if errors.As(err, &se) {
		switch se.Code {
		case models.ErrCodeNotFound:
			fmt.Fprintln(w, "No news articles found.")
			return nil
		case models.ErrCodeConfigMissing:
			return cli.Exit(se.Message, 1)
		}
		return cli.Exit(se.Detail(), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// writeArticle encodes the article as indented JSON without HTML escaping,
// or as YAML.
func writeArticle(w io.Writer, article *models.ScrapedArticle, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(article); err != nil {
			return err
		}
		return enc.Close()
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(article); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

