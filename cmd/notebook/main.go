// Copyright 2026 Mynk Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/mynk/notebook"
	"github.com/mynk/notebook/config"
	"github.com/mynk/notebook/extract"
	"github.com/mynk/notebook/pipeline"
)

func main() {
	app := &cli.App{
		Name:  "notebook",
		Usage: "Index documents and answer questions grounded in them",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
				Value:   "config.yaml",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Create the collection and write the config file if missing",
				Action: initCommand,
			},
			{
				Name:      "ingest",
				Usage:     "Index one or more documents (pdf, csv, txt, md)",
				ArgsUsage: "FILE [FILE...]",
				Action:    ingestCommand,
			},
			{
				Name:      "query",
				Usage:     "Answer a question from the indexed documents",
				ArgsUsage: "QUESTION",
				Action:    queryCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "files",
						Aliases: []string{"f"},
						Usage:   "Restrict retrieval to the named files",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Number of chunks to retrieve",
						Value: 5,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// setup loads .env for API keys and configures the default logger.
func setup(c *cli.Context) error {
	_ = godotenv.Load()

	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

func initCommand(c *cli.Context) error {
	path := c.String("config")

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		if err := config.Save(path, cfg); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote default config to %s\n", path)
	}

	nb, err := notebook.Open(c.Context, cfg)
	if err != nil {
		return err
	}
	defer nb.Close()

	fmt.Fprintf(os.Stderr, "Collection %q ready (%s index, %d dimensions)\n",
		cfg.Index.Collection, cfg.Index.Type, cfg.Provider.Dimension)
	return nil
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one file is required")
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	nb, err := notebook.Open(c.Context, cfg)
	if err != nil {
		return err
	}
	defer nb.Close()

	for _, path := range c.Args().Slice() {
		if err := ingestFile(c.Context, nb, path); err != nil {
			return fmt.Errorf("ingesting %s: %w", path, err)
		}
	}
	return nil
}

func ingestFile(ctx context.Context, nb *notebook.Notebook, path string) error {
	kind, err := extract.KindForPath(path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	result, err := nb.Ingest(ctx, data, kind, pipeline.Metadata{
		Filename:   filepath.Base(path),
		UploadDate: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Indexed %s: %d chunks\n", filepath.Base(path), result.ChunksStored)
	return nil
}

func queryCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("a question is required")
	}
	question := strings.Join(c.Args().Slice(), " ")

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	nb, err := notebook.Open(c.Context, cfg,
		pipeline.WithSearchLimit(c.Int("limit")))
	if err != nil {
		return err
	}
	defer nb.Close()

	result, err := nb.Query(c.Context, question, c.StringSlice("files"))
	if err != nil {
		return err
	}

	fmt.Println(result.Answer)
	if result.Degraded {
		fmt.Fprintln(os.Stderr, "\n(answer degraded: completion model unavailable)")
	}
	if len(result.Sources) > 0 {
		fmt.Fprintln(os.Stderr, "\nSources:")
		for _, source := range result.Sources {
			fmt.Fprintf(os.Stderr, "  %s (score %.3f)\n", source.Filename, source.Score)
		}
	}
	return nil
}
