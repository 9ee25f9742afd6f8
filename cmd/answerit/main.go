// Copyright 2025 Poiesic Systems
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
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/poiesic/answerit"
	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/ingestion"
	"github.com/poiesic/answerit/server"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "answerit",
		Usage: "Question-answering lookup service over a knowledge base",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the knowledge base over HTTP",
				Action: serveCommand,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address (overrides ANSWERIT_ADDR)",
					},
				),
			},
			{
				Name:      "ask",
				Usage:     "Ask a single question from the command line",
				Action:    askCommand,
				ArgsUsage: "<question>",
				Flags:     commonFlags(),
			},
			{
				Name:      "ingest",
				Usage:     "Ingest question/answer pairs from a JSON file",
				Action:    ingestCommand,
				ArgsUsage: "<pairs.json>",
				Flags: append(commonFlags(),
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for embedding calls",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: time.Second,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to BadgerDB knowledge base directory",
			Value:   "./answerit_db",
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
	}
}

func openService(c *cli.Context) (*answerit.Service, error) {
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	service, err := answerit.NewService(c.String("db"), answerit.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open knowledge base: %w", err)
	}
	return service, nil
}

func serveCommand(c *cli.Context) error {
	service, err := openService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	pipeline, err := service.NewMatchPipeline()
	if err != nil {
		return err
	}

	cfg := server.LoadConfig()
	if addr := c.String("addr"); addr != "" {
		cfg.Addr = addr
	}

	srv, err := server.NewServer(pipeline, cfg, server.WithRecorder(service.Recorder()))
	if err != nil {
		return err
	}

	// Serve until interrupted
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(cfg.Addr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-stop:
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("question is required")
	}

	service, err := openService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	pipeline, err := service.NewMatchPipeline()
	if err != nil {
		return err
	}

	result := pipeline.Match(c.Context, &core.Query{Text: question})
	if result.Found {
		fmt.Println(result.Answer)
		fmt.Fprintf(os.Stderr, "match=%s similarity=%.2f confidence=%.2f question=%q\n",
			result.Type, result.Similarity, result.Confidence, result.MatchedQuestion)
		return nil
	}

	fmt.Println("No answer found.")
	fmt.Fprintf(os.Stderr, "best: match=%s similarity=%.2f confidence=%.2f\n",
		result.Type, result.Similarity, result.Confidence)
	return nil
}

func ingestCommand(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("exactly one pairs file is required")
	}

	file, err := os.Open(c.Args().First())
	if err != nil {
		return fmt.Errorf("failed to open pairs file: %w", err)
	}
	defer file.Close()

	pairs, err := ingestion.LoadPairs(file)
	if err != nil {
		return err
	}

	service, err := openService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	pipeline, err := service.NewIngestionPipeline(
		ingestion.WithRetry(c.Int("max-retries"), c.Duration("retry-delay")))
	if err != nil {
		return err
	}
	defer pipeline.Release()

	count, err := pipeline.Ingest(c.Context, pairs)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "ingested %d records\n", count)
	return nil
}

func setupLogger(c *cli.Context) error {
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
