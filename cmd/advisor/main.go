// Copyright 2026 Finsight Systems
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
	"strings"
	"time"

	"github.com/finsight/advisor"
	"github.com/finsight/advisor/ai"
	"github.com/finsight/advisor/core"
	"github.com/finsight/advisor/ingestion"
	"github.com/finsight/advisor/orchestration"
	"github.com/finsight/advisor/search"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "advisor",
		Usage: "Customer banking advisory engine backed by policy retrieval",
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
				Name:      "ingest",
				Usage:     "Ingest policy documents from a directory into the chunk store",
				ArgsUsage: "<docs-dir>",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "ai-host",
						Usage: "OpenAI-compatible service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Target chunk size in characters",
						Value: ingestion.DefaultChunkSize,
					},
					&cli.IntFlag{
						Name:  "chunk-overlap",
						Usage: "Overlap between adjacent oversized-split chunks",
						Value: ingestion.DefaultChunkOverlap,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent embedding workers",
						Value: 4,
					},
				},
			},
			{
				Name:      "analyze",
				Usage:     "Run the full advisory pipeline for a customer query",
				ArgsUsage: "<query...>",
				Action:    analyzeCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "customer",
						Aliases:  []string{"c"},
						Usage:    "Customer identifier to analyze",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "ai-host",
						Usage: "OpenAI-compatible service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "reasoning-model",
						Usage:    "Reasoning model name for analysis stages",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "customer-db",
						Usage: "PostgreSQL DSN for the live customer store (sample data when omitted)",
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Deadline for the whole pipeline run",
						Value: orchestration.DefaultTimeout,
					},
					&cli.IntFlag{
						Name:  "evidence-limit",
						Usage: "Policy chunks retrieved per analysis stage",
						Value: orchestration.DefaultEvidenceLimit,
					},
					&cli.IntFlag{
						Name:  "max-attempts",
						Usage: "Maximum attempts for transient stage failures",
						Value: 2,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 500 * time.Millisecond,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Emit the report as JSON instead of formatted text",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Query the policy chunk store for one topic",
				ArgsUsage: "<query...>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "topic",
						Aliases:  []string{"t"},
						Usage:    "Policy topic to search within",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "ai-host",
						Usage: "OpenAI-compatible service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of hits to return",
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

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	docsDir := c.Args().First()
	if docsDir == "" {
		return fmt.Errorf("docs directory argument is required")
	}
	if c.Int("chunk-size") <= 0 {
		return fmt.Errorf("chunk-size must be greater than 0")
	}
	if c.Int("workers") <= 0 {
		return fmt.Errorf("workers must be greater than 0")
	}

	system, err := advisor.NewSystem(c.String("db"), advisor.WithAIConfig(aiConfigFromFlags(c)))
	if err != nil {
		return fmt.Errorf("failed to open system: %w", err)
	}
	defer system.Close()

	pipeline, err := system.NewIngestionPipeline(
		ingestion.WithChunkSize(c.Int("chunk-size")),
		ingestion.WithChunkOverlap(c.Int("chunk-overlap")),
		ingestion.WithPoolSize(c.Int("workers")),
	)
	if err != nil {
		return fmt.Errorf("failed to create ingestion pipeline: %w", err)
	}
	defer pipeline.Release()

	inserted, err := pipeline.IngestDir(ctx, docsDir)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Ingested %d new chunks from %s\n", inserted, docsDir)
	return nil
}

func analyzeCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("a customer query argument is required")
	}
	if c.Int("max-attempts") <= 0 {
		return fmt.Errorf("max-attempts must be greater than 0")
	}

	systemOpts := []advisor.SystemOption{advisor.WithAIConfig(aiConfigFromFlags(c))}
	if dsn := c.String("customer-db"); dsn != "" {
		systemOpts = append(systemOpts, advisor.WithCustomerDatabase(dsn))
	}

	system, err := advisor.NewSystem(c.String("db"), systemOpts...)
	if err != nil {
		return fmt.Errorf("failed to open system: %w", err)
	}
	defer system.Close()

	orchestrator, err := system.NewOrchestrator(
		orchestration.WithTimeout(c.Duration("timeout")),
		orchestration.WithEvidenceLimit(c.Int("evidence-limit")),
		orchestration.WithRetry(c.Int("max-attempts"), c.Duration("retry-delay")),
	)
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}

	report, runErr := orchestrator.Run(ctx, c.String("customer"), query)
	if report == nil {
		return fmt.Errorf("analysis failed: %w", runErr)
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "analysis incomplete: %v\n", runErr)
	}

	if c.Bool("json") {
		data, err := core.EncodeReport(report)
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	printReport(report)
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("a search query argument is required")
	}

	system, err := advisor.NewSystem(c.String("db"), advisor.WithAIConfig(aiConfigFromFlags(c)))
	if err != nil {
		return fmt.Errorf("failed to open system: %w", err)
	}
	defer system.Close()

	searcher, err := system.NewSearcher()
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	monitor := &search.LoggingMonitor{Logger: slog.Default()}
	hits, err := searcher.QueryWithMonitor(ctx, c.String("topic"), query, c.Int("limit"), monitor)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Printf("Found %d hits\n", len(hits))
	for i, hit := range hits {
		fmt.Printf("%d: [%s #%d] %0.3f (semantic %0.3f, keyword %0.3f)\n",
			i, hit.Chunk.DocumentID, hit.Chunk.Ordinal, hit.Score, hit.Semantic, hit.Keyword)
		fmt.Printf("   %s\n", hit.Chunk.Text)
	}
	return nil
}

func aiConfigFromFlags(c *cli.Context) *ai.Config {
	reasoningModel := c.String("reasoning-model")
	if reasoningModel == "" {
		// Ingest and search never call the reasoning model; a dummy value
		// satisfies config validation.
		reasoningModel = "dummy"
	}
	return ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithReasoningModel(reasoningModel),
	)
}

func printReport(report *core.Report) {
	fmt.Printf("Run:      %s\n", report.RunID)
	fmt.Printf("Customer: %s (%s data)\n", report.CustomerID, report.Provenance)
	fmt.Printf("Risk:     %0.2f (%s)\n", report.Risk.Score, report.Risk.Tier)
	if report.Partial {
		fmt.Println("Status:   PARTIAL (pipeline deadline reached before all stages ran)")
	}
	fmt.Printf("\n%s\n", report.Summary)

	if len(report.Findings) > 0 {
		fmt.Println("\nFindings:")
		for _, f := range report.Findings {
			fmt.Printf("  - %s\n", f)
		}
	}
	if len(report.Recommendations) > 0 {
		fmt.Println("\nRecommendations:")
		for _, r := range report.Recommendations {
			fmt.Printf("  - %s\n", r)
		}
	}
	if len(report.PolicyReferences) > 0 {
		fmt.Println("\nPolicy references:")
		for _, p := range report.PolicyReferences {
			fmt.Printf("  - %s\n", p)
		}
	}
	fmt.Printf("\nAgents: %s (%.1fs)\n", strings.Join(report.Agents, ", "), report.ElapsedSeconds)
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
