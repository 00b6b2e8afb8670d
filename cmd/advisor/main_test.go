package main

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestAnalyzeCommandFlags(t *testing.T) {
	app := &cli.App{
		Name: "advisor",
		Commands: []*cli.Command{
			{
				Name:   "analyze",
				Usage:  "Run the full advisory pipeline for a customer query",
				Action: analyzeCommand,
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
					&cli.IntFlag{
						Name:  "evidence-limit",
						Usage: "Policy chunks retrieved per analysis stage",
						Value: 4,
					},
					&cli.IntFlag{
						Name:  "max-attempts",
						Usage: "Maximum attempts for transient stage failures",
						Value: 2,
					},
				},
			},
		},
	}

	t.Run("customer is required", func(t *testing.T) {
		args := []string{"advisor", "analyze", "--db", "/tmp/test",
			"--embedding-model", "m", "--reasoning-model", "r", "query"}
		err := app.Run(args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "customer")
	})

	t.Run("reasoning-model is required", func(t *testing.T) {
		args := []string{"advisor", "analyze", "--db", "/tmp/test",
			"--customer", "12345", "--embedding-model", "m", "query"}
		err := app.Run(args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reasoning-model")
	})

	t.Run("ai-host has default value", func(t *testing.T) {
		cmd := app.Commands[0]
		var hostFlag *cli.StringFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "ai-host" {
				hostFlag = f
				break
			}
		}
		require.NotNil(t, hostFlag)
		assert.Equal(t, "http://localhost:11434/v1", hostFlag.Value)
	})

	t.Run("evidence-limit has default value of 4", func(t *testing.T) {
		cmd := app.Commands[0]
		var limitFlag *cli.IntFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.IntFlag); ok && f.Name == "evidence-limit" {
				limitFlag = f
				break
			}
		}
		require.NotNil(t, limitFlag)
		assert.Equal(t, 4, limitFlag.Value)
	})

	t.Run("max-attempts has default value of 2", func(t *testing.T) {
		cmd := app.Commands[0]
		var attemptsFlag *cli.IntFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.IntFlag); ok && f.Name == "max-attempts" {
				attemptsFlag = f
				break
			}
		}
		require.NotNil(t, attemptsFlag)
		assert.Equal(t, 2, attemptsFlag.Value)
	})
}

func TestIngestCommandValidation(t *testing.T) {
	app := &cli.App{
		Name: "advisor",
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Ingest policy documents from a directory into the chunk store",
				Action: ingestCommand,
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
						Value: 1000,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent embedding workers",
						Value: 4,
					},
				},
			},
		},
	}

	t.Run("missing db flag fails", func(t *testing.T) {
		args := []string{"advisor", "ingest", "--embedding-model", "m", "/tmp/docs"}
		err := app.Run(args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db")
	})

	t.Run("missing docs directory argument fails", func(t *testing.T) {
		args := []string{"advisor", "ingest", "--db", t.TempDir(), "--embedding-model", "m"}
		err := app.Run(args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "docs directory")
	})

	t.Run("zero chunk-size fails", func(t *testing.T) {
		args := []string{"advisor", "ingest", "--db", t.TempDir(),
			"--embedding-model", "m", "--chunk-size", "0", "/tmp/docs"}
		err := app.Run(args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "chunk-size")
	})

	t.Run("zero workers fails", func(t *testing.T) {
		args := []string{"advisor", "ingest", "--db", t.TempDir(),
			"--embedding-model", "m", "--workers", "0", "/tmp/docs"}
		err := app.Run(args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "workers")
	})
}

func TestSetupLogger(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected slog.Level
		}{
			{"debug", slog.LevelDebug},
			{"info", slog.LevelInfo},
			{"warn", slog.LevelWarn},
			{"error", slog.LevelError},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "log-level",
							Value: tc.input,
						},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error {
						return nil
					},
				}

				err := app.Run([]string{"test", "--log-level", tc.input})
				require.NoError(t, err)
			})
		}
	})

	t.Run("case insensitive log levels", func(t *testing.T) {
		testCases := []string{
			"DEBUG",
			"Info",
			"WaRn",
			"ERROR",
		}

		for _, tc := range testCases {
			t.Run(tc, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "log-level",
							Value: "info",
						},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error {
						return nil
					},
				}

				err := app.Run([]string{"test", "--log-level", tc})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		app := &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "log-level",
					Value: "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				return nil
			},
		}

		err := app.Run([]string{"test", "--log-level", "invalid"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
		assert.Contains(t, err.Error(), "invalid")
	})

	t.Run("default log level is info", func(t *testing.T) {
		app := &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "log-level",
					Value: "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				level := c.String("log-level")
				assert.Equal(t, "info", level)
				return nil
			},
		}

		err := app.Run([]string{"test"})
		require.NoError(t, err)
	})

	t.Run("log-level flag has alias -l", func(t *testing.T) {
		app := &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "log-level",
					Aliases: []string{"l"},
					Value:   "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				level := c.String("log-level")
				assert.Equal(t, "debug", level)
				return nil
			},
		}

		err := app.Run([]string{"test", "-l", "debug"})
		require.NoError(t, err)
	})
}

func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}
