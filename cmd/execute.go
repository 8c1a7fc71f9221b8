// Package cmd contains the CLI entry points.
//
// Commands:
//
//	serve      start the internal HTTP API server
//	index      seed built-in canon and index lore files
//	ask        one-shot question answered on stdout
//	moderate   evaluate content from stdin through the gate
//	version    print version information
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/bharatvarsh/bhoomi/internal/config"
	"github.com/bharatvarsh/bhoomi/internal/log"
)

// Version information (injected at build time via ldflags).
var (
	AppVersion = "0.1.0"
	BuildTime  = "unknown"
	GitCommit  = "unknown"
)

// Execute is the main entry point for the CLI. It handles command routing
// and is designed to be called from main().
func Execute() error {
	// A missing .env.local is fine; deployments export env vars directly.
	_ = godotenv.Load(".env.local")

	args := os.Args[1:]
	if len(args) == 0 {
		printHelp()
		return nil
	}

	// version and help work even when config is invalid.
	switch args[0] {
	case "version", "--version", "-v":
		return printVersionInfo(os.Stdout)
	case "help", "--help", "-h":
		printHelp()
		return nil
	}

	logger := initLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	switch args[0] {
	case "serve":
		return runServe(cfg, logger)
	case "index":
		return runIndex(cfg, logger, args[1:])
	case "ask":
		return runAsk(cfg, logger, args[1:])
	case "moderate":
		return runModerate(cfg, logger, args[1:])
	default:
		printHelp()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// initLogger builds the structured logger from environment settings.
// Logs go to stderr; stdout is reserved for command output.
func initLogger() log.Logger {
	level := slog.LevelInfo
	switch os.Getenv("BHOOMI_LOG_LEVEL") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	return log.NewWithWriter(os.Stderr, log.Config{
		Level: level,
		JSON:  os.Getenv("BHOOMI_LOG_JSON") == "true",
	})
}

func printHelp() {
	fmt.Print(`bhoomi - Archives of Bharatvarsh guide service

Usage:
  bhoomi <command> [arguments]

Commands:
  serve              start the internal HTTP API server
  index [dir]        seed built-in canon; optionally index lore files from dir
  ask <question>     answer a single question on stdout
  moderate           read content from stdin and print the moderation signal
  version            print version information
  help               show this help

Environment:
  GEMINI_API_KEY               Google AI API key (required)
  BHOOMI_INTERNAL_API_SECRET   bearer token for the internal API (required)
  DATABASE_URL                 PostgreSQL connection URL
  BHOOMI_LOG_LEVEL             debug, info, warn, error (default info)
`)
}
