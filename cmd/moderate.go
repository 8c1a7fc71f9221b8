package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/bharatvarsh/bhoomi/internal/app"
	"github.com/bharatvarsh/bhoomi/internal/config"
	"github.com/bharatvarsh/bhoomi/internal/log"
)

// runModerate reads content from stdin, runs it through the gate as the
// given author, and prints the signal as JSON. Exit status is 0 either
// way; a flagged result is an answer, not an error.
func runModerate(cfg *config.Config, logger log.Logger, args []string) error {
	authorID := "cli"
	if len(args) > 0 {
		authorID = args[0]
	}

	content, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	result, err := a.Gate.Evaluate(ctx, string(content), authorID)
	if err != nil {
		return fmt.Errorf("evaluating content: %w", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("encoding signal: %w", err)
	}
	return nil
}
