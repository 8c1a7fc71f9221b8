package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bharatvarsh/bhoomi/internal/app"
	"github.com/bharatvarsh/bhoomi/internal/archive"
	"github.com/bharatvarsh/bhoomi/internal/config"
	"github.com/bharatvarsh/bhoomi/internal/log"
	"github.com/bharatvarsh/bhoomi/internal/rag"
)

// runAsk answers a single question, streaming the answer to stdout as it
// is generated. An optional leading tier argument ("S1", "S2", "S3") caps
// retrieval: bhoomi ask S2 "What caused the Great Fracture?"
func runAsk(cfg *config.Config, logger log.Logger, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: bhoomi ask [tier] <question>")
	}

	var opts rag.QueryOptions
	if archive.ValidTier(args[0]) {
		opts.SpoilerTier = args[0]
		args = args[1:]
	}

	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return fmt.Errorf("question is empty")
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

	answer, err := a.Pipeline.Answer(ctx, question, opts, func(_ context.Context, text string) error {
		_, writeErr := fmt.Fprint(os.Stdout, text)
		return writeErr
	})
	if err != nil {
		return fmt.Errorf("answering question: %w", err)
	}
	fmt.Println()

	logger.Debug("question answered", "chunks", len(answer.Chunks))
	return nil
}
