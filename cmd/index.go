package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/bharatvarsh/bhoomi/internal/app"
	"github.com/bharatvarsh/bhoomi/internal/archive"
	"github.com/bharatvarsh/bhoomi/internal/config"
	"github.com/bharatvarsh/bhoomi/internal/log"
)

// runIndex seeds the built-in canon and, when a directory is given,
// indexes every .md and .txt file in it as lore.
//
// A file's spoiler tier comes from its name suffix: "fracture.S2.md"
// indexes at tier S2. Files without a tier suffix index untiered.
func runIndex(cfg *config.Config, logger log.Logger, args []string) error {
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

	seeded, err := a.Seeder.SeedCanon(ctx)
	if err != nil {
		return fmt.Errorf("seeding canon: %w", err)
	}
	fmt.Printf("Seeded %d canon chunks\n", seeded)

	if len(args) == 0 {
		return nil
	}

	dir := args[0]
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading lore directory: %w", err)
	}

	total := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if ext != ".md" && ext != ".txt" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("reading %q: %w", name, err)
		}

		indexed, err := a.Seeder.IndexText(ctx, name, string(data), tierFromFilename(name))
		if err != nil {
			return fmt.Errorf("indexing %q: %w", name, err)
		}
		fmt.Printf("Indexed %q: %d chunks\n", name, indexed)
		total += indexed
	}

	count, err := a.Archive.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting chunks: %w", err)
	}
	fmt.Printf("Indexed %d file chunks; archive now holds %d chunks\n", total, count)
	return nil
}

// tierFromFilename extracts a spoiler tier from names like "fracture.S2.md".
func tierFromFilename(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if idx := strings.LastIndex(base, "."); idx >= 0 {
		if tier := base[idx+1:]; archive.ValidTier(tier) {
			return tier
		}
	}
	return ""
}
