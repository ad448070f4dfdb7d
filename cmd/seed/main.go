// Command seed copies a docs file and a noise word file into the postgres or
// bolt store the search service builds from.
//
//	seed -config configs/development.yaml -target bolt -docs docs.txt -noise noisewords.txt
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adithya-Monish-Kumar-K/keyword-index/internal/source"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/internal/source/filesource"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "optional config file")
	target := fs.String("target", "", "store to fill: postgres or bolt (default indexer.source)")
	boltPath := fs.String("bolt", "", "bolt file (default indexer.boltPath)")
	docs := fs.String("docs", "", "file listing the document files (default indexer.docsFile)")
	noise := fs.String("noise", "", "noise word file (default indexer.noiseFile)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(stderr, "usage: seed [flags]")
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 1
	}
	if *target != "" {
		cfg.Indexer.Source = *target
	}
	if *boltPath != "" {
		cfg.Indexer.BoltPath = *boltPath
	}
	if *docs != "" {
		cfg.Indexer.DocsFile = *docs
	}
	if *noise != "" {
		cfg.Indexer.NoiseFile = *noise
	}
	if cfg.Indexer.Source == config.SourceFile {
		fmt.Fprintln(stderr, "seed: -target must be postgres or bolt")
		return 2
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "invalid config: %v\n", err)
		return 1
	}

	logger.SetupWriter(stderr, cfg.Logging.Level, "text")

	from := filesource.New(cfg.Indexer.DocsFile, cfg.Indexer.NoiseFile)
	stats, err := source.Seed(ctx, cfg, from)
	if err != nil {
		fmt.Fprintf(stderr, "seeding %s: %v\n", cfg.Indexer.Source, err)
		return 1
	}
	fmt.Fprintf(stdout, "seeded %s: %d documents, %d noise words\n",
		cfg.Indexer.Source, stats.Documents, stats.NoiseWords)
	return 0
}
