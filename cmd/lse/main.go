// Command lse builds a keyword index and answers two-keyword queries from
// the command line.
//
//	lse -docs docs.txt -noise noisewords.txt cat dog
//
// Without keyword arguments it prompts for pairs on stdin until EOF. With
// -dump it prints every keyword and its posting list instead.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Adithya-Monish-Kumar-K/keyword-index/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/internal/searcher/topk"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/internal/source"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("lse", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "optional config file; selects the document source")
	docs := fs.String("docs", "", "file listing the document files (file source)")
	noise := fs.String("noise", "", "noise word file (file source)")
	k := fs.Int("k", topk.DefaultK, "maximum number of results")
	verbose := fs.Bool("v", false, "log the index build")
	dump := fs.Bool("dump", false, "print the index and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 1
	}
	if *docs != "" {
		cfg.Indexer.Source = config.SourceFile
		cfg.Indexer.DocsFile = *docs
	}
	if *noise != "" {
		cfg.Indexer.NoiseFile = *noise
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "invalid config: %v\n", err)
		return 1
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	logger.SetupWriter(stderr, level, "text")

	idx, err := build(ctx, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "building index: %v\n", err)
		return 1
	}

	switch {
	case *dump && fs.NArg() == 0:
		dumpIndex(stdout, idx)
		return 0
	case *dump:
		fmt.Fprintln(stderr, "usage: lse -dump [flags]")
		return 2
	}

	switch fs.NArg() {
	case 2:
		printResults(stdout, topk.TopK(idx, fs.Arg(0), fs.Arg(1), *k))
		return 0
	case 0:
		return prompt(idx, *k, stdin, stdout)
	default:
		fmt.Fprintln(stderr, "usage: lse [flags] [keyword1 keyword2]")
		return 2
	}
}

func build(ctx context.Context, cfg *config.Config) (*index.MemoryIndex, error) {
	src, closer, err := source.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return indexer.NewBuilder(cfg.Indexer, nil).Build(ctx, src, src)
}

// prompt reads whitespace separated keywords two at a time.
func prompt(idx topk.Reader, k int, stdin io.Reader, stdout io.Writer) int {
	scanner := bufio.NewScanner(stdin)
	scanner.Split(bufio.ScanWords)
	for {
		fmt.Fprint(stdout, "keyword 1: ")
		if !scanner.Scan() {
			break
		}
		kw1 := scanner.Text()
		fmt.Fprint(stdout, "keyword 2: ")
		if !scanner.Scan() {
			break
		}
		printResults(stdout, topk.TopK(idx, kw1, scanner.Text(), k))
	}
	fmt.Fprintln(stdout)
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(stdout, "reading input: %v\n", err)
		return 1
	}
	return 0
}

// dumpIndex writes one line per keyword in lexical order:
//
//	dog: (d2.txt,3) (d1.txt,1)
func dumpIndex(w io.Writer, idx *index.MemoryIndex) {
	idx.Each(func(kw string, postings index.PostingList) bool {
		var b strings.Builder
		b.WriteString(kw)
		b.WriteByte(':')
		for _, occ := range postings {
			fmt.Fprintf(&b, " (%s,%d)", occ.DocID, occ.Frequency)
		}
		fmt.Fprintln(w, b.String())
		return true
	})
}

func printResults(w io.Writer, ids []string) {
	if len(ids) == 0 {
		fmt.Fprintln(w, "no matches")
		return
	}
	fmt.Fprintf(w, "[%s]\n", strings.Join(ids, ", "))
}
