// Package filesource reads documents and noise words from plain text files.
// A docs file lists document file names separated by whitespace; each name is
// both the document id and, resolved against the docs file's directory when
// relative, the path of the document's content.
package filesource

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	apperrors "github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/errors"
)

const maxTokenSize = 1 << 20

type Source struct {
	docsFile  string
	noiseFile string
	baseDir   string
}

func New(docsFile, noiseFile string) *Source {
	return &Source{
		docsFile:  docsFile,
		noiseFile: noiseFile,
		baseDir:   filepath.Dir(docsFile),
	}
}

// Documents returns the document names listed in the docs file, in order.
func (s *Source) Documents(ctx context.Context) ([]string, error) {
	return readWords(ctx, s.docsFile)
}

// Tokens returns the whitespace-delimited tokens of document docID.
func (s *Source) Tokens(ctx context.Context, docID string) ([]string, error) {
	return readWords(ctx, s.resolve(docID))
}

// NoiseWords returns every token of the noise file.
func (s *Source) NoiseWords(ctx context.Context) ([]string, error) {
	return readWords(ctx, s.noiseFile)
}

func (s *Source) resolve(docID string) string {
	if filepath.IsAbs(docID) {
		return docID
	}
	return filepath.Join(s.baseDir, docID)
}

func readWords(ctx context.Context, path string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Unavailable(path, err)
	}
	defer f.Close()
	words, err := scanWords(f)
	if err != nil {
		return nil, apperrors.Unavailable(path, fmt.Errorf("reading: %w", err))
	}
	return words, nil
}

func scanWords(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxTokenSize)
	sc.Split(bufio.ScanWords)
	words := make([]string, 0, 64)
	for sc.Scan() {
		words = append(words, sc.Text())
	}
	return words, sc.Err()
}
