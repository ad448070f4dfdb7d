package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCorpus(t *testing.T) (docs, noise string) {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"docs.txt":       "d1.txt d2.txt",
		"noisewords.txt": "the\na\n",
		"d1.txt":         "The cat saw a cat and a dog.",
		"d2.txt":         "Dog, dog; DOG!",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return filepath.Join(dir, "docs.txt"), filepath.Join(dir, "noisewords.txt")
}

func TestRunWithArguments(t *testing.T) {
	docs, noise := writeCorpus(t)
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-docs", docs, "-noise", noise, "cat", "dog"}, strings.NewReader(""), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "[d2.txt, d1.txt]\n", stdout.String())
}

func TestRunNoMatches(t *testing.T) {
	docs, noise := writeCorpus(t)
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-docs", docs, "-noise", noise, "the", "unicorn"}, strings.NewReader(""), &stdout, &stderr)
	require.Equal(t, 0, code)
	assert.Equal(t, "no matches\n", stdout.String())
}

func TestRunPrompt(t *testing.T) {
	docs, noise := writeCorpus(t)
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-docs", docs, "-noise", noise}, strings.NewReader("cat dog\nfish bird\n"), &stdout, &stderr)
	require.Equal(t, 0, code)
	assert.Equal(t,
		"keyword 1: keyword 2: [d2.txt, d1.txt]\n"+
			"keyword 1: keyword 2: no matches\n"+
			"keyword 1: \n",
		stdout.String())
}

func TestRunMissingDocsFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	missing := filepath.Join(t.TempDir(), "nope.txt")

	code := run(context.Background(), []string{"-docs", missing, "-noise", missing, "cat", "dog"}, strings.NewReader(""), &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "source unavailable")
}

func TestRunBadUsage(t *testing.T) {
	docs, noise := writeCorpus(t)
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-docs", docs, "-noise", noise, "cat"}, strings.NewReader(""), &stdout, &stderr)
	assert.Equal(t, 2, code)
}

func TestRunDump(t *testing.T) {
	docs, noise := writeCorpus(t)
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-docs", docs, "-noise", noise, "-dump"}, strings.NewReader(""), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t,
		"and: (d1.txt,1)\n"+
			"cat: (d1.txt,2)\n"+
			"dog: (d2.txt,3) (d1.txt,1)\n"+
			"saw: (d1.txt,1)\n",
		stdout.String())

	stdout.Reset()
	code = run(context.Background(), []string{"-docs", docs, "-noise", noise, "-dump", "cat", "dog"}, strings.NewReader(""), &stdout, &stderr)
	assert.Equal(t, 2, code)
	assert.Empty(t, stdout.String())
}
