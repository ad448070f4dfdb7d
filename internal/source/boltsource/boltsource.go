// Package boltsource keeps documents and noise words in an embedded bbolt
// file. Document order is insertion order: the "order" bucket maps a
// big-endian sequence number to the document id, "contents" maps the id to
// its text, and "noise" holds one key per noise word.
package boltsource

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/logger"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketOrder    = []byte("order")
	bucketContents = []byte("contents")
	bucketNoise    = []byte("noise")
)

var errNoBucket = errors.New("bucket missing")

type Source struct {
	db   *bolt.DB
	path string
}

// Open opens (creating if needed) the bolt file at path.
func Open(path string) (*Source, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, apperrors.Unavailable(path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketOrder, bucketContents, bucketNoise} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("creating bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, apperrors.Unavailable(path, err)
	}
	return &Source{db: db, path: path}, nil
}

// Document is one entry of the contents bucket.
type Document struct {
	ID      string
	Content string
}

// Seed stores documents and noise words in one transaction. A document id
// that already exists keeps its place in the order and has its content
// replaced.
func (s *Source) Seed(ctx context.Context, docs []Document, noise []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		for _, d := range docs {
			if err := put(tx, d.ID, d.Content); err != nil {
				return err
			}
		}
		b := tx.Bucket(bucketNoise)
		for _, w := range noise {
			if err := b.Put([]byte(w), []byte{}); err != nil {
				return fmt.Errorf("storing noise word %s: %w", w, err)
			}
		}
		return nil
	})
	if err != nil {
		return apperrors.Unavailable(s.path, err)
	}
	logger.WithComponent("bolt-source").Info("source seeded",
		"path", s.path,
		"documents", len(docs),
		"noise_words", len(noise),
	)
	return nil
}

func put(tx *bolt.Tx, id, content string) error {
	contents := tx.Bucket(bucketContents)
	if contents.Get([]byte(id)) == nil {
		order := tx.Bucket(bucketOrder)
		seq, err := order.NextSequence()
		if err != nil {
			return fmt.Errorf("allocating sequence: %w", err)
		}
		var key [8]byte
		binary.BigEndian.PutUint64(key[:], seq)
		if err := order.Put(key[:], []byte(id)); err != nil {
			return fmt.Errorf("recording order of %s: %w", id, err)
		}
	}
	if err := contents.Put([]byte(id), []byte(content)); err != nil {
		return fmt.Errorf("storing %s: %w", id, err)
	}
	return nil
}

func (s *Source) Documents(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ids := make([]string, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketOrder)
		if b == nil {
			return errNoBucket
		}
		return b.ForEach(func(_, v []byte) error {
			ids = append(ids, string(v))
			return nil
		})
	})
	if err != nil {
		return nil, apperrors.Unavailable(s.path, err)
	}
	return ids, nil
}

func (s *Source) Tokens(ctx context.Context, docID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var tokens []string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketContents)
		if b == nil {
			return errNoBucket
		}
		v := b.Get([]byte(docID))
		if v == nil {
			return fmt.Errorf("no such document %q", docID)
		}
		// v is only valid inside the transaction; Fields copies.
		tokens = strings.Fields(string(v))
		return nil
	})
	if err != nil {
		return nil, apperrors.Unavailable(s.path, err)
	}
	return tokens, nil
}

func (s *Source) NoiseWords(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	words := make([]string, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNoise)
		if b == nil {
			return errNoBucket
		}
		return b.ForEach(func(k, _ []byte) error {
			words = append(words, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, apperrors.Unavailable(s.path, err)
	}
	return words, nil
}

func (s *Source) Close() error {
	return s.db.Close()
}
