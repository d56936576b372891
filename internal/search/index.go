// Package search provides typo-tolerant matching of game names backed by an
// in-memory Bleve index. Names and queries are normalized the same way and
// common abbreviations are resolved through an alias table before fuzzy
// matching.
package search

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/streamscoutapp/streamscout-server/internal/domain"
)

// Index wraps a Bleve index of the current game list.
//
// Thread safety: All public methods are safe for concurrent use.
// Replace builds a fresh index and swaps it in under the write lock.
type Index struct {
	mu       sync.RWMutex
	index    bleve.Index
	docCount int

	aliases  *AliasTable
	minScore float64
	logger   *slog.Logger
}

// Options configures the index.
type Options struct {
	// Aliases maps abbreviations to canonical names. Nil uses DefaultAliases.
	Aliases map[string][]string
	// MinScore is the lowest hit score accepted as a match.
	MinScore float64
	Logger   *slog.Logger
}

// NewIndex creates an empty in-memory index.
func NewIndex(opts Options) (*Index, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	raw := opts.Aliases
	if raw == nil {
		raw = DefaultAliases
	}

	index, err := newMemIndex()
	if err != nil {
		return nil, err
	}

	return &Index{
		index:    index,
		aliases:  NewAliasTable(raw),
		minScore: opts.MinScore,
		logger:   logger,
	}, nil
}

func newMemIndex() (bleve.Index, error) {
	indexMapping, err := buildIndexMapping()
	if err != nil {
		return nil, err
	}
	index, err := bleve.NewMemOnly(indexMapping)
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	return index, nil
}

// Close releases the index.
func (s *Index) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// Replace re-indexes the given games, dropping whatever was indexed before.
func (s *Index) Replace(games []domain.GameOpportunity) error {
	fresh, err := newMemIndex()
	if err != nil {
		return err
	}

	batch := fresh.NewBatch()
	for i := range games {
		g := &games[i]
		if g.GameID == "" {
			continue
		}
		name := Normalize(g.GameName)
		doc := map[string]any{
			fieldID:      g.GameID,
			fieldName:    name,
			fieldAliases: s.aliases.AliasesFor(name),
		}
		if err := batch.Index(g.GameID, doc); err != nil {
			_ = fresh.Close()
			return fmt.Errorf("batch index %s: %w", g.GameID, err)
		}
	}
	if err := fresh.Batch(batch); err != nil {
		_ = fresh.Close()
		return fmt.Errorf("commit batch: %w", err)
	}

	count, err := fresh.DocCount()
	if err != nil {
		_ = fresh.Close()
		return fmt.Errorf("count documents: %w", err)
	}

	s.mu.Lock()
	old := s.index
	s.index = fresh
	s.docCount = int(count)
	s.mu.Unlock()

	if err := old.Close(); err != nil {
		s.logger.Warn("failed to close previous search index", "error", err)
	}
	s.logger.Debug("search index rebuilt", "games", count)
	return nil
}

// DocumentCount returns the number of indexed games.
func (s *Index) DocumentCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docCount
}
