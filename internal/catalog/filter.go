package catalog

import (
	"fmt"
	"strings"

	"github.com/streamscoutapp/streamscout-server/internal/genre"
)

// Mode selects how multiple selected genres combine.
type Mode string

// Genre filter modes.
const (
	ModeOr  Mode = "or"
	ModeAnd Mode = "and"
)

// ParseMode parses a mode flag. Empty input means ModeOr.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeOr:
		return ModeOr, nil
	case ModeAnd:
		return ModeAnd, nil
	default:
		return "", fmt.Errorf("unknown genre mode %q", s)
	}
}

// Filter is the set of view filters. All filters compose with AND.
type Filter struct {
	Genres        []string
	Mode          Mode
	Query         string
	FavoritesOnly bool
}

// genreFilter is a compiled genre selection. Each selected label expands
// to one or more canonical slugs and is satisfied when the game carries
// all of them. A label with no slugs matches no game.
type genreFilter struct {
	labels [][]string
	mode   Mode
}

func compileGenres(selected []string, mode Mode) genreFilter {
	f := genreFilter{mode: mode}
	for _, label := range selected {
		if strings.TrimSpace(label) == "" {
			continue
		}
		f.labels = append(f.labels, genre.NormalizeToSlugs(label))
	}
	return f
}

func (f genreFilter) empty() bool {
	return len(f.labels) == 0
}

// pass reports whether a game with the given genres passes. An empty
// selection passes everything.
func (f genreFilter) pass(gameGenres []string) bool {
	if f.empty() {
		return true
	}
	have := genre.SlugSet(gameGenres)

	labelPasses := func(slugs []string) bool {
		if len(slugs) == 0 {
			return false
		}
		for _, slug := range slugs {
			if _, ok := have[slug]; !ok {
				return false
			}
		}
		return true
	}

	if f.mode == ModeAnd {
		for _, slugs := range f.labels {
			if !labelPasses(slugs) {
				return false
			}
		}
		return true
	}

	for _, slugs := range f.labels {
		if labelPasses(slugs) {
			return true
		}
	}
	return false
}
