package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Boosts for the different ways a token can hit.
const (
	exactBoost  = 3.0
	aliasBoost  = 2.5
	prefixBoost = 1.5
	fuzzyBoost  = 1.0
)

// Match returns the IDs of games matching q with their scores. A blank
// query returns an empty map; callers treat blank queries as no filter and
// should check IsBlank first.
func (s *Index) Match(ctx context.Context, q string) (map[string]float64, error) {
	normalized := Normalize(q)
	if normalized == "" {
		return map[string]float64{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.docCount == 0 {
		return map[string]float64{}, nil
	}

	searchQuery := s.buildQuery(normalized)
	req := bleve.NewSearchRequestOptions(searchQuery, s.docCount, 0, false)
	req.SortBy([]string{"-_score"})

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	out := make(map[string]float64, len(res.Hits))
	for _, hit := range res.Hits {
		if hit.Score < s.minScore {
			continue
		}
		out[hit.ID] = hit.Score
	}
	return out, nil
}

// phrases returns the normalized query together with its alias expansions.
// Whole-query aliases are tried first ("lol"), then token-level ones, so
// "gta online" also tries "grand theft auto online".
func (s *Index) phrases(normalized string) []string {
	seen := map[string]struct{}{normalized: {}}
	out := []string{normalized}
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	for _, name := range s.aliases.Expand(normalized) {
		add(name)
	}

	tokens := strings.Fields(normalized)
	if len(tokens) > 1 {
		for i, tok := range tokens {
			for _, name := range s.aliases.Expand(tok) {
				replaced := make([]string, 0, len(tokens))
				replaced = append(replaced, tokens[:i]...)
				replaced = append(replaced, name)
				replaced = append(replaced, tokens[i+1:]...)
				add(strings.Join(replaced, " "))
			}
		}
	}
	return out
}

// buildQuery ORs one query per phrase. Within a phrase every token must hit
// the name or aliases field, exactly, as a prefix or within edit distance.
func (s *Index) buildQuery(normalized string) query.Query {
	phrases := s.phrases(normalized)

	alternatives := make([]query.Query, 0, len(phrases)+1)
	for _, phrase := range phrases {
		alternatives = append(alternatives, phraseQuery(strings.Fields(phrase)))
	}

	// The raw query may itself be an indexed alias ("gta 5").
	aliasMatch := bleve.NewMatchPhraseQuery(normalized)
	aliasMatch.SetField(fieldAliases)
	aliasMatch.SetBoost(aliasBoost)
	alternatives = append(alternatives, aliasMatch)

	return bleve.NewDisjunctionQuery(alternatives...)
}

func phraseQuery(tokens []string) query.Query {
	perToken := make([]query.Query, 0, len(tokens))
	for _, tok := range tokens {
		perToken = append(perToken, tokenQuery(tok))
	}
	if len(perToken) == 1 {
		return perToken[0]
	}
	return bleve.NewConjunctionQuery(perToken...)
}

func tokenQuery(tok string) query.Query {
	var options []query.Query

	exact := bleve.NewTermQuery(tok)
	exact.SetField(fieldName)
	exact.SetBoost(exactBoost)
	options = append(options, exact)

	alias := bleve.NewTermQuery(tok)
	alias.SetField(fieldAliases)
	alias.SetBoost(aliasBoost)
	options = append(options, alias)

	// Prefix match for partially typed words (minimum 2 chars)
	if len(tok) >= 2 {
		prefix := bleve.NewPrefixQuery(tok)
		prefix.SetField(fieldName)
		prefix.SetBoost(prefixBoost)
		options = append(options, prefix)
	}

	if fuzziness := fuzzinessFor(tok); fuzziness > 0 {
		fuzzy := bleve.NewFuzzyQuery(tok)
		fuzzy.SetField(fieldName)
		fuzzy.SetFuzziness(fuzziness)
		fuzzy.SetBoost(fuzzyBoost)
		options = append(options, fuzzy)
	}

	return bleve.NewDisjunctionQuery(options...)
}

// fuzzinessFor allows more typos in longer words. Short tokens such as
// "2", "of" or "gta" must match exactly or as a prefix.
func fuzzinessFor(tok string) int {
	switch n := len(tok); {
	case n <= 3:
		return 0
	case n <= 5:
		return 1
	default:
		return 2
	}
}
