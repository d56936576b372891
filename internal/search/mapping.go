package search

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/whitespace"
	"github.com/blevesearch/bleve/v2/mapping"
)

// nameAnalyzer splits already-normalized text on whitespace. Stop words
// and stemming are left out so every query token has an indexed term to
// land on ("league of legends" keeps "of").
const nameAnalyzer = "game_name"

// Field names.
const (
	fieldID      = "id"
	fieldName    = "name"
	fieldAliases = "aliases"
)

// buildIndexMapping creates the Bleve mapping for game documents.
func buildIndexMapping() (mapping.IndexMapping, error) {
	indexMapping := bleve.NewIndexMapping()

	err := indexMapping.AddCustomAnalyzer(nameAnalyzer, map[string]any{
		"type":          custom.Name,
		"tokenizer":     whitespace.Name,
		"token_filters": []string{lowercase.Name},
	})
	if err != nil {
		return nil, fmt.Errorf("register analyzer: %w", err)
	}
	indexMapping.DefaultAnalyzer = nameAnalyzer

	docMapping := bleve.NewDocumentMapping()

	// Name - primary target
	nameFieldMapping := bleve.NewTextFieldMapping()
	nameFieldMapping.Analyzer = nameAnalyzer
	nameFieldMapping.Store = false
	docMapping.AddFieldMappingsAt(fieldName, nameFieldMapping)

	// Aliases - abbreviations that refer to the game
	aliasFieldMapping := bleve.NewTextFieldMapping()
	aliasFieldMapping.Analyzer = nameAnalyzer
	aliasFieldMapping.Store = false
	docMapping.AddFieldMappingsAt(fieldAliases, aliasFieldMapping)

	// ID - not analyzed
	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt(fieldID, idFieldMapping)

	indexMapping.DefaultMapping = docMapping

	return indexMapping, nil
}
