package providers

import (
	"github.com/samber/do/v2"

	"github.com/streamscoutapp/streamscout-server/internal/catalog"
	"github.com/streamscoutapp/streamscout-server/internal/config"
	"github.com/streamscoutapp/streamscout-server/internal/logger"
	"github.com/streamscoutapp/streamscout-server/internal/search"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the in-memory Bleve index over game names.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewIndex(search.Options{
		MinScore: cfg.Search.MinScore,
		Logger:   log.Component("search").Logger,
	})
	if err != nil {
		return nil, err
	}

	log.Info("Search index initialized", "min_score", cfg.Search.MinScore)

	return &SearchIndexHandle{Index: index}, nil
}

// ProvideCatalog provides the catalog controller that serves filtered views
// of the ranked list.
func ProvideCatalog(i do.Injector) (*catalog.Controller, error) {
	log := do.MustInvoke[*logger.Logger](i)
	searchHandle := do.MustInvoke[*SearchIndexHandle](i)

	return catalog.New(searchHandle.Index, log.Component("catalog").Logger), nil
}
