package providers

import (
	"github.com/samber/do/v2"

	"github.com/nextchapterapp/nextchapter-server/internal/config"
	"github.com/nextchapterapp/nextchapter-server/internal/logger"
	"github.com/nextchapterapp/nextchapter-server/internal/search"
)

// ProvideSearchClient provides the Open Library book lookup client.
func ProvideSearchClient(i do.Injector) (*search.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := search.NewClient(cfg.Search.OpenLibraryURL, cfg.Search.Timeout, log.Logger)

	log.Info("Book search client ready", "base_url", cfg.Search.OpenLibraryURL)

	return client, nil
}
