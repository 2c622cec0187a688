package scraper

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Yann31150/Rechercheannonces/internal/models"
	"github.com/Yann31150/Rechercheannonces/internal/network"
)

// Registry builds one adapter per requested site. Each adapter gets its
// own client: the search command fans the adapters out concurrently and
// neither the tls-client proxy state nor the UA rand source is safe to
// share across goroutines. The rotator is shared; it locks internally.
func Registry(sites []string, rotator *network.Rotator, cfg models.ScraperConfig, logger zerolog.Logger) ([]Scraper, error) {
	configs := siteConfigs()
	scrapers := make([]Scraper, 0, len(sites))
	for _, name := range sites {
		siteCfg, ok := configs[normalizeSiteName(name)]
		if !ok {
			return nil, fmt.Errorf("unknown site %q", name)
		}
		client, err := network.NewClient(rotator, cfg)
		if err != nil {
			return nil, err
		}
		scrapers = append(scrapers, NewSite(siteCfg, client, logger))
	}
	return scrapers, nil
}
