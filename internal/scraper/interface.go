package scraper

import (
	"context"
	"errors"

	"github.com/Yann31150/Rechercheannonces/internal/models"
)

var ErrNoResults = errors.New("no postings found")

// Scraper is the per-site search capability. Implementations are
// configuration-driven site adapters, not per-site classes.
type Scraper interface {
	Name() string
	Search(ctx context.Context, params models.SearchParams) ([]models.Job, error)
}
