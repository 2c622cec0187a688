package scraper

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/rs/zerolog"

	"github.com/Yann31150/Rechercheannonces/internal/compare"
	"github.com/Yann31150/Rechercheannonces/internal/models"
	"github.com/Yann31150/Rechercheannonces/internal/network"
)

// SiteConfig is the per-board data for the generic adapter: a URL builder
// and selector fallback chains. New boards are new configs, not new code.
type SiteConfig struct {
	Name    string
	BaseURL string

	// BuildURL renders the search URL for a 1-based page number.
	BuildURL func(params models.SearchParams, page int) string

	Headers map[string]string

	CardSelectors     []string
	TitleSelectors    []string
	CompanySelectors  []string
	LocationSelectors []string
	DateSelectors     []string

	// UseJSONLD falls back to schema.org JobPosting data when the card
	// selectors come up empty.
	UseJSONLD bool
}

// Site runs searches against one board through the shared rotating client.
type Site struct {
	cfg    SiteConfig
	client *network.Client
	logger zerolog.Logger
}

func NewSite(cfg SiteConfig, client *network.Client, logger zerolog.Logger) *Site {
	return &Site{
		cfg:    cfg,
		client: client,
		logger: logger.With().Str("site", cfg.Name).Logger(),
	}
}

func (s *Site) Name() string {
	return s.cfg.Name
}

// Search walks the result pages, parses each into jobs and dedupes by
// signature across pages. Page failures after the first page are logged
// and skipped so one blocked page does not lose the run.
func (s *Site) Search(ctx context.Context, params models.SearchParams) ([]models.Job, error) {
	pages := params.Pages
	if pages <= 0 {
		pages = 1
	}

	var jobs []models.Job
	seen := map[string]struct{}{}

	for page := 1; page <= pages; page++ {
		if err := ctx.Err(); err != nil {
			return jobs, err
		}

		target := s.cfg.BuildURL(params, page)
		doc, err := fetchDocument(ctx, s.client, target, s.cfg.Headers)
		if err != nil {
			if page == 1 {
				return nil, err
			}
			s.logger.Warn().Err(err).Int("page", page).Msg("page fetch failed, skipping")
			continue
		}

		pageJobs := s.parsePage(doc)
		if len(pageJobs) == 0 {
			s.logger.Debug().Int("page", page).Msg("no postings on page, stopping")
			break
		}

		added := 0
		for _, job := range pageJobs {
			sig := compare.Signature(job)
			if sig == "" {
				continue
			}
			if _, dup := seen[sig]; dup {
				continue
			}
			seen[sig] = struct{}{}
			jobs = append(jobs, job)
			added++
		}
		s.logger.Debug().Int("page", page).Int("jobs", added).Msg("page parsed")

		if page < pages {
			s.client.Throttle()
		}
	}

	if len(jobs) == 0 {
		return nil, ErrNoResults
	}
	return jobs, nil
}

func (s *Site) parsePage(doc *goquery.Document) []models.Job {
	var jobs []models.Job

	for _, selector := range s.cfg.CardSelectors {
		doc.Find(selector).Each(func(_ int, card *goquery.Selection) {
			if job, ok := s.parseCard(card); ok {
				jobs = append(jobs, job)
			}
		})
		if len(jobs) > 0 {
			break
		}
	}

	if len(jobs) == 0 && s.cfg.UseJSONLD {
		jobs = parseJSONLDJobs(doc, s.cfg.Name)
	}
	return jobs
}

func (s *Site) parseCard(card *goquery.Selection) (models.Job, bool) {
	title := firstText(card, s.cfg.TitleSelectors)
	if title == "" {
		return models.Job{}, false
	}

	return models.Job{
		Title:     title,
		Company:   firstText(card, s.cfg.CompanySelectors),
		Location:  firstText(card, s.cfg.LocationSelectors),
		Date:      firstText(card, s.cfg.DateSelectors),
		Source:    s.cfg.Name,
		URL:       firstHref(card, s.cfg.BaseURL),
		ScrapedAt: timestamp(),
	}, true
}

func normalizeSiteName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
