package scraper

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Yann31150/Rechercheannonces/internal/models"
)

const (
	SiteWTTJ              = "wttj"
	SiteHelloWork         = "hellowork"
	SiteAPEC              = "apec"
	SiteFreeWork          = "freework"
	SiteIndeed            = "indeed"
	SiteLaBonneAlternance = "labonnealternance"
)

// AllSites lists the supported boards in their default search order.
var AllSites = []string{SiteWTTJ, SiteHelloWork, SiteAPEC, SiteFreeWork, SiteIndeed, SiteLaBonneAlternance}

func siteConfigs() map[string]SiteConfig {
	return map[string]SiteConfig{
		SiteWTTJ: {
			Name:    SiteWTTJ,
			BaseURL: "https://www.welcometothejungle.com",
			BuildURL: func(params models.SearchParams, page int) string {
				q := url.Values{}
				q.Set("query", params.Keywords)
				if params.Location != "" {
					q.Set("aroundQuery", params.Location)
				}
				q.Set("page", fmt.Sprintf("%d", page))
				return "https://www.welcometothejungle.com/fr/jobs?" + q.Encode()
			},
			CardSelectors: []string{
				"li[data-testid='search-results-list-item-wrapper']",
				"article[data-role='jobs:thumb']",
			},
			TitleSelectors:    []string{"h4", "h3", "a[href*='/jobs/']"},
			CompanySelectors:  []string{"span[data-testid='job-card-company-name']", "span.organization-name"},
			LocationSelectors: []string{"span[data-testid='job-card-location']", "p[class*='location']"},
			DateSelectors:     []string{"time"},
			UseJSONLD:         true,
		},
		SiteHelloWork: {
			Name:    SiteHelloWork,
			BaseURL: "https://www.hellowork.com",
			BuildURL: func(params models.SearchParams, page int) string {
				q := url.Values{}
				q.Set("k", params.Keywords)
				if params.Location != "" {
					q.Set("l", params.Location)
				}
				q.Set("p", fmt.Sprintf("%d", page))
				return "https://www.hellowork.com/fr-fr/emploi/recherche.html?" + q.Encode()
			},
			CardSelectors: []string{
				"li[data-id-storage-target='item']",
				"div.new-serp-item",
			},
			TitleSelectors:    []string{"h3 a", "p.tw-typo-m a", "a[href*='/emplois/']"},
			CompanySelectors:  []string{"p.tw-typo-s", "span.tw-typo-s"},
			LocationSelectors: []string{"div[data-cy='localisationCard']", "span.tw-tag-secondary-s"},
			DateSelectors:     []string{"div.tw-typo-s-bold", "time"},
			UseJSONLD:         true,
		},
		SiteAPEC: {
			Name:    SiteAPEC,
			BaseURL: "https://www.apec.fr",
			BuildURL: func(params models.SearchParams, page int) string {
				q := url.Values{}
				q.Set("motsCles", params.Keywords)
				if params.Location != "" {
					q.Set("lieux", params.Location)
				}
				// APEC pages from zero.
				q.Set("page", fmt.Sprintf("%d", page-1))
				return "https://www.apec.fr/candidat/recherche-emploi.html/emploi?" + q.Encode()
			},
			CardSelectors: []string{
				"div.card-offer",
				"a[queryparamshandling='merge']",
			},
			TitleSelectors:    []string{"h2.card-title", "h2"},
			CompanySelectors:  []string{"p.card-offer__company", "span.card-offer__company"},
			LocationSelectors: []string{"ul.details-offer li", "span.card-offer__location"},
			DateSelectors:     []string{"p.date-offer", "time"},
			UseJSONLD:         true,
		},
		SiteFreeWork: {
			Name:    SiteFreeWork,
			BaseURL: "https://www.free-work.com",
			BuildURL: func(params models.SearchParams, page int) string {
				q := url.Values{}
				q.Set("query", params.Keywords)
				if params.Location != "" {
					q.Set("locations", params.Location)
				}
				q.Set("page", fmt.Sprintf("%d", page))
				return "https://www.free-work.com/fr/tech-it/jobs?" + q.Encode()
			},
			CardSelectors: []string{
				"div[class*='mb-4 relative flex flex-col']",
				"article",
			},
			TitleSelectors:    []string{"h2", "p.font-semibold"},
			CompanySelectors:  []string{"div.text-sm span", "span[class*='company']"},
			LocationSelectors: []string{"span[class*='location']", "div.flex.items-center span"},
			DateSelectors:     []string{"time", "span.text-xs"},
			UseJSONLD:         true,
		},
		SiteIndeed: {
			Name:    SiteIndeed,
			BaseURL: "https://fr.indeed.com",
			BuildURL: func(params models.SearchParams, page int) string {
				q := url.Values{}
				q.Set("q", params.Keywords)
				if params.Location != "" {
					q.Set("l", params.Location)
				}
				// Indeed paginates by result offset, 10 per page.
				q.Set("start", fmt.Sprintf("%d", (page-1)*10))
				return "https://fr.indeed.com/jobs?" + q.Encode()
			},
			CardSelectors: []string{
				"div.job_seen_beacon",
				"td.resultContent",
			},
			TitleSelectors:    []string{"h2.jobTitle span[title]", "h2.jobTitle a", "h2.jobTitle"},
			CompanySelectors:  []string{"span[data-testid='company-name']", "span.companyName"},
			LocationSelectors: []string{"div[data-testid='text-location']", "div.companyLocation"},
			DateSelectors:     []string{"span[data-testid='myJobsStateDate']", "span.date"},
			UseJSONLD:         false,
		},
		SiteLaBonneAlternance: {
			Name:    SiteLaBonneAlternance,
			BaseURL: "https://labonnealternance.apprentissage.beta.gouv.fr",
			BuildURL: func(params models.SearchParams, page int) string {
				q := url.Values{}
				// Searches by ROME code, not free text; M1805 covers the
				// data/software family this tool targets.
				q.Set("romes", "M1805")
				q.Set("location", bonneAlternanceLocation(params.Location))
				q.Set("page", fmt.Sprintf("%d", page))
				return "https://labonnealternance.apprentissage.beta.gouv.fr/recherche-apprentissage?" + q.Encode()
			},
			CardSelectors: []string{
				"article[class*='offer']",
				"div[class*='offer']",
				"li[class*='offer']",
				"div[class*='result']",
			},
			TitleSelectors:    []string{"h3", "h2", "p[class*='title']"},
			CompanySelectors:  []string{"p[class*='company']", "span[class*='company']"},
			LocationSelectors: []string{"p[class*='address']", "span[class*='location']"},
			DateSelectors:     []string{"time"},
			UseJSONLD:         true,
		},
	}
}

// bonneAlternanceLocation maps the common Toulouse spellings to the postal
// code the board expects; anything else passes through.
func bonneAlternanceLocation(location string) string {
	lower := strings.ToLower(location)
	if strings.Contains(lower, "toulouse") || strings.Contains(lower, "haute-garonne") {
		return "31000"
	}
	return location
}

// NormalizeSites resolves a user-supplied site list (possibly "all" or
// empty) into known site names, rejecting unknown ones.
func NormalizeSites(requested []string) ([]string, error) {
	if len(requested) == 0 {
		return append([]string{}, AllSites...), nil
	}

	known := siteConfigs()
	var sites []string
	seen := map[string]struct{}{}

	for _, name := range requested {
		name = normalizeSiteName(name)
		if name == "" {
			continue
		}
		if name == "all" {
			return append([]string{}, AllSites...), nil
		}
		if _, ok := known[name]; !ok {
			return nil, fmt.Errorf("unknown site %q (known: %s)", name, strings.Join(AllSites, ", "))
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		sites = append(sites, name)
	}
	return sites, nil
}
