package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/Yann31150/Rechercheannonces/internal/models"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func testSite(cfg SiteConfig) *Site {
	return NewSite(cfg, nil, zerolog.Nop())
}

func TestParsePageCards(t *testing.T) {
	html := `
	<ul>
	  <li class="result">
	    <h3><a href="/offre/123">Data Scientist H/F</a></h3>
	    <span class="company">ACME</span>
	    <span class="location">Toulouse</span>
	    <time>2026-08-20</time>
	  </li>
	  <li class="result">
	    <h3><a href="https://jobs.example.com/offre/456">Data Engineer</a></h3>
	    <span class="company">Globex</span>
	    <span class="location">Paris</span>
	  </li>
	  <li class="result">
	    <span class="company">No title, skipped</span>
	  </li>
	</ul>`

	site := testSite(SiteConfig{
		Name:              "testboard",
		BaseURL:           "https://jobs.example.com",
		CardSelectors:     []string{"li.result"},
		TitleSelectors:    []string{"h3"},
		CompanySelectors:  []string{"span.company"},
		LocationSelectors: []string{"span.location"},
		DateSelectors:     []string{"time"},
	})

	jobs := site.parsePage(mustDoc(t, html))
	if len(jobs) != 2 {
		t.Fatalf("got %d jobs, want 2", len(jobs))
	}

	first := jobs[0]
	if first.Title != "Data Scientist H/F" {
		t.Errorf("title = %q", first.Title)
	}
	if first.Company != "ACME" {
		t.Errorf("company = %q", first.Company)
	}
	if first.Location != "Toulouse" {
		t.Errorf("location = %q", first.Location)
	}
	if first.Date != "2026-08-20" {
		t.Errorf("date = %q", first.Date)
	}
	if first.URL != "https://jobs.example.com/offre/123" {
		t.Errorf("relative href not resolved: %q", first.URL)
	}
	if first.Source != "testboard" {
		t.Errorf("source = %q", first.Source)
	}
	if first.ScrapedAt == "" {
		t.Error("scraped_at not stamped")
	}
	if jobs[1].URL != "https://jobs.example.com/offre/456" {
		t.Errorf("absolute href altered: %q", jobs[1].URL)
	}
}

func TestParsePageSelectorFallback(t *testing.T) {
	html := `
	<div class="new-card">
	  <h2>Analyste de données</h2>
	  <a href="/jobs/1">voir</a>
	</div>`

	site := testSite(SiteConfig{
		Name:           "testboard",
		BaseURL:        "https://jobs.example.com",
		CardSelectors:  []string{"li.old-card", "div.new-card"},
		TitleSelectors: []string{"h3", "h2"},
	})

	jobs := site.parsePage(mustDoc(t, html))
	if len(jobs) != 1 {
		t.Fatalf("got %d jobs, want 1", len(jobs))
	}
	if jobs[0].Title != "Analyste de données" {
		t.Errorf("title = %q", jobs[0].Title)
	}
}

func TestParsePageJSONLDFallback(t *testing.T) {
	html := `
	<html><head>
	<script type="application/ld+json">
	{
	  "@context": "https://schema.org",
	  "@type": "ItemList",
	  "itemListElement": [
	    {"@type": "ListItem", "item": {
	      "@type": "JobPosting",
	      "title": "Ingénieur Machine Learning",
	      "url": "https://jobs.example.com/ml-1",
	      "datePosted": "2026-08-18",
	      "description": "Mod&egrave;les   de production",
	      "hiringOrganization": {"@type": "Organization", "name": "Initech"},
	      "jobLocation": {"@type": "Place", "address": {
	        "addressLocality": "Lyon", "addressCountry": "FR"
	      }}
	    }}
	  ]
	}
	</script>
	</head><body><div>rendered client side</div></body></html>`

	site := testSite(SiteConfig{
		Name:           "testboard",
		CardSelectors:  []string{"li.result"},
		TitleSelectors: []string{"h3"},
		UseJSONLD:      true,
	})

	jobs := site.parsePage(mustDoc(t, html))
	if len(jobs) != 1 {
		t.Fatalf("got %d jobs, want 1", len(jobs))
	}

	job := jobs[0]
	if job.Title != "Ingénieur Machine Learning" {
		t.Errorf("title = %q", job.Title)
	}
	if job.Company != "Initech" {
		t.Errorf("company = %q", job.Company)
	}
	if job.Location != "Lyon, FR" {
		t.Errorf("location = %q", job.Location)
	}
	if job.Description != "Modèles de production" {
		t.Errorf("description = %q", job.Description)
	}
	if job.URL != "https://jobs.example.com/ml-1" {
		t.Errorf("url = %q", job.URL)
	}
}

func TestParseJSONLDDedupes(t *testing.T) {
	html := `
	<script type="application/ld+json">
	{"@type": "JobPosting", "title": "Dev", "url": "https://x.test/1",
	 "hiringOrganization": {"name": "A"}}
	</script>
	<script type="application/ld+json">
	{"@type": "JobPosting", "title": "Dev", "url": "https://x.test/1",
	 "hiringOrganization": {"name": "A"}}
	</script>`

	jobs := parseJSONLDJobs(mustDoc(t, html), "testboard")
	if len(jobs) != 1 {
		t.Fatalf("got %d jobs, want 1", len(jobs))
	}
}

func TestParseJSONLDIgnoresMalformed(t *testing.T) {
	html := `
	<script type="application/ld+json">{not json at all</script>
	<script type="application/ld+json">
	{"@type": "BreadcrumbList", "itemListElement": []}
	</script>`

	if jobs := parseJSONLDJobs(mustDoc(t, html), "testboard"); len(jobs) != 0 {
		t.Fatalf("got %d jobs, want 0", len(jobs))
	}
}

func TestAbsoluteURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		href string
		want string
	}{
		{"absolute kept", "https://a.test", "https://b.test/x", "https://b.test/x"},
		{"relative resolved", "https://a.test", "/jobs/1", "https://a.test/jobs/1"},
		{"protocol relative", "https://a.test", "//cdn.a.test/x", "https://cdn.a.test/x"},
		{"empty", "https://a.test", "  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := absoluteURL(tt.base, tt.href); got != tt.want {
				t.Errorf("absoluteURL(%q, %q) = %q, want %q", tt.base, tt.href, got, tt.want)
			}
		})
	}
}

func TestCleanText(t *testing.T) {
	got := cleanText(" D&eacute;veloppeur \n\t senior ")
	if got != "Développeur senior" {
		t.Errorf("cleanText = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("court", 2000); got != "court" {
		t.Errorf("short value altered: %q", got)
	}
	long := strings.Repeat("a", 2100)
	got := truncate(long, 2000)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("long value not marked truncated")
	}
	if len(got) > 2003 {
		t.Errorf("len = %d, want <= 2003", len(got))
	}
}

func TestNormalizeSites(t *testing.T) {
	tests := []struct {
		name      string
		requested []string
		want      []string
		wantErr   bool
	}{
		{"empty means all", nil, AllSites, false},
		{"all keyword", []string{"all"}, AllSites, false},
		{"explicit subset", []string{"WTTJ", "indeed"}, []string{"wttj", "indeed"}, false},
		{"dedupes", []string{"apec", "apec"}, []string{"apec"}, false},
		{"unknown rejected", []string{"monster"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeSites(tt.requested)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestRegistryClientPerSite(t *testing.T) {
	scrapers, err := Registry([]string{SiteWTTJ, SiteIndeed}, nil, models.ScraperConfig{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	if len(scrapers) != 2 {
		t.Fatalf("got %d scrapers, want 2", len(scrapers))
	}

	first, ok := scrapers[0].(*Site)
	if !ok {
		t.Fatalf("scraper type %T", scrapers[0])
	}
	second := scrapers[1].(*Site)
	if first.client == second.client {
		t.Error("adapters share one client; concurrent searches need one each")
	}
}

func TestRegistryUnknownSite(t *testing.T) {
	if _, err := Registry([]string{"monster"}, nil, models.ScraperConfig{}, zerolog.Nop()); err == nil {
		t.Fatal("expected error for unknown site")
	}
}

func TestBuildURLs(t *testing.T) {
	params := models.SearchParams{Keywords: "data scientist", Location: "Toulouse", Pages: 2}
	for name, cfg := range siteConfigs() {
		u := cfg.BuildURL(params, 1)
		if !strings.HasPrefix(u, "https://") {
			t.Errorf("%s: url %q not absolute", name, u)
		}
		if name == SiteLaBonneAlternance {
			// Searches by ROME code rather than free-text keywords.
			if !strings.Contains(u, "romes=M1805") {
				t.Errorf("%s: rome code missing from %q", name, u)
			}
			continue
		}
		if !strings.Contains(u, "data+scientist") && !strings.Contains(u, "data%20scientist") {
			t.Errorf("%s: keywords missing from %q", name, u)
		}
	}
}

func TestBonneAlternanceLocation(t *testing.T) {
	tests := []struct {
		location string
		want     string
	}{
		{"Toulouse, France", "31000"},
		{"Haute-Garonne", "31000"},
		{"Lyon", "Lyon"},
	}
	for _, tt := range tests {
		if got := bonneAlternanceLocation(tt.location); got != tt.want {
			t.Errorf("bonneAlternanceLocation(%q) = %q, want %q", tt.location, got, tt.want)
		}
	}
}
