package scraper

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Yann31150/Rechercheannonces/internal/compare"
	"github.com/Yann31150/Rechercheannonces/internal/models"
)

// parseJSONLDJobs extracts JobPosting structured data embedded in the page.
// Several of the boards ship their listings as schema.org JSON-LD, which is
// far more stable than their markup.
func parseJSONLDJobs(doc *goquery.Document, source string) []models.Job {
	var jobs []models.Job
	seen := map[string]struct{}{}

	doc.Find("script[type='application/ld+json']").Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}

		data, err := decodeJSONLD(raw)
		if err != nil {
			return
		}

		for _, job := range jobsFromJSONLD(data, source) {
			sig := compare.Signature(job)
			if sig == "" {
				continue
			}
			if _, dup := seen[sig]; dup {
				continue
			}
			seen[sig] = struct{}{}
			jobs = append(jobs, job)
		}
	})

	return jobs
}

func decodeJSONLD(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "<!--")
	raw = strings.TrimSuffix(raw, "-->")
	raw = strings.TrimSpace(raw)

	var data any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, err
	}
	return data, nil
}

func jobsFromJSONLD(data any, source string) []models.Job {
	var jobs []models.Job

	switch value := data.(type) {
	case []any:
		for _, item := range value {
			jobs = append(jobs, jobsFromJSONLD(item, source)...)
		}
	case map[string]any:
		switch strings.ToLower(stringValue(value["@type"])) {
		case "jobposting":
			return append(jobs, jobFromPosting(value, source))
		case "itemlist":
			if items, ok := value["itemListElement"].([]any); ok {
				for _, item := range items {
					jobs = append(jobs, jobsFromJSONLD(item, source)...)
				}
			}
		}
		if graph, ok := value["@graph"]; ok {
			jobs = append(jobs, jobsFromJSONLD(graph, source)...)
		}
		if item, ok := value["item"]; ok {
			jobs = append(jobs, jobsFromJSONLD(item, source)...)
		}
	}

	return jobs
}

func jobFromPosting(value map[string]any, source string) models.Job {
	job := models.Job{
		Source:    source,
		ScrapedAt: timestamp(),
	}
	job.Title = stringValue(value["title"], value["name"])
	job.URL = stringValue(value["url"], value["@id"])
	job.Date = stringValue(value["datePosted"])
	job.Description = truncate(cleanText(stringValue(value["description"])), 2000)

	if org, ok := value["hiringOrganization"].(map[string]any); ok {
		job.Company = stringValue(org["name"])
	}
	job.Location = locationFromJSONLD(value["jobLocation"])
	return job
}

func locationFromJSONLD(value any) string {
	switch v := value.(type) {
	case []any:
		var parts []string
		for _, item := range v {
			if loc := locationFromJSONLD(item); loc != "" {
				parts = append(parts, loc)
			}
		}
		return strings.Join(parts, "; ")
	case map[string]any:
		if address, ok := v["address"].(map[string]any); ok {
			return joinAddress(address)
		}
		return joinAddress(v)
	case string:
		return v
	}
	return ""
}

func joinAddress(value map[string]any) string {
	var parts []string
	for _, key := range []string{"addressLocality", "addressRegion", "postalCode", "addressCountry"} {
		if part := strings.TrimSpace(stringValue(value[key])); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}

func stringValue(values ...any) string {
	for _, value := range values {
		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		case map[string]any:
			if name := stringValue(v["name"]); name != "" {
				return name
			}
		}
	}
	return ""
}
