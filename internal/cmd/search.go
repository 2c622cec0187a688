package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"

	"github.com/Yann31150/Rechercheannonces/internal/compare"
	"github.com/Yann31150/Rechercheannonces/internal/export"
	"github.com/Yann31150/Rechercheannonces/internal/models"
	"github.com/Yann31150/Rechercheannonces/internal/network"
	"github.com/Yann31150/Rechercheannonces/internal/scraper"
)

type SearchCmd struct {
	Keywords string `arg:"" optional:"" help:"Search keywords (comma-separated). Defaults to the configured keyword list."`
	Sites    string `help:"Comma-separated list of sites (default: all)." default:"all"`
	Location string `help:"Job location." env:"RECHERCHE_DEFAULT_LOCATION"`
	Pages    int    `help:"Result pages per site."`
	Delay    int    `help:"Seconds to wait between page fetches." default:"2"`
	Proxies  string `help:"Comma-separated proxy URLs." env:"RECHERCHE_PROXIES"`
	Format   string `help:"Output format: csv, json, md, xlsx." enum:",csv,json,md,xlsx" default:""`
	Output   string `name:"output" short:"o" help:"Write output to a file."`
	NoSave   bool   `help:"Skip writing the snapshot to the data directory."`
}

const maxKeywords = 10

func (s *SearchCmd) Run(ctx *Context) error {
	keywords, err := resolveKeywords(s.Keywords, ctx.Config.DefaultKeywords)
	if err != nil {
		return err
	}

	sites, err := scraper.NormalizeSites(splitList(s.Sites))
	if err != nil {
		return err
	}

	cfg := ctx.Config
	base := models.SearchParams{
		Location: firstNonEmpty(s.Location, cfg.DefaultLocation),
		Pages:    defaultInt(s.Pages, cfg.MaxPages),
	}

	var rotator *network.Rotator
	if proxies := splitList(s.Proxies); len(proxies) > 0 {
		rotator, err = network.NewRotator(proxies, 10*time.Minute)
		if err != nil {
			return err
		}
	}

	scrapers, err := scraper.Registry(sites, rotator, models.ScraperConfig{
		Delay: time.Duration(s.Delay) * time.Second,
	}, ctx.Logger)
	if err != nil {
		return err
	}

	stopIndicator := startSearchIndicator(ctx)
	if stopIndicator != nil {
		defer stopIndicator()
	}

	var (
		jobs     []models.Job
		failures []scraperFailure
	)
	for _, keyword := range keywords {
		params := base
		params.Keywords = keyword
		keywordJobs, keywordFailures := runScrapers(scrapers, params)
		jobs = mergeUniqueJobs(jobs, keywordJobs)
		failures = append(failures, keywordFailures...)
	}

	sortJobsBySource(jobs)
	reportScraperFailures(ctx, failures)

	if !s.NoSave {
		if err := compare.WriteJobs(cfg.JobsFile(), jobs); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
	}

	if err := writeJobsOutput(ctx, jobs, s.Format, s.Output); err != nil {
		return err
	}

	printSearchSummary(ctx, jobs)
	return nil
}

func resolveKeywords(raw string, defaults []string) ([]string, error) {
	keywords := splitList(raw)
	if len(keywords) == 0 {
		keywords = append(keywords, defaults...)
	}

	seen := make(map[string]struct{}, len(keywords))
	unique := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		normalized := strings.ToLower(keyword)
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		unique = append(unique, keyword)
	}

	if len(unique) == 0 {
		return nil, fmt.Errorf("at least one non-empty keyword is required")
	}
	if len(unique) > maxKeywords {
		return nil, fmt.Errorf("too many keywords: max %d", maxKeywords)
	}
	return unique, nil
}

type scraperResult struct {
	site string
	jobs []models.Job
	err  error
}

type scraperFailure struct {
	site string
	err  error
}

func runScrapers(scrapers []scraper.Scraper, params models.SearchParams) ([]models.Job, []scraperFailure) {
	var (
		wg      sync.WaitGroup
		results = make(chan scraperResult, len(scrapers))
	)

	for _, sc := range scrapers {
		wg.Add(1)
		go func(sc scraper.Scraper) {
			defer wg.Done()
			jobs, err := sc.Search(context.Background(), params)
			results <- scraperResult{site: sc.Name(), jobs: jobs, err: err}
		}(sc)
	}

	wg.Wait()
	close(results)

	var (
		all      []models.Job
		failures []scraperFailure
	)
	for res := range results {
		if res.err != nil {
			failures = append(failures, scraperFailure{site: res.site, err: res.err})
			continue
		}
		all = append(all, res.jobs...)
	}

	sortJobsBySource(all)
	sort.SliceStable(failures, func(i, j int) bool {
		return failures[i].site < failures[j].site
	})
	return all, failures
}

func mergeUniqueJobs(existing []models.Job, incoming []models.Job) []models.Job {
	if len(incoming) == 0 {
		return existing
	}

	sigs := make(map[string]struct{}, len(existing)+len(incoming))
	merged := make([]models.Job, 0, len(existing)+len(incoming))

	for _, job := range existing {
		merged = append(merged, job)
		if sig := compare.Signature(job); sig != "" {
			sigs[sig] = struct{}{}
		}
	}
	for _, job := range incoming {
		sig := compare.Signature(job)
		if sig != "" {
			if _, dup := sigs[sig]; dup {
				continue
			}
			sigs[sig] = struct{}{}
		}
		merged = append(merged, job)
	}
	return merged
}

func sortJobsBySource(jobs []models.Job) {
	sort.SliceStable(jobs, func(i, j int) bool {
		return strings.ToLower(jobs[i].Source) < strings.ToLower(jobs[j].Source)
	})
}

func reportScraperFailures(ctx *Context, failures []scraperFailure) {
	if ctx == nil || ctx.UI == nil || !ctx.Verbose {
		return
	}
	if len(failures) == 0 {
		return
	}

	ctx.UI.Warnf("\nScraper errors:")
	for _, failure := range failures {
		ctx.UI.Warnf("  %s: %v", failure.site, failure.err)
	}
}

func printSearchSummary(ctx *Context, jobs []models.Job) {
	if ctx == nil || ctx.Err == nil {
		return
	}
	fmt.Fprintf(ctx.Err, "%s\n", formatSearchSummary(jobs))
}

func formatSearchSummary(jobs []models.Job) string {
	counts := countJobsBySource(jobs)
	if len(counts) == 0 {
		return "summary: jobs=0 by_site=none"
	}

	parts := make([]string, 0, len(counts))
	for _, count := range counts {
		parts = append(parts, fmt.Sprintf("%s:%d", count.site, count.total))
	}
	return fmt.Sprintf("summary: jobs=%d by_site=%s", len(jobs), strings.Join(parts, ", "))
}

type siteCount struct {
	site  string
	total int
}

func countJobsBySource(jobs []models.Job) []siteCount {
	totals := make(map[string]int, len(jobs))
	for _, job := range jobs {
		site := strings.ToLower(strings.TrimSpace(job.Source))
		if site == "" {
			site = "unknown"
		}
		totals[site]++
	}

	counts := make([]siteCount, 0, len(totals))
	for site, total := range totals {
		counts = append(counts, siteCount{site: site, total: total})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].site < counts[j].site
	})
	return counts
}

// writeJobsOutput routes jobs to stdout or a file in the resolved format.
func writeJobsOutput(ctx *Context, jobs []models.Job, formatArg string, outputPath string) error {
	format, err := resolveFormat(ctx, formatArg, outputPath)
	if err != nil {
		return err
	}

	writer := ctx.Out
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer file.Close()
		writer = file
	}

	colorEnabled := ctx.UI != nil && ctx.UI.ColorEnabled && outputPath == ""
	hyperlinks := colorEnabled && isTTY(writer)
	return export.WriteJobs(writer, jobs, format, export.WriteOptions{
		ColorEnabled: colorEnabled,
		Hyperlinks:   hyperlinks,
		LinkStyle:    export.LinkStyleShort,
	})
}

func resolveFormat(ctx *Context, value string, outputPath string) (export.Format, error) {
	if ctx.JSONOutput {
		return export.FormatJSON, nil
	}
	if ctx.PlainText {
		return export.FormatTSV, nil
	}
	if value != "" {
		return parseFormat(value)
	}
	if outputPath != "" {
		return formatFromPath(outputPath), nil
	}
	if isTTY(ctx.Out) {
		return export.FormatTable, nil
	}
	return export.FormatCSV, nil
}

func formatFromPath(path string) export.Format {
	switch {
	case strings.HasSuffix(path, ".json"):
		return export.FormatJSON
	case strings.HasSuffix(path, ".md"):
		return export.FormatMarkdown
	case strings.HasSuffix(path, ".xlsx"):
		return export.FormatXLSX
	case strings.HasSuffix(path, ".tsv"):
		return export.FormatTSV
	default:
		return export.FormatCSV
	}
}

func parseFormat(value string) (export.Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "csv":
		return export.FormatCSV, nil
	case "json":
		return export.FormatJSON, nil
	case "md", "markdown":
		return export.FormatMarkdown, nil
	case "tsv":
		return export.FormatTSV, nil
	case "xlsx":
		return export.FormatXLSX, nil
	case "table", "":
		return export.FormatTable, nil
	default:
		return "", fmt.Errorf("unknown format: %s", value)
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func defaultInt(value, fallback int) int {
	if value == 0 {
		return fallback
	}
	return value
}

func isTTY(out io.Writer) bool {
	output := termenv.NewOutput(out)
	return output.ColorProfile() != termenv.Ascii
}

func startSearchIndicator(ctx *Context) func() {
	if ctx == nil || ctx.Err == nil || ctx.UI == nil {
		return nil
	}
	if !isTTY(ctx.Err) {
		return nil
	}

	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		start := time.Now()
		frames := []string{"|", "/", "-", "\\"}
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		index := 0

		for {
			select {
			case <-done:
				fmt.Fprint(ctx.Err, "\r\033[2K")
				return
			case <-ticker.C:
				seconds := int(time.Since(start).Seconds())
				frame := frames[index%len(frames)]
				fmt.Fprintf(ctx.Err, "\r\033[2KSearching... %ds %s", seconds, frame)
				index++
			}
		}
	}()

	return func() {
		close(done)
		<-stopped
	}
}
