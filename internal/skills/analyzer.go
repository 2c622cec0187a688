package skills

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/Yann31150/Rechercheannonces/internal/models"
)

// Count is a skill name with its occurrence count over one analysis run.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type exactSkill struct {
	name     string
	patterns []*regexp.Regexp
}

// Analyzer counts requested skills over a batch of postings. Counting is
// presence-per-document: a posting mentioning "python" five times still
// contributes 1 to Python.
type Analyzer struct {
	exact  []exactSkill
	groups []SynonymGroup

	counts       map[string]int
	order        []string
	jobsAnalyzed int
}

// NewAnalyzer compiles the matching patterns for the built-in vocabulary.
func NewAnalyzer() *Analyzer {
	analyzer := &Analyzer{
		groups: SynonymGroups,
		counts: map[string]int{},
	}
	for _, name := range ExactSkills {
		analyzer.exact = append(analyzer.exact, exactSkill{
			name:     name,
			patterns: compileVariants(name),
		})
	}
	return analyzer
}

// compileVariants builds whole-word patterns for the three surface forms of
// a skill name: literal, spaces as hyphens, spaces as underscores.
func compileVariants(name string) []*regexp.Regexp {
	lower := strings.ToLower(name)
	variants := []string{
		lower,
		strings.ReplaceAll(lower, " ", "-"),
		strings.ReplaceAll(lower, " ", "_"),
	}

	var patterns []*regexp.Regexp
	seen := map[string]struct{}{}
	for _, variant := range variants {
		if _, dup := seen[variant]; dup {
			continue
		}
		seen[variant] = struct{}{}
		patterns = append(patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(variant)+`\b`))
	}
	return patterns
}

// Analyze resets any previous run and counts skills over the batch.
func (a *Analyzer) Analyze(jobs []models.Job) map[string]int {
	a.counts = map[string]int{}
	a.order = nil
	a.jobsAnalyzed = len(jobs)

	for _, job := range jobs {
		a.countJob(job)
	}

	out := make(map[string]int, len(a.counts))
	for name, count := range a.counts {
		out[name] = count
	}
	return out
}

func (a *Analyzer) countJob(job models.Job) {
	text := strings.ToLower(job.Text())

	// Collect matches into a set first so a skill increments at most once
	// per posting no matter how many variants or synonyms fire.
	matched := map[string]struct{}{}
	var matchOrder []string

	for _, skill := range a.exact {
		for _, pattern := range skill.patterns {
			if pattern.MatchString(text) {
				if _, dup := matched[skill.name]; !dup {
					matched[skill.name] = struct{}{}
					matchOrder = append(matchOrder, skill.name)
				}
				break
			}
		}
	}

	for _, group := range a.groups {
		for _, keyword := range group.Keywords {
			if strings.Contains(text, keyword) {
				if _, dup := matched[group.Name]; !dup {
					matched[group.Name] = struct{}{}
					matchOrder = append(matchOrder, group.Name)
				}
				break
			}
		}
	}

	for _, name := range matchOrder {
		if _, known := a.counts[name]; !known {
			a.order = append(a.order, name)
		}
		a.counts[name]++
	}
}

// Top returns the n highest-count skills, count descending, ties broken by
// first-seen order.
func (a *Analyzer) Top(n int) []Count {
	ranked := make([]Count, 0, len(a.order))
	for _, name := range a.order {
		ranked = append(ranked, Count{Name: name, Count: a.counts[name]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Gap returns the top-30 skills whose name is not in known (case-insensitive).
func (a *Analyzer) Gap(known []string) map[string]int {
	knownSet := make(map[string]struct{}, len(known))
	for _, skill := range known {
		knownSet[strings.ToLower(strings.TrimSpace(skill))] = struct{}{}
	}

	missing := map[string]int{}
	for _, entry := range a.Top(30) {
		if _, have := knownSet[strings.ToLower(entry.Name)]; have {
			continue
		}
		missing[entry.Name] = entry.Count
	}
	return missing
}

// Statistics summarizes one analysis run.
type Statistics struct {
	TotalJobs         int     `json:"total_jobs"`
	TotalSkills       int     `json:"total_skills"`
	TotalMentions     int     `json:"total_mentions"`
	AvgMentionsPerJob float64 `json:"avg_mentions_per_job"`
	MostDemanded      *Count  `json:"most_demanded"`
}

// Statistics reports aggregate counts; the average is 0 when no postings
// were analyzed.
func (a *Analyzer) Statistics() Statistics {
	stats := Statistics{
		TotalJobs:   a.jobsAnalyzed,
		TotalSkills: len(a.counts),
	}
	for _, count := range a.counts {
		stats.TotalMentions += count
	}
	if a.jobsAnalyzed > 0 {
		avg := float64(stats.TotalMentions) / float64(a.jobsAnalyzed)
		stats.AvgMentionsPerJob = math.Round(avg*100) / 100
	}
	if top := a.Top(1); len(top) > 0 {
		stats.MostDemanded = &top[0]
	}
	return stats
}

// Report is the persisted analysis document.
type Report struct {
	JobsAnalyzed     int            `json:"jobs_analyzed"`
	TotalSkillsFound int            `json:"total_skills_found"`
	TopSkills        map[string]int `json:"top_skills"`
	SkillsGap        map[string]int `json:"skills_gap"`
	AllSkills        map[string]int `json:"all_skills"`
}

// BuildReport assembles the report for the last run, with the gap computed
// against the operator's known skills.
func (a *Analyzer) BuildReport(knownSkills []string) Report {
	topSkills := map[string]int{}
	for _, entry := range a.Top(30) {
		topSkills[entry.Name] = entry.Count
	}
	allSkills := make(map[string]int, len(a.counts))
	for name, count := range a.counts {
		allSkills[name] = count
	}

	return Report{
		JobsAnalyzed:     a.jobsAnalyzed,
		TotalSkillsFound: len(a.counts),
		TopSkills:        topSkills,
		SkillsGap:        a.Gap(knownSkills),
		AllSkills:        allSkills,
	}
}

// WriteReport persists the report as pretty JSON.
func WriteReport(path string, report Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
