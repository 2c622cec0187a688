package cmd

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/Yann31150/Rechercheannonces/internal/compare"
	"github.com/Yann31150/Rechercheannonces/internal/skills"
)

type AnalyzeCmd struct {
	Top      int    `help:"Number of skills to display." default:"20"`
	Gap      bool   `help:"Show in-demand skills missing from your configured skill list."`
	Skills   string `help:"Comma-separated known skills (overrides config)."`
	Report   string `help:"Write the full analysis report to a JSON file."`
	NoReport bool   `help:"Skip writing the default report file."`
}

func (a *AnalyzeCmd) Run(ctx *Context) error {
	cfg := ctx.Config

	jobs, err := compare.ReadJobs(cfg.JobsFile())
	if err != nil {
		return fmt.Errorf("read snapshot (run search first): %w", err)
	}

	known := cfg.YourSkills
	if override := splitList(a.Skills); len(override) > 0 {
		known = override
	}

	analyzer := skills.NewAnalyzer()
	analyzer.Analyze(jobs)
	stats := analyzer.Statistics()

	ctx.UI.Infof("Offres analysées: %d", stats.TotalJobs)
	ctx.UI.Infof("Compétences distinctes: %d", stats.TotalSkills)
	ctx.UI.Infof("Mentions par offre (moyenne): %.2f", stats.AvgMentionsPerJob)
	if stats.MostDemanded != nil {
		ctx.UI.Successf("Compétence la plus demandée: %s (%d offres)", stats.MostDemanded.Name, stats.MostDemanded.Count)
	}

	top := analyzer.Top(a.Top)
	if len(top) > 0 {
		fmt.Fprintln(ctx.Out)
		tw := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "rank\tskill\tjobs")
		for i, entry := range top {
			fmt.Fprintf(tw, "%d\t%s\t%d\n", i+1, entry.Name, entry.Count)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if a.Gap {
		gap := analyzer.Gap(known)
		fmt.Fprintln(ctx.Out)
		if len(gap) == 0 {
			ctx.UI.Successf("Aucune compétence manquante dans le top 30.")
		} else {
			ctx.UI.Warnf("Compétences demandées absentes de votre profil:")
			for _, entry := range sortGap(gap) {
				fmt.Fprintf(ctx.Out, "  %s (%d offres)\n", entry.Name, entry.Count)
			}
		}
	}

	if !a.NoReport {
		path := a.Report
		if path == "" {
			path = cfg.SkillsFile()
		}
		if err := skills.WriteReport(path, analyzer.BuildReport(known)); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		ctx.UI.Infof("Rapport écrit: %s", path)
	}
	return nil
}

func sortGap(gap map[string]int) []skills.Count {
	entries := make([]skills.Count, 0, len(gap))
	for name, count := range gap {
		entries = append(entries, skills.Count{Name: name, Count: count})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
	return entries
}
