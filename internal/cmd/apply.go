package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/Yann31150/Rechercheannonces/internal/apply"
	"github.com/Yann31150/Rechercheannonces/internal/compare"
	"github.com/Yann31150/Rechercheannonces/internal/config"
	"github.com/Yann31150/Rechercheannonces/internal/letter"
	"github.com/Yann31150/Rechercheannonces/internal/models"
)

type ApplyCmd struct {
	Prepare PrepareApplyCmd `cmd:"" help:"Generate a cover letter and record the application."`
	Send    SendApplyCmd    `cmd:"" help:"Mark an application as sent."`
	Status  StatusApplyCmd  `cmd:"" help:"Update the status of an application."`
	Notes   NotesApplyCmd   `cmd:"" help:"Replace the notes of an application."`
	Delete  DeleteApplyCmd  `cmd:"" help:"Remove an application."`
	List    ListApplyCmd    `cmd:"" help:"List tracked applications."`
	Stats   StatsApplyCmd   `cmd:"" help:"Application statistics by status."`
}

type PrepareApplyCmd struct {
	URL     string `arg:"" help:"Posting URL; matched against the snapshot when present."`
	Title   string `help:"Posting title (when the URL is not in the snapshot)."`
	Company string `help:"Company name (when the URL is not in the snapshot)."`
	NoLLM   bool   `help:"Skip the LLM backend and use the built-in templates."`
}

func (p *PrepareApplyCmd) Run(ctx *Context) error {
	cfg := ctx.Config

	job, found := findSnapshotJob(cfg, p.URL)
	if !found {
		if p.Title == "" {
			return fmt.Errorf("url not in snapshot; provide --title (and --company)")
		}
		job = models.Job{Title: p.Title, Company: p.Company, URL: p.URL}
	}

	manager, err := newManager(ctx, p.NoLLM)
	if err != nil {
		return err
	}

	application, err := manager.Prepare(job, personalInfo(cfg))
	if err != nil {
		return err
	}
	if application == nil {
		ctx.UI.Warnf("Candidature déjà suivie pour %s", p.URL)
		return nil
	}

	ctx.UI.Successf("Lettre générée: %s", application.CoverLetterPath)
	ctx.UI.Infof("Candidature enregistrée (%s) pour %s chez %s", application.Status, application.JobTitle, application.Company)
	return nil
}

type SendApplyCmd struct {
	URL string `arg:"" help:"Posting URL of the tracked application."`
	At  string `help:"Sent timestamp (2006-01-02 15:04:05); defaults to now."`
}

func (s *SendApplyCmd) Run(ctx *Context) error {
	manager, err := newManager(ctx, true)
	if err != nil {
		return err
	}

	found, err := manager.MarkSent(s.URL, s.At)
	if err != nil {
		return err
	}
	if !found {
		ctx.UI.Warnf("Aucune candidature pour %s", s.URL)
		return nil
	}
	ctx.UI.Successf("Candidature marquée envoyée: %s", s.URL)
	return nil
}

type StatusApplyCmd struct {
	URL    string `arg:"" help:"Posting URL of the tracked application."`
	Status string `arg:"" help:"New status: prepared, sent, accepted, rejected."`
	Notes  string `help:"Replace the notes while updating."`
}

func (s *StatusApplyCmd) Run(ctx *Context) error {
	if !models.ValidStatus(s.Status) {
		return fmt.Errorf("unknown status %q (valid: %s)", s.Status, strings.Join(models.Statuses, ", "))
	}

	manager, err := newManager(ctx, true)
	if err != nil {
		return err
	}

	var notes *string
	if s.Notes != "" {
		notes = &s.Notes
	}
	found, err := manager.UpdateStatus(s.URL, s.Status, notes)
	if err != nil {
		return err
	}
	if !found {
		ctx.UI.Warnf("Aucune candidature pour %s", s.URL)
		return nil
	}
	ctx.UI.Successf("Statut mis à jour: %s -> %s", s.URL, s.Status)
	return nil
}

type NotesApplyCmd struct {
	URL   string `arg:"" help:"Posting URL of the tracked application."`
	Notes string `arg:"" help:"New notes content."`
}

func (n *NotesApplyCmd) Run(ctx *Context) error {
	manager, err := newManager(ctx, true)
	if err != nil {
		return err
	}

	found, err := manager.UpdateNotes(n.URL, n.Notes)
	if err != nil {
		return err
	}
	if !found {
		ctx.UI.Warnf("Aucune candidature pour %s", n.URL)
		return nil
	}
	ctx.UI.Successf("Notes mises à jour pour %s", n.URL)
	return nil
}

type DeleteApplyCmd struct {
	URL string `arg:"" help:"Posting URL of the tracked application."`
}

func (d *DeleteApplyCmd) Run(ctx *Context) error {
	manager, err := newManager(ctx, true)
	if err != nil {
		return err
	}

	removed, err := manager.Delete(d.URL)
	if err != nil {
		return err
	}
	if !removed {
		ctx.UI.Warnf("Aucune candidature pour %s", d.URL)
		return nil
	}
	ctx.UI.Successf("Candidature supprimée: %s", d.URL)
	return nil
}

type ListApplyCmd struct {
	Status string `help:"Filter by status: prepared, sent, accepted, rejected." enum:",prepared,sent,accepted,rejected" default:""`
}

func (l *ListApplyCmd) Run(ctx *Context) error {
	manager, err := newManager(ctx, true)
	if err != nil {
		return err
	}

	applications := manager.ByStatus(l.Status)
	if ctx.JSONOutput {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(applications)
	}

	if len(applications) == 0 {
		ctx.UI.Infof("Aucune candidature suivie.")
		return nil
	}

	tw := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "status\ttitle\tcompany\tprepared_at\tsent_at\turl")
	for _, app := range applications {
		sentAt := "-"
		if app.SentAt != nil {
			sentAt = *app.SentAt
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			app.Status, app.JobTitle, app.Company, app.PreparedAt, sentAt, app.JobURL)
	}
	return tw.Flush()
}

type StatsApplyCmd struct{}

func (s *StatsApplyCmd) Run(ctx *Context) error {
	manager, err := newManager(ctx, true)
	if err != nil {
		return err
	}

	stats := manager.Statistics()
	if ctx.JSONOutput {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	ctx.UI.Infof("Candidatures suivies: %d", stats.Total)
	ctx.UI.Infof("  préparées: %d", stats.Prepared)
	ctx.UI.Infof("  envoyées: %d", stats.Sent)
	ctx.UI.Successf("  acceptées: %d", stats.Accepted)
	ctx.UI.Warnf("  refusées: %d", stats.Rejected)
	return nil
}

// newManager wires the tracker with the letter pipeline. Subcommands that
// never generate a letter pass noLLM to avoid touching the backend config.
func newManager(ctx *Context, noLLM bool) (*apply.Manager, error) {
	cfg := ctx.Config

	var llm letter.Generator
	if !noLLM && cfg.LLM.Provider != "" {
		llm = letter.NewLLMGenerator(letter.LLMConfig{
			Provider: cfg.LLM.Provider,
			Model:    cfg.LLM.Model,
			BaseURL:  cfg.LLM.BaseURL,
			APIKey:   cfg.LLM.APIKey,
		})
	}
	producer := letter.NewProducer(llm, ctx.Logger)

	return apply.NewManager(cfg.AppsFile(), cfg.LettersDir, producer, ctx.Logger)
}

func personalInfo(cfg config.Config) letter.PersonalInfo {
	return letter.PersonalInfo{
		Name:       cfg.Profile.Name,
		Email:      cfg.Profile.Email,
		Phone:      cfg.Profile.Phone,
		Address:    cfg.Profile.Address,
		Intro:      cfg.Profile.Intro,
		Experience: cfg.Profile.Experience,
		CVPath:     cfg.Profile.CVPath,
	}
}

func findSnapshotJob(cfg config.Config, url string) (models.Job, bool) {
	if url == "" {
		return models.Job{}, false
	}
	jobs, err := compare.ReadJobsAllowMissing(cfg.JobsFile())
	if err != nil {
		return models.Job{}, false
	}
	for _, job := range jobs {
		if job.URL == url {
			return job, true
		}
	}
	return models.Job{}, false
}
