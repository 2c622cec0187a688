package cmd

import (
	"context"
	"fmt"

	"github.com/Yann31150/Rechercheannonces/internal/compare"
	"github.com/Yann31150/Rechercheannonces/internal/notify"
)

type CompareCmd struct {
	Format   string `help:"Output format for new postings: csv, json, md, xlsx." enum:",csv,json,md,xlsx" default:""`
	Output   string `name:"output" short:"o" help:"Write new postings to a file."`
	NoUpdate bool   `help:"Keep the previous baseline and history untouched."`
	Notify   bool   `help:"Email the digest of new postings."`
}

func (c *CompareCmd) Run(ctx *Context) error {
	cfg := ctx.Config

	current, err := compare.ReadJobs(cfg.JobsFile())
	if err != nil {
		return fmt.Errorf("read snapshot (run search first): %w", err)
	}
	previous, err := compare.ReadJobsAllowMissing(cfg.PreviousFile())
	if err != nil {
		return fmt.Errorf("read previous snapshot: %w", err)
	}

	// First run: no baseline yet, everything counts as new.
	newJobs, removedJobs, stats := compare.Diff(previous, current)

	ctx.UI.Infof("Offres précédentes: %d", stats.TotalPrevious)
	ctx.UI.Infof("Offres actuelles: %d", stats.TotalCurrent)
	if stats.New > 0 {
		ctx.UI.Successf("Nouvelles offres: %d", stats.New)
	} else {
		ctx.UI.Infof("Nouvelles offres: 0")
	}
	if stats.Removed > 0 {
		ctx.UI.Warnf("Offres retirées: %d", stats.Removed)
		if ctx.Verbose {
			for _, job := range removedJobs {
				ctx.UI.Warnf("  - %s (%s)", job.Title, job.Company)
			}
		}
	}

	if err := writeJobsOutput(ctx, newJobs, c.Format, c.Output); err != nil {
		return err
	}

	// The digest goes out before the baseline rotates, and a failed send is
	// a warning, not an error. On failure the baseline is kept as-is so the
	// same postings stay diffable and the digest can be re-sent (notify
	// command, or the next compare).
	sendFailed := false
	if c.Notify {
		notifier := notify.NewNotifier(cfg.SMTP, ctx.Logger)
		if err := notifier.Send(context.Background(), newJobs, len(current)); err != nil {
			sendFailed = true
			ctx.Logger.Warn().Err(err).Msg("digest send failed")
			ctx.UI.Warnf("Envoi de l'email impossible: %v", err)
			ctx.UI.Warnf("Référence conservée; relancez compare ou notify pour renvoyer.")
		} else {
			ctx.UI.Successf("Email envoyé à %s", cfg.SMTP.Recipient)
		}
	}

	if !c.NoUpdate && !sendFailed {
		if err := compare.WriteJobs(cfg.PreviousFile(), current); err != nil {
			return fmt.Errorf("update baseline: %w", err)
		}
		if _, err := compare.AppendHistory(cfg.HistoryFile(), current); err != nil {
			return fmt.Errorf("append history: %w", err)
		}
	}
	return nil
}
