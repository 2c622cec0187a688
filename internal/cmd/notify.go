package cmd

import (
	"context"
	"fmt"

	"github.com/Yann31150/Rechercheannonces/internal/compare"
	"github.com/Yann31150/Rechercheannonces/internal/notify"
)

type NotifyCmd struct {
	All bool `help:"Send the whole snapshot instead of only the new postings."`
}

// NotifyCmd diffs without rotating the baseline, so compare keeps seeing
// the same new postings afterwards.
func (n *NotifyCmd) Run(ctx *Context) error {
	cfg := ctx.Config

	current, err := compare.ReadJobs(cfg.JobsFile())
	if err != nil {
		return fmt.Errorf("read snapshot (run search first): %w", err)
	}

	digest := current
	if !n.All {
		previous, err := compare.ReadJobsAllowMissing(cfg.PreviousFile())
		if err != nil {
			return fmt.Errorf("read previous snapshot: %w", err)
		}
		digest, _, _ = compare.Diff(previous, current)
	}

	notifier := notify.NewNotifier(cfg.SMTP, ctx.Logger)
	if err := notifier.Send(context.Background(), digest, len(current)); err != nil {
		return err
	}
	ctx.UI.Successf("Email envoyé à %s (%d offres)", cfg.SMTP.Recipient, len(digest))
	return nil
}
