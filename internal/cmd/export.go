package cmd

import (
	"fmt"

	"github.com/Yann31150/Rechercheannonces/internal/compare"
)

type ExportCmd struct {
	Output string `arg:"" help:"Destination file; format inferred from the extension unless --format is set."`
	Format string `help:"Output format: csv, json, md, xlsx, tsv." enum:",csv,json,md,xlsx,tsv" default:""`
}

func (e *ExportCmd) Run(ctx *Context) error {
	jobs, err := compare.ReadJobs(ctx.Config.JobsFile())
	if err != nil {
		return fmt.Errorf("read snapshot (run search first): %w", err)
	}

	if err := writeJobsOutput(ctx, jobs, e.Format, e.Output); err != nil {
		return err
	}
	ctx.UI.Successf("%d offres exportées vers %s", len(jobs), e.Output)
	return nil
}
