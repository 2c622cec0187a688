package cmd

import (
	"github.com/alecthomas/kong"
)

type CLI struct {
	Color   string `help:"Color output: auto, always, never." enum:"auto,always,never" default:"auto"`
	JSON    bool   `help:"JSON output to stdout; disables colors."`
	Plain   bool   `help:"TSV output to stdout; disables colors."`
	Verbose bool   `help:"Enable debug logging."`

	VersionFlag kong.VersionFlag `help:"Print version."`

	Version VersionCmd `cmd:"" help:"Print version."`
	Config  ConfigCmd  `cmd:"" help:"Manage configuration."`
	Search  SearchCmd  `cmd:"" help:"Scrape job boards and save a snapshot."`
	Compare CompareCmd `cmd:"" help:"Diff the snapshot against the previous run."`
	Analyze AnalyzeCmd `cmd:"" help:"Skill frequency analysis of the snapshot."`
	Apply   ApplyCmd   `cmd:"" help:"Track applications and generate cover letters."`
	Notify  NotifyCmd  `cmd:"" help:"Email the new-postings digest."`
	Export  ExportCmd  `cmd:"" help:"Export the snapshot to a file."`
}

func NewCLI() *CLI {
	return &CLI{}
}
