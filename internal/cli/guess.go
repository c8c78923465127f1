package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/metaforge/pkg/meta"
	"github.com/matzehuels/metaforge/pkg/vcs"
)

// guessCommand creates the guess command: given one repository (or
// repository-adjacent) URL, print the canonical repository URL and every
// forge fact derivable from it.
func (c *CLI) guessCommand() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "guess <url>",
		Short: "Canonicalize a repository URL and derive related URLs",
		Long: `Canonicalize a repository URL and derive related URLs.

Accepts anything repository-shaped: scp-style git remotes, http clone URLs,
browse pages, CI badges. With --net the URL is verified against the forge's
API and redirects and repository moves are followed.

Examples:
  metaforge guess git@github.com:example/proj.git
  metaforge guess --net https://salsa.debian.org/debian/ppp`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGuess(cmd, args[0], flags)
		},
	}

	flags.register(cmd)
	return cmd
}

func (c *CLI) runGuess(cmd *cobra.Command, rawURL string, flags runFlags) error {
	agg, err := c.newAggregator(cmd, flags)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	checker := agg.Checker()
	prober := checker.Prober()

	// Host heuristics first: CI badges, download pages, and browse URLs map
	// onto a repository before the sanitize chain sees them.
	repo := vcs.GuessRepoFromURL(ctx, rawURL, prober)
	if repo == "" && vcs.PlausibleURL(rawURL) {
		repo = checker.CanonicalRepoURL(ctx, rawURL)
	} else if repo != "" {
		repo = checker.CanonicalRepoURL(ctx, repo)
	}
	if repo == "" {
		printError("No repository recognized in %q", rawURL)
		return nil
	}

	record := meta.NewRecord()
	record.Set(meta.FieldRepository, meta.Entry{Value: repo, Certainty: meta.Likely, Origin: "guess"})
	if browse := vcs.BrowseURLFromRepoURL(repo, "", ""); browse != "" {
		record.Set(meta.FieldRepositoryBrowse, meta.Entry{Value: browse, Certainty: meta.Likely, Origin: "guess"})
	}
	if db := vcs.GuessBugDatabaseURLFromRepoURL(ctx, repo, prober); db != "" {
		record.Set(meta.FieldBugDatabase, meta.Entry{Value: db, Certainty: meta.Likely, Origin: "guess"})
		if submit := vcs.BugSubmitURLFromBugDatabaseURL(ctx, db, prober); submit != "" {
			record.Set(meta.FieldBugSubmit, meta.Entry{Value: submit, Certainty: meta.Likely, Origin: "guess"})
		}
	}

	printRecord(record)
	return nil
}
