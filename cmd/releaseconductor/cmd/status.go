package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/grokify/releaseconductor/pkg/model"
)

var statusCmd = &cobra.Command{
	Use:   "status [repo_directory]",
	Short: "Show the changes since the latest version and the proposed release",
	Long: `Show the latest tagged version of a repository, the pull requests merged
since that version and the release type they call for.

Examples:
  # Status of the repository in the working directory
  releaseconductor status

  # Status of another checkout as JSON
  releaseconductor status ../myproject --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, repoDir(args))
	if err != nil {
		return err
	}
	defer a.close()

	snap, decision, err := a.decide(ctx)
	if err != nil {
		return err
	}

	result := model.StatusResult{
		Timestamp:     time.Now(),
		Repo:          a.repo.Ref(),
		LatestVersion: snap.Latest,
		Base:          snap.Base,
		Changes:       snap.Changes,
		ChangeCount:   len(snap.Changes),
		Decision:      decision,
	}

	output, err := a.formatter.FormatStatus(&result)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	fmt.Print(output)

	return nil
}
