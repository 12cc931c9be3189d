package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/grokify/releaseconductor/pkg/model"
)

var labelsCmd = &cobra.Command{
	Use:   "labels [repo_directory]",
	Short: "List the GitHub labels and how releases use them",
	Long: `List the label catalogue of the GitHub repository, marking the labels that
get their own release notes section and the classifier label they map onto.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLabels,
}

func init() {
	rootCmd.AddCommand(labelsCmd)
}

func runLabels(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, repoDir(args))
	if err != nil {
		return err
	}
	defer a.close()

	labels, err := a.repo.Labels(ctx)
	if err != nil {
		return err
	}

	result := model.LabelsResult{
		Timestamp: time.Now(),
		Repo:      a.repo.Ref(),
		Labels:    a.labels.Decorate(labels),
		Canonical: a.labels.Mapping(),
	}

	output, err := a.formatter.FormatLabels(&result)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	fmt.Print(output)

	return nil
}
