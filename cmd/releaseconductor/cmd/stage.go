package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/grokify/releaseconductor/internal/bumpversion"
	"github.com/grokify/releaseconductor/internal/changelog"
	"github.com/grokify/releaseconductor/internal/repository"
	"github.com/grokify/releaseconductor/pkg/model"
)

// nothingToRelease is reported when no change calls for a release.
const nothingToRelease = "nothing to release"

var stageCmd = &cobra.Command{
	Use:   "stage [repo_directory] [release_name] [release_description]",
	Short: "Write release notes and bump version files for the next release",
	Long: `Stage the next release: render release notes for the pull requests merged
since the latest version into the releases directory and replace the current
version string with the next one in every configured version file.

Examples:
  # Preview the release notes without writing anything
  releaseconductor stage --draft

  # Stage a named release
  releaseconductor stage . "Spring cleaning" "Removes deprecated options."

  # Undo a staged release
  releaseconductor stage --discard`,
	Args: cobra.MaximumNArgs(3),
	RunE: runStage,
}

func init() {
	rootCmd.AddCommand(stageCmd)

	stageCmd.Flags().Bool("draft", false, "Print the release notes instead of writing files")
	stageCmd.Flags().Bool("discard", false, "Remove the staged release notes and revert version files")

	_ = viper.BindPFlag("stage.draft", stageCmd.Flags().Lookup("draft"))
	_ = viper.BindPFlag("stage.discard", stageCmd.Flags().Lookup("discard"))
}

func runStage(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, repoDir(args))
	if err != nil {
		return err
	}
	defer a.close()

	var name, description string
	if len(args) > 1 {
		name = args[1]
	}
	if len(args) > 2 {
		description = args[2]
	}

	dryRun := a.cfg.DryRun || viper.GetBool("stage.draft")
	discard := viper.GetBool("stage.discard")

	snap, decision, err := a.decide(ctx)
	if err != nil {
		return err
	}

	result := model.StageResult{
		Timestamp: time.Now(),
		DryRun:    dryRun,
		Discarded: discard,
		Repo:      a.repo.Ref(),
		Decision:  decision,
	}

	switch {
	case !decision.HasChanges():
		result.Skipped = nothingToRelease
		a.log.Info(ctx, nothingToRelease, map[string]any{"latest": snap.Latest.String()})
	case discard:
		err = a.discard(&result)
	default:
		err = a.stage(&result, snap, name, description)
	}
	if err != nil {
		return err
	}

	output, err := a.formatter.FormatStage(&result)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	fmt.Print(output)

	return nil
}

func (a *app) stage(result *model.StageResult, snap *repository.Snapshot, name, description string) error {
	notes := a.renderNotes(snap, result.Decision, result.Timestamp, name, description)
	fileName := changelog.FileName(result.Decision.Next, result.Timestamp, name)

	// Check the version files before writing notes so a failure leaves nothing behind.
	files, err := bumpversion.Bump(a.dir, a.project.VersionFiles, result.Decision.Current, result.Decision.Next, true)
	if err != nil {
		return fmt.Errorf("failed to bump version files: %w", err)
	}

	if result.DryRun {
		result.NotesPath = filepath.Join(a.releasesDir(), fileName)
		result.Notes = notes
		result.VersionFiles = files
		return nil
	}

	path, err := changelog.Write(a.releasesDir(), fileName, notes)
	if err != nil {
		return err
	}
	result.NotesPath = path

	files, err = bumpversion.Bump(a.dir, a.project.VersionFiles, result.Decision.Current, result.Decision.Next, false)
	if err != nil {
		return fmt.Errorf("failed to bump version files: %w", err)
	}
	result.VersionFiles = files

	return nil
}

func (a *app) discard(result *model.StageResult) error {
	var paths []string
	var err error
	if result.DryRun {
		paths, err = changelog.Find(a.releasesDir(), result.Decision.Next)
	} else {
		paths, err = changelog.Discard(a.releasesDir(), result.Decision.Next)
	}
	if err != nil {
		return err
	}
	if len(paths) > 0 {
		result.NotesPath = paths[len(paths)-1]
	}

	files, err := bumpversion.Revert(a.dir, a.project.VersionFiles, result.Decision.Current, result.Decision.Next, result.DryRun)
	if err != nil {
		return fmt.Errorf("failed to revert version files: %w", err)
	}
	result.VersionFiles = files

	return nil
}
