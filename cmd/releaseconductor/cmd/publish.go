package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/grokify/releaseconductor/internal/changelog"
	"github.com/grokify/releaseconductor/internal/releaser"
	"github.com/grokify/releaseconductor/pkg/model"
)

var publishCmd = &cobra.Command{
	Use:   "publish [repo_directory]",
	Short: "Create a GitHub release for the next version",
	Long: `Publish the next release: create a GitHub release tagged with the next
version at the local HEAD commit, using the staged release notes as its body,
and upload build assets to it.

Examples:
  # Show the release that would be created
  releaseconductor publish --dry-run

  # Publish with assets
  releaseconductor publish --asset dist/app.tar.gz --asset dist/app.zip

  # Create a draft prerelease for review
  releaseconductor publish --draft-release --prerelease`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)

	publishCmd.Flags().StringSlice("asset", nil, "File to upload to the release (repeatable)")
	publishCmd.Flags().Bool("draft-release", false, "Create the release as a draft")
	publishCmd.Flags().Bool("prerelease", false, "Mark the release as a prerelease")

	_ = viper.BindPFlag("publish.assets", publishCmd.Flags().Lookup("asset"))
	_ = viper.BindPFlag("publish.draft", publishCmd.Flags().Lookup("draft-release"))
	_ = viper.BindPFlag("publish.prerelease", publishCmd.Flags().Lookup("prerelease"))
}

func runPublish(cmd *cobra.Command, args []string) error {
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

	result := model.PublishResult{
		Timestamp: time.Now(),
		DryRun:    a.cfg.DryRun,
		Repo:      a.repo.Ref(),
		Decision:  decision,
	}

	if !decision.HasChanges() {
		result.Skipped = nothingToRelease
		return printPublish(a, &result)
	}

	assets, err := localAssets(viper.GetStringSlice("publish.assets"))
	if err != nil {
		return err
	}

	body, err := changelog.Latest(a.releasesDir(), decision.Next)
	if err != nil {
		return err
	}
	if body == "" {
		a.log.Warn(ctx, "no staged release notes, generating them", map[string]any{"version": decision.Next.String()})
		body = a.renderNotes(snap, decision, result.Timestamp, "", "")
	}

	target, err := a.local.HeadSHA(ctx)
	if err != nil {
		return err
	}

	opts := releaser.Options{
		Prefix:     a.project.TagPrefix,
		Draft:      viper.GetBool("publish.draft"),
		Prerelease: viper.GetBool("publish.prerelease"),
	}
	req := releaser.NewRequest(a.repo.Ref(), decision, target, body, opts)
	result.Request = *req

	publisher := releaser.NewGitHubPublisher(a.client)

	exists, err := publisher.TagExists(ctx, req.Repo, req.TagName)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("tag %s already exists on %s", req.TagName, req.Repo.FullName())
	}

	if result.DryRun {
		result.Assets = assets
		return printPublish(a, &result)
	}

	release, err := publisher.CreateRelease(ctx, req)
	if err != nil {
		return err
	}
	result.Release = release
	a.log.Info(ctx, "release created", map[string]any{"tag": release.TagName, "url": release.HTMLURL})

	for _, asset := range assets {
		uploaded, err := publisher.UploadAsset(ctx, release, asset.Path)
		if err != nil {
			return err
		}
		result.Assets = append(result.Assets, *uploaded)
		a.log.Debug(ctx, "asset uploaded", map[string]any{"name": uploaded.Name, "size": uploaded.Size})
	}

	return printPublish(a, &result)
}

// localAssets checks that every asset file exists before anything is published.
func localAssets(paths []string) ([]model.Asset, error) {
	assets := make([]model.Asset, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read asset: %w", err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("asset %s is a directory", p)
		}
		assets = append(assets, model.Asset{Name: filepath.Base(p), Path: p, Size: info.Size()})
	}
	return assets, nil
}

func printPublish(a *app, result *model.PublishResult) error {
	output, err := a.formatter.FormatPublish(result)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	fmt.Print(output)

	return nil
}
