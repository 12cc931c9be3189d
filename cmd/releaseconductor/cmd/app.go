package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/go-github/v84/github"
	"github.com/spf13/viper"

	"github.com/grokify/releaseconductor/internal/cache"
	"github.com/grokify/releaseconductor/internal/changelog"
	"github.com/grokify/releaseconductor/internal/config"
	"github.com/grokify/releaseconductor/internal/forge"
	"github.com/grokify/releaseconductor/internal/logging"
	"github.com/grokify/releaseconductor/internal/progress"
	"github.com/grokify/releaseconductor/internal/releaser"
	"github.com/grokify/releaseconductor/internal/report"
	"github.com/grokify/releaseconductor/internal/repository"
	"github.com/grokify/releaseconductor/internal/vcs"
	"github.com/grokify/releaseconductor/pkg/model"
)

// app holds everything a command needs for one repository.
type app struct {
	cfg       config.Config
	log       *logging.ZapAdapter
	dir       string
	project   *config.Project
	labels    *config.LabelMapper
	local     *vcs.Repository
	client    *github.Client
	repo      *repository.Repository
	formatter report.Formatter
}

// repoDir returns the repository directory argument, defaulting to the working directory.
func repoDir(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return "."
}

func newApp(ctx context.Context, dir string) (*app, error) {
	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return nil, err
	}

	log := logging.New(cfg.Verbose)

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	project, err := config.LoadProject(abs)
	if err != nil {
		return nil, err
	}

	labels := config.NewLabelMapper(project)
	if err := labels.Validate(); err != nil {
		return nil, err
	}

	local, err := vcs.Open(abs, vcs.Options{TagPrefix: project.TagPrefix})
	if err != nil {
		return nil, err
	}

	forgeOpts := forge.Options{
		Token:      cfg.Token,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.Retries,
	}
	if !cfg.Cache.Disabled {
		store, err := cache.New(cache.Config{Dir: cfg.Cache.Dir, TTL: cfg.Cache.TTL})
		if err != nil {
			return nil, err
		}
		forgeOpts.Cache = store
		log.Debug(ctx, "response cache enabled", map[string]any{"dir": store.Dir(), "ttl": store.TTL().String()})
	}

	client, err := forge.NewClient(forgeOpts)
	if err != nil {
		return nil, err
	}

	repoOpts := repository.Options{
		Remote:      cfg.Remote,
		Concurrency: cfg.Concurrency,
	}
	if cfg.Repo != "" {
		repoOpts.Ref = model.ParseRepoRef(cfg.Repo)
	}
	if cfg.Verbose {
		repoOpts.Progress = progress.NewWriter(progress.Config{Writer: os.Stderr})
	}

	repo, err := repository.New(local, func(ref model.RepoRef) (forge.Forge, error) {
		return forge.NewGitHubForgeWithClient(ref, client, cfg.Timeout), nil
	}, repoOpts)
	if err != nil {
		return nil, err
	}

	formatter, err := report.New(cfg.Format)
	if err != nil {
		return nil, err
	}

	log.Debug(ctx, "repository opened", map[string]any{
		"path": abs,
		"repo": repo.Ref().FullName(),
	})

	return &app{
		cfg:       cfg,
		log:       log,
		dir:       abs,
		project:   project,
		labels:    labels,
		local:     local,
		client:    client,
		repo:      repo,
		formatter: formatter,
	}, nil
}

// decide computes the release state and classifies it with the project label vocabulary.
func (a *app) decide(ctx context.Context) (*repository.Snapshot, model.ReleaseDecision, error) {
	snap, err := a.repo.Snapshot(ctx)
	if err != nil {
		return nil, model.ReleaseDecision{}, err
	}

	decision := releaser.Classify(snap.Latest, a.labels.Canonicalize(snap.Changes))

	a.log.Info(ctx, "release state computed", map[string]any{
		"latest":  snap.Latest.String(),
		"merges":  len(snap.Merges),
		"changes": len(snap.Changes),
		"type":    string(decision.Type),
		"next":    decision.Next.String(),
	})

	return snap, decision, nil
}

// sections returns the release notes sections in label catalogue order.
func (a *app) sections() []changelog.Section {
	names := a.project.LabelNames()
	sections := make([]changelog.Section, 0, len(names))
	for _, name := range names {
		sections = append(sections, changelog.Section{Label: name, Heading: a.labels.Heading(name)})
	}
	return sections
}

// releasesDir returns the directory staged release notes live in.
func (a *app) releasesDir() string {
	return a.project.ReleasesPath(a.dir)
}

// renderNotes renders the release notes for the proposed version.
func (a *app) renderNotes(snap *repository.Snapshot, decision model.ReleaseDecision, date time.Time, name, description string) string {
	return changelog.Render(changelog.Notes{
		Version:     decision.Next,
		Date:        date,
		Name:        name,
		Description: description,
		Changes:     snap.Changes,
	}, a.sections())
}

// close flushes buffered log entries.
func (a *app) close() {
	_ = a.log.Sync()
}
