package main

import (
	"context"
	"os"
	"path/filepath"

	"gerrit-reviewstats/internal/config"
	"gerrit-reviewstats/internal/domain"
	"gerrit-reviewstats/internal/report"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type options struct {
	project     string
	all         bool
	days        int
	onlyOpen    bool
	stable      string
	output      string
	verbose     bool
	server      string
	user        string
	key         string
	cache       string
	projectsDir string
}

func newRootCmd(cfg config.Config, logger *logrus.Logger) *cobra.Command {
	opts := &options{
		days:        14,
		output:      report.FormatText,
		server:      cfg.GerritHost,
		user:        cfg.GerritUser,
		key:         cfg.GerritKey,
		cache:       cfg.CacheBackend,
		projectsDir: cfg.ProjectsDir,
	}

	cmd := &cobra.Command{
		Use:   "reviewers",
		Short: "Code review statistics for Gerrit projects",
		Long: `reviewers ranks the people reviewing changes of one or more Gerrit projects.

For every reviewer it counts Code-Review votes cast in the last N days and
the disagreements with the project's core team.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.verbose {
				logger.SetLevel(logrus.DebugLevel)
			}
			opts.resolve()
			opts.apply(&cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), cfg, opts, logger)
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	flags.StringVar(&opts.server, "server", opts.server, "Gerrit server host")
	flags.StringVarP(&opts.user, "user", "u", opts.user, "Gerrit user")
	flags.StringVarP(&opts.key, "key", "k", opts.key, "SSH key for gerrit")
	flags.StringVar(&opts.cache, "cache", opts.cache, "Change cache backend (file, postgres, none)")
	flags.StringVar(&opts.projectsDir, "projects-dir", opts.projectsDir, "Directory with project JSON files")

	local := cmd.Flags()
	local.StringVarP(&opts.project, "project", "p", "", "JSON file describing the project to generate stats for (default <projects-dir>/nova.json)")
	local.BoolVarP(&opts.all, "all", "a", false, "Generate stats across all known projects (*.json)")
	local.IntVarP(&opts.days, "days", "d", opts.days, "Number of days to consider")
	local.BoolVar(&opts.onlyOpen, "open-only", false, "Only consider open changes")
	local.StringVar(&opts.stable, "stable", "", "Only consider changes on stable/<name>")
	local.StringVarP(&opts.output, "output", "o", opts.output, "Output format (text, json, yaml)")

	cmd.AddCommand(newServeCmd(&cfg, logger))

	return cmd
}

// resolve подставляет значения по умолчанию, зависящие от других флагов.
func (o *options) resolve() {
	if o.project == "" {
		o.project = filepath.Join(o.projectsDir, "nova.json")
	}
}

// apply переносит значения флагов в конфигурацию.
func (o *options) apply(cfg *config.Config) {
	cfg.GerritHost = o.server
	cfg.GerritUser = o.user
	cfg.GerritKey = o.key
	cfg.CacheBackend = o.cache
	cfg.ProjectsDir = o.projectsDir
}

func runReport(ctx context.Context, cfg config.Config, opts *options, logger *logrus.Logger) error {
	statsUC, cleanup, err := newStatsUseCase(cfg, logger)
	if err != nil {
		logger.WithError(err).Error("Failed to initialise")
		return err
	}
	defer cleanup()

	rep, err := statsUC.ReviewerReport(ctx, domain.ReportRequest{
		Selector: domain.ProjectSelector{Path: opts.project, All: opts.all},
		Days:     opts.days,
		Fetch:    domain.FetchOptions{OnlyOpen: opts.onlyOpen, Stable: opts.stable},
	})
	if err != nil {
		logger.WithError(err).Error("Failed to build reviewer report")
		return err
	}

	return report.Write(os.Stdout, rep, opts.output)
}
