// SPDX-License-Identifier: MPL-2.0

package install

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/modctl/modctl/internal/issue"
	"github.com/modctl/modctl/internal/runner"
	"github.com/modctl/modctl/pkg/serverconfig"
	"github.com/modctl/modctl/pkg/steamcmd"
	"github.com/modctl/modctl/pkg/types"
)

type (
	// ProcessRunner launches steamcmd. *runner.Runner implements it.
	ProcessRunner interface {
		Run(ctx context.Context, args steamcmd.Args) (*runner.Result, error)
		RunInteractive(ctx context.Context, args steamcmd.Args) (types.ExitCode, error)
	}

	// ServiceOption configures a Service.
	ServiceOption func(*Service)

	// Service installs configured servers through a ProcessRunner.
	Service struct {
		servers serverconfig.Config
		runner  ProcessRunner
		logger  *slog.Logger
		newID   func() string
	}

	// Report summarizes an Install.
	Report struct {
		// RunID identifies the run in logs.
		RunID string
		// Args are the rendered steamcmd arguments.
		Args steamcmd.Args
		// Planned lists the distinct workshop items requested.
		Planned []steamcmd.WorkshopItem
		// Missing lists planned items steamcmd neither reported as
		// downloaded nor as failed.
		Missing []steamcmd.WorkshopItem
		// Result is the runner outcome; nil when steamcmd could not start.
		Result *runner.Result
	}
)

// WithLogger sets the logger used for run records.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = l
	}
}

// WithRunID replaces the run id generator.
func WithRunID(fn func() string) ServiceOption {
	return func(s *Service) {
		s.newID = fn
	}
}

// NewService creates a Service for the given servers.
func NewService(servers serverconfig.Config, r ProcessRunner, opts ...ServiceOption) *Service {
	s := &Service{
		servers: servers,
		runner:  r,
		logger:  slog.Default(),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Plan resolves req and renders its arguments, classifying failures for
// the CLI.
func (s *Service) Plan(req Request) (steamcmd.Args, error) {
	req, err := req.Resolve()
	if err != nil {
		return nil, classify(err, "plan install", req.Server)
	}
	args, err := Plan(s.servers, req)
	if err != nil {
		return nil, classify(err, "plan install", req.Server)
	}
	return args, nil
}

// Install plans req and runs steamcmd. The Report is returned whenever
// planning succeeded, even if the run failed.
func (s *Service) Install(ctx context.Context, req Request) (*Report, error) {
	args, err := s.Plan(req)
	if err != nil {
		return nil, err
	}

	report := &Report{RunID: s.newID(), Args: args}
	if !req.SkipMods {
		server, _ := s.servers.Get(req.Server)
		for _, m := range server.UniqueMods() {
			report.Planned = append(report.Planned, steamcmd.WorkshopItem(m.ID()))
		}
	}

	log := s.logger.With("run_id", report.RunID, "server", req.Server)
	log.Info("installing", "mods", len(report.Planned), "app", uint32(req.App), "skip_app", req.SkipApp || req.App == 0)
	log.Debug("steamcmd arguments", "args", args.String())

	result, err := s.runner.Run(ctx, args)
	report.Result = result
	if err != nil {
		log.Error("steamcmd failed", "error", err)
		return report, classify(err, "run steamcmd", req.Server)
	}

	report.Missing = missing(report.Planned, result)
	log.Info("steamcmd finished",
		"attempts", result.Attempts,
		"downloaded", len(result.Downloaded),
		"failed", len(result.Failures),
		"missing", len(report.Missing),
		"duration", result.Duration.Round(time.Millisecond))

	if err := result.Err(); err != nil {
		return report, classify(err, "download workshop items", req.Server)
	}
	if len(report.Missing) > 0 {
		log.Warn("items not confirmed by steamcmd", "items", report.Missing)
	}
	return report, nil
}

// Shell starts an interactive steamcmd session logged in and pointed at the
// install directory of req.
func (s *Service) Shell(ctx context.Context, req Request) (types.ExitCode, error) {
	req, err := req.Resolve()
	if err != nil {
		return 1, classify(err, "start steamcmd shell", "")
	}
	args := ShellArgs(req)
	s.logger.Debug("starting steamcmd shell", "args", args.String())

	code, err := s.runner.RunInteractive(ctx, args)
	if err != nil {
		return code, classify(err, "start steamcmd shell", "")
	}
	return code, nil
}

func missing(planned []steamcmd.WorkshopItem, result *runner.Result) []steamcmd.WorkshopItem {
	seen := make(map[steamcmd.WorkshopItem]struct{}, len(result.Downloaded)+len(result.Failures))
	for _, item := range result.Downloaded {
		seen[item] = struct{}{}
	}
	for _, f := range result.Failures {
		if f.HasItem {
			seen[f.Item] = struct{}{}
		}
	}
	var out []steamcmd.WorkshopItem
	for _, item := range planned {
		if _, ok := seen[item]; !ok {
			out = append(out, item)
		}
	}
	return out
}

// classify wraps err in an ActionableError pointing at the matching issue
// catalog entry.
func classify(err error, operation, resource string) error {
	ctx := issue.NewErrorContext().WithOperation(operation).WithResource(resource)

	var notFound *ServerNotFoundError
	var dl *runner.DownloadFailedError
	switch {
	case errors.As(err, &notFound):
		ctx.WithIssue(issue.ServerNotFoundId).
			WithSuggestion("Run 'modctl servers' to list configured servers")
		if len(notFound.Known) > 0 {
			ctx.WithSuggestion("Server names are case-sensitive")
		}
	case errors.Is(err, ErrInvalidRequest):
		ctx.WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Set game.workshop_app (or game.app) in the configuration")
	case errors.Is(err, steamcmd.ErrExecutableNotFound):
		ctx.WithIssue(issue.SteamCmdNotFoundId).
			WithSuggestion("Install steamcmd or set " + steamcmd.EnvBinary + " to its path")
	case errors.Is(err, fs.ErrPermission):
		ctx.WithIssue(issue.PermissionDeniedId).
			WithSuggestion("Check permissions of the install directory and the steamcmd executable")
	case errors.Is(err, runner.ErrInteractiveUnavailable):
		ctx.WithIssue(issue.InteractiveUnavailableId).
			WithSuggestion("Run 'modctl shell' from a terminal")
	case errors.As(err, &dl):
		ctx.WithIssue(issue.DownloadFailedId).
			WithSuggestion("Re-run the install; steamcmd resumes partial downloads")
		if items := dl.Items(); len(items) > 0 {
			ctx.WithSuggestion("Check the item pages: " + itemURLs(items))
		}
	case errors.Is(err, runner.ErrProcessExecutionFailed):
		ctx.WithIssue(issue.SteamCmdFailedId).
			WithSuggestion("Increase steamcmd.retries for flaky connections").
			WithSuggestion("Re-run with --log-level debug to see the steamcmd arguments")
	}
	return ctx.Wrap(err).BuildError()
}

func itemURLs(items []steamcmd.WorkshopItem) string {
	urls := make([]string, 0, len(items))
	for _, item := range slices.Compact(slices.Sorted(slices.Values(items))) {
		urls = append(urls, item.URL())
	}
	return strings.Join(urls, ", ")
}
