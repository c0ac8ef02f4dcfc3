package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/reshetovitsme/autopost/internal/di"
	publishDomain "github.com/reshetovitsme/autopost/internal/modules/publish/domain"
	workflowDomain "github.com/reshetovitsme/autopost/internal/modules/workflow/domain"
	workflowService "github.com/reshetovitsme/autopost/internal/modules/workflow/service"
	"github.com/reshetovitsme/autopost/internal/shared/config"
	"github.com/reshetovitsme/autopost/internal/shared/metrics"
	httpServer "github.com/reshetovitsme/autopost/internal/transport/http"
	mastodonClient "github.com/reshetovitsme/autopost/internal/transport/mastodon"
	"github.com/reshetovitsme/autopost/internal/transport/telegram"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

const (
	exitPublishFailures = 2
	metricsPushTimeout  = 10 * time.Second
)

func newRunCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one post or reply workflow",
		Long: `Fetch the source document, generate drafts, review them and publish the
accepted ones. Flags override the config file and the environment.

Exit status is 0 when the run finished or the reviewer aborted it, 1 on a
fatal error and 2 when at least one accepted draft failed to publish.

Examples:
  autopost run --source 0123456789abcdef0123456789abcdef
  autopost run --source-kind rss --source https://blog.example/feed.xml --platforms mastodon,twitter
  autopost run --mode reply --approval remote --trigger post_mastodon`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load(cmd)
			if err != nil {
				return err
			}
			if err := cfg.ValidateRun(); err != nil {
				return err
			}

			logger, closeLog, err := newLogger(cfg.Log, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeLog()
			slog.SetDefault(logger)

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return execute(ctx, cfg, logger, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.String("mode", "", "workflow mode: post or reply")
	flags.String("source", "", "source document id: notion page, file name or feed URL")
	flags.String("source-kind", "", "source kind: notion, file or rss")
	flags.StringSlice("platforms", nil, "target platforms, comma separated")
	flags.String("tone", "", "tone of the generated posts")
	flags.Bool("auto-publish", false, "publish without review")
	flags.String("approval", "", "approval front-end: local or remote")
	flags.String("trigger", "", "wait for this exact chat message before starting")
	flags.Bool("image", false, "generate an illustration for accepted posts")

	return cmd
}

func execute(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	injector := di.Setup(cfg, logger)

	if err := preflight(ctx, cfg, injector, logger); err != nil {
		return err
	}

	if cfg.NeedsTelegram() {
		channel, err := do.Invoke[*telegram.Channel](injector)
		if err != nil {
			return err
		}
		go func() {
			if err := channel.Start(ctx); err != nil {
				logger.Error("Telegram channel stopped", "error", err)
			}
		}()

		if channel.Webhook() {
			server, err := do.Invoke[*httpServer.Server](injector)
			if err != nil {
				return err
			}
			go func() {
				if err := server.Start(ctx); err != nil {
					logger.Error("HTTP server stopped", "error", err)
				}
			}()
		}
	}

	orchestrator, err := do.Invoke[*workflowService.Orchestrator](injector)
	if err != nil {
		return err
	}

	report, runErr := orchestrator.Run(ctx)

	pushCtx, cancel := context.WithTimeout(context.Background(), metricsPushTimeout)
	defer cancel()
	if err := do.MustInvoke[*metrics.Recorder](injector).Push(pushCtx); err != nil {
		logger.Warn("Failed to push metrics", "error", err)
	}

	if report != nil {
		io.WriteString(out, renderReport(report)+"\n")
	}
	if runErr != nil {
		return runErr
	}
	if report.PublishFailures() > 0 {
		return &exitError{code: exitPublishFailures}
	}
	return nil
}

// preflight checks the Mastodon credentials before any work starts, so a bad token
// fails the run instead of every publish attempt.
func preflight(ctx context.Context, cfg *config.Config, injector do.Injector, logger *slog.Logger) error {
	if !cfg.NeedsMastodon() {
		return nil
	}
	client, err := do.Invoke[*mastodonClient.Client](injector)
	if err != nil {
		return err
	}
	account, err := client.VerifyCredentials(ctx)
	if err != nil {
		return oops.With("instance_url", cfg.Mastodon.InstanceURL).Wrap(err)
	}
	logger.Info("Mastodon credentials verified", "account", account)
	return nil
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	okStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5FD068"))
	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

// renderReport styles the run summary for the terminal
func renderReport(report *workflowDomain.Report) string {
	lines := strings.Split(report.Summary(), "\n")
	lines[0] = titleStyle.Render(lines[0])

	for i, line := range lines[1:] {
		switch {
		case strings.Contains(line, ": "+publishDomain.PublishStatusFailed.String()):
			lines[i+1] = failStyle.Render(line)
		case strings.Contains(line, ": "+publishDomain.PublishStatusPublished.String()),
			strings.Contains(line, ": "+publishDomain.PublishStatusExported.String()):
			lines[i+1] = okStyle.Render(line)
		case strings.Contains(line, ": "+publishDomain.PublishStatusSkipped.String()), report.Aborted:
			lines[i+1] = mutedStyle.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
