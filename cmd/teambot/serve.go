package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/slack-go/slack"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"teambot/internal/bot"
	"teambot/internal/config"
	"teambot/internal/gitsync"
	"teambot/internal/history"
	"teambot/internal/knowledge"
	"teambot/internal/llm"
	"teambot/internal/logging"
	"teambot/internal/metrics"
	"teambot/internal/resolver"
	"teambot/internal/review"
	"teambot/internal/slackbridge"
	"teambot/internal/team"
)

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Connect to Slack and handle events until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.New("teambot", logging.ParseLevel(cfg.LogLevel), cfg.LogPath)
	logger.Info("starting: model=%s agents=%s data=%s", cfg.Model, cfg.AgentsRootPath, cfg.DataDir)

	teams := team.Default()
	hist, err := history.New(cfg.DataDir, logging.WithComponent(logger, "history"))
	if err != nil {
		return fmt.Errorf("init history store: %w", err)
	}
	docs := knowledge.NewRepository(cfg.AgentsRootPath, teams, logging.WithComponent(logger, "knowledge"))

	api := slack.New(cfg.SlackBotToken, slack.OptionAppLevelToken(cfg.SlackAppToken))
	messenger := slackbridge.NewMessenger(api)

	res, err := resolver.New(teams, hist, hist, messenger, logging.WithComponent(logger, "resolver"))
	if err != nil {
		return fmt.Errorf("init resolver: %w", err)
	}

	client, err := llm.NewAnthropicClient(llm.Config{
		APIKey: cfg.AnthropicAPIKey,
		Model:  cfg.Model,
	}, logging.WithComponent(logger, "llm"))
	if err != nil {
		return fmt.Errorf("init llm client: %w", err)
	}

	var committer bot.Committer
	if cfg.GitAutoCommit {
		committer = gitsync.New(cfg.AgentsRootPath, cfg.GitPush, logging.WithComponent(logger, "gitsync"))
	}

	registry := prometheus.NewRegistry()

	b, err := bot.New(bot.Deps{
		Teams:     teams,
		History:   hist,
		Docs:      docs,
		Resolver:  res,
		LLM:       client,
		Reviewer:  review.NewReviewer(client, nil, logging.WithComponent(logger, "review")),
		Pending:   review.NewPendingStore(logging.WithComponent(logger, "review")),
		Messenger: messenger,
		Committer: committer,
		Metrics:   metrics.New(registry),
		Logger:    logging.WithComponent(logger, "bot"),
	})
	if err != nil {
		return err
	}

	gateway, err := slackbridge.NewGateway(api, b, logging.WithComponent(logger, "slackbridge"))
	if err != nil {
		return err
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return gateway.Run(ctx)
	})
	if cfg.MetricsAddr != "" {
		group.Go(func() error {
			return metrics.Serve(ctx, cfg.MetricsAddr, registry, logging.WithComponent(logger, "metrics"))
		})
	}

	err = group.Wait()
	if errors.Is(err, context.Canceled) {
		logger.Info("shutting down")
		return nil
	}
	return err
}
