package main

import (
	"context"
	"fmt"

	"github.com/dukex/leadflow/pkg/cmd"
	"github.com/dukex/leadflow/pkg/execution"
	"github.com/dukex/leadflow/pkg/log"
	"github.com/dukex/leadflow/pkg/notify"
	"github.com/dukex/leadflow/pkg/otelhelper"
	"github.com/dukex/leadflow/pkg/panel"
	cli "github.com/urfave/cli/v3"
)

func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the dashboard API",
		Flags: append([]cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Notification bus type (gochannel, kafka)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "kafka-brokers",
				Usage:   "Comma separated Kafka brokers, used with --event-bus=kafka",
				Sources: cli.EnvVars("KAFKA_BROKERS"),
			},
			&cli.IntFlag{
				Name:    "notifications",
				Usage:   "Number of recent notifications kept for the toast feed",
				Value:   notify.DefaultFeedSize,
				Sources: cli.EnvVars("NOTIFICATION_FEED_SIZE"),
			},
			&cli.DurationFlag{
				Name:    "panel-idle-timeout",
				Usage:   "Discard panels without requests for this long (0 keeps them until closed)",
				Value:   panel.DefaultIdleTimeout,
				Sources: cli.EnvVars("PANEL_IDLE_TIMEOUT"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Export traces over OTLP/HTTP",
				Sources: cli.EnvVars("TRACING_ENABLED"),
			},
		}, webhookFlags(false)...),
		Action: func(ctx context.Context, command *cli.Command) error {
			logger := log.WithModule("api")

			logger.InfoContext(ctx, "Initializing Leadflow API")

			if command.Bool("tracing") {
				shutdown, err := otelhelper.Setup(ctx, "leadflow")
				if err != nil {
					return fmt.Errorf("failed to initialize tracer: %w", err)
				}

				defer func() {
					if err := shutdown(context.WithoutCancel(ctx)); err != nil {
						logger.ErrorContext(ctx, "Failed to shutdown tracer provider", "error", err)
					}
				}()
			}

			catalog, err := cmd.NewCatalog(command.String("catalog"))
			if err != nil {
				return err
			}

			eventBus, err := cmd.NewEventBus(command.String("event-bus"), command.String("kafka-brokers"), logger)
			if err != nil {
				return err
			}

			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			feed := notify.NewFeed(command.Int("notifications"))
			if err := feed.Register(eventBus); err != nil {
				return err
			}

			if err := eventBus.Subscribe(ctx); err != nil {
				return fmt.Errorf("failed to subscribe to notifications: %w", err)
			}

			config := executionConfig(command)
			if config.BaseURL == "" {
				logger.WarnContext(ctx, "No webhook base URL configured, submissions will fail")
			}
			client := execution.NewClient(config, logger)
			panels := panel.NewManager(catalog, client, notify.NewBusNotifier(eventBus, logger), logger,
				panel.WithIdleTimeout(command.Duration("panel-idle-timeout")),
			)

			go panels.Run(ctx)

			api := NewAPI(logger, catalog, panels, feed, config.BaseURL)

			if err := api.Start(command.Int("port")); err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)

				return err
			}

			return nil
		},
	}
}
