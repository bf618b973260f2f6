package main

import (
	"context"
	"os"

	"github.com/dukex/leadflow/pkg/execution"
	"github.com/dukex/leadflow/pkg/log"
	cli "github.com/urfave/cli/v3"
)

const defaultPort = 9091

func main() {
	cmd := &cli.Command{
		Name:                  "leadflow",
		Usage:                 "Launch lead generation workflows on an n8n server",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "catalog",
				Usage:   "Path to a workflow catalog YAML file (defaults to the embedded catalog)",
				Sources: cli.EnvVars("CATALOG_PATH"),
			},
		},
		Before: func(ctx context.Context, command *cli.Command) (context.Context, error) {
			log.Setup(command.String("log-level"))

			return ctx, nil
		},
		Commands: []*cli.Command{
			ServeCommand(),
			CatalogCommand(),
			RunCommand(),
		},
	}

	err := cmd.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}

// webhookFlags configures the execution client. serve starts without a base
// URL and reports the webhook as not configured; run cannot.
func webhookFlags(requireBaseURL bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "webhook-base-url",
			Usage:    "Scheme and host of the n8n server, e.g. http://localhost:5678",
			Required: requireBaseURL,
			Sources:  cli.EnvVars("WEBHOOK_BASE_URL"),
		},
		&cli.StringFlag{
			Name:    "webhook-api-base",
			Usage:   "Path prefix placed before every workflow endpoint",
			Value:   execution.DefaultAPIBase,
			Sources: cli.EnvVars("WEBHOOK_API_BASE"),
		},
		&cli.DurationFlag{
			Name:    "webhook-timeout",
			Usage:   "Timeout for a single webhook call (0 disables it)",
			Value:   0,
			Sources: cli.EnvVars("WEBHOOK_TIMEOUT"),
		},
	}
}

func executionConfig(command *cli.Command) execution.Config {
	return execution.Config{
		BaseURL: command.String("webhook-base-url"),
		APIBase: command.String("webhook-api-base"),
		Timeout: command.Duration("webhook-timeout"),
	}
}

