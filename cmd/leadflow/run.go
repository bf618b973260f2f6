package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/dukex/leadflow/pkg/cmd"
	"github.com/dukex/leadflow/pkg/execution"
	"github.com/dukex/leadflow/pkg/form"
	"github.com/dukex/leadflow/pkg/log"
	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/notify"
	"github.com/dukex/leadflow/pkg/panel"
	cli "github.com/urfave/cli/v3"
)

var (
	errMissingWorkflow = errors.New("workflow id is required")
	errBadAssignment   = errors.New("expected key=value")
)

func RunCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Aliases:   []string{"r"},
		Usage:     "Fill a workflow form from the command line and submit it",
		ArgsUsage: "<workflow-id>",
		Flags: append([]cli.Flag{
			&cli.StringSliceFlag{
				Name:  "set",
				Usage: "Field value as key=value, repeatable",
			},
		}, webhookFlags(true)...),
		Action: func(ctx context.Context, command *cli.Command) error {
			workflowID := command.Args().First()
			if workflowID == "" {
				return errMissingWorkflow
			}

			logger := log.WithModule("run")

			catalog, err := cmd.NewCatalog(command.String("catalog"))
			if err != nil {
				return err
			}

			client := execution.NewClient(executionConfig(command), logger)
			panels := panel.NewManager(catalog, client, notify.Discard{}, logger)

			return runWorkflow(ctx, command.Root().Writer, panels, workflowID, command.StringSlice("set"))
		},
	}
}

// runWorkflow drives one panel the way the dashboard does: set every field,
// submit, then print the resulting notification or the field errors.
func runWorkflow(ctx context.Context, out io.Writer, panels *panel.Manager, workflowID string, assignments []string) error {
	p, err := panels.Open(workflowID)
	if err != nil {
		return err
	}

	for _, assignment := range assignments {
		key, raw, ok := strings.Cut(assignment, "=")
		if !ok || key == "" {
			return fmt.Errorf("%w: %q", errBadAssignment, assignment)
		}

		field, ok := p.Workflow().Field(key)
		if !ok {
			return fmt.Errorf("%w: %s", form.ErrUnknownField, key)
		}

		if _, err := panels.SetField(p.ID, key, parseValue(field, raw)); err != nil {
			return err
		}
	}

	outcome, err := panels.Submit(ctx, p.ID)

	var validationErr *form.ValidationFailedError
	if errors.As(err, &validationErr) {
		ids := make([]string, 0, len(validationErr.Errors))
		for id := range validationErr.Errors {
			ids = append(ids, id)
		}

		sort.Strings(ids)

		for _, id := range ids {
			fmt.Fprintf(out, "%s: %s\n", id, validationErr.Errors[id])
		}

		return err
	}

	if outcome != nil {
		fmt.Fprintln(out, outcome.Notification.Message)
	}

	return err
}

// parseValue converts command-line text to the value type the field holds.
// Text that does not parse is kept as a string.
func parseValue(field *models.WorkflowField, raw string) any {
	switch field.Type {
	case models.FieldTypeToggle:
		if b, err := strconv.ParseBool(raw); err == nil {
			return b
		}
	case models.FieldTypeNumber:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	}

	return raw
}
