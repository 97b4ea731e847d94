package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/childcare-management/childcare-ui/internal/logger"
	"github.com/childcare-management/childcare-ui/internal/ui/client"
	"github.com/childcare-management/childcare-ui/internal/ui/config"
	"github.com/childcare-management/childcare-ui/internal/ui/session"
)

// listers maps the resources the list command accepts to the API call that fetches them
var listers = map[string]func(ctx context.Context, c *client.Client) (any, error){
	"children":       func(ctx context.Context, c *client.Client) (any, error) { return c.Children.List(ctx) },
	"staff":          func(ctx context.Context, c *client.Client) (any, error) { return c.Staff.List(ctx) },
	"attendance":     func(ctx context.Context, c *client.Client) (any, error) { return c.Attendance.List(ctx) },
	"health-records": func(ctx context.Context, c *client.Client) (any, error) { return c.HealthRecords.List(ctx) },
	"activities":     func(ctx context.Context, c *client.Client) (any, error) { return c.Activities.List(ctx) },
	"billing":        func(ctx context.Context, c *client.Client) (any, error) { return c.Billing.List(ctx) },
	"users":          func(ctx context.Context, c *client.Client) (any, error) { return c.Auth.ListUsers(ctx) },
}

func listResources() []string {
	return []string{"children", "staff", "attendance", "health-records", "activities", "billing", "users"}
}

func newListCmd() *cobra.Command {
	var (
		token   string
		apiURL  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:       "list <resource>",
		Short:     "Print a resource collection from the childcare API as JSON",
		Long:      "Print a resource collection from the childcare API as JSON.\n\nResources: " + strings.Join(listResources(), ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: listResources(),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, ok := listers[args[0]]
			if !ok {
				return fmt.Errorf("unknown resource %q, expected one of: %s", args[0], strings.Join(listResources(), ", "))
			}

			cfg, err := config.NewClientConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if !cmd.Flags().Changed("token") {
				token = cfg.APIToken
			}
			if !cmd.Flags().Changed("api-url") {
				apiURL = cfg.APIBaseURL
			}
			if !cmd.Flags().Changed("timeout") {
				timeout = cfg.APITimeout
			}

			cliLogger := slog.New(tint.NewHandler(cmd.ErrOrStderr(), &tint.Options{
				Level:      logger.ParseLogLevel(cfg.LogLevel),
				TimeFormat: time.Kitchen,
			}))

			c := client.NewClient(apiURL, session.StaticToken(token), cliLogger, client.WithTimeout(timeout))

			result, err := list(cmd.Context(), c)
			if err != nil {
				var ce *client.ClientError
				if errors.As(err, &ce) {
					return errors.New(ce.UserError())
				}
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "bearer token sent to the API (default $CHILDCARE_API_TOKEN)")
	cmd.Flags().StringVar(&apiURL, "api-url", "", "childcare API base URL (default $API_BASE_URL)")
	cmd.Flags().DurationVar(&timeout, "timeout", client.DefaultTimeout, "API request timeout (default $API_TIMEOUT)")

	return cmd
}
