package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/childcare-management/childcare-ui/internal/logger"
	"github.com/childcare-management/childcare-ui/internal/ui/config"
	"github.com/childcare-management/childcare-ui/internal/ui/server"
	"github.com/childcare-management/childcare-ui/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "childcare-ui",
		Short: "Childcare management web user interface",
		Long:  `Web UI for administering children, staff, attendance, health records, activities and billing`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
		SilenceUsage: true,
	}

	cmd.Version = version.Get().String()
	cmd.AddCommand(newListCmd())

	return cmd
}

func run(ctx context.Context) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load UI configuration: %w", err)
	}

	serverLogger := logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)
	serverLogger.Info("Starting UI server", slog.String("version", version.Get().Version))

	srv, err := server.NewServer(cfg, serverLogger)
	if err != nil {
		serverLogger.Error("Failed to create UI server", slog.String("error", err.Error()))
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		serverLogger.Error("UI server error", slog.String("error", err.Error()))
		return err
	}

	serverLogger.Info("UI server shutdown complete")
	return nil
}
