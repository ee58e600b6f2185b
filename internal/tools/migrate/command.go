package migrate

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/catalog-service/internal/config"
	"github.com/sandeepkv93/catalog-service/internal/di"
	"github.com/sandeepkv93/catalog-service/internal/tools/common"
)

type options struct {
	envFile string
	timeout time.Duration
	ci      bool
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tooling",
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to env file")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "operation timeout")
	cmd.PersistentFlags().BoolVar(&opts.ci, "ci", false, "non-interactive machine-readable output")

	cmd.AddCommand(
		newUpCommand(opts),
		newStatusCommand(opts),
		newPlanCommand(opts),
	)
	return cmd
}

func newUpCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(opts, "up", func(ctx context.Context, runner *di.MigrationRunner) ([]string, error) {
				pending := runner.Pending()
				if err := runner.Run(); err != nil {
					return nil, err
				}
				return []string{"schema migration applied", "created tables: " + listOrNone(pending)}, nil
			})
		},
	}
}

func newStatusCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check migration prerequisites",
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(opts, "status", func(ctx context.Context, runner *di.MigrationRunner) ([]string, error) {
				pending := runner.Pending()
				state := "up to date"
				if len(pending) > 0 {
					state = "pending"
				}
				return []string{"database reachable", "migrations: " + state, "pending tables: " + listOrNone(pending)}, nil
			})
		},
	}
}

func newPlanCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show migration plan (dry-run)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(opts, "plan", func(ctx context.Context, runner *di.MigrationRunner) ([]string, error) {
				return []string{
					"would apply AutoMigrate for users, local_credentials, products, product_images",
					"would create tables: " + listOrNone(runner.Pending()),
					"no mutation executed in plan mode",
				}, nil
			})
		},
	}
}

func execute(opts *options, command string, fn func(context.Context, *di.MigrationRunner) ([]string, error)) error {
	title := "migrate " + command
	details, err := common.Run(common.RunOptions{Tool: "migrate", Command: command, CI: opts.ci, Timeout: opts.timeout}, title,
		func(ctx context.Context) ([]string, error) {
			runner, closeDB, err := openRunner(ctx, opts.envFile)
			if err != nil {
				return nil, err
			}
			defer closeDB()
			return fn(ctx, runner)
		})
	if opts.ci {
		common.PrintCIResult(err == nil, title, details, err)
	}
	if err != nil {
		os.Exit(3)
	}
	return nil
}

func openRunner(ctx context.Context, envFile string) (*di.MigrationRunner, func(), error) {
	if err := common.LoadEnvFile(envFile); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	runner, err := di.InitializeMigrationRunner(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := runner.Ping(ctx); err != nil {
		runner.Close()
		return nil, nil, fmt.Errorf("db ping: %w", err)
	}
	return runner, runner.Close, nil
}

func listOrNone(tables []string) string {
	if len(tables) == 0 {
		return "none"
	}
	return strings.Join(tables, ", ")
}
