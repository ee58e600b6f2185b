package seed

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/catalog-service/internal/config"
	"github.com/sandeepkv93/catalog-service/internal/di"
	"github.com/sandeepkv93/catalog-service/internal/service"
	"github.com/sandeepkv93/catalog-service/internal/tools/common"
)

type options struct {
	envFile   string
	seedEmail string
	timeout   time.Duration
	ci        bool
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{Use: "seed", Short: "Catalog seed tooling"}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to env file")
	cmd.PersistentFlags().StringVar(&opts.seedEmail, "seed-email", "", "override the seed user email")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", time.Minute, "operation timeout")
	cmd.PersistentFlags().BoolVar(&opts.ci, "ci", false, "non-interactive machine-readable output")
	cmd.AddCommand(newApplyCommand(opts), newDryRunCommand(opts))
	return cmd
}

func newApplyCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Replace the catalog with the demo data set",
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(opts, "apply", false)
		},
	}
}

func newDryRunCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dry-run",
		Short: "Show what seeding would do",
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(opts, "dry-run", true)
		},
	}
}

func execute(opts *options, command string, dryRun bool) error {
	title := "seed " + command
	details, err := common.Run(common.RunOptions{Tool: "seed", Command: command, CI: opts.ci, Timeout: opts.timeout}, title,
		func(ctx context.Context) ([]string, error) {
			cfg, err := loadConfig(opts)
			if err != nil {
				return nil, err
			}
			svc, err := di.InitializeSeedService(cfg)
			if err != nil {
				return nil, err
			}
			report, err := svc.Run(ctx, dryRun)
			if err != nil {
				return nil, err
			}
			return describe(cfg, report), nil
		})
	if opts.ci {
		common.PrintCIResult(err == nil, title, details, err)
	}
	if err != nil {
		os.Exit(3)
	}
	return nil
}

func loadConfig(opts *options) (*config.Config, error) {
	if err := common.LoadEnvFile(opts.envFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.seedEmail != "" {
		cfg.SeedUserEmail = opts.seedEmail
	}
	return cfg, nil
}

func describe(cfg *config.Config, report *service.SeedReport) []string {
	if report.DryRun {
		return []string{
			fmt.Sprintf("would ensure seed user %s with roles admin, user", cfg.SeedUserEmail),
			"would delete every product and product image",
			fmt.Sprintf("would create %d demo products", report.PlannedProducts),
		}
	}
	details := []string{fmt.Sprintf("deleted %d products", report.DeletedProducts)}
	if report.User != nil {
		switch {
		case report.User.CreatedUser:
			details = append(details, "created seed user: "+cfg.SeedUserEmail)
		case report.User.UpdatedRoles:
			details = append(details, "repaired seed user roles: "+cfg.SeedUserEmail)
		default:
			details = append(details, "seed user already present: "+cfg.SeedUserEmail)
		}
	}
	return append(details, fmt.Sprintf("created %d products", report.CreatedProducts))
}
