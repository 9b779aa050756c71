package cli

import (
	"fmt"
	"io"
	"os"

	"Topup-Lunite/config"
	"Topup-Lunite/internal/admin"
	"Topup-Lunite/internal/db"
	"Topup-Lunite/internal/logger"
	"Topup-Lunite/internal/metrics"
	"Topup-Lunite/internal/services"
	"Topup-Lunite/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type app struct {
	cfg       *config.AppConfig
	clock     services.Clock
	openStore func(cfg *config.AppConfig) (db.Store, error)
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
}

func NewRootCommand(cfg *config.AppConfig) *cobra.Command {
	return NewRootCommandWithIO(cfg, os.Stdin, os.Stdout, os.Stderr)
}

func NewRootCommandWithIO(cfg *config.AppConfig, in io.Reader, out, errOut io.Writer) *cobra.Command {
	return newRootCommand(&app{
		cfg:       cfg,
		clock:     services.SystemClock{},
		openStore: db.Open,
		stdin:     in,
		stdout:    out,
		stderr:    errOut,
	})
}

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "lunite",
		Short:         "Lunite top-up store",
		Long:          "lunite runs the interactive Lunite top-up store and its maintenance commands.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          a.runShop,
	}

	cmd.AddCommand(
		newShopCmd(a),
		newImportCmd(a),
		newBackupCmd(a),
		newRestoreCmd(a),
		newAdminCmd(a),
	)

	cmd.PersistentPreRunE = func(c *cobra.Command, _ []string) error {
		// the interactive store keeps log lines out of the terminal
		console := c != cmd && c.Name() != "shop"
		if err := logger.Init(a.cfg.Log, console); err != nil {
			return fmt.Errorf("logger: %w", err)
		}
		if err := logger.InitNotifier(a.cfg.BotToken, a.cfg.AdminTelegramID); err != nil {
			logger.Warn("admin notifier disabled", zap.Error(err))
		}
		return nil
	}
	cmd.PersistentPostRun = func(*cobra.Command, []string) {
		logger.Sync()
	}

	cmd.SetErrPrefix("lunite: ")
	cmd.SetIn(a.stdin)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)
	return cmd
}

func newShopCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shop",
		Short: "Run the interactive store (default)",
		Args:  cobra.NoArgs,
		RunE:  a.runShop,
	}
}

func (a *app) runShop(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	store, err := a.openStore(a.cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	shop, err := services.NewShop(ctx, store, a.clock, a.cfg.Policy, logger.L())
	if err != nil {
		return err
	}
	if a.cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, a.cfg.MetricsAddr); err != nil {
				logger.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}
	jobs, err := admin.StartJobs(a.cfg, store, a.clock)
	if err != nil {
		return err
	}
	defer admin.StopJobs(jobs)

	s := NewSession(shop, store, a.cfg, ui.NewPrompter(a.stdin, a.stdout))
	return s.Run(ctx)
}

// withShop opens the configured store, loads it and runs fn.
func (a *app) withShop(cmd *cobra.Command, fn func(shop *services.Shop) error) error {
	store, err := a.openStore(a.cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	shop, err := services.NewShop(cmd.Context(), store, a.clock, a.cfg.Policy, logger.L())
	if err != nil {
		return err
	}
	return fn(shop)
}
