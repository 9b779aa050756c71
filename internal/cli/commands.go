package cli

import (
	"fmt"
	"strconv"

	"Topup-Lunite/internal/admin"
	"Topup-Lunite/internal/logger"
	"Topup-Lunite/internal/models"
	"Topup-Lunite/internal/services"
	"Topup-Lunite/internal/ui"
	"github.com/spf13/cobra"
)

// cliAdmin identifies actions run from the command line in the admin action log.
const cliAdmin = "cli"

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import-json DIR",
		Short: "Replace the configured store with the JSON collections in DIR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(a.cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			snap, err := admin.ImportJSON(cmd.Context(), store, args[0])
			if err != nil {
				return err
			}
			logger.LogAdminAction(cliAdmin, "import_json", args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d users, %d products, %d transactions\n",
				len(snap.Users), len(snap.Products), len(snap.Transactions))
			return nil
		},
	}
}

func newBackupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Back up every collection into BACKUP_DIR",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore(a.cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			path, err := admin.Backup(cmd.Context(), store, a.cfg.BackupDir)
			if err != nil {
				return err
			}
			logger.LogAdminAction(cliAdmin, "backup", path)
			fmt.Fprintln(cmd.OutOrStdout(), "Backup created: "+path)
			return nil
		},
	}
}

func newRestoreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "restore PATH",
		Short: "Restore a backup directory (JSON) or dump file (postgres)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(a.cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := admin.Restore(cmd.Context(), store, args[0]); err != nil {
				return err
			}
			logger.LogAdminAction(cliAdmin, "restore", args[0])
			fmt.Fprintln(cmd.OutOrStdout(), "Restored from "+args[0])
			return nil
		},
	}
}

func newAdminCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Account maintenance without the interactive menu",
	}
	cmd.AddCommand(
		newSweepCmd(a),
		newExpiringCmd(a),
		newSetRoleCmd(a),
		newGrantDaysCmd(a),
	)
	return cmd
}

func newSweepCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep-vip",
		Short: "Expire or carry over the VIP tenure of every user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withShop(cmd, func(shop *services.Shop) error {
				changed, err := shop.SweepVIP(cmd.Context())
				if err != nil {
					return err
				}
				logger.LogAdminAction(cliAdmin, "sweep_vip", strconv.Itoa(len(changed)))
				if len(changed) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No VIP changes")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.Users(changed))
				return nil
			})
		},
	}
}

func newExpiringCmd(a *app) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "expiring",
		Short: "List VIPs whose subscription ends soon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withShop(cmd, func(shop *services.Shop) error {
				users := shop.ExpiringVIPs(days)
				if len(users) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No VIP subscriptions expiring")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.Users(users))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", a.cfg.ExpiryNoticeDays, "look-ahead window in days")
	return cmd
}

func newSetRoleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-role USERNAME ROLE",
		Short: "Change a user's role (member, vip, admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withShop(cmd, func(shop *services.Shop) error {
				u, err := shop.SetRole(cmd.Context(), args[0], models.Role(args[1]))
				if err != nil {
					return err
				}
				logger.LogAdminAction(cliAdmin, "set_role", args[0]+" "+args[1])
				fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", u.Username, u.Role)
				return nil
			})
		},
	}
}

func newGrantDaysCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "grant-days USERNAME DAYS",
		Short: "Queue VIP days that start when the current tenure ends",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			days, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("DAYS must be a number: %w", err)
			}
			return a.withShop(cmd, func(shop *services.Shop) error {
				u, err := shop.GrantPendingDays(cmd.Context(), args[0], days)
				if err != nil {
					return err
				}
				logger.LogAdminAction(cliAdmin, "grant_days", args[0]+" "+args[1])
				fmt.Fprintf(cmd.OutOrStdout(), "%s has %d pending VIP days\n", u.Username, u.PendingSubscriptionDays)
				return nil
			})
		},
	}
}
