package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"Topup-Lunite/config"
	"Topup-Lunite/internal/db"
	"Topup-Lunite/internal/logger"
	"Topup-Lunite/internal/services"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StartJobs schedules the automatic backup and the expiring-VIP notice. The caller
// stops the returned scheduler with StopJobs before closing the store.
func StartJobs(cfg *config.AppConfig, store db.Store, clock services.Clock) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(cfg.BackupSchedule, func() {
		defer logger.NotifyOnPanic("auto backup")
		AutoBackup(context.Background(), store, cfg.BackupDir)
	}); err != nil {
		return nil, fmt.Errorf("backup schedule %q: %w", cfg.BackupSchedule, err)
	}
	if _, err := c.AddFunc(cfg.ExpiryNoticeSchedule, func() {
		defer logger.NotifyOnPanic("expiry notice")
		if _, err := NotifyExpiring(context.Background(), store, clock.Now(), cfg.ExpiryNoticeDays); err != nil {
			logger.Error("expiry notice failed", zap.Error(err))
		}
	}); err != nil {
		return nil, fmt.Errorf("expiry notice schedule %q: %w", cfg.ExpiryNoticeSchedule, err)
	}
	c.Start()
	return c, nil
}

// StopJobs stops the scheduler and waits for running jobs, which may still be using
// the store.
func StopJobs(c *cron.Cron) {
	<-c.Stop().Done()
}

// NotifyExpiring alerts the admin about VIPs whose tenure ends within days. Users are
// read from the store, not from a running session.
func NotifyExpiring(ctx context.Context, store db.Store, now time.Time, days int) (int, error) {
	users, err := store.LoadUsers(ctx)
	if err != nil {
		return 0, err
	}
	expiring := services.ExpiringVIPs(users, now, days)
	if len(expiring) == 0 {
		return 0, nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d VIP subscription(s) end within %d days:\n", len(expiring), days)
	for _, u := range expiring {
		fmt.Fprintf(&sb, "%s (%s) until %s\n", u.Username, u.ID, u.VIPExpiry)
	}
	logger.NotifyAdmin(sb.String())
	return len(expiring), nil
}
