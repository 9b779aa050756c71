package admin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"Topup-Lunite/internal/db"
	"Topup-Lunite/internal/logger"
	"Topup-Lunite/internal/models"
	"go.uber.org/zap"
)

// BackupRetention is how long backups are kept in the backup directory.
const BackupRetention = 31 * 24 * time.Hour

// Backup writes a copy of every collection under dir and prunes expired backups.
func Backup(ctx context.Context, store db.Store, dir string) (string, error) {
	path, err := store.Backup(ctx, dir)
	if err != nil {
		return "", fmt.Errorf("backup: %w", err)
	}
	if err := CleanOldBackups(dir, BackupRetention, time.Now()); err != nil {
		logger.Warn("backup cleanup failed", zap.String("dir", dir), zap.Error(err))
	}
	logger.Info("backup created", zap.String("path", path))
	return path, nil
}

// AutoBackup is the scheduled backup. Failures are alerted to the admin.
func AutoBackup(ctx context.Context, store db.Store, dir string) {
	if _, err := Backup(ctx, store, dir); err != nil {
		logger.Error("[AUTO BACKUP] failed", zap.Error(err))
		logger.NotifyAdmin("Auto backup failed: " + err.Error())
	}
}

// CleanOldBackups removes backup files and directories in dir last modified before
// now minus maxAge.
func CleanOldBackups(dir string, maxAge time.Duration, now time.Time) error {
	var matches []string
	for _, pattern := range []string{"backup_*", "autobackup_*"} {
		m, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return err
		}
		matches = append(matches, m...)
	}
	cutoff := now.Add(-maxAge)
	for _, f := range matches {
		info, err := os.Stat(f)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.RemoveAll(f); err != nil {
				return err
			}
		}
	}
	return nil
}

type restorer interface {
	Restore(ctx context.Context, filename string) error
}

// Restore brings store back to a backup. A directory is read as JSON collections,
// a file is handed to the store's own restore (pg_restore for postgres).
func Restore(ctx context.Context, store db.Store, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		_, err := ImportJSON(ctx, store, path)
		return err
	}
	r, ok := store.(restorer)
	if !ok {
		return fmt.Errorf("this store cannot restore %s", filepath.Base(path))
	}
	if err := r.Restore(ctx, path); err != nil {
		return err
	}
	logger.Info("backup restored", zap.String("path", path))
	return nil
}

// ImportJSON replaces the collections of store with the JSON collections in dir.
// The imported records go through the load-boundary migration; files in dir are
// never rewritten.
func ImportJSON(ctx context.Context, store db.Store, dir string) (*models.Snapshot, error) {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("import: %s is not a directory", dir)
	}
	src, err := db.NewFileStore(dir)
	if err != nil {
		return nil, err
	}
	users, err := src.LoadUsers(ctx)
	if err != nil {
		return nil, err
	}
	products, err := src.LoadProducts(ctx)
	if err != nil {
		return nil, err
	}
	transactions, err := src.LoadTransactions(ctx)
	if err != nil {
		return nil, err
	}
	snap := &models.Snapshot{Users: users, Products: products, Transactions: transactions}
	if _, err := db.Normalize(snap); err != nil {
		return nil, err
	}
	if err := db.Replace(ctx, store, snap); err != nil {
		return nil, err
	}
	logger.Info("json collections imported",
		zap.String("dir", dir),
		zap.Int("users", len(users)),
		zap.Int("products", len(products)),
		zap.Int("transactions", len(transactions)),
	)
	return snap, nil
}
