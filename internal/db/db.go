package db

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"Topup-Lunite/config"
	"Topup-Lunite/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormStore keeps the collections in SQL tables. Each Save deletes and re-inserts the
// collection inside one transaction.
type GormStore struct {
	DB     *gorm.DB
	driver string
	dsn    string
}

func OpenGorm(driver, dsn string) (*GormStore, error) {
	var dialector gorm.Dialector
	switch driver {
	case config.DriverPostgres:
		dialector = postgres.Open(dsn)
	case config.DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	if err := db.AutoMigrate(&userRecord{}, &voucherRecord{}, &productRecord{}, &transactionRecord{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &GormStore{DB: db, driver: driver, dsn: dsn}, nil
}

func (s *GormStore) LoadUsers(ctx context.Context) ([]*models.User, error) {
	var records []userRecord
	err := s.DB.WithContext(ctx).
		Preload("Vouchers", func(tx *gorm.DB) *gorm.DB { return tx.Order("position") }).
		Order("position").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	users := make([]*models.User, 0, len(records))
	for _, r := range records {
		users = append(users, r.toModel())
	}
	return users, nil
}

func (s *GormStore) SaveUsers(ctx context.Context, users []*models.User) error {
	records := make([]userRecord, 0, len(users))
	var vouchers []voucherRecord
	for i, u := range users {
		r := toUserRecord(i, u)
		vouchers = append(vouchers, r.Vouchers...)
		r.Vouchers = nil
		records = append(records, r)
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := all.Delete(&voucherRecord{}).Error; err != nil {
			return err
		}
		if err := all.Delete(&userRecord{}).Error; err != nil {
			return err
		}
		if len(records) > 0 {
			if err := tx.Omit("Vouchers").Create(&records).Error; err != nil {
				return err
			}
		}
		if len(vouchers) > 0 {
			if err := tx.Create(&vouchers).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *GormStore) LoadProducts(ctx context.Context) ([]*models.Product, error) {
	var records []productRecord
	if err := s.DB.WithContext(ctx).Order("position").Find(&records).Error; err != nil {
		return nil, err
	}
	products := make([]*models.Product, 0, len(records))
	for _, r := range records {
		products = append(products, r.toModel())
	}
	return products, nil
}

func (s *GormStore) SaveProducts(ctx context.Context, products []*models.Product) error {
	records := make([]productRecord, 0, len(products))
	for i, p := range products {
		records = append(records, toProductRecord(i, p))
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&productRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.Create(&records).Error
	})
}

func (s *GormStore) LoadTransactions(ctx context.Context) ([]*models.Transaction, error) {
	var records []transactionRecord
	if err := s.DB.WithContext(ctx).Order("position").Find(&records).Error; err != nil {
		return nil, err
	}
	transactions := make([]*models.Transaction, 0, len(records))
	for _, r := range records {
		transactions = append(transactions, r.toModel())
	}
	return transactions, nil
}

func (s *GormStore) SaveTransactions(ctx context.Context, transactions []*models.Transaction) error {
	records := make([]transactionRecord, 0, len(transactions))
	for i, t := range transactions {
		records = append(records, toTransactionRecord(i, t))
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&transactionRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.Create(&records).Error
	})
}

// Backup dumps the database into dir: pg_dump for postgres, VACUUM INTO for sqlite.
func (s *GormStore) Backup(ctx context.Context, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	filename := filepath.Join(dir, "autobackup_"+time.Now().Format("20060102_150405")+".dump")
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	switch s.driver {
	case config.DriverPostgres:
		cmd := exec.CommandContext(ctx, "pg_dump", s.dsn, "-Fc", "-f", filename)
		if out, err := cmd.CombinedOutput(); err != nil {
			return "", fmt.Errorf("pg_dump: %w: %s", err, out)
		}
	default:
		if err := s.DB.WithContext(ctx).Exec("VACUUM INTO ?", filename).Error; err != nil {
			return "", fmt.Errorf("vacuum into: %w", err)
		}
	}
	return filename, nil
}

// Restore loads a pg_dump archive back into the postgres database.
func (s *GormStore) Restore(ctx context.Context, filename string) error {
	if s.driver != config.DriverPostgres {
		return fmt.Errorf("restore is only supported for postgres")
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	cmd := exec.CommandContext(ctx, "pg_restore", "--clean", "-d", s.dsn, filename)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("pg_restore: %w: %s", err, out)
	}
	return nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
