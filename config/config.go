package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers understood by db.Open.
const (
	DriverJSON     = "json"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Policy carries the numeric rules of the storefront.
type Policy struct {
	LockDuration          time.Duration
	MaxFailedAttempts     int
	VIPDiscountPercent    int64
	SubscriptionDays      int
	VoucherStep           int64
	VoucherPercentPerStep int
	UIDMinLength          int
}

// DefaultPolicy mirrors the rules the shop has always run with.
func DefaultPolicy() Policy {
	return Policy{
		LockDuration:          30 * time.Second,
		MaxFailedAttempts:     3,
		VIPDiscountPercent:    10,
		SubscriptionDays:      30,
		VoucherStep:           100000,
		VoucherPercentPerStep: 2,
		UIDMinLength:          8,
	}
}

type LogConfig struct {
	Level      string
	Filename   string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

type AppConfig struct {
	StoreDriver string
	DataDir     string
	DatabaseURL string

	BackupDir            string
	BackupSchedule       string
	ExpiryNoticeSchedule string
	ExpiryNoticeDays     int

	BotToken        string
	AdminTelegramID int64

	MetricsAddr string

	Log    LogConfig
	Policy Policy
}

func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, relying on environment variables")
	}

	def := DefaultPolicy()
	cfg := &AppConfig{
		StoreDriver: getEnv("STORE_DRIVER", DriverJSON),
		DataDir:     getEnv("DATA_DIR", "data"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		BackupDir:            getEnv("BACKUP_DIR", "backups"),
		BackupSchedule:       getEnv("BACKUP_SCHEDULE", "0 3 * * *"),
		ExpiryNoticeSchedule: getEnv("EXPIRY_NOTICE_SCHEDULE", "0 10 * * *"),
		ExpiryNoticeDays:     getEnvAsInt("EXPIRY_NOTICE_DAYS", 3),

		BotToken:        os.Getenv("BOT_TOKEN"),
		AdminTelegramID: int64(getEnvAsInt("ADMIN_TELEGRAM_ID", 0)),

		MetricsAddr: os.Getenv("METRICS_ADDR"),

		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "INFO"),
			Filename:   getEnv("LOG_FILENAME", "logs/lunite.log"),
			MaxSize:    getEnvAsInt("LOG_MAX_SIZE", 100),
			MaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 3),
			MaxAge:     getEnvAsInt("LOG_MAX_AGE", 28),
			Compress:   getEnvAsBool("LOG_COMPRESS", true),
		},
		Policy: Policy{
			LockDuration:          time.Duration(getEnvAsInt("LOCK_DURATION_SECS", int(def.LockDuration/time.Second))) * time.Second,
			MaxFailedAttempts:     getEnvAsInt("MAX_FAILED_ATTEMPTS", def.MaxFailedAttempts),
			VIPDiscountPercent:    int64(getEnvAsInt("VIP_DISCOUNT_PERCENT", int(def.VIPDiscountPercent))),
			SubscriptionDays:      getEnvAsInt("SUBSCRIPTION_DAYS", def.SubscriptionDays),
			VoucherStep:           int64(getEnvAsInt("VOUCHER_STEP", int(def.VoucherStep))),
			VoucherPercentPerStep: getEnvAsInt("VOUCHER_PERCENT_PER_STEP", def.VoucherPercentPerStep),
			UIDMinLength:          getEnvAsInt("UID_MIN_LENGTH", def.UIDMinLength),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the shop cannot run with.
func (c *AppConfig) Validate() error {
	switch c.StoreDriver {
	case DriverJSON:
		if c.DataDir == "" {
			return errors.New("DATA_DIR must be set for the json store")
		}
	case DriverSQLite, DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL must be set for the %s store", c.StoreDriver)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	return c.Policy.Validate()
}

func (p Policy) Validate() error {
	switch {
	case p.LockDuration <= 0:
		return errors.New("LOCK_DURATION_SECS must be positive")
	case p.MaxFailedAttempts <= 0:
		return errors.New("MAX_FAILED_ATTEMPTS must be positive")
	case p.VIPDiscountPercent < 0 || p.VIPDiscountPercent > 100:
		return errors.New("VIP_DISCOUNT_PERCENT must be within 0..100")
	case p.SubscriptionDays <= 0:
		return errors.New("SUBSCRIPTION_DAYS must be positive")
	case p.VoucherStep <= 0:
		return errors.New("VOUCHER_STEP must be positive")
	case p.VoucherPercentPerStep < 0:
		return errors.New("VOUCHER_PERCENT_PER_STEP must not be negative")
	case p.UIDMinLength <= 0:
		return errors.New("UID_MIN_LENGTH must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.ParseBool(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}
