package db

import (
	"context"
	"fmt"

	"Topup-Lunite/config"
	"Topup-Lunite/internal/models"
)

// Collection names, used in errors and logs.
const (
	CollectionUsers        = "users"
	CollectionProducts     = "products"
	CollectionTransactions = "transactions"
)

// Store persists the three collections. Every Save replaces the whole collection.
// A single writer is assumed.
type Store interface {
	LoadUsers(ctx context.Context) ([]*models.User, error)
	SaveUsers(ctx context.Context, users []*models.User) error
	LoadProducts(ctx context.Context) ([]*models.Product, error)
	SaveProducts(ctx context.Context, products []*models.Product) error
	LoadTransactions(ctx context.Context) ([]*models.Transaction, error)
	SaveTransactions(ctx context.Context, transactions []*models.Transaction) error
	// Backup writes a copy of all collections under dir and returns its path.
	Backup(ctx context.Context, dir string) (string, error)
	Close() error
}

// Open returns the store selected by cfg.StoreDriver.
func Open(cfg *config.AppConfig) (Store, error) {
	switch cfg.StoreDriver {
	case config.DriverJSON:
		return NewFileStore(cfg.DataDir)
	case config.DriverSQLite, config.DriverPostgres:
		return OpenGorm(cfg.StoreDriver, cfg.DatabaseURL)
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// Load reads every collection and runs the load-boundary migration. When the
// migration changed any user, the users collection is written back.
func Load(ctx context.Context, s Store) (*models.Snapshot, error) {
	users, err := s.LoadUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", CollectionUsers, err)
	}
	products, err := s.LoadProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", CollectionProducts, err)
	}
	transactions, err := s.LoadTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", CollectionTransactions, err)
	}
	snap := &models.Snapshot{Users: users, Products: products, Transactions: transactions}
	changed, err := Normalize(snap)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := s.SaveUsers(ctx, snap.Users); err != nil {
			return nil, fmt.Errorf("save normalized %s: %w", CollectionUsers, err)
		}
	}
	return snap, nil
}

// Replace writes every collection of snap into s.
func Replace(ctx context.Context, s Store, snap *models.Snapshot) error {
	if err := s.SaveUsers(ctx, snap.Users); err != nil {
		return fmt.Errorf("save %s: %w", CollectionUsers, err)
	}
	if err := s.SaveProducts(ctx, snap.Products); err != nil {
		return fmt.Errorf("save %s: %w", CollectionProducts, err)
	}
	if err := s.SaveTransactions(ctx, snap.Transactions); err != nil {
		return fmt.Errorf("save %s: %w", CollectionTransactions, err)
	}
	return nil
}
