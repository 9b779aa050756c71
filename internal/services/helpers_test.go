package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"Topup-Lunite/config"
	"Topup-Lunite/internal/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errDiskFull = errors.New("disk full")

// memStore keeps collections in memory and counts saves. failOn makes saves of the
// named collection fail.
type memStore struct {
	users        []*models.User
	products     []*models.Product
	transactions []*models.Transaction
	saves        map[string]int
	failOn       string
}

func newMemStore() *memStore {
	return &memStore{saves: map[string]int{}}
}

func (m *memStore) save(name string) error {
	if m.failOn == name {
		return errDiskFull
	}
	m.saves[name]++
	return nil
}

func (m *memStore) LoadUsers(ctx context.Context) ([]*models.User, error) { return m.users, nil }
func (m *memStore) SaveUsers(ctx context.Context, users []*models.User) error {
	if err := m.save("users"); err != nil {
		return err
	}
	m.users = users
	return nil
}
func (m *memStore) LoadProducts(ctx context.Context) ([]*models.Product, error) { return m.products, nil }
func (m *memStore) SaveProducts(ctx context.Context, products []*models.Product) error {
	if err := m.save("products"); err != nil {
		return err
	}
	m.products = products
	return nil
}
func (m *memStore) LoadTransactions(ctx context.Context) ([]*models.Transaction, error) {
	return m.transactions, nil
}
func (m *memStore) SaveTransactions(ctx context.Context, transactions []*models.Transaction) error {
	if err := m.save("transactions"); err != nil {
		return err
	}
	m.transactions = transactions
	return nil
}
func (m *memStore) Backup(ctx context.Context, dir string) (string, error) { return dir, nil }
func (m *memStore) Close() error                                           { return nil }

var epoch = time.Date(2025, 1, 15, 12, 0, 0, 0, time.Local)

func newClock() *FixedClock { return &FixedClock{At: epoch} }

func newTestShop(t *testing.T, store *memStore, clock Clock) *Shop {
	t.Helper()
	shop, err := NewShop(context.Background(), store, clock, config.DefaultPolicy(), zap.NewNop())
	require.NoError(t, err)
	return shop
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	h, err := HashPassword(password)
	require.NoError(t, err)
	return h
}

func stampAt(t time.Time) *models.Stamp { return models.NewStamp(t) }
