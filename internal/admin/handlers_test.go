package admin

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"Topup-Lunite/config"
	"Topup-Lunite/internal/db"
	"Topup-Lunite/internal/models"
	"Topup-Lunite/internal/services"
	"Topup-Lunite/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func runMenu(t *testing.T, users []*models.User, input ...string) (string, *services.Shop) {
	t.Helper()
	ctx := context.Background()
	store, err := db.NewFileStore(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	require.NoError(t, store.SaveUsers(ctx, users))
	clock := &services.FixedClock{At: time.Date(2025, 1, 15, 12, 0, 0, 0, time.Local)}
	shop, err := services.NewShop(ctx, store, clock, config.DefaultPolicy(), zap.NewNop())
	require.NoError(t, err)

	var out bytes.Buffer
	p := ui.NewPrompter(strings.NewReader(strings.Join(input, "\n")+"\n"), &out)
	m := NewMenu(shop, store, filepath.Join(t.TempDir(), "backups"), p, shop.Snapshot().Users[0])
	require.NoError(t, m.Run(ctx))
	return out.String(), shop
}

func TestMenuAccountActions(t *testing.T) {
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.Local)
	out, shop := runMenu(t, []*models.User{
		{ID: "U-0001", Username: "admin", Password: "admin123", Role: models.RoleAdmin},
		{ID: "U-0002", Username: "sinta", Password: "rahasia", Role: models.RoleVIP, VIPExpiry: models.NewStamp(now.Add(-time.Hour)), PendingSubscriptionDays: 2},
		{ID: "U-0003", Username: "budi", Password: "rahasia", Role: models.RoleVIP, VIPExpiry: models.NewStamp(now.Add(time.Hour))},
	},
		"7", "budi", "owner",
		"8", "budi", "5",
		"9",
		"10", "3",
		"99",
		"12",
	)

	assert.Contains(t, out, `unknown role "owner"`)
	assert.Contains(t, out, "budi has 5 pending VIP days")
	assert.Contains(t, out, "sinta")
	assert.Contains(t, out, "Invalid choice")

	sinta := shop.Snapshot().UserByUsername("sinta")
	assert.Equal(t, models.RoleVIP, sinta.Role)
	assert.Equal(t, now.Add(48*time.Hour), sinta.VIPExpiry.Time)
	assert.Equal(t, 5, shop.Snapshot().UserByUsername("budi").PendingSubscriptionDays)
}

func TestMenuProductValidation(t *testing.T) {
	out, shop := runMenu(t, []*models.User{{ID: "U-0001", Username: "admin", Password: "admin123", Role: models.RoleAdmin}},
		"2", "Diamond", "mahal",
		"2", "Diamond", "0", "5", "",
		"2", "Pass", "50000", "5", "subscription",
		"4", "P-0009",
		"4", "P-0001",
		"12",
	)

	assert.Contains(t, out, "Price and stock must be numbers")
	assert.Contains(t, out, "name is required, price must be positive")
	assert.Contains(t, out, "Product added: P-0001")
	assert.Contains(t, out, "Product not found.")
	assert.Contains(t, out, "Product deleted")
	assert.Empty(t, shop.Snapshot().Products)
}
