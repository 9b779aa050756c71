package services

import (
	"encoding/json"
	"testing"
	"time"

	"Topup-Lunite/config"
	"Topup-Lunite/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshCarriesPendingDaysOver(t *testing.T) {
	vip := NewVIPLifecycle(config.DefaultPolicy())
	u := &models.User{
		Role:                    models.RoleVIP,
		VIPExpiry:               stampAt(epoch.Add(-time.Hour)),
		PendingSubscriptionDays: 5,
	}

	assert.True(t, vip.Refresh(u, epoch))
	assert.Equal(t, models.RoleVIP, u.Role)
	assert.Equal(t, 0, u.PendingSubscriptionDays)
	assert.Equal(t, epoch.Add(5*day), u.VIPExpiry.Time)
}

func TestRefreshExpiresToMember(t *testing.T) {
	vip := NewVIPLifecycle(config.DefaultPolicy())
	u := &models.User{Role: models.RoleVIP, VIPExpiry: stampAt(epoch.Add(-time.Second))}

	assert.True(t, vip.Refresh(u, epoch))
	assert.Equal(t, models.RoleMember, u.Role)
	assert.Nil(t, u.VIPExpiry)
}

func TestRefreshKeepsActiveTenure(t *testing.T) {
	vip := NewVIPLifecycle(config.DefaultPolicy())
	u := &models.User{Role: models.RoleVIP, VIPExpiry: stampAt(epoch), PendingSubscriptionDays: 3}

	// expiry equal to now is still active
	assert.False(t, vip.Refresh(u, epoch))
	assert.Equal(t, models.RoleVIP, u.Role)
	assert.Equal(t, 3, u.PendingSubscriptionDays)
}

func TestRefreshIsIdempotent(t *testing.T) {
	vip := NewVIPLifecycle(config.DefaultPolicy())
	users := []*models.User{
		{ID: "U-0001", Role: models.RoleVIP, VIPExpiry: stampAt(epoch.Add(-day)), PendingSubscriptionDays: 2},
		{ID: "U-0002", Role: models.RoleVIP, VIPExpiry: stampAt(epoch.Add(-day))},
		{ID: "U-0003", Role: models.RoleVIP, VIPExpiry: models.ParseStamp("garbage")},
		{ID: "U-0004", Role: models.RoleMember},
	}
	for _, u := range users {
		vip.Refresh(u, epoch)
		first, err := json.Marshal(u)
		require.NoError(t, err)

		assert.False(t, vip.Refresh(u, epoch), u.ID)
		second, err := json.Marshal(u)
		require.NoError(t, err)
		assert.Equal(t, string(first), string(second), u.ID)
	}
}

func TestRefreshCorruptExpiry(t *testing.T) {
	vip := NewVIPLifecycle(config.DefaultPolicy())
	u := &models.User{Role: models.RoleVIP, VIPExpiry: models.ParseStamp("31/12/2025"), PendingSubscriptionDays: 4}

	assert.True(t, vip.Refresh(u, epoch))
	assert.Equal(t, models.RoleMember, u.Role)
	assert.Nil(t, u.VIPExpiry)
	assert.Equal(t, 4, u.PendingSubscriptionDays)
}

func TestExtend(t *testing.T) {
	vip := NewVIPLifecycle(config.DefaultPolicy())

	t.Run("stacks onto active tenure", func(t *testing.T) {
		u := &models.User{Role: models.RoleVIP, VIPExpiry: stampAt(epoch.Add(10 * day))}
		vip.Extend(u, epoch, 30)
		assert.Equal(t, epoch.Add(40*day), u.VIPExpiry.Time)
		assert.Equal(t, models.RoleVIP, u.Role)
	})

	t.Run("starts now when expired", func(t *testing.T) {
		u := &models.User{Role: models.RoleMember, VIPExpiry: stampAt(epoch.Add(-day))}
		vip.Extend(u, epoch, 30)
		assert.Equal(t, epoch.Add(30*day), u.VIPExpiry.Time)
		assert.Equal(t, models.RoleVIP, u.Role)
	})

	t.Run("starts now when never vip", func(t *testing.T) {
		u := &models.User{Role: models.RoleMember}
		vip.Extend(u, epoch, 0)
		assert.Equal(t, epoch.Add(30*day), u.VIPExpiry.Time)
	})

	t.Run("corrupt expiry restarts", func(t *testing.T) {
		u := &models.User{Role: models.RoleVIP, VIPExpiry: models.ParseStamp("soon")}
		vip.Extend(u, epoch, 7)
		assert.Equal(t, epoch.Add(7*day), u.VIPExpiry.Time)
		assert.False(t, u.VIPExpiry.Corrupt())
	})
}

func TestActive(t *testing.T) {
	assert.False(t, Active(nil, epoch))
	assert.False(t, Active(models.ParseStamp("x"), epoch))
	assert.True(t, Active(stampAt(epoch), epoch))
	assert.False(t, Active(stampAt(epoch.Add(-time.Second)), epoch))
}
