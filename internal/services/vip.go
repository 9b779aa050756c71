package services

import (
	"time"

	"Topup-Lunite/config"
	"Topup-Lunite/internal/models"
)

const day = 24 * time.Hour

// VIPLifecycle computes VIP tenure transitions: expiry, pending carry-over and
// stacking renewal.
type VIPLifecycle struct {
	subscriptionDays int
}

func NewVIPLifecycle(policy config.Policy) *VIPLifecycle {
	return &VIPLifecycle{subscriptionDays: policy.SubscriptionDays}
}

// Refresh expires or carries over the user's VIP tenure and reports whether the user
// changed. A corrupt stored expiry is treated as expired: the user drops to member and
// the field is cleared.
func (v *VIPLifecycle) Refresh(u *models.User, now time.Time) bool {
	if u.VIPExpiry == nil {
		return false
	}
	if u.VIPExpiry.Corrupt() {
		u.VIPExpiry = nil
		u.Role = models.RoleMember
		return true
	}
	if !now.After(u.VIPExpiry.Time) {
		return false
	}
	if u.PendingSubscriptionDays > 0 {
		u.VIPExpiry = models.NewStamp(now.Add(time.Duration(u.PendingSubscriptionDays) * day))
		u.Role = models.RoleVIP
		u.PendingSubscriptionDays = 0
		return true
	}
	u.VIPExpiry = nil
	u.Role = models.RoleMember
	return true
}

// Extend grants days of VIP tenure. Active tenure is stacked onto, otherwise the
// tenure starts now. days <= 0 means the configured subscription length.
func (v *VIPLifecycle) Extend(u *models.User, now time.Time, days int) {
	if days <= 0 {
		days = v.subscriptionDays
	}
	length := time.Duration(days) * day
	if Active(u.VIPExpiry, now) {
		u.VIPExpiry = models.NewStamp(u.VIPExpiry.Time.Add(length))
	} else {
		u.VIPExpiry = models.NewStamp(now.Add(length))
	}
	u.Role = models.RoleVIP
}

// Active reports whether s is a readable instant not yet passed at now.
func Active(s *models.Stamp, now time.Time) bool {
	return s != nil && !s.Corrupt() && !now.After(s.Time)
}
