package services

import (
	"context"
	"sort"
	"time"

	"Topup-Lunite/internal/models"
	"go.uber.org/zap"
)

// SweepVIP refreshes the VIP tenure of every user and saves when anything changed.
// It returns the users whose state changed.
func (s *Shop) SweepVIP(ctx context.Context) ([]*models.User, error) {
	now := s.clock.Now()
	var changed []*models.User
	for _, u := range s.snap.Users {
		if s.VIP.Refresh(u, now) {
			changed = append(changed, u)
		}
	}
	if len(changed) == 0 {
		return nil, nil
	}
	if err := s.saveUsers(ctx); err != nil {
		return nil, err
	}
	s.log.Info("vip sweep", zap.Int("changed", len(changed)))
	return changed, nil
}

// ExpiringVIPs lists users whose VIP tenure ends within the next days, soonest first.
func ExpiringVIPs(users []*models.User, now time.Time, days int) []*models.User {
	soon := now.Add(time.Duration(days) * day)
	var out []*models.User
	for _, u := range users {
		if u.Role != models.RoleVIP || !Active(u.VIPExpiry, now) {
			continue
		}
		if !u.VIPExpiry.Time.After(soon) {
			out = append(out, u)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].VIPExpiry.Time.Before(out[j].VIPExpiry.Time)
	})
	return out
}

func (s *Shop) ExpiringVIPs(days int) []*models.User {
	return ExpiringVIPs(s.snap.Users, s.clock.Now(), days)
}
