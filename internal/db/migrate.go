package db

import (
	"fmt"

	"Topup-Lunite/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Normalize fills defaults on freshly loaded records so the rest of the code never
// has to. It reports whether any user record changed. Legacy plaintext passwords are
// replaced by bcrypt hashes here.
func Normalize(snap *models.Snapshot) (bool, error) {
	changed := false
	for _, u := range snap.Users {
		c, err := normalizeUser(u)
		if err != nil {
			return false, fmt.Errorf("normalize user %s: %w", u.ID, err)
		}
		changed = changed || c
	}
	for _, p := range snap.Products {
		if !p.Type.Valid() {
			p.Type = models.ProductTopup
		}
		if p.Stock < 0 {
			p.Stock = 0
		}
	}
	for _, t := range snap.Transactions {
		if t.Qty == 0 {
			t.Qty = 1
		}
	}
	return changed, nil
}

func normalizeUser(u *models.User) (bool, error) {
	changed := false
	if !u.Role.Valid() {
		u.Role = models.RoleMember
		changed = true
	}
	if u.Balance < 0 {
		u.Balance = 0
		changed = true
	}
	if u.FailedAttempts < 0 {
		u.FailedAttempts = 0
		changed = true
	}
	if u.PendingSubscriptionDays < 0 {
		u.PendingSubscriptionDays = 0
		changed = true
	}
	if u.Vouchers == nil {
		u.Vouchers = []models.Voucher{}
	}
	if u.LockedUntil != nil && u.LockedUntil.IsZero() {
		u.LockedUntil = nil
		changed = true
	}
	if u.VIPExpiry != nil && u.VIPExpiry.IsZero() {
		u.VIPExpiry = nil
		changed = true
	}
	// an unreadable expiry counts as expired; pending days wait for the next renewal
	if u.VIPExpiry != nil && u.VIPExpiry.Corrupt() {
		u.VIPExpiry = nil
		if u.Role == models.RoleVIP {
			u.Role = models.RoleMember
		}
		changed = true
	}
	if !isBcryptHash(u.Password) {
		hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return false, err
		}
		u.Password = string(hashed)
		changed = true
	}
	return changed, nil
}

func isBcryptHash(s string) bool {
	_, err := bcrypt.Cost([]byte(s))
	return err == nil
}
