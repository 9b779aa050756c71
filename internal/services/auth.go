package services

import (
	"time"

	"Topup-Lunite/config"
	"Topup-Lunite/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// AuthGuard evaluates login attempts against stored credentials and lockout state.
type AuthGuard struct {
	maxAttempts  int
	lockDuration time.Duration
	vip          *VIPLifecycle
}

func NewAuthGuard(policy config.Policy, vip *VIPLifecycle) *AuthGuard {
	return &AuthGuard{
		maxAttempts:  policy.MaxFailedAttempts,
		lockDuration: policy.LockDuration,
		vip:          vip,
	}
}

// AttemptLogin evaluates one login attempt and mutates the user's lockout state.
// On success the user's VIP tenure is refreshed. Failures are *LockedError or
// *WrongPasswordError.
func (g *AuthGuard) AttemptLogin(u *models.User, password string, now time.Time) (*models.User, error) {
	if u.LockedUntil != nil {
		if !u.LockedUntil.Corrupt() && now.Before(u.LockedUntil.Time) {
			return nil, &LockedError{Remaining: u.LockedUntil.Time.Sub(now)}
		}
		u.LockedUntil = nil
		u.FailedAttempts = 0
	}

	if CheckPassword(u.Password, password) {
		u.FailedAttempts = 0
		u.LockedUntil = nil
		g.vip.Refresh(u, now)
		return u, nil
	}

	u.FailedAttempts++
	locked := false
	if u.FailedAttempts >= g.maxAttempts {
		u.LockedUntil = models.NewStamp(now.Add(g.lockDuration))
		locked = true
	}
	return nil, &WrongPasswordError{Attempts: u.FailedAttempts, Locked: locked}
}

// HashPassword returns the bcrypt hash stored for a password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
