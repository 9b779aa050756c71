package services

import (
	"context"
	"errors"
	"fmt"

	"Topup-Lunite/config"
	"Topup-Lunite/internal/db"
	"Topup-Lunite/internal/logger"
	"Topup-Lunite/internal/metrics"
	"Topup-Lunite/internal/models"
	"go.uber.org/zap"
)

// Shop is the account-and-transaction engine behind the menus. It owns the loaded
// collections and writes them back through the store after every mutation.
type Shop struct {
	store    db.Store
	snap     *models.Snapshot
	clock    Clock
	policy   config.Policy
	log      *zap.Logger
	Auth     *AuthGuard
	VIP      *VIPLifecycle
	Vouchers *VoucherLedger
	Engine   *PurchaseEngine
}

// NewShop loads all collections from store.
func NewShop(ctx context.Context, store db.Store, clock Clock, policy config.Policy, log *zap.Logger) (*Shop, error) {
	snap, err := db.Load(ctx, store)
	if err != nil {
		return nil, err
	}
	vip := NewVIPLifecycle(policy)
	vouchers := NewVoucherLedger(policy)
	return &Shop{
		store:    store,
		snap:     snap,
		clock:    clock,
		policy:   policy,
		log:      log,
		Auth:     NewAuthGuard(policy, vip),
		VIP:      vip,
		Vouchers: vouchers,
		Engine:   NewPurchaseEngine(store, policy, vouchers, vip, log),
	}, nil
}

func (s *Shop) Snapshot() *models.Snapshot { return s.snap }

func (s *Shop) Policy() config.Policy { return s.policy }

// Register creates a member account.
func (s *Shop) Register(ctx context.Context, username, password string) (*models.User, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}
	if s.snap.UserByUsername(username) != nil {
		return nil, ErrUsernameTaken
	}
	hashed, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{
		ID:       NextID("U", s.snap.UserIDs()),
		Username: username,
		Password: hashed,
		Role:     models.RoleMember,
		Vouchers: []models.Voucher{},
	}
	s.snap.Users = append(s.snap.Users, u)
	if err := s.saveUsers(ctx); err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.String("user_id", u.ID), zap.String("username", username))
	return u, nil
}

// CheckLock reports ErrUserNotFound or an active *LockedError for username without
// changing anything, so a locked user is turned away before typing a password.
func (s *Shop) CheckLock(username string) error {
	u := s.snap.UserByUsername(username)
	if u == nil {
		return ErrUserNotFound
	}
	if l := u.LockedUntil; l != nil && !l.Corrupt() {
		if now := s.clock.Now(); now.Before(l.Time) {
			return &LockedError{Remaining: l.Time.Sub(now)}
		}
	}
	return nil
}

// Login evaluates one attempt for username. The lockout state is saved whatever the
// outcome.
func (s *Shop) Login(ctx context.Context, username, password string) (*models.User, error) {
	u := s.snap.UserByUsername(username)
	if u == nil {
		metrics.LoginAttempts.WithLabelValues("not_found").Inc()
		return nil, ErrUserNotFound
	}
	user, authErr := s.Auth.AttemptLogin(u, password, s.clock.Now())
	if err := s.saveUsers(ctx); err != nil {
		return nil, err
	}

	var wrong *WrongPasswordError
	switch {
	case authErr == nil:
		metrics.LoginAttempts.WithLabelValues("success").Inc()
		s.log.Info("login", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
	case errors.As(authErr, &wrong):
		metrics.LoginAttempts.WithLabelValues("wrong_password").Inc()
		s.log.Warn("login failed", zap.String("user_id", u.ID), zap.Int("attempts", wrong.Attempts))
		if wrong.Locked {
			logger.NotifyAdmin(fmt.Sprintf("Account %s locked after %d failed logins", u.Username, wrong.Attempts))
		}
	case errors.Is(authErr, ErrLocked):
		metrics.LoginAttempts.WithLabelValues("locked").Inc()
	}
	return user, authErr
}

// TopUp adds amount to the user's balance.
func (s *Shop) TopUp(ctx context.Context, u *models.User, amount int64) error {
	if amount <= 0 {
		return &ValidationError{Field: "amount", Message: "amount must be greater than 0"}
	}
	u.Balance += amount
	if err := s.saveUsers(ctx); err != nil {
		return err
	}
	s.log.Info("balance topped up", zap.String("user_id", u.ID), zap.Int64("amount", amount), zap.Int64("balance", u.Balance))
	return nil
}

// Quote prices productID for u without changing anything.
func (s *Shop) Quote(u *models.User, productID, voucherID string) (Quote, error) {
	p := s.snap.Product(productID)
	if p == nil {
		return Quote{}, ErrProductNotFound
	}
	return s.Engine.Quote(u, p, voucherID), nil
}

func (s *Shop) Purchase(ctx context.Context, u *models.User, req PurchaseRequest) (*Invoice, error) {
	return s.Engine.Purchase(ctx, s.snap, u, req, s.clock.Now())
}

// History lists the user's transactions in creation order.
func (s *Shop) History(u *models.User) []*models.Transaction {
	return s.snap.TransactionsOf(u.ID)
}

func (s *Shop) saveUsers(ctx context.Context) error {
	if err := s.store.SaveUsers(ctx, s.snap.Users); err != nil {
		perr := &PersistenceError{Collection: db.CollectionUsers, Err: err}
		s.log.Error("save failed", zap.Error(perr))
		logger.NotifyAdmin(perr.Error())
		return perr
	}
	return nil
}

func (s *Shop) saveProducts(ctx context.Context) error {
	if err := s.store.SaveProducts(ctx, s.snap.Products); err != nil {
		perr := &PersistenceError{Collection: db.CollectionProducts, Err: err}
		s.log.Error("save failed", zap.Error(perr))
		logger.NotifyAdmin(perr.Error())
		return perr
	}
	return nil
}
