package cli

import (
	"context"
	"errors"
	"fmt"

	"Topup-Lunite/config"
	"Topup-Lunite/internal/admin"
	"Topup-Lunite/internal/db"
	"Topup-Lunite/internal/logger"
	"Topup-Lunite/internal/models"
	"Topup-Lunite/internal/services"
	"Topup-Lunite/internal/ui"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session is one interactive run of the store: the main menu and whichever role
// menu the logged-in user gets.
type Session struct {
	shop  *services.Shop
	store db.Store
	cfg   *config.AppConfig
	p     *ui.Prompter
	log   *zap.Logger
}

func NewSession(shop *services.Shop, store db.Store, cfg *config.AppConfig, p *ui.Prompter) *Session {
	return &Session{
		shop:  shop,
		store: store,
		cfg:   cfg,
		p:     p,
		log:   logger.L().With(zap.String("session_id", uuid.NewString())),
	}
}

// Run shows the main menu until the user exits. End of input and cancellation end
// the session normally.
func (s *Session) Run(ctx context.Context) error {
	s.log.Info("session started")
	defer s.log.Info("session ended")
	for {
		s.p.Println(ui.Title("Lunite Top Up Store"))
		s.p.Println(mainMenu)
		choice, err := s.p.Line(ctx, "Choose: ")
		if err != nil {
			return s.finish(err)
		}
		switch choice {
		case "1":
			err = s.handleLogin(ctx)
		case "2":
			err = s.handleRegister(ctx)
		case "3":
			s.p.Println("Goodbye!")
			return nil
		default:
			s.p.Println("Invalid choice")
		}
		if err != nil {
			return s.finish(err)
		}
	}
}

func (s *Session) finish(err error) error {
	if ui.Interrupted(err) {
		s.p.Println("\nExiting...")
		return nil
	}
	return err
}

// report prints a failed operation and swallows it. Input and context errors are
// returned so the session can stop.
func (s *Session) report(err error) error {
	if err == nil || ui.Interrupted(err) {
		return err
	}
	s.p.Println(ui.Failure(ui.ErrorMessage(err)))
	return nil
}

func (s *Session) handleRegister(ctx context.Context) error {
	s.p.Println(ui.Title("Register"))
	username, err := s.p.Line(ctx, "New username: ")
	if err != nil {
		return err
	}
	password, err := s.p.Password(ctx, "Password: ")
	if err != nil {
		return err
	}
	u, err := s.shop.Register(ctx, username, password)
	if err != nil {
		return s.report(err)
	}
	s.log.Info("registered", zap.String("user_id", u.ID))
	s.p.Println(ui.Success("Registration successful. Please log in."))
	return nil
}

func (s *Session) handleLogin(ctx context.Context) error {
	s.p.Println(ui.Title("Login"))
	username, err := s.p.Line(ctx, "Username: ")
	if err != nil {
		return err
	}
	if err := s.shop.CheckLock(username); err != nil {
		return s.report(err)
	}
	password, err := s.p.Password(ctx, "Password: ")
	if err != nil {
		return err
	}
	u, err := s.shop.Login(ctx, username, password)
	var wrong *services.WrongPasswordError
	switch {
	case errors.As(err, &wrong):
		s.p.Println(ui.Failure(fmt.Sprintf("Wrong password (attempt %d of %d).", wrong.Attempts, s.cfg.Policy.MaxFailedAttempts)))
		if wrong.Locked {
			s.p.Println(ui.Failure(fmt.Sprintf("Too many failed attempts. Account locked for %d seconds.", int(s.cfg.Policy.LockDuration.Seconds()))))
		}
		return nil
	case err != nil:
		return s.report(err)
	}

	s.log.Info("logged in", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
	s.p.Println(ui.Success("Welcome, " + u.Username + "!"))
	if u.Role == models.RoleAdmin {
		return admin.NewMenu(s.shop, s.store, s.cfg.BackupDir, s.p, u).Run(ctx)
	}
	return s.userMenu(ctx, u)
}
