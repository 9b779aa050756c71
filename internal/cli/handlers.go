package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"Topup-Lunite/internal/models"
	"Topup-Lunite/internal/services"
	"Topup-Lunite/internal/ui"
	"go.uber.org/zap"
)

func (s *Session) userMenu(ctx context.Context, u *models.User) error {
	for {
		s.p.Println(ui.Title("USER MENU"))
		s.p.Printf("%s", ui.Profile(u))
		s.p.Println(menuFor(u.Role))
		choice, err := s.p.Line(ctx, "Choose: ")
		if err != nil {
			return err
		}
		switch choice {
		case choiceProducts:
			s.p.Println(ui.Products(s.shop.Snapshot().Products, s.shop.Engine.VIPPrice))
		case choiceTopUp:
			err = s.handleTopUp(ctx, u)
		case choiceBuy:
			err = s.handleBuy(ctx, u, "")
		case choiceHistory:
			s.handleHistory(u)
		case choiceSubscription:
			err = s.handleBuy(ctx, u, models.ProductSubscription)
		case choiceLogout:
			s.log.Info("logged out", zap.String("user_id", u.ID))
			s.p.Println("Logging out...")
			return nil
		default:
			s.p.Println("Invalid choice")
		}
		if err != nil {
			return err
		}
	}
}

func (s *Session) handleTopUp(ctx context.Context, u *models.User) error {
	s.p.Println(ui.Title("Top Up Balance"))
	amount, err := s.p.Int(ctx, "Amount: ")
	if errors.Is(err, ui.ErrNotNumber) {
		s.p.Println(ui.Failure("Enter a valid number"))
		return nil
	} else if err != nil {
		return err
	}
	if err := s.shop.TopUp(ctx, u, amount); err != nil {
		return s.report(err)
	}
	s.p.Println(ui.Success("Top up successful. Balance is now " + ui.Money(u.Balance)))
	return nil
}

func (s *Session) handleHistory(u *models.User) {
	txs := s.shop.History(u)
	if len(txs) == 0 {
		s.p.Println("No transactions yet")
		return
	}
	s.p.Println(ui.History(txs))
}

// handleBuy collects product, uid, voucher, payment method, confirmation and
// reference, then runs a single purchase. only restricts the offered products to
// one type when set.
func (s *Session) handleBuy(ctx context.Context, u *models.User, only models.ProductType) error {
	s.p.Println(ui.Title("Buy Lunite"))
	products := s.catalog(only)
	if len(products) == 0 {
		s.p.Println("No products available")
		return nil
	}
	s.p.Println(ui.Products(products, s.shop.Engine.VIPPrice))

	id, err := s.p.Line(ctx, "Product ID: ")
	if err != nil {
		return err
	}
	p := s.shop.Snapshot().Product(id)
	if p == nil || (only != "" && p.Type != only) {
		return s.report(services.ErrProductNotFound)
	}
	if p.Stock <= 0 {
		return s.report(services.ErrOutOfStock)
	}

	minLen := s.cfg.Policy.UIDMinLength
	uid, err := s.p.Line(ctx, fmt.Sprintf("Game UID (at least %d digits): ", minLen))
	if err != nil {
		return err
	}
	if err := services.ValidateUID(uid, minLen); err != nil {
		return s.report(err)
	}

	voucherID, err := s.chooseVoucher(ctx, u)
	if err != nil {
		return err
	}
	q := s.shop.Engine.Quote(u, p, voucherID)
	s.p.Printf("%s", ui.Summary(p, uid, q))

	method, err := s.chooseMethod(ctx)
	if err != nil {
		return err
	}
	if method == "" {
		return s.report(services.ErrInvalidMethod)
	}

	ok, err := s.p.Confirm(ctx, fmt.Sprintf("Confirm: pay %s for %s to UID %s? (y/n): ", ui.Money(q.Total), p.Name, uid))
	if err != nil {
		return err
	}
	if !ok {
		s.p.Println("Purchase cancelled.")
		return nil
	}

	var reference string
	if method != models.MethodSaldo {
		reference, err = s.p.Line(ctx, fmt.Sprintf("%s reference: ", method))
		if err != nil {
			return err
		}
	}

	inv, err := s.shop.Purchase(ctx, u, services.PurchaseRequest{
		ProductID: p.ID,
		UIDGame:   uid,
		Method:    method,
		VoucherID: voucherID,
		Reference: reference,
	})
	if err != nil {
		return s.report(err)
	}
	s.p.Printf("%s", ui.Invoice(inv))
	s.p.Println("Thank you for shopping!")
	return nil
}

func (s *Session) catalog(only models.ProductType) []*models.Product {
	if only == "" {
		return s.shop.Snapshot().Products
	}
	var out []*models.Product
	for _, p := range s.shop.Snapshot().Products {
		if p.Type == only {
			out = append(out, p)
		}
	}
	return out
}

// chooseVoucher offers the user's unused vouchers. An empty or unusable answer
// means no voucher.
func (s *Session) chooseVoucher(ctx context.Context, u *models.User) (string, error) {
	usable := s.shop.Vouchers.Usable(u)
	if len(usable) == 0 {
		return "", nil
	}
	s.p.Println("Available vouchers:")
	for i, v := range usable {
		s.p.Printf("%d. %s - %d%%\n", i+1, v.ID, v.Percent)
	}
	choice, err := s.p.Line(ctx, "Use a voucher? (number / empty = no): ")
	if err != nil || choice == "" {
		return "", err
	}
	n, err := strconv.Atoi(choice)
	if err != nil || n < 1 || n > len(usable) {
		return "", nil
	}
	return usable[n-1].ID, nil
}

func (s *Session) chooseMethod(ctx context.Context) (models.PaymentMethod, error) {
	s.p.Println("Payment method:\n1. Saldo (internal balance)\n2. Gopay\n3. Bank transfer")
	m, err := s.p.Line(ctx, "Method (1/2/3): ")
	if err != nil {
		return "", err
	}
	switch m {
	case "1":
		return models.MethodSaldo, nil
	case "2":
		return models.MethodGopay, nil
	case "3":
		return models.MethodBank, nil
	}
	return "", nil
}
