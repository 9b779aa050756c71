package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"Topup-Lunite/config"
	"Topup-Lunite/internal/db"
	"Topup-Lunite/internal/logger"
	"Topup-Lunite/internal/metrics"
	"Topup-Lunite/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PurchaseRequest is what the caller collected for one purchase. VoucherID and
// Reference are supplied by the caller, never generated here.
type PurchaseRequest struct {
	ProductID string
	UIDGame   string
	Method    models.PaymentMethod
	VoucherID string
	Reference string
}

// Quote is the price breakdown of a product for a user.
type Quote struct {
	UnitPrice int64
	Subtotal  int64
	Discount  int64
	Total     int64
	Voucher   *models.Voucher
}

// Invoice describes a completed purchase.
type Invoice struct {
	Transaction   *models.Transaction
	Username      string
	ProductName   string
	Quote         Quote
	Reference     string
	IssuedVoucher *models.Voucher
	VIPExpiry     *models.Stamp
}

// PurchaseEngine prices a purchase, takes payment, and records it.
type PurchaseEngine struct {
	store       db.Store
	vouchers    *VoucherLedger
	vip         *VIPLifecycle
	vipDiscount int64
	subDays     int
	uidMinLen   int
	log         *zap.Logger
}

func NewPurchaseEngine(store db.Store, policy config.Policy, vouchers *VoucherLedger, vip *VIPLifecycle, log *zap.Logger) *PurchaseEngine {
	return &PurchaseEngine{
		store:       store,
		vouchers:    vouchers,
		vip:         vip,
		vipDiscount: policy.VIPDiscountPercent,
		subDays:     policy.SubscriptionDays,
		uidMinLen:   policy.UIDMinLength,
		log:         log,
	}
}

// UnitPrice is the product price for the user's role. VIPs get the configured
// discount with integer floor division.
func (e *PurchaseEngine) UnitPrice(u *models.User, p *models.Product) int64 {
	if u.Role == models.RoleVIP {
		return e.VIPPrice(p)
	}
	return p.Price
}

func (e *PurchaseEngine) VIPPrice(p *models.Product) int64 {
	return p.Price * (100 - e.vipDiscount) / 100
}

// Quote prices one unit of p for u. A voucher id that does not name one of the
// user's unused vouchers is ignored.
func (e *PurchaseEngine) Quote(u *models.User, p *models.Product, voucherID string) Quote {
	q := Quote{UnitPrice: e.UnitPrice(u, p)}
	q.Subtotal = q.UnitPrice * 1
	if v, ok := e.vouchers.lookup(u, voucherID); ok {
		q.Voucher = &v
		q.Discount = q.Subtotal * int64(v.Percent) / 100
	}
	q.Total = q.Subtotal - q.Discount
	return q
}

// Purchase validates the request, takes payment, records the transaction and
// persists all three collections. Nothing is mutated unless every check passes.
// A save failure is returned as *PersistenceError after in-memory state has changed.
func (e *PurchaseEngine) Purchase(ctx context.Context, snap *models.Snapshot, u *models.User, req PurchaseRequest, now time.Time) (*Invoice, error) {
	inv, err := e.purchase(ctx, snap, u, req, now)
	if err != nil {
		metrics.PurchaseFailures.WithLabelValues(failureReason(err)).Inc()
		return nil, err
	}
	return inv, nil
}

func (e *PurchaseEngine) purchase(ctx context.Context, snap *models.Snapshot, u *models.User, req PurchaseRequest, now time.Time) (*Invoice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := e.log.With(zap.String("trace_id", uuid.NewString()), zap.String("user_id", u.ID), zap.String("product_id", req.ProductID))

	p := snap.Product(req.ProductID)
	if p == nil {
		return nil, ErrProductNotFound
	}
	if p.Stock <= 0 {
		return nil, ErrOutOfStock
	}
	if err := ValidateUID(req.UIDGame, e.uidMinLen); err != nil {
		return nil, err
	}

	q := e.Quote(u, p, req.VoucherID)
	if req.VoucherID != "" && q.Voucher == nil {
		log.Debug("voucher selection ignored", zap.String("voucher_id", req.VoucherID))
	}

	switch req.Method {
	case models.MethodSaldo:
		if u.Balance < q.Total {
			return nil, ErrInsufficientFunds
		}
	case models.MethodGopay, models.MethodBank:
		if strings.TrimSpace(req.Reference) == "" {
			return nil, ErrEmptyReference
		}
	default:
		return nil, ErrInvalidMethod
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if req.Method == models.MethodSaldo {
		u.Balance -= q.Total
	}
	tx := &models.Transaction{
		ID:        NextID("T", snap.TransactionIDs()),
		UserID:    u.ID,
		ProductID: p.ID,
		Qty:       1,
		UnitPrice: q.UnitPrice,
		Subtotal:  q.Subtotal,
		Total:     q.Total,
		Method:    req.Method,
		UIDGame:   req.UIDGame,
		CreatedAt: *models.NewStamp(now),
	}
	if q.Voucher != nil {
		id := q.Voucher.ID
		tx.VoucherApplied = &id
	}
	snap.Transactions = append(snap.Transactions, tx)
	p.Stock--

	inv := &Invoice{Transaction: tx, Username: u.Username, ProductName: p.Name, Quote: q, Reference: req.Reference}
	if q.Voucher != nil {
		if err := e.vouchers.Redeem(u, q.Voucher.ID); err != nil {
			return nil, err
		}
	}
	if pct := e.vouchers.ComputePercent(q.Total); pct > 0 {
		v := e.vouchers.Issue(snap, u, pct)
		inv.IssuedVoucher = &v
		metrics.VouchersIssued.Inc()
	}
	if p.Type == models.ProductSubscription {
		e.vip.Extend(u, now, e.subDays)
		inv.VIPExpiry = u.VIPExpiry
	}

	if err := e.save(ctx, snap); err != nil {
		log.Error("purchase not persisted", zap.String("transaction_id", tx.ID), zap.Error(err))
		logger.NotifyAdmin("Purchase " + tx.ID + " not persisted: " + err.Error())
		return nil, err
	}

	metrics.Purchases.WithLabelValues(string(req.Method), string(p.Type)).Inc()
	if q.Total > 0 {
		metrics.Revenue.Add(float64(q.Total))
	}
	log.Info("purchase completed",
		zap.String("transaction_id", tx.ID),
		zap.Int64("total", q.Total),
		zap.String("method", string(req.Method)),
	)
	return inv, nil
}

func (e *PurchaseEngine) save(ctx context.Context, snap *models.Snapshot) error {
	if err := e.store.SaveUsers(ctx, snap.Users); err != nil {
		return &PersistenceError{Collection: db.CollectionUsers, Err: err}
	}
	if err := e.store.SaveProducts(ctx, snap.Products); err != nil {
		return &PersistenceError{Collection: db.CollectionProducts, Err: err}
	}
	if err := e.store.SaveTransactions(ctx, snap.Transactions); err != nil {
		return &PersistenceError{Collection: db.CollectionTransactions, Err: err}
	}
	return nil
}

func failureReason(err error) string {
	var perr *PersistenceError
	switch {
	case errors.As(err, &perr):
		return "persistence"
	case errors.Is(err, ErrProductNotFound):
		return "product_not_found"
	case errors.Is(err, ErrOutOfStock):
		return "out_of_stock"
	case errors.Is(err, ErrInvalidUID):
		return "invalid_uid"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrEmptyReference):
		return "empty_reference"
	case errors.Is(err, ErrInvalidMethod):
		return "invalid_method"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	}
	return "other"
}
