package db

import (
	"time"

	"Topup-Lunite/internal/models"
)

// Table records for the gorm store. Position keeps collection order, which the
// domain relies on (voucher issuance order, listing order).

type userRecord struct {
	ID                      string `gorm:"primaryKey"`
	Position                int    `gorm:"index"`
	Username                string `gorm:"uniqueIndex"`
	Password                string
	Role                    string
	Balance                 int64
	FailedAttempts          int
	LockedUntil             *time.Time
	VIPExpiry               *time.Time
	PendingSubscriptionDays int
	Vouchers                []voucherRecord `gorm:"foreignKey:UserID"`
}

func (userRecord) TableName() string { return "users" }

type voucherRecord struct {
	ID       string `gorm:"primaryKey"`
	UserID   string `gorm:"index"`
	Position int
	Percent  int
	Used     bool
}

func (voucherRecord) TableName() string { return "vouchers" }

type productRecord struct {
	ID       string `gorm:"primaryKey"`
	Position int    `gorm:"index"`
	Name     string
	Price    int64
	Stock    int
	Type     string
}

func (productRecord) TableName() string { return "products" }

type transactionRecord struct {
	ID             string `gorm:"primaryKey"`
	Position       int    `gorm:"index"`
	UserID         string `gorm:"index"`
	ProductID      string
	Qty            int
	UnitPrice      int64
	Subtotal       int64
	VoucherApplied *string
	Total          int64
	Method         string
	UIDGame        string
	CreatedAt      time.Time
}

func (transactionRecord) TableName() string { return "transactions" }

// Corrupt stamps cannot be represented in a time column and are stored as NULL.
func stampToTime(s *models.Stamp) *time.Time {
	if s == nil || s.Corrupt() {
		return nil
	}
	t := s.Time.Truncate(time.Second)
	return &t
}

func timeToStamp(t *time.Time) *models.Stamp {
	if t == nil || t.IsZero() {
		return nil
	}
	return models.NewStamp(t.In(time.Local))
}

func toUserRecord(pos int, u *models.User) userRecord {
	r := userRecord{
		ID:                      u.ID,
		Position:                pos,
		Username:                u.Username,
		Password:                u.Password,
		Role:                    string(u.Role),
		Balance:                 u.Balance,
		FailedAttempts:          u.FailedAttempts,
		LockedUntil:             stampToTime(u.LockedUntil),
		VIPExpiry:               stampToTime(u.VIPExpiry),
		PendingSubscriptionDays: u.PendingSubscriptionDays,
	}
	for i, v := range u.Vouchers {
		r.Vouchers = append(r.Vouchers, voucherRecord{ID: v.ID, UserID: u.ID, Position: i, Percent: v.Percent, Used: v.Used})
	}
	return r
}

func (r userRecord) toModel() *models.User {
	u := &models.User{
		ID:                      r.ID,
		Username:                r.Username,
		Password:                r.Password,
		Role:                    models.Role(r.Role),
		Balance:                 r.Balance,
		FailedAttempts:          r.FailedAttempts,
		LockedUntil:             timeToStamp(r.LockedUntil),
		VIPExpiry:               timeToStamp(r.VIPExpiry),
		PendingSubscriptionDays: r.PendingSubscriptionDays,
		Vouchers:                make([]models.Voucher, 0, len(r.Vouchers)),
	}
	for _, v := range r.Vouchers {
		u.Vouchers = append(u.Vouchers, models.Voucher{ID: v.ID, Percent: v.Percent, Used: v.Used})
	}
	return u
}

func toProductRecord(pos int, p *models.Product) productRecord {
	return productRecord{ID: p.ID, Position: pos, Name: p.Name, Price: p.Price, Stock: p.Stock, Type: string(p.Type)}
}

func (r productRecord) toModel() *models.Product {
	return &models.Product{ID: r.ID, Name: r.Name, Price: r.Price, Stock: r.Stock, Type: models.ProductType(r.Type)}
}

func toTransactionRecord(pos int, t *models.Transaction) transactionRecord {
	r := transactionRecord{
		ID:             t.ID,
		Position:       pos,
		UserID:         t.UserID,
		ProductID:      t.ProductID,
		Qty:            t.Qty,
		UnitPrice:      t.UnitPrice,
		Subtotal:       t.Subtotal,
		VoucherApplied: t.VoucherApplied,
		Total:          t.Total,
		Method:         string(t.Method),
		UIDGame:        t.UIDGame,
	}
	if ts := stampToTime(&t.CreatedAt); ts != nil {
		r.CreatedAt = *ts
	}
	return r
}

func (r transactionRecord) toModel() *models.Transaction {
	t := &models.Transaction{
		ID:             r.ID,
		UserID:         r.UserID,
		ProductID:      r.ProductID,
		Qty:            r.Qty,
		UnitPrice:      r.UnitPrice,
		Subtotal:       r.Subtotal,
		VoucherApplied: r.VoucherApplied,
		Total:          r.Total,
		Method:         models.PaymentMethod(r.Method),
		UIDGame:        r.UIDGame,
	}
	if s := timeToStamp(&r.CreatedAt); s != nil {
		t.CreatedAt = *s
	}
	return t
}
