package models

type Role string

const (
	RoleMember Role = "member"
	RoleVIP    Role = "vip"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleVIP, RoleAdmin:
		return true
	}
	return false
}

type ProductType string

const (
	ProductTopup        ProductType = "topup"
	ProductSubscription ProductType = "subscription"
)

func (t ProductType) Valid() bool {
	return t == ProductTopup || t == ProductSubscription
}

type PaymentMethod string

const (
	MethodSaldo PaymentMethod = "Saldo"
	MethodGopay PaymentMethod = "Gopay"
	MethodBank  PaymentMethod = "Bank"
)

type User struct {
	ID                      string    `json:"id"`
	Username                string    `json:"username"`
	Password                string    `json:"password"`
	Role                    Role      `json:"role"`
	Balance                 int64     `json:"balance"`
	FailedAttempts          int       `json:"failed_attempts"`
	LockedUntil             *Stamp    `json:"locked_until"`
	Vouchers                []Voucher `json:"vouchers"`
	VIPExpiry               *Stamp    `json:"vip_expiry"`
	PendingSubscriptionDays int       `json:"pending_subscription_days"`
}

// Voucher is a single-use percentage discount. Used only ever goes false -> true.
type Voucher struct {
	ID      string `json:"id"`
	Percent int    `json:"percent"`
	Used    bool   `json:"used"`
}

type Product struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Price int64       `json:"price"`
	Stock int         `json:"stock"`
	Type  ProductType `json:"type"`
}

// Transaction is written once per completed purchase and never changed afterwards.
type Transaction struct {
	ID             string        `json:"id"`
	UserID         string        `json:"user_id"`
	ProductID      string        `json:"product_id"`
	Qty            int           `json:"qty"`
	UnitPrice      int64         `json:"unit_price"`
	Subtotal       int64         `json:"subtotal"`
	VoucherApplied *string       `json:"voucher_applied"`
	Total          int64         `json:"total"`
	Method         PaymentMethod `json:"method"`
	UIDGame        string        `json:"uid_game"`
	CreatedAt      Stamp         `json:"created_at"`
}
