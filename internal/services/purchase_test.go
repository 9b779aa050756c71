package services

import (
	"context"
	"errors"
	"testing"

	"Topup-Lunite/internal/db"
	"Topup-Lunite/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seededStore holds a member with a voucher, an active VIP and four products.
func seededStore() *memStore {
	store := newMemStore()
	store.users = []*models.User{
		{ID: "U-0001", Username: "budi", Password: "rahasia", Role: models.RoleMember, Balance: 500000,
			Vouchers: []models.Voucher{{ID: "V-0001", Percent: 10}}},
		{ID: "U-0002", Username: "sinta", Password: "rahasia", Role: models.RoleVIP, Balance: 100000,
			VIPExpiry: models.NewStamp(epoch.Add(10 * day)), Vouchers: []models.Voucher{}},
	}
	store.products = []*models.Product{
		{ID: "P-0001", Name: "Diamond 100", Price: 100000, Stock: 5, Type: models.ProductTopup},
		{ID: "P-0002", Name: "VIP Bulanan", Price: 50000, Stock: 10, Type: models.ProductSubscription},
		{ID: "P-0003", Name: "Diamond 50", Price: 50000, Stock: 0, Type: models.ProductTopup},
		{ID: "P-0004", Name: "Diamond 250", Price: 250000, Stock: 3, Type: models.ProductTopup},
	}
	return store
}

func newPurchaseShop(t *testing.T) (*Shop, *memStore) {
	t.Helper()
	store := seededStore()
	shop := newTestShop(t, store, newClock())
	store.saves = map[string]int{}
	return shop, store
}

func TestPurchaseVIPPriceWithoutVoucher(t *testing.T) {
	shop, store := newPurchaseShop(t)
	sinta := shop.Snapshot().UserByUsername("sinta")

	inv, err := shop.Purchase(context.Background(), sinta, PurchaseRequest{
		ProductID: "P-0001", UIDGame: "12345678", Method: models.MethodSaldo,
	})
	require.NoError(t, err)

	assert.EqualValues(t, 90000, inv.Quote.UnitPrice)
	assert.EqualValues(t, 90000, inv.Transaction.Total)
	assert.EqualValues(t, 10000, sinta.Balance)
	assert.Nil(t, inv.IssuedVoucher)
	assert.Nil(t, inv.Transaction.VoucherApplied)
	assert.Equal(t, "T-0001", inv.Transaction.ID)
	assert.Equal(t, epoch, inv.Transaction.CreatedAt.Time)
	assert.Equal(t, 4, shop.Snapshot().Product("P-0001").Stock)
	assert.Equal(t, map[string]int{"users": 1, "products": 1, "transactions": 1}, store.saves)
	assert.Len(t, store.transactions, 1)
}

func TestPurchaseInsufficientBalanceChangesNothing(t *testing.T) {
	shop, store := newPurchaseShop(t)
	sinta := shop.Snapshot().UserByUsername("sinta")

	_, err := shop.Purchase(context.Background(), sinta, PurchaseRequest{
		ProductID: "P-0004", UIDGame: "12345678", Method: models.MethodSaldo,
	})
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.EqualValues(t, 100000, sinta.Balance)
	assert.Equal(t, 3, shop.Snapshot().Product("P-0004").Stock)
	assert.Empty(t, shop.Snapshot().Transactions)
	assert.Empty(t, store.saves)
}

func TestPurchaseWithVoucher(t *testing.T) {
	shop, _ := newPurchaseShop(t)
	budi := shop.Snapshot().UserByUsername("budi")

	q, err := shop.Quote(budi, "P-0001", "V-0001")
	require.NoError(t, err)
	assert.EqualValues(t, 10000, q.Discount)

	inv, err := shop.Purchase(context.Background(), budi, PurchaseRequest{
		ProductID: "P-0001", UIDGame: "12345678", Method: models.MethodSaldo, VoucherID: "V-0001",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 100000, inv.Transaction.Subtotal)
	assert.EqualValues(t, 90000, inv.Transaction.Total)
	require.NotNil(t, inv.Transaction.VoucherApplied)
	assert.Equal(t, "V-0001", *inv.Transaction.VoucherApplied)
	assert.True(t, budi.Vouchers[0].Used)
	assert.EqualValues(t, 410000, budi.Balance)

	// a used voucher is silently ignored on the next purchase
	inv, err = shop.Purchase(context.Background(), budi, PurchaseRequest{
		ProductID: "P-0001", UIDGame: "12345678", Method: models.MethodSaldo, VoucherID: "V-0001",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 100000, inv.Transaction.Total)
	assert.Nil(t, inv.Transaction.VoucherApplied)
}

func TestPurchaseIssuesVoucher(t *testing.T) {
	shop, _ := newPurchaseShop(t)
	budi := shop.Snapshot().UserByUsername("budi")

	inv, err := shop.Purchase(context.Background(), budi, PurchaseRequest{
		ProductID: "P-0004", UIDGame: "12345678", Method: models.MethodSaldo,
	})
	require.NoError(t, err)
	require.NotNil(t, inv.IssuedVoucher)
	assert.Equal(t, "V-0002", inv.IssuedVoucher.ID)
	assert.Equal(t, 4, inv.IssuedVoucher.Percent)
	assert.Len(t, budi.Vouchers, 2)
}

func TestPurchaseUncappedVoucherGoesNegative(t *testing.T) {
	shop, _ := newPurchaseShop(t)
	sinta := shop.Snapshot().UserByUsername("sinta")
	sinta.Role = models.RoleMember
	sinta.Balance = 0
	sinta.Vouchers = []models.Voucher{{ID: "V-0002", Percent: 120}}

	inv, err := shop.Purchase(context.Background(), sinta, PurchaseRequest{
		ProductID: "P-0001", UIDGame: "12345678", Method: models.MethodSaldo, VoucherID: "V-0002",
	})
	require.NoError(t, err)
	assert.EqualValues(t, -20000, inv.Transaction.Total)
	assert.EqualValues(t, 20000, sinta.Balance)
}

func TestPurchaseExternalMethods(t *testing.T) {
	shop, _ := newPurchaseShop(t)
	budi := shop.Snapshot().UserByUsername("budi")

	_, err := shop.Purchase(context.Background(), budi, PurchaseRequest{
		ProductID: "P-0001", UIDGame: "12345678", Method: models.MethodGopay, Reference: "   ",
	})
	assert.ErrorIs(t, err, ErrEmptyReference)

	_, err = shop.Purchase(context.Background(), budi, PurchaseRequest{
		ProductID: "P-0001", UIDGame: "12345678", Method: "Cash", Reference: "x",
	})
	assert.ErrorIs(t, err, ErrInvalidMethod)

	inv, err := shop.Purchase(context.Background(), budi, PurchaseRequest{
		ProductID: "P-0001", UIDGame: "12345678", Method: models.MethodBank, Reference: "TRF-778899",
	})
	require.NoError(t, err)
	assert.Equal(t, "TRF-778899", inv.Reference)
	assert.Equal(t, models.MethodBank, inv.Transaction.Method)
	assert.EqualValues(t, 500000, budi.Balance)
}

func TestPurchaseSubscriptionExtendsVIP(t *testing.T) {
	shop, _ := newPurchaseShop(t)
	budi := shop.Snapshot().UserByUsername("budi")
	sinta := shop.Snapshot().UserByUsername("sinta")

	inv, err := shop.Purchase(context.Background(), budi, PurchaseRequest{
		ProductID: "P-0002", UIDGame: "12345678", Method: models.MethodSaldo,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleVIP, budi.Role)
	assert.Equal(t, epoch.Add(30*day), budi.VIPExpiry.Time)
	assert.Same(t, budi.VIPExpiry, inv.VIPExpiry)

	_, err = shop.Purchase(context.Background(), sinta, PurchaseRequest{
		ProductID: "P-0002", UIDGame: "12345678", Method: models.MethodSaldo,
	})
	require.NoError(t, err)
	assert.Equal(t, epoch.Add(40*day), sinta.VIPExpiry.Time)
}

func TestPurchaseRejections(t *testing.T) {
	tests := []struct {
		desc string
		req  PurchaseRequest
		want error
	}{
		{"unknown product", PurchaseRequest{ProductID: "P-0099", UIDGame: "12345678", Method: models.MethodSaldo}, ErrProductNotFound},
		{"out of stock", PurchaseRequest{ProductID: "P-0003", UIDGame: "12345678", Method: models.MethodSaldo}, ErrOutOfStock},
		{"short uid", PurchaseRequest{ProductID: "P-0001", UIDGame: "1234567", Method: models.MethodSaldo}, ErrInvalidUID},
		{"letters in uid", PurchaseRequest{ProductID: "P-0001", UIDGame: "1234567a", Method: models.MethodSaldo}, ErrInvalidUID},
	}
	for _, tt := range tests {
		shop, store := newPurchaseShop(t)
		budi := shop.Snapshot().UserByUsername("budi")
		_, err := shop.Purchase(context.Background(), budi, tt.req)
		assert.ErrorIs(t, err, tt.want, tt.desc)
		assert.EqualValues(t, 500000, budi.Balance, tt.desc)
		assert.Empty(t, store.saves, tt.desc)
	}
}

func TestPurchaseCancelledContext(t *testing.T) {
	shop, store := newPurchaseShop(t)
	budi := shop.Snapshot().UserByUsername("budi")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := shop.Purchase(ctx, budi, PurchaseRequest{ProductID: "P-0001", UIDGame: "12345678", Method: models.MethodSaldo})
	assert.ErrorIs(t, err, context.Canceled)
	assert.EqualValues(t, 500000, budi.Balance)
	assert.Empty(t, shop.Snapshot().Transactions)
	assert.Empty(t, store.saves)
}

func TestPurchasePersistenceFailure(t *testing.T) {
	shop, store := newPurchaseShop(t)
	store.failOn = "transactions"
	budi := shop.Snapshot().UserByUsername("budi")

	_, err := shop.Purchase(context.Background(), budi, PurchaseRequest{ProductID: "P-0001", UIDGame: "12345678", Method: models.MethodSaldo})
	var perr *PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, db.CollectionTransactions, perr.Collection)
	assert.ErrorIs(t, err, errDiskFull)
	assert.Equal(t, "persistence", failureReason(err))

	// memory is ahead of the store
	assert.EqualValues(t, 400000, budi.Balance)
	assert.Len(t, shop.Snapshot().Transactions, 1)
	assert.Empty(t, store.transactions)
}

func TestFailureReason(t *testing.T) {
	assert.Equal(t, "out_of_stock", failureReason(ErrOutOfStock))
	assert.Equal(t, "invalid_uid", failureReason(ValidateUID("1", 8)))
	assert.Equal(t, "cancelled", failureReason(context.DeadlineExceeded))
	assert.Equal(t, "other", failureReason(errors.New("boom")))
}
