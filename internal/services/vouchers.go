package services

import (
	"Topup-Lunite/config"
	"Topup-Lunite/internal/models"
)

// VoucherLedger issues vouchers earned by large purchases and redeems them.
type VoucherLedger struct {
	step           int64
	percentPerStep int
}

func NewVoucherLedger(policy config.Policy) *VoucherLedger {
	return &VoucherLedger{step: policy.VoucherStep, percentPerStep: policy.VoucherPercentPerStep}
}

// ComputePercent returns percentPerStep for every full step in amount, 0 below one step.
// The result is not capped: large enough totals earn 100% or more.
func (l *VoucherLedger) ComputePercent(amount int64) int {
	if amount < l.step {
		return 0
	}
	return int(amount/l.step) * l.percentPerStep
}

// Issue appends a fresh voucher to owner. The id is unique across all users.
func (l *VoucherLedger) Issue(snap *models.Snapshot, owner *models.User, percent int) models.Voucher {
	existing := snap.VoucherIDs()
	// owner may not be part of snap yet
	if snap.UserByID(owner.ID) != owner {
		for _, v := range owner.Vouchers {
			existing = append(existing, v.ID)
		}
	}
	v := models.Voucher{ID: NextID("V", existing), Percent: percent}
	owner.Vouchers = append(owner.Vouchers, v)
	return v
}

// Redeem marks the user's voucher as used. Unknown or used ids leave the user untouched.
func (l *VoucherLedger) Redeem(u *models.User, id string) error {
	for i := range u.Vouchers {
		if u.Vouchers[i].ID != id {
			continue
		}
		if u.Vouchers[i].Used {
			return ErrVoucherUsed
		}
		u.Vouchers[i].Used = true
		return nil
	}
	return ErrVoucherNotFound
}

// Usable lists the user's unused vouchers in issuance order.
func (l *VoucherLedger) Usable(u *models.User) []models.Voucher {
	var out []models.Voucher
	for _, v := range u.Vouchers {
		if !v.Used {
			out = append(out, v)
		}
	}
	return out
}

// lookup returns the user's unused voucher with the given id.
func (l *VoucherLedger) lookup(u *models.User, id string) (models.Voucher, bool) {
	if id == "" {
		return models.Voucher{}, false
	}
	for _, v := range u.Vouchers {
		if v.ID == id && !v.Used {
			return v, true
		}
	}
	return models.Voucher{}, false
}
