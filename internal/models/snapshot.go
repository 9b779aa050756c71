package models

// Snapshot holds the three collections as loaded from the store. Every mutating
// operation works on a snapshot and then rewrites the affected collections in full.
type Snapshot struct {
	Users        []*User
	Products     []*Product
	Transactions []*Transaction
}

func (s *Snapshot) UserByUsername(username string) *User {
	for _, u := range s.Users {
		if u.Username == username {
			return u
		}
	}
	return nil
}

func (s *Snapshot) UserByID(id string) *User {
	for _, u := range s.Users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (s *Snapshot) Product(id string) *Product {
	for _, p := range s.Products {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// RemoveProduct drops the product with the given id and reports whether it existed.
func (s *Snapshot) RemoveProduct(id string) bool {
	for i, p := range s.Products {
		if p.ID == id {
			s.Products = append(s.Products[:i], s.Products[i+1:]...)
			return true
		}
	}
	return false
}

// TransactionsOf returns the user's transactions in creation order.
func (s *Snapshot) TransactionsOf(userID string) []*Transaction {
	var out []*Transaction
	for _, t := range s.Transactions {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out
}

func (s *Snapshot) UserIDs() []string {
	ids := make([]string, 0, len(s.Users))
	for _, u := range s.Users {
		ids = append(ids, u.ID)
	}
	return ids
}

func (s *Snapshot) ProductIDs() []string {
	ids := make([]string, 0, len(s.Products))
	for _, p := range s.Products {
		ids = append(ids, p.ID)
	}
	return ids
}

func (s *Snapshot) TransactionIDs() []string {
	ids := make([]string, 0, len(s.Transactions))
	for _, t := range s.Transactions {
		ids = append(ids, t.ID)
	}
	return ids
}

// VoucherIDs collects voucher ids across every user.
func (s *Snapshot) VoucherIDs() []string {
	var ids []string
	for _, u := range s.Users {
		for _, v := range u.Vouchers {
			ids = append(ids, v.ID)
		}
	}
	return ids
}
