package ui

import (
	"fmt"
	"strconv"

	"Topup-Lunite/internal/models"
	"Topup-Lunite/internal/services"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func Title(s string) string { return titleStyle.Render("===== " + s + " =====") }

func Failure(s string) string { return errorStyle.Render(s) }

func Success(s string) string { return okStyle.Render(s) }

func Money(v int64) string { return "Rp" + strconv.FormatInt(v, 10) }

// Table renders rows under headers with a rounded border.
func Table(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style { return cellStyle }).
		Headers(headers...).
		Rows(rows...)
	return t.Render()
}

func stamp(s *models.Stamp) string {
	if s == nil {
		return "-"
	}
	return s.String()
}

// Products lists the catalog with the regular and the VIP price of each item.
func Products(products []*models.Product, vipPrice func(*models.Product) int64) string {
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			p.ID, p.Name, Money(p.Price), Money(vipPrice(p)), string(p.Type), strconv.Itoa(p.Stock),
		})
	}
	return Table([]string{"ID", "Name", "Price", "Price (VIP)", "Type", "Stock"}, rows)
}

func Profile(u *models.User) string {
	s := fmt.Sprintf("ID: %s\nUsername: %s\nRole: %s\nBalance: %s\n", u.ID, u.Username, u.Role, Money(u.Balance))
	if u.VIPExpiry != nil {
		s += fmt.Sprintf("VIP expiry: %s\n", u.VIPExpiry)
	}
	if u.PendingSubscriptionDays > 0 {
		s += fmt.Sprintf("Pending subscription extension: %d days\n", u.PendingSubscriptionDays)
	}
	if len(u.Vouchers) == 0 {
		return s + "Vouchers: -\n"
	}
	s += "Vouchers:"
	for i, v := range u.Vouchers {
		if i > 0 {
			s += ","
		}
		s += fmt.Sprintf(" %s(%d%%)", v.ID, v.Percent)
		if v.Used {
			s += " used"
		}
	}
	return s + "\n"
}

// History lists one user's transactions.
func History(txs []*models.Transaction) string {
	rows := make([][]string, 0, len(txs))
	for _, t := range txs {
		rows = append(rows, []string{
			t.ID, t.ProductID, strconv.Itoa(t.Qty), Money(t.Total), string(t.Method), t.UIDGame, t.CreatedAt.String(),
		})
	}
	return Table([]string{"ID", "Product", "Qty", "Total", "Method", "UID", "Date"}, rows)
}

// Transactions lists every transaction with its owner.
func Transactions(txs []*models.Transaction) string {
	rows := make([][]string, 0, len(txs))
	for _, t := range txs {
		voucher := "-"
		if t.VoucherApplied != nil {
			voucher = *t.VoucherApplied
		}
		rows = append(rows, []string{
			t.ID, t.UserID, t.ProductID, strconv.Itoa(t.Qty), Money(t.Total), voucher, string(t.Method), t.UIDGame, t.CreatedAt.String(),
		})
	}
	return Table([]string{"ID", "User", "Product", "Qty", "Total", "Voucher", "Method", "UID", "Date"}, rows)
}

func Users(users []*models.User) string {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			u.ID, u.Username, string(u.Role), Money(u.Balance), strconv.Itoa(u.FailedAttempts),
			stamp(u.LockedUntil), stamp(u.VIPExpiry), strconv.Itoa(u.PendingSubscriptionDays),
		})
	}
	return Table([]string{"ID", "Username", "Role", "Balance", "Failed", "Locked", "VIP expiry", "Pending"}, rows)
}

// Summary shows the price breakdown before payment.
func Summary(p *models.Product, uid string, q services.Quote) string {
	s := fmt.Sprintf("--- Purchase summary ---\nProduct: %s\nTarget UID: %s\nUnit price: %s\nSubtotal: %s\n",
		p.Name, uid, Money(q.UnitPrice), Money(q.Subtotal))
	if q.Voucher != nil {
		s += fmt.Sprintf("Voucher %s -> %d%% (-%s)\n", q.Voucher.ID, q.Voucher.Percent, Money(q.Discount))
	}
	return s + fmt.Sprintf("Total: %s\n", Money(q.Total))
}

func Invoice(inv *services.Invoice) string {
	t := inv.Transaction
	s := "== Invoice ==\n" + Table(
		[]string{"Invoice", "User", "Product", "Qty", "Total", "Method", "UID", "Date"},
		[][]string{{t.ID, inv.Username, inv.ProductName, strconv.Itoa(t.Qty), Money(t.Total), string(t.Method), t.UIDGame, t.CreatedAt.String()}},
	) + "\n"
	if inv.Reference != "" {
		s += fmt.Sprintf("Payment reference: %s\n", inv.Reference)
	}
	if inv.IssuedVoucher != nil {
		s += fmt.Sprintf("You received voucher %s worth %d%% for your next purchase.\n", inv.IssuedVoucher.ID, inv.IssuedVoucher.Percent)
	}
	if inv.VIPExpiry != nil {
		s += fmt.Sprintf("VIP active until %s\n", inv.VIPExpiry)
	}
	return s
}
