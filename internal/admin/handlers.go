package admin

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"Topup-Lunite/internal/db"
	"Topup-Lunite/internal/logger"
	"Topup-Lunite/internal/models"
	"Topup-Lunite/internal/services"
	"Topup-Lunite/internal/ui"
)

// Menu is the interactive admin console of a logged-in admin.
type Menu struct {
	shop      *services.Shop
	store     db.Store
	backupDir string
	p         *ui.Prompter
	admin     *models.User
}

func NewMenu(shop *services.Shop, store db.Store, backupDir string, p *ui.Prompter, admin *models.User) *Menu {
	return &Menu{shop: shop, store: store, backupDir: backupDir, p: p, admin: admin}
}

const menuText = `1. View products
2. Add product
3. Edit product
4. Delete product
5. View users
6. View transactions
7. Set user role
8. Grant pending VIP days
9. Run VIP expiry sweep
10. VIPs expiring soon
11. Backup now
12. Logout`

// Run shows the admin menu until logout, end of input or cancellation.
func (m *Menu) Run(ctx context.Context) error {
	for {
		m.p.Println(ui.Title("ADMIN MENU"))
		m.p.Println(menuText)
		c, err := m.p.Line(ctx, "Choose: ")
		if err != nil {
			return err
		}
		switch c {
		case "1":
			m.showProducts()
		case "2":
			err = m.handleAddProduct(ctx)
		case "3":
			err = m.handleEditProduct(ctx)
		case "4":
			err = m.handleDeleteProduct(ctx)
		case "5":
			m.p.Println(ui.Users(m.shop.Snapshot().Users))
		case "6":
			m.p.Println(ui.Transactions(m.shop.Snapshot().Transactions))
		case "7":
			err = m.handleSetRole(ctx)
		case "8":
			err = m.handleGrantDays(ctx)
		case "9":
			err = m.handleSweep(ctx)
		case "10":
			err = m.handleExpiring(ctx)
		case "11":
			m.handleBackup(ctx)
		case "12":
			return nil
		default:
			m.p.Println("Invalid choice")
		}
		if err != nil {
			return err
		}
	}
}

func (m *Menu) action(action, params string) {
	logger.LogAdminAction(m.admin.ID, action, params)
}

func (m *Menu) showProducts() {
	m.p.Println(ui.Products(m.shop.Snapshot().Products, m.shop.Engine.VIPPrice))
}

// report prints a failed operation and swallows it. Input and context errors are
// returned so the menu can stop.
func (m *Menu) report(err error) error {
	if err == nil || ui.Interrupted(err) {
		return err
	}
	m.p.Println(ui.Failure(ui.ErrorMessage(err)))
	return nil
}

func (m *Menu) handleAddProduct(ctx context.Context) error {
	name, err := m.p.Line(ctx, "Product name: ")
	if err != nil {
		return err
	}
	price, err := m.p.Int(ctx, "Price: ")
	if errors.Is(err, ui.ErrNotNumber) {
		m.p.Println(ui.Failure("Price and stock must be numbers"))
		return nil
	} else if err != nil {
		return err
	}
	stock, err := m.p.Int(ctx, "Stock: ")
	if errors.Is(err, ui.ErrNotNumber) {
		m.p.Println(ui.Failure("Price and stock must be numbers"))
		return nil
	} else if err != nil {
		return err
	}
	typ, err := m.p.Line(ctx, "Type (topup/subscription, empty = topup): ")
	if err != nil {
		return err
	}
	p, err := m.shop.AddProduct(ctx, services.ProductInput{
		Name:  name,
		Price: price,
		Stock: int(stock),
		Type:  models.ProductType(strings.ToLower(typ)),
	})
	if err != nil {
		return m.report(err)
	}
	m.action("add_product", p.ID)
	m.p.Println(ui.Success("Product added: " + p.ID))
	return nil
}

func (m *Menu) handleEditProduct(ctx context.Context) error {
	m.showProducts()
	id, err := m.p.Line(ctx, "Product ID: ")
	if err != nil {
		return err
	}
	p := m.shop.Snapshot().Product(id)
	if p == nil {
		m.p.Println(ui.Failure("Product not found"))
		return nil
	}
	var upd services.ProductUpdate
	name, err := m.p.Line(ctx, fmt.Sprintf("Name (%s): ", p.Name))
	if err != nil {
		return err
	}
	if name != "" {
		upd.Name = &name
	}
	price, err := m.p.Line(ctx, fmt.Sprintf("Price (%d): ", p.Price))
	if err != nil {
		return err
	}
	// unparseable numbers keep the current value
	if v, perr := strconv.ParseInt(price, 10, 64); perr == nil {
		upd.Price = &v
	}
	stock, err := m.p.Line(ctx, fmt.Sprintf("Stock (%d): ", p.Stock))
	if err != nil {
		return err
	}
	if v, perr := strconv.Atoi(stock); perr == nil {
		upd.Stock = &v
	}
	if _, err := m.shop.UpdateProduct(ctx, id, upd); err != nil {
		return m.report(err)
	}
	m.action("edit_product", id)
	m.p.Println(ui.Success("Product updated"))
	return nil
}

func (m *Menu) handleDeleteProduct(ctx context.Context) error {
	m.showProducts()
	id, err := m.p.Line(ctx, "Product ID: ")
	if err != nil {
		return err
	}
	if err := m.shop.DeleteProduct(ctx, id); err != nil {
		return m.report(err)
	}
	m.action("delete_product", id)
	m.p.Println(ui.Success("Product deleted"))
	return nil
}

func (m *Menu) handleSetRole(ctx context.Context) error {
	username, err := m.p.Line(ctx, "Username: ")
	if err != nil {
		return err
	}
	role, err := m.p.Line(ctx, "Role (member/vip/admin): ")
	if err != nil {
		return err
	}
	u, err := m.shop.SetRole(ctx, username, models.Role(strings.ToLower(role)))
	if err != nil {
		return m.report(err)
	}
	m.action("set_role", username+" "+string(u.Role))
	m.p.Println(ui.Success(fmt.Sprintf("%s is now %s", u.Username, u.Role)))
	return nil
}

func (m *Menu) handleGrantDays(ctx context.Context) error {
	username, err := m.p.Line(ctx, "Username: ")
	if err != nil {
		return err
	}
	days, err := m.p.Int(ctx, "Days: ")
	if errors.Is(err, ui.ErrNotNumber) {
		m.p.Println(ui.Failure("Days must be a number"))
		return nil
	} else if err != nil {
		return err
	}
	u, err := m.shop.GrantPendingDays(ctx, username, int(days))
	if err != nil {
		return m.report(err)
	}
	m.action("grant_days", fmt.Sprintf("%s %d", username, days))
	m.p.Println(ui.Success(fmt.Sprintf("%s has %d pending VIP days", u.Username, u.PendingSubscriptionDays)))
	return nil
}

func (m *Menu) handleSweep(ctx context.Context) error {
	changed, err := m.shop.SweepVIP(ctx)
	if err != nil {
		return m.report(err)
	}
	m.action("sweep_vip", strconv.Itoa(len(changed)))
	if len(changed) == 0 {
		m.p.Println("No VIP changes")
		return nil
	}
	m.p.Println(ui.Users(changed))
	return nil
}

func (m *Menu) handleExpiring(ctx context.Context) error {
	days, err := m.p.Int(ctx, "Within how many days: ")
	if errors.Is(err, ui.ErrNotNumber) {
		m.p.Println(ui.Failure("Days must be a number"))
		return nil
	} else if err != nil {
		return err
	}
	users := m.shop.ExpiringVIPs(int(days))
	if len(users) == 0 {
		m.p.Println("No VIP subscriptions expiring")
		return nil
	}
	m.p.Println(ui.Users(users))
	return nil
}

func (m *Menu) handleBackup(ctx context.Context) {
	path, err := Backup(ctx, m.store, m.backupDir)
	if err != nil {
		m.p.Println(ui.Failure("Backup failed: " + err.Error()))
		return
	}
	m.action("backup", path)
	m.p.Println(ui.Success("Backup created: " + path))
}
