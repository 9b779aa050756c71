package cli

import "Topup-Lunite/internal/models"

const mainMenu = `1. Login
2. Register
3. Exit`

// Choices of the user menu. The text differs per role, the numbers do not.
const (
	choiceProducts     = "1"
	choiceTopUp        = "2"
	choiceBuy          = "3"
	choiceHistory      = "4"
	choiceSubscription = "5"
	choiceLogout       = "6"
)

func menuFor(role models.Role) string {
	if role == models.RoleVIP {
		return `--- VIP Menu ---
1. View products (VIP prices)
2. Top up balance
3. Buy Lunite
4. Transaction history
5. Extend subscription
6. Logout`
	}
	return `1. View products
2. Top up balance
3. Buy Lunite
4. Transaction history
5. Buy subscription (upgrade to VIP)
6. Logout`
}
