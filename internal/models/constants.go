package models

const (
	OrderStatusNew       = "NEW"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusPaid      = "PAID"
	OrderStatusCancelled = "CANCELLED"

	PaymentMethodCash     = "CASH"
	PaymentMethodTransfer = "TRANSFER"

	RoleCustomer = "customer"
	RoleKitchen  = "kitchen"
	RoleAdmin    = "admin"
)

// Store subtree paths. Every write is a whole-subtree replace at one of
// these paths; every read returns the full document keyed by them.
const (
	PathBranches        = "branches"
	PathCategories      = "categories"
	PathMenuItems       = "menuItems"
	PathToppings        = "toppings"
	PathToppingGroups   = "toppingGroups"
	PathOrders          = "orders"
	PathKitchenSettings = "kitchenSettings"
	PathLogoURL         = "logoUrl"
	PathThemeColor      = "themeColor"
	PathAdmins          = "admins"
)
