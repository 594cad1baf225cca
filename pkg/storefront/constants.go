package storefront

import "time"

const (
	operationAddToCart      = "cart_add"
	operationRemoveCartItem = "cart_remove"
	operationCheckout       = "checkout"
	operationRecharge       = "recharge"
	operationRegister       = "register"

	operationStatusOK    = "ok"
	operationStatusError = "error"

	// Orders issued at checkout stay redeemable for 30 days.
	orderValidity = 30 * 24 * time.Hour

	// Placeholders issued when an account has no shared login yet.
	placeholderAccountEmail    = "pending@admin.com"
	placeholderAccountPassword = "pending"

	defaultRechargeMethod = "Administración"

	statsMonths = 6
)

var statsMonthNames = []string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"}
