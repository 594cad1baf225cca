package storefront

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Role defines the two access levels of the storefront.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// ParseRole validates and normalizes a role string.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, raw)
}

// String returns the role value.
func (role Role) String() string {
	return string(role)
}

// SaleType selects whether a cart line sells the whole login or one profile seat.
type SaleType string

const (
	SaleFull     SaleType = "FULL"
	SaleProfiles SaleType = "PROFILES"
)

// ParseSaleType validates and normalizes a sale type string.
func ParseSaleType(raw string) (SaleType, error) {
	switch SaleType(strings.ToUpper(strings.TrimSpace(raw))) {
	case SaleFull:
		return SaleFull, nil
	case SaleProfiles:
		return SaleProfiles, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSaleType, raw)
}

// String returns the sale type value.
func (saleType SaleType) String() string {
	return string(saleType)
}

// OrderStatus defines the order lifecycle.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusExpired   OrderStatus = "EXPIRED"
)

// ParseOrderStatus validates and normalizes an order status string.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	switch OrderStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case OrderStatusPending:
		return OrderStatusPending, nil
	case OrderStatusCompleted:
		return OrderStatusCompleted, nil
	case OrderStatusCancelled:
		return OrderStatusCancelled, nil
	case OrderStatusExpired:
		return OrderStatusExpired, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidOrderStatus, raw)
}

// String returns the order status value.
func (status OrderStatus) String() string {
	return string(status)
}

// RechargeStatus defines the credit recharge lifecycle. Admin recharges are
// applied synchronously, so only the completed state is ever written.
type RechargeStatus string

const RechargeStatusCompleted RechargeStatus = "COMPLETED"

// String returns the recharge status value.
func (status RechargeStatus) String() string {
	return string(status)
}

// User is a storefront identity with a credit balance.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string // empty for passwordless demo users
	Phone        string
	Avatar       string
	Role         Role
	Credits      decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserSummary is the admin listing view of a user.
type UserSummary struct {
	ID            string
	Name          string
	Email         string
	Credits       decimal.Decimal
	CreatedAt     time.Time
	OrderCount    int64
	RechargeCount int64
}

// StreamingType is a catalog category (Netflix, Disney+, ...).
type StreamingType struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Color       string
	Active      bool
	CreatedAt   time.Time
}

// StreamingAccount is a sellable product: a shared streaming login sold
// whole or seat by seat.
type StreamingAccount struct {
	ID              string
	Name            string
	Description     string
	Price           decimal.Decimal
	PricePerProfile *decimal.Decimal
	Type            string
	Duration        string
	Quality         string
	Screens         int
	Email           string
	Password        string
	Active          bool
	Image           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AccountProfile is one seat within a PROFILES-mode account. Once sold it
// becomes immutable.
type AccountProfile struct {
	ID                 string
	StreamingAccountID string
	ProfileName        string
	ProfilePin         string
	IsAvailable        bool
	SoldToUserID       *string
	SoldAt             *time.Time
	CreatedAt          time.Time
}

// Cart holds a user's pending purchase. TotalAmount is denormalized and
// recomputed from the items after every mutation.
type Cart struct {
	ID          string
	UserID      string
	TotalAmount decimal.Decimal
	Items       []CartItem
}

// CartItem is one cart line. PriceAtTime locks the catalog price observed
// when the line was added; checkout never re-reads the catalog.
type CartItem struct {
	ID                 string
	CartID             string
	StreamingAccountID string
	Quantity           int
	SaleType           SaleType
	PriceAtTime        decimal.Decimal
	CreatedAt          time.Time
}

// Order is the immutable receipt of one purchased unit.
type Order struct {
	ID                 string
	UserID             string
	StreamingAccountID string
	AccountEmail       string
	AccountPassword    string
	ProfileName        string
	SaleType           SaleType
	Quantity           int
	TotalPrice         decimal.Decimal
	Status             OrderStatus
	ExpiresAt          time.Time
	CreatedAt          time.Time
}

// CreditRecharge is an immutable admin top-up record.
type CreditRecharge struct {
	ID        string
	UserID    string
	Amount    decimal.Decimal
	Method    string
	Reference string
	Status    RechargeStatus
	Metadata  string
	CreatedAt time.Time
}

// MonthlyBucket is one month of sales figures on the admin dashboard.
type MonthlyBucket struct {
	Name   string
	Sales  decimal.Decimal
	Orders int64
}

// GrowthBucket is one month of signup figures on the admin dashboard.
type GrowthBucket struct {
	Name  string
	Users int64
}

// Stats aggregates the admin dashboard figures.
type Stats struct {
	TotalUsers     int64
	TotalOrders    int64
	TotalRevenue   decimal.Decimal
	ActiveAccounts int64
	MonthlySales   []MonthlyBucket
	UserGrowth     []GrowthBucket
}

// Store is the persistence contract used by Service.
// (gormstore implements this already.)
type Store interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, txStore Store) error) error

	CreateUser(ctx context.Context, user User) (User, error)
	UserByID(ctx context.Context, userID string) (User, error)
	UserByEmail(ctx context.Context, email string) (User, error)
	UserForUpdate(ctx context.Context, userID string) (User, error)
	UpdateUser(ctx context.Context, user User) (User, error)
	SetUserCredits(ctx context.Context, userID string, credits decimal.Decimal) error
	AddUserCredits(ctx context.Context, userID string, delta decimal.Decimal) error
	ListUserSummaries(ctx context.Context) ([]UserSummary, error)
	CountUsers(ctx context.Context) (int64, error)
	ListUsersCreatedSince(ctx context.Context, since time.Time) ([]User, error)

	CreateStreamingType(ctx context.Context, streamingType StreamingType) (StreamingType, error)
	UpdateStreamingType(ctx context.Context, streamingType StreamingType) (StreamingType, error)
	DeleteStreamingType(ctx context.Context, typeID string) error
	StreamingTypeByID(ctx context.Context, typeID string) (StreamingType, error)
	StreamingTypeByName(ctx context.Context, name string) (StreamingType, error)
	ListStreamingTypes(ctx context.Context) ([]StreamingType, error)
	CountAccountsByType(ctx context.Context, typeName string) (int64, error)

	CreateAccount(ctx context.Context, account StreamingAccount) (StreamingAccount, error)
	UpdateAccount(ctx context.Context, account StreamingAccount) (StreamingAccount, error)
	DeleteAccount(ctx context.Context, accountID string) error
	AccountByID(ctx context.Context, accountID string) (StreamingAccount, error)
	ListActiveAccounts(ctx context.Context) ([]StreamingAccount, error)
	ListAccounts(ctx context.Context) ([]StreamingAccount, error)
	CountActiveAccounts(ctx context.Context) (int64, error)

	CreateProfile(ctx context.Context, profile AccountProfile) (AccountProfile, error)
	UpdateProfile(ctx context.Context, profile AccountProfile) (AccountProfile, error)
	DeleteProfile(ctx context.Context, profileID string) error
	ProfileByID(ctx context.Context, profileID string) (AccountProfile, error)
	ProfileByAccountAndName(ctx context.Context, accountID string, profileName string) (AccountProfile, error)
	ListProfiles(ctx context.Context, accountID string) ([]AccountProfile, error)
	AvailableProfilesForUpdate(ctx context.Context, accountID string, limit int) ([]AccountProfile, error)
	MarkProfileSold(ctx context.Context, profileID string, buyerID string, soldAt time.Time) error

	CartByUser(ctx context.Context, userID string) (Cart, error)
	CreateCart(ctx context.Context, userID string) (Cart, error)
	CartItemByID(ctx context.Context, cartID string, itemID string) (CartItem, error)
	FindCartItem(ctx context.Context, cartID string, accountID string, saleType SaleType) (CartItem, error)
	CreateCartItem(ctx context.Context, item CartItem) (CartItem, error)
	SetCartItemQuantity(ctx context.Context, itemID string, quantity int) error
	DeleteCartItem(ctx context.Context, itemID string) error
	DeleteCartItems(ctx context.Context, cartID string) error
	SumCartItems(ctx context.Context, cartID string) (decimal.Decimal, error)
	SetCartTotal(ctx context.Context, cartID string, total decimal.Decimal) error

	CreateOrder(ctx context.Context, order Order) (Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]Order, error)
	ListOrders(ctx context.Context) ([]Order, error)
	ListOrdersSince(ctx context.Context, since time.Time) ([]Order, error)
	CountOrders(ctx context.Context) (int64, error)
	SumOrderRevenue(ctx context.Context) (decimal.Decimal, error)

	CreateRecharge(ctx context.Context, recharge CreditRecharge) (CreditRecharge, error)
}
