package gormstore

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User mirrors the users table.
type User struct {
	ID        string          `gorm:"type:uuid;primaryKey"`
	Email     string          `gorm:"not null;uniqueIndex"`
	Name      string          `gorm:"not null"`
	Password  *string         `gorm:""`
	Phone     *string         `gorm:""`
	Avatar    *string         `gorm:""`
	Role      string          `gorm:"not null;default:USER"`
	Credits   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
}

func (User) TableName() string { return "users" }

func (user *User) BeforeCreate(tx *gorm.DB) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	return nil
}

// StreamingType mirrors the streaming_types table.
type StreamingType struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"not null;uniqueIndex"`
	Description *string   `gorm:""`
	Icon        *string   `gorm:""`
	Color       *string   `gorm:""`
	Active      bool      `gorm:"not null;default:true"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (StreamingType) TableName() string { return "streaming_types" }

func (streamingType *StreamingType) BeforeCreate(tx *gorm.DB) error {
	if streamingType.ID == "" {
		streamingType.ID = uuid.NewString()
	}
	return nil
}

// StreamingAccount mirrors the streaming_accounts table. Seed data uses
// human-readable IDs, so the primary key is plain text.
type StreamingAccount struct {
	ID              string           `gorm:"primaryKey"`
	Name            string           `gorm:"not null"`
	Description     string           `gorm:"not null"`
	Price           decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	PricePerProfile *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Type            string           `gorm:"not null;index"`
	Duration        string           `gorm:"not null"`
	Quality         string           `gorm:"not null"`
	Screens         int              `gorm:"not null"`
	Email           *string          `gorm:""`
	Password        *string          `gorm:""`
	Active          bool             `gorm:"not null;default:true"`
	Image           *string          `gorm:""`
	CreatedAt       time.Time        `gorm:"not null;index"`
	UpdatedAt       time.Time        `gorm:"not null"`
}

func (StreamingAccount) TableName() string { return "streaming_accounts" }

func (account *StreamingAccount) BeforeCreate(tx *gorm.DB) error {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	return nil
}

// AccountProfile mirrors the account_profiles table.
type AccountProfile struct {
	ID                 string     `gorm:"type:uuid;primaryKey"`
	StreamingAccountID string     `gorm:"not null;index:idx_profiles_account_name,unique,priority:1"`
	ProfileName        string     `gorm:"not null;index:idx_profiles_account_name,unique,priority:2"`
	ProfilePin         *string    `gorm:""`
	IsAvailable        bool       `gorm:"not null;default:true;index"`
	SoldToUserID       *string    `gorm:"index"`
	SoldAt             *time.Time `gorm:""`
	CreatedAt          time.Time  `gorm:"not null"`
}

func (AccountProfile) TableName() string { return "account_profiles" }

func (profile *AccountProfile) BeforeCreate(tx *gorm.DB) error {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	return nil
}

// Cart mirrors the carts table (one row per user).
type Cart struct {
	ID          string          `gorm:"type:uuid;primaryKey"`
	UserID      string          `gorm:"not null;uniqueIndex"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

func (Cart) TableName() string { return "carts" }

func (cart *Cart) BeforeCreate(tx *gorm.DB) error {
	if cart.ID == "" {
		cart.ID = uuid.NewString()
	}
	return nil
}

// CartItem mirrors the cart_items table.
type CartItem struct {
	ID                 string          `gorm:"type:uuid;primaryKey"`
	CartID             string          `gorm:"not null;index"`
	StreamingAccountID string          `gorm:"not null"`
	Quantity           int             `gorm:"not null"`
	SaleType           string          `gorm:"not null"`
	PriceAtTime        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt          time.Time       `gorm:"not null"`
}

func (CartItem) TableName() string { return "cart_items" }

func (item *CartItem) BeforeCreate(tx *gorm.DB) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	return nil
}

// Order mirrors the orders table.
type Order struct {
	ID                 string          `gorm:"type:uuid;primaryKey"`
	UserID             string          `gorm:"not null;index:idx_orders_user_created,priority:1"`
	StreamingAccountID string          `gorm:"not null"`
	AccountEmail       string          `gorm:"not null"`
	AccountPassword    string          `gorm:"not null"`
	ProfileName        *string         `gorm:""`
	SaleType           string          `gorm:"not null"`
	Quantity           int             `gorm:"not null"`
	TotalPrice         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status             string          `gorm:"not null"`
	ExpiresAt          time.Time       `gorm:"not null"`
	CreatedAt          time.Time       `gorm:"not null;index:idx_orders_user_created,priority:2"`
}

func (Order) TableName() string { return "orders" }

func (order *Order) BeforeCreate(tx *gorm.DB) error {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	return nil
}

// CreditRecharge mirrors the credit_recharges table.
type CreditRecharge struct {
	ID        string          `gorm:"type:uuid;primaryKey"`
	UserID    string          `gorm:"not null;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Method    string          `gorm:"not null"`
	Reference *string         `gorm:""`
	Status    string          `gorm:"not null"`
	Metadata  datatypes.JSON  `gorm:"not null"`
	CreatedAt time.Time       `gorm:"not null"`
}

func (CreditRecharge) TableName() string { return "credit_recharges" }

func (recharge *CreditRecharge) BeforeCreate(tx *gorm.DB) error {
	if recharge.ID == "" {
		recharge.ID = uuid.NewString()
	}
	return nil
}

// Models lists every table for AutoMigrate.
func Models() []any {
	return []any{
		&User{},
		&StreamingType{},
		&StreamingAccount{},
		&AccountProfile{},
		&Cart{},
		&CartItem{},
		&Order{},
		&CreditRecharge{},
	}
}
