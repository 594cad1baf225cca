package gormstore

import (
	"context"
	"errors"
	"time"

	"github.com/MarkoPoloResearchLab/streamhub/pkg/storefront"
	gosqlite "github.com/glebarez/go-sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	pgUniqueViolationCode = "23505"
	sqliteConstraintCode  = 19
	postgresDialectName   = "postgres"
	defaultMetadataJSON   = "{}"

	errorOperationStore  = "store"
	errorSubjectUser     = "user"
	errorSubjectType     = "streaming_type"
	errorSubjectAccount  = "streaming_account"
	errorSubjectProfile  = "account_profile"
	errorSubjectCart     = "cart"
	errorSubjectCartItem = "cart_item"
	errorSubjectOrder    = "order"
	errorSubjectRecharge = "credit_recharge"

	errorCodeCreate    = "create"
	errorCodeDelete    = "delete"
	errorCodeDuplicate = "duplicate"
	errorCodeGet       = "get"
	errorCodeList      = "list"
	errorCodeCount     = "count"
	errorCodeSum       = "sum"
	errorCodeUpdate    = "update"
)

// Store implements storefront.Store using GORM.
type Store struct {
	db *gorm.DB
}

// New returns a Store backed by gorm.DB.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// WithTx executes fn within a transaction.
func (store *Store) WithTx(ctx context.Context, fn func(ctx context.Context, txStore storefront.Store) error) error {
	return store.db.WithContext(ctx).Transaction(func(transaction *gorm.DB) error {
		return fn(ctx, &Store{db: transaction})
	})
}

// forUpdate appends a row lock on dialects that support it. SQLite has no
// FOR UPDATE; its writers serialize on the database file instead.
func (store *Store) forUpdate(db *gorm.DB) *gorm.DB {
	if store.db.Dialector.Name() == postgresDialectName {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

func (store *Store) CreateUser(ctx context.Context, user storefront.User) (storefront.User, error) {
	row := userRow(user)
	err := store.db.WithContext(ctx).Create(&row).Error
	if isUniqueViolation(err) {
		return storefront.User{}, wrapStoreError(errorSubjectUser, errorCodeDuplicate, storefront.ErrEmailTaken)
	}
	if err != nil {
		return storefront.User{}, wrapStoreError(errorSubjectUser, errorCodeCreate, err)
	}
	return domainUser(row), nil
}

func (store *Store) UserByID(ctx context.Context, userID string) (storefront.User, error) {
	var row User
	err := store.db.WithContext(ctx).Where("id = ?", userID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storefront.User{}, wrapStoreError(errorSubjectUser, errorCodeGet, storefront.ErrUserNotFound)
	}
	if err != nil {
		return storefront.User{}, wrapStoreError(errorSubjectUser, errorCodeGet, err)
	}
	return domainUser(row), nil
}

func (store *Store) UserByEmail(ctx context.Context, email string) (storefront.User, error) {
	var row User
	err := store.db.WithContext(ctx).Where("email = ?", email).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storefront.User{}, wrapStoreError(errorSubjectUser, errorCodeGet, storefront.ErrUserNotFound)
	}
	if err != nil {
		return storefront.User{}, wrapStoreError(errorSubjectUser, errorCodeGet, err)
	}
	return domainUser(row), nil
}

func (store *Store) UserForUpdate(ctx context.Context, userID string) (storefront.User, error) {
	var row User
	err := store.forUpdate(store.db.WithContext(ctx)).Where("id = ?", userID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storefront.User{}, wrapStoreError(errorSubjectUser, errorCodeGet, storefront.ErrUserNotFound)
	}
	if err != nil {
		return storefront.User{}, wrapStoreError(errorSubjectUser, errorCodeGet, err)
	}
	return domainUser(row), nil
}

func (store *Store) UpdateUser(ctx context.Context, user storefront.User) (storefront.User, error) {
	row := userRow(user)
	err := store.db.WithContext(ctx).Save(&row).Error
	if err != nil {
		return storefront.User{}, wrapStoreError(errorSubjectUser, errorCodeUpdate, err)
	}
	return domainUser(row), nil
}

func (store *Store) SetUserCredits(ctx context.Context, userID string, credits decimal.Decimal) error {
	result := store.db.WithContext(ctx).Model(&User{}).Where("id = ?", userID).Update("credits", credits)
	if result.Error != nil {
		return wrapStoreError(errorSubjectUser, errorCodeUpdate, result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapStoreError(errorSubjectUser, errorCodeUpdate, storefront.ErrUserNotFound)
	}
	return nil
}

func (store *Store) AddUserCredits(ctx context.Context, userID string, delta decimal.Decimal) error {
	result := store.db.WithContext(ctx).Model(&User{}).Where("id = ?", userID).
		Update("credits", gorm.Expr("credits + ?", delta))
	if result.Error != nil {
		return wrapStoreError(errorSubjectUser, errorCodeUpdate, result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapStoreError(errorSubjectUser, errorCodeUpdate, storefront.ErrUserNotFound)
	}
	return nil
}

func (store *Store) ListUserSummaries(ctx context.Context) ([]storefront.UserSummary, error) {
	var rows []struct {
		ID            string
		Name          string
		Email         string
		Credits       decimal.Decimal
		CreatedAt     time.Time
		OrderCount    int64
		RechargeCount int64
	}
	err := store.db.WithContext(ctx).
		Model(&User{}).
		Select(`users.id, users.name, users.email, users.credits, users.created_at,
			(select count(*) from orders where orders.user_id = users.id) as order_count,
			(select count(*) from credit_recharges where credit_recharges.user_id = users.id) as recharge_count`).
		Order("users.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectUser, errorCodeList, err)
	}
	summaries := make([]storefront.UserSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, storefront.UserSummary{
			ID:            row.ID,
			Name:          row.Name,
			Email:         row.Email,
			Credits:       row.Credits,
			CreatedAt:     row.CreatedAt,
			OrderCount:    row.OrderCount,
			RechargeCount: row.RechargeCount,
		})
	}
	return summaries, nil
}

func (store *Store) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := store.db.WithContext(ctx).Model(&User{}).Count(&count).Error; err != nil {
		return 0, wrapStoreError(errorSubjectUser, errorCodeCount, err)
	}
	return count, nil
}

func (store *Store) ListUsersCreatedSince(ctx context.Context, since time.Time) ([]storefront.User, error) {
	var rows []User
	err := store.db.WithContext(ctx).Where("created_at >= ?", since).Find(&rows).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectUser, errorCodeList, err)
	}
	users := make([]storefront.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, domainUser(row))
	}
	return users, nil
}

func (store *Store) CreateRecharge(ctx context.Context, recharge storefront.CreditRecharge) (storefront.CreditRecharge, error) {
	row := rechargeRow(recharge)
	if err := store.db.WithContext(ctx).Create(&row).Error; err != nil {
		return storefront.CreditRecharge{}, wrapStoreError(errorSubjectRecharge, errorCodeCreate, err)
	}
	return domainRecharge(row), nil
}

func wrapStoreError(subject string, code string, err error) error {
	return storefront.WrapError(errorOperationStore, subject, code, err)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolationCode
	}
	var sqliteErr *gosqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()&0xFF == sqliteConstraintCode
	}
	return false
}
