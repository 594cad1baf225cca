package storefront

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RechargeCredits records an immutable top-up and increments the user's
// balance. There is no idempotency key: replaying the request credits twice.
func (service *Service) RechargeCredits(ctx context.Context, userID string, amount decimal.Decimal, method string, reference string, metadata string) (CreditRecharge, User, error) {
	var (
		recharge CreditRecharge
		user     User
	)
	operationError := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		if !amount.IsPositive() {
			return fmt.Errorf("%w: recharge amount must be positive", ErrInvalidAmount)
		}
		if _, err := transactionStore.UserForUpdate(ctx, userID); err != nil {
			return err
		}
		if strings.TrimSpace(method) == "" {
			method = defaultRechargeMethod
		}
		var err error
		recharge, err = transactionStore.CreateRecharge(ctx, CreditRecharge{
			UserID:    userID,
			Amount:    amount,
			Method:    method,
			Reference: reference,
			Status:    RechargeStatusCompleted,
			Metadata:  metadata,
		})
		if err != nil {
			return err
		}
		if err := transactionStore.AddUserCredits(ctx, userID, amount); err != nil {
			return err
		}
		user, err = transactionStore.UserByID(ctx, userID)
		return err
	})
	service.logOperation(ctx, OperationLog{
		Operation: operationRecharge,
		UserID:    userID,
		Amount:    amount,
		Error:     operationError,
	})
	return recharge, user, operationError
}

// ListUsers returns the admin user listing with order and recharge counts.
func (service *Service) ListUsers(ctx context.Context) ([]UserSummary, error) {
	return service.store.ListUserSummaries(ctx)
}

// ListAllAccounts returns every catalog account, active or not.
func (service *Service) ListAllAccounts(ctx context.Context) ([]StreamingAccount, error) {
	return service.store.ListAccounts(ctx)
}

// CreateAccount adds a catalog product.
func (service *Service) CreateAccount(ctx context.Context, account StreamingAccount) (StreamingAccount, error) {
	if strings.TrimSpace(account.Name) == "" || strings.TrimSpace(account.Type) == "" {
		return StreamingAccount{}, fmt.Errorf("%w: name and type are required", ErrInvalidUserInput)
	}
	if !account.Price.IsPositive() {
		return StreamingAccount{}, fmt.Errorf("%w: price must be positive", ErrInvalidAmount)
	}
	return service.store.CreateAccount(ctx, account)
}

// UpdateAccount rewrites a catalog product.
func (service *Service) UpdateAccount(ctx context.Context, account StreamingAccount) (StreamingAccount, error) {
	var updated StreamingAccount
	err := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		if _, err := transactionStore.AccountByID(ctx, account.ID); err != nil {
			return err
		}
		if !account.Price.IsPositive() {
			return fmt.Errorf("%w: price must be positive", ErrInvalidAmount)
		}
		var err error
		updated, err = transactionStore.UpdateAccount(ctx, account)
		return err
	})
	return updated, err
}

// DeleteAccount removes a catalog product.
func (service *Service) DeleteAccount(ctx context.Context, accountID string) error {
	return service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		if _, err := transactionStore.AccountByID(ctx, accountID); err != nil {
			return err
		}
		return transactionStore.DeleteAccount(ctx, accountID)
	})
}

// ListStreamingTypes returns every streaming type.
func (service *Service) ListStreamingTypes(ctx context.Context) ([]StreamingType, error) {
	return service.store.ListStreamingTypes(ctx)
}

// CreateStreamingType adds a catalog category, refusing duplicate names.
func (service *Service) CreateStreamingType(ctx context.Context, streamingType StreamingType) (StreamingType, error) {
	var created StreamingType
	err := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		streamingType.Name = strings.TrimSpace(streamingType.Name)
		if streamingType.Name == "" {
			return fmt.Errorf("%w: type name is required", ErrInvalidUserInput)
		}
		if err := ensureTypeNameFree(ctx, transactionStore, streamingType.Name, ""); err != nil {
			return err
		}
		var err error
		created, err = transactionStore.CreateStreamingType(ctx, streamingType)
		return err
	})
	return created, err
}

// UpdateStreamingType rewrites a category, refusing names held by another type.
func (service *Service) UpdateStreamingType(ctx context.Context, streamingType StreamingType) (StreamingType, error) {
	var updated StreamingType
	err := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		streamingType.Name = strings.TrimSpace(streamingType.Name)
		if streamingType.Name == "" {
			return fmt.Errorf("%w: type name is required", ErrInvalidUserInput)
		}
		if _, err := transactionStore.StreamingTypeByID(ctx, streamingType.ID); err != nil {
			return err
		}
		if err := ensureTypeNameFree(ctx, transactionStore, streamingType.Name, streamingType.ID); err != nil {
			return err
		}
		var err error
		updated, err = transactionStore.UpdateStreamingType(ctx, streamingType)
		return err
	})
	return updated, err
}

// DeleteStreamingType removes a category unless accounts still reference it.
// The guard lives in application code, not in a database constraint.
func (service *Service) DeleteStreamingType(ctx context.Context, typeID string) error {
	return service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		streamingType, err := transactionStore.StreamingTypeByID(ctx, typeID)
		if err != nil {
			return err
		}
		referencing, err := transactionStore.CountAccountsByType(ctx, streamingType.Name)
		if err != nil {
			return err
		}
		if referencing > 0 {
			return TypeInUseError{Accounts: referencing}
		}
		return transactionStore.DeleteStreamingType(ctx, typeID)
	})
}

// ListProfiles returns profiles, optionally filtered to one account.
func (service *Service) ListProfiles(ctx context.Context, accountID string) ([]AccountProfile, error) {
	return service.store.ListProfiles(ctx, accountID)
}

// CreateProfile adds a seat to an account, refusing duplicate names within it.
func (service *Service) CreateProfile(ctx context.Context, profile AccountProfile) (AccountProfile, error) {
	var created AccountProfile
	err := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		profile.ProfileName = strings.TrimSpace(profile.ProfileName)
		if profile.StreamingAccountID == "" || profile.ProfileName == "" {
			return fmt.Errorf("%w: account and profile name are required", ErrInvalidUserInput)
		}
		if _, err := transactionStore.AccountByID(ctx, profile.StreamingAccountID); err != nil {
			return err
		}
		_, err := transactionStore.ProfileByAccountAndName(ctx, profile.StreamingAccountID, profile.ProfileName)
		if err == nil {
			return ErrDuplicateProfileName
		}
		if !errors.Is(err, ErrProfileNotFound) {
			return err
		}
		profile.IsAvailable = true
		created, err = transactionStore.CreateProfile(ctx, profile)
		return err
	})
	return created, err
}

// UpdateProfile rewrites a seat's name, pin, and availability. Sold seats
// are immutable: the rejection is idempotent and unconditional.
func (service *Service) UpdateProfile(ctx context.Context, profileID string, profileName string, profilePin string, isAvailable bool) (AccountProfile, error) {
	var updated AccountProfile
	err := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		existing, err := transactionStore.ProfileByID(ctx, profileID)
		if err != nil {
			return err
		}
		if !existing.IsAvailable {
			return ErrProfileSold
		}
		if trimmed := strings.TrimSpace(profileName); trimmed != "" {
			existing.ProfileName = trimmed
		}
		existing.ProfilePin = profilePin
		existing.IsAvailable = isAvailable
		updated, err = transactionStore.UpdateProfile(ctx, existing)
		return err
	})
	return updated, err
}

// DeleteProfile removes an unsold seat. Sold seats cannot be deleted.
func (service *Service) DeleteProfile(ctx context.Context, profileID string) error {
	return service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		existing, err := transactionStore.ProfileByID(ctx, profileID)
		if err != nil {
			return err
		}
		if !existing.IsAvailable {
			return ErrProfileSold
		}
		return transactionStore.DeleteProfile(ctx, profileID)
	})
}

// AllOrders returns the full order book, newest first.
func (service *Service) AllOrders(ctx context.Context) ([]Order, error) {
	return service.store.ListOrders(ctx)
}

// DashboardStats aggregates the admin dashboard: grand totals plus sales
// and signup buckets for the trailing months.
func (service *Service) DashboardStats(ctx context.Context) (Stats, error) {
	totalUsers, err := service.store.CountUsers(ctx)
	if err != nil {
		return Stats{}, err
	}
	totalOrders, err := service.store.CountOrders(ctx)
	if err != nil {
		return Stats{}, err
	}
	totalRevenue, err := service.store.SumOrderRevenue(ctx)
	if err != nil {
		return Stats{}, err
	}
	activeAccounts, err := service.store.CountActiveAccounts(ctx)
	if err != nil {
		return Stats{}, err
	}

	now := service.nowFn()
	since := monthStart(now).AddDate(0, -(statsMonths - 1), 0)
	orders, err := service.store.ListOrdersSince(ctx, since)
	if err != nil {
		return Stats{}, err
	}
	users, err := service.store.ListUsersCreatedSince(ctx, since)
	if err != nil {
		return Stats{}, err
	}

	monthly := make([]MonthlyBucket, 0, statsMonths)
	growth := make([]GrowthBucket, 0, statsMonths)
	for offset := statsMonths - 1; offset >= 0; offset-- {
		bucketStart := monthStart(now).AddDate(0, -offset, 0)
		bucketEnd := bucketStart.AddDate(0, 1, 0)
		sales := decimal.Zero
		var orderCount int64
		for _, order := range orders {
			if !order.CreatedAt.Before(bucketStart) && order.CreatedAt.Before(bucketEnd) {
				sales = sales.Add(order.TotalPrice)
				orderCount++
			}
		}
		var userCount int64
		for _, user := range users {
			if !user.CreatedAt.Before(bucketStart) && user.CreatedAt.Before(bucketEnd) {
				userCount++
			}
		}
		label := statsMonthNames[int(bucketStart.Month())-1]
		monthly = append(monthly, MonthlyBucket{Name: label, Sales: sales, Orders: orderCount})
		growth = append(growth, GrowthBucket{Name: label, Users: userCount})
	}

	return Stats{
		TotalUsers:     totalUsers,
		TotalOrders:    totalOrders,
		TotalRevenue:   totalRevenue,
		ActiveAccounts: activeAccounts,
		MonthlySales:   monthly,
		UserGrowth:     growth,
	}, nil
}

func ensureTypeNameFree(ctx context.Context, transactionStore Store, name string, excludeID string) error {
	existing, err := transactionStore.StreamingTypeByName(ctx, name)
	if err == nil {
		if existing.ID != excludeID {
			return ErrDuplicateTypeName
		}
		return nil
	}
	if errors.Is(err, ErrTypeNotFound) {
		return nil
	}
	return err
}

func monthStart(at time.Time) time.Time {
	return time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, at.Location())
}
