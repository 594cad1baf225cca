package storefront

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Service contains the domain logic over a Store.
type Service struct {
	store  Store
	nowFn  func() time.Time
	logger OperationLogger
}

// NewService wires a Service.
func NewService(store Store, now func() time.Time, options ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store dependency is nil", ErrInvalidServiceConfig)
	}
	if now == nil {
		return nil, fmt.Errorf("%w: clock dependency is nil", ErrInvalidServiceConfig)
	}
	service := &Service{store: store, nowFn: now}
	for _, option := range options {
		if option != nil {
			option(service)
		}
	}
	return service, nil
}

// RegisterUser creates a USER-role identity with a zero credit balance.
// The password is already hashed by the caller.
func (service *Service) RegisterUser(ctx context.Context, email string, name string, passwordHash string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	var created User
	operationError := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		if email == "" || name == "" {
			return fmt.Errorf("%w: email and name are required", ErrInvalidUserInput)
		}
		_, err := transactionStore.UserByEmail(ctx, email)
		if err == nil {
			return ErrEmailTaken
		}
		if !errors.Is(err, ErrUserNotFound) {
			return err
		}
		created, err = transactionStore.CreateUser(ctx, User{
			Email:        email,
			Name:         name,
			PasswordHash: passwordHash,
			Role:         RoleUser,
			Credits:      decimal.Zero,
		})
		return err
	})
	service.logOperation(ctx, OperationLog{
		Operation: operationRegister,
		UserID:    created.ID,
		Subject:   email,
		Error:     operationError,
	})
	return created, operationError
}

// UserByID returns one user.
func (service *Service) UserByID(ctx context.Context, userID string) (User, error) {
	return service.store.UserByID(ctx, userID)
}

// UserByEmail returns one user by normalized email.
func (service *Service) UserByEmail(ctx context.Context, email string) (User, error) {
	return service.store.UserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// UpdateUserProfile updates the caller's mutable profile fields. Empty
// arguments leave the stored value untouched.
func (service *Service) UpdateUserProfile(ctx context.Context, userID string, name string, phone string, avatar string) (User, error) {
	var updated User
	err := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		user, err := transactionStore.UserByID(ctx, userID)
		if err != nil {
			return err
		}
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			user.Name = trimmed
		}
		if trimmed := strings.TrimSpace(phone); trimmed != "" {
			user.Phone = trimmed
		}
		if trimmed := strings.TrimSpace(avatar); trimmed != "" {
			user.Avatar = trimmed
		}
		updated, err = transactionStore.UpdateUser(ctx, user)
		return err
	})
	return updated, err
}

// Catalog returns the active storefront catalog, newest first.
func (service *Service) Catalog(ctx context.Context) ([]StreamingAccount, error) {
	return service.store.ListActiveAccounts(ctx)
}

// UserOrders returns the caller's orders, newest first.
func (service *Service) UserOrders(ctx context.Context, userID string) ([]Order, error) {
	return service.store.ListOrdersByUser(ctx, userID)
}

func (service *Service) logOperation(ctx context.Context, entry OperationLog) {
	if service.logger == nil {
		return
	}
	if entry.Status == "" {
		if entry.Error != nil {
			entry.Status = operationStatusError
		} else {
			entry.Status = operationStatusOK
		}
	}
	service.logger.LogOperation(ctx, entry)
}
