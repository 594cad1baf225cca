package storefront

import (
	"errors"
	"fmt"
)

// Domain-level error values returned by the storefront service.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailTaken           = errors.New("email already registered")
	ErrAccountNotFound      = errors.New("streaming account not found")
	ErrTypeNotFound         = errors.New("streaming type not found")
	ErrProfileNotFound      = errors.New("account profile not found")
	ErrCartNotFound         = errors.New("cart not found")
	ErrCartItemNotFound     = errors.New("cart item not found")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInsufficientCredits  = errors.New("insufficient credits")
	ErrInsufficientProfiles = errors.New("insufficient available profiles")
	ErrProfileSold          = errors.New("profile already sold")
	ErrTypeInUse            = errors.New("streaming type still referenced")
	ErrDuplicateTypeName    = errors.New("streaming type name already exists")
	ErrDuplicateProfileName = errors.New("profile name already exists for account")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrInvalidSaleType      = errors.New("invalid sale type")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidRole          = errors.New("invalid role")
	ErrInvalidOrderStatus   = errors.New("invalid order status")
	ErrInvalidUserInput     = errors.New("invalid user input")
	ErrInvalidServiceConfig = errors.New("invalid service config")
)

// ProfileShortfallError reports a PROFILES line that asked for more seats
// than the account currently has available.
type ProfileShortfallError struct {
	Requested int
	Available int
}

// Error returns the formatted error message.
func (shortfall ProfileShortfallError) Error() string {
	return fmt.Sprintf("%v: requested %d, available %d", ErrInsufficientProfiles, shortfall.Requested, shortfall.Available)
}

// Unwrap returns the sentinel shortfall error.
func (shortfall ProfileShortfallError) Unwrap() error {
	return ErrInsufficientProfiles
}

// TypeInUseError reports a streaming type delete refused because accounts
// still reference it.
type TypeInUseError struct {
	Accounts int64
}

// Error returns the formatted error message.
func (inUse TypeInUseError) Error() string {
	return fmt.Sprintf("%v: %d accounts", ErrTypeInUse, inUse.Accounts)
}

// Unwrap returns the sentinel in-use error.
func (inUse TypeInUseError) Unwrap() error {
	return ErrTypeInUse
}

// OperationError wraps a failure with a stable operation code.
type OperationError struct {
	operation string
	subject   string
	code      string
	err       error
}

// Error returns the formatted error message.
func (operationError OperationError) Error() string {
	return fmt.Sprintf("%s.%s.%s: %v", operationError.operation, operationError.subject, operationError.code, operationError.err)
}

// Unwrap returns the underlying error.
func (operationError OperationError) Unwrap() error {
	return operationError.err
}

// Operation returns the operation segment.
func (operationError OperationError) Operation() string {
	return operationError.operation
}

// Subject returns the subject segment.
func (operationError OperationError) Subject() string {
	return operationError.subject
}

// Code returns the stable error code segment.
func (operationError OperationError) Code() string {
	return operationError.code
}

// WrapError wraps an error with operation, subject, and code metadata.
func WrapError(operation string, subject string, code string, err error) error {
	if err == nil {
		return nil
	}
	return OperationError{
		operation: operation,
		subject:   subject,
		code:      code,
		err:       err,
	}
}
