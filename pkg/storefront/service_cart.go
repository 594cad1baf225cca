package storefront

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// GetCart returns the user's cart with its items. Users without a cart row
// get an empty cart, never an error.
func (service *Service) GetCart(ctx context.Context, userID string) (Cart, error) {
	cart, err := service.store.CartByUser(ctx, userID)
	if errors.Is(err, ErrCartNotFound) {
		return Cart{UserID: userID, TotalAmount: decimal.Zero, Items: []CartItem{}}, nil
	}
	return cart, err
}

// AddToCart adds a line at the current catalog price, merging into an
// existing line with the same (account, sale type) pair. The captured
// price is the per-profile price for PROFILES lines when the account
// defines one, the account price otherwise.
func (service *Service) AddToCart(ctx context.Context, userID string, accountID string, quantity int, saleType SaleType) (Cart, error) {
	var cart Cart
	operationError := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		if quantity < 1 {
			return ErrInvalidQuantity
		}
		account, err := transactionStore.AccountByID(ctx, accountID)
		if err != nil {
			return err
		}
		priceAtTime := account.Price
		if saleType == SaleProfiles && account.PricePerProfile != nil {
			priceAtTime = *account.PricePerProfile
		}
		cart, err = transactionStore.CartByUser(ctx, userID)
		if errors.Is(err, ErrCartNotFound) {
			cart, err = transactionStore.CreateCart(ctx, userID)
		}
		if err != nil {
			return err
		}
		existing, err := transactionStore.FindCartItem(ctx, cart.ID, accountID, saleType)
		switch {
		case err == nil:
			if err := transactionStore.SetCartItemQuantity(ctx, existing.ID, existing.Quantity+quantity); err != nil {
				return err
			}
		case errors.Is(err, ErrCartItemNotFound):
			if _, err := transactionStore.CreateCartItem(ctx, CartItem{
				CartID:             cart.ID,
				StreamingAccountID: accountID,
				Quantity:           quantity,
				SaleType:           saleType,
				PriceAtTime:        priceAtTime,
			}); err != nil {
				return err
			}
		default:
			return err
		}
		if err := service.recomputeCartTotal(ctx, transactionStore, cart.ID); err != nil {
			return err
		}
		cart, err = transactionStore.CartByUser(ctx, userID)
		return err
	})
	service.logOperation(ctx, OperationLog{
		Operation: operationAddToCart,
		UserID:    userID,
		Subject:   accountID,
		Amount:    cart.TotalAmount,
		Error:     operationError,
	})
	return cart, operationError
}

// RemoveCartItem deletes one line from the user's cart and recomputes the total.
func (service *Service) RemoveCartItem(ctx context.Context, userID string, itemID string) (Cart, error) {
	var cart Cart
	operationError := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		var err error
		cart, err = transactionStore.CartByUser(ctx, userID)
		if err != nil {
			return err
		}
		item, err := transactionStore.CartItemByID(ctx, cart.ID, itemID)
		if err != nil {
			return err
		}
		if err := transactionStore.DeleteCartItem(ctx, item.ID); err != nil {
			return err
		}
		if err := service.recomputeCartTotal(ctx, transactionStore, cart.ID); err != nil {
			return err
		}
		cart, err = transactionStore.CartByUser(ctx, userID)
		return err
	})
	service.logOperation(ctx, OperationLog{
		Operation: operationRemoveCartItem,
		UserID:    userID,
		Subject:   itemID,
		Amount:    cart.TotalAmount,
		Error:     operationError,
	})
	return cart, operationError
}

// recomputeCartTotal rewrites the denormalized total from the current
// items. No incremental arithmetic is trusted.
func (service *Service) recomputeCartTotal(ctx context.Context, transactionStore Store, cartID string) error {
	total, err := transactionStore.SumCartItems(ctx, cartID)
	if err != nil {
		return err
	}
	return transactionStore.SetCartTotal(ctx, cartID, total)
}
