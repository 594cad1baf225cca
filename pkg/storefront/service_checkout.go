package storefront

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Checkout converts the user's cart into orders, allocating inventory and
// debiting credits. The whole body runs inside one transaction: the buyer
// row and every claimed profile row are read with row locks, and any
// failure rolls back every line already processed.
//
// FULL lines issue the account's shared login once per unit and never
// decrement inventory; the login is shared by design. PROFILES lines claim
// the oldest available profiles and mark them sold. Prices come from the
// locked PriceAtTime only.
func (service *Service) Checkout(ctx context.Context, userID string) ([]Order, error) {
	var orders []Order
	operationError := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		cart, err := transactionStore.CartByUser(ctx, userID)
		if errors.Is(err, ErrCartNotFound) {
			return ErrEmptyCart
		}
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return ErrEmptyCart
		}
		buyer, err := transactionStore.UserForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if buyer.Credits.LessThan(cart.TotalAmount) {
			return ErrInsufficientCredits
		}

		now := service.nowFn()
		expiresAt := now.Add(orderValidity)
		for _, item := range cart.Items {
			account, err := transactionStore.AccountByID(ctx, item.StreamingAccountID)
			if err != nil {
				return err
			}
			accountEmail := account.Email
			if accountEmail == "" {
				accountEmail = placeholderAccountEmail
			}
			accountPassword := account.Password
			if accountPassword == "" {
				accountPassword = placeholderAccountPassword
			}

			if item.SaleType == SaleFull {
				for unit := 0; unit < item.Quantity; unit++ {
					order, err := transactionStore.CreateOrder(ctx, Order{
						UserID:             userID,
						StreamingAccountID: account.ID,
						AccountEmail:       accountEmail,
						AccountPassword:    accountPassword,
						SaleType:           SaleFull,
						Quantity:           1,
						TotalPrice:         item.PriceAtTime,
						Status:             OrderStatusPending,
						ExpiresAt:          expiresAt,
					})
					if err != nil {
						return err
					}
					orders = append(orders, order)
				}
				continue
			}

			profiles, err := transactionStore.AvailableProfilesForUpdate(ctx, account.ID, item.Quantity)
			if err != nil {
				return err
			}
			if len(profiles) < item.Quantity {
				return ProfileShortfallError{Requested: item.Quantity, Available: len(profiles)}
			}
			for _, profile := range profiles {
				order, err := transactionStore.CreateOrder(ctx, Order{
					UserID:             userID,
					StreamingAccountID: account.ID,
					AccountEmail:       accountEmail,
					AccountPassword:    accountPassword,
					ProfileName:        profile.ProfileName,
					SaleType:           SaleProfiles,
					Quantity:           1,
					TotalPrice:         item.PriceAtTime,
					Status:             OrderStatusPending,
					ExpiresAt:          expiresAt,
				})
				if err != nil {
					return err
				}
				if err := transactionStore.MarkProfileSold(ctx, profile.ID, userID, now); err != nil {
					return err
				}
				orders = append(orders, order)
			}
		}

		if err := transactionStore.SetUserCredits(ctx, userID, buyer.Credits.Sub(cart.TotalAmount)); err != nil {
			return err
		}
		if err := transactionStore.DeleteCartItems(ctx, cart.ID); err != nil {
			return err
		}
		return transactionStore.SetCartTotal(ctx, cart.ID, decimal.Zero)
	})
	if operationError != nil {
		orders = nil
	}
	service.logOperation(ctx, OperationLog{
		Operation: operationCheckout,
		UserID:    userID,
		Error:     operationError,
	})
	return orders, operationError
}
