package gormstore

import (
	"context"
	"errors"

	"github.com/MarkoPoloResearchLab/streamhub/pkg/storefront"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func (store *Store) CartByUser(ctx context.Context, userID string) (storefront.Cart, error) {
	var row Cart
	err := store.db.WithContext(ctx).Where("user_id = ?", userID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storefront.Cart{}, wrapStoreError(errorSubjectCart, errorCodeGet, storefront.ErrCartNotFound)
	}
	if err != nil {
		return storefront.Cart{}, wrapStoreError(errorSubjectCart, errorCodeGet, err)
	}
	var itemRows []CartItem
	err = store.db.WithContext(ctx).Where("cart_id = ?", row.ID).Order("created_at ASC").Find(&itemRows).Error
	if err != nil {
		return storefront.Cart{}, wrapStoreError(errorSubjectCartItem, errorCodeList, err)
	}
	items := make([]storefront.CartItem, 0, len(itemRows))
	for _, itemRow := range itemRows {
		items = append(items, domainCartItem(itemRow))
	}
	return storefront.Cart{
		ID:          row.ID,
		UserID:      row.UserID,
		TotalAmount: row.TotalAmount,
		Items:       items,
	}, nil
}

func (store *Store) CreateCart(ctx context.Context, userID string) (storefront.Cart, error) {
	row := Cart{UserID: userID, TotalAmount: decimal.Zero}
	if err := store.db.WithContext(ctx).Create(&row).Error; err != nil {
		return storefront.Cart{}, wrapStoreError(errorSubjectCart, errorCodeCreate, err)
	}
	return storefront.Cart{ID: row.ID, UserID: row.UserID, TotalAmount: row.TotalAmount, Items: []storefront.CartItem{}}, nil
}

func (store *Store) CartItemByID(ctx context.Context, cartID string, itemID string) (storefront.CartItem, error) {
	var row CartItem
	err := store.db.WithContext(ctx).Where("id = ? AND cart_id = ?", itemID, cartID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storefront.CartItem{}, wrapStoreError(errorSubjectCartItem, errorCodeGet, storefront.ErrCartItemNotFound)
	}
	if err != nil {
		return storefront.CartItem{}, wrapStoreError(errorSubjectCartItem, errorCodeGet, err)
	}
	return domainCartItem(row), nil
}

func (store *Store) FindCartItem(ctx context.Context, cartID string, accountID string, saleType storefront.SaleType) (storefront.CartItem, error) {
	var row CartItem
	err := store.db.WithContext(ctx).
		Where("cart_id = ? AND streaming_account_id = ? AND sale_type = ?", cartID, accountID, saleType.String()).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storefront.CartItem{}, wrapStoreError(errorSubjectCartItem, errorCodeGet, storefront.ErrCartItemNotFound)
	}
	if err != nil {
		return storefront.CartItem{}, wrapStoreError(errorSubjectCartItem, errorCodeGet, err)
	}
	return domainCartItem(row), nil
}

func (store *Store) CreateCartItem(ctx context.Context, item storefront.CartItem) (storefront.CartItem, error) {
	row := CartItem{
		ID:                 item.ID,
		CartID:             item.CartID,
		StreamingAccountID: item.StreamingAccountID,
		Quantity:           item.Quantity,
		SaleType:           item.SaleType.String(),
		PriceAtTime:        item.PriceAtTime,
	}
	if err := store.db.WithContext(ctx).Create(&row).Error; err != nil {
		return storefront.CartItem{}, wrapStoreError(errorSubjectCartItem, errorCodeCreate, err)
	}
	return domainCartItem(row), nil
}

func (store *Store) SetCartItemQuantity(ctx context.Context, itemID string, quantity int) error {
	result := store.db.WithContext(ctx).Model(&CartItem{}).Where("id = ?", itemID).Update("quantity", quantity)
	if result.Error != nil {
		return wrapStoreError(errorSubjectCartItem, errorCodeUpdate, result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapStoreError(errorSubjectCartItem, errorCodeUpdate, storefront.ErrCartItemNotFound)
	}
	return nil
}

func (store *Store) DeleteCartItem(ctx context.Context, itemID string) error {
	result := store.db.WithContext(ctx).Where("id = ?", itemID).Delete(&CartItem{})
	if result.Error != nil {
		return wrapStoreError(errorSubjectCartItem, errorCodeDelete, result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapStoreError(errorSubjectCartItem, errorCodeDelete, storefront.ErrCartItemNotFound)
	}
	return nil
}

func (store *Store) DeleteCartItems(ctx context.Context, cartID string) error {
	err := store.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&CartItem{}).Error
	if err != nil {
		return wrapStoreError(errorSubjectCartItem, errorCodeDelete, err)
	}
	return nil
}

func (store *Store) SumCartItems(ctx context.Context, cartID string) (decimal.Decimal, error) {
	var sum struct {
		Total decimal.Decimal
	}
	err := store.db.WithContext(ctx).
		Model(&CartItem{}).
		Select("coalesce(sum(price_at_time * quantity),0) as total").
		Where("cart_id = ?", cartID).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, wrapStoreError(errorSubjectCartItem, errorCodeSum, err)
	}
	return sum.Total, nil
}

func (store *Store) SetCartTotal(ctx context.Context, cartID string, total decimal.Decimal) error {
	result := store.db.WithContext(ctx).Model(&Cart{}).Where("id = ?", cartID).Update("total_amount", total)
	if result.Error != nil {
		return wrapStoreError(errorSubjectCart, errorCodeUpdate, result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapStoreError(errorSubjectCart, errorCodeUpdate, storefront.ErrCartNotFound)
	}
	return nil
}
