package gormstore

import (
	"context"
	"time"

	"github.com/MarkoPoloResearchLab/streamhub/pkg/storefront"
	"github.com/shopspring/decimal"
)

func (store *Store) CreateOrder(ctx context.Context, order storefront.Order) (storefront.Order, error) {
	row := orderRow(order)
	if err := store.db.WithContext(ctx).Create(&row).Error; err != nil {
		return storefront.Order{}, wrapStoreError(errorSubjectOrder, errorCodeCreate, err)
	}
	return domainOrder(row), nil
}

func (store *Store) ListOrdersByUser(ctx context.Context, userID string) ([]storefront.Order, error) {
	var rows []Order
	err := store.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&rows).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectOrder, errorCodeList, err)
	}
	return domainOrders(rows), nil
}

func (store *Store) ListOrders(ctx context.Context) ([]storefront.Order, error) {
	var rows []Order
	err := store.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectOrder, errorCodeList, err)
	}
	return domainOrders(rows), nil
}

func (store *Store) ListOrdersSince(ctx context.Context, since time.Time) ([]storefront.Order, error) {
	var rows []Order
	err := store.db.WithContext(ctx).Where("created_at >= ?", since).Find(&rows).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectOrder, errorCodeList, err)
	}
	return domainOrders(rows), nil
}

func (store *Store) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	if err := store.db.WithContext(ctx).Model(&Order{}).Count(&count).Error; err != nil {
		return 0, wrapStoreError(errorSubjectOrder, errorCodeCount, err)
	}
	return count, nil
}

func (store *Store) SumOrderRevenue(ctx context.Context) (decimal.Decimal, error) {
	var sum struct {
		Total decimal.Decimal
	}
	err := store.db.WithContext(ctx).
		Model(&Order{}).
		Select("coalesce(sum(total_price),0) as total").
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, wrapStoreError(errorSubjectOrder, errorCodeSum, err)
	}
	return sum.Total, nil
}

func domainOrders(rows []Order) []storefront.Order {
	orders := make([]storefront.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, domainOrder(row))
	}
	return orders
}
