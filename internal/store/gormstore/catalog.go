package gormstore

import (
	"context"
	"errors"
	"time"

	"github.com/MarkoPoloResearchLab/streamhub/pkg/storefront"
	"gorm.io/gorm"
)

func (store *Store) CreateStreamingType(ctx context.Context, streamingType storefront.StreamingType) (storefront.StreamingType, error) {
	row := typeRow(streamingType)
	err := store.db.WithContext(ctx).Create(&row).Error
	if isUniqueViolation(err) {
		return storefront.StreamingType{}, wrapStoreError(errorSubjectType, errorCodeDuplicate, storefront.ErrDuplicateTypeName)
	}
	if err != nil {
		return storefront.StreamingType{}, wrapStoreError(errorSubjectType, errorCodeCreate, err)
	}
	return domainType(row), nil
}

func (store *Store) UpdateStreamingType(ctx context.Context, streamingType storefront.StreamingType) (storefront.StreamingType, error) {
	row := typeRow(streamingType)
	err := store.db.WithContext(ctx).Save(&row).Error
	if isUniqueViolation(err) {
		return storefront.StreamingType{}, wrapStoreError(errorSubjectType, errorCodeDuplicate, storefront.ErrDuplicateTypeName)
	}
	if err != nil {
		return storefront.StreamingType{}, wrapStoreError(errorSubjectType, errorCodeUpdate, err)
	}
	return domainType(row), nil
}

func (store *Store) DeleteStreamingType(ctx context.Context, typeID string) error {
	result := store.db.WithContext(ctx).Where("id = ?", typeID).Delete(&StreamingType{})
	if result.Error != nil {
		return wrapStoreError(errorSubjectType, errorCodeDelete, result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapStoreError(errorSubjectType, errorCodeDelete, storefront.ErrTypeNotFound)
	}
	return nil
}

func (store *Store) StreamingTypeByID(ctx context.Context, typeID string) (storefront.StreamingType, error) {
	var row StreamingType
	err := store.db.WithContext(ctx).Where("id = ?", typeID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storefront.StreamingType{}, wrapStoreError(errorSubjectType, errorCodeGet, storefront.ErrTypeNotFound)
	}
	if err != nil {
		return storefront.StreamingType{}, wrapStoreError(errorSubjectType, errorCodeGet, err)
	}
	return domainType(row), nil
}

func (store *Store) StreamingTypeByName(ctx context.Context, name string) (storefront.StreamingType, error) {
	var row StreamingType
	err := store.db.WithContext(ctx).Where("name = ?", name).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storefront.StreamingType{}, wrapStoreError(errorSubjectType, errorCodeGet, storefront.ErrTypeNotFound)
	}
	if err != nil {
		return storefront.StreamingType{}, wrapStoreError(errorSubjectType, errorCodeGet, err)
	}
	return domainType(row), nil
}

func (store *Store) ListStreamingTypes(ctx context.Context) ([]storefront.StreamingType, error) {
	var rows []StreamingType
	err := store.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectType, errorCodeList, err)
	}
	types := make([]storefront.StreamingType, 0, len(rows))
	for _, row := range rows {
		types = append(types, domainType(row))
	}
	return types, nil
}

func (store *Store) CountAccountsByType(ctx context.Context, typeName string) (int64, error) {
	var count int64
	err := store.db.WithContext(ctx).Model(&StreamingAccount{}).Where("type = ?", typeName).Count(&count).Error
	if err != nil {
		return 0, wrapStoreError(errorSubjectAccount, errorCodeCount, err)
	}
	return count, nil
}

func (store *Store) CreateAccount(ctx context.Context, account storefront.StreamingAccount) (storefront.StreamingAccount, error) {
	row := accountRow(account)
	if err := store.db.WithContext(ctx).Create(&row).Error; err != nil {
		return storefront.StreamingAccount{}, wrapStoreError(errorSubjectAccount, errorCodeCreate, err)
	}
	return domainAccount(row), nil
}

func (store *Store) UpdateAccount(ctx context.Context, account storefront.StreamingAccount) (storefront.StreamingAccount, error) {
	row := accountRow(account)
	if err := store.db.WithContext(ctx).Save(&row).Error; err != nil {
		return storefront.StreamingAccount{}, wrapStoreError(errorSubjectAccount, errorCodeUpdate, err)
	}
	return domainAccount(row), nil
}

func (store *Store) DeleteAccount(ctx context.Context, accountID string) error {
	result := store.db.WithContext(ctx).Where("id = ?", accountID).Delete(&StreamingAccount{})
	if result.Error != nil {
		return wrapStoreError(errorSubjectAccount, errorCodeDelete, result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapStoreError(errorSubjectAccount, errorCodeDelete, storefront.ErrAccountNotFound)
	}
	return nil
}

func (store *Store) AccountByID(ctx context.Context, accountID string) (storefront.StreamingAccount, error) {
	var row StreamingAccount
	err := store.db.WithContext(ctx).Where("id = ?", accountID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storefront.StreamingAccount{}, wrapStoreError(errorSubjectAccount, errorCodeGet, storefront.ErrAccountNotFound)
	}
	if err != nil {
		return storefront.StreamingAccount{}, wrapStoreError(errorSubjectAccount, errorCodeGet, err)
	}
	return domainAccount(row), nil
}

func (store *Store) ListActiveAccounts(ctx context.Context) ([]storefront.StreamingAccount, error) {
	var rows []StreamingAccount
	err := store.db.WithContext(ctx).Where("active = ?", true).Order("created_at DESC").Find(&rows).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectAccount, errorCodeList, err)
	}
	accounts := make([]storefront.StreamingAccount, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, domainAccount(row))
	}
	return accounts, nil
}

func (store *Store) ListAccounts(ctx context.Context) ([]storefront.StreamingAccount, error) {
	var rows []StreamingAccount
	err := store.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectAccount, errorCodeList, err)
	}
	accounts := make([]storefront.StreamingAccount, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, domainAccount(row))
	}
	return accounts, nil
}

func (store *Store) CountActiveAccounts(ctx context.Context) (int64, error) {
	var count int64
	err := store.db.WithContext(ctx).Model(&StreamingAccount{}).Where("active = ?", true).Count(&count).Error
	if err != nil {
		return 0, wrapStoreError(errorSubjectAccount, errorCodeCount, err)
	}
	return count, nil
}

func (store *Store) CreateProfile(ctx context.Context, profile storefront.AccountProfile) (storefront.AccountProfile, error) {
	row := profileRow(profile)
	err := store.db.WithContext(ctx).Create(&row).Error
	if isUniqueViolation(err) {
		return storefront.AccountProfile{}, wrapStoreError(errorSubjectProfile, errorCodeDuplicate, storefront.ErrDuplicateProfileName)
	}
	if err != nil {
		return storefront.AccountProfile{}, wrapStoreError(errorSubjectProfile, errorCodeCreate, err)
	}
	return domainProfile(row), nil
}

func (store *Store) UpdateProfile(ctx context.Context, profile storefront.AccountProfile) (storefront.AccountProfile, error) {
	row := profileRow(profile)
	err := store.db.WithContext(ctx).Save(&row).Error
	if isUniqueViolation(err) {
		return storefront.AccountProfile{}, wrapStoreError(errorSubjectProfile, errorCodeDuplicate, storefront.ErrDuplicateProfileName)
	}
	if err != nil {
		return storefront.AccountProfile{}, wrapStoreError(errorSubjectProfile, errorCodeUpdate, err)
	}
	return domainProfile(row), nil
}

func (store *Store) DeleteProfile(ctx context.Context, profileID string) error {
	result := store.db.WithContext(ctx).Where("id = ?", profileID).Delete(&AccountProfile{})
	if result.Error != nil {
		return wrapStoreError(errorSubjectProfile, errorCodeDelete, result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapStoreError(errorSubjectProfile, errorCodeDelete, storefront.ErrProfileNotFound)
	}
	return nil
}

func (store *Store) ProfileByID(ctx context.Context, profileID string) (storefront.AccountProfile, error) {
	var row AccountProfile
	err := store.db.WithContext(ctx).Where("id = ?", profileID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storefront.AccountProfile{}, wrapStoreError(errorSubjectProfile, errorCodeGet, storefront.ErrProfileNotFound)
	}
	if err != nil {
		return storefront.AccountProfile{}, wrapStoreError(errorSubjectProfile, errorCodeGet, err)
	}
	return domainProfile(row), nil
}

func (store *Store) ProfileByAccountAndName(ctx context.Context, accountID string, profileName string) (storefront.AccountProfile, error) {
	var row AccountProfile
	err := store.db.WithContext(ctx).
		Where("streaming_account_id = ? AND profile_name = ?", accountID, profileName).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storefront.AccountProfile{}, wrapStoreError(errorSubjectProfile, errorCodeGet, storefront.ErrProfileNotFound)
	}
	if err != nil {
		return storefront.AccountProfile{}, wrapStoreError(errorSubjectProfile, errorCodeGet, err)
	}
	return domainProfile(row), nil
}

func (store *Store) ListProfiles(ctx context.Context, accountID string) ([]storefront.AccountProfile, error) {
	query := store.db.WithContext(ctx).Order("created_at DESC")
	if accountID != "" {
		query = query.Where("streaming_account_id = ?", accountID)
	}
	var rows []AccountProfile
	if err := query.Find(&rows).Error; err != nil {
		return nil, wrapStoreError(errorSubjectProfile, errorCodeList, err)
	}
	profiles := make([]storefront.AccountProfile, 0, len(rows))
	for _, row := range rows {
		profiles = append(profiles, domainProfile(row))
	}
	return profiles, nil
}

// AvailableProfilesForUpdate claims candidate rows oldest-first, locking
// them on postgres so two checkouts cannot select the same seat.
func (store *Store) AvailableProfilesForUpdate(ctx context.Context, accountID string, limit int) ([]storefront.AccountProfile, error) {
	var rows []AccountProfile
	err := store.forUpdate(store.db.WithContext(ctx)).
		Where("streaming_account_id = ? AND is_available = ?", accountID, true).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectProfile, errorCodeList, err)
	}
	profiles := make([]storefront.AccountProfile, 0, len(rows))
	for _, row := range rows {
		profiles = append(profiles, domainProfile(row))
	}
	return profiles, nil
}

func (store *Store) MarkProfileSold(ctx context.Context, profileID string, buyerID string, soldAt time.Time) error {
	result := store.db.WithContext(ctx).
		Model(&AccountProfile{}).
		Where("id = ? AND is_available = ?", profileID, true).
		Updates(map[string]any{
			"is_available":    false,
			"sold_to_user_id": buyerID,
			"sold_at":         soldAt,
		})
	if result.Error != nil {
		return wrapStoreError(errorSubjectProfile, errorCodeUpdate, result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapStoreError(errorSubjectProfile, errorCodeUpdate, storefront.ErrProfileSold)
	}
	return nil
}
