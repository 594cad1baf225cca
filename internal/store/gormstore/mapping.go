package gormstore

import (
	"strings"

	"github.com/MarkoPoloResearchLab/streamhub/pkg/storefront"
	"gorm.io/datatypes"
)

func userRow(user storefront.User) User {
	return User{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Password:  optional(user.PasswordHash),
		Phone:     optional(user.Phone),
		Avatar:    optional(user.Avatar),
		Role:      user.Role.String(),
		Credits:   user.Credits,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func domainUser(row User) storefront.User {
	return storefront.User{
		ID:           row.ID,
		Email:        row.Email,
		Name:         row.Name,
		PasswordHash: deref(row.Password),
		Phone:        deref(row.Phone),
		Avatar:       deref(row.Avatar),
		Role:         storefront.Role(row.Role),
		Credits:      row.Credits,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func typeRow(streamingType storefront.StreamingType) StreamingType {
	return StreamingType{
		ID:          streamingType.ID,
		Name:        streamingType.Name,
		Description: optional(streamingType.Description),
		Icon:        optional(streamingType.Icon),
		Color:       optional(streamingType.Color),
		Active:      streamingType.Active,
		CreatedAt:   streamingType.CreatedAt,
	}
}

func domainType(row StreamingType) storefront.StreamingType {
	return storefront.StreamingType{
		ID:          row.ID,
		Name:        row.Name,
		Description: deref(row.Description),
		Icon:        deref(row.Icon),
		Color:       deref(row.Color),
		Active:      row.Active,
		CreatedAt:   row.CreatedAt,
	}
}

func accountRow(account storefront.StreamingAccount) StreamingAccount {
	return StreamingAccount{
		ID:              account.ID,
		Name:            account.Name,
		Description:     account.Description,
		Price:           account.Price,
		PricePerProfile: account.PricePerProfile,
		Type:            account.Type,
		Duration:        account.Duration,
		Quality:         account.Quality,
		Screens:         account.Screens,
		Email:           optional(account.Email),
		Password:        optional(account.Password),
		Active:          account.Active,
		Image:           optional(account.Image),
		CreatedAt:       account.CreatedAt,
		UpdatedAt:       account.UpdatedAt,
	}
}

func domainAccount(row StreamingAccount) storefront.StreamingAccount {
	return storefront.StreamingAccount{
		ID:              row.ID,
		Name:            row.Name,
		Description:     row.Description,
		Price:           row.Price,
		PricePerProfile: row.PricePerProfile,
		Type:            row.Type,
		Duration:        row.Duration,
		Quality:         row.Quality,
		Screens:         row.Screens,
		Email:           deref(row.Email),
		Password:        deref(row.Password),
		Active:          row.Active,
		Image:           deref(row.Image),
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

func profileRow(profile storefront.AccountProfile) AccountProfile {
	return AccountProfile{
		ID:                 profile.ID,
		StreamingAccountID: profile.StreamingAccountID,
		ProfileName:        profile.ProfileName,
		ProfilePin:         optional(profile.ProfilePin),
		IsAvailable:        profile.IsAvailable,
		SoldToUserID:       profile.SoldToUserID,
		SoldAt:             profile.SoldAt,
		CreatedAt:          profile.CreatedAt,
	}
}

func domainProfile(row AccountProfile) storefront.AccountProfile {
	return storefront.AccountProfile{
		ID:                 row.ID,
		StreamingAccountID: row.StreamingAccountID,
		ProfileName:        row.ProfileName,
		ProfilePin:         deref(row.ProfilePin),
		IsAvailable:        row.IsAvailable,
		SoldToUserID:       row.SoldToUserID,
		SoldAt:             row.SoldAt,
		CreatedAt:          row.CreatedAt,
	}
}

func domainCartItem(row CartItem) storefront.CartItem {
	return storefront.CartItem{
		ID:                 row.ID,
		CartID:             row.CartID,
		StreamingAccountID: row.StreamingAccountID,
		Quantity:           row.Quantity,
		SaleType:           storefront.SaleType(row.SaleType),
		PriceAtTime:        row.PriceAtTime,
		CreatedAt:          row.CreatedAt,
	}
}

func orderRow(order storefront.Order) Order {
	return Order{
		ID:                 order.ID,
		UserID:             order.UserID,
		StreamingAccountID: order.StreamingAccountID,
		AccountEmail:       order.AccountEmail,
		AccountPassword:    order.AccountPassword,
		ProfileName:        optional(order.ProfileName),
		SaleType:           order.SaleType.String(),
		Quantity:           order.Quantity,
		TotalPrice:         order.TotalPrice,
		Status:             order.Status.String(),
		ExpiresAt:          order.ExpiresAt,
		CreatedAt:          order.CreatedAt,
	}
}

func domainOrder(row Order) storefront.Order {
	return storefront.Order{
		ID:                 row.ID,
		UserID:             row.UserID,
		StreamingAccountID: row.StreamingAccountID,
		AccountEmail:       row.AccountEmail,
		AccountPassword:    row.AccountPassword,
		ProfileName:        deref(row.ProfileName),
		SaleType:           storefront.SaleType(row.SaleType),
		Quantity:           row.Quantity,
		TotalPrice:         row.TotalPrice,
		Status:             storefront.OrderStatus(row.Status),
		ExpiresAt:          row.ExpiresAt,
		CreatedAt:          row.CreatedAt,
	}
}

func rechargeRow(recharge storefront.CreditRecharge) CreditRecharge {
	return CreditRecharge{
		ID:        recharge.ID,
		UserID:    recharge.UserID,
		Amount:    recharge.Amount,
		Method:    recharge.Method,
		Reference: optional(recharge.Reference),
		Status:    recharge.Status.String(),
		Metadata:  metadataJSON(recharge.Metadata),
		CreatedAt: recharge.CreatedAt,
	}
}

func domainRecharge(row CreditRecharge) storefront.CreditRecharge {
	return storefront.CreditRecharge{
		ID:        row.ID,
		UserID:    row.UserID,
		Amount:    row.Amount,
		Method:    row.Method,
		Reference: deref(row.Reference),
		Status:    storefront.RechargeStatus(row.Status),
		Metadata:  string(row.Metadata),
		CreatedAt: row.CreatedAt,
	}
}

func optional(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func metadataJSON(raw string) datatypes.JSON {
	if strings.TrimSpace(raw) == "" {
		return datatypes.JSON([]byte(defaultMetadataJSON))
	}
	return datatypes.JSON([]byte(raw))
}
