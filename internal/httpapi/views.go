package httpapi

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MarkoPoloResearchLab/streamhub/pkg/storefront"
)

// View structs shape the JSON the web client consumes. Money values are
// rendered as plain numbers, not decimal strings.

type userView struct {
	ID      string  `json:"id"`
	Email   string  `json:"email"`
	Name    string  `json:"name"`
	Phone   string  `json:"phone,omitempty"`
	Avatar  string  `json:"avatar,omitempty"`
	Role    string  `json:"role"`
	Credits float64 `json:"credits"`
}

func viewUser(user storefront.User) userView {
	return userView{
		ID:      user.ID,
		Email:   user.Email,
		Name:    user.Name,
		Phone:   user.Phone,
		Avatar:  user.Avatar,
		Role:    user.Role.String(),
		Credits: user.Credits.InexactFloat64(),
	}
}

type userSummaryView struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Credits       float64   `json:"credits"`
	CreatedAt     time.Time `json:"createdAt"`
	OrderCount    int64     `json:"orderCount"`
	RechargeCount int64     `json:"rechargeCount"`
}

func viewUserSummaries(summaries []storefront.UserSummary) []userSummaryView {
	views := make([]userSummaryView, 0, len(summaries))
	for _, summary := range summaries {
		views = append(views, userSummaryView{
			ID:            summary.ID,
			Name:          summary.Name,
			Email:         summary.Email,
			Credits:       summary.Credits.InexactFloat64(),
			CreatedAt:     summary.CreatedAt,
			OrderCount:    summary.OrderCount,
			RechargeCount: summary.RechargeCount,
		})
	}
	return views
}

type accountView struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Price           float64   `json:"price"`
	PricePerProfile *float64  `json:"pricePerProfile,omitempty"`
	Type            string    `json:"type"`
	Duration        string    `json:"duration"`
	Quality         string    `json:"quality"`
	Screens         int       `json:"screens"`
	Image           string    `json:"image,omitempty"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`

	// Credentials are only populated on admin responses.
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

func viewAccount(account storefront.StreamingAccount, includeCredentials bool) accountView {
	view := accountView{
		ID:          account.ID,
		Name:        account.Name,
		Description: account.Description,
		Price:       account.Price.InexactFloat64(),
		Type:        account.Type,
		Duration:    account.Duration,
		Quality:     account.Quality,
		Screens:     account.Screens,
		Image:       account.Image,
		IsActive:    account.Active,
		CreatedAt:   account.CreatedAt,
	}
	if account.PricePerProfile != nil {
		value := account.PricePerProfile.InexactFloat64()
		view.PricePerProfile = &value
	}
	if includeCredentials {
		view.Email = account.Email
		view.Password = account.Password
	}
	return view
}

func viewAccounts(accounts []storefront.StreamingAccount, includeCredentials bool) []accountView {
	views := make([]accountView, 0, len(accounts))
	for _, account := range accounts {
		views = append(views, viewAccount(account, includeCredentials))
	}
	return views
}

type typeView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	Color       string    `json:"color,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

func viewType(streamingType storefront.StreamingType) typeView {
	return typeView{
		ID:          streamingType.ID,
		Name:        streamingType.Name,
		Description: streamingType.Description,
		Icon:        streamingType.Icon,
		Color:       streamingType.Color,
		IsActive:    streamingType.Active,
		CreatedAt:   streamingType.CreatedAt,
	}
}

func viewTypes(streamingTypes []storefront.StreamingType) []typeView {
	views := make([]typeView, 0, len(streamingTypes))
	for _, streamingType := range streamingTypes {
		views = append(views, viewType(streamingType))
	}
	return views
}

type profileView struct {
	ID                 string     `json:"id"`
	StreamingAccountID string     `json:"streamingAccountId"`
	ProfileName        string     `json:"profileName"`
	ProfilePin         string     `json:"profilePin,omitempty"`
	IsAvailable        bool       `json:"isAvailable"`
	SoldToUserID       *string    `json:"soldToUserId,omitempty"`
	SoldAt             *time.Time `json:"soldAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
}

func viewProfile(profile storefront.AccountProfile) profileView {
	return profileView{
		ID:                 profile.ID,
		StreamingAccountID: profile.StreamingAccountID,
		ProfileName:        profile.ProfileName,
		ProfilePin:         profile.ProfilePin,
		IsAvailable:        profile.IsAvailable,
		SoldToUserID:       profile.SoldToUserID,
		SoldAt:             profile.SoldAt,
		CreatedAt:          profile.CreatedAt,
	}
}

func viewProfiles(profiles []storefront.AccountProfile) []profileView {
	views := make([]profileView, 0, len(profiles))
	for _, profile := range profiles {
		views = append(views, viewProfile(profile))
	}
	return views
}

type cartItemView struct {
	ID                 string  `json:"id"`
	StreamingAccountID string  `json:"streamingAccountId"`
	Quantity           int     `json:"quantity"`
	SaleType           string  `json:"saleType"`
	PriceAtTime        float64 `json:"priceAtTime"`
}

type cartView struct {
	ID          string         `json:"id,omitempty"`
	Items       []cartItemView `json:"items"`
	TotalAmount float64        `json:"totalAmount"`
}

func viewCart(cart storefront.Cart) cartView {
	items := make([]cartItemView, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, cartItemView{
			ID:                 item.ID,
			StreamingAccountID: item.StreamingAccountID,
			Quantity:           item.Quantity,
			SaleType:           item.SaleType.String(),
			PriceAtTime:        item.PriceAtTime.InexactFloat64(),
		})
	}
	return cartView{
		ID:          cart.ID,
		Items:       items,
		TotalAmount: cart.TotalAmount.InexactFloat64(),
	}
}

type orderView struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"userId"`
	StreamingAccountID string    `json:"streamingAccountId"`
	AccountEmail       string    `json:"accountEmail"`
	AccountPassword    string    `json:"accountPassword"`
	ProfileName        string    `json:"profileName,omitempty"`
	SaleType           string    `json:"saleType"`
	Quantity           int       `json:"quantity"`
	TotalPrice         float64   `json:"totalPrice"`
	Status             string    `json:"status"`
	ExpiresAt          time.Time `json:"expiresAt"`
	CreatedAt          time.Time `json:"createdAt"`
}

func viewOrder(order storefront.Order) orderView {
	return orderView{
		ID:                 order.ID,
		UserID:             order.UserID,
		StreamingAccountID: order.StreamingAccountID,
		AccountEmail:       order.AccountEmail,
		AccountPassword:    order.AccountPassword,
		ProfileName:        order.ProfileName,
		SaleType:           order.SaleType.String(),
		Quantity:           order.Quantity,
		TotalPrice:         order.TotalPrice.InexactFloat64(),
		Status:             order.Status.String(),
		ExpiresAt:          order.ExpiresAt,
		CreatedAt:          order.CreatedAt,
	}
}

func viewOrders(orders []storefront.Order) []orderView {
	views := make([]orderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, viewOrder(order))
	}
	return views
}

type rechargeView struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Amount    float64   `json:"amount"`
	Method    string    `json:"method"`
	Reference string    `json:"reference,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func viewRecharge(recharge storefront.CreditRecharge) rechargeView {
	return rechargeView{
		ID:        recharge.ID,
		UserID:    recharge.UserID,
		Amount:    recharge.Amount.InexactFloat64(),
		Method:    recharge.Method,
		Reference: recharge.Reference,
		Status:    recharge.Status.String(),
		CreatedAt: recharge.CreatedAt,
	}
}

type monthlyBucketView struct {
	Name   string  `json:"name"`
	Sales  float64 `json:"ventas"`
	Orders int64   `json:"ordenes"`
}

type growthBucketView struct {
	Name  string `json:"name"`
	Users int64  `json:"usuarios"`
}

type statsView struct {
	TotalUsers     int64               `json:"totalUsers"`
	TotalOrders    int64               `json:"totalOrders"`
	TotalRevenue   float64             `json:"totalRevenue"`
	ActiveAccounts int64               `json:"activeAccounts"`
	MonthlySales   []monthlyBucketView `json:"monthlySales"`
	UserGrowth     []growthBucketView  `json:"userGrowth"`
}

func viewStats(stats storefront.Stats) statsView {
	monthly := make([]monthlyBucketView, 0, len(stats.MonthlySales))
	for _, bucket := range stats.MonthlySales {
		monthly = append(monthly, monthlyBucketView{
			Name:   bucket.Name,
			Sales:  bucket.Sales.InexactFloat64(),
			Orders: bucket.Orders,
		})
	}
	growth := make([]growthBucketView, 0, len(stats.UserGrowth))
	for _, bucket := range stats.UserGrowth {
		growth = append(growth, growthBucketView{Name: bucket.Name, Users: bucket.Users})
	}
	return statsView{
		TotalUsers:     stats.TotalUsers,
		TotalOrders:    stats.TotalOrders,
		TotalRevenue:   stats.TotalRevenue.InexactFloat64(),
		ActiveAccounts: stats.ActiveAccounts,
		MonthlySales:   monthly,
		UserGrowth:     growth,
	}
}

func parseAmount(raw float64) decimal.Decimal {
	return decimal.NewFromFloat(raw)
}
