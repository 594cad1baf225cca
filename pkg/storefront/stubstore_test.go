package storefront

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var testClock = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

// stubStore is an in-memory Store. WithTx snapshots the state and restores
// it when the closure fails, so rollback semantics hold in tests.
type stubStore struct {
	users     map[string]User
	types     map[string]StreamingType
	accounts  map[string]StreamingAccount
	profiles  map[string]AccountProfile
	carts     map[string]Cart
	cartItems map[string]CartItem
	orders    []Order
	recharges []CreditRecharge
	sequence  int
}

func newStubStore(test *testing.T) *stubStore {
	test.Helper()
	return &stubStore{
		users:     map[string]User{},
		types:     map[string]StreamingType{},
		accounts:  map[string]StreamingAccount{},
		profiles:  map[string]AccountProfile{},
		carts:     map[string]Cart{},
		cartItems: map[string]CartItem{},
	}
}

func (store *stubStore) nextID(prefix string) string {
	store.sequence++
	return fmt.Sprintf("%s-%d", prefix, store.sequence)
}

func (store *stubStore) stamp() time.Time {
	return testClock.Add(time.Duration(store.sequence) * time.Second)
}

func (store *stubStore) snapshot() *stubStore {
	clone := &stubStore{
		users:     map[string]User{},
		types:     map[string]StreamingType{},
		accounts:  map[string]StreamingAccount{},
		profiles:  map[string]AccountProfile{},
		carts:     map[string]Cart{},
		cartItems: map[string]CartItem{},
		orders:    append([]Order(nil), store.orders...),
		recharges: append([]CreditRecharge(nil), store.recharges...),
		sequence:  store.sequence,
	}
	for key, value := range store.users {
		clone.users[key] = value
	}
	for key, value := range store.types {
		clone.types[key] = value
	}
	for key, value := range store.accounts {
		clone.accounts[key] = value
	}
	for key, value := range store.profiles {
		clone.profiles[key] = value
	}
	for key, value := range store.carts {
		clone.carts[key] = value
	}
	for key, value := range store.cartItems {
		clone.cartItems[key] = value
	}
	return clone
}

func (store *stubStore) restore(saved *stubStore) {
	store.users = saved.users
	store.types = saved.types
	store.accounts = saved.accounts
	store.profiles = saved.profiles
	store.carts = saved.carts
	store.cartItems = saved.cartItems
	store.orders = saved.orders
	store.recharges = saved.recharges
	store.sequence = saved.sequence
}

func (store *stubStore) WithTx(ctx context.Context, fn func(ctx context.Context, txStore Store) error) error {
	saved := store.snapshot()
	if err := fn(ctx, store); err != nil {
		store.restore(saved)
		return err
	}
	return nil
}

func (store *stubStore) CreateUser(_ context.Context, user User) (User, error) {
	for _, existing := range store.users {
		if existing.Email == user.Email {
			return User{}, ErrEmailTaken
		}
	}
	if user.ID == "" {
		user.ID = store.nextID("user")
	}
	user.CreatedAt = store.stamp()
	store.users[user.ID] = user
	return user, nil
}

func (store *stubStore) UserByID(_ context.Context, userID string) (User, error) {
	user, ok := store.users[userID]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (store *stubStore) UserByEmail(_ context.Context, email string) (User, error) {
	for _, user := range store.users {
		if user.Email == email {
			return user, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (store *stubStore) UserForUpdate(ctx context.Context, userID string) (User, error) {
	return store.UserByID(ctx, userID)
}

func (store *stubStore) UpdateUser(_ context.Context, user User) (User, error) {
	if _, ok := store.users[user.ID]; !ok {
		return User{}, ErrUserNotFound
	}
	store.users[user.ID] = user
	return user, nil
}

func (store *stubStore) SetUserCredits(_ context.Context, userID string, credits decimal.Decimal) error {
	user, ok := store.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.Credits = credits
	store.users[userID] = user
	return nil
}

func (store *stubStore) AddUserCredits(_ context.Context, userID string, delta decimal.Decimal) error {
	user, ok := store.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.Credits = user.Credits.Add(delta)
	store.users[userID] = user
	return nil
}

func (store *stubStore) ListUserSummaries(_ context.Context) ([]UserSummary, error) {
	summaries := make([]UserSummary, 0, len(store.users))
	for _, user := range store.users {
		summary := UserSummary{
			ID:        user.ID,
			Name:      user.Name,
			Email:     user.Email,
			Credits:   user.Credits,
			CreatedAt: user.CreatedAt,
		}
		for _, order := range store.orders {
			if order.UserID == user.ID {
				summary.OrderCount++
			}
		}
		for _, recharge := range store.recharges {
			if recharge.UserID == user.ID {
				summary.RechargeCount++
			}
		}
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(left, right int) bool { return summaries[left].ID < summaries[right].ID })
	return summaries, nil
}

func (store *stubStore) CountUsers(_ context.Context) (int64, error) {
	return int64(len(store.users)), nil
}

func (store *stubStore) ListUsersCreatedSince(_ context.Context, since time.Time) ([]User, error) {
	var users []User
	for _, user := range store.users {
		if !user.CreatedAt.Before(since) {
			users = append(users, user)
		}
	}
	return users, nil
}

func (store *stubStore) CreateStreamingType(_ context.Context, streamingType StreamingType) (StreamingType, error) {
	if streamingType.ID == "" {
		streamingType.ID = store.nextID("type")
	}
	streamingType.CreatedAt = store.stamp()
	store.types[streamingType.ID] = streamingType
	return streamingType, nil
}

func (store *stubStore) UpdateStreamingType(_ context.Context, streamingType StreamingType) (StreamingType, error) {
	if _, ok := store.types[streamingType.ID]; !ok {
		return StreamingType{}, ErrTypeNotFound
	}
	store.types[streamingType.ID] = streamingType
	return streamingType, nil
}

func (store *stubStore) DeleteStreamingType(_ context.Context, typeID string) error {
	if _, ok := store.types[typeID]; !ok {
		return ErrTypeNotFound
	}
	delete(store.types, typeID)
	return nil
}

func (store *stubStore) StreamingTypeByID(_ context.Context, typeID string) (StreamingType, error) {
	streamingType, ok := store.types[typeID]
	if !ok {
		return StreamingType{}, ErrTypeNotFound
	}
	return streamingType, nil
}

func (store *stubStore) StreamingTypeByName(_ context.Context, name string) (StreamingType, error) {
	for _, streamingType := range store.types {
		if strings.EqualFold(streamingType.Name, name) {
			return streamingType, nil
		}
	}
	return StreamingType{}, ErrTypeNotFound
}

func (store *stubStore) ListStreamingTypes(_ context.Context) ([]StreamingType, error) {
	streamingTypes := make([]StreamingType, 0, len(store.types))
	for _, streamingType := range store.types {
		streamingTypes = append(streamingTypes, streamingType)
	}
	sort.Slice(streamingTypes, func(left, right int) bool { return streamingTypes[left].ID < streamingTypes[right].ID })
	return streamingTypes, nil
}

func (store *stubStore) CountAccountsByType(_ context.Context, typeName string) (int64, error) {
	var count int64
	for _, account := range store.accounts {
		if account.Type == typeName {
			count++
		}
	}
	return count, nil
}

func (store *stubStore) CreateAccount(_ context.Context, account StreamingAccount) (StreamingAccount, error) {
	if account.ID == "" {
		account.ID = store.nextID("account")
	}
	account.CreatedAt = store.stamp()
	store.accounts[account.ID] = account
	return account, nil
}

func (store *stubStore) UpdateAccount(_ context.Context, account StreamingAccount) (StreamingAccount, error) {
	if _, ok := store.accounts[account.ID]; !ok {
		return StreamingAccount{}, ErrAccountNotFound
	}
	store.accounts[account.ID] = account
	return account, nil
}

func (store *stubStore) DeleteAccount(_ context.Context, accountID string) error {
	if _, ok := store.accounts[accountID]; !ok {
		return ErrAccountNotFound
	}
	delete(store.accounts, accountID)
	return nil
}

func (store *stubStore) AccountByID(_ context.Context, accountID string) (StreamingAccount, error) {
	account, ok := store.accounts[accountID]
	if !ok {
		return StreamingAccount{}, ErrAccountNotFound
	}
	return account, nil
}

func (store *stubStore) ListActiveAccounts(_ context.Context) ([]StreamingAccount, error) {
	var accounts []StreamingAccount
	for _, account := range store.accounts {
		if account.Active {
			accounts = append(accounts, account)
		}
	}
	sort.Slice(accounts, func(left, right int) bool { return accounts[left].ID < accounts[right].ID })
	return accounts, nil
}

func (store *stubStore) ListAccounts(_ context.Context) ([]StreamingAccount, error) {
	accounts := make([]StreamingAccount, 0, len(store.accounts))
	for _, account := range store.accounts {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(left, right int) bool { return accounts[left].ID < accounts[right].ID })
	return accounts, nil
}

func (store *stubStore) CountActiveAccounts(_ context.Context) (int64, error) {
	var count int64
	for _, account := range store.accounts {
		if account.Active {
			count++
		}
	}
	return count, nil
}

func (store *stubStore) CreateProfile(_ context.Context, profile AccountProfile) (AccountProfile, error) {
	if profile.ID == "" {
		profile.ID = store.nextID("profile")
	}
	profile.CreatedAt = store.stamp()
	store.profiles[profile.ID] = profile
	return profile, nil
}

func (store *stubStore) UpdateProfile(_ context.Context, profile AccountProfile) (AccountProfile, error) {
	if _, ok := store.profiles[profile.ID]; !ok {
		return AccountProfile{}, ErrProfileNotFound
	}
	store.profiles[profile.ID] = profile
	return profile, nil
}

func (store *stubStore) DeleteProfile(_ context.Context, profileID string) error {
	if _, ok := store.profiles[profileID]; !ok {
		return ErrProfileNotFound
	}
	delete(store.profiles, profileID)
	return nil
}

func (store *stubStore) ProfileByID(_ context.Context, profileID string) (AccountProfile, error) {
	profile, ok := store.profiles[profileID]
	if !ok {
		return AccountProfile{}, ErrProfileNotFound
	}
	return profile, nil
}

func (store *stubStore) ProfileByAccountAndName(_ context.Context, accountID string, profileName string) (AccountProfile, error) {
	for _, profile := range store.profiles {
		if profile.StreamingAccountID == accountID && profile.ProfileName == profileName {
			return profile, nil
		}
	}
	return AccountProfile{}, ErrProfileNotFound
}

func (store *stubStore) ListProfiles(_ context.Context, accountID string) ([]AccountProfile, error) {
	var profiles []AccountProfile
	for _, profile := range store.profiles {
		if accountID == "" || profile.StreamingAccountID == accountID {
			profiles = append(profiles, profile)
		}
	}
	sort.Slice(profiles, func(left, right int) bool {
		return profiles[left].CreatedAt.Before(profiles[right].CreatedAt)
	})
	return profiles, nil
}

func (store *stubStore) AvailableProfilesForUpdate(_ context.Context, accountID string, limit int) ([]AccountProfile, error) {
	var available []AccountProfile
	for _, profile := range store.profiles {
		if profile.StreamingAccountID == accountID && profile.IsAvailable {
			available = append(available, profile)
		}
	}
	sort.Slice(available, func(left, right int) bool {
		return available[left].CreatedAt.Before(available[right].CreatedAt)
	})
	if len(available) > limit {
		available = available[:limit]
	}
	return available, nil
}

func (store *stubStore) MarkProfileSold(_ context.Context, profileID string, buyerID string, soldAt time.Time) error {
	profile, ok := store.profiles[profileID]
	if !ok {
		return ErrProfileNotFound
	}
	if !profile.IsAvailable {
		return ErrProfileSold
	}
	profile.IsAvailable = false
	profile.SoldToUserID = &buyerID
	profile.SoldAt = &soldAt
	store.profiles[profileID] = profile
	return nil
}

func (store *stubStore) CartByUser(_ context.Context, userID string) (Cart, error) {
	for _, cart := range store.carts {
		if cart.UserID == userID {
			var items []CartItem
			for _, item := range store.cartItems {
				if item.CartID == cart.ID {
					items = append(items, item)
				}
			}
			sort.Slice(items, func(left, right int) bool {
				return items[left].CreatedAt.Before(items[right].CreatedAt)
			})
			cart.Items = items
			return cart, nil
		}
	}
	return Cart{}, ErrCartNotFound
}

func (store *stubStore) CreateCart(_ context.Context, userID string) (Cart, error) {
	cart := Cart{ID: store.nextID("cart"), UserID: userID, TotalAmount: decimal.Zero, Items: []CartItem{}}
	store.carts[cart.ID] = cart
	return cart, nil
}

func (store *stubStore) CartItemByID(_ context.Context, cartID string, itemID string) (CartItem, error) {
	item, ok := store.cartItems[itemID]
	if !ok || item.CartID != cartID {
		return CartItem{}, ErrCartItemNotFound
	}
	return item, nil
}

func (store *stubStore) FindCartItem(_ context.Context, cartID string, accountID string, saleType SaleType) (CartItem, error) {
	for _, item := range store.cartItems {
		if item.CartID == cartID && item.StreamingAccountID == accountID && item.SaleType == saleType {
			return item, nil
		}
	}
	return CartItem{}, ErrCartItemNotFound
}

func (store *stubStore) CreateCartItem(_ context.Context, item CartItem) (CartItem, error) {
	if item.ID == "" {
		item.ID = store.nextID("item")
	}
	item.CreatedAt = store.stamp()
	store.cartItems[item.ID] = item
	return item, nil
}

func (store *stubStore) SetCartItemQuantity(_ context.Context, itemID string, quantity int) error {
	item, ok := store.cartItems[itemID]
	if !ok {
		return ErrCartItemNotFound
	}
	item.Quantity = quantity
	store.cartItems[itemID] = item
	return nil
}

func (store *stubStore) DeleteCartItem(_ context.Context, itemID string) error {
	if _, ok := store.cartItems[itemID]; !ok {
		return ErrCartItemNotFound
	}
	delete(store.cartItems, itemID)
	return nil
}

func (store *stubStore) DeleteCartItems(_ context.Context, cartID string) error {
	for itemID, item := range store.cartItems {
		if item.CartID == cartID {
			delete(store.cartItems, itemID)
		}
	}
	return nil
}

func (store *stubStore) SumCartItems(_ context.Context, cartID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, item := range store.cartItems {
		if item.CartID == cartID {
			total = total.Add(item.PriceAtTime.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
	}
	return total, nil
}

func (store *stubStore) SetCartTotal(_ context.Context, cartID string, total decimal.Decimal) error {
	cart, ok := store.carts[cartID]
	if !ok {
		return ErrCartNotFound
	}
	cart.TotalAmount = total
	store.carts[cartID] = cart
	return nil
}

func (store *stubStore) CreateOrder(_ context.Context, order Order) (Order, error) {
	if order.ID == "" {
		order.ID = store.nextID("order")
	}
	order.CreatedAt = store.stamp()
	store.orders = append(store.orders, order)
	return order, nil
}

func (store *stubStore) ListOrdersByUser(_ context.Context, userID string) ([]Order, error) {
	var orders []Order
	for _, order := range store.orders {
		if order.UserID == userID {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func (store *stubStore) ListOrders(_ context.Context) ([]Order, error) {
	return append([]Order(nil), store.orders...), nil
}

func (store *stubStore) ListOrdersSince(_ context.Context, since time.Time) ([]Order, error) {
	var orders []Order
	for _, order := range store.orders {
		if !order.CreatedAt.Before(since) {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func (store *stubStore) CountOrders(_ context.Context) (int64, error) {
	return int64(len(store.orders)), nil
}

func (store *stubStore) SumOrderRevenue(_ context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, order := range store.orders {
		total = total.Add(order.TotalPrice)
	}
	return total, nil
}

func (store *stubStore) CreateRecharge(_ context.Context, recharge CreditRecharge) (CreditRecharge, error) {
	if recharge.ID == "" {
		recharge.ID = store.nextID("recharge")
	}
	recharge.CreatedAt = store.stamp()
	store.recharges = append(store.recharges, recharge)
	return recharge, nil
}

func mustNewService(test *testing.T, store Store) *Service {
	test.Helper()
	service, err := NewService(store, func() time.Time { return testClock })
	if err != nil {
		test.Fatalf("new service: %v", err)
	}
	return service
}

func mustUser(test *testing.T, store *stubStore, email string, credits string) User {
	test.Helper()
	user, err := store.CreateUser(context.Background(), User{
		Email:   email,
		Name:    "Test User",
		Role:    RoleUser,
		Credits: mustDecimal(test, credits),
	})
	if err != nil {
		test.Fatalf("create user: %v", err)
	}
	return user
}

func mustAccount(test *testing.T, store *stubStore, name string, price string) StreamingAccount {
	test.Helper()
	account, err := store.CreateAccount(context.Background(), StreamingAccount{
		Name:   name,
		Type:   "Netflix",
		Price:  mustDecimal(test, price),
		Email:  "shared@example.com",
		Active: true,
	})
	if err != nil {
		test.Fatalf("create account: %v", err)
	}
	return account
}

func mustProfile(test *testing.T, store *stubStore, accountID string, name string) AccountProfile {
	test.Helper()
	profile, err := store.CreateProfile(context.Background(), AccountProfile{
		StreamingAccountID: accountID,
		ProfileName:        name,
		IsAvailable:        true,
	})
	if err != nil {
		test.Fatalf("create profile: %v", err)
	}
	return profile
}

func mustDecimal(test *testing.T, raw string) decimal.Decimal {
	test.Helper()
	value, err := decimal.NewFromString(raw)
	if err != nil {
		test.Fatalf("parse decimal %q: %v", raw, err)
	}
	return value
}
