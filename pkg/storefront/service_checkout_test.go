package storefront

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCheckoutDebitsExactLockedTotal(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	service := mustNewService(test, store)
	user := mustUser(test, store, "exact@example.com", "10.00")
	account := mustAccount(test, store, "Netflix Premium", "9.99")

	if _, err := service.AddToCart(context.Background(), user.ID, account.ID, 1, SaleFull); err != nil {
		test.Fatalf("add to cart: %v", err)
	}
	orders, err := service.Checkout(context.Background(), user.ID)
	if err != nil {
		test.Fatalf("checkout: %v", err)
	}
	if len(orders) != 1 {
		test.Fatalf("expected 1 order, got %d", len(orders))
	}

	buyer, err := store.UserByID(context.Background(), user.ID)
	if err != nil {
		test.Fatalf("reload buyer: %v", err)
	}
	if !buyer.Credits.Equal(mustDecimal(test, "0.01")) {
		test.Fatalf("expected balance 0.01, got %s", buyer.Credits)
	}

	order := orders[0]
	if order.Status != OrderStatusPending {
		test.Fatalf("expected PENDING order, got %s", order.Status)
	}
	if !order.ExpiresAt.Equal(testClock.Add(30 * 24 * time.Hour)) {
		test.Fatalf("expected expiry 30 days out, got %s", order.ExpiresAt)
	}
	if !order.TotalPrice.Equal(mustDecimal(test, "9.99")) {
		test.Fatalf("expected order price 9.99, got %s", order.TotalPrice)
	}
}

func TestCheckoutInsufficientCreditsLeavesEverythingIntact(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	service := mustNewService(test, store)
	user := mustUser(test, store, "broke@example.com", "5.00")
	account := mustAccount(test, store, "Netflix Premium", "9.99")

	if _, err := service.AddToCart(context.Background(), user.ID, account.ID, 1, SaleFull); err != nil {
		test.Fatalf("add to cart: %v", err)
	}
	orders, err := service.Checkout(context.Background(), user.ID)
	if !errors.Is(err, ErrInsufficientCredits) {
		test.Fatalf("expected ErrInsufficientCredits, got %v", err)
	}
	if orders != nil {
		test.Fatalf("expected no orders, got %d", len(orders))
	}

	buyer, err := store.UserByID(context.Background(), user.ID)
	if err != nil {
		test.Fatalf("reload buyer: %v", err)
	}
	if !buyer.Credits.Equal(mustDecimal(test, "5.00")) {
		test.Fatalf("expected untouched balance 5.00, got %s", buyer.Credits)
	}
	cart, err := service.GetCart(context.Background(), user.ID)
	if err != nil {
		test.Fatalf("get cart: %v", err)
	}
	if len(cart.Items) != 1 {
		test.Fatalf("expected cart preserved, got %d items", len(cart.Items))
	}
}

func TestCheckoutEmptyCart(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	service := mustNewService(test, store)
	user := mustUser(test, store, "nocart@example.com", "50")

	if _, err := service.Checkout(context.Background(), user.ID); !errors.Is(err, ErrEmptyCart) {
		test.Fatalf("expected ErrEmptyCart without a cart row, got %v", err)
	}

	account := mustAccount(test, store, "Netflix Premium", "5.99")
	cart, err := service.AddToCart(context.Background(), user.ID, account.ID, 1, SaleFull)
	if err != nil {
		test.Fatalf("add to cart: %v", err)
	}
	if _, err := service.RemoveCartItem(context.Background(), user.ID, cart.Items[0].ID); err != nil {
		test.Fatalf("empty the cart: %v", err)
	}
	if _, err := service.Checkout(context.Background(), user.ID); !errors.Is(err, ErrEmptyCart) {
		test.Fatalf("expected ErrEmptyCart with zero items, got %v", err)
	}
}

func TestCheckoutFullIssuesOneOrderPerUnit(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	service := mustNewService(test, store)
	user := mustUser(test, store, "multi@example.com", "100")
	account := mustAccount(test, store, "Netflix Premium", "5.99")

	if _, err := service.AddToCart(context.Background(), user.ID, account.ID, 3, SaleFull); err != nil {
		test.Fatalf("add to cart: %v", err)
	}
	orders, err := service.Checkout(context.Background(), user.ID)
	if err != nil {
		test.Fatalf("checkout: %v", err)
	}
	if len(orders) != 3 {
		test.Fatalf("expected 3 orders for quantity 3, got %d", len(orders))
	}
	for _, order := range orders {
		if order.Quantity != 1 {
			test.Fatalf("expected per-unit quantity 1, got %d", order.Quantity)
		}
		if order.AccountEmail != "shared@example.com" {
			test.Fatalf("expected shared credentials on every order, got %q", order.AccountEmail)
		}
	}
}

func TestCheckoutFullNeverDecrementsInventory(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	service := mustNewService(test, store)
	first := mustUser(test, store, "first@example.com", "50")
	second := mustUser(test, store, "second@example.com", "50")
	account := mustAccount(test, store, "Netflix Premium", "5.99")
	mustProfile(test, store, account.ID, "Usuario 1")

	for _, buyer := range []User{first, second} {
		if _, err := service.AddToCart(context.Background(), buyer.ID, account.ID, 1, SaleFull); err != nil {
			test.Fatalf("add to cart: %v", err)
		}
		if _, err := service.Checkout(context.Background(), buyer.ID); err != nil {
			test.Fatalf("checkout: %v", err)
		}
	}

	profiles, err := store.ListProfiles(context.Background(), account.ID)
	if err != nil {
		test.Fatalf("list profiles: %v", err)
	}
	if !profiles[0].IsAvailable {
		test.Fatal("FULL sales must not consume profile inventory")
	}
}

func TestCheckoutProfilesClaimsOldestSeatsFirst(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	service := mustNewService(test, store)
	user := mustUser(test, store, "seats@example.com", "100")
	account := mustAccount(test, store, "Netflix Premium", "5.99")
	oldest := mustProfile(test, store, account.ID, "Usuario 1")
	mustProfile(test, store, account.ID, "Usuario 2")

	if _, err := service.AddToCart(context.Background(), user.ID, account.ID, 1, SaleProfiles); err != nil {
		test.Fatalf("add to cart: %v", err)
	}
	orders, err := service.Checkout(context.Background(), user.ID)
	if err != nil {
		test.Fatalf("checkout: %v", err)
	}
	if len(orders) != 1 {
		test.Fatalf("expected 1 order, got %d", len(orders))
	}
	if orders[0].ProfileName != "Usuario 1" {
		test.Fatalf("expected oldest profile claimed first, got %q", orders[0].ProfileName)
	}

	claimed, err := store.ProfileByID(context.Background(), oldest.ID)
	if err != nil {
		test.Fatalf("reload profile: %v", err)
	}
	if claimed.IsAvailable {
		test.Fatal("claimed profile still marked available")
	}
	if claimed.SoldToUserID == nil || *claimed.SoldToUserID != user.ID {
		test.Fatal("claimed profile not attributed to the buyer")
	}
	if claimed.SoldAt == nil || !claimed.SoldAt.Equal(testClock) {
		test.Fatal("claimed profile missing sale timestamp")
	}
}

func TestCheckoutProfileShortfallRollsBackEverything(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	service := mustNewService(test, store)
	user := mustUser(test, store, "shortfall@example.com", "100")
	account := mustAccount(test, store, "Netflix Premium", "5.99")
	mustProfile(test, store, account.ID, "Usuario 1")
	mustProfile(test, store, account.ID, "Usuario 2")

	if _, err := service.AddToCart(context.Background(), user.ID, account.ID, 3, SaleProfiles); err != nil {
		test.Fatalf("add to cart: %v", err)
	}
	orders, err := service.Checkout(context.Background(), user.ID)
	if !errors.Is(err, ErrInsufficientProfiles) {
		test.Fatalf("expected ErrInsufficientProfiles, got %v", err)
	}
	var shortfall ProfileShortfallError
	if !errors.As(err, &shortfall) {
		test.Fatalf("expected ProfileShortfallError, got %T", err)
	}
	if shortfall.Available != 2 || shortfall.Requested != 3 {
		test.Fatalf("expected shortfall 3/2, got %d/%d", shortfall.Requested, shortfall.Available)
	}
	if orders != nil {
		test.Fatalf("expected no orders on shortfall, got %d", len(orders))
	}

	profiles, err := store.ListProfiles(context.Background(), account.ID)
	if err != nil {
		test.Fatalf("list profiles: %v", err)
	}
	for _, profile := range profiles {
		if !profile.IsAvailable {
			test.Fatalf("profile %s sold despite rollback", profile.ProfileName)
		}
	}
	buyer, err := store.UserByID(context.Background(), user.ID)
	if err != nil {
		test.Fatalf("reload buyer: %v", err)
	}
	if !buyer.Credits.Equal(mustDecimal(test, "100")) {
		test.Fatalf("expected untouched balance, got %s", buyer.Credits)
	}
}

func TestCheckoutMixedCartRollsBackFullLinesOnSeatShortfall(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	service := mustNewService(test, store)
	user := mustUser(test, store, "mixed@example.com", "100")
	netflix := mustAccount(test, store, "Netflix Premium", "5.99")
	disney := mustAccount(test, store, "Disney+ Premium", "4.99")

	if _, err := service.AddToCart(context.Background(), user.ID, netflix.ID, 1, SaleFull); err != nil {
		test.Fatalf("add full line: %v", err)
	}
	if _, err := service.AddToCart(context.Background(), user.ID, disney.ID, 1, SaleProfiles); err != nil {
		test.Fatalf("add profile line: %v", err)
	}

	orders, err := service.Checkout(context.Background(), user.ID)
	if !errors.Is(err, ErrInsufficientProfiles) {
		test.Fatalf("expected ErrInsufficientProfiles, got %v", err)
	}
	if orders != nil {
		test.Fatalf("expected no orders, got %d", len(orders))
	}
	persisted, err := store.ListOrders(context.Background())
	if err != nil {
		test.Fatalf("list orders: %v", err)
	}
	if len(persisted) != 0 {
		test.Fatalf("expected no persisted orders after rollback, got %d", len(persisted))
	}
}

func TestCheckoutIssuesPlaceholderCredentials(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	service := mustNewService(test, store)
	user := mustUser(test, store, "placeholder@example.com", "50")
	account, err := store.CreateAccount(context.Background(), StreamingAccount{
		Name:   "Nueva Cuenta",
		Type:   "Netflix",
		Price:  mustDecimal(test, "5.99"),
		Active: true,
	})
	if err != nil {
		test.Fatalf("create account: %v", err)
	}

	if _, err := service.AddToCart(context.Background(), user.ID, account.ID, 1, SaleFull); err != nil {
		test.Fatalf("add to cart: %v", err)
	}
	orders, err := service.Checkout(context.Background(), user.ID)
	if err != nil {
		test.Fatalf("checkout: %v", err)
	}
	if orders[0].AccountEmail != "pending@admin.com" {
		test.Fatalf("expected placeholder email, got %q", orders[0].AccountEmail)
	}
	if orders[0].AccountPassword != "pending" {
		test.Fatalf("expected placeholder password, got %q", orders[0].AccountPassword)
	}
}

func TestCheckoutClearsCart(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	service := mustNewService(test, store)
	user := mustUser(test, store, "clear@example.com", "50")
	account := mustAccount(test, store, "Netflix Premium", "5.99")

	if _, err := service.AddToCart(context.Background(), user.ID, account.ID, 2, SaleFull); err != nil {
		test.Fatalf("add to cart: %v", err)
	}
	if _, err := service.Checkout(context.Background(), user.ID); err != nil {
		test.Fatalf("checkout: %v", err)
	}

	cart, err := service.GetCart(context.Background(), user.ID)
	if err != nil {
		test.Fatalf("get cart: %v", err)
	}
	if len(cart.Items) != 0 {
		test.Fatalf("expected empty cart after checkout, got %d items", len(cart.Items))
	}
	if !cart.TotalAmount.IsZero() {
		test.Fatalf("expected zero total after checkout, got %s", cart.TotalAmount)
	}
}

func TestCheckoutChargesLockedPriceNotCurrentPrice(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	service := mustNewService(test, store)
	user := mustUser(test, store, "reprice@example.com", "50")
	account := mustAccount(test, store, "Netflix Premium", "5.99")

	if _, err := service.AddToCart(context.Background(), user.ID, account.ID, 1, SaleFull); err != nil {
		test.Fatalf("add to cart: %v", err)
	}
	account.Price = mustDecimal(test, "19.99")
	if _, err := store.UpdateAccount(context.Background(), account); err != nil {
		test.Fatalf("reprice account: %v", err)
	}

	orders, err := service.Checkout(context.Background(), user.ID)
	if err != nil {
		test.Fatalf("checkout: %v", err)
	}
	if !orders[0].TotalPrice.Equal(mustDecimal(test, "5.99")) {
		test.Fatalf("expected locked price 5.99 charged, got %s", orders[0].TotalPrice)
	}
	buyer, err := store.UserByID(context.Background(), user.ID)
	if err != nil {
		test.Fatalf("reload buyer: %v", err)
	}
	if !buyer.Credits.Equal(mustDecimal(test, "44.01")) {
		test.Fatalf("expected balance 44.01, got %s", buyer.Credits)
	}
}
