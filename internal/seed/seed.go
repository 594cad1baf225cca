// Package seed loads the demo catalog and demo users into an empty database.
// Seeding is idempotent: rows that already exist are left untouched.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MarkoPoloResearchLab/streamhub/internal/auth"
	"github.com/MarkoPoloResearchLab/streamhub/pkg/storefront"
)

type seedUser struct {
	email    string
	name     string
	role     storefront.Role
	password string // empty means passwordless login
	credits  int64
}

var defaultUsers = []seedUser{
	{email: "admin@streamhub.com", name: "Administrador", role: storefront.RoleAdmin, password: "admin123", credits: 1000},
	{email: "user@streamhub.com", name: "Usuario Demo", role: storefront.RoleUser, password: "user123", credits: 50},
	{email: "demo@streamhub.com", name: "Demo Usuario", role: storefront.RoleUser, password: "", credits: 25},
}

var defaultTypes = []storefront.StreamingType{
	{Name: "Netflix", Description: "Streaming de películas y series", Icon: "🎬", Color: "#E50914", Active: true},
	{Name: "Disney+", Description: "Contenido Disney, Pixar, Marvel, Star Wars", Icon: "🏰", Color: "#113CCF", Active: true},
	{Name: "HBO Max", Description: "Series HBO, películas Warner Bros", Icon: "🎭", Color: "#B535F6", Active: true},
	{Name: "Amazon Prime", Description: "Streaming de Amazon con contenido variado", Icon: "📦", Color: "#00A8E1", Active: true},
	{Name: "Paramount+", Description: "Contenido Paramount, CBS, Nickelodeon", Icon: "⭐", Color: "#0064FF", Active: true},
	{Name: "Apple TV+", Description: "Contenido original de Apple", Icon: "🍎", Color: "#000000", Active: true},
	{Name: "Star+", Description: "Contenido deportivo y entretenimiento", Icon: "⚡", Color: "#0063E5", Active: true},
}

func price(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func defaultAccounts() []storefront.StreamingAccount {
	return []storefront.StreamingAccount{
		{
			ID: "netflix-premium", Name: "Netflix Premium",
			Description: "Cuenta premium de Netflix con acceso a todo el catálogo",
			Price:       price("5.99"), Type: "Netflix", Duration: "mes", Quality: "4K", Screens: 4, Active: true,
		},
		{
			ID: "disney-plus-premium", Name: "Disney+ Premium",
			Description: "Cuenta premium de Disney+ con todo el contenido",
			Price:       price("4.99"), Type: "Disney+", Duration: "mes", Quality: "4K", Screens: 4, Active: true,
		},
		{
			ID: "hbo-max", Name: "HBO Max",
			Description: "Cuenta de HBO Max con series y películas exclusivas",
			Price:       price("6.99"), Type: "HBO Max", Duration: "mes", Quality: "4K", Screens: 3, Active: true,
		},
		{
			ID: "amazon-prime-video", Name: "Amazon Prime Video",
			Description: "Cuenta de Amazon Prime con beneficios adicionales",
			Price:       price("3.99"), Type: "Amazon Prime", Duration: "mes", Quality: "4K", Screens: 3, Active: true,
		},
		{
			ID: "paramount-plus", Name: "Paramount+",
			Description: "Cuenta de Paramount+ con contenido exclusivo",
			Price:       price("4.49"), Type: "Paramount+", Duration: "mes", Quality: "HD", Screens: 3, Active: true,
		},
		{
			ID: "apple-tv-plus", Name: "Apple TV+",
			Description: "Cuenta de Apple TV+ con contenido original",
			Price:       price("5.49"), Type: "Apple TV+", Duration: "mes", Quality: "4K", Screens: 6, Active: true,
		},
	}
}

type seedProfile struct {
	accountID string
	name      string
	pin       string
}

var defaultProfiles = []seedProfile{
	{accountID: "netflix-premium", name: "Usuario 1", pin: "1234"},
	{accountID: "netflix-premium", name: "Usuario 2", pin: "5678"},
	{accountID: "netflix-premium", name: "Usuario 3", pin: "9012"},
	{accountID: "netflix-premium", name: "Niños", pin: "3456"},
	{accountID: "disney-plus-premium", name: "Adulto 1", pin: "1111"},
	{accountID: "disney-plus-premium", name: "Adulto 2", pin: "2222"},
	{accountID: "disney-plus-premium", name: "Niños", pin: "3333"},
	{accountID: "hbo-max", name: "Principal", pin: "4444"},
	{accountID: "hbo-max", name: "Secundario", pin: "5555"},
	{accountID: "hbo-max", name: "Invitado", pin: ""},
	{accountID: "amazon-prime-video", name: "Usuario Principal", pin: "6666"},
	{accountID: "amazon-prime-video", name: "Usuario Secundario", pin: "7777"},
	{accountID: "paramount-plus", name: "Adulto", pin: "8888"},
	{accountID: "paramount-plus", name: "Niño", pin: "9999"},
	{accountID: "apple-tv-plus", name: "Usuario 1", pin: ""},
	{accountID: "apple-tv-plus", name: "Usuario 2", pin: ""},
}

// Run seeds users, streaming types, catalog accounts, and sample profiles.
func Run(ctx context.Context, store storefront.Store) error {
	if err := seedUsers(ctx, store); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	if err := seedTypes(ctx, store); err != nil {
		return fmt.Errorf("seed streaming types: %w", err)
	}
	if err := seedAccounts(ctx, store); err != nil {
		return fmt.Errorf("seed accounts: %w", err)
	}
	if err := seedProfiles(ctx, store); err != nil {
		return fmt.Errorf("seed profiles: %w", err)
	}
	return nil
}

func seedUsers(ctx context.Context, store storefront.Store) error {
	for _, candidate := range defaultUsers {
		_, err := store.UserByEmail(ctx, candidate.email)
		if err == nil {
			continue
		}
		if !errors.Is(err, storefront.ErrUserNotFound) {
			return err
		}
		passwordHash := ""
		if candidate.password != "" {
			passwordHash, err = auth.HashPassword(candidate.password)
			if err != nil {
				return err
			}
		}
		_, err = store.CreateUser(ctx, storefront.User{
			Email:        candidate.email,
			Name:         candidate.name,
			PasswordHash: passwordHash,
			Role:         candidate.role,
			Credits:      decimal.NewFromInt(candidate.credits),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func seedTypes(ctx context.Context, store storefront.Store) error {
	for _, candidate := range defaultTypes {
		_, err := store.StreamingTypeByName(ctx, candidate.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, storefront.ErrTypeNotFound) {
			return err
		}
		if _, err := store.CreateStreamingType(ctx, candidate); err != nil {
			return err
		}
	}
	return nil
}

func seedAccounts(ctx context.Context, store storefront.Store) error {
	for _, candidate := range defaultAccounts() {
		_, err := store.AccountByID(ctx, candidate.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, storefront.ErrAccountNotFound) {
			return err
		}
		if _, err := store.CreateAccount(ctx, candidate); err != nil {
			return err
		}
	}
	return nil
}

func seedProfiles(ctx context.Context, store storefront.Store) error {
	for _, candidate := range defaultProfiles {
		_, err := store.ProfileByAccountAndName(ctx, candidate.accountID, candidate.name)
		if err == nil {
			continue
		}
		if !errors.Is(err, storefront.ErrProfileNotFound) {
			return err
		}
		_, err = store.CreateProfile(ctx, storefront.AccountProfile{
			StreamingAccountID: candidate.accountID,
			ProfileName:        candidate.name,
			ProfilePin:         candidate.pin,
			IsAvailable:        true,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
