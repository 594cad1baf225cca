package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/MarkoPoloResearchLab/streamhub/internal/auth"
	"github.com/MarkoPoloResearchLab/streamhub/internal/httpapi"
	"github.com/MarkoPoloResearchLab/streamhub/internal/seed"
	"github.com/MarkoPoloResearchLab/streamhub/internal/store/gormstore"
	"github.com/MarkoPoloResearchLab/streamhub/pkg/storefront"
)

const (
	flagDatabaseURL     = "database-url"
	flagListenAddr      = "listen-addr"
	flagAllowedOrigins  = "allowed-origins"
	flagSessionKey      = "session-key"
	flagSessionTTL      = "session-ttl"
	flagSecureCookie    = "secure-cookie"
	configDatabaseURL   = "database_url"
	configListenAddr    = "listen_addr"
	configOrigins       = "allowed_origins"
	configSessionKey    = "session_key"
	configSessionTTL    = "session_ttl"
	configSecureCookie  = "secure_cookie"
	defaultDatabaseURL  = "sqlite://streamhub.db"
	defaultListenAddr   = ":8080"
	defaultSessionTTL   = 24 * time.Hour
	environmentPrefix   = "STREAMHUB"
	sqliteFallbackPath  = "streamhub.db"
	schemaDriverSQLite  = "sqlite"
	schemaDriverPostgre = "postgres"
)

type runtimeConfig struct {
	DatabaseURL    string
	ListenAddr     string
	AllowedOrigins string
	SessionKey     string
	SessionTTL     time.Duration
	SecureCookie   bool
}

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "streamhubd: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cfg := &runtimeConfig{}
	cmd := &cobra.Command{
		Use:           "streamhubd",
		Short:         "Streaming account storefront API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd, cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cfg)
		},
	}

	cmd.PersistentFlags().String(flagDatabaseURL, defaultDatabaseURL, "database connection string (sqlite:// or postgres://)")
	cmd.PersistentFlags().String(flagListenAddr, defaultListenAddr, "HTTP listen address")
	cmd.PersistentFlags().String(flagAllowedOrigins, "", "comma-separated CORS origins")
	cmd.PersistentFlags().String(flagSessionKey, "", "session cookie signing key")
	cmd.PersistentFlags().Duration(flagSessionTTL, defaultSessionTTL, "session lifetime")
	cmd.PersistentFlags().Bool(flagSecureCookie, false, "mark the session cookie Secure")

	cmd.AddCommand(newSeedCommand(cfg))

	return cmd
}

func newSeedCommand(cfg *runtimeConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo users, catalog, and profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			gormDB, cleanup, driver, err := openDatabase(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("database open: %w", err)
			}
			defer func() { _ = cleanup() }()
			if err := prepareSchema(gormDB, driver); err != nil {
				return err
			}
			return seed.Run(ctx, gormstore.New(gormDB))
		},
	}
}

func loadConfig(cmd *cobra.Command, cfg *runtimeConfig) error {
	viper.SetEnvPrefix(environmentPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	bindings := map[string]string{
		configDatabaseURL:  flagDatabaseURL,
		configListenAddr:   flagListenAddr,
		configOrigins:      flagAllowedOrigins,
		configSessionKey:   flagSessionKey,
		configSessionTTL:   flagSessionTTL,
		configSecureCookie: flagSecureCookie,
	}
	for configKey, flagName := range bindings {
		if err := viper.BindPFlag(configKey, cmd.Flags().Lookup(flagName)); err != nil {
			return err
		}
	}

	cfg.DatabaseURL = viper.GetString(configDatabaseURL)
	cfg.ListenAddr = viper.GetString(configListenAddr)
	cfg.AllowedOrigins = viper.GetString(configOrigins)
	cfg.SessionKey = viper.GetString(configSessionKey)
	cfg.SessionTTL = viper.GetDuration(configSessionTTL)
	cfg.SecureCookie = viper.GetBool(configSecureCookie)

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = defaultDatabaseURL
	}
	if cfg.SessionKey == "" {
		return fmt.Errorf("session key is required (set --%s or %s_SESSION_KEY)", flagSessionKey, environmentPrefix)
	}
	return nil
}

func runServer(ctx context.Context, cfg *runtimeConfig) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("logger init: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	gormDB, cleanup, driver, err := openDatabase(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database open: %w", err)
	}
	defer func() { _ = cleanup() }()

	if err := prepareSchema(gormDB, driver); err != nil {
		return err
	}

	store := gormstore.New(gormDB)
	now := func() time.Time { return time.Now().UTC() }
	service, err := storefront.NewService(store, now,
		storefront.WithOperationLogger(httpapi.NewZapOperationLogger(logger)))
	if err != nil {
		return fmt.Errorf("service init: %w", err)
	}

	apiConfig := httpapi.Config{
		ListenAddr:        cfg.ListenAddr,
		AllowedOrigins:    httpapi.ParseAllowedOrigins(cfg.AllowedOrigins),
		SessionSigningKey: cfg.SessionKey,
		SessionTTL:        cfg.SessionTTL,
		SecureCookie:      cfg.SecureCookie,
	}
	if err := apiConfig.Validate(); err != nil {
		return err
	}

	sessions, err := auth.NewSessionManager(auth.Config{
		SigningKey:   []byte(apiConfig.SessionSigningKey),
		Issuer:       apiConfig.SessionIssuer,
		CookieName:   apiConfig.SessionCookieName,
		TTL:          apiConfig.SessionTTL,
		SecureCookie: apiConfig.SecureCookie,
	})
	if err != nil {
		return fmt.Errorf("session manager init: %w", err)
	}

	return httpapi.Run(ctx, apiConfig, service, sessions, logger, now)
}

func openDatabase(ctx context.Context, dsn string) (*gorm.DB, func() error, string, error) {
	driver, sqlitePath, err := resolveDriver(dsn)
	if err != nil {
		return nil, nil, "", err
	}

	var db *gorm.DB
	gormConfig := &gorm.Config{}
	switch driver {
	case schemaDriverPostgre:
		db, err = gorm.Open(postgres.Open(dsn), gormConfig)
	case schemaDriverSQLite:
		db, err = gorm.Open(sqlite.Open(sqlitePath), gormConfig)
	default:
		return nil, nil, "", fmt.Errorf("unsupported database scheme %q", driver)
	}
	if err != nil {
		return nil, nil, "", err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, "", err
	}
	cleanup := func() error { return sqlDB.Close() }
	return db.WithContext(ctx), cleanup, driver, nil
}

func resolveDriver(dsn string) (string, string, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return schemaDriverPostgre, "", nil
	}
	if strings.HasPrefix(dsn, "sqlite://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", "", fmt.Errorf("parse sqlite url: %w", err)
		}
		path := u.Path
		if path == "" {
			path = u.Host
		}
		if path == "" || path == "/" {
			path = sqliteFallbackPath
		}
		sqlitePath, err := normalizeSQLitePath(path)
		return schemaDriverSQLite, sqlitePath, err
	}
	// A bare value without a scheme is a sqlite file on disk.
	sqlitePath, err := normalizeSQLitePath(dsn)
	return schemaDriverSQLite, sqlitePath, err
}

func normalizeSQLitePath(path string) (string, error) {
	if path == ":memory:" {
		return path, nil
	}
	if strings.HasPrefix(path, "/") {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", err
		}
		return path, nil
	}
	abs := filepath.Join(".", path)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", err
	}
	return abs, nil
}

func prepareSchema(db *gorm.DB, driver string) error {
	if driver != schemaDriverSQLite {
		return nil
	}
	if err := db.AutoMigrate(gormstore.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
