package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/streamhub/internal/auth"
	"github.com/MarkoPoloResearchLab/streamhub/pkg/storefront"
)

const shutdownGracePeriod = 10 * time.Second

// Server carries the handler dependencies.
type Server struct {
	service  *storefront.Service
	sessions *auth.SessionManager
	logger   *zap.Logger
	nowFn    func() time.Time
}

// NewServer wires the HTTP layer over the storefront service.
func NewServer(service *storefront.Service, sessions *auth.SessionManager, logger *zap.Logger, now func() time.Time) (*Server, error) {
	if service == nil || sessions == nil || logger == nil || now == nil {
		return nil, fmt.Errorf("httpapi: nil dependency")
	}
	return &Server{service: service, sessions: sessions, logger: logger, nowFn: now}, nil
}

// Router builds the gin engine with all routes mounted.
func (server *Server) Router(allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	unauthorized := func(ctx *gin.Context) {
		errorJSON(ctx, http.StatusUnauthorized, messageUnauthorized)
	}

	api := router.Group("/api")
	api.GET("/healthz", server.handleHealth)
	api.POST("/auth/register", server.handleRegister)
	api.POST("/auth/login", server.handleLogin)
	api.POST("/auth/logout", server.handleLogout)
	api.GET("/streaming-accounts", server.handleCatalog)

	authenticated := api.Group("")
	authenticated.Use(server.sessions.GinMiddleware(unauthorized))
	authenticated.GET("/auth/session", server.handleSession)
	authenticated.GET("/users/me", server.handleCurrentUser)
	authenticated.PUT("/users/me", server.handleUpdateCurrentUser)
	authenticated.GET("/cart", server.handleGetCart)
	authenticated.POST("/cart", server.handleAddToCart)
	authenticated.DELETE("/cart/:itemId", server.handleRemoveCartItem)
	authenticated.POST("/cart/checkout", server.handleCheckout)
	authenticated.GET("/orders", server.handleUserOrders)

	admin := authenticated.Group("/admin")
	admin.Use(requireRole(storefront.RoleAdmin))
	admin.GET("/stats", server.handleStats)
	admin.GET("/users", server.handleListUsers)
	admin.POST("/users", server.handleRecharge)
	admin.GET("/orders", server.handleAllOrders)
	admin.GET("/orders/export", server.handleExportOrders)
	admin.GET("/streaming-accounts", server.handleAdminAccounts)
	admin.POST("/streaming-accounts", server.handleCreateAccount)
	admin.PUT("/streaming-accounts/:accountId", server.handleUpdateAccount)
	admin.DELETE("/streaming-accounts/:accountId", server.handleDeleteAccount)
	admin.GET("/streaming-types", server.handleListTypes)
	admin.POST("/streaming-types", server.handleCreateType)
	admin.PUT("/streaming-types/:typeId", server.handleUpdateType)
	admin.DELETE("/streaming-types/:typeId", server.handleDeleteType)
	admin.GET("/profiles", server.handleListProfiles)
	admin.POST("/profiles", server.handleCreateProfile)
	admin.PUT("/profiles/:profileId", server.handleUpdateProfile)
	admin.DELETE("/profiles/:profileId", server.handleDeleteProfile)

	return router
}

// requireRole gates a route group to one role. It runs after the session
// middleware and reads the claims it stored.
func requireRole(role storefront.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims := auth.ClaimsFrom(ctx)
		if claims == nil || claims.Role != role.String() {
			errorJSON(ctx, http.StatusUnauthorized, messageUnauthorized)
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// Run serves the API until the context is canceled, then drains in-flight
// requests before returning.
func Run(ctx context.Context, cfg Config, service *storefront.Service, sessions *auth.SessionManager, logger *zap.Logger, now func() time.Time) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	server, err := NewServer(service, sessions, logger, now)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.Router(cfg.AllowedOrigins),
	}

	serveErrors := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.ListenAddr))
		serveErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("http server stopped")
	return nil
}

func (server *Server) handleHealth(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
