package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ContextKeyClaims is where the gin middleware stores validated claims.
const ContextKeyClaims = "auth_claims"

var (
	ErrInvalidSessionConfig = errors.New("invalid session config")
	ErrInvalidSession       = errors.New("invalid session")
)

// Claims carries the authenticated identity inside the session token.
type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Config aggregates session manager settings.
type Config struct {
	SigningKey   []byte
	Issuer       string
	CookieName   string
	TTL          time.Duration
	SecureCookie bool
}

// SessionManager mints and validates signed session cookies.
type SessionManager struct {
	cfg Config
}

// NewSessionManager validates the configuration and returns a manager.
func NewSessionManager(cfg Config) (*SessionManager, error) {
	if len(cfg.SigningKey) == 0 {
		return nil, fmt.Errorf("%w: signing key is required", ErrInvalidSessionConfig)
	}
	if strings.TrimSpace(cfg.Issuer) == "" {
		return nil, fmt.Errorf("%w: issuer is required", ErrInvalidSessionConfig)
	}
	if strings.TrimSpace(cfg.CookieName) == "" {
		return nil, fmt.Errorf("%w: cookie name is required", ErrInvalidSessionConfig)
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("%w: ttl must be positive", ErrInvalidSessionConfig)
	}
	return &SessionManager{cfg: cfg}, nil
}

// CookieName returns the configured session cookie name.
func (manager *SessionManager) CookieName() string {
	return manager.cfg.CookieName
}

// TTL returns the configured session lifetime.
func (manager *SessionManager) TTL() time.Duration {
	return manager.cfg.TTL
}

// Mint signs a session token for the given identity.
func (manager *SessionManager) Mint(userID string, email string, name string, role string, now time.Time) (string, error) {
	claims := Claims{
		UserID: userID,
		Email:  email,
		Name:   name,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    manager.cfg.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(manager.cfg.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(manager.cfg.SigningKey)
}

// Validate parses and verifies a session token.
func (manager *SessionManager) Validate(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("%w: unexpected signing method %v", ErrInvalidSession, token.Header["alg"])
			}
			return manager.cfg.SigningKey, nil
		},
		jwt.WithIssuer(manager.cfg.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// SetCookie writes the session cookie on the response.
func (manager *SessionManager) SetCookie(ctx *gin.Context, token string) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(manager.cfg.CookieName, token, int(manager.cfg.TTL.Seconds()), "/", "", manager.cfg.SecureCookie, true)
}

// ClearCookie expires the session cookie.
func (manager *SessionManager) ClearCookie(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(manager.cfg.CookieName, "", -1, "/", "", manager.cfg.SecureCookie, true)
}

// GinMiddleware validates the session cookie and stores the claims in the
// request context. Requests without a valid session are rejected.
func (manager *SessionManager) GinMiddleware(onUnauthorized func(ctx *gin.Context)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		raw, err := ctx.Cookie(manager.cfg.CookieName)
		if err != nil || raw == "" {
			onUnauthorized(ctx)
			ctx.Abort()
			return
		}
		claims, err := manager.Validate(raw)
		if err != nil {
			onUnauthorized(ctx)
			ctx.Abort()
			return
		}
		ctx.Set(ContextKeyClaims, claims)
		ctx.Next()
	}
}

// ClaimsFrom extracts validated claims placed by GinMiddleware.
func ClaimsFrom(ctx *gin.Context) *Claims {
	claimsValue, ok := ctx.Get(ContextKeyClaims)
	if !ok {
		return nil
	}
	claims, _ := claimsValue.(*Claims)
	return claims
}
