package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
)

const requesterContextKey = "requester"

// Claims carries the dispatch identity inside a bearer token.
type Claims struct {
	AccountID string `json:"account_id"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager validates bearer tokens issued by the identity service.
type TokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// GenerateToken signs a token for the given identity. Used by tests and
// local tooling; production tokens come from the identity service.
func (m *TokenManager) GenerateToken(accountID, role string, ttl time.Duration) (string, error) {
	claims := &Claims{
		AccountID: accountID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// ParseToken validates the signature and expiry and returns the claims.
func (m *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	return claims, nil
}

// AuthMiddleware authenticates the request with a bearer token and stores
// the resulting requester in the echo context.
func AuthMiddleware(manager *TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			requester, err := requesterFromRequest(manager, ctx)
			if err != nil {
				return ctx.JSON(http.StatusUnauthorized, errorResponse{
					Code:    http.StatusUnauthorized,
					Message: "invalid or missing bearer token",
				})
			}
			ctx.Set(requesterContextKey, requester)
			return next(ctx)
		}
	}
}

func requesterFromRequest(manager *TokenManager, ctx echo.Context) (commands.Requester, error) {
	header := ctx.Request().Header.Get(echo.HeaderAuthorization)
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return commands.Requester{}, errors.New("missing bearer token")
	}

	claims, err := manager.ParseToken(token)
	if err != nil {
		return commands.Requester{}, err
	}

	accountID, err := kernel.UUIDFromString(claims.AccountID)
	if err != nil {
		return commands.Requester{}, err
	}
	return commands.NewRequester(accountID, commands.Role(claims.Role))
}

func requesterFromContext(ctx echo.Context) (commands.Requester, bool) {
	requester, ok := ctx.Get(requesterContextKey).(commands.Requester)
	return requester, ok
}
