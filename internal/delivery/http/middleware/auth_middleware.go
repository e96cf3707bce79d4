package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cvchef-backend/config"
	"cvchef-backend/internal/delivery/http/response"
	"cvchef-backend/internal/domain"
	"cvchef-backend/pkg/auth"
	"cvchef-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var errNoToken = errors.New("no token")

// bearerToken reads the token from the Authorization header, falling back
// to the auth_token cookie.
func bearerToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	if cookie, err := c.Cookie("auth_token"); err == nil {
		return cookie
	}
	return ""
}

// identify verifies the request token and stores the caller identity on the
// gin context.
func identify(c *gin.Context, jwksProvider *auth.Provider, cfg *config.Config) error {
	tokenString := bearerToken(c)
	if tokenString == "" {
		return errNoToken
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); ok {
			// HS256 - Use Secret
			if cfg.SupabaseJWTSecret == "" {
				return nil, fmt.Errorf("HS256 token received but SUPABASE_JWT_SECRET is not configured")
			}
			return []byte(cfg.SupabaseJWTSecret), nil
		}

		if _, ok := token.Method.(*jwt.SigningMethodRSA); ok {
			// RS256 - Use JWKS
			if jwksProvider == nil {
				return nil, fmt.Errorf("RS256 token received but SUPABASE_URL is not configured")
			}
			return jwksProvider.KeyFunc(token)
		}

		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return errors.New("token is not valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return errors.New("invalid claims")
	}

	// Supabase puts the user id in sub
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return errors.New("token has no subject")
	}
	email, _ := claims["email"].(string)

	c.Set(string(domain.KeyUserID), sub)
	c.Set(string(domain.KeyUserEmail), email)
	return nil
}

// AuthMiddleware rejects requests without a valid Supabase token.
func AuthMiddleware(jwksProvider *auth.Provider, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := identify(c, jwksProvider, cfg)
		if errors.Is(err, errNoToken) {
			response.Error(c, http.StatusUnauthorized, "Authorization header or auth_token cookie required", nil)
			c.Abort()
			return
		}
		if err != nil {
			logger.Log.Warn("Token validation failed", "error", err, "request_id", c.GetString("RequestID"))
			response.Error(c, http.StatusUnauthorized, "Invalid token", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuthMiddleware sets the identity when a valid token is present and
// lets anonymous requests through.
func OptionalAuthMiddleware(jwksProvider *auth.Provider, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := identify(c, jwksProvider, cfg); err != nil && !errors.Is(err, errNoToken) {
			logger.Log.Debug("Ignoring invalid optional token", "error", err)
		}
		c.Next()
	}
}

// UserID returns the authenticated caller, or "" for anonymous requests.
func UserID(c *gin.Context) string {
	return c.GetString(string(domain.KeyUserID))
}
