package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/dollarblog/utils"
)

const (
	// TokenCookieName is the cookie carrying the session token.
	TokenCookieName = "token"
	// ContextIdentityKey stores the verified utils.Identity inside Gin context.
	ContextIdentityKey = "identity"
	// ContextTokenKey stores the raw token so logout can revoke it.
	ContextTokenKey = "token"
	// ContextTokenExpiryKey stores the token's expiry time.
	ContextTokenExpiryKey = "token_expires_at"
)

// TokenVerifier checks a session token.
type TokenVerifier interface {
	Verify(token string) (utils.Identity, time.Time, error)
}

// AuthRequired verifies the token from the "token" cookie, or from a Bearer
// header when there is no cookie. Missing tokens get 401, bad or revoked ones 403.
func AuthRequired(tokens TokenVerifier, blacklist *utils.TokenBlacklist) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := extractToken(ctx)
		if tokenString == "" {
			utils.Error(ctx, http.StatusUnauthorized, "Access denied. No token provided.")
			return
		}

		identity, expiresAt, err := tokens.Verify(tokenString)
		if err != nil {
			utils.RespondError(ctx, nil, err)
			return
		}

		if blacklist.IsRevoked(ctx.Request.Context(), tokenString) {
			utils.Error(ctx, http.StatusForbidden, "Invalid or expired token.")
			return
		}

		ctx.Set(ContextIdentityKey, identity)
		ctx.Set(ContextTokenKey, tokenString)
		ctx.Set(ContextTokenExpiryKey, expiresAt)
		ctx.Next()
	}
}

// CurrentIdentity returns the identity stored by AuthRequired.
func CurrentIdentity(ctx *gin.Context) (utils.Identity, bool) {
	value, exists := ctx.Get(ContextIdentityKey)
	if !exists {
		return utils.Identity{}, false
	}
	id, ok := value.(utils.Identity)
	if !ok || id.UserID == 0 {
		return utils.Identity{}, false
	}
	return id, true
}

// CurrentToken returns the raw token stored by AuthRequired and its expiry.
func CurrentToken(ctx *gin.Context) (string, time.Time) {
	return ctx.GetString(ContextTokenKey), ctx.GetTime(ContextTokenExpiryKey)
}

func extractToken(ctx *gin.Context) string {
	if cookie, err := ctx.Cookie(TokenCookieName); err == nil && strings.TrimSpace(cookie) != "" {
		return strings.TrimSpace(cookie)
	}
	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
