package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"blog-server/internal/domain"
)

const userContextKey = "blog_user"

// UserSource resolves token claims back to a full user record, so role
// changes take effect on the next request rather than at next login.
type UserSource interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// CurrentUser returns the authenticated user stored by the session
// middleware, or nil for an anonymous request.
func CurrentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(userContextKey); ok {
		if user, ok := v.(*domain.User); ok {
			return user
		}
	}
	return nil
}

// RequireSession aborts with 401 unless the request carries a valid session
// token, either in the session cookie or as an Authorization bearer token.
func RequireSession(m *Manager, users UserSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := resolveUser(c, m, users)
		if err != nil || user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// OptionalSession resolves the session when present but lets anonymous or
// invalid-token requests through with no user attached.
func OptionalSession(m *Manager, users UserSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, err := resolveUser(c, m, users); err == nil && user != nil {
			c.Set(userContextKey, user)
		}
		c.Next()
	}
}

// RequireRole aborts with 403 unless the session user holds one of the given
// roles. It must run after RequireSession.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if _, ok := allowed[user.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}

func resolveUser(c *gin.Context, m *Manager, users UserSource) (*domain.User, error) {
	tokenStr := ""
	if cookie, err := c.Cookie(CookieName); err == nil {
		tokenStr = cookie
	}
	if tokenStr == "" {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			tokenStr = strings.TrimPrefix(header, "Bearer ")
		}
	}
	if tokenStr == "" {
		return nil, ErrInvalidToken
	}

	claims, err := m.Parse(tokenStr)
	if err != nil {
		return nil, err
	}
	return users.GetByID(c.Request.Context(), claims.UserID)
}
