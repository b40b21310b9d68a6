package api

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/casebridge/casebridge/internal/db"
	"github.com/casebridge/casebridge/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// sessionCookie is the cookie the view pages authenticate with; API clients
// use the Authorization header instead.
const sessionCookie = "session_token"

const (
	ctxPrincipalType = "principal_type"
	ctxPrincipalID   = "principal_id"
	ctxEmail         = "email"
)

// extractToken pulls the session token from the Authorization header or,
// failing that, the session cookie. Returns "" when neither carries one.
func extractToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	if cookie, err := c.Cookie(sessionCookie); err == nil {
		return cookie
	}
	return ""
}

// AuthMiddleware validates session tokens: the JWT signature and expiry
// first, then the live session row, so a revoked token fails even while the
// JWT itself is still within its window.
func AuthMiddleware(sessions SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "Authentication required",
				Message: "Provide a session token via 'Bearer <token>' or the session cookie",
				Code:    models.CodeUnauthenticated,
			})
			c.Abort()
			return
		}

		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "Server not configured",
				Message: "JWT secret missing",
				Code:    models.CodeInternal,
			})
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "Invalid token",
				Message: "The provided token is invalid or expired",
				Code:    models.CodeUnauthenticated,
			})
			c.Abort()
			return
		}

		ctx, cancel := requestContext()
		session, err := sessions.GetSession(ctx, db.HashSessionToken(tokenString))
		cancel()
		if err != nil || !session.Active(time.Now()) {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "Session expired",
				Message: "The session has been revoked or has expired",
				Code:    models.CodeUnauthenticated,
			})
			c.Abort()
			return
		}

		c.Set(ctxPrincipalType, string(session.PrincipalType))
		c.Set(ctxPrincipalID, session.PrincipalID)
		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if email, ok := claims["email"].(string); ok {
				c.Set(ctxEmail, email)
			}
		}

		c.Next()
	}
}

// principalFromContext returns the principal attached by AuthMiddleware
func principalFromContext(c *gin.Context) (models.Principal, bool) {
	typeVal, ok := c.Get(ctxPrincipalType)
	if !ok {
		return models.Principal{}, false
	}
	idVal, ok := c.Get(ctxPrincipalID)
	if !ok {
		return models.Principal{}, false
	}
	t, _ := typeVal.(string)
	id, _ := idVal.(int64)
	if !models.ValidatePrincipalType(t) {
		return models.Principal{}, false
	}
	return models.Principal{Type: models.PrincipalType(t), ID: id}, true
}

// RequirePrincipal ensures the authenticated principal has the given type
func RequirePrincipal(t models.PrincipalType) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := principalFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error: "Authentication required",
				Code:  models.CodeUnauthenticated,
			})
			c.Abort()
			return
		}
		if principal.Type != t {
			c.JSON(http.StatusForbidden, models.ErrorResponse{
				Error:   "Access denied",
				Message: "This resource belongs to a different principal type",
				Code:    models.CodeForbidden,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
