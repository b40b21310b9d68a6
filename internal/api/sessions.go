package api

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/casebridge/casebridge/internal/db"
	"github.com/casebridge/casebridge/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func sessionTTL() time.Duration {
	hours := getEnvInt("SESSION_TTL_HOURS", 24)
	return time.Duration(hours) * time.Hour
}

// generateSessionToken signs an HS256 token for the principal. The token is
// only half the story: its hash must also live in an active sessions row.
func generateSessionToken(principal models.Principal, email string, expiresAt time.Time) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT secret not configured")
	}

	// Random jti so two logins in the same second still yield distinct tokens
	jti := make([]byte, 16)
	if _, err := rand.Read(jti); err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"sub":   principal.ID,
		"typ":   string(principal.Type),
		"email": email,
		"exp":   expiresAt.Unix(),
		"iat":   time.Now().Unix(),
		"jti":   base64.RawURLEncoding.EncodeToString(jti),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Login exchanges credentials for a session token. Lookup and verification
// failures produce the same response so the endpoint never reveals whether
// the email exists.
func (h *Handler) Login(c *gin.Context) {
	req := requestBody[models.LoginRequest](c)

	if !models.ValidatePrincipalType(req.Type) {
		c.JSON(http.StatusBadRequest, models.ValidationErrorResponse{
			Error: "Invalid request data",
			Code:  models.CodeValidation,
			Violations: []models.FieldViolation{{
				Field:      "type",
				Constraint: "oneof",
				Message:    "type must be one of: user, org",
			}},
		})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	principal := models.Principal{Type: models.PrincipalType(req.Type)}
	var passwordHash, email string

	switch principal.Type {
	case models.PrincipalUser:
		user, err := h.Users.GetUserByEmail(ctx, req.Email)
		if err == nil {
			principal.ID = user.ID
			passwordHash = user.PasswordHash
			email = user.Email
		}
	case models.PrincipalOrg:
		org, err := h.Orgs.GetOrgByEmail(ctx, req.Email)
		if err == nil {
			principal.ID = org.ID
			passwordHash = org.PasswordHash
			email = org.Email
		}
	}

	if passwordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "Invalid credentials",
			Message: "The email or password is incorrect",
			Code:    models.CodeInvalidCredentials,
		})
		return
	}

	expiresAt := time.Now().Add(sessionTTL())
	tokenString, err := generateSessionToken(principal, email, expiresAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to generate token",
			Message: err.Error(),
			Code:    models.CodeInternal,
		})
		return
	}

	if _, err := h.Sessions.CreateSession(ctx, db.HashSessionToken(tokenString), principal,
		expiresAt, c.ClientIP(), c.GetHeader("User-Agent")); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to persist session",
			Message: err.Error(),
			Code:    models.CodeInternal,
		})
		return
	}

	c.SetCookie(sessionCookie, tokenString, int(sessionTTL().Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, models.LoginResponse{
		Token:     tokenString,
		ExpiresAt: expiresAt,
		Principal: principal,
	})
}

// Logout revokes the current session. Logging out twice, or without a
// token at all, is not an error.
func (h *Handler) Logout(c *gin.Context) {
	if tokenString := extractToken(c); tokenString != "" {
		ctx, cancel := requestContext()
		defer cancel()
		if err := h.Sessions.RevokeSession(ctx, db.HashSessionToken(tokenString)); err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "Failed to revoke session",
				Message: err.Error(),
				Code:    models.CodeInternal,
			})
			return
		}
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}
