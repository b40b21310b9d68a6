package api

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/casebridge/casebridge/internal/db"
	"github.com/casebridge/casebridge/internal/models"
	"github.com/gin-gonic/gin"
)

// UserStore is the persistence contract for user records
type UserStore interface {
	CreateUser(ctx context.Context, req models.UserCreateRequest, passwordHash string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, id int64, updates models.UserUpdateRequest, passwordHash *string) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// OrgStore is the persistence contract for organization records
type OrgStore interface {
	CreateOrg(ctx context.Context, req models.OrgCreateRequest, passwordHash string) (*models.Organization, error)
	GetOrgByID(ctx context.Context, id int64) (*models.Organization, error)
	GetOrgByEmail(ctx context.Context, email string) (*models.Organization, error)
	GetOrgs(ctx context.Context) ([]models.Organization, error)
	UpdateOrg(ctx context.Context, id int64, updates models.OrgUpdateRequest, passwordHash *string) (*models.Organization, error)
	DeleteOrg(ctx context.Context, id int64) error
}

// CaseStore is the persistence contract for case records
type CaseStore interface {
	CreateCase(ctx context.Context, req models.CaseCreateRequest, principal models.Principal) (*models.Case, error)
	GetCases(ctx context.Context) ([]models.Case, error)
	GetCasesByOrg(ctx context.Context, orgID int64) ([]models.Case, error)
	GetCasesByUser(ctx context.Context, userID int64) ([]models.Case, error)
	GetCase(ctx context.Context, id int64) (*models.Case, error)
	UpdateCase(ctx context.Context, id int64, updates models.CaseUpdateRequest) (*models.Case, error)
	ClaimCase(ctx context.Context, id, userID int64) (*models.Case, error)
	DeleteCase(ctx context.Context, id int64) error
	ResolveCase(ctx context.Context, id int64) (*models.Case, error)
}

// LogStore is the persistence contract for audit records
type LogStore interface {
	AppendLog(ctx context.Context, entry models.LogEntry) (*models.Log, error)
	GetLogsForPrincipal(ctx context.Context, principal models.Principal) ([]models.Log, error)
}

// SessionStore is the persistence contract for sessions
type SessionStore interface {
	CreateSession(ctx context.Context, tokenHash string, principal models.Principal, expiresAt time.Time, ip, userAgent string) (*models.Session, error)
	GetSession(ctx context.Context, tokenHash string) (*models.Session, error)
	RevokeSession(ctx context.Context, tokenHash string) error
}

// Handler handles HTTP requests
type Handler struct {
	DB       *db.Database
	Users    UserStore
	Orgs     OrgStore
	Cases    CaseStore
	Logs     LogStore
	Sessions SessionStore
}

// NewHandler creates a new handler backed by the database
func NewHandler(database *db.Database) *Handler {
	h := &Handler{DB: database}
	if database != nil {
		h.Users = database
		h.Orgs = database
		h.Cases = database
		h.Logs = database
		h.Sessions = database
	}
	return h
}

// Health reports readiness, including a database ping
func (h *Handler) Health(c *gin.Context) {
	if h.DB == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error:   "Database not initialized",
			Message: "Service starting up; DB unavailable",
		})
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.DB.Health(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error:   "Database connection failed",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "casebridge",
		"timestamp": time.Now().UTC(),
	})
}

// requestContext returns a bounded context for a single persistence call
func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
