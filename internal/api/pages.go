package api

import (
	"errors"
	"net/http"

	"github.com/casebridge/casebridge/internal/db"
	"github.com/casebridge/casebridge/internal/models"
	"github.com/gin-gonic/gin"
)

// The view surface is a thin adapter over the same stores the JSON API uses.
// Composite pages fetch their pieces sequentially and fail as a whole: a
// partially populated page is never rendered.

func renderErrorPage(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", gin.H{
		"Status":  status,
		"Message": message,
	})
	c.Abort()
}

// IndexPage handles GET /
func (h *Handler) IndexPage(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", nil)
}

// LoginPage handles GET /login
func (h *Handler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", nil)
}

// UserSignupPage handles GET /user/signup
func (h *Handler) UserSignupPage(c *gin.Context) {
	c.HTML(http.StatusOK, "sign-up-user.html", nil)
}

// OrgSignupPage handles GET /org/signup
func (h *Handler) OrgSignupPage(c *gin.Context) {
	c.HTML(http.StatusOK, "sign-up-org.html", nil)
}

// CreateCasePage handles GET /org/case
func (h *Handler) CreateCasePage(c *gin.Context) {
	c.HTML(http.StatusOK, "create-case.html", nil)
}

// currentUser loads the authenticated user or renders the error page
func (h *Handler) currentUser(c *gin.Context) (*models.User, bool) {
	principal, _ := principalFromContext(c)

	ctx, cancel := requestContext()
	defer cancel()

	user, err := h.Users.GetUserByID(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			renderErrorPage(c, http.StatusNotFound, "This account no longer exists")
		} else {
			renderErrorPage(c, http.StatusInternalServerError, "Could not load your profile")
		}
		return nil, false
	}
	return user, true
}

// currentOrg loads the authenticated organization or renders the error page
func (h *Handler) currentOrg(c *gin.Context) (*models.Organization, bool) {
	principal, _ := principalFromContext(c)

	ctx, cancel := requestContext()
	defer cancel()

	org, err := h.Orgs.GetOrgByID(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			renderErrorPage(c, http.StatusNotFound, "This account no longer exists")
		} else {
			renderErrorPage(c, http.StatusInternalServerError, "Could not load your organization")
		}
		return nil, false
	}
	return org, true
}

// UserProfilePage handles GET /user/profile/ — the user plus their cases
func (h *Handler) UserProfilePage(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	cases, err := h.Cases.GetCasesByUser(ctx, user.ID)
	if err != nil {
		renderErrorPage(c, http.StatusInternalServerError, "Could not load your cases")
		return
	}

	c.HTML(http.StatusOK, "user-profile.html", gin.H{
		"User":  user,
		"Cases": cases,
	})
}

// UserUpdatePage handles GET /user/update
func (h *Handler) UserUpdatePage(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "user-update.html", gin.H{"User": user})
}

// UserDashboardPage handles GET /user/dashboard — the user plus every open case
func (h *Handler) UserDashboardPage(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	cases, err := h.Cases.GetCases(ctx)
	if err != nil {
		renderErrorPage(c, http.StatusInternalServerError, "Could not load cases")
		return
	}

	c.HTML(http.StatusOK, "user-dashboard.html", gin.H{
		"User":  user,
		"Cases": cases,
	})
}

// OrgProfilePage handles GET /org/profile
func (h *Handler) OrgProfilePage(c *gin.Context) {
	org, ok := h.currentOrg(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	cases, err := h.Cases.GetCasesByOrg(ctx, org.ID)
	if err != nil {
		renderErrorPage(c, http.StatusInternalServerError, "Could not load your cases")
		return
	}

	c.HTML(http.StatusOK, "org-profile.html", gin.H{
		"Org":   org,
		"Cases": cases,
	})
}

// OrgUpdatePage handles GET /org/update
func (h *Handler) OrgUpdatePage(c *gin.Context) {
	org, ok := h.currentOrg(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "org-update.html", gin.H{"Org": org})
}

// OrgDashboardPage handles GET /org/dashboard
func (h *Handler) OrgDashboardPage(c *gin.Context) {
	org, ok := h.currentOrg(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	cases, err := h.Cases.GetCasesByOrg(ctx, org.ID)
	if err != nil {
		renderErrorPage(c, http.StatusInternalServerError, "Could not load your cases")
		return
	}

	c.HTML(http.StatusOK, "org-dashboard.html", gin.H{
		"Org":   org,
		"Cases": cases,
	})
}

// LogsPage handles GET /logs/view — the organization plus its audit trail
func (h *Handler) LogsPage(c *gin.Context) {
	org, ok := h.currentOrg(c)
	if !ok {
		return
	}

	principal, _ := principalFromContext(c)

	ctx, cancel := requestContext()
	defer cancel()

	logs, err := h.Logs.GetLogsForPrincipal(ctx, principal)
	if err != nil {
		renderErrorPage(c, http.StatusInternalServerError, "Could not load the audit log")
		return
	}

	c.HTML(http.StatusOK, "logs.html", gin.H{
		"Org":  org,
		"Logs": logs,
	})
}
