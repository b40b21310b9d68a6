package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/casebridge/casebridge/internal/db"
	"github.com/casebridge/casebridge/internal/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// CreateOrg handles POST /orgs (signup)
func (h *Handler) CreateOrg(c *gin.Context) {
	req := requestBody[models.OrgCreateRequest](c)

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to process password",
			Message: err.Error(),
			Code:    models.CodeInternal,
		})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	org, err := h.Orgs.CreateOrg(ctx, req, string(hash))
	if err != nil {
		if errors.Is(err, db.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, models.ErrorResponse{
				Error:   "Email already registered",
				Message: "An organization with this email already exists",
				Code:    models.CodeDuplicateEmail,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to create organization",
			Message: err.Error(),
			Code:    models.CodeInternal,
		})
		return
	}

	c.JSON(http.StatusCreated, org)
}

// GetOrgs handles GET /orgs — public
func (h *Handler) GetOrgs(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	orgs, err := h.Orgs.GetOrgs(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to retrieve organizations",
			Message: err.Error(),
			Code:    models.CodeInternal,
		})
		return
	}
	c.JSON(http.StatusOK, orgs)
}

// GetOrg handles GET /orgs/:id — public
func (h *Handler) GetOrg(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	org, err := h.Orgs.GetOrgByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "Organization not found",
				Message: "The specified organization does not exist",
				Code:    models.CodeNotFound,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to retrieve organization",
			Message: err.Error(),
			Code:    models.CodeInternal,
		})
		return
	}
	c.JSON(http.StatusOK, org)
}

// UpdateMyOrg handles POST /update/orgs/
func (h *Handler) UpdateMyOrg(c *gin.Context) {
	principal, _ := principalFromContext(c)
	req := requestBody[models.OrgUpdateRequest](c)

	var passwordHash *string
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "Failed to process password",
				Message: err.Error(),
				Code:    models.CodeInternal,
			})
			return
		}
		s := string(hash)
		passwordHash = &s
	}

	ctx, cancel := requestContext()
	defer cancel()

	org, err := h.Orgs.UpdateOrg(ctx, principal.ID, req, passwordHash)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "Organization not found",
				Message: "The account no longer exists",
				Code:    models.CodeNotFound,
			})
		case errors.Is(err, db.ErrDuplicateEmail):
			c.JSON(http.StatusConflict, models.ErrorResponse{
				Error:   "Email already registered",
				Message: "Another account already uses this email",
				Code:    models.CodeDuplicateEmail,
			})
		default:
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "Failed to update organization",
				Message: err.Error(),
				Code:    models.CodeInternal,
			})
		}
		return
	}

	if !req.Empty() {
		h.audit(models.LogEntry{
			Title:       "Organization updated",
			Description: fmt.Sprintf("Organization %d (%s) changed its profile", org.ID, org.Name),
			OrgID:       &org.ID,
		})
	}

	c.JSON(http.StatusOK, org)
}

// DeleteMyOrg handles DELETE /orgs/
func (h *Handler) DeleteMyOrg(c *gin.Context) {
	principal, _ := principalFromContext(c)

	ctx, cancel := requestContext()
	defer cancel()

	if err := h.Orgs.DeleteOrg(ctx, principal.ID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "Organization not found",
				Message: "The account no longer exists",
				Code:    models.CodeNotFound,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to delete organization",
			Message: err.Error(),
			Code:    models.CodeInternal,
		})
		return
	}
	c.Status(http.StatusNoContent)
}
