package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/casebridge/casebridge/internal/db"
	"github.com/casebridge/casebridge/internal/models"
	"github.com/gin-gonic/gin"
)

// ownsCase reports whether the principal owns the case
func ownsCase(principal models.Principal, cs *models.Case) bool {
	switch principal.Type {
	case models.PrincipalUser:
		return cs.UserID != nil && *cs.UserID == principal.ID
	case models.PrincipalOrg:
		return cs.OrgID != nil && *cs.OrgID == principal.ID
	default:
		return false
	}
}

// CreateCase handles POST /cases/. The new case is associated with whichever
// principal type is authenticated.
func (h *Handler) CreateCase(c *gin.Context) {
	principal, _ := principalFromContext(c)
	req := requestBody[models.CaseCreateRequest](c)

	ctx, cancel := requestContext()
	defer cancel()

	cs, err := h.Cases.CreateCase(ctx, req, principal)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to create case",
			Message: err.Error(),
			Code:    models.CodeInternal,
		})
		return
	}

	if principal.Type == models.PrincipalOrg {
		h.audit(models.LogEntry{
			Title:       "Case created",
			Description: fmt.Sprintf("Organization %d posted case %d (%s)", principal.ID, cs.ID, cs.Title),
			OrgID:       &principal.ID,
		})
	}

	c.JSON(http.StatusCreated, cs)
}

// GetCases handles GET /cases — public, non-deleted only
func (h *Handler) GetCases(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	cases, err := h.Cases.GetCases(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to retrieve cases",
			Message: err.Error(),
			Code:    models.CodeInternal,
		})
		return
	}
	c.JSON(http.StatusOK, cases)
}

// GetCasesFromOrg handles GET /cases/org/:org_id — public. An organization
// with zero cases yields an empty list.
func (h *Handler) GetCasesFromOrg(c *gin.Context) {
	orgID, ok := parseIDParam(c, "org_id")
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	cases, err := h.Cases.GetCasesByOrg(ctx, orgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to retrieve cases",
			Message: err.Error(),
			Code:    models.CodeInternal,
		})
		return
	}
	c.JSON(http.StatusOK, cases)
}

// GetCase handles GET /cases/:id — public; logically deleted cases are absent
func (h *Handler) GetCase(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	cs, err := h.Cases.GetCase(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "Case not found",
				Message: "The specified case does not exist",
				Code:    models.CodeNotFound,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to retrieve case",
			Message: err.Error(),
			Code:    models.CodeInternal,
		})
		return
	}
	c.JSON(http.StatusOK, cs)
}

// UpdateCase handles PUT /cases/:id — owner only, partial update
func (h *Handler) UpdateCase(c *gin.Context) {
	principal, _ := principalFromContext(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	req := requestBody[models.CaseUpdateRequest](c)

	ctx, cancel := requestContext()
	defer cancel()

	cs, err := h.Cases.GetCase(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "Case not found",
				Message: "The specified case does not exist",
				Code:    models.CodeNotFound,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to retrieve case",
			Message: err.Error(),
			Code:    models.CodeInternal,
		})
		return
	}

	if !ownsCase(principal, cs) {
		c.JSON(http.StatusForbidden, models.ErrorResponse{
			Error:   "Access denied",
			Message: "Only the owning principal can update this case",
			Code:    models.CodeForbidden,
		})
		return
	}

	updated, err := h.Cases.UpdateCase(ctx, id, req)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "Case not found",
				Message: "The specified case does not exist",
				Code:    models.CodeNotFound,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to update case",
			Message: err.Error(),
			Code:    models.CodeInternal,
		})
		return
	}

	if principal.Type == models.PrincipalOrg {
		h.audit(models.LogEntry{
			Title:       "Case updated",
			Description: fmt.Sprintf("Organization %d updated case %d (%s)", principal.ID, updated.ID, updated.Title),
			OrgID:       &principal.ID,
		})
	}

	c.JSON(http.StatusOK, updated)
}

// ResolveCase handles GET /resolve/case/:id — owner only, marks the case
// resolved. Resolved cases stay publicly visible, unlike deleted ones.
func (h *Handler) ResolveCase(c *gin.Context) {
	principal, _ := principalFromContext(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	cs, err := h.Cases.GetCase(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "Case not found",
				Message: "The specified case does not exist",
				Code:    models.CodeNotFound,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to retrieve case",
			Message: err.Error(),
			Code:    models.CodeInternal,
		})
		return
	}

	if !ownsCase(principal, cs) {
		c.JSON(http.StatusForbidden, models.ErrorResponse{
			Error:   "Access denied",
			Message: "Only the owning principal can resolve this case",
			Code:    models.CodeForbidden,
		})
		return
	}

	resolved, err := h.Cases.ResolveCase(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to resolve case",
			Message: err.Error(),
			Code:    models.CodeInternal,
		})
		return
	}

	if principal.Type == models.PrincipalOrg {
		h.audit(models.LogEntry{
			Title:       "Case resolved",
			Description: fmt.Sprintf("Organization %d resolved case %d (%s)", principal.ID, resolved.ID, resolved.Title),
			OrgID:       &principal.ID,
		})
	}

	c.JSON(http.StatusOK, resolved)
}

// DeleteCase handles GET /delete/case/:id — owner only, logical delete
func (h *Handler) DeleteCase(c *gin.Context) {
	principal, _ := principalFromContext(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	cs, err := h.Cases.GetCase(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "Case not found",
				Message: "The specified case does not exist",
				Code:    models.CodeNotFound,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to retrieve case",
			Message: err.Error(),
			Code:    models.CodeInternal,
		})
		return
	}

	if !ownsCase(principal, cs) {
		c.JSON(http.StatusForbidden, models.ErrorResponse{
			Error:   "Access denied",
			Message: "Only the owning principal can delete this case",
			Code:    models.CodeForbidden,
		})
		return
	}

	if err := h.Cases.DeleteCase(ctx, id); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to delete case",
			Message: err.Error(),
			Code:    models.CodeInternal,
		})
		return
	}

	if principal.Type == models.PrincipalOrg {
		h.audit(models.LogEntry{
			Title:       "Case deleted",
			Description: fmt.Sprintf("Organization %d deleted case %d (%s)", principal.ID, cs.ID, cs.Title),
			OrgID:       &principal.ID,
		})
	}

	c.Status(http.StatusNoContent)
}
