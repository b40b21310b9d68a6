package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/casebridge/casebridge/internal/db"
	"github.com/casebridge/casebridge/internal/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// parseIDParam parses a numeric path parameter, answering 400 on garbage
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid path parameter",
			Message: fmt.Sprintf("%s must be a positive integer", name),
			Code:    models.CodeValidation,
		})
		return 0, false
	}
	return id, true
}

// CreateUser handles POST /users (signup)
func (h *Handler) CreateUser(c *gin.Context) {
	req := requestBody[models.UserCreateRequest](c)

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

	user, err := h.Users.CreateUser(ctx, req, string(hash))
	if err != nil {
		if errors.Is(err, db.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, models.ErrorResponse{
				Error:   "Email already registered",
				Message: "A user with this email already exists",
				Code:    models.CodeDuplicateEmail,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to create user",
			Message: err.Error(),
			Code:    models.CodeInternal,
		})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetUsers handles GET /users
func (h *Handler) GetUsers(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	users, err := h.Users.GetUsers(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to retrieve users",
			Message: err.Error(),
			Code:    models.CodeInternal,
		})
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetMyProfile handles GET /myprofile/
func (h *Handler) GetMyProfile(c *gin.Context) {
	principal, _ := principalFromContext(c)

	ctx, cancel := requestContext()
	defer cancel()

	user, err := h.Users.GetUserByID(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "User not found",
				Message: "The account no longer exists",
				Code:    models.CodeNotFound,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to retrieve user",
			Message: err.Error(),
			Code:    models.CodeInternal,
		})
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateMyProfile handles POST /update/user/. Only supplied fields change;
// an empty payload is a no-op that returns the current record.
func (h *Handler) UpdateMyProfile(c *gin.Context) {
	principal, _ := principalFromContext(c)
	req := requestBody[models.UserUpdateRequest](c)

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

	user, err := h.Users.UpdateUser(ctx, principal.ID, req, passwordHash)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "User not found",
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
				Error:   "Failed to update user",
				Message: err.Error(),
				Code:    models.CodeInternal,
			})
		}
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteMyAccount handles DELETE /users/
func (h *Handler) DeleteMyAccount(c *gin.Context) {
	principal, _ := principalFromContext(c)

	ctx, cancel := requestContext()
	defer cancel()

	if err := h.Users.DeleteUser(ctx, principal.ID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "User not found",
				Message: "The account no longer exists",
				Code:    models.CodeNotFound,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to delete user",
			Message: err.Error(),
			Code:    models.CodeInternal,
		})
		return
	}
	c.Status(http.StatusNoContent)
}

// GetMyCases handles GET /users/cases
func (h *Handler) GetMyCases(c *gin.Context) {
	principal, _ := principalFromContext(c)

	ctx, cancel := requestContext()
	defer cancel()

	cases, err := h.Cases.GetCasesByUser(ctx, principal.ID)
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

// HelpCase handles GET /help/:case_id — the authenticated user claims an
// unclaimed case.
func (h *Handler) HelpCase(c *gin.Context) {
	principal, _ := principalFromContext(c)
	caseID, ok := parseIDParam(c, "case_id")
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	claimed, err := h.Cases.ClaimCase(ctx, caseID, principal.ID)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "Case not found",
				Message: "The specified case does not exist",
				Code:    models.CodeNotFound,
			})
		case errors.Is(err, db.ErrAlreadyClaimed):
			c.JSON(http.StatusConflict, models.ErrorResponse{
				Error:   "Case already claimed",
				Message: "Another user is already helping this case",
				Code:    models.CodeConflict,
			})
		default:
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "Failed to claim case",
				Message: err.Error(),
				Code:    models.CodeInternal,
			})
		}
		return
	}

	if claimed.OrgID != nil {
		h.audit(models.LogEntry{
			Title:       "Case claimed",
			Description: fmt.Sprintf("User %d started helping case %d (%s)", principal.ID, claimed.ID, claimed.Title),
			UserID:      &principal.ID,
			OrgID:       claimed.OrgID,
		})
	}

	c.JSON(http.StatusOK, claimed)
}

// DeleteCause handles GET /case/delete/:case_id — the authenticated user
// logically deletes a case they own.
func (h *Handler) DeleteCause(c *gin.Context) {
	principal, _ := principalFromContext(c)
	caseID, ok := parseIDParam(c, "case_id")
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	cs, err := h.Cases.GetCase(ctx, caseID)
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

	if cs.UserID == nil || *cs.UserID != principal.ID {
		c.JSON(http.StatusForbidden, models.ErrorResponse{
			Error:   "Access denied",
			Message: "Only the owning user can delete this case",
			Code:    models.CodeForbidden,
		})
		return
	}

	if err := h.Cases.DeleteCase(ctx, caseID); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to delete case",
			Message: err.Error(),
			Code:    models.CodeInternal,
		})
		return
	}

	if cs.OrgID != nil {
		h.audit(models.LogEntry{
			Title:       "Case deleted",
			Description: fmt.Sprintf("User %d deleted case %d (%s)", principal.ID, cs.ID, cs.Title),
			UserID:      &principal.ID,
			OrgID:       cs.OrgID,
		})
	}

	c.Status(http.StatusNoContent)
}
