// internal/handlers/common.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/recordsdesk/rmd-backend/internal/models"
	"github.com/recordsdesk/rmd-backend/internal/services"
	"github.com/recordsdesk/rmd-backend/internal/utils"
	"github.com/recordsdesk/rmd-backend/internal/workflow"
)

// respondServiceError maps the workflow error taxonomy onto the response
// envelope. Anything outside the taxonomy is a server fault.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, workflow.ErrNotFound):
		utils.NotFoundResponse(c, err.Error())
	case errors.Is(err, workflow.ErrForbidden):
		utils.ForbiddenResponse(c, err.Error())
	case errors.Is(err, workflow.ErrInvalidTransition):
		utils.BadRequestResponse(c, err.Error(), nil)
	case errors.Is(err, workflow.ErrValidation):
		utils.BadRequestResponse(c, err.Error(), nil)
	default:
		utils.InternalErrorResponse(c, "")
	}
}

// currentUser loads the authenticated caller's full account record. The
// middleware guarantees user_id is present on authenticated routes.
func currentUser(c *gin.Context, authService *services.AuthService) (*models.User, bool) {
	userIDStr, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.UnauthorizedResponse(c, "Invalid user ID")
		return nil, false
	}

	user, err := authService.GetUserByID(userID)
	if err != nil {
		utils.UnauthorizedResponse(c, "User not found")
		return nil, false
	}
	return user, true
}
