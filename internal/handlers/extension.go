// internal/handlers/extension.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/recordsdesk/rmd-backend/internal/models"
	"github.com/recordsdesk/rmd-backend/internal/services"
	"github.com/recordsdesk/rmd-backend/internal/utils"
)

type ExtensionHandler struct {
	extensionService *services.ExtensionService
	authService      *services.AuthService
}

func NewExtensionHandler(extensionService *services.ExtensionService, authService *services.AuthService) *ExtensionHandler {
	return &ExtensionHandler{
		extensionService: extensionService,
		authService:      authService,
	}
}

// POST /extensions
func (h *ExtensionHandler) CreateExtension(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	var input services.CreateExtensionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	extension, err := h.extensionService.Create(user, &input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, extension)
}

// GET /extensions
func (h *ExtensionHandler) ListPendingExtensions(c *gin.Context) {
	section, _ := utils.GetSectionFromContext(c)

	params := utils.GetPaginationParams(c)
	extensions, total, err := h.extensionService.ListPending(section, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if len(extensions) == 0 {
		utils.EmptyResultResponse(c, "No pending time extensions")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(extensions, total, params))
}

// PATCH /extensions/:id
func (h *ExtensionHandler) ResolveExtension(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	extensionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid extension ID", nil)
		return
	}

	var req struct {
		Status models.ExtensionStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	extension, err := h.extensionService.Resolve(extensionID, user, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, extension)
}
