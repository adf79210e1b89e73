// internal/handlers/notification.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/recordsdesk/rmd-backend/internal/services"
	"github.com/recordsdesk/rmd-backend/internal/utils"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
	authService         *services.AuthService
}

func NewNotificationHandler(notificationService *services.NotificationService, authService *services.AuthService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		authService:         authService,
	}
}

// GET /notifications
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	notifications, total, err := h.notificationService.ListForUser(user, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if len(notifications) == 0 {
		utils.EmptyResultResponse(c, "No notifications yet")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(notifications, total, params))
}

// GET /notifications/latest
func (h *NotificationHandler) LatestNotification(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	notification, err := h.notificationService.Latest(user)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, notification)
}
