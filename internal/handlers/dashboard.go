// internal/handlers/dashboard.go
package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/recordsdesk/rmd-backend/internal/services"
	"github.com/recordsdesk/rmd-backend/internal/utils"
)

// DashboardHandler serves the managing pool's overdue views. Lateness is
// evaluated at query time against the stored deadlines; there is no
// background sweep marking requests overdue.
type DashboardHandler struct {
	requestService *services.RequestService
}

func NewDashboardHandler(requestService *services.RequestService) *DashboardHandler {
	return &DashboardHandler{
		requestService: requestService,
	}
}

// GET /dashboard/overdue/releases
func (h *DashboardHandler) OverdueReleases(c *gin.Context) {
	section, _ := utils.GetSectionFromContext(c)

	requests, err := h.requestService.OverdueReleases(section, time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if len(requests) == 0 {
		utils.EmptyResultResponse(c, "No overdue releases")
		return
	}

	utils.SuccessResponse(c, requests)
}

// GET /dashboard/overdue/returns
func (h *DashboardHandler) OverdueReturns(c *gin.Context) {
	section, _ := utils.GetSectionFromContext(c)

	requests, err := h.requestService.OverdueReturns(section, time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if len(requests) == 0 {
		utils.EmptyResultResponse(c, "No overdue returns")
		return
	}

	utils.SuccessResponse(c, requests)
}
