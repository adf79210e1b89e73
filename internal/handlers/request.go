// internal/handlers/request.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/recordsdesk/rmd-backend/internal/models"
	"github.com/recordsdesk/rmd-backend/internal/services"
	"github.com/recordsdesk/rmd-backend/internal/utils"
	"github.com/recordsdesk/rmd-backend/internal/workflow"
)

type RequestHandler struct {
	requestService *services.RequestService
	authService    *services.AuthService
}

func NewRequestHandler(requestService *services.RequestService, authService *services.AuthService) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
		authService:    authService,
	}
}

// DecisionRequest is the shared body of every stage decision endpoint. The
// acknowledgement endpoints ignore Decision and always accept.
type DecisionRequest struct {
	RequestID uuid.UUID `json:"request_id" binding:"required"`
	Decision  string    `json:"decision"`
	Remarks   string    `json:"remarks"`
}

// POST /requests
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	var input services.CreateRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	request, err := h.requestService.Create(user.ID, &input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, request)
}

// GET /requests/:id
func (h *RequestHandler) GetRequest(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid request ID", nil)
		return
	}

	request, err := h.requestService.GetRequest(requestID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, request)
}

// POST /authorization/request
func (h *RequestHandler) AuthorizeRequest(c *gin.Context) {
	h.decide(c, workflow.StageAuthorization, false)
}

// POST /approval/request
func (h *RequestHandler) ApproveRequest(c *gin.Context) {
	h.decide(c, workflow.StageApproval, false)
}

// POST /release/request
func (h *RequestHandler) ReleaseFile(c *gin.Context) {
	h.decide(c, workflow.StageFileRelease, false)
}

// POST /receive/request
func (h *RequestHandler) ConfirmReceipt(c *gin.Context) {
	h.decide(c, workflow.StageFileReceive, true)
}

// POST /return/request
func (h *RequestHandler) ReturnFile(c *gin.Context) {
	h.decide(c, workflow.StageFileReturn, true)
}

// POST /return/acknowledged
func (h *RequestHandler) AcknowledgeReturn(c *gin.Context) {
	h.decide(c, workflow.StageFileReturnAck, true)
}

func (h *RequestHandler) decide(c *gin.Context, stage workflow.Stage, ackOnly bool) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	decision := workflow.Decision(req.Decision)
	if ackOnly {
		decision = workflow.DecisionAccepted
	}

	request, err := h.requestService.ApplyDecision(req.RequestID, user, stage, decision, req.Remarks)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, request)
}

// GET /requests
func (h *RequestHandler) ListMyRequests(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	requests, total, err := h.requestService.ListByRequester(user.ID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if len(requests) == 0 {
		utils.EmptyResultResponse(c, "You have not made any requests yet")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(requests, total, params))
}

// GET /requests/status
func (h *RequestHandler) LatestStatus(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	view, err := h.requestService.LatestStatus(user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, view)
}

// GET /requests/search
func (h *RequestHandler) SearchRequests(c *gin.Context) {
	user, ok := currentUser(c, h.authService)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	requests, total, err := h.requestService.Search(user, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if len(requests) == 0 {
		utils.EmptyResultResponse(c, "No requests match your search")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(requests, total, params))
}

// GET /authorization/requests
func (h *RequestHandler) ListPendingAuthorization(c *gin.Context) {
	department, _ := utils.GetDepartmentFromContext(c)

	params := utils.GetPaginationParams(c)
	requests, total, err := h.requestService.ListPendingAuthorization(department, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if len(requests) == 0 {
		utils.EmptyResultResponse(c, "No requests awaiting authorization")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(requests, total, params))
}

// GET /authorization/requests/count
func (h *RequestHandler) CountPendingAuthorization(c *gin.Context) {
	department, _ := utils.GetDepartmentFromContext(c)

	count, err := h.requestService.CountPendingAuthorization(department)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"count": count})
}

// GET /authorization/requests/treated
func (h *RequestHandler) ListTreatedAuthorization(c *gin.Context) {
	department, _ := utils.GetDepartmentFromContext(c)

	var status models.StageOutcome
	switch c.Query("status") {
	case "accepted":
		status = models.StatusAccepted
	case "rejected":
		status = models.StatusRejected
	}

	params := utils.GetPaginationParams(c)
	requests, total, err := h.requestService.ListTreatedAuthorization(department, status, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if len(requests) == 0 {
		utils.EmptyResultResponse(c, "No treated requests yet")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(requests, total, params))
}

// GET /approval/requests
func (h *RequestHandler) ListPendingApproval(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	requests, total, err := h.requestService.ListPendingApproval(params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if len(requests) == 0 {
		utils.EmptyResultResponse(c, "No requests awaiting approval")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(requests, total, params))
}

// GET /approval/requests/count
func (h *RequestHandler) CountPendingApproval(c *gin.Context) {
	count, err := h.requestService.CountPendingApproval()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"count": count})
}

// GET /release/requests
func (h *RequestHandler) ListPendingRelease(c *gin.Context) {
	section, _ := utils.GetSectionFromContext(c)

	params := utils.GetPaginationParams(c)
	requests, total, err := h.requestService.ListPendingRelease(section, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if len(requests) == 0 {
		utils.EmptyResultResponse(c, "No files awaiting release")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(requests, total, params))
}

// GET /release/requests/count
func (h *RequestHandler) CountPendingRelease(c *gin.Context) {
	section, _ := utils.GetSectionFromContext(c)

	count, err := h.requestService.CountPendingRelease(section)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"count": count})
}

// GET /receive/requests/accepted
func (h *RequestHandler) ListReceived(c *gin.Context) {
	section, _ := utils.GetSectionFromContext(c)

	params := utils.GetPaginationParams(c)
	requests, total, err := h.requestService.ListReceived(section, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if len(requests) == 0 {
		utils.EmptyResultResponse(c, "No files are out with requesters")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(requests, total, params))
}
