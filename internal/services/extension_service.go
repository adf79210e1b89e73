// internal/services/extension_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recordsdesk/rmd-backend/internal/config"
	"github.com/recordsdesk/rmd-backend/internal/models"
	"github.com/recordsdesk/rmd-backend/internal/notify"
	"github.com/recordsdesk/rmd-backend/internal/utils"
	"github.com/recordsdesk/rmd-backend/internal/workflow"
)

// ExtensionService manages "more time" requests. A pending extension keeps
// its file request off the overdue dashboards until the managing pool
// resolves it or the extension itself expires.
type ExtensionService struct {
	db         *gorm.DB
	cfg        config.WorkflowConfig
	dispatcher *notify.Dispatcher
}

func NewExtensionService(db *gorm.DB, cfg config.WorkflowConfig, dispatcher *notify.Dispatcher) *ExtensionService {
	return &ExtensionService{
		db:         db,
		cfg:        cfg,
		dispatcher: dispatcher,
	}
}

type CreateExtensionInput struct {
	RequestID uuid.UUID `json:"request_id" validate:"required"`
	Reason    string    `json:"reason" validate:"required,notblank"`
}

func (s *ExtensionService) Create(requester *models.User, input *CreateExtensionInput) (*models.TimeExtension, error) {
	input.Reason = strings.TrimSpace(input.Reason)
	if err := utils.ValidateStruct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", workflow.ErrValidation, err)
	}

	var request models.FileRequest
	if err := s.db.First(&request, input.RequestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: request not found", workflow.ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if request.RequesterID != requester.ID {
		return nil, fmt.Errorf("%w: only the requester may ask for more time", workflow.ErrForbidden)
	}

	now := time.Now().UTC()

	// One live extension per request at a time.
	var pending int64
	err := s.db.Model(&models.TimeExtension{}).
		Where("request_id = ? AND status = ? AND expires_at > ?",
			request.ID, models.ExtensionStatusPending, now).
		Count(&pending).Error
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if pending > 0 {
		return nil, fmt.Errorf("%w: an extension request is already pending", workflow.ErrValidation)
	}

	extension := &models.TimeExtension{
		RequestID:   request.ID,
		RequestedBy: requester.ID,
		Reason:      input.Reason,
		Status:      models.ExtensionStatusPending,
		ExpiresAt:   now.Add(s.cfg.ExtensionTTL()),
	}

	if err := s.db.Create(extension).Error; err != nil {
		return nil, fmt.Errorf("failed to create extension: %w", err)
	}

	go s.dispatcher.DispatchExtension(&request, requester)

	return extension, nil
}

// ListPending returns a section's open extension requests, oldest first, with
// the file request they belong to.
func (s *ExtensionService) ListPending(section string, params utils.PaginationParams) ([]models.TimeExtension, int64, error) {
	now := time.Now().UTC()

	query := s.db.Model(&models.TimeExtension{}).
		Preload("Request").
		Preload("Request.Requester").
		Joins("JOIN file_requests ON file_requests.id = time_extensions.request_id").
		Where("file_requests.section = ? AND time_extensions.status = ? AND time_extensions.expires_at > ?",
			section, models.ExtensionStatusPending, now)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	var extensions []models.TimeExtension
	query = query.Order("time_extensions.created_at ASC")
	query = utils.ApplyPagination(query, params)
	if err := query.Find(&extensions).Error; err != nil {
		return nil, 0, fmt.Errorf("database error: %w", err)
	}
	return extensions, total, nil
}

// Resolve grants or declines a pending extension. The resolving account must
// manage the section handling the underlying file request.
func (s *ExtensionService) Resolve(extensionID uuid.UUID, actor *models.User, status models.ExtensionStatus) (*models.TimeExtension, error) {
	if status != models.ExtensionStatusGranted && status != models.ExtensionStatusDeclined {
		return nil, fmt.Errorf("%w: unknown extension resolution %q", workflow.ErrValidation, status)
	}

	var extension models.TimeExtension
	if err := s.db.Preload("Request").First(&extension, extensionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: extension not found", workflow.ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if extension.Request == nil || actor.Section != extension.Request.Section {
		return nil, fmt.Errorf("%w: extension is handled by another section", workflow.ErrForbidden)
	}

	if extension.Status != models.ExtensionStatusPending {
		return nil, fmt.Errorf("%w: extension is already %s", workflow.ErrInvalidTransition, extension.Status)
	}

	extension.Status = status
	if err := s.db.Save(&extension).Error; err != nil {
		return nil, fmt.Errorf("failed to update extension: %w", err)
	}
	return &extension, nil
}
