// internal/services/request_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/recordsdesk/rmd-backend/internal/database"
	"github.com/recordsdesk/rmd-backend/internal/models"
	"github.com/recordsdesk/rmd-backend/internal/notify"
	"github.com/recordsdesk/rmd-backend/internal/utils"
	"github.com/recordsdesk/rmd-backend/internal/workflow"
)

// RequestService owns the file request lifecycle: creation, stage decisions
// and the query surface the role dashboards are built on.
type RequestService struct {
	db         *gorm.DB
	engine     *workflow.Engine
	dispatcher *notify.Dispatcher
}

func NewRequestService(db *gorm.DB, engine *workflow.Engine, dispatcher *notify.Dispatcher) *RequestService {
	return &RequestService{
		db:         db,
		engine:     engine,
		dispatcher: dispatcher,
	}
}

type CreateRequestInput struct {
	CompanyName        string                 `json:"company_name" validate:"required,notblank,max=255"`
	RegistrationNumber string                 `json:"registration_number" validate:"required,notblank,max=50"`
	ReferenceNumber    string                 `json:"reference_number" validate:"required,notblank,max=50"`
	Purpose            string                 `json:"purpose" validate:"required,notblank"`
	CompanyCategory    models.CompanyCategory `json:"company_category" validate:"required,oneof=IT BN LLC/GTE"`
}

// Create opens a new request on behalf of the requester. The handling
// section is fixed here from the routing table and the authorization stage
// enters the queue immediately.
func (s *RequestService) Create(requesterID uuid.UUID, input *CreateRequestInput) (*models.FileRequest, error) {
	input.CompanyName = strings.TrimSpace(input.CompanyName)
	input.RegistrationNumber = strings.TrimSpace(input.RegistrationNumber)
	input.ReferenceNumber = strings.TrimSpace(input.ReferenceNumber)
	input.Purpose = strings.TrimSpace(input.Purpose)

	if err := utils.ValidateStruct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", workflow.ErrValidation, err)
	}

	var requester models.User
	if err := s.db.First(&requester, requesterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: requester not found", workflow.ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	now := time.Now().UTC()
	request := &models.FileRequest{
		RequesterID:        requester.ID,
		CompanyName:        input.CompanyName,
		RegistrationNumber: input.RegistrationNumber,
		ReferenceNumber:    input.ReferenceNumber,
		Purpose:            input.Purpose,
		CompanyCategory:    input.CompanyCategory,
		Section:            workflow.AssignSection(input.CompanyCategory, input.RegistrationNumber),
		Department:         requester.Department,
		CurrentStep:        0,
		Authorization:      models.StageRecord{Status: models.StatusPending, DateReceived: &now},
		Approval:           models.StageRecord{Status: models.StatusPending},
		FileRelease:        models.StageRecord{Status: models.StatusPending},
		FileReceive:        models.StageRecord{Status: models.StatusPending},
		FileReturn:         models.StageRecord{Status: models.StatusPending},
	}

	if err := s.db.Create(request).Error; err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	request.Requester = &requester
	go s.dispatcher.DispatchCreated(request, &requester)

	return request, nil
}

// ApplyDecision runs one stage transition. The request row is loaded under a
// write lock so two concurrent decisions on the same stage serialize; the
// loser re-reads a non-pending stage and fails the precondition check.
// Notifications fan out only after the transaction commits.
func (s *RequestService) ApplyDecision(requestID uuid.UUID, actor *models.User, stage workflow.Stage, decision workflow.Decision, remarks string) (*models.FileRequest, error) {
	var request models.FileRequest

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&request, requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: request not found", workflow.ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}

		if _, err := s.engine.Apply(&request, stage, workflow.ActorFromUser(actor), decision, remarks, time.Now()); err != nil {
			return err
		}

		return tx.Save(&request).Error
	})
	if err != nil {
		return nil, err
	}

	// Hydrate the requester for the notification wordings.
	var requester models.User
	if err := s.db.First(&requester, request.RequesterID).Error; err == nil {
		request.Requester = &requester
	}

	go s.dispatcher.DispatchDecision(&request, actor, stage, decision)

	return &request, nil
}

func (s *RequestService) GetRequest(requestID uuid.UUID) (*models.FileRequest, error) {
	var request models.FileRequest
	if err := s.db.Preload("Requester").First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: request not found", workflow.ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &request, nil
}

// ListByRequester returns the requester's own requests, newest first.
func (s *RequestService) ListByRequester(requesterID uuid.UUID, params utils.PaginationParams) ([]models.FileRequest, int64, error) {
	query := s.db.Model(&models.FileRequest{}).Where("requester_id = ?", requesterID)
	return s.listRequests(query, params)
}

// LatestStatus projects the requester's most recent request into its display
// record.
func (s *RequestService) LatestStatus(requesterID uuid.UUID) (*workflow.RequestView, error) {
	var request models.FileRequest
	err := s.db.Where("requester_id = ?", requesterID).
		Order("created_at DESC").
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no requests yet", workflow.ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	view := workflow.Project(&request)
	return &view, nil
}

// ListPendingAuthorization is the authorization pool's inbox: requests from
// the pool's department still waiting on the first stage.
func (s *RequestService) ListPendingAuthorization(department string, params utils.PaginationParams) ([]models.FileRequest, int64, error) {
	query := s.db.Model(&models.FileRequest{}).
		Preload("Requester").
		Where("department = ? AND authorization_status = ?", department, models.StatusPending)
	return s.listRequests(query, params)
}

func (s *RequestService) CountPendingAuthorization(department string) (int64, error) {
	var count int64
	err := s.db.Model(&models.FileRequest{}).
		Where("department = ? AND authorization_status = ?", department, models.StatusPending).
		Count(&count).Error
	return count, err
}

// ListTreatedAuthorization returns requests the department's pool has already
// decided, optionally filtered to accepted or rejected.
func (s *RequestService) ListTreatedAuthorization(department string, status models.StageOutcome, params utils.PaginationParams) ([]models.FileRequest, int64, error) {
	query := s.db.Model(&models.FileRequest{}).
		Preload("Requester").
		Where("department = ?", department)

	if status != "" {
		query = query.Where("authorization_status = ?", status)
	} else {
		query = query.Where("authorization_status <> ?", models.StatusPending)
	}
	return s.listRequests(query, params)
}

// ListPendingApproval is the registry-wide approval inbox: authorized
// requests waiting on the second stage.
func (s *RequestService) ListPendingApproval(params utils.PaginationParams) ([]models.FileRequest, int64, error) {
	query := s.db.Model(&models.FileRequest{}).
		Preload("Requester").
		Where("authorization_status = ? AND approval_status = ?", models.StatusAccepted, models.StatusPending)
	return s.listRequests(query, params)
}

func (s *RequestService) CountPendingApproval() (int64, error) {
	var count int64
	err := s.db.Model(&models.FileRequest{}).
		Where("authorization_status = ? AND approval_status = ?", models.StatusAccepted, models.StatusPending).
		Count(&count).Error
	return count, err
}

// ListPendingRelease is a section's release queue: approved requests whose
// file has not left the records unit yet.
func (s *RequestService) ListPendingRelease(section string, params utils.PaginationParams) ([]models.FileRequest, int64, error) {
	query := s.db.Model(&models.FileRequest{}).
		Preload("Requester").
		Where("section = ? AND approval_status = ? AND file_release_status = ?",
			section, models.StatusAccepted, models.StatusPending)
	return s.listRequests(query, params)
}

func (s *RequestService) CountPendingRelease(section string) (int64, error) {
	var count int64
	err := s.db.Model(&models.FileRequest{}).
		Where("section = ? AND approval_status = ? AND file_release_status = ?",
			section, models.StatusAccepted, models.StatusPending).
		Count(&count).Error
	return count, err
}

// ListReceived returns a section's files currently out with requesters:
// receipt confirmed, return not yet acknowledged.
func (s *RequestService) ListReceived(section string, params utils.PaginationParams) ([]models.FileRequest, int64, error) {
	query := s.db.Model(&models.FileRequest{}).
		Preload("Requester").
		Where("section = ? AND file_state_is_received = ? AND file_state_is_returned = ?",
			section, true, false)
	return s.listRequests(query, params)
}

// Search matches company name, registration number or reference number,
// scoped to what the caller is allowed to see: staff see their own requests,
// authorization pools their department, managing pools their section and the
// approval pool everything.
func (s *RequestService) Search(actor *models.User, params utils.PaginationParams) ([]models.FileRequest, int64, error) {
	query := s.db.Model(&models.FileRequest{}).Preload("Requester")

	switch actor.AccountType {
	case models.AccountTypeStaff:
		query = query.Where("requester_id = ?", actor.ID)
	case models.AccountTypeAuthorization:
		query = query.Where("department = ?", actor.Department)
	case models.AccountTypeManaging:
		query = query.Where("section = ?", actor.Section)
	}

	if params.Search != "" {
		term := "%" + params.Search + "%"
		query = query.Where(
			"company_name ILIKE ? OR registration_number ILIKE ? OR reference_number ILIKE ?",
			term, term, term,
		)
	}
	return s.listRequests(query, params)
}

// OverdueReleases lists a section's requests whose release window has passed
// with the file still in the records unit. Requests with a live pending time
// extension are excluded until the extension lapses or is resolved.
func (s *RequestService) OverdueReleases(section string, now time.Time) ([]models.FileRequest, error) {
	var requests []models.FileRequest
	err := s.db.Preload("Requester").
		Where("section = ? AND approval_status = ? AND file_release_status = ?",
			section, models.StatusAccepted, models.StatusPending).
		Where("file_release_deadline IS NOT NULL AND file_release_deadline < ?", now.UTC()).
		Where("id NOT IN (?)", s.pendingExtensionRequestIDs(now)).
		Order("file_release_deadline ASC").
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return requests, nil
}

// OverdueReturns lists a section's files that are out past their return
// window and not yet back in custody.
func (s *RequestService) OverdueReturns(section string, now time.Time) ([]models.FileRequest, error) {
	var requests []models.FileRequest
	err := s.db.Preload("Requester").
		Where("section = ? AND file_state_is_received = ? AND file_state_is_returned = ?",
			section, true, false).
		Where("file_return_deadline IS NOT NULL AND file_return_deadline < ?", now.UTC()).
		Where("id NOT IN (?)", s.pendingExtensionRequestIDs(now)).
		Order("file_return_deadline ASC").
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return requests, nil
}

func (s *RequestService) pendingExtensionRequestIDs(now time.Time) *gorm.DB {
	return s.db.Model(&models.TimeExtension{}).
		Select("request_id").
		Where("status = ? AND expires_at > ?", models.ExtensionStatusPending, now.UTC())
}

func (s *RequestService) listRequests(query *gorm.DB, params utils.PaginationParams) ([]models.FileRequest, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	var requests []models.FileRequest
	query = utils.ApplySort(query, params, []string{"created_at", "updated_at", "company_name", "current_step"})
	query = utils.ApplyPagination(query, params)
	if err := query.Find(&requests).Error; err != nil {
		return nil, 0, fmt.Errorf("database error: %w", err)
	}
	return requests, total, nil
}
