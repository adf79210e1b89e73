// internal/models/request.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// StageRecord tracks one custody stage of a file request. DateReceived is
// stamped once, when the previous stage is accepted and this stage enters
// the queue; DateTreated is stamped once, when the stage's actor decides it.
// Deadline and MetLate are only used on the release and return stages.
type StageRecord struct {
	Status       StageOutcome `json:"status" gorm:"type:varchar(10);default:'pending'"`
	Remarks      string       `json:"remarks" gorm:"type:text"`
	TreatedBy    *uuid.UUID   `json:"treated_by" gorm:"type:uuid"`
	DateReceived *time.Time   `json:"date_received"`
	DateTreated  *time.Time   `json:"date_treated"`
	Deadline     *time.Time   `json:"deadline,omitempty"`
	MetLate      *bool        `json:"met_late,omitempty"`
}

// FileState mirrors the terminal custody flags for quick filtering.
type FileState struct {
	IsReceived bool `json:"is_received" gorm:"default:false"`
	IsReturned bool `json:"is_returned" gorm:"default:false"`
}

// FileRequest is a company-file retrieval request moving through the fixed
// custody chain: authorization, approval, file release, file receipt and an
// optional return leg.
//
// CurrentStep is a derived cache of progress (the index of the stage that is
// currently actionable, equal to the count of accepted core stages); the
// per-stage statuses are the source of truth.
type FileRequest struct {
	BaseModel
	RequesterID uuid.UUID `json:"requester_id" gorm:"type:uuid;not null;index"`
	Requester   *User     `json:"requester,omitempty" gorm:"foreignKey:RequesterID"`

	CompanyName        string          `json:"company_name" gorm:"size:255;not null"`
	RegistrationNumber string          `json:"registration_number" gorm:"size:50;not null"`
	ReferenceNumber    string          `json:"reference_number" gorm:"size:50;not null"`
	Purpose            string          `json:"purpose" gorm:"type:text;not null"`
	CompanyCategory    CompanyCategory `json:"company_category" gorm:"type:varchar(10);not null"`

	// Section is assigned at creation from the routing table and never changes.
	// Department is denormalized from the requester so pool-scoped queries do
	// not need a join.
	Section    string `json:"section" gorm:"size:50;index"`
	Department string `json:"department" gorm:"size:100;index"`

	CurrentStep int `json:"current_step" gorm:"default:0"`

	Authorization StageRecord `json:"authorization" gorm:"embedded;embeddedPrefix:authorization_"`
	Approval      StageRecord `json:"approval" gorm:"embedded;embeddedPrefix:approval_"`
	FileRelease   StageRecord `json:"file_release" gorm:"embedded;embeddedPrefix:file_release_"`
	FileReceive   StageRecord `json:"file_receive" gorm:"embedded;embeddedPrefix:file_receive_"`
	FileReturn    StageRecord `json:"file_return" gorm:"embedded;embeddedPrefix:file_return_"`

	ReturnAcknowledgedBy *uuid.UUID `json:"return_acknowledged_by,omitempty" gorm:"type:uuid"`
	ReturnAcknowledgedAt *time.Time `json:"return_acknowledged_at,omitempty"`

	FileState FileState `json:"file_state" gorm:"embedded;embeddedPrefix:file_state_"`
}

// Rejected reports whether any stage has been rejected, which closes the
// chain: nothing after a rejection ever leaves pending.
func (r *FileRequest) Rejected() bool {
	return r.Authorization.Status == StatusRejected ||
		r.Approval.Status == StatusRejected ||
		r.FileRelease.Status == StatusRejected
}
