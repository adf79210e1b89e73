// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// Enums
type AccountType string

const (
	AccountTypeStaff         AccountType = "Staff Account"
	AccountTypeAuthorization AccountType = "Authorization Account"
	AccountTypeApproval      AccountType = "Approval Account"
	AccountTypeManaging      AccountType = "Managing Account"
)

type CompanyCategory string

const (
	CategoryIncorporatedTrustee CompanyCategory = "IT"
	CategoryBusinessName        CompanyCategory = "BN"
	CategoryLLC                 CompanyCategory = "LLC/GTE"
)

// StageOutcome is the per-stage status of a file request. StatusReturn is
// only valid on the file-return stage, while the file is in transit back to
// the records unit.
type StageOutcome string

const (
	StatusPending  StageOutcome = "pending"
	StatusAccepted StageOutcome = "accepted"
	StatusRejected StageOutcome = "rejected"
	StatusReturn   StageOutcome = "return"
)

type ExtensionStatus string

const (
	ExtensionStatusPending  ExtensionStatus = "pending"
	ExtensionStatusGranted  ExtensionStatus = "granted"
	ExtensionStatusDeclined ExtensionStatus = "declined"
)
