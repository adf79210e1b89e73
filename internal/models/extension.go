// internal/models/extension.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// TimeExtension is a "more time" request raised by a requester who is about
// to miss (or has missed) a release or return deadline. While one is pending
// the request is excluded from the overdue dashboards.
type TimeExtension struct {
	BaseModel
	RequestID   uuid.UUID       `json:"request_id" gorm:"type:uuid;not null;index"`
	Request     *FileRequest    `json:"request,omitempty" gorm:"foreignKey:RequestID"`
	RequestedBy uuid.UUID       `json:"requested_by" gorm:"type:uuid;not null"`
	Reason      string          `json:"reason" gorm:"type:text"`
	Status      ExtensionStatus `json:"status" gorm:"type:varchar(10);default:'pending'"`
	ExpiresAt   time.Time       `json:"expires_at"`
}
