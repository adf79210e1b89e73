// internal/models/notification.go
package models

import "github.com/google/uuid"

// Notification is the persisted copy of a channel delivery. The real-time
// publish is fire-and-forget; this row is what polling clients fall back on
// when they missed the live event.
type Notification struct {
	BaseModel
	Channel     string     `json:"channel" gorm:"size:150;not null;index"`
	RecipientID *uuid.UUID `json:"recipient_id,omitempty" gorm:"type:uuid;index"`
	Department  string     `json:"department,omitempty" gorm:"size:100;index"`
	Section     string     `json:"section,omitempty" gorm:"size:50;index"`
	Subject     string     `json:"subject" gorm:"size:255"`
	Body        string     `json:"body" gorm:"type:text"`
	Tag         string     `json:"tag" gorm:"size:100"`
	Delivered   bool       `json:"delivered" gorm:"default:false"`
}
