// internal/services/notification_service.go
package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/recordsdesk/rmd-backend/internal/models"
	"github.com/recordsdesk/rmd-backend/internal/notify"
	"github.com/recordsdesk/rmd-backend/internal/utils"
	"github.com/recordsdesk/rmd-backend/internal/workflow"
)

// NotificationService serves the persisted notification feed. Live delivery
// goes over redis pub/sub; this is what clients poll to catch up.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// channelsFor lists every channel the user is an audience of: their private
// channel plus the pool channel their account type subscribes them to.
func channelsFor(user *models.User) []string {
	channels := []string{notify.UserChannel(user.ID)}

	switch user.AccountType {
	case models.AccountTypeAuthorization:
		channels = append(channels, notify.AuthorizationChannel(user.Department))
	case models.AccountTypeApproval:
		channels = append(channels, notify.ApprovalChannel())
	case models.AccountTypeManaging:
		channels = append(channels, notify.ManagingChannel(user.Section))
	}
	return channels
}

// ListForUser returns the user's notification feed, newest first.
func (s *NotificationService) ListForUser(user *models.User, params utils.PaginationParams) ([]models.Notification, int64, error) {
	query := s.db.Model(&models.Notification{}).
		Where("channel IN ?", channelsFor(user))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("database error: %w", err)
	}

	var notifications []models.Notification
	query = query.Order("created_at DESC")
	query = utils.ApplyPagination(query, params)
	if err := query.Find(&notifications).Error; err != nil {
		return nil, 0, fmt.Errorf("database error: %w", err)
	}
	return notifications, total, nil
}

// Latest returns the single most recent notification on the user's channels.
func (s *NotificationService) Latest(user *models.User) (*models.Notification, error) {
	var notification models.Notification
	err := s.db.Where("channel IN ?", channelsFor(user)).
		Order("created_at DESC").
		First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no notifications yet", workflow.ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &notification, nil
}
