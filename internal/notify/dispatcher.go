// internal/notify/dispatcher.go
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/recordsdesk/rmd-backend/internal/models"
	"github.com/recordsdesk/rmd-backend/internal/workflow"
)

// Message is the single real-time event payload published on every channel.
type Message struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Tag     string `json:"tag"`
}

// Delivery pairs a message with the channel it goes to plus the scoping
// fields persisted alongside it for polling clients.
type Delivery struct {
	Channel     string
	Message     Message
	RecipientID *uuid.UUID
	Department  string
	Section     string
}

// Dispatcher fans a domain event out to its audience channels. Every
// delivery is persisted and then published to redis; both steps are
// best-effort and never block or roll back the state transition that
// produced the event.
type Dispatcher struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewDispatcher(db *gorm.DB, rdb *redis.Client) *Dispatcher {
	return &Dispatcher{db: db, rdb: rdb}
}

// DispatchCreated notifies the department's authorization pool that a new
// request is waiting.
func (d *Dispatcher) DispatchCreated(req *models.FileRequest, requester *models.User) {
	d.deliver(ResolveCreated(req, requester))
}

// DispatchDecision notifies the audience of an accepted or rejected stage
// transition.
func (d *Dispatcher) DispatchDecision(req *models.FileRequest, actor *models.User, stage workflow.Stage, decision workflow.Decision) {
	d.deliver(ResolveDecision(req, actor, stage, decision))
}

// DispatchExtension notifies the section's managing pool that a requester
// asked for more time on a file.
func (d *Dispatcher) DispatchExtension(req *models.FileRequest, requester *models.User) {
	d.deliver(ResolveExtension(req, requester))
}

func (d *Dispatcher) deliver(deliveries []Delivery) {
	ctx := context.Background()

	for _, delivery := range deliveries {
		published := d.publish(ctx, delivery)

		notification := &models.Notification{
			Channel:     delivery.Channel,
			RecipientID: delivery.RecipientID,
			Department:  delivery.Department,
			Section:     delivery.Section,
			Subject:     delivery.Message.Subject,
			Body:        delivery.Message.Body,
			Tag:         delivery.Message.Tag,
			Delivered:   published,
		}
		if err := d.db.Create(notification).Error; err != nil {
			logrus.WithError(err).WithField("channel", delivery.Channel).
				Warn("Failed to persist notification")
		}
	}
}

func (d *Dispatcher) publish(ctx context.Context, delivery Delivery) bool {
	if d.rdb == nil {
		return false
	}

	payload, err := json.Marshal(delivery.Message)
	if err != nil {
		logrus.WithError(err).Warn("Failed to encode notification")
		return false
	}

	if err := d.rdb.Publish(ctx, delivery.Channel, payload).Err(); err != nil {
		logrus.WithError(err).WithField("channel", delivery.Channel).
			Warn("Failed to publish notification")
		return false
	}
	return true
}

// ResolveCreated, ResolveDecision and ResolveExtension map an event to its
// audience channels. They are pure so the channel routing can be tested
// without a store or a broker.

func ResolveCreated(req *models.FileRequest, requester *models.User) []Delivery {
	return []Delivery{{
		Channel:    AuthorizationChannel(req.Department),
		Department: req.Department,
		Message: Message{
			Subject: "Request Authorization",
			Body:    fmt.Sprintf("A new file (%s) request from %s is awaiting your authorization", req.CompanyName, requester.Name),
			Tag:     req.ID.String(),
		},
	}}
}

func ResolveDecision(req *models.FileRequest, actor *models.User, stage workflow.Stage, decision workflow.Decision) []Delivery {
	switch stage {
	case workflow.StageAuthorization:
		return resolveAuthorization(req, decision)
	case workflow.StageApproval:
		return resolveApproval(req, decision)
	case workflow.StageFileRelease:
		return resolveRelease(req, decision)
	case workflow.StageFileReceive:
		return resolveReceipt(req, actor)
	case workflow.StageFileReturn:
		return resolveReturn(req, actor)
	case workflow.StageFileReturnAck:
		return resolveReturnAck(req)
	}
	return nil
}

func resolveAuthorization(req *models.FileRequest, decision workflow.Decision) []Delivery {
	subject := "Request Authorized"
	body := "Your request is Approved by the authorizing officer"
	if decision == workflow.DecisionRejected {
		subject = "Request Declined"
		body = "Your request is Disapproved by the authorizing officer"
	}

	deliveries := []Delivery{requesterDelivery(req, subject, body)}

	if decision == workflow.DecisionAccepted {
		deliveries = append(deliveries, Delivery{
			Channel: ApprovalChannel(),
			Message: Message{
				Subject: "Request Approval",
				Body:    fmt.Sprintf("A new file request is awaiting your approval from %s", requesterName(req)),
				Tag:     req.RequesterID.String(),
			},
		})
	}
	return deliveries
}

func resolveApproval(req *models.FileRequest, decision workflow.Decision) []Delivery {
	subject := "Request Approved by the RMD"
	body := "Your request is Approved and will soon be released"
	if decision == workflow.DecisionRejected {
		subject = "Request Disapproved by the RMD"
		body = "Your request is Disapproved"
	}

	deliveries := []Delivery{requesterDelivery(req, subject, body)}

	if decision == workflow.DecisionAccepted {
		deliveries = append(deliveries, Delivery{
			Channel: ManagingChannel(req.Section),
			Section: req.Section,
			Message: Message{
				Subject: "New File Request",
				Body:    fmt.Sprintf("You have a new file request from %s of %s", requesterName(req), req.Department),
				Tag:     req.ID.String(),
			},
		})
	}
	return deliveries
}

func resolveRelease(req *models.FileRequest, decision workflow.Decision) []Delivery {
	if decision == workflow.DecisionRejected {
		return []Delivery{requesterDelivery(req,
			"File Release Declined",
			fmt.Sprintf("The release of the file (%s) was declined by the records unit", req.CompanyName),
		)}
	}
	return []Delivery{requesterDelivery(req,
		"Your Requested File Is On It's Way",
		fmt.Sprintf("The file (%s) you requested is on it's way to you from the RMD", req.CompanyName),
	)}
}

func resolveReceipt(req *models.FileRequest, actor *models.User) []Delivery {
	// Acknowledge receipt to whoever released the file.
	if req.FileRelease.TreatedBy == nil {
		return nil
	}
	releaser := *req.FileRelease.TreatedBy
	return []Delivery{{
		Channel:     UserChannel(releaser),
		RecipientID: &releaser,
		Message: Message{
			Subject: "Receipt Acknowledged",
			Body:    fmt.Sprintf("The receipt of '%s' has been acknowledged by %s", req.CompanyName, actor.Name),
			Tag:     req.CompanyName,
		},
	}}
}

func resolveReturn(req *models.FileRequest, actor *models.User) []Delivery {
	return []Delivery{{
		Channel: ManagingChannel(req.Section),
		Section: req.Section,
		Message: Message{
			Subject: "File Return",
			Body:    fmt.Sprintf("%s is returning a file (%s)", actor.Name, req.CompanyName),
			Tag:     req.ID.String(),
		},
	}}
}

func resolveReturnAck(req *models.FileRequest) []Delivery {
	return []Delivery{requesterDelivery(req,
		"File Return Acknowledged",
		fmt.Sprintf("The file (%s) has been received by the RMD", req.CompanyName),
	)}
}

func ResolveExtension(req *models.FileRequest, requester *models.User) []Delivery {
	return []Delivery{{
		Channel: ManagingChannel(req.Section),
		Section: req.Section,
		Message: Message{
			Subject: "Additional Time Request",
			Body:    fmt.Sprintf("%s is requesting for additional time for a file (%s)", requester.Name, req.CompanyName),
			Tag:     requester.ID.String(),
		},
	}}
}

func requesterDelivery(req *models.FileRequest, subject, body string) Delivery {
	recipient := req.RequesterID
	return Delivery{
		Channel:     UserChannel(recipient),
		RecipientID: &recipient,
		Message: Message{
			Subject: subject,
			Body:    body,
			Tag:     req.ID.String(),
		},
	}
}

func requesterName(req *models.FileRequest) string {
	if req.Requester != nil {
		return req.Requester.Name
	}
	return "a staff member"
}
