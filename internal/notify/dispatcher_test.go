// internal/notify/dispatcher_test.go
package notify

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recordsdesk/rmd-backend/internal/models"
	"github.com/recordsdesk/rmd-backend/internal/workflow"
)

func fixtureRequest() (*models.FileRequest, *models.User) {
	requester := &models.User{
		BaseModel:  models.BaseModel{ID: uuid.New()},
		Name:       "Ada Okafor",
		Department: "Compliance",
	}
	releaser := uuid.New()
	req := &models.FileRequest{
		BaseModel:   models.BaseModel{ID: uuid.New()},
		RequesterID: requester.ID,
		Requester:   requester,
		CompanyName: "Acme Holdings",
		Section:     "Wing A",
		Department:  "Compliance",
		FileRelease: models.StageRecord{TreatedBy: &releaser},
	}
	return req, requester
}

func TestResolveCreated(t *testing.T) {
	req, requester := fixtureRequest()

	deliveries := ResolveCreated(req, requester)

	require.Len(t, deliveries, 1)
	assert.Equal(t, "Authorization Account Compliance", deliveries[0].Channel)
	assert.Equal(t, "Compliance", deliveries[0].Department)
	assert.Equal(t, "Request Authorization", deliveries[0].Message.Subject)
	assert.Contains(t, deliveries[0].Message.Body, "Acme Holdings")
	assert.Contains(t, deliveries[0].Message.Body, "Ada Okafor")
}

func TestResolveAuthorizationAccepted(t *testing.T) {
	req, requester := fixtureRequest()

	deliveries := ResolveDecision(req, requester, workflow.StageAuthorization, workflow.DecisionAccepted)

	require.Len(t, deliveries, 2)
	assert.Equal(t, requester.ID.String(), deliveries[0].Channel)
	assert.Equal(t, "Request Authorized", deliveries[0].Message.Subject)
	assert.Equal(t, "Approval Account", deliveries[1].Channel)
	assert.Equal(t, "Request Approval", deliveries[1].Message.Subject)
}

func TestResolveAuthorizationRejected(t *testing.T) {
	req, requester := fixtureRequest()

	deliveries := ResolveDecision(req, requester, workflow.StageAuthorization, workflow.DecisionRejected)

	// A declined request never reaches the approval pool.
	require.Len(t, deliveries, 1)
	assert.Equal(t, requester.ID.String(), deliveries[0].Channel)
	assert.Equal(t, "Request Declined", deliveries[0].Message.Subject)
}

func TestResolveApprovalAccepted(t *testing.T) {
	req, requester := fixtureRequest()

	deliveries := ResolveDecision(req, requester, workflow.StageApproval, workflow.DecisionAccepted)

	require.Len(t, deliveries, 2)
	assert.Equal(t, "Request Approved by the RMD", deliveries[0].Message.Subject)
	assert.Equal(t, "Managing Account Wing A", deliveries[1].Channel)
	assert.Equal(t, "Wing A", deliveries[1].Section)
	assert.Equal(t, "New File Request", deliveries[1].Message.Subject)
	assert.Contains(t, deliveries[1].Message.Body, "Ada Okafor")
	assert.Contains(t, deliveries[1].Message.Body, "Compliance")
}

func TestResolveRelease(t *testing.T) {
	req, requester := fixtureRequest()

	accepted := ResolveDecision(req, requester, workflow.StageFileRelease, workflow.DecisionAccepted)
	require.Len(t, accepted, 1)
	assert.Equal(t, requester.ID.String(), accepted[0].Channel)
	assert.Equal(t, "Your Requested File Is On It's Way", accepted[0].Message.Subject)

	rejected := ResolveDecision(req, requester, workflow.StageFileRelease, workflow.DecisionRejected)
	require.Len(t, rejected, 1)
	assert.Equal(t, "File Release Declined", rejected[0].Message.Subject)
}

func TestResolveReceiptGoesToReleaser(t *testing.T) {
	req, requester := fixtureRequest()
	releaser := *req.FileRelease.TreatedBy

	deliveries := ResolveDecision(req, requester, workflow.StageFileReceive, workflow.DecisionAccepted)

	require.Len(t, deliveries, 1)
	assert.Equal(t, releaser.String(), deliveries[0].Channel)
	assert.Equal(t, "Receipt Acknowledged", deliveries[0].Message.Subject)
	require.NotNil(t, deliveries[0].RecipientID)
	assert.Equal(t, releaser, *deliveries[0].RecipientID)
}

func TestResolveReceiptWithoutReleaser(t *testing.T) {
	req, requester := fixtureRequest()
	req.FileRelease.TreatedBy = nil

	deliveries := ResolveDecision(req, requester, workflow.StageFileReceive, workflow.DecisionAccepted)
	assert.Empty(t, deliveries)
}

func TestResolveReturnLeg(t *testing.T) {
	req, requester := fixtureRequest()

	started := ResolveDecision(req, requester, workflow.StageFileReturn, workflow.DecisionAccepted)
	require.Len(t, started, 1)
	assert.Equal(t, "Managing Account Wing A", started[0].Channel)
	assert.Equal(t, "File Return", started[0].Message.Subject)

	acked := ResolveDecision(req, requester, workflow.StageFileReturnAck, workflow.DecisionAccepted)
	require.Len(t, acked, 1)
	assert.Equal(t, requester.ID.String(), acked[0].Channel)
	assert.Equal(t, "File Return Acknowledged", acked[0].Message.Subject)
}

func TestResolveExtension(t *testing.T) {
	req, requester := fixtureRequest()

	deliveries := ResolveExtension(req, requester)

	require.Len(t, deliveries, 1)
	assert.Equal(t, "Managing Account Wing A", deliveries[0].Channel)
	assert.Equal(t, "Additional Time Request", deliveries[0].Message.Subject)
	assert.Equal(t, requester.ID.String(), deliveries[0].Message.Tag)
}
