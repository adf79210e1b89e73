// internal/workflow/projection_test.go
package workflow

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recordsdesk/rmd-backend/internal/models"
)

func TestProjectFreshRequest(t *testing.T) {
	received := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	req := &models.FileRequest{
		BaseModel:     models.BaseModel{ID: uuid.New()},
		CompanyName:   "Acme Holdings",
		Section:       "Wing A",
		Authorization: models.StageRecord{Status: models.StatusPending, DateReceived: &received},
		Approval:      models.StageRecord{Status: models.StatusPending},
		FileRelease:   models.StageRecord{Status: models.StatusPending},
		FileReceive:   models.StageRecord{Status: models.StatusPending},
		FileReturn:    models.StageRecord{Status: models.StatusPending},
	}

	view := Project(req)

	require.Len(t, view.Stages, 5)
	assert.Equal(t, "Awaiting Authorization", view.Stages[0].Label)
	assert.Equal(t, "Awaiting Approval", view.Stages[1].Label)
	assert.Equal(t, "Awaiting File Release", view.Stages[2].Label)
	assert.Equal(t, "Awaiting File Receipt", view.Stages[3].Label)
	assert.Equal(t, "Awaiting File Return", view.Stages[4].Label)

	// Pending stages show the date they entered the queue.
	require.NotNil(t, view.Stages[0].Date)
	assert.Equal(t, received, *view.Stages[0].Date)
	assert.Nil(t, view.Stages[1].Date)
}

func TestProjectDecidedStages(t *testing.T) {
	received := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	treated := received.Add(30 * time.Minute)

	req := &models.FileRequest{
		BaseModel: models.BaseModel{ID: uuid.New()},
		Authorization: models.StageRecord{
			Status:       models.StatusAccepted,
			DateReceived: &received,
			DateTreated:  &treated,
			Remarks:      "cleared",
		},
		Approval:    models.StageRecord{Status: models.StatusRejected, DateTreated: &treated},
		FileRelease: models.StageRecord{Status: models.StatusPending},
		FileReceive: models.StageRecord{Status: models.StatusPending},
		FileReturn:  models.StageRecord{Status: models.StatusReturn, DateTreated: &treated},
	}

	view := Project(req)

	assert.Equal(t, "Authorization done", view.Stages[0].Label)
	assert.Equal(t, treated, *view.Stages[0].Date)
	assert.Equal(t, "cleared", view.Stages[0].Remarks)

	assert.Equal(t, "Approval Disapproved", view.Stages[1].Label)
	assert.Equal(t, "File Return in transit", view.Stages[4].Label)
}

func TestProjectCopiesIdentityFields(t *testing.T) {
	req := &models.FileRequest{
		BaseModel:          models.BaseModel{ID: uuid.New()},
		CompanyName:        "Acme Holdings",
		RegistrationNumber: "rc150000",
		ReferenceNumber:    "REF-42",
		Purpose:            "litigation search",
		Section:            "Wing A",
		CurrentStep:        2,
	}

	view := Project(req)

	assert.Equal(t, req.ID, view.ID)
	assert.Equal(t, "Acme Holdings", view.CompanyName)
	assert.Equal(t, "rc150000", view.RegistrationNumber)
	assert.Equal(t, "REF-42", view.ReferenceNumber)
	assert.Equal(t, "litigation search", view.Purpose)
	assert.Equal(t, "Wing A", view.Section)
	assert.Equal(t, 2, view.CurrentStep)
}
