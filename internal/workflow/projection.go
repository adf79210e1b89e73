// internal/workflow/projection.go
package workflow

import (
	"time"

	"github.com/google/uuid"

	"github.com/recordsdesk/rmd-backend/internal/models"
)

// StageView is the human-readable rendering of one stage: a label, the date
// that matters for it (queue-entry while pending, treated once decided) and
// the carried-over remarks.
type StageView struct {
	Stage   Stage               `json:"stage"`
	Status  models.StageOutcome `json:"status"`
	Label   string              `json:"label"`
	Date    *time.Time          `json:"date,omitempty"`
	Remarks string              `json:"remarks,omitempty"`
	MetLate *bool               `json:"met_late,omitempty"`
}

type RequestView struct {
	ID                 uuid.UUID   `json:"id"`
	CompanyName        string      `json:"company_name"`
	RegistrationNumber string      `json:"registration_number"`
	ReferenceNumber    string      `json:"reference_number"`
	Purpose            string      `json:"purpose"`
	Section            string      `json:"section"`
	CurrentStep        int         `json:"current_step"`
	Stages             []StageView `json:"stages"`
}

type stageLabels struct {
	pending   string
	accepted  string
	rejected  string
	returning string
}

// One label table instead of re-deriving the mapping in every query handler.
var labelTable = map[Stage]stageLabels{
	StageAuthorization: {
		pending:  "Awaiting Authorization",
		accepted: "Authorization done",
		rejected: "Authorization Declined",
	},
	StageApproval: {
		pending:  "Awaiting Approval",
		accepted: "Approval done",
		rejected: "Approval Disapproved",
	},
	StageFileRelease: {
		pending:  "Awaiting File Release",
		accepted: "File Release done",
		rejected: "File Release Declined",
	},
	StageFileReceive: {
		pending:  "Awaiting File Receipt",
		accepted: "File Receipt done",
	},
	StageFileReturn: {
		pending:   "Awaiting File Return",
		accepted:  "File Return done",
		returning: "File Return in transit",
	},
}

// Project derives the display record for a request purely from its stored
// stage statuses. It holds no state of its own and can be re-derived at any
// time.
func Project(req *models.FileRequest) RequestView {
	view := RequestView{
		ID:                 req.ID,
		CompanyName:        req.CompanyName,
		RegistrationNumber: req.RegistrationNumber,
		ReferenceNumber:    req.ReferenceNumber,
		Purpose:            req.Purpose,
		Section:            req.Section,
		CurrentStep:        req.CurrentStep,
		Stages: []StageView{
			projectStage(StageAuthorization, &req.Authorization),
			projectStage(StageApproval, &req.Approval),
			projectStage(StageFileRelease, &req.FileRelease),
			projectStage(StageFileReceive, &req.FileReceive),
			projectStage(StageFileReturn, &req.FileReturn),
		},
	}
	return view
}

func projectStage(stage Stage, record *models.StageRecord) StageView {
	labels := labelTable[stage]

	var label string
	date := record.DateReceived
	switch record.Status {
	case models.StatusAccepted:
		label = labels.accepted
		date = record.DateTreated
	case models.StatusRejected:
		label = labels.rejected
		date = record.DateTreated
	case models.StatusReturn:
		label = labels.returning
		date = record.DateTreated
	default:
		label = labels.pending
	}

	return StageView{
		Stage:   stage,
		Status:  record.Status,
		Label:   label,
		Date:    date,
		Remarks: record.Remarks,
		MetLate: record.MetLate,
	}
}
