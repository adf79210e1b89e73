// internal/workflow/stages.go
package workflow

import (
	"github.com/google/uuid"

	"github.com/recordsdesk/rmd-backend/internal/models"
)

// Stage identifies one custody step in the request lifecycle. StageFileReturnAck
// is not a stage of its own: it is the records unit's acknowledgement that
// closes the file-return stage.
type Stage string

const (
	StageAuthorization Stage = "authorization"
	StageApproval      Stage = "approval"
	StageFileRelease   Stage = "fileRelease"
	StageFileReceive   Stage = "fileReceive"
	StageFileReturn    Stage = "fileReturn"
	StageFileReturnAck Stage = "fileReturnAck"
)

type Decision string

const (
	DecisionAccepted Decision = "accepted"
	DecisionRejected Decision = "rejected"
)

// terminalStep is the CurrentStep value once the core chain is complete.
const terminalStep = 4

type scopeKind int

const (
	scopeNone scopeKind = iota
	scopeDepartment
	scopeSection
	scopeRequester
)

// stageDef drives the parameterized engine: index in the chain, the account
// type allowed to treat the stage, how that account is scoped to the request,
// and whether the stage is a pure acknowledgement (no rejected path).
type stageDef struct {
	Index   int
	Stage   Stage
	Role    models.AccountType
	Scope   scopeKind
	AckOnly bool
}

var stageTable = []stageDef{
	{Index: 0, Stage: StageAuthorization, Role: models.AccountTypeAuthorization, Scope: scopeDepartment},
	{Index: 1, Stage: StageApproval, Role: models.AccountTypeApproval, Scope: scopeNone},
	{Index: 2, Stage: StageFileRelease, Role: models.AccountTypeManaging, Scope: scopeSection},
	{Index: 3, Stage: StageFileReceive, Scope: scopeRequester, AckOnly: true},
	{Index: 4, Stage: StageFileReturn, Scope: scopeRequester, AckOnly: true},
	{Index: 4, Stage: StageFileReturnAck, Role: models.AccountTypeManaging, Scope: scopeSection, AckOnly: true},
}

func stageFor(s Stage) (stageDef, bool) {
	for _, def := range stageTable {
		if def.Stage == s {
			return def, true
		}
	}
	return stageDef{}, false
}

// Actor is the caller's identity as far as the engine cares: who they are and
// which pool they belong to.
type Actor struct {
	ID          uuid.UUID
	Name        string
	AccountType models.AccountType
	Department  string
	Section     string
}

func ActorFromUser(u *models.User) Actor {
	return Actor{
		ID:          u.ID,
		Name:        u.Name,
		AccountType: u.AccountType,
		Department:  u.Department,
		Section:     u.Section,
	}
}

// Event is emitted once per accepted transition for the notification
// dispatcher. It is only produced after the persisted update succeeds.
type Event struct {
	RequestID uuid.UUID `json:"request_id"`
	Stage     Stage     `json:"stage"`
	Decision  Decision  `json:"decision"`
	ActorID   uuid.UUID `json:"actor_id"`
}
