// internal/workflow/engine.go
package workflow

import (
	"fmt"
	"time"

	"github.com/recordsdesk/rmd-backend/internal/models"
)

// Engine owns the state-transition rules for a file request. Apply validates
// a requested transition against the current stage statuses and the actor's
// role scope, mutates the request in place and returns the domain event to
// fan out. It is pure with respect to storage: the caller is responsible for
// loading the request under a write lock and persisting the result, so that
// two concurrent decisions on the same stage cannot both observe it pending.
type Engine struct {
	deadlines *DeadlineTracker
}

func NewEngine(deadlines *DeadlineTracker) *Engine {
	return &Engine{deadlines: deadlines}
}

func (e *Engine) Apply(req *models.FileRequest, stage Stage, actor Actor, decision Decision, remarks string, now time.Time) (*Event, error) {
	if decision != DecisionAccepted && decision != DecisionRejected {
		return nil, fmt.Errorf("%w: unknown decision %q", ErrValidation, decision)
	}

	def, ok := stageFor(stage)
	if !ok {
		return nil, fmt.Errorf("%w: unknown stage %q", ErrValidation, stage)
	}

	if def.AckOnly && decision == DecisionRejected {
		return nil, fmt.Errorf("%w: stage %s is an acknowledgement and cannot be rejected", ErrValidation, stage)
	}

	if err := authorize(req, def, actor); err != nil {
		return nil, err
	}

	if err := checkPreconditions(req, def, stage); err != nil {
		return nil, err
	}

	now = now.UTC()

	if stage == StageFileReturnAck {
		e.acknowledgeReturn(req, actor, now)
	} else if decision == DecisionRejected {
		reject(req, def, actor, remarks, now)
	} else {
		e.accept(req, def, actor, remarks, now)
	}

	return &Event{
		RequestID: req.ID,
		Stage:     stage,
		Decision:  decision,
		ActorID:   actor.ID,
	}, nil
}

func authorize(req *models.FileRequest, def stageDef, actor Actor) error {
	if def.Scope == scopeRequester {
		if actor.ID != req.RequesterID {
			return fmt.Errorf("%w: only the requester may treat stage %s", ErrForbidden, def.Stage)
		}
		return nil
	}

	if actor.AccountType != def.Role {
		return fmt.Errorf("%w: stage %s requires a %s", ErrForbidden, def.Stage, def.Role)
	}

	switch def.Scope {
	case scopeDepartment:
		if actor.Department != req.Department {
			return fmt.Errorf("%w: request belongs to the %s department", ErrForbidden, req.Department)
		}
	case scopeSection:
		if actor.Section != req.Section {
			return fmt.Errorf("%w: request is handled by %s", ErrForbidden, req.Section)
		}
	}
	return nil
}

func checkPreconditions(req *models.FileRequest, def stageDef, stage Stage) error {
	if stage == StageFileReturnAck {
		if req.FileReturn.Status != models.StatusReturn {
			return fmt.Errorf("%w: file return has not been initiated", ErrInvalidTransition)
		}
		return nil
	}

	record := stageRecord(req, def.Index)
	if record.Status != models.StatusPending {
		return fmt.Errorf("%w: stage %s is %s, not pending", ErrInvalidTransition, stage, record.Status)
	}

	for i := 0; i < def.Index; i++ {
		prior := stageRecord(req, i)
		if prior.Status == models.StatusRejected {
			return fmt.Errorf("%w: request was rejected at an earlier stage", ErrInvalidTransition)
		}
		if prior.Status != models.StatusAccepted {
			return fmt.Errorf("%w: stage %s has not been accepted yet", ErrInvalidTransition, stageTable[i].Stage)
		}
	}
	return nil
}

func (e *Engine) accept(req *models.FileRequest, def stageDef, actor Actor, remarks string, now time.Time) {
	record := stageRecord(req, def.Index)
	record.Remarks = remarks
	record.TreatedBy = &actor.ID
	record.DateTreated = &now

	if def.Stage == StageFileReturn {
		// The requester's acknowledgement puts the file in transit; the chain
		// completes when the records unit acknowledges receipt of the return.
		record.Status = models.StatusReturn
		return
	}

	record.Status = models.StatusAccepted

	if req.CurrentStep < terminalStep {
		req.CurrentStep = def.Index + 1
	}
	if next := def.Index + 1; next <= terminalStep {
		stageRecord(req, next).DateReceived = &now
	}

	switch def.Stage {
	case StageApproval:
		deadline := e.deadlines.ComputeReleaseDeadline(now)
		req.FileRelease.Deadline = &deadline
	case StageFileReceive:
		req.FileState.IsReceived = true
		deadline := e.deadlines.ComputeReturnDeadline(now)
		req.FileReturn.Deadline = &deadline
		if req.FileRelease.Deadline != nil {
			late := e.deadlines.IsLate(now, *req.FileRelease.Deadline)
			req.FileRelease.MetLate = &late
		}
	}
}

func reject(req *models.FileRequest, def stageDef, actor Actor, remarks string, now time.Time) {
	record := stageRecord(req, def.Index)
	record.Status = models.StatusRejected
	record.Remarks = remarks
	record.TreatedBy = &actor.ID
	record.DateTreated = &now

	// Roll back to the index of the last accepted stage; the chain is closed
	// and nothing after this stage ever leaves pending.
	if def.Index > 0 {
		req.CurrentStep = def.Index - 1
	} else {
		req.CurrentStep = 0
	}
}

func (e *Engine) acknowledgeReturn(req *models.FileRequest, actor Actor, now time.Time) {
	req.FileReturn.Status = models.StatusAccepted
	if req.FileReturn.Deadline != nil {
		late := e.deadlines.IsLate(now, *req.FileReturn.Deadline)
		req.FileReturn.MetLate = &late
	}
	req.ReturnAcknowledgedBy = &actor.ID
	req.ReturnAcknowledgedAt = &now
	req.FileState.IsReturned = true
	req.CurrentStep = terminalStep
}

func stageRecord(req *models.FileRequest, index int) *models.StageRecord {
	switch index {
	case 0:
		return &req.Authorization
	case 1:
		return &req.Approval
	case 2:
		return &req.FileRelease
	case 3:
		return &req.FileReceive
	default:
		return &req.FileReturn
	}
}
