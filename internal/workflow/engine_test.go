// internal/workflow/engine_test.go
package workflow

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/recordsdesk/rmd-backend/internal/models"
)

type EngineTestSuite struct {
	suite.Suite
	engine    *Engine
	requester Actor
	officer   Actor
	approver  Actor
	managing  Actor
	base      time.Time
}

func (s *EngineTestSuite) SetupTest() {
	s.engine = NewEngine(NewDeadlineTracker(time.Hour, 10*time.Minute))
	s.base = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	s.requester = Actor{ID: uuid.New(), Name: "Ada Okafor", AccountType: models.AccountTypeStaff, Department: "Compliance"}
	s.officer = Actor{ID: uuid.New(), Name: "Bode Musa", AccountType: models.AccountTypeAuthorization, Department: "Compliance"}
	s.approver = Actor{ID: uuid.New(), Name: "Chika Eze", AccountType: models.AccountTypeApproval}
	s.managing = Actor{ID: uuid.New(), Name: "Dayo Bello", AccountType: models.AccountTypeManaging, Section: "Wing A"}
}

func (s *EngineTestSuite) newRequest() *models.FileRequest {
	received := s.base
	return &models.FileRequest{
		BaseModel:     models.BaseModel{ID: uuid.New()},
		RequesterID:   s.requester.ID,
		CompanyName:   "Acme Holdings",
		Section:       "Wing A",
		Department:    "Compliance",
		Authorization: models.StageRecord{Status: models.StatusPending, DateReceived: &received},
		Approval:      models.StageRecord{Status: models.StatusPending},
		FileRelease:   models.StageRecord{Status: models.StatusPending},
		FileReceive:   models.StageRecord{Status: models.StatusPending},
		FileReturn:    models.StageRecord{Status: models.StatusPending},
	}
}

// advance drives the request through the accepted core chain up to and
// including the named stage.
func (s *EngineTestSuite) advance(req *models.FileRequest, upTo Stage) {
	steps := []struct {
		stage Stage
		actor Actor
		at    time.Time
	}{
		{StageAuthorization, s.officer, s.base.Add(10 * time.Minute)},
		{StageApproval, s.approver, s.base.Add(20 * time.Minute)},
		{StageFileRelease, s.managing, s.base.Add(30 * time.Minute)},
		{StageFileReceive, s.requester, s.base.Add(40 * time.Minute)},
	}

	for _, step := range steps {
		def, ok := stageFor(step.stage)
		require.True(s.T(), ok)
		if stageRecord(req, def.Index).Status != models.StatusAccepted {
			_, err := s.engine.Apply(req, step.stage, step.actor, DecisionAccepted, "", step.at)
			require.NoError(s.T(), err)
		}
		if step.stage == upTo {
			return
		}
	}
}

func (s *EngineTestSuite) TestAcceptAuthorization() {
	req := s.newRequest()
	now := s.base.Add(10 * time.Minute)

	event, err := s.engine.Apply(req, StageAuthorization, s.officer, DecisionAccepted, "ok to proceed", now)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), models.StatusAccepted, req.Authorization.Status)
	assert.Equal(s.T(), "ok to proceed", req.Authorization.Remarks)
	assert.Equal(s.T(), s.officer.ID, *req.Authorization.TreatedBy)
	assert.Equal(s.T(), 1, req.CurrentStep)

	// The approval stage enters the queue at the moment of acceptance.
	require.NotNil(s.T(), req.Approval.DateReceived)
	assert.Equal(s.T(), now, *req.Approval.DateReceived)

	assert.Equal(s.T(), req.ID, event.RequestID)
	assert.Equal(s.T(), StageAuthorization, event.Stage)
	assert.Equal(s.T(), DecisionAccepted, event.Decision)
	assert.Equal(s.T(), s.officer.ID, event.ActorID)
}

func (s *EngineTestSuite) TestSkipAheadRejected() {
	req := s.newRequest()

	_, err := s.engine.Apply(req, StageApproval, s.approver, DecisionAccepted, "", s.base)
	assert.ErrorIs(s.T(), err, ErrInvalidTransition)

	_, err = s.engine.Apply(req, StageFileRelease, s.managing, DecisionAccepted, "", s.base)
	assert.ErrorIs(s.T(), err, ErrInvalidTransition)
}

func (s *EngineTestSuite) TestStageCannotBeTreatedTwice() {
	req := s.newRequest()
	s.advance(req, StageAuthorization)

	_, err := s.engine.Apply(req, StageAuthorization, s.officer, DecisionAccepted, "", s.base.Add(time.Hour))
	assert.ErrorIs(s.T(), err, ErrInvalidTransition)
}

func (s *EngineTestSuite) TestRejectionClosesChain() {
	req := s.newRequest()
	s.advance(req, StageAuthorization)

	_, err := s.engine.Apply(req, StageApproval, s.approver, DecisionRejected, "insufficient grounds", s.base.Add(20*time.Minute))
	require.NoError(s.T(), err)

	assert.Equal(s.T(), models.StatusRejected, req.Approval.Status)
	assert.True(s.T(), req.Rejected())

	// Progress rolls back to the last accepted stage.
	assert.Equal(s.T(), 0, req.CurrentStep)

	// Nothing downstream can move after a rejection.
	_, err = s.engine.Apply(req, StageFileRelease, s.managing, DecisionAccepted, "", s.base.Add(time.Hour))
	assert.ErrorIs(s.T(), err, ErrInvalidTransition)
}

func (s *EngineTestSuite) TestRejectionAtFirstStageKeepsStepZero() {
	req := s.newRequest()

	_, err := s.engine.Apply(req, StageAuthorization, s.officer, DecisionRejected, "no", s.base)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 0, req.CurrentStep)
}

func (s *EngineTestSuite) TestRoleAndScopeEnforcement() {
	req := s.newRequest()

	// Wrong account type.
	_, err := s.engine.Apply(req, StageAuthorization, s.requester, DecisionAccepted, "", s.base)
	assert.ErrorIs(s.T(), err, ErrForbidden)

	// Right account type, wrong department.
	outsider := s.officer
	outsider.Department = "Audit"
	_, err = s.engine.Apply(req, StageAuthorization, outsider, DecisionAccepted, "", s.base)
	assert.ErrorIs(s.T(), err, ErrForbidden)

	s.advance(req, StageApproval)

	// Right account type, wrong section.
	wrongSection := s.managing
	wrongSection.Section = "Wing B Team 2"
	_, err = s.engine.Apply(req, StageFileRelease, wrongSection, DecisionAccepted, "", s.base)
	assert.ErrorIs(s.T(), err, ErrForbidden)

	s.advance(req, StageFileRelease)

	// Only the requester may confirm receipt.
	_, err = s.engine.Apply(req, StageFileReceive, s.managing, DecisionAccepted, "", s.base)
	assert.ErrorIs(s.T(), err, ErrForbidden)
}

func (s *EngineTestSuite) TestAcknowledgementCannotBeRejected() {
	req := s.newRequest()
	s.advance(req, StageFileRelease)

	_, err := s.engine.Apply(req, StageFileReceive, s.requester, DecisionRejected, "", s.base)
	assert.ErrorIs(s.T(), err, ErrValidation)
}

func (s *EngineTestSuite) TestApprovalFixesReleaseDeadline() {
	req := s.newRequest()
	approvedAt := s.base.Add(20 * time.Minute)
	s.advance(req, StageApproval)

	require.NotNil(s.T(), req.FileRelease.Deadline)
	assert.Equal(s.T(), approvedAt.Add(time.Hour), *req.FileRelease.Deadline)
	assert.Nil(s.T(), req.FileRelease.MetLate)
}

func (s *EngineTestSuite) TestReceiptRecordsReleaseLateness() {
	req := s.newRequest()
	s.advance(req, StageFileRelease)

	// Receipt two hours after approval, one hour past the release deadline.
	receivedAt := s.base.Add(20*time.Minute + 2*time.Hour)
	_, err := s.engine.Apply(req, StageFileReceive, s.requester, DecisionAccepted, "", receivedAt)
	require.NoError(s.T(), err)

	require.NotNil(s.T(), req.FileRelease.MetLate)
	assert.True(s.T(), *req.FileRelease.MetLate)
	assert.True(s.T(), req.FileState.IsReceived)

	require.NotNil(s.T(), req.FileReturn.Deadline)
	assert.Equal(s.T(), receivedAt.Add(10*time.Minute), *req.FileReturn.Deadline)
}

func (s *EngineTestSuite) TestTimelyReceiptIsNotLate() {
	req := s.newRequest()
	s.advance(req, StageFileReceive)

	require.NotNil(s.T(), req.FileRelease.MetLate)
	assert.False(s.T(), *req.FileRelease.MetLate)
}

func (s *EngineTestSuite) TestReturnLeg() {
	req := s.newRequest()
	s.advance(req, StageFileReceive)

	returnStarted := s.base.Add(45 * time.Minute)
	_, err := s.engine.Apply(req, StageFileReturn, s.requester, DecisionAccepted, "", returnStarted)
	require.NoError(s.T(), err)

	// The file is in transit until the records unit acknowledges it.
	assert.Equal(s.T(), models.StatusReturn, req.FileReturn.Status)
	assert.False(s.T(), req.FileState.IsReturned)

	ackAt := s.base.Add(48 * time.Minute)
	_, err = s.engine.Apply(req, StageFileReturnAck, s.managing, DecisionAccepted, "", ackAt)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), models.StatusAccepted, req.FileReturn.Status)
	assert.True(s.T(), req.FileState.IsReturned)
	assert.Equal(s.T(), 4, req.CurrentStep)
	assert.Equal(s.T(), s.managing.ID, *req.ReturnAcknowledgedBy)
	assert.Equal(s.T(), ackAt, *req.ReturnAcknowledgedAt)

	// Back within ten minutes of receipt.
	require.NotNil(s.T(), req.FileReturn.MetLate)
	assert.False(s.T(), *req.FileReturn.MetLate)
}

func (s *EngineTestSuite) TestLateReturnIsRecorded() {
	req := s.newRequest()
	s.advance(req, StageFileReceive)

	_, err := s.engine.Apply(req, StageFileReturn, s.requester, DecisionAccepted, "", s.base.Add(45*time.Minute))
	require.NoError(s.T(), err)

	_, err = s.engine.Apply(req, StageFileReturnAck, s.managing, DecisionAccepted, "", s.base.Add(2*time.Hour))
	require.NoError(s.T(), err)

	require.NotNil(s.T(), req.FileReturn.MetLate)
	assert.True(s.T(), *req.FileReturn.MetLate)
}

func (s *EngineTestSuite) TestReturnAckRequiresTransit() {
	req := s.newRequest()
	s.advance(req, StageFileReceive)

	_, err := s.engine.Apply(req, StageFileReturnAck, s.managing, DecisionAccepted, "", s.base.Add(time.Hour))
	assert.ErrorIs(s.T(), err, ErrInvalidTransition)
}

func (s *EngineTestSuite) TestUnknownDecisionAndStage() {
	req := s.newRequest()

	_, err := s.engine.Apply(req, StageAuthorization, s.officer, Decision("maybe"), "", s.base)
	assert.ErrorIs(s.T(), err, ErrValidation)

	_, err = s.engine.Apply(req, Stage("archive"), s.officer, DecisionAccepted, "", s.base)
	assert.ErrorIs(s.T(), err, ErrValidation)
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}
