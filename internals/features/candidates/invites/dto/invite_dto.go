package dto

import (
	"time"

	respDTO "seletivo_backend/internals/features/assessments/responses/dto"
	testModel "seletivo_backend/internals/features/assessments/tests/model"
	candModel "seletivo_backend/internals/features/candidates/candidates/model"
)

type ValidateInviteRequest struct {
	InviteCode string `json:"inviteCode" validate:"required,min=4,max=32"`
}

type CandidatePayload struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	Phone              *string    `json:"phone,omitempty"`
	PhotoURL           *string    `json:"photoUrl,omitempty"`
	Status             string     `json:"status"`
	Completed          bool       `json:"completed"`
	CompletedAt        *time.Time `json:"completedAt,omitempty"`
	TestID             *string    `json:"testId,omitempty"`
	SelectionProcessID *string    `json:"selectionProcessId,omitempty"`
	CompanyID          *string    `json:"companyId,omitempty"`
	TimeSpent          int        `json:"timeSpent"`
}

type TestPayload struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	TimeLimit   *int    `json:"timeLimit,omitempty"`
	StageCount  int64   `json:"stageCount"`
}

// ValidateInviteResponse covers both the fresh session and the
// already-completed shape; Completed tells them apart.
type ValidateInviteResponse struct {
	Success                bool                      `json:"success"`
	Completed              bool                      `json:"completed,omitempty"`
	Message                string                    `json:"message,omitempty"`
	Candidate              CandidatePayload          `json:"candidate"`
	Test                   *TestPayload              `json:"test,omitempty"`
	SecurityToken          string                    `json:"securityToken,omitempty"`
	RequestCandidatePhoto  bool                      `json:"requestCandidatePhoto"`
	ShowResultsToCandidate bool                      `json:"showResultsToCandidate"`
	Results                *respDTO.CandidateResults `json:"results,omitempty"`
}

type GenerateInviteRequest struct {
	// hours; 0 uses INVITE_TTL_HOURS
	TTLHours int `json:"ttlHours" validate:"omitempty,min=1,max=8760"`
}

type GenerateInviteResponse struct {
	CandidateID   string    `json:"candidateId"`
	InviteCode    string    `json:"inviteCode"`
	InviteExpires time.Time `json:"inviteExpires"`
}

func FromCandidate(m *candModel.CandidateModel) CandidatePayload {
	p := CandidatePayload{
		ID:          m.CandidateID.String(),
		Name:        m.CandidateName,
		Email:       m.CandidateEmail,
		Phone:       m.CandidatePhone,
		PhotoURL:    m.CandidatePhotoURL,
		Status:      string(m.CandidateStatus),
		Completed:   m.IsCompleted(),
		CompletedAt: m.CandidateCompletedAt,
		TimeSpent:   m.CandidateTimeSpent,
	}
	if m.CandidateTestID != nil {
		s := m.CandidateTestID.String()
		p.TestID = &s
	}
	if m.CandidateSelectionProcessID != nil {
		s := m.CandidateSelectionProcessID.String()
		p.SelectionProcessID = &s
	}
	if m.CandidateCompanyID != nil {
		s := m.CandidateCompanyID.String()
		p.CompanyID = &s
	}
	return p
}

func FromTest(m *testModel.TestModel, stageCount int64) *TestPayload {
	return &TestPayload{
		ID:          m.TestID.String(),
		Title:       m.TestTitle,
		Description: m.TestDescription,
		TimeLimit:   m.TestTimeLimit,
		StageCount:  stageCount,
	}
}
