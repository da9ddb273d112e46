package events

import "time"

const (
	ExchangeName = "assessment.events"

	StageCompletedEvent     = "stage.completed"
	CandidateCompletedEvent = "candidate.completed"
)

type StageCompleted struct {
	EventType      string    `json:"event_type"`
	CandidateID    string    `json:"candidate_id"`
	CompanyID      string    `json:"company_id,omitempty"`
	StageID        string    `json:"stage_id"`
	ProcessStageID string    `json:"process_stage_id,omitempty"`
	Scheme         string    `json:"scheme"`
	Timestamp      time.Time `json:"timestamp"`
}

type CandidateCompleted struct {
	EventType   string    `json:"event_type"`
	CandidateID string    `json:"candidate_id"`
	CompanyID   string    `json:"company_id,omitempty"`
	TestID      string    `json:"test_id,omitempty"`
	Score       float64   `json:"score"`
	Timestamp   time.Time `json:"timestamp"`
}
