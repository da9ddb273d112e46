package dto

import "time"

/* =========================================================
   REQUEST
========================================================= */

type SubmitResponseItem struct {
	// ids are parsed per item; a malformed one skips only that item
	QuestionID string `json:"questionId" validate:"required"`
	OptionID   string `json:"optionId" validate:"required"`
	TimeSpent  *int   `json:"timeSpent" validate:"omitempty,min=0"`
	// option ids in the order they were shown; empty = original positions
	OptionsOrder []string `json:"optionsOrder" validate:"omitempty,max=64"`
}

type SubmitResponsesRequest struct {
	CandidateID string               `json:"candidateId" validate:"required,uuid"`
	StageID     string               `json:"stageId" validate:"required,max=64"`
	Responses   []SubmitResponseItem `json:"responses" validate:"required,min=1,max=500,dive"`
	// total seconds for the batch; when absent the item times are summed
	TimeSpent *int `json:"timeSpent" validate:"omitempty,min=0"`
}

// TotalTime is the amount added to candidate_time_spent for this batch.
func (r *SubmitResponsesRequest) TotalTime() int {
	if r.TimeSpent != nil {
		return *r.TimeSpent
	}
	total := 0
	for _, it := range r.Responses {
		if it.TimeSpent != nil {
			total += *it.TimeSpent
		}
	}
	return total
}

/* =========================================================
   RESPONSE
========================================================= */

type SubmitResponsesResponse struct {
	Success            bool   `json:"success"`
	Count              int    `json:"count"`
	Skipped            int    `json:"skipped"`
	StageCompleted     bool   `json:"stageCompleted"`
	CandidateCompleted bool   `json:"candidateCompleted"`
	Warning            string `json:"warning,omitempty"`
}

type ResultItem struct {
	QuestionID   string    `json:"questionId"`
	QuestionText string    `json:"questionText"`
	QuestionType string    `json:"questionType,omitempty"`
	OptionID     string    `json:"optionId"`
	OptionText   string    `json:"optionText"`
	IsCorrect    bool      `json:"isCorrect"`
	Category     *string   `json:"category,omitempty"`
	TimeSpent    int       `json:"timeSpent"`
	AnsweredAt   time.Time `json:"answeredAt"`
}

type StageResults struct {
	StageID   *string      `json:"stageId,omitempty"`
	StageName string       `json:"stageName"`
	Responses []ResultItem `json:"responses"`
}

type CandidateResults struct {
	Stages          []StageResults `json:"stages"`
	TotalResponses  int            `json:"totalResponses"`
	ScoredQuestions int            `json:"scoredQuestions"`
	CorrectAnswers  int            `json:"correctAnswers"`
	// percent of correct MULTIPLE_CHOICE answers; nil when none were answered
	Score          *float64           `json:"score,omitempty"`
	OpinionProfile map[string]float64 `json:"opinionProfile,omitempty"`
}

// Admin listing row
type ResponseListItem struct {
	ResponseID   string    `json:"responseId"`
	QuestionID   string    `json:"questionId"`
	OptionID     string    `json:"optionId"`
	StageID      *string   `json:"stageId,omitempty"`
	StageName    *string   `json:"stageName,omitempty"`
	QuestionText *string   `json:"questionText,omitempty"`
	OptionText   *string   `json:"optionText,omitempty"`
	IsCorrect    bool      `json:"isCorrect"`
	TimeSpent    int       `json:"timeSpent"`
	AnsweredAt   time.Time `json:"answeredAt"`
}
