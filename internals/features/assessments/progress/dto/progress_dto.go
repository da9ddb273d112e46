package dto

import "time"

/* =========================================================
   REQUEST
========================================================= */

// Query for GET /stages/completed and GET /stages/next
type StageQuery struct {
	StageID      string `query:"stageId"`
	CurrentStage string `query:"currentStage"`
	CandidateID  string `query:"candidateId"`
}

type MarkStageCompletedRequest struct {
	CandidateID string `json:"candidateId" validate:"required,uuid"`
	StageID     string `json:"stageId" validate:"required,max=64"`
	StageName   string `json:"stageName" validate:"omitempty,max=160"`
}

/* =========================================================
   RESPONSE
========================================================= */

type StageCompletionResponse struct {
	Completed         bool   `json:"completed"`
	AnsweredQuestions *int64 `json:"answeredQuestions,omitempty"`
	TotalQuestions    *int64 `json:"totalQuestions,omitempty"`
	Message           string `json:"message"`
	StageID           string `json:"stageId,omitempty"`
}

type MarkStageCompletedResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Warning string `json:"warning,omitempty"`
}

type NextStageResponse struct {
	HasNextStage  bool    `json:"hasNextStage"`
	NextStageID   *string `json:"nextStageId,omitempty"`
	NextStageUUID *string `json:"nextStageUuid,omitempty"`
	TotalStages   int     `json:"totalStages"`
}

// Admin: GET /candidates/:id/progress
type ProgressRow struct {
	ProcessStageID   string     `json:"processStageId"`
	ProcessStageName string     `json:"processStageName,omitempty"`
	Status           string     `json:"status"`
	Completed        bool       `json:"completed"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
}

type StageCount struct {
	StageID           string `json:"stageId"`
	StageName         string `json:"stageName"`
	Order             int    `json:"order"`
	AnsweredQuestions int64  `json:"answeredQuestions"`
	TotalQuestions    int64  `json:"totalQuestions"`
	Completed         bool   `json:"completed"`
}

type CandidateProgressResponse struct {
	CandidateID string        `json:"candidateId"`
	Completed   bool          `json:"completed"`
	Status      string        `json:"status"`
	Progress    []ProgressRow `json:"progress"`
	Stages      []StageCount  `json:"stages"`
}
