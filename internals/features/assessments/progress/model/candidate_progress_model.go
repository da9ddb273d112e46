// file: internals/features/assessments/progress/model/candidate_progress_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CandidateProgressStatus string

const (
	CandidateProgressPending   CandidateProgressStatus = "PENDING"
	CandidateProgressCompleted CandidateProgressStatus = "COMPLETED"
)

// CandidateProgressModel: 1 row = 1 candidate × 1 process stage.
// candidate_progress_stage_id references process_stages, not stages.
type CandidateProgressModel struct {
	CandidateProgressID          uuid.UUID               `gorm:"column:candidate_progress_id;type:uuid;primaryKey" json:"candidate_progress_id"`
	CandidateProgressCandidateID uuid.UUID               `gorm:"column:candidate_progress_candidate_id;type:uuid;not null;uniqueIndex:uq_candidate_progress_candidate_stage,priority:1" json:"candidate_progress_candidate_id"`
	CandidateProgressStageID     uuid.UUID               `gorm:"column:candidate_progress_stage_id;type:uuid;not null;uniqueIndex:uq_candidate_progress_candidate_stage,priority:2" json:"candidate_progress_stage_id"`
	CandidateProgressCompanyID   uuid.UUID               `gorm:"column:candidate_progress_company_id;type:uuid;not null;index:idx_candidate_progress_company" json:"candidate_progress_company_id"`
	CandidateProgressStatus      CandidateProgressStatus `gorm:"column:candidate_progress_status;type:varchar(16);not null" json:"candidate_progress_status"`
	CandidateProgressCompleted   bool                    `gorm:"column:candidate_progress_completed;not null" json:"candidate_progress_completed"`
	CandidateProgressCompletedAt *time.Time              `gorm:"column:candidate_progress_completed_at" json:"candidate_progress_completed_at,omitempty"`

	// how the completed stage was mapped here, and which stage it was
	CandidateProgressMatchKind     string     `gorm:"column:candidate_progress_match_kind;type:varchar(24)" json:"candidate_progress_match_kind,omitempty"`
	CandidateProgressSourceStageID *uuid.UUID `gorm:"column:candidate_progress_source_stage_id;type:uuid" json:"candidate_progress_source_stage_id,omitempty"`

	CandidateProgressCreatedAt time.Time `gorm:"column:candidate_progress_created_at;autoCreateTime" json:"candidate_progress_created_at"`
	CandidateProgressUpdatedAt time.Time `gorm:"column:candidate_progress_updated_at;autoUpdateTime" json:"candidate_progress_updated_at"`
}

func (CandidateProgressModel) TableName() string { return "candidate_progress" }

func (m *CandidateProgressModel) BeforeCreate(tx *gorm.DB) error {
	if m.CandidateProgressID == uuid.Nil {
		m.CandidateProgressID = uuid.New()
	}
	return nil
}

// MarkCompleted sets status and the mirrored boolean together.
func (m *CandidateProgressModel) MarkCompleted(at time.Time) {
	m.CandidateProgressStatus = CandidateProgressCompleted
	m.CandidateProgressCompleted = true
	m.CandidateProgressCompletedAt = &at
}

func (m *CandidateProgressModel) IsCompleted() bool {
	return m.CandidateProgressCompleted || m.CandidateProgressStatus == CandidateProgressCompleted
}
