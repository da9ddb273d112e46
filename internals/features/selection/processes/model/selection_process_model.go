// file: internals/features/selection/processes/model/selection_process_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SelectionProcessModel struct {
	SelectionProcessID        uuid.UUID `gorm:"column:selection_process_id;type:uuid;primaryKey" json:"selection_process_id"`
	SelectionProcessCompanyID uuid.UUID `gorm:"column:selection_process_company_id;type:uuid;not null;index:idx_selection_processes_company" json:"selection_process_company_id"`
	SelectionProcessName      string    `gorm:"column:selection_process_name;type:varchar(160);not null" json:"selection_process_name"`

	SelectionProcessCreatedAt time.Time      `gorm:"column:selection_process_created_at;autoCreateTime" json:"selection_process_created_at"`
	SelectionProcessUpdatedAt time.Time      `gorm:"column:selection_process_updated_at;autoUpdateTime" json:"selection_process_updated_at"`
	SelectionProcessDeletedAt gorm.DeletedAt `gorm:"column:selection_process_deleted_at;index" json:"selection_process_deleted_at,omitempty"`
}

func (SelectionProcessModel) TableName() string { return "selection_processes" }

func (m *SelectionProcessModel) BeforeCreate(tx *gorm.DB) error {
	if m.SelectionProcessID == uuid.Nil {
		m.SelectionProcessID = uuid.New()
	}
	return nil
}

// ProcessStageModel is a step of a selection process. candidate_progress rows
// point here, never at the legacy stages table.
type ProcessStageModel struct {
	ProcessStageID        uuid.UUID `gorm:"column:process_stage_id;type:uuid;primaryKey" json:"process_stage_id"`
	ProcessStageProcessID uuid.UUID `gorm:"column:process_stage_process_id;type:uuid;not null;index:idx_process_stages_process" json:"process_stage_process_id"`
	ProcessStageName      string    `gorm:"column:process_stage_name;type:varchar(160);not null" json:"process_stage_name"`
	ProcessStageOrder     int       `gorm:"column:process_stage_order;not null" json:"process_stage_order"`

	ProcessStageTestID *uuid.UUID `gorm:"column:process_stage_test_id;type:uuid" json:"process_stage_test_id,omitempty"`
	// Optional direct link to the legacy stage; preferred over name matching.
	ProcessStageStageID *uuid.UUID `gorm:"column:process_stage_stage_id;type:uuid;index:idx_process_stages_stage" json:"process_stage_stage_id,omitempty"`

	ProcessStageRequestCandidatePhoto  bool `gorm:"column:process_stage_request_candidate_photo;not null" json:"process_stage_request_candidate_photo"`
	ProcessStageShowResultsToCandidate bool `gorm:"column:process_stage_show_results_to_candidate;not null" json:"process_stage_show_results_to_candidate"`

	ProcessStageCreatedAt time.Time      `gorm:"column:process_stage_created_at;autoCreateTime" json:"process_stage_created_at"`
	ProcessStageUpdatedAt time.Time      `gorm:"column:process_stage_updated_at;autoUpdateTime" json:"process_stage_updated_at"`
	ProcessStageDeletedAt gorm.DeletedAt `gorm:"column:process_stage_deleted_at;index" json:"process_stage_deleted_at,omitempty"`
}

func (ProcessStageModel) TableName() string { return "process_stages" }

func (m *ProcessStageModel) BeforeCreate(tx *gorm.DB) error {
	if m.ProcessStageID == uuid.Nil {
		m.ProcessStageID = uuid.New()
	}
	return nil
}
