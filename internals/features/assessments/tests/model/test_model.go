// file: internals/features/assessments/tests/model/test_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TestModel struct {
	TestID          uuid.UUID  `gorm:"column:test_id;type:uuid;primaryKey" json:"test_id"`
	TestCompanyID   *uuid.UUID `gorm:"column:test_company_id;type:uuid;index:idx_tests_company" json:"test_company_id,omitempty"`
	TestTitle       string     `gorm:"column:test_title;type:varchar(200);not null" json:"test_title"`
	TestDescription *string    `gorm:"column:test_description;type:text" json:"test_description,omitempty"`
	// minutes, nil = no limit
	TestTimeLimit *int `gorm:"column:test_time_limit" json:"test_time_limit,omitempty"`

	TestCreatedAt time.Time      `gorm:"column:test_created_at;autoCreateTime" json:"test_created_at"`
	TestUpdatedAt time.Time      `gorm:"column:test_updated_at;autoUpdateTime" json:"test_updated_at"`
	TestDeletedAt gorm.DeletedAt `gorm:"column:test_deleted_at;index" json:"test_deleted_at,omitempty"`
}

func (TestModel) TableName() string { return "tests" }

func (m *TestModel) BeforeCreate(tx *gorm.DB) error {
	if m.TestID == uuid.Nil {
		m.TestID = uuid.New()
	}
	return nil
}

// StageModel is the legacy stage: it owns questions directly and joins tests
// through test_stages.
type StageModel struct {
	StageID          uuid.UUID  `gorm:"column:stage_id;type:uuid;primaryKey" json:"stage_id"`
	StageCompanyID   *uuid.UUID `gorm:"column:stage_company_id;type:uuid" json:"stage_company_id,omitempty"`
	StageName        string     `gorm:"column:stage_name;type:varchar(160);not null" json:"stage_name"`
	StageDescription *string    `gorm:"column:stage_description;type:text" json:"stage_description,omitempty"`

	StageCreatedAt time.Time      `gorm:"column:stage_created_at;autoCreateTime" json:"stage_created_at"`
	StageUpdatedAt time.Time      `gorm:"column:stage_updated_at;autoUpdateTime" json:"stage_updated_at"`
	StageDeletedAt gorm.DeletedAt `gorm:"column:stage_deleted_at;index" json:"stage_deleted_at,omitempty"`
}

func (StageModel) TableName() string { return "stages" }

func (m *StageModel) BeforeCreate(tx *gorm.DB) error {
	if m.StageID == uuid.Nil {
		m.StageID = uuid.New()
	}
	return nil
}

type TestStageModel struct {
	TestStageID      uuid.UUID `gorm:"column:test_stage_id;type:uuid;primaryKey" json:"test_stage_id"`
	TestStageTestID  uuid.UUID `gorm:"column:test_stage_test_id;type:uuid;not null;uniqueIndex:uq_test_stages_test_stage,priority:1" json:"test_stage_test_id"`
	TestStageStageID uuid.UUID `gorm:"column:test_stage_stage_id;type:uuid;not null;uniqueIndex:uq_test_stages_test_stage,priority:2" json:"test_stage_stage_id"`
	TestStageOrder   int       `gorm:"column:test_stage_order;not null" json:"test_stage_order"`

	TestStageCreatedAt time.Time `gorm:"column:test_stage_created_at;autoCreateTime" json:"test_stage_created_at"`
	// touched as a weak completion signal when no process stage can be matched
	TestStageUpdatedAt time.Time `gorm:"column:test_stage_updated_at;autoUpdateTime" json:"test_stage_updated_at"`
}

func (TestStageModel) TableName() string { return "test_stages" }

func (m *TestStageModel) BeforeCreate(tx *gorm.DB) error {
	if m.TestStageID == uuid.Nil {
		m.TestStageID = uuid.New()
	}
	return nil
}
