// file: internals/features/assessments/tests/model/question_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuestionType string

const (
	// exactly one option is correct
	QuestionTypeMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	// no correct option; every option tags an opinion category with a weight
	QuestionTypeOpinionMultiple QuestionType = "OPINION_MULTIPLE"
)

type QuestionCategoryModel struct {
	QuestionCategoryID        uuid.UUID  `gorm:"column:question_category_id;type:uuid;primaryKey" json:"question_category_id"`
	QuestionCategoryCompanyID *uuid.UUID `gorm:"column:question_category_company_id;type:uuid" json:"question_category_company_id,omitempty"`
	QuestionCategoryName      string     `gorm:"column:question_category_name;type:varchar(120);not null" json:"question_category_name"`

	QuestionCategoryCreatedAt time.Time `gorm:"column:question_category_created_at;autoCreateTime" json:"question_category_created_at"`
}

func (QuestionCategoryModel) TableName() string { return "question_categories" }

func (m *QuestionCategoryModel) BeforeCreate(tx *gorm.DB) error {
	if m.QuestionCategoryID == uuid.Nil {
		m.QuestionCategoryID = uuid.New()
	}
	return nil
}

type QuestionModel struct {
	QuestionID         uuid.UUID    `gorm:"column:question_id;type:uuid;primaryKey" json:"question_id"`
	QuestionCompanyID  *uuid.UUID   `gorm:"column:question_company_id;type:uuid" json:"question_company_id,omitempty"`
	QuestionStageID    uuid.UUID    `gorm:"column:question_stage_id;type:uuid;not null;index:idx_questions_stage" json:"question_stage_id"`
	QuestionCategoryID *uuid.UUID   `gorm:"column:question_category_id;type:uuid" json:"question_category_id,omitempty"`
	QuestionText       string       `gorm:"column:question_text;type:text;not null" json:"question_text"`
	QuestionType       QuestionType `gorm:"column:question_type;type:varchar(32);not null" json:"question_type"`

	Options []OptionModel `gorm:"foreignKey:OptionQuestionID;references:QuestionID" json:"options,omitempty"`

	QuestionCreatedAt time.Time      `gorm:"column:question_created_at;autoCreateTime" json:"question_created_at"`
	QuestionUpdatedAt time.Time      `gorm:"column:question_updated_at;autoUpdateTime" json:"question_updated_at"`
	QuestionDeletedAt gorm.DeletedAt `gorm:"column:question_deleted_at;index" json:"question_deleted_at,omitempty"`
}

func (QuestionModel) TableName() string { return "questions" }

func (m *QuestionModel) BeforeCreate(tx *gorm.DB) error {
	if m.QuestionID == uuid.Nil {
		m.QuestionID = uuid.New()
	}
	return nil
}

func (m *QuestionModel) IsOpinion() bool { return m.QuestionType == QuestionTypeOpinionMultiple }

type OptionModel struct {
	OptionID         uuid.UUID `gorm:"column:option_id;type:uuid;primaryKey" json:"option_id"`
	OptionQuestionID uuid.UUID `gorm:"column:option_question_id;type:uuid;not null;index:idx_options_question" json:"option_question_id"`
	OptionText       string    `gorm:"column:option_text;type:text;not null" json:"option_text"`
	OptionPosition   int       `gorm:"column:option_position;not null" json:"option_position"`

	// MULTIPLE_CHOICE only
	OptionIsCorrect bool `gorm:"column:option_is_correct;not null" json:"option_is_correct"`

	// OPINION_MULTIPLE only
	OptionCategoryName *string  `gorm:"column:option_category_name;type:varchar(120)" json:"option_category_name,omitempty"`
	OptionWeight       *float64 `gorm:"column:option_weight;type:numeric(6,2)" json:"option_weight,omitempty"`

	OptionCreatedAt time.Time      `gorm:"column:option_created_at;autoCreateTime" json:"option_created_at"`
	OptionUpdatedAt time.Time      `gorm:"column:option_updated_at;autoUpdateTime" json:"option_updated_at"`
	OptionDeletedAt gorm.DeletedAt `gorm:"column:option_deleted_at;index" json:"option_deleted_at,omitempty"`
}

func (OptionModel) TableName() string { return "options" }

func (m *OptionModel) BeforeCreate(tx *gorm.DB) error {
	if m.OptionID == uuid.Nil {
		m.OptionID = uuid.New()
	}
	return nil
}
