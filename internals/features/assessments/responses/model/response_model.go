// file: internals/features/assessments/responses/model/response_model.go
package model

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/*
=========================================================

	RESPONSES
	1 row = 1 candidate × 1 question (re-answer updates in place)
	- question_snapshot : question + all options when answered
	- all_options       : options array, same capture
	- options_order     : option ids in the order shown to the candidate
	- stage_id/name, question/option text are denormalized for display

=========================================================
*/
type ResponseModel struct {
	ResponseID          uuid.UUID `gorm:"column:response_id;type:uuid;primaryKey" json:"response_id"`
	ResponseCandidateID uuid.UUID `gorm:"column:response_candidate_id;type:uuid;not null;uniqueIndex:uq_responses_candidate_question,priority:1" json:"response_candidate_id"`
	ResponseQuestionID  uuid.UUID `gorm:"column:response_question_id;type:uuid;not null;uniqueIndex:uq_responses_candidate_question,priority:2;index:idx_responses_question" json:"response_question_id"`
	ResponseOptionID    uuid.UUID `gorm:"column:response_option_id;type:uuid;not null" json:"response_option_id"`

	ResponseStageID   *uuid.UUID `gorm:"column:response_stage_id;type:uuid;index:idx_responses_stage" json:"response_stage_id,omitempty"`
	ResponseStageName *string    `gorm:"column:response_stage_name;type:varchar(160)" json:"response_stage_name,omitempty"`

	ResponseQuestionText *string `gorm:"column:response_question_text;type:text" json:"response_question_text,omitempty"`
	ResponseOptionText   *string `gorm:"column:response_option_text;type:text" json:"response_option_text,omitempty"`
	ResponseIsCorrect    bool    `gorm:"column:response_is_correct;not null" json:"response_is_correct"`
	ResponseTimeSpent    int     `gorm:"column:response_time_spent;not null" json:"response_time_spent"`

	ResponseQuestionSnapshot     datatypes.JSON `gorm:"column:response_question_snapshot;type:jsonb" json:"response_question_snapshot,omitempty"`
	ResponseAllOptions           datatypes.JSON `gorm:"column:response_all_options;type:jsonb" json:"response_all_options,omitempty"`
	ResponseOptionCharacteristic *string        `gorm:"column:response_option_characteristic;type:varchar(120)" json:"response_option_characteristic,omitempty"`
	ResponseOptionOriginalOrder  *int           `gorm:"column:response_option_original_order" json:"response_option_original_order,omitempty"`
	ResponseOptionsOrder         datatypes.JSON `gorm:"column:response_options_order;type:jsonb" json:"response_options_order,omitempty"`

	ResponseAnsweredAt time.Time `gorm:"column:response_answered_at;not null" json:"response_answered_at"`
	ResponseCreatedAt  time.Time `gorm:"column:response_created_at;autoCreateTime" json:"response_created_at"`
	ResponseUpdatedAt  time.Time `gorm:"column:response_updated_at;autoUpdateTime" json:"response_updated_at"`
}

func (ResponseModel) TableName() string { return "responses" }

func (m *ResponseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ResponseID == uuid.Nil {
		m.ResponseID = uuid.New()
	}
	return nil
}

/* =========================================================
   SNAPSHOT STRUCTS
========================================================= */

type OptionSnapshot struct {
	OptionID     uuid.UUID `json:"option_id"`
	Text         string    `json:"text"`
	Position     int       `json:"position"`
	IsCorrect    bool      `json:"is_correct"`
	CategoryName *string   `json:"category_name,omitempty"`
	Weight       *float64  `json:"weight,omitempty"`
}

type QuestionSnapshot struct {
	QuestionID   uuid.UUID        `json:"question_id"`
	Text         string           `json:"text"`
	Type         string           `json:"type"`
	StageID      uuid.UUID        `json:"stage_id"`
	StageName    string           `json:"stage_name,omitempty"`
	CategoryName *string          `json:"category_name,omitempty"`
	Options      []OptionSnapshot `json:"options"`
	CapturedAt   time.Time        `json:"captured_at"`
}

func (m *ResponseModel) DecodeSnapshot() (*QuestionSnapshot, error) {
	if len(m.ResponseQuestionSnapshot) == 0 {
		return nil, nil
	}
	var snap QuestionSnapshot
	if err := sonic.Unmarshal(m.ResponseQuestionSnapshot, &snap); err != nil {
		return nil, fmt.Errorf("invalid response_question_snapshot json: %w", err)
	}
	return &snap, nil
}

// SelectedOption finds the chosen option inside the snapshot.
func (s *QuestionSnapshot) SelectedOption(optionID uuid.UUID) *OptionSnapshot {
	if s == nil {
		return nil
	}
	for i := range s.Options {
		if s.Options[i].OptionID == optionID {
			return &s.Options[i]
		}
	}
	return nil
}
