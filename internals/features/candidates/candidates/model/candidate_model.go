// file: internals/features/candidates/candidates/model/candidate_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CandidateStatus string

const (
	CandidateStatusPending    CandidateStatus = "PENDING"
	CandidateStatusApproved   CandidateStatus = "APPROVED"
	CandidateStatusRejected   CandidateStatus = "REJECTED"
	CandidateStatusInProgress CandidateStatus = "IN_PROGRESS"
)

type CandidateModel struct {
	CandidateID        uuid.UUID  `gorm:"column:candidate_id;type:uuid;primaryKey" json:"candidate_id"`
	CandidateCompanyID *uuid.UUID `gorm:"column:candidate_company_id;type:uuid;index:idx_candidates_company" json:"candidate_company_id,omitempty"`

	CandidateName     string  `gorm:"column:candidate_name;type:varchar(160);not null" json:"candidate_name"`
	CandidateEmail    string  `gorm:"column:candidate_email;type:varchar(160);not null" json:"candidate_email"`
	CandidatePhone    *string `gorm:"column:candidate_phone;type:varchar(32)" json:"candidate_phone,omitempty"`
	CandidatePhotoURL *string `gorm:"column:candidate_photo_url;type:text" json:"candidate_photo_url,omitempty"`

	// Invite
	CandidateInviteCode     *string    `gorm:"column:candidate_invite_code;type:varchar(32);uniqueIndex:uq_candidates_invite_code" json:"candidate_invite_code,omitempty"`
	CandidateInviteExpires  *time.Time `gorm:"column:candidate_invite_expires" json:"candidate_invite_expires,omitempty"`
	CandidateInviteAttempts int        `gorm:"column:candidate_invite_attempts;not null" json:"candidate_invite_attempts"`

	// Assessment state. candidate_completed and candidate_status are both read by
	// older clients; IsCompleted is the single rule for "done".
	CandidateCompleted   bool            `gorm:"column:candidate_completed;not null" json:"candidate_completed"`
	CandidateCompletedAt *time.Time      `gorm:"column:candidate_completed_at" json:"candidate_completed_at,omitempty"`
	CandidateStatus      CandidateStatus `gorm:"column:candidate_status;type:varchar(16);not null" json:"candidate_status"`
	CandidateScore       *float64        `gorm:"column:candidate_score;type:numeric(6,2)" json:"candidate_score,omitempty"`
	CandidateTimeSpent   int             `gorm:"column:candidate_time_spent;not null" json:"candidate_time_spent"`

	// Assignment: direct test or through a selection process
	CandidateTestID             *uuid.UUID `gorm:"column:candidate_test_id;type:uuid;index:idx_candidates_test" json:"candidate_test_id,omitempty"`
	CandidateSelectionProcessID *uuid.UUID `gorm:"column:candidate_selection_process_id;type:uuid;index:idx_candidates_process" json:"candidate_selection_process_id,omitempty"`

	CandidateCreatedAt time.Time      `gorm:"column:candidate_created_at;autoCreateTime" json:"candidate_created_at"`
	CandidateUpdatedAt time.Time      `gorm:"column:candidate_updated_at;autoUpdateTime" json:"candidate_updated_at"`
	CandidateDeletedAt gorm.DeletedAt `gorm:"column:candidate_deleted_at;index" json:"candidate_deleted_at,omitempty"`
}

func (CandidateModel) TableName() string { return "candidates" }

func (m *CandidateModel) BeforeCreate(tx *gorm.DB) error {
	if m.CandidateID == uuid.Nil {
		m.CandidateID = uuid.New()
	}
	if m.CandidateStatus == "" {
		m.CandidateStatus = CandidateStatusPending
	}
	return nil
}

// IsCompleted: done when the completed flag is set OR status is already APPROVED.
func (m *CandidateModel) IsCompleted() bool {
	return m.CandidateCompleted || m.CandidateStatus == CandidateStatusApproved
}

func (m *CandidateModel) InviteExpired(now time.Time) bool {
	return m.CandidateInviteExpires != nil && m.CandidateInviteExpires.Before(now)
}
