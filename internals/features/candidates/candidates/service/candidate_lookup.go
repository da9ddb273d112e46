package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"seletivo_backend/internals/features/candidates/candidates/model"
)

var ErrCandidateNotFound = fiber.NewError(fiber.StatusNotFound, "Candidato não encontrado")

// FindCandidate loads a live candidate. Soft-deleted rows count as missing.
func FindCandidate(ctx context.Context, db *gorm.DB, id uuid.UUID) (*model.CandidateModel, error) {
	var cand model.CandidateModel
	if err := db.WithContext(ctx).First(&cand, "candidate_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCandidateNotFound
		}
		return nil, fmt.Errorf("load candidate: %w", err)
	}
	return &cand, nil
}

// FindCompanyCandidate is FindCandidate scoped to one tenant.
func FindCompanyCandidate(ctx context.Context, db *gorm.DB, companyID, id uuid.UUID) (*model.CandidateModel, error) {
	var cand model.CandidateModel
	err := db.WithContext(ctx).
		Where("candidate_id = ? AND candidate_company_id = ?", id, companyID).
		First(&cand).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCandidateNotFound
		}
		return nil, fmt.Errorf("load candidate: %w", err)
	}
	return &cand, nil
}
