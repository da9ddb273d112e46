package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"

	"seletivo_backend/internals/configs"
	respService "seletivo_backend/internals/features/assessments/responses/service"
	testModel "seletivo_backend/internals/features/assessments/tests/model"
	testService "seletivo_backend/internals/features/assessments/tests/service"
	candModel "seletivo_backend/internals/features/candidates/candidates/model"
	candService "seletivo_backend/internals/features/candidates/candidates/service"
	"seletivo_backend/internals/features/candidates/invites/dto"
	procModel "seletivo_backend/internals/features/selection/processes/model"
	"seletivo_backend/internals/metrics"
)

var (
	ErrInviteNotFound    = fiber.NewError(fiber.StatusNotFound, "Código de convite inválido")
	ErrInviteExpired     = fiber.NewError(fiber.StatusBadRequest, "O código de convite expirou")
	ErrInviteMaxAttempts = fiber.NewError(fiber.StatusTooManyRequests, "Número máximo de tentativas excedido")
)

const (
	inviteCodeLength   = 6
	inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	inviteCodeRetries  = 5

	msgAlreadyCompleted = "Você já concluiu este teste"
	msgInviteValid      = "Convite válido"
)

type InviteService struct {
	DB  *gorm.DB
	Cfg configs.InviteConfig
	Now func() time.Time
}

func NewInviteService(db *gorm.DB, cfg configs.InviteConfig) *InviteService {
	return &InviteService{DB: db, Cfg: cfg, Now: time.Now}
}

// Validate checks an invite code and opens (or reopens) the candidate session.
// The attempt counter is bumped before any rejection so expired and blocked
// attempts are still counted.
func (s *InviteService) Validate(ctx context.Context, rawCode string) (*dto.ValidateInviteResponse, error) {
	code := NormalizeCode(rawCode)

	// 1) lookup
	var cand candModel.CandidateModel
	err := s.DB.WithContext(ctx).Where("candidate_invite_code = ?", code).First(&cand).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.InviteValidations.WithLabelValues(metrics.OutcomeNotFound).Inc()
			return nil, ErrInviteNotFound
		}
		metrics.InviteValidations.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("find invite: %w", err)
	}

	// 2) count the attempt
	if err := s.DB.WithContext(ctx).
		Model(&candModel.CandidateModel{}).
		Where("candidate_id = ?", cand.CandidateID).
		UpdateColumn("candidate_invite_attempts", gorm.Expr("candidate_invite_attempts + 1")).Error; err != nil {
		metrics.InviteValidations.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("increment invite attempts: %w", err)
	}
	cand.CandidateInviteAttempts++

	// 3) expiry
	if cand.InviteExpired(s.Now()) {
		log.Info().
			Str("candidate_id", cand.CandidateID.String()).
			Int("attempts", cand.CandidateInviteAttempts).
			Msg("invite expired")
		metrics.InviteValidations.WithLabelValues(metrics.OutcomeExpired).Inc()
		return nil, ErrInviteExpired
	}

	// 4) already completed: read-only results view
	if cand.IsCompleted() {
		out, err := s.completedView(ctx, &cand)
		if err != nil {
			metrics.InviteValidations.WithLabelValues(metrics.OutcomeError).Inc()
			return nil, err
		}
		metrics.InviteValidations.WithLabelValues(metrics.OutcomeCompleted).Inc()
		return out, nil
	}

	// 5) optional ceiling; the counter already includes this attempt
	if s.Cfg.MaxAttempts > 0 && cand.CandidateInviteAttempts > s.Cfg.MaxAttempts {
		log.Warn().
			Str("candidate_id", cand.CandidateID.String()).
			Int("attempts", cand.CandidateInviteAttempts).
			Msg("invite blocked by attempt ceiling")
		metrics.InviteValidations.WithLabelValues(metrics.OutcomeMaxAttempts).Inc()
		return nil, ErrInviteMaxAttempts
	}

	out, err := s.openSession(ctx, &cand)
	if err != nil {
		metrics.InviteValidations.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, err
	}
	metrics.InviteValidations.WithLabelValues(metrics.OutcomeValid).Inc()
	return out, nil
}

func (s *InviteService) openSession(ctx context.Context, cand *candModel.CandidateModel) (*dto.ValidateInviteResponse, error) {
	// reset counter, PENDING -> IN_PROGRESS
	update := map[string]any{"candidate_invite_attempts": 0}
	if cand.CandidateStatus == candModel.CandidateStatusPending {
		update["candidate_status"] = candModel.CandidateStatusInProgress
	}
	if err := s.DB.WithContext(ctx).
		Model(&candModel.CandidateModel{}).
		Where("candidate_id = ?", cand.CandidateID).
		Updates(update).Error; err != nil {
		return nil, fmt.Errorf("reset invite attempts: %w", err)
	}
	cand.CandidateInviteAttempts = 0
	if v, ok := update["candidate_status"]; ok {
		cand.CandidateStatus = v.(candModel.CandidateStatus)
	}

	test, err := s.testPayload(ctx, cand)
	if err != nil {
		return nil, err
	}

	photo, show := true, true
	if cand.CandidateSelectionProcessID != nil {
		var first procModel.ProcessStageModel
		err := s.DB.WithContext(ctx).
			Where("process_stage_process_id = ?", *cand.CandidateSelectionProcessID).
			Order("process_stage_order ASC").
			First(&first).Error
		switch {
		case err == nil:
			photo = first.ProcessStageRequestCandidatePhoto
			show = first.ProcessStageShowResultsToCandidate
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("load first process stage: %w", err)
		}
	}

	token, err := SecurityToken(s.Cfg.TokenSecret, cand.CandidateID)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("candidate_id", cand.CandidateID.String()).
		Msg("invite validated")

	return &dto.ValidateInviteResponse{
		Success:                true,
		Message:                msgInviteValid,
		Candidate:              dto.FromCandidate(cand),
		Test:                   test,
		SecurityToken:          token,
		RequestCandidatePhoto:  photo,
		ShowResultsToCandidate: show,
	}, nil
}

// CompletedView is the results payload for an already completed candidate,
// without touching the invite counters.
func (s *InviteService) CompletedView(ctx context.Context, candidateID uuid.UUID) (*dto.ValidateInviteResponse, error) {
	cand, err := candService.FindCandidate(ctx, s.DB, candidateID)
	if err != nil {
		return nil, err
	}
	if !cand.IsCompleted() {
		return nil, fiber.NewError(fiber.StatusConflict, "O candidato ainda não concluiu o teste")
	}
	return s.completedView(ctx, cand)
}

func (s *InviteService) completedView(ctx context.Context, cand *candModel.CandidateModel) (*dto.ValidateInviteResponse, error) {
	show, err := s.showResults(ctx, cand)
	if err != nil {
		return nil, err
	}
	test, err := s.testPayload(ctx, cand)
	if err != nil {
		return nil, err
	}

	out := &dto.ValidateInviteResponse{
		Success:                true,
		Completed:              true,
		Message:                msgAlreadyCompleted,
		Candidate:              dto.FromCandidate(cand),
		Test:                   test,
		ShowResultsToCandidate: show,
	}
	if show {
		results, err := respService.BuildResults(ctx, s.DB, cand.CandidateID)
		if err != nil {
			return nil, err
		}
		out.Results = results
	}
	return out, nil
}

// showResults is true only when every stage of the candidate's process allows
// it. Candidates without a process (or a process without stages) see results.
func (s *InviteService) showResults(ctx context.Context, cand *candModel.CandidateModel) (bool, error) {
	if cand.CandidateSelectionProcessID == nil {
		return true, nil
	}
	var hidden int64
	if err := s.DB.WithContext(ctx).
		Model(&procModel.ProcessStageModel{}).
		Where("process_stage_process_id = ? AND process_stage_show_results_to_candidate = ?", *cand.CandidateSelectionProcessID, false).
		Count(&hidden).Error; err != nil {
		return false, fmt.Errorf("count hidden-result stages: %w", err)
	}
	return hidden == 0, nil
}

func (s *InviteService) testPayload(ctx context.Context, cand *candModel.CandidateModel) (*dto.TestPayload, error) {
	testID, err := testService.EffectiveTestID(ctx, s.DB, cand, false)
	if err != nil || testID == nil {
		return nil, err
	}
	var t testModel.TestModel
	if err := s.DB.WithContext(ctx).First(&t, "test_id = ?", *testID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn().
				Str("candidate_id", cand.CandidateID.String()).
				Str("test_id", testID.String()).
				Msg("candidate points at a missing test")
			return nil, nil
		}
		return nil, fmt.Errorf("load test: %w", err)
	}
	n, err := testService.CountTestStages(ctx, s.DB, t.TestID)
	if err != nil {
		return nil, err
	}
	return dto.FromTest(&t, n), nil
}

/* =========================================================
   GENERATE (admin)
========================================================= */

// Generate issues a fresh invite code for a candidate of the company, sets the
// expiry and clears the attempt counter.
func (s *InviteService) Generate(ctx context.Context, companyID, candidateID uuid.UUID, ttl time.Duration) (*dto.GenerateInviteResponse, error) {
	cand, err := candService.FindCompanyCandidate(ctx, s.DB, companyID, candidateID)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = s.Cfg.TTL
	}
	expires := s.Now().UTC().Add(ttl)

	for i := 0; i < inviteCodeRetries; i++ {
		code, err := newInviteCode()
		if err != nil {
			return nil, err
		}

		var taken int64
		if err := s.DB.WithContext(ctx).
			Model(&candModel.CandidateModel{}).
			Unscoped().
			Where("candidate_invite_code = ?", code).
			Count(&taken).Error; err != nil {
			return nil, fmt.Errorf("check invite code: %w", err)
		}
		if taken > 0 {
			continue
		}

		err = s.DB.WithContext(ctx).
			Model(&candModel.CandidateModel{}).
			Where("candidate_id = ?", cand.CandidateID).
			Updates(map[string]any{
				"candidate_invite_code":     code,
				"candidate_invite_expires":  expires,
				"candidate_invite_attempts": 0,
				"candidate_status":          candModel.CandidateStatusPending,
			}).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("store invite code: %w", err)
		}

		log.Info().
			Str("candidate_id", cand.CandidateID.String()).
			Time("expires", expires).
			Msg("invite generated")
		return &dto.GenerateInviteResponse{
			CandidateID:   cand.CandidateID.String(),
			InviteCode:    code,
			InviteExpires: expires,
		}, nil
	}
	return nil, fiber.NewError(fiber.StatusConflict, "Não foi possível gerar um código de convite único")
}

// NormalizeCode folds compatibility forms (full-width letters from mobile
// keyboards) before trimming and upper-casing.
func NormalizeCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(norm.NFKC.String(raw)))
}

func newInviteCode() (string, error) {
	var sb strings.Builder
	limit := big.NewInt(int64(len(inviteCodeAlphabet)))
	for i := 0; i < inviteCodeLength; i++ {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("invite code entropy: %w", err)
		}
		sb.WriteByte(inviteCodeAlphabet[n.Int64()])
	}
	return sb.String(), nil
}
