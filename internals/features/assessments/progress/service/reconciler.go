package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"seletivo_backend/internals/events"
	"seletivo_backend/internals/features/assessments/progress/model"
	testModel "seletivo_backend/internals/features/assessments/tests/model"
	testService "seletivo_backend/internals/features/assessments/tests/service"
	candModel "seletivo_backend/internals/features/candidates/candidates/model"
	candService "seletivo_backend/internals/features/candidates/candidates/service"
	procModel "seletivo_backend/internals/features/selection/processes/model"
	"seletivo_backend/internals/metrics"
)

var ErrCompanyMissing = fiber.NewError(fiber.StatusUnprocessableEntity, "Candidato sem empresa vinculada")

// MatchKind records how a legacy stage was mapped onto a process stage.
type MatchKind string

const (
	MatchProcessStageID MatchKind = "process_stage_id"
	MatchStageLink      MatchKind = "stage_link"
	MatchName           MatchKind = "name"
	MatchTest           MatchKind = "test"
	MatchFirst          MatchKind = "first"
)

// Strong matches point at one specific process stage. The others only say
// "some stage of this process" and must not be read back as completion of a
// particular legacy stage.
func (k MatchKind) Strong() bool {
	return k == MatchProcessStageID || k == MatchStageLink || k == MatchName
}

type ProcessMatch struct {
	Stage procModel.ProcessStageModel
	Kind  MatchKind
}

type ReconcileResult struct {
	Success bool
	Message string
	Warning string
	// ProcessStageRef when a progress row was written, LegacyStage on fallback
	Stage model.StageRef
	Match MatchKind
}

type ReconcilerService struct {
	DB        *gorm.DB
	Publisher events.Publisher
	Now       func() time.Time
}

func NewReconcilerService(db *gorm.DB, pub events.Publisher) *ReconcilerService {
	return &ReconcilerService{DB: db, Publisher: pub, Now: time.Now}
}

// MatchProcessStage maps a stage id (legacy or process) onto a stage of the
// candidate's selection process. Order of preference: the id itself, the
// process_stage_stage_id link, case-insensitive name containment, a process
// stage carrying the candidate's test, the first stage of the process.
// Returns nil when the candidate has no process or the process has no stages.
func MatchProcessStage(ctx context.Context, db *gorm.DB, cand *candModel.CandidateModel, stageID uuid.UUID, stageName string) (*ProcessMatch, error) {
	if cand.CandidateSelectionProcessID == nil {
		return nil, nil
	}
	processID := *cand.CandidateSelectionProcessID
	base := func() *gorm.DB {
		return db.WithContext(ctx).
			Model(&procModel.ProcessStageModel{}).
			Where("process_stage_process_id = ?", processID)
	}

	find := func(q *gorm.DB) (*procModel.ProcessStageModel, error) {
		var ps procModel.ProcessStageModel
		err := q.Order("process_stage_order ASC").First(&ps).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("match process stage: %w", err)
		}
		return &ps, nil
	}

	// 1) already a process stage id
	if stageID != uuid.Nil {
		ps, err := find(base().Where("process_stage_id = ?", stageID))
		if err != nil || ps != nil {
			return wrapMatch(ps, MatchProcessStageID), err
		}

		// 2) direct link
		ps, err = find(base().Where("process_stage_stage_id = ?", stageID))
		if err != nil || ps != nil {
			return wrapMatch(ps, MatchStageLink), err
		}
	}

	// 3) name containment, best effort
	if name := strings.ToLower(strings.TrimSpace(stageName)); name != "" {
		var hits []procModel.ProcessStageModel
		if err := base().
			Where(`LOWER(process_stage_name) LIKE ? ESCAPE '\'`, "%"+escapeLike(name)+"%").
			Order("process_stage_order ASC").
			Find(&hits).Error; err != nil {
			return nil, fmt.Errorf("match process stage by name: %w", err)
		}
		if len(hits) > 1 {
			log.Warn().
				Str("candidate_id", cand.CandidateID.String()).
				Str("stage_name", stageName).
				Int("matches", len(hits)).
				Msg("ambiguous process stage name, using lowest order")
		}
		if len(hits) > 0 {
			return &ProcessMatch{Stage: hits[0], Kind: MatchName}, nil
		}
	}

	// 4) stage that carries the candidate's test
	testID, err := testService.EffectiveTestID(ctx, db, cand, false)
	if err != nil {
		return nil, err
	}
	if testID != nil {
		ps, err := find(base().Where("process_stage_test_id = ?", *testID))
		if err != nil || ps != nil {
			return wrapMatch(ps, MatchTest), err
		}
	}

	// 5) any stage of the process
	ps, err := find(base())
	return wrapMatch(ps, MatchFirst), err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike quotes LIKE wildcards so a stage name matches literally.
func escapeLike(s string) string { return likeEscaper.Replace(s) }

func wrapMatch(ps *procModel.ProcessStageModel, kind MatchKind) *ProcessMatch {
	if ps == nil {
		return nil
	}
	return &ProcessMatch{Stage: *ps, Kind: kind}
}

// Reconcile records completion of stageID for the candidate in the scheme the
// candidate is assigned through. It never returns an error: failures come
// back as Success=false and are logged.
func (s *ReconcilerService) Reconcile(ctx context.Context, candidateID, stageID uuid.UUID, stageName string) ReconcileResult {
	var res ReconcileResult
	var companyID uuid.UUID

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1) candidate + company
		cand, err := candService.FindCandidate(ctx, tx, candidateID)
		if err != nil {
			return err
		}
		if cand.CandidateCompanyID == nil || *cand.CandidateCompanyID == uuid.Nil {
			return ErrCompanyMissing
		}
		companyID = *cand.CandidateCompanyID

		if strings.TrimSpace(stageName) == "" {
			var st testModel.StageModel
			if err := tx.First(&st, "stage_id = ?", stageID).Error; err == nil {
				stageName = st.StageName
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("load stage: %w", err)
			}
		}

		// 2) find the process stage
		match, err := MatchProcessStage(ctx, tx, cand, stageID, stageName)
		if err != nil {
			return err
		}

		now := s.Now().UTC()

		// 3) no process mapping: weak legacy signal
		if match == nil {
			testID, err := testService.EffectiveTestID(ctx, tx, cand, false)
			if err != nil {
				return err
			}
			touch := tx.Model(&testModel.TestStageModel{}).Where("test_stage_stage_id = ?", stageID)
			legacy := model.LegacyStage{StageID: stageID}
			if testID != nil {
				touch = touch.Where("test_stage_test_id = ?", *testID)
				legacy.TestID = *testID
			}
			if err := touch.Update("test_stage_updated_at", now).Error; err != nil {
				return fmt.Errorf("touch test stage: %w", err)
			}
			res = ReconcileResult{
				Success: true,
				Message: "Etapa concluída",
				Warning: "Nenhuma etapa do processo seletivo encontrada; progresso registrado apenas na etapa do teste",
				Stage:   legacy,
			}
			return nil
		}

		// 4) upsert candidate_progress
		if err := upsertProgress(tx, candidateID, companyID, match, stageID, now); err != nil {
			return err
		}
		res = ReconcileResult{
			Success: true,
			Message: "Etapa concluída",
			Stage: model.ProcessStageRef{
				ProcessStageID: match.Stage.ProcessStageID,
				ProcessID:      match.Stage.ProcessStageProcessID,
				StageOrder:     match.Stage.ProcessStageOrder,
			},
			Match: match.Kind,
		}
		return nil
	})

	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			log.Warn().
				Str("candidate_id", candidateID.String()).
				Str("stage_id", stageID.String()).
				Str("reason", fe.Message).
				Msg("progress reconcile rejected")
			return ReconcileResult{Success: false, Message: fe.Message}
		}
		log.Error().
			Err(err).
			Str("candidate_id", candidateID.String()).
			Str("stage_id", stageID.String()).
			Msg("progress reconcile failed")
		return ReconcileResult{Success: false, Message: "Não foi possível registrar o progresso da etapa"}
	}

	s.observe(ctx, candidateID, companyID, stageID, res)
	return res
}

func upsertProgress(tx *gorm.DB, candidateID, companyID uuid.UUID, match *ProcessMatch, sourceStageID uuid.UUID, now time.Time) error {
	processStageID := match.Stage.ProcessStageID
	update := map[string]any{
		"candidate_progress_status":          model.CandidateProgressCompleted,
		"candidate_progress_completed":       true,
		"candidate_progress_completed_at":    now,
		"candidate_progress_match_kind":      string(match.Kind),
		"candidate_progress_source_stage_id": sourceStageID,
	}
	where := tx.Model(&model.CandidateProgressModel{}).
		Where("candidate_progress_candidate_id = ? AND candidate_progress_stage_id = ?", candidateID, processStageID)

	var existing model.CandidateProgressModel
	err := tx.Where("candidate_progress_candidate_id = ? AND candidate_progress_stage_id = ?", candidateID, processStageID).
		Take(&existing).Error
	switch {
	case err == nil:
		// keep the first completion time
		if existing.IsCompleted() && existing.CandidateProgressCompletedAt != nil {
			delete(update, "candidate_progress_completed_at")
		}
		// a weak write never replaces strong provenance
		if !match.Kind.Strong() && MatchKind(existing.CandidateProgressMatchKind).Strong() {
			delete(update, "candidate_progress_match_kind")
			delete(update, "candidate_progress_source_stage_id")
		}
		return where.Updates(update).Error
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("find progress: %w", err)
	}

	row := model.CandidateProgressModel{
		CandidateProgressCandidateID: candidateID,
		CandidateProgressStageID:     processStageID,
		CandidateProgressCompanyID:   companyID,
		CandidateProgressMatchKind:   string(match.Kind),
	}
	row.CandidateProgressSourceStageID = &sourceStageID
	row.MarkCompleted(now)

	cerr := tx.Transaction(func(sp *gorm.DB) error {
		return sp.Create(&row).Error
	})
	if errors.Is(cerr, gorm.ErrDuplicatedKey) {
		return where.Updates(update).Error
	}
	if cerr != nil {
		return fmt.Errorf("create progress: %w", cerr)
	}
	return nil
}

func (s *ReconcilerService) observe(ctx context.Context, candidateID, companyID, stageID uuid.UUID, res ReconcileResult) {
	ev := &events.StageCompleted{
		CandidateID: candidateID.String(),
		CompanyID:   companyID.String(),
		StageID:     stageID.String(),
		Timestamp:   s.Now().UTC(),
	}
	switch st := res.Stage.(type) {
	case model.ProcessStageRef:
		metrics.StageCompletions.WithLabelValues(metrics.SchemeProcess).Inc()
		ev.ProcessStageID = st.ProcessStageID.String()
		ev.Scheme = string(model.StageKindProcess)
	default:
		metrics.StageCompletions.WithLabelValues(metrics.SchemeLegacy).Inc()
		metrics.ReconcileWarnings.Inc()
		ev.Scheme = string(model.StageKindLegacy)
		log.Warn().
			Str("candidate_id", candidateID.String()).
			Str("stage_id", stageID.String()).
			Msg(res.Warning)
	}

	if s.Publisher == nil {
		return
	}
	if err := s.Publisher.PublishStageCompleted(ctx, ev); err != nil {
		log.Warn().Err(err).Str("candidate_id", candidateID.String()).Msg("publish stage.completed")
	}
}
