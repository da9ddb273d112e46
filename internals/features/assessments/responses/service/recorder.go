package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"seletivo_backend/internals/features/assessments/responses/dto"
	"seletivo_backend/internals/features/assessments/responses/model"
	testModel "seletivo_backend/internals/features/assessments/tests/model"
	candModel "seletivo_backend/internals/features/candidates/candidates/model"
	candService "seletivo_backend/internals/features/candidates/candidates/service"
	"seletivo_backend/internals/metrics"
)

type RecorderService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewRecorderService(db *gorm.DB) *RecorderService {
	return &RecorderService{DB: db, Now: time.Now}
}

type RecordResult struct {
	Count   int
	Skipped int
}

// item is one validated triple, already parsed.
type item struct {
	QuestionID   uuid.UUID
	OptionID     uuid.UUID
	TimeSpent    int
	OptionsOrder []uuid.UUID
}

// loaded is what an item needs from the store before it can be written.
type loaded struct {
	Question     testModel.QuestionModel
	Option       testModel.OptionModel
	StageName    string
	CategoryName *string
	Missing      bool
}

// Record persists every resolvable item of the batch in array order.
// Items naming an unknown question or option are skipped; earlier items stay
// committed when a later one fails.
func (s *RecorderService) Record(ctx context.Context, candidateID uuid.UUID, req *dto.SubmitResponsesRequest) (*RecordResult, error) {
	if _, err := candService.FindCandidate(ctx, s.DB, candidateID); err != nil {
		return nil, err
	}

	items := make([]item, 0, len(req.Responses))
	res := &RecordResult{}
	for _, r := range req.Responses {
		it, ok := parseItem(r)
		if !ok {
			res.Skipped++
			continue
		}
		items = append(items, it)
	}

	for _, it := range items {
		ld, err := s.load(ctx, it)
		if err != nil {
			return nil, err
		}
		if ld.Missing {
			log.Warn().
				Str("candidate_id", candidateID.String()).
				Str("question_id", it.QuestionID.String()).
				Str("option_id", it.OptionID.String()).
				Msg("response skipped: question or option not found")
			res.Skipped++
			continue
		}

		if err := s.upsert(ctx, candidateID, it, ld); err != nil {
			return nil, err
		}
		res.Count++
	}

	if total := req.TotalTime(); total > 0 {
		if err := s.DB.WithContext(ctx).
			Model(&candModel.CandidateModel{}).
			Where("candidate_id = ?", candidateID).
			UpdateColumn("candidate_time_spent", gorm.Expr("candidate_time_spent + ?", total)).Error; err != nil {
			return nil, fmt.Errorf("accumulate time spent: %w", err)
		}
	}

	metrics.ResponsesRecorded.Add(float64(res.Count))
	metrics.ResponsesSkipped.Add(float64(res.Skipped))

	log.Info().
		Str("candidate_id", candidateID.String()).
		Int("count", res.Count).
		Int("skipped", res.Skipped).
		Msg("responses recorded")
	return res, nil
}

func parseItem(r dto.SubmitResponseItem) (item, bool) {
	qid, err := uuid.Parse(r.QuestionID)
	if err != nil {
		return item{}, false
	}
	oid, err := uuid.Parse(r.OptionID)
	if err != nil {
		return item{}, false
	}
	it := item{QuestionID: qid, OptionID: oid}
	if r.TimeSpent != nil {
		it.TimeSpent = *r.TimeSpent
	}
	for _, raw := range r.OptionsOrder {
		id, err := uuid.Parse(raw)
		if err != nil {
			it.OptionsOrder = nil
			break
		}
		it.OptionsOrder = append(it.OptionsOrder, id)
	}
	return it, true
}

// load fetches the question (with options, stage and category) and the
// selected option concurrently.
func (s *RecorderService) load(ctx context.Context, it item) (*loaded, error) {
	ld := &loaded{}
	var qMissing, oMissing bool

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := s.DB.WithContext(gctx).
			Preload("Options", func(db *gorm.DB) *gorm.DB {
				return db.Order("option_position ASC")
			}).
			First(&ld.Question, "question_id = ?", it.QuestionID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			qMissing = true
			return nil
		}
		if err != nil {
			return fmt.Errorf("load question: %w", err)
		}

		var st testModel.StageModel
		err = s.DB.WithContext(gctx).First(&st, "stage_id = ?", ld.Question.QuestionStageID).Error
		switch {
		case err == nil:
			ld.StageName = st.StageName
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("load stage: %w", err)
		}

		if ld.Question.QuestionCategoryID != nil {
			var cat testModel.QuestionCategoryModel
			err = s.DB.WithContext(gctx).First(&cat, "question_category_id = ?", *ld.Question.QuestionCategoryID).Error
			switch {
			case err == nil:
				ld.CategoryName = &cat.QuestionCategoryName
			case !errors.Is(err, gorm.ErrRecordNotFound):
				return fmt.Errorf("load category: %w", err)
			}
		}
		return nil
	})
	g.Go(func() error {
		err := s.DB.WithContext(gctx).First(&ld.Option, "option_id = ?", it.OptionID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			oMissing = true
			return nil
		}
		if err != nil {
			return fmt.Errorf("load option: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ld.Missing = qMissing || oMissing || ld.Option.OptionQuestionID != ld.Question.QuestionID
	return ld, nil
}

func (s *RecorderService) upsert(ctx context.Context, candidateID uuid.UUID, it item, ld *loaded) error {
	now := s.Now().UTC()
	q := &ld.Question

	snap, err := buildSnapshot(q, ld.StageName, ld.CategoryName, it.OptionsOrder, now)
	if err != nil {
		return err
	}

	// opinion questions have no wrong answer
	isCorrect := q.IsOpinion() || ld.Option.OptionIsCorrect
	stageID := q.QuestionStageID
	questionText := q.QuestionText
	optionText := ld.Option.OptionText
	originalOrder := ld.Option.OptionPosition

	var stageName *string
	if ld.StageName != "" {
		stageName = &ld.StageName
	}

	row := model.ResponseModel{
		ResponseCandidateID:          candidateID,
		ResponseQuestionID:           q.QuestionID,
		ResponseOptionID:             ld.Option.OptionID,
		ResponseStageID:              &stageID,
		ResponseStageName:            stageName,
		ResponseQuestionText:         &questionText,
		ResponseOptionText:           &optionText,
		ResponseIsCorrect:            isCorrect,
		ResponseTimeSpent:            it.TimeSpent,
		ResponseQuestionSnapshot:     snap.Question,
		ResponseAllOptions:           snap.AllOptions,
		ResponseOptionsOrder:         snap.OptionsOrder,
		ResponseOptionCharacteristic: ld.Option.OptionCategoryName,
		ResponseOptionOriginalOrder:  &originalOrder,
		ResponseAnsweredAt:           now,
	}

	update := map[string]any{
		"response_option_id":             row.ResponseOptionID,
		"response_stage_id":              row.ResponseStageID,
		"response_stage_name":            row.ResponseStageName,
		"response_question_text":         row.ResponseQuestionText,
		"response_option_text":           row.ResponseOptionText,
		"response_is_correct":            row.ResponseIsCorrect,
		"response_time_spent":            row.ResponseTimeSpent,
		"response_question_snapshot":     row.ResponseQuestionSnapshot,
		"response_all_options":           row.ResponseAllOptions,
		"response_options_order":         row.ResponseOptionsOrder,
		"response_option_characteristic": row.ResponseOptionCharacteristic,
		"response_option_original_order": row.ResponseOptionOriginalOrder,
		"response_answered_at":           row.ResponseAnsweredAt,
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		where := tx.Model(&model.ResponseModel{}).
			Where("response_candidate_id = ? AND response_question_id = ?", candidateID, q.QuestionID)

		var existing model.ResponseModel
		err := tx.Where("response_candidate_id = ? AND response_question_id = ?", candidateID, q.QuestionID).
			Take(&existing).Error
		switch {
		case err == nil:
			return where.Updates(update).Error
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("find response: %w", err)
		}

		// savepoint so a concurrent insert of the same pair can fall back to update
		cerr := tx.Transaction(func(sp *gorm.DB) error {
			return sp.Create(&row).Error
		})
		if errors.Is(cerr, gorm.ErrDuplicatedKey) {
			return where.Updates(update).Error
		}
		if cerr != nil {
			return fmt.Errorf("create response: %w", cerr)
		}
		return nil
	})
}
