package service

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"seletivo_backend/internals/features/assessments/responses/dto"
	"seletivo_backend/internals/features/assessments/responses/model"
	testModel "seletivo_backend/internals/features/assessments/tests/model"
	helper "seletivo_backend/internals/helpers"
)

const noStageName = "Sem etapa"

// BuildResults rebuilds what a candidate answered, grouped by stage name in
// the order the stages were first answered. Text missing from the
// denormalized columns is taken from the stored snapshot.
func BuildResults(ctx context.Context, db *gorm.DB, candidateID uuid.UUID) (*dto.CandidateResults, error) {
	var rows []model.ResponseModel
	if err := db.WithContext(ctx).
		Where("response_candidate_id = ?", candidateID).
		Order("response_answered_at ASC, response_created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	return Summarize(rows), nil
}

// Summarize groups rows and computes the score and opinion profile.
func Summarize(rows []model.ResponseModel) *dto.CandidateResults {
	out := &dto.CandidateResults{Stages: []dto.StageResults{}}
	index := map[string]int{}
	profile := map[string]float64{}

	for i := range rows {
		r := &rows[i]
		snap, err := r.DecodeSnapshot()
		if err != nil {
			log.Warn().Err(err).Str("response_id", r.ResponseID.String()).Msg("snapshot ignored")
		}
		selected := snap.SelectedOption(r.ResponseOptionID)

		it := dto.ResultItem{
			QuestionID: r.ResponseQuestionID.String(),
			OptionID:   r.ResponseOptionID.String(),
			IsCorrect:  r.ResponseIsCorrect,
			TimeSpent:  r.ResponseTimeSpent,
			AnsweredAt: r.ResponseAnsweredAt,
		}
		it.QuestionText = firstNonEmpty(r.ResponseQuestionText, snapText(snap))
		if selected != nil {
			it.OptionText = firstNonEmpty(r.ResponseOptionText, selected.Text)
		} else {
			it.OptionText = firstNonEmpty(r.ResponseOptionText, "")
		}
		if snap != nil {
			it.QuestionType = snap.Type
		}

		switch testModel.QuestionType(it.QuestionType) {
		case testModel.QuestionTypeMultipleChoice:
			out.ScoredQuestions++
			if r.ResponseIsCorrect {
				out.CorrectAnswers++
			}
		case testModel.QuestionTypeOpinionMultiple:
			cat := r.ResponseOptionCharacteristic
			weight := 1.0
			if selected != nil {
				if selected.CategoryName != nil {
					cat = selected.CategoryName
				}
				if selected.Weight != nil {
					weight = *selected.Weight
				}
			}
			if cat != nil && *cat != "" {
				it.Category = cat
				profile[*cat] += weight
			}
		}

		stageName := firstNonEmpty(r.ResponseStageName, stageFromSnap(snap))
		if stageName == "" {
			stageName = noStageName
		}
		pos, ok := index[stageName]
		if !ok {
			sr := dto.StageResults{StageName: stageName, Responses: []dto.ResultItem{}}
			if r.ResponseStageID != nil {
				id := r.ResponseStageID.String()
				sr.StageID = &id
			}
			out.Stages = append(out.Stages, sr)
			pos = len(out.Stages) - 1
			index[stageName] = pos
		}
		out.Stages[pos].Responses = append(out.Stages[pos].Responses, it)
		out.TotalResponses++
	}

	out.Score = Score(out.CorrectAnswers, out.ScoredQuestions)
	if len(profile) > 0 {
		out.OpinionProfile = profile
	}
	return out
}

// Score is the percent of correct answers rounded to two decimals.
func Score(correct, total int) *float64 {
	if total <= 0 {
		return nil
	}
	v := math.Round(float64(correct)*10000/float64(total)) / 100
	return &v
}

// ListForAdmin pages the raw responses of a candidate.
func ListForAdmin(ctx context.Context, db *gorm.DB, candidateID uuid.UUID, p helper.Paging) ([]dto.ResponseListItem, int64, error) {
	q := db.WithContext(ctx).Model(&model.ResponseModel{}).Where("response_candidate_id = ?", candidateID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count responses: %w", err)
	}

	var rows []model.ResponseModel
	if err := q.Order("response_answered_at ASC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list responses: %w", err)
	}

	out := make([]dto.ResponseListItem, 0, len(rows))
	for _, r := range rows {
		it := dto.ResponseListItem{
			ResponseID:   r.ResponseID.String(),
			QuestionID:   r.ResponseQuestionID.String(),
			OptionID:     r.ResponseOptionID.String(),
			StageName:    r.ResponseStageName,
			QuestionText: r.ResponseQuestionText,
			OptionText:   r.ResponseOptionText,
			IsCorrect:    r.ResponseIsCorrect,
			TimeSpent:    r.ResponseTimeSpent,
			AnsweredAt:   r.ResponseAnsweredAt,
		}
		if r.ResponseStageID != nil {
			s := r.ResponseStageID.String()
			it.StageID = &s
		}
		out = append(out, it)
	}
	return out, total, nil
}

func firstNonEmpty(p *string, fallback string) string {
	if p != nil && *p != "" {
		return *p
	}
	return fallback
}

func snapText(s *model.QuestionSnapshot) string {
	if s == nil {
		return ""
	}
	return s.Text
}

func stageFromSnap(s *model.QuestionSnapshot) string {
	if s == nil {
		return ""
	}
	return s.StageName
}
