package service

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"seletivo_backend/internals/features/assessments/responses/model"
	testModel "seletivo_backend/internals/features/assessments/tests/model"
)

// answerSnapshot is everything captured from the question at answer time.
type answerSnapshot struct {
	Question     datatypes.JSON
	AllOptions   datatypes.JSON
	OptionsOrder datatypes.JSON
}

func buildSnapshot(q *testModel.QuestionModel, stageName string, categoryName *string, presented []uuid.UUID, at time.Time) (*answerSnapshot, error) {
	opts := make([]model.OptionSnapshot, 0, len(q.Options))
	for _, o := range q.Options {
		opts = append(opts, model.OptionSnapshot{
			OptionID:     o.OptionID,
			Text:         o.OptionText,
			Position:     o.OptionPosition,
			IsCorrect:    o.OptionIsCorrect,
			CategoryName: o.OptionCategoryName,
			Weight:       o.OptionWeight,
		})
	}

	snap := model.QuestionSnapshot{
		QuestionID:   q.QuestionID,
		Text:         q.QuestionText,
		Type:         string(q.QuestionType),
		StageID:      q.QuestionStageID,
		StageName:    stageName,
		CategoryName: categoryName,
		Options:      opts,
		CapturedAt:   at,
	}

	qb, err := sonic.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal question snapshot: %w", err)
	}
	ob, err := sonic.Marshal(opts)
	if err != nil {
		return nil, fmt.Errorf("marshal options snapshot: %w", err)
	}
	order, err := sonic.Marshal(presentedOrder(q, presented))
	if err != nil {
		return nil, fmt.Errorf("marshal options order: %w", err)
	}

	return &answerSnapshot{
		Question:     datatypes.JSON(qb),
		AllOptions:   datatypes.JSON(ob),
		OptionsOrder: datatypes.JSON(order),
	}, nil
}

// presentedOrder keeps the client's order when it names exactly the
// question's options; otherwise it falls back to the stored positions.
func presentedOrder(q *testModel.QuestionModel, presented []uuid.UUID) []uuid.UUID {
	if len(presented) == len(q.Options) && len(presented) > 0 {
		known := make(map[uuid.UUID]struct{}, len(q.Options))
		for _, o := range q.Options {
			known[o.OptionID] = struct{}{}
		}
		ok := true
		for _, id := range presented {
			if _, hit := known[id]; !hit {
				ok = false
				break
			}
			delete(known, id)
		}
		if ok {
			return presented
		}
	}

	out := make([]uuid.UUID, 0, len(q.Options))
	for _, o := range q.Options {
		out = append(out, o.OptionID)
	}
	return out
}
