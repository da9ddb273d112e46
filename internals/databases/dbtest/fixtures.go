package dbtest

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	testModel "seletivo_backend/internals/features/assessments/tests/model"
	candModel "seletivo_backend/internals/features/candidates/candidates/model"
	procModel "seletivo_backend/internals/features/selection/processes/model"
)

// Assessment is a test with ordered stages; each stage holds multiple-choice
// questions whose first option is the correct one.
type Assessment struct {
	Test      testModel.TestModel
	Stages    []testModel.StageModel
	Questions map[uuid.UUID][]testModel.QuestionModel
}

func mustCreate(t *testing.T, db *gorm.DB, v any) {
	t.Helper()
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("create %T: %v", v, err)
	}
}

// NewAssessment creates a test with one stage per entry of questionsPerStage.
func NewAssessment(t *testing.T, db *gorm.DB, companyID uuid.UUID, questionsPerStage ...int) *Assessment {
	t.Helper()
	a := &Assessment{Questions: map[uuid.UUID][]testModel.QuestionModel{}}
	a.Test = testModel.TestModel{TestCompanyID: &companyID, TestTitle: "Avaliação"}
	mustCreate(t, db, &a.Test)

	for i, n := range questionsPerStage {
		st := testModel.StageModel{StageCompanyID: &companyID, StageName: fmt.Sprintf("Etapa %d", i+1)}
		mustCreate(t, db, &st)
		mustCreate(t, db, &testModel.TestStageModel{
			TestStageTestID:  a.Test.TestID,
			TestStageStageID: st.StageID,
			TestStageOrder:   i + 1,
		})
		a.Stages = append(a.Stages, st)

		for j := 0; j < n; j++ {
			a.Questions[st.StageID] = append(a.Questions[st.StageID], NewChoiceQuestion(t, db, st.StageID, fmt.Sprintf("Pergunta %d.%d", i+1, j+1)))
		}
	}
	return a
}

// NewChoiceQuestion adds a MULTIPLE_CHOICE question with three options, the
// first one correct.
func NewChoiceQuestion(t *testing.T, db *gorm.DB, stageID uuid.UUID, text string) testModel.QuestionModel {
	t.Helper()
	q := testModel.QuestionModel{
		QuestionStageID: stageID,
		QuestionText:    text,
		QuestionType:    testModel.QuestionTypeMultipleChoice,
	}
	mustCreate(t, db, &q)
	for k := 0; k < 3; k++ {
		o := testModel.OptionModel{
			OptionQuestionID: q.QuestionID,
			OptionText:       fmt.Sprintf("%s / opção %d", text, k+1),
			OptionPosition:   k + 1,
			OptionIsCorrect:  k == 0,
		}
		mustCreate(t, db, &o)
		q.Options = append(q.Options, o)
	}
	return q
}

// NewOpinionQuestion adds an OPINION_MULTIPLE question with one option per
// category, each weighing weight.
func NewOpinionQuestion(t *testing.T, db *gorm.DB, stageID uuid.UUID, text string, weight float64, categories ...string) testModel.QuestionModel {
	t.Helper()
	q := testModel.QuestionModel{
		QuestionStageID: stageID,
		QuestionText:    text,
		QuestionType:    testModel.QuestionTypeOpinionMultiple,
	}
	mustCreate(t, db, &q)
	for k, cat := range categories {
		cat := cat
		w := weight
		o := testModel.OptionModel{
			OptionQuestionID:   q.QuestionID,
			OptionText:         cat,
			OptionPosition:     k + 1,
			OptionCategoryName: &cat,
			OptionWeight:       &w,
		}
		mustCreate(t, db, &o)
		q.Options = append(q.Options, o)
	}
	return q
}

type CandidateOpt func(*candModel.CandidateModel)

func WithInvite(code string, expires time.Time) CandidateOpt {
	return func(m *candModel.CandidateModel) {
		m.CandidateInviteCode = &code
		m.CandidateInviteExpires = &expires
	}
}

func WithTest(testID uuid.UUID) CandidateOpt {
	return func(m *candModel.CandidateModel) { m.CandidateTestID = &testID }
}

func WithProcess(processID uuid.UUID) CandidateOpt {
	return func(m *candModel.CandidateModel) { m.CandidateSelectionProcessID = &processID }
}

func WithoutCompany() CandidateOpt {
	return func(m *candModel.CandidateModel) { m.CandidateCompanyID = nil }
}

func Completed() CandidateOpt {
	return func(m *candModel.CandidateModel) {
		now := time.Now().UTC()
		m.CandidateCompleted = true
		m.CandidateCompletedAt = &now
	}
}

func WithAttempts(n int) CandidateOpt {
	return func(m *candModel.CandidateModel) { m.CandidateInviteAttempts = n }
}

func NewCandidate(t *testing.T, db *gorm.DB, companyID uuid.UUID, opts ...CandidateOpt) *candModel.CandidateModel {
	t.Helper()
	m := &candModel.CandidateModel{
		CandidateCompanyID: &companyID,
		CandidateName:      "Maria Souza",
		CandidateEmail:     "maria@example.com",
	}
	for _, o := range opts {
		o(m)
	}
	mustCreate(t, db, m)
	return m
}

type ProcessStageSpec struct {
	Name        string
	TestID      *uuid.UUID
	StageID     *uuid.UUID
	Photo       bool
	ShowResults bool
}

func NewProcess(t *testing.T, db *gorm.DB, companyID uuid.UUID, specs ...ProcessStageSpec) (procModel.SelectionProcessModel, []procModel.ProcessStageModel) {
	t.Helper()
	p := procModel.SelectionProcessModel{SelectionProcessCompanyID: companyID, SelectionProcessName: "Processo"}
	mustCreate(t, db, &p)

	stages := make([]procModel.ProcessStageModel, 0, len(specs))
	for i, s := range specs {
		ps := procModel.ProcessStageModel{
			ProcessStageProcessID:              p.SelectionProcessID,
			ProcessStageName:                   s.Name,
			ProcessStageOrder:                  i + 1,
			ProcessStageTestID:                 s.TestID,
			ProcessStageStageID:                s.StageID,
			ProcessStageRequestCandidatePhoto:  s.Photo,
			ProcessStageShowResultsToCandidate: s.ShowResults,
		}
		mustCreate(t, db, &ps)
		stages = append(stages, ps)
	}
	return p, stages
}
