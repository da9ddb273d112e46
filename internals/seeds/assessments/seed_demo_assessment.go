package assessments

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	testModel "seletivo_backend/internals/features/assessments/tests/model"
	candModel "seletivo_backend/internals/features/candidates/candidates/model"
	procModel "seletivo_backend/internals/features/selection/processes/model"
)

type OptionSeed struct {
	Text      string   `json:"text"`
	IsCorrect bool     `json:"is_correct"`
	Category  *string  `json:"category"`
	Weight    *float64 `json:"weight"`
}

type QuestionSeed struct {
	Text     string       `json:"text"`
	Type     string       `json:"type"`
	Category *string      `json:"category"`
	Options  []OptionSeed `json:"options"`
}

type StageSeed struct {
	Name      string         `json:"name"`
	Questions []QuestionSeed `json:"questions"`
}

type ProcessStageSeed struct {
	Name string `json:"name"`
	// 1-based index into stages; 0 = no linked stage
	StageIndex             int  `json:"stage_index"`
	RequestCandidatePhoto  bool `json:"request_candidate_photo"`
	ShowResultsToCandidate bool `json:"show_results_to_candidate"`
}

type CandidateSeed struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	InviteCode     string `json:"invite_code"`
	InviteTTLHours int    `json:"invite_ttl_hours"`
}

type DemoAssessmentSeed struct {
	CompanyID uuid.UUID `json:"company_id"`
	Test      struct {
		Title       string  `json:"title"`
		Description *string `json:"description"`
		TimeLimit   *int    `json:"time_limit"`
	} `json:"test"`
	Stages  []StageSeed `json:"stages"`
	Process *struct {
		Name   string             `json:"name"`
		Stages []ProcessStageSeed `json:"stages"`
	} `json:"process"`
	Candidates []CandidateSeed `json:"candidates"`
}

// SeedDemoAssessmentFromJSON creates a test with its stages, questions, an
// optional selection process and invited candidates. A test with the same
// title in the same company means the seed already ran.
func SeedDemoAssessmentFromJSON(db *gorm.DB, filePath string) error {
	log.Info().Str("file", filePath).Msg("reading seed")

	raw, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var seed DemoAssessmentSeed
	if err := sonic.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("decode seed file: %w", err)
	}
	if seed.CompanyID == uuid.Nil || seed.Test.Title == "" {
		return errors.New("seed needs company_id and test.title")
	}

	var existing testModel.TestModel
	err = db.Where("test_company_id = ? AND test_title = ?", seed.CompanyID, seed.Test.Title).First(&existing).Error
	if err == nil {
		log.Info().Str("test", seed.Test.Title).Msg("seed already applied, skipping")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check seed: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		company := seed.CompanyID

		test := testModel.TestModel{
			TestCompanyID:   &company,
			TestTitle:       seed.Test.Title,
			TestDescription: seed.Test.Description,
			TestTimeLimit:   seed.Test.TimeLimit,
		}
		if err := tx.Create(&test).Error; err != nil {
			return fmt.Errorf("create test: %w", err)
		}

		stageIDs := make([]uuid.UUID, 0, len(seed.Stages))
		for i, s := range seed.Stages {
			st := testModel.StageModel{StageCompanyID: &company, StageName: s.Name}
			if err := tx.Create(&st).Error; err != nil {
				return fmt.Errorf("create stage %q: %w", s.Name, err)
			}
			if err := tx.Create(&testModel.TestStageModel{
				TestStageTestID:  test.TestID,
				TestStageStageID: st.StageID,
				TestStageOrder:   i + 1,
			}).Error; err != nil {
				return fmt.Errorf("link stage %q: %w", s.Name, err)
			}
			stageIDs = append(stageIDs, st.StageID)

			for _, q := range s.Questions {
				if err := createQuestion(tx, company, st.StageID, q); err != nil {
					return err
				}
			}
		}

		var processID *uuid.UUID
		if seed.Process != nil {
			p := procModel.SelectionProcessModel{SelectionProcessCompanyID: company, SelectionProcessName: seed.Process.Name}
			if err := tx.Create(&p).Error; err != nil {
				return fmt.Errorf("create process: %w", err)
			}
			processID = &p.SelectionProcessID

			for i, ps := range seed.Process.Stages {
				row := procModel.ProcessStageModel{
					ProcessStageProcessID:              p.SelectionProcessID,
					ProcessStageName:                   ps.Name,
					ProcessStageOrder:                  i + 1,
					ProcessStageRequestCandidatePhoto:  ps.RequestCandidatePhoto,
					ProcessStageShowResultsToCandidate: ps.ShowResultsToCandidate,
				}
				if ps.StageIndex >= 1 && ps.StageIndex <= len(stageIDs) {
					sid := stageIDs[ps.StageIndex-1]
					tid := test.TestID
					row.ProcessStageStageID = &sid
					row.ProcessStageTestID = &tid
				}
				if err := tx.Create(&row).Error; err != nil {
					return fmt.Errorf("create process stage %q: %w", ps.Name, err)
				}
			}
		}

		for _, c := range seed.Candidates {
			ttl := c.InviteTTLHours
			if ttl <= 0 {
				ttl = 72
			}
			code := c.InviteCode
			expires := time.Now().UTC().Add(time.Duration(ttl) * time.Hour)
			testID := test.TestID
			cand := candModel.CandidateModel{
				CandidateCompanyID:          &company,
				CandidateName:               c.Name,
				CandidateEmail:              c.Email,
				CandidateInviteCode:         &code,
				CandidateInviteExpires:      &expires,
				CandidateTestID:             &testID,
				CandidateSelectionProcessID: processID,
			}
			if err := tx.Create(&cand).Error; err != nil {
				return fmt.Errorf("create candidate %q: %w", c.Email, err)
			}
			log.Info().Str("candidate", c.Email).Str("invite_code", code).Msg("seeded candidate")
		}

		log.Info().Str("test", test.TestTitle).Int("stages", len(stageIDs)).Msg("seed applied")
		return nil
	})
}

func createQuestion(tx *gorm.DB, company, stageID uuid.UUID, q QuestionSeed) error {
	var categoryID *uuid.UUID
	if q.Category != nil && *q.Category != "" {
		cat := testModel.QuestionCategoryModel{QuestionCategoryCompanyID: &company, QuestionCategoryName: *q.Category}
		if err := tx.Create(&cat).Error; err != nil {
			return fmt.Errorf("create category %q: %w", *q.Category, err)
		}
		categoryID = &cat.QuestionCategoryID
	}

	qt := testModel.QuestionType(q.Type)
	if qt != testModel.QuestionTypeOpinionMultiple {
		qt = testModel.QuestionTypeMultipleChoice
	}
	row := testModel.QuestionModel{
		QuestionCompanyID:  &company,
		QuestionStageID:    stageID,
		QuestionCategoryID: categoryID,
		QuestionText:       q.Text,
		QuestionType:       qt,
	}
	if err := tx.Create(&row).Error; err != nil {
		return fmt.Errorf("create question: %w", err)
	}

	for i, o := range q.Options {
		opt := testModel.OptionModel{
			OptionQuestionID:   row.QuestionID,
			OptionText:         o.Text,
			OptionPosition:     i + 1,
			OptionIsCorrect:    o.IsCorrect && qt == testModel.QuestionTypeMultipleChoice,
			OptionCategoryName: o.Category,
			OptionWeight:       o.Weight,
		}
		if err := tx.Create(&opt).Error; err != nil {
			return fmt.Errorf("create option: %w", err)
		}
	}
	return nil
}
