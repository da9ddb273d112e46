package database

import (
	"gorm.io/gorm"

	progressModel "seletivo_backend/internals/features/assessments/progress/model"
	respModel "seletivo_backend/internals/features/assessments/responses/model"
	testModel "seletivo_backend/internals/features/assessments/tests/model"
	candModel "seletivo_backend/internals/features/candidates/candidates/model"
	procModel "seletivo_backend/internals/features/selection/processes/model"
)

// Models lists every table owned by this service, in dependency order.
func Models() []any {
	return []any{
		&procModel.SelectionProcessModel{},
		&testModel.TestModel{},
		&testModel.StageModel{},
		&testModel.TestStageModel{},
		&testModel.QuestionCategoryModel{},
		&testModel.QuestionModel{},
		&testModel.OptionModel{},
		&procModel.ProcessStageModel{},
		&candModel.CandidateModel{},
		&respModel.ResponseModel{},
		&progressModel.CandidateProgressModel{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
