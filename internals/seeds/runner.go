package seeds

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"seletivo_backend/internals/seeds/assessments"
)

// RunAllSeeds loads the demo data used for local runs and manual QA.
func RunAllSeeds(db *gorm.DB) {
	if err := assessments.SeedDemoAssessmentFromJSON(db, "internals/seeds/assessments/data_demo_assessment.json"); err != nil {
		log.Error().Err(err).Msg("seed demo assessment")
	}
}
