package repository

import (
	"context"

	"warkop-survey/internal/domain/model"
)

// SurveyResultsRepository persists a finished survey run together with its
// deduplicated record table.
type SurveyResultsRepository interface {
	SaveRun(ctx context.Context, run *model.SurveyRun) error
}

// SurveyExporter writes the deduplicated record table to a flat file.
type SurveyExporter interface {
	Export(records []model.WarkopRecord) error
}
