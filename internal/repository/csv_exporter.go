package repository

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"warkop-survey/internal/domain/model"
	"warkop-survey/internal/domain/repository"
)

// CSVExporter writes the deduplicated survey table to a flat CSV file,
// placeholder rows included. The file starts with a UTF-8 BOM so
// spreadsheet tools pick up the encoding.
type CSVExporter struct {
	path string
}

func NewCSVExporter(path string) *CSVExporter {
	return &CSVExporter{path: path}
}

var _ repository.SurveyExporter = (*CSVExporter)(nil)

// Export writes one row per record in table order.
func (e *CSVExporter) Export(records []model.WarkopRecord) error {
	file, err := os.Create(e.path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", e.path, err)
	}
	defer file.Close()

	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	header := []string{
		"Sample Latitude", "Sample Longitude", "Business Name",
		"Place ID", "Latitude", "Longitude", "Google Maps URL",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, rec := range records {
		row := []string{
			formatCoord(rec.SampleLatitude),
			formatCoord(rec.SampleLongitude),
			rec.BusinessName,
			rec.PlaceID,
			formatCoord(rec.Latitude),
			formatCoord(rec.Longitude),
			rec.GoogleMapsURL,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
