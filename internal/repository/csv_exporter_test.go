package repository

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"warkop-survey/internal/domain/model"
)

func TestCSVExporter_WritesTableWithBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warkop_results.csv")

	records := []model.WarkopRecord{
		model.NewWarkopRecord(
			model.SamplePoint{Latitude: -7.25, Longitude: 112.75},
			model.Place{ID: "p1", Name: "Warkop Pak Adi", Location: model.Location{Latitude: -7.251, Longitude: 112.751}},
		),
		model.NewNoResultRecord(3, model.SamplePoint{Latitude: -7.30, Longitude: 112.70}),
	}

	if err := NewCSVExporter(path).Export(records); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	bom := []byte{0xEF, 0xBB, 0xBF}
	if !bytes.HasPrefix(data, bom) {
		t.Fatal("output must start with a UTF-8 BOM")
	}

	rows, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, bom))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d rows", len(rows))
	}
	if rows[0][0] != "Sample Latitude" || rows[0][6] != "Google Maps URL" {
		t.Fatalf("unexpected header: %v", rows[0])
	}

	place := rows[1]
	if place[2] != "Warkop Pak Adi" || place[3] != "p1" {
		t.Fatalf("unexpected place row: %v", place)
	}
	if place[6] != "https://www.google.com/maps/place/?q=place_id:p1" {
		t.Fatalf("unexpected maps URL: %v", place[6])
	}

	placeholder := rows[2]
	if placeholder[2] != model.NoResultName || placeholder[3] != model.NotAvailable || placeholder[6] != model.NotAvailable {
		t.Fatalf("unexpected placeholder row: %v", placeholder)
	}
	if placeholder[0] != placeholder[4] || placeholder[1] != placeholder[5] {
		t.Fatal("placeholder rows carry the sample coordinate in both coordinate pairs")
	}
}

func TestCSVExporter_EmptyTableStillWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := NewCSVExporter(path).Export(nil); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	rows, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected only the header, got %d rows", len(rows))
	}
}

func TestCSVExporter_UnwritablePath(t *testing.T) {
	exporter := NewCSVExporter(filepath.Join(t.TempDir(), "missing", "out.csv"))
	if err := exporter.Export(nil); err == nil {
		t.Fatal("expected an error for an unwritable path")
	}
}
