// Package export builds the admin download: the full collection plus
// the derived summary and headline totals in one JSON document.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/eyzick/harry-potter-halloween/internal/models"
	"github.com/eyzick/harry-potter-halloween/internal/summary"
)

// Document is the export payload. Field names match the files the
// original dashboard produced so downstream spreadsheets keep working.
type Document struct {
	RSVPs          []models.RSVPRecord    `json:"rsvps"`
	Summary        models.CategorySummary `json:"summary"`
	ExportDate     string                 `json:"exportDate"`
	TotalRSVPs     int                    `json:"totalRSVPs"`
	AttendingCount int                    `json:"attendingCount"`
	TotalGuests    int                    `json:"totalGuests"`
}

// Build assembles the export document for a collection at the given
// instant.
func Build(records []models.RSVPRecord, now time.Time) Document {
	if records == nil {
		records = []models.RSVPRecord{}
	}
	totals := summary.ComputeTotals(records)
	return Document{
		RSVPs:          records,
		Summary:        summary.Summarize(records),
		ExportDate:     now.UTC().Format(time.RFC3339),
		TotalRSVPs:     totals.Submitted,
		AttendingCount: totals.Attending,
		TotalGuests:    totals.TotalGuests,
	}
}

// Filename returns the date-stamped name the download uses.
func Filename(now time.Time) string {
	return fmt.Sprintf("halloween-party-rsvps-%s.json", now.UTC().Format("2006-01-02"))
}

// Write pretty-prints the document into dir and returns the full path
// of the file written.
func (d Document) Write(dir string, now time.Time) (string, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal export: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, Filename(now))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}
