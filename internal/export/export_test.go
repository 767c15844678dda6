package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eyzick/harry-potter-halloween/internal/models"
)

func testRecords() []models.RSVPRecord {
	return []models.RSVPRecord{
		{
			ID: "r1", Timestamp: 1730000000000, Name: "Harry", Email: "h@o.com",
			Attending: true, GuestCount: 2,
			BringingItems: models.BringingItems{Drinks: []string{"Butterbeer"}, Snacks: []string{}, Other: []string{}},
		},
		{
			ID: "r2", Timestamp: 1730000100000, Name: "Filch", Email: "f@o.com",
			Attending: false, GuestCount: 4,
			BringingItems: models.BringingItems{Drinks: []string{}, Snacks: []string{}, Other: []string{}},
		},
	}
}

func TestBuild_Totals(t *testing.T) {
	doc := Build(testRecords(), time.Date(2025, 10, 20, 12, 0, 0, 0, time.UTC))

	assert.Equal(t, 2, doc.TotalRSVPs)
	assert.Equal(t, 1, doc.AttendingCount)
	assert.Equal(t, 2, doc.TotalGuests, "non-attending guest counts are excluded")
	assert.Equal(t, []string{"Harry: Butterbeer"}, doc.Summary.Drinks)
	assert.Equal(t, "2025-10-20T12:00:00Z", doc.ExportDate)
}

func TestFilename(t *testing.T) {
	now := time.Date(2025, 10, 20, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "halloween-party-rsvps-2025-10-20.json", Filename(now))
}

func TestWrite_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 10, 20, 12, 0, 0, 0, time.UTC)
	records := testRecords()

	path, err := Build(records, now).Write(dir, now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "halloween-party-rsvps-2025-10-20.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var back Document
	require.NoError(t, json.Unmarshal(data, &back))

	// Re-reading the export reproduces the same totals as summing
	// the attending records independently.
	wantGuests := 0
	for _, r := range back.RSVPs {
		if r.Attending {
			wantGuests += r.GuestCount
		}
	}
	assert.Equal(t, back.TotalGuests, wantGuests)
	assert.Len(t, back.RSVPs, len(records))
}

func TestBuild_EmptyCollection(t *testing.T) {
	doc := Build(nil, time.Now())

	assert.Zero(t, doc.TotalRSVPs)
	assert.NotNil(t, doc.RSVPs)
	assert.Equal(t, []string{}, doc.Summary.Drinks)
}
