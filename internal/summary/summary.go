// Package summary projects the RSVP collection into the per-category
// "who is bringing what" view used by the form and the admin
// dashboard.
package summary

import (
	"fmt"

	"github.com/eyzick/harry-potter-halloween/internal/models"
)

// Summarize builds the category summary for a collection of records.
//
// Only attending guests contribute. Entries keep record order, then
// item order within the record; nothing is sorted or de-duplicated
// here. Empty categories come back as empty lists, never nil.
func Summarize(records []models.RSVPRecord) models.CategorySummary {
	s := models.CategorySummary{
		Drinks: []string{},
		Snacks: []string{},
		Other:  []string{},
	}
	for _, r := range records {
		if !r.Attending {
			continue
		}
		for _, item := range r.BringingItems.Drinks {
			s.Drinks = append(s.Drinks, entry(r.Name, item))
		}
		for _, item := range r.BringingItems.Snacks {
			s.Snacks = append(s.Snacks, entry(r.Name, item))
		}
		for _, item := range r.BringingItems.Other {
			s.Other = append(s.Other, entry(r.Name, item))
		}
	}
	return s
}

func entry(name, item string) string {
	return fmt.Sprintf("%s: %s", name, item)
}

// ComputeTotals counts submissions, attending responses, and the
// total headcount. Guest counts only accrue for attending records.
func ComputeTotals(records []models.RSVPRecord) models.Totals {
	t := models.Totals{Submitted: len(records)}
	for _, r := range records {
		if r.Attending {
			t.Attending++
			t.TotalGuests += r.GuestCount
		}
	}
	return t
}
