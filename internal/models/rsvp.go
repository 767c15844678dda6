package models

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

// Category names are a fixed, closed set. Items a guest brings always
// land in exactly one of these three buckets.
const (
	CategoryDrinks = "Drinks"
	CategorySnacks = "Snacks"
	CategoryOther  = "Other"
)

// BringingItems holds what one guest intends to bring, per category.
type BringingItems struct {
	Drinks []string `json:"drinks"`
	Snacks []string `json:"snacks"`
	Other  []string `json:"other"`
}

// IsEmpty reports whether no items are listed in any category.
func (b BringingItems) IsEmpty() bool {
	return len(b.Drinks) == 0 && len(b.Snacks) == 0 && len(b.Other) == 0
}

// RSVPRecord is one guest submission. Records are immutable once
// stored; the only mutation the system supports is whole-record
// deletion from the admin dashboard.
type RSVPRecord struct {
	ID                  string        `json:"id"`
	Timestamp           int64         `json:"timestamp"` // milliseconds since epoch
	Name                string        `json:"name"`
	Email               string        `json:"email"`
	Attending           bool          `json:"attending"`
	GuestCount          int           `json:"guestCount"`
	DietaryRestrictions string        `json:"dietaryRestrictions,omitempty"`
	BringingItems       BringingItems `json:"bringingItems"`
}

// SubmittedAt returns the creation instant of the record.
func (r RSVPRecord) SubmittedAt() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// rawRecord mirrors RSVPRecord but leaves the fields that drifted
// across stored revisions untyped so both shapes can be decoded.
type rawRecord struct {
	ID                  string          `json:"id"`
	Timestamp           int64           `json:"timestamp"`
	Name                string          `json:"name"`
	Email               string          `json:"email"`
	Attending           bool            `json:"attending"`
	GuestCount          json.RawMessage `json:"guestCount"`
	DietaryRestrictions string          `json:"dietaryRestrictions"`
	BringingItems       json.RawMessage `json:"bringingItems"`

	// Legacy shape only: bringingItems was a flat tag list and the
	// item text lived in one detail string per category.
	DrinksDetails string `json:"drinksDetails"`
	SnacksDetails string `json:"snacksDetails"`
	OtherDetails  string `json:"otherDetails"`
}

// UnmarshalJSON decodes a stored record in either schema revision and
// normalizes it to the structured shape.
//
// Two revisions exist in the wild: the current one, where
// bringingItems is an object of per-category item lists, and the
// legacy one, where bringingItems is a flat array of category tags
// with a free-text detail field per category. A legacy tag with a
// non-empty detail string contributes exactly one item.
func (r *RSVPRecord) UnmarshalJSON(data []byte) error {
	var raw rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.ID = raw.ID
	r.Timestamp = raw.Timestamp
	r.Name = raw.Name
	r.Email = raw.Email
	r.Attending = raw.Attending
	r.DietaryRestrictions = raw.DietaryRestrictions
	r.GuestCount = coerceGuestCount(raw.GuestCount)

	r.BringingItems = BringingItems{
		Drinks: []string{},
		Snacks: []string{},
		Other:  []string{},
	}
	if len(raw.BringingItems) == 0 || string(raw.BringingItems) == "null" {
		return nil
	}

	var structured BringingItems
	if err := json.Unmarshal(raw.BringingItems, &structured); err == nil {
		if structured.Drinks != nil {
			r.BringingItems.Drinks = structured.Drinks
		}
		if structured.Snacks != nil {
			r.BringingItems.Snacks = structured.Snacks
		}
		if structured.Other != nil {
			r.BringingItems.Other = structured.Other
		}
		return nil
	}

	var tags []string
	if err := json.Unmarshal(raw.BringingItems, &tags); err != nil {
		// Neither shape; treat as nothing brought rather than failing
		// the whole collection read.
		return nil
	}
	for _, tag := range tags {
		switch tag {
		case CategoryDrinks:
			if raw.DrinksDetails != "" {
				r.BringingItems.Drinks = append(r.BringingItems.Drinks, raw.DrinksDetails)
			}
		case CategorySnacks:
			if raw.SnacksDetails != "" {
				r.BringingItems.Snacks = append(r.BringingItems.Snacks, raw.SnacksDetails)
			}
		case CategoryOther:
			if raw.OtherDetails != "" {
				r.BringingItems.Other = append(r.BringingItems.Other, raw.OtherDetails)
			}
		}
	}
	return nil
}

// coerceGuestCount materializes whatever was stored (number, numeric
// string, missing, junk) as an int >= 1.
func coerceGuestCount(raw json.RawMessage) int {
	if len(raw) == 0 || string(raw) == "null" {
		return 1
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		if n >= 1 {
			return int(n)
		}
		return 1
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n >= 1 {
			return n
		}
	}
	return 1
}

// ErrInvalidSubmission is returned when required form fields are
// missing from a submission.
var ErrInvalidSubmission = errors.New("name and email are required")

// Submission is a guest response before the gateway assigns an ID and
// timestamp.
type Submission struct {
	Name                string
	Email               string
	Attending           bool
	GuestCount          int
	DietaryRestrictions string
	BringingItems       BringingItems
}

// Validate enforces the input-boundary rules: required identity
// fields, a guest count of at least one, and no duplicate items
// within a category. De-duplication applies to new submissions only;
// already-stored records are never rewritten.
func (s *Submission) Validate() error {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	if s.Name == "" || s.Email == "" {
		return ErrInvalidSubmission
	}
	if s.GuestCount < 1 {
		s.GuestCount = 1
	}
	s.BringingItems.Drinks = dedupe(s.BringingItems.Drinks)
	s.BringingItems.Snacks = dedupe(s.BringingItems.Snacks)
	s.BringingItems.Other = dedupe(s.BringingItems.Other)
	return nil
}

func dedupe(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// CategorySummary is the derived cross-guest view of what everyone is
// bringing. It is recomputed from the full collection on every read
// and never persisted.
type CategorySummary struct {
	Drinks []string `json:"drinks"`
	Snacks []string `json:"snacks"`
	Other  []string `json:"other"`
}

// Totals are the headline counts shown on the admin overview and
// included in exports.
type Totals struct {
	Submitted   int `json:"totalRSVPs"`
	Attending   int `json:"attendingCount"`
	TotalGuests int `json:"totalGuests"`
}
