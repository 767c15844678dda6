// Package store persists the RSVP collection.
//
// The primary backend is a hosted document bin the client treats as a
// remote JSON blob; a sqlite store on the organizer's device serves
// as the fallback. Every mutation is a whole-collection
// read-modify-write, so two writers racing against the bin can lose
// an append (last write wins). That is accepted for the target
// single-organizer usage and is not papered over here.
package store

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eyzick/harry-potter-halloween/internal/models"
	"github.com/eyzick/harry-potter-halloween/internal/summary"
)

// Source identifies which backend served a gateway call.
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

// Result describes the outcome of a gateway mutation. Fallback is set
// when the call succeeded only via the local store, so callers can
// surface a degraded-storage notice. Found distinguishes a delete
// that removed a record from a no-op on an unknown id.
type Result struct {
	Source   Source
	Fallback bool
	Found    bool

	// Record is the stored record with its assigned id and
	// timestamp. Set by Save only.
	Record models.RSVPRecord
}

// Gateway mediates all access to the RSVP collection, applying the
// configured fallback policy.
//
// In fallback mode (the default) the remote bin is preferred and any
// remote failure, including missing credentials, degrades to the
// local store. The two stores are not synchronized: a write that
// falls back lands only locally. In remote-exclusive mode remote
// failures propagate to the caller and the local store is never
// touched.
type Gateway struct {
	remote          *RemoteBin
	local           *LocalStore
	fallbackEnabled bool
	log             zerolog.Logger

	// Now and NewID are injectable for tests.
	Now   func() time.Time
	NewID func() string

	mu sync.Mutex
}

// NewGateway wires a gateway over the two backends. local may be nil
// when fallbackEnabled is false.
func NewGateway(remote *RemoteBin, local *LocalStore, fallbackEnabled bool) *Gateway {
	return &Gateway{
		remote:          remote,
		local:           local,
		fallbackEnabled: fallbackEnabled,
		log:             zerolog.New(os.Stdout).With().Str("component", "Gateway").Logger(),
		Now:             time.Now,
		NewID:           uuid.NewString,
	}
}

// Save validates a submission, assigns its id and timestamp, appends
// it to the collection, and writes the collection back preserving the
// envelope shape already in the bin.
func (g *Gateway) Save(ctx context.Context, sub models.Submission) (Result, error) {
	if err := sub.Validate(); err != nil {
		return Result{}, err
	}

	record := models.RSVPRecord{
		ID:                  g.NewID(),
		Timestamp:           g.Now().UnixMilli(),
		Name:                sub.Name,
		Email:               sub.Email,
		Attending:           sub.Attending,
		GuestCount:          sub.GuestCount,
		DietaryRestrictions: sub.DietaryRestrictions,
		BringingItems:       sub.BringingItems,
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	env, records, err := g.remote.Fetch(ctx)
	if err == nil {
		if err = g.remote.Replace(ctx, env, append(records, record)); err == nil {
			g.log.Info().Str("id", record.ID).Str("name", record.Name).Msg("RSVP saved to remote store")
			return Result{Source: SourceRemote, Found: true, Record: record}, nil
		}
	}

	if !g.fallbackEnabled {
		return Result{}, fmt.Errorf("failed to save RSVP: %w", err)
	}

	g.log.Warn().Err(err).Msg("Remote store unavailable, saving RSVP locally")
	local, lerr := g.local.Load()
	if lerr != nil {
		return Result{}, lerr
	}
	if lerr := g.local.Store(append(local, record)); lerr != nil {
		return Result{}, lerr
	}
	return Result{Source: SourceLocal, Fallback: true, Found: true, Record: record}, nil
}

// List returns the full stored collection in submission order. Guest
// counts are normalized on decode regardless of how they were stored.
//
// A successful remote read is authoritative even when it returns zero
// records; the local store is consulted only when the remote call
// itself fails.
func (g *Gateway) List(ctx context.Context) ([]models.RSVPRecord, error) {
	_, records, err := g.remote.Fetch(ctx)
	if err == nil {
		return records, nil
	}

	if !g.fallbackEnabled {
		return nil, fmt.Errorf("failed to load RSVPs: %w", err)
	}

	g.log.Warn().Err(err).Msg("Remote store unavailable, listing local RSVPs")
	return g.local.Load()
}

// Delete removes the record with the given id and writes the
// remainder back. An unknown id is a no-op, not an error; Result.Found
// reports which happened.
func (g *Gateway) Delete(ctx context.Context, id string) (Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	env, records, err := g.remote.Fetch(ctx)
	if err == nil {
		remaining, found := without(records, id)
		if !found {
			return Result{Source: SourceRemote}, nil
		}
		if err = g.remote.Replace(ctx, env, remaining); err == nil {
			g.log.Info().Str("id", id).Msg("RSVP deleted from remote store")
			return Result{Source: SourceRemote, Found: true}, nil
		}
	}

	if !g.fallbackEnabled {
		return Result{}, fmt.Errorf("failed to delete RSVP: %w", err)
	}

	g.log.Warn().Err(err).Msg("Remote store unavailable, deleting RSVP locally")
	local, lerr := g.local.Load()
	if lerr != nil {
		return Result{}, lerr
	}
	remaining, found := without(local, id)
	if !found {
		return Result{Source: SourceLocal, Fallback: true}, nil
	}
	if lerr := g.local.Store(remaining); lerr != nil {
		return Result{}, lerr
	}
	return Result{Source: SourceLocal, Fallback: true, Found: true}, nil
}

// Summary recomputes the category summary from the latest stored
// collection. Never memoized.
func (g *Gateway) Summary(ctx context.Context) (models.CategorySummary, error) {
	records, err := g.List(ctx)
	if err != nil {
		return models.CategorySummary{}, err
	}
	return summary.Summarize(records), nil
}

// without filters one record out by identity, reporting whether it
// was present. Exactly one record is removed even if ids were ever
// duplicated.
func without(records []models.RSVPRecord, id string) ([]models.RSVPRecord, bool) {
	remaining := make([]models.RSVPRecord, 0, len(records))
	found := false
	for _, r := range records {
		if !found && r.ID == id {
			found = true
			continue
		}
		remaining = append(remaining, r)
	}
	return remaining, found
}
