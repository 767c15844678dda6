package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/eyzick/harry-potter-halloween/internal/models"
)

// ErrNotConfigured is returned when the remote bin credentials are
// absent. Detected proactively so a misconfigured deployment degrades
// instead of failing deep inside a request.
var ErrNotConfigured = errors.New("remote store credentials not configured")

const binName = "Halloween Party RSVPs"

// Envelope identifies the top-level JSON shape wrapping the stored
// collection. Different revisions of the bin wrote different shapes;
// writes must preserve whichever one is already there.
type Envelope int

const (
	// EnvelopeBare is a plain JSON array of records. The default for
	// new or undetectable bins.
	EnvelopeBare Envelope = iota
	// EnvelopeRSVPs wraps the array as {"rsvps": [...]}.
	EnvelopeRSVPs
	// EnvelopeData wraps the array as {"data": [...]}.
	EnvelopeData
)

// DecodeEnvelope inspects a stored document, reporting its shape and
// the records inside it. Malformed or unrecognizable content coerces
// to an empty bare collection rather than propagating an error.
func DecodeEnvelope(raw json.RawMessage) (Envelope, []models.RSVPRecord) {
	if len(raw) == 0 {
		return EnvelopeBare, []models.RSVPRecord{}
	}

	var bare []models.RSVPRecord
	if err := json.Unmarshal(raw, &bare); err == nil {
		if bare == nil {
			bare = []models.RSVPRecord{}
		}
		return EnvelopeBare, bare
	}

	var keyed struct {
		RSVPs *[]models.RSVPRecord `json:"rsvps"`
		Data  *[]models.RSVPRecord `json:"data"`
	}
	if err := json.Unmarshal(raw, &keyed); err == nil {
		if keyed.RSVPs != nil {
			return EnvelopeRSVPs, *keyed.RSVPs
		}
		if keyed.Data != nil {
			return EnvelopeData, *keyed.Data
		}
	}

	return EnvelopeBare, []models.RSVPRecord{}
}

// Wrap re-applies an envelope shape around a collection for writing.
func (e Envelope) Wrap(records []models.RSVPRecord) any {
	if records == nil {
		records = []models.RSVPRecord{}
	}
	switch e {
	case EnvelopeRSVPs:
		return map[string][]models.RSVPRecord{"rsvps": records}
	case EnvelopeData:
		return map[string][]models.RSVPRecord{"data": records}
	default:
		return records
	}
}

// RemoteBin is a client for the hosted document bin holding the RSVP
// collection. The bin has no partial-update support: reads fetch the
// latest full document, writes replace it wholesale.
type RemoteBin struct {
	baseURL string
	binID   string
	apiKey  string
	client  *http.Client
	log     zerolog.Logger
}

// NewRemoteBin creates a bin client. Empty binID or apiKey leaves the
// client unconfigured; calls then fail with ErrNotConfigured.
func NewRemoteBin(baseURL, binID, apiKey string) *RemoteBin {
	return &RemoteBin{
		baseURL: baseURL,
		binID:   binID,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
		log:     zerolog.New(os.Stdout).With().Str("component", "RemoteBin").Logger(),
	}
}

// Configured reports whether credentials for the bin are present.
func (b *RemoteBin) Configured() bool {
	return b.binID != "" && b.apiKey != ""
}

// Fetch reads the latest stored document and returns its envelope
// shape along with the decoded records.
func (b *RemoteBin) Fetch(ctx context.Context) (Envelope, []models.RSVPRecord, error) {
	if !b.Configured() {
		return EnvelopeBare, nil, ErrNotConfigured
	}

	url := fmt.Sprintf("%s/%s/latest", b.baseURL, b.binID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return EnvelopeBare, nil, fmt.Errorf("failed to build bin request: %w", err)
	}
	req.Header.Set("X-Master-Key", b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return EnvelopeBare, nil, fmt.Errorf("bin fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return EnvelopeBare, nil, fmt.Errorf("bin fetch failed: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return EnvelopeBare, nil, fmt.Errorf("failed to read bin response: %w", err)
	}

	var payload struct {
		Record json.RawMessage `json:"record"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		// Unexpected payload shape, treat the bin as empty rather
		// than surfacing a parse error to the guest.
		b.log.Warn().Err(err).Msg("Unrecognized bin payload, treating as empty")
		return EnvelopeBare, []models.RSVPRecord{}, nil
	}

	env, records := DecodeEnvelope(payload.Record)
	b.log.Debug().Int("records", len(records)).Msg("Fetched collection from bin")
	return env, records, nil
}

// Replace overwrites the whole stored document, keeping the given
// envelope shape.
func (b *RemoteBin) Replace(ctx context.Context, env Envelope, records []models.RSVPRecord) error {
	if !b.Configured() {
		return ErrNotConfigured
	}

	body, err := json.Marshal(env.Wrap(records))
	if err != nil {
		return fmt.Errorf("failed to marshal collection: %w", err)
	}

	url := fmt.Sprintf("%s/%s", b.baseURL, b.binID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build bin request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Master-Key", b.apiKey)
	req.Header.Set("X-Bin-Name", binName)

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("bin write failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("bin write failed: status %d", resp.StatusCode)
	}

	b.log.Debug().Int("records", len(records)).Msg("Replaced collection in bin")
	return nil
}
