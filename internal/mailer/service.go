// Package mailer composes and dispatches the three message kinds the
// party sends through the email relay: the organizer notification and
// guest confirmation fired after a new RSVP, and the pre-party
// reminder to attending guests.
package mailer

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/eyzick/harry-potter-halloween/internal/models"
)

// DefaultSendDelay is the pause between sequential reminder sends,
// keeping the relay's rate limits happy.
const DefaultSendDelay = time.Second

// Config identifies the relay templates and the organizer mailbox.
type Config struct {
	ConfirmationTemplateID string
	ReminderTemplateID     string
	OrganizerTemplateID    string
	OrganizerEmail         string
}

// Service builds message payloads and drives the relay client.
type Service struct {
	client  *Client
	cfg     *Config
	details PartyDetails
	log     zerolog.Logger

	// SendDelay and Sleep are injectable so tests can run the
	// sequential dispatch loop without wall-clock waits.
	SendDelay time.Duration
	Sleep     func(ctx context.Context, d time.Duration) error
}

// NewService creates a mailer service over the given relay client.
func NewService(client *Client, cfg *Config, details PartyDetails) *Service {
	return &Service{
		client:    client,
		cfg:       cfg,
		details:   details,
		log:       zerolog.New(os.Stdout).With().Str("component", "Mailer").Logger(),
		SendDelay: DefaultSendDelay,
		Sleep:     sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// SendConfirmation emails the guest a copy of their submitted RSVP.
func (s *Service) SendConfirmation(ctx context.Context, r models.RSVPRecord) error {
	params := s.templateParams(r, fmt.Sprintf("RSVP Confirmation - %s", fromName))
	if err := s.client.Send(ctx, s.cfg.ConfirmationTemplateID, params); err != nil {
		return fmt.Errorf("failed to send confirmation to %s: %w", r.Email, err)
	}
	s.log.Info().Str("to", r.Email).Msg("Confirmation email sent")
	return nil
}

// SendOrganizerNotification tells the organizer a new RSVP arrived.
func (s *Service) SendOrganizerNotification(ctx context.Context, r models.RSVPRecord) error {
	params := s.templateParams(r, fmt.Sprintf("New RSVP from %s - %s", r.Name, fromName))
	params["to_email"] = s.cfg.OrganizerEmail
	params["guest_email"] = r.Email
	if err := s.client.Send(ctx, s.cfg.OrganizerTemplateID, params); err != nil {
		return fmt.Errorf("failed to notify organizer: %w", err)
	}
	s.log.Info().Str("guest", r.Name).Msg("Organizer notified of new RSVP")
	return nil
}

// Result records the outcome of one reminder dispatch.
type Result struct {
	Recipient string `json:"recipient"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// SendReminder dispatches the reminder to a single guest.
func (s *Service) SendReminder(ctx context.Context, r models.RSVPRecord) Result {
	params := s.templateParams(r, fmt.Sprintf("Party Reminder - %s", fromName))
	if err := s.client.Send(ctx, s.cfg.ReminderTemplateID, params); err != nil {
		s.log.Error().Err(err).Str("to", r.Email).Msg("Failed to send reminder")
		return Result{Recipient: r.Email, Error: err.Error()}
	}
	return Result{Recipient: r.Email, Success: true}
}

// SendReminders dispatches reminders to every attending guest, one at
// a time with a fixed delay between sends. A failed send is recorded
// and the loop moves on; results come back in send order, one per
// attempted recipient.
func (s *Service) SendReminders(ctx context.Context, records []models.RSVPRecord) []Result {
	attending := make([]models.RSVPRecord, 0, len(records))
	for _, r := range records {
		if r.Attending {
			attending = append(attending, r)
		}
	}

	s.log.Info().Int("count", len(attending)).Msg("Sending reminder emails")

	results := make([]Result, 0, len(attending))
	for i, r := range attending {
		results = append(results, s.SendReminder(ctx, r))
		if i < len(attending)-1 {
			if err := s.Sleep(ctx, s.SendDelay); err != nil {
				// Context gone; record the remaining recipients as
				// not attempted successfully and stop.
				for _, rest := range attending[i+1:] {
					results = append(results, Result{Recipient: rest.Email, Error: err.Error()})
				}
				break
			}
		}
	}

	sent := 0
	for _, res := range results {
		if res.Success {
			sent++
		}
	}
	s.log.Info().Int("sent", sent).Int("failed", len(results)-sent).Msg("Reminder run complete")
	return results
}
