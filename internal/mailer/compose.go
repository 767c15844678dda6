package mailer

import (
	"fmt"
	htmltemplate "html/template"
	"strconv"
	"strings"
	texttemplate "text/template"

	"github.com/eyzick/harry-potter-halloween/internal/models"
)

const fromName = "Harry Potter Halloween Party"

// PartyDetails carries the fixed event facts interpolated into every
// message. Centralized so a venue change touches one place.
type PartyDetails struct {
	Date          string
	Time          string
	Address       string
	StreetParking string
	ContactEmail  string
}

// FormatBringingItems renders a record's contributions as the
// indented text block the email templates expect.
func FormatBringingItems(items models.BringingItems) string {
	if items.IsEmpty() {
		return "None"
	}
	var lines []string
	appendCategory := func(label string, entries []string) {
		if len(entries) == 0 {
			return
		}
		lines = append(lines, label+":")
		for _, item := range entries {
			lines = append(lines, "  • "+item)
		}
	}
	appendCategory(models.CategoryDrinks, items.Drinks)
	appendCategory(models.CategorySnacks, items.Snacks)
	appendCategory(models.CategoryOther, items.Other)
	return strings.Join(lines, "\n")
}

func attendingStatus(attending bool) string {
	if attending {
		return "Yes"
	}
	return "No"
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

// templateParams builds the flat variable map shared by all three
// message kinds.
func (s *Service) templateParams(r models.RSVPRecord, subject string) map[string]string {
	return map[string]string{
		"to_email":             r.Email,
		"from_name":            fromName,
		"subject":              subject,
		"guest_name":           r.Name,
		"attending_status":     attendingStatus(r.Attending),
		"guest_count":          strconv.Itoa(r.GuestCount),
		"dietary_restrictions": orNone(r.DietaryRestrictions),
		"bringing_items":       FormatBringingItems(r.BringingItems),
		"party_date":           s.details.Date,
		"party_time":           s.details.Time,
		"party_address":        s.details.Address,
		"street_parking":       s.details.StreetParking,
		"contact_email":        s.details.ContactEmail,
		"submission_time":      r.SubmittedAt().Format("1/2/2006, 3:04:05 PM"),
	}
}

// Preview is a fully rendered reminder, used for dry runs before a
// real send.
type Preview struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"content"`
	HTMLBody  string `json:"htmlContent"`
}

type reminderData struct {
	Name          string
	Attending     string
	GuestCount    int
	Dietary       string
	BringingItems string
	SubmittedAt   string
	Party         PartyDetails
}

// ReminderPreview renders the reminder for one record. Deterministic
// given the record and the party details.
func (s *Service) ReminderPreview(r models.RSVPRecord) Preview {
	data := reminderData{
		Name:          r.Name,
		Attending:     attendingStatus(r.Attending),
		GuestCount:    r.GuestCount,
		Dietary:       orNone(r.DietaryRestrictions),
		BringingItems: FormatBringingItems(r.BringingItems),
		SubmittedAt:   r.SubmittedAt().Format("1/2/2006, 3:04:05 PM"),
		Party:         s.details,
	}

	var body strings.Builder
	if err := reminderText.Execute(&body, data); err != nil {
		s.log.Error().Err(err).Msg("Failed to render reminder text")
	}
	var html strings.Builder
	if err := reminderHTML.Execute(&html, data); err != nil {
		s.log.Error().Err(err).Msg("Failed to render reminder HTML")
	}

	return Preview{
		Recipient: r.Email,
		Subject:   fmt.Sprintf("Party Reminder - %s", fromName),
		Body:      body.String(),
		HTMLBody:  html.String(),
	}
}

// ReminderPreviews renders previews for every attending guest.
func (s *Service) ReminderPreviews(records []models.RSVPRecord) []Preview {
	previews := make([]Preview, 0, len(records))
	for _, r := range records {
		if r.Attending {
			previews = append(previews, s.ReminderPreview(r))
		}
	}
	return previews
}

var reminderText = texttemplate.Must(texttemplate.New("reminder").Parse(`Dear {{.Name}},

This is a friendly reminder about our magical Harry Potter Halloween celebration! We're excited to see you there.

Your RSVP Details:
• Attending: {{.Attending}}
• Number of Guests: {{.GuestCount}}
• Dietary Restrictions: {{.Dietary}}
• Items You're Bringing:
{{.BringingItems}}
• Original RSVP: {{.SubmittedAt}}

Party Information:
• Date: {{.Party.Date}}
• Time: {{.Party.Time}}
• Location: {{.Party.Address}}
• Parking: {{.Party.StreetParking}}

Important Reminders:
• Please arrive in costume! Magical theme optional 🧙‍♀️
• We'll have plenty of magical treats and beverages
• If you need to make any changes to your RSVP, please contact us as soon as possible

We can't wait to celebrate with you!
Mischief Managed! ✨

Harry Potter Halloween Party
Questions? Contact us at {{.Party.ContactEmail}}`))

var reminderHTML = htmltemplate.Must(htmltemplate.New("reminder").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Party Reminder</title>
</head>
<body style="font-family: Georgia, serif; background-color: #f5f5f5; margin: 0; padding: 20px;">
    <div style="max-width: 600px; margin: 0 auto; background-color: white; border: 2px solid #8B4513; border-radius: 10px; overflow: hidden;">
        <div style="background: #8B4513; color: white; padding: 30px; text-align: center;">
            <h1 style="margin: 0;">🪄 Party Reminder 🪄</h1>
            <p>Harry Potter Halloween Party</p>
        </div>
        <div style="padding: 30px;">
            <h2 style="color: #8B4513;">Dear {{.Name}},</h2>
            <p>This is a friendly reminder about our magical Harry Potter Halloween celebration! We're excited to see you there. Here's a quick recap of your RSVP details:</p>
            <h2 style="color: #8B4513;">Your RSVP Details</h2>
            <p><strong>Attending:</strong> {{.Attending}}</p>
            <p><strong>Number of Guests:</strong> {{.GuestCount}}</p>
            <p><strong>Dietary Restrictions:</strong> {{.Dietary}}</p>
            <p><strong>Items You're Bringing:</strong></p>
            <div style="white-space: pre-line;">{{.BringingItems}}</div>
            <p><strong>Original RSVP:</strong> {{.SubmittedAt}}</p>
            <h2 style="color: #4a90e2;">🎃 Party Information 🎃</h2>
            <p><strong>Date:</strong> {{.Party.Date}}</p>
            <p><strong>Time:</strong> {{.Party.Time}}</p>
            <p><strong>Location:</strong><br>{{.Party.Address}}</p>
            <p><strong>Parking:</strong> {{.Party.StreetParking}}</p>
            <h2 style="color: #8B4513;">Important Reminders</h2>
            <ul>
                <li>Please arrive in costume! Magical theme optional 🧙‍♀️</li>
                <li>We'll have plenty of magical treats and beverages</li>
                <li>If you need to make any changes to your RSVP, please contact us as soon as possible</li>
            </ul>
            <p style="text-align: center; font-size: 18px; color: #8B4513;">
                <strong>We can't wait to celebrate with you!</strong><br>
                <em>Mischief Managed! ✨</em>
            </p>
        </div>
        <div style="background-color: #333; color: white; padding: 20px; text-align: center; font-size: 14px;">
            <p>Harry Potter Halloween Party</p>
            <p>Questions? Contact us at {{.Party.ContactEmail}}</p>
        </div>
    </div>
</body>
</html>`))
