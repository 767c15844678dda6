package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/eyzick/harry-potter-halloween/internal/export"
	"github.com/eyzick/harry-potter-halloween/internal/mailer"
	"github.com/eyzick/harry-potter-halloween/internal/models"
)

func newRSVPCmd() *cobra.Command {
	var sub models.Submission

	cmd := &cobra.Command{
		Use:   "rsvp",
		Short: "Submit an RSVP",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			res, err := a.gw.Save(cmd.Context(), sub)
			if err != nil {
				if errors.Is(err, models.ErrInvalidSubmission) {
					return err
				}
				return fmt.Errorf("could not save RSVP: %w", err)
			}

			fmt.Println("✨ Thank You! ✨")
			fmt.Println("Your RSVP has been received! We can't wait to see you at the party!")
			if res.Fallback {
				fmt.Println("⚠️  Saved to the local store only - the remote store was unreachable.")
			}

			// Emails are best-effort: a relay failure never undoes
			// the saved RSVP.
			a.sendSubmissionEmails(cmd.Context(), res.Record)
			return nil
		},
	}

	cmd.Flags().StringVar(&sub.Name, "name", "", "guest full name (required)")
	cmd.Flags().StringVar(&sub.Email, "email", "", "guest email address (required)")
	cmd.Flags().BoolVar(&sub.Attending, "attending", true, "whether the guest is attending")
	cmd.Flags().IntVar(&sub.GuestCount, "guests", 1, "number of guests including the submitter")
	cmd.Flags().StringVar(&sub.DietaryRestrictions, "dietary", "", "dietary restrictions")
	cmd.Flags().StringSliceVar(&sub.BringingItems.Drinks, "drinks", nil, "drinks the guest will bring")
	cmd.Flags().StringSliceVar(&sub.BringingItems.Snacks, "snacks", nil, "snacks the guest will bring")
	cmd.Flags().StringSliceVar(&sub.BringingItems.Other, "other", nil, "other items the guest will bring")
	return cmd
}

// sendSubmissionEmails fires the guest confirmation and the organizer
// notification for the freshly saved record. Failures are reported
// but never fail the command.
func (a *app) sendSubmissionEmails(ctx context.Context, record models.RSVPRecord) {
	if err := a.mail.SendConfirmation(ctx, record); err != nil {
		if errors.Is(err, mailer.ErrNotConfigured) {
			fmt.Println("📭 Email relay not configured, skipping confirmation email.")
		} else {
			fmt.Printf("⚠️  Could not send confirmation email: %v\n", err)
		}
		return
	}
	fmt.Println("🦉 Expect your owl-delivered confirmation soon!")

	if a.cfg.OrganizerEmail != "" {
		if err := a.mail.SendOrganizerNotification(ctx, record); err != nil {
			fmt.Printf("⚠️  Could not notify the organizer: %v\n", err)
		}
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all RSVPs",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			records, err := a.gw.List(cmd.Context())
			if err != nil {
				return err
			}
			printRecords(records)
			return nil
		},
	}
}

func printRecords(records []models.RSVPRecord) {
	if len(records) == 0 {
		fmt.Println("\nNo RSVPs submitted yet.")
		return
	}

	fmt.Printf("\n📋 All RSVPs (%d total):\n", len(records))
	fmt.Println(strings.Repeat("-", 60))
	for _, r := range records {
		fmt.Printf("Name: %s\n", r.Name)
		fmt.Printf("Email: %s\n", r.Email)
		fmt.Printf("Attending: %s\n", yesNo(r.Attending))
		fmt.Printf("Guests: %d\n", r.GuestCount)
		if r.DietaryRestrictions != "" {
			fmt.Printf("Dietary: %s\n", r.DietaryRestrictions)
		}
		if !r.BringingItems.IsEmpty() {
			fmt.Printf("Bringing:\n%s\n", mailer.FormatBringingItems(r.BringingItems))
		}
		fmt.Printf("Submitted: %s\n", r.SubmittedAt().Format("2006-01-02 15:04:05"))
		fmt.Printf("ID: %s\n", r.ID)
		fmt.Println(strings.Repeat("-", 60))
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show what everyone is bringing, by category",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			s, err := a.gw.Summary(cmd.Context())
			if err != nil {
				return err
			}
			printSummary(s)
			return nil
		},
	}
}

func printSummary(s models.CategorySummary) {
	printCategory := func(emoji, name string, entries []string) {
		fmt.Printf("\n%s %s (%d)\n", emoji, name, len(entries))
		if len(entries) == 0 {
			fmt.Printf("  No %s planned yet\n", strings.ToLower(name))
			return
		}
		for _, e := range entries {
			fmt.Printf("  • %s\n", e)
		}
	}
	printCategory("🍷", "Drinks", s.Drinks)
	printCategory("🍪", "Snacks", s.Snacks)
	printCategory("⭐", "Other", s.Other)
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export all RSVPs, the category summary and totals as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return a.runExport(cmd.Context())
		},
	}
}

func (a *app) runExport(ctx context.Context) error {
	records, err := a.gw.List(ctx)
	if err != nil {
		return err
	}
	now := time.Now()
	path, err := export.Build(records, now).Write(a.cfg.ExportDir, now)
	if err != nil {
		return err
	}
	fmt.Printf("✅ Exported %d RSVPs to %s\n", len(records), path)
	return nil
}

func newRemindCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Send the party reminder to every attending guest",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return a.runReminders(cmd.Context(), dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "render the reminders without sending anything")
	return cmd
}

func (a *app) runReminders(ctx context.Context, dryRun bool) error {
	records, err := a.gw.List(ctx)
	if err != nil {
		return err
	}

	if dryRun {
		previews := a.mail.ReminderPreviews(records)
		fmt.Printf("🔍 Dry run: %d reminder(s) would be sent.\n", len(previews))
		for _, p := range previews {
			fmt.Println(strings.Repeat("=", 60))
			fmt.Printf("To: %s\nSubject: %s\n\n%s\n", p.Recipient, p.Subject, p.Body)
		}
		return nil
	}

	results := a.mail.SendReminders(ctx, records)
	sent := 0
	for _, res := range results {
		if res.Success {
			sent++
			fmt.Printf("✅ %s\n", res.Recipient)
		} else {
			fmt.Printf("❌ %s: %s\n", res.Recipient, res.Error)
		}
	}
	fmt.Printf("\n🦉 %d sent, %d failed.\n", sent, len(results)-sent)
	return nil
}
