package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/eyzick/harry-potter-halloween/internal/gate"
	"github.com/eyzick/harry-potter-halloween/internal/summary"
)

func newAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "admin",
		Short: "Open the interactive admin dashboard (password gated)",
		Long: "Opens the organizer dashboard: RSVP overview, full list,\n" +
			"category summary, deletion, export and reminder sending.\n\n" +
			"The password prompt is a soft lock to keep guests from\n" +
			"stumbling into the dashboard, not an authentication\n" +
			"mechanism - the secret ships with the app.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			scanner := bufio.NewScanner(os.Stdin)
			if !promptPassword(scanner, gate.New(a.cfg.AdminPasswordHash)) {
				return nil
			}
			runAdminMenu(cmd.Context(), a, scanner)
			return nil
		},
	}
}

// promptPassword runs the soft-lock prompt. After three wrong tries
// the prompt force-closes following a short notice.
func promptPassword(scanner *bufio.Scanner, g *gate.Gate) bool {
	fmt.Println("🔒 Admin Access Required")
	for {
		fmt.Print("Enter password: ")
		if !scanner.Scan() {
			return false
		}

		err := g.Try(strings.TrimSpace(scanner.Text()))
		if err == nil {
			fmt.Println("✅ Access granted.")
			return true
		}
		if errors.Is(err, gate.ErrLocked) {
			fmt.Println("❌ Too many failed attempts. Access denied.")
			time.Sleep(2 * time.Second)
			return false
		}
		fmt.Printf("❌ %v\n", err)
	}
}

func runAdminMenu(ctx context.Context, a *app, scanner *bufio.Scanner) {
	fmt.Println("\n⭐ Admin Dashboard")

	for {
		fmt.Println("\nCommands:")
		fmt.Println("  1. Overview")
		fmt.Println("  2. View all RSVPs")
		fmt.Println("  3. Category summary")
		fmt.Println("  4. Delete an RSVP")
		fmt.Println("  5. Export data")
		fmt.Println("  6. Send reminders")
		fmt.Println("  7. Exit")
		fmt.Print("\nEnter command (1-7): ")

		if !scanner.Scan() {
			return
		}

		switch strings.TrimSpace(scanner.Text()) {
		case "1":
			showOverview(ctx, a)
		case "2":
			showAll(ctx, a)
		case "3":
			showSummary(ctx, a)
		case "4":
			deleteRSVP(ctx, a, scanner)
		case "5":
			if err := a.runExport(ctx); err != nil {
				fmt.Printf("❌ Export failed: %v\n", err)
			}
		case "6":
			sendReminders(ctx, a, scanner)
		case "7":
			fmt.Println("Exiting...")
			return
		default:
			fmt.Println("Invalid command. Please try again.")
		}
	}
}

func showOverview(ctx context.Context, a *app) {
	records, err := a.gw.List(ctx)
	if err != nil {
		fmt.Printf("❌ Could not load RSVPs: %v\n", err)
		return
	}
	totals := summary.ComputeTotals(records)

	fmt.Println("\n📊 Overview")
	fmt.Printf("  Total RSVPs:   %d\n", totals.Submitted)
	fmt.Printf("  Attending:     %d\n", totals.Attending)
	fmt.Printf("  Not attending: %d\n", totals.Submitted-totals.Attending)
	fmt.Printf("  Total guests:  %d\n", totals.TotalGuests)

	fmt.Println("\nWhat's Being Brought:")
	printSummary(summary.Summarize(records))
}

func showAll(ctx context.Context, a *app) {
	records, err := a.gw.List(ctx)
	if err != nil {
		fmt.Printf("❌ Could not load RSVPs: %v\n", err)
		return
	}
	printRecords(records)
}

func showSummary(ctx context.Context, a *app) {
	s, err := a.gw.Summary(ctx)
	if err != nil {
		fmt.Printf("❌ Could not load summary: %v\n", err)
		return
	}
	printSummary(s)
}

func deleteRSVP(ctx context.Context, a *app, scanner *bufio.Scanner) {
	fmt.Print("Enter the id of the RSVP to delete: ")
	if !scanner.Scan() {
		return
	}
	id := strings.TrimSpace(scanner.Text())
	if id == "" {
		return
	}

	fmt.Print("Delete this RSVP? This cannot be undone. (yes/no): ")
	if !scanner.Scan() || strings.ToLower(strings.TrimSpace(scanner.Text())) != "yes" {
		fmt.Println("Cancelled.")
		return
	}

	res, err := a.gw.Delete(ctx, id)
	if err != nil {
		fmt.Printf("❌ Delete failed: %v\n", err)
		return
	}
	if !res.Found {
		fmt.Println("No RSVP with that id.")
		return
	}
	fmt.Println("✅ RSVP deleted.")
	if res.Fallback {
		fmt.Println("⚠️  Deleted from the local store only - the remote store was unreachable.")
	}
}

func sendReminders(ctx context.Context, a *app, scanner *bufio.Scanner) {
	fmt.Print("Dry run first? (yes/no): ")
	if !scanner.Scan() {
		return
	}
	dryRun := strings.ToLower(strings.TrimSpace(scanner.Text())) == "yes"

	if err := a.runReminders(ctx, dryRun); err != nil {
		fmt.Printf("❌ Reminder run failed: %v\n", err)
	}
}
