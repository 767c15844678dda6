package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eyzick/harry-potter-halloween/internal/config"
	"github.com/eyzick/harry-potter-halloween/internal/mailer"
	"github.com/eyzick/harry-potter-halloween/internal/store"
)

func main() {
	root := &cobra.Command{
		Use:   "party",
		Short: "Harry Potter Halloween party invitations, RSVPs and reminders",
		Long: "🎃 Harry Potter Halloween Party\n" +
			"==============================\n" +
			"Collects guest RSVPs into the party's document bin (with a\n" +
			"local fallback store), shows what everyone is bringing, and\n" +
			"sends confirmation and reminder owls through the email relay.",
		SilenceUsage: true,
	}

	root.AddCommand(
		newInviteCmd(),
		newRSVPCmd(),
		newListCmd(),
		newSummaryCmd(),
		newExportCmd(),
		newRemindCmd(),
		newAdminCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

// app bundles the wired collaborators each command needs. Everything
// hangs off the one Config built at startup.
type app struct {
	cfg  *config.Config
	gw   *store.Gateway
	mail *mailer.Service
}

func newApp() (*app, error) {
	cfg := config.LoadConfig()

	remote := store.NewRemoteBin(cfg.RemoteBaseURL, cfg.RemoteBinID, cfg.RemoteAPIKey)
	var local *store.LocalStore
	if cfg.FallbackEnabled {
		var err error
		local, err = store.OpenLocal(cfg.LocalStorePath)
		if err != nil {
			return nil, fmt.Errorf("error initializing local store: %w", err)
		}
	}
	gw := store.NewGateway(remote, local, cfg.FallbackEnabled)

	client := mailer.NewClient(cfg.EmailBaseURL, cfg.EmailServiceID, cfg.EmailPublicKey)
	mail := mailer.NewService(client, &mailer.Config{
		ConfirmationTemplateID: cfg.ConfirmationTemplateID,
		ReminderTemplateID:     cfg.ReminderTemplateID,
		OrganizerTemplateID:    cfg.OrganizerTemplateID,
		OrganizerEmail:         cfg.OrganizerEmail,
	}, mailer.PartyDetails{
		Date:          cfg.PartyDate,
		Time:          cfg.PartyTime,
		Address:       cfg.PartyAddress,
		StreetParking: cfg.StreetParking,
		ContactEmail:  cfg.ContactEmail,
	})

	return &app{cfg: cfg, gw: gw, mail: mail}, nil
}
