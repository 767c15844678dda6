package main

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/eyzick/harry-potter-halloween/internal/config"
	"github.com/eyzick/harry-potter-halloween/internal/reveal"
)

func newInviteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "invite",
		Short: "Open your letter and reveal the invitation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			runReveal(cfg)
			return nil
		},
	}
}

// runReveal plays the letter-delivery sequence in the terminal and
// prints the invitation card once the letter has been opened.
func runReveal(cfg *config.Config) {
	opened := make(chan struct{})
	m := reveal.NewMachine(func() { close(opened) })

	m.Start()
	fmt.Println("🌙 A dark and quiet night over the Muggle world...")

	waitForState(m, reveal.StateDelivering)
	fmt.Println("🦉 An owl swoops down from the clouds, letter in its talons...")

	waitForState(m, reveal.StateDeliveredUnopened)
	fmt.Println("📜 A sealed letter has landed in front of you!")
	fmt.Print("   Press Enter to break the wax seal...")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Scan()
	for !m.Click() {
		// A click is only honored once the letter has landed.
		scanner.Scan()
	}

	fmt.Println("\n✨ The seal cracks and the letter unfolds... ✨")
	<-opened
	printInvitation(cfg)
}

// waitForState blocks until the machine reaches (or has passed) the
// given point in its linear sequence.
func waitForState(m *reveal.Machine, want reveal.State) {
	order := map[reveal.State]int{
		reveal.StateAwaitingDelivery:  0,
		reveal.StateDelivering:        1,
		reveal.StateDeliveredUnopened: 2,
		reveal.StateOpening:           3,
		reveal.StateOpened:            4,
	}
	for order[m.State()] < order[want] {
		time.Sleep(50 * time.Millisecond)
	}
}

func printInvitation(cfg *config.Config) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════╗")
	fmt.Println("          🏰 You're Invited! 🏰")
	fmt.Println("      Harry Potter Halloween Party")
	fmt.Println()
	fmt.Printf("  📅 Date:     %s\n", cfg.PartyDate)
	fmt.Printf("  🕰️  Time:     %s\n", cfg.PartyTime)
	fmt.Printf("  🏰 Location: %s\n", cfg.PartyAddress)
	fmt.Println("  👻 Dress Code: Wizarding World Costumes Encouraged!")
	fmt.Println()
	fmt.Println("  Join us for a magical evening filled with:")
	fmt.Println("   ✨ Potion-making station")
	fmt.Println("   🎃 Pumpkin carving contest")
	fmt.Println("   🍺 Butterbeer tasting")
	fmt.Println("   🎭 Costume contest with prizes")
	fmt.Println("   🎵 Magical music and dancing")
	fmt.Println("   🍰 Enchanted treats and cauldron cakes")
	fmt.Println()
	fmt.Println("  RSVP with: party rsvp --name \"...\" --email \"...\"")
	fmt.Println("╚══════════════════════════════════════════════════╝")
}
