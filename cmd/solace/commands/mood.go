package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/solace-app/solace/internal/habits"
	"github.com/solace-app/solace/internal/printer"
)

// moods lists the accepted mood labels.
var moods = []string{"Happy", "Calm", "Sad", "Loved", "Anxious"}

var moodCmd = &cobra.Command{
	Use:   "mood <mood>",
	Short: "Record how you are feeling right now",
	Long: `Record a mood entry. Moods are append-only; each invocation adds a
new entry. Accepted moods: ` + strings.Join(moods, ", ") + `.`,
	Args: cobra.ExactArgs(1),
	RunE: runMood,
}

func init() {
	rootCmd.AddCommand(moodCmd)
}

func canonicalMood(s string) (string, bool) {
	for _, m := range moods {
		if strings.EqualFold(m, s) {
			return m, true
		}
	}
	return "", false
}

func runMood(cmd *cobra.Command, args []string) error {
	mood, ok := canonicalMood(args[0])
	if !ok {
		return printer.Error("Unknown mood", "accepted moods: "+strings.Join(moods, ", "))
	}

	s, err := newSession(true)
	if err != nil {
		return err
	}
	defer s.Close()

	tracker := habits.New(s.store, s.auth)
	if _, err := tracker.LogMood(cmd.Context(), mood); err != nil {
		return printer.Error("Failed to record mood", err.Error())
	}

	printer.Success("Mood recorded: %s\n", mood)
	return nil
}
