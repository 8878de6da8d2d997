package commands

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/solace-app/solace/internal/habits"
	"github.com/solace-app/solace/internal/printer"
)

var habitCmd = &cobra.Command{
	Use:   "habit",
	Short: "Log daily habits and track your sobriety milestone",
}

var habitLogCmd = &cobra.Command{
	Use:   "log [habit-id...]",
	Short: "Log today's habits (once per day)",
	Long: `Log the habits you completed today, e.g. meditate exercise
hydrate connect. Habits can be logged once per calendar day; a second
attempt the same day is blocked.`,
	RunE: runHabitLog,
}

var habitStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's log state and days sober",
	RunE:  runHabitStatus,
}

var habitSobrietyCmd = &cobra.Command{
	Use:   "sobriety <YYYY-MM-DD>",
	Short: "Set your sobriety start date",
	Args:  cobra.ExactArgs(1),
	RunE:  runHabitSobriety,
}

func init() {
	habitCmd.AddCommand(habitLogCmd, habitStatusCmd, habitSobrietyCmd)
	rootCmd.AddCommand(habitCmd)
}

func runHabitLog(cmd *cobra.Command, args []string) error {
	s, err := newSession(true)
	if err != nil {
		return err
	}
	defer s.Close()

	tracker := habits.New(s.store, s.auth)
	id, err := tracker.LogToday(cmd.Context(), args)
	if err != nil {
		if errors.Is(err, habits.ErrAlreadyLogged) {
			printer.Warning("Habits already logged today; come back tomorrow.\n")
			return nil
		}
		return printer.Error("Failed to log habits", err.Error())
	}

	printer.Success("Logged %d habit(s) for today (%s)\n", len(args), shortID(id))
	return nil
}

func runHabitStatus(cmd *cobra.Command, args []string) error {
	s, err := newSession(true)
	if err != nil {
		return err
	}
	defer s.Close()

	tracker := habits.New(s.store, s.auth)

	days, err := tracker.DaysSober(cmd.Context())
	if err != nil {
		return printer.Error("Failed to read sobriety milestone", err.Error())
	}
	if days > 0 {
		printer.Info("Days sober: %d\n", days)
	} else {
		printer.Info("No sobriety start date set. Use: solace habit sobriety <YYYY-MM-DD>\n")
	}

	today, err := tracker.Today(cmd.Context())
	if err != nil {
		return printer.Error("Failed to check today's habit log", err.Error())
	}
	if today == nil {
		printer.Info("Habits not yet logged today.\n")
	} else {
		printer.Info("Today's habits: %s\n", strings.Join(today.Habits, ", "))
	}
	return nil
}

func runHabitSobriety(cmd *cobra.Command, args []string) error {
	s, err := newSession(true)
	if err != nil {
		return err
	}
	defer s.Close()

	date, err := time.Parse("2006-01-02", args[0])
	if err != nil {
		return printer.Error("Invalid date", "use the form YYYY-MM-DD")
	}

	tracker := habits.New(s.store, s.auth)
	if err := tracker.SetSobrietyDate(cmd.Context(), date); err != nil {
		return printer.Error("Failed to save sobriety date", err.Error())
	}

	printer.Success("Sobriety start date saved: %s\n", args[0])
	return nil
}
