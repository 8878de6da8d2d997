package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/solace-app/solace/internal/journal"
	"github.com/solace-app/solace/internal/printer"
)

var (
	journalPrompt string
	journalMood   string
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Manage your guided journal",
}

var journalAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Write a new journal entry",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runJournalAdd,
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your journal entries, newest first",
	RunE:  runJournalList,
}

var journalEditCmd = &cobra.Command{
	Use:   "edit <entry-id> <text>",
	Short: "Rewrite an entry in place (its original date is kept)",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runJournalEdit,
}

var journalDeleteCmd = &cobra.Command{
	Use:   "delete <entry-id>",
	Short: "Delete an entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDelete,
}

func init() {
	journalAddCmd.Flags().StringVar(&journalPrompt, "prompt", "", "the guided prompt being answered")
	journalAddCmd.Flags().StringVar(&journalMood, "mood", "", "mood attached to the entry")
	journalEditCmd.Flags().StringVar(&journalPrompt, "prompt", "", "the guided prompt being answered")
	journalEditCmd.Flags().StringVar(&journalMood, "mood", "", "mood attached to the entry")

	journalCmd.AddCommand(journalAddCmd, journalListCmd, journalEditCmd, journalDeleteCmd)
	rootCmd.AddCommand(journalCmd)
}

func runJournalAdd(cmd *cobra.Command, args []string) error {
	s, err := newSession(true)
	if err != nil {
		return err
	}
	defer s.Close()

	j := journal.New(s.store, s.auth)
	id, err := j.Add(cmd.Context(), journalPrompt, strings.Join(args, " "), journalMood)
	if err != nil {
		return printer.Error("Failed to save journal entry", err.Error())
	}

	printer.Success("Journal entry %s saved\n", shortID(id))
	return nil
}

func runJournalList(cmd *cobra.Command, args []string) error {
	s, err := newSession(true)
	if err != nil {
		return err
	}
	defer s.Close()

	j := journal.New(s.store, s.auth)
	entries, err := j.List(cmd.Context())
	if err != nil {
		return printer.Error("Failed to list journal entries", err.Error())
	}

	if len(entries) == 0 {
		printer.Info("No journal entries yet.\n")
		return nil
	}

	printer.Printf("%-10s %-12s %-8s %s\n", "ID", "DATE", "MOOD", "TEXT")
	for _, e := range entries {
		text := truncate(strings.ReplaceAll(e.Text, "\n", " "), 50)
		printer.Printf("%-10s %-12s %-8s %s\n",
			shortID(e.ID), e.CreatedAt.Format("2006-01-02"), e.Mood, text)
	}
	printer.Printf("\n%d entr(ies)\n", len(entries))
	return nil
}

func runJournalEdit(cmd *cobra.Command, args []string) error {
	s, err := newSession(true)
	if err != nil {
		return err
	}
	defer s.Close()

	j := journal.New(s.store, s.auth)
	if err := j.Update(cmd.Context(), args[0], journalPrompt, strings.Join(args[1:], " "), journalMood); err != nil {
		return printer.Error("Failed to update journal entry", err.Error())
	}

	printer.Success("Journal entry %s updated\n", shortID(args[0]))
	return nil
}

func runJournalDelete(cmd *cobra.Command, args []string) error {
	s, err := newSession(true)
	if err != nil {
		return err
	}
	defer s.Close()

	j := journal.New(s.store, s.auth)
	if err := j.Delete(cmd.Context(), args[0]); err != nil {
		return printer.Error("Failed to delete journal entry", err.Error())
	}

	printer.Success("Journal entry %s deleted\n", shortID(args[0]))
	return nil
}
