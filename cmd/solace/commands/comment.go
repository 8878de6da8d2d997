package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/solace-app/solace/internal/hub"
	"github.com/solace-app/solace/internal/printer"
)

var commentCmd = &cobra.Command{
	Use:   "comment <post-id> <text>",
	Short: "Add a comment to a post",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runComment,
}

func init() {
	rootCmd.AddCommand(commentCmd)
}

func runComment(cmd *cobra.Command, args []string) error {
	s, err := newSession(true)
	if err != nil {
		return err
	}
	defer s.Close()

	coord := hub.NewCoordinator(s.store, s.auth)
	id, err := coord.AddComment(cmd.Context(), args[0], strings.Join(args[1:], " "))
	if err != nil {
		return printer.Error("Failed to add comment", err.Error())
	}

	printer.Success("Comment %s added to %s\n", shortID(id), shortID(args[0]))
	return nil
}
