package commands

import (
	"github.com/spf13/cobra"

	"github.com/solace-app/solace/internal/hub"
	"github.com/solace-app/solace/internal/printer"
	"github.com/solace-app/solace/pkg/community"
)

var supportCmd = &cobra.Command{
	Use:   "support <post-id>",
	Short: "Toggle your support on a post",
	Long: `Toggle support. Supporting a post you already support removes it
again; two toggles always return the post to its original state.`,
	Args: cobra.ExactArgs(1),
	RunE: runSupport,
}

func init() {
	rootCmd.AddCommand(supportCmd)
}

func runSupport(cmd *cobra.Command, args []string) error {
	s, err := newSession(true)
	if err != nil {
		return err
	}
	defer s.Close()

	postID := args[0]
	coord := hub.NewCoordinator(s.store, s.auth)
	if err := coord.ToggleSupport(cmd.Context(), postID); err != nil {
		return printer.Error("Failed to toggle support", err.Error())
	}

	// Report the post's state after the toggle. The live feed is the source
	// of truth; this read is only for immediate CLI feedback.
	doc, err := s.store.Get(cmd.Context(), community.PostsCollection, postID)
	if err != nil {
		printer.Success("Support toggled on %s\n", shortID(postID))
		return nil
	}
	post, err := community.DecodePost(doc)
	if err != nil {
		printer.Success("Support toggled on %s\n", shortID(postID))
		return nil
	}

	if post.SupportedBy(s.user.UID) {
		printer.Success("Supporting %s (%d total)\n", shortID(postID), len(post.Supports))
	} else {
		printer.Success("Support removed from %s (%d total)\n", shortID(postID), len(post.Supports))
	}
	return nil
}
