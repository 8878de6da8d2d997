package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/solace-app/solace/internal/hub"
	"github.com/solace-app/solace/internal/printer"
)

var postImagePath string

var postCmd = &cobra.Command{
	Use:   "post [content]",
	Short: "Share a post on the community feed",
	Long: `Share a post. Content may be omitted only when an image is
attached. The image is uploaded first; the post is only created once its
URL has resolved.

Examples:
  solace post "feeling better today"
  solace post --image ./sunrise.jpg "one year milestone"`,
	RunE: runPost,
}

func init() {
	postCmd.Flags().StringVar(&postImagePath, "image", "", "path to an image to attach")
	rootCmd.AddCommand(postCmd)
}

func runPost(cmd *cobra.Command, args []string) error {
	s, err := newSession(true)
	if err != nil {
		return err
	}
	defer s.Close()

	var image []byte
	if postImagePath != "" {
		image, err = os.ReadFile(postImagePath)
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}
	}

	composer := hub.NewComposer(s.store, s.auth)
	id, err := composer.Submit(cmd.Context(), strings.Join(args, " "), image)
	if err != nil {
		return printer.Error("Failed to create post", err.Error())
	}

	printer.Success("Posted %s\n", shortID(id))
	return nil
}
