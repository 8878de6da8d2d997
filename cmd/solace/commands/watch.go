package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/solace-app/solace/internal/hub"
	"github.com/solace-app/solace/internal/printer"
	"github.com/solace-app/solace/pkg/community"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the community feed live",
	Long: `Watch the community feed. Every change to the feed reprints the
full current snapshot, newest post first. Press Ctrl-C to stop.

Examples:
  solace watch
  SOLACE_TOKEN=... solace watch   # marks posts you support`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := newSession(false)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	feed := hub.NewFeed(s.store)
	if err := feed.Open(ctx); err != nil {
		return err
	}
	defer feed.Close()

	printer.Info("Watching community feed (Ctrl-C to stop)\n\n")

	for {
		select {
		case <-ctx.Done():
			return nil
		case posts := <-feed.Updates():
			printFeed(posts)
		case err := <-feed.Errors():
			printer.Warning("feed: %v\n", err)
		}
	}
}

// printFeed prints one full snapshot in fixed-width columns.
func printFeed(posts []*community.Post) {
	if len(posts) == 0 {
		printer.Info("No posts yet.\n")
		return
	}

	printer.Printf("%-10s %-8s %-8s %s\n", "ID", "SUPPORT", "AGE", "CONTENT")
	for _, p := range posts {
		content := strings.ReplaceAll(p.Content, "\n", " ")
		if content == "" && p.ImageURL != "" {
			content = "(image) " + p.ImageURL
		}
		content = truncate(content, 60)
		printer.Printf("%-10s %-8d %-8s %s\n",
			shortID(p.ID), len(p.Supports), formatAge(p.CreatedAt), content)
	}
	printer.Printf("\n%d post(s)\n\n", len(posts))
}

// truncate shortens s to at most max columns, counting runes so a
// multi-byte character is never split mid-sequence.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatAge(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
