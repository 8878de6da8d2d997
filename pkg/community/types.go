// Package community defines the tagged entity schema of the community hub:
// posts, their comment threads and the "support" reaction set. Raw store
// documents are decoded and validated here, at the subscription boundary,
// so downstream code never operates on duck-typed payloads.
package community

import (
	"fmt"
	"time"
)

// Collection paths. Posts form one shared collection; comments live in a
// per-post sub-collection; journal, habit and mood entries are per-user.
const (
	PostsCollection = "communityPosts"
	ImagesBucket    = "communityImages"
	UsersCollection = "users"
)

// CommentsCollection returns the sub-collection path of a post's comments.
func CommentsCollection(postID string) string {
	return fmt.Sprintf("%s/%s/comments", PostsCollection, postID)
}

// JournalCollection returns a user's journal entries collection path.
func JournalCollection(uid string) string {
	return fmt.Sprintf("users/%s/journalEntries", uid)
}

// HabitCollection returns a user's habit log collection path.
func HabitCollection(uid string) string {
	return fmt.Sprintf("users/%s/habitEntries", uid)
}

// MoodCollection returns a user's mood entries collection path.
func MoodCollection(uid string) string {
	return fmt.Sprintf("users/%s/moodEntries", uid)
}

// SettingsCollection returns a user's settings collection path.
func SettingsCollection(uid string) string {
	return fmt.Sprintf("users/%s/settings", uid)
}

// Content limits, enforced locally before any remote call.
const (
	MaxPostLen    = 2000
	MaxCommentLen = 500
)

// Post is one community hub post. Content may be empty only when an image is
// attached. Supports is a set: a user id appears at most once, order is
// irrelevant. AuthorID and CreatedAt are immutable after creation; Supports
// is the only multi-writer field.
type Post struct {
	ID        string
	AuthorID  string
	Content   string
	ImageURL  string
	CreatedAt time.Time
	Supports  []string
}

// Validate checks if the Post has valid field values.
func (p *Post) Validate() error {
	if p.AuthorID == "" {
		return fmt.Errorf("post author id cannot be empty")
	}
	if p.Content == "" && p.ImageURL == "" {
		return fmt.Errorf("post must have content or an image")
	}
	if len(p.Content) > MaxPostLen {
		return fmt.Errorf("post content exceeds %d characters", MaxPostLen)
	}
	seen := make(map[string]bool, len(p.Supports))
	for _, uid := range p.Supports {
		if uid == "" {
			return fmt.Errorf("supports set contains an empty user id")
		}
		if seen[uid] {
			return fmt.Errorf("supports set contains duplicate user id %q", uid)
		}
		seen[uid] = true
	}
	return nil
}

// SupportedBy reports whether uid is a member of the post's support set.
func (p *Post) SupportedBy(uid string) bool {
	for _, s := range p.Supports {
		if s == uid {
			return true
		}
	}
	return false
}

// Comment is one entry of a post's thread, sorted by CreatedAt ascending.
type Comment struct {
	ID        string
	AuthorID  string
	Text      string
	CreatedAt time.Time
}

// Validate checks if the Comment has valid field values.
func (c *Comment) Validate() error {
	if c.AuthorID == "" {
		return fmt.Errorf("comment author id cannot be empty")
	}
	if c.Text == "" {
		return fmt.Errorf("comment text cannot be empty")
	}
	if len(c.Text) > MaxCommentLen {
		return fmt.Errorf("comment exceeds %d characters", MaxCommentLen)
	}
	return nil
}

// ToggleSupport returns the symmetric difference of uid against the support
// set: present becomes absent, absent becomes present. Repeated toggles by
// the same user converge to membership or non-membership regardless of
// interleaving, and the result never holds duplicates.
func ToggleSupport(supports []string, uid string) []string {
	out := make([]string, 0, len(supports)+1)
	found := false
	for _, s := range supports {
		if s == uid {
			found = true
			continue
		}
		out = append(out, s)
	}
	if !found {
		out = append(out, uid)
	}
	return out
}
