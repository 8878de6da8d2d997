package hub

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/solace-app/solace/pkg/community"
)

// Coordinator executes the hub's optimistic mutations. Each logical action
// (per-post support toggle, per-post comment submit) carries a re-entrancy
// guard: while a mutation is in flight the same action is rejected with
// ErrBusy, mirroring the disabled control in the view.
//
// Failures leave no local state behind; the view keeps rendering the last
// confirmed snapshot and the error is surfaced to the caller.
type Coordinator struct {
	store Store
	ident Identity

	mu       sync.Mutex
	inflight map[string]bool
}

// NewCoordinator creates a mutation coordinator bound to a session identity.
func NewCoordinator(store Store, ident Identity) *Coordinator {
	return &Coordinator{
		store:    store,
		ident:    ident,
		inflight: make(map[string]bool),
	}
}

// begin acquires the guard for one logical action key.
func (c *Coordinator) begin(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight[key] {
		return ErrBusy
	}
	c.inflight[key] = true
	return nil
}

func (c *Coordinator) end(key string) {
	c.mu.Lock()
	delete(c.inflight, key)
	c.mu.Unlock()
}

// ToggleSupport flips the acting user's membership in a post's support set:
// read the current document, compute the symmetric difference, write the new
// set back. Two concurrent toggles from the same user can race to a stale
// overwrite; the next pushed snapshot reconciles. That relaxed semantics is
// deliberate and documented, not a bug to lock away.
func (c *Coordinator) ToggleSupport(ctx context.Context, postID string) error {
	user := c.ident.CurrentUser()
	if user == nil {
		return ErrNotSignedIn
	}

	key := "support:" + postID
	if err := c.begin(key); err != nil {
		return err
	}
	defer c.end(key)

	doc, err := c.store.Get(ctx, community.PostsCollection, postID)
	if err != nil {
		return fmt.Errorf("failed to read post: %w", err)
	}

	supports := community.ToggleSupport(doc.StringSlice("supports"), user.UID)
	if err := c.store.Update(ctx, community.PostsCollection, postID, community.SupportsField(supports)); err != nil {
		return fmt.Errorf("failed to write support set: %w", err)
	}
	return nil
}

// AddComment appends a comment to a post's thread. No read precedes the
// write; concurrent callers each get their own document, so appends never
// race. Empty and over-long text is rejected locally, before any remote call.
func (c *Coordinator) AddComment(ctx context.Context, postID, text string) (string, error) {
	user := c.ident.CurrentUser()
	if user == nil {
		return "", ErrNotSignedIn
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyComment
	}
	if len(text) > community.MaxCommentLen {
		return "", fmt.Errorf("comment exceeds %d characters", community.MaxCommentLen)
	}

	key := "comment:" + postID
	if err := c.begin(key); err != nil {
		return "", err
	}
	defer c.end(key)

	id, err := c.store.Create(ctx, community.CommentsCollection(postID), community.NewCommentFields(user.UID, text))
	if err != nil {
		return "", fmt.Errorf("failed to create comment: %w", err)
	}
	return id, nil
}
