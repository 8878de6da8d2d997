// Package journal implements the guided journal: the one adjacent feature
// with a full create → update-in-place → delete lifecycle. Edits replace
// prompt, text and mood while preserving the entry's original creation time;
// the entry list is a live per-user query ordered newest first.
package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/solace-app/solace/internal/auth"
	"github.com/solace-app/solace/pkg/community"
	"github.com/solace-app/solace/pkg/docstore"
)

// Store is the slice of the document store contract the journal consumes.
type Store interface {
	Create(ctx context.Context, collection string, fields map[string]any) (string, error)
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	Documents(ctx context.Context, q docstore.Query) ([]docstore.Document, error)
	Subscribe(ctx context.Context, q docstore.Query) (*docstore.Subscription, error)
}

// Identity yields the session's current user; nil means signed out.
type Identity interface {
	CurrentUser() *auth.User
}

// ErrNotSignedIn rejects journal operations before any remote call when no
// identity is present.
var ErrNotSignedIn = errors.New("not signed in")

// ErrEmptyEntry rejects an entry with blank text.
var ErrEmptyEntry = errors.New("journal entry text is empty")

// Entry is one journal entry. CreatedAt is immutable across edits;
// UpdatedAt moves on every save.
type Entry struct {
	ID        string
	Prompt    string
	Text      string
	Mood      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func decodeEntry(d docstore.Document) *Entry {
	return &Entry{
		ID:        d.ID,
		Prompt:    d.String("prompt"),
		Text:      d.String("text"),
		Mood:      d.String("mood"),
		CreatedAt: d.Time("createdAt"),
		UpdatedAt: d.Time("updatedAt"),
	}
}

// Journal is a session-scoped handle on the signed-in user's entries.
type Journal struct {
	store Store
	ident Identity
}

// New creates a journal bound to a session identity.
func New(store Store, ident Identity) *Journal {
	return &Journal{store: store, ident: ident}
}

func (j *Journal) uid() (string, error) {
	user := j.ident.CurrentUser()
	if user == nil {
		return "", ErrNotSignedIn
	}
	return user.UID, nil
}

// Add creates a new entry with store-assigned timestamps.
func (j *Journal) Add(ctx context.Context, prompt, text, mood string) (string, error) {
	uid, err := j.uid()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyEntry
	}

	id, err := j.store.Create(ctx, community.JournalCollection(uid), map[string]any{
		"prompt":    prompt,
		"text":      text,
		"mood":      mood,
		"createdAt": docstore.ServerTimestamp,
		"updatedAt": docstore.ServerTimestamp,
	})
	if err != nil {
		return "", fmt.Errorf("failed to save journal entry: %w", err)
	}
	return id, nil
}

// Update replaces an entry's prompt, text and mood in place. The update is a
// field merge, so the original createdAt is preserved and only updatedAt
// moves to the store clock.
func (j *Journal) Update(ctx context.Context, id, prompt, text, mood string) error {
	uid, err := j.uid()
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return ErrEmptyEntry
	}

	err = j.store.Update(ctx, community.JournalCollection(uid), id, map[string]any{
		"prompt":    prompt,
		"text":      text,
		"mood":      mood,
		"updatedAt": docstore.ServerTimestamp,
	})
	if err != nil {
		return fmt.Errorf("failed to update journal entry: %w", err)
	}
	return nil
}

// Delete removes an entry.
func (j *Journal) Delete(ctx context.Context, id string) error {
	uid, err := j.uid()
	if err != nil {
		return err
	}
	if err := j.store.Delete(ctx, community.JournalCollection(uid), id); err != nil {
		return fmt.Errorf("failed to delete journal entry: %w", err)
	}
	return nil
}

func (j *Journal) query(uid string) docstore.Query {
	return docstore.Query{
		Collection: community.JournalCollection(uid),
		OrderBy:    "createdAt",
		Direction:  docstore.Descending,
	}
}

// List materializes the user's entries once, newest first.
func (j *Journal) List(ctx context.Context) ([]*Entry, error) {
	uid, err := j.uid()
	if err != nil {
		return nil, err
	}
	docs, err := j.store.Documents(ctx, j.query(uid))
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	entries := make([]*Entry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, decodeEntry(d))
	}
	return entries, nil
}

// Stream is a live view over the user's entries. Callers must Close().
type Stream struct {
	sub     *docstore.Subscription
	once    sync.Once
	updates chan []*Entry
}

// Updates returns the channel of entry-list snapshots, newest state only.
func (s *Stream) Updates() <-chan []*Entry {
	return s.updates
}

// Close cancels the live query. Safe to call multiple times.
func (s *Stream) Close() error {
	s.once.Do(func() { s.sub.Close() })
	return nil
}

// Watch opens a live query over the user's entries, newest first.
func (j *Journal) Watch(ctx context.Context) (*Stream, error) {
	uid, err := j.uid()
	if err != nil {
		return nil, err
	}
	sub, err := j.store.Subscribe(ctx, j.query(uid))
	if err != nil {
		return nil, fmt.Errorf("failed to watch journal: %w", err)
	}

	s := &Stream{sub: sub, updates: make(chan []*Entry, 1)}
	emit := func(entries []*Entry) {
		// Latest-wins: a slow consumer sees the newest list, not a backlog.
		for {
			select {
			case s.updates <- entries:
				return
			default:
			}
			select {
			case <-s.updates:
			default:
			}
		}
	}
	go func() {
		for {
			select {
			case docs, ok := <-sub.Snapshots():
				if !ok {
					return
				}
				entries := make([]*Entry, 0, len(docs))
				for _, d := range docs {
					entries = append(entries, decodeEntry(d))
				}
				emit(entries)
			case _, ok := <-sub.Errors():
				if !ok {
					return
				}
				// Non-fatal; the consumer keeps its last snapshot until
				// the next successful push.
			}
		}
	}()
	return s, nil
}
