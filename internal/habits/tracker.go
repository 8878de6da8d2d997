// Package habits implements daily habit logging behind a client-enforced
// idempotence gate, the sobriety milestone setting, and the append-only mood
// log. A habit log is write-once per calendar day, keyed by a canonical date
// string; the gate is client-side guidance, not a server uniqueness
// constraint, so two tabs racing the same day can still both write.
package habits

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/solace-app/solace/internal/auth"
	"github.com/solace-app/solace/pkg/community"
	"github.com/solace-app/solace/pkg/docstore"
)

// Store is the slice of the document store contract the tracker consumes.
type Store interface {
	Create(ctx context.Context, collection string, fields map[string]any) (string, error)
	Set(ctx context.Context, collection, id string, fields map[string]any) error
	Get(ctx context.Context, collection, id string) (docstore.Document, error)
	Documents(ctx context.Context, q docstore.Query) ([]docstore.Document, error)
}

// Identity yields the session's current user; nil means signed out.
type Identity interface {
	CurrentUser() *auth.User
}

var (
	// ErrNotSignedIn rejects tracker operations with no identity present.
	ErrNotSignedIn = errors.New("not signed in")

	// ErrAlreadyLogged blocks a second habit log for the same day.
	ErrAlreadyLogged = errors.New("habits already logged today")
)

// sobrietySettingID is the fixed id of the per-user sobriety settings doc.
const sobrietySettingID = "sobriety"

// DateString canonicalizes a time to the gate's day key, in UTC.
func DateString(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Log is one day's habit record.
type Log struct {
	ID        string
	Date      string
	Habits    []string
	CreatedAt time.Time
}

// Tracker is a session-scoped handle on the signed-in user's habit state.
type Tracker struct {
	store Store
	ident Identity
	now   func() time.Time
}

// New creates a tracker bound to a session identity.
func New(store Store, ident Identity) *Tracker {
	return &Tracker{store: store, ident: ident, now: time.Now}
}

func (t *Tracker) uid() (string, error) {
	user := t.ident.CurrentUser()
	if user == nil {
		return "", ErrNotSignedIn
	}
	return user.UID, nil
}

// todayQuery filters the user's habit entries to today's date string.
func (t *Tracker) todayQuery(uid string) docstore.Query {
	return docstore.Query{
		Collection:  community.HabitCollection(uid),
		OrderBy:     "createdAt",
		Direction:   docstore.Ascending,
		FilterField: "date",
		FilterValue: DateString(t.now()),
	}
}

// Today returns today's log if one exists, nil otherwise.
func (t *Tracker) Today(ctx context.Context) (*Log, error) {
	uid, err := t.uid()
	if err != nil {
		return nil, err
	}
	docs, err := t.store.Documents(ctx, t.todayQuery(uid))
	if err != nil {
		return nil, fmt.Errorf("failed to check today's habit log: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	d := docs[0]
	return &Log{
		ID:        d.ID,
		Date:      d.String("date"),
		Habits:    d.StringSlice("habits"),
		CreatedAt: d.Time("createdAt"),
	}, nil
}

// CanLogToday reports whether the idempotence gate is open: no log exists
// yet for today's date.
func (t *Tracker) CanLogToday(ctx context.Context) (bool, error) {
	log, err := t.Today(ctx)
	if err != nil {
		return false, err
	}
	return log == nil, nil
}

// LogToday writes today's habit log after checking the gate. Once a log
// exists for the day, further attempts fail with ErrAlreadyLogged and
// mutating controls stay disabled for the rest of the day.
func (t *Tracker) LogToday(ctx context.Context, habitIDs []string) (string, error) {
	uid, err := t.uid()
	if err != nil {
		return "", err
	}

	ok, err := t.CanLogToday(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrAlreadyLogged
	}

	id, err := t.store.Create(ctx, community.HabitCollection(uid), map[string]any{
		"date":      DateString(t.now()),
		"habits":    habitIDs,
		"createdAt": docstore.ServerTimestamp,
	})
	if err != nil {
		return "", fmt.Errorf("failed to log habits: %w", err)
	}
	return id, nil
}

// SetSobrietyDate stores or replaces the user's sobriety start date.
func (t *Tracker) SetSobrietyDate(ctx context.Context, date time.Time) error {
	uid, err := t.uid()
	if err != nil {
		return err
	}
	err = t.store.Set(ctx, community.SettingsCollection(uid), sobrietySettingID, map[string]any{
		"startDate": DateString(date),
	})
	if err != nil {
		return fmt.Errorf("failed to save sobriety date: %w", err)
	}
	return nil
}

// DaysSober returns whole days since the stored sobriety start date,
// rounded up. Returns 0 with no error when no date is set.
func (t *Tracker) DaysSober(ctx context.Context) (int, error) {
	uid, err := t.uid()
	if err != nil {
		return 0, err
	}

	doc, err := t.store.Get(ctx, community.SettingsCollection(uid), sobrietySettingID)
	if err != nil {
		if docstore.IsNotFound(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read sobriety date: %w", err)
	}

	start, err := time.Parse("2006-01-02", doc.String("startDate"))
	if err != nil {
		return 0, fmt.Errorf("stored sobriety date is malformed: %w", err)
	}

	diff := t.now().Sub(start)
	if diff < 0 {
		return 0, nil
	}
	days := int((diff + 24*time.Hour - 1) / (24 * time.Hour))
	return days, nil
}

// LogMood appends one mood entry. Append-only: moods are never edited.
func (t *Tracker) LogMood(ctx context.Context, mood string) (string, error) {
	uid, err := t.uid()
	if err != nil {
		return "", err
	}
	if mood == "" {
		return "", fmt.Errorf("mood cannot be empty")
	}

	id, err := t.store.Create(ctx, community.MoodCollection(uid), map[string]any{
		"mood":      mood,
		"createdAt": docstore.ServerTimestamp,
	})
	if err != nil {
		return "", fmt.Errorf("failed to log mood: %w", err)
	}
	return id, nil
}
