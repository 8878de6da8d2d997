package hub

import (
	"context"
	"fmt"
	"sync"

	"github.com/solace-app/solace/pkg/community"
	"github.com/solace-app/solace/pkg/docstore"
)

// Feed mirrors the community post feed. One live query is opened on Open and
// replaced wholesale on every pushed snapshot; comment threads are opened
// lazily per post and torn down on collapse, keeping live subscriptions
// bounded by the number of expanded threads.
//
// A push-channel error never clears state: Posts() keeps returning the
// last-known snapshot until the next successful push.
type Feed struct {
	store Store

	mu      sync.Mutex
	posts   []*community.Post
	threads map[string]*Thread
	sub     *docstore.Subscription
	closed  bool

	updates chan []*community.Post
	errs    chan error
}

// NewFeed creates an unopened feed over the given store.
func NewFeed(store Store) *Feed {
	return &Feed{
		store:   store,
		threads: make(map[string]*Thread),
		updates: make(chan []*community.Post, 1),
		errs:    make(chan error, 10),
	}
}

// Open starts the feed's live query: posts ordered by creation time
// descending, ties broken by id. The first snapshot arrives on Updates()
// without any further action.
func (f *Feed) Open(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sub != nil {
		return fmt.Errorf("feed already open")
	}

	sub, err := f.store.Subscribe(ctx, docstore.Query{
		Collection: community.PostsCollection,
		OrderBy:    "createdAt",
		Direction:  docstore.Descending,
	})
	if err != nil {
		return fmt.Errorf("failed to open feed subscription: %w", err)
	}
	f.sub = sub

	go f.pump(sub)
	return nil
}

// pump mirrors pushed snapshots into local state until the subscription ends.
func (f *Feed) pump(sub *docstore.Subscription) {
	for {
		select {
		case docs, ok := <-sub.Snapshots():
			if !ok {
				return
			}
			posts := make([]*community.Post, 0, len(docs))
			for _, d := range docs {
				post, err := community.DecodePost(d)
				if err != nil {
					// A malformed document is reported and skipped; the
					// rest of the snapshot still replaces local state.
					f.report(err)
					continue
				}
				posts = append(posts, post)
			}
			f.mu.Lock()
			f.posts = posts
			f.mu.Unlock()
			f.emit(posts)
		case err, ok := <-sub.Errors():
			if !ok {
				return
			}
			f.report(err)
		}
	}
}

// emit delivers a snapshot with latest-wins semantics: a slow consumer sees
// the newest state, never a backlog of stale ones.
func (f *Feed) emit(posts []*community.Post) {
	for {
		select {
		case f.updates <- posts:
			return
		default:
		}
		select {
		case <-f.updates:
		default:
		}
	}
}

func (f *Feed) report(err error) {
	select {
	case f.errs <- err:
	default:
	}
}

// Updates returns the channel of feed snapshots, newest state only.
func (f *Feed) Updates() <-chan []*community.Post {
	return f.updates
}

// Errors returns decode and push-channel errors. All are non-fatal.
func (f *Feed) Errors() <-chan error {
	return f.errs
}

// Posts returns the last-known feed snapshot.
func (f *Feed) Posts() []*community.Post {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.posts
}

// OpenThread lazily opens the comment thread of one post, ordered by
// creation time ascending. Opening an already-open thread returns the
// existing handle. The thread is torn down by its Close (collapse) or by
// Feed.Close (view unmount).
func (f *Feed) OpenThread(ctx context.Context, postID string) (*Thread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, fmt.Errorf("feed is closed")
	}
	if t, ok := f.threads[postID]; ok {
		return t, nil
	}

	sub, err := f.store.Subscribe(ctx, docstore.Query{
		Collection: community.CommentsCollection(postID),
		OrderBy:    "createdAt",
		Direction:  docstore.Ascending,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open comment thread: %w", err)
	}

	t := newThread(postID, sub, func() {
		f.mu.Lock()
		delete(f.threads, postID)
		f.mu.Unlock()
	})
	f.threads[postID] = t
	go t.pump()
	return t, nil
}

// Close tears down the feed and every open thread. Required on view exit;
// a skipped Close leaks live push channels.
func (f *Feed) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	sub := f.sub
	threads := make([]*Thread, 0, len(f.threads))
	for _, t := range f.threads {
		threads = append(threads, t)
	}
	f.mu.Unlock()

	for _, t := range threads {
		t.Close()
	}
	if sub != nil {
		return sub.Close()
	}
	return nil
}
