package hub

import (
	"sync"

	"github.com/solace-app/solace/pkg/community"
	"github.com/solace-app/solace/pkg/docstore"
)

// Thread mirrors one post's comment thread while it is expanded.
// Closing the handle cancels the underlying live query; after Close the
// thread delivers no further snapshots.
type Thread struct {
	PostID string

	sub      *docstore.Subscription
	onClose  func()
	once     sync.Once
	mu       sync.Mutex
	comments []*community.Comment

	updates chan []*community.Comment
	errs    chan error
}

func newThread(postID string, sub *docstore.Subscription, onClose func()) *Thread {
	return &Thread{
		PostID:  postID,
		sub:     sub,
		onClose: onClose,
		updates: make(chan []*community.Comment, 1),
		errs:    make(chan error, 10),
	}
}

func (t *Thread) pump() {
	for {
		select {
		case docs, ok := <-t.sub.Snapshots():
			if !ok {
				return
			}
			comments := make([]*community.Comment, 0, len(docs))
			for _, d := range docs {
				c, err := community.DecodeComment(d)
				if err != nil {
					t.report(err)
					continue
				}
				comments = append(comments, c)
			}
			t.mu.Lock()
			t.comments = comments
			t.mu.Unlock()
			t.emit(comments)
		case err, ok := <-t.sub.Errors():
			if !ok {
				return
			}
			t.report(err)
		}
	}
}

func (t *Thread) emit(comments []*community.Comment) {
	for {
		select {
		case t.updates <- comments:
			return
		default:
		}
		select {
		case <-t.updates:
		default:
		}
	}
}

func (t *Thread) report(err error) {
	select {
	case t.errs <- err:
	default:
	}
}

// Updates returns the channel of thread snapshots, newest state only.
func (t *Thread) Updates() <-chan []*community.Comment {
	return t.updates
}

// Errors returns decode and push-channel errors for this thread.
func (t *Thread) Errors() <-chan error {
	return t.errs
}

// Comments returns the last-known thread snapshot.
func (t *Thread) Comments() []*community.Comment {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.comments
}

// Close collapses the thread: the live query is cancelled deterministically
// and the handle is deregistered from its feed. Safe to call multiple times.
func (t *Thread) Close() error {
	t.once.Do(func() {
		t.sub.Close()
		t.onClose()
	})
	return nil
}
