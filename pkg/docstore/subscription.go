package docstore

import (
	"context"
	"fmt"
	"sync"
)

// Subscription is a live query over one collection. Every change to the
// collection pushes the entire current, ordered result set on Snapshots().
// The caller must Close() when done; a leaked subscription holds a live
// Pub/Sub channel indefinitely.
type Subscription struct {
	snapshots <-chan []Document
	errors    <-chan error
	cancel    func()
	once      sync.Once
}

// Snapshots returns the channel of full result-set snapshots.
// The channel is closed when the subscription closes or its context ends.
func (s *Subscription) Snapshots() <-chan []Document {
	return s.snapshots
}

// Errors returns the channel of subscription errors. Errors are non-fatal:
// the stream continues and the consumer keeps its last-known snapshot until
// the next successful push. Errors beyond the channel's buffer are dropped,
// so a consumer that never reads them still receives snapshots.
func (s *Subscription) Errors() <-chan error {
	return s.errors
}

// Close stops the subscription and releases its Pub/Sub channel.
// Implements io.Closer. Safe to call multiple times.
func (s *Subscription) Close() error {
	s.once.Do(s.cancel)
	return nil
}

// Subscribe opens a live query. The current result set is pushed immediately,
// then the full set is re-pushed on every subsequent change to the
// collection. Context cancellation also stops the subscription.
//
// Snapshots are delivered on a buffered channel (size 10). A consumer that
// stops reading without closing stalls its own stream, nothing else.
func (c *Client) Subscribe(ctx context.Context, q Query) (*Subscription, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	pubsub := c.rdb.Subscribe(ctx, ChangesChannel(c.instance, q.Collection))

	// Wait for the SUBSCRIBE confirmation so no change between the initial
	// materialization and the first message can be missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to open change channel: %w", err)
	}

	snapshotsChan := make(chan []Document, 10)
	errorsChan := make(chan error, 10)
	subCtx, cancelFunc := context.WithCancel(ctx)

	go func() {
		defer close(snapshotsChan)
		defer close(errorsChan)
		defer pubsub.Close()

		emit := func() {
			docs, err := c.Documents(subCtx, q)
			if err != nil {
				// Surface and keep going; the consumer holds its last
				// snapshot until the next successful materialization.
				// Dropped when the buffer is full so an unread error
				// channel can never stall the snapshot stream.
				select {
				case errorsChan <- err:
				default:
				}
				return
			}
			select {
			case snapshotsChan <- docs:
			case <-subCtx.Done():
			}
		}

		// Initial result set.
		emit()

		ch := pubsub.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				emit()
			}
		}
	}()

	return &Subscription{
		snapshots: snapshotsChan,
		errors:    errorsChan,
		cancel:    cancelFunc,
	}, nil
}
