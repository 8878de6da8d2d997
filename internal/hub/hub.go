// Package hub implements the community hub's realtime engine: live feed and
// comment-thread subscriptions mirroring pushed store snapshots, the
// optimistic mutation coordinator for supports and comments, and the media
// upload pipeline behind post composition.
package hub

import (
	"context"
	"errors"

	"github.com/solace-app/solace/internal/auth"
	"github.com/solace-app/solace/pkg/docstore"
)

// Store is the slice of the document store contract the hub consumes.
// *docstore.Client satisfies it.
type Store interface {
	Get(ctx context.Context, collection, id string) (docstore.Document, error)
	Create(ctx context.Context, collection string, fields map[string]any) (string, error)
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Subscribe(ctx context.Context, q docstore.Query) (*docstore.Subscription, error)
	UploadBlob(ctx context.Context, bucket, name string, data []byte) (string, error)
	ResolveURL(handle string) string
}

// Identity yields the session's current user; nil means signed out.
// *auth.Provider satisfies it.
type Identity interface {
	CurrentUser() *auth.User
}

var (
	// ErrNotSignedIn rejects a mutating action before any remote call when
	// no identity is present.
	ErrNotSignedIn = errors.New("not signed in")

	// ErrBusy rejects re-entry while the same logical action is in flight.
	ErrBusy = errors.New("action already in flight")

	// ErrEmptyComment rejects blank comment text locally.
	ErrEmptyComment = errors.New("comment text is empty")

	// ErrEmptyPost rejects a post with neither content nor an image.
	ErrEmptyPost = errors.New("post needs content or an image")
)
