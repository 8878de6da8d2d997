package hub

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/solace-app/solace/pkg/community"
)

// ComposerState is the upload pipeline's state. Failure at any step returns
// control to StateIdle with the error surfaced to the caller.
type ComposerState string

const (
	StateIdle      ComposerState = "idle"
	StateUploading ComposerState = "uploading"
	StateUploaded  ComposerState = "uploaded"
	StateCreating  ComposerState = "creating"
	StateDone      ComposerState = "done"
)

// Composer runs one post-composition session: an optional binary upload,
// URL resolution, then the dependent post document write. The document write
// is never attempted with an unresolved URL, and no document is written if
// the upload fails. The converse failure (upload succeeded, create failed)
// orphans the blob; it is not retried and not deleted.
//
// Only one submission runs at a time; re-entry while in flight returns
// ErrBusy, mirroring the disabled compose control.
type Composer struct {
	store Store
	ident Identity

	mu    sync.Mutex
	state ComposerState
	now   func() time.Time
}

// NewComposer creates an idle composer.
func NewComposer(store Store, ident Identity) *Composer {
	return &Composer{
		store: store,
		ident: ident,
		state: StateIdle,
		now:   time.Now,
	}
}

// State returns the pipeline's current state.
func (p *Composer) State() ComposerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// acquire moves an idle (or done) composer into Uploading/Creating.
func (p *Composer) acquire(first ComposerState) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch p.state {
	case StateUploading, StateUploaded, StateCreating:
		return ErrBusy
	}
	p.state = first
	return nil
}

func (p *Composer) setState(s ComposerState) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// Submit runs the pipeline once: validate locally, upload the image if one
// is attached, resolve its URL, then create the post document. Returns the
// new post id. On any failure the composer returns to StateIdle and the
// error describes the composite action's failing step.
func (p *Composer) Submit(ctx context.Context, content string, image []byte) (string, error) {
	user := p.ident.CurrentUser()
	if user == nil {
		return "", ErrNotSignedIn
	}

	content = strings.TrimSpace(content)
	if content == "" && len(image) == 0 {
		return "", ErrEmptyPost
	}
	if len(content) > community.MaxPostLen {
		return "", fmt.Errorf("post exceeds %d characters", community.MaxPostLen)
	}

	first := StateCreating
	if len(image) > 0 {
		first = StateUploading
	}
	if err := p.acquire(first); err != nil {
		return "", err
	}

	imageURL := ""
	if len(image) > 0 {
		// Blob names are unique per attempt: author id plus upload time
		// keeps concurrent authors and rapid retries from colliding.
		name := fmt.Sprintf("%s_%d", user.UID, p.now().UnixMilli())
		handle, err := p.store.UploadBlob(ctx, community.ImagesBucket, name, image)
		if err != nil {
			p.setState(StateIdle)
			return "", fmt.Errorf("failed to upload image: %w", err)
		}
		p.setState(StateUploaded)
		imageURL = p.store.ResolveURL(handle)
		p.setState(StateCreating)
	}

	id, err := p.store.Create(ctx, community.PostsCollection, community.NewPostFields(user.UID, content, imageURL))
	if err != nil {
		// The uploaded blob, if any, is orphaned here. Accepted: no retry,
		// no cleanup; the post never appears in any snapshot.
		p.setState(StateIdle)
		return "", fmt.Errorf("failed to create post: %w", err)
	}

	p.setState(StateDone)
	return id, nil
}
