package hub

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solace-app/solace/pkg/community"
	"github.com/solace-app/solace/pkg/docstore"
)

func TestComposerSubmit(t *testing.T) {
	ctx := context.Background()

	feedDocs := func(t *testing.T, store *docstore.Client) []docstore.Document {
		t.Helper()
		docs, err := store.Documents(ctx, docstore.Query{
			Collection: community.PostsCollection,
			OrderBy:    "createdAt",
			Direction:  docstore.Descending,
		})
		require.NoError(t, err)
		return docs
	}

	t.Run("text-only post skips the upload stage", func(t *testing.T) {
		store := setupStore(t)
		composer := NewComposer(store, signedIn)

		id, err := composer.Submit(ctx, "feeling a bit better today", nil)
		require.NoError(t, err)
		assert.Equal(t, StateDone, composer.State())

		doc, err := store.Get(ctx, community.PostsCollection, id)
		require.NoError(t, err)
		post, err := community.DecodePost(doc)
		require.NoError(t, err)
		assert.Equal(t, "user-1", post.AuthorID)
		assert.Equal(t, "feeling a bit better today", post.Content)
		assert.Empty(t, post.ImageURL)
		assert.Empty(t, post.Supports)
	})

	t.Run("image post carries a resolved gateway URL", func(t *testing.T) {
		store := setupStore(t)
		composer := NewComposer(store, signedIn)

		image := []byte{0xff, 0xd8, 0xff, 0xe0}
		id, err := composer.Submit(ctx, "", image)
		require.NoError(t, err)
		assert.Equal(t, StateDone, composer.State())

		doc, err := store.Get(ctx, community.PostsCollection, id)
		require.NoError(t, err)
		post, err := community.DecodePost(doc)
		require.NoError(t, err)
		require.NotEmpty(t, post.ImageURL)
		assert.True(t, strings.HasPrefix(post.ImageURL, "http://localhost:8480/media/communityImages/"))

		// The URL's handle resolves back to the uploaded bytes.
		handle := strings.TrimPrefix(post.ImageURL, "http://localhost:8480/media/")
		data, err := store.BlobBytes(ctx, handle)
		require.NoError(t, err)
		assert.Equal(t, image, data)
	})

	t.Run("upload failure leaves no document behind", func(t *testing.T) {
		store := setupStore(t)
		failing := &faultStore{Client: store, uploadErr: errors.New("network down")}
		composer := NewComposer(failing, signedIn)

		_, err := composer.Submit(ctx, "with image", []byte{0x01})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to upload image")
		assert.Equal(t, StateIdle, composer.State())
		assert.Empty(t, feedDocs(t, store))
	})

	t.Run("create failure surfaces and returns to idle", func(t *testing.T) {
		store := setupStore(t)
		failing := &faultStore{Client: store, createErr: errors.New("write refused")}
		composer := NewComposer(failing, signedIn)

		_, err := composer.Submit(ctx, "plain text", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create post")
		assert.Equal(t, StateIdle, composer.State())
		assert.Empty(t, feedDocs(t, store))
	})

	t.Run("create failure after a successful upload orphans the blob", func(t *testing.T) {
		store := setupStore(t)
		failing := &faultStore{Client: store, createErr: errors.New("write refused")}
		composer := NewComposer(failing, signedIn)

		// Pin the clock so the blob name the pipeline picks is known.
		uploadedAt := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
		composer.now = func() time.Time { return uploadedAt }

		image := []byte{0xff, 0xd8, 0xff, 0xe0}
		_, err := composer.Submit(ctx, "with image", image)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create post")
		assert.Equal(t, StateIdle, composer.State())
		assert.Empty(t, feedDocs(t, store))

		// The upload itself went through; the blob stays behind, unreferenced.
		handle := fmt.Sprintf("%s/user-1_%d", community.ImagesBucket, uploadedAt.UnixMilli())
		data, err := store.BlobBytes(ctx, handle)
		require.NoError(t, err)
		assert.Equal(t, image, data)
	})

	t.Run("a done composer accepts another submission", func(t *testing.T) {
		store := setupStore(t)
		composer := NewComposer(store, signedIn)

		_, err := composer.Submit(ctx, "first", nil)
		require.NoError(t, err)
		_, err = composer.Submit(ctx, "second", nil)
		require.NoError(t, err)
		assert.Len(t, feedDocs(t, store), 2)
	})

	t.Run("rejects empty submissions locally", func(t *testing.T) {
		composer := NewComposer(setupStore(t), signedIn)

		_, err := composer.Submit(ctx, "   ", nil)
		assert.ErrorIs(t, err, ErrEmptyPost)
		assert.Equal(t, StateIdle, composer.State())
	})

	t.Run("rejects content over the limit", func(t *testing.T) {
		composer := NewComposer(setupStore(t), signedIn)

		_, err := composer.Submit(ctx, strings.Repeat("x", community.MaxPostLen+1), nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "exceeds")
	})

	t.Run("requires a signed-in user", func(t *testing.T) {
		composer := NewComposer(setupStore(t), signedOut)

		_, err := composer.Submit(ctx, "hello", nil)
		assert.ErrorIs(t, err, ErrNotSignedIn)
	})

	t.Run("rejects re-entry while a submission is in flight", func(t *testing.T) {
		store := setupStore(t)
		composer := NewComposer(store, signedIn)

		// Force the busy state directly; the pipeline holds it for the whole
		// upload-resolve-create sequence.
		require.NoError(t, composer.acquire(StateUploading))
		_, err := composer.Submit(ctx, "while busy", nil)
		assert.ErrorIs(t, err, ErrBusy)

		composer.setState(StateIdle)
		_, err = composer.Submit(ctx, "after release", nil)
		assert.NoError(t, err)
	})
}
