package hub

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/solace-app/solace/internal/auth"
	"github.com/solace-app/solace/pkg/community"
	"github.com/solace-app/solace/pkg/docstore"
)

// setupStore creates a document store client backed by miniredis.
func setupStore(t *testing.T) *docstore.Client {
	mr := miniredis.NewMiniRedis()
	require.NoError(t, mr.Start())
	t.Cleanup(mr.Close)

	client, err := docstore.NewClient(&redis.Options{Addr: mr.Addr()}, "test-instance", "http://localhost:8480")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client
}

// identity is a fixed test identity; nil user means signed out.
type identity struct {
	user *auth.User
}

func (i identity) CurrentUser() *auth.User { return i.user }

var (
	signedIn  = identity{user: &auth.User{UID: "user-1"}}
	signedOut = identity{}
)

func userA() *auth.User { return &auth.User{UID: "user-a"} }
func userB() *auth.User { return &auth.User{UID: "user-b"} }

// faultStore wraps a real store and lets tests inject failures or hold
// individual operations in flight.
type faultStore struct {
	*docstore.Client

	getEntered chan struct{}
	getGate    chan struct{}
	uploadErr  error
	createErr  error
}

func (s *faultStore) Get(ctx context.Context, collection, id string) (docstore.Document, error) {
	if s.getEntered != nil {
		select {
		case s.getEntered <- struct{}{}:
		default:
		}
	}
	if s.getGate != nil {
		<-s.getGate
	}
	return s.Client.Get(ctx, collection, id)
}

func (s *faultStore) UploadBlob(ctx context.Context, bucket, name string, data []byte) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	return s.Client.UploadBlob(ctx, bucket, name, data)
}

func (s *faultStore) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	if s.createErr != nil {
		return "", s.createErr
	}
	return s.Client.Create(ctx, collection, fields)
}

// seedPost writes a post document with an explicit timestamp.
func seedPost(t *testing.T, store *docstore.Client, id, authorID, content string, createdAt time.Time) {
	t.Helper()
	err := store.Set(context.Background(), community.PostsCollection, id, map[string]any{
		"authorId":  authorID,
		"content":   content,
		"imageUrl":  "",
		"createdAt": createdAt,
		"supports":  []string{},
	})
	require.NoError(t, err)
}

// receivePosts waits for the next feed snapshot or fails the test.
func receivePosts(t *testing.T, f *Feed) []*community.Post {
	t.Helper()
	select {
	case posts := <-f.Updates():
		return posts
	case err := <-f.Errors():
		t.Fatalf("unexpected feed error: %v", err)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for feed snapshot")
	}
	return nil
}

// receiveComments waits for the next thread snapshot or fails the test.
func receiveComments(t *testing.T, th *Thread) []*community.Comment {
	t.Helper()
	select {
	case comments := <-th.Updates():
		return comments
	case err := <-th.Errors():
		t.Fatalf("unexpected thread error: %v", err)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for thread snapshot")
	}
	return nil
}

// waitForFeed keeps receiving snapshots until one satisfies cond. Snapshots
// are latest-wins, so intermediate states may be coalesced away.
func waitForFeed(t *testing.T, f *Feed, cond func([]*community.Post) bool) []*community.Post {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case posts := <-f.Updates():
			if cond(posts) {
				return posts
			}
		case <-deadline:
			t.Fatal("timed out waiting for expected feed state")
			return nil
		}
	}
}

// waitForThread is waitForFeed for comment threads.
func waitForThread(t *testing.T, th *Thread, cond func([]*community.Comment) bool) []*community.Comment {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case comments := <-th.Updates():
			if cond(comments) {
				return comments
			}
		case <-deadline:
			t.Fatal("timed out waiting for expected thread state")
			return nil
		}
	}
}
