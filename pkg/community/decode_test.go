package community

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solace-app/solace/pkg/docstore"
)

func TestNewPostFields(t *testing.T) {
	fields := NewPostFields("u1", "hello", "")

	assert.Equal(t, "u1", fields["authorId"])
	assert.Equal(t, "hello", fields["content"])
	assert.Equal(t, "", fields["imageUrl"])
	assert.Equal(t, docstore.ServerTimestamp, fields["createdAt"])
	assert.Equal(t, []string{}, fields["supports"])
}

func TestNewCommentFields(t *testing.T) {
	fields := NewCommentFields("u1", "stay strong")

	assert.Equal(t, "u1", fields["authorId"])
	assert.Equal(t, "stay strong", fields["text"])
	assert.Equal(t, docstore.ServerTimestamp, fields["createdAt"])
}

func TestDecodePost(t *testing.T) {
	t.Run("decodes a complete document", func(t *testing.T) {
		doc := docstore.Document{
			ID: "p1",
			Fields: map[string]any{
				"authorId":  "u1",
				"content":   "feeling better today",
				"imageUrl":  "",
				"createdAt": float64(1767225600000),
				"supports":  []any{"u2"},
			},
		}

		post, err := DecodePost(doc)
		require.NoError(t, err)
		assert.Equal(t, "p1", post.ID)
		assert.Equal(t, "u1", post.AuthorID)
		assert.Equal(t, "feeling better today", post.Content)
		assert.Equal(t, time.UnixMilli(1767225600000), post.CreatedAt)
		assert.Equal(t, []string{"u2"}, post.Supports)
	})

	t.Run("missing supports decodes to empty set", func(t *testing.T) {
		doc := docstore.Document{
			ID:     "p1",
			Fields: map[string]any{"authorId": "u1", "content": "hi"},
		}

		post, err := DecodePost(doc)
		require.NoError(t, err)
		assert.NotNil(t, post.Supports)
		assert.Empty(t, post.Supports)
	})

	t.Run("rejects document failing validation", func(t *testing.T) {
		doc := docstore.Document{
			ID:     "p1",
			Fields: map[string]any{"content": "no author"},
		}

		_, err := DecodePost(doc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid post p1")
	})
}

func TestDecodeComment(t *testing.T) {
	t.Run("decodes a complete document", func(t *testing.T) {
		doc := docstore.Document{
			ID: "c1",
			Fields: map[string]any{
				"authorId":  "u2",
				"text":      "stay strong",
				"createdAt": float64(1767225660000),
			},
		}

		comment, err := DecodeComment(doc)
		require.NoError(t, err)
		assert.Equal(t, "c1", comment.ID)
		assert.Equal(t, "u2", comment.AuthorID)
		assert.Equal(t, "stay strong", comment.Text)
	})

	t.Run("rejects empty text", func(t *testing.T) {
		doc := docstore.Document{
			ID:     "c1",
			Fields: map[string]any{"authorId": "u2", "text": ""},
		}

		_, err := DecodeComment(doc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid comment c1")
	})
}
