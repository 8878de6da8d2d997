package docstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyPatterns(t *testing.T) {
	t.Run("document key", func(t *testing.T) {
		key := DocKey("prod", "communityPosts", "abc-123")
		assert.Equal(t, "solace:prod:doc:communityPosts:abc-123", key)
	})

	t.Run("collection index key", func(t *testing.T) {
		key := CollectionKey("prod", "communityPosts")
		assert.Equal(t, "solace:prod:collection:communityPosts", key)
	})

	t.Run("changes channel", func(t *testing.T) {
		ch := ChangesChannel("prod", "communityPosts")
		assert.Equal(t, "solace:prod:changes:communityPosts", ch)
	})

	t.Run("blob key", func(t *testing.T) {
		key := BlobKey("prod", "communityImages/u1_1234")
		assert.Equal(t, "solace:prod:blob:communityImages/u1_1234", key)
	})

	t.Run("sub-collection paths embed verbatim", func(t *testing.T) {
		key := DocKey("prod", "communityPosts/p1/comments", "c1")
		assert.Equal(t, "solace:prod:doc:communityPosts/p1/comments:c1", key)

		ch := ChangesChannel("prod", "communityPosts/p1/comments")
		assert.Equal(t, "solace:prod:changes:communityPosts/p1/comments", ch)
	})

	t.Run("instances are isolated by prefix", func(t *testing.T) {
		assert.NotEqual(t, DocKey("a", "posts", "1"), DocKey("b", "posts", "1"))
	})
}
