package docstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectionValidate(t *testing.T) {
	assert.NoError(t, Ascending.Validate())
	assert.NoError(t, Descending.Validate())
	assert.Error(t, Direction("sideways").Validate())
	assert.Error(t, Direction("").Validate())
}

func TestQueryValidate(t *testing.T) {
	valid := Query{Collection: "communityPosts", OrderBy: "createdAt", Direction: Descending}
	assert.NoError(t, valid.Validate())

	t.Run("rejects empty collection", func(t *testing.T) {
		q := valid
		q.Collection = ""
		assert.Error(t, q.Validate())
	})

	t.Run("rejects empty order-by field", func(t *testing.T) {
		q := valid
		q.OrderBy = ""
		assert.Error(t, q.Validate())
	})

	t.Run("rejects unknown direction", func(t *testing.T) {
		q := valid
		q.Direction = "upward"
		assert.Error(t, q.Validate())
	})
}

func TestQueryOrder(t *testing.T) {
	docs := func() []Document {
		return []Document{
			{ID: "b", Fields: map[string]any{"createdAt": float64(200)}},
			{ID: "c", Fields: map[string]any{"createdAt": float64(100)}},
			{ID: "a", Fields: map[string]any{"createdAt": float64(200)}},
		}
	}

	t.Run("ascending, ties by id", func(t *testing.T) {
		d := docs()
		Query{Collection: "x", OrderBy: "createdAt", Direction: Ascending}.order(d)
		require.Len(t, d, 3)
		assert.Equal(t, []string{"c", "a", "b"}, []string{d[0].ID, d[1].ID, d[2].ID})
	})

	t.Run("descending, ties still by id ascending", func(t *testing.T) {
		d := docs()
		Query{Collection: "x", OrderBy: "createdAt", Direction: Descending}.order(d)
		require.Len(t, d, 3)
		assert.Equal(t, []string{"a", "b", "c"}, []string{d[0].ID, d[1].ID, d[2].ID})
	})
}

func TestQueryMatches(t *testing.T) {
	doc := Document{ID: "1", Fields: map[string]any{"date": "2026-03-01", "mood": "Calm"}}

	t.Run("no filter matches everything", func(t *testing.T) {
		q := Query{Collection: "x", OrderBy: "createdAt", Direction: Ascending}
		assert.True(t, q.matches(doc))
	})

	t.Run("equality filter", func(t *testing.T) {
		q := Query{Collection: "x", OrderBy: "createdAt", Direction: Ascending,
			FilterField: "date", FilterValue: "2026-03-01"}
		assert.True(t, q.matches(doc))

		q.FilterValue = "2026-03-02"
		assert.False(t, q.matches(doc))
	})

	t.Run("absent field never matches", func(t *testing.T) {
		q := Query{Collection: "x", OrderBy: "createdAt", Direction: Ascending,
			FilterField: "missing", FilterValue: "x"}
		assert.False(t, q.matches(doc))
	})
}
