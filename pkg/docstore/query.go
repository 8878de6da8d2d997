package docstore

import (
	"fmt"
	"sort"
)

// Direction orders a query's result set by its timestamp field.
type Direction string

const (
	// Ascending sorts oldest first (comment threads).
	Ascending Direction = "asc"

	// Descending sorts newest first (the community feed).
	Descending Direction = "desc"
)

// Validate checks if the Direction is a valid enum value.
func (d Direction) Validate() error {
	switch d {
	case Ascending, Descending:
		return nil
	default:
		return fmt.Errorf("unknown direction: %q", d)
	}
}

// Query describes a live view over one collection: an ordering clause on a
// millisecond timestamp field, plus an optional equality filter. Ties on the
// ordering field are broken by document id ascending, so snapshot order is
// deterministic for any interleaving of writes.
type Query struct {
	Collection string
	OrderBy    string
	Direction  Direction

	// Optional equality filter on a string field, applied before ordering.
	// Empty FilterField means no filter.
	FilterField string
	FilterValue string
}

// Validate checks if the Query has valid field values.
func (q Query) Validate() error {
	if q.Collection == "" {
		return fmt.Errorf("query collection cannot be empty")
	}
	if q.OrderBy == "" {
		return fmt.Errorf("query order-by field cannot be empty")
	}
	if err := q.Direction.Validate(); err != nil {
		return fmt.Errorf("invalid query direction: %w", err)
	}
	return nil
}

// matches reports whether a document passes the query's filter clause.
func (q Query) matches(d Document) bool {
	if q.FilterField == "" {
		return true
	}
	return d.String(q.FilterField) == q.FilterValue
}

// order sorts documents in place per the query's ordering clause.
func (q Query) order(docs []Document) {
	sort.Slice(docs, func(i, j int) bool {
		ti, tj := docs[i].Int64(q.OrderBy), docs[j].Int64(q.OrderBy)
		if ti != tj {
			if q.Direction == Descending {
				return ti > tj
			}
			return ti < tj
		}
		return docs[i].ID < docs[j].ID
	})
}
