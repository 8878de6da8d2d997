package community

import (
	"fmt"

	"github.com/solace-app/solace/pkg/docstore"
)

// Field names as stored in the document store.
const (
	fieldAuthorID  = "authorId"
	fieldContent   = "content"
	fieldImageURL  = "imageUrl"
	fieldCreatedAt = "createdAt"
	fieldSupports  = "supports"
	fieldText      = "text"
)

// NewPostFields builds the field map for a post document. CreatedAt is
// store-assigned; the support set starts empty.
func NewPostFields(authorID, content, imageURL string) map[string]any {
	return map[string]any{
		fieldAuthorID:  authorID,
		fieldContent:   content,
		fieldImageURL:  imageURL,
		fieldCreatedAt: docstore.ServerTimestamp,
		fieldSupports:  []string{},
	}
}

// NewCommentFields builds the field map for a comment document.
func NewCommentFields(authorID, text string) map[string]any {
	return map[string]any{
		fieldAuthorID:  authorID,
		fieldText:      text,
		fieldCreatedAt: docstore.ServerTimestamp,
	}
}

// SupportsField builds the partial update map for a toggled support set.
func SupportsField(supports []string) map[string]any {
	return map[string]any{fieldSupports: supports}
}

// DecodePost validates a raw store document into a Post. Documents missing a
// supports field decode to an empty set; anything else malformed is rejected.
func DecodePost(d docstore.Document) (*Post, error) {
	p := &Post{
		ID:        d.ID,
		AuthorID:  d.String(fieldAuthorID),
		Content:   d.String(fieldContent),
		ImageURL:  d.String(fieldImageURL),
		CreatedAt: d.Time(fieldCreatedAt),
		Supports:  d.StringSlice(fieldSupports),
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid post %s: %w", d.ID, err)
	}
	return p, nil
}

// DecodeComment validates a raw store document into a Comment.
func DecodeComment(d docstore.Document) (*Comment, error) {
	c := &Comment{
		ID:        d.ID,
		AuthorID:  d.String(fieldAuthorID),
		Text:      d.String(fieldText),
		CreatedAt: d.Time(fieldCreatedAt),
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid comment %s: %w", d.ID, err)
	}
	return c, nil
}
