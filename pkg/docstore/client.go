package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Client provides instance-scoped document store operations on Redis.
// All keys and channels are automatically namespaced with the instance name.
// The client is safe for concurrent use.
type Client struct {
	rdb          *redis.Client
	instance     string
	mediaBaseURL string
	now          func() time.Time
}

// NewClient creates a document store client for the given instance.
// mediaBaseURL is the external base URL of the media gateway; resolved blob
// URLs are formed under it.
func NewClient(redisOpts *redis.Options, instance, mediaBaseURL string) (*Client, error) {
	if instance == "" {
		return nil, fmt.Errorf("instance name cannot be empty")
	}

	return &Client{
		rdb:          redis.NewClient(redisOpts),
		instance:     instance,
		mediaBaseURL: strings.TrimSuffix(mediaBaseURL, "/"),
		now:          time.Now,
	}, nil
}

// Close closes the Redis connection. Implements io.Closer.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping verifies Redis connectivity. Useful for health checks.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// resolveTimestamps replaces ServerTimestamp sentinels with the store clock.
// Returns a copy; the caller's map is never mutated.
func (c *Client) resolveTimestamps(fields map[string]any) map[string]any {
	stamp := c.now().UnixMilli()
	resolved := make(map[string]any, len(fields))
	for name, value := range fields {
		if _, ok := value.(serverTimestamp); ok {
			resolved[name] = stamp
			continue
		}
		resolved[name] = value
	}
	return resolved
}

// Create writes a new document to a collection and publishes a change
// notification. The id is store-assigned. Fields set to ServerTimestamp are
// replaced with the store clock so every document in a collection is stamped
// from the same clock.
func (c *Client) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	if collection == "" {
		return "", fmt.Errorf("collection cannot be empty")
	}

	id := uuid.New().String()
	if err := c.write(ctx, collection, id, c.resolveTimestamps(fields)); err != nil {
		return "", err
	}
	return id, nil
}

// Set writes a document under a caller-chosen id, creating or replacing the
// given fields. Used for singleton documents such as per-user settings.
func (c *Client) Set(ctx context.Context, collection, id string, fields map[string]any) error {
	if collection == "" || id == "" {
		return fmt.Errorf("collection and id cannot be empty")
	}
	return c.write(ctx, collection, id, c.resolveTimestamps(fields))
}

// write stamps the index, stores the field hash and publishes the change.
func (c *Client) write(ctx context.Context, collection, id string, fields map[string]any) error {
	hash, err := fieldsToHash(fields)
	if err != nil {
		return fmt.Errorf("failed to serialize document: %w", err)
	}

	key := DocKey(c.instance, collection, id)
	if err := c.rdb.HSet(ctx, key, hash).Err(); err != nil {
		return fmt.Errorf("failed to write document to Redis: %w", err)
	}

	z := redis.Z{Score: float64(c.now().UnixMilli()), Member: id}
	if err := c.rdb.ZAdd(ctx, CollectionKey(c.instance, collection), z).Err(); err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}

	return c.publish(ctx, collection, id)
}

// Update merges the given fields into an existing document and publishes a
// change notification. Only the named fields are touched; all others keep
// their stored values. Returns a not-found error if the document is absent.
func (c *Client) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	key := DocKey(c.instance, collection, id)

	exists, err := c.rdb.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to check document existence: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("document %s/%s: %w", collection, id, redis.Nil)
	}

	hash, err := fieldsToHash(c.resolveTimestamps(fields))
	if err != nil {
		return fmt.Errorf("failed to serialize update: %w", err)
	}
	if err := c.rdb.HSet(ctx, key, hash).Err(); err != nil {
		return fmt.Errorf("failed to update document in Redis: %w", err)
	}

	return c.publish(ctx, collection, id)
}

// Delete removes a document and publishes a change notification.
// Deleting an absent document is a no-op. Sub-collection documents are not
// cascaded; a deleted post's comments remain until cleaned up externally.
func (c *Client) Delete(ctx context.Context, collection, id string) error {
	if err := c.rdb.Del(ctx, DocKey(c.instance, collection, id)).Err(); err != nil {
		return fmt.Errorf("failed to delete document from Redis: %w", err)
	}
	if err := c.rdb.ZRem(ctx, CollectionKey(c.instance, collection), id).Err(); err != nil {
		return fmt.Errorf("failed to unindex document: %w", err)
	}
	return c.publish(ctx, collection, id)
}

// Get retrieves one document by id.
// Returns a not-found error if the document doesn't exist; check with
// IsNotFound.
func (c *Client) Get(ctx context.Context, collection, id string) (Document, error) {
	hash, err := c.rdb.HGetAll(ctx, DocKey(c.instance, collection, id)).Result()
	if err != nil {
		return Document{}, fmt.Errorf("failed to read document from Redis: %w", err)
	}

	// HGetAll returns an empty map for non-existent keys.
	if len(hash) == 0 {
		return Document{}, fmt.Errorf("document %s/%s: %w", collection, id, redis.Nil)
	}

	doc, err := hashToDocument(id, hash)
	if err != nil {
		return Document{}, fmt.Errorf("failed to deserialize document: %w", err)
	}
	return doc, nil
}

// Documents materializes a query once: the full, filtered result set in the
// query's order. Documents racing a concurrent delete are skipped.
func (c *Client) Documents(ctx context.Context, q Query) ([]Document, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	ids, err := c.rdb.ZRange(ctx, CollectionKey(c.instance, q.Collection), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list collection %s: %w", q.Collection, err)
	}

	docs := make([]Document, 0, len(ids))
	for _, id := range ids {
		doc, err := c.Get(ctx, q.Collection, id)
		if err != nil {
			if IsNotFound(err) {
				continue
			}
			return nil, err
		}
		if q.matches(doc) {
			docs = append(docs, doc)
		}
	}

	q.order(docs)
	return docs, nil
}

// publish notifies the collection's change channel.
func (c *Client) publish(ctx context.Context, collection, id string) error {
	channel := ChangesChannel(c.instance, collection)
	if err := c.rdb.Publish(ctx, channel, id).Err(); err != nil {
		return fmt.Errorf("failed to publish change notification: %w", err)
	}
	return nil
}

// UploadBlob stores raw bytes under a bucket-scoped name and returns an
// opaque handle. Names must be unique per upload attempt; callers derive
// them from the author id plus a creation timestamp.
func (c *Client) UploadBlob(ctx context.Context, bucket, name string, data []byte) (string, error) {
	if bucket == "" || name == "" {
		return "", fmt.Errorf("bucket and name cannot be empty")
	}
	if len(data) == 0 {
		return "", fmt.Errorf("blob data cannot be empty")
	}

	handle := bucket + "/" + name
	if err := c.rdb.Set(ctx, BlobKey(c.instance, handle), data, 0).Err(); err != nil {
		return "", fmt.Errorf("failed to store blob: %w", err)
	}
	return handle, nil
}

// BlobBytes retrieves an uploaded blob's bytes by handle.
// Returns a not-found error for unknown handles.
func (c *Client) BlobBytes(ctx context.Context, handle string) ([]byte, error) {
	data, err := c.rdb.Get(ctx, BlobKey(c.instance, handle)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("blob %s: %w", handle, redis.Nil)
		}
		return nil, fmt.Errorf("failed to read blob: %w", err)
	}
	return data, nil
}

// ResolveURL returns the retrievable URL for an uploaded blob handle,
// served by the media gateway.
func (c *Client) ResolveURL(handle string) string {
	return c.mediaBaseURL + "/media/" + handle
}

// IsNotFound returns true if the error means "document or blob not found".
func IsNotFound(err error) bool {
	return errors.Is(err, redis.Nil)
}
