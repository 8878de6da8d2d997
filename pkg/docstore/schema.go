package docstore

import "fmt"

// Redis key pattern helpers
//
// Key pattern: solace:{instance}:{entity}:{path}
// Channel pattern: solace:{instance}:changes:{collection}
//
// Collection paths may contain slashes (sub-collections such as
// "communityPosts/{id}/comments"); they are embedded in keys verbatim.

// DocKey returns the Redis key holding one document's field hash.
// Pattern: solace:{instance}:doc:{collection}:{id}
func DocKey(instance, collection, id string) string {
	return fmt.Sprintf("solace:%s:doc:%s:%s", instance, collection, id)
}

// CollectionKey returns the Redis key of the ZSET indexing a collection's
// document ids, scored by creation time in milliseconds.
// Pattern: solace:{instance}:collection:{collection}
func CollectionKey(instance, collection string) string {
	return fmt.Sprintf("solace:%s:collection:%s", instance, collection)
}

// ChangesChannel returns the Pub/Sub channel carrying change notifications
// for a collection. The payload is the id of the changed document; listeners
// re-materialize the full query result on every message.
// Pattern: solace:{instance}:changes:{collection}
func ChangesChannel(instance, collection string) string {
	return fmt.Sprintf("solace:%s:changes:%s", instance, collection)
}

// BlobKey returns the Redis key holding an uploaded blob's bytes.
// Pattern: solace:{instance}:blob:{bucket}/{name}
func BlobKey(instance, handle string) string {
	return fmt.Sprintf("solace:%s:blob:%s", instance, handle)
}
