// Package docstore provides a push-based document store on top of Redis.
// Documents live in named collections, carry store-assigned ids and
// timestamps, and are observed through live queries: every change to a
// collection pushes the entire current, ordered result set to each open
// subscription. Consumers never see partial deltas, only whole snapshots.
//
// All Redis keys and Pub/Sub channels are namespaced by instance name so
// multiple Solace instances can safely share a single Redis server.
//
// The store also holds uploaded media blobs. A blob is written under a
// bucket-scoped name and later retrieved through the media gateway; see
// UploadBlob and ResolveURL.
package docstore
