// Package blobstore provides storage abstraction for serialized
// distance handles and quantized code blocks.
//
// Store is the interface for reading and writing immutable blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-memory, for tests and as a fast cache tier
//   - LocalStore: local filesystem with atomic temp-file writes
//   - s3.Store: Amazon S3 with range reads and parallel uploads
//   - minio.Store: MinIO and other S3-compatible object stores
//
// CachingStore layers a block-level LRU read cache over any Store,
// which pays off for remote backends where repeated handle loads would
// refetch the same byte ranges.
package blobstore
