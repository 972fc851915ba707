// Package minio implements blobstore.Store on MinIO and other
// S3-compatible object stores.
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//		Creds: credentials.NewStaticV4(accessKey, secretKey, ""),
//	})
//	if err != nil { ... }
//	store := NewStore(client, "kerngo", "handles/")
//
// Reads use ranged GetObject requests so handle loads fetch only the
// bytes they need.
package minio
