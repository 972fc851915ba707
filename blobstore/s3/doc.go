// Package s3 implements blobstore.Store on Amazon S3.
//
// Reads use ranged GetObject requests so handle loads fetch only the
// bytes they need. Writes stream through multipart uploads with CRC32C
// integrity validation.
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	if err != nil { ... }
//	store := s3.NewStore(s3.NewFromConfig(cfg), "my-bucket", "handles/")
package s3
