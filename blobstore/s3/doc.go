// Package s3 provides an Amazon S3 implementation of blobstore.Store.
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("flatpack/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
// Reads use ranged GetObject requests, streaming writes use multipart
// uploads, and List paginates automatically. A prefix isolates one
// application's blobs inside a shared bucket.
package s3
