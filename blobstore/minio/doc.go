// Package minio provides a blobstore.Store for MinIO and other
// S3-compatible object stores (Ceph, SeaweedFS, Garage).
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	store := miniostore.NewStore(client, "blobs", "flatpack/")
package minio
