// Package s3 provides S3-backed implementations of the
// blobstore.BlobStore interface.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	if err != nil { ... }
//
//	client := awss3.NewFromConfig(cfg) // github.com/aws/aws-sdk-go-v2/service/s3
//	store := s3.NewStore(client, "my-bucket", "mydb/")
//
// # Stores
//
//   - Store: standard S3 with range reads and multipart uploads
//   - ExpressStore: S3 Express One Zone directory buckets with
//     conditional writes
//   - DDBCommitStore: S3 blobs plus a DynamoDB commit log that makes
//     CURRENT manifest updates atomic across concurrent writers
package s3
