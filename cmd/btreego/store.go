package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hupe1980/btreego/blobstore"
	miniostore "github.com/hupe1980/btreego/blobstore/minio"
	s3store "github.com/hupe1980/btreego/blobstore/s3"
)

// resolveStore maps a store URL onto a blob store backend. An empty URL
// resolves to no store at all.
//
//	memory://                          in-memory, lost on exit
//	file:///var/lib/btreego            local directory (plain paths work too)
//	s3://bucket/prefix                 S3
//	s3+ddb://bucket/prefix?table=t     S3 with a DynamoDB commit log
//	s3express://bucket/prefix          S3 Express One Zone
//	minio://host:9000/bucket/prefix    MinIO, credentials from
//	                                   MINIO_ACCESS_KEY and MINIO_SECRET_KEY
func resolveStore(ctx context.Context, raw string) (blobstore.BlobStore, error) {
	if raw == "" {
		return nil, nil
	}

	if !strings.Contains(raw, "://") {
		return blobstore.NewLocalStore(raw), nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse store url: %w", err)
	}

	switch u.Scheme {
	case "memory":
		return blobstore.NewMemoryStore(), nil

	case "file":
		return blobstore.NewLocalStore(u.Path), nil

	case "s3", "s3express", "s3+ddb":
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}

		client := awss3.NewFromConfig(cfg)
		bucket := u.Host
		prefix := strings.TrimPrefix(u.Path, "/")

		if bucket == "" {
			return nil, fmt.Errorf("store url %q needs a bucket", raw)
		}

		switch u.Scheme {
		case "s3express":
			return s3store.NewExpressStore(client, bucket, prefix), nil
		case "s3+ddb":
			table := u.Query().Get("table")
			if table == "" {
				table = "btreego-commits"
			}

			base := s3store.NewStore(client, bucket, prefix)

			return s3store.NewDDBCommitStore(base, dynamodb.NewFromConfig(cfg), table, "s3://"+bucket+"/"+prefix), nil
		default:
			return s3store.NewStore(client, bucket, prefix), nil
		}

	case "minio":
		client, err := minio.New(u.Host, &minio.Options{
			Creds:  credentials.NewStaticV4(os.Getenv("MINIO_ACCESS_KEY"), os.Getenv("MINIO_SECRET_KEY"), ""),
			Secure: u.Query().Get("secure") == "true",
		})
		if err != nil {
			return nil, fmt.Errorf("minio client: %w", err)
		}

		bucket, prefix, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
		if bucket == "" {
			return nil, fmt.Errorf("store url %q needs a bucket: minio://host/bucket[/prefix]", raw)
		}

		return miniostore.NewStore(client, bucket, prefix), nil

	default:
		return nil, fmt.Errorf("unknown store scheme %q", u.Scheme)
	}
}
