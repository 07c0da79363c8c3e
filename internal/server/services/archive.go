package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	sc "github.com/dmitrijs2005/fieldcheck/internal/server/config"
	"github.com/dmitrijs2005/fieldcheck/internal/server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Archiver keeps a copy of every report outside the database.
type Archiver interface {
	Archive(ctx context.Context, r *models.Report) (string, error)
	Link(ctx context.Context, key string) (string, error)
}

// S3Archiver writes reports as JSON objects to an S3-compatible bucket and
// hands out presigned GET links to them.
type S3Archiver struct {
	config *sc.Config
}

// NewArchiver returns nil when no bucket is configured.
func NewArchiver(config *sc.Config) Archiver {
	if config.S3Bucket == "" {
		return nil
	}
	return &S3Archiver{config: config}
}

// ReportStorageKey is the object key for r, partitioned by creation date.
func ReportStorageKey(r *models.Report) string {
	d := r.CreatedAt.UTC()
	return fmt.Sprintf("reports/%d/%02d/%02d/%s.json", d.Year(), d.Month(), d.Day(), r.ID)
}

func (a *S3Archiver) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(a.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			a.config.S3RootUser,
			a.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(a.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

func (a *S3Archiver) Archive(ctx context.Context, r *models.Report) (string, error) {
	client, err := a.getClient(ctx)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(r)
	if err != nil {
		return "", err
	}

	bucket := a.config.S3Bucket
	key := ReportStorageKey(r)

	if _, err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}); err != nil {
		return "", err
	}

	return key, nil
}

func (a *S3Archiver) Link(ctx context.Context, key string) (string, error) {
	client, err := a.getClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := a.config.S3Bucket

	validity := a.config.ReportLinkValidity
	if validity <= 0 {
		validity = 15 * time.Minute
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(validity))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
