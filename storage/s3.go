package storage

import (
	"bytes"
	"context"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Client kapselt den S3-Zugriff für Datenbank-Archive. Der Endpoint ist
// konfigurierbar, damit auch S3-kompatible Anbieter funktionieren.
type Client struct {
	s3     *s3.Client
	bucket string
}

// Archive beschreibt ein abgelegtes Backup-Objekt.
type Archive struct {
	Key          string
	LastModified time.Time
}

// NewClient erstellt einen S3-Client mit statischen Credentials und
// festem Endpoint.
func NewClient(ctx context.Context, endpoint, region, accessKey, secretKey, bucket string) (*Client, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:               endpoint,
				SigningRegion:     region,
				HostnameImmutable: true,
			}, nil
		},
	)
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
		awsconfig.WithEndpointResolverWithOptions(resolver),
	)
	if err != nil {
		return nil, err
	}
	return &Client{s3: s3.NewFromConfig(awsCfg), bucket: bucket}, nil
}

// Upload legt ein Archiv unter dem angegebenen Schlüssel ab.
func (c *Client) Upload(ctx context.Context, key string, data []byte) error {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	return err
}

// List liefert alle Archive im Bucket, neueste zuerst.
func (c *Client) List(ctx context.Context) ([]Archive, error) {
	output, err := c.s3.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
	})
	if err != nil {
		return nil, err
	}

	archives := make([]Archive, 0, len(output.Contents))
	for _, obj := range output.Contents {
		archives = append(archives, Archive{
			Key:          aws.ToString(obj.Key),
			LastModified: aws.ToTime(obj.LastModified),
		})
	}
	sort.Slice(archives, func(i, j int) bool {
		return archives[i].LastModified.After(archives[j].LastModified)
	})
	return archives, nil
}

// Delete entfernt ein Archiv.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	return err
}
