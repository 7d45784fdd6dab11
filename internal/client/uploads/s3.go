package uploads

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/krktechnologyandservices/GBV/internal/client/models"
	"github.com/krktechnologyandservices/GBV/internal/netx"
	"golang.org/x/crypto/blake2b"
)

const (
	presignExpiry    = 15 * time.Minute
	checksumMetaName = "checksum-blake2b"
)

type S3Config struct {
	Region       string
	BaseEndpoint string
	Bucket       string
	AccessKey    string
	SecretKey    string
	Prefix       string
}

// PutPresigner is the part of *s3.PresignClient the uploader needs.
type PutPresigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Uploader presigns a PUT for a fresh object key and sends the bytes to
// it directly, so credentials never travel with the payload.
type S3Uploader struct {
	presigner PutPresigner
	bucket    string
	prefix    string
	http      *http.Client
	now       func() time.Time
}

func NewS3Uploader(ctx context.Context, cfg S3Config, httpClient *http.Client) (*S3Uploader, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})

	return NewS3UploaderWithPresigner(s3.NewPresignClient(client), cfg.Bucket, cfg.Prefix, httpClient), nil
}

func NewS3UploaderWithPresigner(p PutPresigner, bucket, prefix string, httpClient *http.Client) *S3Uploader {
	if prefix == "" {
		prefix = "certificates"
	}
	return &S3Uploader{presigner: p, bucket: bucket, prefix: prefix, http: httpClient, now: time.Now}
}

// objectKey is prefix/yyyy/mm/dd/<uuid><ext>.
func (u *S3Uploader) objectKey(name string) string {
	d := u.now().UTC()
	ext := strings.ToLower(path.Ext(name))
	return fmt.Sprintf("%s/%04d/%02d/%02d/%s%s", u.prefix, d.Year(), d.Month(), d.Day(), uuid.NewString(), ext)
}

func (u *S3Uploader) Upload(ctx context.Context, a *models.Attachment) (string, error) {
	key := u.objectKey(a.Name)
	sum := blake2b.Sum256(a.Data)

	req, err := u.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(a.ContentType),
		Metadata:    map[string]string{checksumMetaName: hex.EncodeToString(sum[:])},
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("presign put %s: %w", key, err)
	}

	headers := make(map[string]string, len(req.SignedHeader))
	for name, values := range req.SignedHeader {
		if strings.EqualFold(name, "Host") || len(values) == 0 {
			continue
		}
		headers[name] = values[0]
	}

	if err := netx.UploadToPresignedURL(ctx, u.http, req.URL, a.Data, headers); err != nil {
		return "", err
	}

	return key, nil
}
