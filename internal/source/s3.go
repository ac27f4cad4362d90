package source

import (
	"context"
	stderrors "errors"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/vango-dev/markview/internal/config"
	"github.com/vango-dev/markview/internal/errors"
)

// NewS3Client builds an S3 client from cfg. Credentials come from the
// AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN
// environment variables; without them requests are anonymous.
func NewS3Client(cfg config.S3Config) *s3.Client {
	region := cfg.Region
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = "us-east-1"
	}

	opts := s3.Options{
		Region:       region,
		UsePathStyle: cfg.UsePathStyle,
		Credentials:  envCredentials(),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

func envCredentials() aws.CredentialsProvider {
	id := os.Getenv("AWS_ACCESS_KEY_ID")
	secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.AnonymousCredentials{}
	}
	token := os.Getenv("AWS_SESSION_TOKEN")
	return aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		return aws.Credentials{
			AccessKeyID:     id,
			SecretAccessKey: secret,
			SessionToken:    token,
			Source:          "Environment",
		}, nil
	})
}

// parseS3URL splits s3://bucket/key.
func parseS3URL(u *url.URL) (bucket, key string, err error) {
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", errors.New("E122").
			WithDetail("S3 sources need a bucket and a key, got " + u.String() + ".").
			WithSuggestion("Use s3://bucket/path/to/doc.json")
	}
	return bucket, key, nil
}

func (l *Loader) client() ObjectGetter {
	l.s3Once.Do(func() {
		if l.s3 == nil {
			l.s3 = NewS3Client(l.s3Config)
		}
	})
	return l.s3
}

func (l *Loader) readS3(ctx context.Context, u *url.URL) ([]byte, error) {
	bucket, key, err := parseS3URL(u)
	if err != nil {
		return nil, err
	}

	out, err := l.client().GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		var noBucket *types.NoSuchBucket
		if stderrors.As(err, &noKey) || stderrors.As(err, &noBucket) {
			return nil, errors.New("E120").
				WithDetail("No object at " + u.String() + ".").
				Wrap(err)
		}
		return nil, errors.New("E121").
			WithDetail("Fetching " + u.String() + " failed.").
			WithSuggestion("Check the S3 region, endpoint and credentials").
			Wrap(err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.New("E121").
			WithDetail("Reading " + u.String() + " failed.").
			Wrap(err)
	}
	return data, nil
}
