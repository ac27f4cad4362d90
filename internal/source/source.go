// Package source loads documents from local files, standard input and S3.
package source

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/markview/internal/config"
	"github.com/vango-dev/markview/internal/errors"
	"github.com/vango-dev/markview/pkg/hast"
)

// Stdin is the source name that reads from standard input.
const Stdin = "-"

// Format is the encoding of a loaded document.
type Format string

const (
	FormatJSON Format = "json"
	FormatHTML Format = "html"
)

// Document is a loaded and decoded document.
type Document struct {
	// Name is the source the document was loaded from.
	Name string

	// Root is the decoded tree.
	Root *hast.Node

	// Format is the encoding the document was decoded from.
	Format Format

	// Size is the encoded size in bytes.
	Size int64
}

// ObjectGetter is the subset of the S3 client the loader uses.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Option configures a Loader.
type Option func(*Loader)

// WithS3Client sets the client used for s3:// sources. Without one a client
// is built from the S3 config on first use.
func WithS3Client(client ObjectGetter) Option {
	return func(l *Loader) {
		l.s3 = client
	}
}

// WithS3Config sets the settings used to build the S3 client.
func WithS3Config(cfg config.S3Config) Option {
	return func(l *Loader) {
		l.s3Config = cfg
	}
}

// WithStdin sets the reader used for the "-" source.
func WithStdin(r io.Reader) Option {
	return func(l *Loader) {
		l.stdin = r
	}
}

// WithLogger sets the loader's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// Loader loads documents by name.
type Loader struct {
	s3       ObjectGetter
	s3Config config.S3Config
	s3Once   sync.Once
	stdin    io.Reader
	logger   *slog.Logger
}

// NewLoader creates a Loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		stdin:  os.Stdin,
		logger: slog.Default().With("component", "source"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads and decodes the document named by src: a local path, "-" for
// standard input, or an s3://bucket/key URL.
func (l *Loader) Load(ctx context.Context, src string) (*Document, error) {
	data, err := l.Read(ctx, src)
	if err != nil {
		return nil, err
	}

	root, format, err := Decode(src, data)
	if err != nil {
		return nil, err
	}

	l.logger.Debug("document loaded", "source", src, "format", format, "bytes", len(data))
	return &Document{
		Name:   src,
		Root:   root,
		Format: format,
		Size:   int64(len(data)),
	}, nil
}

// Read returns the raw bytes of src.
func (l *Loader) Read(ctx context.Context, src string) ([]byte, error) {
	if src == Stdin {
		data, err := io.ReadAll(l.stdin)
		if err != nil {
			return nil, errors.New("E121").WithDetail("Reading standard input failed.").Wrap(err)
		}
		return data, nil
	}

	if strings.Contains(src, "://") {
		u, err := url.Parse(src)
		if err != nil || u.Scheme != "s3" {
			return nil, errors.New("E122").
				WithDetail("Cannot load " + src + ".").
				WithSuggestion("Use a local path or an s3://bucket/key URL")
		}
		return l.readS3(ctx, u)
	}

	data, err := os.ReadFile(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E120").
				WithDetail("No file at " + src + ".").
				WithSuggestion("Check the path, relative paths are resolved from the working directory")
		}
		return nil, errors.New("E121").Wrap(err)
	}
	return data, nil
}

// Decode decodes data by the extension of name: .json is HAST JSON,
// .html and .htm are HTML. Other names are sniffed: a leading '{' means JSON.
func Decode(name string, data []byte) (*hast.Node, Format, error) {
	format, err := detect(name, data)
	if err != nil {
		return nil, "", err
	}

	switch format {
	case FormatJSON:
		root, err := hast.Parse(data, name)
		if err != nil {
			return nil, "", err
		}
		if err := hast.Validate(root); err != nil {
			return nil, "", err
		}
		return root, format, nil
	default:
		root, err := hast.FromHTML(bytes.NewReader(data))
		if err != nil {
			return nil, "", errors.New("E100").WithDetail("Invalid HTML in " + name + ".").Wrap(err)
		}
		return root, format, nil
	}
}

func detect(name string, data []byte) (Format, error) {
	if u, err := url.Parse(name); err == nil && u.Scheme == "s3" {
		name = u.Path
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON, nil
	case ".html", ".htm":
		return FormatHTML, nil
	case ".md", ".markdown":
		return "", errors.New("E122").
			WithDetail(name + " is markdown source.").
			WithSuggestion("Convert it to HAST JSON or HTML first, for example with rehype")
	}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return FormatJSON, nil
	}
	return FormatHTML, nil
}
