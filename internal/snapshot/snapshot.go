package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"lumitracer/internal/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/nfnt/resize"
)

const UploadTimeout = 10 * time.Second

// ObjectPutter is the part of the S3 client used for uploads
type ObjectPutter interface {
	PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error)
}

// Result lists what a Save produced
type Result struct {
	Path      string
	ThumbPath string
	Keys      []string // uploaded object keys
}

// Snapshotter writes finished frames to disk and, when configured, to S3.
type Snapshotter struct {
	settings config.SnapshotSettings
	uploader ObjectPutter
	now      func() time.Time
}

// New creates a Snapshotter. An S3 client is created when the settings
// enable uploads.
func New(settings config.SnapshotSettings) (*Snapshotter, error) {
	s := &Snapshotter{settings: settings, now: time.Now}
	if !settings.UploadEnabled() {
		return s, nil
	}

	s3Config := &aws.Config{
		Region:           aws.String(settings.S3Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	if settings.S3Endpoint != "" {
		s3Config.Endpoint = aws.String(settings.S3Endpoint)
	}
	if settings.S3AccessKey != "" {
		s3Config.Credentials = credentials.NewStaticCredentials(settings.S3AccessKey, settings.S3SecretKey, "")
	}

	sess, err := session.NewSession(s3Config)
	if err != nil {
		return nil, fmt.Errorf("create S3 session: %w", err)
	}
	s.uploader = s3.New(sess)
	return s, nil
}

// NewWithUploader creates a Snapshotter that uploads through u.
func NewWithUploader(settings config.SnapshotSettings, u ObjectPutter) *Snapshotter {
	return &Snapshotter{settings: settings, uploader: u, now: time.Now}
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Thumbnail scales img so its longest edge is at most maxEdge pixels.
func Thumbnail(img image.Image, maxEdge uint) image.Image {
	return resize.Thumbnail(maxEdge, maxEdge, img, resize.Bilinear)
}

// Save writes img as lumitracer-<unix nanos>.png into the snapshot directory,
// plus a thumbnail and an upload when those are enabled.
func (s *Snapshotter) Save(ctx context.Context, img image.Image) (Result, error) {
	var res Result
	if img.Bounds().Empty() {
		return res, fmt.Errorf("snapshot: empty image")
	}
	if err := os.MkdirAll(s.settings.Dir, 0o755); err != nil {
		return res, fmt.Errorf("create snapshot dir: %w", err)
	}

	name := "lumitracer-" + strconv.FormatInt(s.now().UnixNano(), 10)

	data, err := EncodePNG(img)
	if err != nil {
		return res, err
	}
	res.Path = filepath.Join(s.settings.Dir, name+".png")
	if err := os.WriteFile(res.Path, data, 0o644); err != nil {
		return res, fmt.Errorf("write snapshot: %w", err)
	}

	var thumb []byte
	if s.settings.ThumbSize > 0 {
		thumb, err = EncodePNG(Thumbnail(img, s.settings.ThumbSize))
		if err != nil {
			return res, err
		}
		res.ThumbPath = filepath.Join(s.settings.Dir, name+"-thumb.png")
		if err := os.WriteFile(res.ThumbPath, thumb, 0o644); err != nil {
			return res, fmt.Errorf("write thumbnail: %w", err)
		}
	}

	if s.uploader == nil {
		return res, nil
	}

	uploads := []struct {
		key  string
		data []byte
	}{{path.Join("snapshots", name+".png"), data}}
	if thumb != nil {
		uploads = append(uploads, struct {
			key  string
			data []byte
		}{path.Join("snapshots", name+"-thumb.png"), thumb})
	}
	for _, u := range uploads {
		if err := s.upload(ctx, u.data, u.key); err != nil {
			return res, err
		}
		res.Keys = append(res.Keys, u.key)
	}
	return res, nil
}

func (s *Snapshotter) upload(ctx context.Context, data []byte, key string) error {
	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	size := int64(len(data))
	_, err := s.uploader.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.settings.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String("image/png"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	log.Printf("Uploaded %s to S3 (%d bytes)", key, size)
	return nil
}
