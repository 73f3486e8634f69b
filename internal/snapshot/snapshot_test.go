package snapshot

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"lumitracer/internal/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
)

type fakePutter struct {
	keys   []string
	bodies [][]byte
	err    error
	hadDL  bool
}

func (f *fakePutter) PutObjectWithContext(ctx aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	_, f.hadDL = ctx.Deadline()
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.keys = append(f.keys, aws.StringValue(in.Key))
	f.bodies = append(f.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetRGBA(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	return img
}

func fixedClock(s *Snapshotter) {
	s.now = func() time.Time { return time.Unix(0, 42) }
}

func TestSaveWritesPNGAndThumbnail(t *testing.T) {
	dir := t.TempDir()
	s := NewWithUploader(config.SnapshotSettings{Dir: dir, ThumbSize: 16}, nil)
	fixedClock(s)

	res, err := s.Save(context.Background(), testImage(64, 32))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if res.Path != filepath.Join(dir, "lumitracer-42.png") {
		t.Errorf("Path = %q", res.Path)
	}

	full := decode(t, res.Path)
	if b := full.Bounds(); b.Dx() != 64 || b.Dy() != 32 {
		t.Errorf("full size = %v", b)
	}
	thumb := decode(t, res.ThumbPath)
	if b := thumb.Bounds(); b.Dx() != 16 || b.Dy() != 8 {
		t.Errorf("thumbnail size = %v, want 16x8", b)
	}
	if len(res.Keys) != 0 {
		t.Errorf("uploaded without an uploader: %v", res.Keys)
	}
}

func TestSaveWithoutThumbnail(t *testing.T) {
	s := NewWithUploader(config.SnapshotSettings{Dir: t.TempDir()}, nil)
	res, err := s.Save(context.Background(), testImage(4, 4))
	if err != nil {
		t.Fatal(err)
	}
	if res.ThumbPath != "" {
		t.Errorf("thumbnail written with ThumbSize 0: %q", res.ThumbPath)
	}
}

func TestSaveUploads(t *testing.T) {
	fp := &fakePutter{}
	s := NewWithUploader(config.SnapshotSettings{Dir: t.TempDir(), ThumbSize: 8, S3Bucket: "renders", S3Region: "us-east-1"}, fp)
	fixedClock(s)

	res, err := s.Save(context.Background(), testImage(32, 32))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	want := []string{"snapshots/lumitracer-42.png", "snapshots/lumitracer-42-thumb.png"}
	if len(fp.keys) != 2 || fp.keys[0] != want[0] || fp.keys[1] != want[1] {
		t.Fatalf("keys = %v, want %v", fp.keys, want)
	}
	if len(res.Keys) != 2 {
		t.Errorf("Result.Keys = %v", res.Keys)
	}
	if !fp.hadDL {
		t.Errorf("upload context has no deadline")
	}

	onDisk, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(onDisk, fp.bodies[0]) {
		t.Errorf("uploaded body differs from the file on disk")
	}
}

func TestSaveUploadError(t *testing.T) {
	boom := errors.New("boom")
	s := NewWithUploader(config.SnapshotSettings{Dir: t.TempDir(), S3Bucket: "b", S3Region: "r"}, &fakePutter{err: boom})

	res, err := s.Save(context.Background(), testImage(4, 4))
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
	if _, statErr := os.Stat(res.Path); statErr != nil {
		t.Errorf("local file missing after failed upload: %v", statErr)
	}
}

func TestSaveEmptyImage(t *testing.T) {
	s := NewWithUploader(config.SnapshotSettings{Dir: t.TempDir()}, nil)
	if _, err := s.Save(context.Background(), image.NewRGBA(image.Rect(0, 0, 0, 0))); err == nil {
		t.Errorf("empty image accepted")
	}
}

func TestNewWithoutBucketSkipsS3(t *testing.T) {
	s, err := New(config.SnapshotSettings{Dir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	if s.uploader != nil {
		t.Errorf("uploader created without a bucket")
	}
}

func decode(t *testing.T, p string) image.Image {
	t.Helper()
	f, err := os.Open(p)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	return img
}
