package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// SnapshotSettings controls where exported frames go
type SnapshotSettings struct {
	Dir       string
	ThumbSize uint // longest thumbnail edge in pixels, 0 disables thumbnails

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
}

// UploadEnabled reports whether enough S3 settings are present to upload
func (s SnapshotSettings) UploadEnabled() bool {
	return s.S3Bucket != "" && s.S3Region != ""
}

// LoadSnapshotSettings reads snapshot settings from the environment.
// When envFile exists it is loaded first; variables already set in the
// process environment win.
func LoadSnapshotSettings(envFile string) SnapshotSettings {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}

	thumb := uint(256)
	if v, ok := os.LookupEnv("LUMI_THUMB_SIZE"); ok {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			thumb = uint(n)
		}
	}

	return SnapshotSettings{
		Dir:         getEnv("LUMI_SNAPSHOT_DIR", "snapshots"),
		ThumbSize:   thumb,
		S3Bucket:    os.Getenv("LUMI_S3_BUCKET"),
		S3Region:    os.Getenv("LUMI_S3_REGION"),
		S3Endpoint:  os.Getenv("LUMI_S3_ENDPOINT"),
		S3AccessKey: os.Getenv("LUMI_S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("LUMI_S3_SECRET_KEY"),
	}
}

// getEnv returns the variable or a fallback when unset
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
