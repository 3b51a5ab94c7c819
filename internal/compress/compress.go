package compress

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
)

// MaxDimension bounds the longest side of a re-encoded image
const MaxDimension = 1920

var qualities = map[string]int{
	"high":   95,
	"fine":   85,
	"normal": 75,
	"low":    60,
}

// Quality maps a compression level onto a JPEG quality
func Quality(level string) (int, error) {
	q, ok := qualities[strings.ToLower(level)]
	if !ok {
		return 0, fmt.Errorf("invalid compression level: %s (use: high, fine, normal, low)", level)
	}
	return q, nil
}

// IsImage checks if the file is an image based on extension
func IsImage(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png", ".bmp", ".tiff", ".gif":
		return true
	}
	return false
}

// Image re-encodes src as a JPEG inside dir and returns the new path.
// The output keeps the base name with a .jpg extension.
func Image(src, dir, level string) (string, error) {
	quality, err := Quality(level)
	if err != nil {
		return "", err
	}

	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	b := img.Bounds()
	if b.Dx() > MaxDimension || b.Dy() > MaxDimension {
		img = imaging.Fit(img, MaxDimension, MaxDimension, imaging.Lanczos)
	}

	// JPEG has no alpha channel
	flat := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), image.White)
	flat = imaging.Overlay(flat, img, image.Pt(0, 0), 1.0)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}

	name := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)) + ".jpg"
	dest := filepath.Join(dir, name)
	if err := imaging.Save(flat, dest, imaging.JPEGQuality(quality)); err != nil {
		return "", fmt.Errorf("failed to encode compressed image: %w", err)
	}

	if before, after := fileSize(src), fileSize(dest); before > 0 {
		logrus.Infof("compressed %s: %d -> %d bytes (%.1f%% saved)", src, before, after, float64(before-after)/float64(before)*100)
	}
	return dest, nil
}

// Preparer returns an upload hook that compresses images into dir and
// passes every other file through untouched
func Preparer(level, dir string) func(ctx context.Context, localPath string) (string, error) {
	return func(ctx context.Context, localPath string) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if level == "" || !IsImage(localPath) {
			return localPath, nil
		}
		return Image(localPath, dir, level)
	}
}

func fileSize(p string) int64 {
	info, err := os.Stat(p)
	if err != nil {
		return 0
	}
	return info.Size()
}
