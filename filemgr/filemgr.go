// Package filemgr stores uploaded memory photos and their thumbnails.
package filemgr

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"ourdates/utils"
)

const (
	thumbWidth   = 480
	maxPhotoSize = 10 << 20 // 10 MB
)

var supportedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// SavePhoto validates and stores an uploaded photo under dir, writes a
// resized JPEG thumbnail under dir/thumbs, and returns the stored file
// name.
func SavePhoto(file multipart.File, header *multipart.FileHeader, dir string) (string, error) {
	mimeType := header.Header.Get("Content-Type")
	if !supportedImageTypes[mimeType] {
		return "", fmt.Errorf("unsupported image type %q", mimeType)
	}
	if header.Size > maxPhotoSize {
		return "", fmt.Errorf("photo too large: %d bytes", header.Size)
	}

	buf, err := io.ReadAll(io.LimitReader(file, maxPhotoSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read photo: %w", err)
	}
	if len(buf) > maxPhotoSize {
		return "", fmt.Errorf("photo too large")
	}

	img, _, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		return "", fmt.Errorf("failed to decode image %q: %w", header.Filename, err)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	name := utils.GetUUID() + ext

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create photo directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), buf, 0o644); err != nil {
		return "", fmt.Errorf("failed to save photo: %w", err)
	}

	thumbDir := filepath.Join(dir, "thumbs")
	if err := os.MkdirAll(thumbDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create thumbnail directory: %w", err)
	}
	thumbName := strings.TrimSuffix(name, ext) + ".jpg"
	out, err := os.Create(filepath.Join(thumbDir, thumbName))
	if err != nil {
		return "", fmt.Errorf("failed to create thumbnail file: %w", err)
	}
	defer out.Close()

	thumbImg := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	if err := jpeg.Encode(out, thumbImg, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	return name, nil
}
