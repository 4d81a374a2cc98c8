// Package media stores uploaded images. Payloads arrive as
// "data:image/<ext>;base64,<data>" strings and are written unchanged;
// nothing here decodes or re-encodes image formats.
package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
}

// SetLogLevel aligns this package's logger with the application level
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// Directories images are stored under.
const (
	RecipeImages = "recipes/images"
	Avatars      = "avatars"
)

// ErrInvalidImage is returned for payloads that are not base64 image data URIs.
var ErrInvalidImage = errors.New("image must be a base64 data URI of the form data:image/<ext>;base64,<data>")

// Image is a decoded upload.
type Image struct {
	Ext         string
	ContentType string
	Data        []byte
}

// Store persists images and hands back their public URL.
type Store interface {
	Save(ctx context.Context, dir string, img Image) (string, error)
	// Delete removes the object behind a URL returned by Save. Unknown
	// URLs are ignored.
	Delete(ctx context.Context, url string) error
}

// ParseDataURI splits a data URI into its extension and raw bytes.
func ParseDataURI(s string) (Image, error) {
	header, payload, ok := strings.Cut(s, ";base64,")
	if !ok || !strings.HasPrefix(header, "data:image/") {
		return Image{}, ErrInvalidImage
	}
	contentType := strings.TrimPrefix(header, "data:")
	ext := strings.ToLower(strings.TrimPrefix(contentType, "image/"))
	if ext == "" || strings.ContainsAny(ext, `/\. `) {
		return Image{}, ErrInvalidImage
	}
	if ext == "jpeg" {
		ext = "jpg"
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return Image{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if byExt := mime.TypeByExtension("." + ext); byExt != "" {
		contentType = byExt
	}
	return Image{Ext: ext, ContentType: contentType, Data: data}, nil
}

// objectKey returns a fresh, collision-free key under dir.
func objectKey(dir, ext string) string {
	return path.Join(dir, uuid.New().String()+"."+ext)
}
