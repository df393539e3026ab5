package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strings"

	"postboard/internal/config"
	"postboard/internal/featureflags"
	"postboard/internal/middleware"
	"postboard/internal/models"
	"postboard/internal/observability"
	"postboard/internal/storage"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultImageMaxUploadSizeMB = 10
	// PostImageDir is the storage directory for post images.
	PostImageDir = "posts"
	CoverWidth   = 960
	CoverHeight  = 339
	WebPQuality  = 80
	// MaxImagePixels caps width*height, checked from the header before decoding.
	MaxImagePixels = 40_000_000
)

const invalidImageMessage = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."

// ImageUpload is an image file received from a form or API request.
type ImageUpload struct {
	Filename    string
	ContentType string
	Content     []byte
}

// StoredImage names the objects saved for one upload. Cover is empty when no
// cover rendition was made.
type StoredImage struct {
	Key   string
	Cover string
}

type ImageService struct {
	store              storage.Store
	flags              *featureflags.Manager
	maxUploadSizeBytes int64
	maxPixels          int
}

func NewImageService(store storage.Store, flags *featureflags.Manager, cfg *config.Config) *ImageService {
	maxUploadSizeMB := DefaultImageMaxUploadSizeMB
	if cfg != nil && cfg.ImageMaxUploadSizeMB > 0 {
		maxUploadSizeMB = cfg.ImageMaxUploadSizeMB
	}
	return &ImageService{
		store:              store,
		flags:              flags,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
		maxPixels:          MaxImagePixels,
	}
}

// Store validates the upload and saves it as posts/<name>, or under a suffixed
// name when that key is taken. With the image_thumbnails flag on for userID, a
// cropped WebP cover is saved next to it.
func (s *ImageService) Store(ctx context.Context, userID uint, in ImageUpload) (StoredImage, error) {
	ctx, span := observability.StartSpan(ctx, "image", "store")
	stored, err := s.storeUpload(ctx, userID, in)
	observability.EndSpan(span, err)

	result := "stored"
	if err != nil {
		result = "rejected"
		if models.IsCode(err, models.CodeInternal) {
			result = "failed"
		}
	}
	observability.ImageUploads.WithLabelValues(result).Inc()
	return stored, err
}

func (s *ImageService) storeUpload(ctx context.Context, userID uint, in ImageUpload) (StoredImage, error) {
	if len(in.Content) == 0 {
		return StoredImage{}, models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return StoredImage{}, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(in.Content)
	if !isAllowedImageMIME(detectedType) {
		return StoredImage{}, models.NewValidationError(invalidImageMessage)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(in.Content))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return StoredImage{}, models.NewValidationError(invalidImageMessage)
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(s.maxPixels) {
		return StoredImage{}, models.NewValidationError(fmt.Sprintf("Image too large (max %d megapixels)", s.maxPixels/1_000_000))
	}
	decoded, _, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return StoredImage{}, models.NewValidationError(invalidImageMessage)
	}

	key, err := storage.SaveUnique(ctx, s.store, PostImageDir, in.Filename, in.Content, normalizeContentType(detectedType))
	if err != nil {
		return StoredImage{}, models.NewInternalError(err)
	}
	stored := StoredImage{Key: key}

	if s.flags.Enabled(featureflags.ImageThumbnails, userID) {
		cover, err := s.saveCover(ctx, key, decoded)
		if err != nil {
			// The original is already stored; a missing cover falls back to it.
			middleware.Logger.WarnContext(ctx, "cover rendition failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
		stored.Cover = cover
	}
	return stored, nil
}

func (s *ImageService) saveCover(ctx context.Context, key string, src image.Image) (string, error) {
	cover := cropToFill(src, CoverWidth, CoverHeight)
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, cover, &webp.Options{Quality: WebPQuality}); err != nil {
		return "", err
	}
	return storage.SaveUnique(ctx, s.store, path.Dir(key), path.Base(CoverKey(key)), buf.Bytes(), "image/webp")
}

// Remove deletes an image and its cover. Missing objects are ignored.
func (s *ImageService) Remove(ctx context.Context, img StoredImage) error {
	if img.Key == "" {
		return nil
	}
	if err := s.store.Delete(ctx, img.Key); err != nil {
		return err
	}
	if img.Cover == "" {
		return nil
	}
	return s.store.Delete(ctx, img.Cover)
}

// URL is the public address of a stored image.
func (s *ImageService) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.store.URL(key)
}

// CoverKey is the preferred storage key of the cover rendition for key.
func CoverKey(key string) string {
	return strings.TrimSuffix(key, path.Ext(key)) + "_cover.webp"
}

// cropToFill scales src to cover w x h and crops the centre.
func cropToFill(src image.Image, w, h int) image.Image {
	b := src.Bounds()
	sw, sh := b.Dx(), b.Dy()
	if sw <= 0 || sh <= 0 {
		return src
	}

	// Largest centred source rectangle with the target aspect ratio.
	cropW, cropH := sw, sw*h/w
	if cropH > sh {
		cropW, cropH = sh*w/h, sh
	}
	if cropW < 1 {
		cropW = 1
	}
	if cropH < 1 {
		cropH = 1
	}
	x0 := b.Min.X + (sw-cropW)/2
	y0 := b.Min.Y + (sh-cropH)/2
	srcRect := image.Rect(x0, y0, x0+cropW, y0+cropH)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, srcRect, xdraw.Src, nil)
	return dst
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}
