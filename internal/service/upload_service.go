package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"net/http"
	"strings"

	"pulso/internal/models"
	"pulso/internal/observability"
	"pulso/internal/uploader"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp" // Register WebP decoder
)

const DefaultUploadMaxSizeMB = 10

type UploadImageInput struct {
	Filename    string
	ContentType string
	Content     []byte
}

// UploadService validates image bytes and pushes them to the CDN.
type UploadService struct {
	cdn                uploader.Uploader
	maxUploadSizeBytes int64
}

func NewUploadService(cdn uploader.Uploader, maxUploadSizeMB int) *UploadService {
	if maxUploadSizeMB <= 0 {
		maxUploadSizeMB = DefaultUploadMaxSizeMB
	}
	return &UploadService{
		cdn:                cdn,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// UploadImage checks that the payload really is a decodable image of an
// accepted format before handing it to the CDN. The declared
// Content-Type is never trusted on its own.
func (s *UploadService) UploadImage(ctx context.Context, in UploadImageInput) (string, error) {
	if len(in.Content) == 0 {
		return "", models.NewValidationError("El archivo de imagen está vacío")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return "", models.NewValidationError(fmt.Sprintf(
			"El archivo es demasiado grande (máximo %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detected := http.DetectContentType(in.Content)
	if !isAllowedImageType(detected) {
		return "", models.NewValidationError("Formato de imagen no soportado (jpeg, png, gif o webp)")
	}

	if _, _, err := image.Decode(bytes.NewReader(in.Content)); err != nil {
		return "", models.NewValidationError("El archivo no es una imagen válida")
	}

	url, err := s.cdn.Upload(ctx, in.Filename, in.Content)
	if err != nil {
		observability.UploadsTotal.WithLabelValues("error").Inc()
		return "", err
	}
	observability.UploadsTotal.WithLabelValues("ok").Inc()
	return url, nil
}

func isAllowedImageType(contentType string) bool {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	}
	return false
}
