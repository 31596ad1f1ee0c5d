// Package uploader implements the CDN client used for profile and post
// images.
package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"pulso/internal/models"
)

// Uploader pushes image bytes to a CDN and returns the public URL.
type Uploader interface {
	Upload(ctx context.Context, filename string, content []byte) (string, error)
}

// CDNUploader talks to a Cloudinary-style unsigned upload endpoint: a
// multipart POST with the file and an upload preset, answered with a
// JSON body carrying the delivery URL.
type CDNUploader struct {
	uploadURL string
	preset    string
	client    *http.Client
}

func NewCDNUploader(uploadURL, preset string) *CDNUploader {
	return &CDNUploader{
		uploadURL: uploadURL,
		preset:    preset,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (u *CDNUploader) Upload(ctx context.Context, filename string, content []byte) (string, error) {
	if u.uploadURL == "" {
		return "", models.NewInternalError(fmt.Errorf("CDN upload URL not configured"))
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	if _, err := part.Write(content); err != nil {
		return "", models.NewInternalError(err)
	}
	if err := writer.WriteField("upload_preset", u.preset); err != nil {
		return "", models.NewInternalError(err)
	}
	if err := writer.Close(); err != nil {
		return "", models.NewInternalError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.uploadURL, &body)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return "", models.NewInternalError(fmt.Errorf("CDN upload failed: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", models.NewInternalError(err)
	}

	var parsed uploadResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", models.NewInternalError(fmt.Errorf("CDN returned unparseable response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		msg := parsed.Error.Message
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return "", models.NewInternalError(fmt.Errorf("CDN upload rejected: %s", msg))
	}

	if parsed.SecureURL != "" {
		return parsed.SecureURL, nil
	}
	if parsed.URL != "" {
		return parsed.URL, nil
	}
	return "", models.NewInternalError(fmt.Errorf("CDN response missing delivery URL"))
}
