// Package storage provides a client for the Supabase Storage object API.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// coverContentType is the fixed content type for uploaded cover images.
// Channel photos are always served as JPEG.
const coverContentType = "image/jpeg"

// Client is a client for a Supabase Storage bucket.
type Client struct {
	baseURL    string
	bucket     string
	serviceKey string
	httpClient *http.Client
}

// Config holds the configuration for the storage client.
type Config struct {
	BaseURL    string        // e.g., "https://project.supabase.co"
	Bucket     string        // e.g., "covers"
	ServiceKey string        // service-role key, server-side only
	Timeout    time.Duration // request timeout (default: 30 seconds)
}

// NewClient creates a new storage client.
func NewClient(config Config) *Client {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimSuffix(config.BaseURL, "/"),
		bucket:     config.Bucket,
		serviceKey: config.ServiceKey,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// UploadCover stores image bytes under a collision-resistant key built
// from the current epoch seconds and the suggested filename. Uploads are
// insert-only; an existing object at the same key is never overwritten.
// Returns the publicly resolvable URL of the stored object.
func (c *Client) UploadCover(ctx context.Context, data []byte, filename string) (string, error) {
	objectPath := fmt.Sprintf("%d_%s", time.Now().Unix(), filename)

	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, c.bucket, objectPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", coverContentType)
	req.Header.Set("x-upsert", "false")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("storage API returned status %d: %s", resp.StatusCode, string(body))
	}

	return c.PublicURL(objectPath), nil
}

// PublicURL returns the public URL for an object in the bucket. The
// bucket is expected to be public; retrieval itself is a plain GET.
func (c *Client) PublicURL(objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, c.bucket, objectPath)
}
