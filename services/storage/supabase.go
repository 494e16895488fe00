// Package storage is a minimal Supabase Storage REST client. Uploads happen
// from the frontend; the backend only builds public URLs and removes objects
// when their owning project is deleted.
package storage

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	projectURL string
	apiKey     string
	httpClient *http.Client
}

func NewClient(projectURL, apiKey string) *Client {
	return &Client{
		projectURL: strings.TrimRight(projectURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// PublicURL returns the public download URL for an object.
func (c *Client) PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.projectURL, bucket, objectPath)
}

// ObjectPath extracts the bucket-relative object path from a public URL
// served by this project, or "" when the URL points elsewhere.
func (c *Client) ObjectPath(bucket, publicURL string) string {
	prefix := fmt.Sprintf("%s/storage/v1/object/public/%s/", c.projectURL, bucket)
	if !strings.HasPrefix(publicURL, prefix) {
		return ""
	}
	return strings.TrimPrefix(publicURL, prefix)
}

// RemoveObject deletes an object from a bucket.
func (c *Client) RemoveObject(bucket, objectPath string) error {
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.projectURL, bucket, objectPath)
	req, err := http.NewRequest(http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("removing storage object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("storage returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
