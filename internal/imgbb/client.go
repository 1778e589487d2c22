// Package imgbb uploads images to imgbb.com and returns their public URLs.
package imgbb

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultUploadURL = "https://api.imgbb.com/1/upload"
	defaultTimeout   = 60 * time.Second
)

var ErrMissingAPIKey = errors.New("imgbb: api key not set")

// APIError is returned when imgbb rejects an upload.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("imgbb: %s (status %d)", e.Message, e.StatusCode)
}

// Client uploads images with a single API key.
type Client struct {
	apiKey     string
	uploadURL  string
	expiration time.Duration
	httpClient *http.Client
}

type Option func(*Client)

// WithUploadURL overrides the upload endpoint.
func WithUploadURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.uploadURL = u
		}
	}
}

// WithTimeout sets the per-upload timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithExpiration asks imgbb to delete uploads after d. Zero keeps them.
func WithExpiration(d time.Duration) Option {
	return func(c *Client) {
		c.expiration = d
	}
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		uploadURL:  DefaultUploadURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type uploadResponse struct {
	Data struct {
		URL        string `json:"url"`
		DisplayURL string `json:"display_url"`
	} `json:"data"`
	Success bool `json:"success"`
	Status  int  `json:"status"`
	Error   struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends the file at path and returns its public URL.
func (c *Client) Upload(ctx context.Context, path string) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	base := filepath.Base(path)
	form := url.Values{
		"key":   {c.apiKey},
		"image": {base64.StdEncoding.EncodeToString(data)},
		"name":  {strings.TrimSuffix(base, filepath.Ext(base))},
	}
	if c.expiration > 0 {
		form.Set("expiration", strconv.Itoa(int(c.expiration.Seconds())))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", base, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read upload response for %s: %w", base, err)
	}

	var result uploadResponse
	jsonErr := json.Unmarshal(respBody, &result)
	if resp.StatusCode != http.StatusOK {
		msg := result.Error.Message
		if jsonErr != nil || msg == "" {
			msg = truncate(strings.TrimSpace(string(respBody)), 100)
		}
		return "", &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if jsonErr != nil {
		return "", fmt.Errorf("failed to decode upload response for %s: %w", base, jsonErr)
	}
	if result.Data.URL == "" {
		return "", fmt.Errorf("upload response for %s has no url", base)
	}
	return result.Data.URL, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
