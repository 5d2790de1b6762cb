package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.cloudinary.com/v1_1"
	MaxFileSize    = 10 << 20
)

var (
	ErrNotConfigured = errors.New("image uploads are not configured")
	ErrUpstream      = errors.New("image host rejected the upload")
)

// Config es lo que el navegador necesita para subir directo a Cloudinary
type Config struct {
	Enabled      bool   `json:"enabled"`
	CloudName    string `json:"cloudName"`
	UploadPreset string `json:"uploadPreset"`
	UploadURL    string `json:"uploadUrl"`
}

// Client sube imágenes sin firma a Cloudinary usando un upload preset
type Client struct {
	cloudName string
	preset    string
	baseURL   string
	http      *http.Client
}

func NewClient(cloudName, preset string) *Client {
	return &Client{
		cloudName: strings.TrimSpace(cloudName),
		preset:    strings.TrimSpace(preset),
		baseURL:   DefaultBaseURL,
		http:      &http.Client{Timeout: 30 * time.Second},
	}
}

// WithBaseURL apunta el cliente a otro host, útil en tests
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

func (c *Client) Enabled() bool {
	return c.cloudName != "" && c.preset != ""
}

func (c *Client) UploadURL() string {
	if c.cloudName == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/image/upload", c.baseURL, c.cloudName)
}

func (c *Client) Config() Config {
	return Config{
		Enabled:      c.Enabled(),
		CloudName:    c.cloudName,
		UploadPreset: c.preset,
		UploadURL:    c.UploadURL(),
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload envía el archivo y devuelve su secure_url
func (c *Client) Upload(ctx context.Context, filename string, file io.Reader) (string, error) {
	if !c.Enabled() {
		return "", ErrNotConfigured
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("build upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if err := writer.WriteField("upload_preset", c.preset); err != nil {
		return "", fmt.Errorf("build upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("build upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.UploadURL(), &body)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	var out uploadResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK || out.SecureURL == "" {
		msg := fmt.Sprintf("status %d", resp.StatusCode)
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		return "", fmt.Errorf("%w: %s", ErrUpstream, msg)
	}
	return out.SecureURL, nil
}
