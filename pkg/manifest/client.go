// Package manifest fetches the remote version list and orders it.
package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	apperrors "github.com/huanfeng/mclauncher/internal/errors"
	"github.com/huanfeng/mclauncher/internal/version"
	"github.com/huanfeng/mclauncher/pkg/models"
)

// DefaultURL is the manifest published for the launcher
const DefaultURL = "https://raw.githubusercontent.com/MrPurple666/minecraft/main/mine.json"

// DefaultTimeout bounds a single manifest request
const DefaultTimeout = 30 * time.Second

// maxManifestSize guards against unbounded bodies
const maxManifestSize = 8 << 20

// Fetcher retrieves the version list
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]models.VersionDescriptor, error)
}

// Client fetches manifests over HTTP
type Client struct {
	client *http.Client
}

// NewClient creates a manifest client with the given timeout
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		client: &http.Client{Timeout: timeout},
	}
}

// NewClientWithHTTP creates a manifest client around an existing http.Client
func NewClientWithHTTP(hc *http.Client) *Client {
	return &Client{client: hc}
}

// Fetch downloads and parses the manifest at url.
// Descriptors are returned in manifest order; no retries are made.
func (c *Client) Fetch(ctx context.Context, url string) ([]models.VersionDescriptor, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrorTypeNetwork, apperrors.CodeTransport, "invalid manifest request").
			WithContext("url", url)
	}
	req.Header.Set("User-Agent", "mclauncher/"+version.Short())
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrorTypeNetwork, apperrors.CodeTransport, "manifest request failed").
			WithContext("url", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.NewNetworkError(apperrors.CodeHTTPStatus, fmt.Sprintf("manifest request returned HTTP %d", resp.StatusCode)).
			WithContext("url", url).
			WithContext("status", strconv.Itoa(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxManifestSize))
	if err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrorTypeNetwork, apperrors.CodeTransport, "failed to read manifest body").
			WithContext("url", url)
	}

	return Parse(body)
}

// Parse decodes a manifest document into descriptors
func Parse(data []byte) ([]models.VersionDescriptor, error) {
	var raw struct {
		Versions *[]models.ManifestEntry `json:"versions"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apperrors.NewParsingError(apperrors.CodeInvalidJSON, "manifest is not valid JSON").
			WithContext("detail", err.Error())
	}
	if raw.Versions == nil {
		return nil, apperrors.NewParsingError(apperrors.CodeInvalidManifest, "manifest has no \"versions\" list")
	}

	descriptors := make([]models.VersionDescriptor, 0, len(*raw.Versions))
	for _, entry := range *raw.Versions {
		descriptors = append(descriptors, models.NewVersionDescriptor(entry))
	}
	return descriptors, nil
}
