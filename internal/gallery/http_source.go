package gallery

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	derrors "git.home.luguber.info/inful/birthday/internal/foundation/errors"
)

// HTTPSource lists images from a running site server.
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSource returns a Source backed by the listing endpoints at baseURL.
// A nil client gets a 10s timeout client.
func NewHTTPSource(baseURL string, client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPSource{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// BaseURL returns the server root this source talks to.
func (s *HTTPSource) BaseURL() string { return s.baseURL }

// List fetches the listing for cat. Relative image paths are resolved against
// the server root so clients can fetch the files.
func (s *HTTPSource) List(ctx context.Context, cat Category) ([]Image, error) {
	if !cat.Valid() {
		return nil, derrors.ValidationError("unknown image category").
			WithContext("category", string(cat)).
			Build()
	}
	url := s.baseURL + cat.APIPath()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryValidation, "invalid listing request").Build()
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryNetwork, "listing request failed").
			Retryable().
			WithContext("url", url).
			Build()
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, derrors.SourceUnavailableError("site server could not list photos").
			WithContext("url", url).
			WithContext("status", resp.StatusCode).
			Build()
	}

	var listing Listing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryNetwork, "malformed listing response").
			WithContext("url", url).
			Build()
	}
	for i := range listing.Images {
		if strings.HasPrefix(listing.Images[i].Src, "/") {
			listing.Images[i].Src = s.baseURL + listing.Images[i].Src
		}
	}
	if listing.Images == nil {
		listing.Images = []Image{}
	}
	return listing.Images, nil
}
