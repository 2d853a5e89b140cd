package geocode

import (
	"context"
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/platform/httpx"
	"delivery-tracker/internal/platform/obs"
	"delivery-tracker/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// ErrNoAddress is returned when the provider has no result for a point.
var ErrNoAddress = errors.New("no address for coordinates")

const defaultORSBaseURL = "https://api.openrouteservice.org"

type reverseResponse struct {
	Features []struct {
		Properties struct {
			Label string `json:"label"`
		} `json:"properties"`
	} `json:"features"`
}

// ORSGeocoder resolves coordinates to addresses using OpenRouteService
// (/geocode/reverse). Transient failures are retried.
type ORSGeocoder struct {
	http    *httpx.Client
	apiKey  string
	baseURL string
}

var _ ports.Geocoder = (*ORSGeocoder)(nil)

func NewORSGeocoder(apiKey string, session *http.Client) (*ORSGeocoder, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("ORS api key is empty")
	}
	return &ORSGeocoder{
		http:    httpx.NewClient(session),
		apiKey:  apiKey,
		baseURL: defaultORSBaseURL,
	}, nil
}

// WithBaseURL points the geocoder at another ORS deployment.
func (o *ORSGeocoder) WithBaseURL(u string) *ORSGeocoder {
	o.baseURL = strings.TrimRight(u, "/")
	return o
}

func (o *ORSGeocoder) newRequest(ctx context.Context, at domain.Coordinates) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/geocode/reverse", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", o.apiKey)
	req.Header.Set("Accept", "application/json")

	q := req.URL.Query()
	q.Set("point.lat", strconv.FormatFloat(at.Lat, 'f', -1, 64))
	q.Set("point.lon", strconv.FormatFloat(at.Lng, 'f', -1, 64))
	q.Set("size", "1")
	req.URL.RawQuery = q.Encode()

	return req, nil
}

func (o *ORSGeocoder) ReverseGeocode(ctx context.Context, at domain.Coordinates) (_ string, err error) {
	defer obs.Time(ctx, "ors.reverseGeocode")(&err)

	resp, err := o.http.DoWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, at)
	})
	if err != nil {
		return "", fmt.Errorf("reverse geocode %s: %w", at, err)
	}
	defer resp.Body.Close()

	var decoded reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode reverse geocode response: %w", err)
	}

	if len(decoded.Features) == 0 || decoded.Features[0].Properties.Label == "" {
		return "", fmt.Errorf("reverse geocode %s: %w", at, ErrNoAddress)
	}

	return decoded.Features[0].Properties.Label, nil
}
