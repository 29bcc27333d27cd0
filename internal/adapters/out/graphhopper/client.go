// Package graphhopper implements ports.Geocoder and ports.Router against the GraphHopper
// web API.
package graphhopper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/core/ports"
)

const (
	DefaultBaseURL      = "https://graphhopper.com/api/1"
	DefaultGeocodeLimit = 5
)

var (
	ErrNoRoute = errors.New("graphhopper: no route between points")
	ErrNoHit   = errors.New("graphhopper: no place at point")
)

// StatusError is returned for any non-2xx answer.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("graphhopper: status %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.http = httpClient }
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type hit struct {
	Point       point  `json:"point"`
	Name        string `json:"name"`
	Country     string `json:"country"`
	City        string `json:"city"`
	State       string `json:"state"`
	Street      string `json:"street"`
	HouseNumber string `json:"housenumber"`
	Postcode    string `json:"postcode"`
}

type geocodeResponse struct {
	Hits []hit `json:"hits"`
}

type routeResponse struct {
	Paths []struct {
		Distance float64 `json:"distance"`
		Time     int64   `json:"time"`
		Points   string  `json:"points"`
	} `json:"paths"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// Geocode returns at most limit hits, DefaultGeocodeLimit when limit is not positive.
// Hits with out-of-range coordinates are skipped.
func (c *Client) Geocode(ctx context.Context, query string, limit int) ([]ports.GeoPlace, error) {
	if limit <= 0 {
		limit = DefaultGeocodeLimit
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))

	var resp geocodeResponse
	if err := c.get(ctx, "/geocode", params, &resp); err != nil {
		return nil, err
	}

	places := make([]ports.GeoPlace, 0, len(resp.Hits))
	for _, h := range resp.Hits {
		place, err := h.toPlace()
		if err != nil {
			continue
		}
		places = append(places, place)
	}
	return places, nil
}

func (c *Client) ReverseGeocode(ctx context.Context, at kernel.GeoPoint) (ports.GeoPlace, error) {
	params := url.Values{}
	params.Set("point", formatPoint(at))
	params.Set("reverse", "true")

	var resp geocodeResponse
	if err := c.get(ctx, "/geocode", params, &resp); err != nil {
		return ports.GeoPlace{}, err
	}
	if len(resp.Hits) == 0 {
		return ports.GeoPlace{}, ErrNoHit
	}
	return resp.Hits[0].toPlace()
}

// Route asks for a car route with an encoded polyline and decodes it.
func (c *Client) Route(ctx context.Context, from, to kernel.GeoPoint) (ports.Route, error) {
	params := url.Values{}
	params.Add("point", formatPoint(from))
	params.Add("point", formatPoint(to))
	params.Set("vehicle", "car")
	params.Set("points_encoded", "true")

	var resp routeResponse
	if err := c.get(ctx, "/route", params, &resp); err != nil {
		return ports.Route{}, err
	}
	if len(resp.Paths) == 0 {
		return ports.Route{}, ErrNoRoute
	}

	path := resp.Paths[0]
	points, err := DecodePolyline(path.Points)
	if err != nil {
		return ports.Route{}, err
	}
	return ports.Route{
		DistanceMeters: path.Distance,
		DurationMillis: path.Time,
		Points:         points,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("key", c.apiKey)
	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("graphhopper: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("graphhopper: %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("graphhopper: read %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr errorResponse
		_ = json.Unmarshal(body, &apiErr)
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return &StatusError{StatusCode: resp.StatusCode, Message: apiErr.Message}
	}

	if err = json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("graphhopper: decode %s: %w", path, err)
	}
	return nil
}

func (h hit) toPlace() (ports.GeoPlace, error) {
	at, err := kernel.NewGeoPoint(h.Point.Lat, h.Point.Lng)
	if err != nil {
		return ports.GeoPlace{}, err
	}
	street := h.Street
	if h.HouseNumber != "" && street != "" {
		street = street + " " + h.HouseNumber
	}
	return ports.GeoPlace{
		Point:    at,
		Name:     h.Name,
		Street:   street,
		City:     h.City,
		State:    h.State,
		Country:  h.Country,
		Postcode: h.Postcode,
	}, nil
}

func formatPoint(p kernel.GeoPoint) string {
	return strconv.FormatFloat(p.Lat(), 'f', -1, 64) + "," + strconv.FormatFloat(p.Lng(), 'f', -1, 64)
}
