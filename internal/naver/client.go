package naver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"phonedeal-be/internal/geo"
	"phonedeal-be/internal/geocode"
	"phonedeal-be/internal/logger"

	"go.uber.org/zap"
)

const (
	DefaultAPIBaseURL = "https://naveropenapi.apigw.ntruss.com"
	geocodePath       = "/map-geocode/v2/geocode"

	headerKeyID = "X-NCP-APIGW-API-KEY-ID"
	headerKey   = "X-NCP-APIGW-API-KEY"
)

var ErrGeocodeAuth = errors.New("naver geocode: credentials rejected")

var _ geocode.Geocoder = (*Client)(nil)

// Client calls the NCP maps gateway.
type Client struct {
	keyID      string
	key        string
	baseURL    string
	httpClient *http.Client
}

func NewClient(keyID, key string) *Client {
	if keyID == "" || key == "" {
		logger.L().Warn("NCP API credentials are empty")
	}
	return &Client{
		keyID:   keyID,
		key:     key,
		baseURL: DefaultAPIBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"errorMessage"`
	Addresses    []struct {
		RoadAddress string `json:"roadAddress"`
		X           string `json:"x"`
		Y           string `json:"y"`
	} `json:"addresses"`
}

// Geocode resolves an address to the first match's coordinates.
func (c *Client) Geocode(ctx context.Context, address string) (geo.Point, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("client", "Naver"),
		zap.String("method", "Geocode"),
	)

	address = strings.TrimSpace(address)
	if address == "" {
		return geo.Point{}, geocode.ErrEmptyAddress
	}

	endpoint := c.baseURL + geocodePath + "?query=" + url.QueryEscape(address)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return geo.Point{}, err
	}
	req.Header.Set(headerKeyID, c.keyID)
	req.Header.Set(headerKey, c.key)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return geo.Point{}, fmt.Errorf("naver geocode request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return geo.Point{}, fmt.Errorf("failed to read naver response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		log.Error("naver rejected credentials", zap.Int("status", resp.StatusCode))
		return geo.Point{}, ErrGeocodeAuth
	case resp.StatusCode != http.StatusOK:
		log.Warn("naver returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", body),
		)
		return geo.Point{}, fmt.Errorf("naver geocode: status %d", resp.StatusCode)
	}

	var res geocodeResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return geo.Point{}, fmt.Errorf("decode naver response: %w", err)
	}
	if len(res.Addresses) == 0 {
		return geo.Point{}, geocode.ErrAddressNotFound
	}

	first := res.Addresses[0]
	lat, errLat := strconv.ParseFloat(first.Y, 64)
	lng, errLng := strconv.ParseFloat(first.X, 64)
	if errLat != nil || errLng != nil {
		return geo.Point{}, fmt.Errorf("naver geocode: bad coordinates %q,%q", first.Y, first.X)
	}

	return geo.Point{Lat: lat, Lng: lng}, nil
}
