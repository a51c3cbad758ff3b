// Package geocode wraps the public Nominatim address search: a text query
// returns up to five US candidates decomposed into structured address fields.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"rental-intake/pkg/config"
)

// MinQueryLen is the minimum text length before a search is issued.
const MinQueryLen = 4

// ErrQueryTooShort is returned for queries below MinQueryLen.
var ErrQueryTooShort = errors.New("geocode: query too short")

// Address is a decomposed candidate ready to fill the form fields.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

// Result is one search candidate.
type Result struct {
	DisplayName string  `json:"display_name"`
	Address     Address `json:"address"`
}

// nominatimResult mirrors the remote response shape.
type nominatimResult struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		HouseNumber  string `json:"house_number"`
		Road         string `json:"road"`
		City         string `json:"city"`
		Town         string `json:"town"`
		Village      string `json:"village"`
		Municipality string `json:"municipality"`
		State        string `json:"state"`
		Postcode     string `json:"postcode"`
	} `json:"address"`
}

// Client issues address searches with a request timeout.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewClient builds a client from configuration.
func NewClient(cfg *config.GeocodeConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
	}
}

// Search runs a text query and returns up to five decomposed candidates.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	if len(strings.TrimSpace(query)) < MinQueryLen {
		return nil, ErrQueryTooShort
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", query)
	params.Set("addressdetails", "1")
	params.Set("limit", "5")
	params.Set("countrycodes", "us")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept-Language", "en-US")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode: search returned status %d", resp.StatusCode)
	}

	var raw []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(raw))
	for _, item := range raw {
		results = append(results, Result{
			DisplayName: item.DisplayName,
			Address:     decompose(item),
		})
	}
	return results, nil
}

// decompose maps a remote candidate to structured fields, with the fallback
// chain the form expects: house number + road for the street, the first
// display-name segment when neither is present, and city through the
// town/village/municipality ladder.
func decompose(item nominatimResult) Address {
	addr := item.Address

	street := ""
	if addr.HouseNumber != "" {
		street = addr.HouseNumber + " "
	}
	street += addr.Road
	street = strings.TrimSpace(street)
	if street == "" {
		street = strings.SplitN(item.DisplayName, ",", 2)[0]
	}

	city := addr.City
	if city == "" {
		city = addr.Town
	}
	if city == "" {
		city = addr.Village
	}
	if city == "" {
		city = addr.Municipality
	}

	return Address{
		Street: street,
		City:   city,
		State:  addr.State,
		Zip:    addr.Postcode,
	}
}
