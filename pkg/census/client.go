// Package census provides a client for the US Census Bureau ACS API, used to
// back state demographic figures with an official source.
package census

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"github.com/counselpath/stategen/internal/model"
)

// Client defines the Census ACS operations used by the generation engine.
type Client interface {
	// StateData fetches population, median household income, and household
	// counts for a state by name.
	StateData(ctx context.Context, stateName string) (*model.StateData, error)
}

// stateFIPS maps state names to their two-digit FIPS codes, as used by the
// ACS "for=state:NN" predicate.
var stateFIPS = map[string]string{
	"Alabama":        "01",
	"Alaska":         "02",
	"Arizona":        "04",
	"Arkansas":       "05",
	"California":     "06",
	"Colorado":       "08",
	"Connecticut":    "09",
	"Delaware":       "10",
	"Florida":        "12",
	"Georgia":        "13",
	"Hawaii":         "15",
	"Idaho":          "16",
	"Illinois":       "17",
	"Indiana":        "18",
	"Iowa":           "19",
	"Kansas":         "20",
	"Kentucky":       "21",
	"Louisiana":      "22",
	"Maine":          "23",
	"Maryland":       "24",
	"Massachusetts":  "25",
	"Michigan":       "26",
	"Minnesota":      "27",
	"Mississippi":    "28",
	"Missouri":       "29",
	"Montana":        "30",
	"Nebraska":       "31",
	"Nevada":         "32",
	"New Hampshire":  "33",
	"New Jersey":     "34",
	"New Mexico":     "35",
	"New York":       "36",
	"North Carolina": "37",
	"North Dakota":   "38",
	"Ohio":           "39",
	"Oklahoma":       "40",
	"Oregon":         "41",
	"Pennsylvania":   "42",
	"Rhode Island":   "44",
	"South Carolina": "45",
	"South Dakota":   "46",
	"Tennessee":      "47",
	"Texas":          "48",
	"Utah":           "49",
	"Vermont":        "50",
	"Virginia":       "51",
	"Washington":     "53",
	"West Virginia":  "54",
	"Wisconsin":      "55",
	"Wyoming":        "56",
}

// ACS variable IDs: total population, median household income, and total
// households by marital status universe.
const acsVariables = "B01003_001E,B19013_001E,B12001_001E"

// Option configures the Census client.
type Option func(*httpClient)

// WithBaseURL sets a custom API base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new Census ACS client. The API key is optional; the
// Census API serves unkeyed requests at a lower rate limit.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "https://api.census.gov/data/2022/acs/acs1",
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fallback returns conservative round-number estimates for when the ACS API
// is unreachable. The Source field marks the figures as estimated so callers
// never present them as official.
func Fallback() *model.StateData {
	return &model.StateData{
		Population:   1000000,
		MedianIncome: 65000,
		Households:   400000,
		Source:       "Estimated",
	}
}

func (c *httpClient) StateData(ctx context.Context, stateName string) (*model.StateData, error) {
	fips, ok := stateFIPS[stateName]
	if !ok {
		return nil, eris.Errorf("census: unknown state %q", stateName)
	}

	reqURL := fmt.Sprintf("%s?get=%s&for=state:%s", c.baseURL, acsVariables, fips)
	if c.apiKey != "" {
		reqURL += "&key=" + c.apiKey
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "census: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "census: request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "census: read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("census: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	return parseACSResponse(body)
}

// parseACSResponse decodes the ACS row format: a header row followed by one
// data row per geography, all values as strings.
func parseACSResponse(body []byte) (*model.StateData, error) {
	var rows [][]string
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, eris.Wrap(err, "census: unmarshal response")
	}
	if len(rows) < 2 || len(rows[1]) < 3 {
		return nil, eris.New("census: response has no data row")
	}

	row := rows[1]
	population, err := strconv.Atoi(row[0])
	if err != nil {
		return nil, eris.Wrapf(err, "census: parse population %q", row[0])
	}
	medianIncome, err := strconv.Atoi(row[1])
	if err != nil {
		return nil, eris.Wrapf(err, "census: parse median income %q", row[1])
	}
	households, err := strconv.Atoi(row[2])
	if err != nil {
		return nil, eris.Wrapf(err, "census: parse households %q", row[2])
	}

	return &model.StateData{
		Population:   population,
		MedianIncome: medianIncome,
		Households:   households,
		Source:       "US Census Bureau ACS",
	}, nil
}
