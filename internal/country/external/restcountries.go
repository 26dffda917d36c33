package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"country-trivia/internal/country"
)

const catalogFields = "cca2,name,capital,population,flags"

// RESTCountriesClient fetches the country catalog from restcountries.com
// (no API key).
type RESTCountriesClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewRESTCountriesClient(baseURL string, httpClient *http.Client) *RESTCountriesClient {
	if baseURL == "" {
		baseURL = "https://restcountries.com"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &RESTCountriesClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

type restCountry struct {
	CCA2 string `json:"cca2"`
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	Capital    []string `json:"capital"`
	Population int64    `json:"population"`
	Flags      struct {
		PNG string `json:"png"`
		SVG string `json:"svg"`
	} `json:"flags"`
}

// Fetch downloads the full catalog and maps it to the internal shape.
// Records without a code, name or flag image are dropped.
func (c *RESTCountriesClient) Fetch(ctx context.Context) ([]country.Country, error) {
	values := url.Values{}
	values.Set("fields", catalogFields)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/v3.1/all?%s", c.baseURL, values.Encode()), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("restcountries non-200: %d", resp.StatusCode)
	}

	var payload []restCountry
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	countries := make([]country.Country, 0, len(payload))
	for _, rc := range payload {
		mapped := country.Country{
			Code:       rc.CCA2,
			Name:       rc.Name.Common,
			Population: rc.Population,
			FlagURL:    rc.Flags.PNG,
		}
		if mapped.FlagURL == "" {
			mapped.FlagURL = rc.Flags.SVG
		}
		if len(rc.Capital) > 0 {
			mapped.Capital = rc.Capital[0]
		}
		if mapped.Code == "" || mapped.Name == "" || mapped.FlagURL == "" {
			continue
		}
		countries = append(countries, mapped)
	}
	return countries, nil
}
