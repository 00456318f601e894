package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"warkop-survey/internal/domain/model"
)

const nearbySearchEndpoint = "https://maps.googleapis.com/maps/api/place/nearbysearch/json"

// Google serves at most three pages per Nearby Search. The bound doubles
// as a termination guarantee against a provider that keeps returning
// continuation tokens.
const maxPages = 3

// A next_page_token is only valid a short moment after it is issued, so a
// delay before the follow-up request is mandatory, not an optimization.
const defaultPageDelay = 2 * time.Second

// GooglePlacesProvider implements the places-search collaborator on the
// Google Places Nearby Search API.
type GooglePlacesProvider struct {
	apiKey     string
	httpClient *http.Client
	endpoint   string
	pageDelay  time.Duration
}

// NewGooglePlacesProvider creates a new provider.
func NewGooglePlacesProvider(apiKey string) *GooglePlacesProvider {
	return &GooglePlacesProvider{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		endpoint:   nearbySearchEndpoint,
		pageDelay:  defaultPageDelay,
	}
}

// NearbySearch collects every page of results around the coordinate. A
// missing and an explicit null next_page_token both decode to the empty
// string and are treated alike as "no further pages". An empty result list
// is a valid answer, not an error.
func (g *GooglePlacesProvider) NearbySearch(ctx context.Context, lat, lng float64, radiusMeters int, keyword string) ([]model.Place, error) {
	var places []model.Place

	pageToken := ""
	for page := 0; page < maxPages; page++ {
		if page > 0 {
			// Wait out the token warm-up before reusing it.
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(g.pageDelay):
			}
		}

		resp, err := g.fetchPage(ctx, lat, lng, radiusMeters, keyword, pageToken)
		if err != nil {
			return nil, err
		}

		for _, result := range resp.Results {
			places = append(places, model.Place{
				ID:   result.PlaceID,
				Name: result.Name,
				Location: model.Location{
					Latitude:  result.Geometry.Location.Lat,
					Longitude: result.Geometry.Location.Lng,
				},
			})
		}

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	return places, nil
}

func (g *GooglePlacesProvider) fetchPage(ctx context.Context, lat, lng float64, radiusMeters int, keyword, pageToken string) (*nearbySearchResponse, error) {
	reqURL := g.buildURL(lat, lng, radiusMeters, keyword, pageToken)

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nearby search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nearby search returned error status: %s", resp.Status)
	}

	var apiResp nearbySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to parse nearby search response: %w", err)
	}

	if apiResp.Status != "OK" && apiResp.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("nearby search status %s: %s", apiResp.Status, apiResp.ErrorMessage)
	}

	return &apiResp, nil
}

func (g *GooglePlacesProvider) buildURL(lat, lng float64, radiusMeters int, keyword, pageToken string) string {
	params := url.Values{}
	params.Set("location", fmt.Sprintf("%f,%f", lat, lng))
	params.Set("radius", fmt.Sprintf("%d", radiusMeters))
	params.Set("keyword", keyword)
	params.Set("key", g.apiKey)
	if pageToken != "" {
		params.Set("pagetoken", pageToken)
	}
	return fmt.Sprintf("%s?%s", g.endpoint, params.Encode())
}

// --- structs for parsing the Places API response ---

type nearbySearchResponse struct {
	Results       []placeResult `json:"results"`
	NextPageToken string        `json:"next_page_token"`
	Status        string        `json:"status"`
	ErrorMessage  string        `json:"error_message,omitempty"`
}
type placeResult struct {
	PlaceID  string        `json:"place_id"`
	Name     string        `json:"name"`
	Geometry placeGeometry `json:"geometry"`
}
type placeGeometry struct {
	Location placeLocation `json:"location"`
}
type placeLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
