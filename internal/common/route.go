package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	ErrNoRoutes     = errors.New("route provider returned no routes")
	ErrRouteRequest = errors.New("route provider request failed")
)

// polylineStride keeps every n-th waypoint of the raw geometry; the full
// OSRM polyline is far denser than the simulator needs.
const polylineStride = 3

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Geometry struct {
			// [lon, lat] pairs, GeoJSON order.
			Coordinates [][2]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// RouteClient fetches driving routes from an OSRM-compatible endpoint.
type RouteClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewRouteClient(baseURL string) *RouteClient {
	return &RouteClient{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Route returns an ordered polyline from `from` to `to`.
func (r *RouteClient) Route(ctx context.Context, from, to Coordinates) ([]Coordinates, error) {
	url := fmt.Sprintf(
		"%s/%f,%f;%f,%f?overview=full&steps=true&geometries=geojson",
		r.BaseURL, from.Lon, from.Lat, to.Lon, to.Lat,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRouteRequest, err)
	}

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRouteRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrRouteRequest, resp.StatusCode)
	}

	var result osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRouteRequest, err)
	}

	if result.Code != "Ok" || len(result.Routes) == 0 {
		return nil, fmt.Errorf("%w (code: %s)", ErrNoRoutes, result.Code)
	}

	raw := result.Routes[0].Geometry.Coordinates
	route := make([]Coordinates, 0, len(raw)/polylineStride+1)
	for i := 0; i < len(raw); i += polylineStride {
		route = append(route, Coordinates{Lat: raw[i][1], Lon: raw[i][0]})
	}
	return route, nil
}
