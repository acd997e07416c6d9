package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func osrmServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
}

func TestRoute_StridesGeometry(t *testing.T) {
	// 7 raw points, stride 3 keeps indexes 0, 3, 6.
	body := `{"code":"Ok","routes":[{"geometry":{"coordinates":[
		[30.30,59.90],[30.31,59.91],[30.32,59.92],[30.33,59.93],
		[30.34,59.94],[30.35,59.95],[30.36,59.96]]}}]}`
	srv := osrmServer(t, body, http.StatusOK)
	defer srv.Close()

	client := NewRouteClient(srv.URL)
	route, err := client.Route(context.Background(), NewCoordinates(59.90, 30.30), NewCoordinates(59.96, 30.36))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(route) != 3 {
		t.Fatalf("expected 3 waypoints, got %d", len(route))
	}
	if route[0].Lat != 59.90 || route[0].Lon != 30.30 {
		t.Fatalf("first waypoint mismatch: %+v", route[0])
	}
	if route[2].Lat != 59.96 || route[2].Lon != 30.36 {
		t.Fatalf("last waypoint mismatch: %+v", route[2])
	}
}

func TestRoute_NoRoutes(t *testing.T) {
	srv := osrmServer(t, `{"code":"NoRoute","routes":[]}`, http.StatusOK)
	defer srv.Close()

	client := NewRouteClient(srv.URL)
	_, err := client.Route(context.Background(), NewCoordinates(59.9, 30.3), NewCoordinates(59.96, 30.36))
	if !errors.Is(err, ErrNoRoutes) {
		t.Fatalf("expected ErrNoRoutes, got %v", err)
	}
}

func TestRoute_BadStatus(t *testing.T) {
	srv := osrmServer(t, `gateway timeout`, http.StatusBadGateway)
	defer srv.Close()

	client := NewRouteClient(srv.URL)
	_, err := client.Route(context.Background(), NewCoordinates(59.9, 30.3), NewCoordinates(59.96, 30.36))
	if !errors.Is(err, ErrRouteRequest) {
		t.Fatalf("expected ErrRouteRequest, got %v", err)
	}
}

func TestReached_Tolerance(t *testing.T) {
	pt := NewCoordinates(59.900000, 30.320000)

	if !NewCoordinates(59.900049, 30.320049).Reached(pt) {
		t.Fatal("a position inside the tolerance must count as reached")
	}
	if NewCoordinates(59.900051, 30.320000).Reached(pt) {
		t.Fatal("a latitude outside the tolerance must not count as reached")
	}
	if NewCoordinates(59.900000, 30.320051).Reached(pt) {
		t.Fatal("a longitude outside the tolerance must not count as reached")
	}
}

func TestValidateLatLon(t *testing.T) {
	if err := ValidateLatLon(59.9, 30.3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateLatLon(91, 0); err == nil {
		t.Fatal("expected latitude out of range")
	}
	if err := ValidateLatLon(0, -181); err == nil {
		t.Fatal("expected longitude out of range")
	}
}
