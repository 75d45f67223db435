package location

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCityWithCountry(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr string
	}{
		{name: "city and country", body: `{"city":"Chicago","country":"United States"}`, want: "Chicago, United States"},
		{name: "city only", body: `{"city":"Atlantis"}`, want: "Atlantis"},
		{name: "service error", body: `{"error":{"code":"006","message":"Request Throttled."}}`, wantErr: "Request Throttled."},
		{name: "error without message", body: `{"city":"","error":{"code":"018","description":"Invalid query"}}`, wantErr: "Invalid query"},
		{name: "empty error", body: `{"error":{}}`, wantErr: "geocode request failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath, gotQuery string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotQuery = r.URL.RawQuery
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := New(Options{BaseURL: srv.URL + "/"})
			got, err := client.CityWithCountry(context.Background(), 41.88, -87.63)

			if gotPath != "/41.88,-87.63" || gotQuery != "json=1" {
				t.Fatalf("unexpected request %s?%s", gotPath, gotQuery)
			}
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("expected error %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("lookup: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCityWithCountry_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(Options{BaseURL: url}).CityWithCountry(context.Background(), 1, 2)
	if err == nil {
		t.Fatal("expected transport error")
	}
}
