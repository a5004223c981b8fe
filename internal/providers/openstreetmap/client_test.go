package openstreetmap

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClient_Lookup(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		lang        string
		wantErr     bool
		errContains string
		validate    func(*testing.T, *LookupAPIResponse)
	}{
		{
			name:   "success",
			status: http.StatusOK,
			lang:   "ar",
			body: `{"place_id":1,"name":"Amman","display_name":"Amman, Jordan",
				"address":{"city":"Amman","state":"Amman Governorate","country":"Jordan","country_code":"jo"}}`,
			validate: func(t *testing.T, r *LookupAPIResponse) {
				if r.Address.Locality() != "Amman" {
					t.Errorf("Locality() = %q, want Amman", r.Address.Locality())
				}
				if r.Address.State != "Amman Governorate" {
					t.Errorf("State = %q", r.Address.State)
				}
			},
		},
		{
			name:        "unable to geocode",
			status:      http.StatusOK,
			body:        `{"error":"Unable to geocode"}`,
			wantErr:     true,
			errContains: "Unable to geocode",
		},
		{
			name:        "server error",
			status:      http.StatusServiceUnavailable,
			body:        "busy",
			wantErr:     true,
			errContains: "status 503",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				if q.Get("format") != "json" {
					t.Errorf("format = %q, want json", q.Get("format"))
				}
				if q.Get("accept-language") != tt.lang {
					t.Errorf("accept-language = %q, want %q", q.Get("accept-language"), tt.lang)
				}
				if r.Header.Get("User-Agent") != "charity-web-test" {
					t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			client := NewClient(server.URL+"/reverse", "charity-web-test", server.Client(), logger)

			got, err := client.Lookup(context.Background(), 31.95, 35.91, tt.lang)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Lookup() expected error but got none")
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("Lookup() error = %v, want error containing %v", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("Lookup() unexpected error = %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, got)
			}
		})
	}
}

func TestAddress_Locality(t *testing.T) {
	tests := []struct {
		address Address
		want    string
	}{
		{Address{City: "Cairo", Town: "x"}, "Cairo"},
		{Address{Town: "Jerash"}, "Jerash"},
		{Address{Village: "Ajloun"}, "Ajloun"},
		{Address{County: "Pitkin County"}, "Pitkin County"},
		{Address{}, ""},
	}

	for _, tt := range tests {
		if got := tt.address.Locality(); got != tt.want {
			t.Errorf("Locality() = %q, want %q", got, tt.want)
		}
	}
}
