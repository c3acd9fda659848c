package apod

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/litescript/apod-desktop/internal/apperr"
)

func TestNewFetcher_Defaults(t *testing.T) {
	f := NewFetcher()

	if f.URL() != DefaultSiteURL {
		t.Errorf("URL = %q, want %q", f.URL(), DefaultSiteURL)
	}
	if f.client.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", f.client.Timeout, DefaultTimeout)
	}
}

func TestNewFetcher_Options(t *testing.T) {
	client := &http.Client{Timeout: time.Second}
	f := NewFetcher(WithURL("http://example.test/apod/"), WithHTTPClient(client))

	if f.URL() != "http://example.test/apod/" {
		t.Errorf("URL = %q", f.URL())
	}
	if f.client != client {
		t.Error("custom client not used")
	}
}

func TestFetchLatest(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(realisticPage))
	}))
	defer srv.Close()

	f := NewFetcher(WithURL(srv.URL + "/apod/"))
	latest, err := f.FetchLatest(context.Background())
	if err != nil {
		t.Fatalf("FetchLatest: %v", err)
	}

	if latest.ImageURL != srv.URL+"/apod/image/2406/OrionNebula_Webb_2048.jpg" {
		t.Errorf("ImageURL = %q", latest.ImageURL)
	}
	if latest.Title != "The Orion Nebula in Infrared" {
		t.Errorf("Title = %q", latest.Title)
	}
	if !strings.HasPrefix(gotUA, "apod-desktop/") {
		t.Errorf("User-Agent = %q", gotUA)
	}
}

func TestFetchLatest_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "down", http.StatusServiceUnavailable)
			},
			want: apperr.ErrNetwork,
		},
		{
			name: "unexpected markup",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html><body>maintenance</body></html>"))
			},
			want: apperr.ErrParse,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			_, err := NewFetcher(WithURL(srv.URL)).FetchLatest(context.Background())
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestFetchLatest_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := NewFetcher(WithURL(addr), WithTimeout(time.Second)).FetchLatest(context.Background())
	if !errors.Is(err, apperr.ErrNetwork) {
		t.Errorf("err = %v, want network error", err)
	}
}
