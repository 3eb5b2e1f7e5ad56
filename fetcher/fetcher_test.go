package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"faq-auditor/utils"
)

func TestFetchText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("request carried no User-Agent")
		}
		w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	c := NewClient(utils.NewLogger())
	body, err := c.FetchText(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchText: %v", err)
	}
	if body != "<html>ok</html>" {
		t.Errorf("body = %q", body)
	}
}

func TestFetchTextNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(utils.NewLogger())
	_, err := c.FetchText(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error for 404")
	}
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("error type = %T", err)
	}
	if fe.Status != http.StatusNotFound {
		t.Errorf("status = %d", fe.Status)
	}
}

func TestProbeOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/faq":
			w.WriteHeader(http.StatusOK)
		case "/no-head":
			// Rejects HEAD but answers GET, like some CDN edges.
			if r.Method == http.MethodHead {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(utils.NewLogger())
	tests := []struct {
		path string
		want bool
	}{
		{"/faq", true},
		{"/no-head", true},
		{"/missing", false},
	}
	for _, tt := range tests {
		if got := c.ProbeOK(context.Background(), srv.URL+tt.path); got != tt.want {
			t.Errorf("ProbeOK(%s) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
