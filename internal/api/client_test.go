package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/vlasovmk/marketctl/internal/errs"
)

type staticTokens struct{ tok string }

func (s *staticTokens) Token() string { return s.tok }

func TestClient_BearerInjection(t *testing.T) {
	t.Parallel()
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tokens := &staticTokens{tok: "abc"}
	c := New(srv.URL, tokens)

	if err := c.Do(context.Background(), http.MethodGet, "/products", nil, nil, nil); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if got != "Bearer abc" {
		t.Fatalf("Authorization = %q", got)
	}

	// The token source is consulted per request, not cached.
	tokens.tok = ""
	if err := c.Do(context.Background(), http.MethodGet, "/products", nil, nil, nil); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if got != "" {
		t.Fatalf("Authorization = %q after token cleared, want unset", got)
	}
}

func TestClient_QueryAndDecode(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("search") != "chair" || r.URL.Query().Get("page") != "2" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pages":3}`))
	}))
	defer srv.Close()

	c := New(srv.URL, &staticTokens{})
	q := url.Values{}
	q.Set("search", "chair")
	q.Set("page", "2")

	var out struct {
		Pages int `json:"pages"`
	}
	if err := c.Do(context.Background(), http.MethodGet, "/products", q, nil, &out); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if out.Pages != 3 {
		t.Fatalf("pages = %d", out.Pages)
	}
}

func TestClient_ServerMessageVerbatim(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"only the seller can modify this listing"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, &staticTokens{tok: "abc"})
	err := c.Do(context.Background(), http.MethodPut, "/products/p1", nil, map[string]string{"title": "x"}, nil)
	if !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("err = %v, want forbidden", err)
	}
	if errs.Message(err) != "only the seller can modify this listing" {
		t.Fatalf("message = %q", errs.Message(err))
	}
}

func TestClient_NetworkFailureIsTransport(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := New(srv.URL, &staticTokens{})
	err := c.Do(context.Background(), http.MethodGet, "/products", nil, nil, nil)
	if !errors.Is(err, errs.ErrTransport) {
		t.Fatalf("err = %v, want transport", err)
	}
}

func TestClient_MalformedBodyIsTransport(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"products": [`))
	}))
	defer srv.Close()

	c := New(srv.URL, &staticTokens{})
	var out map[string]any
	err := c.Do(context.Background(), http.MethodGet, "/products", nil, nil, &out)
	if !errors.Is(err, errs.ErrTransport) {
		t.Fatalf("err = %v, want transport", err)
	}
}
