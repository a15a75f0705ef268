package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/vlasovmk/marketctl/internal/api"
	"github.com/vlasovmk/marketctl/internal/errs"
	"github.com/vlasovmk/marketctl/internal/model"
)

type noTokens struct{}

func (noTokens) Token() string { return "" }

func anonymous() *model.User { return nil }

func loggedIn(id string) CurrentUser {
	u := model.User{ID: id, Name: "Tester"}
	return func() *model.User { return &u }
}

// listServer serves /products over a fixed catalog of n titles, limit per
// page as requested, and records every query it saw.
func listServer(t *testing.T, titles []string) (*httptest.Server, *[]string) {
	t.Helper()
	var mu sync.Mutex
	queries := []string{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		queries = append(queries, r.URL.RawQuery)
		mu.Unlock()

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if page < 1 {
			page = 1
		}
		pages := (len(titles) + limit - 1) / limit
		if pages == 0 {
			pages = 1
		}
		var out []map[string]any
		if page <= pages {
			lo := (page - 1) * limit
			hi := lo + limit
			if hi > len(titles) {
				hi = len(titles)
			}
			for i, title := range titles[lo:hi] {
				out = append(out, map[string]any{"_id": fmt.Sprintf("p%d", lo+i), "title": title, "user": "u1"})
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"products": out, "pages": pages})
	}))
	return srv, &queries
}

func manyTitles(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("item %d", i)
	}
	return out
}

func TestGateway_ListSendsCursor(t *testing.T) {
	t.Parallel()
	srv, queries := listServer(t, manyTitles(15))
	defer srv.Close()
	gw := New(api.New(srv.URL, noTokens{}), anonymous, nil)

	p, err := gw.List(context.Background(), Cursor{Search: "chair", Page: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if p.Pages != 3 || p.Cursor != (Cursor{Search: "chair", Page: 2}) {
		t.Fatalf("page = %+v", p)
	}
	if len(p.Products) != PageSize {
		t.Fatalf("got %d products, want %d", len(p.Products), PageSize)
	}
	want := "limit=6&page=2&search=chair"
	if (*queries)[0] != want {
		t.Fatalf("query = %q, want %q", (*queries)[0], want)
	}
}

func TestGateway_ListClampsNonPositivePage(t *testing.T) {
	t.Parallel()
	srv, queries := listServer(t, manyTitles(3))
	defer srv.Close()
	gw := New(api.New(srv.URL, noTokens{}), anonymous, nil)

	p, err := gw.List(context.Background(), Cursor{Page: -2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if p.Cursor.Page != 1 {
		t.Fatalf("cursor page = %d, want 1", p.Cursor.Page)
	}
	if len(*queries) != 1 {
		t.Fatalf("%d requests, want 1", len(*queries))
	}
}

func TestGateway_ListClampsBeyondLastPage(t *testing.T) {
	t.Parallel()
	srv, queries := listServer(t, manyTitles(15)) // 3 pages at limit 6
	defer srv.Close()
	gw := New(api.New(srv.URL, noTokens{}), anonymous, nil)

	p, err := gw.List(context.Background(), Cursor{Page: 4})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if p.Cursor.Page != 3 || p.Pages != 3 {
		t.Fatalf("page = %+v, want clamp to last page", p.Cursor)
	}
	if len(p.Products) != 3 {
		t.Fatalf("got %d products on last page, want 3", len(p.Products))
	}
	// One probe past the end, one re-fetch of the real last page.
	if len(*queries) != 2 {
		t.Fatalf("%d requests, want 2", len(*queries))
	}
}

func TestGateway_GetNotFound(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"product not found"}`))
	}))
	defer srv.Close()
	gw := New(api.New(srv.URL, noTokens{}), anonymous, nil)

	_, err := gw.Get(context.Background(), "nope")
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestGateway_MutationsRequireSession(t *testing.T) {
	t.Parallel()
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hits++ }))
	defer srv.Close()
	gw := New(api.New(srv.URL, noTokens{}), anonymous, nil)
	ctx := context.Background()
	draft := Draft{Title: "Lamp", Price: 500, Description: "desk lamp", Image: "http://x/y.jpg"}

	if err := gw.Create(ctx, draft); !errors.Is(err, errs.ErrUnauthenticated) {
		t.Fatalf("Create err = %v", err)
	}
	if err := gw.Update(ctx, "p1", draft); !errors.Is(err, errs.ErrUnauthenticated) {
		t.Fatalf("Update err = %v", err)
	}
	if err := gw.Delete(ctx, "p1"); !errors.Is(err, errs.ErrUnauthenticated) {
		t.Fatalf("Delete err = %v", err)
	}
	if _, err := gw.Favorites(ctx); !errors.Is(err, errs.ErrUnauthenticated) {
		t.Fatalf("Favorites err = %v", err)
	}
	if _, err := gw.Toggle(ctx, "p1", false); !errors.Is(err, errs.ErrUnauthenticated) {
		t.Fatalf("Toggle err = %v", err)
	}
	if hits != 0 {
		t.Fatalf("%d requests reached the network while anonymous", hits)
	}
}

func TestGateway_DraftValidationBeforeNetwork(t *testing.T) {
	t.Parallel()
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hits++ }))
	defer srv.Close()
	gw := New(api.New(srv.URL, noTokens{}), loggedIn("u1"), nil)
	ctx := context.Background()

	cases := []Draft{
		{Price: 1, Description: "d", Image: "http://x/y.jpg"},               // no title
		{Title: "T", Price: 1, Image: "http://x/y.jpg"},                     // no description
		{Title: "T", Price: 1, Description: "d"},                            // no image
		{Title: "T", Price: -5, Description: "d", Image: "http://x/y.jpg"},  // negative price
		{Title: "T", Price: 1, Description: "d", Image: "::not a url"},      // bad image
	}
	for i, d := range cases {
		if err := gw.Create(ctx, d); !errors.Is(err, errs.ErrValidation) {
			t.Fatalf("case %d: err = %v, want validation", i, err)
		}
		if err := gw.Update(ctx, "p1", d); !errors.Is(err, errs.ErrValidation) {
			t.Fatalf("case %d: update err = %v, want validation", i, err)
		}
	}
	if hits != 0 {
		t.Fatalf("%d invalid drafts reached the network", hits)
	}
}

func TestGateway_ToggleIssuesAddThenRemove(t *testing.T) {
	t.Parallel()
	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method+" "+r.URL.Path)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()
	gw := New(api.New(srv.URL, noTokens{}), loggedIn("u1"), nil)
	ctx := context.Background()

	now, err := gw.Toggle(ctx, "p1", false)
	if err != nil || !now {
		t.Fatalf("Toggle add = %v, %v", now, err)
	}
	now, err = gw.Toggle(ctx, "p1", true)
	if err != nil || now {
		t.Fatalf("Toggle remove = %v, %v", now, err)
	}
	if len(methods) != 2 || methods[0] != "POST /favorites/p1" || methods[1] != "DELETE /favorites/p1" {
		t.Fatalf("methods = %v", methods)
	}
}

func TestGateway_ToggleFailureReportsOldState(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"boom"}`))
	}))
	defer srv.Close()
	gw := New(api.New(srv.URL, noTokens{}), loggedIn("u1"), nil)

	now, err := gw.Toggle(context.Background(), "p1", false)
	if err == nil {
		t.Fatalf("want error")
	}
	if now != false {
		t.Fatalf("failed toggle changed reported state")
	}
}

func TestGateway_FavoritesSet(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"favorites":[{"_id":"p1"},{"_id":"p7"}]}`))
	}))
	defer srv.Close()
	gw := New(api.New(srv.URL, noTokens{}), loggedIn("u1"), nil)

	set, err := gw.Favorites(context.Background())
	if err != nil {
		t.Fatalf("Favorites: %v", err)
	}
	if len(set) != 2 || !set.Has("p1") || !set.Has("p7") || set.Has("p2") {
		t.Fatalf("set = %v", set)
	}
}
