package market

import (
	"context"
	"sync"
)

// Browser is the stateful browse loop behind the listings view. It owns
// the current cursor and favorite set, and guards against out-of-order
// network completions: every request is tagged with the cursor that issued
// it, a superseded in-flight request is cancelled, and a response whose
// tag no longer matches the current cursor is discarded instead of being
// applied.
type Browser struct {
	gw     *Gateway
	onPage func(Page, error)

	mu        sync.Mutex
	cursor    Cursor
	page      Page
	favorites FavoriteSet
	gen       uint64
	cancel    context.CancelFunc
}

// NewBrowser builds a browser over the gateway. onPage receives each page
// (or error) that survives the staleness check; it may be nil when the
// caller polls Snapshot instead.
func NewBrowser(gw *Gateway, onPage func(Page, error)) *Browser {
	return &Browser{
		gw:        gw,
		onPage:    onPage,
		cursor:    Cursor{Page: 1},
		favorites: FavoriteSet{},
	}
}

// SetSearch issues a query for the new search text, resetting to page 1.
func (b *Browser) SetSearch(ctx context.Context, search string) {
	b.mu.Lock()
	cur := b.cursor.WithSearch(search)
	b.issueLocked(ctx, cur)
}

// SetPage issues a query for the requested page, clamped to the known page
// range.
func (b *Browser) SetPage(ctx context.Context, page int) {
	b.mu.Lock()
	cur := b.cursor.WithPage(page).ClampTo(b.page.Pages)
	b.issueLocked(ctx, cur)
}

// Refresh re-issues the query for the current cursor.
func (b *Browser) Refresh(ctx context.Context) {
	b.mu.Lock()
	b.issueLocked(ctx, b.cursor)
}

// issueLocked starts a request for cur. The caller must hold mu; it is
// released here. Bumping gen and cancelling the previous context is what
// retires an in-flight request.
func (b *Browser) issueLocked(ctx context.Context, cur Cursor) {
	b.gen++
	gen := b.gen
	if b.cancel != nil {
		b.cancel()
	}
	rctx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	b.cursor = cur
	b.mu.Unlock()

	go func() {
		page, err := b.gw.List(rctx, cur)
		cancel()

		b.mu.Lock()
		if gen != b.gen {
			// A newer request owns the view now.
			b.mu.Unlock()
			return
		}
		if err == nil {
			b.page = page
			// List may have clamped the page server-side.
			b.cursor = page.Cursor
		}
		cb := b.onPage
		b.mu.Unlock()

		if cb != nil {
			cb(page, err)
		}
	}()
}

// Snapshot returns the current cursor and last applied page.
func (b *Browser) Snapshot() (Cursor, Page) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursor, b.page
}

// LoadFavorites replaces the local favorite set from the server. It is a
// no-op for anonymous sessions: the set stays empty.
func (b *Browser) LoadFavorites(ctx context.Context) error {
	if b.gw.current() == nil {
		b.mu.Lock()
		b.favorites = FavoriteSet{}
		b.mu.Unlock()
		return nil
	}
	set, err := b.gw.Favorites(ctx)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.favorites = set
	b.mu.Unlock()
	return nil
}

// ToggleFavorite flips membership for one listing. The local set changes
// only after the server confirms; a failed call leaves it untouched.
func (b *Browser) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	b.mu.Lock()
	was := b.favorites.Has(id)
	b.mu.Unlock()

	now, err := b.gw.Toggle(ctx, id, was)
	if err != nil {
		return was, err
	}

	b.mu.Lock()
	if now {
		b.favorites[id] = struct{}{}
	} else {
		delete(b.favorites, id)
	}
	b.mu.Unlock()
	return now, nil
}

// IsFavorite reports local membership for one listing.
func (b *Browser) IsFavorite(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.favorites.Has(id)
}

// Close cancels any in-flight request, detaching the browser from its view.
func (b *Browser) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gen++
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
}
