package market

import (
	"context"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

// FavoriteSet is the current user's favorited listing ids.
type FavoriteSet map[string]struct{}

// Has reports membership.
func (s FavoriteSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Favorites fetches the favorited listings for the current user. Requires
// a session; favorites are never cached across sessions.
func (g *Gateway) Favorites(ctx context.Context) (FavoriteSet, error) {
	if err := g.requireSession("log in to see favorites"); err != nil {
		return nil, err
	}
	var resp struct {
		Favorites []struct {
			ID string `json:"_id"`
		} `json:"favorites"`
	}
	if err := g.api.Do(ctx, http.MethodGet, "/favorites", nil, nil, &resp); err != nil {
		return nil, err
	}
	set := make(FavoriteSet, len(resp.Favorites))
	for _, f := range resp.Favorites {
		set[f.ID] = struct{}{}
	}
	return set, nil
}

// Toggle flips the favorite relation for one listing: a remove when it is
// currently favorited, an add otherwise. It reports the new state only
// after the server confirms; on error the caller's set must stay as it was.
func (g *Gateway) Toggle(ctx context.Context, id string, favorited bool) (bool, error) {
	if err := g.requireSession("log in to favorite products"); err != nil {
		return favorited, err
	}
	path := "/favorites/" + url.PathEscape(id)
	if favorited {
		if err := g.api.Do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
			return favorited, err
		}
		g.log.Debug("favorite removed", zap.String("product", id))
		return false, nil
	}
	if err := g.api.Do(ctx, http.MethodPost, path, nil, nil, nil); err != nil {
		return favorited, err
	}
	g.log.Debug("favorite added", zap.String("product", id))
	return true, nil
}
