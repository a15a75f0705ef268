// Package market implements the listing gateway: reads and writes against
// the product and favorites resources, plus the browse loop that keeps
// search/pagination state consistent under concurrent requests.
package market

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/vlasovmk/marketctl/internal/api"
	"github.com/vlasovmk/marketctl/internal/errs"
	"github.com/vlasovmk/marketctl/internal/model"
)

// CurrentUser yields the session's user, nil when anonymous. The gateway
// only reads it; the auth controller is the single writer.
type CurrentUser func() *model.User

// Page is one page of listings together with the cursor that produced it,
// so callers can discard responses that no longer match their state.
type Page struct {
	Products []model.Product
	Pages    int
	Cursor   Cursor
}

// Draft holds the user-editable listing fields. All are required before a
// create or update call is attempted; nothing empty reaches the network.
type Draft struct {
	Title       string  `json:"title" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
	Description string  `json:"description" validate:"required"`
	Image       string  `json:"image" validate:"required,uri"`
}

// Gateway performs all product and favorites operations through the API
// client. Mutations require a session; reads do not.
type Gateway struct {
	api      *api.Client
	current  CurrentUser
	validate *validator.Validate
	log      *zap.Logger
}

// New builds a gateway. current may not be nil; log defaults to nop.
func New(client *api.Client, current CurrentUser, log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{
		api:      client,
		current:  current,
		validate: validator.New(),
		log:      log,
	}
}

type listResponse struct {
	Products []model.Product `json:"products"`
	Pages    int             `json:"pages"`
}

// List fetches one page of listings. The page is clamped to >= 1 before
// the call and to the server-reported total after it: a request beyond the
// last page is re-issued for the last page instead of returning nothing.
func (g *Gateway) List(ctx context.Context, cur Cursor) (Page, error) {
	cur = cur.WithPage(cur.Page)

	resp, err := g.fetch(ctx, cur)
	if err != nil {
		return Page{}, err
	}
	if clamped := cur.ClampTo(resp.Pages); clamped != cur {
		cur = clamped
		if resp, err = g.fetch(ctx, cur); err != nil {
			return Page{}, err
		}
	}
	return Page{Products: resp.Products, Pages: resp.Pages, Cursor: cur}, nil
}

func (g *Gateway) fetch(ctx context.Context, cur Cursor) (listResponse, error) {
	q := url.Values{}
	q.Set("search", cur.Search)
	q.Set("page", strconv.Itoa(cur.Page))
	q.Set("limit", strconv.Itoa(PageSize))

	var resp listResponse
	if err := g.api.Do(ctx, http.MethodGet, "/products", q, nil, &resp); err != nil {
		return listResponse{}, err
	}
	return resp, nil
}

// Get fetches a single listing by id. A missing listing is ErrNotFound,
// which the view renders as an explicit not-found state.
func (g *Gateway) Get(ctx context.Context, id string) (model.Product, error) {
	var resp struct {
		Product model.Product `json:"product"`
	}
	if err := g.api.Do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, nil, &resp); err != nil {
		return model.Product{}, err
	}
	return resp.Product, nil
}

// Create publishes a new listing owned by the current user.
func (g *Gateway) Create(ctx context.Context, d Draft) error {
	if err := g.requireSession("log in to create a listing"); err != nil {
		return err
	}
	if err := g.checkDraft(d); err != nil {
		return err
	}
	return g.api.Do(ctx, http.MethodPost, "/products", nil, d, nil)
}

// Update replaces the editable fields of a listing. Ownership is enforced
// by the server; the client only hides the action from non-owners.
func (g *Gateway) Update(ctx context.Context, id string, d Draft) error {
	if err := g.requireSession("log in to edit a listing"); err != nil {
		return err
	}
	if err := g.checkDraft(d); err != nil {
		return err
	}
	return g.api.Do(ctx, http.MethodPut, "/products/"+url.PathEscape(id), nil, d, nil)
}

// Delete removes a listing permanently. Owner-only, no soft delete.
func (g *Gateway) Delete(ctx context.Context, id string) error {
	if err := g.requireSession("log in to delete a listing"); err != nil {
		return err
	}
	return g.api.Do(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil, nil)
}

func (g *Gateway) requireSession(prompt string) error {
	if g.current() == nil {
		return errs.Unauthenticated(prompt)
	}
	return nil
}

func (g *Gateway) checkDraft(d Draft) error {
	if err := g.validate.Struct(d); err != nil {
		if fields, ok := err.(validator.ValidationErrors); ok && len(fields) > 0 {
			f := fields[0]
			switch f.Tag() {
			case "gte":
				return errs.Validation("price must not be negative")
			case "uri":
				return errs.Validation("image must be a valid URL")
			default:
				return errs.Validation(strings.ToLower(f.Field()) + " is required")
			}
		}
		return errs.Validation("invalid listing fields")
	}
	return nil
}
