// Package auth owns the current session: who is logged in, how a session
// starts and ends, and where the user lands afterwards. It is the single
// writer of the session store; everything else only reads.
package auth

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/vlasovmk/marketctl/internal/api"
	"github.com/vlasovmk/marketctl/internal/errs"
	"github.com/vlasovmk/marketctl/internal/model"
	"github.com/vlasovmk/marketctl/internal/session"
)

// Navigator is invoked on session transitions: to the listings view after
// login/register, to the login view after logout.
type Navigator interface {
	ToListings()
	ToLogin()
}

// NopNavigator satisfies Navigator without doing anything.
type NopNavigator struct{}

func (NopNavigator) ToListings() {}
func (NopNavigator) ToLogin()    {}

// Controller drives login/register/logout and holds the in-memory current
// user. Store writes and the in-memory transition happen as one step: on
// any failure neither changes.
type Controller struct {
	api   *api.Client
	store *session.Store
	nav   Navigator
	log   *zap.Logger

	user *model.User
}

// New builds a controller, deriving the initial state from the persisted
// session store.
func New(client *api.Client, store *session.Store, nav Navigator, log *zap.Logger) *Controller {
	if nav == nil {
		nav = NopNavigator{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	c := &Controller{api: client, store: store, nav: nav, log: log}
	if sess, ok := store.Load(); ok {
		u := sess.User
		c.user = &u
	}
	return c
}

// Current returns the in-memory user, nil when anonymous.
func (c *Controller) Current() *model.User {
	return c.user
}

// authResponse is the auth endpoints' success body: the profile with the
// token alongside.
type authResponse struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// Login authenticates against POST /auth/login. On success the store and
// the in-memory user reflect the new session and navigation moves to the
// listings view.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return errs.Validation("email and password are required")
	}
	body := map[string]string{"email": email, "password": password}
	return c.establish(ctx, "/auth/login", body, "Login failed")
}

// Register creates an account via POST /auth/register with the same session
// contract as Login.
func (c *Controller) Register(ctx context.Context, name, email, password string) error {
	if name == "" || email == "" || password == "" {
		return errs.Validation("name, email and password are required")
	}
	body := map[string]string{"name": name, "email": email, "password": password}
	return c.establish(ctx, "/auth/register", body, "Register failed")
}

func (c *Controller) establish(ctx context.Context, path string, body any, fallback string) error {
	var resp authResponse
	if err := c.api.Do(ctx, http.MethodPost, path, nil, body, &resp); err != nil {
		// Only a server response is a rejection; network-level failures
		// stay transport errors so the view does not blame the credentials.
		var apiErr *errs.APIError
		if !errors.As(err, &apiErr) {
			return err
		}
		msg := errs.ServerMessage(err)
		if msg == "" {
			msg = fallback
		}
		return errs.Unauthenticated(msg)
	}
	if resp.Token == "" || resp.ID == "" {
		return errs.Unauthenticated(fallback)
	}

	user := model.User{ID: resp.ID, Name: resp.Name, Email: resp.Email}
	if err := c.store.Save(resp.Token, user); err != nil {
		return err
	}
	c.user = &user
	c.log.Info("session established", zap.String("user", user.Name))
	c.nav.ToListings()
	return nil
}

// Logout ends the session unconditionally. It never fails: a store error is
// logged and the in-memory state still resets. Calling it twice is safe.
func (c *Controller) Logout() {
	if err := c.store.Clear(); err != nil {
		c.log.Warn("clearing session store", zap.Error(err))
	}
	c.user = nil
	c.nav.ToLogin()
}
