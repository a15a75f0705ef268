// Package model defines domain entities shared by the session, auth, and
// listing layers.
package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// User is a marketplace account profile as returned by the auth endpoints.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Session couples the bearer token with the profile it was issued for.
// The two are always persisted and cleared together.
type Session struct {
	Token string
	User  User
}

// Product is a single marketplace listing. Owner is immutable from the
// client's perspective once set at creation.
type Product struct {
	ID          string   `json:"_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Image       string   `json:"image"`
	Owner       OwnerRef `json:"user"`
}

// OwnerRef is the listing's owner reference on the wire: either an embedded
// profile object or a bare id string. It normalizes both forms to a single
// canonical id so ownership checks never inspect the raw shape.
type OwnerRef struct {
	id   string
	name string
}

// NewOwnerRef builds an owner reference from known parts (used by tests and
// the stub server).
func NewOwnerRef(id, name string) OwnerRef {
	return OwnerRef{id: id, name: name}
}

// ID returns the canonical owner id string, empty when no owner is set.
func (o OwnerRef) ID() string { return o.id }

// Name returns the owner's display name when the wire carried an embedded
// profile, empty otherwise.
func (o OwnerRef) Name() string { return o.name }

func (o *OwnerRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*o = OwnerRef{}
		return nil
	}
	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*o = OwnerRef{id: strings.TrimSpace(id)}
		return nil
	}
	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return err
	}
	*o = OwnerRef{id: strings.TrimSpace(u.ID), name: u.Name}
	return nil
}

func (o OwnerRef) MarshalJSON() ([]byte, error) {
	if o.name == "" {
		return json.Marshal(o.id)
	}
	return json.Marshal(User{ID: o.id, Name: o.name})
}

// IsOwner reports whether user may mutate the listing. Advisory only: it
// gates which actions the view exposes, the server re-enforces ownership on
// every mutating call.
func IsOwner(p Product, user *User) bool {
	if user == nil || user.ID == "" {
		return false
	}
	return p.Owner.ID() == user.ID
}
